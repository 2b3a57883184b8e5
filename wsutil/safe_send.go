package wsutil

import "log/slog"

// SafeSend queues data on ch without blocking and without panicking if ch has been closed by the
// hub. It reports whether the data was queued; a full or closed channel drops the message.
func SafeSend(ch chan []byte, data []byte) (sent bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("send on closed channel", "tag", "wsutil", "panic", r)
			sent = false
		}
	}()
	select {
	case ch <- data:
		return true
	default:
		slog.Warn("send buffer full, dropping message", "tag", "wsutil", "bytes", len(data))
		return false
	}
}
