package loghandler

import (
	"io"
	"log/slog"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// Log formats accepted by New.
const (
	FormatCompact = "compact"
	FormatPretty  = "pretty"
)

// New returns the handler for format: the compact line handler, or charmbracelet/log's
// colored output for "pretty". Unknown formats fall back to compact.
func New(w io.Writer, format string, level slog.Level) slog.Handler {
	if format == FormatPretty {
		return charmlog.NewWithOptions(w, charmlog.Options{
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
			Level:           charmlog.Level(level),
			Prefix:          "goita",
		})
	}
	return NewCompactHandler(w, level)
}
