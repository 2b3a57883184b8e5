package ws

import (
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"

	"goita-server/auth"
	"goita-server/game"
	"goita-server/matcherrors"
	"goita-server/protocol"
	"goita-server/wsutil"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	defaultName = "Player"
)

// Client is a middleman between the websocket connection and a room's game loop.
// Game and Seat are only touched by the ReadPump goroutine.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	RoomID string
	Name   string
	UserID string
	Game   *game.Game
	Seat   int
}

// ReadPump pumps messages from the websocket connection to the game.
// It runs in its own goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		c.leave()
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "tag", "ws", "err", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump pumps messages from the send channel to the websocket connection.
// It runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage decodes one frame and forwards it. Malformed frames are logged and dropped.
func (c *Client) handleMessage(data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		slog.Warn("dropping malformed message", "tag", "ws", "room", c.RoomID, "seat", c.Seat, "err", err)
		return
	}

	if join, ok := msg.(protocol.Join); ok {
		c.handleJoin(join)
		return
	}

	action, ok := c.actionFor(msg)
	if !ok {
		slog.Warn("dropping non-intent message", "tag", "ws", "room", c.RoomID, "type", msg.MessageType())
		return
	}
	if c.Game == nil {
		c.sendError(protocol.CodeNotSeated, "Join a room first.")
		return
	}
	action.Seat = c.Seat
	if err := c.submit(action); err != nil {
		slog.Debug("intent dropped", "tag", "ws", "room", c.RoomID, "seat", c.Seat, "err", err)
	}
}

// actionFor maps an intent to a game action. Seat is filled in by the caller.
func (c *Client) actionFor(msg protocol.Message) (game.Action, bool) {
	switch m := msg.(type) {
	case protocol.StartGame:
		return game.Action{Type: game.ActionStartGame}, true
	case protocol.Play:
		return game.Action{Type: game.ActionPlay, DefenseID: m.Defense, AttackID: m.Attack}, true
	case protocol.Pass:
		return game.Action{Type: game.ActionPass}, true
	case protocol.RedealDecision:
		return game.Action{Type: game.ActionRedealDecision, Choice: game.RedealChoice(m.Choice)}, true
	case protocol.NextRound:
		return game.Action{Type: game.ActionNextRound}, true
	default:
		return game.Action{}, false
	}
}

func (c *Client) handleJoin(msg protocol.Join) {
	if c.Game != nil {
		c.sendError(protocol.CodeAlreadySeated, matcherrors.ErrAlreadySeated.Error())
		return
	}

	name, userID, err := c.identify(msg)
	if err != nil {
		if errors.Is(err, matcherrors.ErrUnauthorized) {
			c.sendError(protocol.CodeUnauthorized, err.Error())
		} else {
			c.sendError(protocol.CodeBadName, err.Error())
		}
		return
	}

	g, err := c.Hub.Rooms.Resolve(c.RoomID)
	if err != nil {
		c.sendError(protocol.CodeRoomNotFound, err.Error())
		return
	}

	reply := make(chan game.JoinReply, 1)
	err = submitTo(g, game.Action{
		Type:   game.ActionJoin,
		Seat:   game.NoSeat,
		Name:   name,
		UserID: userID,
		Send:   c.Send,
		Reply:  reply,
	})
	if err != nil {
		c.sendError(protocol.CodeRoomNotFound, err.Error())
		return
	}

	var res game.JoinReply
	select {
	case res = <-reply:
	case <-g.Done:
		c.sendError(protocol.CodeRoomNotFound, matcherrors.ErrRoomClosed.Error())
		return
	}
	if res.Err != nil {
		text := "The room is full."
		if errors.Is(res.Err, game.ErrWrongPhase) {
			text = "The game has already started."
		}
		c.sendError(protocol.CodeRoomFull, text)
		return
	}

	c.Game = g
	c.RoomID = g.ID
	c.Seat = res.Seat
	c.Name = name
	c.UserID = userID
	slog.Info("client seated", "tag", "ws", "room", g.ID, "seat", res.Seat, "name", name)
}

// identify validates the display name and, when auth is configured, the join token.
func (c *Client) identify(msg protocol.Join) (name, userID string, err error) {
	name = strings.TrimSpace(msg.Name)

	if c.Hub.Config.AuthBaseURL != "" && msg.Token != "" {
		claims, err := auth.ValidateToken(c.Hub.Config.AuthBaseURL, msg.Token)
		if err != nil {
			slog.Warn("join token rejected", "tag", "ws", "err", err)
			return "", "", matcherrors.ErrUnauthorized
		}
		userID = auth.UserIDFromClaims(claims)
		if name == "" {
			name = auth.DisplayNameFromClaims(claims, defaultName)
		}
	}

	name, err = ValidateName(name, c.Hub.Config.MaxNameLength)
	return name, userID, err
}

// ValidateName trims name, substitutes the default for an empty one and enforces maxLen runes.
func ValidateName(name string, maxLen int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultName, nil
	}
	if maxLen > 0 && utf8.RuneCountInString(name) > maxLen {
		return "", errors.New("name is too long")
	}
	return name, nil
}

func (c *Client) submit(a game.Action) error {
	return submitTo(c.Game, a)
}

// submitTo delivers an action to g unless its loop has already stopped.
func submitTo(g *game.Game, a game.Action) error {
	select {
	case g.Actions <- a:
		return nil
	case <-g.Done:
		return matcherrors.ErrRoomClosed
	}
}

// leave tells the room this connection is gone. The room decides what that means for the seat.
func (c *Client) leave() {
	if c.Game == nil {
		return
	}
	if err := c.submit(game.Action{Type: game.ActionLeave, Seat: c.Seat}); err != nil {
		return
	}
	c.Game = nil
	c.Seat = game.NoSeat
}

func (c *Client) sendError(code, message string) {
	wsutil.SafeSend(c.Send, protocol.MustEncode(protocol.Error{Code: code, Message: message}))
}
