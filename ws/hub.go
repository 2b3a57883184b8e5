package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"goita-server/config"
	"goita-server/game"
	"goita-server/matchmaking"
)

// RoomQueryParam names the room a connection wants to join.
const RoomQueryParam = "room"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development; restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Rooms is what the Hub needs from the room registry.
type Rooms interface {
	Get(id string) (*game.Game, error)
	Resolve(id string) (*game.Game, error)
}

// Hub maintains the set of active clients.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Rooms      Rooms
	Config     *config.Config
}

// NewHub creates a new Hub.
func NewHub(cfg *config.Config, rooms Rooms) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Rooms:      rooms,
		Config:     cfg,
	}
}

// Run starts the hub's main loop. Should be run as a goroutine.
// When ctx is cancelled (e.g. on server shutdown), Run returns and no longer accepts new registrations.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			slog.Info("shutdown signal received, stopping", "tag", "hub")
			return
		case client := <-h.Register:
			h.Clients[client] = true
			slog.Info("client connected", "tag", "hub", "clients", len(h.Clients))

		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				slog.Info("client disconnected", "tag", "hub", "clients", len(h.Clients))
			}
		}
	}
}

// ServeWS handles WebSocket upgrade requests and creates a new Client. The room query
// parameter must name a running room; empty or "new" creates one on join.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get(RoomQueryParam)
	if roomID != "" && roomID != matchmaking.NewRoomID {
		if _, err := h.Rooms.Get(roomID); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "tag", "hub", "err", err)
		return
	}

	client := &Client{
		Hub:    h,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		RoomID: roomID,
		Seat:   game.NoSeat,
	}

	h.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
