package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"goita-server/config"
	"goita-server/game"
	"goita-server/matcherrors"
	"goita-server/storage"
)

// Rooms is what the API needs from the room registry.
type Rooms interface {
	Get(id string) (*game.Game, error)
	Summaries() []game.Summary
}

// Handler holds dependencies for API handlers.
type Handler struct {
	Config       *config.Config
	HistoryStore storage.HistoryStore
	Rooms        Rooms
}

// NewHandler creates a new API handler with the given dependencies. historyStore may be nil.
func NewHandler(cfg *config.Config, historyStore storage.HistoryStore, rooms Rooms) *Handler {
	return &Handler{
		Config:       cfg,
		HistoryStore: historyStore,
		Rooms:        rooms,
	}
}

// Register mounts every API route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/history", h.History)
	mux.HandleFunc("/api/history/", h.GameDetail)
	mux.HandleFunc("/api/rooms", h.RoomList)
	mux.HandleFunc("/api/rooms/", h.Room)
}

// CORS sets CORS headers on the response. Call before writing body.
func CORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

// preamble handles CORS and rejects non-GET requests. It returns false when the response is done.
func preamble(w http.ResponseWriter, r *http.Request) bool {
	if CORS(w, r) {
		return false
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "tag", "api", "err", err)
	}
}

// History returns the most recently finished games. ?limit=N caps the list.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if !preamble(w, r) {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	list := []storage.GameRecord{}
	if h.HistoryStore != nil {
		var err error
		list, err = h.HistoryStore.ListRecentGames(r.Context(), limit)
		if err != nil {
			slog.Error("ListRecentGames", "tag", "api", "err", err)
			http.Error(w, "failed to load history", http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, list)
}

// GameDetailResponse is the JSON structure for /api/history/{id}.
type GameDetailResponse struct {
	Game   storage.GameRecord    `json:"game"`
	Rounds []storage.RoundRecord `json:"rounds"`
}

// GameDetail returns one finished game with its rounds.
func (h *Handler) GameDetail(w http.ResponseWriter, r *http.Request) {
	if !preamble(w, r) {
		return
	}
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/history/"), "/")
	if id == "" || h.HistoryStore == nil {
		http.NotFound(w, r)
		return
	}

	g, err := h.HistoryStore.GetGame(r.Context(), id)
	if err != nil {
		slog.Error("GetGame", "tag", "api", "game", id, "err", err)
		http.Error(w, "failed to load game", http.StatusInternalServerError)
		return
	}
	if g == nil {
		http.NotFound(w, r)
		return
	}
	rounds, err := h.HistoryStore.ListRounds(r.Context(), id)
	if err != nil {
		slog.Error("ListRounds", "tag", "api", "game", id, "err", err)
		http.Error(w, "failed to load rounds", http.StatusInternalServerError)
		return
	}
	writeJSON(w, GameDetailResponse{Game: *g, Rounds: rounds})
}

// RoomList returns a summary of every running room.
func (h *Handler) RoomList(w http.ResponseWriter, r *http.Request) {
	if !preamble(w, r) {
		return
	}
	writeJSON(w, h.Rooms.Summaries())
}

// Room returns the roster size and phase of one running room.
func (h *Handler) Room(w http.ResponseWriter, r *http.Request) {
	if !preamble(w, r) {
		return
	}
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/rooms/"), "/")
	g, err := h.Rooms.Get(id)
	if errors.Is(err, matcherrors.ErrRoomNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, g.Summary())
}
