package matchmaking

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"goita-server/config"
	"goita-server/game"
	"goita-server/matcherrors"
	"goita-server/storage"
)

// NewRoomID is the room id a client passes to ask for a fresh room.
const NewRoomID = "new"

const persistTimeout = 5 * time.Second

// Registry owns the running rooms. Each room runs its own game loop; the registry only
// creates, looks up and forgets them.
type Registry struct {
	mu     sync.Mutex
	rooms  map[string]*game.Game
	config *config.Config
	store  storage.HistoryStore
}

// NewRegistry creates an empty Registry. store may be nil (no persistence).
func NewRegistry(cfg *config.Config, store storage.HistoryStore) *Registry {
	return &Registry{
		rooms:  make(map[string]*game.Game),
		config: cfg,
		store:  store,
	}
}

// Create starts a new room with a fresh UUID and returns it.
func (r *Registry) Create() *game.Game {
	id := uuid.NewString()
	g := game.NewGame(id, r.config)
	if r.store != nil {
		g.OnRoundEnd = r.persistRound
		g.OnGameEnd = r.persistGame
	}

	r.mu.Lock()
	r.rooms[id] = g
	r.mu.Unlock()

	slog.Info("room created", "tag", "registry", "room", id)
	go g.Run()
	go r.forgetWhenDone(g)
	return g
}

// Get returns the room with id, or matcherrors.ErrRoomNotFound.
func (r *Registry) Get(id string) (*game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.rooms[id]
	if !ok {
		return nil, matcherrors.ErrRoomNotFound
	}
	return g, nil
}

// Resolve maps a client's room parameter to a room: empty or NewRoomID creates one,
// anything else must name a running room.
func (r *Registry) Resolve(id string) (*game.Game, error) {
	if id == "" || id == NewRoomID {
		return r.Create(), nil
	}
	return r.Get(id)
}

// Summaries returns a snapshot of every running room ordered by id.
func (r *Registry) Summaries() []game.Summary {
	r.mu.Lock()
	out := make([]game.Summary, 0, len(r.rooms))
	for _, g := range r.rooms {
		out = append(out, g.Summary())
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of running rooms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// Shutdown asks every room to stop and waits until they have, or until ctx is done.
func (r *Registry) Shutdown(ctx context.Context) {
	r.mu.Lock()
	rooms := make([]*game.Game, 0, len(r.rooms))
	for _, g := range r.rooms {
		rooms = append(rooms, g)
	}
	r.mu.Unlock()

	for _, g := range rooms {
		select {
		case g.Actions <- game.Action{Type: game.ActionShutdown}:
		case <-g.Done:
		case <-ctx.Done():
			return
		}
	}
	for _, g := range rooms {
		select {
		case <-g.Done:
		case <-ctx.Done():
			return
		}
	}
}

func (r *Registry) forgetWhenDone(g *game.Game) {
	<-g.Done
	r.mu.Lock()
	delete(r.rooms, g.ID)
	r.mu.Unlock()
	slog.Info("room closed", "tag", "registry", "room", g.ID)
}

// persistRound runs on the game goroutine, so the write happens in the background.
func (r *Registry) persistRound(gameID string, round, dealer int, out game.RoundOutcome) {
	rec := storage.RoundRecord{
		GameID:     gameID,
		Round:      round,
		Dealer:     dealer,
		WinnerTeam: out.Team,
		WinnerSeat: storage.SeatArg(out.WinnerSeat),
		Points:     out.Points,
		Doubled:    out.Doubled,
		Reason:     out.Reason,
		ScoreA:     out.Scores[0],
		ScoreB:     out.Scores[1],
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := r.store.InsertRound(ctx, rec); err != nil {
			slog.Error("persist round", "tag", "storage", "room", gameID, "round", round, "err", err)
		}
	}()
}

func (r *Registry) persistGame(gameID string, result game.GameResult) {
	rec := storage.GameRecord{
		ID:         gameID,
		Names:      result.Names,
		UserIDs:    result.UserIDs,
		ScoreA:     result.Scores[0],
		ScoreB:     result.Scores[1],
		WinnerTeam: result.WinnerTeam,
		Rounds:     result.Rounds,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := r.store.InsertGame(ctx, rec); err != nil {
			slog.Error("persist game", "tag", "storage", "room", gameID, "err", err)
		}
	}()
}
