package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"goita-server/config"
	"goita-server/game"
	"goita-server/matchmaking"
	"goita-server/storage"
)

type fakeStore struct {
	games     []storage.GameRecord
	rounds    []storage.RoundRecord
	lastLimit int
	err       error
}

func (f *fakeStore) ListRecentGames(_ context.Context, limit int) ([]storage.GameRecord, error) {
	f.lastLimit = limit
	return f.games, f.err
}

func (f *fakeStore) GetGame(_ context.Context, id string) (*storage.GameRecord, error) {
	for i := range f.games {
		if f.games[i].ID == id {
			return &f.games[i], nil
		}
	}
	return nil, f.err
}

func (f *fakeStore) ListRounds(_ context.Context, id string) ([]storage.RoundRecord, error) {
	return f.rounds, f.err
}

func (f *fakeStore) InsertRound(context.Context, storage.RoundRecord) error { return nil }
func (f *fakeStore) InsertGame(context.Context, storage.GameRecord) error  { return nil }
func (f *fakeStore) Close()                                                {}

func newTestServer(t *testing.T, store storage.HistoryStore) (*httptest.Server, *matchmaking.Registry) {
	t.Helper()
	cfg := config.Defaults()
	rooms := matchmaking.NewRegistry(cfg, nil)
	mux := http.NewServeMux()
	NewHandler(cfg, store, rooms).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, rooms
}

func TestHistory_PassesLimit(t *testing.T) {
	store := &fakeStore{games: []storage.GameRecord{{ID: "g1", ScoreA: 150, ScoreB: 40}}}
	srv, _ := newTestServer(t, store)

	resp, err := http.Get(srv.URL + "/api/history?limit=5")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if store.lastLimit != 5 {
		t.Errorf("expected limit 5, got %d", store.lastLimit)
	}
	var list []storage.GameRecord
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].ScoreA != 150 {
		t.Errorf("unexpected history: %+v", list)
	}
}

func TestHistory_StoreError(t *testing.T) {
	srv, _ := newTestServer(t, &fakeStore{err: errors.New("boom")})

	resp, err := http.Get(srv.URL + "/api/history")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", resp.StatusCode)
	}
}

func TestHistory_NoStore(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/history")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var list []storage.GameRecord
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty JSON array, got %v", list)
	}
}

func TestGameDetail(t *testing.T) {
	store := &fakeStore{
		games:  []storage.GameRecord{{ID: "g1"}},
		rounds: []storage.RoundRecord{{GameID: "g1", Round: 1, Points: 40}},
	}
	srv, _ := newTestServer(t, store)

	resp, err := http.Get(srv.URL + "/api/history/g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var detail GameDetailResponse
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.Game.ID != "g1" || len(detail.Rounds) != 1 || detail.Rounds[0].Points != 40 {
		t.Errorf("unexpected detail: %+v", detail)
	}

	missing, err := http.Get(srv.URL + "/api/history/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", missing.StatusCode)
	}
}

func TestRoom(t *testing.T) {
	srv, rooms := newTestServer(t, nil)
	g := rooms.Create()

	resp, err := http.Get(srv.URL + "/api/rooms/" + g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var s game.Summary
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.ID != g.ID || s.Phase != game.PhaseLobby || s.Players != 0 {
		t.Errorf("unexpected summary: %+v", s)
	}

	missing, err := http.Get(srv.URL + "/api/rooms/does-not-exist")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", missing.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/rooms", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header")
	}
}
