package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS game_result (
	id           UUID PRIMARY KEY,
	finished_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	seat0_name   TEXT NOT NULL,
	seat1_name   TEXT NOT NULL,
	seat2_name   TEXT NOT NULL,
	seat3_name   TEXT NOT NULL,
	seat0_user_id TEXT NOT NULL DEFAULT '',
	seat1_user_id TEXT NOT NULL DEFAULT '',
	seat2_user_id TEXT NOT NULL DEFAULT '',
	seat3_user_id TEXT NOT NULL DEFAULT '',
	score_a      INT NOT NULL,
	score_b      INT NOT NULL,
	winner_team  SMALLINT NOT NULL,
	rounds       INT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_game_result_finished_at ON game_result(finished_at DESC);
CREATE TABLE IF NOT EXISTS round_result (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	game_id     UUID NOT NULL,
	round       INT NOT NULL,
	dealer      SMALLINT NOT NULL,
	winner_team SMALLINT NOT NULL,
	winner_seat SMALLINT,
	points      INT NOT NULL,
	doubled     BOOLEAN NOT NULL DEFAULT false,
	reason      TEXT NOT NULL DEFAULT '',
	score_a     INT NOT NULL,
	score_b     INT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_round_result_game_id ON round_result(game_id, round);
`

// Store persists and retrieves game history.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the history tables exist.
// If databaseURL is empty, NewStore returns (nil, nil) and no persistence occurs.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("connected to Postgres", "tag", "storage")
	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// RoundRecord is one finished round. WinnerSeat is nil for instant resolutions.
type RoundRecord struct {
	GameID     string `json:"game_id"`
	Round      int    `json:"round"`
	Dealer     int    `json:"dealer"`
	WinnerTeam int    `json:"winner_team"`
	WinnerSeat *int   `json:"winner_seat"`
	Points     int    `json:"points"`
	Doubled    bool   `json:"doubled"`
	Reason     string `json:"reason"`
	ScoreA     int    `json:"score_a"`
	ScoreB     int    `json:"score_b"`
}

// GameRecord is one finished game as returned by the history API.
type GameRecord struct {
	ID         string    `json:"id"`
	FinishedAt string    `json:"finished_at"` // ISO8601
	Names      [4]string `json:"names"`
	UserIDs    [4]string `json:"user_ids"`
	ScoreA     int       `json:"score_a"`
	ScoreB     int       `json:"score_b"`
	WinnerTeam int       `json:"winner_team"`
	Rounds     int       `json:"rounds"`
}

// SeatArg converts a seat to a nullable column value; negative seats are stored as NULL.
func SeatArg(seat int) *int {
	if seat < 0 {
		return nil
	}
	return &seat
}

// InsertRound records a finished round.
func (s *Store) InsertRound(ctx context.Context, r RoundRecord) error {
	if s == nil || s.pool == nil {
		return nil
	}
	gameID, err := uuid.Parse(r.GameID)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO round_result (game_id, round, dealer, winner_team, winner_seat, points, doubled, reason, score_a, score_b)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		gameID, r.Round, r.Dealer, r.WinnerTeam, r.WinnerSeat, r.Points, r.Doubled, r.Reason, r.ScoreA, r.ScoreB)
	return err
}

// InsertGame records a finished game. g.ID must be a UUID.
func (s *Store) InsertGame(ctx context.Context, g GameRecord) error {
	if s == nil || s.pool == nil {
		return nil
	}
	id, err := uuid.Parse(g.ID)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO game_result (id, seat0_name, seat1_name, seat2_name, seat3_name,
			seat0_user_id, seat1_user_id, seat2_user_id, seat3_user_id, score_a, score_b, winner_team, rounds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		id, g.Names[0], g.Names[1], g.Names[2], g.Names[3],
		g.UserIDs[0], g.UserIDs[1], g.UserIDs[2], g.UserIDs[3], g.ScoreA, g.ScoreB, g.WinnerTeam, g.Rounds)
	return err
}

// ListRecentGames returns finished games ordered by finished_at DESC.
func (s *Store) ListRecentGames(ctx context.Context, limit int) ([]GameRecord, error) {
	if s == nil || s.pool == nil {
		return []GameRecord{}, nil
	}
	limit = clampLimit(limit)
	rows, err := s.pool.Query(ctx, `
		SELECT id, finished_at, seat0_name, seat1_name, seat2_name, seat3_name,
			seat0_user_id, seat1_user_id, seat2_user_id, seat3_user_id, score_a, score_b, winner_team, rounds
		FROM game_result
		ORDER BY finished_at DESC
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []GameRecord{}
	for rows.Next() {
		var g GameRecord
		var id uuid.UUID
		var finishedAt time.Time
		if err := rows.Scan(&id, &finishedAt, &g.Names[0], &g.Names[1], &g.Names[2], &g.Names[3],
			&g.UserIDs[0], &g.UserIDs[1], &g.UserIDs[2], &g.UserIDs[3], &g.ScoreA, &g.ScoreB, &g.WinnerTeam, &g.Rounds); err != nil {
			return nil, err
		}
		g.ID = id.String()
		g.FinishedAt = finishedAt.UTC().Format(time.RFC3339)
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetGame returns one finished game, or (nil, nil) if not found.
func (s *Store) GetGame(ctx context.Context, gameID string) (*GameRecord, error) {
	if s == nil || s.pool == nil {
		return nil, nil
	}
	id, err := uuid.Parse(gameID)
	if err != nil {
		return nil, nil
	}
	var g GameRecord
	var finishedAt time.Time
	err = s.pool.QueryRow(ctx, `
		SELECT finished_at, seat0_name, seat1_name, seat2_name, seat3_name,
			seat0_user_id, seat1_user_id, seat2_user_id, seat3_user_id, score_a, score_b, winner_team, rounds
		FROM game_result
		WHERE id = $1`,
		id).Scan(&finishedAt, &g.Names[0], &g.Names[1], &g.Names[2], &g.Names[3],
		&g.UserIDs[0], &g.UserIDs[1], &g.UserIDs[2], &g.UserIDs[3], &g.ScoreA, &g.ScoreB, &g.WinnerTeam, &g.Rounds)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	g.ID = id.String()
	g.FinishedAt = finishedAt.UTC().Format(time.RFC3339)
	return &g, nil
}

// ListRounds returns the rounds of one game in play order.
func (s *Store) ListRounds(ctx context.Context, gameID string) ([]RoundRecord, error) {
	if s == nil || s.pool == nil {
		return []RoundRecord{}, nil
	}
	id, err := uuid.Parse(gameID)
	if err != nil {
		return []RoundRecord{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT round, dealer, winner_team, winner_seat, points, doubled, reason, score_a, score_b
		FROM round_result
		WHERE game_id = $1
		ORDER BY round`,
		id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []RoundRecord{}
	for rows.Next() {
		r := RoundRecord{GameID: gameID}
		if err := rows.Scan(&r.Round, &r.Dealer, &r.WinnerTeam, &r.WinnerSeat, &r.Points, &r.Doubled, &r.Reason, &r.ScoreA, &r.ScoreB); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 200 {
		return 200
	}
	return limit
}
