package storage

import "context"

// HistoryStore abstracts persistence for finished rounds and games.
// Implementations can be swapped for testing (mocks) or different backends.
type HistoryStore interface {
	// Read
	ListRecentGames(ctx context.Context, limit int) ([]GameRecord, error)
	GetGame(ctx context.Context, gameID string) (*GameRecord, error)
	ListRounds(ctx context.Context, gameID string) ([]RoundRecord, error)

	// Write
	InsertRound(ctx context.Context, r RoundRecord) error
	InsertGame(ctx context.Context, g GameRecord) error

	// Lifecycle
	Close()
}

// Ensure *Store implements HistoryStore at compile time.
var _ HistoryStore = (*Store)(nil)
