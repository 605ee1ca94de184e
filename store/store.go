package store

import (
	"context"
	"time"
)

// Entry is one immutable row in the hot dog ledger. Positive amounts are
// self-reported additions; negative amounts are corrective deductions from a
// seconded protest. Rows are only ever inserted, never updated or deleted.
type Entry struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Amount     int       `json:"amount"`
	RecordedAt time.Time `json:"timestamp"`
}

// Total is one row of the derived per-user aggregate view. Username is the
// display name on the user's most recent entry, not a live reference.
type Total struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Total    int    `json:"total_count"`
}

// Store is the append-only event store backing the ledger. The id and
// recorded-at timestamp of a new entry are assigned by the store on insert.
type Store interface {
	// Append inserts a new ledger entry and returns it with its assigned
	// id and timestamp.
	Append(ctx context.Context, userID, username string, amount int) (Entry, error)

	// UserTotal returns the sum of all entry amounts for one user,
	// 0 when the user has no entries.
	UserTotal(ctx context.Context, userID string) (int, error)

	// Username returns the display name on the user's most recent entry,
	// "" when the user has no entries.
	Username(ctx context.Context, userID string) (string, error)

	// Totals returns the aggregate view, ordered by total descending
	// (ties by user id ascending, for deterministic output).
	Totals(ctx context.Context) ([]Total, error)

	// Entries returns every ledger entry, newest first.
	Entries(ctx context.Context) ([]Entry, error)

	Close() error
}
