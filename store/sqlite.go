package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Schema creates the append-only events table, the per-user index, and the
// derived totals view. Totals are never stored as a mutable column; the view
// recomputes them with a grouped sum, and the username shown for a user is
// the one on their most recent entry.
const Schema = `
CREATE TABLE IF NOT EXISTS hotdog_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	username TEXT NOT NULL,
	amount INTEGER NOT NULL,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_hotdog_events_user_id ON hotdog_events(user_id);

CREATE VIEW IF NOT EXISTS hotdog_totals AS
SELECT
	e.user_id AS user_id,
	(SELECT username FROM hotdog_events u
	  WHERE u.user_id = e.user_id
	  ORDER BY u.id DESC LIMIT 1) AS username,
	SUM(e.amount) AS total_count
FROM hotdog_events e
GROUP BY e.user_id;
`

type SQLite struct {
	db   *sql.DB
	path string
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db, path: path}, nil
}

// Path returns the datastore file path, used by the export endpoint.
func (s *SQLite) Path() string { return s.path }

func (s *SQLite) Append(ctx context.Context, userID, username string, amount int) (Entry, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO hotdog_events (user_id, username, amount)
		VALUES (?, ?, ?)`,
		userID, username, amount,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("insert event: %w", err)
	}

	// Read the row back so the caller sees the store-assigned timestamp.
	var e Entry
	err = s.db.QueryRowContext(ctx, `
		SELECT id, user_id, username, amount, timestamp
		FROM hotdog_events WHERE id = ?`, id,
	).Scan(&e.ID, &e.UserID, &e.Username, &e.Amount, &e.RecordedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("read back event %d: %w", id, err)
	}
	return e, nil
}

func (s *SQLite) UserTotal(ctx context.Context, userID string) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT total_count FROM hotdog_totals WHERE user_id = ?`, userID,
	).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query total: %w", err)
	}
	return total, nil
}

func (s *SQLite) Username(ctx context.Context, userID string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `
		SELECT username FROM hotdog_events
		WHERE user_id = ? ORDER BY id DESC LIMIT 1`, userID,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query username: %w", err)
	}
	return name, nil
}

func (s *SQLite) Totals(ctx context.Context) ([]Total, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, username, total_count
		FROM hotdog_totals
		ORDER BY total_count DESC, user_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}
	defer rows.Close()

	var totals []Total
	for rows.Next() {
		var t Total
		if err := rows.Scan(&t.UserID, &t.Username, &t.Total); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}
	return totals, nil
}

func (s *SQLite) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, username, amount, timestamp
		FROM hotdog_events
		ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username, &e.Amount, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return entries, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLite)(nil)
