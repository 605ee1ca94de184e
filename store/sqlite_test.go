package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	s, path := newTestSQLite(t)
	assert.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE name IN ('hotdog_events','hotdog_totals','idx_hotdog_events_user_id')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["hotdog_events"])
	assert.True(t, found["hotdog_totals"])
	assert.True(t, found["idx_hotdog_events_user_id"])
}

func TestSQLiteAppendAssignsIDAndTimestamp(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	ctx := context.Background()

	e1, err := s.Append(ctx, "100", "alice", 5)
	require.NoError(t, err)
	e2, err := s.Append(ctx, "100", "alice", 3)
	require.NoError(t, err)

	assert.Equal(t, int64(1), e1.ID)
	assert.Equal(t, int64(2), e2.ID)
	assert.Equal(t, "100", e1.UserID)
	assert.Equal(t, "alice", e1.Username)
	assert.Equal(t, 5, e1.Amount)
	assert.False(t, e1.RecordedAt.IsZero())
	assert.False(t, e2.RecordedAt.Before(e1.RecordedAt))
}

func TestSQLiteUserTotal(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	ctx := context.Background()

	total, err := s.UserTotal(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	_, err = s.Append(ctx, "100", "alice", 10)
	require.NoError(t, err)
	_, err = s.Append(ctx, "100", "alice", -4)
	require.NoError(t, err)
	_, err = s.Append(ctx, "200", "bob", 7)
	require.NoError(t, err)

	total, err = s.UserTotal(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, 6, total)
}

func TestSQLiteTotalsUseLatestUsername(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.Append(ctx, "100", "alice", 10)
	require.NoError(t, err)
	_, err = s.Append(ctx, "100", "alice-renamed", 2)
	require.NoError(t, err)
	_, err = s.Append(ctx, "200", "bob", 30)
	require.NoError(t, err)

	totals, err := s.Totals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	// Descending by total.
	assert.Equal(t, Total{UserID: "200", Username: "bob", Total: 30}, totals[0])
	assert.Equal(t, Total{UserID: "100", Username: "alice-renamed", Total: 12}, totals[1])

	name, err := s.Username(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "alice-renamed", name)

	name, err = s.Username(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, "", name)
}

func TestSQLiteEntriesNewestFirst(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.Append(ctx, "100", "alice", 1)
	require.NoError(t, err)
	_, err = s.Append(ctx, "200", "bob", 2)
	require.NoError(t, err)
	_, err = s.Append(ctx, "100", "alice", 3)
	require.NoError(t, err)

	entries, err := s.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, int64(3), entries[0].ID)
	assert.Equal(t, int64(2), entries[1].ID)
	assert.Equal(t, int64(1), entries[2].ID)
}
