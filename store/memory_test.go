package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryMatchesSQLiteSemantics(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	e, err := m.Append(ctx, "100", "alice", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.ID)
	assert.False(t, e.RecordedAt.IsZero())

	_, err = m.Append(ctx, "100", "alice-renamed", -4)
	require.NoError(t, err)
	_, err = m.Append(ctx, "200", "bob", 6)
	require.NoError(t, err)

	total, err := m.UserTotal(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, 6, total)

	total, err = m.UserTotal(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	name, err := m.Username(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "alice-renamed", name)

	totals, err := m.Totals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	// Equal totals order deterministically by user id.
	assert.Equal(t, "100", totals[0].UserID)
	assert.Equal(t, "alice-renamed", totals[0].Username)
	assert.Equal(t, "200", totals[1].UserID)

	entries, err := m.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(3), entries[0].ID)
	assert.Equal(t, int64(1), entries[2].ID)
}

func TestMemoryClockOverride(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	fixed := time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)
	m.Now = func() time.Time { return fixed }

	e, err := m.Append(context.Background(), "100", "alice", 1)
	require.NoError(t, err)
	assert.True(t, e.RecordedAt.Equal(fixed))
}
