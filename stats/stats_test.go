package stats

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogpound/glizzy/store"
)

// newTestEngine returns an engine over an in-memory store with a controllable
// clock shared by the store (entry timestamps) and the engine ("now").
func newTestEngine(t *testing.T, loc *time.Location, now time.Time) (*Engine, *store.Memory, *time.Time) {
	t.Helper()

	clock := now
	st := store.NewMemory()
	st.Now = func() time.Time { return clock }

	e := NewEngine(st, loc)
	e.now = func() time.Time { return clock }

	return e, st, &clock
}

func mustAppend(t *testing.T, st *store.Memory, userID, username string, amount int) {
	t.Helper()
	_, err := st.Append(context.Background(), userID, username, amount)
	require.NoError(t, err)
}

func TestRank(t *testing.T) {
	t.Parallel()

	rows := Rank([]store.Total{
		{UserID: "a", Username: "A", Total: 50},
		{UserID: "b", Username: "B", Total: 50},
		{UserID: "c", Username: "C", Total: 30},
	})

	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 1, rows[1].Rank)
	assert.Equal(t, 3, rows[2].Rank)
}

func TestRankAllDistinct(t *testing.T) {
	t.Parallel()

	rows := Rank([]store.Total{
		{UserID: "a", Total: 9},
		{UserID: "b", Total: 7},
		{UserID: "c", Total: 2},
	})

	assert.Equal(t, []int{1, 2, 3}, []int{rows[0].Rank, rows[1].Rank, rows[2].Rank})
}

func TestLeaderboardEmpty(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine(t, time.UTC, time.Now())
	rows, err := e.Leaderboard(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTotalConsumed(t *testing.T) {
	t.Parallel()

	e, st, _ := newTestEngine(t, time.UTC, time.Now())
	ctx := context.Background()

	total, err := e.TotalConsumed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	mustAppend(t, st, "100", "alice", 10)
	mustAppend(t, st, "200", "bob", 7)
	mustAppend(t, st, "100", "alice", -4)

	total, err = e.TotalConsumed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 13, total)
}

func TestPerDay(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	e, st, clock := newTestEngine(t, time.UTC, now)
	ctx := context.Background()

	rate, err := e.PerDay(ctx)
	require.NoError(t, err)
	assert.True(t, rate.IsZero())

	// First entry exactly two days before "now".
	*clock = now.AddDate(0, 0, -2)
	mustAppend(t, st, "100", "alice", 6)
	*clock = now.AddDate(0, 0, -1)
	mustAppend(t, st, "100", "alice", 4)
	*clock = now

	rate, err = e.PerDay(ctx)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("5")), "got %s", rate)
}

func TestPerMonth(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	e, st, clock := newTestEngine(t, time.UTC, now)
	ctx := context.Background()

	// First entry two calendar months back: divide.
	*clock = time.Date(2025, 4, 28, 9, 0, 0, 0, time.UTC)
	mustAppend(t, st, "100", "alice", 7)
	*clock = now
	mustAppend(t, st, "100", "alice", 3)

	rate, err := e.PerMonth(ctx)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("5")), "got %s", rate)
}

func TestPerMonthSameMonthFallsBackToTotal(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 25, 12, 0, 0, 0, time.UTC)
	e, st, clock := newTestEngine(t, time.UTC, now)

	*clock = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mustAppend(t, st, "100", "alice", 42)
	*clock = now

	rate, err := e.PerMonth(context.Background())
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(42)), "got %s", rate)
}

func TestLongestStreakGapResets(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("REF", -8*3600)
	now := time.Date(2025, 6, 10, 20, 0, 0, 0, loc)
	e, st, clock := newTestEngine(t, loc, now)

	// Entries today, yesterday, and three days ago: the gap caps the
	// active streak at 2.
	for _, d := range []int{-3, -1, 0} {
		*clock = now.AddDate(0, 0, d)
		mustAppend(t, st, "100", "alice", 1)
	}

	streak, err := e.LongestStreak(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, streak.Days)
	assert.Equal(t, []string{"100"}, streak.UserIDs)
	assert.Equal(t, []string{"alice"}, streak.Usernames)
}

func TestLongestStreakRequiresRecentEntry(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	e, st, clock := newTestEngine(t, time.UTC, now)

	// Five consecutive days, but the run ended two days ago.
	for d := -6; d <= -2; d++ {
		*clock = now.AddDate(0, 0, d)
		mustAppend(t, st, "100", "alice", 1)
	}
	*clock = now

	streak, err := e.LongestStreak(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, streak.Days)
	assert.Empty(t, streak.UserIDs)
}

func TestLongestStreakStartsYesterday(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	e, st, clock := newTestEngine(t, time.UTC, now)

	// No entry today; yesterday and the two days before count.
	for d := -3; d <= -1; d++ {
		*clock = now.AddDate(0, 0, d)
		mustAppend(t, st, "100", "alice", 1)
	}
	*clock = now

	streak, err := e.LongestStreak(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, streak.Days)
}

func TestLongestStreakPreservesTies(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	e, st, clock := newTestEngine(t, time.UTC, now)

	for d := -1; d <= 0; d++ {
		*clock = now.AddDate(0, 0, d)
		mustAppend(t, st, "200", "bob", 2)
		mustAppend(t, st, "100", "alice", 1)
	}
	// A third user with a shorter streak is not reported.
	mustAppend(t, st, "300", "carol", 5)

	streak, err := e.LongestStreak(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, streak.Days)
	assert.Equal(t, []string{"100", "200"}, streak.UserIDs)
	assert.Equal(t, []string{"alice", "bob"}, streak.Usernames)
}

func TestLongestStreakBucketsInReferenceZone(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("REF", -8*3600)
	now := time.Date(2025, 6, 10, 22, 0, 0, 0, loc)
	e, st, clock := newTestEngine(t, loc, now)

	// 06:00 UTC today is still yesterday in the reference zone, so with
	// this evening's entry it forms a 2-day streak ending today.
	*clock = time.Date(2025, 6, 10, 6, 0, 0, 0, time.UTC)
	mustAppend(t, st, "100", "alice", 1)
	*clock = now
	mustAppend(t, st, "100", "alice", 1)

	streak, err := e.LongestStreak(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, streak.Days)
}

func TestLargestEntryTiesKeepLowestID(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	e, st, _ := newTestEngine(t, time.UTC, now)
	ctx := context.Background()

	largest, err := e.LargestEntry(ctx)
	require.NoError(t, err)
	assert.Equal(t, Largest{}, largest)

	mustAppend(t, st, "100", "alice", 20)
	mustAppend(t, st, "200", "bob", 20)
	mustAppend(t, st, "300", "carol", 5)

	largest, err = e.LargestEntry(ctx)
	require.NoError(t, err)
	assert.Equal(t, "100", largest.UserID)
	assert.Equal(t, 20, largest.Amount)
	require.NotNil(t, largest.Timestamp)
	assert.True(t, largest.Timestamp.Equal(now))
}

func TestAveragePerEntry(t *testing.T) {
	t.Parallel()

	e, st, _ := newTestEngine(t, time.UTC, time.Now())
	ctx := context.Background()

	avg, err := e.AveragePerEntry(ctx)
	require.NoError(t, err)
	assert.True(t, avg.IsZero())

	mustAppend(t, st, "100", "alice", 10)
	mustAppend(t, st, "100", "alice", -4)

	avg, err = e.AveragePerEntry(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3", avg.String())

	mustAppend(t, st, "200", "bob", 4)

	avg, err = e.AveragePerEntry(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3.33", avg.String())
}

func TestComputeBundleEmptyLedger(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine(t, time.UTC, time.Now())

	b, err := e.ComputeBundle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, b.TotalDogsConsumed)
	assert.True(t, b.DogsPerDay.IsZero())
	assert.True(t, b.DogsPerMonth.IsZero())
	assert.Equal(t, 0, b.LongestDailyStreak.Days)
	assert.Empty(t, b.LongestDailyStreak.UserIDs)
	assert.Equal(t, Largest{}, b.LargestSingleSessionSubmission)
	assert.True(t, b.AverageAmountPerDbRow.IsZero())
}
