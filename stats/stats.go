package stats

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dogpound/glizzy/store"
)

// Engine computes derived statistics from the full ledger. Every operation is
// a pure read recomputed per call; entry volume is small enough that
// correctness wins over caching.
type Engine struct {
	store store.Store
	loc   *time.Location
	now   func() time.Time
}

// NewEngine returns an engine bucketing calendar days in loc (the reference
// zone for streaks).
func NewEngine(st store.Store, loc *time.Location) *Engine {
	return &Engine{store: st, loc: loc, now: time.Now}
}

// Row is one leaderboard line. Tied totals share a rank number and the next
// distinct total resumes at its list position, e.g. totals [50,50,30] rank
// [1,1,3].
type Row struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Total    int    `json:"total_count"`
}

// Leaderboard returns all users ordered by total descending, with ranks
// assigned. An empty ledger yields an empty slice.
func (e *Engine) Leaderboard(ctx context.Context) ([]Row, error) {
	totals, err := e.store.Totals(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(totals), nil
}

// Rank assigns standard-competition rank numbers to totals already sorted
// descending: equal totals repeat the rank of the first tied row, the next
// distinct total takes rank position+1.
func Rank(totals []store.Total) []Row {
	rows := make([]Row, len(totals))
	rank := 1
	for i, t := range totals {
		if i > 0 && totals[i-1].Total != t.Total {
			rank = i + 1
		}
		rows[i] = Row{Rank: rank, UserID: t.UserID, Username: t.Username, Total: t.Total}
	}
	return rows
}

// TotalConsumed is the sum of every user's total, 0 on an empty ledger.
func (e *Engine) TotalConsumed(ctx context.Context) (int, error) {
	totals, err := e.store.Totals(ctx)
	if err != nil {
		return 0, err
	}
	sum := 0
	for _, t := range totals {
		sum += t.Total
	}
	return sum, nil
}

// PerDay is the total to date divided by the elapsed time since the earliest
// entry, in whole-plus-fractional days. 0 with no entries.
func (e *Engine) PerDay(ctx context.Context) (decimal.Decimal, error) {
	entries, err := e.store.Entries(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if len(entries) == 0 {
		return decimal.Zero, nil
	}

	total := sumAmounts(entries)
	first := entries[len(entries)-1].RecordedAt
	elapsed := e.now().Sub(first)
	if elapsed <= 0 {
		return decimal.NewFromInt(int64(total)), nil
	}

	days := decimal.NewFromFloat(elapsed.Hours() / 24)
	return decimal.NewFromInt(int64(total)).Div(days).Round(2), nil
}

// PerMonth divides the total by the calendar-month difference between the
// earliest entry and now (year*12+month arithmetic, not elapsed time). When
// the first entry is from the current month the raw total is reported
// instead of dividing by zero. 0 with no entries.
func (e *Engine) PerMonth(ctx context.Context) (decimal.Decimal, error) {
	entries, err := e.store.Entries(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if len(entries) == 0 {
		return decimal.Zero, nil
	}

	total := sumAmounts(entries)
	first := entries[len(entries)-1].RecordedAt
	now := e.now()

	months := (now.Year()-first.Year())*12 + int(now.Month()) - int(first.Month())
	if months <= 0 {
		return decimal.NewFromInt(int64(total)), nil
	}
	return decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(int64(months))).Round(2), nil
}

// Streak is the longest run of consecutive reference-zone calendar days with
// at least one entry, ending today or yesterday. All users tied at the
// maximum are reported, user ids sorted ascending with usernames aligned.
type Streak struct {
	UserIDs   []string `json:"userIds"`
	Usernames []string `json:"usernames"`
	Days      int      `json:"days"`
}

// LongestStreak finds the longest active streak across all users. A user
// with no entry today or yesterday has streak 0 and is never reported.
func (e *Engine) LongestStreak(ctx context.Context) (Streak, error) {
	entries, err := e.store.Entries(ctx)
	if err != nil {
		return Streak{}, err
	}

	type userDays struct {
		username string
		days     map[string]bool
	}

	// Entries come newest first, so the first name seen for a user is the
	// one on their most recent entry.
	byUser := make(map[string]*userDays)
	for _, entry := range entries {
		u, ok := byUser[entry.UserID]
		if !ok {
			u = &userDays{username: entry.Username, days: make(map[string]bool)}
			byUser[entry.UserID] = u
		}
		u.days[dayKey(entry.RecordedAt.In(e.loc))] = true
	}

	today := e.now().In(e.loc)
	yesterday := today.AddDate(0, 0, -1)

	best := Streak{UserIDs: []string{}, Usernames: []string{}}
	for userID, u := range byUser {
		start := today
		if !u.days[dayKey(today)] {
			if !u.days[dayKey(yesterday)] {
				continue
			}
			start = yesterday
		}

		days := 0
		for cursor := start; u.days[dayKey(cursor)]; cursor = cursor.AddDate(0, 0, -1) {
			days++
		}

		switch {
		case days > best.Days:
			best = Streak{UserIDs: []string{userID}, Usernames: []string{u.username}, Days: days}
		case days == best.Days:
			best.UserIDs = append(best.UserIDs, userID)
			best.Usernames = append(best.Usernames, u.username)
		}
	}

	sortAligned(best.UserIDs, best.Usernames)
	return best, nil
}

// Largest is the single entry with the maximum amount, ties broken by lowest
// entry id. Zero value (nil timestamp) on an empty ledger.
type Largest struct {
	UserID    string     `json:"userId"`
	Username  string     `json:"username"`
	Amount    int        `json:"amount"`
	Timestamp *time.Time `json:"timestamp"`
}

func (e *Engine) LargestEntry(ctx context.Context) (Largest, error) {
	entries, err := e.store.Entries(ctx)
	if err != nil {
		return Largest{}, err
	}
	if len(entries) == 0 {
		return Largest{}, nil
	}

	// Scan oldest to newest so ties keep the lowest id.
	best := entries[len(entries)-1]
	for i := len(entries) - 2; i >= 0; i-- {
		if entries[i].Amount > best.Amount {
			best = entries[i]
		}
	}

	ts := best.RecordedAt
	return Largest{UserID: best.UserID, Username: best.Username, Amount: best.Amount, Timestamp: &ts}, nil
}

// AveragePerEntry is the mean amount across all entries, rounded to two
// decimal places. 0 with no entries.
func (e *Engine) AveragePerEntry(ctx context.Context) (decimal.Decimal, error) {
	entries, err := e.store.Entries(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if len(entries) == 0 {
		return decimal.Zero, nil
	}

	sum := sumAmounts(entries)
	return decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(entries)))).Round(2), nil
}

// Bundle is the computed statistics payload served by the read API.
type Bundle struct {
	TotalDogsConsumed              int             `json:"totalDogsConsumed"`
	DogsPerDay                     decimal.Decimal `json:"dogsPerDay"`
	DogsPerMonth                   decimal.Decimal `json:"dogsPerMonth"`
	LongestDailyStreak             Streak          `json:"longestDailyStreak"`
	LargestSingleSessionSubmission Largest         `json:"largestSingleSessionSubmission"`
	AverageAmountPerDbRow          decimal.Decimal `json:"averageAmountPerDbRow"`
}

func (e *Engine) ComputeBundle(ctx context.Context) (Bundle, error) {
	var (
		b   Bundle
		err error
	)

	if b.TotalDogsConsumed, err = e.TotalConsumed(ctx); err != nil {
		return Bundle{}, err
	}
	if b.DogsPerDay, err = e.PerDay(ctx); err != nil {
		return Bundle{}, err
	}
	if b.DogsPerMonth, err = e.PerMonth(ctx); err != nil {
		return Bundle{}, err
	}
	if b.LongestDailyStreak, err = e.LongestStreak(ctx); err != nil {
		return Bundle{}, err
	}
	if b.LargestSingleSessionSubmission, err = e.LargestEntry(ctx); err != nil {
		return Bundle{}, err
	}
	if b.AverageAmountPerDbRow, err = e.AveragePerEntry(ctx); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

func sumAmounts(entries []store.Entry) int {
	sum := 0
	for _, e := range entries {
		sum += e.Amount
	}
	return sum
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// sortAligned sorts ids ascending and keeps names index-aligned.
func sortAligned(ids, names []string) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}
