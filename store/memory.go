package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is an in-memory Store used by tests. It assigns ids and timestamps
// the same way the SQLite store does: monotonically increasing ids, UTC
// insert-time timestamps.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
	nextID  int64

	// Now is the clock used for entry timestamps; tests may override it.
	Now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{nextID: 1, Now: time.Now}
}

func (m *Memory) Append(ctx context.Context, userID, username string, amount int) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := Entry{
		ID:         m.nextID,
		UserID:     userID,
		Username:   username,
		Amount:     amount,
		RecordedAt: m.Now().UTC(),
	}
	m.nextID++
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *Memory) UserTotal(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, e := range m.entries {
		if e.UserID == userID {
			total += e.Amount
		}
	}
	return total, nil
}

func (m *Memory) Username(ctx context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := ""
	for _, e := range m.entries {
		if e.UserID == userID {
			name = e.Username
		}
	}
	return name, nil
}

func (m *Memory) Totals(ctx context.Context) ([]Total, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byUser := make(map[string]*Total)
	var order []string
	for _, e := range m.entries {
		t, ok := byUser[e.UserID]
		if !ok {
			t = &Total{UserID: e.UserID}
			byUser[e.UserID] = t
			order = append(order, e.UserID)
		}
		t.Total += e.Amount
		t.Username = e.Username
	}

	totals := make([]Total, 0, len(order))
	for _, id := range order {
		totals = append(totals, *byUser[id])
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Total != totals[j].Total {
			return totals[i].Total > totals[j].Total
		}
		return totals[i].UserID < totals[j].UserID
	})
	return totals, nil
}

func (m *Memory) Entries(ctx context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		out[len(m.entries)-1-i] = e
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }

var _ Store = (*Memory)(nil)
