package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dogpound/glizzy/store"
)

// MaxAmount is the sanity cap on a single addition. Anything above it is
// rejected outright, not clamped.
const MaxAmount = 83

var (
	// ErrInvalidAmount marks an out-of-range or non-positive amount.
	ErrInvalidAmount = errors.New("ledger: invalid amount")

	// ErrWouldGoNegative marks a correction larger than the current total.
	ErrWouldGoNegative = errors.New("ledger: total would go negative")
)

// Service validates and appends ledger entries. It is the only writer to the
// event store; every successful call inserts exactly one immutable row and
// totals are always derived from the full entry set, never cached.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// RecordAddition appends a self-reported addition and returns the user's new
// total. Amounts outside [1, MaxAmount] are rejected with ErrInvalidAmount.
func (s *Service) RecordAddition(ctx context.Context, userID, username string, amount int) (int, error) {
	if amount < 1 || amount > MaxAmount {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	if _, err := s.store.Append(ctx, userID, username, amount); err != nil {
		return 0, err
	}
	return s.store.UserTotal(ctx, userID)
}

// RecordCorrection appends a corrective deduction of the given positive
// magnitude and returns the user's new total. The caller is responsible for
// checking that the deduction does not take the total negative before
// invoking this; the append itself is unconditional.
//
// The deduction row carries the user's current display name, or a mention
// placeholder when the user has no prior entries.
func (s *Service) RecordCorrection(ctx context.Context, userID string, amount int) (int, error) {
	if amount < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	username, err := s.store.Username(ctx, userID)
	if err != nil {
		return 0, err
	}
	if username == "" {
		username = fmt.Sprintf("<@%s>", userID)
	}

	if _, err := s.store.Append(ctx, userID, username, -amount); err != nil {
		return 0, err
	}
	return s.store.UserTotal(ctx, userID)
}

// Total returns the user's current total, 0 for a user with no entries.
func (s *Service) Total(ctx context.Context, userID string) (int, error) {
	return s.store.UserTotal(ctx, userID)
}
