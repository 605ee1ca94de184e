package protest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dogpound/glizzy/ledger"
)

var (
	// ErrNoSuchProtest marks a confirm against an unknown or already
	// resolved protest key.
	ErrNoSuchProtest = errors.New("protest: no such protest")

	// ErrSelfConfirmation marks a confirm by the original proposer.
	ErrSelfConfirmation = errors.New("protest: cannot second your own protest")
)

// Pending is a proposed deduction waiting for a second party to confirm it.
type Pending struct {
	TargetID   string
	Amount     int
	ProposerID string
}

// Resolution is the outcome of a confirmed protest.
type Resolution struct {
	TargetID string
	Amount   int
	NewTotal int
}

// Coordinator runs the two-party propose/confirm protocol for contested
// deductions. Pending protests live only in memory: a restart drops them and
// there is no expiry, so a protest stays confirmable until process exit.
// A protest resolves at most once, and only by someone other than its
// proposer; resolution appends a corrective ledger entry.
type Coordinator struct {
	mu      sync.Mutex
	ledger  *ledger.Service
	pending map[string]Pending
}

func NewCoordinator(l *ledger.Service) *Coordinator {
	return &Coordinator{
		ledger:  l,
		pending: make(map[string]Pending),
	}
}

// Propose records a pending protest under the given key. The amount must be
// positive and must not exceed the target's current total. The total can
// still change between here and Confirm, so Confirm checks again.
func (c *Coordinator) Propose(ctx context.Context, protestID, proposerID, targetID string, amount int) error {
	if amount < 1 {
		return fmt.Errorf("%w: %d", ledger.ErrInvalidAmount, amount)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	total, err := c.ledger.Total(ctx, targetID)
	if err != nil {
		return err
	}
	if total-amount < 0 {
		return fmt.Errorf("%w: %d from total %d", ledger.ErrWouldGoNegative, amount, total)
	}

	c.pending[protestID] = Pending{
		TargetID:   targetID,
		Amount:     amount,
		ProposerID: proposerID,
	}
	return nil
}

// Confirm resolves a pending protest: it re-validates that the deduction
// still fits the target's current total, appends the corrective entry, and
// removes the protest. Failed confirmations (self-second, stale check) leave
// the protest pending.
func (c *Coordinator) Confirm(ctx context.Context, protestID, confirmerID string) (Resolution, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[protestID]
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %q", ErrNoSuchProtest, protestID)
	}

	if confirmerID == p.ProposerID {
		return Resolution{}, ErrSelfConfirmation
	}

	// Additions and other protests may have landed since Propose; do not
	// write a correction the proposal-time check no longer covers.
	total, err := c.ledger.Total(ctx, p.TargetID)
	if err != nil {
		return Resolution{}, err
	}
	if total-p.Amount < 0 {
		return Resolution{}, fmt.Errorf("%w: %d from total %d", ledger.ErrWouldGoNegative, p.Amount, total)
	}

	newTotal, err := c.ledger.RecordCorrection(ctx, p.TargetID, p.Amount)
	if err != nil {
		return Resolution{}, err
	}

	delete(c.pending, protestID)
	return Resolution{TargetID: p.TargetID, Amount: p.Amount, NewTotal: newTotal}, nil
}

// PendingCount reports the number of unresolved protests.
func (c *Coordinator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
