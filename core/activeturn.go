package orchestration

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

type turnStatus string

const (
	turnStatusActive    turnStatus = "active"
	turnStatusCompleted turnStatus = "completed"
	turnStatusCancelled turnStatus = "cancelled"
	turnStatusFailed    turnStatus = "failed"
)

// activeTurn is one utterance being answered. It starts active and
// settles into exactly one terminal status; later transitions are
// ignored.
type activeTurn struct {
	ID        string
	Utterance string

	mu     sync.Mutex
	status turnStatus

	cancel    context.CancelFunc
	cancelled atomic.Bool
}

func newActiveTurn(utterance string, cancel context.CancelFunc) *activeTurn {
	return &activeTurn{
		ID:        uuid.NewString(),
		Utterance: utterance,
		status:    turnStatusActive,
		cancel:    cancel,
	}
}

// Cancel aborts the turn's workers. It reports whether this call was the
// one that cancelled; repeated calls are no-ops.
func (t *activeTurn) Cancel() bool {
	if !t.cancelled.CompareAndSwap(false, true) {
		return false
	}

	t.cancel()
	return true
}

func (t *activeTurn) IsCancelled() bool {
	return t.cancelled.Load()
}

// settle records the terminal status, keeping the first one to land.
func (t *activeTurn) settle(status turnStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != turnStatusActive {
		return
	}
	t.status = status
}

func (t *activeTurn) Status() turnStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.status
}
