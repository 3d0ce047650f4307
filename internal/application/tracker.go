package application

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/marketplace-txn/internal/domain"
)

// Tracker holds the latest known snapshot of one transaction. Every applied
// snapshot bumps the revision.
type Tracker struct {
	logger zerolog.Logger

	mu       sync.Mutex
	current  domain.Transaction
	known    bool
	revision uint64
}

// Ticket records the revision seen when a request started.
type Ticket struct {
	revision uint64
}

func NewTracker(logger zerolog.Logger) *Tracker {
	return &Tracker{logger: logger}
}

// Begin must be called before issuing a fetch or mutation whose result will
// be passed to ApplyResponse.
func (t *Tracker) Begin() Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Ticket{revision: t.revision}
}

func (t *Tracker) Current() (domain.Transaction, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current, t.known
}

func (t *Tracker) Revision() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.revision
}

// ApplyPush applies a snapshot pushed by the server.
func (t *Tracker) ApplyPush(tx domain.Transaction) (domain.Transaction, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.apply(tx, "push")
}

// ApplyResponse applies a request result. If anything was applied since the
// ticket was taken, the result is kept only when it carries lifecycle
// timestamps strictly ahead of the current snapshot.
func (t *Tracker) ApplyResponse(ticket Ticket, tx domain.Transaction) (domain.Transaction, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.known && ticket.revision != t.revision && !tx.NewerThan(t.current) {
		t.logger.Debug().
			Int64("transaction_id", int64(tx.ID)).
			Str("state", string(tx.State)).
			Uint64("ticket", ticket.revision).
			Uint64("revision", t.revision).
			Msg("discarding stale response")
		return t.current, false
	}
	return t.apply(tx, "response")
}

func (t *Tracker) apply(tx domain.Transaction, source string) (domain.Transaction, bool) {
	if t.known {
		if tx.ID != t.current.ID {
			t.logger.Warn().Int64("transaction_id", int64(t.current.ID)).Int64("got", int64(tx.ID)).Msg("ignoring snapshot for another transaction")
			return t.current, false
		}
		if t.current.State.Terminal() && tx.State != t.current.State {
			t.logger.Warn().Int64("transaction_id", int64(tx.ID)).Str("state", string(tx.State)).Msg("ignoring snapshot leaving a terminal state")
			return t.current, false
		}
		tx = tx.CarryMilestones(t.current)
	}

	t.current = tx
	t.known = true
	t.revision++
	t.logger.Debug().
		Int64("transaction_id", int64(tx.ID)).
		Str("state", string(tx.State)).
		Uint64("revision", t.revision).
		Str("source", source).
		Msg("snapshot applied")
	return tx, true
}
