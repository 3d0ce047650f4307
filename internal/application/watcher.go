package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"

	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/bnema/marketplace-txn/internal/ports"
)

var (
	errFetchSuperseded = errors.New("fetch superseded by a newer request")
	errWatchSettled    = errors.New("transaction settled")
	errNoSnapshot      = errors.New("no snapshot loaded yet")
)

// healthyStreamAge is how long a quiet stream must stay open to count as a
// working connection rather than a failed attempt.
const healthyStreamAge = time.Minute

type WatcherConfig struct {
	MaxReconnects     uint
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
}

func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		MaxReconnects:     5,
		ReconnectDelay:    time.Second,
		MaxReconnectDelay: 30 * time.Second,
	}
}

// Watcher keeps one transaction's snapshot current from realtime pushes,
// fetches and the viewer's own actions. All three funnel through a Tracker.
type Watcher struct {
	orchestrator *Orchestrator
	channel      ports.UpdateChannel
	tracker      *Tracker
	id           domain.TransactionID
	cfg          WatcherConfig
	logger       zerolog.Logger

	fetchMu     sync.Mutex
	fetchSeq    uint64
	cancelFetch context.CancelFunc

	emitMu   sync.Mutex
	listener func(domain.Transaction)
}

type WatcherOption func(*Watcher)

func WithWatcherLogger(logger zerolog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

func NewWatcher(orchestrator *Orchestrator, channel ports.UpdateChannel, id domain.TransactionID, cfg WatcherConfig, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		orchestrator: orchestrator,
		channel:      channel,
		id:           id,
		cfg:          cfg,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.tracker = NewTracker(w.logger)
	return w
}

func (w *Watcher) Current() (domain.Transaction, bool) {
	return w.tracker.Current()
}

// Run subscribes, loads the current snapshot and reports every accepted
// snapshot to onSnapshot until ctx ends or the transaction reaches a
// terminal state. Dropped streams are reopened with backoff and followed by
// a fresh fetch.
func (w *Watcher) Run(ctx context.Context, onSnapshot func(domain.Transaction)) error {
	w.emitMu.Lock()
	w.listener = onSnapshot
	w.emitMu.Unlock()

	for {
		var healthy bool
		err := retry.Do(
			func() error {
				delivered, err := w.follow(ctx)
				if delivered && reconnectable(err) {
					healthy = true
					return retry.Unrecoverable(err)
				}
				return err
			},
			retry.Context(ctx),
			retry.Attempts(w.cfg.MaxReconnects+1),
			retry.Delay(w.cfg.ReconnectDelay),
			retry.MaxDelay(w.cfg.MaxReconnectDelay),
			retry.DelayType(retry.BackOffDelay),
			retry.LastErrorOnly(true),
			retry.RetryIf(func(err error) bool {
				return retry.IsRecoverable(err) && reconnectable(err)
			}),
			retry.OnRetry(func(n uint, err error) {
				w.logger.Warn().Err(err).Uint("attempt", n+1).Int64("transaction_id", int64(w.id)).Msg("realtime channel lost, reconnecting")
			}),
		)
		// A stream that carried updates before ending starts a new
		// reconnect budget.
		if healthy && ctx.Err() == nil {
			w.logger.Info().Int64("transaction_id", int64(w.id)).Msg("realtime stream ended, reopening")
			continue
		}
		if errors.Is(err, errWatchSettled) {
			return nil
		}
		return err
	}
}

func reconnectable(err error) bool {
	return errors.Is(err, domain.ErrConnection) || errors.Is(err, domain.ErrNetwork)
}

// follow reads one stream until it ends. delivered reports whether the
// stream carried an update or stayed open for healthyStreamAge.
func (w *Watcher) follow(ctx context.Context) (delivered bool, err error) {
	stream, err := w.channel.Open(ctx, w.id)
	if err != nil {
		return false, err
	}
	openedAt := time.Now()
	defer func() {
		if time.Since(openedAt) >= healthyStreamAge {
			delivered = true
		}
	}()

	fetchCtx, cancelFetch := context.WithCancel(ctx)
	result := make(chan error, 1)
	fetchDone := make(chan struct{})
	go func() {
		defer close(fetchDone)
		_, err := w.Refresh(fetchCtx)
		result <- err
	}()
	defer func() {
		cancelFetch()
		<-fetchDone
		_ = stream.Close()
	}()

	fetched := result
	for {
		select {
		case <-ctx.Done():
			return delivered, ctx.Err()
		case err := <-fetched:
			fetched = nil
			if err != nil && !errors.Is(err, errFetchSuperseded) {
				return delivered, err
			}
			if w.settled() {
				return delivered, errWatchSettled
			}
		case tx, ok := <-stream.Updates():
			if !ok {
				if err := stream.Err(); err != nil {
					return delivered, err
				}
				return delivered, fmt.Errorf("%w: stream closed", domain.ErrConnection)
			}
			delivered = true
			w.applyPush(tx)
			if w.settled() {
				return delivered, errWatchSettled
			}
		}
	}
}

// Refresh fetches the transaction again. A newer Refresh cancels one still in
// flight, and a result that resolves after a newer snapshot was applied is
// discarded.
func (w *Watcher) Refresh(ctx context.Context) (domain.Transaction, error) {
	fetchCtx, cancel := context.WithCancel(ctx)
	w.fetchMu.Lock()
	if w.cancelFetch != nil {
		w.cancelFetch()
	}
	w.fetchSeq++
	seq := w.fetchSeq
	w.cancelFetch = cancel
	w.fetchMu.Unlock()

	defer func() {
		w.fetchMu.Lock()
		if w.fetchSeq == seq {
			w.cancelFetch = nil
		}
		w.fetchMu.Unlock()
		cancel()
	}()

	ticket := w.tracker.Begin()
	tx, err := w.orchestrator.Get(fetchCtx, w.id)
	if err != nil {
		if fetchCtx.Err() != nil && ctx.Err() == nil {
			return domain.Transaction{}, errFetchSuperseded
		}
		return domain.Transaction{}, err
	}

	w.applyResponse(ticket, tx)
	current, _ := w.tracker.Current()
	return current, nil
}

// Execute runs action against the latest snapshot and applies the server's
// answer through the same ordering rules as a fetch.
func (w *Watcher) Execute(ctx context.Context, viewer domain.Identity, action domain.ActionDescriptor, confirmed bool) (domain.Transaction, error) {
	current, ok := w.tracker.Current()
	if !ok {
		return domain.Transaction{}, errNoSnapshot
	}

	ticket := w.tracker.Begin()
	updated, err := w.orchestrator.Execute(ctx, current, viewer, action, confirmed)
	if err != nil {
		return domain.Transaction{}, err
	}

	w.applyResponse(ticket, updated)
	current, _ = w.tracker.Current()
	return current, nil
}

func (w *Watcher) AvailableActions(viewer domain.Identity) []domain.ActionDescriptor {
	current, ok := w.tracker.Current()
	if !ok {
		return []domain.ActionDescriptor{}
	}
	return w.orchestrator.AvailableActions(current, viewer)
}

func (w *Watcher) settled() bool {
	current, ok := w.tracker.Current()
	return ok && current.State.Terminal()
}

// applyPush and applyResponse hold emitMu across apply and notify so the
// listener sees snapshots in the order they were applied. The listener must
// not call Refresh or Execute.
func (w *Watcher) applyPush(tx domain.Transaction) {
	w.emitMu.Lock()
	defer w.emitMu.Unlock()
	w.notify(w.tracker.ApplyPush(tx))
}

func (w *Watcher) applyResponse(ticket Ticket, tx domain.Transaction) {
	w.emitMu.Lock()
	defer w.emitMu.Unlock()
	w.notify(w.tracker.ApplyResponse(ticket, tx))
}

func (w *Watcher) notify(tx domain.Transaction, applied bool) {
	if applied && w.listener != nil {
		w.listener(tx)
	}
}
