package application

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/bnema/marketplace-txn/internal/ports"
)

// Orchestrator turns a viewer's intent into repository calls. Legality is
// checked locally first; the server's answer is authoritative.
type Orchestrator struct {
	repo    ports.TransactionRepository
	catalog *CatalogCache
	logger  zerolog.Logger
	creates singleflight.Group

	createTimeout time.Duration
}

const defaultCreateTimeout = 30 * time.Second

type OrchestratorOption func(*Orchestrator)

func WithOrchestratorLogger(logger zerolog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithCreateTimeout bounds a shared create request, which outlives the
// cancellation of any single caller.
func WithCreateTimeout(timeout time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.createTimeout = timeout
		}
	}
}

// NewOrchestrator builds an orchestrator. catalog may be nil, in which case
// Describe returns transactions without enrichment.
func NewOrchestrator(repo ports.TransactionRepository, catalog *CatalogCache, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		repo:          repo,
		catalog:       catalog,
		logger:        zerolog.Nop(),
		createTimeout: defaultCreateTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// AvailableActions lists what viewer may do next. Non-participants get an
// empty list.
func (o *Orchestrator) AvailableActions(tx domain.Transaction, viewer domain.Identity) []domain.ActionDescriptor {
	role, ok := tx.RoleOf(viewer.Subject)
	if !ok {
		return []domain.ActionDescriptor{}
	}
	return domain.LegalActions(tx.State, role)
}

// Execute requests the transition described by action. The descriptor is
// re-derived from the lifecycle table, so a caller cannot skip confirmation
// by handing in a modified one.
func (o *Orchestrator) Execute(ctx context.Context, tx domain.Transaction, viewer domain.Identity, action domain.ActionDescriptor, confirmed bool) (domain.Transaction, error) {
	role, ok := tx.RoleOf(viewer.Subject)
	if !ok {
		return domain.Transaction{}, fmt.Errorf("transaction %d: %w", tx.ID, domain.ErrNotParticipant)
	}
	if err := domain.ValidateTransition(tx.State, role, action.TargetState); err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %d: %w", tx.ID, err)
	}

	canonical, _ := findAction(domain.LegalActions(tx.State, role), action.TargetState)
	if canonical.RequiresConfirmation && !confirmed {
		return domain.Transaction{}, fmt.Errorf("%s: %w", canonical.Label, domain.ErrConfirmationRequired)
	}

	updated, err := o.repo.UpdateState(ctx, tx.ID, canonical.TargetState)
	if err != nil {
		return domain.Transaction{}, err
	}

	o.logger.Info().
		Int64("transaction_id", int64(tx.ID)).
		Str("from", string(tx.State)).
		Str("state", string(updated.State)).
		Str("role", string(role)).
		Msg("transition accepted")
	return updated, nil
}

// Create opens a transaction for serviceID. Concurrent calls for the same
// viewer and service share one request; the server still rejects a second
// active transaction with domain.ErrActiveTransactionExists.
func (o *Orchestrator) Create(ctx context.Context, viewer domain.Identity, serviceID int64, direct bool) (domain.Transaction, error) {
	if viewer.Subject == "" {
		return domain.Transaction{}, domain.ErrNotAuthenticated
	}

	key := fmt.Sprintf("%s/%d", viewer.Subject, serviceID)
	ch := o.creates.DoChan(key, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.createTimeout)
		defer cancel()
		return o.repo.Create(flightCtx, ports.CreateTransactionRequest{ServiceID: serviceID, DirectRequest: direct})
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return domain.Transaction{}, ctx.Err()
	}
	if res.Err != nil {
		return domain.Transaction{}, res.Err
	}

	tx := res.Val.(domain.Transaction)
	shared := res.Shared
	o.logger.Info().
		Int64("transaction_id", int64(tx.ID)).
		Int64("service_id", serviceID).
		Str("state", string(tx.State)).
		Bool("shared", shared).
		Msg("transaction created")
	return tx, nil
}

func (o *Orchestrator) Get(ctx context.Context, id domain.TransactionID) (domain.Transaction, error) {
	return o.repo.Get(ctx, id)
}

func (o *Orchestrator) ListMine(ctx context.Context) ([]domain.Transaction, error) {
	return o.repo.ListMine(ctx)
}

// Describe attaches catalog details when available. Lookup failures only
// cost the enrichment.
func (o *Orchestrator) Describe(ctx context.Context, tx domain.Transaction) domain.TransactionDetails {
	details := domain.TransactionDetails{Transaction: tx}
	if o.catalog == nil {
		return details
	}

	summary, err := o.catalog.Lookup(ctx, tx.ServiceID)
	if err != nil {
		o.logger.Debug().Err(err).Int64("service_id", tx.ServiceID).Msg("catalog lookup failed")
		return details
	}
	details.Service = &summary
	return details
}

func findAction(actions []domain.ActionDescriptor, target domain.TransactionState) (domain.ActionDescriptor, bool) {
	for _, action := range actions {
		if action.TargetState == target {
			return action, true
		}
	}
	return domain.ActionDescriptor{}, false
}
