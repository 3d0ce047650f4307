package ports

import (
	"context"

	"github.com/bnema/marketplace-txn/internal/domain"
)

// UpdateStream is one open realtime subscription. Updates is closed when the
// stream ends; Err then reports why (nil after Close).
type UpdateStream interface {
	Updates() <-chan domain.Transaction
	Err() error
	Close() error
}

type UpdateChannel interface {
	Open(ctx context.Context, id domain.TransactionID) (UpdateStream, error)
}
