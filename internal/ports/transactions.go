package ports

import (
	"context"

	"github.com/bnema/marketplace-txn/internal/domain"
)

type CreateTransactionRequest struct {
	ServiceID     int64
	DirectRequest bool
}

type TransactionRepository interface {
	Create(ctx context.Context, req CreateTransactionRequest) (domain.Transaction, error)
	Get(ctx context.Context, id domain.TransactionID) (domain.Transaction, error)
	ListMine(ctx context.Context) ([]domain.Transaction, error)
	UpdateState(ctx context.Context, id domain.TransactionID, target domain.TransactionState) (domain.Transaction, error)
}

type ServiceCatalog interface {
	GetService(ctx context.Context, serviceID int64) (domain.ServiceSummary, error)
}
