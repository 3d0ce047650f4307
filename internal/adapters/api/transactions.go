package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/bnema/marketplace-txn/internal/ports"
)

var _ ports.TransactionRepository = (*Client)(nil)

func (c *Client) Create(ctx context.Context, req ports.CreateTransactionRequest) (domain.Transaction, error) {
	resp, err := c.call(ctx, http.MethodPost, "transactions", createRequestDTO{
		ServiceID:     req.ServiceID,
		DirectRequest: req.DirectRequest,
	})
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("create transaction for service %d: %w", req.ServiceID, err)
	}
	if !resp.ok() {
		return domain.Transaction{}, fmt.Errorf("create transaction for service %d: %w", req.ServiceID, statusError(opCreate, resp))
	}
	return DecodeTransaction(resp.body)
}

func (c *Client) Get(ctx context.Context, id domain.TransactionID) (domain.Transaction, error) {
	resp, err := c.call(ctx, http.MethodGet, fmt.Sprintf("transactions/%d", id), nil)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	if !resp.ok() {
		return domain.Transaction{}, fmt.Errorf("get transaction %d: %w", id, statusError(opGet, resp))
	}
	return DecodeTransaction(resp.body)
}

func (c *Client) ListMine(ctx context.Context) ([]domain.Transaction, error) {
	resp, err := c.call(ctx, http.MethodGet, "transactions/my", nil)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if !resp.ok() {
		return nil, fmt.Errorf("list transactions: %w", statusError(opList, resp))
	}
	return decodeTransactions(resp.body)
}

// UpdateState requests a transition. The server re-checks role and state and
// its answer is the authoritative snapshot.
func (c *Client) UpdateState(ctx context.Context, id domain.TransactionID, target domain.TransactionState) (domain.Transaction, error) {
	resp, err := c.call(ctx, http.MethodPut, fmt.Sprintf("transactions/%d/state", id), updateStateDTO{NewState: target})
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("update transaction %d state: %w", id, err)
	}
	if !resp.ok() {
		return domain.Transaction{}, fmt.Errorf("update transaction %d state to %s: %w", id, target, statusError(opTransition, resp))
	}
	return DecodeTransaction(resp.body)
}
