package api

import (
	"fmt"
	"net/http"

	"github.com/bnema/marketplace-txn/internal/domain"
)

type operation int

const (
	opCreate operation = iota
	opGet
	opList
	opTransition
	opCatalog
)

// statusError maps a non-2xx answer onto the error taxonomy. A 401 here is
// the answer to the retried request.
func statusError(op operation, resp response) error {
	return &domain.APIError{
		StatusCode: resp.status,
		Message:    errorMessage(resp.body),
		Kind:       errorKind(op, resp.status),
	}
}

func errorKind(op operation, status int) error {
	switch {
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case op == opTransition && (status == http.StatusBadRequest ||
		status == http.StatusUnauthorized ||
		status == http.StatusForbidden ||
		status == http.StatusConflict):
		return domain.ErrTransitionRejected
	case op == opCreate && status == http.StatusConflict:
		return domain.ErrActiveTransactionExists
	case op == opGet && status == http.StatusForbidden:
		return domain.ErrNotParticipant
	default:
		return domain.ErrNetwork
	}
}

func networkError(method string, path string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrNetwork, err)
}
