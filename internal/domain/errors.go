package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAuthCanceled       = errors.New("authentication canceled")
	ErrAuthExchangeFailed = errors.New("authorization code exchange failed")
	ErrRefreshFailed      = errors.New("session refresh failed")
	ErrNotAuthenticated   = errors.New("not authenticated")

	ErrTransitionRejected      = errors.New("transition rejected")
	ErrConfirmationRequired    = errors.New("action requires confirmation")
	ErrNotParticipant          = errors.New("viewer is not a party to this transaction")
	ErrActiveTransactionExists = errors.New("an active transaction already exists for this service")
	ErrNotFound                = errors.New("not found")

	ErrConnection = errors.New("realtime connection error")
	ErrNetwork    = errors.New("network error")

	ErrSecretNotFound  = errors.New("secret not found")
	ErrSessionNotFound = errors.New("session record not found")
)

// APIError carries the HTTP detail of a failed backend call. It unwraps to
// Kind so callers can branch with errors.Is on the taxonomy above.
type APIError struct {
	StatusCode int
	Message    string
	Kind       error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: status %d", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%v: status %d: %s", e.Kind, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}
