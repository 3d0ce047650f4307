package ports

import (
	"context"
	"time"

	"github.com/bnema/marketplace-txn/internal/domain"
)

// TokenSet is a token endpoint response with lifetimes resolved to instants.
type TokenSet struct {
	AccessToken      string
	RefreshToken     string
	IDToken          string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// AuthorizationGrant is the outcome of the interactive half of an
// authorization-code login.
type AuthorizationGrant struct {
	Code         string
	CodeVerifier string
	RedirectURI  string
}

// Authorizer runs the interactive authorization step. A user dismissing the
// flow is reported as domain.ErrAuthCanceled.
type Authorizer interface {
	Authorize(ctx context.Context) (AuthorizationGrant, error)
}

type OAuthClient interface {
	ExchangeCode(ctx context.Context, grant AuthorizationGrant) (TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (TokenSet, error)
	Revoke(ctx context.Context, refreshToken string) error
}

// TokenSource hands out bearer credentials to authenticated adapters.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
	// RefreshAfterUnauthorized is called once a request presenting stale was
	// answered with 401. It returns a credential to retry with.
	RefreshAfterUnauthorized(ctx context.Context, stale string) (string, error)
}

// AccessTokenParser decodes identity and expiry from an access credential.
// A zero expiry means the credential carries none.
type AccessTokenParser func(token string) (domain.Identity, time.Time, error)
