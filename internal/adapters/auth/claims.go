package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/bnema/marketplace-txn/internal/ports"
)

type accessTokenClaims struct {
	jwt.RegisteredClaims
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
}

var _ ports.AccessTokenParser = ParseAccessToken

// ParseAccessToken reads the identity and expiry claims without verifying
// the signature; verification is the backend's job. A token without exp
// yields a zero expiry.
func ParseAccessToken(token string) (domain.Identity, time.Time, error) {
	var claims accessTokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return domain.Identity{}, time.Time{}, fmt.Errorf("parse access token: %w", err)
	}
	if claims.Subject == "" {
		return domain.Identity{}, time.Time{}, errors.New("access token has no subject")
	}

	display := claims.Name
	if display == "" {
		display = claims.PreferredUsername
	}
	if display == "" {
		display = claims.Email
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return domain.Identity{
		Subject:     claims.Subject,
		DisplayName: display,
		Email:       claims.Email,
	}, expiresAt, nil
}
