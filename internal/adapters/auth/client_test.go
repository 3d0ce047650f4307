package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/bnema/marketplace-txn/internal/ports"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestClient(serverURL string) Client {
	return Client{
		Endpoints: KeycloakEndpoints(serverURL + "/realms/test"),
		ClientID:  "user-microservice",
		Now:       func() time.Time { return fixedNow },
	}
}

func TestKeycloakEndpoints(t *testing.T) {
	t.Parallel()

	endpoints := KeycloakEndpoints("http://localhost:8080/realms/IWA_NextLevel/")
	assert.Equal(t, "http://localhost:8080/realms/IWA_NextLevel/protocol/openid-connect/auth", endpoints.AuthorizationURL)
	assert.Equal(t, "http://localhost:8080/realms/IWA_NextLevel/protocol/openid-connect/token", endpoints.TokenURL)
	assert.Equal(t, "http://localhost:8080/realms/IWA_NextLevel/protocol/openid-connect/logout", endpoints.RevocationURL)
}

func TestExchangeCodeSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/realms/test/protocol/openid-connect/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "user-microservice", r.Form.Get("client_id"))
		assert.Equal(t, "http://localhost:1455/auth/callback", r.Form.Get("redirect_uri"))
		assert.Equal(t, "code-abc", r.Form.Get("code"))
		assert.Equal(t, "verifier-xyz", r.Form.Get("code_verifier"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","id_token":"it","token_type":"Bearer","expires_in":300,"refresh_expires_in":1800}`))
	}))
	defer server.Close()

	tokens, err := newTestClient(server.URL).ExchangeCode(context.Background(), ports.AuthorizationGrant{
		Code:         "code-abc",
		CodeVerifier: "verifier-xyz",
		RedirectURI:  "http://localhost:1455/auth/callback",
	})
	require.NoError(t, err)
	assert.Equal(t, "at", tokens.AccessToken)
	assert.Equal(t, "rt", tokens.RefreshToken)
	assert.Equal(t, "it", tokens.IDToken)
	assert.Equal(t, fixedNow.Add(5*time.Minute), tokens.AccessExpiresAt)
	assert.Equal(t, fixedNow.Add(30*time.Minute), tokens.RefreshExpiresAt)
}

func TestExchangeCodeFailureStatusIsExchangeFailed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Code not valid"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ExchangeCode(context.Background(), ports.AuthorizationGrant{
		Code:         "code-abc",
		CodeVerifier: "verifier-xyz",
		RedirectURI:  "http://localhost:1455/auth/callback",
	})
	require.ErrorIs(t, err, domain.ErrAuthExchangeFailed)
	assert.Contains(t, err.Error(), "Code not valid")
}

func TestRefreshSuccessKeepsOldRefreshTokenWhenNotRotated(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "user-microservice", r.Form.Get("client_id"))
		assert.Equal(t, "refresh-abc", r.Form.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at2","expires_in":300}`))
	}))
	defer server.Close()

	tokens, err := newTestClient(server.URL).Refresh(context.Background(), "refresh-abc")
	require.NoError(t, err)
	assert.Equal(t, "at2", tokens.AccessToken)
	assert.Equal(t, "refresh-abc", tokens.RefreshToken)
}

func TestRefreshReturnsInvalidSentinelOnRejection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Session not active"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Refresh(context.Background(), "refresh-abc")
	require.ErrorIs(t, err, ErrRefreshTokenInvalid)
	assert.ErrorIs(t, err, domain.ErrRefreshFailed)
}

func TestRefreshServerErrorIsNetwork(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Refresh(context.Background(), "refresh-abc")
	require.ErrorIs(t, err, domain.ErrNetwork)
	assert.NotErrorIs(t, err, domain.ErrRefreshFailed)
}

func TestRevokePostsRefreshToken(t *testing.T) {
	t.Parallel()

	var called atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
		require.Equal(t, "/realms/test/protocol/openid-connect/logout", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "user-microservice", r.Form.Get("client_id"))
		assert.Equal(t, "rt", r.Form.Get("refresh_token"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	require.NoError(t, newTestClient(server.URL).Revoke(context.Background(), "rt"))
	assert.True(t, called.Load())
}
