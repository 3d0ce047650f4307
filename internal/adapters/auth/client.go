package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/bnema/marketplace-txn/internal/ports"
)

const maxOAuthResponseBytes = 1 << 20

// ErrRefreshTokenInvalid means the identity provider will not accept the
// refresh token again. Callers must drop the session.
var ErrRefreshTokenInvalid = fmt.Errorf("%w: refresh token rejected by identity provider", domain.ErrRefreshFailed)

// Endpoints are the OpenID Connect URLs the client talks to.
type Endpoints struct {
	AuthorizationURL string
	TokenURL         string
	RevocationURL    string
}

// KeycloakEndpoints derives the realm endpoints from an issuer such as
// http://localhost:8080/realms/IWA_NextLevel.
func KeycloakEndpoints(issuer string) Endpoints {
	base := strings.TrimRight(issuer, "/") + "/protocol/openid-connect"
	return Endpoints{
		AuthorizationURL: base + "/auth",
		TokenURL:         base + "/token",
		RevocationURL:    base + "/logout",
	}
}

// Client performs the token endpoint calls of a public OAuth client.
type Client struct {
	Endpoints      Endpoints
	ClientID       string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Now            func() time.Time
}

var _ ports.OAuthClient = Client{}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	IDToken          string `json:"id_token"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
}

type oauthErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (c Client) ExchangeCode(ctx context.Context, grant ports.AuthorizationGrant) (ports.TokenSet, error) {
	if grant.Code == "" || grant.CodeVerifier == "" || grant.RedirectURI == "" {
		return ports.TokenSet{}, fmt.Errorf("%w: incomplete authorization grant", domain.ErrAuthExchangeFailed)
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.ClientID)
	form.Set("code", grant.Code)
	form.Set("redirect_uri", grant.RedirectURI)
	form.Set("code_verifier", grant.CodeVerifier)

	resp, err := c.postForm(ctx, c.Endpoints.TokenURL, form)
	if err != nil {
		return ports.TokenSet{}, fmt.Errorf("exchange authorization code: %w: %w", domain.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ports.TokenSet{}, fmt.Errorf("%w: %s", domain.ErrAuthExchangeFailed, decodeOAuthError(resp))
	}

	tokens, err := c.decodeTokens(resp, "")
	if err != nil {
		return ports.TokenSet{}, fmt.Errorf("%w: %w", domain.ErrAuthExchangeFailed, err)
	}
	return tokens, nil
}

// Refresh redeems a refresh token. A 400 or 401 answer is reported as
// ErrRefreshTokenInvalid; anything else that fails is a transport problem.
func (c Client) Refresh(ctx context.Context, refreshToken string) (ports.TokenSet, error) {
	if refreshToken == "" {
		return ports.TokenSet{}, ErrRefreshTokenInvalid
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", c.ClientID)
	form.Set("refresh_token", refreshToken)

	resp, err := c.postForm(ctx, c.Endpoints.TokenURL, form)
	if err != nil {
		return ports.TokenSet{}, fmt.Errorf("refresh tokens: %w: %w", domain.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized:
		return ports.TokenSet{}, fmt.Errorf("%w: %s", ErrRefreshTokenInvalid, decodeOAuthError(resp))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return ports.TokenSet{}, fmt.Errorf("refresh tokens: %w: %s", domain.ErrNetwork, decodeOAuthError(resp))
	}

	tokens, err := c.decodeTokens(resp, refreshToken)
	if err != nil {
		return ports.TokenSet{}, fmt.Errorf("refresh tokens: %w", err)
	}
	return tokens, nil
}

// Revoke ends the provider-side session bound to refreshToken.
func (c Client) Revoke(ctx context.Context, refreshToken string) error {
	if c.Endpoints.RevocationURL == "" {
		return errors.New("revocation url is not configured")
	}

	form := url.Values{}
	form.Set("client_id", c.ClientID)
	form.Set("refresh_token", refreshToken)

	resp, err := c.postForm(ctx, c.Endpoints.RevocationURL, form)
	if err != nil {
		return fmt.Errorf("revoke session: %w: %w", domain.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("revoke session: %s", decodeOAuthError(resp))
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxOAuthResponseBytes))
	return nil
}

func (c Client) decodeTokens(resp *http.Response, previousRefresh string) (ports.TokenSet, error) {
	var payload tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxOAuthResponseBytes)).Decode(&payload); err != nil {
		return ports.TokenSet{}, fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return ports.TokenSet{}, errors.New("token response is missing access_token")
	}

	refresh := payload.RefreshToken
	if refresh == "" {
		refresh = previousRefresh
	}
	if refresh == "" {
		return ports.TokenSet{}, errors.New("token response is missing refresh_token")
	}

	now := c.now()
	tokens := ports.TokenSet{
		AccessToken:  payload.AccessToken,
		RefreshToken: refresh,
		IDToken:      payload.IDToken,
	}
	if payload.ExpiresIn > 0 {
		tokens.AccessExpiresAt = now.Add(time.Duration(payload.ExpiresIn) * time.Second)
	}
	if payload.RefreshExpiresIn > 0 {
		tokens.RefreshExpiresAt = now.Add(time.Duration(payload.RefreshExpiresIn) * time.Second)
	}
	return tokens, nil
}

func (c Client) postForm(ctx context.Context, endpoint string, form url.Values) (*http.Response, error) {
	if _, err := parseHTTPURL(endpoint, "oauth endpoint"); err != nil {
		return nil, err
	}

	reqCtx, cancel := c.requestContext(ctx)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create oauth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, requestTimeout)
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

func decodeOAuthError(resp *http.Response) string {
	var oauthErr oauthErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxOAuthResponseBytes)).Decode(&oauthErr); err != nil {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	if oauthErr.Error == "" {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	if oauthErr.ErrorDescription != "" {
		return oauthErr.Error + ": " + oauthErr.ErrorDescription
	}
	return oauthErr.Error
}
