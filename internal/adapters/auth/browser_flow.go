package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/bnema/marketplace-txn/internal/ports"
)

const callbackPath = "/auth/callback"

var (
	ErrStateMismatch = errors.New("oauth callback state mismatch")
	ErrMissingState  = errors.New("expected state is required")
)

type AuthorizationRequest struct {
	AuthURL       string
	ClientID      string
	RedirectURI   string
	Scopes        []string
	State         string
	CodeChallenge string
}

func BuildAuthorizationURL(req AuthorizationRequest) (string, error) {
	if req.AuthURL == "" {
		return "", errors.New("auth url is required")
	}
	if req.ClientID == "" {
		return "", errors.New("client id is required")
	}
	if req.RedirectURI == "" {
		return "", errors.New("redirect uri is required")
	}
	if req.State == "" {
		return "", errors.New("state is required")
	}
	if req.CodeChallenge == "" {
		return "", errors.New("code challenge is required")
	}

	parsed, err := parseHTTPURL(req.AuthURL, "auth url")
	if err != nil {
		return "", err
	}

	q := parsed.Query()
	q.Set("response_type", "code")
	q.Set("client_id", req.ClientID)
	q.Set("redirect_uri", req.RedirectURI)
	if len(req.Scopes) > 0 {
		q.Set("scope", strings.Join(req.Scopes, " "))
	}
	q.Set("state", req.State)
	q.Set("code_challenge", req.CodeChallenge)
	q.Set("code_challenge_method", PKCEChallengeMethodS256)
	parsed.RawQuery = q.Encode()

	return parsed.String(), nil
}

// CallbackServer receives the authorization redirect on a loopback port.
type CallbackServer struct {
	expectedState string
	listener      net.Listener
	server        *http.Server
	resultCh      chan callbackResult
	resultOnce    sync.Once
	closeOnce     sync.Once
}

type callbackResult struct {
	code string
	err  error
}

func StartCallbackServer(listenAddr string, expectedState string) (*CallbackServer, error) {
	if expectedState == "" {
		return nil, ErrMissingState
	}
	if listenAddr == "" {
		listenAddr = "127.0.0.1:0"
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen callback server: %w", err)
	}

	cb := &CallbackServer{
		expectedState: expectedState,
		listener:      listener,
		resultCh:      make(chan callbackResult, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, cb.handleCallback)
	cb.server = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if serveErr := cb.server.Serve(cb.listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			cb.trySendResult(callbackResult{err: serveErr})
		}
	}()

	return cb, nil
}

func (c *CallbackServer) RedirectURI() string {
	if tcpAddr, ok := c.listener.Addr().(*net.TCPAddr); ok {
		return fmt.Sprintf("http://localhost:%d%s", tcpAddr.Port, callbackPath)
	}
	return "http://localhost" + callbackPath
}

// WaitForCode blocks until the redirect arrives. Timeouts, cancellation and
// an access_denied redirect all mean the user walked away from the flow and
// are reported as domain.ErrAuthCanceled.
func (c *CallbackServer) WaitForCode(ctx context.Context, timeout time.Duration) (string, error) {
	defer func() { _ = c.Close() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-c.resultCh:
		return result.code, result.err
	case <-timer.C:
		return "", fmt.Errorf("%w: timed out waiting for oauth callback", domain.ErrAuthCanceled)
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", domain.ErrAuthCanceled, ctx.Err())
	}
}

func (c *CallbackServer) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		closeErr = c.server.Close()
	})
	return closeErr
}

func (c *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	state := query.Get("state")
	code := query.Get("code")

	if state != c.expectedState {
		c.trySendResult(callbackResult{err: ErrStateMismatch})
		http.Error(w, "state mismatch", http.StatusBadRequest)
		return
	}
	if oauthError := query.Get("error"); oauthError != "" {
		description := query.Get("error_description")
		if description != "" {
			oauthError = oauthError + ": " + description
		}
		var err error
		if query.Get("error") == "access_denied" {
			err = fmt.Errorf("%w: %s", domain.ErrAuthCanceled, oauthError)
		} else {
			err = fmt.Errorf("%w: %s", domain.ErrAuthExchangeFailed, oauthError)
		}
		c.trySendResult(callbackResult{err: err})
		http.Error(w, "authorization was not granted", http.StatusBadRequest)
		return
	}
	if code == "" {
		c.trySendResult(callbackResult{err: fmt.Errorf("%w: missing authorization code", domain.ErrAuthExchangeFailed)})
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	c.trySendResult(callbackResult{code: code})
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Signed in. You can close this window and return to the terminal."))
}

func (c *CallbackServer) trySendResult(result callbackResult) {
	c.resultOnce.Do(func() {
		c.resultCh <- result
	})
}

// LoopbackAuthorizer drives the browser half of the login: it generates the
// PKCE pair, serves the redirect locally and hands the URL to Present.
type LoopbackAuthorizer struct {
	AuthorizationURL string
	ClientID         string
	Scopes           []string
	ListenAddr       string
	Timeout          time.Duration
	Present          func(authURL string) error
}

var _ ports.Authorizer = LoopbackAuthorizer{}

func (a LoopbackAuthorizer) Authorize(ctx context.Context) (ports.AuthorizationGrant, error) {
	pkce, err := NewPKCEPair()
	if err != nil {
		return ports.AuthorizationGrant{}, fmt.Errorf("generate pkce: %w", err)
	}
	state, err := NewState()
	if err != nil {
		return ports.AuthorizationGrant{}, fmt.Errorf("generate oauth state: %w", err)
	}

	server, err := StartCallbackServer(a.ListenAddr, state)
	if err != nil {
		return ports.AuthorizationGrant{}, fmt.Errorf("start callback server: %w", err)
	}

	authURL, err := BuildAuthorizationURL(AuthorizationRequest{
		AuthURL:       a.AuthorizationURL,
		ClientID:      a.ClientID,
		RedirectURI:   server.RedirectURI(),
		Scopes:        a.Scopes,
		State:         state,
		CodeChallenge: pkce.Challenge,
	})
	if err != nil {
		_ = server.Close()
		return ports.AuthorizationGrant{}, fmt.Errorf("build authorization url: %w", err)
	}

	if a.Present != nil {
		if err := a.Present(authURL); err != nil {
			_ = server.Close()
			return ports.AuthorizationGrant{}, fmt.Errorf("present authorization url: %w", err)
		}
	}

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	code, err := server.WaitForCode(ctx, timeout)
	if err != nil {
		return ports.AuthorizationGrant{}, err
	}

	return ports.AuthorizationGrant{
		Code:         code,
		CodeVerifier: pkce.Verifier,
		RedirectURI:  server.RedirectURI(),
	}, nil
}

func parseHTTPURL(raw string, what string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", what, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%s must use http or https", what)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("%s host is required", what)
	}
	return parsed, nil
}
