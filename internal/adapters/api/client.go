// Package api talks to the marketplace REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/bnema/marketplace-txn/internal/ports"
)

const (
	maxResponseBytes      = 4 << 20
	defaultRequestTimeout = 30 * time.Second
	requestIDHeader       = "X-Request-Id"
)

// Client performs authenticated JSON calls against the backend base URL.
type Client struct {
	baseURL    string
	tokens     ports.TokenSource
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(baseURL string, tokens ports.TokenSource, opts ...Option) (*Client, error) {
	if tokens == nil {
		return nil, errors.New("token source is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return nil, errors.New("api base url host is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(parsed.String(), "/"),
		tokens:     tokens,
		httpClient: http.DefaultClient,
		timeout:    defaultRequestTimeout,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type response struct {
	status int
	body   []byte
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// call sends one request and, if the bearer is rejected, exactly one retry
// with the credential returned by RefreshAfterUnauthorized. The second answer
// is returned as is, 401 included.
func (c *Client) call(ctx context.Context, method string, path string, payload any) (response, error) {
	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return response{}, fmt.Errorf("encode request body: %w", err)
		}
		body = encoded
	}

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return response{}, err
	}

	resp, err := c.send(ctx, method, path, body, token)
	if err != nil || resp.status != http.StatusUnauthorized {
		return resp, err
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("bearer rejected, refreshing once")
	token, err = c.tokens.RefreshAfterUnauthorized(ctx, token)
	if err != nil {
		return response{}, err
	}
	return c.send(ctx, method, path, body, token)
}

func (c *Client) send(ctx context.Context, method string, path string, body []byte, token string) (response, error) {
	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.endpoint(path), reader)
	if err != nil {
		return response{}, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return response{}, ctxErr
		}
		return response{}, networkError(method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return response{}, networkError(method, path, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("api call")

	return response{status: resp.StatusCode, body: data}, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// errorMessage pulls a human message out of a backend error body.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}
	for _, field := range []string{"message", "detail", "error_description", "error"} {
		if value := gjson.GetBytes(body, field); value.Type == gjson.String && value.String() != "" {
			return value.String()
		}
	}
	return ""
}
