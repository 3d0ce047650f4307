// Package realtime subscribes to per-transaction server-sent event streams.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/bnema/marketplace-txn/internal/ports"
)

const maxErrorBodyBytes = 64 << 10

// Channel opens authenticated event streams. It never reconnects on its own;
// the owner of a subscription decides whether to open a new one.
type Channel struct {
	baseURL    string
	tokens     ports.TokenSource
	httpClient *http.Client
	logger     zerolog.Logger
}

var _ ports.UpdateChannel = (*Channel)(nil)

type Option func(*Channel)

// WithHTTPClient sets the client used for streams. It must not carry an
// overall Timeout, which would cut long-lived streams.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Channel) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Channel) {
		c.logger = logger
	}
}

func NewChannel(baseURL string, tokens ports.TokenSource, opts ...Option) (*Channel, error) {
	if tokens == nil {
		return nil, errors.New("token source is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse stream base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("stream base url must use http or https")
	}
	if parsed.Host == "" {
		return nil, errors.New("stream base url host is required")
	}

	c := &Channel{
		baseURL:    strings.TrimRight(parsed.String(), "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Open starts the stream for one transaction. The bearer is attached once
// for the lifetime of the connection. A 401 handshake is retried once with a
// refreshed credential; any other non-2xx answer is domain.ErrConnection.
func (c *Channel) Open(ctx context.Context, id domain.TransactionID) (ports.UpdateStream, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	resp, err := c.connect(streamCtx, id, token)
	if err == nil && resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		c.logger.Debug().Int64("transaction_id", int64(id)).Msg("stream handshake rejected, refreshing once")
		token, err = c.tokens.RefreshAfterUnauthorized(ctx, token)
		if err != nil {
			cancel()
			return nil, err
		}
		resp, err = c.connect(streamCtx, id, token)
	}
	if err != nil {
		cancel()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("open stream for transaction %d: %w: %w", id, domain.ErrConnection, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := handshakeMessage(resp)
		cancel()
		return nil, fmt.Errorf("open stream for transaction %d: %w", id, &domain.APIError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Kind:       domain.ErrConnection,
		})
	}

	c.logger.Debug().Int64("transaction_id", int64(id)).Msg("stream opened")
	return newStream(id, resp.Body, cancel, c.logger), nil
}

// Subscribe is the callback form of Open. onUpdate receives every snapshot,
// onError a connection failure (wrapping domain.ErrConnection) at most once.
// The returned unsubscribe may be called any number of times; the connection
// is released exactly once.
func (c *Channel) Subscribe(ctx context.Context, id domain.TransactionID, onUpdate func(domain.Transaction), onError func(error)) (unsubscribe func()) {
	subCtx, cancel := context.WithCancel(ctx)

	var (
		once    sync.Once
		mu      sync.Mutex
		stream  ports.UpdateStream
		stopped bool
	)

	unsubscribe = func() {
		once.Do(func() {
			cancel()
			mu.Lock()
			stopped = true
			current := stream
			mu.Unlock()
			if current != nil {
				_ = current.Close()
			}
		})
	}

	go func() {
		opened, err := c.Open(subCtx, id)
		if err != nil {
			if subCtx.Err() == nil && onError != nil {
				onError(err)
			}
			return
		}

		mu.Lock()
		if stopped {
			mu.Unlock()
			_ = opened.Close()
			return
		}
		stream = opened
		mu.Unlock()
		defer func() { _ = opened.Close() }()

		for tx := range opened.Updates() {
			if subCtx.Err() != nil {
				return
			}
			if onUpdate != nil {
				onUpdate(tx)
			}
		}
		if err := opened.Err(); err != nil && subCtx.Err() == nil && onError != nil {
			onError(err)
		}
	}()

	return unsubscribe
}

func (c *Channel) connect(ctx context.Context, id domain.TransactionID, token string) (*http.Response, error) {
	endpoint := fmt.Sprintf("%s/transactions/sse/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create stream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Request-Id", uuid.NewString())

	return c.httpClient.Do(req)
}

func handshakeMessage(resp *http.Response) string {
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil || len(data) == 0 {
		return ""
	}
	if message := gjson.GetBytes(data, "message"); message.Type == gjson.String {
		return message.String()
	}
	return strings.TrimSpace(string(data))
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes))
	_ = resp.Body.Close()
}
