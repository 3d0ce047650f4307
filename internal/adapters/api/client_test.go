package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/bnema/marketplace-txn/internal/ports"
	portmocks "github.com/bnema/marketplace-txn/internal/ports/mocks"
)

const exchangingJSON = `{"id":42,"state":"EXCHANGING","serviceId":7,"idClient":"client-1","idProvider":"provider-1","creationDate":"2026-03-01T12:00:00.123456"}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *portmocks.MockTokenSource) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := portmocks.NewMockTokenSource(t)
	client, err := NewClient(server.URL+"/api", tokens)
	require.NoError(t, err)
	return client, tokens
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	t.Parallel()

	tokens := portmocks.NewMockTokenSource(t)
	_, err := NewClient("ftp://example.com", tokens)
	require.ErrorContains(t, err, "http or https")

	_, err = NewClient("http://", tokens)
	require.ErrorContains(t, err, "host is required")

	_, err = NewClient("http://example.com", nil)
	require.Error(t, err)
}

func TestCreatePostsServiceAndDirectFlag(t *testing.T) {
	t.Parallel()

	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/transactions", r.URL.Path)
		assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get(requestIDHeader))
		assert.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(7), body["serviceId"])
		assert.Equal(t, true, body["directRequest"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":42,"state":"REQUESTED","serviceId":7,"idClient":"client-1","idProvider":"provider-1","creationDate":"2026-03-01T12:00:00"}`))
	})
	tokens.EXPECT().AccessToken(mock.Anything).Return("at", nil).Once()

	tx, err := client.Create(context.Background(), ports.CreateTransactionRequest{ServiceID: 7, DirectRequest: true})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionID(42), tx.ID)
	assert.Equal(t, domain.StateRequested, tx.State)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), tx.CreatedAt)
}

func TestCreateConflictIsActiveTransactionExists(t *testing.T) {
	t.Parallel()

	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"status":409,"error":"Conflict","message":"An active transaction already exists"}`))
	})
	tokens.EXPECT().AccessToken(mock.Anything).Return("at", nil).Once()

	_, err := client.Create(context.Background(), ports.CreateTransactionRequest{ServiceID: 7})
	require.ErrorIs(t, err, domain.ErrActiveTransactionExists)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "An active transaction already exists", apiErr.Message)
}

func TestGetMissingIsNotFound(t *testing.T) {
	t.Parallel()

	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transactions/99", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})
	tokens.EXPECT().AccessToken(mock.Anything).Return("at", nil).Once()

	_, err := client.Get(context.Background(), 99)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListMineDecodesEveryTransaction(t *testing.T) {
	t.Parallel()

	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transactions/my", r.URL.Path)
		_, _ = w.Write([]byte(`[` + exchangingJSON + `,{"id":43,"state":"CANCELED","serviceId":8,"idClient":"client-1","idProvider":"provider-2","creationDate":"2026-03-01T10:00:00Z","finishDate":"2026-03-01T11:00:00Z"}]`))
	})
	tokens.EXPECT().AccessToken(mock.Anything).Return("at", nil).Once()

	txs, err := client.ListMine(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, domain.StateExchanging, txs[0].State)
	assert.Equal(t, domain.StateCanceled, txs[1].State)
	require.NotNil(t, txs[1].FinishedAt)
}

func TestUpdateStateSendsTargetAndReturnsSnapshot(t *testing.T) {
	t.Parallel()

	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/transactions/42/state", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "REQUESTED", body["newState"])

		_, _ = w.Write([]byte(`{"id":42,"state":"REQUESTED","serviceId":7,"idClient":"client-1","idProvider":"provider-1","creationDate":"2026-03-01T12:00:00"}`))
	})
	tokens.EXPECT().AccessToken(mock.Anything).Return("at", nil).Once()

	tx, err := client.UpdateState(context.Background(), 42, domain.StateRequested)
	require.NoError(t, err)
	assert.Equal(t, domain.StateRequested, tx.State)
}

func TestUpdateStateConflictIsTransitionRejected(t *testing.T) {
	t.Parallel()

	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Only the provider can accept"}`))
	})
	tokens.EXPECT().AccessToken(mock.Anything).Return("at", nil).Once()

	_, err := client.UpdateState(context.Background(), 42, domain.StateRequestAccepted)
	require.ErrorIs(t, err, domain.ErrTransitionRejected)
	assert.ErrorContains(t, err, "Only the provider can accept")
}

func TestUnauthorizedTriggersOneRefreshAndRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") == "Bearer stale" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(exchangingJSON))
	})
	tokens.EXPECT().AccessToken(mock.Anything).Return("stale", nil).Once()
	tokens.EXPECT().RefreshAfterUnauthorized(mock.Anything, "stale").Return("fresh", nil).Once()

	tx, err := client.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionID(42), tx.ID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSecondUnauthorizedIsNotRetriedAgain(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		call    func(*Client) error
		wantErr error
	}{
		{
			name: "transition",
			call: func(c *Client) error {
				_, err := c.UpdateState(context.Background(), 42, domain.StateRequested)
				return err
			},
			wantErr: domain.ErrTransitionRejected,
		},
		{
			name: "fetch",
			call: func(c *Client) error {
				_, err := c.Get(context.Background(), 42)
				return err
			},
			wantErr: domain.ErrNetwork,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusUnauthorized)
			})
			tokens.EXPECT().AccessToken(mock.Anything).Return("stale", nil).Once()
			tokens.EXPECT().RefreshAfterUnauthorized(mock.Anything, "stale").Return("fresh", nil).Once()

			err := tc.call(client)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, int32(2), calls.Load())
		})
	}
}

func TestRefreshFailureIsReturnedUnchanged(t *testing.T) {
	t.Parallel()

	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	tokens.EXPECT().AccessToken(mock.Anything).Return("stale", nil).Once()
	tokens.EXPECT().RefreshAfterUnauthorized(mock.Anything, "stale").Return("", domain.ErrRefreshFailed).Once()

	_, err := client.ListMine(context.Background())
	require.ErrorIs(t, err, domain.ErrRefreshFailed)
}

func TestServerErrorIsNetwork(t *testing.T) {
	t.Parallel()

	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	tokens.EXPECT().AccessToken(mock.Anything).Return("at", nil).Once()

	_, err := client.ListMine(context.Background())
	require.ErrorIs(t, err, domain.ErrNetwork)
}

func TestTransportFailureIsNetwork(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	tokens := portmocks.NewMockTokenSource(t)
	tokens.EXPECT().AccessToken(mock.Anything).Return("at", nil).Once()
	client, err := NewClient(server.URL, tokens)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrNetwork)
}

func TestUnauthenticatedCallerNeverHitsNetwork(t *testing.T) {
	t.Parallel()

	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})
	tokens.EXPECT().AccessToken(mock.Anything).Return("", domain.ErrNotAuthenticated).Once()

	_, err := client.Get(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestCatalogGetServiceMapsProduct(t *testing.T) {
	t.Parallel()

	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/7", r.URL.Path)
		_, _ = w.Write([]byte(`{"idService":7,"name":"Ranked coaching","price":25.5,"game":"VALORANT","providerName":"Zed","idProvider":3}`))
	})
	tokens.EXPECT().AccessToken(mock.Anything).Return("at", nil).Once()

	summary, err := NewCatalogClient(client).GetService(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceSummary{
		ID:           7,
		Title:        "Ranked coaching",
		ProviderName: "Zed",
		Game:         "VALORANT",
		Price:        "25.50 €",
	}, summary)
}

func TestCatalogGetServiceMissingIsNotFound(t *testing.T) {
	t.Parallel()

	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	tokens.EXPECT().AccessToken(mock.Anything).Return("at", nil).Once()

	_, err := NewCatalogClient(client).GetService(context.Background(), 7)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
