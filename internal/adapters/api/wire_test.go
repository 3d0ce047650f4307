package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/marketplace-txn/internal/domain"
)

func TestParseWireTimeAcceptsBackendLayouts(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		raw  string
		want time.Time
	}{
		{name: "local date-time", raw: "2026-03-01T12:00:00", want: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		{name: "local with fraction", raw: "2026-03-01T12:00:00.5", want: time.Date(2026, 3, 1, 12, 0, 0, 500000000, time.UTC)},
		{name: "rfc3339 utc", raw: "2026-03-01T12:00:00Z", want: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		{name: "rfc3339 offset", raw: "2026-03-01T14:00:00+02:00", want: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		{name: "empty", raw: "", want: time.Time{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseWireTime(tc.raw)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}
}

func TestDecodeTransactionReadsMilestones(t *testing.T) {
	t.Parallel()

	tx, err := DecodeTransaction([]byte(`{"id":42,"state":"REQUEST_ACCEPTED","serviceId":7,"idClient":"c","idProvider":"p","creationDate":"2026-03-01T12:00:00","requestValidationDate":"2026-03-01T12:10:00"}`))
	require.NoError(t, err)
	require.NotNil(t, tx.RequestAcceptedAt)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 10, 0, 0, time.UTC), *tx.RequestAcceptedAt)
	assert.Nil(t, tx.FinishedAt)
	assert.Equal(t, 1, tx.MilestoneCount())
}

func TestDecodeTransactionRejectsInvalidSnapshots(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		body string
	}{
		{name: "unknown state", body: `{"id":1,"state":"LOST"}`},
		{name: "terminal without finish", body: `{"id":1,"state":"CANCELED"}`},
		{name: "open with finish", body: `{"id":1,"state":"PREPAID","finishDate":"2026-03-01T12:00:00"}`},
		{name: "bad timestamp", body: `{"id":1,"state":"PREPAID","creationDate":"yesterday"}`},
		{name: "not json", body: `{`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeTransaction([]byte(tc.body))
			require.Error(t, err)
		})
	}
}

func TestErrorKindMapping(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, errorKind(opTransition, 403), domain.ErrTransitionRejected)
	assert.ErrorIs(t, errorKind(opTransition, 400), domain.ErrTransitionRejected)
	assert.ErrorIs(t, errorKind(opCreate, 404), domain.ErrNotFound)
	assert.ErrorIs(t, errorKind(opGet, 403), domain.ErrNotParticipant)
	assert.ErrorIs(t, errorKind(opList, 401), domain.ErrNetwork)
	assert.ErrorIs(t, errorKind(opCatalog, 502), domain.ErrNetwork)
}
