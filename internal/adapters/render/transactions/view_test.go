package transactions

import (
	"testing"
	"time"

	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now    = time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)
	client = domain.Identity{Subject: "client-1"}
)

func sampleTx(id domain.TransactionID, state domain.TransactionState) domain.Transaction {
	return domain.Transaction{
		ID:         id,
		State:      state,
		ServiceID:  7,
		ClientID:   "client-1",
		ProviderID: "provider-1",
		CreatedAt:  now.Add(-3 * time.Hour),
	}
}

func TestRenderListWithEnrichment(t *testing.T) {
	output, err := RenderList([]domain.TransactionDetails{
		{
			Transaction: sampleTx(42, domain.StateRequested),
			Service:     &domain.ServiceSummary{ID: 7, Title: "Rank boost"},
		},
		{Transaction: sampleTx(43, domain.StatePrepaid)},
	}, RenderOptions{Now: now, Viewer: client})

	require.NoError(t, err)
	assert.Contains(t, output, "transactions: 2")
	assert.Contains(t, output, "#42")
	assert.Contains(t, output, "Rank boost")
	assert.Contains(t, output, "[Request sent]")
	assert.Contains(t, output, "service 7")
	assert.Contains(t, output, "[Prepaid]")
	assert.Contains(t, output, "as client")
	assert.Contains(t, output, "3 hours ago")
}

func TestRenderEmptyList(t *testing.T) {
	output, err := RenderList(nil, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "transactions: 0")
	assert.Contains(t, output, "No transactions yet.")
}

func TestRenderDetailWithActions(t *testing.T) {
	accepted := now.Add(-time.Hour)
	tx := sampleTx(42, domain.StateRequestAccepted)
	tx.RequestAcceptedAt = &accepted

	output, err := RenderDetail(domain.TransactionDetails{
		Transaction: tx,
		Service:     &domain.ServiceSummary{ID: 7, Title: "Coaching", ProviderName: "Pro", Game: "LOL", Price: "25.50 €"},
	}, domain.LegalActions(tx.State, domain.RoleClient), RenderOptions{Now: now, Viewer: client})

	require.NoError(t, err)
	assert.Contains(t, output, "Transaction #42")
	assert.Contains(t, output, "Request accepted")
	assert.Contains(t, output, "(REQUEST_ACCEPTED)")
	assert.Contains(t, output, "Coaching (by Pro, LOL, 25.50 €)")
	assert.Contains(t, output, "counterpart:")
	assert.Contains(t, output, "provider-1")
	assert.Contains(t, output, "1 hour ago")
	assert.Contains(t, output, "- Proceed to payment PREPAID")
	assert.Contains(t, output, "- Cancel transaction CANCELED")
	assert.NotContains(t, output, "finished:")
}

func TestRenderDetailWaitingForSettlement(t *testing.T) {
	output, err := RenderDetail(
		domain.TransactionDetails{Transaction: sampleTx(42, domain.StateDoubleConfirmed)},
		nil,
		RenderOptions{Now: now, Viewer: domain.Identity{Subject: "someone"}},
	)

	require.NoError(t, err)
	assert.Contains(t, output, "Waiting for settlement")
	assert.Contains(t, output, "client:")
	assert.NotContains(t, output, "role:")
}

func TestSnapshotLineMarksFinalStates(t *testing.T) {
	finished := now
	tx := sampleTx(42, domain.StateFinishedAndPayed)
	tx.FinishedAt = &finished

	line := SnapshotLine(tx, RenderOptions{Now: now})
	assert.Contains(t, line, "#42")
	assert.Contains(t, line, "Finished and paid")
	assert.Contains(t, line, "(final)")

	assert.NotContains(t, SnapshotLine(sampleTx(42, domain.StatePrepaid), RenderOptions{Now: now}), "(final)")
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-time.Minute), "1 minute ago"},
		{now.Add(-45 * time.Minute), "45 minutes ago"},
		{now.Add(-25 * time.Hour), "1 day ago"},
		{time.Time{}, "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAge(tt.at, now))
	}
}
