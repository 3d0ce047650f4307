package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransactionRoleOf(t *testing.T) {
	t.Parallel()

	tx := Transaction{ID: 1, ClientID: "alice", ProviderID: "bob"}

	tests := []struct {
		name    string
		subject string
		want    Role
		ok      bool
	}{
		{name: "client", subject: "alice", want: RoleClient, ok: true},
		{name: "provider", subject: "bob", want: RoleProvider, ok: true},
		{name: "stranger", subject: "mallory", ok: false},
		{name: "empty subject", subject: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, ok := tx.RoleOf(tt.subject)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, role)
		})
	}

	assert.Equal(t, "bob", tx.Counterpart(RoleClient))
	assert.Equal(t, "alice", tx.Counterpart(RoleProvider))
}

func TestTransactionValidateFinishTimeInvariant(t *testing.T) {
	t.Parallel()

	finished := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, Transaction{ID: 1, State: StatePrepaid}.Validate())
	assert.NoError(t, Transaction{ID: 1, State: StateCanceled, FinishedAt: &finished}.Validate())
	assert.Error(t, Transaction{ID: 1, State: StateCanceled}.Validate())
	assert.Error(t, Transaction{ID: 1, State: StatePrepaid, FinishedAt: &finished}.Validate())
	assert.Error(t, Transaction{ID: 1, State: "BOGUS"}.Validate())
}

func TestTransactionNewerThanUsesMilestones(t *testing.T) {
	t.Parallel()

	accepted := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	finished := accepted.Add(time.Hour)
	later := finished.Add(time.Minute)

	requested := Transaction{ID: 42, State: StateRequested}
	prepaid := Transaction{ID: 42, State: StatePrepaid, RequestAcceptedAt: &accepted}
	done := Transaction{ID: 42, State: StateFinishedAndPayed, RequestAcceptedAt: &accepted, FinishedAt: &finished}
	doneLater := Transaction{ID: 42, State: StateFinishedAndPayed, RequestAcceptedAt: &accepted, FinishedAt: &later}

	assert.True(t, prepaid.NewerThan(requested))
	assert.False(t, requested.NewerThan(prepaid))
	assert.True(t, done.NewerThan(prepaid))
	assert.True(t, doneLater.NewerThan(done))
	assert.False(t, prepaid.NewerThan(prepaid))
}

func TestCarryMilestonesNeverClearsTimestamps(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	accepted := created.Add(time.Hour)

	prev := Transaction{ID: 7, State: StatePrepaid, CreatedAt: created, RequestAcceptedAt: &accepted}
	next := Transaction{ID: 7, State: StateClientConfirmed}

	merged := next.CarryMilestones(prev)
	assert.Equal(t, StateClientConfirmed, merged.State)
	assert.Equal(t, created, merged.CreatedAt)
	if assert.NotNil(t, merged.RequestAcceptedAt) {
		assert.Equal(t, accepted, *merged.RequestAcceptedAt)
	}

	other := Transaction{ID: 8, State: StateExchanging}
	assert.Equal(t, other, other.CarryMilestones(prev))
}

func TestSessionAuthenticated(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	live := Session{AccessToken: "at", AccessExpiresAt: now.Add(5 * time.Minute)}
	assert.True(t, live.Authenticated(now))
	assert.False(t, live.ExpiresWithin(now, time.Minute))
	assert.True(t, live.ExpiresWithin(now, 10*time.Minute))

	expiredButRefreshable := Session{AccessToken: "at", AccessExpiresAt: now.Add(-time.Minute), RefreshToken: "rt"}
	assert.True(t, expiredButRefreshable.Authenticated(now))

	refreshExpired := Session{RefreshToken: "rt", RefreshExpiresAt: now.Add(-time.Second)}
	assert.False(t, refreshExpired.Authenticated(now))

	assert.False(t, Session{}.Authenticated(now))
}

func TestLatestMilestone(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	accepted := created.Add(time.Hour)
	finished := created.Add(2 * time.Hour)

	tx := Transaction{ID: 1, CreatedAt: created}
	assert.Equal(t, created, tx.LatestMilestone())

	tx.RequestAcceptedAt = &accepted
	assert.Equal(t, accepted, tx.LatestMilestone())

	tx.FinishedAt = &finished
	assert.Equal(t, finished, tx.LatestMilestone())
}
