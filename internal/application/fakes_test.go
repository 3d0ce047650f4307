package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/bnema/marketplace-txn/internal/ports"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: baseTime}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// testToken builds an access credential understood by parseTestToken:
// "<subject>.<unix expiry>.<serial>".
func testToken(subject string, expiresAt time.Time, serial int) string {
	return fmt.Sprintf("%s.%d.%d", subject, expiresAt.Unix(), serial)
}

func parseTestToken(token string) (domain.Identity, time.Time, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return domain.Identity{}, time.Time{}, errors.New("malformed test token")
	}
	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return domain.Identity{}, time.Time{}, err
	}
	return domain.Identity{Subject: parts[0], DisplayName: "User " + parts[0]}, time.Unix(exp, 0).UTC(), nil
}

type memSecrets struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemSecrets() *memSecrets {
	return &memSecrets{values: map[string]string{}}
}

func (s *memSecrets) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	if !ok {
		return "", fmt.Errorf("%q: %w", key, domain.ErrSecretNotFound)
	}
	return value, nil
}

func (s *memSecrets) Put(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memSecrets) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *memSecrets) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

type memRecords struct {
	mu     sync.Mutex
	record *ports.SessionRecord
}

func (r *memRecords) Load(context.Context) (ports.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.record == nil {
		return ports.SessionRecord{}, domain.ErrSessionNotFound
	}
	return *r.record, nil
}

func (r *memRecords) Save(_ context.Context, record ports.SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record = &record
	return nil
}

func (r *memRecords) Clear(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record = nil
	return nil
}

func (r *memRecords) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record == nil
}

// fakeOAuth issues "<subject>.<exp>.<serial>" credentials valid for five
// minutes from the fake clock. A non-nil gate holds every refresh until it
// is closed.
type fakeOAuth struct {
	clock   *fakeClock
	subject string

	mu           sync.Mutex
	serial       int
	refreshCalls int
	revokeCalls  int
	revoked      []string
	exchangeErr  error
	refreshErr   error
	revokeErr    error
	gate         chan struct{}
}

func newFakeOAuth(clock *fakeClock, subject string) *fakeOAuth {
	return &fakeOAuth{clock: clock, subject: subject}
}

func (f *fakeOAuth) issue() ports.TokenSet {
	f.serial++
	now := f.clock.Now()
	return ports.TokenSet{
		AccessToken:      testToken(f.subject, now.Add(5*time.Minute), f.serial),
		RefreshToken:     fmt.Sprintf("refresh-%d", f.serial),
		AccessExpiresAt:  now.Add(5 * time.Minute),
		RefreshExpiresAt: now.Add(30 * time.Minute),
	}
}

func (f *fakeOAuth) ExchangeCode(_ context.Context, grant ports.AuthorizationGrant) (ports.TokenSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exchangeErr != nil {
		return ports.TokenSet{}, f.exchangeErr
	}
	if grant.CodeVerifier == "" {
		return ports.TokenSet{}, domain.ErrAuthExchangeFailed
	}
	return f.issue(), nil
}

func (f *fakeOAuth) Refresh(ctx context.Context, refreshToken string) (ports.TokenSet, error) {
	f.mu.Lock()
	f.refreshCalls++
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ports.TokenSet{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refreshErr != nil {
		return ports.TokenSet{}, f.refreshErr
	}
	return f.issue(), nil
}

func (f *fakeOAuth) Revoke(_ context.Context, refreshToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revokeCalls++
	f.revoked = append(f.revoked, refreshToken)
	return f.revokeErr
}

func (f *fakeOAuth) RefreshCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls
}

type grantAuthorizer struct {
	err error
}

func (a grantAuthorizer) Authorize(context.Context) (ports.AuthorizationGrant, error) {
	if a.err != nil {
		return ports.AuthorizationGrant{}, a.err
	}
	return ports.AuthorizationGrant{Code: "code", CodeVerifier: "verifier", RedirectURI: "http://localhost/auth/callback"}, nil
}

type sessionFixture struct {
	clock   *fakeClock
	oauth   *fakeOAuth
	secrets *memSecrets
	records *memRecords
}

func newSessionFixture() *sessionFixture {
	clock := newFakeClock()
	return &sessionFixture{
		clock:   clock,
		oauth:   newFakeOAuth(clock, "user-1"),
		secrets: newMemSecrets(),
		records: &memRecords{},
	}
}

func (f *sessionFixture) manager(authorizer ports.Authorizer) *SessionManager {
	if authorizer == nil {
		authorizer = grantAuthorizer{}
	}
	return NewSessionManager(authorizer, f.oauth, f.secrets, f.records, parseTestToken, WithSessionClock(f.clock))
}

var (
	clientViewer   = domain.Identity{Subject: "client-1", DisplayName: "Client"}
	providerViewer = domain.Identity{Subject: "provider-1", DisplayName: "Provider"}
	outsider       = domain.Identity{Subject: "someone-else"}
)

func txAt(id domain.TransactionID, state domain.TransactionState) domain.Transaction {
	tx := domain.Transaction{
		ID:         id,
		State:      state,
		ServiceID:  7,
		ClientID:   clientViewer.Subject,
		ProviderID: providerViewer.Subject,
		CreatedAt:  baseTime,
	}
	if state.Terminal() {
		finished := baseTime.Add(time.Hour)
		tx.FinishedAt = &finished
	}
	return tx
}

func withAccepted(tx domain.Transaction, at time.Time) domain.Transaction {
	tx.RequestAcceptedAt = &at
	return tx
}

func actionTargets(actions []domain.ActionDescriptor) []domain.TransactionState {
	out := make([]domain.TransactionState, 0, len(actions))
	for _, action := range actions {
		out = append(out, action.TargetState)
	}
	return out
}

func actionFor(t interface{ Fatalf(string, ...any) }, actions []domain.ActionDescriptor, target domain.TransactionState) domain.ActionDescriptor {
	for _, action := range actions {
		if action.TargetState == target {
			return action
		}
	}
	t.Fatalf("no action targeting %s", target)
	return domain.ActionDescriptor{}
}
