package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/bnema/marketplace-txn/internal/ports"
)

const (
	DefaultSessionNamespace = "marketplace/session"
	// ExpirySkew is how close to expiry an access credential may get before
	// it is refreshed instead of used.
	ExpirySkew            = 60 * time.Second
	defaultRefreshTimeout = 30 * time.Second

	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
	refreshFlightID = "refresh"
)

// SessionManager owns the credential pair. It is the only writer of session
// state; everything else reads snapshots or asks it for a bearer.
type SessionManager struct {
	authorizer  ports.Authorizer
	oauth       ports.OAuthClient
	secrets     ports.SecretStore
	records     ports.SessionRepository
	parseAccess ports.AccessTokenParser

	clock          ports.Clock
	logger         zerolog.Logger
	namespace      string
	refreshTimeout time.Duration

	mu       sync.RWMutex
	session  domain.Session
	inflight singleflight.Group
}

var _ ports.TokenSource = (*SessionManager)(nil)

type SessionOption func(*SessionManager)

func WithSessionClock(clock ports.Clock) SessionOption {
	return func(m *SessionManager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

func WithSessionLogger(logger zerolog.Logger) SessionOption {
	return func(m *SessionManager) {
		m.logger = logger
	}
}

func WithSessionNamespace(namespace string) SessionOption {
	return func(m *SessionManager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

func WithRefreshTimeout(timeout time.Duration) SessionOption {
	return func(m *SessionManager) {
		if timeout > 0 {
			m.refreshTimeout = timeout
		}
	}
}

func NewSessionManager(
	authorizer ports.Authorizer,
	oauth ports.OAuthClient,
	secrets ports.SecretStore,
	records ports.SessionRepository,
	parseAccess ports.AccessTokenParser,
	opts ...SessionOption,
) *SessionManager {
	m := &SessionManager{
		authorizer:     authorizer,
		oauth:          oauth,
		secrets:        secrets,
		records:        records,
		parseAccess:    parseAccess,
		clock:          ports.SystemClock{},
		logger:         zerolog.Nop(),
		namespace:      DefaultSessionNamespace,
		refreshTimeout: defaultRefreshTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns a copy of the current session.
func (m *SessionManager) Snapshot() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

func (m *SessionManager) Identity() domain.Identity {
	return m.Snapshot().Identity
}

func (m *SessionManager) Authenticated() bool {
	return m.Snapshot().Authenticated(m.clock.Now())
}

// Login runs the interactive authorization-code flow and persists the
// resulting session.
func (m *SessionManager) Login(ctx context.Context) (domain.Identity, error) {
	grant, err := m.authorizer.Authorize(ctx)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("authorize: %w", err)
	}

	tokens, err := m.oauth.ExchangeCode(ctx, grant)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	session, err := m.sessionFromTokens(tokens)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrAuthExchangeFailed, err)
	}

	if err := m.persist(ctx, session); err != nil {
		return domain.Identity{}, err
	}
	m.set(session)

	m.logger.Info().Str("subject", session.Identity.Subject).Msg("signed in")
	return session.Identity, nil
}

// LoadPersisted restores the session saved by a previous process. Any
// failure short of cancellation leaves the manager signed out without an
// error.
func (m *SessionManager) LoadPersisted(ctx context.Context) error {
	record, err := m.records.Load(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			m.logger.Warn().Err(err).Msg("discarding unreadable session record")
			m.teardown(ctx)
		}
		return nil
	}

	access, accessErr := m.secrets.Get(ctx, record.AccessRef)
	refresh, refreshErr := m.secrets.Get(ctx, record.RefreshRef)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if accessErr != nil {
		access = ""
	}
	if refreshErr != nil {
		refresh = ""
	}

	session := domain.Session{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  record.AccessExpiresAt,
		RefreshExpiresAt: record.RefreshExpiresAt,
		Identity:         record.Identity,
	}
	if session.HasAccess() {
		identity, expiresAt, err := m.parseAccess(session.AccessToken)
		if err != nil {
			m.logger.Warn().Err(err).Msg("persisted access credential is unreadable")
			session.AccessToken = ""
		} else {
			session.Identity = identity
			if !expiresAt.IsZero() {
				session.AccessExpiresAt = expiresAt
			}
		}
	}

	now := m.clock.Now()
	if session.HasAccess() && !session.ExpiresWithin(now, ExpirySkew) {
		m.set(session)
		m.logger.Debug().Str("subject", session.Identity.Subject).Msg("session restored")
		return nil
	}
	if !session.HasRefresh() {
		m.teardown(ctx)
		return nil
	}

	m.set(session)
	if _, err := m.Refresh(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			m.set(domain.Session{})
			return ctxErr
		}
		if errors.Is(err, domain.ErrRefreshFailed) {
			return nil
		}
		// Unreachable token endpoint: keep only the refresh credential so
		// ResumeCheck can recover once the network is back.
		m.logger.Info().Err(err).Msg("could not refresh persisted session")
		m.set(domain.Session{
			RefreshToken:     session.RefreshToken,
			RefreshExpiresAt: session.RefreshExpiresAt,
			Identity:         session.Identity,
		})
	}
	return nil
}

// Refresh trades the refresh credential for a new pair. Concurrent callers
// share one token-endpoint request. A rejected refresh credential tears the
// session down and yields domain.ErrRefreshFailed; transport failures keep
// the session.
func (m *SessionManager) Refresh(ctx context.Context) (domain.Session, error) {
	ch := m.inflight.DoChan(refreshFlightID, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.refreshTimeout)
		defer cancel()
		return m.refreshOnce(flightCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return domain.Session{}, res.Err
		}
		return res.Val.(domain.Session), nil
	case <-ctx.Done():
		return domain.Session{}, ctx.Err()
	}
}

func (m *SessionManager) refreshOnce(ctx context.Context) (domain.Session, error) {
	current := m.Snapshot()
	if !current.HasRefresh() {
		return domain.Session{}, domain.ErrNotAuthenticated
	}

	tokens, err := m.oauth.Refresh(ctx, current.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrRefreshFailed) {
			m.logger.Warn().Err(err).Str("subject", current.Identity.Subject).Msg("refresh rejected, signing out")
			m.teardown(ctx)
			return domain.Session{}, err
		}
		if errors.Is(err, domain.ErrNetwork) {
			return domain.Session{}, fmt.Errorf("refresh session: %w", err)
		}
		return domain.Session{}, fmt.Errorf("refresh session: %w: %w", domain.ErrNetwork, err)
	}

	next, err := m.sessionFromTokens(tokens)
	if err != nil {
		return domain.Session{}, fmt.Errorf("refresh session: %w", err)
	}
	if current.Identity.Subject != "" && next.Identity.Subject != current.Identity.Subject {
		m.teardown(ctx)
		return domain.Session{}, fmt.Errorf("%w: subject changed during refresh", domain.ErrRefreshFailed)
	}

	m.set(next)
	if err := m.persist(ctx, next); err != nil {
		m.logger.Warn().Err(err).Msg("refreshed session kept in memory only")
	}
	m.logger.Debug().Time("expires_at", next.AccessExpiresAt).Msg("session refreshed")
	return next, nil
}

// ResumeCheck re-validates the session when the user comes back to the
// application, refreshing ahead of expiry or recovering a missing access
// credential.
func (m *SessionManager) ResumeCheck(ctx context.Context) error {
	session := m.Snapshot()
	if !session.HasRefresh() {
		return nil
	}
	if session.HasAccess() && !session.ExpiresWithin(m.clock.Now(), ExpirySkew) {
		return nil
	}

	if _, err := m.Refresh(ctx); err != nil {
		return fmt.Errorf("resume session: %w", err)
	}
	return nil
}

// AccessToken returns a bearer for an outgoing request, refreshing first
// when the held one is about to expire.
func (m *SessionManager) AccessToken(ctx context.Context) (string, error) {
	session := m.Snapshot()
	if !session.HasAccess() && !session.HasRefresh() {
		return "", domain.ErrNotAuthenticated
	}
	if session.HasAccess() && (!session.ExpiresWithin(m.clock.Now(), ExpirySkew) || !session.HasRefresh()) {
		return session.AccessToken, nil
	}

	refreshed, err := m.Refresh(ctx)
	if err != nil {
		return "", err
	}
	return refreshed.AccessToken, nil
}

// RefreshAfterUnauthorized handles a 401 answered to a request that carried
// stale. If another caller already replaced that credential the current one
// is returned without contacting the token endpoint.
func (m *SessionManager) RefreshAfterUnauthorized(ctx context.Context, stale string) (string, error) {
	current := m.Snapshot()
	if current.HasAccess() && current.AccessToken != stale {
		return current.AccessToken, nil
	}

	refreshed, err := m.Refresh(ctx)
	if err != nil {
		return "", err
	}
	return refreshed.AccessToken, nil
}

// Logout revokes the refresh credential on a best-effort basis and always
// clears local state.
func (m *SessionManager) Logout(ctx context.Context) error {
	session := m.Snapshot()
	if session.HasRefresh() {
		if err := m.oauth.Revoke(ctx, session.RefreshToken); err != nil {
			m.logger.Warn().Err(err).Msg("revocation failed, clearing local session anyway")
		}
	}

	err := m.clearPersisted(context.WithoutCancel(ctx))
	m.set(domain.Session{})
	m.logger.Info().Str("subject", session.Identity.Subject).Msg("signed out")
	if err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	return nil
}

func (m *SessionManager) sessionFromTokens(tokens ports.TokenSet) (domain.Session, error) {
	identity, expiresAt, err := m.parseAccess(tokens.AccessToken)
	if err != nil {
		return domain.Session{}, err
	}
	if expiresAt.IsZero() {
		expiresAt = tokens.AccessExpiresAt
	}

	return domain.Session{
		AccessToken:      tokens.AccessToken,
		RefreshToken:     tokens.RefreshToken,
		AccessExpiresAt:  expiresAt,
		RefreshExpiresAt: tokens.RefreshExpiresAt,
		Identity:         identity,
	}, nil
}

func (m *SessionManager) persist(ctx context.Context, session domain.Session) error {
	accessRef := m.key(accessTokenKey)
	refreshRef := m.key(refreshTokenKey)

	if err := m.secrets.Put(ctx, accessRef, session.AccessToken); err != nil {
		return fmt.Errorf("store access credential: %w", err)
	}
	if err := m.secrets.Put(ctx, refreshRef, session.RefreshToken); err != nil {
		if rollbackErr := m.secrets.Delete(ctx, accessRef); rollbackErr != nil {
			return fmt.Errorf("store refresh credential and rollback access credential: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("store refresh credential: %w", err)
	}

	record := ports.SessionRecord{
		Identity:         session.Identity,
		AccessRef:        accessRef,
		RefreshRef:       refreshRef,
		AccessExpiresAt:  session.AccessExpiresAt,
		RefreshExpiresAt: session.RefreshExpiresAt,
		UpdatedAt:        m.clock.Now(),
	}
	if err := m.records.Save(ctx, record); err != nil {
		var rollbackErr error
		if deleteErr := m.secrets.Delete(ctx, accessRef); deleteErr != nil {
			rollbackErr = errors.Join(rollbackErr, deleteErr)
		}
		if deleteErr := m.secrets.Delete(ctx, refreshRef); deleteErr != nil {
			rollbackErr = errors.Join(rollbackErr, deleteErr)
		}
		if rollbackErr != nil {
			return fmt.Errorf("save session record and rollback credentials: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("save session record: %w", err)
	}

	return nil
}

// teardown drops the session everywhere. Failures are logged: the caller is
// signed out regardless.
func (m *SessionManager) teardown(ctx context.Context) {
	m.set(domain.Session{})
	if err := m.clearPersisted(context.WithoutCancel(ctx)); err != nil {
		m.logger.Warn().Err(err).Msg("could not clear persisted session")
	}
}

func (m *SessionManager) clearPersisted(ctx context.Context) error {
	var errs error
	for _, key := range []string{accessTokenKey, refreshTokenKey} {
		if err := m.secrets.Delete(ctx, m.key(key)); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if err := m.records.Clear(ctx); err != nil {
		errs = errors.Join(errs, err)
	}
	return errs
}

func (m *SessionManager) set(session domain.Session) {
	m.mu.Lock()
	m.session = session
	m.mu.Unlock()
}

func (m *SessionManager) key(name string) string {
	return m.namespace + "/" + name
}
