package domain

import "time"

type Identity struct {
	Subject     string
	DisplayName string
	Email       string
}

// Session is a read-only snapshot of the authentication state. Only the
// session manager produces new values.
type Session struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	Identity         Identity
}

func (s Session) HasAccess() bool {
	return s.AccessToken != ""
}

func (s Session) HasRefresh() bool {
	return s.RefreshToken != ""
}

// ExpiresWithin reports whether the access credential is missing or expires
// before now+skew.
func (s Session) ExpiresWithin(now time.Time, skew time.Duration) bool {
	if !s.HasAccess() {
		return true
	}
	if s.AccessExpiresAt.IsZero() {
		return false
	}
	return !s.AccessExpiresAt.After(now.Add(skew))
}

// Authenticated is true while a live access credential or a refresh
// credential that can recover one is held.
func (s Session) Authenticated(now time.Time) bool {
	if s.HasAccess() && !s.ExpiresWithin(now, 0) {
		return true
	}
	if !s.HasRefresh() {
		return false
	}
	return s.RefreshExpiresAt.IsZero() || s.RefreshExpiresAt.After(now)
}
