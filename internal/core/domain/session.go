package domain

import "time"

// Session is a server-side login record keyed by a cookie-carried secret.
// Only the SHA-256 of the secret is persisted.
type Session struct {
	SessionID string
	TokenHash string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the session is past its expiry at the given instant.
func (s *Session) IsExpired(at time.Time) bool {
	return !at.Before(s.ExpiresAt)
}

// AuthMethod names the mechanism that identified the caller of a request.
type AuthMethod string

const (
	AuthMethodBearer   AuthMethod = "bearer"
	AuthMethodAPIToken AuthMethod = "api_token"
	AuthMethodSession  AuthMethod = "session"
)
