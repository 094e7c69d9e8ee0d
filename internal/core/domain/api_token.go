package domain

import "time"

// APIToken represents a personal API key for authenticating API requests
type APIToken struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	TokenHash  string     `json:"-"` // Never expose the hash in JSON responses
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// IsExpired checks if the token has expired at the given instant
func (t *APIToken) IsExpired(at time.Time) bool {
	if t.ExpiresAt == nil {
		return false
	}
	return !at.Before(*t.ExpiresAt)
}

// MarkUsed sets LastUsedAt to the given instant
func (t *APIToken) MarkUsed(at time.Time) {
	t.LastUsedAt = &at
}
