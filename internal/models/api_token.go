package models

import "time"

// APIToken represents an API token for user authentication
type APIToken struct {
	ID         string     `db:"api_token_id"`
	UserID     string     `db:"user_id"`
	Name       string     `db:"name"`
	TokenHash  string     `db:"token_hash"`
	LastUsedAt *time.Time `db:"last_used_at"`
	ExpiresAt  *time.Time `db:"expires_at"`
	CreatedAt  time.Time  `db:"created_at"`
}
