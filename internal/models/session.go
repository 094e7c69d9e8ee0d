package models

import "time"

// Session is the row shape of the sessions table.
type Session struct {
	SessionID string    `db:"session_id"`
	TokenHash string    `db:"token_hash"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}
