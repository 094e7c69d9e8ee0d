package models

import "time"

// User is the row shape of the users table.
type User struct {
	UserID       string    `db:"user_id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Age          int       `db:"age"`
	PasswordHash *string   `db:"password_hash"`
	AuthProvider string    `db:"auth_provider"`
	ProviderID   *string   `db:"provider_id"`
	RefreshToken *string   `db:"refresh_token"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
