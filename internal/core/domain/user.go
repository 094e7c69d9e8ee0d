package domain

import "time"

// AuthProvider is the credential origin of a User record.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
	ProviderGitHub AuthProvider = "github"
)

// IsOAuth reports whether p is one of the external OAuth providers.
func (p AuthProvider) IsOAuth() bool {
	return p == ProviderGoogle || p == ProviderGitHub
}

// ParseAuthProvider maps a route tag to a provider of the closed set.
func ParseAuthProvider(s string) (AuthProvider, bool) {
	switch AuthProvider(s) {
	case ProviderLocal, ProviderGoogle, ProviderGitHub:
		return AuthProvider(s), true
	}
	return "", false
}

// DefaultOAuthAge is the placeholder age given to accounts created from an OAuth login.
const DefaultOAuthAge = 18

// User represents an identity record.
type User struct {
	UserID       string       `json:"userID"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Age          int          `json:"age"`
	PasswordHash *string      `json:"-"`
	AuthProvider AuthProvider `json:"provider"`
	ProviderID   *string      `json:"providerId,omitempty"`
	RefreshToken *string      `json:"-"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// HasPassword reports whether the record carries a local password hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// WithoutSecrets returns a copy with the password hash and external refresh token removed.
func (u *User) WithoutSecrets() *User {
	c := *u
	c.PasswordHash = nil
	c.RefreshToken = nil
	return &c
}

// OAuthProfile is what an OAuth provider reports about the signed-in account.
type OAuthProfile struct {
	Provider     AuthProvider
	ExternalID   string
	Emails       []string
	Handle       string // provider login, used when no email is reported
	GivenName    string
	FamilyName   string
	RefreshToken string
}

// ProfileUpdate holds the optional fields a user may change on their own record.
type ProfileUpdate struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Age       *int
}
