package services

import (
	"context"
	"time"

	"github.com/SscSPs/blog_backend/internal/core/domain"
	"github.com/SscSPs/blog_backend/internal/dto"
)

// PasswordHasher is a one-way salted hash for local credentials.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	// Verify never errors: any mismatch or malformed digest is false.
	Verify(ctx context.Context, password, hash string) bool
}

// TokenSvc issues and validates signed, time-limited bearer tokens.
type TokenSvc interface {
	// IssueToken creates a bearer token for userID and returns it with its expiry.
	IssueToken(ctx context.Context, userID string) (string, time.Time, error)
	// ValidateToken returns the user ID encoded in the token, or a
	// TOKEN_EXPIRED / TOKEN_MALFORMED *apperrors.AppError.
	ValidateToken(ctx context.Context, token string) (string, error)
}

// IdentityResolverSvc produces or locates the canonical user record for a login attempt.
type IdentityResolverSvc interface {
	// RegisterLocal creates a local account. Fails with ALREADY_EXISTS on email or username collision.
	RegisterLocal(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	// LoginLocal checks email and password. Fails with INVALID_CREDENTIALS or OAUTH_ACCOUNT_ONLY.
	LoginLocal(ctx context.Context, email, password string) (*domain.User, error)
	// ResolveOAuth links or creates the user for an OAuth profile.
	ResolveOAuth(ctx context.Context, profile domain.OAuthProfile) (*domain.User, error)
}

// SessionSvc manages server-side sessions keyed by a cookie secret.
type SessionSvc interface {
	// CreateSession starts a session and returns the raw cookie value and its expiry.
	CreateSession(ctx context.Context, userID string) (string, time.Time, error)
	// Authenticate returns the user ID of a live session.
	Authenticate(ctx context.Context, rawToken string) (string, error)
	// DestroySession ends a single session. Unknown tokens are not an error.
	DestroySession(ctx context.Context, rawToken string) error
	// DestroyUserSessions ends every session of a user.
	DestroyUserSessions(ctx context.Context, userID string) error
	// PurgeExpired deletes sessions that expired before now and reports how many were removed.
	PurgeExpired(ctx context.Context) (int64, error)
}

// OAuthClient performs the authorization-code handshake with one provider.
type OAuthClient interface {
	Provider() domain.AuthProvider
	// AuthCodeURL returns the provider consent URL carrying the CSRF state.
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for the provider's view of the account.
	Exchange(ctx context.Context, code string) (*domain.OAuthProfile, error)
}

// OAuthClientSelector returns the client for a provider tag, or NOT_FOUND
// when the provider is unknown or not configured.
type OAuthClientSelector interface {
	For(provider domain.AuthProvider) (OAuthClient, error)
}
