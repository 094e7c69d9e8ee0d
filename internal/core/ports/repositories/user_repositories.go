package repositories

import (
	"context"

	"github.com/SscSPs/blog_backend/internal/core/domain"
)

// UserReader defines read operations for user data.
// All finders return apperrors.ErrNotFound when no row matches.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by their email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByEmailOrUsername retrieves the first user whose email or username matches.
	FindUserByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)

	// FindUserByProviderOrEmail retrieves a user linked to (provider, providerID),
	// falling back to a user with the given email. A provider match wins over an email match.
	FindUserByProviderOrEmail(ctx context.Context, provider domain.AuthProvider, providerID, email string) (*domain.User, error)
}

// UserWriter defines write operations for user data.
// Writes that violate a unique constraint return an *apperrors.DuplicateFieldError.
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's profile fields (username, email, names, age).
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateOAuthLink sets provider, provider id and external refresh token on a user.
	UpdateOAuthLink(ctx context.Context, user domain.User) error

	// UpdatePassword replaces the password hash of a user.
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
}

// UserLifecycleManager defines operations for managing user lifecycle
type UserLifecycleManager interface {
	// DeleteUser removes a user record together with its sessions and API tokens, atomically.
	DeleteUser(ctx context.Context, userID string) error
}

// UserRepositoryFacade combines all user-related repository interfaces
// This is a facade for clients that need access to all operations
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserLifecycleManager
}
