package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/blog_backend/internal/core/domain"
)

// APITokenRepository defines the interface for API token data access operations
type APITokenRepository interface {
	// Create persists a new API token and fills in its generated ID and CreatedAt
	Create(ctx context.Context, token *domain.APIToken) error

	// FindByID retrieves an API token by its ID
	FindByID(ctx context.Context, id string) (*domain.APIToken, error)

	// FindByUserID retrieves all API tokens for a specific user
	FindByUserID(ctx context.Context, userID string) ([]domain.APIToken, error)

	// FindByTokenHash finds a token by the digest of its secret (used for validation)
	FindByTokenHash(ctx context.Context, tokenHash string) (*domain.APIToken, error)

	// TouchLastUsed records the last time a token authenticated a request
	TouchLastUsed(ctx context.Context, id string, at time.Time) error

	// Delete removes an API token by ID
	Delete(ctx context.Context, id string) error

	// DeleteByUserID removes all API tokens for a specific user
	DeleteByUserID(ctx context.Context, userID string) error

	// DeleteExpired removes all expired API tokens
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
