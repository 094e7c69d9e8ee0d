package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/blog_backend/internal/core/domain"
)

// SessionRepository defines persistence for server-side login sessions
type SessionRepository interface {
	// Create persists a new session
	Create(ctx context.Context, session domain.Session) error

	// FindByTokenHash retrieves a session by the digest of its cookie secret
	FindByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)

	// DeleteByTokenHash removes a single session
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteByUserID removes every session of a user
	DeleteByUserID(ctx context.Context, userID string) (int64, error)

	// DeleteExpired removes sessions that expired before the given instant
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
