package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	"github.com/SscSPs/blog_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/blog_backend/internal/core/ports/repositories"
	"github.com/SscSPs/blog_backend/internal/models"
	"github.com/SscSPs/blog_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSessionRepository struct {
	BaseRepository
}

func newPgxSessionRepository(db *pgxpool.Pool) portsrepo.SessionRepository {
	return &PgxSessionRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.SessionRepository = (*PgxSessionRepository)(nil)

const (
	insertSessionQuery = `
		INSERT INTO sessions (session_id, token_hash, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	findSessionByHashQuery = `
		SELECT session_id, token_hash, user_id, created_at, expires_at
		FROM sessions
		WHERE token_hash = $1
	`

	deleteSessionByHashQuery   = `DELETE FROM sessions WHERE token_hash = $1`
	deleteSessionsByUserQuery  = `DELETE FROM sessions WHERE user_id = $1`
	deleteExpiredSessionsQuery = `DELETE FROM sessions WHERE expires_at <= $1`
)

func (r *PgxSessionRepository) Create(ctx context.Context, session domain.Session) error {
	m := mapping.ToModelSession(session)
	_, err := r.Pool.Exec(ctx, insertSessionQuery, m.SessionID, m.TokenHash, m.UserID, m.CreatedAt, m.ExpiresAt)
	if err != nil {
		return mapWriteError("failed to create session", err)
	}
	return nil
}

func (r *PgxSessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	var m models.Session
	err := r.Pool.QueryRow(ctx, findSessionByHashQuery, tokenHash).Scan(
		&m.SessionID,
		&m.TokenHash,
		&m.UserID,
		&m.CreatedAt,
		&m.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	s := mapping.ToDomainSession(m)
	return &s, nil
}

func (r *PgxSessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	if _, err := r.Pool.Exec(ctx, deleteSessionByHashQuery, tokenHash); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *PgxSessionRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	tag, err := r.Pool.Exec(ctx, deleteSessionsByUserQuery, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions of user %s: %w", userID, err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgxSessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, deleteExpiredSessionsQuery, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
