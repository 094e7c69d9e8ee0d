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

type PgxAPITokenRepository struct {
	BaseRepository
}

// newPgxAPITokenRepository creates a new instance of PgxAPITokenRepository
func newPgxAPITokenRepository(db *pgxpool.Pool) portsrepo.APITokenRepository {
	return &PgxAPITokenRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.APITokenRepository = (*PgxAPITokenRepository)(nil)

const (
	apiTokensTable = "api_tokens"

	selectAPITokenFields = `
		api_token_id, user_id, name, token_hash,
		last_used_at, expires_at, created_at
	`

	insertAPITokenQuery = `
		INSERT INTO ` + apiTokensTable + ` (
			user_id, name, token_hash, expires_at
		) VALUES ($1, $2, $3, $4)
		RETURNING api_token_id, created_at
	`

	findAPITokenByIDQuery = `
		SELECT ` + selectAPITokenFields + `
		FROM ` + apiTokensTable + `
		WHERE api_token_id = $1
	`

	findAPITokenByUserIDQuery = `
		SELECT ` + selectAPITokenFields + `
		FROM ` + apiTokensTable + `
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	findAPITokenByHashQuery = `
		SELECT ` + selectAPITokenFields + `
		FROM ` + apiTokensTable + `
		WHERE token_hash = $1
	`

	touchAPITokenQuery = `
		UPDATE ` + apiTokensTable + `
		SET last_used_at = $2
		WHERE api_token_id = $1
	`

	deleteAPITokenQuery          = `DELETE FROM ` + apiTokensTable + ` WHERE api_token_id = $1`
	deleteAPITokensByUserIDQuery = `DELETE FROM ` + apiTokensTable + ` WHERE user_id = $1`
	deleteExpiredAPITokensQuery  = `DELETE FROM ` + apiTokensTable + ` WHERE expires_at <= $1`
)

// Create persists a new API token
func (r *PgxAPITokenRepository) Create(ctx context.Context, token *domain.APIToken) error {
	if token == nil {
		return errors.New("token cannot be nil")
	}

	m := mapping.ToModelAPIToken(*token)
	err := r.Pool.QueryRow(ctx, insertAPITokenQuery, m.UserID, m.Name, m.TokenHash, m.ExpiresAt).
		Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		return mapWriteError("failed to create api token", err)
	}
	return nil
}

// FindByID retrieves an API token by its ID
func (r *PgxAPITokenRepository) FindByID(ctx context.Context, id string) (*domain.APIToken, error) {
	token, err := scanAPIToken(r.Pool.QueryRow(ctx, findAPITokenByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find api token: %w", err)
	}
	d := mapping.ToDomainAPIToken(*token)
	return &d, nil
}

// FindByUserID retrieves all API tokens for a specific user
func (r *PgxAPITokenRepository) FindByUserID(ctx context.Context, userID string) ([]domain.APIToken, error) {
	rows, err := r.Pool.Query(ctx, findAPITokenByUserIDQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list api tokens: %w", err)
	}
	defer rows.Close()

	var tokens []models.APIToken
	for rows.Next() {
		token, err := scanAPIToken(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan api token: %w", err)
		}
		tokens = append(tokens, *token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate api tokens: %w", err)
	}
	return mapping.ToDomainAPITokenSlice(tokens), nil
}

// FindByTokenHash finds a token by the digest of its secret
func (r *PgxAPITokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*domain.APIToken, error) {
	token, err := scanAPIToken(r.Pool.QueryRow(ctx, findAPITokenByHashQuery, tokenHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find api token: %w", err)
	}
	d := mapping.ToDomainAPIToken(*token)
	return &d, nil
}

// TouchLastUsed records the last time a token authenticated a request
func (r *PgxAPITokenRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	tag, err := r.Pool.Exec(ctx, touchAPITokenQuery, id, at)
	if err != nil {
		return fmt.Errorf("failed to touch api token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes an API token by ID
func (r *PgxAPITokenRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.Pool.Exec(ctx, deleteAPITokenQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete api token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteByUserID removes all API tokens for a specific user
func (r *PgxAPITokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.Pool.Exec(ctx, deleteAPITokensByUserIDQuery, userID); err != nil {
		return fmt.Errorf("failed to delete api tokens of user %s: %w", userID, err)
	}
	return nil
}

// DeleteExpired removes all tokens that expired before the given instant
func (r *PgxAPITokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, deleteExpiredAPITokensQuery, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired api tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanAPIToken(row pgx.Row) (*models.APIToken, error) {
	var t models.APIToken
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Name,
		&t.TokenHash,
		&t.LastUsedAt,
		&t.ExpiresAt,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
