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

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const (
	selectUserFields = `
		user_id, username, email, first_name, last_name, age,
		password_hash, auth_provider, provider_id, refresh_token,
		created_at, updated_at
	`

	insertUserQuery = `
		INSERT INTO users (
			user_id, username, email, first_name, last_name, age,
			password_hash, auth_provider, provider_id, refresh_token,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	findUserByIDQuery = `SELECT ` + selectUserFields + ` FROM users WHERE user_id = $1`

	findUserByEmailQuery = `SELECT ` + selectUserFields + ` FROM users WHERE email = $1`

	findUserByEmailOrUsernameQuery = `
		SELECT ` + selectUserFields + `
		FROM users
		WHERE email = $1 OR username = $2
		ORDER BY (email = $1) DESC
		LIMIT 1
	`

	findUserByProviderOrEmailQuery = `
		SELECT ` + selectUserFields + `
		FROM users
		WHERE (auth_provider = $1 AND provider_id = $2) OR email = $3
		ORDER BY COALESCE(auth_provider = $1 AND provider_id = $2, FALSE) DESC
		LIMIT 1
	`

	updateUserQuery = `
		UPDATE users
		SET username = $2, email = $3, first_name = $4, last_name = $5, age = $6, updated_at = $7
		WHERE user_id = $1
	`

	updateOAuthLinkQuery = `
		UPDATE users
		SET auth_provider = $2, provider_id = $3, refresh_token = $4, updated_at = $5
		WHERE user_id = $1
	`

	updatePasswordQuery = `
		UPDATE users SET password_hash = $2, updated_at = $3 WHERE user_id = $1
	`

	deleteUserSessionsQuery  = `DELETE FROM sessions WHERE user_id = $1`
	deleteUserAPITokensQuery = `DELETE FROM api_tokens WHERE user_id = $1`
	deleteUserQuery          = `DELETE FROM users WHERE user_id = $1`
)

func scanUser(row pgx.Row) (*domain.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Username,
		&m.Email,
		&m.FirstName,
		&m.LastName,
		&m.Age,
		&m.PasswordHash,
		&m.AuthProvider,
		&m.ProviderID,
		&m.RefreshToken,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	u := mapping.ToDomainUser(m)
	return &u, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	_, err := r.Pool.Exec(ctx, insertUserQuery,
		m.UserID,
		m.Username,
		m.Email,
		m.FirstName,
		m.LastName,
		m.Age,
		m.PasswordHash,
		m.AuthProvider,
		m.ProviderID,
		m.RefreshToken,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("failed to save user", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	u, err := scanUser(r.Pool.QueryRow(ctx, findUserByIDQuery, userID))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	return u, err
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.Pool.QueryRow(ctx, findUserByEmailQuery, email))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return u, err
}

func (r *PgxUserRepository) FindUserByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	u, err := scanUser(r.Pool.QueryRow(ctx, findUserByEmailOrUsernameQuery, email, username))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find user by email or username: %w", err)
	}
	return u, err
}

func (r *PgxUserRepository) FindUserByProviderOrEmail(ctx context.Context, provider domain.AuthProvider, providerID, email string) (*domain.User, error) {
	u, err := scanUser(r.Pool.QueryRow(ctx, findUserByProviderOrEmailQuery, string(provider), providerID, email))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find user by provider or email: %w", err)
	}
	return u, err
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	tag, err := r.Pool.Exec(ctx, updateUserQuery,
		user.UserID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Age,
		updatedAt(user.UpdatedAt),
	)
	if err != nil {
		return mapWriteError("failed to update user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) UpdateOAuthLink(ctx context.Context, user domain.User) error {
	tag, err := r.Pool.Exec(ctx, updateOAuthLinkQuery,
		user.UserID,
		string(user.AuthProvider),
		user.ProviderID,
		user.RefreshToken,
		updatedAt(user.UpdatedAt),
	)
	if err != nil {
		return mapWriteError("failed to update oauth link", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	tag, err := r.Pool.Exec(ctx, updatePasswordQuery, userID, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteUser removes the user's sessions, API tokens and the user row in one transaction.
func (r *PgxUserRepository) DeleteUser(ctx context.Context, userID string) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteUserSessionsQuery, userID); err != nil {
			return fmt.Errorf("failed to delete sessions of user %s: %w", userID, err)
		}
		if _, err := tx.Exec(ctx, deleteUserAPITokensQuery, userID); err != nil {
			return fmt.Errorf("failed to delete api tokens of user %s: %w", userID, err)
		}
		tag, err := tx.Exec(ctx, deleteUserQuery, userID)
		if err != nil {
			return fmt.Errorf("failed to delete user %s: %w", userID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

func updatedAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
