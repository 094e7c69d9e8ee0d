package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	"github.com/SscSPs/blog_backend/internal/core/domain"
	"github.com/SscSPs/blog_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
	"github.com/SscSPs/blog_backend/internal/utils"
)

// APITokenPrefix marks personal API keys so they are recognizable in logs and secret scanners.
const APITokenPrefix = "blg_"

// apiTokenService implements the APITokenSvc interface
type apiTokenService struct {
	BaseService
	tokenRepo repositories.APITokenRepository
}

// APITokenServiceOption configures an apiTokenService.
type APITokenServiceOption func(*apiTokenService)

// WithAPITokenClock overrides the clock used for expiry and last-used stamps.
func WithAPITokenClock(now func() time.Time) APITokenServiceOption {
	return func(s *apiTokenService) { s.Now = now }
}

// NewAPITokenService creates a new instance of apiTokenService
func NewAPITokenService(tokenRepo repositories.APITokenRepository, opts ...APITokenServiceOption) portssvc.APITokenSvc {
	s := &apiTokenService{
		BaseService: newBaseService(),
		tokenRepo:   tokenRepo,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateToken generates a new API token for the user
func (s *apiTokenService) CreateToken(ctx context.Context, userID, name string, expiresIn *time.Duration) (string, *domain.APIToken, error) {
	if userID == "" {
		return "", nil, apperrors.NewValidationError("user ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, apperrors.NewValidationError("token name is required")
	}

	token, err := generateSecureToken(32)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	var expiresAt *time.Time
	if expiresIn != nil {
		if *expiresIn <= 0 {
			return "", nil, apperrors.NewValidationError("expiresIn must be positive")
		}
		expiry := s.now().Add(*expiresIn)
		expiresAt = &expiry
	}

	apiToken := &domain.APIToken{
		UserID:    userID,
		Name:      name,
		TokenHash: utils.HashOpaqueToken(token),
		ExpiresAt: expiresAt,
	}

	if err := s.tokenRepo.Create(ctx, apiToken); err != nil {
		s.LogError(ctx, err, "Failed to save api token", slog.String("user_id", userID))
		return "", nil, fmt.Errorf("failed to save token: %w", err)
	}

	// The plaintext token is only available here
	return token, apiToken, nil
}

// ListTokens returns all API tokens for a user
func (s *apiTokenService) ListTokens(ctx context.Context, userID string) ([]domain.APIToken, error) {
	tokens, err := s.tokenRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	if tokens == nil {
		tokens = []domain.APIToken{}
	}
	return tokens, nil
}

// RevokeToken deletes a specific API token for a user
func (s *apiTokenService) RevokeToken(ctx context.Context, userID, tokenID string) error {
	token, err := s.tokenRepo.FindByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("API token not found")
		}
		return fmt.Errorf("failed to find token: %w", err)
	}

	// Tokens of other users are reported as missing
	if token.UserID != userID {
		return apperrors.NewNotFoundError("API token not found")
	}

	if err := s.tokenRepo.Delete(ctx, tokenID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// RevokeAllTokens deletes all API tokens for a user
func (s *apiTokenService) RevokeAllTokens(ctx context.Context, userID string) error {
	if err := s.tokenRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke all tokens: %w", err)
	}
	return nil
}

// ValidateToken checks if a token is valid and returns the ID of its owner
func (s *apiTokenService) ValidateToken(ctx context.Context, tokenString string) (string, error) {
	if !strings.HasPrefix(tokenString, APITokenPrefix) {
		return "", apperrors.NewTokenMalformedError(errors.New("api token has no prefix"))
	}

	token, err := s.tokenRepo.FindByTokenHash(ctx, utils.HashOpaqueToken(tokenString))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.NewTokenMalformedError(errors.New("unknown api token"))
		}
		return "", fmt.Errorf("failed to look up api token: %w", err)
	}

	now := s.now()
	if token.IsExpired(now) {
		if err := s.tokenRepo.Delete(ctx, token.ID); err != nil {
			s.LogWarn(ctx, "Failed to delete expired api token", slog.String("error", err.Error()))
		}
		return "", apperrors.NewTokenExpiredError(errors.New("api token expired"))
	}

	if err := s.tokenRepo.TouchLastUsed(ctx, token.ID, now); err != nil {
		s.LogWarn(ctx, "Failed to record api token use",
			slog.String("token_id", token.ID),
			slog.String("error", err.Error()))
	}

	return token.UserID, nil
}

// PurgeExpired removes tokens past their expiry.
func (s *apiTokenService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.tokenRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired api tokens: %w", err)
	}
	return n, nil
}

// generateSecureToken generates a secure random token
func generateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	// URL-safe base64 without padding
	return APITokenPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}
