package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
	"github.com/SscSPs/blog_backend/internal/platform/config"
	"github.com/SscSPs/blog_backend/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

// tokenService issues and validates HS256 bearer tokens.
type tokenService struct {
	BaseService
	secret string
	issuer string
	expiry time.Duration
}

// TokenServiceOption configures a tokenService.
type TokenServiceOption func(*tokenService)

// WithTokenClock overrides the clock used for issuance and expiry checks.
func WithTokenClock(now func() time.Time) TokenServiceOption {
	return func(s *tokenService) { s.Now = now }
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, opts ...TokenServiceOption) portssvc.TokenSvc {
	s := &tokenService{
		BaseService: newBaseService(),
		secret:      cfg.JWTSecret,
		issuer:      cfg.JWTIssuer,
		expiry:      cfg.JWTExpiryDuration,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueToken creates a new bearer token for the given user.
func (s *tokenService) IssueToken(ctx context.Context, userID string) (string, time.Time, error) {
	now := s.now()
	token, err := utils.GenerateJWT(userID, s.secret, s.expiry, s.issuer, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign bearer token")
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, now.Add(s.expiry), nil
}

// ValidateToken checks signature, structure and expiry and returns the subject.
func (s *tokenService) ValidateToken(ctx context.Context, token string) (string, error) {
	claims, err := utils.ParseAndValidateJWT(token, s.secret, s.issuer, s.now)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.NewTokenExpiredError(err)
		}
		return "", apperrors.NewTokenMalformedError(err)
	}
	if claims.Subject == "" {
		return "", apperrors.NewTokenMalformedError(errors.New("token has no subject"))
	}
	return claims.Subject, nil
}
