package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	"github.com/SscSPs/blog_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/blog_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
	"github.com/SscSPs/blog_backend/internal/utils"
	"github.com/google/uuid"
)

// sessionSecretBytes is the entropy of a session cookie value.
const sessionSecretBytes = 32

type sessionService struct {
	BaseService
	repo   portsrepo.SessionRepository
	maxAge time.Duration
}

// SessionServiceOption configures a sessionService.
type SessionServiceOption func(*sessionService)

// WithSessionClock overrides the clock used for expiry.
func WithSessionClock(now func() time.Time) SessionServiceOption {
	return func(s *sessionService) { s.Now = now }
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(repo portsrepo.SessionRepository, maxAge time.Duration, opts ...SessionServiceOption) portssvc.SessionSvc {
	s := &sessionService{
		BaseService: newBaseService(),
		repo:        repo,
		maxAge:      maxAge,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *sessionService) CreateSession(ctx context.Context, userID string) (string, time.Time, error) {
	raw, err := utils.GenerateSecureRandomString(sessionSecretBytes)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate session secret: %w", err)
	}

	now := s.now()
	session := domain.Session{
		SessionID: uuid.NewString(),
		TokenHash: utils.HashOpaqueToken(raw),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.maxAge),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		s.LogError(ctx, err, "Failed to create session", slog.String("user_id", userID))
		return "", time.Time{}, fmt.Errorf("failed to create session: %w", err)
	}
	return raw, session.ExpiresAt, nil
}

func (s *sessionService) Authenticate(ctx context.Context, rawToken string) (string, error) {
	if rawToken == "" {
		return "", apperrors.NewUnauthenticatedError("No session")
	}
	hash := utils.HashOpaqueToken(rawToken)
	session, err := s.repo.FindByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.NewUnauthenticatedError("Unknown session")
		}
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	if session.IsExpired(s.now()) {
		if err := s.repo.DeleteByTokenHash(ctx, hash); err != nil {
			s.LogWarn(ctx, "Failed to delete expired session", slog.String("error", err.Error()))
		}
		return "", apperrors.NewSessionExpiredError()
	}
	return session.UserID, nil
}

func (s *sessionService) DestroySession(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	if err := s.repo.DeleteByTokenHash(ctx, utils.HashOpaqueToken(rawToken)); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

func (s *sessionService) DestroyUserSessions(ctx context.Context, userID string) error {
	n, err := s.repo.DeleteByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to destroy sessions: %w", err)
	}
	s.LogDebug(ctx, "Destroyed user sessions", slog.String("user_id", userID), slog.Int64("count", n))
	return nil
}

func (s *sessionService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired sessions: %w", err)
	}
	return n, nil
}
