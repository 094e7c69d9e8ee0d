package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	"github.com/SscSPs/blog_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/blog_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
	"github.com/SscSPs/blog_backend/internal/dto"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	hasher   portssvc.PasswordHasher
	sessions portssvc.SessionSvc
}

// NewUserService creates a new instance of userService. sessions may be nil,
// in which case password changes do not revoke existing sessions.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, hasher portssvc.PasswordHasher, sessions portssvc.SessionSvc) portssvc.UserSvcFacade {
	return &userService{
		BaseService: newBaseService(),
		userRepo:    userRepo,
		hasher:      hasher,
		sessions:    sessions,
	}
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("User not found")
		}
		s.LogError(ctx, err, "Failed to get user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to get user by ID in service: %w", err)
	}
	return user.WithoutSecrets(), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error) {
	if req.IsEmpty() {
		return nil, apperrors.NewValidationError("No fields to update")
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("User not found")
		}
		return nil, fmt.Errorf("failed to load user for update: %w", err)
	}

	applyProfileUpdate(user, domain.ProfileUpdate{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
	})
	user.UpdatedAt = s.now()

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		if appErr := collisionError(err); appErr != nil {
			return nil, appErr
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("User not found")
		}
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.LogInfo(ctx, "Updated user profile", slog.String("user_id", userID))
	return user.WithoutSecrets(), nil
}

// ChangePassword replaces the password and ends every session of the user.
func (s *userService) ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("User not found")
		}
		return fmt.Errorf("failed to load user for password change: %w", err)
	}

	if !user.HasPassword() {
		return apperrors.NewOAuthAccountOnlyError()
	}
	if !s.hasher.Verify(ctx, req.CurrentPassword, *user.PasswordHash) {
		return apperrors.NewInvalidCredentialsError()
	}

	hash, err := s.hasher.Hash(ctx, req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		s.LogError(ctx, err, "Failed to update password", slog.String("user_id", userID))
		return fmt.Errorf("failed to update password: %w", err)
	}

	if s.sessions != nil {
		if err := s.sessions.DestroyUserSessions(ctx, userID); err != nil {
			s.LogWarn(ctx, "Failed to revoke sessions after password change",
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
		}
	}
	s.LogInfo(ctx, "Changed user password", slog.String("user_id", userID))
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("User not found")
		}
		s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.LogInfo(ctx, "Deleted user", slog.String("user_id", userID))
	return nil
}

func applyProfileUpdate(user *domain.User, upd domain.ProfileUpdate) {
	if upd.Username != nil {
		user.Username = strings.TrimSpace(*upd.Username)
	}
	if upd.Email != nil {
		user.Email = normalizeEmail(*upd.Email)
	}
	if upd.FirstName != nil {
		user.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		user.LastName = strings.TrimSpace(*upd.LastName)
	}
	if upd.Age != nil {
		user.Age = *upd.Age
	}
}
