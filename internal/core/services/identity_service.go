package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	"github.com/SscSPs/blog_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/blog_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
	"github.com/SscSPs/blog_backend/internal/dto"
	"github.com/SscSPs/blog_backend/internal/utils"
	"github.com/google/uuid"
)

const (
	msgEmailTaken           = "User with this email already exists"
	msgUsernameTaken        = "Username is already taken"
	msgEmailLinkedElsewhere = "Email is registered with another sign-in method"

	defaultFirstName = "Unknown"
	defaultLastName  = "User"

	// maxUsernameBase keeps synthesized usernames inside the users.username column.
	maxUsernameBase = 40
	maxSaveAttempts = 3
)

// identityService resolves login attempts to canonical user records.
type identityService struct {
	BaseService
	userRepo    portsrepo.UserRepositoryFacade
	hasher      portssvc.PasswordHasher
	linkByEmail bool

	dummyOnce sync.Once
	dummyHash string
}

// IdentityServiceOption configures an identityService.
type IdentityServiceOption func(*identityService)

// WithLinkByEmail controls whether an OAuth login may attach to an existing
// record found only by email.
func WithLinkByEmail(enabled bool) IdentityServiceOption {
	return func(s *identityService) { s.linkByEmail = enabled }
}

// WithIdentityClock overrides the clock used for timestamps and username suffixes.
func WithIdentityClock(now func() time.Time) IdentityServiceOption {
	return func(s *identityService) { s.Now = now }
}

// NewIdentityService creates a new instance of identityService.
func NewIdentityService(userRepo portsrepo.UserRepositoryFacade, hasher portssvc.PasswordHasher, opts ...IdentityServiceOption) portssvc.IdentityResolverSvc {
	s := &identityService{
		BaseService: newBaseService(),
		userRepo:    userRepo,
		hasher:      hasher,
		linkByEmail: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterLocal creates a local account after checking email and username availability.
func (s *identityService) RegisterLocal(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)

	existing, err := s.userRepo.FindUserByEmailOrUsername(ctx, email, username)
	switch {
	case err == nil:
		if existing.Email == email {
			return nil, apperrors.NewAlreadyExistsError(msgEmailTaken)
		}
		return nil, apperrors.NewAlreadyExistsError(msgUsernameTaken)
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to check existing user")
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		if _, ok := apperrors.As(err); !ok {
			s.LogError(ctx, err, "Failed to hash password")
		}
		return nil, err
	}

	now := s.now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Age:          req.Age,
		PasswordHash: &hash,
		AuthProvider: domain.ProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if appErr := collisionError(err); appErr != nil {
			return nil, appErr
		}
		s.LogError(ctx, err, "Failed to save user")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.LogInfo(ctx, "Registered local user", slog.String("user_id", user.UserID))
	return user.WithoutSecrets(), nil
}

// LoginLocal verifies email and password. Unknown emails and wrong passwords
// fail identically.
func (s *identityService) LoginLocal(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.hasher.Verify(ctx, password, s.timingHash(ctx))
			return nil, apperrors.NewInvalidCredentialsError()
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.HasPassword() {
		return nil, apperrors.NewOAuthAccountOnlyError()
	}
	if !s.hasher.Verify(ctx, password, *user.PasswordHash) {
		return nil, apperrors.NewInvalidCredentialsError()
	}
	return user.WithoutSecrets(), nil
}

// ResolveOAuth links the profile to an existing record or creates a new one.
func (s *identityService) ResolveOAuth(ctx context.Context, profile domain.OAuthProfile) (*domain.User, error) {
	if !profile.Provider.IsOAuth() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported oauth provider %q", profile.Provider))
	}
	if profile.ExternalID == "" {
		return nil, apperrors.NewOAuthFailedError("OAuth provider returned no account id", nil)
	}

	email := profileEmail(profile)
	for attempt := 0; ; attempt++ {
		user, err := s.resolveOnce(ctx, profile, email, attempt)
		if err == nil {
			return user, nil
		}
		// A concurrent login created the record between lookup and insert.
		var dup *apperrors.DuplicateFieldError
		if !errors.As(err, &dup) {
			return nil, err
		}
		if attempt+1 >= maxSaveAttempts {
			s.LogWarn(ctx, "Giving up on oauth user creation after repeated collisions",
				slog.String("provider", string(profile.Provider)),
				slog.String("field", dup.Field))
			return nil, collisionError(err)
		}
	}
}

func (s *identityService) resolveOnce(ctx context.Context, profile domain.OAuthProfile, email string, attempt int) (*domain.User, error) {
	existing, err := s.userRepo.FindUserByProviderOrEmail(ctx, profile.Provider, profile.ExternalID, email)
	switch {
	case err == nil:
		return s.link(ctx, existing, profile)
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to look up oauth user", slog.String("provider", string(profile.Provider)))
		return nil, fmt.Errorf("failed to look up oauth user: %w", err)
	}

	now := s.now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     synthesizeUsername(email, now.UnixMilli(), attempt),
		Email:        email,
		FirstName:    orDefault(profile.GivenName, defaultFirstName),
		LastName:     orDefault(profile.FamilyName, defaultLastName),
		Age:          domain.DefaultOAuthAge,
		AuthProvider: profile.Provider,
		ProviderID:   &profile.ExternalID,
		RefreshToken: optional(profile.RefreshToken),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		var dup *apperrors.DuplicateFieldError
		if errors.As(err, &dup) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to create oauth user")
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}

	s.LogInfo(ctx, "Created user from oauth login",
		slog.String("user_id", user.UserID),
		slog.String("provider", string(profile.Provider)))
	return user.WithoutSecrets(), nil
}

func (s *identityService) link(ctx context.Context, existing *domain.User, profile domain.OAuthProfile) (*domain.User, error) {
	providerMatch := existing.AuthProvider == profile.Provider &&
		existing.ProviderID != nil && *existing.ProviderID == profile.ExternalID
	if !providerMatch && !s.linkByEmail {
		return nil, apperrors.NewAlreadyExistsError(msgEmailLinkedElsewhere)
	}

	if !providerMatch {
		s.LogWarn(ctx, "Linking oauth login to existing account by email",
			slog.String("user_id", existing.UserID),
			slog.String("from_provider", string(existing.AuthProvider)),
			slog.String("to_provider", string(profile.Provider)))
	}

	existing.AuthProvider = profile.Provider
	externalID := profile.ExternalID
	existing.ProviderID = &externalID
	if profile.RefreshToken != "" {
		existing.RefreshToken = optional(profile.RefreshToken)
	}
	existing.UpdatedAt = s.now()

	if err := s.userRepo.UpdateOAuthLink(ctx, *existing); err != nil {
		s.LogError(ctx, err, "Failed to update oauth link", slog.String("user_id", existing.UserID))
		return nil, fmt.Errorf("failed to link oauth account: %w", err)
	}
	return existing.WithoutSecrets(), nil
}

// timingHash returns a valid digest to verify against when no user matched,
// so unknown emails cost the same as wrong passwords.
func (s *identityService) timingHash(ctx context.Context) string {
	s.dummyOnce.Do(func() {
		random, err := utils.GenerateSecureRandomString(16)
		if err != nil {
			return
		}
		if hash, err := s.hasher.Hash(ctx, random); err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

// collisionError maps a store unique violation to the registration messages.
func collisionError(err error) *apperrors.AppError {
	field, ok := apperrors.DuplicateField(err)
	if !ok {
		return nil
	}
	switch field {
	case "email":
		return apperrors.NewAlreadyExistsError(msgEmailTaken)
	case "username":
		return apperrors.NewAlreadyExistsError(msgUsernameTaken)
	default:
		return apperrors.NewAlreadyExistsError("User already exists")
	}
}

// profileEmail picks the first reported email, or a placeholder of the form
// handle@provider.local when the provider hides it.
func profileEmail(p domain.OAuthProfile) string {
	for _, e := range p.Emails {
		if e = normalizeEmail(e); e != "" {
			return e
		}
	}
	handle := strings.ToLower(strings.TrimSpace(p.Handle))
	if handle == "" {
		handle = p.ExternalID
	}
	return fmt.Sprintf("%s@%s.local", handle, p.Provider)
}

// synthesizeUsername builds "<local-part>_<millis>" from an email. Retries
// after a username collision get an extra attempt suffix.
func synthesizeUsername(email string, millis int64, attempt int) string {
	local, _, _ := strings.Cut(email, "@")
	var b strings.Builder
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			b.WriteRune(r)
		}
		if b.Len() >= maxUsernameBase {
			break
		}
	}
	base := b.String()
	if base == "" {
		base = "user"
	}
	name := base + "_" + strconv.FormatInt(millis, 10)
	if attempt > 0 {
		name += "_" + strconv.Itoa(attempt)
	}
	return name
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
