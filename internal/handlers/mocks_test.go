package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/blog_backend/internal/core/domain"
	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
	"github.com/SscSPs/blog_backend/internal/dto"
	"github.com/stretchr/testify/mock"
)

func userOrNil(args mock.Arguments) (*domain.User, error) {
	var u *domain.User
	if args.Get(0) != nil {
		u = args.Get(0).(*domain.User)
	}
	return u, args.Error(1)
}

// --- Mock UserService ---
type MockUserService struct{ mock.Mock }

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return userOrNil(m.Called(ctx, userID))
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error) {
	return userOrNil(m.Called(ctx, userID, req))
}

func (m *MockUserService) ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// --- Mock IdentityService ---
type MockIdentityService struct{ mock.Mock }

var _ portssvc.IdentityResolverSvc = (*MockIdentityService)(nil)

func (m *MockIdentityService) RegisterLocal(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	return userOrNil(m.Called(ctx, req))
}

func (m *MockIdentityService) LoginLocal(ctx context.Context, email, password string) (*domain.User, error) {
	return userOrNil(m.Called(ctx, email, password))
}

func (m *MockIdentityService) ResolveOAuth(ctx context.Context, profile domain.OAuthProfile) (*domain.User, error) {
	return userOrNil(m.Called(ctx, profile))
}

// --- Mock TokenService ---
type MockTokenService struct{ mock.Mock }

var _ portssvc.TokenSvc = (*MockTokenService)(nil)

func (m *MockTokenService) IssueToken(ctx context.Context, userID string) (string, time.Time, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) ValidateToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

// --- Mock SessionService ---
type MockSessionService struct{ mock.Mock }

var _ portssvc.SessionSvc = (*MockSessionService)(nil)

func (m *MockSessionService) CreateSession(ctx context.Context, userID string) (string, time.Time, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockSessionService) Authenticate(ctx context.Context, raw string) (string, error) {
	args := m.Called(ctx, raw)
	return args.String(0), args.Error(1)
}

func (m *MockSessionService) DestroySession(ctx context.Context, raw string) error {
	return m.Called(ctx, raw).Error(0)
}

func (m *MockSessionService) DestroyUserSessions(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockSessionService) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock APITokenService ---
type MockAPITokenService struct{ mock.Mock }

var _ portssvc.APITokenSvc = (*MockAPITokenService)(nil)

func (m *MockAPITokenService) CreateToken(ctx context.Context, userID, name string, expiresIn *time.Duration) (string, *domain.APIToken, error) {
	args := m.Called(ctx, userID, name, expiresIn)
	var t *domain.APIToken
	if args.Get(1) != nil {
		t = args.Get(1).(*domain.APIToken)
	}
	return args.String(0), t, args.Error(2)
}

func (m *MockAPITokenService) ListTokens(ctx context.Context, userID string) ([]domain.APIToken, error) {
	args := m.Called(ctx, userID)
	var list []domain.APIToken
	if args.Get(0) != nil {
		list = args.Get(0).([]domain.APIToken)
	}
	return list, args.Error(1)
}

func (m *MockAPITokenService) RevokeToken(ctx context.Context, userID, tokenID string) error {
	return m.Called(ctx, userID, tokenID).Error(0)
}

func (m *MockAPITokenService) RevokeAllTokens(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockAPITokenService) ValidateToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockAPITokenService) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock OAuth ---
type MockOAuthClient struct {
	mock.Mock
	provider domain.AuthProvider
}

var _ portssvc.OAuthClient = (*MockOAuthClient)(nil)

func (m *MockOAuthClient) Provider() domain.AuthProvider { return m.provider }

func (m *MockOAuthClient) AuthCodeURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (m *MockOAuthClient) Exchange(ctx context.Context, code string) (*domain.OAuthProfile, error) {
	args := m.Called(ctx, code)
	var p *domain.OAuthProfile
	if args.Get(0) != nil {
		p = args.Get(0).(*domain.OAuthProfile)
	}
	return p, args.Error(1)
}
