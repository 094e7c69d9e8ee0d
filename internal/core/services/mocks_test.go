package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	"github.com/SscSPs/blog_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/blog_backend/internal/core/ports/repositories"
	"github.com/SscSPs/blog_backend/internal/utils"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// newTestHasher returns a bcrypt hasher at the minimum cost to keep tests fast.
func newTestHasher() *utils.PasswordHasher {
	return utils.NewPasswordHasher(bcrypt.MinCost, 4)
}

// fixedClock returns a controllable clock starting at t.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *fixedClock { return &fixedClock{t: t} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func userResult(args mock.Arguments) (*domain.User, error) {
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return userResult(m.Called(ctx, userID))
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return userResult(m.Called(ctx, email))
}

func (m *MockUserRepository) FindUserByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	return userResult(m.Called(ctx, email, username))
}

func (m *MockUserRepository) FindUserByProviderOrEmail(ctx context.Context, provider domain.AuthProvider, providerID, email string) (*domain.User, error) {
	return userResult(m.Called(ctx, provider, providerID, email))
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateOAuthLink(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	return m.Called(ctx, userID, passwordHash).Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// --- Mock SessionRepository ---
type MockSessionRepository struct {
	mock.Mock
}

var _ portsrepo.SessionRepository = (*MockSessionRepository)(nil)

func (m *MockSessionRepository) Create(ctx context.Context, session domain.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockSessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	args := m.Called(ctx, tokenHash)
	var s *domain.Session
	if args.Get(0) != nil {
		s = args.Get(0).(*domain.Session)
	}
	return s, args.Error(1)
}

func (m *MockSessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *MockSessionRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock APITokenRepository ---
type MockAPITokenRepository struct {
	mock.Mock
}

var _ portsrepo.APITokenRepository = (*MockAPITokenRepository)(nil)

func tokenResult(args mock.Arguments) (*domain.APIToken, error) {
	var t *domain.APIToken
	if args.Get(0) != nil {
		t = args.Get(0).(*domain.APIToken)
	}
	return t, args.Error(1)
}

func (m *MockAPITokenRepository) Create(ctx context.Context, token *domain.APIToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAPITokenRepository) FindByID(ctx context.Context, id string) (*domain.APIToken, error) {
	return tokenResult(m.Called(ctx, id))
}

func (m *MockAPITokenRepository) FindByUserID(ctx context.Context, userID string) ([]domain.APIToken, error) {
	args := m.Called(ctx, userID)
	var list []domain.APIToken
	if args.Get(0) != nil {
		list = args.Get(0).([]domain.APIToken)
	}
	return list, args.Error(1)
}

func (m *MockAPITokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*domain.APIToken, error) {
	return tokenResult(m.Called(ctx, tokenHash))
}

func (m *MockAPITokenRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockAPITokenRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPITokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockAPITokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// memUserRepo is an in-memory user store that enforces the same unique
// constraints as the users table.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

var _ portsrepo.UserRepositoryFacade = (*memUserRepo)(nil)

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]domain.User{}}
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *memUserRepo) find(match func(domain.User) bool) (*domain.User, error) {
	for _, u := range r.users {
		if match(u) {
			c := u
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memUserRepo) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(u domain.User) bool { return u.UserID == userID })
}

func (r *memUserRepo) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *memUserRepo) FindUserByEmailOrUsername(_ context.Context, email, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, err := r.find(func(u domain.User) bool { return u.Email == email }); err == nil {
		return u, nil
	}
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *memUserRepo) FindUserByProviderOrEmail(_ context.Context, provider domain.AuthProvider, providerID, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, err := r.find(func(u domain.User) bool {
		return u.AuthProvider == provider && u.ProviderID != nil && *u.ProviderID == providerID
	}); err == nil {
		return u, nil
	}
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *memUserRepo) conflict(user domain.User) error {
	for id, u := range r.users {
		if id == user.UserID {
			continue
		}
		switch {
		case u.Email == user.Email:
			return &apperrors.DuplicateFieldError{Field: "email"}
		case u.Username == user.Username:
			return &apperrors.DuplicateFieldError{Field: "username"}
		case user.ProviderID != nil && u.ProviderID != nil && u.AuthProvider == user.AuthProvider && *u.ProviderID == *user.ProviderID:
			return &apperrors.DuplicateFieldError{Field: "provider"}
		}
	}
	return nil
}

func (r *memUserRepo) SaveUser(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conflict(user); err != nil {
		return err
	}
	r.users[user.UserID] = user
	return nil
}

func (r *memUserRepo) UpdateUser(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.UserID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := r.conflict(user); err != nil {
		return err
	}
	existing.Username, existing.Email = user.Username, user.Email
	existing.FirstName, existing.LastName, existing.Age = user.FirstName, user.LastName, user.Age
	existing.UpdatedAt = user.UpdatedAt
	r.users[user.UserID] = existing
	return nil
}

func (r *memUserRepo) UpdateOAuthLink(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.UserID]
	if !ok {
		return apperrors.ErrNotFound
	}
	existing.AuthProvider, existing.ProviderID, existing.RefreshToken = user.AuthProvider, user.ProviderID, user.RefreshToken
	existing.UpdatedAt = user.UpdatedAt
	r.users[user.UserID] = existing
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, userID string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	existing.PasswordHash = &passwordHash
	r.users[userID] = existing
	return nil
}

func (r *memUserRepo) DeleteUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.users, userID)
	return nil
}
