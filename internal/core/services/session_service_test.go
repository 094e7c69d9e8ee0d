package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	"github.com/SscSPs/blog_backend/internal/core/domain"
	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
	"github.com/SscSPs/blog_backend/internal/core/services"
	"github.com/SscSPs/blog_backend/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SessionServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	repo  *MockSessionRepository
	clock *fixedClock
	svc   portssvc.SessionSvc
}

func (s *SessionServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = new(MockSessionRepository)
	s.clock = newClock(epoch)
	s.svc = services.NewSessionService(s.repo, 7*24*time.Hour, services.WithSessionClock(s.clock.Now))
}

func TestSessionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}

func (s *SessionServiceTestSuite) TestCreateStoresOnlyHash() {
	var stored domain.Session
	s.repo.On("Create", s.ctx, mock.AnythingOfType("domain.Session")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(domain.Session) }).
		Return(nil).Once()

	raw, expiresAt, err := s.svc.CreateSession(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Len(raw, 64)
	s.Equal(epoch.Add(7*24*time.Hour), expiresAt)
	s.Equal(utils.HashOpaqueToken(raw), stored.TokenHash)
	s.NotEqual(raw, stored.TokenHash)
	s.Equal("user-1", stored.UserID)
	s.NotEmpty(stored.SessionID)
}

func (s *SessionServiceTestSuite) TestAuthenticateLiveSession() {
	raw := "abc"
	s.repo.On("FindByTokenHash", s.ctx, utils.HashOpaqueToken(raw)).
		Return(&domain.Session{UserID: "user-1", ExpiresAt: epoch.Add(time.Hour)}, nil).Once()

	userID, err := s.svc.Authenticate(s.ctx, raw)
	s.Require().NoError(err)
	s.Equal("user-1", userID)
}

func (s *SessionServiceTestSuite) TestAuthenticateExpiredSessionIsDeleted() {
	hash := utils.HashOpaqueToken("abc")
	s.repo.On("FindByTokenHash", s.ctx, hash).
		Return(&domain.Session{UserID: "user-1", ExpiresAt: epoch}, nil).Once()
	s.repo.On("DeleteByTokenHash", s.ctx, hash).Return(nil).Once()

	_, err := s.svc.Authenticate(s.ctx, "abc")
	requireKind(s.T(), err, apperrors.KindSessionExpired)
	s.repo.AssertExpectations(s.T())
}

func (s *SessionServiceTestSuite) TestAuthenticateUnknownOrEmpty() {
	s.repo.On("FindByTokenHash", s.ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	_, err := s.svc.Authenticate(s.ctx, "nope")
	requireKind(s.T(), err, apperrors.KindUnauthenticated)

	_, err = s.svc.Authenticate(s.ctx, "")
	requireKind(s.T(), err, apperrors.KindUnauthenticated)
}

func (s *SessionServiceTestSuite) TestDestroyAndPurge() {
	s.repo.On("DeleteByTokenHash", s.ctx, utils.HashOpaqueToken("abc")).Return(nil).Once()
	s.NoError(s.svc.DestroySession(s.ctx, "abc"))
	s.NoError(s.svc.DestroySession(s.ctx, ""), "empty cookie is a no-op")

	s.repo.On("DeleteByUserID", s.ctx, "user-1").Return(int64(2), nil).Once()
	s.NoError(s.svc.DestroyUserSessions(s.ctx, "user-1"))

	s.repo.On("DeleteExpired", s.ctx, epoch).Return(int64(3), nil).Once()
	n, err := s.svc.PurgeExpired(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), n)
	s.repo.AssertExpectations(s.T())
}
