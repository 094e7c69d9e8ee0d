package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	"github.com/SscSPs/blog_backend/internal/core/domain"
	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// APIKeyHeader carries a personal API token.
const APIKeyHeader = "X-API-Key"

// Strategy is one credential mechanism of the auth gate.
type Strategy interface {
	Method() domain.AuthMethod
	// Authenticate reports whether the request presents this kind of
	// credential and, if so, the user ID it resolves to.
	Authenticate(c *gin.Context) (userID string, presented bool, err error)
}

type bearerStrategy struct {
	tokens portssvc.TokenSvc
}

// BearerStrategy authenticates "Authorization: Bearer <token>" headers.
func BearerStrategy(tokens portssvc.TokenSvc) Strategy {
	return bearerStrategy{tokens: tokens}
}

func (bearerStrategy) Method() domain.AuthMethod { return domain.AuthMethodBearer }

func (s bearerStrategy) Authenticate(c *gin.Context) (string, bool, error) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", false, nil
	}
	scheme, token, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return "", false, nil
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", true, apperrors.NewTokenMalformedError(errors.New("empty bearer token"))
	}
	userID, err := s.tokens.ValidateToken(c.Request.Context(), token)
	return userID, true, err
}

type apiKeyStrategy struct {
	tokens portssvc.APITokenSvc
}

// APIKeyStrategy authenticates personal API tokens sent in the X-API-Key header.
func APIKeyStrategy(tokens portssvc.APITokenSvc) Strategy {
	return apiKeyStrategy{tokens: tokens}
}

func (apiKeyStrategy) Method() domain.AuthMethod { return domain.AuthMethodAPIToken }

func (s apiKeyStrategy) Authenticate(c *gin.Context) (string, bool, error) {
	key := strings.TrimSpace(c.GetHeader(APIKeyHeader))
	if key == "" {
		return "", false, nil
	}
	userID, err := s.tokens.ValidateToken(c.Request.Context(), key)
	return userID, true, err
}

type sessionStrategy struct {
	sessions   portssvc.SessionSvc
	cookieName string
}

// SessionStrategy authenticates the server-side session cookie.
func SessionStrategy(sessions portssvc.SessionSvc, cookieName string) Strategy {
	return sessionStrategy{sessions: sessions, cookieName: cookieName}
}

func (sessionStrategy) Method() domain.AuthMethod { return domain.AuthMethodSession }

func (s sessionStrategy) Authenticate(c *gin.Context) (string, bool, error) {
	raw, err := c.Cookie(s.cookieName)
	if err != nil || raw == "" {
		return "", false, nil
	}
	userID, err := s.sessions.Authenticate(c.Request.Context(), raw)
	return userID, true, err
}

// AuthGate resolves the caller of a request by trying strategies in order.
// The first strategy whose credential is present decides the outcome; later
// strategies are not consulted.
type AuthGate struct {
	users      portssvc.UserReaderSvc
	strategies []Strategy
}

// NewAuthGate creates an AuthGate. The user is always reloaded from users.
func NewAuthGate(users portssvc.UserReaderSvc, strategies ...Strategy) *AuthGate {
	return &AuthGate{users: users, strategies: strategies}
}

// Resolve returns the authenticated user and the method that identified them.
func (g *AuthGate) Resolve(c *gin.Context) (*domain.User, domain.AuthMethod, error) {
	for _, strategy := range g.strategies {
		userID, presented, err := strategy.Authenticate(c)
		if !presented {
			continue
		}
		if err != nil {
			return nil, strategy.Method(), err
		}
		user, err := g.users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, strategy.Method(), apperrors.NewUserNotFoundError()
			}
			return nil, strategy.Method(), err
		}
		return user, strategy.Method(), nil
	}
	return nil, "", apperrors.NewUnauthenticatedError("Authentication required")
}

// Required rejects requests that do not resolve to a user.
func (g *AuthGate) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, method, err := g.Resolve(c)
		if err != nil {
			GetLoggerFromContext(c).Info("Authentication failed",
				slog.String("auth_method", string(method)),
				slog.String("error", err.Error()))
			AbortWithError(c, err)
			return
		}
		attach(c, user, method)
		c.Next()
	}
}

// Optional attaches the user when resolution succeeds and otherwise lets the
// request through anonymously.
func (g *AuthGate) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, method, err := g.Resolve(c)
		if err != nil {
			GetLoggerFromContext(c).Debug("Continuing anonymously",
				slog.String("auth_method", string(method)),
				slog.String("error", err.Error()))
			c.Next()
			return
		}
		attach(c, user, method)
		c.Next()
	}
}

func attach(c *gin.Context, user *domain.User, method domain.AuthMethod) {
	c.Set(string(userKey), user)
	c.Set(string(userIDKey), user.UserID)
	c.Set(string(authMethodKey), method)

	logger := GetLoggerFromContext(c).With(
		slog.String("user_id", user.UserID),
		slog.String("auth_method", string(method)),
	)
	ctx := context.WithValue(c.Request.Context(), userIDKey, user.UserID)
	c.Request = c.Request.WithContext(WithLogger(ctx, logger))
	c.Set(string(loggerKey), logger)
}
