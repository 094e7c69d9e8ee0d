package middleware

import (
	"context"

	"github.com/SscSPs/blog_backend/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey     = contextKey("userID")
	userKey       = contextKey("user")
	authMethodKey = contextKey("authMethod")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok && userID != ""
	}
	return GetUserIDFromCtx(c.Request.Context())
}

// GetUserIDFromCtx retrieves the authenticated user ID from a standard context.
func GetUserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetUserFromContext returns the user record loaded by the auth gate.
func GetUserFromContext(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(string(userKey))
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}

// GetAuthMethodFromContext returns the mechanism that authenticated the request.
func GetAuthMethodFromContext(c *gin.Context) (domain.AuthMethod, bool) {
	v, exists := c.Get(string(authMethodKey))
	if !exists {
		return "", false
	}
	method, ok := v.(domain.AuthMethod)
	return method, ok
}
