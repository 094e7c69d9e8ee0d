package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	"github.com/SscSPs/blog_backend/internal/core/domain"
	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
	"github.com/SscSPs/blog_backend/internal/dto"
	"github.com/SscSPs/blog_backend/internal/middleware"
	"github.com/SscSPs/blog_backend/internal/validation"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, err error) {
	middleware.AbortWithError(c, err)
}

// bindJSON decodes and validates the request body, answering 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		msg := "Invalid request body"
		if msgs := validation.Messages(err); len(msgs) > 0 {
			msg = strings.Join(msgs, "; ")
		}
		respondError(c, apperrors.NewValidationError(msg))
		return false
	}
	return true
}

// requireUser returns the user attached by the auth gate.
func requireUser(c *gin.Context) (*domain.User, bool) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondError(c, apperrors.NewUnauthenticatedError("Authentication required"))
		return nil, false
	}
	return user, true
}

// authResponse issues a bearer token for user and wraps it with the user view.
func authResponse(c *gin.Context, tokens portssvc.TokenSvc, user *domain.User) (dto.AuthResponse, bool) {
	token, expiresAt, err := tokens.IssueToken(c.Request.Context(), user.UserID)
	if err != nil {
		respondError(c, err)
		return dto.AuthResponse{}, false
	}
	return dto.AuthResponse{
		User:      dto.ToUserResponse(user),
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}, true
}

// cookieJar writes the HttpOnly cookies used by the session and OAuth flows.
type cookieJar struct {
	sessionName string
	stateName   string
	secure      bool
}

func (j cookieJar) set(c *gin.Context, name, value string, maxAge time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(maxAge.Seconds()), "/", "", j.secure, true)
}

func (j cookieJar) clear(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", j.secure, true)
}

func (j cookieJar) setSession(c *gin.Context, value string, expiresAt time.Time) {
	j.set(c, j.sessionName, value, time.Until(expiresAt))
}

func (j cookieJar) clearSession(c *gin.Context) {
	j.clear(c, j.sessionName)
}
