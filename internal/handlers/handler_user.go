package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	"github.com/SscSPs/blog_backend/internal/core/domain"
	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
	"github.com/SscSPs/blog_backend/internal/dto"
	"github.com/SscSPs/blog_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService portssvc.UserSvcFacade
	sessions    portssvc.SessionSvc
	cookies     cookieJar
}

// newUserHandler creates a new userHandler.
func newUserHandler(services *portssvc.ServiceContainer, cookies cookieJar) *userHandler {
	return &userHandler{
		userService: services.User,
		sessions:    services.Session,
		cookies:     cookies,
	}
}

// registerUserRoutes registers all user-related routes.
func registerUserRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, gate *middleware.AuthGate, cookies cookieJar) {
	h := newUserHandler(services, cookies)

	users := rg.Group("/users")
	{
		users.GET("/:id", gate.Optional(), h.getUser) // Own record or public view
		me := users.Group("/me", gate.Required())
		me.PUT("", h.updateMe)
		me.PUT("/password", h.changePassword)
		me.DELETE("", h.deleteMe)
	}
}

// getUser returns the full view to the owner and the public view to everyone else.
func (h *userHandler) getUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(c, apperrors.NewNotFoundError("User not found"))
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if callerID, ok := middleware.GetUserIDFromContext(c); ok && callerID == user.UserID {
		c.JSON(http.StatusOK, dto.ToUserResponse(user))
		return
	}
	c.JSON(http.StatusOK, dto.ToPublicUserResponse(user))
}

// updateMe changes profile fields of the caller.
func (h *userHandler) updateMe(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(updated))
}

// changePassword replaces the caller's password. Every session is revoked;
// a caller authenticated by session cookie receives a fresh one.
func (h *userHandler) changePassword(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if err := h.userService.ChangePassword(ctx, user.UserID, req); err != nil {
		respondError(c, err)
		return
	}

	if method, _ := middleware.GetAuthMethodFromContext(c); method == domain.AuthMethodSession {
		raw, expiresAt, err := h.sessions.CreateSession(ctx, user.UserID)
		if err != nil {
			middleware.GetLoggerFromContext(c).Error("Failed to reissue session after password change",
				slog.String("error", err.Error()))
			h.cookies.clearSession(c)
		} else {
			h.cookies.setSession(c, raw, expiresAt)
		}
	}
	c.Status(http.StatusNoContent)
}

// deleteMe removes the caller's account along with its sessions and API tokens.
func (h *userHandler) deleteMe(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), user.UserID); err != nil {
		respondError(c, err)
		return
	}
	h.cookies.clearSession(c)
	c.Status(http.StatusNoContent)
}
