package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
	"github.com/SscSPs/blog_backend/internal/dto"
	"github.com/SscSPs/blog_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// authHandler serves local registration, login, logout and the caller's own record.
type authHandler struct {
	identity portssvc.IdentityResolverSvc
	tokens   portssvc.TokenSvc
	sessions portssvc.SessionSvc
	cookies  cookieJar
}

func newAuthHandler(services *portssvc.ServiceContainer, cookies cookieJar) *authHandler {
	return &authHandler{
		identity: services.Identity,
		tokens:   services.Token,
		sessions: services.Session,
		cookies:  cookies,
	}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, gate *middleware.AuthGate, cookies cookieJar) {
	h := newAuthHandler(services, cookies)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/logout", gate.Optional(), h.logout)
		auth.GET("/me", gate.Required(), h.me)
	}
}

// register creates a local account and returns it with a bearer token.
func (h *authHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.identity.RegisterLocal(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, ok := authResponse(c, h.tokens, user)
	if !ok {
		return
	}
	middleware.GetLoggerFromContext(c).Info("User registered", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, resp)
}

// login checks local credentials, starts a session and returns a bearer token.
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.identity.LoginLocal(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, ok := authResponse(c, h.tokens, user)
	if !ok {
		return
	}
	raw, expiresAt, err := h.sessions.CreateSession(c.Request.Context(), user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.cookies.setSession(c, raw, expiresAt)

	c.JSON(http.StatusOK, resp)
}

// logout ends the session named by the cookie, if any, and clears it.
func (h *authHandler) logout(c *gin.Context) {
	if raw, err := c.Cookie(h.cookies.sessionName); err == nil && raw != "" {
		if err := h.sessions.DestroySession(c.Request.Context(), raw); err != nil {
			respondError(c, err)
			return
		}
	}
	h.cookies.clearSession(c)
	c.Status(http.StatusNoContent)
}

// me returns the authenticated user and how they were authenticated.
func (h *authHandler) me(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	method, _ := middleware.GetAuthMethodFromContext(c)
	c.JSON(http.StatusOK, dto.MeResponse{User: dto.ToUserResponse(user), AuthMethod: method})
}
