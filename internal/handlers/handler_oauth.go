package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	"github.com/SscSPs/blog_backend/internal/core/domain"
	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
	"github.com/SscSPs/blog_backend/internal/dto"
	"github.com/SscSPs/blog_backend/internal/middleware"
	"github.com/SscSPs/blog_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

const oauthStateTTL = 10 * time.Minute

// oauthHandler runs the authorization-code flow for the configured providers.
type oauthHandler struct {
	clients  portssvc.OAuthClientSelector
	identity portssvc.IdentityResolverSvc
	tokens   portssvc.TokenSvc
	cookies  cookieJar
}

func newOAuthHandler(services *portssvc.ServiceContainer, cookies cookieJar) *oauthHandler {
	return &oauthHandler{
		clients:  services.OAuth,
		identity: services.Identity,
		tokens:   services.Token,
		cookies:  cookies,
	}
}

func registerOAuthRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, cookies cookieJar) {
	h := newOAuthHandler(services, cookies)

	oauth := rg.Group("/auth/oauth/:provider")
	{
		oauth.GET("", h.begin)
		oauth.GET("/callback", h.callback)
		oauth.POST("/exchange-code", h.exchangeCode)
	}
}

func (h *oauthHandler) client(c *gin.Context) (portssvc.OAuthClient, bool) {
	provider, ok := domain.ParseAuthProvider(c.Param("provider"))
	if !ok {
		respondError(c, apperrors.NewNotFoundError("Unknown OAuth provider"))
		return nil, false
	}
	client, err := h.clients.For(provider)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return client, true
}

// begin stores a CSRF state in a cookie and redirects to the provider consent page.
func (h *oauthHandler) begin(c *gin.Context) {
	client, ok := h.client(c)
	if !ok {
		return
	}
	state, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		respondError(c, apperrors.NewAppError(http.StatusInternalServerError, "Failed to start OAuth flow", err))
		return
	}
	h.cookies.set(c, h.cookies.stateName, state, oauthStateTTL)
	c.Redirect(http.StatusTemporaryRedirect, client.AuthCodeURL(state))
}

// callback verifies the state cookie and completes the login.
func (h *oauthHandler) callback(c *gin.Context) {
	client, ok := h.client(c)
	if !ok {
		return
	}

	expected, err := c.Cookie(h.cookies.stateName)
	h.cookies.clear(c, h.cookies.stateName)
	state := c.Query("state")
	if err != nil || expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		respondError(c, apperrors.NewValidationError("Invalid OAuth state"))
		return
	}
	if errMsg := c.Query("error"); errMsg != "" {
		respondError(c, apperrors.NewOAuthFailedError("Provider denied authorization: "+errMsg, nil))
		return
	}
	code := c.Query("code")
	if code == "" {
		respondError(c, apperrors.NewValidationError("code is required"))
		return
	}

	h.complete(c, client, code)
}

// exchangeCode completes the login for a code obtained by the frontend.
func (h *oauthHandler) exchangeCode(c *gin.Context) {
	client, ok := h.client(c)
	if !ok {
		return
	}
	var req dto.ExchangeCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	h.complete(c, client, req.Code)
}

func (h *oauthHandler) complete(c *gin.Context, client portssvc.OAuthClient, code string) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromContext(c).With(slog.String("provider", string(client.Provider())))

	profile, err := client.Exchange(ctx, code)
	if err != nil {
		logger.Warn("OAuth code exchange failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	user, err := h.identity.ResolveOAuth(ctx, *profile)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, ok := authResponse(c, h.tokens, user)
	if !ok {
		return
	}
	logger.Info("OAuth login succeeded", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, resp)
}
