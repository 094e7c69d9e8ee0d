package handlers

import (
	"net/http"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
	"github.com/SscSPs/blog_backend/internal/dto"
	"github.com/SscSPs/blog_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// apiTokenHandler handles HTTP requests for personal API tokens
type apiTokenHandler struct {
	tokenSvc portssvc.APITokenSvc
}

func newAPITokenHandler(tokenSvc portssvc.APITokenSvc) *apiTokenHandler {
	return &apiTokenHandler{tokenSvc: tokenSvc}
}

// registerAPITokenRoutes registers the API token routes
func registerAPITokenRoutes(rg *gin.RouterGroup, tokenSvc portssvc.APITokenSvc, gate *middleware.AuthGate) {
	h := newAPITokenHandler(tokenSvc)

	tokens := rg.Group("/tokens", gate.Required())
	{
		tokens.POST("", h.createToken)
		tokens.GET("", h.listTokens)
		tokens.DELETE("/:id", h.revokeToken)
		tokens.DELETE("", h.revokeAllTokens)
	}
}

// createToken mints a token for the caller. The plaintext is only returned here.
func (h *apiTokenHandler) createToken(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, apperrors.NewUnauthenticatedError("Authentication required"))
		return
	}

	var req dto.CreateAPITokenRequest
	if !bindJSON(c, &req) {
		return
	}

	tokenStr, token, err := h.tokenSvc.CreateToken(c.Request.Context(), userID, req.Name, req.ExpiresInDuration())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCreateAPITokenResponse(tokenStr, *token))
}

// listTokens returns the metadata of the caller's tokens.
func (h *apiTokenHandler) listTokens(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, apperrors.NewUnauthenticatedError("Authentication required"))
		return
	}

	tokens, err := h.tokenSvc.ListTokens(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAPITokenResponseList(tokens))
}

// revokeToken deletes one of the caller's tokens.
func (h *apiTokenHandler) revokeToken(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, apperrors.NewUnauthenticatedError("Authentication required"))
		return
	}

	tokenID := c.Param("id")
	if _, err := uuid.Parse(tokenID); err != nil {
		respondError(c, apperrors.NewValidationError("Invalid token ID"))
		return
	}

	if err := h.tokenSvc.RevokeToken(c.Request.Context(), userID, tokenID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// revokeAllTokens deletes every token of the caller.
func (h *apiTokenHandler) revokeAllTokens(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, apperrors.NewUnauthenticatedError("Authentication required"))
		return
	}

	if err := h.tokenSvc.RevokeAllTokens(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
