package middleware

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	"github.com/SscSPs/blog_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// AbortWithError writes err as a dto.ErrorResponse and aborts the chain.
// Anything that is not an *apperrors.AppError becomes a logged 500. Causes
// are included in Detail outside release mode only.
func AbortWithError(c *gin.Context, err error) {
	logger := GetLoggerFromContext(c)

	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
	if appErr.Code >= http.StatusInternalServerError {
		logger.ErrorContext(c.Request.Context(), "Request failed",
			slog.String("kind", string(appErr.Kind)),
			slog.String("error", err.Error()))
	} else {
		logger.DebugContext(c.Request.Context(), "Request rejected",
			slog.String("kind", string(appErr.Kind)),
			slog.String("message", appErr.Message))
	}

	resp := dto.ErrorResponse{Error: string(appErr.Kind), Message: appErr.Message}
	if gin.Mode() != gin.ReleaseMode && appErr.Err != nil && !isSentinel(appErr.Err) {
		resp.Detail = appErr.Err.Error()
	}
	c.AbortWithStatusJSON(appErr.Code, resp)
}

func isSentinel(err error) bool {
	for _, s := range []error{apperrors.ErrNotFound, apperrors.ErrValidation, apperrors.ErrDuplicate, apperrors.ErrUnauthorized, apperrors.ErrForbidden} {
		if err == s {
			return true
		}
	}
	return false
}
