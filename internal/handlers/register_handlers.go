package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
	"github.com/SscSPs/blog_backend/internal/middleware"
	"github.com/SscSPs/blog_backend/internal/platform/config"
	"github.com/SscSPs/blog_backend/internal/validation"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the Gin engine with global middleware and every route.
func NewRouter(cfg *config.Config, services *portssvc.ServiceContainer, logger *slog.Logger) (*gin.Engine, error) {
	if err := validation.RegisterWithGin(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.APIKeyHeader, "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	RegisterRoutes(r, cfg, services)
	return r, nil
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	gate := middleware.NewAuthGate(services.User,
		middleware.BearerStrategy(services.Token),
		middleware.APIKeyStrategy(services.APIToken),
		middleware.SessionStrategy(services.Session, cfg.SessionCookieName),
	)
	cookies := cookieJar{
		sessionName: cfg.SessionCookieName,
		stateName:   cfg.OAuthStateCookieName,
		secure:      cfg.IsProduction,
	}

	v1 := r.Group("/api/v1")
	registerAuthRoutes(v1, services, gate, cookies)
	registerOAuthRoutes(v1, services, cookies)
	registerUserRoutes(v1, services, gate, cookies)
	registerAPITokenRoutes(v1, services.APIToken, gate)
}
