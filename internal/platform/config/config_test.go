package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PGSQL_URL", "postgres://localhost/blog")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionMaxAge)
	assert.Equal(t, time.Hour, cfg.SessionCleanupInterval)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "sid", cfg.SessionCookieName)
	assert.Equal(t, "oauth_state", cfg.OAuthStateCookieName)
	assert.True(t, cfg.OAuthLinkByEmail)
	assert.False(t, cfg.IsProduction)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.GoogleEnabled())
	assert.False(t, cfg.GitHubEnabled())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("JWT_EXPIRY_DURATION", "30m")
	t.Setenv("BCRYPT_COST", "14")
	t.Setenv("SESSION_MAX_AGE", "not-a-duration")
	t.Setenv("OAUTH_LINK_BY_EMAIL", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("GITHUB_CLIENT_ID", "id")
	t.Setenv("GITHUB_CLIENT_SECRET", "secret")
	t.Setenv("GITHUB_REDIRECT_URL", "https://api.example/callback")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction)
	assert.Equal(t, "super-secret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiryDuration)
	assert.Equal(t, 14, cfg.BcryptCost)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionMaxAge, "invalid duration falls back to default")
	assert.False(t, cfg.OAuthLinkByEmail)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.GitHubEnabled())
}
