package config

import (
	"log"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Password hashing
	BcryptCost      int
	HashConcurrency int

	// Session cookie
	SessionCookieName      string
	SessionMaxAge          time.Duration
	SessionCleanupInterval time.Duration

	// External OAuth Providers
	GoogleClientID       string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret   string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL    string `mapstructure:"GOOGLE_REDIRECT_URL"`
	GitHubClientID       string `mapstructure:"GITHUB_CLIENT_ID"`
	GitHubClientSecret   string `mapstructure:"GITHUB_CLIENT_SECRET"`
	GitHubRedirectURL    string `mapstructure:"GITHUB_REDIRECT_URL"`
	OAuthStateCookieName string
	// OAuthLinkByEmail lets an OAuth login attach to an existing account that has the same email.
	OAuthLinkByEmail bool

	FrontendBaseURL    string   `mapstructure:"FRONTEND_BASE_URL"`
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "168h")
	v.SetDefault("JWT_ISSUER", "blog-backend")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("HASH_CONCURRENCY", runtime.NumCPU())
	v.SetDefault("SESSION_COOKIE_NAME", "sid")
	v.SetDefault("SESSION_MAX_AGE", "168h")
	v.SetDefault("SESSION_CLEANUP_INTERVAL", "1h")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "")
	v.SetDefault("GITHUB_CLIENT_ID", "")
	v.SetDefault("GITHUB_CLIENT_SECRET", "")
	v.SetDefault("GITHUB_REDIRECT_URL", "")
	v.SetDefault("OAUTH_STATE_COOKIE_NAME", "oauth_state")
	v.SetDefault("OAUTH_LINK_BY_EMAIL", true)
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = v.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = v.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTExpiryDuration = durationOrDefault(v, "JWT_EXPIRY_DURATION", 7*24*time.Hour)

	cfg.JWTIssuer = v.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "blog-backend"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.BcryptCost = v.GetInt("BCRYPT_COST")
	if cfg.BcryptCost < 10 {
		log.Printf("Warning: BCRYPT_COST %d is below the recommended minimum of 10.\n", cfg.BcryptCost)
	}
	cfg.HashConcurrency = v.GetInt("HASH_CONCURRENCY")

	cfg.SessionCookieName = v.GetString("SESSION_COOKIE_NAME")
	cfg.SessionMaxAge = durationOrDefault(v, "SESSION_MAX_AGE", 7*24*time.Hour)
	cfg.SessionCleanupInterval = durationOrDefault(v, "SESSION_CLEANUP_INTERVAL", time.Hour)

	cfg.GoogleClientID = v.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = v.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = v.GetString("GOOGLE_REDIRECT_URL")
	cfg.GitHubClientID = v.GetString("GITHUB_CLIENT_ID")
	cfg.GitHubClientSecret = v.GetString("GITHUB_CLIENT_SECRET")
	cfg.GitHubRedirectURL = v.GetString("GITHUB_REDIRECT_URL")
	cfg.OAuthStateCookieName = v.GetString("OAUTH_STATE_COOKIE_NAME")
	cfg.OAuthLinkByEmail = v.GetBool("OAUTH_LINK_BY_EMAIL")

	// Log warnings for missing critical OAuth ENV variables
	if !cfg.GoogleEnabled() {
		log.Println("Warning: GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET/GOOGLE_REDIRECT_URL not set. Google OAuth will not function.")
	}
	if !cfg.GitHubEnabled() {
		log.Println("Warning: GITHUB_CLIENT_ID/GITHUB_CLIENT_SECRET/GITHUB_REDIRECT_URL not set. GitHub OAuth will not function.")
	}

	cfg.FrontendBaseURL = v.GetString("FRONTEND_BASE_URL")
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	if len(cfg.CORSAllowedOrigins) == 0 && cfg.FrontendBaseURL != "" {
		cfg.CORSAllowedOrigins = []string{cfg.FrontendBaseURL}
	}

	return cfg
}

// GoogleEnabled reports whether all Google OAuth settings are present.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

// GitHubEnabled reports whether all GitHub OAuth settings are present.
func (c *Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != "" && c.GitHubRedirectURL != ""
}

func durationOrDefault(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
