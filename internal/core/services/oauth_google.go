package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	"github.com/SscSPs/blog_backend/internal/core/domain"
	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
	"github.com/SscSPs/blog_backend/internal/platform/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// IDTokenValidator verifies a Google ID token against an audience.
type IDTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// googleOAuthClient performs the Google authorization-code flow and reads the
// identity from the verified ID token.
type googleOAuthClient struct {
	oauth2Config *oauth2.Config
	validate     IDTokenValidator
}

// GoogleClientOption configures a googleOAuthClient.
type GoogleClientOption func(*googleOAuthClient)

// WithGoogleEndpoint overrides the OAuth endpoint.
func WithGoogleEndpoint(endpoint oauth2.Endpoint) GoogleClientOption {
	return func(c *googleOAuthClient) { c.oauth2Config.Endpoint = endpoint }
}

// WithIDTokenValidator overrides idtoken.Validate.
func WithIDTokenValidator(v IDTokenValidator) GoogleClientOption {
	return func(c *googleOAuthClient) { c.validate = v }
}

// NewGoogleOAuthClient creates a new instance of googleOAuthClient.
func NewGoogleOAuthClient(cfg *config.Config, opts ...GoogleClientOption) portssvc.OAuthClient {
	c := &googleOAuthClient{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		validate: idtoken.Validate,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *googleOAuthClient) Provider() domain.AuthProvider { return domain.ProviderGoogle }

// AuthCodeURL requests offline access so Google returns a refresh token on first consent.
func (c *googleOAuthClient) AuthCodeURL(state string) string {
	return c.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (c *googleOAuthClient) Exchange(ctx context.Context, code string) (*domain.OAuthProfile, error) {
	token, err := c.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, apperrors.NewOAuthFailedError("Failed to exchange Google authorization code", err)
	}

	rawIDToken, _ := token.Extra("id_token").(string)
	if rawIDToken == "" {
		return nil, apperrors.NewOAuthFailedError("Google did not return an ID token", errors.New("missing id_token"))
	}

	payload, err := c.validate(ctx, rawIDToken, c.oauth2Config.ClientID)
	if err != nil {
		return nil, apperrors.NewOAuthFailedError("Google ID token validation failed", fmt.Errorf("validate id token: %w", err))
	}

	profile := &domain.OAuthProfile{
		Provider:     domain.ProviderGoogle,
		ExternalID:   payload.Subject,
		GivenName:    claimString(payload.Claims, "given_name"),
		FamilyName:   claimString(payload.Claims, "family_name"),
		RefreshToken: token.RefreshToken,
	}
	if email := claimString(payload.Claims, "email"); email != "" {
		if verified, ok := payload.Claims["email_verified"].(bool); !ok || verified {
			profile.Emails = []string{email}
		}
	}
	return profile, nil
}

func claimString(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}
