package services

import (
	"fmt"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	"github.com/SscSPs/blog_backend/internal/core/domain"
	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
)

// OAuthClients is the closed set of external providers. A nil field means the
// provider is not configured.
type OAuthClients struct {
	Google portssvc.OAuthClient
	GitHub portssvc.OAuthClient
}

var _ portssvc.OAuthClientSelector = OAuthClients{}

// For returns the client for provider.
func (c OAuthClients) For(provider domain.AuthProvider) (portssvc.OAuthClient, error) {
	var client portssvc.OAuthClient
	switch provider {
	case domain.ProviderGoogle:
		client = c.Google
	case domain.ProviderGitHub:
		client = c.GitHub
	case domain.ProviderLocal:
		return nil, apperrors.NewNotFoundError("Local accounts do not use OAuth")
	default:
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("Unknown OAuth provider %q", provider))
	}
	if client == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("OAuth provider %q is not configured", provider))
	}
	return client, nil
}
