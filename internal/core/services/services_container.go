package services

import (
	portsrepo "github.com/SscSPs/blog_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
	"github.com/SscSPs/blog_backend/internal/platform/config"
	"github.com/SscSPs/blog_backend/internal/utils"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	hasher := utils.NewPasswordHasher(cfg.BcryptCost, cfg.HashConcurrency)

	container := &portssvc.ServiceContainer{}
	container.Token = NewTokenService(cfg)
	container.Session = NewSessionService(repos.SessionRepo, cfg.SessionMaxAge)
	container.APIToken = NewAPITokenService(repos.APITokenRepo)
	container.User = NewUserService(repos.UserRepo, hasher, container.Session)
	container.Identity = NewIdentityService(repos.UserRepo, hasher, WithLinkByEmail(cfg.OAuthLinkByEmail))

	clients := OAuthClients{}
	if cfg.GoogleEnabled() {
		clients.Google = NewGoogleOAuthClient(cfg)
	}
	if cfg.GitHubEnabled() {
		clients.GitHub = NewGitHubOAuthClient(cfg)
	}
	container.OAuth = clients

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.TokenSvc            = (*tokenService)(nil)
	_ portssvc.SessionSvc          = (*sessionService)(nil)
	_ portssvc.APITokenSvc         = (*apiTokenService)(nil)
	_ portssvc.UserSvcFacade       = (*userService)(nil)
	_ portssvc.IdentityResolverSvc = (*identityService)(nil)
	_ portssvc.PasswordHasher      = (*utils.PasswordHasher)(nil)
	_ portssvc.OAuthClient         = (*googleOAuthClient)(nil)
	_ portssvc.OAuthClient         = (*githubOAuthClient)(nil)
)
