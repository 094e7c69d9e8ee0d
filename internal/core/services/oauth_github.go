package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	"github.com/SscSPs/blog_backend/internal/core/domain"
	portssvc "github.com/SscSPs/blog_backend/internal/core/ports/services"
	"github.com/SscSPs/blog_backend/internal/platform/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubAPIBaseURL = "https://api.github.com"

// githubOAuthClient performs the GitHub authorization-code flow and reads the
// identity from the REST API.
type githubOAuthClient struct {
	oauth2Config *oauth2.Config
	apiBaseURL   string
}

// GitHubClientOption configures a githubOAuthClient.
type GitHubClientOption func(*githubOAuthClient)

// WithGitHubEndpoints overrides the OAuth endpoint and the REST API base URL.
func WithGitHubEndpoints(endpoint oauth2.Endpoint, apiBaseURL string) GitHubClientOption {
	return func(c *githubOAuthClient) {
		c.oauth2Config.Endpoint = endpoint
		c.apiBaseURL = strings.TrimRight(apiBaseURL, "/")
	}
}

// NewGitHubOAuthClient creates a new instance of githubOAuthClient.
func NewGitHubOAuthClient(cfg *config.Config, opts ...GitHubClientOption) portssvc.OAuthClient {
	c := &githubOAuthClient{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.GitHubRedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiBaseURL: githubAPIBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *githubOAuthClient) Provider() domain.AuthProvider { return domain.ProviderGitHub }

func (c *githubOAuthClient) AuthCodeURL(state string) string {
	return c.oauth2Config.AuthCodeURL(state)
}

type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (c *githubOAuthClient) Exchange(ctx context.Context, code string) (*domain.OAuthProfile, error) {
	token, err := c.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, apperrors.NewOAuthFailedError("Failed to exchange GitHub authorization code", err)
	}
	client := c.oauth2Config.Client(ctx, token)

	var user githubUser
	if err := c.getJSON(ctx, client, "/user", &user); err != nil {
		return nil, apperrors.NewOAuthFailedError("Failed to fetch GitHub profile", err)
	}
	if user.ID == 0 {
		return nil, apperrors.NewOAuthFailedError("GitHub returned no account id", nil)
	}

	var emails []string
	if user.Email != "" {
		emails = append(emails, user.Email)
	} else {
		var listed []githubEmail
		// The emails endpoint needs the user:email scope; a failure leaves the placeholder path.
		if err := c.getJSON(ctx, client, "/user/emails", &listed); err == nil {
			emails = orderGitHubEmails(listed)
		}
	}

	given, family := splitDisplayName(user.Name)
	return &domain.OAuthProfile{
		Provider:     domain.ProviderGitHub,
		ExternalID:   strconv.FormatInt(user.ID, 10),
		Emails:       emails,
		Handle:       user.Login,
		GivenName:    given,
		FamilyName:   family,
		RefreshToken: token.RefreshToken,
	}, nil
}

func (c *githubOAuthClient) getJSON(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github %s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// orderGitHubEmails returns verified addresses, primary first.
func orderGitHubEmails(listed []githubEmail) []string {
	verified := make([]githubEmail, 0, len(listed))
	for _, e := range listed {
		if e.Verified && e.Email != "" {
			verified = append(verified, e)
		}
	}
	sort.SliceStable(verified, func(i, j int) bool {
		return verified[i].Primary && !verified[j].Primary
	})
	out := make([]string, len(verified))
	for i, e := range verified {
		out[i] = e.Email
	}
	return out
}

// splitDisplayName splits "Ada King Lovelace" into "Ada" and "King Lovelace".
func splitDisplayName(name string) (string, string) {
	given, family, _ := strings.Cut(strings.TrimSpace(name), " ")
	return given, strings.TrimSpace(family)
}
