package github

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"ghsync/pkg/action"
)

// ClientOptions tunes the client built by NewClientFromVariables
type ClientOptions struct {
	RateLimit *RateLimiterConfig
}

// NewHTTPClient returns an http.Client that authenticates with token and
// passes every request through the rate limiting transport
func NewHTTPClient(ctx context.Context, token string, rl *RateLimiterConfig) *http.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: strings.TrimSpace(token)},
	)

	base := &http.Client{Transport: NewRateLimitTransport(http.DefaultTransport, rl)}
	return oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, base), ts)
}

// NewClientFromVariables builds an API client from the Actions runtime
// environment. GITHUB_TOKEN is required; GITHUB_API_URL selects an
// Enterprise server.
func NewClientFromVariables(ctx context.Context, vars *action.Variables, opts ClientOptions) (*Client, error) {
	token, err := vars.RequireToken()
	if err != nil {
		return nil, err
	}

	httpClient := NewHTTPClient(ctx, token, opts.RateLimit)

	if vars.APIURL == "" || strings.TrimSuffix(vars.APIURL, "/") == "https://api.github.com" {
		return NewClient(httpClient), nil
	}
	return NewEnterpriseClient(httpClient, vars.APIURL)
}

// GetAuthInstructions returns instructions for setting up GitHub authentication
func GetAuthInstructions() string {
	return `GitHub authentication is required. Set the GITHUB_TOKEN environment variable:

1. In a workflow, pass the built-in token:

   env:
     GITHUB_TOKEN: ${{ secrets.GITHUB_TOKEN }}

   The job needs "issues: write" permission to change labels and milestones.

2. Locally, export a personal access token:

   export GITHUB_TOKEN="your_personal_access_token"

   A fine-grained token needs read and write access to Issues on every
   repository listed in the configuration.`
}
