package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Variables is the subset of the Actions runtime environment the tools rely on
type Variables struct {
	CI            bool   `env:"CI,default=false"`
	GitHubActions bool   `env:"GITHUB_ACTIONS,default=false"`
	EventName     string `env:"GITHUB_EVENT_NAME"`
	EventPath     string `env:"GITHUB_EVENT_PATH"`

	// Token authenticates API calls; only required by commands that reach the network
	Token string `env:"GITHUB_TOKEN"`

	// APIURL points at a GitHub Enterprise server when set
	APIURL string `env:"GITHUB_API_URL"`
}

// ErrNoToken is returned when a network command runs without GITHUB_TOKEN
var ErrNoToken = errors.New("no GitHub token found: set the GITHUB_TOKEN environment variable")

// FromEnv reads the variables from the process environment
func FromEnv(ctx context.Context) (*Variables, error) {
	return FromLookuper(ctx, envconfig.OsLookuper())
}

// FromLookuper reads the variables through l, so callers can supply a fixed map
func FromLookuper(ctx context.Context, l envconfig.Lookuper) (*Variables, error) {
	var vars Variables
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &vars,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &vars, nil
}

// RequireToken returns the API token or ErrNoToken
func (v *Variables) RequireToken() (string, error) {
	if v.Token == "" {
		return "", ErrNoToken
	}
	return v.Token, nil
}
