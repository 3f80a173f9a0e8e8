// Package cli provides API client helper functions.
package cli

import (
	"fmt"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/ratelimit"
)

// loadConfig loads the config file and folds in the global flag overrides.
// Priority: flags > token file > config file > environment > defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if apiBaseURL != "" {
		cfg.BaseURL = apiBaseURL
	}

	key, err := cfg.ResolveAPIKey(apiKey, tokenFile)
	if err != nil {
		return nil, err
	}
	cfg.APIKey = key

	return cfg, nil
}

// newGate builds the shared throttle gate from the configured request
// spacing. Every workspace call the process makes flows through this one
// gate, so tree refreshes and file operations share a single budget.
func newGate(cfg *config.Config) *ratelimit.Gate {
	if cfg.RequestSpacing > 0 {
		return ratelimit.NewGate(1/cfg.RequestSpacing.Seconds(), ratelimit.WorkspaceBurstCapacity)
	}
	return ratelimit.NewWorkspaceGate()
}

// getAPIClient loads configuration and creates an API client.
// This is the standard way to get an API client in CLI commands.
func getAPIClient() (*api.Client, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	client, err := api.NewClient(cfg, newGate(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create API client: %w", err)
	}

	return client, cfg, nil
}
