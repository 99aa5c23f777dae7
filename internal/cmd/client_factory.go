package cmd

import (
	"fmt"
	"time"

	"github.com/tixte/tixte-cli/internal/api"
	"github.com/tixte/tixte-cli/internal/config"
	"github.com/tixte/tixte-cli/internal/validation"
)

type clientFactory struct {
	timeout   time.Duration
	userAgent string
}

func newClientFactory() *clientFactory {
	return &clientFactory{
		timeout:   flags.Timeout,
		userAgent: fmt.Sprintf("tixte-cli/%s", version),
	}
}

func (f *clientFactory) client() (*api.Client, error) {
	cfg, err := config.ResolveClientConfig(flags.Domain, flags.BaseURL)
	if err != nil {
		return nil, err
	}

	// Non-default base URLs are user-supplied and get the SSRF check.
	if cfg.BaseURL != "" && cfg.BaseURL != api.DefaultBaseURL && !validation.AllowPrivateEnabled() {
		if err := validation.ValidateBaseURL(cfg.BaseURL); err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
	}

	return f.newClient(cfg), nil
}

func (f *clientFactory) newClient(cfg config.ClientConfig) *api.Client {
	client := api.New(cfg.APIKey, cfg.Domain)
	if cfg.BaseURL != "" {
		client.BaseURL = cfg.BaseURL
	}
	if f.timeout > 0 {
		client.HTTP.Timeout = f.timeout
	}
	if f.userAgent != "" {
		client.UserAgent = f.userAgent
	}
	return client
}
