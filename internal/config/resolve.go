package config

import (
	"fmt"
	"os"
	"strings"
)

// ClientConfig contains resolved API client settings.
type ClientConfig struct {
	APIKey  string
	Domain  string
	BaseURL string
}

// ResolveClientConfig resolves client settings with flag overrides taking
// precedence over the environment, which takes precedence over the stored
// profile.
func ResolveClientConfig(domainOverride, baseURLOverride string) (ClientConfig, error) {
	account, err := LoadAccount()
	if err != nil {
		return ClientConfig{}, err
	}

	cfg := ClientConfig{
		APIKey:  account.APIKey,
		Domain:  account.Domain,
		BaseURL: account.BaseURL,
	}

	if envDomain := strings.TrimSpace(os.Getenv("TIXTE_DOMAIN")); envDomain != "" {
		cfg.Domain = envDomain
	}
	if envURL := strings.TrimSpace(os.Getenv("TIXTE_BASE_URL")); envURL != "" {
		cfg.BaseURL = strings.TrimSuffix(envURL, "/")
	}

	if domainOverride != "" {
		cfg.Domain = domainOverride
	}
	if baseURLOverride != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURLOverride, "/")
	}

	if cfg.APIKey == "" {
		return ClientConfig{}, fmt.Errorf("API key not configured (set TIXTE_API_KEY or run 'tixte auth login')")
	}

	return cfg, nil
}
