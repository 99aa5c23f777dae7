package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// Config returns the account's upload page configuration.
func (s *AccountService) Config(ctx context.Context) (*Config, error) {
	route, err := NewRoute(http.MethodGet, "/users/@me/config", nil)
	if err != nil {
		return nil, err
	}
	var result Config
	if err := s.client.do(ctx, route, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ConfigUpdate carries the fields to change on the upload page
// configuration. Nil fields are left untouched.
type ConfigUpdate struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	AuthorName   *string `json:"author_name,omitempty"`
	AuthorURL    *string `json:"author_url,omitempty"`
	ProviderName *string `json:"provider_name,omitempty"`
	ProviderURL  *string `json:"provider_url,omitempty"`
	ThemeColor   *string `json:"theme_color,omitempty"`
	CustomCSS    *string `json:"custom_css,omitempty"`
}

// UpdateConfig applies a partial update to the upload page configuration.
func (s *AccountService) UpdateConfig(ctx context.Context, update ConfigUpdate) error {
	route, err := NewRoute(http.MethodPatch, "/users/@me/config", nil)
	if err != nil {
		return err
	}

	embed := map[string]string{}
	setField := func(name string, value *string) {
		if value != nil {
			embed[name] = *value
		}
	}
	setField("title", update.Title)
	setField("description", update.Description)
	setField("author_name", update.AuthorName)
	setField("author_url", update.AuthorURL)
	setField("provider_name", update.ProviderName)
	setField("provider_url", update.ProviderURL)
	setField("theme_color", update.ThemeColor)

	body := map[string]any{}
	if len(embed) > 0 {
		body["embed"] = embed
	}
	if update.CustomCSS != nil {
		body["custom_css"] = *update.CustomCSS
	}
	if len(body) == 0 {
		return &ConfigurationError{Message: "config update has no fields to change"}
	}
	return s.client.do(ctx, route, &requestOptions{body: body}, nil)
}

// Settings returns the account's notification and privacy settings.
func (s *AccountService) Settings(ctx context.Context) (*Settings, error) {
	route, err := NewRoute(http.MethodGet, "/users/@me/settings", nil)
	if err != nil {
		return nil, err
	}
	var result Settings
	if err := s.client.do(ctx, route, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SettingsUpdate carries the settings fields to change. Nil fields are
// left untouched.
type SettingsUpdate struct {
	PromotionalEmails *bool
	SharedFileEmails  *bool
	NewLoginEmails    *bool
	Addable           *bool
	Shareable         *int
}

// UpdateSettings applies a partial update to notification and privacy
// settings.
func (s *AccountService) UpdateSettings(ctx context.Context, update SettingsUpdate) error {
	route, err := NewRoute(http.MethodPatch, "/users/@me/settings", nil)
	if err != nil {
		return err
	}

	emails := map[string]any{}
	if update.PromotionalEmails != nil {
		emails["promotional"] = *update.PromotionalEmails
	}
	if update.SharedFileEmails != nil {
		emails["shared_file"] = *update.SharedFileEmails
	}
	if update.NewLoginEmails != nil {
		emails["new_login"] = *update.NewLoginEmails
	}

	privacy := map[string]any{}
	if update.Addable != nil {
		privacy["addable"] = *update.Addable
	}
	if update.Shareable != nil {
		privacy["shareable"] = *update.Shareable
	}

	body := map[string]any{}
	if len(emails) > 0 {
		body["emails"] = emails
	}
	if len(privacy) > 0 {
		body["privacy"] = privacy
	}
	if len(body) == 0 {
		return &ConfigurationError{Message: "settings update has no fields to change"}
	}
	return s.client.do(ctx, route, &requestOptions{body: body}, nil)
}

// UploadKey returns the account's upload API key.
func (s *AccountService) UploadKey(ctx context.Context) (*UploadKey, error) {
	route, err := NewRoute(http.MethodGet, "/users/@me/keys", nil)
	if err != nil {
		return nil, err
	}
	var result UploadKey
	if err := s.client.do(ctx, route, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RequestData asks the service to assemble a personal data export. The
// export is delivered out of band by email.
func (s *AccountService) RequestData(ctx context.Context) error {
	route, err := NewRoute(http.MethodPost, "/users/@me/data-requests", nil)
	if err != nil {
		return err
	}
	return s.client.do(ctx, route, nil, nil)
}

// Subscriptions returns the raw billing subscriptions payload.
func (s *AccountService) Subscriptions(ctx context.Context) (json.RawMessage, error) {
	return s.rawGet(ctx, "/users/@me/billing/subscriptions")
}

// PaymentMethods returns the raw billing payment methods payload.
func (s *AccountService) PaymentMethods(ctx context.Context) (json.RawMessage, error) {
	return s.rawGet(ctx, "/users/@me/billing/payment-methods")
}

// Transactions returns the raw billing transactions payload.
func (s *AccountService) Transactions(ctx context.Context) (json.RawMessage, error) {
	return s.rawGet(ctx, "/users/@me/billing/transactions")
}

// DeveloperApplications returns the raw developer applications payload.
func (s *AccountService) DeveloperApplications(ctx context.Context) (json.RawMessage, error) {
	return s.rawGet(ctx, "/users/@me/developer/applications")
}

// rawGet fetches an endpoint whose payload shape is not pinned down and
// hands it back undecoded for jq-style filtering.
func (s *AccountService) rawGet(ctx context.Context, path string) (json.RawMessage, error) {
	route, err := NewRoute(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return s.client.request(ctx, route, nil)
}
