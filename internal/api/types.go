package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// PermissionLevel is the access tier granted on an upload.
type PermissionLevel int

const (
	PermissionViewer  PermissionLevel = 1
	PermissionManager PermissionLevel = 2
	PermissionOwner   PermissionLevel = 3
)

func (p PermissionLevel) String() string {
	switch p {
	case PermissionViewer:
		return "viewer"
	case PermissionManager:
		return "manager"
	case PermissionOwner:
		return "owner"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// ParsePermissionLevel resolves a level name or numeric string.
func ParsePermissionLevel(s string) (PermissionLevel, error) {
	switch s {
	case "viewer", "1":
		return PermissionViewer, nil
	case "manager", "2":
		return PermissionManager, nil
	case "owner", "3":
		return PermissionOwner, nil
	default:
		return 0, fmt.Errorf("invalid permission level %q (want viewer, manager, or owner)", s)
	}
}

// PremiumTier is the account subscription tier.
type PremiumTier int

const (
	PremiumFree         PremiumTier = 0
	PremiumTurbo        PremiumTier = 1
	PremiumTurboCharged PremiumTier = 2
)

func (p PremiumTier) String() string {
	switch p {
	case PremiumFree:
		return "free"
	case PremiumTurbo:
		return "turbo"
	case PremiumTurboCharged:
		return "turbo-charged"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// UploadType distinguishes public from private uploads.
type UploadType int

const (
	UploadPublic  UploadType = 1
	UploadPrivate UploadType = 2
)

// Upload is a stored file as the API reports it.
type Upload struct {
	ID              string          `json:"asset_id"`
	Name            string          `json:"name"`
	Region          string          `json:"region"`
	Extension       string          `json:"extension"`
	Domain          string          `json:"domain"`
	Size            int64           `json:"size"`
	MimeType        string          `json:"mimetype"`
	Type            UploadType      `json:"type"`
	PermissionLevel PermissionLevel `json:"permission_level"`
	Expiration      *time.Time      `json:"expiration"`
	UploadedAt      *time.Time      `json:"uploaded_at"`
	URL             string          `json:"url"`
	DirectURL       string          `json:"direct_url"`
	DeletionURL     string          `json:"deletion_url"`
	Message         string          `json:"message"`
}

// UnmarshalJSON tolerates the API reporting the identifier as either
// "asset_id" or "id" depending on the endpoint.
func (u *Upload) UnmarshalJSON(data []byte) error {
	type alias Upload
	aux := struct {
		*alias
		AltID string `json:"id"`
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = aux.AltID
	}
	return nil
}

// Filename is the display name with its extension.
func (u *Upload) Filename() string {
	if u.Extension == "" {
		return u.Name
	}
	return u.Name + "." + u.Extension
}

// PublicURL is the canonical viewing URL, derived from the domain when
// the API omitted it.
func (u *Upload) PublicURL() string {
	if u.URL != "" {
		return u.URL
	}
	if u.Domain == "" {
		return ""
	}
	return "https://" + u.Domain + "/" + u.Filename()
}

// UploadList is the paginated result of listing or searching uploads.
type UploadList struct {
	Total   int      `json:"total"`
	Results int      `json:"results"`
	Uploads []Upload `json:"uploads"`
}

// UploadPermission associates a user with an access level on one upload.
type UploadPermission struct {
	User  User            `json:"user"`
	Level PermissionLevel `json:"-"`
}

// UnmarshalJSON tolerates the API reporting the level as either
// "access_level" or "permission_level" depending on the endpoint.
func (p *UploadPermission) UnmarshalJSON(data []byte) error {
	aux := struct {
		User            User             `json:"user"`
		AccessLevel     *PermissionLevel `json:"access_level"`
		PermissionLevel *PermissionLevel `json:"permission_level"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.User = aux.User
	switch {
	case aux.AccessLevel != nil:
		p.Level = *aux.AccessLevel
	case aux.PermissionLevel != nil:
		p.Level = *aux.PermissionLevel
	}
	return nil
}

// DeleteResponse is the acknowledgement body for destructive calls.
type DeleteResponse struct {
	Message string `json:"message"`
	Domain  string `json:"domain,omitempty"`
}

// User is another account's public profile.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Beta     bool   `json:"beta"`
	Admin    bool   `json:"admin"`
	Staff    bool   `json:"staff"`
	Pro      bool   `json:"pro"`
}

// AvatarURL returns the avatar asset URL, or "" when the user has none.
func (u *User) AvatarURL() string {
	return u.Avatar
}

// ClientUser is the authenticated account's own profile. It carries the
// private fields the public User shape omits.
type ClientUser struct {
	User
	Email         string     `json:"email"`
	EmailVerified bool       `json:"email_verified"`
	MFAEnabled    bool       `json:"mfa_enabled"`
	Phone         string     `json:"phone"`
	UploadRegion  string     `json:"upload_region"`
	LastLogin     *time.Time `json:"last_login"`
}

// Domain is an upload domain owned by the account.
type Domain struct {
	Name    string `json:"name"`
	Uploads int    `json:"uploads"`
	OwnerID string `json:"owner"`
}

// EmbedConfig is the link-embed appearance configuration.
type EmbedConfig struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	AuthorName   string `json:"author_name,omitempty"`
	AuthorURL    string `json:"author_url,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
	ProviderURL  string `json:"provider_url,omitempty"`
	ThemeColor   string `json:"theme_color,omitempty"`
}

// Config is the account's upload page configuration.
type Config struct {
	CustomCSS    string      `json:"custom_css"`
	HideBranding bool        `json:"hide_branding"`
	BaseRedirect bool        `json:"base_redirect"`
	Embed        EmbedConfig `json:"embed"`
}

// EmailSettings controls which notification emails the account receives.
type EmailSettings struct {
	Promotional bool `json:"promotional"`
	SharedFile  bool `json:"shared_file"`
	NewLogin    bool `json:"new_login"`
}

// PrivacySettings controls who can share files with the account.
type PrivacySettings struct {
	Addable   bool `json:"addable"`
	Shareable int  `json:"shareable"`
}

// Settings is the account's notification and privacy configuration.
type Settings struct {
	Emails  EmailSettings   `json:"emails"`
	Privacy PrivacySettings `json:"privacy"`
}

// SizeInfo reports total storage consumption across all uploads.
type SizeInfo struct {
	User int64 `json:"user"`
}

// UploadKey is the account's upload API key as returned by the keys
// endpoint.
type UploadKey struct {
	APIKey string `json:"api_key"`
}
