package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Input limits to catch mistakes before they hit the API
const (
	MaxUploadNameLength = 255
	MaxDomainLength     = 253       // RFC 1035 full hostname limit
	MaxLabelLength      = 63        // RFC 1035 per-label limit
	MaxUploadSize       = 200 << 20 // request cap, larger files are rejected upstream anyway
	MaxMessageLength    = 1000
)

// ValidateUploadName validates an upload display name.
func ValidateUploadName(name string) error {
	if name == "" {
		return fmt.Errorf("upload name cannot be empty")
	}

	length := utf8.RuneCountInString(name)
	if length > MaxUploadNameLength {
		return fmt.Errorf("upload name exceeds maximum length of %d characters (got %d)", MaxUploadNameLength, length)
	}

	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("upload name cannot contain path separators")
	}

	return nil
}

// ValidateDomainName validates an upload domain hostname.
func ValidateDomainName(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}

	if len(domain) > MaxDomainLength {
		return fmt.Errorf("domain exceeds maximum length of %d characters (got %d)", MaxDomainLength, len(domain))
	}

	if strings.Contains(domain, "://") {
		return fmt.Errorf("domain must be a bare hostname, not a URL")
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return fmt.Errorf("domain must contain at least one dot (e.g. files.tixte.co)")
	}

	for _, label := range labels {
		if err := validateDomainLabel(label); err != nil {
			return fmt.Errorf("invalid domain %q: %w", domain, err)
		}
	}

	return nil
}

func validateDomainLabel(label string) error {
	if label == "" {
		return fmt.Errorf("empty label")
	}
	if len(label) > MaxLabelLength {
		return fmt.Errorf("label %q exceeds %d characters", label, MaxLabelLength)
	}
	if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
		return fmt.Errorf("label %q cannot start or end with a hyphen", label)
	}
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return fmt.Errorf("label %q contains invalid character %q", label, r)
		}
	}
	return nil
}

// ValidateUploadSize rejects files over the request cap before any bytes
// are read into memory.
func ValidateUploadSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("file is empty")
	}
	if size > MaxUploadSize {
		return fmt.Errorf("file exceeds maximum upload size of %d bytes (got %d)", int64(MaxUploadSize), size)
	}
	return nil
}

// ValidateShareMessage validates the optional message sent with a
// permission grant.
func ValidateShareMessage(message string) error {
	if message == "" {
		return nil
	}
	length := utf8.RuneCountInString(message)
	if length > MaxMessageLength {
		return fmt.Errorf("message exceeds maximum length of %d characters (got %d)", MaxMessageLength, length)
	}
	return nil
}

// ValidateAPIKey performs a shape check on an API key before storing it.
func ValidateAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("API key cannot be empty")
	}
	if len(key) < 8 {
		return fmt.Errorf("API key is too short to be valid")
	}
	if strings.ContainsAny(key, " \t\n") {
		return fmt.Errorf("API key cannot contain whitespace")
	}
	return nil
}
