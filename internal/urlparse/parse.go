// Package urlparse provides URL parsing utilities for Tixte upload links.
package urlparse

import (
	"fmt"
	"net/url"
	"strings"
)

// ParsedURL represents a parsed upload link with its extracted parts.
type ParsedURL struct {
	Domain    string // upload domain the file lives on
	Filename  string // full file name including extension
	Name      string // file name without extension
	Extension string // extension without the leading dot, "" if none
	Direct    bool   // true for CDN direct links
}

// Parse extracts upload information from a Tixte link. Two shapes are
// accepted:
//
//	https://files.example.com/photo.png            (public link)
//	https://us-east-1.tixte.net/uploads/files.example.com/photo.png  (direct link)
func Parse(rawURL string) (*ParsedURL, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme == "" {
		return nil, fmt.Errorf("invalid URL: missing scheme (expected https://...)")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %q: expected http or https", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid URL: missing host")
	}

	segments := splitPath(parsed.Path)

	// Direct links carry the upload domain in the path.
	if len(segments) == 3 && segments[0] == "uploads" {
		result := &ParsedURL{
			Domain:   segments[1],
			Filename: segments[2],
			Direct:   true,
		}
		result.Name, result.Extension = splitFilename(result.Filename)
		if result.Filename == "" || result.Domain == "" {
			return nil, fmt.Errorf("invalid direct link: expected /uploads/{domain}/{filename}")
		}
		return result, nil
	}

	// Public links are a bare file name on the upload domain.
	if len(segments) == 1 && segments[0] != "" {
		result := &ParsedURL{
			Domain:   parsed.Hostname(),
			Filename: segments[0],
		}
		result.Name, result.Extension = splitFilename(result.Filename)
		return result, nil
	}

	return nil, fmt.Errorf("unrecognized upload link format: expected https://{domain}/{filename}")
}

// IsUploadURL reports whether the string looks like a link Parse would
// accept, without allocating the full result.
func IsUploadURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func splitFilename(filename string) (name, ext string) {
	idx := strings.LastIndex(filename, ".")
	if idx <= 0 || idx == len(filename)-1 {
		return filename, ""
	}
	return filename[:idx], filename[idx+1:]
}
