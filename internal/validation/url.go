// Package validation provides input and URL validation with SSRF protection.
//
// URL validation checks destinations against private IP ranges, cloud
// metadata endpoints, and link-local addresses before any request is made.
// The base-URL check guards the configured API host; the fetch check guards
// download targets supplied on the command line.
//
// Private destinations can be allowed via the TIXTE_ALLOW_PRIVATE environment
// variable (any value strconv.ParseBool accepts) or SetAllowPrivate. Cloud
// metadata endpoints stay blocked regardless.
package validation

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// allowPrivate relaxes the base-URL check so the CLI can talk to a Tixte
// instance on a private network.
var allowPrivate atomic.Bool

func init() {
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("TIXTE_ALLOW_PRIVATE"))); err == nil {
		allowPrivate.Store(v)
	}
}

// SetAllowPrivate toggles the private-network relaxation at runtime.
// Metadata endpoints and link-local addresses stay blocked either way.
func SetAllowPrivate(enabled bool) { allowPrivate.Store(enabled) }

// AllowPrivateEnabled reports whether private API hosts are currently
// permitted, whether set by SetAllowPrivate or the TIXTE_ALLOW_PRIVATE
// environment variable.
func AllowPrivateEnabled() bool { return allowPrivate.Load() }

// urlPolicy decides which destination classes a check tolerates.
// Metadata endpoints and link-local addresses are rejected unconditionally.
type urlPolicy struct {
	allowLoopback  bool // 127.0.0.0/8, ::1, and the unspecified address
	allowPrivate   bool // RFC 1918, ULA, CGNAT, and other non-routable ranges
	allowLocalName bool // hostnames such as "localhost" and *.localhost
}

// ValidateBaseURL validates an API base URL override. Private and loopback
// destinations are rejected unless the private-network relaxation is on.
func ValidateBaseURL(rawURL string) error {
	var p urlPolicy
	if allowPrivate.Load() {
		p = urlPolicy{allowLoopback: true, allowPrivate: true, allowLocalName: true}
	}
	return checkURL(rawURL, p)
}

// ValidateFetchURL validates a user-supplied download URL (asset, direct, or
// deletion URL). Loopback targets are permitted since downloading from a
// local dev server is a legitimate use, but private ranges and metadata
// endpoints are not.
func ValidateFetchURL(rawURL string) error {
	return checkURL(rawURL, urlPolicy{allowLoopback: true, allowLocalName: true})
}

const resolveTimeout = 5 * time.Second

func checkURL(rawURL string, p urlPolicy) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: only http and https are allowed, got %q", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("URL must contain a hostname")
	}

	if isMetadataHost(host) {
		return fmt.Errorf("cloud metadata endpoints are not allowed")
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		return checkAddr(addr, p)
	}

	if isLocalName(host) {
		if !p.allowLocalName {
			return fmt.Errorf("localhost URLs are not allowed")
		}
		return nil
	}

	// Resolve the name and vet every address it maps to. A name that
	// fails to resolve passes; the eventual dial reports its own error.
	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()
	addrs, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return nil
	}
	for _, addr := range addrs {
		if err := checkAddr(addr, p); err != nil {
			return fmt.Errorf("domain %q resolves to forbidden IP %s: %w", host, addr, err)
		}
	}
	return nil
}

func checkAddr(addr netip.Addr, p urlPolicy) error {
	addr = addr.Unmap()
	switch {
	case isMetadataAddr(addr):
		return fmt.Errorf("cloud metadata endpoints are not allowed")
	case addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast():
		return fmt.Errorf("link-local IP addresses are not allowed")
	case addr.IsLoopback() || addr.IsUnspecified():
		if !p.allowLoopback {
			return fmt.Errorf("loopback IP addresses are not allowed")
		}
	case isPrivateAddr(addr):
		if !p.allowPrivate {
			return fmt.Errorf("private IP addresses are not allowed")
		}
	}
	return nil
}

var metadataAddrs = []netip.Addr{
	netip.MustParseAddr("169.254.169.254"), // AWS, Azure, GCP, DigitalOcean
	netip.MustParseAddr("fd00:ec2::254"),   // AWS IPv6
}

func isMetadataAddr(addr netip.Addr) bool {
	for _, m := range metadataAddrs {
		if addr == m {
			return true
		}
	}
	return false
}

func isMetadataHost(host string) bool {
	h := strings.ToLower(strings.TrimSuffix(host, "."))
	switch h {
	case "metadata", "metadata.google.internal", "instance-data",
		"169.254.169.254", "fd00:ec2::254":
		return true
	}
	return strings.HasSuffix(h, ".metadata.google.internal")
}

func isLocalName(host string) bool {
	h := strings.ToLower(strings.TrimSuffix(host, "."))
	return h == "localhost" || strings.HasSuffix(h, ".localhost")
}

// nonRoutable covers ranges beyond what Addr.IsPrivate knows about.
var nonRoutable = []netip.Prefix{
	netip.MustParsePrefix("100.64.0.0/10"),   // RFC 6598 shared address space (CGNAT)
	netip.MustParsePrefix("192.0.0.0/24"),    // RFC 6890 protocol assignments
	netip.MustParsePrefix("192.0.2.0/24"),    // RFC 5737 documentation
	netip.MustParsePrefix("198.51.100.0/24"), // RFC 5737 documentation
	netip.MustParsePrefix("203.0.113.0/24"),  // RFC 5737 documentation
	netip.MustParsePrefix("198.18.0.0/15"),   // RFC 2544 benchmarking
	netip.MustParsePrefix("240.0.0.0/4"),     // RFC 1112 reserved
	netip.MustParsePrefix("ff00::/8"),        // multicast
	netip.MustParsePrefix("100::/64"),        // RFC 6666 discard prefix
	netip.MustParsePrefix("2001::/32"),       // RFC 4380 Teredo
	netip.MustParsePrefix("2001:10::/28"),    // RFC 4843 ORCHID
	netip.MustParsePrefix("2001:db8::/32"),   // RFC 3849 documentation
}

func isPrivateAddr(addr netip.Addr) bool {
	if addr.IsPrivate() {
		return true
	}
	for _, p := range nonRoutable {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
