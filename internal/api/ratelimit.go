package api

import (
	"net/http"
	"strconv"
	"time"
)

// RateLimitInfo is a passive snapshot of the most recent rate-limit
// headers seen on any response. The dispatcher records it but never acts
// on it; callers that want to pace themselves read it via LastRateLimit.
type RateLimitInfo struct {
	Limit      int
	Remaining  int
	ResetAfter time.Duration
	ObservedAt time.Time
}

// LastRateLimit returns the rate-limit state from the most recent
// response carrying rate-limit headers, or nil if none has been seen.
func (c *Client) LastRateLimit() *RateLimitInfo {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()
	if c.lastRateLimit == nil {
		return nil
	}
	info := *c.lastRateLimit
	return &info
}

func (c *Client) recordRateLimit(header http.Header) {
	limit, limitOK := headerInt(header, "X-RateLimit-Limit")
	remaining, remainingOK := headerInt(header, "X-RateLimit-Remaining")
	if !limitOK && !remainingOK {
		return
	}

	info := &RateLimitInfo{
		Limit:      limit,
		Remaining:  remaining,
		ObservedAt: time.Now(),
	}
	if reset, ok := headerFloat(header, "X-RateLimit-Reset-After"); ok {
		info.ResetAfter = time.Duration(reset * float64(time.Second))
	}

	c.rateLimitMu.Lock()
	c.lastRateLimit = info
	c.rateLimitMu.Unlock()
}

// retryAfterDuration parses a Retry-After header, falling back to
// X-RateLimit-Reset-After when absent.
func retryAfterDuration(header http.Header) (time.Duration, bool) {
	if seconds, ok := headerFloat(header, "Retry-After"); ok {
		return time.Duration(seconds * float64(time.Second)), true
	}
	if seconds, ok := headerFloat(header, "X-RateLimit-Reset-After"); ok {
		return time.Duration(seconds * float64(time.Second)), true
	}
	return 0, false
}

func headerInt(header http.Header, name string) (int, bool) {
	raw := header.Get(name)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func headerFloat(header http.Header, name string) (float64, bool) {
	raw := header.Get(name)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
