// Package cli provides parsing helpers for flag values shared by commands.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimeRef interprets the value of a time-bound flag such as
// --uploaded-after or --uploaded-before.
//
// Accepted forms:
//   - "2026-03-01": a calendar date, taken at local midnight
//   - RFC 3339 timestamps
//   - "today", "yesterday", "now"
//   - an age like "3d ago", "45m ago" or "2w"; the trailing "ago" is
//     optional because upload filters only ever look backwards
func ParseTimeRef(value string, now time.Time) (time.Time, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time value")
	}

	switch s {
	case "now":
		return now, nil
	case "today":
		return midnight(now), nil
	case "yesterday":
		return midnight(now).AddDate(0, 0, -1), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", s, now.Location()); err == nil {
		return midnight(t), nil
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(value)); err == nil {
		return t, nil
	}

	if n, unit, ok := splitAge(s); ok {
		switch unit {
		case "m":
			return now.Add(-time.Duration(n) * time.Minute), nil
		case "h":
			return now.Add(-time.Duration(n) * time.Hour), nil
		case "d":
			return now.AddDate(0, 0, -n), nil
		case "w":
			return now.AddDate(0, 0, -7*n), nil
		case "mo":
			return now.AddDate(0, -n, 0), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time value %q (want a date, an RFC 3339 timestamp, or an age like \"2d ago\")", value)
}

// splitAge breaks "3d ago" into (3, "d"). The unit must be one of
// m, h, d, w, mo.
func splitAge(s string) (int, string, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(s, "ago"))
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil || n < 1 {
		return 0, "", false
	}
	switch unit := strings.TrimSpace(s[i:]); unit {
	case "m", "h", "d", "w", "mo":
		return n, unit, true
	default:
		return 0, "", false
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
