package cli

import (
	"testing"
	"time"
)

func TestParseTimeRef(t *testing.T) {
	now := time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"minutes ago", "45m ago", now.Add(-45 * time.Minute)},
		{"hours ago", "6h ago", now.Add(-6 * time.Hour)},
		{"days ago", "3d ago", now.AddDate(0, 0, -3)},
		{"bare age counts backwards", "2w", now.AddDate(0, 0, -14)},
		{"months ago", "1mo ago", now.AddDate(0, -1, 0)},
		{"now", "now", now},
		{"today", "today", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"yesterday", "yesterday", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"calendar date", "2026-03-01", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"rfc3339", "2026-03-01T12:00:00Z", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		{"surrounding whitespace", "  3d ago  ", now.AddDate(0, 0, -3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeRef(tt.input, now)
			if err != nil {
				t.Fatalf("ParseTimeRef(%q): %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("ParseTimeRef(%q) = %s, want %s", tt.input, got.Format(time.RFC3339), tt.want.Format(time.RFC3339))
			}
		})
	}
}

func TestParseTimeRef_Invalid(t *testing.T) {
	now := time.Now()
	for _, input := range []string{"", "whenever", "0d ago", "-2h ago", "5x ago", "ago", "12"} {
		if _, err := ParseTimeRef(input, now); err == nil {
			t.Errorf("ParseTimeRef(%q): expected error", input)
		}
	}
}

func TestSplitAge(t *testing.T) {
	tests := []struct {
		input string
		n     int
		unit  string
		ok    bool
	}{
		{"3d", 3, "d", true},
		{"3d ago", 3, "d", true},
		{"45m", 45, "m", true},
		{"1mo", 1, "mo", true},
		{"d", 0, "", false},
		{"3", 0, "", false},
		{"3y", 0, "", false},
	}
	for _, tt := range tests {
		n, unit, ok := splitAge(tt.input)
		if n != tt.n || unit != tt.unit || ok != tt.ok {
			t.Errorf("splitAge(%q) = (%d, %q, %v), want (%d, %q, %v)", tt.input, n, unit, ok, tt.n, tt.unit, tt.ok)
		}
	}
}
