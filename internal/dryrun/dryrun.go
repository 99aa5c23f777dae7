// Package dryrun lets mutating commands preview what they would do
// instead of doing it. The flag travels by context so command helpers
// can check it without plumbing.
package dryrun

import (
	"context"
	"fmt"
	"io"
	"sort"
)

type ctxKey struct{}

// WithDryRun returns a context carrying the dry-run flag.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, ctxKey{}, enabled)
}

// IsEnabled reports whether the context carries an enabled dry-run flag.
func IsEnabled(ctx context.Context) bool {
	enabled, _ := ctx.Value(ctxKey{}).(bool)
	return enabled
}

// Preview describes one mutation that was skipped: what would have been
// sent, against which resource, and anything the user should know
// before re-running without --dry-run.
type Preview struct {
	Operation   string
	Resource    string
	Description string
	Details     map[string]any
	Warnings    []string
}

const rule = "───────────────────────────────────────"

// Write renders the preview. Detail keys print in sorted order so the
// output is stable across runs.
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "\n[DRY-RUN] Would %s %s\n%s\n", p.Operation, p.Resource, rule)

	if p.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", p.Description)
	}

	if len(p.Details) > 0 {
		keys := make([]string, 0, len(p.Details))
		for k := range p.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "  %s: %v\n", k, p.Details[k])
		}
		_, _ = fmt.Fprintln(w)
	}

	for i, warning := range p.Warnings {
		if i == 0 {
			_, _ = fmt.Fprintln(w, "Warnings:")
		}
		_, _ = fmt.Fprintf(w, "  ! %s\n", warning)
		if i == len(p.Warnings)-1 {
			_, _ = fmt.Fprintln(w)
		}
	}

	_, _ = fmt.Fprintf(w, "%s\nNo changes made (dry-run mode)\n", rule)
}
