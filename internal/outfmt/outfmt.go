// Package outfmt decides how command output is rendered: a text table,
// pretty JSON, or newline-delimited JSON, optionally passed through a
// jq program or a Go template. The chosen options ride the context as
// one value so a command's helpers see a consistent set.
package outfmt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Mode selects the rendering for command output.
type Mode int

const (
	Text Mode = iota
	JSON
	JSONL
)

// Parse maps an --output flag value to a Mode.
func Parse(s string) (Mode, error) {
	switch s {
	case "text", "":
		return Text, nil
	case "json":
		return JSON, nil
	case "jsonl", "ndjson":
		return JSONL, nil
	}
	return Text, fmt.Errorf("invalid output format: %q (use 'text', 'json', 'jsonl', or 'ndjson')", s)
}

func (m Mode) String() string {
	switch m {
	case JSON:
		return "json"
	case JSONL:
		return "jsonl"
	default:
		return "text"
	}
}

// options collects every output preference for one command run.
type options struct {
	mode     Mode
	compact  bool
	query    string
	template string
}

type optionsKey struct{}

func fromContext(ctx context.Context) options {
	o, _ := ctx.Value(optionsKey{}).(options)
	return o
}

func (o options) store(ctx context.Context) context.Context {
	return context.WithValue(ctx, optionsKey{}, o)
}

// WithMode sets the rendering mode on ctx.
func WithMode(ctx context.Context, mode Mode) context.Context {
	o := fromContext(ctx)
	o.mode = mode
	return o.store(ctx)
}

// ModeFromContext returns the rendering mode, defaulting to Text.
func ModeFromContext(ctx context.Context) Mode {
	return fromContext(ctx).mode
}

// IsJSON reports whether ctx asks for structured output (json or jsonl).
func IsJSON(ctx context.Context) bool {
	mode := fromContext(ctx).mode
	return mode == JSON || mode == JSONL
}

// IsJSONL reports whether ctx asks for newline-delimited JSON.
func IsJSONL(ctx context.Context) bool {
	return fromContext(ctx).mode == JSONL
}

// WithCompact sets single-line JSON encoding on ctx.
func WithCompact(ctx context.Context, compact bool) context.Context {
	o := fromContext(ctx)
	o.compact = compact
	return o.store(ctx)
}

// IsCompact reports whether ctx asks for single-line JSON.
func IsCompact(ctx context.Context) bool {
	return fromContext(ctx).compact
}

func encode(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	return encode(w, v, false)
}

// WriteJSONMaybeCompact writes v as JSON, single-line when compact.
func WriteJSONMaybeCompact(w io.Writer, v any, compact bool) error {
	return encode(w, v, compact)
}
