// Package debug wires the --debug flag through context and configures
// the process logger that request tracing hangs off.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type ctxKey struct{}

// WithDebug marks ctx so downstream request logging runs at debug level.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, ctxKey{}, enabled)
}

// IsEnabled reports whether WithDebug enabled tracing on ctx.
func IsEnabled(ctx context.Context) bool {
	enabled, _ := ctx.Value(ctxKey{}).(bool)
	return enabled
}

// SetupLogger installs the default slog handler on stderr. With debug
// on, the level drops to Debug so per-request traces become visible.
func SetupLogger(debugEnabled bool) {
	Configure(os.Stderr, debugEnabled)
}

// Configure installs a text handler writing to w. Split out from
// SetupLogger so tests can capture the log stream.
func Configure(w io.Writer, debugEnabled bool) {
	level := slog.LevelWarn
	if debugEnabled {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
