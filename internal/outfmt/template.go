package outfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"
)

// WithTemplate sets a Go text/template string on ctx.
func WithTemplate(ctx context.Context, tmpl string) context.Context {
	o := fromContext(ctx)
	o.template = tmpl
	return o.store(ctx)
}

// GetTemplate returns the template string set on ctx, if any.
func GetTemplate(ctx context.Context) string {
	return fromContext(ctx).template
}

// WriteTemplate renders v through a Go text/template. Missing keys
// render as zero values, and a "json" helper is available for dumping
// nested values.
func WriteTemplate(w io.Writer, v any, text string) error {
	tmpl := template.New("output").Option("missingkey=zero").Funcs(template.FuncMap{
		"json": dumpJSON,
	})
	tmpl, err := tmpl.Parse(text)
	if err != nil {
		return templateError("invalid template", err)
	}
	if err := tmpl.Execute(w, v); err != nil {
		return templateError("template execution error", err)
	}
	return nil
}

func dumpJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// templateError spells out text/template's terse ":line:col:" location
// prefix when one is present in the error text.
func templateError(kind string, err error) error {
	if line, col, ok := templateLocation(err.Error()); ok {
		return fmt.Errorf("%s at line %s, column %s: %s", kind, line, col, err.Error())
	}
	return fmt.Errorf("%s: %w", kind, err)
}

func templateLocation(msg string) (line, col string, ok bool) {
	rest := msg
	for {
		i := strings.Index(rest, ":")
		if i < 0 {
			return "", "", false
		}
		rest = rest[i+1:]
		line, remainder, found := cutDigits(rest)
		if !found || !strings.HasPrefix(remainder, ":") {
			continue
		}
		col, remainder, found = cutDigits(remainder[1:])
		if found && strings.HasPrefix(remainder, ":") {
			return line, col, true
		}
	}
}

// cutDigits splits a leading run of digits off s.
func cutDigits(s string) (digits, rest string, ok bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return "", s, false
	}
	return s[:i], s[i:], true
}
