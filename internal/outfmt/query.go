package outfmt

import (
	"context"
	"encoding/json"
	"io"

	"github.com/tixte/tixte-cli/internal/filter"
)

// WithQuery sets a jq program on ctx.
func WithQuery(ctx context.Context, query string) context.Context {
	o := fromContext(ctx)
	o.query = query
	return o.store(ctx)
}

// GetQuery returns the jq program set on ctx, if any.
func GetQuery(ctx context.Context) string {
	return fromContext(ctx).query
}

// WriteJSONFiltered writes v as JSON, first shaping list results and
// then running the jq program over them when one is given.
func WriteJSONFiltered(w io.Writer, v any, query string, compact bool) error {
	v = normalizeJSONOutput(v)
	if query == "" {
		return encode(w, v, compact)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	result, err := filter.ApplyFromJSON(data, query)
	if err != nil {
		return err
	}
	return encode(w, result, compact)
}

// ApplyQuery runs the jq program over v and returns the filtered value
// as generic JSON types. An empty program returns v unchanged.
func ApplyQuery(v any, query string) (any, error) {
	v = normalizeJSONOutput(v)
	if query == "" {
		return v, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	filtered, err := filter.ApplyToJSON(data, query)
	if err != nil {
		return nil, err
	}

	var out any
	if err := json.Unmarshal(filtered, &out); err != nil {
		return nil, err
	}
	return out, nil
}
