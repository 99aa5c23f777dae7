package outfmt

import (
	"encoding/json"
	"reflect"
)

// normalizeJSONOutput shapes list results for jq consumers: a bare
// slice becomes {"items": [...]}, with a nil slice printing as [] so
// `.items[]` always works. Byte payloads and everything else pass
// through untouched.
func normalizeJSONOutput(v any) any {
	switch v.(type) {
	case nil, []byte, json.RawMessage:
		return v
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return v
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		if rv.IsNil() {
			return map[string]any{"items": []any{}}
		}
		return map[string]any{"items": rv.Interface()}
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		return map[string]any{"items": rv.Interface()}
	default:
		return v
	}
}
