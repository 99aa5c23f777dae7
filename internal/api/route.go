package api

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultBaseURL is the production Tixte API endpoint.
const DefaultBaseURL = "https://api.tixte.com/v1"

var placeholderRegexp = regexp.MustCompile(`\{([^{}/]+)\}`)

// Route describes a single API call: an HTTP verb plus a path whose
// {placeholders} have already been resolved. Routes are pure data and
// perform no I/O; the dispatcher combines them with a base URL.
type Route struct {
	Method string
	Path   string
}

// NewRoute resolves a path template against the supplied parameters.
// Every {placeholder} in the template must have a value in params;
// a missing value is a caller error and returns *ConfigurationError
// before any network call can be attempted. Parameter values are
// path-escaped.
func NewRoute(method, template string, params map[string]string) (Route, error) {
	var missing []string
	path := placeholderRegexp.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		value, ok := params[name]
		if !ok || value == "" {
			missing = append(missing, name)
			return m
		}
		return url.PathEscape(value)
	})
	if len(missing) > 0 {
		return Route{}, &ConfigurationError{
			Message: fmt.Sprintf("route %s %s has unresolved parameters: %s",
				method, template, strings.Join(missing, ", ")),
		}
	}
	return Route{Method: method, Path: path}, nil
}

// URL joins the route path onto a base URL.
func (r Route) URL(base string) string {
	return strings.TrimSuffix(base, "/") + r.Path
}
