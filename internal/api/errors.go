package api

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind tags the variant of an APIError. The dispatcher maps HTTP
// status codes onto kinds; callers switch on the kind (or use the IsX
// helpers) instead of matching raw status codes.
type ErrorKind int

const (
	// KindGeneric covers non-2xx statuses with no dedicated variant.
	KindGeneric ErrorKind = iota
	// KindForbidden covers 401 and 403 responses.
	KindForbidden
	// KindNotFound covers 404 responses.
	KindNotFound
	// KindPaymentRequired covers 402 responses (operation needs a higher
	// billing tier).
	KindPaymentRequired
	// KindRateLimited covers 429 responses. The dispatcher never retries;
	// RetryAfter is surfaced for the caller to act on.
	KindRateLimited
	// KindServerError covers all 5xx responses.
	KindServerError
)

func (k ErrorKind) String() string {
	switch k {
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindPaymentRequired:
		return "payment required"
	case KindRateLimited:
		return "rate limited"
	case KindServerError:
		return "server error"
	default:
		return "http error"
	}
}

func kindFromStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindForbidden
	case status == 404:
		return KindNotFound
	case status == 402:
		return KindPaymentRequired
	case status == 429:
		return KindRateLimited
	case status >= 500:
		return KindServerError
	default:
		return KindGeneric
	}
}

// APIError is the single error type for every failed dispatch. Code and
// Message come from the response envelope's error object when present.
type APIError struct {
	StatusCode int
	Kind       ErrorKind
	Code       string
	Message    string
	RetryAfter time.Duration // populated for rate-limited responses
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Code != "" {
		return fmt.Sprintf("API error (status %d, %s): %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, msg)
}

// ConfigurationError indicates caller misuse detected before any network
// call: an unresolved route placeholder, a missing credential, an
// unserializable body.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

func errKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// IsForbidden reports whether err is an APIError for a 401/403 response.
func IsForbidden(err error) bool { return errKind(err, KindForbidden) }

// IsNotFound reports whether err is an APIError for a 404 response.
func IsNotFound(err error) bool { return errKind(err, KindNotFound) }

// IsPaymentRequired reports whether err is an APIError for a 402 response.
func IsPaymentRequired(err error) bool { return errKind(err, KindPaymentRequired) }

// IsRateLimited reports whether err is an APIError for a 429 response.
func IsRateLimited(err error) bool { return errKind(err, KindRateLimited) }

// IsServerError reports whether err is an APIError for a 5xx response.
func IsServerError(err error) bool { return errKind(err, KindServerError) }

// IsConfigurationError reports whether err is a pre-dispatch caller error.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
