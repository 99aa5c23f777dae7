package api

import (
	"errors"
	"fmt"
)

// ErrorCode represents machine-readable error codes for scripted error
// handling (JSON output, exit-code mapping).
type ErrorCode string

const (
	// ErrBadRequest indicates a malformed request (HTTP 400).
	ErrBadRequest ErrorCode = "bad_request"
	// ErrForbidden indicates missing or rejected credentials (HTTP 401/403).
	ErrForbidden ErrorCode = "forbidden"
	// ErrPaymentRequired indicates the account tier does not allow the
	// operation (HTTP 402).
	ErrPaymentRequired ErrorCode = "payment_required"
	// ErrNotFound indicates the requested resource does not exist (HTTP 404).
	ErrNotFound ErrorCode = "not_found"
	// ErrRateLimited indicates too many requests (HTTP 429).
	ErrRateLimited ErrorCode = "rate_limited"
	// ErrServerError indicates an internal server error (HTTP 5xx).
	ErrServerError ErrorCode = "server_error"
	// ErrConfiguration indicates caller misuse caught before dispatch.
	ErrConfiguration ErrorCode = "configuration_error"
	// ErrUnknown indicates an unknown or unclassified error.
	ErrUnknown ErrorCode = "unknown"
)

// IsRetryable returns true if errors with this code may succeed on retry.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case ErrRateLimited, ErrServerError:
		return true
	default:
		return false
	}
}

// Suggestion returns a human-readable suggestion for resolving this error.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrForbidden:
		return "Run 'tixte auth login' with a valid API key"
	case ErrPaymentRequired:
		return "This operation requires a Turbo subscription"
	case ErrNotFound:
		return "Verify the asset ID or domain exists"
	case ErrRateLimited:
		return "Wait a moment and retry"
	case ErrServerError:
		return "The server encountered an error; try again later"
	case ErrConfiguration:
		return "Check the command arguments"
	default:
		return ""
	}
}

func errorCodeFromKind(kind ErrorKind, status int) ErrorCode {
	switch kind {
	case KindForbidden:
		return ErrForbidden
	case KindNotFound:
		return ErrNotFound
	case KindPaymentRequired:
		return ErrPaymentRequired
	case KindRateLimited:
		return ErrRateLimited
	case KindServerError:
		return ErrServerError
	default:
		if status == 400 {
			return ErrBadRequest
		}
		return ErrUnknown
	}
}

// StructuredError provides machine-readable error information for JSON
// error output.
type StructuredError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Retryable  bool      `json:"retryable"`
	Suggestion string    `json:"suggestion,omitempty"`
	Status     int       `json:"status,omitempty"`
}

func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewStructuredError creates a StructuredError from an ErrorCode and message.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:       code,
		Message:    message,
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
	}
}

// StructuredErrorFromError converts any error into a StructuredError, or
// returns nil for a nil error. Typed dispatcher errors keep their code;
// everything else maps to ErrUnknown.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var structured *StructuredError
	if errors.As(err, &structured) {
		return structured
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		out := NewStructuredError(errorCodeFromKind(apiErr.Kind, apiErr.StatusCode), apiErr.Error())
		out.Status = apiErr.StatusCode
		return out
	}

	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return NewStructuredError(ErrConfiguration, cfgErr.Message)
	}

	return NewStructuredError(ErrUnknown, err.Error())
}
