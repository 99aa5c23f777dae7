package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/spf13/pflag"

	"github.com/tixte/tixte-cli/internal/api"
)

func TestExitCode(t *testing.T) {
	apiErr := func(status int, kind api.ErrorKind) error {
		return &api.APIError{StatusCode: status, Kind: kind, Message: "boom"}
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, exitOK},
		{"help request", pflag.ErrHelp, exitOK},
		{"generic error", errors.New("something broke"), exitGeneric},
		{"unauthorized", apiErr(401, api.KindForbidden), exitForbidden},
		{"forbidden", apiErr(403, api.KindForbidden), exitForbidden},
		{"not found", apiErr(404, api.KindNotFound), exitNotFound},
		{"payment required", apiErr(402, api.KindPaymentRequired), exitPayment},
		{"rate limited", apiErr(429, api.KindRateLimited), exitRateLimited},
		{"server error", apiErr(500, api.KindServerError), exitServer},
		{"bad gateway", apiErr(502, api.KindServerError), exitServer},
		{"bad request", apiErr(400, api.KindGeneric), exitUsage},
		{"configuration error", &api.ConfigurationError{Message: "bad route"}, exitUsage},
		{"unknown flag", errors.New(`unknown flag: --frobnicate`), exitUsage},
		{"deadline", context.DeadlineExceeded, exitNetwork},
		{"dns failure", &net.DNSError{Err: "no such host", Name: "api.example.com"}, exitNetwork},
		{"wrapped api error", fmt.Errorf("request failed: %w", apiErr(404, api.KindNotFound)), exitNotFound},
		{"handled error keeps its code", &handledError{err: errors.New("x"), exitCode: exitServer}, exitServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeFromStructured(t *testing.T) {
	tests := []struct {
		code api.ErrorCode
		want int
	}{
		{api.ErrForbidden, exitForbidden},
		{api.ErrNotFound, exitNotFound},
		{api.ErrPaymentRequired, exitPayment},
		{api.ErrRateLimited, exitRateLimited},
		{api.ErrServerError, exitServer},
		{api.ErrBadRequest, exitUsage},
		{api.ErrConfiguration, exitUsage},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := api.NewStructuredError(tt.code, "x")
			if got := ExitCode(err); got != tt.want {
				t.Errorf("ExitCode(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestIsNetworkError(t *testing.T) {
	if !isNetworkError(errors.New("dial tcp 127.0.0.1:9: connection refused")) {
		t.Error("connection refused not classified as network error")
	}
	if !isNetworkError(context.Canceled) {
		t.Error("context cancellation not classified as network error")
	}
	if isNetworkError(errors.New("upload xyz not found")) {
		t.Error("plain error misclassified as network error")
	}
}
