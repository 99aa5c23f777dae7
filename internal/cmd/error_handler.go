package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tixte/tixte-cli/internal/api"
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var apiErr *api.APIError
	var cfgErr *api.ConfigurationError

	switch {
	case errors.As(err, &cfgErr):
		fmt.Fprintf(&msg, "Configuration error: %s\n\n", cfgErr.Message)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the command arguments and flags\n")
		msg.WriteString("  - Run with --help to see expected usage\n")

	case errors.As(err, &apiErr):
		fmt.Fprintf(&msg, "API error (HTTP %d): %s\n\n", apiErr.StatusCode, apiErr.Message)
		msg.WriteString(suggestionsForStatusCode(apiErr.StatusCode))
		if apiErr.Code != "" {
			fmt.Fprintf(&msg, "\nError code: %s\n", apiErr.Code)
		}

	case strings.Contains(err.Error(), "connection refused"):
		msg.WriteString("Connection refused.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check your network connection\n")
		msg.WriteString("  - Verify the base URL: tixte auth status\n")

	case strings.Contains(err.Error(), "no such host"):
		msg.WriteString("DNS resolution failed.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the base URL spelling\n")
		msg.WriteString("  - Verify your DNS settings\n")

	case strings.Contains(err.Error(), "certificate"):
		msg.WriteString("TLS certificate error.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Verify the server's SSL certificate\n")
		msg.WriteString("  - Ensure you're using https:// correctly\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func suggestionsForStatusCode(code int) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	switch code {
	case 400:
		suggestions.WriteString("  - Check your request parameters\n")
		suggestions.WriteString("  - Use --debug to see the full request\n")

	case 401, 403:
		suggestions.WriteString("  - Your API key may be invalid or expired\n")
		suggestions.WriteString("  - Run: tixte auth login\n")

	case 402:
		suggestions.WriteString("  - This operation requires a Turbo subscription\n")
		suggestions.WriteString("  - Check your plan: tixte account billing\n")

	case 404:
		suggestions.WriteString("  - The asset or domain doesn't exist\n")
		suggestions.WriteString("  - Check the ID is correct\n")
		suggestions.WriteString("  - The resource may have been deleted\n")

	case 429:
		suggestions.WriteString("  - Too many requests\n")
		suggestions.WriteString("  - Wait and retry in a few seconds\n")

	case 500, 502, 503, 504:
		suggestions.WriteString("  - Server error - not your fault\n")
		suggestions.WriteString("  - Wait and retry\n")

	default:
		suggestions.WriteString("  - Use --debug for more details\n")
	}

	return suggestions.String()
}

// ExitWithError prints error with suggestions and exits
func ExitWithError(err error) {
	if err == nil {
		return
	}
	_, _ = fmt.Fprint(os.Stderr, HandleError(err))
	os.Exit(ExitCode(err))
}
