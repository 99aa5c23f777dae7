package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newAPICmd() *cobra.Command {
	var method string
	var fields []string
	var rawFields []string
	var inputFile string
	var jsonBody string
	var includeHeaders bool

	cmd := &cobra.Command{
		Use:   "api <endpoint>",
		Short: "Make raw API requests to any Tixte endpoint",
		Long: `Make raw API requests to any Tixte endpoint.

This command provides direct access to any Tixte API endpoint, giving
scripts full flexibility to call APIs that may not have dedicated CLI
commands. The endpoint path is relative to the API base URL
(https://api.tixte.com/v1 by default).

The response body is printed verbatim; error responses are printed too
rather than mapped to CLI errors, so the exit code stays zero as long as
the request itself completed.`,
		Example: `  # GET request (default)
  tixte api /users/@me

  # PATCH with string fields
  tixte api /users/@me/config -X PATCH -f custom_css=.body{}

  # PATCH with a JSON-typed field
  tixte api /users/@me/config -X PATCH -F hide_branding=true

  # Inline JSON body
  tixte api /users/@me/domains -X PATCH --body '{"domain":"demo.tixte.co"}'

  # Read body from a file, or from stdin with -
  tixte api /users/@me/config -X PATCH -i body.json
  echo '{"hide_branding":true}' | tixte api /users/@me/config -X PATCH -i -

  # Filter the response with a jq expression
  tixte api /users/@me --output json -q '.data.username'

  # Silent mode (no output, useful for mutations)
  tixte api /users/@me/uploads/abc123 -X DELETE --silent

  # Show response status and headers
  tixte api /users/@me --include`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			endpoint := args[0]
			if !strings.HasPrefix(endpoint, "/") {
				endpoint = "/" + endpoint
			}
			out := cmd.OutOrStdout()

			validMethods := map[string]bool{
				"GET": true, "POST": true, "PUT": true, "PATCH": true, "DELETE": true,
			}
			method = strings.ToUpper(method)
			if !validMethods[method] {
				return fmt.Errorf("invalid HTTP method %q: must be one of GET, POST, PUT, PATCH, DELETE", method)
			}

			if jsonBody != "" && inputFile != "" {
				return fmt.Errorf("cannot use both --body and --input flags")
			}

			body, err := buildRequestBody(fields, rawFields, inputFile, jsonBody)
			if err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}

			respBody, headers, statusCode, err := client.DoRaw(cmdContext(cmd), method, endpoint, body)
			if err != nil {
				return err
			}

			if flags.Silent {
				return nil
			}

			if isJSON(cmd) {
				payload := apiJSONPayload(respBody, headers, statusCode, includeHeaders)
				return printJSON(cmd, payload)
			}

			if includeHeaders {
				_, _ = fmt.Fprintf(out, "HTTP %d\n", statusCode)
				keys := make([]string, 0, len(headers))
				for k := range headers {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					for _, v := range headers[k] {
						_, _ = fmt.Fprintf(out, "%s: %s\n", k, v)
					}
				}
				_, _ = fmt.Fprintln(out)
			}

			if len(respBody) > 0 {
				// Pretty print JSON if possible
				var jsonData any
				if err := json.Unmarshal(respBody, &jsonData); err == nil {
					prettyJSON, err := json.MarshalIndent(jsonData, "", "  ")
					if err == nil {
						_, _ = fmt.Fprintln(out, string(prettyJSON))
						return nil
					}
				}
				_, _ = fmt.Fprintln(out, string(respBody))
			}

			return nil
		}),
	}

	cmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method (GET, POST, PUT, PATCH, DELETE)")
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "Request body field as key=value (string)")
	cmd.Flags().StringArrayVarP(&rawFields, "raw-field", "F", nil, "Request body field as key=value (JSON parsed)")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Read request body from file (use - for stdin)")
	cmd.Flags().StringVar(&jsonBody, "body", "", "Request body as inline JSON string")
	cmd.Flags().BoolVar(&includeHeaders, "include", false, "Include response status and headers in output")
	flagAlias(cmd.Flags(), "include", "inc")

	return cmd
}

func apiJSONPayload(respBody []byte, headers map[string][]string, statusCode int, includeHeaders bool) any {
	body := apiJSONBody(respBody)
	if !includeHeaders {
		return body
	}
	return map[string]any{
		"status":  statusCode,
		"headers": headers,
		"body":    body,
	}
}

func apiJSONBody(respBody []byte) any {
	if len(respBody) == 0 {
		return nil
	}
	if !json.Valid(respBody) {
		return string(respBody)
	}
	pretty := &bytes.Buffer{}
	if err := json.Indent(pretty, respBody, "", "  "); err != nil {
		return json.RawMessage(respBody)
	}
	return json.RawMessage(pretty.Bytes())
}

// buildRequestBody constructs the request body from fields and/or input file/inline JSON
func buildRequestBody(fields, rawFields []string, inputFile, jsonBody string) (map[string]any, error) {
	body := make(map[string]any)

	// Parse inline JSON body first (can be overridden by fields)
	if jsonBody != "" {
		if err := json.Unmarshal([]byte(jsonBody), &body); err != nil {
			return nil, fmt.Errorf("failed to parse --body JSON: %w", err)
		}
	}

	if inputFile != "" {
		var inputData []byte
		var err error
		if inputFile == "-" {
			inputData, err = io.ReadAll(os.Stdin)
		} else {
			inputData, err = os.ReadFile(inputFile)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		if err := json.Unmarshal(inputData, &body); err != nil {
			return nil, fmt.Errorf("failed to parse input JSON: %w", err)
		}
	}

	for _, field := range fields {
		key, value, err := parseField(field)
		if err != nil {
			return nil, err
		}
		body[key] = value
	}

	for _, field := range rawFields {
		key, value, err := parseRawField(field)
		if err != nil {
			return nil, err
		}
		body[key] = value
	}

	if len(body) == 0 {
		return nil, nil
	}
	return body, nil
}

// parseField parses a key=value field where value is a string
func parseField(field string) (string, string, error) {
	key, value, ok := strings.Cut(field, "=")
	if !ok {
		return "", "", fmt.Errorf("invalid field format %q: must be key=value", field)
	}
	return key, value, nil
}

// parseRawField parses a key=value field where value is JSON
func parseRawField(field string) (string, any, error) {
	key, valueStr, ok := strings.Cut(field, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid raw field format %q: must be key=value", field)
	}
	var value any
	if err := json.Unmarshal([]byte(valueStr), &value); err != nil {
		return "", nil, fmt.Errorf("invalid JSON in raw field %q: %w", key, err)
	}
	return key, value, nil
}
