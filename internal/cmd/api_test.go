package cmd

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestBuildRequestBody(t *testing.T) {
	t.Run("empty returns nil", func(t *testing.T) {
		body, err := buildRequestBody(nil, nil, "", "")
		if err != nil {
			t.Fatalf("buildRequestBody failed: %v", err)
		}
		if body != nil {
			t.Errorf("body = %v, want nil", body)
		}
	})

	t.Run("inline JSON", func(t *testing.T) {
		body, err := buildRequestBody(nil, nil, "", `{"domain":"demo.tixte.co","custom":true}`)
		if err != nil {
			t.Fatalf("buildRequestBody failed: %v", err)
		}
		if body["domain"] != "demo.tixte.co" || body["custom"] != true {
			t.Errorf("body = %v", body)
		}
	})

	t.Run("fields override inline JSON", func(t *testing.T) {
		body, err := buildRequestBody([]string{"domain=other.tixte.co"}, nil, "", `{"domain":"demo.tixte.co"}`)
		if err != nil {
			t.Fatalf("buildRequestBody failed: %v", err)
		}
		if body["domain"] != "other.tixte.co" {
			t.Errorf("domain = %v, want other.tixte.co", body["domain"])
		}
	})

	t.Run("raw fields keep JSON types", func(t *testing.T) {
		body, err := buildRequestBody(nil, []string{"hide_branding=true", "size=42"}, "", "")
		if err != nil {
			t.Fatalf("buildRequestBody failed: %v", err)
		}
		if body["hide_branding"] != true {
			t.Errorf("hide_branding = %v (%T), want true", body["hide_branding"], body["hide_branding"])
		}
		if body["size"] != float64(42) {
			t.Errorf("size = %v (%T), want 42", body["size"], body["size"])
		}
	})

	t.Run("invalid inline JSON", func(t *testing.T) {
		if _, err := buildRequestBody(nil, nil, "", `{not json`); err == nil {
			t.Fatal("expected error for invalid --body JSON")
		}
	})

	t.Run("field without equals sign", func(t *testing.T) {
		if _, err := buildRequestBody([]string{"no-value"}, nil, "", ""); err == nil {
			t.Fatal("expected error for malformed field")
		}
	})

	t.Run("raw field with invalid JSON value", func(t *testing.T) {
		if _, err := buildRequestBody(nil, []string{"flag=notjson"}, "", ""); err == nil {
			t.Fatal("expected error for non-JSON raw field")
		}
	})
}

func TestAPICommand(t *testing.T) {
	t.Run("GET prints pretty JSON", func(t *testing.T) {
		handler := newRouteHandler().
			On("GET", "/users/@me", envelopeOK(`{"id":"u_1","username":"jess"}`))
		setupTestEnvWithHandler(t, handler)

		output := captureStdout(t, func() {
			if err := Execute(context.Background(), []string{"api", "/users/@me"}); err != nil {
				t.Fatalf("api command failed: %v", err)
			}
		})
		if !strings.Contains(output, `"username": "jess"`) {
			t.Errorf("output missing pretty-printed field:\n%s", output)
		}
	})

	t.Run("leading slash is optional", func(t *testing.T) {
		handler := newRouteHandler().
			On("GET", "/users/@me", envelopeOK(`{"id":"u_1"}`))
		setupTestEnvWithHandler(t, handler)

		output := captureStdout(t, func() {
			if err := Execute(context.Background(), []string{"api", "users/@me"}); err != nil {
				t.Fatalf("api command failed: %v", err)
			}
		})
		if !strings.Contains(output, `"u_1"`) {
			t.Errorf("output missing response body:\n%s", output)
		}
	})

	t.Run("PATCH sends the built body", func(t *testing.T) {
		var received map[string]any
		handler := newRouteHandler().
			On("PATCH", "/users/@me/config", func(w http.ResponseWriter, r *http.Request) {
				data, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(data, &received)
				envelopeOK(`{}`)(w, r)
			})
		setupTestEnvWithHandler(t, handler)

		captureStdout(t, func() {
			err := Execute(context.Background(), []string{
				"api", "/users/@me/config", "-X", "patch", "-F", "hide_branding=true", "-f", "custom_css=.body{}",
			})
			if err != nil {
				t.Fatalf("api command failed: %v", err)
			}
		})
		if received["hide_branding"] != true {
			t.Errorf("hide_branding = %v, want true", received["hide_branding"])
		}
		if received["custom_css"] != ".body{}" {
			t.Errorf("custom_css = %v", received["custom_css"])
		}
	})

	t.Run("error responses are printed not mapped", func(t *testing.T) {
		handler := newRouteHandler().
			On("GET", "/users/@me/uploads/missing", envelopeError(404, "not_found", "no such upload"))
		setupTestEnvWithHandler(t, handler)

		output := captureStdout(t, func() {
			if err := Execute(context.Background(), []string{"api", "/users/@me/uploads/missing"}); err != nil {
				t.Fatalf("api command failed: %v", err)
			}
		})
		if !strings.Contains(output, "no such upload") {
			t.Errorf("output missing error body:\n%s", output)
		}
	})

	t.Run("include prints status and headers", func(t *testing.T) {
		handler := newRouteHandler().
			On("GET", "/users/@me", envelopeOK(`{"id":"u_1"}`))
		setupTestEnvWithHandler(t, handler)

		output := captureStdout(t, func() {
			if err := Execute(context.Background(), []string{"api", "/users/@me", "--include"}); err != nil {
				t.Fatalf("api command failed: %v", err)
			}
		})
		if !strings.Contains(output, "HTTP 200") {
			t.Errorf("output missing status line:\n%s", output)
		}
		if !strings.Contains(output, "Content-Type: application/json") {
			t.Errorf("output missing headers:\n%s", output)
		}
	})

	t.Run("invalid method", func(t *testing.T) {
		setupTestEnv(t, envelopeOK(`{}`))

		err := Execute(context.Background(), []string{"api", "/users/@me", "-X", "TRACE"})
		if err == nil || !strings.Contains(err.Error(), "invalid HTTP method") {
			t.Fatalf("err = %v, want invalid method error", err)
		}
	})

	t.Run("body and input are mutually exclusive", func(t *testing.T) {
		setupTestEnv(t, envelopeOK(`{}`))

		err := Execute(context.Background(), []string{
			"api", "/users/@me", "-X", "POST", "--body", "{}", "-i", "body.json",
		})
		if err == nil || !strings.Contains(err.Error(), "cannot use both") {
			t.Fatalf("err = %v, want mutual exclusion error", err)
		}
	})
}

func TestAPIJSONPayload(t *testing.T) {
	headers := map[string][]string{"Content-Type": {"application/json"}}

	t.Run("body only", func(t *testing.T) {
		got := apiJSONPayload([]byte(`{"ok":true}`), headers, 200, false)
		raw, ok := got.(json.RawMessage)
		if !ok {
			t.Fatalf("payload type = %T, want json.RawMessage", got)
		}
		if !strings.Contains(string(raw), `"ok": true`) {
			t.Errorf("payload = %s", raw)
		}
	})

	t.Run("with headers", func(t *testing.T) {
		got, ok := apiJSONPayload([]byte(`{}`), headers, 201, true).(map[string]any)
		if !ok {
			t.Fatal("expected map payload with --include")
		}
		if got["status"] != 201 {
			t.Errorf("status = %v, want 201", got["status"])
		}
	})

	t.Run("non-JSON body passes through as string", func(t *testing.T) {
		got := apiJSONBody([]byte("plain text"))
		if got != "plain text" {
			t.Errorf("body = %v, want raw string", got)
		}
	})

	t.Run("empty body is nil", func(t *testing.T) {
		if got := apiJSONBody(nil); got != nil {
			t.Errorf("body = %v, want nil", got)
		}
	})
}
