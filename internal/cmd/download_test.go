package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDownload(t *testing.T) {
	t.Run("direct URL to stdout", func(t *testing.T) {
		handler := newRouteHandler().
			On("GET", "/photo.png", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("png-bytes"))
			})
		env := setupTestEnvWithHandler(t, handler)

		output := captureStdout(t, func() {
			err := Execute(context.Background(), []string{"download", env.server.URL + "/photo.png", "-O", "-"})
			if err != nil {
				t.Fatalf("download failed: %v", err)
			}
		})

		if output != "png-bytes" {
			t.Errorf("stdout = %q, want raw content", output)
		}
	})

	t.Run("resolves a name and writes a file", func(t *testing.T) {
		var env *testEnv
		handler := newRouteHandler().
			On("GET", "/users/@me/uploads", func(w http.ResponseWriter, r *http.Request) {
				body := fmt.Sprintf(`{
					"total": 1,
					"uploads": [{
						"asset_id": "a1",
						"name": "vacation-photo",
						"extension": "png",
						"domain": "files.example.com",
						"direct_url": "%s/files/vacation-photo.png"
					}]
				}`, env.server.URL)
				envelopeOK(body)(w, r)
			}).
			On("GET", "/files/vacation-photo.png", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("png-bytes"))
			})
		env = setupTestEnvWithHandler(t, handler)

		dir := t.TempDir()
		dest := filepath.Join(dir, "photo.png")

		output := captureStdout(t, func() {
			err := Execute(context.Background(), []string{"download", "vacation", "-O", dest})
			if err != nil {
				t.Fatalf("download failed: %v", err)
			}
		})

		content, err := os.ReadFile(dest)
		if err != nil {
			t.Fatalf("downloaded file missing: %v", err)
		}
		if string(content) != "png-bytes" {
			t.Errorf("file content = %q", content)
		}
		if !strings.Contains(output, "Downloaded") {
			t.Errorf("output = %q", output)
		}
	})

	t.Run("json output reports path and size", func(t *testing.T) {
		handler := newRouteHandler().
			On("GET", "/photo.png", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("png-bytes"))
			})
		env := setupTestEnvWithHandler(t, handler)

		dest := filepath.Join(t.TempDir(), "photo.png")

		output := captureStdout(t, func() {
			err := Execute(context.Background(), []string{"download", env.server.URL + "/photo.png", "-O", dest, "-o", "json"})
			if err != nil {
				t.Fatalf("download failed: %v", err)
			}
		})

		var payload struct {
			Path  string `json:"path"`
			Bytes int    `json:"bytes"`
		}
		if err := json.Unmarshal([]byte(output), &payload); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, output)
		}
		if payload.Path != dest || payload.Bytes != len("png-bytes") {
			t.Errorf("payload = %+v", payload)
		}
	})

	t.Run("fetch failure surfaces the status", func(t *testing.T) {
		env := setupTestEnvWithHandler(t, newRouteHandler())

		err := Execute(context.Background(), []string{"download", env.server.URL + "/gone.png", "-O", "-"})
		if err == nil {
			t.Fatal("expected error for missing remote file")
		}
		if !strings.Contains(err.Error(), "failed to fetch") {
			t.Errorf("error = %q", err)
		}
	})

	t.Run("unknown reference", func(t *testing.T) {
		handler := newRouteHandler().
			On("GET", "/users/@me/uploads", envelopeOK(`{"total":0,"uploads":[]}`))
		setupTestEnvWithHandler(t, handler)

		err := Execute(context.Background(), []string{"download", "no-such-upload"})
		if err == nil {
			t.Fatal("expected resolution error")
		}
	})
}

func TestStatusCommand(t *testing.T) {
	meWithRateLimit := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "100")
		w.Header().Set("X-RateLimit-Remaining", "97")
		envelopeOK(`{"id":"u_1","username":"jess"}`)(w, r)
	}

	t.Run("text output", func(t *testing.T) {
		handler := newRouteHandler().
			On("GET", "/users/@me", meWithRateLimit)
		env := setupTestEnvWithHandler(t, handler)

		output := captureStdout(t, func() {
			if err := Execute(context.Background(), []string{"status"}); err != nil {
				t.Fatalf("status failed: %v", err)
			}
		})

		if !strings.Contains(output, env.server.URL) {
			t.Errorf("output missing base URL:\n%s", output)
		}
		if !strings.Contains(output, "jess") {
			t.Errorf("output missing username:\n%s", output)
		}
		if !strings.Contains(output, "97/100 remaining") {
			t.Errorf("output missing rate limit:\n%s", output)
		}
	})

	t.Run("json output", func(t *testing.T) {
		handler := newRouteHandler().
			On("GET", "/users/@me", meWithRateLimit)
		setupTestEnvWithHandler(t, handler)

		output := captureStdout(t, func() {
			if err := Execute(context.Background(), []string{"status", "-o", "json"}); err != nil {
				t.Fatalf("status failed: %v", err)
			}
		})

		var payload struct {
			OK        bool   `json:"ok"`
			Username  string `json:"username"`
			RateLimit struct {
				Limit     int `json:"limit"`
				Remaining int `json:"remaining"`
			} `json:"rate_limit"`
		}
		if err := json.Unmarshal([]byte(output), &payload); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, output)
		}
		if !payload.OK || payload.Username != "jess" {
			t.Errorf("payload = %+v", payload)
		}
		if payload.RateLimit.Limit != 100 || payload.RateLimit.Remaining != 97 {
			t.Errorf("rate limit = %+v", payload.RateLimit)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		handler := newRouteHandler().
			On("GET", "/users/@me", envelopeError(401, "unauthorized", "Invalid API key"))
		setupTestEnvWithHandler(t, handler)

		err := Execute(context.Background(), []string{"status"})
		if err == nil {
			t.Fatal("expected error for rejected credentials")
		}
	})
}
