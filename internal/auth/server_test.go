package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/99designs/keyring"

	"github.com/tixte/tixte-cli/internal/config"
)

func TestNewSetupServer(t *testing.T) {
	t.Run("creates server with valid CSRF token", func(t *testing.T) {
		server, err := NewSetupServer("default")
		if err != nil {
			t.Fatalf("NewSetupServer() error = %v", err)
		}

		if server == nil {
			t.Fatal("NewSetupServer() returned nil server")
		}

		if server.csrfToken == "" {
			t.Error("NewSetupServer() created server with empty CSRF token")
		}

		// CSRF token should be 64 hex characters (32 bytes)
		if len(server.csrfToken) != 64 {
			t.Errorf("NewSetupServer() CSRF token length = %d, want 64", len(server.csrfToken))
		}

		if server.profile != "default" {
			t.Errorf("NewSetupServer() profile = %q, want %q", server.profile, "default")
		}

		if server.result == nil {
			t.Error("NewSetupServer() result channel is nil")
		}

		if server.shutdown == nil {
			t.Error("NewSetupServer() shutdown channel is nil")
		}
	})

	t.Run("creates unique CSRF tokens", func(t *testing.T) {
		server1, err := NewSetupServer("profile1")
		if err != nil {
			t.Fatalf("NewSetupServer() error = %v", err)
		}

		server2, err := NewSetupServer("profile2")
		if err != nil {
			t.Fatalf("NewSetupServer() error = %v", err)
		}

		if server1.csrfToken == server2.csrfToken {
			t.Error("NewSetupServer() created duplicate CSRF tokens")
		}
	})

	t.Run("accepts different profile names", func(t *testing.T) {
		profiles := []string{"default", "production", "staging", "test-profile", ""}
		for _, profile := range profiles {
			server, err := NewSetupServer(profile)
			if err != nil {
				t.Errorf("NewSetupServer(%q) error = %v", profile, err)
				continue
			}
			if server.profile != profile {
				t.Errorf("NewSetupServer(%q) profile = %q", profile, server.profile)
			}
		}
	})
}

func TestHandleSetup(t *testing.T) {
	server, err := NewSetupServer("default")
	if err != nil {
		t.Fatalf("NewSetupServer() error = %v", err)
	}

	t.Run("serves setup page with CSRF token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		server.handleSetup(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("handleSetup() status = %d, want %d", rec.Code, http.StatusOK)
		}

		body := rec.Body.String()
		if !strings.Contains(body, server.csrfToken) {
			t.Error("handleSetup() page does not embed the CSRF token")
		}
		if !strings.Contains(body, "Connect to Tixte") {
			t.Error("handleSetup() page missing heading")
		}
		if !strings.Contains(body, "apiKey") {
			t.Error("handleSetup() page missing API key field")
		}
		if !strings.Contains(body, "domain") {
			t.Error("handleSetup() page missing domain field")
		}
	})

	t.Run("returns 404 for other paths", func(t *testing.T) {
		for _, path := range []string{"/setup", "/index.html", "/foo"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()

			server.handleSetup(rec, req)

			if rec.Code != http.StatusNotFound {
				t.Errorf("handleSetup(%q) status = %d, want %d", path, rec.Code, http.StatusNotFound)
			}
		}
	})
}

// fakeAPIServer returns an envelope-speaking test server and points
// TIXTE_BASE_URL at it for the duration of the test.
func fakeAPIServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	t.Setenv("TIXTE_BASE_URL", ts.URL)
	return ts
}

func meHandler(t *testing.T, wantKey string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/@me" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != wantKey {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":"unauthorized","message":"invalid key"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"u_1","username":"jess","email":"jess@example.com"}}`))
	}
}

func TestHandleValidate(t *testing.T) {
	t.Run("rejects non-POST methods", func(t *testing.T) {
		server, _ := NewSetupServer("default")
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			req := httptest.NewRequest(method, "/validate", nil)
			rec := httptest.NewRecorder()

			server.handleValidate(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("handleValidate() with %s status = %d, want %d", method, rec.Code, http.StatusMethodNotAllowed)
			}
		}
	})

	t.Run("rejects requests without CSRF token", func(t *testing.T) {
		server, _ := NewSetupServer("default")
		body := `{"api_key":"tx.secret-key","domain":"files.example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		server.handleValidate(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("handleValidate() without CSRF status = %d, want %d", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("rejects requests with wrong CSRF token", func(t *testing.T) {
		server, _ := NewSetupServer("default")
		body := `{"api_key":"tx.secret-key","domain":"files.example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-CSRF-Token", "wrong-token")
		rec := httptest.NewRecorder()

		server.handleValidate(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("handleValidate() with wrong CSRF status = %d, want %d", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("rejects invalid JSON body", func(t *testing.T) {
		server, _ := NewSetupServer("default")
		req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader("not json"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-CSRF-Token", server.csrfToken)
		rec := httptest.NewRecorder()

		server.handleValidate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("handleValidate() with invalid JSON status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects malformed credentials before any network call", func(t *testing.T) {
		server, _ := NewSetupServer("default")
		cases := []struct {
			name string
			body string
		}{
			{"empty key", `{"api_key":""}`},
			{"short key", `{"api_key":"abc"}`},
			{"key with spaces", `{"api_key":"secret key value"}`},
			{"bad domain", `{"api_key":"tx.secret-key","domain":"-bad-.example.com"}`},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(tc.body))
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set("X-CSRF-Token", server.csrfToken)
				rec := httptest.NewRecorder()

				server.handleValidate(rec, req)

				var response map[string]any
				if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if response["success"] != false {
					t.Errorf("handleValidate() success = %v, want false", response["success"])
				}
				if response["error"] == "" {
					t.Error("handleValidate() should explain the rejection")
				}
			})
		}
	})

	t.Run("reports user details on success", func(t *testing.T) {
		fakeAPIServer(t, meHandler(t, "tx.secret-key"))

		server, _ := NewSetupServer("default")
		body := `{"api_key":"tx.secret-key","domain":"files.example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-CSRF-Token", server.csrfToken)
		rec := httptest.NewRecorder()

		server.handleValidate(rec, req)

		var response map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if response["success"] != true {
			t.Fatalf("handleValidate() success = %v, response %v", response["success"], response)
		}
		if response["user_name"] != "jess" {
			t.Errorf("handleValidate() user_name = %v, want jess", response["user_name"])
		}
		if response["user_email"] != "jess@example.com" {
			t.Errorf("handleValidate() user_email = %v", response["user_email"])
		}
	})

	t.Run("reports connection failure for bad key", func(t *testing.T) {
		fakeAPIServer(t, meHandler(t, "tx.secret-key"))

		server, _ := NewSetupServer("default")
		body := `{"api_key":"tx.wrong-key"}`
		req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-CSRF-Token", server.csrfToken)
		rec := httptest.NewRecorder()

		server.handleValidate(rec, req)

		var response map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if response["success"] != false {
			t.Error("handleValidate() with rejected key should return success=false")
		}
		errMsg, _ := response["error"].(string)
		if !strings.Contains(errMsg, "Connection failed") {
			t.Errorf("handleValidate() error = %q, want connection failure", errMsg)
		}
	})
}

func TestHandleSubmit(t *testing.T) {
	t.Run("rejects non-POST methods", func(t *testing.T) {
		server, _ := NewSetupServer("default")
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			req := httptest.NewRequest(method, "/submit", nil)
			rec := httptest.NewRecorder()

			server.handleSubmit(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("handleSubmit() with %s status = %d, want %d", method, rec.Code, http.StatusMethodNotAllowed)
			}
		}
	})

	t.Run("rejects requests without CSRF token", func(t *testing.T) {
		server, _ := NewSetupServer("default")
		body := `{"api_key":"tx.secret-key"}`
		req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		server.handleSubmit(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("handleSubmit() without CSRF status = %d, want %d", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("rejects invalid JSON body", func(t *testing.T) {
		server, _ := NewSetupServer("default")
		req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader("not json"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-CSRF-Token", server.csrfToken)
		rec := httptest.NewRecorder()

		server.handleSubmit(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("handleSubmit() with invalid JSON status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("saves profile and records pending result", func(t *testing.T) {
		restore := config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
			return keyring.NewArrayKeyring(nil), nil
		})
		t.Cleanup(restore)

		fakeAPIServer(t, meHandler(t, "tx.secret-key"))

		server, _ := NewSetupServer("submit-test")
		body := `{"api_key":"tx.secret-key","domain":"files.example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-CSRF-Token", server.csrfToken)
		rec := httptest.NewRecorder()

		server.handleSubmit(rec, req)

		var response map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if response["success"] != true {
			t.Fatalf("handleSubmit() success = %v, response %v", response["success"], response)
		}

		if server.pendingResult == nil {
			t.Fatal("handleSubmit() did not record a pending result")
		}
		if server.pendingResult.Username != "jess" {
			t.Errorf("pending result username = %q, want jess", server.pendingResult.Username)
		}
		if server.pendingResult.Account.APIKey != "tx.secret-key" {
			t.Errorf("pending result api key = %q", server.pendingResult.Account.APIKey)
		}
		if server.pendingResult.Account.Domain != "files.example.com" {
			t.Errorf("pending result domain = %q", server.pendingResult.Account.Domain)
		}
	})

	t.Run("does not save when verification fails", func(t *testing.T) {
		fakeAPIServer(t, meHandler(t, "tx.secret-key"))

		server, _ := NewSetupServer("default")
		body := `{"api_key":"tx.wrong-key"}`
		req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-CSRF-Token", server.csrfToken)
		rec := httptest.NewRecorder()

		server.handleSubmit(rec, req)

		var response map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if response["success"] != false {
			t.Error("handleSubmit() with rejected key should return success=false")
		}
		if server.pendingResult != nil {
			t.Error("handleSubmit() recorded a result for failed verification")
		}
	})
}

func TestHandleSuccess(t *testing.T) {
	server, _ := NewSetupServer("default")

	t.Run("serves success page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/success?name=jess", nil)
		rec := httptest.NewRecorder()

		server.handleSuccess(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("handleSuccess() status = %d, want %d", rec.Code, http.StatusOK)
		}

		body := rec.Body.String()
		if !strings.Contains(body, "jess") {
			t.Error("handleSuccess() page missing user name")
		}
		if !strings.Contains(body, "/complete") {
			t.Error("handleSuccess() page missing completion ping")
		}
	})

	t.Run("escapes user-supplied name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/success?name="+
			"%3Cscript%3Ealert(1)%3C/script%3E", nil)
		rec := httptest.NewRecorder()

		server.handleSuccess(rec, req)

		if strings.Contains(rec.Body.String(), "<script>alert(1)</script>") {
			t.Error("handleSuccess() did not escape the name parameter")
		}
	})
}

func TestHandleComplete(t *testing.T) {
	t.Run("delivers pending result and closes shutdown channel", func(t *testing.T) {
		server, _ := NewSetupServer("default")
		server.pendingResult = &SetupResult{
			Account:  config.Account{APIKey: "tx.secret-key"},
			Username: "jess",
		}

		req := httptest.NewRequest(http.MethodPost, "/complete", nil)
		rec := httptest.NewRecorder()

		server.handleComplete(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("handleComplete() status = %d, want %d", rec.Code, http.StatusOK)
		}

		select {
		case result := <-server.result:
			if result.Username != "jess" {
				t.Errorf("result username = %q, want jess", result.Username)
			}
		default:
			t.Error("handleComplete() did not deliver the pending result")
		}

		select {
		case <-server.shutdown:
		default:
			t.Error("handleComplete() did not close the shutdown channel")
		}
	})

	t.Run("closes shutdown channel without a pending result", func(t *testing.T) {
		server, _ := NewSetupServer("default")

		req := httptest.NewRequest(http.MethodPost, "/complete", nil)
		rec := httptest.NewRecorder()

		server.handleComplete(rec, req)

		select {
		case <-server.shutdown:
		default:
			t.Error("handleComplete() did not close the shutdown channel")
		}
	})
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusTeapot, map[string]any{"success": true})

	if rec.Code != http.StatusTeapot {
		t.Errorf("writeJSON() status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("writeJSON() content type = %q", ct)
	}

	var decoded map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["success"] != true {
		t.Errorf("writeJSON() body = %v", decoded)
	}
}

func TestSetupServerIntegration(t *testing.T) {
	t.Run("full HTTP handler setup", func(t *testing.T) {
		server, err := NewSetupServer("test-profile")
		if err != nil {
			t.Fatalf("NewSetupServer() error = %v", err)
		}

		mux := http.NewServeMux()
		mux.HandleFunc("/", server.handleSetup)
		mux.HandleFunc("/validate", server.handleValidate)
		mux.HandleFunc("/submit", server.handleSubmit)
		mux.HandleFunc("/success", server.handleSuccess)
		mux.HandleFunc("/complete", server.handleComplete)

		ts := httptest.NewServer(mux)
		defer ts.Close()

		resp, err := http.Get(ts.URL + "/")
		if err != nil {
			t.Fatalf("GET / error: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET / status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		_ = resp.Body.Close()

		body := bytes.NewBufferString(`{"api_key":"short"}`)
		req, _ := http.NewRequest(http.MethodPost, ts.URL+"/validate", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-CSRF-Token", server.csrfToken)

		resp, err = http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("POST /validate error: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("POST /validate status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		_ = resp.Body.Close()

		resp, err = http.Get(ts.URL + "/success")
		if err != nil {
			t.Fatalf("GET /success error: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET /success status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		_ = resp.Body.Close()
	})
}

func TestStartContextCancellation(t *testing.T) {
	server, err := NewSetupServer("default")
	if err != nil {
		t.Fatalf("NewSetupServer() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	var result *SetupResult
	var startErr error

	go func() {
		result, startErr = server.Start(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
		if startErr != context.Canceled {
			t.Errorf("Start() error = %v, want context.Canceled", startErr)
		}
		if result != nil {
			t.Error("Start() returned non-nil result after cancellation")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not respect context cancellation")
	}
}

func TestStartDeliversResult(t *testing.T) {
	server, err := NewSetupServer("lifecycle-test")
	if err != nil {
		t.Fatalf("NewSetupServer() error = %v", err)
	}

	done := make(chan struct{})
	var result *SetupResult
	var startErr error

	go func() {
		result, startErr = server.Start(context.Background())
		close(done)
	}()

	// Give the listener a moment, then push a result the way
	// handleComplete would.
	time.Sleep(100 * time.Millisecond)
	server.result <- SetupResult{
		Account:  config.Account{APIKey: "tx.secret-key", Domain: "files.example.com"},
		Username: "jess",
	}

	select {
	case <-done:
		if startErr != nil {
			t.Fatalf("Start() error = %v", startErr)
		}
		if result == nil {
			t.Fatal("Start() returned nil result")
		}
		if result.Username != "jess" {
			t.Errorf("result username = %q, want jess", result.Username)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after a result was delivered")
	}
}

func TestShouldSkipAutoBrowserOpen(t *testing.T) {
	// Under go test the flag package always has test.v registered, so
	// the browser must never be launched from here.
	if !shouldSkipAutoBrowserOpen() {
		t.Error("shouldSkipAutoBrowserOpen() = false under go test")
	}

	t.Setenv("TIXTE_NO_BROWSER", "1")
	if !shouldSkipAutoBrowserOpen() {
		t.Error("shouldSkipAutoBrowserOpen() = false with TIXTE_NO_BROWSER=1")
	}
}
