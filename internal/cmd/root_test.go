package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	t.Run("text output", func(t *testing.T) {
		output := captureStdout(t, func() {
			if err := Execute(context.Background(), []string{"version"}); err != nil {
				t.Fatalf("version failed: %v", err)
			}
		})

		if !strings.Contains(output, "tixte-cli version dev") {
			t.Errorf("version output = %q, want tixte-cli version dev", output)
		}
	})

	t.Run("json output", func(t *testing.T) {
		output := captureStdout(t, func() {
			if err := Execute(context.Background(), []string{"version", "-o", "json"}); err != nil {
				t.Fatalf("version failed: %v", err)
			}
		})

		var payload map[string]any
		if err := json.Unmarshal([]byte(output), &payload); err != nil {
			t.Fatalf("version JSON output not parseable: %v\n%s", err, output)
		}
		if payload["version"] != "dev" {
			t.Errorf("version = %v, want dev", payload["version"])
		}
	})
}

func TestUnknownCommandSuggestion(t *testing.T) {
	err := Execute(context.Background(), []string{"uplaods"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "uploads") {
		t.Errorf("error %q should suggest the uploads command", err.Error())
	}
}

func TestQueryFileConflictsWithQuery(t *testing.T) {
	dir := t.TempDir()
	qf := filepath.Join(dir, "query.jq")
	if err := os.WriteFile(qf, []byte(".total"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Execute(context.Background(), []string{"version", "--query-file", qf, "--query", ".x"})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if !strings.Contains(err.Error(), "--query-file") {
		t.Errorf("error = %q, want mention of --query-file", err)
	}
}

func TestQueryFileFromDisk(t *testing.T) {
	dir := t.TempDir()
	qf := filepath.Join(dir, "query.jq")
	if err := os.WriteFile(qf, []byte(".version"), 0o644); err != nil {
		t.Fatal(err)
	}

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"version", "-o", "json", "--query-file", qf}); err != nil {
			t.Fatalf("version failed: %v", err)
		}
	})

	if !strings.Contains(output, `"dev"`) {
		t.Errorf("query-file output = %q, want \"dev\"", output)
	}
}

func TestJSONFlagAlias(t *testing.T) {
	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"version", "-j"}); err != nil {
			t.Fatalf("version failed: %v", err)
		}
	})

	var payload map[string]any
	if err := json.Unmarshal([]byte(output), &payload); err != nil {
		t.Fatalf("-j output not JSON: %v\n%s", err, output)
	}
}

func TestJSONConflictsWithOutput(t *testing.T) {
	err := Execute(context.Background(), []string{"version", "-j", "-o", "table"})
	if err == nil {
		t.Fatal("expected conflict error for --json with --output")
	}
}

func TestQueryAppliesJQ(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/users/@me", envelopeOK(`{"id":"u_1","username":"jess","email":"jess@example.com"}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"whoami", "-o", "json", "-q", ".username"}); err != nil {
			t.Fatalf("whoami failed: %v", err)
		}
	})

	if strings.TrimSpace(output) != `"jess"` {
		t.Errorf("query output = %q, want \"jess\"", output)
	}
}

func TestTemplateOutput(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/users/@me", envelopeOK(`{"id":"u_1","username":"jess"}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"whoami", "-o", "json", "--template", "{{.username}}\n"}); err != nil {
			t.Fatalf("whoami failed: %v", err)
		}
	})

	if strings.TrimSpace(output) != "jess" {
		t.Errorf("template output = %q, want jess", output)
	}
}

func TestSchemaCommand(t *testing.T) {
	t.Run("lists resources", func(t *testing.T) {
		output := captureStdout(t, func() {
			if err := Execute(context.Background(), []string{"schema"}); err != nil {
				t.Fatalf("schema failed: %v", err)
			}
		})

		for _, name := range []string{"upload", "domain", "account"} {
			if !strings.Contains(output, name) {
				t.Errorf("schema list missing %q:\n%s", name, output)
			}
		}
	})

	t.Run("shows a resource schema", func(t *testing.T) {
		output := captureStdout(t, func() {
			if err := Execute(context.Background(), []string{"schema", "upload"}); err != nil {
				t.Fatalf("schema upload failed: %v", err)
			}
		})

		var s map[string]any
		if err := json.Unmarshal([]byte(output), &s); err != nil {
			t.Fatalf("schema output not JSON: %v", err)
		}
		if s["type"] != "object" {
			t.Errorf("schema type = %v, want object", s["type"])
		}
		props, _ := s["properties"].(map[string]any)
		if _, ok := props["asset_id"]; !ok {
			t.Error("upload schema missing asset_id property")
		}
	})

	t.Run("unknown resource errors", func(t *testing.T) {
		err := Execute(context.Background(), []string{"schema", "invoice"})
		if err == nil {
			t.Fatal("expected error for unknown resource")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("error = %q, want not found", err)
		}
	})
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TIXTE_CACHE_DIR", dir)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"cache", "path"}); err != nil {
			t.Fatalf("cache path failed: %v", err)
		}
	})

	if strings.TrimSpace(output) != dir {
		t.Errorf("cache path = %q, want %q", output, dir)
	}
}

func TestMissingCredentials(t *testing.T) {
	t.Setenv("TIXTE_API_KEY", "")
	t.Setenv("TIXTE_PROFILE", "nonexistent-profile")

	err := Execute(context.Background(), []string{"whoami"})
	if err == nil {
		t.Fatal("expected error without credentials")
	}
}
