package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultDir(t *testing.T) {
	dir, err := DefaultDir()
	if err != nil {
		t.Fatalf("DefaultDir error: %v", err)
	}
	if dir == "" || !strings.Contains(dir, "tixte-cli") {
		t.Fatalf("unexpected default cache dir: %q", dir)
	}
}

func TestCacheKey(t *testing.T) {
	k1 := cacheKey("domains", "https://api.tixte.com/v1", "default")
	k2 := cacheKey("domains", "http://localhost:8080", "default")
	if k1 == k2 {
		t.Fatal("different base URLs must produce different keys")
	}
	if !strings.HasPrefix(k1, "domains_") || !strings.HasSuffix(k1, "_default") {
		t.Fatalf("unexpected key shape: %q", k1)
	}

	// Empty profile falls back to default
	if cacheKey("domains", "https://api.tixte.com/v1", "") != k1 {
		t.Fatal("empty profile should map to default")
	}
}

func TestIsCacheFilename(t *testing.T) {
	cases := map[string]bool{
		"domains_abcdef123456_default.json": true,
		"uploads_ABCDEF123456_work.json":    true,
		"_abcdef123456_default.json":        false,
		"domains_abcdef_default.json":       false,
		"domains_abcdef123456_.json":        false,
		"domains_abcdef123456_default.txt":  false,
		"domains__default.json":             false,
	}
	for name, want := range cases {
		if got := isCacheFilename(name); got != want {
			t.Fatalf("isCacheFilename(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestClearAll_RemovesOnlyCacheFiles(t *testing.T) {
	dir := t.TempDir()
	cacheFile := filepath.Join(dir, "domains_abcdef123456_default.json")
	keepFile := filepath.Join(dir, "README.txt")
	subdir := filepath.Join(dir, "sub")
	nestedCache := filepath.Join(subdir, "uploads_abcdef123456_default.json")

	if err := os.WriteFile(cacheFile, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write cache file: %v", err)
	}
	if err := os.WriteFile(keepFile, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write keep file: %v", err)
	}
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatalf("mkdir subdir: %v", err)
	}
	if err := os.WriteFile(nestedCache, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write nested file: %v", err)
	}

	ClearAll(dir)

	if _, err := os.Stat(cacheFile); !os.IsNotExist(err) {
		t.Fatalf("expected cache file removed, stat err=%v", err)
	}
	if _, err := os.Stat(keepFile); err != nil {
		t.Fatalf("expected non-cache file kept, err=%v", err)
	}
	if _, err := os.Stat(nestedCache); err != nil {
		t.Fatalf("expected nested file untouched, err=%v", err)
	}
}
