// Package cache provides a small response cache for API listings.
//
// Two backends exist: JSON files under the user cache directory (the
// default) and Redis when TIXTE_CACHE_REDIS is set to a Redis URL.
// Entries are scoped per resource type, server URL, and profile.
// Default TTL is 5 minutes. Disable entirely with TIXTE_NO_CACHE=1.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultTTL = 5 * time.Minute

// Store reads and writes one cache key.
type Store interface {
	// Get loads cached items into dst. Returns false on miss (absent,
	// expired, disabled).
	Get(dst any) bool
	// Put writes items to the cache. Silently no-ops on error or when
	// disabled.
	Put(items any)
	// Clear removes this cache entry.
	Clear()
}

// NewStore picks a backend from the environment: Redis when
// TIXTE_CACHE_REDIS is set, files otherwise.
func NewStore(key, baseURL, profile string) Store {
	if url := strings.TrimSpace(os.Getenv(envRedisURL)); url != "" {
		if store, err := newRedisStore(url, key, baseURL, profile, DefaultTTL); err == nil {
			return store
		}
		// Fall through to files when the Redis URL is unusable; caching
		// is best effort.
	}
	dir, err := DefaultDir()
	if err != nil {
		dir = filepath.Join(os.TempDir(), "tixte-cli")
	}
	return NewFileStore(dir, key, baseURL, profile)
}

// cacheKey derives the storage key: resource name plus a short hash of
// the server URL, scoped to a profile.
func cacheKey(key, baseURL, profile string) string {
	key = sanitizeKey(key)
	if profile == "" {
		profile = "default"
	}
	hash := sha1.Sum([]byte(baseURL))
	suffix := hex.EncodeToString(hash[:6])
	return fmt.Sprintf("%s_%s_%s", key, suffix, sanitizeKey(profile))
}

type entry struct {
	CachedAt time.Time       `json:"cached_at"`
	Items    json.RawMessage `json:"items"`
}

// FileStore keeps one cache entry in a JSON file.
type FileStore struct {
	path string
	ttl  time.Duration
}

// NewFileStore creates a file-backed store with the default TTL.
// dir is the cache directory (typically from DefaultDir).
// key is the resource type (e.g. "domains").
func NewFileStore(dir, key, baseURL, profile string) *FileStore {
	return NewFileStoreWithTTL(dir, key, baseURL, profile, DefaultTTL)
}

// NewFileStoreWithTTL creates a file-backed store with a custom TTL.
func NewFileStoreWithTTL(dir, key, baseURL, profile string, ttl time.Duration) *FileStore {
	return &FileStore{
		path: filepath.Join(dir, cacheKey(key, baseURL, profile)+".json"),
		ttl:  ttl,
	}
}

func (s *FileStore) Get(dst any) bool {
	if disabled() {
		return false
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false
	}
	if time.Since(e.CachedAt) > s.ttl {
		return false
	}
	return json.Unmarshal(e.Items, dst) == nil
}

func (s *FileStore) Put(items any) {
	if disabled() {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	data, err := json.Marshal(entry{
		CachedAt: time.Now(),
		Items:    raw,
	})
	if err != nil {
		return
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}

	// Atomic-ish write: write temp then rename.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return
	}
	_ = os.Rename(tmp, s.path)
}

func (s *FileStore) Clear() {
	_ = os.Remove(s.path)
}

// ClearAll removes all cache files from the directory.
// For safety, it only removes files matching this project's cache filename scheme.
func ClearAll(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !isCacheFilename(name) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, name))
	}
}

// DefaultDir returns the platform-appropriate cache directory.
// Returns "$XDG_CACHE_HOME/tixte-cli" or equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "tixte-cli"), nil
}

func disabled() bool {
	return os.Getenv("TIXTE_NO_CACHE") != ""
}

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "cache"
	}
	key = strings.ReplaceAll(key, "/", "-")
	key = strings.ReplaceAll(key, "\\", "-")
	return key
}

func isCacheFilename(name string) bool {
	// Expected: "<key>_<12hex>_<profile>.json"
	if filepath.Ext(name) != ".json" {
		return false
	}
	base := strings.TrimSuffix(name, ".json")
	parts := strings.Split(base, "_")
	if len(parts) != 3 {
		return false
	}
	if parts[0] == "" || parts[2] == "" {
		return false
	}
	if len(parts[1]) != 12 || !isHex(parts[1]) {
		return false
	}
	return true
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
