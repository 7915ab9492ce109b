package check

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	defaultCacheDir = ".soundcheck/cache/check"

	// Bump to invalidate every cached result when finding semantics
	// change.
	cacheVersion = "1"
)

// Cache stores per-file audit results keyed by content hash, so
// unchanged files skip their modules entirely on the next run.
type Cache struct {
	RootDir string
	Dir     string // relative to RootDir; defaults to defaultCacheDir
	Enabled bool
}

type cacheEntry struct {
	Findings []Finding `json:"findings"`
}

// Key derives the cache key for one file+module pair. Inputs are
// NUL-framed so neighboring fields cannot blur into each other, and the
// cache version is folded in.
func (c *Cache) Key(content []byte, moduleName string, salt string) string {
	h := sha256.New()
	h.Write(content)
	for _, part := range []string{moduleName, salt, cacheVersion} {
		h.Write([]byte{0})
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached findings for key. The second result reports a
// hit; a hit with no findings is a cached clean pass.
func (c *Cache) Get(key string) ([]Finding, bool) {
	if !c.Enabled {
		return nil, false
	}
	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if json.Unmarshal(data, &entry) != nil {
		return nil, false
	}
	return entry.Findings, true
}

// Put records findings for key. Clean passes are stored too.
func (c *Cache) Put(key string, findings []Finding) error {
	if !c.Enabled {
		return nil
	}
	path := c.entryPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	data, err := json.Marshal(cacheEntry{Findings: findings})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Clear deletes the cache directory.
func (c *Cache) Clear() error {
	return os.RemoveAll(filepath.Join(c.RootDir, c.dir()))
}

func (c *Cache) dir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return defaultCacheDir
}

// entryPath shards entries into two-hex-char subdirectories to keep
// any single directory small.
func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.RootDir, c.dir(), key[:2], key+".json")
}

// EnsureGitignore appends .soundcheck/ to the repo's .gitignore unless
// an entry already exists. Best effort: failures are ignored.
func EnsureGitignore(rootDir string) {
	path := filepath.Join(rootDir, ".gitignore")
	const entry = ".soundcheck/"

	data, err := os.ReadFile(path)
	if err == nil {
		lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
		if slices.Contains(lines, entry) {
			return
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(f)
	}
	fmt.Fprintln(f, entry)
}
