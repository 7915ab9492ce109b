package check

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCache_KeyVariesWithEveryInput(t *testing.T) {
	c := &Cache{RootDir: t.TempDir(), Enabled: true}

	base := c.Key([]byte("content"), "rulesets", "salt")
	if k := c.Key([]byte("content2"), "rulesets", "salt"); k == base {
		t.Fatalf("key must change with content")
	}
	if k := c.Key([]byte("content"), "strictness", "salt"); k == base {
		t.Fatalf("key must change with module name")
	}
	if k := c.Key([]byte("content"), "rulesets", "salt2"); k == base {
		t.Fatalf("key must change with salt")
	}
	if k := c.Key([]byte("content"), "rulesets", "salt"); k != base {
		t.Fatalf("key must be deterministic")
	}
}

func TestCache_RoundTripIncludingCleanResults(t *testing.T) {
	c := &Cache{RootDir: t.TempDir(), Enabled: true}

	key := c.Key([]byte("data"), "rulesets", "salt")
	if _, ok := c.Get(key); ok {
		t.Fatalf("expected a miss before Put")
	}

	findings := []Finding{{File: "pyproject.toml", Line: 3, Module: "rulesets", Severity: SeverityWarning, Message: "drift"}}
	if err := c.Put(key, findings); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok := c.Get(key)
	if !ok || len(got) != 1 || got[0].Message != "drift" {
		t.Fatalf("expected the stored finding back, got %#v ok=%v", got, ok)
	}

	// A clean pass is cached too, and distinguishable from a miss.
	cleanKey := c.Key([]byte("clean"), "rulesets", "salt")
	if err := c.Put(cleanKey, nil); err != nil {
		t.Fatalf("put clean: %v", err)
	}
	got, ok = c.Get(cleanKey)
	if !ok || len(got) != 0 {
		t.Fatalf("expected a cached clean pass, got %#v ok=%v", got, ok)
	}
}

func TestCache_DisabledDoesNothing(t *testing.T) {
	dir := t.TempDir()
	c := &Cache{RootDir: dir, Enabled: false}

	key := c.Key([]byte("data"), "rulesets", "salt")
	if err := c.Put(key, []Finding{{Message: "x"}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Fatalf("disabled cache must always miss")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("disabled cache must not touch disk, found %v", entries)
	}
}

func TestCache_ClearRemovesTheDirectory(t *testing.T) {
	c := &Cache{RootDir: t.TempDir(), Enabled: true}

	key := c.Key([]byte("data"), "rulesets", "salt")
	if err := c.Put(key, nil); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Fatalf("expected a miss after Clear")
	}
	if _, err := os.Stat(filepath.Join(c.RootDir, ".soundcheck/cache/check")); !os.IsNotExist(err) {
		t.Fatalf("expected the cache dir to be gone, stat err = %v", err)
	}
}

func TestEnsureGitignore_AppendsExactlyOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	if err := os.WriteFile(path, []byte("*.pyc"), 0o644); err != nil {
		t.Fatalf("seed gitignore: %v", err)
	}

	EnsureGitignore(dir)
	EnsureGitignore(dir)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read gitignore: %v", err)
	}
	if got := strings.Count(string(data), ".soundcheck/"); got != 1 {
		t.Fatalf("expected one entry, got %d in %q", got, data)
	}
	if !strings.Contains(string(data), "*.pyc\n.soundcheck/\n") {
		t.Fatalf("expected the entry on its own line after the seed, got %q", data)
	}
}
