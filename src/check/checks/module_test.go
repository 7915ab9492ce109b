package checks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sofmeright/soundcheck/src/check"
	"github.com/sofmeright/soundcheck/src/pyproject"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, name)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

// runModule writes content to a scratch file and checks it with a fresh
// instance of the named module, configured against the default profile.
func runModule(t *testing.T, name, fileName string, content []byte) []check.Finding {
	t.Helper()

	m, err := check.Get(name)
	if err != nil {
		t.Fatalf("get module %s: %v", name, err)
	}
	if pa, ok := m.(check.ProfileAware); ok {
		pa.SetProfile(pyproject.DefaultProfile())
	}
	if cm, ok := m.(check.ConfigurableModule); ok {
		if err := cm.Configure(nil); err != nil {
			t.Fatalf("configure %s: %v", name, err)
		}
	}

	abs := writeTempFile(t, fileName, content)
	findings, err := m.Check(context.Background(), check.FileInfo{Path: fileName, AbsPath: abs})
	if err != nil {
		t.Fatalf("check %s: %v", name, err)
	}
	return findings
}

func hasFindingContaining(findings []check.Finding, substr string) bool {
	for _, f := range findings {
		if strings.Contains(f.Message, substr) {
			return true
		}
	}
	return false
}

func hasSeverity(findings []check.Finding, sev check.Severity) bool {
	for _, f := range findings {
		if f.Severity == sev {
			return true
		}
	}
	return false
}

func findingWith(findings []check.Finding, substr string) (check.Finding, bool) {
	for _, f := range findings {
		if strings.Contains(f.Message, substr) {
			return f, true
		}
	}
	return check.Finding{}, false
}

// The canonical document produced from the default profile is the
// yardstick every module measures against, so it must come back clean
// from all of them.
func TestDefaultProfileDocument_PassesEveryModule(t *testing.T) {
	data, err := pyproject.DefaultProfile().Document().Canonical()
	if err != nil {
		t.Fatalf("render canonical document: %v", err)
	}

	for _, name := range check.All() {
		findings := runModule(t, name, "pyproject.toml", data)
		if len(findings) != 0 {
			t.Fatalf("module %s flagged the profile document: %#v", name, findings)
		}
	}
}
