package checks

import (
	"strings"
	"testing"

	"github.com/sofmeright/soundcheck/src/check"
)

const fullMypyTable = `[tool.mypy]
python_version = "3.10"
no_implicit_optional = true
disallow_untyped_calls = true
disallow_untyped_defs = true
warn_redundant_casts = true
warn_unreachable = true
warn_unused_ignores = true
allow_untyped_globals = true
allow_redefinition = true
implicit_reexport = true
strict_equality = true
ignore_missing_imports = true
`

func TestStrictness_FullTableIsClean(t *testing.T) {
	findings := runModule(t, "strictness", "pyproject.toml", []byte(fullMypyTable))
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %#v", findings)
	}
}

func TestStrictness_MissingMypyTable(t *testing.T) {
	findings := runModule(t, "strictness", "pyproject.toml", []byte("[tool.black]\nline-length = 99\n"))
	if !hasFindingContaining(findings, "tool.mypy is not configured") {
		t.Fatalf("expected a missing-table finding, got %#v", findings)
	}
}

func TestStrictness_PythonVersionDrift(t *testing.T) {
	content := strings.Replace(fullMypyTable, `"3.10"`, `"3.9"`, 1)
	findings := runModule(t, "strictness", "pyproject.toml", []byte(content))
	f, ok := findingWith(findings, "python_version is 3.9, expected 3.10")
	if !ok {
		t.Fatalf("expected a version drift finding, got %#v", findings)
	}
	if f.Line != 2 {
		t.Fatalf("expected line 2, got %d", f.Line)
	}
}

func TestStrictness_MalformedPythonVersionIsCritical(t *testing.T) {
	content := strings.Replace(fullMypyTable, `"3.10"`, `"310"`, 1)
	findings := runModule(t, "strictness", "pyproject.toml", []byte(content))
	f, ok := findingWith(findings, `python_version "310" is not MAJOR.MINOR`)
	if !ok {
		t.Fatalf("expected a malformed version finding, got %#v", findings)
	}
	if f.Severity != check.SeverityCritical {
		t.Fatalf("expected critical severity, got %s", f.Severity)
	}
}

func TestStrictness_DisabledFlagIsFlaggedIndividually(t *testing.T) {
	content := strings.Replace(fullMypyTable, "strict_equality = true", "strict_equality = false", 1)
	findings := runModule(t, "strictness", "pyproject.toml", []byte(content))
	f, ok := findingWith(findings, "tool.mypy.strict_equality is false, expected true")
	if !ok {
		t.Fatalf("expected a disabled flag finding, got %#v", findings)
	}
	if f.Line != 12 {
		t.Fatalf("expected line 12, got %d", f.Line)
	}
	if len(findings) != 1 {
		t.Fatalf("expected only the one finding, got %#v", findings)
	}
}

func TestStrictness_MissingFlagsAreAggregated(t *testing.T) {
	content := []byte(`[tool.mypy]
python_version = "3.10"
strict_equality = true
`)
	findings := runModule(t, "strictness", "pyproject.toml", content)
	f, ok := findingWith(findings, "missing expected flags")
	if !ok {
		t.Fatalf("expected an aggregated finding, got %#v", findings)
	}
	if len(findings) != 1 {
		t.Fatalf("missing flags should produce a single finding, got %#v", findings)
	}
	for _, flag := range []string{"no_implicit_optional", "warn_unreachable", "ignore_missing_imports"} {
		if !strings.Contains(f.Message, flag) {
			t.Fatalf("expected %s in %q", flag, f.Message)
		}
	}
	if strings.Contains(f.Message, "strict_equality") {
		t.Fatalf("strict_equality is present and must not be listed: %q", f.Message)
	}
}
