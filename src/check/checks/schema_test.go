package checks

import (
	"testing"

	"github.com/sofmeright/soundcheck/src/check"
)

func TestSchema_FlagsMisspelledOptions(t *testing.T) {
	content := []byte(`[tool.black]
line-length = 99
skip-string-normalization = true

[tool.ruff.lint]
selct = ["E"]
`)
	findings := runModule(t, "schema", "pyproject.toml", content)

	f, ok := findingWith(findings, "unrecognized option tool.black.skip-string-normalization")
	if !ok {
		t.Fatalf("expected a finding for the black option, got %#v", findings)
	}
	if f.Severity != check.SeverityWarning {
		t.Fatalf("expected a warning, got %s", f.Severity)
	}
	if f.Line != 3 {
		t.Fatalf("expected line 3, got %d", f.Line)
	}

	if !hasFindingContaining(findings, "unrecognized option tool.ruff.lint.selct") {
		t.Fatalf("expected a finding for the nested ruff option, got %#v", findings)
	}
}

func TestSchema_WrongValueTypeIsCritical(t *testing.T) {
	content := []byte(`[tool.black]
line-length = "99"
`)
	findings := runModule(t, "schema", "pyproject.toml", content)

	f, ok := findingWith(findings, "tool.black.line-length has the wrong value type")
	if !ok {
		t.Fatalf("expected a type finding, got %#v", findings)
	}
	if f.Severity != check.SeverityCritical {
		t.Fatalf("expected critical severity, got %s", f.Severity)
	}
	if f.Line != 2 {
		t.Fatalf("expected line 2, got %d", f.Line)
	}
}

func TestSchema_LegacyRuffKeysAreNotUnknown(t *testing.T) {
	content := []byte(`[tool.ruff]
select = ["E", "F"]
ignore = ["E501"]
`)
	findings := runModule(t, "schema", "pyproject.toml", content)
	if len(findings) != 0 {
		t.Fatalf("flat select/ignore are deprecated, not unknown; got %#v", findings)
	}
}

func TestSchema_SkipsTablesItDoesNotManage(t *testing.T) {
	content := []byte(`[tool.poetry]
name = "demo"

[tool.poetry.dependencies]
python = "^3.10"
`)
	findings := runModule(t, "schema", "pyproject.toml", content)
	if len(findings) != 0 {
		t.Fatalf("expected no findings for unmanaged tables, got %#v", findings)
	}
}
