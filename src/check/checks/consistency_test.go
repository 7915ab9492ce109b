package checks

import (
	"testing"

	"github.com/sofmeright/soundcheck/src/check"
)

func TestConsistency_ExcludeParityGapIsInfo(t *testing.T) {
	content := []byte(`[tool.black]
exclude = '/(venv|dist)/'

[tool.ruff]
exclude = ["dist"]
`)
	findings := runModule(t, "consistency", "pyproject.toml", content)
	f, ok := findingWith(findings, "black excludes directories ruff does not: venv")
	if !ok {
		t.Fatalf("expected an exclude parity finding, got %#v", findings)
	}
	if f.Severity != check.SeverityInfo {
		t.Fatalf("expected info severity, got %s", f.Severity)
	}
	if f.Line != 5 {
		t.Fatalf("expected the ruff exclude on line 5, got %d", f.Line)
	}
}

func TestConsistency_ExcludeEntriesNormalized(t *testing.T) {
	content := []byte(`[tool.black]
exclude = '/(venv)/'

[tool.ruff]
exclude = ["./venv/"]
`)
	findings := runModule(t, "consistency", "pyproject.toml", content)
	if hasFindingContaining(findings, "black excludes directories") {
		t.Fatalf("./venv/ and venv name the same directory, got %#v", findings)
	}
}

func TestConsistency_TargetVersionDisagreement(t *testing.T) {
	content := []byte(`[tool.black]
target-version = ["py39"]

[tool.ruff]
target-version = "py310"
`)
	findings := runModule(t, "consistency", "pyproject.toml", content)
	if !hasFindingContaining(findings, "black and ruff disagree on target version: py39 vs py310") {
		t.Fatalf("expected a target disagreement finding, got %#v", findings)
	}
}

func TestConsistency_MultiTargetBlackListIsNotCompared(t *testing.T) {
	content := []byte(`[tool.black]
target-version = ["py39", "py310"]

[tool.ruff]
target-version = "py310"
`)
	findings := runModule(t, "consistency", "pyproject.toml", content)
	if hasFindingContaining(findings, "disagree on target version") {
		t.Fatalf("a multi-entry target list spans versions, got %#v", findings)
	}
}

func TestConsistency_RuffTargetVersusMypy(t *testing.T) {
	content := []byte(`[tool.mypy]
python_version = "3.9"

[tool.ruff]
target-version = "py310"
`)
	findings := runModule(t, "consistency", "pyproject.toml", content)
	if !hasFindingContaining(findings, "ruff targets py310 but mypy checks 3.9") {
		t.Fatalf("expected a ruff/mypy finding, got %#v", findings)
	}
}

func TestConsistency_MalformedTargetVersionIsCritical(t *testing.T) {
	content := []byte(`[tool.ruff]
target-version = "3.10"
`)
	findings := runModule(t, "consistency", "pyproject.toml", content)
	f, ok := findingWith(findings, `tool.ruff.target-version "3.10" is not a recognized version`)
	if !ok {
		t.Fatalf("expected a malformed target finding, got %#v", findings)
	}
	if f.Severity != check.SeverityCritical {
		t.Fatalf("expected critical severity, got %s", f.Severity)
	}
}

func TestConsistency_RequiredVersionAsymmetryIsInfo(t *testing.T) {
	content := []byte(`[tool.black]
required-version = "24.1.0"

[tool.ruff]
line-length = 99
`)
	findings := runModule(t, "consistency", "pyproject.toml", content)
	f, ok := findingWith(findings, "black pins required-version but ruff does not")
	if !ok {
		t.Fatalf("expected an asymmetry finding, got %#v", findings)
	}
	if f.Severity != check.SeverityInfo {
		t.Fatalf("expected info severity, got %s", f.Severity)
	}
}

func TestConsistency_AgreementIsClean(t *testing.T) {
	content := []byte(`[tool.black]
line-length = 99
target-version = ["py310"]
required-version = "24.1.0"

[tool.mypy]
python_version = "3.10"

[tool.ruff]
line-length = 99
target-version = "py310"
required-version = "0.4.1"
`)
	findings := runModule(t, "consistency", "pyproject.toml", content)
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %#v", findings)
	}
}
