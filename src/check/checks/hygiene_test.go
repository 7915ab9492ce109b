package checks

import (
	"context"
	"testing"

	"github.com/sofmeright/soundcheck/src/check"
)

func TestHygiene_MixedLineEndings(t *testing.T) {
	content := []byte("[tool.black]\r\nline-length = 99\n")
	findings := runModule(t, "hygiene", "pyproject.toml", content)
	if !hasFindingContaining(findings, "mixed line endings") {
		t.Fatalf("expected a mixed endings finding, got %#v", findings)
	}
}

func TestHygiene_PureCRLFIsInfo(t *testing.T) {
	content := []byte("[tool.black]\r\nline-length = 99\r\n")
	findings := runModule(t, "hygiene", "pyproject.toml", content)
	f, ok := findingWith(findings, "file uses CRLF line endings")
	if !ok {
		t.Fatalf("expected a CRLF finding, got %#v", findings)
	}
	if f.Severity != check.SeverityInfo {
		t.Fatalf("expected info severity, got %s", f.Severity)
	}
}

func TestHygiene_ByteOrderMark(t *testing.T) {
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("[tool.black]\nline-length = 99\n")...)
	findings := runModule(t, "hygiene", "pyproject.toml", content)
	f, ok := findingWith(findings, "byte order mark")
	if !ok {
		t.Fatalf("expected a BOM finding, got %#v", findings)
	}
	if f.Severity != check.SeverityWarning || f.Line != 1 {
		t.Fatalf("expected a warning on line 1, got %#v", f)
	}
}

func TestHygiene_TrailingWhitespaceAndFinalNewline(t *testing.T) {
	content := []byte("[mypy]  \npython_version = 3.10")
	findings := runModule(t, "hygiene", "setup.cfg", content)

	f, ok := findingWith(findings, "trailing whitespace")
	if !ok {
		t.Fatalf("expected a trailing whitespace finding, got %#v", findings)
	}
	if f.Line != 1 {
		t.Fatalf("expected line 1, got %d", f.Line)
	}
	if !hasFindingContaining(findings, "missing final newline") {
		t.Fatalf("expected a final newline finding, got %#v", findings)
	}
}

func TestHygiene_OptionsDisableChecks(t *testing.T) {
	m, err := check.Get("hygiene")
	if err != nil {
		t.Fatalf("get module: %v", err)
	}
	cm := m.(check.ConfigurableModule)
	if err := cm.Configure(map[string]any{
		"trailing_whitespace": false,
		"final_newline":       false,
	}); err != nil {
		t.Fatalf("configure: %v", err)
	}

	abs := writeTempFile(t, "setup.cfg", []byte("[mypy]  \npython_version = 3.10"))
	findings, err := m.Check(context.Background(), check.FileInfo{Path: "setup.cfg", AbsPath: abs})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no findings with both checks disabled, got %#v", findings)
	}
}

func TestHygiene_CleanFileHasNoFindings(t *testing.T) {
	findings := runModule(t, "hygiene", "pyproject.toml", []byte("[tool.black]\nline-length = 99\n"))
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %#v", findings)
	}
}
