package output

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sofmeright/soundcheck/src/check"
)

func TestFindingsSummaryLine(t *testing.T) {
	got := FindingsSummaryLine(5, 1, 3, 1, 4, false)
	want := "5 findings in 4 files: 1 critical, 3 warning, 1 info"
	if got != want {
		t.Fatalf("summary = %q, want %q", got, want)
	}

	got = FindingsSummaryLine(0, 0, 0, 0, 7, false)
	if !strings.Contains(got, "no findings") {
		t.Fatalf("empty summary = %q, want it to say no findings", got)
	}
}

func TestSectionFindings_BudgetKeepsWarningsDropsInfo(t *testing.T) {
	findings := []check.Finding{
		{File: "pyproject.toml", Line: 3, Module: "linelength", Severity: check.SeverityWarning, Message: "line length drift"},
	}
	for i := 0; i < 10; i++ {
		findings = append(findings, check.Finding{
			File: "setup.cfg", Line: i + 1, Module: "hygiene",
			Severity: check.SeverityInfo, Message: "trailing whitespace",
		})
	}

	var buf bytes.Buffer
	sec := NewSection(&buf, "Findings", 0, false)
	SectionFindings(sec, findings, false, 4)
	sec.Close()
	out := buf.String()

	if !strings.Contains(out, "line length drift") {
		t.Fatalf("warning row missing from truncated output:\n%s", out)
	}
	if !strings.Contains(out, "and 7 more info findings") {
		t.Fatalf("truncation notice missing or wrong:\n%s", out)
	}

	// Budget 0 disables truncation.
	buf.Reset()
	sec = NewSection(&buf, "Findings", 0, false)
	SectionFindings(sec, findings, false, 0)
	sec.Close()
	if strings.Contains(buf.String(), "more info findings") {
		t.Fatalf("budget 0 should render everything:\n%s", buf.String())
	}
	if got := strings.Count(buf.String(), "trailing whitespace"); got != 10 {
		t.Fatalf("budget 0 rendered %d info rows, want 10", got)
	}
}

func TestWriteLintJUnit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports", "lint.xml")

	files := []check.FileInfo{
		{Path: "pyproject.toml"},
		{Path: "setup.cfg"},
	}
	findings := []check.Finding{
		{File: "pyproject.toml", Line: 2, Module: "syntax", Severity: check.SeverityCritical, Message: "invalid toml: unexpected end"},
		{File: "setup.cfg", Line: 1, Module: "hygiene", Severity: check.SeverityWarning, Message: "file uses CRLF line endings"},
	}

	err := WriteLintJUnit(path, findings, files, []string{"syntax", "hygiene"}, 120*time.Millisecond)
	if err != nil {
		t.Fatalf("WriteLintJUnit: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}

	var root JUnitTestSuites
	if err := xml.Unmarshal(data, &root); err != nil {
		t.Fatalf("report is not valid XML: %v", err)
	}

	if root.Name != "soundcheck-lint" {
		t.Fatalf("root name = %q", root.Name)
	}
	if len(root.Suites) != 2 {
		t.Fatalf("got %d suites, want 2", len(root.Suites))
	}
	if root.Suites[0].Name != "soundcheck/check/syntax" {
		t.Fatalf("first suite = %q", root.Suites[0].Name)
	}
	// Two files per suite.
	if root.Tests != 4 {
		t.Fatalf("total tests = %d, want 4", root.Tests)
	}
	// Only the critical finding is a failure; the hygiene warning is not.
	if root.Failures != 1 {
		t.Fatalf("total failures = %d, want 1", root.Failures)
	}

	var failCase *JUnitTestCase
	for i := range root.Suites[0].Cases {
		if root.Suites[0].Cases[i].Failure != nil {
			failCase = &root.Suites[0].Cases[i]
		}
	}
	if failCase == nil {
		t.Fatalf("no failing test case in syntax suite")
	}
	if failCase.Name != "pyproject.toml" {
		t.Fatalf("failing case = %q, want pyproject.toml", failCase.Name)
	}
	if !strings.Contains(failCase.Failure.Body, "invalid toml") {
		t.Fatalf("failure body = %q", failCase.Failure.Body)
	}
}

func TestCIContext_OutsideCI(t *testing.T) {
	t.Setenv("CI", "")
	if kv := CIContext(); kv != nil {
		t.Fatalf("CIContext outside CI = %#v, want nil", kv)
	}
}
