package checks

import (
	"context"
	"os"
	"strings"

	"github.com/sofmeright/soundcheck/src/check"
	"github.com/sofmeright/soundcheck/src/pyproject"
)

func init() {
	check.Register("syntax", func() check.Module { return &syntaxModule{} })
}

type syntaxModule struct{}

func (m *syntaxModule) Name() string         { return "syntax" }
func (m *syntaxModule) DefaultEnabled() bool { return true }
func (m *syntaxModule) AutoDetect() []string { return nil }

func (m *syntaxModule) Check(ctx context.Context, file check.FileInfo) ([]check.Finding, error) {
	data, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, err
	}

	if pyproject.Classify(file.Path) == pyproject.KindPyproject {
		return m.checkTOML(file, data), nil
	}
	return m.checkINI(file, data), nil
}

func (m *syntaxModule) checkTOML(file check.FileInfo, data []byte) []check.Finding {
	_, err := pyproject.Parse(data)
	if err == nil {
		return nil
	}

	f := check.Finding{
		File:     file.Path,
		Module:   m.Name(),
		Severity: check.SeverityCritical,
		Message:  "invalid toml: " + tomlErrorMessage(err),
	}
	if line, col, ok := pyproject.ParsePosition(err); ok {
		f.Line = line
		f.Column = col
	}
	return []check.Finding{f}
}

// checkINI flags lines that configparser would refuse to read: entries
// before any section header, unterminated headers, and lines that are
// neither an assignment nor a continuation.
func (m *syntaxModule) checkINI(file check.FileInfo, data []byte) []check.Finding {
	var findings []check.Finding

	sawSection := false
	sawEntry := false

	for i, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed[0] == '#' || trimmed[0] == ';' {
			continue
		}

		// Indented lines continue the previous entry's value.
		if line[0] == ' ' || line[0] == '\t' {
			if !sawEntry {
				findings = append(findings, check.Finding{
					File:     file.Path,
					Line:     i + 1,
					Module:   m.Name(),
					Severity: check.SeverityCritical,
					Message:  "continuation line without a preceding entry",
				})
			}
			continue
		}

		if strings.HasPrefix(trimmed, "[") {
			if !strings.Contains(trimmed, "]") {
				findings = append(findings, check.Finding{
					File:     file.Path,
					Line:     i + 1,
					Module:   m.Name(),
					Severity: check.SeverityCritical,
					Message:  "section header is missing its closing bracket",
				})
				continue
			}
			sawSection = true
			sawEntry = false
			continue
		}

		if !strings.ContainsAny(trimmed, "=:") {
			findings = append(findings, check.Finding{
				File:     file.Path,
				Line:     i + 1,
				Module:   m.Name(),
				Severity: check.SeverityCritical,
				Message:  "line is neither a section header nor a key assignment",
			})
			continue
		}

		sawEntry = true
		if !sawSection {
			findings = append(findings, check.Finding{
				File:     file.Path,
				Line:     i + 1,
				Module:   m.Name(),
				Severity: check.SeverityCritical,
				Message:  "entry appears before any section header",
			})
		}
	}

	return findings
}

// tomlErrorMessage strips the generic decode wrapping so the finding
// reads like the parser spoke directly.
func tomlErrorMessage(err error) string {
	msg := err.Error()
	msg = strings.TrimPrefix(msg, "parsing toml: ")
	msg = strings.TrimPrefix(msg, "toml: ")
	return msg
}
