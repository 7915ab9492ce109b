package checks

import (
	"context"
	"strings"

	"github.com/sofmeright/soundcheck/src/check"
	"github.com/sofmeright/soundcheck/src/pyproject"
)

func init() {
	check.Register("legacylayout", func() check.Module { return &legacyLayoutModule{} })
}

// legacyLayoutModule flags top-level ruff keys that ruff 0.2 moved
// under [tool.ruff.lint].
type legacyLayoutModule struct{}

func (m *legacyLayoutModule) Name() string         { return "legacylayout" }
func (m *legacyLayoutModule) DefaultEnabled() bool { return true }
func (m *legacyLayoutModule) AutoDetect() []string { return []string{"pyproject.toml"} }

func (m *legacyLayoutModule) Check(ctx context.Context, file check.FileInfo) ([]check.Finding, error) {
	if pyproject.Classify(file.Path) != pyproject.KindPyproject {
		return nil, nil
	}
	doc, data, err := loadDocument(file)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	flat, ok := doc.Table("tool", "ruff")
	if !ok {
		return nil, nil
	}
	lint, _ := doc.Table("tool", "ruff", "lint")

	var findings []check.Finding
	var deprecated []string
	for _, key := range []string{"select", "ignore", "isort"} {
		if _, present := flat[key]; !present {
			continue
		}
		deprecated = append(deprecated, key)
		if lint == nil {
			continue
		}
		if _, both := lint[key]; both {
			findings = append(findings, check.Finding{
				File:     file.Path,
				Line:     pyproject.FindKeyLine(data, key),
				Module:   m.Name(),
				Severity: check.SeverityWarning,
				Message:  key + " is set in both tool.ruff and tool.ruff.lint; the lint table wins",
			})
		}
	}

	if len(deprecated) > 0 {
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     pyproject.FindTableLine(data, "tool.ruff"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  "deprecated top-level ruff keys: " + strings.Join(deprecated, ", ") + " (ruff 0.2 moved them under [tool.ruff.lint])",
		})
	}

	return findings, nil
}
