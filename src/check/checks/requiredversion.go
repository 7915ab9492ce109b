package checks

import (
	"context"
	"fmt"

	"github.com/sofmeright/soundcheck/src/check"
	"github.com/sofmeright/soundcheck/src/pyproject"
)

func init() {
	check.Register("requiredversion", func() check.Module { return &requiredVersionModule{} })
}

type requiredVersionModule struct{}

func (m *requiredVersionModule) Name() string         { return "requiredversion" }
func (m *requiredVersionModule) DefaultEnabled() bool { return true }
func (m *requiredVersionModule) AutoDetect() []string { return []string{"pyproject.toml"} }

func (m *requiredVersionModule) Check(ctx context.Context, file check.FileInfo) ([]check.Finding, error) {
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

	var findings []check.Finding

	if black, err := doc.Black(); err == nil && black != nil && black.RequiredVersion != "" {
		findings = append(findings, m.checkConstraint(file, data, "black", black.RequiredVersion)...)
	}
	if ruff, err := doc.Ruff(); err == nil && ruff != nil && ruff.RequiredVersion != "" {
		findings = append(findings, m.checkConstraint(file, data, "ruff", ruff.RequiredVersion)...)
	}

	return findings, nil
}

func (m *requiredVersionModule) checkConstraint(file check.FileInfo, data []byte, tool, constraint string) []check.Finding {
	if _, err := pyproject.ParseVersionConstraint(constraint); err != nil {
		return []check.Finding{{
			File:     file.Path,
			Line:     tableKeyLine(data, "tool."+tool, "required-version"),
			Module:   m.Name(),
			Severity: check.SeverityCritical,
			Message:  fmt.Sprintf("tool.%s.required-version %q is not a valid version constraint", tool, constraint),
		}}
	}
	return nil
}
