package checks

import (
	"context"
	"fmt"

	"github.com/sofmeright/soundcheck/src/check"
	"github.com/sofmeright/soundcheck/src/pyproject"
)

func init() {
	check.Register("linelength", func() check.Module { return &lineLengthModule{} })
}

type lineLengthModule struct {
	profile pyproject.Profile
}

func (m *lineLengthModule) Name() string         { return "linelength" }
func (m *lineLengthModule) DefaultEnabled() bool { return true }
func (m *lineLengthModule) AutoDetect() []string { return []string{"pyproject.toml"} }

func (m *lineLengthModule) SetProfile(p pyproject.Profile) { m.profile = p }

func (m *lineLengthModule) Check(ctx context.Context, file check.FileInfo) ([]check.Finding, error) {
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
	want := m.profile.LineLength

	black, err := doc.Black()
	if err != nil {
		// Decode errors are reported by the schema module.
		return nil, nil
	}
	if black == nil {
		findings = append(findings, check.Finding{
			File:     file.Path,
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  "tool.black is not configured",
		})
	} else {
		switch {
		case black.LineLength == nil:
			findings = append(findings, check.Finding{
				File:     file.Path,
				Line:     pyproject.FindTableLine(data, "tool.black"),
				Module:   m.Name(),
				Severity: check.SeverityWarning,
				Message:  fmt.Sprintf("tool.black.line-length is not set (expected %d)", want),
			})
		case *black.LineLength != want:
			findings = append(findings, check.Finding{
				File:     file.Path,
				Line:     tableKeyLine(data, "tool.black", "line-length"),
				Module:   m.Name(),
				Severity: check.SeverityWarning,
				Message:  fmt.Sprintf("tool.black.line-length is %d, expected %d", *black.LineLength, want),
			})
		}
	}

	ruff, err := doc.Ruff()
	if err != nil || ruff == nil {
		// A missing [tool.ruff] is reported by the rulesets module.
		return findings, nil
	}
	switch {
	case ruff.LineLength == nil:
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     pyproject.FindTableLine(data, "tool.ruff"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  fmt.Sprintf("tool.ruff.line-length is not set (expected %d)", want),
		})
	case *ruff.LineLength != want:
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     tableKeyLine(data, "tool.ruff", "line-length"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  fmt.Sprintf("tool.ruff.line-length is %d, expected %d", *ruff.LineLength, want),
		})
	}

	if black != nil && black.LineLength != nil && ruff.LineLength != nil && *black.LineLength != *ruff.LineLength {
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     tableKeyLine(data, "tool.ruff", "line-length"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  fmt.Sprintf("formatter and linter disagree on line length (%d vs %d)", *black.LineLength, *ruff.LineLength),
		})
	}

	return findings, nil
}
