package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/sofmeright/soundcheck/src/check"
	"github.com/sofmeright/soundcheck/src/pyproject"
)

func init() {
	check.Register("strictness", func() check.Module { return &strictnessModule{} })
}

type strictnessModule struct {
	profile pyproject.Profile
}

func (m *strictnessModule) Name() string         { return "strictness" }
func (m *strictnessModule) DefaultEnabled() bool { return true }
func (m *strictnessModule) AutoDetect() []string { return []string{"pyproject.toml"} }

func (m *strictnessModule) SetProfile(p pyproject.Profile) { m.profile = p }

func (m *strictnessModule) Check(ctx context.Context, file check.FileInfo) ([]check.Finding, error) {
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

	mypy, err := doc.Mypy()
	if err != nil {
		// Decode errors are reported by the schema module.
		return nil, nil
	}
	if mypy == nil {
		return []check.Finding{{
			File:     file.Path,
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  "tool.mypy is not configured",
		}}, nil
	}

	var findings []check.Finding
	findings = append(findings, m.checkPythonVersion(file, data, mypy)...)

	var missing []string
	for _, flag := range mypy.StrictnessFlags() {
		switch {
		case flag.Value == nil:
			missing = append(missing, flag.Key)
		case !*flag.Value:
			findings = append(findings, check.Finding{
				File:     file.Path,
				Line:     pyproject.FindKeyLine(data, flag.Key),
				Module:   m.Name(),
				Severity: check.SeverityWarning,
				Message:  fmt.Sprintf("tool.mypy.%s is false, expected true", flag.Key),
			})
		}
	}
	if len(missing) > 0 {
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     pyproject.FindTableLine(data, "tool.mypy"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  "tool.mypy is missing expected flags: " + strings.Join(missing, ", "),
		})
	}

	return findings, nil
}

func (m *strictnessModule) checkPythonVersion(file check.FileInfo, data []byte, mypy *pyproject.MypySettings) []check.Finding {
	if mypy.PythonVersion == "" {
		return []check.Finding{{
			File:     file.Path,
			Line:     pyproject.FindTableLine(data, "tool.mypy"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  fmt.Sprintf("tool.mypy.python_version is not set (expected %s)", m.profile.PythonVersion),
		}}
	}

	if _, err := pyproject.ParsePythonVersion(mypy.PythonVersion); err != nil {
		return []check.Finding{{
			File:     file.Path,
			Line:     pyproject.FindKeyLine(data, "python_version"),
			Module:   m.Name(),
			Severity: check.SeverityCritical,
			Message:  fmt.Sprintf("tool.mypy.python_version %q is not MAJOR.MINOR", mypy.PythonVersion),
		}}
	}

	if mypy.PythonVersion != m.profile.PythonVersion {
		return []check.Finding{{
			File:     file.Path,
			Line:     pyproject.FindKeyLine(data, "python_version"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  fmt.Sprintf("tool.mypy.python_version is %s, expected %s", mypy.PythonVersion, m.profile.PythonVersion),
		}}
	}

	return nil
}
