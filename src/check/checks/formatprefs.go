package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/sofmeright/soundcheck/src/check"
	"github.com/sofmeright/soundcheck/src/pyproject"
)

func init() {
	check.Register("formatprefs", func() check.Module { return &formatPrefsModule{} })
}

type formatPrefsModule struct {
	profile pyproject.Profile
}

func (m *formatPrefsModule) Name() string         { return "formatprefs" }
func (m *formatPrefsModule) DefaultEnabled() bool { return true }
func (m *formatPrefsModule) AutoDetect() []string { return []string{"pyproject.toml"} }

func (m *formatPrefsModule) SetProfile(p pyproject.Profile) { m.profile = p }

func (m *formatPrefsModule) Check(ctx context.Context, file check.FileInfo) ([]check.Finding, error) {
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

	ruff, err := doc.Ruff()
	if err != nil || ruff == nil {
		// Absent or undecodable ruff tables are someone else's finding.
		return nil, nil
	}

	var findings []check.Finding
	findings = append(findings, m.checkFormat(file, data, ruff.Format)...)
	findings = append(findings, m.checkIsort(file, data, ruff.EffectiveIsort())...)
	return findings, nil
}

func (m *formatPrefsModule) checkFormat(file check.FileInfo, data []byte, f *pyproject.RuffFormatSettings) []check.Finding {
	if f == nil {
		return []check.Finding{{
			File:     file.Path,
			Line:     pyproject.FindTableLine(data, "tool.ruff"),
			Module:   m.Name(),
			Severity: check.SeverityInfo,
			Message:  "tool.ruff.format is not configured",
		}}
	}

	var findings []check.Finding
	findings = append(findings, m.checkEnum(file, data, "quote-style", f.QuoteStyle, m.profile.QuoteStyle,
		[]string{"single", "double", "preserve"})...)
	findings = append(findings, m.checkEnum(file, data, "indent-style", f.IndentStyle, m.profile.IndentStyle,
		[]string{"space", "tab"})...)
	findings = append(findings, m.checkEnum(file, data, "line-ending", f.LineEnding, m.profile.LineEnding,
		[]string{"auto", "lf", "cr-lf", "native"})...)

	want := m.profile.SkipMagicTrailingComma
	switch {
	case f.SkipMagicTrailingComma == nil:
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     pyproject.FindTableLine(data, "tool.ruff.format"),
			Module:   m.Name(),
			Severity: check.SeverityInfo,
			Message:  fmt.Sprintf("tool.ruff.format.skip-magic-trailing-comma is not set (expected %t)", want),
		})
	case *f.SkipMagicTrailingComma != want:
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     pyproject.FindKeyLine(data, "skip-magic-trailing-comma"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  fmt.Sprintf("tool.ruff.format.skip-magic-trailing-comma is %t, expected %t", *f.SkipMagicTrailingComma, want),
		})
	}

	return findings
}

func (m *formatPrefsModule) checkEnum(file check.FileInfo, data []byte, key, got, want string, valid []string) []check.Finding {
	if got == "" {
		return []check.Finding{{
			File:     file.Path,
			Line:     pyproject.FindTableLine(data, "tool.ruff.format"),
			Module:   m.Name(),
			Severity: check.SeverityInfo,
			Message:  fmt.Sprintf("tool.ruff.format.%s is not set (expected %s)", key, want),
		}}
	}
	for _, v := range valid {
		if got == v {
			if got != want {
				return []check.Finding{{
					File:     file.Path,
					Line:     pyproject.FindKeyLine(data, key),
					Module:   m.Name(),
					Severity: check.SeverityWarning,
					Message:  fmt.Sprintf("tool.ruff.format.%s is %s, expected %s", key, got, want),
				}}
			}
			return nil
		}
	}
	return []check.Finding{{
		File:     file.Path,
		Line:     pyproject.FindKeyLine(data, key),
		Module:   m.Name(),
		Severity: check.SeverityCritical,
		Message:  fmt.Sprintf("tool.ruff.format.%s %q is not one of %s", key, got, strings.Join(valid, ", ")),
	}}
}

func (m *formatPrefsModule) checkIsort(file check.FileInfo, data []byte, iso *pyproject.RuffIsortSettings) []check.Finding {
	if iso == nil {
		return []check.Finding{{
			File:     file.Path,
			Line:     pyproject.FindTableLine(data, "tool.ruff"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  "tool.ruff.lint.isort is not configured",
		}}
	}

	var findings []check.Finding
	prefs := []struct {
		key  string
		got  *bool
		want bool
	}{
		{"combine-as-imports", iso.CombineAsImports, m.profile.CombineAsImports},
		{"force-sort-within-sections", iso.ForceSortWithinSections, m.profile.ForceSortWithinSections},
	}
	for _, p := range prefs {
		switch {
		case p.got == nil:
			findings = append(findings, check.Finding{
				File:     file.Path,
				Line:     isortTableLine(data),
				Module:   m.Name(),
				Severity: check.SeverityWarning,
				Message:  fmt.Sprintf("tool.ruff.lint.isort.%s is not set (expected %t)", p.key, p.want),
			})
		case *p.got != p.want:
			findings = append(findings, check.Finding{
				File:     file.Path,
				Line:     pyproject.FindKeyLine(data, p.key),
				Module:   m.Name(),
				Severity: check.SeverityWarning,
				Message:  fmt.Sprintf("tool.ruff.lint.isort.%s is %t, expected %t", p.key, *p.got, p.want),
			})
		}
	}
	return findings
}

// isortTableLine finds the isort table header in either of its homes.
func isortTableLine(data []byte) int {
	if line := pyproject.FindTableLine(data, "tool.ruff.lint.isort"); line > 0 {
		return line
	}
	return pyproject.FindTableLine(data, "tool.ruff.isort")
}
