package checks

import (
	"context"
	"regexp"
	"strings"

	"github.com/sofmeright/soundcheck/src/check"
	"github.com/sofmeright/soundcheck/src/pyproject"
)

func init() {
	check.Register("patterns", func() check.Module { return &patternsModule{} })
}

type patternsModule struct {
	profile pyproject.Profile
}

func (m *patternsModule) Name() string         { return "patterns" }
func (m *patternsModule) DefaultEnabled() bool { return true }
func (m *patternsModule) AutoDetect() []string { return []string{"pyproject.toml"} }

func (m *patternsModule) SetProfile(p pyproject.Profile) { m.profile = p }

func (m *patternsModule) Check(ctx context.Context, file check.FileInfo) ([]check.Finding, error) {
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

	black, err := doc.Black()
	if err == nil && black != nil {
		findings = append(findings, m.checkInclude(file, data, black.Include)...)
		findings = append(findings, m.checkExclude(file, data, black.Exclude)...)
	}

	ruff, err := doc.Ruff()
	if err == nil && ruff != nil {
		findings = append(findings, m.checkRuffExclude(file, data, ruff.Exclude)...)
	}

	return findings, nil
}

func (m *patternsModule) checkInclude(file check.FileInfo, data []byte, pattern string) []check.Finding {
	if pattern == "" {
		return []check.Finding{{
			File:     file.Path,
			Line:     pyproject.FindTableLine(data, "tool.black"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  "tool.black.include is not set",
		}}
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return []check.Finding{{
			File:     file.Path,
			Line:     tableKeyLine(data, "tool.black", "include"),
			Module:   m.Name(),
			Severity: check.SeverityCritical,
			Message:  "tool.black.include is not a valid regular expression: " + regexpErrorMessage(err),
		}}
	}

	var findings []check.Finding
	for _, sample := range []string{"module.py", "module.pyi"} {
		if !re.MatchString(sample) {
			findings = append(findings, check.Finding{
				File:     file.Path,
				Line:     tableKeyLine(data, "tool.black", "include"),
				Module:   m.Name(),
				Severity: check.SeverityWarning,
				Message:  "tool.black.include does not match " + strings.TrimPrefix(sample, "module") + " files",
			})
		}
	}
	return findings
}

func (m *patternsModule) checkExclude(file check.FileInfo, data []byte, pattern string) []check.Finding {
	if pattern == "" {
		return []check.Finding{{
			File:     file.Path,
			Line:     pyproject.FindTableLine(data, "tool.black"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  "tool.black.exclude is not set",
		}}
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return []check.Finding{{
			File:     file.Path,
			Line:     tableKeyLine(data, "tool.black", "exclude"),
			Module:   m.Name(),
			Severity: check.SeverityCritical,
			Message:  "tool.black.exclude is not a valid regular expression: " + regexpErrorMessage(err),
		}}
	}

	var uncovered []string
	for _, dir := range m.profile.ExcludeDirs {
		// Black matches slash-delimited paths relative to the root.
		if !re.MatchString("/" + dir + "/") {
			uncovered = append(uncovered, dir)
		}
	}
	if len(uncovered) == 0 {
		return nil
	}
	return []check.Finding{{
		File:     file.Path,
		Line:     tableKeyLine(data, "tool.black", "exclude"),
		Module:   m.Name(),
		Severity: check.SeverityWarning,
		Message:  "tool.black.exclude does not cover: " + strings.Join(uncovered, ", "),
	}}
}

func (m *patternsModule) checkRuffExclude(file check.FileInfo, data []byte, exclude []string) []check.Finding {
	if exclude == nil {
		return []check.Finding{{
			File:     file.Path,
			Line:     pyproject.FindTableLine(data, "tool.ruff"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  "tool.ruff.exclude is not set",
		}}
	}

	covered := make(map[string]bool, len(exclude))
	for _, entry := range exclude {
		cleaned := strings.TrimSuffix(strings.TrimPrefix(entry, "./"), "/")
		covered[cleaned] = true
	}

	var uncovered []string
	for _, dir := range m.profile.ExcludeDirs {
		if !covered[dir] {
			uncovered = append(uncovered, dir)
		}
	}
	if len(uncovered) == 0 {
		return nil
	}
	return []check.Finding{{
		File:     file.Path,
		Line:     tableKeyLine(data, "tool.ruff", "exclude"),
		Module:   m.Name(),
		Severity: check.SeverityWarning,
		Message:  "tool.ruff.exclude does not cover: " + strings.Join(uncovered, ", "),
	}}
}

// regexpErrorMessage drops the "error parsing regexp: " preamble the
// stdlib puts on every compile error.
func regexpErrorMessage(err error) string {
	return strings.TrimPrefix(err.Error(), "error parsing regexp: ")
}
