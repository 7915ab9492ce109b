package checks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sofmeright/soundcheck/src/check"
	"github.com/sofmeright/soundcheck/src/pyproject"
)

func init() {
	check.Register("consistency", func() check.Module { return &consistencyModule{} })
}

type consistencyModule struct {
	profile pyproject.Profile
}

func (m *consistencyModule) Name() string         { return "consistency" }
func (m *consistencyModule) DefaultEnabled() bool { return true }
func (m *consistencyModule) AutoDetect() []string { return []string{"pyproject.toml"} }

func (m *consistencyModule) SetProfile(p pyproject.Profile) { m.profile = p }

func (m *consistencyModule) Check(ctx context.Context, file check.FileInfo) ([]check.Finding, error) {
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

	black, berr := doc.Black()
	mypy, merr := doc.Mypy()
	ruff, rerr := doc.Ruff()
	if berr != nil || merr != nil || rerr != nil {
		// Decode errors are reported by the schema module.
		return nil, nil
	}

	var findings []check.Finding
	findings = append(findings, m.checkTargetVersions(file, data, black, mypy, ruff)...)
	findings = append(findings, m.checkExcludeParity(file, data, black, ruff)...)
	findings = append(findings, m.checkRequiredVersions(file, data, black, ruff)...)

	return findings, nil
}

func (m *consistencyModule) checkTargetVersions(file check.FileInfo, data []byte, black *pyproject.BlackSettings, mypy *pyproject.MypySettings, ruff *pyproject.RuffSettings) []check.Finding {
	var findings []check.Finding

	valid := func(tool, target string) bool {
		if _, err := pyproject.TargetToPythonVersion(target); err != nil {
			findings = append(findings, check.Finding{
				File:     file.Path,
				Line:     tableKeyLine(data, "tool."+tool, "target-version"),
				Module:   m.Name(),
				Severity: check.SeverityCritical,
				Message:  fmt.Sprintf("tool.%s.target-version %q is not a recognized version (expected e.g. py310)", tool, target),
			})
			return false
		}
		return true
	}

	// A multi-entry black target list legitimately spans versions, so
	// only a single pin participates in the comparisons below.
	blackTarget := ""
	if black != nil {
		for _, t := range black.TargetVersion {
			if valid("black", t) && len(black.TargetVersion) == 1 {
				blackTarget = t
			}
		}
	}
	ruffTarget := ""
	if ruff != nil && ruff.TargetVersion != "" && valid("ruff", ruff.TargetVersion) {
		ruffTarget = ruff.TargetVersion
	}
	mypyVersion := ""
	if mypy != nil {
		mypyVersion = mypy.PythonVersion
	}

	if blackTarget != "" && ruffTarget != "" && blackTarget != ruffTarget {
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     tableKeyLine(data, "tool.ruff", "target-version"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  fmt.Sprintf("black and ruff disagree on target version: %s vs %s", blackTarget, ruffTarget),
		})
	}

	if mypyVersion == "" {
		return findings
	}
	for _, pair := range []struct {
		tool   string
		target string
	}{
		{"black", blackTarget},
		{"ruff", ruffTarget},
	} {
		if pair.target == "" {
			continue
		}
		converted, err := pyproject.TargetToPythonVersion(pair.target)
		if err != nil || converted == mypyVersion {
			continue
		}
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     pyproject.FindKeyLine(data, "python_version"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  fmt.Sprintf("%s targets %s but mypy checks %s", pair.tool, pair.target, mypyVersion),
		})
	}

	return findings
}

// checkExcludeParity flags directories the formatter's exclude regex
// covers that the linter's exclude list omits. Only directories we can
// name are probed; arbitrary regex matches are not enumerable.
func (m *consistencyModule) checkExcludeParity(file check.FileInfo, data []byte, black *pyproject.BlackSettings, ruff *pyproject.RuffSettings) []check.Finding {
	if black == nil || ruff == nil || black.Exclude == "" || ruff.Exclude == nil {
		return nil
	}
	re, err := regexp.Compile(black.Exclude)
	if err != nil {
		// Broken patterns are the patterns module's finding.
		return nil
	}

	ruffHas := make(map[string]bool, len(ruff.Exclude))
	for _, entry := range ruff.Exclude {
		ruffHas[strings.TrimSuffix(strings.TrimPrefix(entry, "./"), "/")] = true
	}

	var missing []string
	for _, dir := range m.profile.ExcludeDirs {
		if re.MatchString("/"+dir+"/") && !ruffHas[dir] {
			missing = append(missing, dir)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return []check.Finding{{
		File:     file.Path,
		Line:     tableKeyLine(data, "tool.ruff", "exclude"),
		Module:   m.Name(),
		Severity: check.SeverityInfo,
		Message:  "black excludes directories ruff does not: " + strings.Join(missing, ", "),
	}}
}

func (m *consistencyModule) checkRequiredVersions(file check.FileInfo, data []byte, black *pyproject.BlackSettings, ruff *pyproject.RuffSettings) []check.Finding {
	if black == nil || ruff == nil {
		return nil
	}
	blackPinned := black.RequiredVersion != ""
	ruffPinned := ruff.RequiredVersion != ""
	if blackPinned == ruffPinned {
		return nil
	}

	pinned, bare := "black", "ruff"
	if ruffPinned {
		pinned, bare = "ruff", "black"
	}
	return []check.Finding{{
		File:     file.Path,
		Line:     pyproject.FindKeyLine(data, "required-version"),
		Module:   m.Name(),
		Severity: check.SeverityInfo,
		Message:  fmt.Sprintf("%s pins required-version but %s does not", pinned, bare),
	}}
}
