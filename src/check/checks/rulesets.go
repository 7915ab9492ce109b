package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/sofmeright/soundcheck/src/check"
	"github.com/sofmeright/soundcheck/src/pyproject"
	"github.com/sofmeright/soundcheck/src/rules"
)

func init() {
	check.Register("rulesets", func() check.Module { return &rulesetsModule{} })
}

type rulesetsModule struct {
	profile pyproject.Profile
}

func (m *rulesetsModule) Name() string         { return "rulesets" }
func (m *rulesetsModule) DefaultEnabled() bool { return true }
func (m *rulesetsModule) AutoDetect() []string { return []string{"pyproject.toml"} }

func (m *rulesetsModule) SetProfile(p pyproject.Profile) { m.profile = p }

func (m *rulesetsModule) Check(ctx context.Context, file check.FileInfo) ([]check.Finding, error) {
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
	if err != nil {
		// Decode errors are reported by the schema module.
		return nil, nil
	}
	if ruff == nil {
		return []check.Finding{{
			File:     file.Path,
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  "tool.ruff is not configured",
		}}, nil
	}

	var findings []check.Finding
	sel := ruff.EffectiveSelect()
	ign := ruff.EffectiveIgnore()

	findings = append(findings, m.unknownSelectors(file, data, "select", sel)...)
	findings = append(findings, m.unknownSelectors(file, data, "ignore", ign)...)

	// Coverage analysis only considers selectors that exist; bogus ones
	// are already critical findings above.
	sel = knownOnly(sel)
	ign = knownOnly(ign)

	if missing := uncovered(m.profile.Select, sel); len(missing) > 0 {
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     pyproject.FindKeyLine(data, "select"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message: fmt.Sprintf("tool.ruff select is missing rule categories: %s (expected %s)",
				strings.Join(missing, ", "), strings.Join(m.profile.Select, ", ")),
		})
	}
	if extra := beyond(sel, m.profile.Select); len(extra) > 0 {
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     pyproject.FindKeyLine(data, "select"),
			Module:   m.Name(),
			Severity: check.SeverityInfo,
			Message:  "tool.ruff selects rules beyond the expected set: " + strings.Join(extra, ", "),
		})
	}

	if missing := uncovered(m.profile.Ignore, ign); len(missing) > 0 {
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     pyproject.FindKeyLine(data, "ignore"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  "tool.ruff ignore is missing: " + strings.Join(missing, ", "),
		})
	}
	if extra := beyond(ign, m.profile.Ignore); len(extra) > 0 {
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     pyproject.FindKeyLine(data, "ignore"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  "tool.ruff ignores rules beyond the expected set: " + strings.Join(extra, ", "),
		})
	}

	// Ignoring a code within a selected category is fine (E501 under E);
	// ignoring the selected scope itself cancels the selection.
	for _, s := range sel {
		for _, ig := range ign {
			if !rules.Within(s, ig) {
				continue
			}
			msg := fmt.Sprintf("selector %s appears in both select and ignore", s)
			if ig != s {
				msg = fmt.Sprintf("ignore %s cancels selected %s", ig, s)
			}
			findings = append(findings, check.Finding{
				File:     file.Path,
				Line:     pyproject.FindKeyLine(data, "ignore"),
				Module:   m.Name(),
				Severity: check.SeverityWarning,
				Message:  msg,
			})
		}
	}

	switch {
	case ruff.Fix == nil:
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     pyproject.FindTableLine(data, "tool.ruff"),
			Module:   m.Name(),
			Severity: check.SeverityInfo,
			Message:  fmt.Sprintf("tool.ruff.fix is not set (expected %t)", m.profile.Fix),
		})
	case *ruff.Fix != m.profile.Fix:
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     pyproject.FindKeyLine(data, "fix"),
			Module:   m.Name(),
			Severity: check.SeverityWarning,
			Message:  fmt.Sprintf("tool.ruff.fix is %t, expected %t", *ruff.Fix, m.profile.Fix),
		})
	}

	return findings, nil
}

func (m *rulesetsModule) unknownSelectors(file check.FileInfo, data []byte, key string, selectors []string) []check.Finding {
	var findings []check.Finding
	for _, s := range selectors {
		if rules.IsKnown(s) {
			continue
		}
		findings = append(findings, check.Finding{
			File:     file.Path,
			Line:     pyproject.FindKeyLine(data, key),
			Module:   m.Name(),
			Severity: check.SeverityCritical,
			Message:  fmt.Sprintf("unknown rule selector %q in tool.ruff %s", s, key),
		})
	}
	return findings
}

// uncovered returns the wanted selectors that no configured selector
// covers. A bare category is covered by itself but not by a single
// rule within it: selecting E101 does not enable all of E.
func uncovered(wanted, configured []string) []string {
	var missing []string
	for _, w := range wanted {
		covered := false
		for _, c := range configured {
			if rules.Within(w, c) {
				covered = true
				break
			}
		}
		if !covered {
			missing = append(missing, w)
		}
	}
	return missing
}

// beyond returns configured selectors that fall outside every wanted
// category. E501 is within E, so it never counts as beyond {E}.
func beyond(configured, wanted []string) []string {
	var extra []string
	for _, c := range configured {
		outside := true
		for _, w := range wanted {
			if rules.Within(c, w) {
				outside = false
				break
			}
		}
		if outside {
			extra = append(extra, c)
		}
	}
	return extra
}

func knownOnly(selectors []string) []string {
	kept := make([]string, 0, len(selectors))
	for _, s := range selectors {
		if rules.IsKnown(s) {
			kept = append(kept, s)
		}
	}
	return kept
}

