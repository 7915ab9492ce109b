package output

import (
	"fmt"
	"sort"
	"strings"
)

const MaxChanges = 20

// AppliedChange is the view model for a single setting rewritten by
// fmt or migrate.
type AppliedChange struct {
	Key    string // "tool.black.line-length"
	Old    string // previous value; empty when the key was absent
	New    string // value after the rewrite
	Source string // file the value came from (legacy absorption), if any
}

// SkippedGroup is a pre-aggregated skip summary entry.
type SkippedGroup struct {
	Reason string
	Count  int
}

// SectionChanges renders the "Migrated (N)" or "Would change (N)" block.
func SectionChanges(sec *Section, header string, changes []AppliedChange, color bool) {
	if len(changes) == 0 {
		return
	}

	sec.Row("")
	sec.Row("%s", paint(colorBold, fmt.Sprintf("%s (%d)", header, len(changes)), color))

	show := len(changes)
	if show > MaxChanges {
		show = MaxChanges
	}

	for i := 0; i < show; i++ {
		c := changes[i]
		sec.Row("  %s", strings.TrimSpace(c.Key))

		old := strings.TrimSpace(c.Old)
		if old == "" {
			old = "(unset)"
		}
		sec.Row("    %s → %s", old, strings.TrimSpace(c.New))

		if src := strings.TrimSpace(c.Source); src != "" {
			sec.Row("%s", Dimmed("    from "+src, color))
		}
	}

	if len(changes) > MaxChanges {
		remaining := len(changes) - MaxChanges
		sec.Row("%s", Dimmed(fmt.Sprintf("  … and %d more", remaining), color))
	}

	sec.Row("")
}

// SectionSkipped renders the "Skipped (N)" block (pre-aggregated).
func SectionSkipped(sec *Section, header string, groups []SkippedGroup, color bool) {
	if len(groups) == 0 {
		return
	}

	total := 0
	for _, g := range groups {
		total += g.Count
	}

	sec.Row("")
	sec.Row("%s", paint(colorBold, fmt.Sprintf("%s (%d)", header, total), color))

	// Sort by count desc, then reason asc.
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Reason < groups[j].Reason
	})

	for _, g := range groups {
		sec.Row("  %-22s %d", g.Reason, g.Count)
	}

	sec.Row("")
}
