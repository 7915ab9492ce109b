package output

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sofmeright/soundcheck/src/check"
)

// Colors for terminal output.
const (
	colorReset    = "\033[0m"
	colorRed      = "\033[31m"
	colorGreen    = "\033[32m"
	colorYellow   = "\033[33m"
	colorCyan     = "\033[36m"
	colorGray     = "\033[90m"
	colorBold     = "\033[1m"
	colorBoldCyan = "\033[1;36m"
	colorDimCyan  = "\033[2;36m"
)

// Row budgets for findings output. Critical and warning rows always
// render (up to MaxFindingRows); info rows only while under the budget.
const (
	DefaultFindingsBudget = 30  // info rows shown before truncation
	MaxFindingRows        = 200 // hard cap on rendered finding rows
)

// FindingsSummaryLine returns a one-line findings summary, optionally colored.
func FindingsSummaryLine(total, critical, warning, info, filesScanned int, color bool) string {
	parts := []string{}
	if critical > 0 {
		parts = append(parts, paint(colorRed, fmt.Sprintf("%d critical", critical), color))
	}
	if warning > 0 {
		parts = append(parts, paint(colorYellow, fmt.Sprintf("%d warning", warning), color))
	}
	if info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", info))
	}

	summary := "no findings"
	if len(parts) > 0 {
		summary = strings.Join(parts, ", ")
	}

	totalStr := paint(colorBold, fmt.Sprintf("%d", total), color)
	return fmt.Sprintf("%s findings in %d files: %s", totalStr, filesScanned, summary)
}

// severityTag returns a short severity label, optionally colored.
func severityTag(s check.Severity, color bool) string {
	switch s {
	case check.SeverityCritical:
		return paint(colorRed, "CRIT", color)
	case check.SeverityWarning:
		return paint(colorYellow, "WARN", color)
	case check.SeverityInfo:
		return paint(colorGray, "INFO", color)
	default:
		return s.String()
	}
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal() || IsCI()
}

// LintTable writes a per-module stats table inside a section. Each row
// ends with the module's status icon: failing on criticals, issues on
// warnings, passing otherwise.
func LintTable(sec *Section, stats []check.ModuleStats, color bool) {
	sec.Row("%-16s%6s  %6s  %s", "module", "files", "cached", "findings")

	for _, s := range stats {
		status := "passing"
		switch {
		case s.Critical > 0:
			status = "failing"
		case s.Warnings > 0:
			status = "issues"
		}
		sec.Row("%-16s%5d   %5d   %5d  %s", s.Name, s.Files, s.Cached, s.Findings, StatusIcon(status, color))
	}
}

// SectionFindings renders findings grouped by file inside a section.
// Files are sorted lexicographically; findings within each file by line,
// col, module, message. budget caps the number of info rows; critical and
// warning rows always render up to MaxFindingRows. A budget of 0 disables
// truncation entirely.
func SectionFindings(sec *Section, findings []check.Finding, color bool, budget int) {
	if len(findings) == 0 {
		return
	}

	byFile := map[string][]check.Finding{}
	for _, f := range findings {
		byFile[f.File] = append(byFile[f.File], f)
	}

	files := make([]string, 0, len(byFile))
	for file := range byFile {
		files = append(files, file)
	}
	sort.Strings(files)

	sec.Row("")

	emitted := 0
	suppressed := 0
	hitMax := false

	for _, file := range files {
		ff := byFile[file]
		sort.Slice(ff, func(i, j int) bool {
			a, b := ff[i], ff[j]
			if a.Line != b.Line {
				return a.Line < b.Line
			}
			if a.Column != b.Column {
				return a.Column < b.Column
			}
			if a.Module != b.Module {
				return a.Module < b.Module
			}
			return a.Message < b.Message
		})

		// Decide what survives the budget before writing the file header,
		// so fully truncated files don't leave an empty group behind.
		var show []check.Finding
		for _, f := range ff {
			if budget > 0 && emitted+len(show) >= MaxFindingRows {
				hitMax = true
				break
			}
			if budget > 0 && f.Severity == check.SeverityInfo && emitted+len(show) >= budget {
				continue
			}
			show = append(show, f)
		}
		suppressed += len(ff) - len(show)

		if len(show) == 0 {
			continue
		}

		sec.Row("%s", paint(colorBold, file, color))

		for _, f := range show {
			sec.Row("  %-8s %-4s  %-10s %s", f.Location(), severityTag(f.Severity, color), f.Module, f.Message)
		}
		emitted += len(show)

		sec.Row("")
	}

	if suppressed > 0 {
		if hitMax {
			sec.Row("%s", Dimmed(fmt.Sprintf("… and %d more (hit max output %d; run with --verbose for the full list)", suppressed, MaxFindingRows), color))
		} else {
			sec.Row("%s", Dimmed(fmt.Sprintf("… and %d more info findings (run with --verbose for the full list)", suppressed), color))
		}
		sec.Row("")
	}
}
