package check

import "strconv"

// Severity grades a finding. Criticals fail the run; warnings and info
// only report.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

var severityNames = [...]string{"info", "warning", "critical"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "severity(" + strconv.Itoa(int(s)) + ")"
	}
	return severityNames[s]
}

// Finding is one audit result, tied to the file (and where known, the
// position) that produced it.
type Finding struct {
	File     string
	Line     int
	Column   int
	Module   string
	Severity Severity
	Message  string
}

// Location renders the position as line or line:column, or "-" when the
// finding has no position.
func (f Finding) Location() string {
	switch {
	case f.Line == 0:
		return "-"
	case f.Column > 0:
		return strconv.Itoa(f.Line) + ":" + strconv.Itoa(f.Column)
	default:
		return strconv.Itoa(f.Line)
	}
}

// FileInfo describes one file handed to a module's Check.
type FileInfo struct {
	Path    string // relative to the scan root
	AbsPath string // absolute path on disk
	Size    int64
}
