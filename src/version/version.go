package version

import "strings"

// Injected at release build time via -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String renders the one-line version, leaving out build metadata a
// plain source build does not carry.
func String() string {
	var meta []string
	if Commit != "unknown" {
		meta = append(meta, Commit)
	}
	if BuildDate != "unknown" {
		meta = append(meta, BuildDate)
	}
	if len(meta) == 0 {
		return "soundcheck " + Version
	}
	return "soundcheck " + Version + " (" + strings.Join(meta, ", ") + ")"
}
