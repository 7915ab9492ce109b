package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sofmeright/soundcheck/src/pyproject"
	"github.com/sofmeright/soundcheck/src/rules"
)

// identifierRe matches valid check names: letter-first, alphanumeric + _ . -
var identifierRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.\-]*$`)

// isIdentifier returns true if s looks like a check name (letter-first identifier).
func isIdentifier(s string) bool {
	return identifierRe.MatchString(s)
}

// Validate checks structural invariants of a loaded Config.
// Returns warnings (soft issues) and a hard error if the config is invalid.
func Validate(cfg *Config) (warnings []string, err error) {
	var errs []string

	// ── Version ───────────────────────────────────────────────────────────

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("version: must be 1, got %d", cfg.Version))
	}

	// ── Lint ──────────────────────────────────────────────────────────────

	switch cfg.Lint.Level {
	case "", LevelChanged, LevelFull:
	default:
		errs = append(errs, fmt.Sprintf("lint.level: unknown level %q (supported: changed, full)", cfg.Lint.Level))
	}

	if cfg.Lint.CacheDir != "" {
		errs = append(errs, validateRelativePath(cfg.Lint.CacheDir, "lint.cache_dir")...)
	}

	for name := range cfg.Lint.Checks {
		if !isIdentifier(name) {
			errs = append(errs, fmt.Sprintf("lint.checks: key %q is not a valid check name (must match [a-zA-Z][a-zA-Z0-9_.\\-]*)", name))
		}
	}

	// ── Profile ───────────────────────────────────────────────────────────

	if cfg.Profile.LineLength != nil {
		if ll := *cfg.Profile.LineLength; ll < 1 || ll > 320 {
			errs = append(errs, fmt.Sprintf("profile.line_length: %d is out of range (must be 1-320)", ll))
		}
	}

	if cfg.Profile.TargetVersion != "" {
		if _, terr := pyproject.TargetToPythonVersion(cfg.Profile.TargetVersion); terr != nil {
			errs = append(errs, fmt.Sprintf("profile.target_version: %v", terr))
		}
	}

	for _, sel := range cfg.Profile.Select {
		if !rules.IsKnown(sel) {
			errs = append(errs, fmt.Sprintf("profile.select: unknown rule selector %q", sel))
		}
	}
	for _, sel := range cfg.Profile.Ignore {
		if !rules.IsKnown(sel) {
			errs = append(errs, fmt.Sprintf("profile.ignore: unknown rule selector %q", sel))
		}
	}

	for _, dir := range cfg.Profile.ExtraExclude {
		if strings.ContainsAny(dir, "/\\") {
			warnings = append(warnings, fmt.Sprintf("profile.extra_exclude: %q looks like a path; exclusions are directory names", dir))
		}
	}

	// ── Badge ─────────────────────────────────────────────────────────────

	if cfg.Badge.FontSize < 0 {
		errs = append(errs, fmt.Sprintf("badge.font_size: must be positive, got %g", cfg.Badge.FontSize))
	}
	if cfg.Badge.Output != "" {
		errs = append(errs, validateRelativePath(cfg.Badge.Output, "badge.output")...)
	}
	if cfg.Badge.FontFile != "" {
		ext := strings.ToLower(filepath.Ext(cfg.Badge.FontFile))
		if ext != ".ttf" && ext != ".otf" {
			warnings = append(warnings, fmt.Sprintf("badge.font_file: %q does not look like a TTF/OTF font", cfg.Badge.FontFile))
		}
	}

	if len(errs) > 0 {
		return warnings, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return warnings, nil
}

// validateRelativePath checks that a configured path is safe to write under
// the repository root.
func validateRelativePath(p string, key string) []string {
	var errs []string

	if filepath.IsAbs(p) {
		errs = append(errs, fmt.Sprintf("%s: path %q must be relative, not absolute", key, p))
		return errs
	}

	if strings.HasPrefix(p, "~") {
		errs = append(errs, fmt.Sprintf("%s: path %q must not start with ~", key, p))
		return errs
	}

	// Windows drive prefix
	if len(p) >= 2 && p[1] == ':' && ((p[0] >= 'A' && p[0] <= 'Z') || (p[0] >= 'a' && p[0] <= 'z')) {
		errs = append(errs, fmt.Sprintf("%s: path %q looks like a Windows drive path", key, p))
		return errs
	}

	if strings.Contains(p, "..") {
		errs = append(errs, fmt.Sprintf("%s: path %q must not contain '..'", key, p))
		return errs
	}

	// Normalize: strip leading ./ then compare with filepath.Clean
	normalized := strings.TrimPrefix(p, "./")
	clean := filepath.Clean(normalized)
	if clean != normalized {
		errs = append(errs, fmt.Sprintf("%s: path %q is not in canonical form (cleaned to %q)", key, p, clean))
		return errs
	}

	return errs
}
