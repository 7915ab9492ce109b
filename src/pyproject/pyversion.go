package pyproject

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

var (
	pythonVersionRe = regexp.MustCompile(`^([0-9]+)\.([0-9]+)$`)
	targetVersionRe = regexp.MustCompile(`^py([0-9])([0-9]{1,2})$`)
)

// ParsePythonVersion parses a MAJOR.MINOR marker like "3.10" into a
// comparable version. The type checker only accepts the two-part form,
// so "3" and "3.10.1" are rejected.
func ParsePythonVersion(s string) (*semver.Version, error) {
	if !pythonVersionRe.MatchString(s) {
		return nil, fmt.Errorf("invalid python version %q: want MAJOR.MINOR like 3.10", s)
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("invalid python version %q: %w", s, err)
	}
	return v, nil
}

// TargetToPythonVersion converts a formatter/linter marker like "py310"
// to the type-checker form "3.10".
func TargetToPythonVersion(target string) (string, error) {
	m := targetVersionRe.FindStringSubmatch(target)
	if m == nil {
		return "", fmt.Errorf("invalid target version %q: want pyXY like py310", target)
	}
	return m[1] + "." + m[2], nil
}

// PythonToTargetVersion converts "3.10" to "py310".
func PythonToTargetVersion(version string) (string, error) {
	m := pythonVersionRe.FindStringSubmatch(version)
	if m == nil {
		return "", fmt.Errorf("invalid python version %q: want MAJOR.MINOR like 3.10", version)
	}
	return "py" + m[1] + m[2], nil
}

// ParseVersionConstraint parses a required-version value. Tool configs
// accept either a bare release, which pins that release, or a
// constraint expression like ">=23.1".
func ParseVersionConstraint(s string) (*semver.Constraints, error) {
	c, err := semver.NewConstraint(s)
	if err != nil {
		return nil, fmt.Errorf("invalid version constraint %q: %w", s, err)
	}
	return c, nil
}
