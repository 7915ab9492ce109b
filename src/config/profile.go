package config

import "github.com/sofmeright/soundcheck/src/pyproject"

// ProfileConfig holds per-project adjustments to the curated profile.
// Everything is optional; unset fields keep the curated value.
type ProfileConfig struct {
	LineLength    *int     `yaml:"line_length,omitempty"`
	TargetVersion string   `yaml:"target_version,omitempty"`
	Select        []string `yaml:"select,omitempty"`
	Ignore        []string `yaml:"ignore,omitempty"`
	ExtraExclude  []string `yaml:"extra_exclude,omitempty"`
	Fix           *bool    `yaml:"fix,omitempty"`
}

// Overrides converts the YAML form into profile overrides.
func (p ProfileConfig) Overrides() pyproject.ProfileOverrides {
	return pyproject.ProfileOverrides{
		LineLength:    p.LineLength,
		TargetVersion: p.TargetVersion,
		Select:        p.Select,
		Ignore:        p.Ignore,
		ExtraExclude:  p.ExtraExclude,
		Fix:           p.Fix,
	}
}

// Resolve applies the overrides to the curated profile.
func (p ProfileConfig) Resolve() pyproject.Profile {
	return pyproject.DefaultProfile().With(p.Overrides())
}
