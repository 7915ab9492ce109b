package config

// Level controls how much of the repository gets scanned.
type Level string

const (
	LevelChanged Level = "changed"
	LevelFull    Level = "full"
)

// ModuleConfig holds per-check overrides.
type ModuleConfig struct {
	Enabled *bool          `yaml:"enabled,omitempty"`
	Exclude []string       `yaml:"exclude,omitempty"`
	Options map[string]any `yaml:"options,omitempty"`
}

// CheckConfig configures the lint command and its audit engine.
type CheckConfig struct {
	Level        Level                   `yaml:"level"`
	Cache        *bool                   `yaml:"cache,omitempty"`
	CacheDir     string                  `yaml:"cache_dir,omitempty"`
	TargetBranch string                  `yaml:"target_branch,omitempty"`
	Exclude      []string                `yaml:"exclude,omitempty"`
	Checks       map[string]ModuleConfig `yaml:"checks,omitempty"`
}

// CacheEnabled resolves the cache toggle; caching defaults to on.
func (c CheckConfig) CacheEnabled() bool {
	return c.Cache == nil || *c.Cache
}

// DefaultCheckConfig returns production defaults.
func DefaultCheckConfig() CheckConfig {
	return CheckConfig{
		Level:   LevelChanged,
		Exclude: []string{},
		Checks:  map[string]ModuleConfig{},
	}
}
