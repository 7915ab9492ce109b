package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// legacyConfig is the unversioned first-generation layout: check settings
// sat at the top level instead of under lint, and there was no version
// field.
type legacyConfig struct {
	Level        Level                   `yaml:"level"`
	Cache        *bool                   `yaml:"cache"`
	CacheDir     string                  `yaml:"cache_dir"`
	TargetBranch string                  `yaml:"target_branch"`
	Exclude      []string                `yaml:"exclude"`
	Checks       map[string]ModuleConfig `yaml:"checks"`
	Profile      ProfileConfig           `yaml:"profile"`
	Badge        BadgeConfig             `yaml:"badge"`
}

// MigrateToLatest takes raw YAML data and migrates it to the current schema version.
// Returns the migrated YAML bytes ready for writing.
//
// Migration chain:
//
//	unversioned → version 1 (check settings move under lint)
//	version 1   → current (no-op, already latest)
func MigrateToLatest(data []byte) ([]byte, error) {
	ver, err := peekVersion(data)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	switch ver {
	case 1:
		// Already at the latest schema version — nothing to do.
		return data, nil
	case 0:
		return migrateLegacy(data)
	default:
		return nil, fmt.Errorf("migrate: unknown config version %d (latest supported: 1)", ver)
	}
}

// migrateLegacy lifts an unversioned flat config into the version 1 layout.
func migrateLegacy(data []byte) ([]byte, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var legacy legacyConfig
	if err := dec.Decode(&legacy); err != nil {
		if errors.Is(err, io.EOF) {
			legacy = legacyConfig{}
		} else {
			return nil, fmt.Errorf("migrate: config is not a recognizable unversioned layout: %w", err)
		}
	}

	cfg := Config{
		Version: 1,
		Lint: CheckConfig{
			Level:        legacy.Level,
			Cache:        legacy.Cache,
			CacheDir:     legacy.CacheDir,
			TargetBranch: legacy.TargetBranch,
			Exclude:      legacy.Exclude,
			Checks:       legacy.Checks,
		},
		Profile: legacy.Profile,
		Badge:   legacy.Badge,
	}
	// Fields the unversioned file never set fall back to current
	// defaults. Optional booleans are pointers, so an explicit false
	// survives the fill.
	if err := mergo.Merge(&cfg, defaults()); err != nil {
		return nil, fmt.Errorf("migrate: applying defaults: %w", err)
	}

	out, err := yaml.Marshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("migrate: encoding version 1 config: %w", err)
	}
	return out, nil
}

// peekVersion extracts the version field from raw YAML without full parsing.
// Returns 0 if no version field is present.
func peekVersion(data []byte) (int, error) {
	// Quick parse — only need the version field.
	var probe struct {
		Version int `yaml:"version"`
	}

	// Use a lenient decoder (no KnownFields) since we only care about version.
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("reading version: %w", err)
	}

	return probe.Version, nil
}
