package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".soundcheck.yml"

// Config is the top-level SoundCheck configuration.
type Config struct {
	Version int           `yaml:"version"`
	Lint    CheckConfig   `yaml:"lint"`
	Profile ProfileConfig `yaml:"profile"`
	Badge   BadgeConfig   `yaml:"badge"`
}

// Load reads configuration from a YAML file.
// If path is empty, it tries the default file.
// Returns sensible defaults if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults(), nil
		}
		return nil, err
	}

	// Lift unversioned first-generation files in memory so old configs
	// keep working until the user rewrites them with migrate.
	if ver, verr := peekVersion(data); verr == nil && ver == 0 {
		migrated, merr := MigrateToLatest(data)
		if merr != nil {
			return nil, merr
		}
		data = migrated
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Version: 1,
		Lint:    DefaultCheckConfig(),
		Badge:   DefaultBadgeConfig(),
	}
}
