package config

// BadgeConfig holds badge generation configuration.
type BadgeConfig struct {
	Label    string  `yaml:"label"`     // left side text (default: "soundcheck")
	Font     string  `yaml:"font"`      // built-in font name (default: "dejavu-sans")
	FontSize float64 `yaml:"font_size"` // pixel size (default: 11)
	FontFile string  `yaml:"font_file"` // path to custom TTF/OTF (overrides Font)
	Output   string  `yaml:"output"`    // file path (default: .soundcheck/badges/soundcheck.svg)
}

// DefaultBadgeConfig returns sensible defaults for badge generation.
func DefaultBadgeConfig() BadgeConfig {
	return BadgeConfig{
		Label:    "soundcheck",
		Font:     "dejavu-sans",
		FontSize: 11,
	}
}
