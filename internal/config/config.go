// Package config loads and validates the .tddguard.yaml
// configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Generation modes.
const (
	ModeMinimal       = "minimal"
	ModeStandard      = "standard"
	ModeComprehensive = "comprehensive"
)

// Config is the full tddguard configuration.
type Config struct {
	Generation Generation `yaml:"generation"`
	Thresholds Thresholds `yaml:"thresholds"`
}

// Generation controls test-synthesis breadth and resources.
type Generation struct {
	// Mode is the strategy breadth: minimal | standard |
	// comprehensive.
	Mode string `yaml:"mode"`

	// Intensity in [0,1] scales case counts, trial counts, and task
	// budgets.
	Intensity float64 `yaml:"intensity"`

	// Workers bounds concurrent generation tasks.
	Workers int `yaml:"workers"`
}

// Thresholds holds the quality and violation cutoffs.
type Thresholds struct {
	// CoverageTarget is the fractional coverage goal (0,1].
	CoverageTarget float64 `yaml:"coverage_target"`

	// AssertionStrength is the minimum acceptable assertion-strength
	// ratio (0,1].
	AssertionStrength float64 `yaml:"assertion_strength"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Generation: Generation{
			Mode:      ModeStandard,
			Intensity: 0.5,
			Workers:   4,
		},
		Thresholds: Thresholds{
			CoverageTarget:    0.95,
			AssertionStrength: 0.6,
		},
	}
}

// Load reads a config file, merging it over the defaults. An empty
// path returns the defaults; a missing explicit path is an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field range.
func (c *Config) Validate() error {
	switch c.Generation.Mode {
	case ModeMinimal, ModeStandard, ModeComprehensive:
	default:
		return fmt.Errorf("invalid mode %q: must be minimal, standard, or comprehensive", c.Generation.Mode)
	}
	if c.Generation.Intensity < 0 || c.Generation.Intensity > 1 {
		return fmt.Errorf("invalid intensity %.2f: must be in [0, 1]", c.Generation.Intensity)
	}
	if c.Generation.Workers < 1 {
		return fmt.Errorf("invalid workers %d: must be at least 1", c.Generation.Workers)
	}
	if c.Thresholds.CoverageTarget <= 0 || c.Thresholds.CoverageTarget > 1 {
		return fmt.Errorf("invalid coverage_target %.2f: must be in (0, 1]", c.Thresholds.CoverageTarget)
	}
	if c.Thresholds.AssertionStrength <= 0 || c.Thresholds.AssertionStrength > 1 {
		return fmt.Errorf("invalid assertion_strength %.2f: must be in (0, 1]", c.Thresholds.AssertionStrength)
	}
	return nil
}

// Override applies non-sentinel flag values over the loaded config.
// Negative numeric values and an empty mode leave the config
// untouched.
func (c *Config) Override(mode string, intensity float64, workers int) error {
	if mode != "" {
		c.Generation.Mode = mode
	}
	if intensity >= 0 {
		c.Generation.Intensity = intensity
	}
	if workers > 0 {
		c.Generation.Workers = workers
	}
	return c.Validate()
}
