// Package config provides unified configuration loading for barw.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mucar/barw/internal/sim"
	"github.com/mucar/barw/internal/walk"
)

// Config contains all barw configuration settings.
type Config struct {
	// Simulation contains default run parameters.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Geometry contains the growth rules shared by all runs.
	Geometry GeometryConfig `json:"geometry" yaml:"geometry"`

	// Output contains settings for persistence and export.
	Output OutputConfig `json:"output" yaml:"output"`

	// Logging contains settings for operational and step logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SimulationConfig holds the default parameters for a run. Command-line flags
// override these per invocation.
type SimulationConfig struct {
	// Prob is the per-tip branching probability per step. Range: 0.0 to 1.0
	Prob float64 `json:"prob" yaml:"prob"`

	// FC is the strength of steering toward the reference direction.
	FC float64 `json:"fc" yaml:"fc"`

	// FS is the strength of self-interaction: negative values repel tips
	// from existing tissue, positive values attract them.
	FS float64 `json:"fs" yaml:"fs"`

	// TMax is the number of growth steps to simulate.
	TMax int `json:"tmax" yaml:"tmax"`

	// Seed initializes the random source. Equal seeds reproduce runs exactly.
	Seed int64 `json:"seed" yaml:"seed"`
}

// GeometryConfig configures the local growth rules.
type GeometryConfig struct {
	// StepLength is the distance a tip advances per step.
	StepLength float64 `json:"step_length" yaml:"step_length"`

	// MinAngle is the minimum angular separation between sibling strands
	// at a branch point, in radians.
	MinAngle float64 `json:"min_angle" yaml:"min_angle"`

	// RadAvoid is the radius within which existing tissue steers a tip.
	RadAvoid float64 `json:"rad_avoid" yaml:"rad_avoid"`

	// RadTermin is the radius within which a tip annihilates against tissue.
	RadTermin float64 `json:"rad_termin" yaml:"rad_termin"`

	// Jitter is the standard deviation of the Gaussian heading noise.
	Jitter float64 `json:"jitter" yaml:"jitter"`

	// TrailWindow is how many recent steps of a tip's own trail are exempt
	// from collision checks.
	TrailWindow int `json:"trail_window" yaml:"trail_window"`

	// RefAngle is the preferred growth direction in radians.
	RefAngle float64 `json:"ref_angle" yaml:"ref_angle"`
}

// OutputConfig configures where runs are stored and exported.
type OutputConfig struct {
	// DataDir is the directory holding the run database. Empty means ~/.barw.
	DataDir string `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`

	// ExportDir is the directory Arrow exports are written to.
	ExportDir string `json:"export_dir,omitempty" yaml:"export_dir,omitempty"`

	// ExportPrefix is prepended to exported file names.
	ExportPrefix string `json:"export_prefix,omitempty" yaml:"export_prefix,omitempty"`
}

// LoggingConfig configures barw's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables per-step logging to <data_dir>/steps.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with the standard parameterization.
func Default() *Config {
	g := walk.DefaultGeometry()
	p := sim.DefaultParams()
	return &Config{
		Simulation: SimulationConfig{
			Prob: p.Prob,
			FC:   p.FC,
			FS:   p.FS,
			TMax: p.TMax,
			Seed: p.Seed,
		},
		Geometry: GeometryConfig{
			StepLength:  g.StepLength,
			MinAngle:    g.MinAngle,
			RadAvoid:    g.RadAvoid,
			RadTermin:   g.RadTermin,
			Jitter:      g.Jitter,
			TrailWindow: g.TrailWindow,
			RefAngle:    g.RefAngle,
		},
		Output: OutputConfig{
			ExportDir:    ".",
			ExportPrefix: "barw",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.barw/config.yaml -> environment variables
func Load() (*Config, error) {
	config := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".barw", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := c.ToParams().Validate(); err != nil {
		return err
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// ToGeometry converts the geometry section to the growth rules the walk
// package consumes.
func (c *Config) ToGeometry() walk.Geometry {
	return walk.Geometry{
		StepLength:  c.Geometry.StepLength,
		MinAngle:    c.Geometry.MinAngle,
		RadAvoid:    c.Geometry.RadAvoid,
		RadTermin:   c.Geometry.RadTermin,
		Jitter:      c.Geometry.Jitter,
		TrailWindow: c.Geometry.TrailWindow,
		RefAngle:    c.Geometry.RefAngle,
	}
}

// ToParams builds run parameters from the configured defaults.
func (c *Config) ToParams() sim.Params {
	p := sim.DefaultParams()
	p.Prob = c.Simulation.Prob
	p.FC = c.Simulation.FC
	p.FS = c.Simulation.FS
	p.TMax = c.Simulation.TMax
	p.Seed = c.Simulation.Seed
	p.Geometry = c.ToGeometry()
	return p
}

// DataDir resolves the run database directory, falling back to the default
// when none is configured.
func (c *Config) DataDir() (string, error) {
	if c.Output.DataDir != "" {
		return c.Output.DataDir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".barw"), nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("BARW_PROB"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Simulation.Prob = f
		}
	}
	if v := os.Getenv("BARW_FC"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Simulation.FC = f
		}
	}
	if v := os.Getenv("BARW_FS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Simulation.FS = f
		}
	}
	if v := os.Getenv("BARW_TMAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.TMax = n
		}
	}
	if v := os.Getenv("BARW_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Simulation.Seed = n
		}
	}

	if v := os.Getenv("BARW_DATA_DIR"); v != "" {
		config.Output.DataDir = v
	}
	if v := os.Getenv("BARW_EXPORT_DIR"); v != "" {
		config.Output.ExportDir = v
	}

	if v := os.Getenv("BARW_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
