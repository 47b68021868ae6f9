// Package config persists the viewer's sticky state between runs:
// pinned and hidden fields plus the last display options.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk viewer configuration.
type Config struct {
	// Pinned fields always render at the top and never scroll away.
	Pinned []string `yaml:"pinned"`
	// Hidden fields are excluded from the report.
	Hidden []string `yaml:"hidden"`
	// Units is the value unit label: KiB, MB, MiB, GB, GiB or human.
	Units string `yaml:"units"`
	// Interval is the column interval label: Var, 5s, 15s, 30s, 1m, 5m, 15m or 1h.
	Interval string `yaml:"interval"`
	// SampleSec is the acquisition cadence in seconds.
	SampleSec float64 `yaml:"sample_sec"`
	// LogFile receives diagnostics while the TUI owns the terminal.
	LogFile string `yaml:"log_file"`
}

var validUnits = map[string]bool{
	"KiB": true, "MB": true, "MiB": true, "GB": true, "GiB": true, "human": true,
}

var validIntervals = map[string]bool{
	"Var": true, "5s": true, "15s": true, "30s": true,
	"1m": true, "5m": true, "15m": true, "1h": true,
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		Pinned:    []string{"MemTotal", "MemAvailable"},
		Hidden:    []string{"KernelStack", "Active(file)"},
		Units:     "MiB",
		Interval:  "Var",
		SampleSec: 1.0,
		LogFile:   "",
	}
}

// Path resolves the config file location for the given profile name,
// ~/.config/memfo/<name>.yaml.
func Path(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "memfo", name+".yaml"), nil
}

// Load reads the file at path, merging over defaults. A missing file is
// not an error; it just yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks option values and bounds.
func (c *Config) Validate() error {
	if !validUnits[c.Units] {
		return fmt.Errorf("units must be one of KiB, MB, MiB, GB, GiB, human; got %q", c.Units)
	}
	if !validIntervals[c.Interval] {
		return fmt.Errorf("interval must be one of Var, 5s, 15s, 30s, 1m, 5m, 15m, 1h; got %q", c.Interval)
	}
	if c.SampleSec < 0.5 || c.SampleSec > 3600 {
		return fmt.Errorf("sample_sec must be in [0.5, 3600], got %g", c.SampleSec)
	}
	return nil
}

// Save writes the configuration, creating parent directories as needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
