// Package config handles loading and validating branchsweep configuration
// from a config file and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Config holds all branchsweep configuration.
type Config struct {
	StaleDays  int      `yaml:"stale_days"`  // untouched this long means stale
	MergedDays int      `yaml:"merged_days"` // merged and untouched this long means deletable
	Remote     string   `yaml:"remote"`
	MergedInto string   `yaml:"merged_into"` // ref that merged branches are merged into
	Protected  []string `yaml:"protected"`   // extra names on top of the built-in set
	Workers    int      `yaml:"workers"`     // concurrent git invocations
	Verbose    bool     `yaml:"verbose"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		StaleDays:  90,
		MergedDays: 14,
		Remote:     "origin",
		MergedInto: "@{upstream}",
		Workers:    min(8, runtime.NumCPU()*2),
	}
}

// StaleAge returns the stale threshold as a duration.
func (c Config) StaleAge() time.Duration {
	return time.Duration(c.StaleDays) * 24 * time.Hour
}

// MergedAge returns the merged threshold as a duration.
func (c Config) MergedAge() time.Duration {
	return time.Duration(c.MergedDays) * 24 * time.Hour
}

// Load reads configuration from the config file and environment variables.
// Values are layered: defaults < config file < environment variables.
func Load() (Config, error) {
	cfg := Defaults()

	if err := loadFile(&cfg); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that the thresholds and settings are usable.
func (c Config) Validate() error {
	if c.MergedDays <= 0 {
		return fmt.Errorf("merged_days must be positive, got %d", c.MergedDays)
	}
	if c.StaleDays <= c.MergedDays {
		return fmt.Errorf("stale_days (%d) must be greater than merged_days (%d)", c.StaleDays, c.MergedDays)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if strings.TrimSpace(c.Remote) == "" {
		return fmt.Errorf("remote must not be empty")
	}
	if strings.TrimSpace(c.MergedInto) == "" {
		return fmt.Errorf("merged_into must not be empty")
	}
	return nil
}

// configPath returns the path to the config file.
func configPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "branchsweep", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "branchsweep", "config.yaml")
}

func loadFile(cfg *Config) error {
	path := filepath.Clean(configPath())
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil // no config file is fine
	}
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BRANCHSWEEP_STALE_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			cfg.StaleDays = days
		}
	}
	if v := os.Getenv("BRANCHSWEEP_MERGED_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			cfg.MergedDays = days
		}
	}
	if v := os.Getenv("BRANCHSWEEP_REMOTE"); v != "" {
		cfg.Remote = v
	}
	if v := os.Getenv("BRANCHSWEEP_MERGED_INTO"); v != "" {
		cfg.MergedInto = v
	}
	if v := os.Getenv("BRANCHSWEEP_PROTECTED"); v != "" {
		cfg.Protected = nil
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Protected = append(cfg.Protected, name)
			}
		}
	}
	if v := os.Getenv("BRANCHSWEEP_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("BRANCHSWEEP_VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = b
		}
	}
}
