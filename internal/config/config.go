// Package config loads the optional .loxconfig.yaml file that carries
// REPL/run cosmetic defaults. It never affects language semantics.
package config

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// ClockEpoch selects what clock() measures elapsed time from.
type ClockEpoch string

const (
	// ClockEpochUnix is the real Unix epoch (the default).
	ClockEpochUnix ClockEpoch = "unix"
	// ClockEpochMonotonic measures from interpreter startup, for
	// deterministic golden-file tests that assert on clock() output.
	ClockEpochMonotonic ClockEpoch = "monotonic"
)

// Config holds the fields .loxconfig.yaml may set.
type Config struct {
	Prompt        string     `yaml:"prompt"`
	TraceResolver bool       `yaml:"traceResolver"`
	ClockEpoch    ClockEpoch `yaml:"clockEpoch"`
}

// Default returns the configuration used when no .loxconfig.yaml is found.
func Default() *Config {
	return &Config{Prompt: ">>> ", TraceResolver: false, ClockEpoch: ClockEpochUnix}
}

// Load looks for .loxconfig.yaml in dir and merges any fields it sets onto
// Default(). A missing file is not an error.
func Load(dir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(dir, ".loxconfig.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.ClockEpoch == "" {
		cfg.ClockEpoch = ClockEpochUnix
	}
	return cfg, nil
}
