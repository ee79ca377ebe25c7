// Package config provides configuration loading and validation for the
// preview service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the service configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or must
// be provided via CLI flags.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Capture
	ChromePath    string  `json:"chrome_path,omitempty"`     // Browser binary override
	Oversample    float64 `json:"oversample,omitempty"`      // Capture scale factor (print quality)
	SettleDelayMS int     `json:"settle_delay_ms,omitempty"` // Wait after load before capture
	CaptureTimeS  int     `json:"capture_timeout_s,omitempty"`

	// Coordination
	DebounceMS int `json:"debounce_ms,omitempty"` // Quiet interval before live-edit regeneration

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.Oversample < 0 || c.Oversample > 4 {
		return fmt.Errorf("config error: 'oversample' must be between 0 and 4, got %g", c.Oversample)
	}
	if c.DebounceMS < 0 {
		return fmt.Errorf("config error: 'debounce_ms' must be non-negative")
	}
	if c.SettleDelayMS < 0 {
		return fmt.Errorf("config error: 'settle_delay_ms' must be non-negative")
	}
	if c.CaptureTimeS < 0 {
		return fmt.Errorf("config error: 'capture_timeout_s' must be non-negative")
	}
	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome binary not found: %s", c.ChromePath)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-value fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.Oversample == 0 {
		result.Oversample = defaults.Oversample
	}
	if result.SettleDelayMS == 0 {
		result.SettleDelayMS = defaults.SettleDelayMS
	}
	if result.CaptureTimeS == 0 {
		result.CaptureTimeS = defaults.CaptureTimeS
	}
	if result.DebounceMS == 0 {
		result.DebounceMS = defaults.DebounceMS
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Defaults returns the built-in configuration defaults.
func Defaults() Config {
	return Config{
		Port:          8080,
		Oversample:    2,
		SettleDelayMS: 300,
		CaptureTimeS:  60,
		DebounceMS:    1000,
	}
}
