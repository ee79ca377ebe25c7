package main

import (
	"fmt"
	"time"

	"github.com/jonathan/resume-preview/internal/config"
	"github.com/jonathan/resume-preview/internal/raster"
)

// loadAppConfig loads and validates the optional JSON config file, filling
// unset fields from built-in defaults.
func loadAppConfig(path string) (config.Config, error) {
	merged := config.Defaults()

	if path != "" {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
		merged = cfg.MergeWithDefaults(config.Defaults())
	}

	return merged, nil
}

// rasterOptions maps the app config onto capture options.
func rasterOptions(cfg config.Config) *raster.Options {
	opts := raster.DefaultOptions()
	if cfg.Oversample > 0 {
		opts.Oversample = cfg.Oversample
	}
	if cfg.SettleDelayMS > 0 {
		opts.SettleDelay = time.Duration(cfg.SettleDelayMS) * time.Millisecond
	}
	if cfg.CaptureTimeS > 0 {
		opts.Timeout = time.Duration(cfg.CaptureTimeS) * time.Second
	}
	opts.ChromePath = cfg.ChromePath
	return opts
}
