// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/framegrab/pkg/orchestrator"
	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

// Config represents the full configuration for framegrab.
type Config struct {
	// Extraction
	MaxPackets int `yaml:"max_packets"`

	// Output
	Format      string `yaml:"format"` // png, jpeg or ppm; empty infers from the output path
	JPEGQuality int    `yaml:"jpeg_quality"`
	Width       int    `yaml:"width"` // resize output to this width, 0 keeps the frame size
	Annotate    bool   `yaml:"annotate"`
	FontPath    string `yaml:"font_path"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		MaxPackets:  pipeline.DefaultMaxPackets,
		JPEGQuality: 90,
		LogLevel:    "info",
		DebugDir:    "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file.
// Keys missing from the file keep their default values.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Format != "" {
		if _, ok := ports.ParseImageFormat(c.Format); !ok {
			return fmt.Errorf("unknown format %q", c.Format)
		}
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100, got %d", c.JPEGQuality)
	}
	if c.Width < 0 {
		return fmt.Errorf("width must not be negative, got %d", c.Width)
	}
	if _, ok := ports.LookupLogLevel(c.LogLevel); !ok {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// ToOrchestratorConfig converts Config to orchestrator.Config for one extraction.
// The image format comes from Format, or from the output path extension when Format is empty.
func (c Config) ToOrchestratorConfig(inputPath, outputPath string, timeSeconds float64) orchestrator.Config {
	format, ok := ports.ParseImageFormat(c.Format)
	if !ok {
		format = orchestrator.FormatFromPath(outputPath)
	}

	oc := orchestrator.DefaultConfig()
	oc.InputPath = inputPath
	oc.OutputPath = outputPath
	oc.TimeSeconds = timeSeconds

	oc.Format = format
	oc.Quality = c.JPEGQuality
	oc.Width = c.Width
	oc.Annotate = c.Annotate
	oc.FontPath = c.FontPath
	return oc
}
