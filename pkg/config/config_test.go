package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "framegrab.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.MaxPackets != pipeline.DefaultMaxPackets {
		t.Errorf("expected max packets %d, got %d", pipeline.DefaultMaxPackets, cfg.MaxPackets)
	}
	if cfg.JPEGQuality != 90 {
		t.Errorf("expected jpeg quality 90, got %d", cfg.JPEGQuality)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
max_packets: 1000
format: jpeg
jpeg_quality: 75
annotate: true
log_level: debug
debug: true
debug_dir: /tmp/fg-debug
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.MaxPackets != 1000 {
		t.Errorf("expected max packets 1000, got %d", cfg.MaxPackets)
	}
	if cfg.Format != "jpeg" || cfg.JPEGQuality != 75 {
		t.Errorf("unexpected output settings %q %d", cfg.Format, cfg.JPEGQuality)
	}
	if !cfg.Annotate || !cfg.Debug || cfg.DebugDir != "/tmp/fg-debug" {
		t.Errorf("unexpected flags %+v", cfg)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.LogLevel)
	}
}

func TestLoadFromFile_KeepsDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "annotate: true\n"))
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	defaults := Defaults()
	if cfg.MaxPackets != defaults.MaxPackets || cfg.JPEGQuality != defaults.JPEGQuality || cfg.DebugDir != defaults.DebugDir {
		t.Errorf("expected defaults to be kept, got %+v", cfg)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "max_packets: [1, 2", "parse"},
		{"bad format", "format: gif", "unknown format"},
		{"bad quality", "jpeg_quality: 0", "jpeg_quality"},
		{"bad width", "width: -5", "width"},
		{"bad level", "log_level: loud", "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestToOrchestratorConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Annotate = true
	cfg.Width = 320

	oc := cfg.ToOrchestratorConfig("in.mp4", "out.jpg", 2.5)

	if oc.InputPath != "in.mp4" || oc.OutputPath != "out.jpg" || oc.TimeSeconds != 2.5 {
		t.Errorf("unexpected paths %+v", oc)
	}
	if oc.Format != ports.FormatJPEG {
		t.Errorf("expected format inferred from extension, got %s", oc.Format)
	}
	if oc.Quality != 90 || oc.Width != 320 || !oc.Annotate {
		t.Errorf("unexpected output settings %+v", oc)
	}

	cfg.Format = "ppm"
	if oc := cfg.ToOrchestratorConfig("in.mp4", "out.jpg", 0); oc.Format != ports.FormatPPM {
		t.Errorf("explicit format should win, got %s", oc.Format)
	}
}
