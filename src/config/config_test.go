package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Viewer.ChartWidth != 1000 || cfg.Viewer.ChartHeight != 400 {
		t.Fatalf("default dimensions: %+v", cfg.Viewer)
	}
	if cfg.Viewer.LogLevel != "info" {
		t.Fatalf("default log level: %q", cfg.Viewer.LogLevel)
	}
	if cfg.Analytics.TimeoutSeconds != 15 {
		t.Fatalf("default analytics timeout: %d", cfg.Analytics.TimeoutSeconds)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	body := []byte(`viewer:
  chart_width: 1400
  log_level: debug
analytics:
  base_url: "https://bms.example.net/api/analytics"
system:
  rated_capacity_ah: 280
`)
	if err := os.WriteFile(filepath.Join(dir, "bmsview.yaml"), body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Viewer.ChartWidth != 1400 {
		t.Fatalf("chart width: %d", cfg.Viewer.ChartWidth)
	}
	if cfg.Viewer.ChartHeight != 400 {
		t.Fatalf("unset key should keep default: %d", cfg.Viewer.ChartHeight)
	}
	if cfg.Viewer.LogLevel != "debug" {
		t.Fatalf("log level: %q", cfg.Viewer.LogLevel)
	}
	if cfg.Analytics.BaseURL == "" || cfg.System.RatedCapacityAh != 280 {
		t.Fatalf("config: %+v", cfg)
	}
}

func TestLoad_AxesAssignment(t *testing.T) {
	dir := t.TempDir()
	body := []byte(`axes:
  current: left
  voltage: hidden
  power: right
`)
	if err := os.WriteFile(filepath.Join(dir, "bmsview.yaml"), body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Axes["current"] != "left" || cfg.Axes["voltage"] != "hidden" || cfg.Axes["power"] != "right" {
		t.Fatalf("axes: %+v", cfg.Axes)
	}
}
