package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 800 {
		t.Errorf("expected height 800, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	if !cfg.Viewport.ShowGrid || !cfg.Viewport.ShowAxes {
		t.Error("expected grid and axes visible by default")
	}
	if cfg.Viewport.MinZoom != 0.1 || cfg.Viewport.MaxZoom != 100.0 {
		t.Errorf("unexpected zoom bounds [%v, %v]", cfg.Viewport.MinZoom, cfg.Viewport.MaxZoom)
	}
	if cfg.Viewport.GridSize != 10 {
		t.Errorf("expected grid size 10, got %d", cfg.Viewport.GridSize)
	}

	if cfg.Flow.AirDensity != 1.225 {
		t.Errorf("expected air density 1.225, got %v", cfg.Flow.AirDensity)
	}
	if cfg.Flow.Temperature != 20 {
		t.Errorf("expected temperature 20, got %v", cfg.Flow.Temperature)
	}
	if cfg.Flow.TurbulenceModel != "None" {
		t.Errorf("expected turbulence model None, got %s", cfg.Flow.TurbulenceModel)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

viewport:
  show_grid: false
  grid_size: 25
  min_zoom: 0.5
  max_zoom: 50

flow:
  air_density: 1.112
  velocity: 42.5
  angle_of_attack: 5
  turbulence_model: "k-epsilon"

logging:
  level: "debug"
  log_file: "editor.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Viewport.ShowGrid {
		t.Error("expected show_grid to be false")
	}
	if cfg.Viewport.GridSize != 25 {
		t.Errorf("expected grid size 25, got %d", cfg.Viewport.GridSize)
	}
	if cfg.Flow.AirDensity != 1.112 {
		t.Errorf("expected air density 1.112, got %v", cfg.Flow.AirDensity)
	}
	if cfg.Flow.Velocity != 42.5 {
		t.Errorf("expected velocity 42.5, got %v", cfg.Flow.Velocity)
	}
	if cfg.Flow.TurbulenceModel != "k-epsilon" {
		t.Errorf("expected turbulence model k-epsilon, got %s", cfg.Flow.TurbulenceModel)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}

	// Unset keys keep their defaults.
	if !cfg.Viewport.ShowAxes {
		t.Error("expected show_axes to keep default true")
	}
	if cfg.Flow.Temperature != 20 {
		t.Errorf("expected default temperature 20, got %v", cfg.Flow.Temperature)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Graphics.Width = 1600
	cfg.Flow.Velocity = 30

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Graphics.Width != 1600 {
		t.Errorf("expected width 1600 after round trip, got %d", loaded.Graphics.Width)
	}
	if loaded.Flow.Velocity != 30 {
		t.Errorf("expected velocity 30 after round trip, got %v", loaded.Flow.Velocity)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "air_density") {
		t.Error("saved YAML missing flow section")
	}
}
