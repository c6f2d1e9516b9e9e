package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1600 {
		t.Errorf("expected width 1600, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 800 {
		t.Errorf("expected height 800, got %d", cfg.Window.Height)
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Viewer.DefaultModel != "Upperlimb_diffuse" {
		t.Errorf("expected default model Upperlimb_diffuse, got %s", cfg.Viewer.DefaultModel)
	}
	if !cfg.Viewer.SyncEnabled {
		t.Error("expected sync to be enabled by default")
	}
	if cfg.Viewer.DefaultZoom != 1 {
		t.Errorf("expected default zoom 1, got %v", cfg.Viewer.DefaultZoom)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

viewer:
  models_root: "https://example.org/anatomy"
  default_model: "Skull"
  desired_display_size: 20
  sync_enabled: false
  ambient_intensity: 0.5

picking:
  reserved_names: ["Scene"]

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Viewer.ModelsRoot != "https://example.org/anatomy" {
		t.Errorf("unexpected models root %s", cfg.Viewer.ModelsRoot)
	}
	if cfg.Viewer.DesiredDisplaySize != 20 {
		t.Errorf("expected display size 20, got %v", cfg.Viewer.DesiredDisplaySize)
	}
	if cfg.Viewer.SyncEnabled {
		t.Error("expected sync to be disabled")
	}
	// Untouched keys keep their defaults
	if cfg.Viewer.FOVDegrees != 45 {
		t.Errorf("expected default fov 45, got %v", cfg.Viewer.FOVDegrees)
	}
	if len(cfg.Picking.ReservedNames) != 1 || cfg.Picking.ReservedNames[0] != "Scene" {
		t.Errorf("unexpected reserved names %v", cfg.Picking.ReservedNames)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "window:\n  width: not a number\n  invalid syntax here\n"},
		{"unknown key", "viewer:\n  zoom_facter: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty file should load: %v", err)
	}
	if cfg.Window.Width != 1600 {
		t.Errorf("empty file should keep defaults, got width %d", cfg.Window.Width)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"empty models root", func(c *Config) { c.Viewer.ModelsRoot = "" }, "models_root is required"},
		{"ftp models root", func(c *Config) { c.Viewer.ModelsRoot = "ftp://host/models" }, "unsupported scheme"},
		{"zero display size", func(c *Config) { c.Viewer.DesiredDisplaySize = 0 }, "desired_display_size"},
		{"negative zoom", func(c *Config) { c.Viewer.DefaultZoom = -1 }, "default_zoom"},
		{"fov too wide", func(c *Config) { c.Viewer.FOVDegrees = 180 }, "fov_degrees"},
		{"far before near", func(c *Config) { c.Viewer.Far = 0.01 }, "clip planes"},
		{"inverted distances", func(c *Config) { c.Viewer.MinDistance = 50; c.Viewer.MaxDistance = 5 }, "distance range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "anatomy-viewer.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find anatomy-viewer.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "nosync flag",
			setup: func() { *flagNoSync = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewer.SyncEnabled {
					t.Error("expected sync to be disabled with nosync flag")
				}
			},
			teardown: func() { *flagNoSync = false },
		},
		{
			name: "model and models root",
			setup: func() {
				*flagModel = "Skull"
				*flagModels = "/data/anatomy"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Viewer.DefaultModel != "Skull" {
					t.Errorf("expected model Skull, got %s", cfg.Viewer.DefaultModel)
				}
				if cfg.Viewer.ModelsRoot != "/data/anatomy" {
					t.Errorf("expected models root /data/anatomy, got %s", cfg.Viewer.ModelsRoot)
				}
			},
			teardown: func() {
				*flagModel = ""
				*flagModels = ""
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
window:
  width: 1200
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1200)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Viewer.DefaultModel = "Pelvis"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Viewer.DefaultModel != "Pelvis" {
		t.Errorf("expected Pelvis after reload, got %s", loaded.Viewer.DefaultModel)
	}
}
