// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Catalog CatalogConfig `yaml:"catalog"`
	Picking PickingConfig `yaml:"picking"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// ViewerConfig holds model framing, camera and lighting defaults.
type ViewerConfig struct {
	// ModelsRoot is a directory or an http(s) base URL that contains
	// models/<name>/scene.<format>.
	ModelsRoot   string `yaml:"models_root"`
	DefaultModel string `yaml:"default_model"`

	DesiredDisplaySize float32 `yaml:"desired_display_size"`
	DefaultZoom        float32 `yaml:"default_zoom"`

	FOVDegrees  float32 `yaml:"fov_degrees"`
	Near        float32 `yaml:"near"`
	Far         float32 `yaml:"far"`
	MinDistance float32 `yaml:"min_distance"`
	MaxDistance float32 `yaml:"max_distance"`

	SyncEnabled          bool    `yaml:"sync_enabled"`
	AmbientIntensity     float32 `yaml:"ambient_intensity"`
	DirectionalIntensity float32 `yaml:"directional_intensity"`

	ScreenshotDir string `yaml:"screenshot_dir"`
}

// CatalogConfig points at an optional user preset table.
type CatalogConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// PickingConfig lists node names that never show in the info display.
type PickingConfig struct {
	ReservedNames    []string `yaml:"reserved_names"`
	ReservedPrefixes []string `yaml:"reserved_prefixes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Anatomy Viewer",
			Width:  1600,
			Height: 800,
			VSync:  true,
		},
		Viewer: ViewerConfig{
			ModelsRoot:           ".",
			DefaultModel:         "Upperlimb_diffuse",
			DesiredDisplaySize:   10,
			DefaultZoom:          1,
			FOVDegrees:           45,
			Near:                 0.1,
			Far:                  1000,
			MinDistance:          1,
			MaxDistance:          100,
			SyncEnabled:          true,
			AmbientIntensity:     1,
			DirectionalIntensity: 0.8,
			ScreenshotDir:        "screenshots",
		},
		Catalog: CatalogConfig{
			Watch: true,
		},
		Picking: PickingConfig{
			ReservedNames:    []string{"", "Scene", "RootNode", "Sketchfab_model", "root"},
			ReservedPrefixes: []string{"Object_"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration can drive a viewer session.
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}

	v := c.Viewer
	if v.ModelsRoot == "" {
		errs = append(errs, errors.New("viewer.models_root is required"))
	} else if strings.Contains(v.ModelsRoot, "://") {
		u, err := url.Parse(v.ModelsRoot)
		if err != nil {
			errs = append(errs, fmt.Errorf("viewer.models_root: %w", err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, fmt.Errorf("viewer.models_root: unsupported scheme %q", u.Scheme))
		}
	}
	if v.DesiredDisplaySize <= 0 {
		errs = append(errs, fmt.Errorf("viewer.desired_display_size must be positive, got %v", v.DesiredDisplaySize))
	}
	if v.DefaultZoom <= 0 {
		errs = append(errs, fmt.Errorf("viewer.default_zoom must be positive, got %v", v.DefaultZoom))
	}
	if v.FOVDegrees <= 0 || v.FOVDegrees >= 180 {
		errs = append(errs, fmt.Errorf("viewer.fov_degrees must be in (0, 180), got %v", v.FOVDegrees))
	}
	if v.Near <= 0 || v.Far <= v.Near {
		errs = append(errs, fmt.Errorf("viewer clip planes invalid: near=%v far=%v", v.Near, v.Far))
	}
	if v.MinDistance < 0 || v.MaxDistance < v.MinDistance {
		errs = append(errs, fmt.Errorf("viewer distance range invalid: [%v, %v]", v.MinDistance, v.MaxDistance))
	}

	return errors.Join(errs...)
}
