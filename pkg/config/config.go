// Package config loads mmv settings from .mmv/config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/layout"
)

const (
	// DirName is the per-project state directory.
	DirName = ".mmv"
	// FileName is the config file inside DirName.
	FileName = "config.yaml"
	// DefaultDataFile is the topic document name searched for when no path
	// is configured.
	DefaultDataFile = "mindmap-data.json"
)

// Config holds every user-tunable setting. Zero fields in a file keep their
// defaults.
type Config struct {
	// Data is the topic document path, relative to the project root.
	Data         string       `yaml:"data"`
	DefaultTopic string       `yaml:"default_topic"`
	Watch        bool         `yaml:"watch"`
	LogFile      string       `yaml:"log_file"`
	LogLevel     string       `yaml:"log_level"`
	Export       ExportConfig `yaml:"export"`
	Canvas       CanvasConfig `yaml:"canvas"`

	Layout   layout.Params    `yaml:"layout"`
	Viewport layout.FitParams `yaml:"viewport"`

	// path is the file this config was read from, empty for defaults.
	path string
}

// ExportConfig controls `mmv export` and the TUI export key.
type ExportConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
	Width   float64  `yaml:"width"`
	Height  float64  `yaml:"height"`
}

// CanvasConfig controls the interactive simulation.
type CanvasConfig struct {
	// Width and Height are the virtual layout size in pixels.
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// StepsPerTick is how many simulation steps run per frame.
	StepsPerTick int           `yaml:"steps_per_tick"`
	TickInterval time.Duration `yaml:"tick_interval"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogFile:  filepath.Join(DirName, "mmv.log"),
		LogLevel: "info",
		Export: ExportConfig{
			Dir:     ".",
			Formats: []string{"json"},
			Width:   1600,
			Height:  1200,
		},
		Canvas: CanvasConfig{
			Width:        1600,
			Height:       1000,
			StepsPerTick: 4,
			TickInterval: time.Second / 60,
		},
		Layout:   layout.DefaultParams(),
		Viewport: layout.DefaultFitParams(),
	}
}

// Path returns the file the config was read from.
func (c Config) Path() string { return c.path }

// Root returns the project directory owning the config file: the parent of
// the .mmv directory. It is empty for defaults and user-level configs.
func (c Config) Root() string {
	if c.path == "" {
		return ""
	}
	dir := filepath.Dir(c.path)
	if filepath.Base(dir) != DirName {
		return ""
	}
	return filepath.Dir(dir)
}

// ResolveData returns the configured document path made absolute against the
// project root, or empty when no document is configured.
func (c Config) ResolveData() string {
	if c.Data == "" {
		return ""
	}
	p := expandHome(c.Data)
	if filepath.IsAbs(p) || c.Root() == "" {
		return p
	}
	return filepath.Join(c.Root(), p)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size must be positive, got %vx%v", c.Canvas.Width, c.Canvas.Height))
	}
	if c.Canvas.StepsPerTick <= 0 {
		errs = append(errs, fmt.Errorf("canvas.steps_per_tick must be positive, got %d", c.Canvas.StepsPerTick))
	}
	if c.Layout.AlphaDecay <= 0 || c.Layout.AlphaDecay >= 1 {
		errs = append(errs, fmt.Errorf("layout.alpha_decay must be in (0,1), got %v", c.Layout.AlphaDecay))
	}
	if c.Layout.VelocityDecay < 0 || c.Layout.VelocityDecay >= 1 {
		errs = append(errs, fmt.Errorf("layout.velocity_decay must be in [0,1), got %v", c.Layout.VelocityDecay))
	}
	if c.Layout.WarmAlpha < 0 || c.Layout.WarmAlpha > 1 {
		errs = append(errs, fmt.Errorf("layout.warm_alpha must be in [0,1], got %v", c.Layout.WarmAlpha))
	}
	if c.Layout.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("layout.max_iterations must be positive, got %d", c.Layout.MaxIterations))
	}
	if c.Viewport.MaxScale <= 0 {
		errs = append(errs, fmt.Errorf("viewport.max_scale must be positive, got %v", c.Viewport.MaxScale))
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}
	for _, f := range c.Export.Formats {
		if !IsExportFormat(f) {
			errs = append(errs, fmt.Errorf("export format %q is not supported", f))
		}
	}
	return errors.Join(errs...)
}

// ExportFormats lists the formats `mmv export` understands.
var ExportFormats = []string{"json", "md", "svg", "png", "html"}

// IsExportFormat reports whether f names a supported export format.
func IsExportFormat(f string) bool {
	for _, known := range ExportFormats {
		if f == known {
			return true
		}
	}
	return false
}

// LoadFile reads path over the defaults and validates the result.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.path = path
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Load finds the nearest config for dir and reads it. With no config file it
// returns the defaults.
func Load(dir string) (Config, error) {
	path, err := Find(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), err
	}
	return LoadFile(path)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
