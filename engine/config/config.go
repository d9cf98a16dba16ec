// Package config loads the optional YAML configuration file for the triangle bootstrap.
// Every field has a default, so a missing file or a partially filled file is valid.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-voxel/common"
	"gopkg.in/yaml.v3"
)

// maxConfigSize guards against reading something that is clearly not a config file.
const maxConfigSize = 1024 * 1024

var (
	// ErrConfigTooLarge is returned when the config file exceeds maxConfigSize.
	ErrConfigTooLarge = errors.New("config: file too large")

	// ErrInvalidConfig is returned by Validate for out-of-range values.
	ErrInvalidConfig = errors.New("config: invalid value")
)

// Config is the root configuration document.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Shader  ShaderConfig  `yaml:"shader"`
	Surface SurfaceConfig `yaml:"surface"`
	Loop    LoopConfig    `yaml:"loop"`
	Log     LogConfig     `yaml:"log"`
}

// WindowConfig controls the GLFW window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	// PlatformHint selects the GLFW platform (e.g. "wayland"). It is applied only
	// while GLFW initializes.
	PlatformHint string `yaml:"platform_hint"`
}

// ShaderConfig selects the WGSL source and its entry symbols.
type ShaderConfig struct {
	Root          string `yaml:"root"`
	Path          string `yaml:"path"`
	VertexEntry   string `yaml:"vertex_entry"`
	FragmentEntry string `yaml:"fragment_entry"`
	Watch         bool   `yaml:"watch"`
	Workers       int    `yaml:"workers"`
}

// SurfaceConfig controls adapter selection and presentation.
type SurfaceConfig struct {
	// PowerPreference is "high-performance" or "low-power".
	PowerPreference      string     `yaml:"power_preference"`
	ForceFallbackAdapter bool       `yaml:"force_fallback_adapter"`
	PresentMode          string     `yaml:"present_mode"`
	ClearColor           [4]float64 `yaml:"clear_color"`
}

// LoopConfig controls the frame loop.
type LoopConfig struct {
	ExitKeys   []string `yaml:"exit_keys"`
	Profiling  bool     `yaml:"profiling"`
	FrameLimit float64  `yaml:"frame_limit"`
}

// LogConfig controls the slog handler installed by the entry point.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Awesome Voxel Game",
			Width:  800,
			Height: 600,
		},
		Shader: ShaderConfig{
			Root:          "examples/assets",
			Path:          "shaders/triangle.wgsl",
			VertexEntry:   "vs_main",
			FragmentEntry: "fs_main",
			Workers:       2,
		},
		Surface: SurfaceConfig{
			PowerPreference: "high-performance",
			ClearColor:      [4]float64{0.5, 0.5, 0.75, 1.0},
		},
		Loop: LoopConfig{
			ExitKeys: []string{"escape"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path and fills unset fields from Default.
// An empty path or a missing file yields the defaults.
//
// Parameters:
//   - path: the config file path (may be empty)
//
// Returns:
//   - Config: the merged and validated configuration
//   - error: an error if the file cannot be read, parsed, or fails validation
func Load(path string) (Config, error) {
	def := Default()
	if path == "" {
		return def, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			common.Logger().Debug("config file not found, using defaults", "path", path)
			return def, nil
		}
		return Config{}, fmt.Errorf("config: stat %q: %w", path, err)
	}
	if info.Size() > maxConfigSize {
		return Config{}, fmt.Errorf("%w: %q is %d bytes", ErrConfigTooLarge, path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
	}
	common.Logger().Info("loaded config", "path", path, "size", info.Size())
	return cfg, nil
}

// Parse decodes YAML data, fills unset fields from Default and validates the result.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the merged configuration
//   - error: a decode or validation error
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// withDefaults replaces zero values with the values from Default.
func (c Config) withDefaults() Config {
	def := Default()

	c.Window.Title = common.Coalesce(c.Window.Title, def.Window.Title)
	c.Window.Width = common.Coalesce(c.Window.Width, def.Window.Width)
	c.Window.Height = common.Coalesce(c.Window.Height, def.Window.Height)

	c.Shader.Root = common.Coalesce(c.Shader.Root, def.Shader.Root)
	c.Shader.Path = common.Coalesce(c.Shader.Path, def.Shader.Path)
	c.Shader.VertexEntry = common.Coalesce(c.Shader.VertexEntry, def.Shader.VertexEntry)
	c.Shader.FragmentEntry = common.Coalesce(c.Shader.FragmentEntry, def.Shader.FragmentEntry)
	c.Shader.Workers = common.Coalesce(c.Shader.Workers, def.Shader.Workers)

	c.Surface.PowerPreference = common.Coalesce(c.Surface.PowerPreference, def.Surface.PowerPreference)
	if c.Surface.ClearColor == [4]float64{} {
		c.Surface.ClearColor = def.Surface.ClearColor
	}

	if len(c.Loop.ExitKeys) == 0 {
		c.Loop.ExitKeys = def.Loop.ExitKeys
	}
	c.Log.Level = common.Coalesce(c.Log.Level, def.Log.Level)
	return c
}

// Validate reports the first out-of-range value.
//
// Returns:
//   - error: an error wrapping ErrInvalidConfig, or nil
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Shader.Workers < 0 {
		return fmt.Errorf("%w: shader workers %d", ErrInvalidConfig, c.Shader.Workers)
	}
	switch c.Surface.PowerPreference {
	case "high-performance", "low-power":
	default:
		return fmt.Errorf("%w: power preference %q", ErrInvalidConfig, c.Surface.PowerPreference)
	}
	switch c.Surface.PresentMode {
	case "", "fifo", "fifo-relaxed", "immediate", "mailbox":
	default:
		return fmt.Errorf("%w: present mode %q", ErrInvalidConfig, c.Surface.PresentMode)
	}
	for _, k := range c.Loop.ExitKeys {
		if _, ok := common.LookupKey(k); !ok {
			return fmt.Errorf("%w: exit key %q", ErrInvalidConfig, k)
		}
	}
	if c.Loop.FrameLimit < 0 {
		return fmt.Errorf("%w: frame limit %v", ErrInvalidConfig, c.Loop.FrameLimit)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ExitKeyCodes resolves Loop.ExitKeys to key codes. Unknown names are skipped;
// Validate rejects them beforehand.
//
// Returns:
//   - []uint32: the resolved key codes
func (c Config) ExitKeyCodes() []uint32 {
	codes := make([]uint32, 0, len(c.Loop.ExitKeys))
	for _, k := range c.Loop.ExitKeys {
		if code, ok := common.LookupKey(k); ok {
			codes = append(codes, code)
		}
	}
	return codes
}

// ParseLevel converts a level name to a slog.Level.
//
// Parameters:
//   - level: one of debug, info, warn, error (case-insensitive)
//
// Returns:
//   - slog.Level: the parsed level
//   - error: an error wrapping ErrInvalidConfig for unknown names
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, level)
	}
}
