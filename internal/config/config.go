package config

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/thoughtmap/internal/config/loader"
	"github.com/dshills/thoughtmap/internal/engine/geometry"
	"github.com/dshills/thoughtmap/internal/engine/history"
	"github.com/dshills/thoughtmap/internal/logging"
	"github.com/dshills/thoughtmap/internal/theme"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "THOUGHTMAP_"

// Text directions.
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// Config is the complete set of settings.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Undo     UndoConfig     `toml:"undo"`
	Geometry GeometryConfig `toml:"geometry"`
	Theme    ThemeConfig    `toml:"theme"`
	Editor   EditorConfig   `toml:"editor"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// UndoConfig controls the shared undo history.
type UndoConfig struct {
	MaxDepth int `toml:"max_depth"`
}

// GeometryConfig holds the sizing constants of resizable thoughts.
type GeometryConfig struct {
	MinSize       float64 `toml:"min_size"`
	DefaultWidth  float64 `toml:"default_width"`
	DefaultHeight float64 `toml:"default_height"`
	Sensitivity   float64 `toml:"sensitivity"`
	Margin        float64 `toml:"margin"`
}

// ThemeConfig holds colors as "#rrggbb" or "#rrrrggggbbbb" strings.
type ThemeConfig struct {
	Background        string `toml:"background"`
	Foreground        string `toml:"foreground"`
	Text              string `toml:"text"`
	PrimaryBackground string `toml:"primary_background"`
	PrimaryForeground string `toml:"primary_foreground"`
	PrimaryText       string `toml:"primary_text"`
	SelectedBorder    string `toml:"selected_border"`
	SelectedFill      string `toml:"selected_fill"`
	Bezier            bool   `toml:"bezier"`
	Font              string `toml:"font"`
	FontSize          int    `toml:"font_size"`
}

// EditorConfig holds text editing settings.
type EditorConfig struct {
	// Direction is "ltr" or "rtl". In right-to-left mode the Left and
	// Right keys move the caret the other way.
	Direction string `toml:"direction"`
}

// Default returns the built-in settings.
func Default() *Config {
	th := theme.Default()
	g := geometry.DefaultConfig()
	return &Config{
		Log:  LogConfig{Level: logging.LevelInfo.String()},
		Undo: UndoConfig{MaxDepth: history.DefaultMaxDepth},
		Geometry: GeometryConfig{
			MinSize:       g.MinSize,
			DefaultWidth:  g.DefaultWidth,
			DefaultHeight: g.DefaultHeight,
			Sensitivity:   g.Sensitivity,
			Margin:        g.Margin,
		},
		Theme: ThemeConfig{
			Background:        th.Normal.Background.String(),
			Foreground:        th.Normal.Foreground.String(),
			Text:              th.Normal.Text.String(),
			PrimaryBackground: th.Primary.Background.String(),
			PrimaryForeground: th.Primary.Foreground.String(),
			PrimaryText:       th.Primary.Text.String(),
			SelectedBorder:    th.SelectedBorder.String(),
			SelectedFill:      th.SelectedFill.String(),
			Bezier:            th.Bezier,
			Font:              th.Font,
			FontSize:          th.FontSize,
		},
		Editor: EditorConfig{Direction: DirectionLTR},
	}
}

type options struct {
	file      string
	fs        loader.FileSystem
	envPrefix string
	environ   []string
}

// Option configures Load.
type Option func(*options)

// WithFile reads settings from a TOML file. A missing file is ignored.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// WithFS reads the file through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) { o.fs = fsys }
}

// WithEnv replaces the process environment with a fixed KEY=VALUE list.
func WithEnv(env []string) Option {
	return func(o *options) { o.environ = env }
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) { o.envPrefix = prefix }
}

// Load builds a Config from defaults, the optional file and the
// environment, then validates it.
func Load(opts ...Option) (*Config, error) {
	o := options{fs: loader.DefaultFS(), envPrefix: EnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	merged := make(map[string]any)
	if o.file != "" {
		fileCfg, err := loader.NewTOMLLoaderWithFS(o.fs, o.file).Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, fileCfg)
	}

	env := loader.NewEnvLoader(o.envPrefix)
	if o.environ != nil {
		env = loader.NewEnvLoaderFrom(o.envPrefix, o.environ)
	}
	envCfg, err := env.Load()
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	merged = loader.DeepMerge(merged, envCfg)

	cfg := Default()
	if err := cfg.apply(merged); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply decodes a merged settings map over c. Keys absent from the map
// keep their current values. Geometry values are floats, so integers
// written in that section are widened first.
func (c *Config) apply(settings map[string]any) error {
	if len(settings) == 0 {
		return nil
	}
	if g, ok := settings["geometry"].(map[string]any); ok {
		for k, v := range g {
			if i, ok := v.(int64); ok {
				g[k] = float64(i)
			}
		}
	}
	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(c); err != nil {
		return fmt.Errorf("decoding settings: %w", err)
	}
	return nil
}

// Validate checks every setting and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error
	bad := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if !logging.ValidLevel(c.Log.Level) {
		bad("log.level", "must be one of debug, info, warn, error", c.Log.Level)
	}
	if c.Undo.MaxDepth <= 0 {
		bad("undo.max_depth", "must be positive", c.Undo.MaxDepth)
	}
	positive := []struct {
		path string
		v    float64
	}{
		{"geometry.min_size", c.Geometry.MinSize},
		{"geometry.default_width", c.Geometry.DefaultWidth},
		{"geometry.default_height", c.Geometry.DefaultHeight},
		{"geometry.sensitivity", c.Geometry.Sensitivity},
	}
	for _, p := range positive {
		if p.v <= 0 {
			bad(p.path, "must be positive", p.v)
		}
	}
	if c.Geometry.Margin < 0 {
		bad("geometry.margin", "must not be negative", c.Geometry.Margin)
	}
	if c.Geometry.DefaultWidth < c.Geometry.MinSize || c.Geometry.DefaultHeight < c.Geometry.MinSize {
		bad("geometry.default_width", "default size must not be below min_size", c.Geometry.DefaultWidth)
	}
	if _, err := c.Theme.Build(); err != nil {
		bad("theme", err.Error(), nil)
	}
	switch strings.ToLower(c.Editor.Direction) {
	case DirectionLTR, DirectionRTL:
	default:
		bad("editor.direction", "must be ltr or rtl", c.Editor.Direction)
	}
	return errors.Join(errs...)
}

// GeometryConfig returns the sizing constants for new thoughts.
func (c *Config) GeometryConfig() geometry.Config {
	return geometry.Config{
		MinSize:       c.Geometry.MinSize,
		DefaultWidth:  c.Geometry.DefaultWidth,
		DefaultHeight: c.Geometry.DefaultHeight,
		Sensitivity:   c.Geometry.Sensitivity,
		Margin:        c.Geometry.Margin,
	}
}

// LoggingConfig returns logger settings at the configured level.
func (c *Config) LoggingConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLogLevel(c.Log.Level)
	return lc
}

// RTL reports whether text runs right to left.
func (c *Config) RTL() bool {
	return strings.EqualFold(c.Editor.Direction, DirectionRTL)
}

// Build parses the colors into a theme.Theme. Empty colors keep the
// defaults.
func (t ThemeConfig) Build() (theme.Theme, error) {
	th := theme.Default()
	colors := []struct {
		name string
		src  string
		dst  *theme.Color
	}{
		{"background", t.Background, &th.Normal.Background},
		{"foreground", t.Foreground, &th.Normal.Foreground},
		{"text", t.Text, &th.Normal.Text},
		{"primary_background", t.PrimaryBackground, &th.Primary.Background},
		{"primary_foreground", t.PrimaryForeground, &th.Primary.Foreground},
		{"primary_text", t.PrimaryText, &th.Primary.Text},
		{"selected_border", t.SelectedBorder, &th.SelectedBorder},
		{"selected_fill", t.SelectedFill, &th.SelectedFill},
	}
	for _, c := range colors {
		if c.src == "" {
			continue
		}
		parsed, err := theme.ParseColor(c.src)
		if err != nil {
			return theme.Theme{}, fmt.Errorf("%s: %w", c.name, err)
		}
		*c.dst = parsed
	}
	th.Bezier = t.Bezier
	if t.Font != "" {
		th.Font = t.Font
	}
	if t.FontSize < 0 {
		return theme.Theme{}, fmt.Errorf("font_size: must not be negative")
	}
	if t.FontSize > 0 {
		th.FontSize = t.FontSize
	}
	return th, nil
}

// String renders the settings as TOML.
func (c *Config) String() string {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(data)
}
