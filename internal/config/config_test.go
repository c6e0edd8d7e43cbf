package config

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/dshills/thoughtmap/internal/engine/geometry"
	"github.com/dshills/thoughtmap/internal/logging"
	"github.com/dshills/thoughtmap/internal/theme"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

func (m memFS) Stat(string) (fs.FileInfo, error) {
	return nil, fs.ErrNotExist
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cfg.GeometryConfig() != geometry.DefaultConfig() {
		t.Errorf("GeometryConfig() = %+v, want defaults", cfg.GeometryConfig())
	}
	th, err := cfg.Theme.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if th.Normal.Background != theme.White || !th.Bezier {
		t.Errorf("Build() = %+v, want the default theme", th)
	}
}

func TestLoadLayers(t *testing.T) {
	files := memFS{"/tm.toml": `
[log]
level = "debug"

[geometry]
min_size = 30
default_width = 120

[theme]
background = "#eeeeee"
font_size = 12
`}
	env := []string{
		"THOUGHTMAP_GEOMETRY_MIN_SIZE=25",
		"THOUGHTMAP_EDITOR_DIRECTION=rtl",
	}
	cfg, err := Load(WithFile("/tm.toml"), WithFS(files), WithEnv(env))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Geometry.MinSize != 25 {
		t.Errorf("geometry.min_size = %v, want the environment's 25", cfg.Geometry.MinSize)
	}
	if cfg.Geometry.DefaultWidth != 120 || cfg.Geometry.DefaultHeight != geometry.DefaultHeight {
		t.Errorf("geometry = %+v", cfg.Geometry)
	}
	if !cfg.RTL() {
		t.Error("RTL() = false, want true")
	}
	if cfg.LoggingConfig().Level != logging.LevelDebug {
		t.Errorf("LoggingConfig().Level = %v", cfg.LoggingConfig().Level)
	}
	th, err := cfg.Theme.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if th.Normal.Background != theme.MustParseColor("#eeeeee") || th.FontDesc() != "Sans 12" {
		t.Errorf("theme = %+v", th)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(WithFile("/absent.toml"), WithFS(memFS{}), WithEnv([]string{}))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Undo.MaxDepth != Default().Undo.MaxDepth {
		t.Errorf("undo.max_depth = %d", cfg.Undo.MaxDepth)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  []string
		want string
	}{
		{"bad level", "[log]\nlevel = \"loud\"", nil, "log.level"},
		{"zero min size", "[geometry]\nmin_size = 0", nil, "geometry.min_size"},
		{"bad color", "[theme]\nbackground = \"blue\"", nil, "background"},
		{"bad direction", "", []string{"THOUGHTMAP_EDITOR_DIRECTION=up"}, "editor.direction"},
		{"negative depth", "", []string{"THOUGHTMAP_UNDO_MAX_DEPTH=-3"}, "undo.max_depth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := tt.env
			if env == nil {
				env = []string{}
			}
			_, err := Load(WithFile("/c.toml"), WithFS(memFS{"/c.toml": tt.file}), WithEnv(env))
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("error = %v, want ErrValidationFailed", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadTypeMismatch(t *testing.T) {
	_, err := Load(WithEnv([]string{"THOUGHTMAP_UNDO_MAX_DEPTH=lots"}))
	if err == nil {
		t.Fatal("a string max_depth should fail to decode")
	}
	if errors.Is(err, ErrValidationFailed) {
		t.Errorf("error = %v, want a decode error", err)
	}
}

func TestString(t *testing.T) {
	s := Default().String()
	for _, want := range []string{"[geometry]", "min_size = 20", "direction = "} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
}
