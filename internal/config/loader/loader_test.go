package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f memFileInfo) Name() string       { return f.name }
func (f memFileInfo) Size() int64        { return 0 }
func (f memFileInfo) Mode() fs.FileMode  { return 0o644 }
func (f memFileInfo) ModTime() time.Time { return time.Time{} }
func (f memFileInfo) IsDir() bool        { return false }
func (f memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[geometry]
min_size = 30

[theme]
font = "Serif"
bezier = false
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/config.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, ok := GetPath(config, "geometry.min_size"); !ok || v != int64(30) {
		t.Errorf("geometry.min_size = %v (%T), want 30", v, v)
	}
	if v, ok := GetPath(config, "theme.font"); !ok || v != "Serif" {
		t.Errorf("theme.font = %v, want Serif", v)
	}
	if v, ok := GetPath(config, "theme.bezier"); !ok || v != false {
		t.Errorf("theme.bezier = %v, want false", v)
	}
}

func TestTOMLLoader_Missing(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/none.toml").Load()
	if err != nil || config != nil {
		t.Errorf("Load() = %v, %v, want nil, nil", config, err)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	_, err := NewTOMLLoader("").LoadFromReader(strings.NewReader("[theme\nfont = 1"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Line == 0 {
		t.Error("ParseError should carry the line of the syntax error")
	}
	if !strings.Contains(pe.Error(), "<reader>") {
		t.Errorf("Error() = %q, want the source name", pe.Error())
	}
}

func TestEnvLoader_Load(t *testing.T) {
	env := []string{
		"THOUGHTMAP_LOG_LEVEL=debug",
		"THOUGHTMAP_THEME_FONT_SIZE=12",
		"THOUGHTMAP_THEME_BEZIER=off",
		"THOUGHTMAP_GEOMETRY_MARGIN=2.5",
		"THOUGHTMAP_NOKEY=1",
		"OTHER_LOG_LEVEL=error",
	}
	config, err := NewEnvLoaderFrom("THOUGHTMAP_", env).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := map[string]any{
		"log":      map[string]any{"level": "debug"},
		"theme":    map[string]any{"font_size": int64(12), "bezier": false},
		"geometry": map[string]any{"margin": 2.5},
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"No", false},
		{"42", int64(42)},
		{"-1.5", -1.5},
		{"#ffffff", "#ffffff"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"theme": map[string]any{"font": "Sans", "font_size": int64(10)},
		"log":   map[string]any{"level": "info"},
	}
	src := map[string]any{
		"theme": map[string]any{"font_size": int64(14)},
		"undo":  map[string]any{"max_depth": int64(5)},
	}
	got := DeepMerge(dst, src)
	want := map[string]any{
		"theme": map[string]any{"font": "Sans", "font_size": int64(14)},
		"log":   map[string]any{"level": "info"},
		"undo":  map[string]any{"max_depth": int64(5)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DeepMerge() mismatch (-want +got):\n%s", diff)
	}

	SetPath(got, "editor.direction", "rtl")
	if v, ok := GetPath(got, "editor.direction"); !ok || v != "rtl" {
		t.Errorf("GetPath(editor.direction) = %v, %v", v, ok)
	}
	if _, ok := GetPath(got, "log.level.deeper"); ok {
		t.Error("GetPath through a leaf should fail")
	}
}
