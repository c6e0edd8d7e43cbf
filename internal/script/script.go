// Package script runs Lua scripts against a thought map.
//
// A script sees two globals. map is a table of functions acting on the
// document:
//
//	map.title([s])              get or set the map title
//	map.add(kind, x, y [, w, h]) add a "text", "label", "drawing" or "image" thought
//	map.get(id)                 look a thought up by identity
//	map.thoughts()              every thought, in creation order
//	map.link(parent, child)     link two thoughts
//	map.unlink(parent, child)   remove a link
//	map.edit(t)                 give t input focus, nil to leave editing
//	map.primary()               the primary (root) thought
//	map.remove(t)               delete a thought and its links
//	map.undo(), map.redo()      step through the shared history
//	map.batch(name, fn)         run fn as a single undo step, reverted if it fails
//
// Thoughts are userdata with methods: id, type, title, text, note, caret,
// insert, backspace, delete, select, bold, italic, underline, font,
// resize, move, undo and redo. Character offsets are zero based.
//
// A run that fails rolls the history back to where it started, so the
// edits it recorded are undone. Thoughts it added or linked stay.
//
// Only the base, table, string and math libraries are opened, and the
// functions that load code from files or strings are removed.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/thoughtmap/internal/document"
	"github.com/dshills/thoughtmap/internal/engine/history"
	"github.com/dshills/thoughtmap/internal/logging"
)

// ErrClosed is returned when running a script on a closed engine.
var ErrClosed = errors.New("script engine is closed")

// Error is a failed script run.
type Error struct {
	Name string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Name, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithOutput sets where print writes. Output is discarded by default.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		if w != nil {
			e.out = w
		}
	}
}

// Engine is a Lua state bound to one map.
// Engine is not safe for concurrent use.
type Engine struct {
	L      *lua.LState
	m      *document.Map
	logger *logging.Logger
	out    io.Writer
	closed bool
}

// New creates an engine for m.
func New(m *document.Map, opts ...Option) *Engine {
	e := &Engine{
		m:      m,
		logger: logging.Nop(),
		out:    io.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithComponent("script")

	e.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openLibraries(e.L)
	e.L.SetGlobal("print", e.L.NewFunction(e.print))
	e.registerThought()
	e.registerMap()
	return e
}

func openLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Map returns the map scripts act on.
func (e *Engine) Map() *document.Map { return e.m }

// RunString runs code. name identifies the chunk in errors.
func (e *Engine) RunString(ctx context.Context, name, code string) error {
	return e.run(ctx, name, func() error { return e.L.DoString(code) })
}

// RunFile runs the script at path.
func (e *Engine) RunFile(ctx context.Context, path string) error {
	return e.run(ctx, path, func() error { return e.L.DoFile(path) })
}

func (e *Engine) run(ctx context.Context, name string, fn func() error) (err error) {
	if e.closed {
		return ErrClosed
	}
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()
	cp := e.m.Checkpoint()
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Name: name, Err: fmt.Errorf("lua panic: %v", r)}
		}
		if err != nil {
			e.rollback(name, cp)
		}
	}()

	if err := fn(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		e.logger.Warn("%s failed: %v", name, err)
		return &Error{Name: name, Err: err}
	}
	e.logger.Debug("%s done", name)
	return nil
}

func (e *Engine) rollback(name string, cp history.Checkpoint) {
	if err := e.m.Rollback(cp); err != nil {
		e.logger.Error("%s: %v", name, err)
	}
}

// Close releases the Lua state.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.L.Close()
}

func (e *Engine) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(e.out, strings.Join(parts, "\t"))
	return 0
}
