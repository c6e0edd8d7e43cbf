package document

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/dshills/thoughtmap/internal/config"
	"github.com/dshills/thoughtmap/internal/engine/geometry"
	"github.com/dshills/thoughtmap/internal/engine/history"
	"github.com/dshills/thoughtmap/internal/event"
	"github.com/dshills/thoughtmap/internal/logging"
	"github.com/dshills/thoughtmap/internal/theme"
	"github.com/dshills/thoughtmap/internal/thought"
)

// Mode decides what kind of thought a click on empty canvas creates.
type Mode int

const (
	ModeEditing Mode = iota
	ModeImage
	ModeDrawing
	ModeLabel
)

func (m Mode) String() string {
	switch m {
	case ModeEditing:
		return "editing"
	case ModeImage:
		return "image"
	case ModeDrawing:
		return "drawing"
	case ModeLabel:
		return "label"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func (m Mode) thoughtType() thought.Type {
	switch m {
	case ModeImage:
		return thought.TypeImage
	case ModeDrawing:
		return thought.TypeDrawing
	case ModeLabel:
		return thought.TypeLabel
	}
	return thought.TypeText
}

// Options configure a new map.
type Options struct {
	Theme    theme.Theme
	Geometry geometry.Config
	RTL      bool
	MaxUndo  int
	Logger   *logging.Logger

	Layout           thought.Layout
	PrimarySelection func() string
}

// DefaultOptions returns options with the built-in theme and sizes.
func DefaultOptions() Options {
	return Options{
		Theme:    theme.Default(),
		Geometry: geometry.DefaultConfig(),
		MaxUndo:  history.DefaultMaxDepth,
	}
}

// OptionsFromConfig builds map options from loaded settings.
func OptionsFromConfig(cfg *config.Config, logger *logging.Logger) (Options, error) {
	th, err := cfg.Theme.Build()
	if err != nil {
		return Options{}, fmt.Errorf("theme: %w", err)
	}
	return Options{
		Theme:    th,
		Geometry: cfg.GeometryConfig(),
		RTL:      cfg.RTL(),
		MaxUndo:  cfg.Undo.MaxDepth,
		Logger:   logger,
	}, nil
}

// Link joins a parent thought to a child.
type Link struct {
	Parent *thought.Thought
	Child  *thought.Thought
}

// Map is a thought map.
type Map struct {
	Title       string
	ScaleFactor float64
	Translation geometry.Point

	id       uuid.UUID
	opts     Options
	hist     *history.History
	emitter  *event.Emitter
	logger   *logging.Logger
	mode     Mode
	thoughts []*thought.Thought
	links    []Link
	nextID   int
	primary  *thought.Thought
	selected *thought.Thought
	editing  *thought.Thought
}

// New creates an empty map.
func New(opts Options) *Map {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	id := uuid.New()
	logger = logger.WithComponent("document").WithField("session", id.String())
	m := &Map{
		ScaleFactor: 1,
		id:          id,
		opts:        opts,
		hist:        history.New(opts.MaxUndo, history.WithLogger(logger)),
		emitter:     event.NewEmitter(event.WithLogger(logger)),
		logger:      logger,
		nextID:      1,
	}
	if _, err := m.emitter.Subscribe(thought.TopicSelect, m.onSelect); err != nil {
		logger.Error("subscribe %s: %v", thought.TopicSelect, err)
	}
	return m
}

func (m *Map) onSelect(ev event.Event) {
	if t, ok := ev.Source.(*thought.Thought); ok && m.contains(t) {
		m.Select(t)
	}
}

// ID identifies the editing session.
func (m *Map) ID() uuid.UUID { return m.id }

// History returns the undo history shared by every thought of the map.
func (m *Map) History() *history.History { return m.hist }

// Emitter returns the emitter thoughts publish on. Subscribe to
// "thought.**" to follow every change.
func (m *Map) Emitter() *event.Emitter { return m.emitter }

// Theme returns the theme thoughts are created with.
func (m *Map) Theme() theme.Theme { return m.opts.Theme }

// Mode returns the creation mode.
func (m *Map) Mode() Mode { return m.mode }

// SetMode changes the creation mode. The thought being edited is left,
// which discards any gesture in progress.
func (m *Map) SetMode(mode Mode) {
	if mode == m.mode {
		return
	}
	m.Edit(nil)
	m.mode = mode
}

func (m *Map) thoughtOptions(id int) thought.Options {
	return thought.Options{
		Identity:         id,
		History:          m.hist,
		Emitter:          m.emitter,
		Theme:            m.opts.Theme,
		Geometry:         m.opts.Geometry,
		Logger:           m.logger,
		RTL:              m.opts.RTL,
		Layout:           m.opts.Layout,
		PrimarySelection: m.opts.PrimarySelection,
	}
}

// Create places a thought of the current mode at p. It stays in the
// creating state until the pointer is released.
func (m *Map) Create(p geometry.Point) *thought.Thought {
	return m.add(thought.New(m.mode.thoughtType(), p, m.thoughtOptions(m.nextID)))
}

// AddBox adds an idle thought of type typ with the given box.
func (m *Map) AddBox(typ thought.Type, box geometry.Rect) *thought.Thought {
	return m.add(thought.NewWithBox(typ, box, m.thoughtOptions(m.nextID)))
}

func (m *Map) add(t *thought.Thought) *thought.Thought {
	m.thoughts = append(m.thoughts, t)
	m.nextID = max(m.nextID, t.ID()+1)
	if m.primary == nil {
		m.SetPrimary(t)
	}
	m.logger.Debug("added %s thought %d", t.Type(), t.ID())
	return t
}

// Remove deletes a thought and every link touching it. Undo steps for the
// thought are dropped from the history; removal itself is not undoable.
func (m *Map) Remove(t *thought.Thought) error {
	i := slices.Index(m.thoughts, t)
	if i < 0 {
		return ErrUnknownThought
	}
	if m.editing == t {
		m.Edit(nil)
	}
	m.thoughts = slices.Delete(m.thoughts, i, i+1)
	m.links = slices.DeleteFunc(m.links, func(l Link) bool { return l.Parent == t || l.Child == t })
	if n := m.hist.DropTarget(t); n > 0 {
		m.logger.Debug("dropped %d undo steps of thought %d", n, t.ID())
	}
	if m.selected == t {
		m.selected = nil
	}
	if m.primary == t {
		m.primary = nil
		if len(m.thoughts) > 0 {
			m.SetPrimary(m.thoughts[0])
		}
	}
	return nil
}

func (m *Map) contains(t *thought.Thought) bool {
	return slices.Contains(m.thoughts, t)
}

// Thoughts returns the thoughts in creation order.
func (m *Map) Thoughts() []*thought.Thought { return slices.Clone(m.thoughts) }

// Thought returns the thought with identity id.
func (m *Map) Thought(id int) (*thought.Thought, bool) {
	for _, t := range m.thoughts {
		if t.ID() == id {
			return t, true
		}
	}
	return nil, false
}

// ThoughtAt returns the topmost thought whose box holds p.
func (m *Map) ThoughtAt(p geometry.Point) (*thought.Thought, bool) {
	for i := len(m.thoughts) - 1; i >= 0; i-- {
		t := m.thoughts[i]
		if t.Geometry().Box().Contains(p, t.Geometry().Config().Sensitivity) {
			return t, true
		}
	}
	return nil, false
}

// Primary returns the primary thought, the root of the map.
func (m *Map) Primary() *thought.Thought { return m.primary }

// SetPrimary makes t the primary thought.
func (m *Map) SetPrimary(t *thought.Thought) {
	if m.primary != nil {
		m.primary.SetPrimary(false)
	}
	m.primary = t
	if t != nil {
		t.SetPrimary(true)
	}
}

// Selected returns the selected thought, if any.
func (m *Map) Selected() *thought.Thought { return m.selected }

// Select makes t the selected thought. nil clears the selection.
func (m *Map) Select(t *thought.Thought) {
	if m.selected != nil {
		m.selected.SetSelected(false)
	}
	m.selected = t
	if t != nil {
		t.SetSelected(true)
	}
}

// Editing returns the thought with input focus, if any.
func (m *Map) Editing() *thought.Thought { return m.editing }

// Edit gives t input focus, leaving the thought that had it. nil leaves
// editing altogether.
func (m *Map) Edit(t *thought.Thought) {
	if m.editing == t {
		return
	}
	if m.editing != nil {
		m.editing.Leave()
	}
	m.editing = t
	if t != nil {
		m.Select(t)
		t.Enter()
	}
}

// Link joins parent to child.
func (m *Map) Link(parent, child *thought.Thought) error {
	switch {
	case !m.contains(parent) || !m.contains(child):
		return ErrUnknownThought
	case parent == child:
		return ErrSelfLink
	case !parent.CanBeParent():
		return fmt.Errorf("%w: %s thought %d", ErrCannotBeParent, parent.Type(), parent.ID())
	}
	for _, l := range m.links {
		if (l.Parent == parent && l.Child == child) || (l.Parent == child && l.Child == parent) {
			return ErrDuplicateLink
		}
	}
	m.links = append(m.links, Link{Parent: parent, Child: child})
	return nil
}

// Unlink removes the link from parent to child. It reports whether there
// was one.
func (m *Map) Unlink(parent, child *thought.Thought) bool {
	n := len(m.links)
	m.links = slices.DeleteFunc(m.links, func(l Link) bool { return l.Parent == parent && l.Child == child })
	return len(m.links) != n
}

// Links returns every link.
func (m *Map) Links() []Link { return slices.Clone(m.links) }

// Children returns the thoughts linked from t.
func (m *Map) Children(t *thought.Thought) []*thought.Thought {
	var out []*thought.Thought
	for _, l := range m.links {
		if l.Parent == t {
			out = append(out, l.Child)
		}
	}
	return out
}

// Connection returns the end points of a link.
func (l Link) Connection() (from, to geometry.Point) {
	return l.Parent.Connection(l.Child)
}

// Undo reverts the most recent action and refreshes the thought it
// belonged to. It reports whether there was anything to undo.
func (m *Map) Undo() (bool, error) {
	return m.replay(m.hist.PeekUndo, m.hist.Undo)
}

// Redo re-applies the most recently undone action.
func (m *Map) Redo() (bool, error) {
	return m.replay(m.hist.PeekRedo, m.hist.Redo)
}

// Transaction runs fn so that everything it records is a single undo
// step. If fn fails, the changes it recorded are reverted.
func (m *Map) Transaction(name string, fn func() error) error {
	err := m.hist.Transaction(name, fn)
	if err != nil {
		m.refreshAll()
	}
	return err
}

// Checkpoint marks the current position in the history.
func (m *Map) Checkpoint() history.Checkpoint {
	return m.hist.CreateCheckpoint()
}

// Rollback returns the history to cp: steps recorded after it are undone
// and steps from before it that were undone since are redone. Adding,
// removing and linking thoughts is not recorded and is kept.
func (m *Map) Rollback(cp history.Checkpoint) error {
	err := m.hist.UndoToCheckpoint(cp)
	if err == nil {
		err = m.hist.RedoToCheckpoint(cp)
	}
	m.refreshAll()
	if err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

func (m *Map) refreshAll() {
	for _, t := range m.thoughts {
		t.Refresh()
	}
}

func (m *Map) replay(peek func() (history.Info, bool), run func() (bool, error)) (bool, error) {
	info, ok := peek()
	if !ok {
		return false, nil
	}
	done, err := run()
	if err != nil {
		return done, fmt.Errorf("%s %q: %w", info.Kind, info.Description, err)
	}
	for _, target := range info.Targets {
		if t, ok := target.(*thought.Thought); ok && m.contains(t) {
			t.Refresh()
		}
	}
	return done, nil
}
