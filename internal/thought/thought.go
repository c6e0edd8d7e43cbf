// Package thought implements the nodes of a thought map.
//
// A Thought owns a resizable box (a *geometry.Geometry) and exactly one
// content variant: text, label, drawing or image. Input arrives through
// ProcessPointerDown/Move/Up and ProcessKeyPress; the thought forwards it
// to its geometry for resizing or to its content for editing, records the
// resulting undo actions in the shared history, and publishes what changed
// on an event.Emitter.
//
// Thoughts are not safe for concurrent use.
package thought

import (
	"fmt"

	"github.com/dshills/thoughtmap/internal/engine/geometry"
	"github.com/dshills/thoughtmap/internal/engine/history"
	"github.com/dshills/thoughtmap/internal/event"
	"github.com/dshills/thoughtmap/internal/logging"
	"github.com/dshills/thoughtmap/internal/theme"
)

// Type is the kind of content a thought holds.
type Type uint8

const (
	TypeText Type = iota
	TypeLabel
	TypeDrawing
	TypeImage
)

var typeElements = [...]string{
	TypeText:    "thought",
	TypeLabel:   "label_thought",
	TypeDrawing: "drawing_thought",
	TypeImage:   "image_thought",
}

// Element returns the name of the saved element for the type.
func (t Type) Element() string {
	if int(t) < len(typeElements) {
		return typeElements[t]
	}
	return ""
}

func (t Type) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeLabel:
		return "label"
	case TypeDrawing:
		return "drawing"
	case TypeImage:
		return "image"
	}
	return fmt.Sprintf("type(%d)", t)
}

// TypeForElement maps a saved element name back to a Type.
func TypeForElement(name string) (Type, bool) {
	for t, el := range typeElements {
		if el == name {
			return Type(t), true
		}
	}
	return 0, false
}

// Layout maps a point to a character offset of laid out text. x and y
// are relative to the text origin.
type Layout interface {
	IndexAt(text string, x, y float64) int
}

// Options are the collaborators and settings a thought is built with.
type Options struct {
	Identity int
	History  *history.History
	Emitter  *event.Emitter
	Theme    theme.Theme
	Geometry geometry.Config
	Logger   *logging.Logger

	// RTL swaps the Left and Right keys.
	RTL bool

	// Layout positions the caret from the pointer. Nil uses DefaultLayout.
	Layout Layout

	// PrimarySelection returns the text pasted by the middle button.
	// Nil disables middle-button paste.
	PrimarySelection func() string
}

// Thought is one node of a map.
type Thought struct {
	id      int
	geom    *geometry.Geometry
	content Content

	hist    *history.History
	emitter *event.Emitter
	theme   theme.Theme
	logger  *logging.Logger
	rtl     bool
	layout  Layout
	primSel func() string

	background theme.Color
	foreground theme.Color
	primary    bool
	selected   bool
	title      string
	extended   string
}

// New places a new thought of type typ at p. The thought starts in the
// Creating state: pointer motion until the next ProcessPointerUp sizes it.
func New(typ Type, p geometry.Point, opts Options) *Thought {
	t := newThought(opts)
	t.geom = geometry.NewAt(opts.Geometry, p)
	t.content = newContent(typ, t)
	t.title = t.content.title(t)
	return t
}

// NewWithBox creates an idle thought with an existing box.
func NewWithBox(typ Type, box geometry.Rect, opts Options) *Thought {
	t := newThought(opts)
	t.geom = geometry.New(opts.Geometry, box)
	t.content = newContent(typ, t)
	t.title = t.content.title(t)
	return t
}

func newThought(opts Options) *Thought {
	layout := opts.Layout
	if layout == nil {
		layout = DefaultLayout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Thought{
		id:         opts.Identity,
		hist:       opts.History,
		emitter:    opts.Emitter,
		theme:      opts.Theme,
		logger:     logger.WithComponent("thought").WithField("identity", opts.Identity),
		rtl:        opts.RTL,
		layout:     layout,
		primSel:    opts.PrimarySelection,
		background: opts.Theme.Normal.Background,
		foreground: opts.Theme.Normal.Foreground,
	}
}

func newContent(typ Type, t *Thought) Content {
	switch typ {
	case TypeLabel:
		return newLabel(t)
	case TypeDrawing:
		return newDrawing()
	case TypeImage:
		return &ImageContent{}
	}
	return newText(t)
}

// ID returns the identity of the thought within its map.
func (t *Thought) ID() int { return t.id }

// Type returns the content type.
func (t *Thought) Type() Type { return t.content.Type() }

// Content returns the content variant. Use a type switch on
// *TextContent, *LabelContent, *DrawingContent or *ImageContent.
func (t *Thought) Content() Content { return t.content }

// Geometry returns the box of the thought.
func (t *Thought) Geometry() *geometry.Geometry { return t.geom }

// Title returns the title shown for the thought in lists and links.
func (t *Thought) Title() string { return t.title }

// Extended returns the plain-text note attached to the thought.
func (t *Thought) Extended() string { return t.extended }

// SetExtended replaces the note. An empty note is not saved.
func (t *Thought) SetExtended(note string) {
	if note == t.extended {
		return
	}
	t.extended = note
	t.publish(TopicViewUpdate, nil)
}

// Background returns the fill color.
func (t *Thought) Background() theme.Color { return t.background }

// Foreground returns the outline and text color.
func (t *Thought) Foreground() theme.Color { return t.foreground }

// SetColors changes the fill and outline colors.
func (t *Thought) SetColors(background, foreground theme.Color) {
	t.background, t.foreground = background, foreground
	t.publish(TopicViewUpdate, nil)
}

// TextColor returns the color text is drawn in.
func (t *Thought) TextColor() theme.Color {
	return t.theme.TextColor(t.primary, t.foreground)
}

// IsPrimary reports whether this is the primary thought of the map.
func (t *Thought) IsPrimary() bool { return t.primary }

// SetPrimary marks or unmarks the thought as primary.
func (t *Thought) SetPrimary(v bool) { t.primary = v }

// IsSelected reports whether the thought is selected.
func (t *Thought) IsSelected() bool { return t.selected }

// SetSelected selects or unselects the thought.
func (t *Thought) SetSelected(v bool) { t.selected = v }

// CanBeParent reports whether links may start at this thought.
func (t *Thought) CanBeParent() bool { return t.content.canBeParent() }

// IsEditing reports whether the thought has input focus.
func (t *Thought) IsEditing() bool { return t.geom.IsEditing() }

// Includes reports whether p is on the thought, publishing the cursor
// shape for the edge or content under the pointer.
func (t *Thought) Includes(p geometry.Point) bool {
	inside, mask := t.geom.HitTest(p)
	cursor := geometry.CursorFor(mask)
	if mask == geometry.None && inside && t.IsEditing() {
		cursor = t.content.editCursor()
	}
	t.publish(TopicCursorChanged, cursor)
	return inside
}

// Focus asks the map to select the thought and give it the keyboard.
func (t *Thought) Focus() {
	t.publish(TopicSelect, nil)
	t.publish(TopicFocusGrab, true)
}

// Enter gives the thought input focus.
func (t *Thought) Enter() {
	if t.IsEditing() {
		return
	}
	t.geom.Enter()
	t.content.enter(t)
	t.publish(TopicViewUpdate, nil)
}

// Leave takes input focus away. Any gesture in progress is discarded
// without an undo record.
func (t *Thought) Leave() {
	if !t.IsEditing() {
		t.cancelGesture()
		return
	}
	t.cancelGesture()
	t.geom.Leave()
	t.content.leave(t)
	t.publish(TopicCursorChanged, geometry.CursorDefault)
	t.publish(TopicLinksUpdate, nil)
	t.publish(TopicViewUpdate, nil)
}

// Cancel aborts a resize or drawing gesture in progress and restores the
// state from before it started. It reports whether there was one.
func (t *Thought) Cancel() bool {
	if !t.cancelGesture() {
		return false
	}
	t.publish(TopicLinksUpdate, nil)
	t.publish(TopicViewUpdate, nil)
	return true
}

func (t *Thought) cancelGesture() bool {
	cancelled := t.content.cancel(t)
	if t.geom.Cancel() {
		cancelled = true
	}
	return cancelled
}

// MoveBy translates the thought and its content.
func (t *Thought) MoveBy(dx, dy float64) {
	d := geometry.Pt(dx, dy)
	t.geom.MoveBy(d)
	t.content.moveBy(d)
	t.publish(TopicLinksUpdate, nil)
	t.publish(TopicViewUpdate, nil)
}

// Resize sets the size of the box, keeping the upper-left corner, and
// records the change for undo. Sizes are clamped to the minimum size.
func (t *Thought) Resize(width, height float64) bool {
	if t.geom.Dragging() {
		return false
	}
	c := geometry.Change{Before: t.geom.Frame()}
	t.geom.SetSize(width, height)
	c.After = t.geom.Frame()
	if !c.Changed() {
		return false
	}
	t.content.resized(t)
	t.recordResize(c)
	t.publish(TopicLinksUpdate, nil)
	t.publish(TopicViewUpdate, nil)
	return true
}

// Connection returns the end points of a link from t to other.
func (t *Thought) Connection(other *Thought) (from, to geometry.Point) {
	return t.geom.Connection(other.geom, t.theme.Bezier)
}

// Refresh republishes the state of the thought after it was changed from
// outside the input methods, for example by an undo.
func (t *Thought) Refresh() {
	t.updateTitle()
	if tc := t.text(); tc != nil {
		t.publishAttrs(tc)
	}
	t.publish(TopicLinksUpdate, nil)
	t.publish(TopicViewUpdate, nil)
}

func (t *Thought) updateTitle() {
	title := t.content.title(t)
	if title == t.title {
		return
	}
	t.title = title
	t.publish(TopicTitleChanged, title)
}

func (t *Thought) publish(topic event.Topic, payload any) {
	if err := t.emitter.Publish(topic, t, payload); err != nil {
		t.logger.Warn("publish %s: %v", topic, err)
	}
}

// recordResize adds an undo action restoring the frame on either side of
// a finished resize.
func (t *Thought) recordResize(c geometry.Change) {
	if t.hist == nil {
		return
	}
	desc := fmt.Sprintf("resize %s -> %s", c.Before.Box, c.After.Box)
	t.hist.Add(history.NewAction(t, history.KindResize, desc, func(mode history.Mode) error {
		if mode == history.Undo {
			t.geom.Restore(c.Before)
		} else {
			t.geom.Restore(c.After)
		}
		t.content.resized(t)
		t.publish(TopicLinksUpdate, nil)
		t.publish(TopicViewUpdate, nil)
		return nil
	}))
}

// text returns the text content of text and label thoughts.
func (t *Thought) text() *TextContent {
	switch c := t.content.(type) {
	case *TextContent:
		return c
	case *LabelContent:
		return c.TextContent
	}
	return nil
}
