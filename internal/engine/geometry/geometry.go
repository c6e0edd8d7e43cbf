// Package geometry holds the bounding box of a thought and the pointer
// state machine that resizes it.
//
// A Geometry moves between four states. Creating is the one-shot state of
// a freshly placed thought whose size is being dragged out; Resizing is
// entered when a pointer goes down within Sensitivity of an edge; Editing
// marks a thought that has input focus; Idle is everything else. Every
// mutation keeps UL <= LR on both axes: a drag that crosses the opposite
// edge swaps the corners and flips the dragged edge in the mask.
package geometry

import "fmt"

// Defaults used when a Config leaves a value unset.
const (
	DefaultMinSize     = 20
	DefaultWidth       = 100
	DefaultHeight      = 70
	DefaultSensitivity = 5
	DefaultMargin      = 5
)

// Config holds the sizing constants.
type Config struct {
	MinSize       float64
	DefaultWidth  float64
	DefaultHeight float64
	Sensitivity   float64
	Margin        float64
}

// DefaultConfig returns the stock sizing constants.
func DefaultConfig() Config {
	return Config{
		MinSize:       DefaultMinSize,
		DefaultWidth:  DefaultWidth,
		DefaultHeight: DefaultHeight,
		Sensitivity:   DefaultSensitivity,
		Margin:        DefaultMargin,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinSize <= 0 {
		c.MinSize = d.MinSize
	}
	if c.DefaultWidth <= 0 {
		c.DefaultWidth = d.DefaultWidth
	}
	if c.DefaultHeight <= 0 {
		c.DefaultHeight = d.DefaultHeight
	}
	if c.Sensitivity <= 0 {
		c.Sensitivity = d.Sensitivity
	}
	if c.Margin < 0 {
		c.Margin = d.Margin
	}
	return c
}

// State is the pointer state of a Geometry.
type State uint8

const (
	Idle State = iota
	Resizing
	Creating
	Editing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Resizing:
		return "resizing"
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	}
	return fmt.Sprintf("state(%d)", s)
}

// Frame is everything a resize can change: the box and the content bounds.
type Frame struct {
	Box        Rect
	Content    Rect
	HasContent bool
}

// Change is the before and after frame of a finished gesture.
type Change struct {
	Before Frame
	After  Frame
}

// Changed reports whether the gesture altered the frame.
func (c Change) Changed() bool {
	return c.Before != c.After
}

// Geometry is the box of one thought.
// Geometry is not safe for concurrent use.
type Geometry struct {
	cfg Config

	box        Rect
	content    Rect
	hasContent bool

	state    State
	creating bool
	editing  bool
	mask     Mask
	pressed  bool
	orig     Frame
}

// New creates an idle geometry for an existing box.
func New(cfg Config, box Rect) *Geometry {
	return &Geometry{cfg: cfg.withDefaults(), box: box.Canon()}
}

// NewAt creates a geometry for a thought placed at p. The box starts as
// p widened by the margin and the lower-right corner is already being
// dragged, so pointer motion sizes the new thought until the pointer is
// released.
func NewAt(cfg Config, p Point) *Geometry {
	cfg = cfg.withDefaults()
	m := cfg.Margin
	g := &Geometry{
		cfg:      cfg,
		box:      Rect{UL: Point{X: p.X - m, Y: p.Y - m}, LR: Point{X: p.X + m, Y: p.Y + m}},
		state:    Creating,
		creating: true,
		mask:     Right | Bottom,
		pressed:  true,
	}
	g.orig = g.Frame()
	return g
}

// Config returns the sizing constants in use.
func (g *Geometry) Config() Config { return g.cfg }

// Box returns the bounding box.
func (g *Geometry) Box() Rect { return g.box }

// UL returns the upper-left corner.
func (g *Geometry) UL() Point { return g.box.UL }

// LR returns the lower-right corner.
func (g *Geometry) LR() Point { return g.box.LR }

// Width returns the box width.
func (g *Geometry) Width() float64 { return g.box.Width() }

// Height returns the box height.
func (g *Geometry) Height() float64 { return g.box.Height() }

// Center returns the box midpoint.
func (g *Geometry) Center() Point { return g.box.Center() }

// Content returns the content bounds and whether any are set.
func (g *Geometry) Content() (Rect, bool) { return g.content, g.hasContent }

// State returns the pointer state.
func (g *Geometry) State() State { return g.state }

// Mask returns the edges under the pointer or being dragged.
func (g *Geometry) Mask() Mask { return g.mask }

// IsCreating reports whether the initial sizing drag is still pending.
func (g *Geometry) IsCreating() bool { return g.creating }

// Frame captures the current box and content bounds.
func (g *Geometry) Frame() Frame {
	return Frame{Box: g.box, Content: g.content, HasContent: g.hasContent}
}

// Restore replaces the box and content bounds with f.
func (g *Geometry) Restore(f Frame) {
	g.box = f.Box.Canon()
	g.content = f.Content
	g.hasContent = f.HasContent
}

// SetBox replaces the box.
func (g *Geometry) SetBox(r Rect) {
	g.box = r.Canon()
}

// SetSize keeps the upper-left corner and sets the size, clamped to MinSize.
func (g *Geometry) SetSize(width, height float64) {
	g.box = RectFromSize(g.box.UL, max(width, g.cfg.MinSize), max(height, g.cfg.MinSize))
}

// SetContent sets the content bounds.
func (g *Geometry) SetContent(r Rect) {
	g.content = r.Canon()
	g.hasContent = true
}

// ClearContent forgets the content bounds.
func (g *Geometry) ClearContent() {
	g.content = Rect{}
	g.hasContent = false
}

// ExtendContent grows the content bounds to hold r.
func (g *Geometry) ExtendContent(r Rect) {
	if !g.hasContent {
		g.SetContent(r)
		return
	}
	g.content = g.content.Union(r.Canon())
}

// GrowTo enlarges the box so that p lies at least pad inside it.
// It reports whether the box changed.
func (g *Geometry) GrowTo(p Point, pad float64) bool {
	old := g.box
	if p.X < g.box.UL.X+pad {
		g.box.UL.X = p.X - pad
	} else if p.X > g.box.LR.X-pad {
		g.box.LR.X = p.X + pad
	}
	if p.Y < g.box.UL.Y+pad {
		g.box.UL.Y = p.Y - pad
	} else if p.Y > g.box.LR.Y-pad {
		g.box.LR.Y = p.Y + pad
	}
	return g.box != old
}

// MoveBy translates the box and the content.
func (g *Geometry) MoveBy(d Point) {
	g.box = g.box.Translate(d)
	g.MoveContentBy(d)
}

// MoveContentBy translates only the content bounds.
func (g *Geometry) MoveContentBy(d Point) {
	if g.hasContent {
		g.content = g.content.Translate(d)
	}
}

// Enter switches to Editing unless a gesture is in progress.
func (g *Geometry) Enter() {
	g.editing = true
	if g.state == Idle {
		g.state = Editing
	}
}

// Leave drops Editing and discards any gesture in progress.
func (g *Geometry) Leave() {
	g.Cancel()
	g.editing = false
	if g.state == Editing {
		g.state = Idle
	}
}

// IsEditing reports whether the thought has input focus.
func (g *Geometry) IsEditing() bool { return g.editing }

func (g *Geometry) restState() State {
	switch {
	case g.creating:
		return Creating
	case g.editing:
		return Editing
	}
	return Idle
}
