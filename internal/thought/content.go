package thought

import "github.com/dshills/thoughtmap/internal/engine/geometry"

// Content is the variant part of a thought. The concrete types are
// *TextContent, *LabelContent, *DrawingContent and *ImageContent.
type Content interface {
	Type() Type

	title(t *Thought) string
	canBeParent() bool
	editCursor() geometry.Cursor

	enter(t *Thought)
	leave(t *Thought)
	// cancel discards a gesture in progress and reports whether there was one.
	cancel(t *Thought) bool

	pointerDown(t *Thought, ev PointerEvent, p geometry.Point) bool
	pointerMove(t *Thought, ev PointerEvent, p geometry.Point) bool
	pointerUp(t *Thought, ev PointerEvent, p geometry.Point) bool

	// created runs once the creation drag ends. small is set when the drag
	// was too short to size the box.
	created(t *Thought, small bool)
	resized(t *Thought)
	moveBy(d geometry.Point)
}

// noGesture is embedded by contents without pointer gestures of their own.
type noGesture struct{}

func (noGesture) enter(*Thought)       {}
func (noGesture) leave(*Thought)       {}
func (noGesture) cancel(*Thought) bool { return false }

func (noGesture) pointerDown(*Thought, PointerEvent, geometry.Point) bool { return false }
func (noGesture) pointerMove(*Thought, PointerEvent, geometry.Point) bool { return false }
func (noGesture) pointerUp(*Thought, PointerEvent, geometry.Point) bool   { return false }

func (noGesture) created(*Thought, bool) {}
func (noGesture) resized(*Thought)       {}
func (noGesture) moveBy(geometry.Point)  {}
