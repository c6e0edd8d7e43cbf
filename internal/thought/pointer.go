package thought

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/thoughtmap/internal/engine/geometry"
)

// PointerEvent is the button and modifier state of a pointer event.
type PointerEvent struct {
	Buttons     tcell.ButtonMask
	Mod         tcell.ModMask
	DoubleClick bool
}

// PointerFromMouse converts a terminal mouse event. The caller decides
// whether the press completes a double click.
func PointerFromMouse(ev *tcell.EventMouse, double bool) (PointerEvent, geometry.Point) {
	x, y := ev.Position()
	return PointerEvent{
		Buttons:     ev.Buttons(),
		Mod:         ev.Modifiers(),
		DoubleClick: double,
	}, geometry.Pt(float64(x), float64(y))
}

func (ev PointerEvent) primary() bool   { return ev.Buttons&tcell.Button1 != 0 }
func (ev PointerEvent) secondary() bool { return ev.Buttons&tcell.Button2 != 0 }
func (ev PointerEvent) shift() bool     { return ev.Mod&tcell.ModShift != 0 }

// ProcessPointerDown handles a button press at p. A press on an edge
// starts a resize; anything else goes to the content. It reports whether
// the event was used.
func (t *Thought) ProcessPointerDown(ev PointerEvent, p geometry.Point) bool {
	if t.geom.PointerDown(p) {
		t.publish(TopicCursorChanged, t.geom.Cursor())
		return true
	}
	return t.content.pointerDown(t, ev, p)
}

// ProcessPointerMove handles pointer motion to p.
func (t *Thought) ProcessPointerMove(ev PointerEvent, p geometry.Point) bool {
	if t.geom.Dragging() {
		if t.geom.PointerMove(p) {
			t.content.resized(t)
			t.publish(TopicLinksUpdate, nil)
			t.publish(TopicViewUpdate, nil)
		}
		return true
	}
	return t.content.pointerMove(t, ev, p)
}

// ProcessPointerUp handles a button release at p. Releasing a creation
// drag sizes the new thought; releasing a resize records it for undo.
func (t *Thought) ProcessPointerUp(ev PointerEvent, p geometry.Point) bool {
	if !t.geom.Dragging() {
		return t.content.pointerUp(t, ev, p)
	}
	creating := t.geom.IsCreating()
	cfg := t.geom.Config()
	small := t.geom.Width() < cfg.MinSize && t.geom.Height() < cfg.MinSize

	c, record := t.geom.PointerUp()
	switch {
	case creating:
		t.content.created(t, small)
		t.publish(TopicFocusGrab, true)
	case record:
		t.recordResize(c)
	}
	t.content.pointerUp(t, ev, p)
	t.publish(TopicCursorChanged, geometry.CursorDefault)
	t.publish(TopicLinksUpdate, nil)
	t.publish(TopicViewUpdate, nil)
	return true
}
