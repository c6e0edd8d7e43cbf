package thought

import (
	"github.com/dshills/thoughtmap/internal/engine/attr"
	"github.com/dshills/thoughtmap/internal/engine/geometry"
	"github.com/dshills/thoughtmap/internal/engine/textbuf"
)

// TextContent is the editable text of a text or label thought.
type TextContent struct {
	*textbuf.Buffer

	pressed     bool
	doubleClick bool
}

func newText(t *Thought) *TextContent {
	return &TextContent{Buffer: textbuf.New(t.hist, t)}
}

// Type implements Content.
func (c *TextContent) Type() Type { return TypeText }

func (c *TextContent) title(*Thought) string { return c.FirstLine() }
func (c *TextContent) canBeParent() bool     { return true }

func (c *TextContent) editCursor() geometry.Cursor { return geometry.CursorText }

func (c *TextContent) enter(*Thought) {}

func (c *TextContent) leave(t *Thought) {
	c.CollapseSelection()
	c.ClearTypingStyles()
	c.pressed, c.doubleClick = false, false
	t.publishSelection(c)
}

func (c *TextContent) cancel(*Thought) bool {
	was := c.pressed
	c.pressed = false
	return was
}

func (c *TextContent) indexAt(t *Thought, p geometry.Point) int {
	m := t.geom.Config().Margin
	ul := t.geom.UL()
	return t.layout.IndexAt(c.Text(), p.X-ul.X-m, p.Y-ul.Y-m)
}

func (c *TextContent) pointerDown(t *Thought, ev PointerEvent, p geometry.Point) bool {
	switch {
	case ev.primary() && ev.DoubleClick:
		c.SelectAll()
		c.doubleClick = true
	case ev.primary():
		c.MoveCaret(c.indexAt(t, p), ev.shift())
		c.pressed = true
	case ev.secondary():
		c.SetCaret(c.indexAt(t, p))
		if t.primSel != nil {
			if s := t.primSel(); s != "" {
				c.Paste(s)
				t.updateTitle()
			}
		}
	default:
		return false
	}
	c.ClearTypingStyles()
	t.publishSelection(c)
	t.publishAttrs(c)
	t.publish(TopicViewUpdate, nil)
	return true
}

func (c *TextContent) pointerMove(t *Thought, ev PointerEvent, p geometry.Point) bool {
	if !c.pressed || c.doubleClick || !ev.primary() || !t.IsEditing() {
		return false
	}
	if inside, _ := t.geom.HitTest(p); !inside {
		return false
	}
	c.MoveCaret(c.indexAt(t, p), true)
	t.publishSelection(c)
	t.publish(TopicViewUpdate, nil)
	return true
}

func (c *TextContent) pointerUp(*Thought, PointerEvent, geometry.Point) bool {
	used := c.pressed || c.doubleClick
	c.pressed, c.doubleClick = false, false
	return used
}

func (c *TextContent) created(*Thought, bool) {}
func (c *TextContent) resized(*Thought)       {}
func (c *TextContent) moveBy(geometry.Point)  {}

func (t *Thought) publishSelection(c *TextContent) {
	start, end := c.Selection()
	t.publish(TopicSelectionChanged, Selection{Start: start, End: end, Text: c.SelectedText()})
}

func (t *Thought) publishAttrs(c *TextContent) {
	a := Attrs{
		Bold:      c.StyleActive(attr.Bold),
		Italic:    c.StyleActive(attr.Italic),
		Underline: c.StyleActive(attr.Underline),
	}
	for _, st := range c.ActiveStyles() {
		if st.Kind == attr.Font {
			a.Font = st.Desc
		}
	}
	t.publish(TopicAttrsChanged, a)
}

// edited publishes everything a text mutation can change.
func (t *Thought) edited(c *TextContent) {
	t.publishSelection(c)
	t.updateTitle()
	t.publishAttrs(c)
	t.publish(TopicViewUpdate, nil)
}

func (t *Thought) editText(fn func(c *TextContent) bool) bool {
	c := t.text()
	if c == nil {
		return false
	}
	if !fn(c) {
		return false
	}
	t.edited(c)
	return true
}

// Text returns the text of a text or label thought, or "".
func (t *Thought) Text() string {
	if c := t.text(); c != nil {
		return c.Text()
	}
	return ""
}

// Insert types s at the caret, replacing the selection.
func (t *Thought) Insert(s string) bool {
	return t.editText(func(c *TextContent) bool {
		if s == "" {
			return false
		}
		c.Insert(s)
		return true
	})
}

// DeleteBackward deletes the selection or the character before the caret.
func (t *Thought) DeleteBackward() bool {
	return t.editText(func(c *TextContent) bool { return c.DeleteBackward() })
}

// DeleteForward deletes the selection or the character after the caret.
func (t *Thought) DeleteForward() bool {
	return t.editText(func(c *TextContent) bool { return c.DeleteForward() })
}

// Select sets the caret and the selection end.
func (t *Thought) Select(caret, selEnd int) bool {
	return t.editText(func(c *TextContent) bool {
		c.Select(caret, selEnd)
		return true
	})
}

// Copy returns the selected text.
func (t *Thought) Copy() string {
	if c := t.text(); c != nil {
		return c.Copy()
	}
	return ""
}

// Cut removes and returns the selected text.
func (t *Thought) Cut() string {
	var s string
	t.editText(func(c *TextContent) bool {
		s = c.Cut()
		return s != ""
	})
	return s
}

// Paste inserts s at the caret, replacing the selection.
func (t *Thought) Paste(s string) {
	t.editText(func(c *TextContent) bool {
		if s == "" {
			return false
		}
		c.Paste(s)
		return true
	})
}

// SetBold turns bold on or off over the selection or for typed text.
func (t *Thought) SetBold(on bool) bool { return t.toggle(attr.StyleBold, on) }

// SetItalic turns italic on or off.
func (t *Thought) SetItalic(on bool) bool { return t.toggle(attr.StyleItalic, on) }

// SetUnderline turns underline on or off.
func (t *Thought) SetUnderline(on bool) bool { return t.toggle(attr.StyleUnderline, on) }

// SetFont applies a font descriptor such as "Serif 12".
func (t *Thought) SetFont(desc string) bool {
	if desc == "" {
		return false
	}
	return t.toggle(attr.FontStyle(desc), true)
}

func (t *Thought) toggle(style attr.Style, on bool) bool {
	return t.editText(func(c *TextContent) bool { return c.ToggleStyle(style, on) })
}
