package thought

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// ProcessKeyPress handles a key typed while the thought is being edited.
// It reports whether the key was used.
func (t *Thought) ProcessKeyPress(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape {
		if !t.IsEditing() {
			return false
		}
		t.Leave()
		return true
	}
	c := t.text()
	if c == nil || !t.IsEditing() {
		return false
	}

	mod := ev.Modifiers()
	ctrl := mod&tcell.ModCtrl != 0
	shift := mod&tcell.ModShift != 0

	inserted := false
	switch ev.Key() {
	case tcell.KeyCtrlA:
		c.SelectAll()
	case tcell.KeyLeft, tcell.KeyRight:
		back := ev.Key() == tcell.KeyLeft
		if t.rtl {
			back = !back
		}
		switch {
		case back && ctrl:
			c.MoveWordLeft(shift)
		case back:
			c.MoveLeft(shift)
		case ctrl:
			c.MoveWordRight(shift)
		default:
			c.MoveRight(shift)
		}
	case tcell.KeyUp:
		c.MoveUp(shift)
	case tcell.KeyDown:
		c.MoveDown(shift)
	case tcell.KeyHome:
		c.MoveHome(shift)
	case tcell.KeyEnd:
		c.MoveEnd(shift)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if ctrl || mod&tcell.ModAlt != 0 {
			c.DeleteWordBackward()
		} else {
			c.DeleteBackward()
		}
	case tcell.KeyDelete:
		c.DeleteForward()
	case tcell.KeyEnter:
		c.Insert("\n")
		inserted = true
	case tcell.KeyRune:
		r := ev.Rune()
		switch {
		case ctrl && unicode.ToLower(r) == 'a':
			c.SelectAll()
		case ctrl || !unicode.IsPrint(r):
			return false
		default:
			c.Insert(string(r))
			inserted = true
		}
	default:
		return false
	}

	if !inserted {
		c.ClearTypingStyles()
	}
	t.edited(c)
	return true
}
