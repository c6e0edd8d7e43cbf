package textbuf

import (
	"fmt"

	"github.com/dshills/thoughtmap/internal/engine/attr"
	"github.com/dshills/thoughtmap/internal/engine/history"
)

// ToggleStyle turns style on or off over the selection. Without a
// selection only the typing styles at the caret change. It reports whether
// anything changed.
func (b *Buffer) ToggleStyle(style attr.Style, on bool) bool {
	start, end := b.Selection()
	c := b.attrs.Toggle(style, on, start, end)
	if !c.Changed() {
		return false
	}
	b.recordStyle(c)
	return true
}

// SetFont applies a font descriptor to the selection, or to the typed text
// when nothing is selected.
func (b *Buffer) SetFont(desc string) bool {
	return b.ToggleStyle(attr.FontStyle(desc), true)
}

// ClearTypingStyles drops the pending typing styles without recording.
func (b *Buffer) ClearTypingStyles() bool {
	return b.attrs.ClearPending()
}

// StyleActive reports whether a style of kind is in effect at the caret or
// over the whole selection.
func (b *Buffer) StyleActive(kind attr.Kind) bool {
	start, end := b.Selection()
	return b.attrs.KindActive(kind, start, end)
}

func styleKind(op attr.Op) history.Kind {
	switch op {
	case attr.OpAddPending:
		return history.KindAddAttr
	case attr.OpRemovePending:
		return history.KindRemoveAttr
	case attr.OpAddRange:
		return history.KindAddAttrRange
	default:
		return history.KindRemoveAttrRange
	}
}

func (b *Buffer) recordStyle(c attr.Change) {
	if b.hist == nil {
		return
	}
	desc := fmt.Sprintf("%s %s [%d,%d)", c.Op, c.Style, c.Start, c.End)
	b.hist.Add(history.NewAction(b.target, styleKind(c.Op), desc, func(mode history.Mode) error {
		if mode == history.Undo {
			b.attrs.Restore(c.Before)
		} else {
			b.attrs.Restore(c.After)
		}
		b.attrs.Clip(len(b.text))
		return nil
	}))
}
