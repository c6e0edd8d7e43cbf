package textbuf

import (
	"fmt"
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/thoughtmap/internal/engine/attr"
	"github.com/dshills/thoughtmap/internal/engine/history"
)

// cursorState is a caret and selection end pair.
type cursorState struct {
	caret  int
	selEnd int
}

func (b *Buffer) cursor() cursorState {
	return cursorState{caret: b.caret, selEnd: b.selEnd}
}

func (b *Buffer) setCursor(c cursorState) {
	b.caret = b.clamp(c.caret)
	b.selEnd = b.clamp(c.selEnd)
}

// textEdit is the record of one insertion or deletion.
type textEdit struct {
	kind      history.Kind
	at        int
	text      []rune
	byteLens  []int
	before    attr.Snapshot
	after     attr.Snapshot
	curBefore cursorState
	curAfter  cursorState
}

// apply replays the edit. Undoing an insertion deletes, undoing a deletion
// inserts; the attribute snapshot is restored exactly in both directions.
func (b *Buffer) apply(e *textEdit, mode history.Mode) error {
	end := e.at + len(e.text)
	insert := (e.kind == history.KindInsert) == (mode == history.Redo)
	if insert {
		if e.at > len(b.text) {
			return fmt.Errorf("%w: insert at %d beyond length %d", ErrStaleAction, e.at, len(b.text))
		}
		b.splice(e.at, e.at, e.text)
	} else {
		if end > len(b.text) || !slices.Equal(b.text[e.at:end], e.text) {
			return fmt.Errorf("%w: text at %d does not match", ErrStaleAction, e.at)
		}
		b.splice(e.at, end, nil)
	}
	if mode == history.Undo {
		b.setCursor(e.curBefore)
		b.attrs.Restore(e.before)
	} else {
		b.setCursor(e.curAfter)
		b.attrs.Restore(e.after)
	}
	b.check("replay")
	return nil
}

func (b *Buffer) record(e *textEdit) {
	if b.hist == nil {
		return
	}
	verb := "insert"
	if e.kind == history.KindDelete {
		verb = "delete"
	}
	n := 0
	for _, l := range e.byteLens {
		n += l
	}
	desc := fmt.Sprintf("%s %d bytes at byte %d", verb, n, b.ByteIndexFromIndex(e.at))
	b.hist.Add(history.NewAction(b.target, e.kind, desc, func(mode history.Mode) error {
		return b.apply(e, mode)
	}))
}

// group runs fn inside a history group so that its records form one step.
func (b *Buffer) group(name string, fn func()) {
	if b.hist == nil {
		fn()
		return
	}
	scope := b.hist.GroupScope(name)
	defer scope.End()
	fn()
}

// Insert inserts s at the caret, replacing the selection if there is one.
func (b *Buffer) Insert(s string) {
	b.InsertAt(s, b.caret, b.selEnd)
}

// InsertAt inserts s at offset at. If selEnd differs from at, the text
// between them is deleted first and the insertion happens at the lower
// bound; both records form a single undo step. The caret ends after the
// inserted text with the selection collapsed.
func (b *Buffer) InsertAt(s string, at, selEnd int) {
	at, selEnd = b.clamp(at), b.clamp(selEnd)
	if at == selEnd {
		b.insert([]rune(s), at)
		return
	}
	b.group("replace selection", func() {
		start, end := min(at, selEnd), max(at, selEnd)
		b.caret, b.selEnd = at, selEnd
		b.deleteRange(start, end)
		b.insert([]rune(s), start)
	})
}

func (b *Buffer) insert(rs []rune, at int) {
	if len(rs) == 0 {
		b.caret, b.selEnd = at, at
		return
	}
	e := &textEdit{
		kind:      history.KindInsert,
		at:        at,
		text:      slices.Clone(rs),
		before:    b.attrs.Snapshot(),
		curBefore: b.cursor(),
	}
	inherit := b.attrs.StartingAt(at)
	b.splice(at, at, rs)
	b.attrs.ApplyInsert(at, len(rs))
	for _, st := range inherit {
		b.attrs.Change(attr.Range{Style: st, Start: at, End: at + len(rs)})
	}
	b.caret = at + len(rs)
	b.selEnd = b.caret
	e.byteLens = byteLengths(rs)
	e.after = b.attrs.Snapshot()
	e.curAfter = b.cursor()
	b.check("Insert")
	b.record(e)
}

// deleteRange removes [start, end) and records the deletion.
func (b *Buffer) deleteRange(start, end int) bool {
	if start >= end {
		return false
	}
	e := &textEdit{
		kind:      history.KindDelete,
		at:        start,
		text:      slices.Clone(b.text[start:end]),
		byteLens:  slices.Clone(b.byteLens[start:end]),
		before:    b.attrs.Snapshot(),
		curBefore: b.cursor(),
	}
	b.splice(start, end, nil)
	b.attrs.ApplyDelete(start, end)
	b.caret, b.selEnd = start, start
	e.after = b.attrs.Snapshot()
	e.curAfter = b.cursor()
	b.check("Delete")
	b.record(e)
	return true
}

// DeleteForward deletes the selection, or the character after the caret.
// It reports whether anything was deleted.
func (b *Buffer) DeleteForward() bool {
	if b.HasSelection() {
		return b.deleteRange(b.Selection())
	}
	if b.caret >= len(b.text) {
		return false
	}
	return b.deleteRange(b.caret, b.caret+1)
}

// DeleteBackward deletes the selection, or the character before the caret.
// It reports whether anything was deleted.
func (b *Buffer) DeleteBackward() bool {
	if b.HasSelection() {
		return b.deleteRange(b.Selection())
	}
	if b.caret <= 0 {
		return false
	}
	return b.deleteRange(b.caret-1, b.caret)
}

// DeleteWordBackward deletes the selection, or back to the start of the
// word before the caret.
func (b *Buffer) DeleteWordBackward() bool {
	if b.HasSelection() {
		return b.deleteRange(b.Selection())
	}
	return b.deleteRange(b.wordStartBefore(b.caret), b.caret)
}

// Copy returns the selected text.
func (b *Buffer) Copy() string {
	return b.SelectedText()
}

// Cut removes the selection and returns it.
func (b *Buffer) Cut() string {
	s := b.SelectedText()
	if s != "" {
		b.deleteRange(b.Selection())
	}
	return s
}

// Paste inserts s at the caret, replacing the selection.
func (b *Buffer) Paste(s string) {
	if s == "" && !b.HasSelection() {
		return
	}
	b.Insert(s)
}

// ReplaceAll replaces the whole text with s as a single undo step.
func (b *Buffer) ReplaceAll(s string) {
	if s == string(b.text) {
		return
	}
	b.InsertAt(s, 0, len(b.text))
}

// wordBoundaries returns the character offsets at which words begin or end.
func (b *Buffer) wordBoundaries() []int {
	bounds := []int{0}
	rest := string(b.text)
	state := -1
	pos := 0
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		pos += utf8.RuneCountInString(word)
		bounds = append(bounds, pos)
	}
	return bounds
}

// wordStartBefore returns the start of the word before off, skipping
// whitespace between it and off.
func (b *Buffer) wordStartBefore(off int) int {
	bounds := b.wordBoundaries()
	target := off
	for target > 0 && unicode.IsSpace(b.text[target-1]) {
		target--
	}
	start := 0
	for _, p := range bounds {
		if p >= target {
			break
		}
		start = p
	}
	if target == 0 {
		return 0
	}
	return start
}

// wordEndAfter returns the end of the word after off, skipping whitespace
// between off and it.
func (b *Buffer) wordEndAfter(off int) int {
	target := off
	for target < len(b.text) && unicode.IsSpace(b.text[target]) {
		target++
	}
	for _, p := range b.wordBoundaries() {
		if p > target {
			return p
		}
	}
	return len(b.text)
}
