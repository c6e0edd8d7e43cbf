// Package textbuf implements the editable text of a thought.
//
// A Buffer keeps its text as characters together with a byte table: one
// entry per character holding that character's UTF-8 length. Public offsets
// are character offsets; the table converts them to the byte offsets used
// by persisted documents and text layout.
//
// Every mutation keeps the buffer's attribute set in step and records an
// undoable action in the attached history. Replaying an action goes through
// the same splice primitives with the history gate held, so replays never
// record new actions.
package textbuf

import (
	"slices"
	"unicode/utf8"

	"github.com/dshills/thoughtmap/internal/engine/attr"
	"github.com/dshills/thoughtmap/internal/engine/history"
)

// Buffer is the text, caret and attribute state of one thought.
// Buffer is not safe for concurrent use.
type Buffer struct {
	text     []rune
	byteLens []int
	caret    int
	selEnd   int
	attrs    *attr.Set

	hist   *history.History
	target any
}

// New creates an empty buffer recording into h on behalf of target.
// h may be nil, in which case nothing is recorded.
func New(h *history.History, target any) *Buffer {
	return &Buffer{
		attrs:  attr.New(),
		hist:   h,
		target: target,
	}
}

// SetHistory changes the history that mutations are recorded in.
func (b *Buffer) SetHistory(h *history.History, target any) {
	b.hist = h
	b.target = target
}

// History returns the attached history, which may be nil.
func (b *Buffer) History() *history.History {
	return b.hist
}

// Text returns the buffer contents.
func (b *Buffer) Text() string {
	return string(b.text)
}

// Len returns the number of characters.
func (b *Buffer) Len() int {
	return len(b.text)
}

// ByteLen returns the UTF-8 length of the contents.
func (b *Buffer) ByteLen() int {
	n := 0
	for _, l := range b.byteLens {
		n += l
	}
	return n
}

// IsEmpty reports whether the buffer holds no text.
func (b *Buffer) IsEmpty() bool {
	return len(b.text) == 0
}

// ByteTable returns a copy of the per-character byte lengths.
func (b *Buffer) ByteTable() []int {
	return slices.Clone(b.byteLens)
}

// Caret returns the caret offset.
func (b *Buffer) Caret() int {
	return b.caret
}

// SelectionEnd returns the other end of the selection. It equals the caret
// when nothing is selected.
func (b *Buffer) SelectionEnd() int {
	return b.selEnd
}

// Selection returns the selection bounds in order.
func (b *Buffer) Selection() (start, end int) {
	return min(b.caret, b.selEnd), max(b.caret, b.selEnd)
}

// HasSelection reports whether a non-empty selection exists.
func (b *Buffer) HasSelection() bool {
	return b.caret != b.selEnd
}

// SelectedText returns the selected text, or "" without a selection.
func (b *Buffer) SelectedText() string {
	start, end := b.Selection()
	return string(b.text[start:end])
}

// Slice returns the text in [start, end), clamped to the buffer.
func (b *Buffer) Slice(start, end int) string {
	start, end = b.clamp(min(start, end)), b.clamp(max(start, end))
	return string(b.text[start:end])
}

// Attrs returns the attribute set. Callers must treat it as read-only;
// use the Buffer's methods to change styles.
func (b *Buffer) Attrs() *attr.Set {
	return b.attrs
}

// ActiveStyles returns the styles in effect at the caret or over the
// selection.
func (b *Buffer) ActiveStyles() []attr.Style {
	start, end := b.Selection()
	return b.attrs.Active(start, end)
}

// Runs splits the text into spans of constant style.
func (b *Buffer) Runs() []attr.Run {
	return b.attrs.Runs(len(b.text))
}

// IndexFromByteIndex converts a byte offset to a character offset. A byte
// offset inside a multi-byte character maps to that character. Offsets
// outside the text are clamped.
func (b *Buffer) IndexFromByteIndex(bi int) int {
	if bi <= 0 {
		return 0
	}
	pos := 0
	for i, l := range b.byteLens {
		pos += l
		if pos > bi {
			return i
		}
	}
	return len(b.byteLens)
}

// ByteIndexFromIndex converts a character offset to a byte offset.
// Offsets outside the text are clamped.
func (b *Buffer) ByteIndexFromIndex(i int) int {
	i = b.clamp(i)
	n := 0
	for _, l := range b.byteLens[:i] {
		n += l
	}
	return n
}

// CaretByteIndex returns the caret as a byte offset.
func (b *Buffer) CaretByteIndex() int {
	return b.ByteIndexFromIndex(b.caret)
}

// Reset replaces the contents without recording history. ranges are in
// character offsets and are clipped to the new text; caret is clamped.
func (b *Buffer) Reset(text string, ranges []attr.Range, caret int) {
	b.text = []rune(text)
	b.byteLens = byteLengths(b.text)
	b.attrs.Clear()
	for _, r := range ranges {
		b.attrs.Change(r)
	}
	b.attrs.Clip(len(b.text))
	b.caret = b.clamp(caret)
	b.selEnd = b.caret
	b.check("Reset")
}

func byteLengths(rs []rune) []int {
	lens := make([]int, len(rs))
	for i, r := range rs {
		lens[i] = utf8.RuneLen(r)
		if lens[i] < 0 {
			lens[i] = utf8.RuneLen(utf8.RuneError)
		}
	}
	return lens
}

func (b *Buffer) clamp(i int) int {
	return max(0, min(i, len(b.text)))
}

// splice replaces [start, end) with ins in both the text and the byte
// table. It leaves the caret and attributes alone.
func (b *Buffer) splice(start, end int, ins []rune) {
	if start < 0 || end > len(b.text) || start > end {
		invariant("splice", "range [%d,%d) outside text of length %d", start, end, len(b.text))
	}
	b.text = slices.Replace(b.text, start, end, ins...)
	b.byteLens = slices.Replace(b.byteLens, start, end, byteLengths(ins)...)
}

// check panics if the byte table or caret state is inconsistent.
func (b *Buffer) check(op string) {
	if len(b.byteLens) != len(b.text) {
		invariant(op, "byte table has %d entries for %d characters", len(b.byteLens), len(b.text))
	}
	if b.caret < 0 || b.caret > len(b.text) {
		invariant(op, "caret %d outside [0,%d]", b.caret, len(b.text))
	}
	if b.selEnd < 0 || b.selEnd > len(b.text) {
		invariant(op, "selection end %d outside [0,%d]", b.selEnd, len(b.text))
	}
}
