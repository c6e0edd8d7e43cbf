package textbuf

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"pgregory.net/rapid"

	"github.com/dshills/thoughtmap/internal/engine/attr"
	"github.com/dshills/thoughtmap/internal/engine/history"
)

func newTestBuffer() (*Buffer, *history.History) {
	h := history.New(100)
	return New(h, "thought"), h
}

func mustUndo(t *testing.T, h *history.History) {
	t.Helper()
	ok, err := h.Undo()
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if !ok {
		t.Fatal("Undo() = false, want true")
	}
}

func mustRedo(t *testing.T, h *history.History) {
	t.Helper()
	ok, err := h.Redo()
	if err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if !ok {
		t.Fatal("Redo() = false, want true")
	}
}

func assertState(t *testing.T, b *Buffer, text string, caret int) {
	t.Helper()
	if got := b.Text(); got != text {
		t.Errorf("Text() = %q, want %q", got, text)
	}
	if got := b.Caret(); got != caret {
		t.Errorf("Caret() = %d, want %d", got, caret)
	}
}

func TestTypeBackspaceUndo(t *testing.T) {
	b, h := newTestBuffer()

	b.Insert("Hello")
	assertState(t, b, "Hello", 5)

	if !b.DeleteBackward() {
		t.Fatal("DeleteBackward() = false")
	}
	assertState(t, b, "Hell", 4)

	mustUndo(t, h)
	assertState(t, b, "Hello", 5)

	mustUndo(t, h)
	assertState(t, b, "", 0)

	mustRedo(t, h)
	assertState(t, b, "Hello", 5)
	mustRedo(t, h)
	assertState(t, b, "Hell", 4)
}

func TestDeleteAtEdges(t *testing.T) {
	b, h := newTestBuffer()
	if b.DeleteBackward() || b.DeleteForward() {
		t.Error("delete on an empty buffer should be a no-op")
	}
	b.Insert("ab")
	if b.DeleteForward() {
		t.Error("DeleteForward at the end should be a no-op")
	}
	b.SetCaret(0)
	if b.DeleteBackward() {
		t.Error("DeleteBackward at the start should be a no-op")
	}
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", h.UndoCount())
	}
	if !b.DeleteForward() {
		t.Fatal("DeleteForward() = false")
	}
	assertState(t, b, "b", 0)
}

func TestByteTable(t *testing.T) {
	b, _ := newTestBuffer()
	b.Insert("aé€😀")

	want := []int{1, 2, 3, 4}
	if diff := cmp.Diff(want, b.ByteTable()); diff != "" {
		t.Errorf("byte table mismatch (-want +got):\n%s", diff)
	}
	if b.ByteLen() != 10 {
		t.Errorf("ByteLen() = %d, want 10", b.ByteLen())
	}

	tests := []struct {
		index int
		byteI int
	}{
		{0, 0}, {1, 1}, {2, 3}, {3, 6}, {4, 10},
	}
	for _, tt := range tests {
		if got := b.ByteIndexFromIndex(tt.index); got != tt.byteI {
			t.Errorf("ByteIndexFromIndex(%d) = %d, want %d", tt.index, got, tt.byteI)
		}
		if got := b.IndexFromByteIndex(tt.byteI); got != tt.index {
			t.Errorf("IndexFromByteIndex(%d) = %d, want %d", tt.byteI, got, tt.index)
		}
	}

	if got := b.IndexFromByteIndex(4); got != 2 {
		t.Errorf("IndexFromByteIndex inside a character = %d, want 2", got)
	}
	if got := b.IndexFromByteIndex(99); got != 4 {
		t.Errorf("IndexFromByteIndex past the end = %d, want 4", got)
	}
	if got := b.ByteIndexFromIndex(-3); got != 0 {
		t.Errorf("ByteIndexFromIndex(-3) = %d, want 0", got)
	}
}

func TestInsertReplacesSelectionAsOneStep(t *testing.T) {
	b, h := newTestBuffer()
	b.Insert("Hello World")
	b.Select(6, 11)
	b.Insert("Go")
	assertState(t, b, "Hello Go", 8)
	if b.HasSelection() {
		t.Error("selection should collapse after insert")
	}

	mustUndo(t, h)
	assertState(t, b, "Hello World", 6)
	if start, end := b.Selection(); start != 6 || end != 11 {
		t.Errorf("Selection() = %d,%d, want 6,11", start, end)
	}

	mustRedo(t, h)
	assertState(t, b, "Hello Go", 8)
}

func TestDeleteShiftsAttributes(t *testing.T) {
	b, h := newTestBuffer()
	b.Insert("0123456789")
	b.Select(0, 10)
	b.ToggleStyle(attr.StyleBold, true)

	b.Select(3, 6)
	b.DeleteForward()
	want := []attr.Range{{Style: attr.StyleBold, Start: 0, End: 7}}
	if diff := cmp.Diff(want, b.Attrs().Ranges()); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}

	b.SetCaret(5)
	b.Insert("ab")
	want = []attr.Range{{Style: attr.StyleBold, Start: 0, End: 9}}
	if diff := cmp.Diff(want, b.Attrs().Ranges()); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}

	mustUndo(t, h)
	mustUndo(t, h)
	want = []attr.Range{{Style: attr.StyleBold, Start: 0, End: 10}}
	if diff := cmp.Diff(want, b.Attrs().Ranges()); diff != "" {
		t.Errorf("ranges after undo mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleOffOverSelection(t *testing.T) {
	b, h := newTestBuffer()
	b.Insert("Hello World")
	b.Select(0, 5)
	b.ToggleStyle(attr.StyleBold, true)

	b.Select(2, 11)
	if !b.ToggleStyle(attr.StyleBold, false) {
		t.Fatal("ToggleStyle off reported no change")
	}
	want := []attr.Range{{Style: attr.StyleBold, Start: 0, End: 2}}
	if diff := cmp.Diff(want, b.Attrs().Ranges()); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
	info, _ := h.PeekUndo()
	if info.Kind != history.KindRemoveAttrRange {
		t.Errorf("undo kind = %v, want %v", info.Kind, history.KindRemoveAttrRange)
	}

	mustUndo(t, h)
	want = []attr.Range{{Style: attr.StyleBold, Start: 0, End: 5}}
	if diff := cmp.Diff(want, b.Attrs().Ranges()); diff != "" {
		t.Errorf("ranges after undo mismatch (-want +got):\n%s", diff)
	}
}

func TestTypingStyles(t *testing.T) {
	b, h := newTestBuffer()
	b.Insert("ab")
	if !b.ToggleStyle(attr.StyleItalic, true) {
		t.Fatal("caret toggle reported no change")
	}
	info, _ := h.PeekUndo()
	if info.Kind != history.KindAddAttr {
		t.Errorf("undo kind = %v, want %v", info.Kind, history.KindAddAttr)
	}
	if !b.StyleActive(attr.Italic) {
		t.Error("italic should be active at the caret")
	}

	b.Insert("cd")
	want := []attr.Range{{Style: attr.StyleItalic, Start: 2, End: 4}}
	if diff := cmp.Diff(want, b.Attrs().Ranges()); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}

	mustUndo(t, h)
	if b.Attrs().Len() != 0 || !b.Attrs().HasPending(attr.Italic) {
		t.Error("undoing the insert should restore the pending italic")
	}
	mustUndo(t, h)
	if b.Attrs().HasPending(attr.Italic) {
		t.Error("undoing the toggle should drop the pending italic")
	}
}

func TestTypingAtRunStartInheritsStyle(t *testing.T) {
	b, h := newTestBuffer()
	b.Reset("Hello", []attr.Range{attr.NewRange(attr.StyleBold, 0, 5)}, 0)
	if !b.StyleActive(attr.Bold) {
		t.Fatal("bold should be active at the start of the bold run")
	}
	b.Insert("X")
	want := []attr.Range{attr.NewRange(attr.StyleBold, 0, 6)}
	if diff := cmp.Diff(want, b.Attrs().Ranges()); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}

	mustUndo(t, h)
	want = []attr.Range{attr.NewRange(attr.StyleBold, 0, 5)}
	if diff := cmp.Diff(want, b.Attrs().Ranges()); diff != "" {
		t.Errorf("ranges after undo mismatch (-want +got):\n%s", diff)
	}

	b.SetCaret(5)
	b.Insert("!")
	want = []attr.Range{attr.NewRange(attr.StyleBold, 0, 5)}
	if diff := cmp.Diff(want, b.Attrs().Ranges()); diff != "" {
		t.Errorf("typing after the run should stay plain (-want +got):\n%s", diff)
	}
}

func TestPendingFontWinsOverRunStart(t *testing.T) {
	b, _ := newTestBuffer()
	b.Reset("ab", []attr.Range{attr.NewRange(attr.FontStyle("Sans 10"), 0, 2)}, 0)
	b.SetFont("Mono 9")
	b.Insert("x")
	want := []attr.Range{
		attr.NewRange(attr.FontStyle("Mono 9"), 0, 1),
		attr.NewRange(attr.FontStyle("Sans 10"), 1, 3),
	}
	if diff := cmp.Diff(want, b.Attrs().Ranges()); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
}

func TestCaretMoveDropsTypingStyles(t *testing.T) {
	tests := []struct {
		name string
		move func(b *Buffer)
		keep bool
	}{
		{"SetCaret elsewhere", func(b *Buffer) { b.SetCaret(1) }, false},
		{"Select elsewhere", func(b *Buffer) { b.Select(0, 2) }, false},
		{"MoveCaret elsewhere", func(b *Buffer) { b.MoveCaret(0, true) }, false},
		{"SelectAll", func(b *Buffer) { b.SelectAll() }, true},
		{"SetCaret in place", func(b *Buffer) { b.SetCaret(4) }, true},
		{"Select keeping caret", func(b *Buffer) { b.Select(4, 1) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBuffer()
			b.Insert("abcd")
			b.ToggleStyle(attr.StyleBold, true)
			tt.move(b)
			if got := b.Attrs().HasPending(attr.Bold); got != tt.keep {
				t.Errorf("HasPending(bold) = %v, want %v", got, tt.keep)
			}
			b.SetCaret(4)
			b.Insert("e")
			if tt.keep {
				return
			}
			if b.Attrs().Len() != 0 {
				t.Errorf("returning to the old offset revived bold: %v", b.Attrs().Ranges())
			}
		})
	}
}

func TestSetFont(t *testing.T) {
	b, _ := newTestBuffer()
	b.Insert("abcdef")
	b.Select(0, 6)
	b.SetFont("Sans 10")
	b.Select(2, 4)
	b.SetFont("Mono 9")
	want := []attr.Range{
		{Style: attr.FontStyle("Sans 10"), Start: 0, End: 2},
		{Style: attr.FontStyle("Mono 9"), Start: 2, End: 4},
		{Style: attr.FontStyle("Sans 10"), Start: 4, End: 6},
	}
	if diff := cmp.Diff(want, b.Attrs().Ranges()); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
}

func TestClipboard(t *testing.T) {
	b, h := newTestBuffer()
	b.Insert("copy paste")
	b.Select(0, 4)
	if got := b.Copy(); got != "copy" {
		t.Errorf("Copy() = %q, want %q", got, "copy")
	}
	if got := b.Cut(); got != "copy" {
		t.Errorf("Cut() = %q, want %q", got, "copy")
	}
	assertState(t, b, " paste", 0)
	b.MoveEnd(false)
	b.Paste("!")
	assertState(t, b, " paste!", 7)

	mustUndo(t, h)
	mustUndo(t, h)
	assertState(t, b, "copy paste", 0)
	if got := b.SelectedText(); got != "copy" {
		t.Errorf("SelectedText() after undo = %q, want %q", got, "copy")
	}
}

func TestReplaceAll(t *testing.T) {
	b, h := newTestBuffer()
	b.Insert("old text")
	b.ReplaceAll("new")
	assertState(t, b, "new", 3)
	if h.UndoCount() != 2 {
		t.Errorf("UndoCount() = %d, want 2", h.UndoCount())
	}
	mustUndo(t, h)
	if b.Text() != "old text" {
		t.Errorf("Text() = %q, want %q", b.Text(), "old text")
	}
}

func TestDeleteWordBackward(t *testing.T) {
	tests := []struct {
		text  string
		caret int
		want  string
	}{
		{"hello world", 11, "hello "},
		{"hello world ", 12, "hello "},
		{"hello", 5, ""},
		{"one two", 4, "two"},
		{"", 0, ""},
	}
	for _, tt := range tests {
		b, _ := newTestBuffer()
		b.Insert(tt.text)
		b.SetCaret(tt.caret)
		b.DeleteWordBackward()
		if b.Text() != tt.want {
			t.Errorf("DeleteWordBackward(%q at %d) = %q, want %q", tt.text, tt.caret, b.Text(), tt.want)
		}
	}
}

func TestNavigation(t *testing.T) {
	b, _ := newTestBuffer()
	b.Insert("first line\nab\nthird")

	b.MoveUp(false)
	if line, col := b.Line(); line != 1 || col != 2 {
		t.Errorf("after MoveUp Line() = %d,%d, want 1,2", line, col)
	}
	b.MoveUp(false)
	if b.Caret() != 2 {
		t.Errorf("Caret() = %d, want 2", b.Caret())
	}
	b.MoveUp(false)
	if b.Caret() != 2 {
		t.Error("MoveUp on the first line should not move")
	}
	b.MoveEnd(false)
	if b.Caret() != 10 {
		t.Errorf("MoveEnd Caret() = %d, want 10", b.Caret())
	}
	b.MoveDown(true)
	if b.Caret() != 13 || b.SelectionEnd() != 10 {
		t.Errorf("MoveDown(extend) = %d..%d, want 13..10", b.Caret(), b.SelectionEnd())
	}
	b.MoveHome(false)
	if b.Caret() != 11 || b.HasSelection() {
		t.Errorf("MoveHome Caret() = %d, want 11 and no selection", b.Caret())
	}
	b.MoveLeft(false)
	b.MoveLeft(true)
	if got := b.SelectedText(); got != "e" {
		t.Errorf("SelectedText() = %q, want %q", got, "e")
	}
	b.SelectAll()
	if b.SelectedText() != b.Text() {
		t.Error("SelectAll should select everything")
	}
	if b.FirstLine() != "first line" {
		t.Errorf("FirstLine() = %q", b.FirstLine())
	}
	b.SetCaret(0)
	b.MoveWordRight(false)
	if b.Caret() != 5 {
		t.Errorf("MoveWordRight Caret() = %d, want 5", b.Caret())
	}
	b.MoveWordLeft(false)
	if b.Caret() != 0 {
		t.Errorf("MoveWordLeft Caret() = %d, want 0", b.Caret())
	}
}

func TestReset(t *testing.T) {
	b, h := newTestBuffer()
	b.Reset("héllo", []attr.Range{{Style: attr.StyleUnderline, Start: 1, End: 9}}, 99)
	assertState(t, b, "héllo", 5)
	want := []attr.Range{{Style: attr.StyleUnderline, Start: 1, End: 5}}
	if diff := cmp.Diff(want, b.Attrs().Ranges()); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
	if h.CanUndo() {
		t.Error("Reset should not record history")
	}
}

func TestInvariantPanics(t *testing.T) {
	b, _ := newTestBuffer()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("recover() = %v, want an error", r)
		}
		var ie *InvariantError
		if !errors.As(err, &ie) {
			t.Fatalf("panic value %T is not *InvariantError", r)
		}
		if ie.Op != "splice" {
			t.Errorf("Op = %q, want %q", ie.Op, "splice")
		}
	}()
	b.splice(3, 5, nil)
}

func TestStaleReplay(t *testing.T) {
	b, h := newTestBuffer()
	b.Insert("abc")
	b.Reset("", nil, 0)
	_, err := h.Undo()
	if !errors.Is(err, ErrStaleAction) {
		t.Errorf("Undo() error = %v, want ErrStaleAction", err)
	}
	if h.UndoCount() != 1 {
		t.Error("failed undo should keep the action")
	}
}

func TestNoHistory(t *testing.T) {
	b := New(nil, nil)
	b.Insert("abc")
	b.Select(0, 3)
	b.ToggleStyle(attr.StyleBold, true)
	b.Insert("x")
	assertState(t, b, "x", 1)
}

func TestByteTableProperty(t *testing.T) {
	alphabet := []rune{'a', 'z', ' ', '\n', 'é', 'ß', '€', '中', '😀'}
	rapid.Check(t, func(t *rapid.T) {
		h := history.New(1000)
		b := New(h, nil)
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 4).Draw(t, "op") {
			case 0, 1:
				rs := rapid.SliceOfN(rapid.SampledFrom(alphabet), 1, 4).Draw(t, "runes")
				b.Insert(string(rs))
			case 2:
				b.DeleteBackward()
			case 3:
				b.Select(rapid.IntRange(0, b.Len()).Draw(t, "a"), rapid.IntRange(0, b.Len()).Draw(t, "b"))
			case 4:
				b.DeleteForward()
			}

			table := b.ByteTable()
			if len(table) != b.Len() {
				t.Fatalf("byte table has %d entries for %d characters", len(table), b.Len())
			}
			sum := 0
			for _, n := range table {
				sum += n
			}
			if sum != len(b.Text()) {
				t.Fatalf("byte table sums to %d, text has %d bytes", sum, len(b.Text()))
			}
			for i := 0; i <= b.Len(); i++ {
				if got := b.IndexFromByteIndex(b.ByteIndexFromIndex(i)); got != i {
					t.Fatalf("IndexFromByteIndex(ByteIndexFromIndex(%d)) = %d", i, got)
				}
			}
			if !utf8.ValidString(b.Text()) {
				t.Fatal("text is not valid UTF-8")
			}
		}
	})
}

func TestUndoRedoRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := history.New(1000)
		b := New(h, nil)
		b.Insert(rapid.StringMatching(`[a-z ]{0,12}`).Draw(t, "seed"))
		h.Clear()

		type state struct {
			text   string
			caret  int
			ranges []attr.Range
		}
		snap := func() state {
			return state{b.Text(), b.Caret(), b.Attrs().Ranges()}
		}
		before := snap()

		steps := rapid.IntRange(1, 15).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 4).Draw(t, "op") {
			case 0:
				b.Insert(rapid.StringMatching(`[a-z]{1,3}`).Draw(t, "s"))
			case 1:
				b.DeleteBackward()
			case 2:
				b.Select(rapid.IntRange(0, b.Len()).Draw(t, "a"), rapid.IntRange(0, b.Len()).Draw(t, "b"))
			case 3:
				st := rapid.SampledFrom([]attr.Style{attr.StyleBold, attr.StyleItalic}).Draw(t, "style")
				b.ToggleStyle(st, rapid.Bool().Draw(t, "on"))
			case 4:
				b.DeleteForward()
			}
		}
		after := snap()

		for h.CanUndo() {
			if _, err := h.Undo(); err != nil {
				t.Fatalf("Undo() error = %v", err)
			}
		}
		if got := snap(); got.text != before.text || !equalRanges(got.ranges, before.ranges) {
			t.Fatalf("after undo got %+v, want %+v", got, before)
		}
		for h.CanRedo() {
			if _, err := h.Redo(); err != nil {
				t.Fatalf("Redo() error = %v", err)
			}
		}
		if got := snap(); got.text != after.text || !equalRanges(got.ranges, after.ranges) {
			t.Fatalf("after redo got %+v, want %+v", got, after)
		}
	})
}

func equalRanges(a, b []attr.Range) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}
