package textbuf

// SetCaret moves the caret to off and collapses the selection.
func (b *Buffer) SetCaret(off int) {
	off = b.clamp(off)
	b.place(off, off)
}

// MoveCaret moves the caret to off. With extend the selection end stays
// where it is.
func (b *Buffer) MoveCaret(off int, extend bool) {
	off = b.clamp(off)
	selEnd := off
	if extend {
		selEnd = b.selEnd
	}
	b.place(off, selEnd)
}

// Select sets the caret and the selection end.
func (b *Buffer) Select(caret, selEnd int) {
	b.place(b.clamp(caret), b.clamp(selEnd))
}

// SelectAll selects the whole text with the caret at the end.
func (b *Buffer) SelectAll() {
	b.place(len(b.text), 0)
}

// place sets the caret and selection end. Typing styles belong to a caret
// offset, so they are dropped when the caret moves.
func (b *Buffer) place(caret, selEnd int) {
	if caret != b.caret {
		b.attrs.ClearPending()
	}
	b.caret, b.selEnd = caret, selEnd
}

// CollapseSelection drops the selection, keeping the caret.
func (b *Buffer) CollapseSelection() {
	b.selEnd = b.caret
}

// MoveLeft moves the caret one character back.
func (b *Buffer) MoveLeft(extend bool) {
	b.MoveCaret(b.caret-1, extend)
}

// MoveRight moves the caret one character forward.
func (b *Buffer) MoveRight(extend bool) {
	b.MoveCaret(b.caret+1, extend)
}

// MoveWordLeft moves the caret to the start of the previous word.
func (b *Buffer) MoveWordLeft(extend bool) {
	b.MoveCaret(b.wordStartBefore(b.caret), extend)
}

// MoveWordRight moves the caret to the end of the next word.
func (b *Buffer) MoveWordRight(extend bool) {
	b.MoveCaret(b.wordEndAfter(b.caret), extend)
}

// MoveHome moves the caret to the start of its line.
func (b *Buffer) MoveHome(extend bool) {
	b.MoveCaret(b.lineStart(b.caret), extend)
}

// MoveEnd moves the caret to the end of its line.
func (b *Buffer) MoveEnd(extend bool) {
	b.MoveCaret(b.lineEnd(b.caret), extend)
}

// MoveUp moves the caret to the same column of the previous line, or to
// the end of that line if it is shorter. On the first line nothing moves.
func (b *Buffer) MoveUp(extend bool) {
	start := b.lineStart(b.caret)
	if start == 0 {
		return
	}
	col := b.caret - start
	prevStart := b.lineStart(start - 1)
	prevLen := start - 1 - prevStart
	b.MoveCaret(prevStart+min(col, prevLen), extend)
}

// MoveDown moves the caret to the same column of the next line, or to the
// end of that line if it is shorter. On the last line nothing moves.
func (b *Buffer) MoveDown(extend bool) {
	end := b.lineEnd(b.caret)
	if end >= len(b.text) {
		return
	}
	col := b.caret - b.lineStart(b.caret)
	nextStart := end + 1
	nextLen := b.lineEnd(nextStart) - nextStart
	b.MoveCaret(nextStart+min(col, nextLen), extend)
}

// Line returns the zero-based line and column of the caret.
func (b *Buffer) Line() (line, col int) {
	for _, r := range b.text[:b.caret] {
		if r == '\n' {
			line++
		}
	}
	return line, b.caret - b.lineStart(b.caret)
}

// FirstLine returns the text up to the first line break.
func (b *Buffer) FirstLine() string {
	return string(b.text[:b.lineEnd(0)])
}

func (b *Buffer) lineStart(off int) int {
	off = b.clamp(off)
	for off > 0 && b.text[off-1] != '\n' {
		off--
	}
	return off
}

func (b *Buffer) lineEnd(off int) int {
	off = b.clamp(off)
	for off < len(b.text) && b.text[off] != '\n' {
		off++
	}
	return off
}
