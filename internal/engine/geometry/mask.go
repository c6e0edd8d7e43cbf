package geometry

import "strings"

// Mask is the set of edges taking part in a resize.
type Mask uint8

const (
	None   Mask = 0
	Left   Mask = 1
	Right  Mask = 2
	Top    Mask = 4
	Bottom Mask = 8

	horizontal = Left | Right
	vertical   = Top | Bottom
)

// Has reports whether every edge in e is part of m.
func (m Mask) Has(e Mask) bool {
	return e != 0 && m&e == e
}

// String lists the edges, for example "left|top".
func (m Mask) String() string {
	if m == None {
		return "none"
	}
	var parts []string
	for _, e := range []struct {
		bit  Mask
		name string
	}{{Left, "left"}, {Right, "right"}, {Top, "top"}, {Bottom, "bottom"}} {
		if m&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "|")
}

// flipHorizontal swaps Left and Right.
func (m Mask) flipHorizontal() Mask {
	if m&horizontal == 0 {
		return m
	}
	return m ^ horizontal
}

// flipVertical swaps Top and Bottom.
func (m Mask) flipVertical() Mask {
	if m&vertical == 0 {
		return m
	}
	return m ^ vertical
}

// Cursor is the pointer shape a thought asks for.
type Cursor uint8

const (
	CursorDefault Cursor = iota
	CursorText
	CursorPencil
	CursorLeftSide
	CursorRightSide
	CursorTopSide
	CursorBottomSide
	CursorTopLeft
	CursorTopRight
	CursorBottomLeft
	CursorBottomRight
)

var cursorNames = [...]string{
	CursorDefault:     "default",
	CursorText:        "text",
	CursorPencil:      "pencil",
	CursorLeftSide:    "left-side",
	CursorRightSide:   "right-side",
	CursorTopSide:     "top-side",
	CursorBottomSide:  "bottom-side",
	CursorTopLeft:     "top-left-corner",
	CursorTopRight:    "top-right-corner",
	CursorBottomLeft:  "bottom-left-corner",
	CursorBottomRight: "bottom-right-corner",
}

func (c Cursor) String() string {
	if int(c) < len(cursorNames) {
		return cursorNames[c]
	}
	return "unknown"
}

// CursorFor maps an edge mask to the matching resize cursor.
func CursorFor(m Mask) Cursor {
	switch m {
	case Left:
		return CursorLeftSide
	case Right:
		return CursorRightSide
	case Top:
		return CursorTopSide
	case Bottom:
		return CursorBottomSide
	case Left | Top:
		return CursorTopLeft
	case Left | Bottom:
		return CursorBottomLeft
	case Right | Top:
		return CursorTopRight
	case Right | Bottom:
		return CursorBottomRight
	}
	return CursorDefault
}
