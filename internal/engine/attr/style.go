package attr

import (
	"cmp"
	"fmt"
)

// Kind is the type of a style.
type Kind uint8

const (
	Bold Kind = iota
	Italic
	Underline
	Font
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Underline:
		return "underline"
	case Font:
		return "font"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// ParseKind parses a kind name. "italics" is accepted for italic.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "bold":
		return Bold, true
	case "italic", "italics":
		return Italic, true
	case "underline":
		return Underline, true
	case "font":
		return Font, true
	}
	return 0, false
}

// Style is one text style. Desc is only meaningful for Font and holds a
// font descriptor such as "Sans 10".
type Style struct {
	Kind Kind
	Desc string
}

// Predefined styles.
var (
	StyleBold      = Style{Kind: Bold}
	StyleItalic    = Style{Kind: Italic}
	StyleUnderline = Style{Kind: Underline}
)

// FontStyle returns a font style for desc.
func FontStyle(desc string) Style {
	return Style{Kind: Font, Desc: desc}
}

// String returns a readable form of the style.
func (s Style) String() string {
	if s.Kind == Font {
		return fmt.Sprintf("font(%s)", s.Desc)
	}
	return s.Kind.String()
}

func compareStyle(a, b Style) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	return cmp.Compare(a.Desc, b.Desc)
}

// Range is a style applied to the characters [Start, End).
type Range struct {
	Style
	Start int
	End   int
}

// NewRange creates a range, ordering the bounds.
func NewRange(style Style, start, end int) Range {
	if start > end {
		start, end = end, start
	}
	return Range{Style: style, Start: start, End: end}
}

// Len returns the number of characters covered.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty reports whether the range covers nothing.
func (r Range) IsEmpty() bool {
	return r.End <= r.Start
}

// Contains reports whether offset lies in the range.
func (r Range) Contains(offset int) bool {
	return r.Start <= offset && offset < r.End
}

// Overlaps reports whether the range shares at least one character with
// [start, end).
func (r Range) Overlaps(start, end int) bool {
	return r.Start < end && start < r.End
}

// String returns a readable form of the range.
func (r Range) String() string {
	return fmt.Sprintf("%s[%d,%d)", r.Style, r.Start, r.End)
}

func compareRange(a, b Range) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	if c := cmp.Compare(a.End, b.End); c != 0 {
		return c
	}
	return compareStyle(a.Style, b.Style)
}
