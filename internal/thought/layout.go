package thought

import (
	"math"
	"strings"
)

// DefaultLayout lays text out on a fixed grid.
var DefaultLayout Layout = MonoLayout{CharWidth: 8, LineHeight: 16}

// MonoLayout treats every character as CharWidth wide and every line as
// LineHeight tall.
type MonoLayout struct {
	CharWidth  float64
	LineHeight float64
}

// IndexAt returns the character offset nearest to (x, y).
func (l MonoLayout) IndexAt(text string, x, y float64) int {
	lines := strings.Split(text, "\n")
	row := 0
	if l.LineHeight > 0 && y > 0 {
		row = min(int(y/l.LineHeight), len(lines)-1)
	}
	off := 0
	for _, line := range lines[:row] {
		off += len([]rune(line)) + 1
	}
	n := len([]rune(lines[row]))
	col := 0
	if l.CharWidth > 0 && x > 0 {
		col = min(int(math.Round(x/l.CharWidth)), n)
	}
	return off + col
}
