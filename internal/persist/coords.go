package persist

import (
	"errors"
	"strconv"
	"strings"
)

var errCoordsSyntax = errors.New(`want "(x, y)"`)

// ParseCoords parses "(x, y)". Surrounding space is ignored.
func ParseCoords(s string) (x, y float64, err error) {
	s = strings.TrimSpace(s)
	inner, ok := strings.CutPrefix(s, "(")
	if !ok {
		return 0, 0, errCoordsSyntax
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return 0, 0, errCoordsSyntax
	}
	xs, ys, ok := strings.Cut(inner, ",")
	if !ok {
		return 0, 0, errCoordsSyntax
	}
	if x, err = strconv.ParseFloat(strings.TrimSpace(xs), 64); err != nil {
		return 0, 0, err
	}
	if y, err = strconv.ParseFloat(strings.TrimSpace(ys), 64); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// FormatCoords formats a pair as "(x, y)". Whole numbers keep one decimal
// place, so 12 is written as "12.0".
func FormatCoords(x, y float64) string {
	return "(" + formatFloat(x) + ", " + formatFloat(y) + ")"
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
