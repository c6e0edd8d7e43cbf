// Package theme holds the colors, link style and default font used when
// thoughts are created and drawn. A Theme is a plain value passed to the
// components that need it.
package theme

import (
	"fmt"
	"strconv"
	"strings"
)

// Defaults.
const (
	DefaultFont     = "Sans"
	DefaultFontSize = 10
)

// Palette is the set of colors for one thought state.
type Palette struct {
	Background Color
	Foreground Color
	Text       Color
}

// Theme is the visual configuration of a map.
type Theme struct {
	// Normal is used for thoughts that are neither primary nor selected.
	Normal Palette

	// Primary is used for the primary thought.
	Primary Palette

	// Selected colors the border and fill of the selection box.
	SelectedBorder Color
	SelectedFill   Color

	// Bezier draws links as curves between facing edges instead of
	// straight lines between centers.
	Bezier bool

	Font     string
	FontSize int
}

// Default returns the stock theme.
func Default() Theme {
	primary := RGB(0.2, 0.6, 1.0)
	return Theme{
		Normal: Palette{
			Background: White,
			Foreground: Black,
			Text:       Black,
		},
		Primary: Palette{
			Background: primary,
			Foreground: Black,
			Text:       primary.Contrast(),
		},
		SelectedBorder: primary.Blend(Black, 0.3),
		SelectedFill:   primary.Blend(White, 0.7),
		Bezier:         true,
		Font:           DefaultFont,
		FontSize:       DefaultFontSize,
	}
}

// FontDesc returns the default font descriptor, such as "Sans 10".
func (t Theme) FontDesc() string {
	font := t.Font
	if font == "" {
		font = DefaultFont
	}
	size := t.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}
	return font + " " + strconv.Itoa(size)
}

// TextColor returns the color for text of a thought with foreground fg.
func (t Theme) TextColor(primary bool, fg Color) Color {
	if primary {
		return t.Primary.Text
	}
	return fg
}

// ParseFontDesc splits a descriptor such as "DejaVu Serif Bold 12" into a
// family (everything before the size) and a size.
func ParseFontDesc(desc string) (family string, size int, err error) {
	fields := strings.Fields(desc)
	if len(fields) == 0 {
		return "", 0, fmt.Errorf("empty font descriptor")
	}
	last := fields[len(fields)-1]
	size, err = strconv.Atoi(last)
	if err != nil {
		return strings.Join(fields, " "), 0, nil
	}
	if size <= 0 {
		return "", 0, fmt.Errorf("font descriptor %q: size must be positive", desc)
	}
	return strings.Join(fields[:len(fields)-1], " "), size, nil
}
