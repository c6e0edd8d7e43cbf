package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a 16-bit per channel RGB color. Saved documents write colors
// as "#rrrrggggbbbb"; configuration usually uses "#rrggbb".
type Color struct {
	R, G, B uint16
}

// Common colors.
var (
	Black = Color{}
	White = Color{R: 0xffff, G: 0xffff, B: 0xffff}
)

// FromColorful converts a go-colorful color, clamping it into gamut.
func FromColorful(c colorful.Color) Color {
	c = c.Clamped()
	return Color{
		R: uint16(c.R*0xffff + 0.5),
		G: uint16(c.G*0xffff + 0.5),
		B: uint16(c.B*0xffff + 0.5),
	}
}

// RGB creates a color from components in [0, 1].
func RGB(r, g, b float64) Color {
	return FromColorful(colorful.Color{R: r, G: g, B: b})
}

// ParseColor parses "#rrrrggggbbbb", "#rrggbb" or "#rgb".
// The leading '#' is optional.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 12:
		var ch [3]uint16
		for i := range ch {
			v, err := strconv.ParseUint(hex[i*4:i*4+4], 16, 16)
			if err != nil {
				return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
			}
			ch[i] = uint16(v)
		}
		return Color{R: ch[0], G: ch[1], B: ch[2]}, nil
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		fallthrough
	case 6:
		c, err := colorful.Hex("#" + hex)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return FromColorful(c), nil
	}
	return Color{}, fmt.Errorf("invalid color %q: want #rrggbb or #rrrrggggbbbb", s)
}

// MustParseColor is ParseColor for constants. It panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Colorful returns the color as a go-colorful value.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 0xffff,
		G: float64(c.G) / 0xffff,
		B: float64(c.B) / 0xffff,
	}
}

// String formats the color as "#rrrrggggbbbb".
func (c Color) String() string {
	return fmt.Sprintf("#%04x%04x%04x", c.R, c.G, c.B)
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	return c.Colorful().Hex()
}

// Blend mixes c toward other in CIE L*a*b* space; t=0 is c, t=1 is other.
func (c Color) Blend(other Color, t float64) Color {
	return FromColorful(c.Colorful().BlendLab(other.Colorful(), t))
}

// IsDark reports whether text on c should be light.
func (c Color) IsDark() bool {
	l, _, _ := c.Colorful().Lab()
	return l < 0.5
}

// Contrast returns black or white, whichever reads better on c.
func (c Color) Contrast() Color {
	if c.IsDark() {
		return White
	}
	return Black
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
