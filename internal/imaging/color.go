package imaging

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParseHexColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA" (leading '#'
// optional) into an opaque or translucent color.NRGBA.
func ParseHexColor(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}

	alpha := uint8(255)
	if len(s) == 8 {
		a, err := strconv.ParseUint(s[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
		}
		alpha = uint8(a)
		s = s[:6]
	}
	if len(s) != 3 && len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color length: %q", hex)
	}

	c, err := colorful.Hex("#" + s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// MustParseHexColor is ParseHexColor for compile-time constants. It panics
// on invalid input.
func MustParseHexColor(hex string) color.NRGBA {
	c, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}
