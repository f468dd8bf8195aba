package colors

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Parse parses a literal color: "#rgb", "#rrggbb", "#rrggbbaa" (the leading
// hash is optional) or a CSS color name. "none" and "transparent" yield a fully
// transparent color.
func Parse(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.Trim(s, `"'`)
	switch s {
	case "":
		return color.NRGBA{}, fmt.Errorf("empty color")
	case "none", "transparent":
		return color.NRGBA{}, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}

	c, err := colorful.Hex("#" + hex[:6])
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	out := color.NRGBA{R: r, G: g, B: b, A: 0xff}
	if len(hex) == 8 {
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in %q", s)
		}
		out.A = uint8(a)
	}
	return out, nil
}

// MustParse is like Parse but falls back to Neutral on invalid input.
func MustParse(s string) color.NRGBA {
	c, err := Parse(s)
	if err != nil {
		c, _ = Parse(Neutral)
	}
	return c
}

// Normalize returns the canonical "#rrggbb" (or "#rrggbbaa" when not opaque)
// form of a literal color.
func Normalize(s string) (string, error) {
	c, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Hex(c), nil
}

// Hex formats c as "#rrggbb", or "#rrggbbaa" when c is not fully opaque.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

// WithAlpha returns c with its alpha replaced by a (0..1).
func WithAlpha(c color.Color, a float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	n.A = uint8(a*255 + 0.5)
	return n
}
