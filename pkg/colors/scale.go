package colors

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Scale is a piecewise linear colormap over [0, 1].
type Scale struct {
	stops []colorful.Color
}

// NewScale builds a scale through the given literal colors. Invalid colors are
// replaced by the neutral color so that a bad style never aborts a render.
func NewScale(stops ...string) *Scale {
	s := &Scale{}
	for _, hex := range stops {
		c, ok := colorful.MakeColor(MustParse(hex))
		if !ok {
			c, _ = colorful.Hex(Neutral)
		}
		s.stops = append(s.stops, c)
	}
	return s
}

// Sequential is a light-to-dark scale ending in the given color.
func Sequential(dark string) *Scale {
	base, ok := colorful.MakeColor(MustParse(dark))
	if !ok {
		return NewScale("#f0f0f0", dark)
	}
	light := colorful.Color{R: 1, G: 1, B: 1}.BlendLab(base, 0.08)
	return &Scale{stops: []colorful.Color{light.Clamped(), base}}
}

// Diverging runs from low through a pale midpoint to high.
func Diverging(low, high string) *Scale {
	return NewScale(low, "#f7f7f7", high)
}

// At returns the color at t, clamped to [0, 1].
func (s *Scale) At(t float64) color.Color {
	switch len(s.stops) {
	case 0:
		return MustParse(Neutral)
	case 1:
		return toNRGBA(s.stops[0])
	}
	if math.IsNaN(t) {
		t = 0.5
	}
	t = math.Max(0, math.Min(1, t))
	seg := t * float64(len(s.stops)-1)
	i := int(seg)
	if i >= len(s.stops)-1 {
		return toNRGBA(s.stops[len(s.stops)-1])
	}
	return toNRGBA(s.stops[i].BlendLab(s.stops[i+1], seg-float64(i)).Clamped())
}

// Steps samples n evenly spaced colors from the scale.
func (s *Scale) Steps(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		t := 1.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = Hex(s.At(t))
	}
	return out
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}
