package sink

import (
	"image/color"
	"strings"

	"github.com/jplusplus/nwcharts/pkg/render"
	xfnt "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// defaultFontSize is used when a font has no size, in points.
const defaultFontSize = 10

// variant maps a CSS-like family name onto a Liberation variant, the only
// typeface bundled with gonum/plot.
func variant(family string) font.Variant {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "mono"), strings.Contains(f, "courier"):
		return "Mono"
	case strings.Contains(f, "sans"), f == "", strings.Contains(f, "helvetica"), strings.Contains(f, "arial"):
		return "Sans"
	case strings.Contains(f, "serif"), strings.Contains(f, "times"), strings.Contains(f, "georgia"):
		return "Serif"
	}
	return "Sans"
}

func toFont(f render.Font) font.Font {
	size := f.Size
	if size <= 0 {
		size = defaultFontSize
	}
	out := font.Font{
		Typeface: "Liberation",
		Variant:  variant(f.Family),
		Size:     vg.Points(size),
	}
	if f.Bold {
		out.Weight = xfnt.WeightBold
	}
	if f.Italic {
		out.Style = xfnt.StyleItalic
	}
	return out
}

func textStyle(f render.Font, c color.Color) text.Style {
	if c == nil {
		c = color.Black
	}
	return text.Style{
		Color:   c,
		Font:    toFont(f),
		Handler: plot.DefaultTextHandler,
		XAlign:  text.XLeft,
		YAlign:  text.YTop,
	}
}

// wrap breaks s into lines no wider than width, on spaces. Explicit line
// breaks are kept. A single word wider than width gets a line of its own.
func wrap(sty text.Style, s string, width vg.Length) string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if sty.Width(candidate) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
