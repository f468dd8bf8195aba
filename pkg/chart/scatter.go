package chart

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/jplusplus/nwcharts/pkg/colors"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/render"
	"github.com/jplusplus/nwcharts/pkg/ticks"
)

// scatter plots (x, y) points. Point keys are x values and point texts are
// labels.
type scatter struct{}

func (s *scatter) formats() []string                      { return render.Formats }
func (s *scatter) autoHeight(_ *Chart, w float64) float64 { return w }

type scatterPoint struct {
	x, y   float64
	label  string
	series int
	clr    color.Color
	hl     bool
}

func (s *scatter) build(b *builder) error {
	cfg := b.cfg
	b.labels()
	placement, err := b.placement()
	if err != nil {
		return err
	}
	b.position = func(key string) (float64, bool) {
		x, err := strconv.ParseFloat(strings.TrimSpace(key), 64)
		return x, err == nil
	}

	strong, neutral := b.color(colors.RoleStrong), b.color(colors.RoleNeutral)
	var pts []scatterPoint
	xlo, xhi := math.Inf(1), math.Inf(-1)
	ylo, yhi := math.Inf(1), math.Inf(-1)
	for i, series := range b.data {
		base, hasBase := b.explicitColor(i)
		for _, p := range series {
			x, err := strconv.ParseFloat(strings.TrimSpace(p.Key), 64)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "scatter plot x values must be numbers, got %q", p.Key)
			}
			if p.Value == nil {
				continue
			}
			hl := p.Text != "" && cfg.Highlight.Contains(p.Text)
			var clr color.Color
			switch {
			case hasBase:
				clr = base
			case len(cfg.Highlight) > 0:
				clr = neutral
				if hl {
					clr = strong
				}
			case len(b.data) == 1:
				clr = strong
			default:
				clr = b.qualitative(i)
			}
			pts = append(pts, scatterPoint{x, *p.Value, p.Text, i, clr, hl})
			xlo, xhi = math.Min(xlo, x), math.Max(xhi, x)
			ylo, yhi = math.Min(ylo, *p.Value), math.Max(yhi, *p.Value)
		}
		if placement == PlacementLegend && len(b.data) > 1 {
			clr := color.Color(b.qualitative(i))
			if hasBase {
				clr = base
			}
			b.legend(b.seriesLabel(i), clr, render.ShapeDot)
		}
	}
	if len(pts) == 0 {
		b.emptyAxes()
		return nil
	}

	xlo, xhi = pad(xlo, xhi)
	ylo, yhi = pad(ylo, yhi)
	ylo, yhi, err = b.valueRange(ylo, yhi)
	if err != nil {
		return err
	}
	b.setValueAxis(ylo, yhi)

	xa := &b.fig.Axes.X
	xa.Min, xa.Max = xlo, xhi
	xa.Ticks, _ = ticks.Label(ticks.Nice(xlo, xhi, max(3, min(int(b.plotWidth()/80), 8))), b.labeler, b.cfg.Decimals)
	b.fig.Axes.Grid.Vertical = true
	if xlo < 0 && xhi > 0 {
		b.fig.Add(render.VLine{X: 0, Y0: ylo, Y1: yhi, Color: b.style.Color("axes.edgecolor", "#999999"), Width: 1, Z: render.ZFront})
	}
	b.zeroLine(ylo)

	const radius = 3.5
	for _, p := range pts {
		z := render.ZData
		if p.hl {
			z = render.ZFront
		}
		b.fig.Add(render.Marker{X: p.x, Y: p.y, Color: p.clr, Radius: radius, Shape: render.ShapeCircle, Z: z, Series: p.series})
	}

	// Labels, placed in pixel space.
	fontSize := b.style.CustomFloat("annotation.fontsize", 9)
	pw, ph := b.plotWidth(), b.plotHeight()
	var reqs []labelRequest
	var labelled []scatterPoint
	for _, p := range pts {
		if p.label == "" {
			continue
		}
		reqs = append(reqs, labelRequest{
			X:         (p.x - xlo) / (xhi - xlo) * pw,
			Y:         (p.y - ylo) / (yhi - ylo) * ph,
			Width:     textWidth(p.label, fontSize) / pxToPoints,
			Height:    fontSize * 1.2 / pxToPoints,
			Highlight: p.hl,
		})
		labelled = append(labelled, p)
	}
	dirs := placeLabels(reqs, box{0, 0, pw, ph}, annotationOffset/pxToPoints, radius/pxToPoints)
	for k, dir := range dirs {
		if dir == "" {
			b.log.Debug("no room for label", "label", labelled[k].label)
			continue
		}
		p := labelled[k]
		var clr color.Color
		if p.hl {
			clr = strong
		}
		b.annotate(p.x, p.y, p.label, dir, clr)
	}
	return nil
}

// pxToPoints converts CSS pixels to points.
const pxToPoints = 0.75

// pad widens [lo, hi] by 5% on each side.
func pad(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		span = math.Max(math.Abs(hi), 1)
	}
	return lo - 0.05*span, hi + 0.05*span
}
