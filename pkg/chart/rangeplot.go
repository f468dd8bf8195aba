package chart

import (
	"math"

	"github.com/jplusplus/nwcharts/pkg/colors"
	"github.com/jplusplus/nwcharts/pkg/dataset"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/render"
)

// rangePlot draws the change between two values per category as a line
// from a start dot to an end dot. Rows are [category, start, end].
type rangePlot struct{}

func (r *rangePlot) formats() []string { return render.Formats }

func (r *rangePlot) autoHeight(c *Chart, _ float64) float64 {
	return 100 + 30*float64(len(c.Data.Categories()))
}

func (r *rangePlot) build(b *builder) error {
	cfg := b.cfg
	b.horizontal = true
	b.labels()
	if err := b.data.CheckDuplicates(cfg.Labels); err != nil {
		return err
	}
	cats := b.data.Categories()
	if len(cats) == 0 {
		b.emptyAxes()
		return nil
	}
	pos := categoryPositions(cats, true)
	b.position = func(key string) (float64, bool) {
		v, ok := pos[key]
		return v, ok
	}

	startColor, ok := b.explicitColor(0)
	if !ok {
		startColor = b.color(colors.RoleNeutral)
	}
	endColor, ok := b.explicitColor(1)
	if !ok {
		endColor = b.color(colors.RoleStrong)
	}

	type span struct {
		at, start, end float64
	}
	var spans []span
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range b.data[0] {
		end, err := dataset.ToFloat(p.Text)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "range end of %q", p.Key)
		}
		if p.Value == nil || end == nil {
			b.log.Debug("skipping incomplete range", "category", p.Key)
			continue
		}
		s := span{pos[p.Key], *p.Value, *end}
		spans = append(spans, s)
		lo = math.Min(lo, math.Min(s.start, s.end))
		hi = math.Max(hi, math.Max(s.start, s.end))
	}
	if len(spans) == 0 {
		b.emptyAxes()
		return nil
	}

	margin := (hi - lo) * 0.15
	if margin == 0 {
		margin = math.Max(math.Abs(hi)*0.15, 1)
	}
	vlo, vhi, err := b.valueRange(lo-margin, hi+margin)
	if err != nil {
		return err
	}
	b.setValueAxis(vlo, vhi)
	b.zeroLine(lo)

	lineColor := b.color(colors.RoleNeutral)
	for _, s := range spans {
		b.fig.Add(
			render.Line{Points: []render.Point{{X: s.start, Y: s.at}, {X: s.end, Y: s.at}}, Color: lineColor, Width: 2, Z: render.ZData},
			render.Marker{X: s.start, Y: s.at, Color: startColor, Radius: 4, Shape: render.ShapeDot, Z: render.ZFront, Series: 0},
			render.Marker{X: s.end, Y: s.at, Color: endColor, Radius: 4, Shape: render.ShapeDot, Z: render.ZFront, Series: 1},
		)
		// Values go on the outer side of each dot.
		startDir, endDir := render.Left, render.Right
		if s.end < s.start {
			startDir, endDir = render.Right, render.Left
		}
		b.annotate(s.start, s.at, b.format(s.start), startDir, startColor)
		b.annotate(s.end, s.at, b.format(s.end), endDir, endColor)
	}

	placement, err := b.placement()
	if err != nil {
		return err
	}
	if placement == PlacementLegend {
		b.legend(b.seriesLabel(0), startColor, render.ShapeDot)
		b.legend(b.seriesLabel(1), endColor, render.ShapeDot)
	}

	ca := b.categoryAxis()
	ca.Min, ca.Max = -0.5, float64(len(cats))-0.5
	ca.Ticks = categoryTicks(cats, pos, cfg.Ticks)
	return nil
}
