package chart

import (
	"math"

	"github.com/jplusplus/nwcharts/pkg/colors"
	"github.com/jplusplus/nwcharts/pkg/format"
	"github.com/jplusplus/nwcharts/pkg/render"
)

// progress draws each category as a horizontal bar filled towards a target.
type progress struct{}

func (p *progress) formats() []string { return render.Formats }

func (p *progress) autoHeight(c *Chart, _ float64) float64 {
	return 100 + 40*float64(len(c.Data.Categories()))
}

func (p *progress) build(b *builder) error {
	cfg := b.cfg
	b.horizontal = true
	b.labels()
	if err := b.data.CheckDuplicates(cfg.Labels); err != nil {
		return err
	}
	if len(b.data) == 0 || len(b.data[0]) == 0 {
		b.emptyAxes()
		return nil
	}

	series := b.data[0]
	cats := b.data.Categories()
	pos := categoryPositions(cats, true)
	b.position = func(key string) (float64, bool) {
		v, ok := pos[key]
		return v, ok
	}

	_, dataMax, _ := b.data.Range()
	defaultTarget := dataMax
	if b.units == format.UnitsPercent {
		defaultTarget = 1
	}

	track := b.missingColor()
	done := b.color(colors.RolePositive)
	todo := b.color(colors.RoleStrong)
	if c, ok := b.explicitColor(0); ok {
		todo = c
	}

	hi := 0.0
	for i, pt := range series {
		target, ok := cfg.Target.At(i)
		if !ok {
			target = defaultTarget
		}
		at := pos[pt.Key]
		hi = math.Max(hi, target)
		b.fig.Add(render.Bar{Pos: at, Width: 0.6, Value: target, Horizontal: true, Color: track, Z: render.ZFill, Key: pt.Key})
		if pt.Value == nil {
			continue
		}
		v := *pt.Value
		clr := todo
		if v >= target {
			clr = done
		}
		b.fig.Add(render.Bar{Pos: at, Width: 0.6, Value: v, Horizontal: true, Color: clr, Z: render.ZData, Key: pt.Key})
		hi = math.Max(hi, v)
		b.valueLabel(at, math.Max(v, target), b.format(v))
	}

	lo, top, err := b.valueRange(0, hi*1.15)
	if err != nil {
		return err
	}
	b.setValueAxis(lo, top)
	b.valueAxis().Hidden = true
	b.fig.Axes.Grid.Vertical = false

	ca := b.categoryAxis()
	ca.Min, ca.Max = -0.5, float64(len(cats))-0.5
	ca.Ticks = categoryTicks(cats, pos, cfg.Ticks)
	return nil
}
