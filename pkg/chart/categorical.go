package chart

import (
	"image/color"
	"math"

	"github.com/jplusplus/nwcharts/pkg/colors"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/render"
	"github.com/jplusplus/nwcharts/pkg/ticks"
)

// categorical draws one bar per category and series, horizontal by default.
// With reference set, the second series is drawn as a marker line across
// each bar instead of as bars.
type categorical struct {
	reference bool
}

func (c *categorical) formats() []string { return render.Formats }

func (c *categorical) autoHeight(ch *Chart, w float64) float64 {
	if ch.BarOrientation == Vertical {
		return w
	}
	n := float64(len(ch.Data.Categories()))
	return math.Max(0.5*w, 100+30*n)
}

// orientation validates the bar orientation.
func orientation(cfg *Config) (horizontal bool, err error) {
	switch cfg.BarOrientation {
	case "", Horizontal:
		return true, nil
	case Vertical:
		return false, nil
	}
	return false, errors.New(errors.ErrCodeInvalidInput,
		"valid orientations are %s and %s, got %q", Horizontal, Vertical, cfg.BarOrientation)
}

// categoryPositions maps categories to axis positions. Horizontal charts
// list the first category at the top.
func categoryPositions(cats []string, horizontal bool) map[string]float64 {
	pos := make(map[string]float64, len(cats))
	for i, cat := range cats {
		if horizontal {
			pos[cat] = float64(len(cats) - 1 - i)
		} else {
			pos[cat] = float64(i)
		}
	}
	return pos
}

func (c *categorical) build(b *builder) error {
	cfg := b.cfg
	horizontal, err := orientation(cfg)
	if err != nil {
		return err
	}
	b.horizontal = horizontal
	b.labels()
	rule, err := b.rule()
	if err != nil {
		return err
	}
	placement, err := b.placement()
	if err != nil {
		return err
	}
	if err := b.data.CheckDuplicates(cfg.Labels); err != nil {
		return err
	}

	cats := b.data.Categories()
	if len(cats) == 0 {
		b.emptyAxes()
		return nil
	}
	pos := categoryPositions(cats, horizontal)
	b.position = func(key string) (float64, bool) {
		p, ok := pos[key]
		return p, ok
	}

	bars := b.data
	var ref []*float64
	if c.reference && len(b.data) > 1 {
		bars = b.data[:1]
		for _, cat := range cats {
			v, _ := b.data[1].Lookup(cat)
			ref = append(ref, v)
		}
	}

	strong, neutral := b.color(colors.RoleStrong), b.color(colors.RoleNeutral)
	nBars := len(bars)
	width := 0.8
	if !cfg.Stacked && nBars > 1 {
		width = 0.8 / float64(nBars)
	}
	lo, hi := 0.0, 0.0
	posBase := map[string]float64{}
	negBase := map[string]float64{}

	type label struct {
		pos, value, end float64
	}
	var valueLabels []label

	for i, s := range bars {
		base, hasBase := b.explicitColor(i)
		for _, p := range s {
			if p.Value == nil {
				continue
			}
			v := *p.Value
			var clr color.Color
			switch {
			case hasBase:
				clr = base
			case rule != nil:
				clr = b.color(rule(p.Value))
			case len(cfg.Highlight) > 0:
				clr = neutral
				if cfg.Highlight.Contains(p.Key) {
					clr = strong
				}
			case nBars == 1:
				clr = strong
			default:
				clr = b.qualitative(i)
			}

			at := pos[p.Key]
			bottom := 0.0
			if cfg.Stacked {
				if v < 0 {
					bottom = negBase[p.Key]
					negBase[p.Key] += v
				} else {
					bottom = posBase[p.Key]
					posBase[p.Key] += v
				}
			} else if nBars > 1 {
				at += -0.4 + width*(float64(i)+0.5)
				if horizontal {
					// Series read top down, like categories.
					at = pos[p.Key] + 0.4 - width*(float64(i)+0.5)
				}
			}
			b.fig.Add(render.Bar{
				Pos: at, Width: width,
				Base: bottom, Value: v,
				Horizontal: horizontal,
				Color:      clr,
				Z:          render.ZData,
				Series:     i,
				Key:        p.Key,
			})
			lo, hi = math.Min(lo, bottom+v), math.Max(hi, bottom+v)
			valueLabels = append(valueLabels, label{at, v, bottom + v})
		}
		if placement == PlacementLegend && (nBars > 1 || c.reference) {
			legendColor := color.Color(strong)
			switch {
			case hasBase:
				legendColor = base
			case nBars > 1 && rule == nil && len(cfg.Highlight) == 0:
				legendColor = b.qualitative(i)
			}
			b.legend(b.seriesLabel(i), legendColor, render.ShapeSquare)
		}
	}

	if ref != nil {
		refColor, ok := b.explicitColor(1)
		if !ok {
			refColor = b.color(colors.RoleNeutral)
		}
		for k, v := range ref {
			if v == nil {
				continue
			}
			at := pos[cats[k]]
			l := render.Line{Color: refColor, Width: 2.5, Z: render.ZFront, Series: 1}
			if horizontal {
				l.Points = []render.Point{{X: *v, Y: at - 0.4}, {X: *v, Y: at + 0.4}}
			} else {
				l.Points = []render.Point{{X: at - 0.4, Y: *v}, {X: at + 0.4, Y: *v}}
			}
			b.fig.Add(l)
			lo, hi = math.Min(lo, *v), math.Max(hi, *v)
		}
		if placement == PlacementLegend {
			b.legend(b.seriesLabel(1), refColor, render.ShapeLine)
		}
	}

	if cfg.YLine != nil {
		lo, hi = math.Min(lo, *cfg.YLine), math.Max(hi, *cfg.YLine)
	}
	ymin, ymax := lo, hi
	if lo < 0 {
		ymin = lo * 1.15
	}
	if hi > 0 {
		ymax = hi * 1.15
	}
	ymin, ymax, err = b.valueRange(ymin, ymax)
	if err != nil {
		return err
	}
	b.setValueAxis(ymin, ymax)
	b.zeroLine(lo)

	ca := b.categoryAxis()
	ca.Min, ca.Max = -0.5, float64(len(cats))-0.5
	ca.Ticks = categoryTicks(cats, pos, cfg.Ticks)

	if boolOr(cfg.ValueLabels, nBars == 1 && !cfg.Stacked && !c.reference) {
		for _, l := range valueLabels {
			b.valueLabel(l.pos, l.end, b.format(l.value))
		}
	}
	return nil
}

// categoryTicks labels every category, or only the caller's ticks.
func categoryTicks(cats []string, pos map[string]float64, custom []Tick) []ticks.Tick {
	if len(custom) > 0 {
		out := make([]ticks.Tick, 0, len(custom))
		for _, t := range custom {
			if p, ok := pos[t.X]; ok {
				out = append(out, ticks.Tick{Value: p, Label: t.Label})
			}
		}
		return out
	}
	out := make([]ticks.Tick, 0, len(cats))
	for _, cat := range cats {
		out = append(out, ticks.Tick{Value: pos[cat], Label: cat})
	}
	return out
}

// valueLabel writes a value just outside the end of a bar.
func (b *builder) valueLabel(pos, end float64, text string) {
	t := render.Text{
		Text:  text,
		Color: b.textColor(),
		Font:  b.font(b.style.CustomFloat("annotation.fontsize", 9)),
		Z:     render.ZText,
	}
	if b.horizontal {
		t.X, t.Y = end, pos
		t.YAlign = render.AlignCenter
		t.XAlign, t.DX = render.AlignStart, 4
		if end < 0 {
			t.XAlign, t.DX = render.AlignEnd, -4
		}
	} else {
		t.X, t.Y = pos, end
		t.XAlign = render.AlignCenter
		t.YAlign, t.DY = render.AlignStart, 4
		if end < 0 {
			t.YAlign, t.DY = render.AlignEnd, -4
		}
	}
	b.fig.Add(t)
}
