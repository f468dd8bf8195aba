package chart

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/jplusplus/nwcharts/pkg/colors"
	"github.com/jplusplus/nwcharts/pkg/dataset"
	"github.com/jplusplus/nwcharts/pkg/format"
	"github.com/jplusplus/nwcharts/pkg/render"
	"github.com/jplusplus/nwcharts/pkg/ticks"
)

// stripe draws a warming stripes chart: one full height bar per period,
// colored on a cold to warm scale around a baseline.
type stripe struct{}

func (s *stripe) formats() []string                      { return render.Formats }
func (s *stripe) autoHeight(_ *Chart, w float64) float64 { return 0.5 * w }

func (s *stripe) build(b *builder) error {
	cfg := b.cfg
	b.labels()
	if err := b.data.CheckDuplicates(cfg.Labels); err != nil {
		return err
	}
	if len(b.data) == 0 || len(b.data[0]) == 0 {
		b.emptyAxes()
		return nil
	}
	series := b.data[0]
	keys := series.Keys()
	b.position = func(key string) (float64, bool) {
		i := series.Index(key)
		return float64(i), i >= 0
	}

	var known []float64
	for _, v := range series.Values() {
		if v != nil {
			known = append(known, *v)
		}
	}
	baseline := 0.0
	if cfg.Baseline != nil {
		baseline = *cfg.Baseline
	} else if len(known) > 0 {
		baseline, _ = stats.Mean(known)
	}
	maxDev := 0.0
	for _, v := range known {
		maxDev = math.Max(maxDev, math.Abs(v-baseline))
	}
	scale := colors.Diverging(b.style.RoleColor(colors.RoleCold), b.style.RoleColor(colors.RoleWarm))

	for i, p := range series {
		clr := b.missingColor()
		if p.Value != nil {
			t := 0.5
			if maxDev > 0 {
				t = 0.5 + (*p.Value-baseline)/(2*maxDev)
			}
			clr = colors.MustParse(colors.Hex(scale.At(t)))
		}
		b.fig.Add(render.Bar{Pos: float64(i), Width: 1, Value: 1, Color: clr, Z: render.ZData, Key: p.Key})
	}

	ax := &b.fig.Axes
	ax.Y.Min, ax.Y.Max = 0, 1
	ax.Y.Hidden = true
	ax.Y.Ticks = nil
	ax.X.Min, ax.X.Max = -0.5, float64(len(keys))-0.5
	ax.X.Ticks = stripeTicks(b, keys)
	return nil
}

// stripeTicks labels a thinned selection of periods. Date keys are labelled
// by year.
func stripeTicks(b *builder, keys []string) []ticks.Tick {
	if len(b.cfg.Ticks) > 0 {
		pos := make(map[string]float64, len(keys))
		for i, k := range keys {
			pos[k] = float64(i)
		}
		return categoryTicks(keys, pos, b.cfg.Ticks)
	}
	maxTicks := max(2, int(b.plotWidth()/60))
	step := int(math.Ceil(float64(len(keys)) / float64(maxTicks)))
	step = max(step, 1)
	var out []ticks.Tick
	for i := 0; i < len(keys); i += step {
		label := keys[i]
		if d, err := dataset.ParseDate(keys[i]); err == nil {
			label = b.num.Date(d, format.LayoutYear)
		}
		out = append(out, ticks.Tick{Value: float64(i), Label: label})
	}
	return out
}
