package chart

import (
	"image/color"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/paulmach/orb"

	"github.com/jplusplus/nwcharts/pkg/colors"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/geo"
	"github.com/jplusplus/nwcharts/pkg/render"
)

// DefaultBaseMap is used when a choropleth map names none.
const DefaultBaseMap = "se-7"

// Binning methods for numeric choropleth data.
const (
	BinningQuantile = "quantile"
	BinningEqual    = "equal"
)

const defaultNumBins = 5

// choropleth colors the regions of a base map by value. Numeric values are
// binned on a sequential scale; text values are colored as categories.
type choropleth struct{}

func (m *choropleth) formats() []string { return render.Formats }

func (m *choropleth) autoHeight(c *Chart, w float64) float64 {
	bm, err := baseMap(c)
	if err != nil || len(bm.Regions) == 0 {
		return w
	}
	project := bm.Project()
	bound := bm.Bound()
	lo, hi := project(bound.Min), project(bound.Max)
	if hi[0] <= lo[0] {
		return w
	}
	ratio := (hi[1] - lo[1]) / (hi[0] - lo[0])
	return math.Min(math.Max(w*ratio+140, 0.5*w), 2*w)
}

func baseMap(c *Chart) (*geo.BaseMap, error) {
	key := c.BaseMap
	if key == "" {
		key = DefaultBaseMap
	}
	return c.opts.Maps.Get(key)
}

func (m *choropleth) build(b *builder) error {
	cfg := b.cfg
	bm, err := baseMap(b.c)
	if err != nil {
		return err
	}
	ax := &b.fig.Axes
	ax.Hidden = true
	ax.EqualAspect = true

	var series []regionValue
	if len(b.data) > 0 {
		if err := b.data[:1].CheckDuplicates(cfg.Labels); err != nil {
			return err
		}
		for _, p := range b.data[0] {
			r, err := bm.Lookup(p.Key)
			if err != nil {
				return err
			}
			series = append(series, regionValue{code: r.Code, value: p.Value, text: p.Text})
		}
	}

	fill, entries, err := m.classify(b, series)
	if err != nil {
		return err
	}

	highlight := map[string]bool{}
	for _, h := range cfg.Highlight {
		r, err := bm.Lookup(h)
		if err != nil {
			return err
		}
		highlight[r.Code] = true
	}

	project := bm.Project()
	missing := b.missingColor()
	edge := b.style.Background()
	hasMissing := false
	for _, r := range bm.Regions {
		clr, ok := fill[r.Code]
		if !ok {
			clr = missing
			hasMissing = true
		}
		for _, rings := range polygons(r.Geometry) {
			p := render.Polygon{Fill: clr, Stroke: edge, StrokeWidth: 0.3, Z: render.ZData, Key: r.Code}
			if highlight[r.Code] {
				p.Stroke, p.StrokeWidth, p.Z = b.textColor(), 1.5, render.ZFront
			}
			for _, ring := range rings {
				pts := make([]render.Point, len(ring))
				for i, pt := range ring {
					q := project(pt)
					pts[i] = render.Point{X: q[0], Y: q[1]}
				}
				p.Rings = append(p.Rings, pts)
			}
			b.fig.Add(p)
		}
	}

	if len(bm.Regions) > 0 {
		bound := bm.Bound()
		lo, hi := project(bound.Min), project(bound.Max)
		ax.X.Min, ax.X.Max = lo[0], hi[0]
		ax.Y.Min, ax.Y.Max = lo[1], hi[1]
	} else {
		b.emptyAxes()
	}

	for _, e := range entries {
		b.legend(e.Label, e.Color, render.ShapeSquare)
	}
	if hasMissing && len(series) > 0 {
		label := cfg.MissingLabel
		if label == "" {
			label = "No data"
		}
		b.legend(label, missing, render.ShapeSquare)
	}
	return nil
}

type regionValue struct {
	code  string
	value *float64
	text  string
}

// classify assigns a fill color to every region with data and returns the
// matching legend entries.
func (m *choropleth) classify(b *builder, data []regionValue) (map[string]color.Color, []render.LegendEntry, error) {
	fill := make(map[string]color.Color, len(data))
	var values []float64
	categorical := false
	for _, d := range data {
		switch {
		case d.value != nil:
			values = append(values, *d.value)
		case d.text != "":
			categorical = true
		}
	}

	if categorical {
		var entries []render.LegendEntry
		index := map[string]int{}
		for _, d := range data {
			if d.text == "" {
				continue
			}
			i, ok := index[d.text]
			if !ok {
				i = len(index)
				index[d.text] = i
				entries = append(entries, render.LegendEntry{Label: d.text, Color: m.categoryColor(b, i), Shape: render.ShapeSquare})
			}
			fill[d.code] = m.categoryColor(b, i)
		}
		return fill, entries, nil
	}
	if len(values) == 0 {
		return fill, nil, nil
	}

	breaks, err := binBreaks(b.cfg, values)
	if err != nil {
		return nil, nil, err
	}
	palette := colors.Sequential(b.style.RoleColor(colors.RoleStrong)).Steps(len(breaks) + 1)
	if rule, err := b.rule(); err != nil {
		return nil, nil, err
	} else if rule != nil {
		for _, d := range data {
			if d.value != nil {
				fill[d.code] = b.color(rule(d.value))
			}
		}
		return fill, nil, nil
	}
	for _, d := range data {
		if d.value != nil {
			fill[d.code] = colors.MustParse(palette[sort.SearchFloat64s(breaks, *d.value)])
		}
	}

	entries := make([]render.LegendEntry, 0, len(palette))
	for i, hex := range palette {
		var label string
		switch {
		case len(breaks) == 0:
			label = b.format(values[0])
		case i == 0:
			label = "≤ " + b.format(breaks[0])
		case i == len(breaks):
			label = "> " + b.format(breaks[i-1])
		default:
			label = b.format(breaks[i-1]) + " – " + b.format(breaks[i])
		}
		entries = append(entries, render.LegendEntry{Label: label, Color: colors.MustParse(hex), Shape: render.ShapeSquare})
	}
	return fill, entries, nil
}

func (m *choropleth) categoryColor(b *builder, i int) color.Color {
	if c, ok := b.explicitColor(i); ok {
		return c
	}
	return b.qualitative(i)
}

// binBreaks returns the sorted upper class limits, excluding the last
// class which is open ended. Values equal to a limit belong to the lower
// class.
func binBreaks(cfg *Config, values []float64) ([]float64, error) {
	if len(cfg.Bins) > 0 {
		breaks := append([]float64(nil), cfg.Bins...)
		sort.Float64s(breaks)
		return dedupeSorted(breaks), nil
	}
	n := cfg.NumBins
	if n == 0 {
		n = defaultNumBins
	}
	if n < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "num_bins must be positive, got %d", n)
	}
	lo, _ := stats.Min(values)
	hi, _ := stats.Max(values)
	var breaks []float64
	switch cfg.Binning {
	case "", BinningQuantile:
		for k := 1; k < n; k++ {
			p, err := stats.PercentileNearestRank(values, 100*float64(k)/float64(n))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "quantile bins")
			}
			breaks = append(breaks, p)
		}
	case BinningEqual:
		for k := 1; k < n; k++ {
			breaks = append(breaks, lo+(hi-lo)*float64(k)/float64(n))
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"binning must be %s or %s, got %q", BinningQuantile, BinningEqual, cfg.Binning)
	}
	sort.Float64s(breaks)
	breaks = dedupeSorted(breaks)
	// Breaks at or above the maximum would leave empty classes.
	for len(breaks) > 0 && breaks[len(breaks)-1] >= hi {
		breaks = breaks[:len(breaks)-1]
	}
	return breaks, nil
}

func dedupeSorted(vs []float64) []float64 {
	var out []float64
	for _, v := range vs {
		if len(out) == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// polygons returns the rings of every polygon in g.
func polygons(g orb.Geometry) []orb.Polygon {
	switch v := g.(type) {
	case orb.Polygon:
		return []orb.Polygon{v}
	case orb.MultiPolygon:
		return v
	case orb.Collection:
		var out []orb.Polygon
		for _, c := range v {
			out = append(out, polygons(c)...)
		}
		return out
	}
	return nil
}
