package chart

import (
	"testing"

	"github.com/jplusplus/nwcharts/pkg/colors"
	"github.com/jplusplus/nwcharts/pkg/dataset"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/render"
)

func TestSerialColorRule(t *testing.T) {
	c := newTestChart(t, SerialChart)
	c.Data = dataset.List{series("2016-01-01", -2, "2017-01-01", 3, "2018-01-01", 0)}
	c.ColorFn = ColorFn{Name: colors.RulePositiveNegative}
	fig := figure(t, c)

	bars := render.Collect[render.Bar](fig)
	if len(bars) != 3 {
		t.Fatalf("got %d bars, want 3", len(bars))
	}
	want := []string{colors.Negative, colors.Positive, colors.Neutral}
	for i, b := range bars {
		if b.Color != colors.MustParse(want[i]) {
			t.Errorf("bar %d color = %v, want %s", i, b.Color, want[i])
		}
	}
}

func TestSerialUnknownColorRule(t *testing.T) {
	c := newTestChart(t, SerialChart)
	c.Data = dataset.List{series("2016", 1)}
	c.ColorFn = ColorFn{Name: "rainbow"}
	if _, err := c.Figure(RenderOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestSerialStackedBars(t *testing.T) {
	c := newTestChart(t, SerialChart)
	c.Data = dataset.List{
		series("2016-01-01", 2, "2017-01-01", 3),
		series("2016-01-01", 1, "2017-01-01", -1),
	}
	c.Labels = []string{"A", "B"}
	fig := figure(t, c)

	bars := render.Collect[render.Bar](fig)
	if len(bars) != 4 {
		t.Fatalf("got %d bars, want 4", len(bars))
	}
	// The second series stacks on the first for positive values and starts
	// at zero for negative ones.
	if bars[2].Base != 2 || bars[3].Base != 0 {
		t.Errorf("bases = %v, %v, want 2, 0", bars[2].Base, bars[3].Base)
	}
	if bars[0].Color == bars[2].Color {
		t.Error("stacked series share a color")
	}
	if len(fig.Legend.Entries) != 2 {
		t.Errorf("legend has %d entries, want 2", len(fig.Legend.Entries))
	}
}

func TestSerialSameDateSpelledTwice(t *testing.T) {
	c := newTestChart(t, SerialChart)
	c.Data = dataset.List{series("2016", 1, "2016-01-01", 5)}
	if _, err := c.Figure(RenderOptions{}); !errors.Is(err, errors.ErrCodeDuplicateTime) {
		t.Errorf("error = %v, want DUPLICATE_TIMEPOINT", err)
	}

	// Across series the spellings are one position and stack.
	c = newTestChart(t, SerialChart)
	c.Data = dataset.List{
		series("2016", 2, "2017", 3),
		series("2016-01-01", 1, "2017-01-01", 1),
	}
	bars := render.Collect[render.Bar](figure(t, c))
	if len(bars) != 4 {
		t.Fatalf("got %d bars, want 4", len(bars))
	}
	if bars[2].Pos != bars[0].Pos || bars[2].Base != 2 {
		t.Errorf("second series bar at %v base %v, want %v base 2", bars[2].Pos, bars[2].Base, bars[0].Pos)
	}
}

func TestSerialMissingValueBreaksLine(t *testing.T) {
	c := newTestChart(t, SerialChart)
	c.Type = StringList{TypeLine}
	c.Data = dataset.List{series("2015", 1, "2016", 2, "2017", nil, "2018", 4, "2019", 5)}
	fig := figure(t, c)

	lines := render.Collect[render.Line](fig)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	pts := lines[0].Points
	if len(pts) != 5 || !pts[2].Missing || pts[1].Missing || pts[3].Missing {
		t.Errorf("points = %+v, want the third missing", pts)
	}
}

func TestSerialOrphanPointGetsMarker(t *testing.T) {
	c := newTestChart(t, SerialChart)
	c.Type = StringList{TypeLine}
	c.Data = dataset.List{series("2015", 1, "2016", nil, "2017", 3, "2018", nil)}
	fig := figure(t, c)

	var dots int
	for _, m := range render.Collect[render.Marker](fig) {
		if m.Shape == render.ShapeDot {
			dots++
		}
	}
	if dots != 2 {
		t.Errorf("got %d orphan markers, want 2", dots)
	}
}

func TestSerialYRange(t *testing.T) {
	tests := []struct {
		name       string
		kind       string
		data       dataset.Series
		ymin, ymax *float64
		check      func(t *testing.T, fig *render.Figure)
	}{
		{
			name: "explicit limits are exact",
			kind: TypeLine,
			data: series("2015", 10, "2016", 20),
			ymin: dataset.Float(-5), ymax: dataset.Float(50),
			check: func(t *testing.T, fig *render.Figure) {
				if fig.Axes.Y.Min != -5 || fig.Axes.Y.Max != 50 {
					t.Errorf("y = [%v, %v], want [-5, 50]", fig.Axes.Y.Min, fig.Axes.Y.Max)
				}
			},
		},
		{
			name: "bars start at zero",
			kind: TypeBars,
			data: series("2015", 10, "2016", 20),
			check: func(t *testing.T, fig *render.Figure) {
				if fig.Axes.Y.Min != 0 || fig.Axes.Y.Max < 20 {
					t.Errorf("y = [%v, %v]", fig.Axes.Y.Min, fig.Axes.Y.Max)
				}
			},
		},
		{
			name: "negative values are inside",
			kind: TypeBars,
			data: series("2015", -10, "2016", 20),
			check: func(t *testing.T, fig *render.Figure) {
				if fig.Axes.Y.Min > -10 || fig.Axes.Y.Max < 20 {
					t.Errorf("y = [%v, %v]", fig.Axes.Y.Min, fig.Axes.Y.Max)
				}
			},
		},
		{
			name: "high lines break the axis",
			kind: TypeLine,
			data: series("2015", 100, "2016", 104, "2017", 110),
			check: func(t *testing.T, fig *render.Figure) {
				if !fig.Axes.BrokenY || fig.Axes.Y.Min <= 0 || fig.Axes.Y.Min > 100 || fig.Axes.Y.Max < 110 {
					t.Errorf("y = [%v, %v] broken=%v", fig.Axes.Y.Min, fig.Axes.Y.Max, fig.Axes.BrokenY)
				}
			},
		},
		{
			name: "all zero",
			kind: TypeLine,
			data: series("2015", 0, "2016", 0),
			check: func(t *testing.T, fig *render.Figure) {
				if fig.Axes.Y.Min != 0 || fig.Axes.Y.Max != 1 {
					t.Errorf("y = [%v, %v], want [0, 1]", fig.Axes.Y.Min, fig.Axes.Y.Max)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChart(t, SerialChart)
			c.Type = StringList{tt.kind}
			c.Data = dataset.List{tt.data}
			c.YMin, c.YMax = tt.ymin, tt.ymax
			tt.check(t, figure(t, c))
		})
	}
}

func TestSerialInvalidYRange(t *testing.T) {
	c := newTestChart(t, SerialChart)
	c.Data = dataset.List{series("2015", 1)}
	c.YMin, c.YMax = dataset.Float(10), dataset.Float(5)
	if _, err := c.Figure(RenderOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestSerialInvalidType(t *testing.T) {
	c := newTestChart(t, SerialChart)
	c.Data = dataset.List{series("2015", 1)}
	c.Type = StringList{"pie"}
	if _, err := c.Figure(RenderOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestSerialHighlight(t *testing.T) {
	c := newTestChart(t, SerialChart)
	c.Data = dataset.List{series("2015-01-01", 1, "2016-01-01", 2, "2017-01-01", 3)}
	c.Highlight = StringList{"2016-01-01"}
	fig := figure(t, c)

	strong, neutral := colors.MustParse(colors.Strong), colors.MustParse(colors.Neutral)
	bars := render.Collect[render.Bar](fig)
	for _, b := range bars {
		want := neutral
		if b.Key == "2016-01-01" {
			want = strong
		}
		if b.Color != want {
			t.Errorf("bar %s color = %v, want %v", b.Key, b.Color, want)
		}
	}
	anns := render.Collect[render.Annotation](fig)
	if len(anns) != 1 || anns[0].Direction != render.Up || anns[0].Y != 2 {
		t.Errorf("annotations = %+v, want one above 2", anns)
	}

	off := false
	c.HighlightAnnotation = &off
	if n := len(render.Collect[render.Annotation](figure(t, c))); n != 0 {
		t.Errorf("got %d annotations with highlight_annotation off", n)
	}
}

func TestSerialHighlightDiff(t *testing.T) {
	c := newTestChart(t, SerialChart)
	c.Type = StringList{TypeLine}
	c.Data = dataset.List{
		series("2015", 1, "2016", 5, "2017", 3),
		series("2015", 2, "2016", 2, "2017", 2),
	}
	c.Highlight = StringList{"2016"}
	fig := figure(t, c)

	if n := len(render.Collect[render.VLine](fig)); n != 1 {
		t.Errorf("got %d difference lines, want 1", n)
	}
	dirs := map[string]int{}
	for _, a := range render.Collect[render.Annotation](fig) {
		dirs[a.Direction]++
	}
	if dirs[render.Up] != 1 || dirs[render.Down] != 1 || dirs[render.Right] != 1 {
		t.Errorf("annotation directions = %v", dirs)
	}
}

func TestSerialFillBetween(t *testing.T) {
	c := newTestChart(t, SerialChart)
	c.Type = StringList{TypeLine}
	c.Data = dataset.List{
		series("2015", 1, "2016", 2, "2017", 3, "2018", 4),
		series("2016", 3, "2017", 5, "2018", 6),
	}
	bands := render.Collect[render.Band](figure(t, c))
	if len(bands) != 1 {
		t.Fatalf("got %d bands, want 1", len(bands))
	}
	want := []bool{false, true, true, true}
	for i, w := range bands[0].Where {
		if w != want[i] {
			t.Errorf("where = %v, want %v", bands[0].Where, want)
			break
		}
	}
}

func TestSerialTrendline(t *testing.T) {
	c := newTestChart(t, SerialChart)
	c.Type = StringList{TypeLine}
	c.Data = dataset.List{series("2015", 1, "2016", 2, "2017", 3)}
	c.Trendline = []TrendPoint{{Key: "2015"}, {Key: "2017"}}
	fig := figure(t, c)

	var dashed int
	for _, l := range render.Collect[render.Line](fig) {
		if l.Dashes != nil {
			dashed++
			if len(l.Points) != 2 {
				t.Errorf("trendline has %d points, want 2", len(l.Points))
			}
		}
	}
	if dashed != 1 {
		t.Errorf("got %d trendlines, want 1", dashed)
	}
	if n := len(render.Collect[render.Annotation](fig)); n != 2 {
		t.Errorf("got %d trend annotations, want 2", n)
	}
}

func TestSerialInlineLabels(t *testing.T) {
	c := newTestChart(t, SerialChart)
	c.Type = StringList{TypeLine}
	c.Data = dataset.List{series("2015", 1, "2016", 2), series("2015", 3, "2016", nil)}
	c.Labels = []string{"A", "B"}
	c.LabelPlacement = PlacementInline
	fig := figure(t, c)

	if len(fig.Legend.Entries) != 0 {
		t.Errorf("inline labels also produced a legend: %+v", fig.Legend.Entries)
	}
	texts := render.Collect[render.Text](fig)
	if len(texts) != 2 {
		t.Fatalf("got %d inline labels, want 2", len(texts))
	}
	if texts[1].Text != "B" || texts[1].Y != 3 {
		t.Errorf("label B = %+v, want at the last known value", texts[1])
	}
}

func TestSeasonalEmphasizesPeriod(t *testing.T) {
	c := newTestChart(t, SeasonalChart)
	c.Data = dataset.List{series(
		"2016-01-01", 1, "2016-02-01", 2, "2017-01-01", 3, "2017-02-01", 4, "2018-01-01", 5,
	)}
	fig := figure(t, c)

	strong := colors.MustParse(colors.Strong)
	var emphasized []string
	for _, b := range render.Collect[render.Bar](fig) {
		if b.Color == strong {
			emphasized = append(emphasized, b.Key)
		}
	}
	// Without a highlight, the month of the latest point is emphasized.
	want := []string{"2016-01-01", "2017-01-01", "2018-01-01"}
	if len(emphasized) != len(want) {
		t.Fatalf("emphasized = %v, want %v", emphasized, want)
	}
	for i := range want {
		if emphasized[i] != want[i] {
			t.Errorf("emphasized = %v, want %v", emphasized, want)
		}
	}
}

func TestAnnotationDirection(t *testing.T) {
	f := dataset.Float
	tests := []struct {
		name   string
		i      int
		values []*float64
		want   string
	}{
		{"peak", 1, []*float64{f(1), f(3), f(2)}, render.Up},
		{"valley", 1, []*float64{f(3), f(1), f(2)}, render.Down},
		{"first below next", 0, []*float64{f(1), f(3)}, render.Down},
		{"last above previous", 2, []*float64{f(1), f(2), f(3)}, render.Up},
		{"last below previous known", 2, []*float64{f(5), nil, f(3)}, render.Down},
		{"missing neighbours", 1, []*float64{nil, f(3), nil}, render.Up},
		{"missing value", 1, []*float64{f(1), nil, f(2)}, render.Up},
		{"single", 0, []*float64{f(1)}, render.Up},
		{"out of range", 5, []*float64{f(1), f(2)}, render.Up},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := annotationDirection(tt.i, tt.values); got != tt.want {
				t.Errorf("annotationDirection = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSamePeriod(t *testing.T) {
	tests := []struct {
		interval string
		a, b     string
		want     bool
	}{
		{dataset.Monthly, "2016-03-01", "2019-03-01", true},
		{dataset.Monthly, "2016-03-01", "2016-04-01", false},
		{dataset.Quarterly, "2016-01-01", "2018-03-01", true},
		{dataset.Quarterly, "2016-01-01", "2016-04-01", false},
		{dataset.Weekly, "2020-01-06", "2021-01-11", true},
		{dataset.Daily, "2021-02-01", "2022-02-01", true},
		{dataset.Yearly, "2021-01-01", "2022-01-01", false},
	}
	for _, tt := range tests {
		t.Run(tt.interval+" "+tt.a+" "+tt.b, func(t *testing.T) {
			a, _ := dataset.ParseDate(tt.a)
			b, _ := dataset.ParseDate(tt.b)
			if got := samePeriod(tt.interval, a, b); got != tt.want {
				t.Errorf("samePeriod = %v, want %v", got, tt.want)
			}
		})
	}
}
