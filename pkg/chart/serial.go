package chart

import (
	"image/color"
	"math"
	"sort"
	"time"

	"github.com/jplusplus/nwcharts/pkg/colors"
	"github.com/jplusplus/nwcharts/pkg/dataset"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/format"
	"github.com/jplusplus/nwcharts/pkg/render"
	"github.com/jplusplus/nwcharts/pkg/ticks"
)

// barWidth is the share of a period covered by a bar.
const barWidth = 0.9

// serial draws time series as bars, lines or both. With seasonal set, every
// point in the same period of the year as the highlighted date is
// emphasized.
type serial struct {
	seasonal bool
}

func (s *serial) autoHeight(_ *Chart, w float64) float64 { return w }
func (s *serial) formats() []string                      { return render.Formats }

// timeSeries is one series with parsed, chronologically sorted points.
type timeSeries struct {
	kind   string
	label  string
	dates  []time.Time
	keys   []string
	values []*float64
}

func (ts timeSeries) index(d time.Time) int {
	for i, x := range ts.dates {
		if x.Equal(d) {
			return i
		}
	}
	return -1
}

func (s *serial) build(b *builder) error {
	cfg := b.cfg
	for i := range max(len(b.data), len(cfg.Type)) {
		if t := cfg.Type.At(i, TypeBars); t != TypeBars && t != TypeLine {
			return errors.New(errors.ErrCodeInvalidInput, "supported types are bars and line, got %q", t)
		}
	}
	if cfg.Interval != "" && !dataset.ValidInterval(cfg.Interval) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown interval %q", cfg.Interval)
	}
	placement, err := b.placement()
	if err != nil {
		return err
	}
	rule, err := b.rule()
	if err != nil {
		return err
	}
	if err := b.data.CheckDuplicates(cfg.Labels); err != nil {
		return err
	}
	parsed, err := b.data.ParseDates()
	if err != nil {
		return err
	}
	if err := b.data.CheckDuplicateDates(parsed, cfg.Labels); err != nil {
		return err
	}
	b.position = func(key string) (float64, bool) {
		d, err := dataset.ParseDate(key)
		if err != nil {
			return 0, false
		}
		return ticks.DayNumber(d), true
	}
	b.labels()

	xs := b.data.XPoints()
	if len(xs) == 0 {
		b.emptyAxes()
		return nil
	}
	interval := cfg.Interval
	if interval == "" {
		interval = dataset.GuessInterval(b.data)
	}

	series := make([]timeSeries, len(b.data))
	nBars := 0
	for i, raw := range b.data {
		pts := make(dataset.Series, len(raw))
		copy(pts, raw)
		sort.SliceStable(pts, func(a, c int) bool { return parsed[pts[a].Key].Before(parsed[pts[c].Key]) })
		ts := timeSeries{kind: cfg.Type.At(i, TypeBars), label: b.seriesLabel(i)}
		for _, p := range pts {
			ts.dates = append(ts.dates, parsed[p.Key])
			ts.keys = append(ts.keys, p.Key)
			ts.values = append(ts.values, p.Value)
		}
		if ts.kind == TypeBars {
			nBars++
		}
		series[i] = ts
	}

	var dates []time.Time
	for _, x := range xs {
		dates = append(dates, parsed[x])
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	first, last := dates[0], dates[len(dates)-1]

	var hlDate time.Time
	hasHL := false
	if h := cfg.Highlight.First(); h != "" {
		d, err := dataset.ParseDate(h)
		if err != nil {
			return err
		}
		hlDate, hasHL = d, true
	} else if s.seasonal {
		hlDate, hasHL = last, true
	}
	emphasized := func(d time.Time) bool {
		if !hasHL {
			return false
		}
		if s.seasonal {
			return samePeriod(interval, d, hlDate)
		}
		return d.Equal(hlDate)
	}

	// Bars are centered on their date.
	spanDays := ticks.DayNumber(last) - ticks.DayNumber(first) + float64(dataset.DaysIn(interval, last))
	widthShare := barWidth
	if gap := float64(dataset.DaysIn(interval, time.Time{})) * (1 - barWidth) * b.plotWidth() / spanDays; gap < 1 {
		widthShare = 1
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	include := func(v float64) {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	strong, neutral := b.color(colors.RoleStrong), b.color(colors.RoleNeutral)

	// Stacking is keyed by position so that keys spelling the same date stack.
	posBase := map[float64]float64{}
	negBase := map[float64]float64{}
	type hlValue struct {
		series int
		x, y   float64
		kind   string
	}
	var hlValues []hlValue

	barIndex := 0
	for i, ts := range series {
		if ts.kind != TypeBars {
			continue
		}
		base, hasBase := b.explicitColor(i)
		for j, v := range ts.values {
			if v == nil {
				continue
			}
			d := ts.dates[j]
			x := ticks.DayNumber(d)
			val := *v
			var clr color.Color
			switch {
			case hasBase:
				clr = base
			case rule != nil:
				clr = b.color(rule(v))
			case hasHL:
				clr = neutral
				if emphasized(d) {
					clr = strong
				}
			case nBars == 1:
				clr = strong
			default:
				clr = b.qualitative(barIndex)
			}
			key := ts.keys[j]
			bottom := posBase[x]
			if val < 0 {
				bottom = negBase[x]
				negBase[x] += val
			} else {
				posBase[x] += val
			}
			b.fig.Add(render.Bar{
				Pos:    x,
				Width:  float64(dataset.DaysIn(interval, d)) * widthShare,
				Base:   bottom,
				Value:  val,
				Color:  clr,
				Z:      render.ZData,
				Series: i,
				Key:    key,
			})
			include(bottom + val)
			include(bottom)
			if hasHL && d.Equal(hlDate) {
				hlValues = append(hlValues, hlValue{i, x, bottom + val, TypeBars})
			}
		}
		legendColor := color.Color(strong)
		switch {
		case hasBase:
			legendColor = base
		case nBars > 1 && rule == nil && !hasHL:
			legendColor = b.qualitative(barIndex)
		}
		if placement == PlacementLegend {
			b.legend(ts.label, legendColor, render.ShapeSquare)
		}
		barIndex++
	}

	nLines := len(series) - nBars
	lineIndex := 0
	lineWidth := b.style.Float("lines.linewidth", 2)
	for i, ts := range series {
		if ts.kind != TypeLine {
			continue
		}
		clr, ok := b.explicitColor(i)
		if !ok {
			switch {
			case hasHL:
				clr = neutral
				if lineIndex == 0 {
					clr = strong
				}
			case nLines == 1:
				clr = strong
			default:
				clr = b.qualitative(lineIndex)
			}
		}
		z := render.ZData
		if lineIndex == 0 {
			z = render.ZFront
		}
		line := render.Line{Color: clr, Width: lineWidth, Z: z, Series: i, Label: ts.label}
		for j, v := range ts.values {
			x := ticks.DayNumber(ts.dates[j])
			if v == nil {
				line.Points = append(line.Points, render.Point{X: x, Missing: true})
				continue
			}
			include(*v)
			line.Points = append(line.Points, render.Point{X: x, Y: *v})
			if orphan(ts.values, j) {
				b.fig.Add(render.Marker{X: x, Y: *v, Color: clr, Radius: lineWidth, Shape: render.ShapeDot, Z: z, Series: i})
			}
			if emphasized(ts.dates[j]) {
				b.fig.Add(render.Marker{X: x, Y: *v, Color: clr, Radius: 3.5, Shape: render.ShapeCircle, Z: z, Series: i})
			}
			if hasHL && ts.dates[j].Equal(hlDate) {
				hlValues = append(hlValues, hlValue{i, x, *v, TypeLine})
			}
		}
		b.fig.Add(line)
		switch placement {
		case PlacementLegend:
			b.legend(ts.label, clr, render.ShapeLine)
		case PlacementInline:
			if j := lastValue(ts.values); j >= 0 && ts.label != "" {
				b.fig.Add(render.Text{
					X: ticks.DayNumber(ts.dates[j]), Y: *ts.values[j],
					Text: ts.label, Color: clr, Font: b.font(b.style.CustomFloat("annotation.fontsize", 9)),
					XAlign: render.AlignStart, YAlign: render.AlignCenter, DX: 4, Z: render.ZText,
				})
			}
		}
		lineIndex++
	}

	// Fill between exactly two line series.
	if len(series) == 2 && nLines == 2 {
		filled := b.data.Filled()
		from, to, ok := b.data.InnerRange()
		band := render.Band{Color: b.fillBetween(), Z: render.ZFill}
		for j, x := range xs {
			band.X = append(band.X, ticks.DayNumber(parsed[x]))
			band.Lower = append(band.Lower, filled[0][j])
			band.Upper = append(band.Upper, filled[1][j])
			band.Where = append(band.Where, ok && x >= from && x <= to)
		}
		b.fig.Add(band)
	}

	// Trendline on the first series.
	var trendX []float64
	var trendY []*float64
	for _, tp := range cfg.Trendline {
		d, err := dataset.ParseDate(tp.Key)
		if err != nil {
			return err
		}
		v := tp.Value
		if v == nil && len(series) > 0 {
			if j := series[0].index(d); j >= 0 {
				v = series[0].values[j]
			}
		}
		if v == nil {
			b.log.Warn("trendline point has no value", "key", tp.Key)
			continue
		}
		include(*v)
		trendX = append(trendX, ticks.DayNumber(d))
		trendY = append(trendY, v)
	}

	if cfg.YLine != nil {
		include(*cfg.YLine)
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 0
	}
	ymin, ymax, broken := s.valueBounds(b, lo, hi, nBars > 0)
	ymin, ymax, err = b.valueRange(ymin, ymax)
	if err != nil {
		return err
	}
	b.fig.Axes.BrokenY = broken && cfg.YMin == nil
	b.setValueAxis(ymin, ymax)
	b.zeroLine(lo)

	// Trendline is drawn after the value axis so annotations use its decimals.
	if len(trendX) > 0 {
		shape := render.ShapeCircle
		if cfg.Trendline[0].Value != nil {
			shape = render.ShapeDash
		}
		tl := render.Line{Color: strong, Width: lineWidth, Dashes: []float64{4, 3}, Z: render.ZOverlay}
		for k, x := range trendX {
			tl.Points = append(tl.Points, render.Point{X: x, Y: *trendY[k]})
			b.fig.Add(render.Marker{X: x, Y: *trendY[k], Color: strong, Radius: 3.5, Shape: shape, Z: render.ZOverlay})
		}
		b.fig.Add(tl)
		if boolOr(cfg.AnnotateTrend, true) {
			for k, x := range trendX {
				b.annotate(x, *trendY[k], b.format(*trendY[k]), annotationDirection(k, trendY), strong)
			}
		}
	}

	// Highlight annotations and the difference between highlighted lines.
	if hasHL && boolOr(cfg.HighlightAnnotation, true) {
		var lineVals []float64
		for _, hv := range hlValues {
			if hv.kind == TypeLine {
				lineVals = append(lineVals, hv.y)
			}
		}
		for _, hv := range hlValues {
			var dir string
			switch {
			case hv.kind == TypeBars && hv.y >= 0:
				dir = render.Up
			case hv.kind == TypeBars:
				dir = render.Down
			case len(lineVals) > 1:
				dir = render.Left
				if hv.y == maxOf(lineVals) {
					dir = render.Up
				} else if hv.y == minOf(lineVals) {
					dir = render.Down
				}
			default:
				ts := series[hv.series]
				dir = annotationDirection(ts.index(hlDate), ts.values)
			}
			b.annotate(hv.x, hv.y, b.format(hv.y), dir, nil)
		}
		if len(lineVals) > 1 {
			y0, y1 := minOf(lineVals), maxOf(lineVals)
			if b.format(y0) != b.format(y1) {
				x := ticks.DayNumber(hlDate)
				b.fig.Add(render.VLine{X: x, Y0: y0, Y1: y1, Color: neutral, Width: 1, Dashes: []float64{3, 2}, Z: render.ZFront})
				b.annotate(x, (y0+y1)/2, b.format(math.Abs(y1-y0)), render.Right, nil)
			}
		}
	}

	// Category (date) axis.
	xa := &b.fig.Axes.X
	half := 0.0
	if nBars > 0 {
		half = float64(dataset.DaysIn(interval, first)) / 2
	}
	xa.Min = ticks.DayNumber(first) - half
	xa.Max = ticks.DayNumber(last) + half
	if xa.Max-xa.Min < 1 {
		xa.Min -= float64(dataset.DaysIn(interval, first)) / 2
		xa.Max += float64(dataset.DaysIn(interval, first)) / 2
	}
	xa.Ticks, err = s.dateTicks(b, interval, dates, xs)
	return err
}

// valueBounds computes the value axis range from the data range. Line
// charts whose minimum is far above zero get a broken axis.
func (s *serial) valueBounds(b *builder, lo, hi float64, bars bool) (float64, float64, bool) {
	var ymin, ymax float64
	broken := false
	switch {
	case lo < 0:
		ymin = lo - math.Abs(lo)*0.15
	case !bars && boolOr(b.cfg.AllowBrokenYAxis, true) && hi > 0 && lo/hi > 1.0/3:
		span := hi - lo
		if span == 0 {
			span = math.Abs(hi)
		}
		step := ticks.NiceStep(span*1.3, 5)
		ymin = math.Max(math.Floor((lo-0.15*span)/step)*step, 0)
		broken = ymin > 0
		if broken {
			return ymin, hi + 0.15*span, true
		}
	default:
		ymin = 0
	}
	switch {
	case hi > 0:
		ymax = hi * 1.15
	case lo == 0 && hi == 0:
		ymax = 1
	default:
		ymax = 0
	}
	return ymin, ymax, broken
}

// dateTicks places and labels the date axis ticks.
func (s *serial) dateTicks(b *builder, interval string, dates []time.Time, xs []string) ([]ticks.Tick, error) {
	if len(b.cfg.Ticks) > 0 {
		out := make([]ticks.Tick, 0, len(b.cfg.Ticks))
		for _, t := range b.cfg.Ticks {
			d, err := dataset.ParseDate(t.X)
			if err != nil {
				return nil, err
			}
			out = append(out, ticks.Tick{Value: ticks.DayNumber(d), Label: t.Label})
		}
		return out, nil
	}

	first, last := dates[0], dates[len(dates)-1]
	span := last.Sub(first)
	if span.Hours()/24 > 500 {
		var out []ticks.Tick
		for _, d := range ticks.YearTicks(first, last, ticks.DefaultMaxYearTicks) {
			out = append(out, ticks.Tick{Value: ticks.DayNumber(d), Label: b.num.Date(d, format.LayoutYear)})
		}
		return out, nil
	}

	maxTicks := max(2, int(b.plotWidth()/50))
	loc := ticks.BestLocator(span, len(dates))
	candidates := loc.Dates(first, last, maxTicks)
	if len(candidates) == 0 {
		candidates = dates
	}
	inData := make(map[time.Time]bool, len(dates))
	for _, d := range dates {
		inData[d] = true
	}

	var out []ticks.Tick
	for i, d := range candidates {
		var label string
		switch interval {
		case dataset.Weekly:
			label = b.num.Date(d, format.LayoutDayMonth)
		case dataset.Monthly, dataset.Quarterly:
			if !inData[d] {
				continue
			}
			if len(xs) > 12 && d.Month() == time.January {
				label = b.num.Date(d, format.LayoutMonthYear)
			} else {
				label = b.num.Date(d, format.LayoutShortMonth)
			}
		case dataset.Daily:
			switch {
			case len(xs) > 7:
				label = b.num.Date(d, format.LayoutDayMonth)
			case i == 0:
				label = b.num.Date(d, format.LayoutWeekdayDM)
			default:
				label = b.num.Date(d, format.LayoutWeekday)
			}
		default:
			label = b.num.Date(d, format.LayoutYear)
		}
		out = append(out, ticks.Tick{Value: ticks.DayNumber(d), Label: label})
	}
	return out, nil
}

// samePeriod reports whether a and b fall in the same period of their
// respective years.
func samePeriod(interval string, a, b time.Time) bool {
	switch interval {
	case dataset.Yearly:
		return a.Equal(b)
	case dataset.Quarterly:
		return (a.Month()-1)/3 == (b.Month()-1)/3
	case dataset.Monthly:
		return a.Month() == b.Month()
	case dataset.Weekly:
		_, wa := a.ISOWeek()
		_, wb := b.ISOWeek()
		return wa == wb
	default:
		return a.YearDay() == b.YearDay()
	}
}

// annotationDirection guesses the best direction for labelling point i of
// a line: above local maxima, below local minima.
func annotationDirection(i int, values []*float64) string {
	n := len(values)
	if n < 2 || i < 0 || i >= n || values[i] == nil {
		return render.Up
	}
	v := *values[i]
	switch i {
	case 0:
		if values[1] != nil && v < *values[1] {
			return render.Down
		}
		return render.Up
	case n - 1:
		for k := i - 1; k >= 0; k-- {
			if values[k] != nil {
				if *values[k] <= v {
					return render.Up
				}
				return render.Down
			}
		}
		return render.Up
	}
	lo, hi := v, v
	for _, w := range values[i-1 : i+2] {
		if w != nil {
			lo, hi = math.Min(lo, *w), math.Max(hi, *w)
		}
	}
	switch v {
	case hi:
		return render.Up
	case lo:
		return render.Down
	}
	return render.Up
}

// orphan reports whether point i has a value but no neighbour with one, so
// that a line through it would be invisible.
func orphan(values []*float64, i int) bool {
	if values[i] == nil {
		return false
	}
	prev := i > 0 && values[i-1] != nil
	next := i < len(values)-1 && values[i+1] != nil
	return !prev && !next
}

func lastValue(values []*float64) int {
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] != nil {
			return i
		}
	}
	return -1
}

func minOf(vs []float64) float64 {
	m := math.Inf(1)
	for _, v := range vs {
		m = math.Min(m, v)
	}
	return m
}

func maxOf(vs []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vs {
		m = math.Max(m, v)
	}
	return m
}
