package chart

import (
	"context"
	"image/color"
	"math"

	"github.com/charmbracelet/log"

	"github.com/jplusplus/nwcharts/pkg/colors"
	"github.com/jplusplus/nwcharts/pkg/dataset"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/format"
	"github.com/jplusplus/nwcharts/pkg/render"
	"github.com/jplusplus/nwcharts/pkg/render/sink"
	"github.com/jplusplus/nwcharts/pkg/style"
	"github.com/jplusplus/nwcharts/pkg/ticks"
)

// annotationOffset is the distance between a point and its label, in points
// (12 px).
const annotationOffset = 9

// builder carries everything one render needs. It is discarded afterwards.
type builder struct {
	ctx   context.Context
	c     *Chart
	cfg   *Config
	data  dataset.List
	style *style.Style
	num   *format.Formatter
	units string
	log   *log.Logger
	ro    RenderOptions

	width, height float64
	decimals      *int
	fig           *render.Figure

	// horizontal is set by chart types whose value axis is x.
	horizontal bool
	// position maps the x of a caller annotation to a category axis
	// coordinate. nil means annotations are not supported.
	position func(key string) (float64, bool)
	// colorErr is the first invalid color produced by a color_fn rule.
	colorErr error
}

func (c *Chart) newBuilder(ctx context.Context, ro RenderOptions) (*builder, error) {
	if c.opts.Width <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "width must be positive, got %v", c.opts.Width)
	}
	var (
		sty *style.Style
		err error
	)
	if c.opts.StyleResolver != nil {
		sty, err = c.opts.StyleResolver.Resolve(c.opts.Style)
	} else {
		sty, err = style.Resolve(c.opts.Style)
	}
	if err != nil {
		return nil, err
	}

	units, deprecated, err := format.NormalizeUnits(c.Units)
	if err != nil {
		return nil, err
	}
	if deprecated {
		c.log.Warn("units \"count\" is deprecated, use \"number\"")
	}
	num, err := format.New(c.opts.Language)
	if err != nil {
		return nil, err
	}

	for i, clr := range c.Colors {
		if clr == "" {
			continue
		}
		if _, err := colors.Parse(sty.RoleColor(clr)); err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "colors[%d]: invalid color %q", i, clr)
		}
	}

	w, h := c.Size()
	if h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "height must be positive, got %v", h)
	}
	b := &builder{
		ctx:      ctx,
		c:        c,
		cfg:      &c.Config,
		data:     c.Data,
		style:    sty,
		num:      num,
		units:    units,
		log:      c.log,
		ro:       ro,
		width:    w,
		height:   h,
		decimals: c.Decimals,
		fig: &render.Figure{
			Width:      w,
			Height:     h,
			Background: sty.Background(),
			Metadata:   map[string]string{},
		},
	}
	if ro.Transparent {
		b.fig.Background = color.Transparent
	}
	return b, nil
}

// figure runs the chart type's layout and adds the shared furniture.
func (b *builder) figure() (*render.Figure, error) {
	b.setupAxes()
	if err := b.c.eng.build(b); err != nil {
		return nil, err
	}
	if b.colorErr != nil {
		return nil, b.colorErr
	}
	if err := b.userAnnotations(); err != nil {
		return nil, err
	}
	if !boolOr(b.cfg.ShowTicks, true) {
		b.categoryAxis().Hidden = true
	}
	b.fig.Legend.Title = b.cfg.LegendTitle
	b.header()
	if err := b.logo(); err != nil {
		return nil, err
	}
	b.footer()
	if b.cfg.Title != "" {
		b.fig.Metadata["Title"] = b.cfg.Title
	}
	return b.fig, nil
}

// =============================================================================
// Text and fonts
// =============================================================================

func (b *builder) font(size float64) render.Font {
	return render.Font{Family: b.style.String("font.family", "sans-serif"), Size: size}
}

func (b *builder) textColor() color.Color {
	return b.style.Color("text.color", "#333333")
}

func (b *builder) header() {
	title := render.Font{
		Family: b.style.String(style.CustomPrefix+"title_font", b.style.String("font.family", "sans-serif")),
		Size:   b.style.CustomFloat("title.fontsize", 15),
		Bold:   b.style.Custom("title.weight") == "bold",
	}
	b.fig.Header = append(b.fig.Header,
		render.TextBlock{Role: render.RoleTitle, Text: b.cfg.Title, Font: title, Color: b.textColor()},
		render.TextBlock{Role: render.RoleSubtitle, Text: b.cfg.Subtitle,
			Font: b.font(b.style.CustomFloat("subtitle.fontsize", 11)), Color: b.textColor()},
	)
}

func (b *builder) footer() {
	b.fig.Footer = append(b.fig.Footer,
		render.TextBlock{Role: render.RoleNote, Text: b.cfg.Note,
			Font: b.font(b.style.CustomFloat("note.fontsize", 9)), Color: b.textColor()},
		render.TextBlock{Role: render.RoleCaption, Text: b.cfg.Caption,
			Font: b.font(b.style.CustomFloat("caption.fontsize", 8)), Color: b.color(colors.RoleNeutral)},
	)
}

// logo loads the style's logo, or the chart's when the style has none.
func (b *builder) logo() error {
	path := b.style.Custom("logo")
	if path == "" {
		path = b.cfg.Logo
	}
	if path == "" {
		return nil
	}
	img, w, err := sink.LoadLogo(path, b.width, b.ro.factor(), b.ro.Transparent, b.style.Background())
	if err != nil {
		return err
	}
	b.fig.Logo = img
	b.fig.LogoWidth = w
	b.fig.LogoLeft = b.num.IsRTL()
	return nil
}

// =============================================================================
// Colors
// =============================================================================

// color resolves a role name or a literal color through the style. Caller
// colors are checked in newBuilder and style colors when the style is parsed.
func (b *builder) color(name string) color.NRGBA {
	return colors.MustParse(b.style.RoleColor(name))
}

// explicitColor returns the caller's color for series (or category) i.
func (b *builder) explicitColor(i int) (color.NRGBA, bool) {
	if i < len(b.cfg.Colors) && b.cfg.Colors[i] != "" {
		return b.color(b.cfg.Colors[i]), true
	}
	return color.NRGBA{}, false
}

// rule returns the color_fn rule, or nil when none is set.
func (b *builder) rule() (colors.Rule, error) {
	baseline := 0.0
	if b.cfg.Baseline != nil {
		baseline = *b.cfg.Baseline
	}
	r, err := b.cfg.ColorFn.rule(baseline)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "color_fn")
	}
	if r == nil {
		return nil, nil
	}
	// Rule output is only known per value; the first bad color fails the build.
	return func(v *float64) string {
		clr := r(v)
		if _, err := colors.Parse(b.style.RoleColor(clr)); err != nil && b.colorErr == nil {
			b.colorErr = errors.New(errors.ErrCodeInvalidInput, "color_fn: invalid color %q", clr)
		}
		return clr
	}, nil
}

func (b *builder) qualitative(i int) color.NRGBA {
	return b.color(b.style.Qualitative().At(i))
}

func (b *builder) fillBetween() color.NRGBA {
	c := colors.MustParse(b.style.Custom("fill_between_color"))
	return colors.WithAlpha(c, b.style.CustomFloat("fill_between_alpha", 1))
}

func (b *builder) missingColor() color.NRGBA {
	return colors.MustParse(b.style.String(style.CustomPrefix+"missing_color", colors.Missing))
}

// =============================================================================
// Axes
// =============================================================================

func (b *builder) setupAxes() {
	ax := &b.fig.Axes
	family := b.style.String("font.family", "sans-serif")
	for _, a := range []*render.Axis{&ax.X, &ax.Y} {
		a.LineColor = b.style.Color("axes.edgecolor", "#999999")
		a.LabelColor = b.style.Color("axes.labelcolor", "#555555")
		a.LabelFont = render.Font{Family: family, Size: b.style.Float("axes.labelsize", 10)}
	}
	ax.X.TickColor = b.style.Color("xtick.color", "#666666")
	ax.X.TickFont = render.Font{Family: family, Size: b.style.Float("xtick.labelsize", 9)}
	ax.Y.TickColor = b.style.Color("ytick.color", "#666666")
	ax.Y.TickFont = render.Font{Family: family, Size: b.style.Float("ytick.labelsize", 9)}
	ax.Grid = render.Grid{
		Color: b.style.Color("grid.color", "#e6e6e6"),
		Width: b.style.Float("grid.linewidth", 0.8),
	}
	b.fig.Legend.Font = b.font(b.style.Float("legend.fontsize", 9))
	b.fig.Legend.Color = b.textColor()
}

func (b *builder) valueAxis() *render.Axis {
	if b.horizontal {
		return &b.fig.Axes.X
	}
	return &b.fig.Axes.Y
}

func (b *builder) categoryAxis() *render.Axis {
	if b.horizontal {
		return &b.fig.Axes.Y
	}
	return &b.fig.Axes.X
}

// labels applies xlabel and ylabel. ylabel names the value axis.
func (b *builder) labels() {
	b.valueAxis().Label = b.cfg.YLabel
	b.categoryAxis().Label = b.cfg.XLabel
}

// plotWidth estimates the width of the plotting area in pixels.
func (b *builder) plotWidth() float64 {
	return math.Max(b.width-70, 50)
}

// plotHeight estimates the height of the plotting area in pixels.
func (b *builder) plotHeight() float64 {
	return math.Max(b.height-120, 50)
}

// labeler formats values in the chart's units.
func (b *builder) labeler(v float64, decimals *int) string {
	return b.num.WithDecimals(decimals, b.cfg.ForceDecimals).Units(b.units)(v)
}

// format formats a value for annotations and value labels, with the
// decimals settled by the value axis.
func (b *builder) format(v float64) string {
	return b.labeler(v, b.decimals)
}

// valueRange applies explicit ymin and ymax and validates the result.
func (b *builder) valueRange(lo, hi float64) (float64, float64, error) {
	if b.cfg.YMin != nil {
		lo = *b.cfg.YMin
	}
	if b.cfg.YMax != nil {
		hi = *b.cfg.YMax
	}
	if lo >= hi {
		if b.cfg.YMin != nil || b.cfg.YMax != nil {
			return 0, 0, errors.New(errors.ErrCodeInvalidInput, "ymin (%v) must be below ymax (%v)", lo, hi)
		}
		hi = lo + 1
	}
	return lo, hi, nil
}

// setValueAxis sets the value axis range and labelled ticks. When decimals
// are automatic, the decimals needed to tell tick labels apart are kept for
// annotations too.
func (b *builder) setValueAxis(lo, hi float64) {
	a := b.valueAxis()
	a.Min, a.Max = lo, hi
	n := int(b.plotHeight() / 50)
	if b.horizontal {
		n = int(b.plotWidth() / 80)
	}
	n = max(3, min(n, 8))
	a.Ticks, b.decimals = ticks.Label(ticks.Nice(lo, hi, n), b.labeler, b.decimals)
	if b.horizontal {
		b.fig.Axes.Grid.Vertical = true
	} else {
		b.fig.Axes.Grid.Horizontal = true
	}
}

// zeroLine accents value 0 when the data goes below zero, and draws the
// caller's yline dashed.
func (b *builder) zeroLine(min float64) {
	if min < 0 {
		b.valueLine(0, nil)
	}
	if b.cfg.YLine != nil {
		b.valueLine(*b.cfg.YLine, []float64{3, 2})
	}
}

func (b *builder) valueLine(v float64, dashes []float64) {
	edge := b.style.Color("axes.edgecolor", "#999999")
	if b.horizontal {
		ca := b.categoryAxis()
		b.fig.Add(render.VLine{X: v, Y0: ca.Min, Y1: ca.Max, Color: edge, Width: 1, Dashes: dashes, Z: render.ZFront})
		return
	}
	b.fig.Add(render.HLine{Y: v, Color: edge, Width: 1, Dashes: dashes, Z: render.ZFront})
}

// emptyAxes gives a chart without data a valid, blank plotting area.
func (b *builder) emptyAxes() {
	ax := &b.fig.Axes
	ax.X.Min, ax.X.Max = 0, 1
	ax.Y.Min, ax.Y.Max = 0, 1
	ax.X.Ticks, ax.Y.Ticks = nil, nil
}

// =============================================================================
// Annotations and legend
// =============================================================================

// annotate labels the data point (x, y). A nil clr uses the text color.
func (b *builder) annotate(x, y float64, text, dir string, clr color.Color) {
	if dir == "" {
		dir = render.Up
	}
	if clr == nil {
		clr = b.textColor()
	}
	b.fig.Add(render.Annotation{
		X: x, Y: y,
		Text:      text,
		Direction: dir,
		Offset:    annotationOffset,
		Color:     clr,
		Font:      b.font(b.style.CustomFloat("annotation.fontsize", 9)),
		Halo:      b.style.Background(),
		Z:         render.ZText,
	})
}

func validDirection(d string) bool {
	switch d {
	case render.Up, render.Down, render.Left, render.Right:
		return true
	}
	return false
}

func (b *builder) userAnnotations() error {
	for _, a := range b.cfg.Annotations {
		dir := a.Direction
		if dir == "" {
			dir = render.Up
		}
		if !validDirection(dir) {
			return errors.New(errors.ErrCodeInvalidInput, "%q is an unknown direction for an annotation", a.Direction)
		}
		if b.position == nil {
			b.log.Warn("annotations are not supported by this chart type", "text", a.Text)
			continue
		}
		pos, ok := b.position(a.X)
		if !ok {
			b.log.Warn("annotation outside the data", "x", a.X, "text", a.Text)
			continue
		}
		if b.horizontal {
			b.annotate(a.Y, pos, a.Text, dir, nil)
		} else {
			b.annotate(pos, a.Y, a.Text, dir, nil)
		}
	}
	return nil
}

// legend adds a legend entry.
func (b *builder) legend(label string, clr color.Color, shape string) {
	if label == "" {
		return
	}
	b.fig.Legend.Entries = append(b.fig.Legend.Entries, render.LegendEntry{Label: label, Color: clr, Shape: shape})
}

// seriesLabel returns the caller's label of series i.
func (b *builder) seriesLabel(i int) string {
	if i < len(b.cfg.Labels) {
		return b.cfg.Labels[i]
	}
	return ""
}

// placement returns the label placement, legend by default.
func (b *builder) placement() (string, error) {
	switch p := b.cfg.LabelPlacement; p {
	case "":
		return PlacementLegend, nil
	case PlacementLegend, PlacementInline, PlacementNone:
		return p, nil
	case "line":
		return PlacementInline, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "label_placement must be legend, inline or none, got %q", p)
	}
}
