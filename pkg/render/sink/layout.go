package sink

import (
	"fmt"
	"image/color"

	"github.com/jplusplus/nwcharts/pkg/render"
	xfnt "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Layout constants, in points.
const (
	pad       = 10
	blockGap  = 4
	areaGap   = 8
	swatch    = 8
	legendGap = 12
)

// drawFigure lays out the header, footer and legend, then draws the axes
// and items into the remaining area. gonum panics on some font and
// geometry errors; those are returned as errors.
func drawFigure(c draw.Canvas, fig *render.Figure, paintBackground bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("draw figure: %v", r)
		}
	}()

	w := c.Max.X - c.Min.X
	if paintBackground {
		c.FillPolygon(background(fig), []vg.Point{
			c.Min, {X: c.Max.X, Y: c.Min.Y}, c.Max, {X: c.Min.X, Y: c.Max.Y},
		})
	}

	// Header, top down.
	y := c.Max.Y - pad
	for _, b := range fig.Header {
		if b.Text == "" {
			continue
		}
		sty := textStyle(b.Font, b.Color)
		txt := wrap(sty, b.Text, w-2*pad)
		c.FillText(sty, vg.Point{X: c.Min.X + pad, Y: y}, txt)
		y -= sty.Height(txt) + blockGap
	}
	top := c.Max.Y - y

	if len(fig.Legend.Entries) > 0 {
		top += drawLegend(c, fig.Legend, vg.Point{X: c.Min.X + pad, Y: y}, w-2*pad) + blockGap
	}

	bottom := drawFooter(c, fig, w)

	area := draw.Crop(c, pad, -pad, bottom+areaGap, -(top + areaGap))
	if area.Max.Y-area.Min.Y < 2*pad || area.Max.X-area.Min.X < 2*pad {
		return fmt.Errorf("figure %.0fx%.0f px leaves no room for the plot", fig.Width, fig.Height)
	}
	p := newPlot(fig)
	p.Draw(area)
	return nil
}

// drawFooter draws the logo and footer texts and returns the height used
// from the bottom edge.
func drawFooter(c draw.Canvas, fig *render.Figure, w vg.Length) vg.Length {
	textLeft := c.Min.X + pad
	textWidth := w - 2*pad

	var logoH vg.Length
	if fig.Logo != nil && fig.LogoWidth > 0 {
		b := fig.Logo.Bounds()
		lw := vg.Length(fig.LogoWidth * pxToPt)
		logoH = lw * vg.Length(b.Dy()) / vg.Length(b.Dx())
		x := c.Max.X - pad - lw
		if fig.LogoLeft {
			x = c.Min.X + pad
			textLeft += lw + pad
		}
		textWidth -= lw + pad
		c.DrawImage(vg.Rectangle{
			Min: vg.Point{X: x, Y: c.Min.Y + pad},
			Max: vg.Point{X: x + lw, Y: c.Min.Y + pad + logoH},
		}, fig.Logo)
	}

	type block struct {
		sty text.Style
		txt string
	}
	var blocks []block
	var total vg.Length
	for _, b := range fig.Footer {
		if b.Text == "" {
			continue
		}
		sty := textStyle(b.Font, b.Color)
		txt := wrap(sty, b.Text, textWidth)
		blocks = append(blocks, block{sty, txt})
		total += sty.Height(txt) + blockGap
	}

	y := c.Min.Y + pad + total
	for _, b := range blocks {
		c.FillText(b.sty, vg.Point{X: textLeft, Y: y}, b.txt)
		y -= b.sty.Height(b.txt) + blockGap
	}
	if logoH > total {
		total = logoH
	}
	if total == 0 {
		return 0
	}
	return total + pad
}

// drawLegend draws entries left to right, wrapping rows at width, and
// returns the height used.
func drawLegend(c draw.Canvas, lg render.Legend, at vg.Point, width vg.Length) vg.Length {
	sty := textStyle(lg.Font, lg.Color)
	sty.YAlign = text.YCenter
	rowH := sty.Height("Xg")
	if rowH < swatch {
		rowH = swatch
	}
	x, y := at.X, at.Y-rowH/2
	rows := vg.Length(1)

	if lg.Title != "" {
		title := sty
		title.Font.Weight = xfnt.WeightBold
		c.FillText(title, vg.Point{X: x, Y: y}, lg.Title)
		x += title.Width(lg.Title) + legendGap
	}
	for _, e := range lg.Entries {
		ew := swatch + blockGap + sty.Width(e.Label) + legendGap
		if x+ew > at.X+width && x > at.X {
			x = at.X
			y -= rowH + blockGap
			rows++
		}
		drawSwatch(c, e, vg.Point{X: x, Y: y})
		c.FillText(sty, vg.Point{X: x + swatch + blockGap, Y: y}, e.Label)
		x += ew
	}
	return rows*rowH + (rows-1)*blockGap
}

func drawSwatch(c draw.Canvas, e render.LegendEntry, mid vg.Point) {
	clr := e.Color
	if clr == nil {
		clr = color.Black
	}
	switch e.Shape {
	case render.ShapeLine:
		c.StrokeLine2(draw.LineStyle{Color: clr, Width: vg.Points(2)},
			mid.X, mid.Y, mid.X+swatch, mid.Y)
	case render.ShapeDot, render.ShapeCircle:
		c.DrawGlyph(draw.GlyphStyle{Color: clr, Radius: swatch / 2, Shape: draw.CircleGlyph{}},
			vg.Point{X: mid.X + swatch/2, Y: mid.Y})
	default:
		c.FillPolygon(clr, []vg.Point{
			{X: mid.X, Y: mid.Y - swatch/2}, {X: mid.X + swatch, Y: mid.Y - swatch/2},
			{X: mid.X + swatch, Y: mid.Y + swatch/2}, {X: mid.X, Y: mid.Y + swatch/2},
		})
	}
}

// newPlot configures a gonum plot from the figure axes. The figure items are
// drawn by a single plotter so their z order is global.
func newPlot(fig *render.Figure) *plot.Plot {
	ax := fig.Axes
	p := plot.New()
	p.BackgroundColor = color.Transparent

	p.X.Min, p.X.Max = ax.X.Min, ax.X.Max
	p.Y.Min, p.Y.Max = ax.Y.Min, ax.Y.Max
	if p.X.Max <= p.X.Min {
		p.X.Max = p.X.Min + 1
	}
	if p.Y.Max <= p.Y.Min {
		p.Y.Max = p.Y.Min + 1
	}

	if ax.Hidden {
		p.HideAxes()
	} else {
		configureAxis(&p.X, ax.X, true)
		configureAxis(&p.Y, ax.Y, false)
	}
	p.Add(&itemPlotter{fig: fig})
	return p
}

func configureAxis(a *plot.Axis, src render.Axis, horizontal bool) {
	a.Padding = 0
	ts := make([]plot.Tick, 0, len(src.Ticks))
	if !src.Hidden {
		for _, t := range src.Ticks {
			ts = append(ts, plot.Tick{Value: t.Value, Label: t.Label})
		}
	}
	a.Tick.Marker = plot.ConstantTicks(ts)

	tickColor := src.TickColor
	if tickColor == nil {
		tickColor = color.Black
	}
	a.Tick.Label.Color = tickColor
	a.Tick.Label.Font = toFont(src.TickFont)
	a.Tick.LineStyle.Color = tickColor

	// Value axes rely on grid lines instead of tick marks.
	if !horizontal {
		a.Tick.Length = 0
	} else {
		a.Tick.Length = vg.Points(3)
	}

	if src.Line && !src.Hidden {
		lc := src.LineColor
		if lc == nil {
			lc = tickColor
		}
		a.LineStyle.Color = lc
		a.LineStyle.Width = vg.Points(0.8)
	} else {
		a.LineStyle.Width = 0
	}

	if src.Label != "" {
		a.Label.Text = src.Label
		lc := src.LabelColor
		if lc == nil {
			lc = tickColor
		}
		a.Label.TextStyle.Color = lc
		a.Label.TextStyle.Font = toFont(src.LabelFont)
	}
}
