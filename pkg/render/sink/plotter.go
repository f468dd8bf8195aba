package sink

import (
	"image/color"

	"github.com/jplusplus/nwcharts/pkg/render"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// itemPlotter draws the grid and every figure item in z order.
type itemPlotter struct {
	fig *render.Figure
}

type transform func(float64) vg.Length

// Plot implements plot.Plotter.
func (ip *itemPlotter) Plot(c draw.Canvas, p *plot.Plot) {
	ax := ip.fig.Axes
	tx, ty := p.Transforms(&c)
	if ax.EqualAspect {
		tx, ty = equalAspect(c, ax)
	}

	if !ax.Hidden {
		drawGrid(c, ax, tx, ty)
	}
	for _, it := range ax.Sorted() {
		switch v := it.(type) {
		case render.Bar:
			drawBar(c, v, tx, ty)
		case render.Band:
			drawBand(c, v, tx, ty)
		case render.Line:
			drawLine(c, v, tx, ty)
		case render.Marker:
			drawMarker(c, v, tx, ty)
		case render.Polygon:
			drawPolygon(c, v, tx, ty)
		case render.HLine:
			y := ty(v.Y)
			if y >= c.Min.Y && y <= c.Max.Y {
				c.StrokeLine2(lineStyle(v.Color, v.Width, v.Dashes), c.Min.X, y, c.Max.X, y)
			}
		case render.VLine:
			pts := c.ClipLinesXY([]vg.Point{{X: tx(v.X), Y: ty(v.Y0)}, {X: tx(v.X), Y: ty(v.Y1)}})
			c.StrokeLines(lineStyle(v.Color, v.Width, v.Dashes), pts...)
		case render.Annotation:
			drawAnnotation(c, v, tx, ty)
		case render.Text:
			drawText(c, v, tx, ty)
		}
	}
	if ax.BrokenY && !ax.Hidden {
		drawBreak(c, ax.Y.TickColor, background(ip.fig))
	}
}

// equalAspect fits the axis ranges into the canvas with one scale for both
// axes, centered.
func equalAspect(c draw.Canvas, ax render.Axes) (transform, transform) {
	dx := ax.X.Max - ax.X.Min
	dy := ax.Y.Max - ax.Y.Min
	if dx <= 0 {
		dx = 1
	}
	if dy <= 0 {
		dy = 1
	}
	w := float64(c.Max.X - c.Min.X)
	h := float64(c.Max.Y - c.Min.Y)
	s := w / dx
	if h/dy < s {
		s = h / dy
	}
	ox := float64(c.Min.X) + (w-dx*s)/2
	oy := float64(c.Min.Y) + (h-dy*s)/2
	return func(x float64) vg.Length { return vg.Length(ox + (x-ax.X.Min)*s) },
		func(y float64) vg.Length { return vg.Length(oy + (y-ax.Y.Min)*s) }
}

func lineStyle(clr color.Color, width float64, dashes []float64) draw.LineStyle {
	if clr == nil {
		clr = color.Black
	}
	if width <= 0 {
		width = 1
	}
	ls := draw.LineStyle{Color: clr, Width: vg.Points(width)}
	for _, d := range dashes {
		ls.Dashes = append(ls.Dashes, vg.Points(d))
	}
	return ls
}

func drawGrid(c draw.Canvas, ax render.Axes, tx, ty transform) {
	if ax.Grid.Color == nil {
		return
	}
	ls := lineStyle(ax.Grid.Color, ax.Grid.Width, nil)
	if ax.Grid.Horizontal {
		for _, t := range ax.Y.Ticks {
			y := ty(t.Value)
			if y >= c.Min.Y && y <= c.Max.Y {
				c.StrokeLine2(ls, c.Min.X, y, c.Max.X, y)
			}
		}
	}
	if ax.Grid.Vertical {
		for _, t := range ax.X.Ticks {
			x := tx(t.Value)
			if x >= c.Min.X && x <= c.Max.X {
				c.StrokeLine2(ls, x, c.Min.Y, x, c.Max.Y)
			}
		}
	}
}

func drawBar(c draw.Canvas, b render.Bar, tx, ty transform) {
	if b.Value == 0 || b.Color == nil {
		return
	}
	lo, hi := b.Pos-b.Width/2, b.Pos+b.Width/2
	v0, v1 := b.Base, b.Base+b.Value
	var pts []vg.Point
	if b.Horizontal {
		pts = rect(tx(v0), ty(lo), tx(v1), ty(hi))
	} else {
		pts = rect(tx(lo), ty(v0), tx(hi), ty(v1))
	}
	if clipped := c.ClipPolygonXY(pts); len(clipped) > 2 {
		c.FillPolygon(b.Color, clipped)
	}
}

func rect(x0, y0, x1, y1 vg.Length) []vg.Point {
	return []vg.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func drawBand(c draw.Canvas, b render.Band, tx, ty transform) {
	n := len(b.X)
	if len(b.Lower) < n || len(b.Upper) < n || len(b.Where) < n || b.Color == nil {
		return
	}
	for i := 0; i+1 < n; i++ {
		if !b.Where[i] || !b.Where[i+1] {
			continue
		}
		if b.Lower[i] == nil || b.Lower[i+1] == nil || b.Upper[i] == nil || b.Upper[i+1] == nil {
			continue
		}
		pts := []vg.Point{
			{X: tx(b.X[i]), Y: ty(*b.Lower[i])},
			{X: tx(b.X[i+1]), Y: ty(*b.Lower[i+1])},
			{X: tx(b.X[i+1]), Y: ty(*b.Upper[i+1])},
			{X: tx(b.X[i]), Y: ty(*b.Upper[i])},
		}
		if clipped := c.ClipPolygonXY(pts); len(clipped) > 2 {
			c.FillPolygon(b.Color, clipped)
		}
	}
}

// runs splits points into runs of consecutive non-missing points.
func runs(points []render.Point, tx, ty transform) [][]vg.Point {
	var out [][]vg.Point
	var cur []vg.Point
	for _, pt := range points {
		if pt.Missing {
			if len(cur) > 0 {
				out = append(out, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, vg.Point{X: tx(pt.X), Y: ty(pt.Y)})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func drawLine(c draw.Canvas, l render.Line, tx, ty transform) {
	var segs [][]vg.Point
	for _, r := range runs(l.Points, tx, ty) {
		if len(r) > 1 {
			segs = append(segs, r)
		}
	}
	if len(segs) == 0 {
		return
	}
	c.StrokeLines(lineStyle(l.Color, l.Width, l.Dashes), c.ClipLinesXY(segs...)...)
}

func drawMarker(c draw.Canvas, m render.Marker, tx, ty transform) {
	pt := vg.Point{X: tx(m.X), Y: ty(m.Y)}
	if !c.Contains(pt) {
		return
	}
	r := m.Radius
	if r <= 0 {
		r = 3
	}
	clr := m.Color
	if clr == nil {
		clr = color.Black
	}
	gs := draw.GlyphStyle{Color: clr, Radius: vg.Points(r), Shape: draw.CircleGlyph{}}
	switch m.Shape {
	case render.ShapeCircle:
		gs.Shape = draw.RingGlyph{}
	case render.ShapeSquare:
		gs.Shape = draw.SquareGlyph{}
	case render.ShapeDash:
		c.StrokeLine2(draw.LineStyle{Color: clr, Width: vg.Points(2)},
			pt.X-vg.Points(r), pt.Y, pt.X+vg.Points(r), pt.Y)
		return
	}
	c.DrawGlyph(gs, pt)
}

func drawPolygon(c draw.Canvas, pg render.Polygon, tx, ty transform) {
	var path vg.Path
	for _, ring := range pg.Rings {
		if len(ring) < 3 {
			continue
		}
		for i, pt := range ring {
			p := vg.Point{X: tx(pt.X), Y: ty(pt.Y)}
			if i == 0 {
				path.Move(p)
			} else {
				path.Line(p)
			}
		}
		path.Close()
	}
	if len(path) == 0 {
		return
	}
	if pg.Fill != nil {
		c.SetColor(pg.Fill)
		c.Fill(path)
	}
	if pg.Stroke != nil && pg.StrokeWidth > 0 {
		c.SetColor(pg.Stroke)
		c.SetLineWidth(vg.Points(pg.StrokeWidth))
		c.SetLineDash(nil, 0)
		c.Stroke(path)
	}
}

func drawAnnotation(c draw.Canvas, a render.Annotation, tx, ty transform) {
	pt := vg.Point{X: tx(a.X), Y: ty(a.Y)}
	off := vg.Points(a.Offset)
	sty := textStyle(a.Font, a.Color)
	switch a.Direction {
	case render.Up:
		pt.Y += off
		sty.XAlign, sty.YAlign = text.XCenter, text.YBottom
	case render.Down:
		pt.Y -= off
		sty.XAlign, sty.YAlign = text.XCenter, text.YTop
	case render.Left:
		pt.X -= off
		sty.XAlign, sty.YAlign = text.XRight, text.YCenter
	default:
		pt.X += off
		sty.XAlign, sty.YAlign = text.XLeft, text.YCenter
	}
	if a.Halo != nil {
		halo := sty
		halo.Color = a.Halo
		d := vg.Points(0.8)
		for _, o := range []vg.Point{{X: -d}, {X: d}, {Y: -d}, {Y: d}, {X: -d, Y: -d}, {X: d, Y: d}, {X: -d, Y: d}, {X: d, Y: -d}} {
			c.FillText(halo, pt.Add(o), a.Text)
		}
	}
	c.FillText(sty, pt, a.Text)
}

func drawText(c draw.Canvas, t render.Text, tx, ty transform) {
	sty := textStyle(t.Font, t.Color)
	switch t.XAlign {
	case render.AlignCenter:
		sty.XAlign = text.XCenter
	case render.AlignEnd:
		sty.XAlign = text.XRight
	default:
		sty.XAlign = text.XLeft
	}
	switch t.YAlign {
	case render.AlignStart:
		sty.YAlign = text.YBottom
	case render.AlignEnd:
		sty.YAlign = text.YTop
	default:
		sty.YAlign = text.YCenter
	}
	pt := vg.Point{X: tx(t.X) + vg.Points(t.DX), Y: ty(t.Y) + vg.Points(t.DY)}
	c.FillText(sty, pt, t.Text)
}

// drawBreak draws a zigzag across the bottom of the value axis to show it
// does not start at zero.
func drawBreak(c draw.Canvas, clr, bg color.Color) {
	if clr == nil {
		clr = color.Black
	}
	x, y := c.Min.X, c.Min.Y+vg.Points(6)
	w, h := vg.Points(5), vg.Points(2.5)
	c.FillPolygon(bg, rect(x-w, y-h, x+w, y+h))
	ls := draw.LineStyle{Color: clr, Width: vg.Points(1)}
	c.StrokeLines(ls, []vg.Point{{X: x - w, Y: y - h - 1}, {X: x + w, Y: y - 1}})
	c.StrokeLines(ls, []vg.Point{{X: x - w, Y: y + 1}, {X: x + w, Y: y + h + 1}})
}
