package render

import "image/color"

// Item is a primitive drawn inside the plotting area, in data coordinates.
type Item interface {
	ZOrder() int
}

// Default z orders. Higher is drawn later.
const (
	ZBackground = 0
	ZFill       = 1
	ZData       = 2
	ZFront      = 3
	ZOverlay    = 4
	ZText       = 5
)

// Point is a data coordinate. Missing points break lines.
type Point struct {
	X, Y    float64
	Missing bool
}

// Bar is a rectangle from Base to Base+Value along the value axis, centered
// on Pos with the given Width along the category axis. Horizontal bars grow
// along x.
type Bar struct {
	Pos, Width  float64
	Base, Value float64
	Horizontal  bool
	Color       color.Color
	Z           int

	Series int    // index of the series the bar belongs to
	Key    string // category, date or other key of the bar
}

func (b Bar) ZOrder() int { return b.Z }

// Line is a polyline; runs of points are separated by missing points.
type Line struct {
	Points []Point
	Color  color.Color
	Width  float64   // points
	Dashes []float64 // dash pattern in points, nil for solid
	Z      int

	Series int
	Label  string
}

func (l Line) ZOrder() int { return l.Z }

// Marker is a glyph at a data point.
type Marker struct {
	X, Y   float64
	Color  color.Color
	Radius float64 // points
	Shape  string
	Z      int

	Series int
}

func (m Marker) ZOrder() int { return m.Z }

// Annotation directions.
const (
	Up    = "up"
	Down  = "down"
	Left  = "left"
	Right = "right"
)

// Annotation is a text label offset from a data point in Direction.
type Annotation struct {
	X, Y      float64
	Text      string
	Direction string
	Offset    float64 // points
	Color     color.Color
	Font      Font
	// Halo is drawn around the glyphs to keep text readable over lines.
	Halo color.Color
	Z    int
}

func (a Annotation) ZOrder() int { return a.Z }

// Text alignment.
const (
	AlignStart  = "start"
	AlignCenter = "center"
	AlignEnd    = "end"
)

// Text is a label anchored at a data point.
type Text struct {
	X, Y   float64
	Text   string
	Color  color.Color
	Font   Font
	XAlign string // AlignStart, AlignCenter, AlignEnd
	YAlign string // AlignStart (bottom), AlignCenter, AlignEnd (top)
	// DX and DY shift the anchor, in points.
	DX, DY float64
	Z      int
}

func (t Text) ZOrder() int { return t.Z }

// Polygon is a filled shape with optional holes; the first ring is the
// outer boundary.
type Polygon struct {
	Rings       [][]Point
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth float64
	Z           int

	Key string
}

func (p Polygon) ZOrder() int { return p.Z }

// HLine spans the full width of the plotting area at Y.
type HLine struct {
	Y      float64
	Color  color.Color
	Width  float64
	Dashes []float64
	Z      int
}

func (h HLine) ZOrder() int { return h.Z }

// VLine is a vertical segment from Y0 to Y1 at X.
type VLine struct {
	X, Y0, Y1 float64
	Color     color.Color
	Width     float64
	Dashes    []float64
	Z         int
}

func (v VLine) ZOrder() int { return v.Z }

// Band fills the area between Lower and Upper where Where is true.
// X, Lower, Upper and Where have equal length; nil bounds are skipped.
type Band struct {
	X            []float64
	Lower, Upper []*float64
	Where        []bool
	Color        color.Color
	Z            int
}

func (b Band) ZOrder() int { return b.Z }
