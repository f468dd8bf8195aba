package render

import (
	"image"
	"image/color"
	"sort"

	"github.com/jplusplus/nwcharts/pkg/ticks"
)

// Font describes a text face. Size is in points.
type Font struct {
	Family string // e.g. "sans-serif", "Liberation Serif"
	Size   float64
	Bold   bool
	Italic bool
}

// TextBlock is a wrapped paragraph above or below the axes.
type TextBlock struct {
	Role  string // title, subtitle, note or caption
	Text  string
	Font  Font
	Color color.Color
}

// Text block roles.
const (
	RoleTitle    = "title"
	RoleSubtitle = "subtitle"
	RoleNote     = "note"
	RoleCaption  = "caption"
)

// Figure is a complete chart scene.
type Figure struct {
	// Width and Height are in pixels at scale factor 1.
	Width, Height float64
	Background    color.Color

	Header []TextBlock // drawn top down
	Footer []TextBlock // drawn top down, above the bottom margin

	Logo      image.Image
	LogoWidth float64 // pixels at scale factor 1
	LogoLeft  bool    // right-to-left layouts put the logo on the left

	Axes   Axes
	Legend Legend

	// Metadata is written into formats that support it.
	Metadata map[string]string
}

// Axes is the plotting area.
type Axes struct {
	X, Y Axis

	// Hidden removes axes, ticks and grid, as for maps.
	Hidden bool
	// EqualAspect keeps one data unit the same length on both axes.
	EqualAspect bool
	// BrokenY marks the value axis as not starting at zero.
	BrokenY bool

	Grid  Grid
	Items []Item
}

// Axis is one axis of the plotting area.
type Axis struct {
	Min, Max float64
	Ticks    []ticks.Tick
	Label    string
	// Hidden hides tick labels and the axis line, but keeps the range.
	Hidden bool
	// Line draws the axis line itself.
	Line bool

	LineColor  color.Color
	TickColor  color.Color
	TickFont   Font
	LabelColor color.Color
	LabelFont  Font
}

// Grid configures grid lines at tick positions.
type Grid struct {
	Horizontal bool
	Vertical   bool
	Color      color.Color
	Width      float64 // points
}

// Legend lists labelled series. It is drawn in the upper left corner of the
// plotting area when it has entries.
type Legend struct {
	Title   string
	Entries []LegendEntry
	Font    Font
	Color   color.Color
}

// LegendEntry is one row of the legend.
type LegendEntry struct {
	Label string
	Color color.Color
	Shape string // ShapeSquare, ShapeLine or ShapeDot
}

// Legend and marker shapes.
const (
	ShapeSquare = "square"
	ShapeLine   = "line"
	ShapeDot    = "dot"
	ShapeCircle = "circle"
	ShapeDash   = "dash"
)

// Add appends items to the plotting area.
func (f *Figure) Add(items ...Item) {
	f.Axes.Items = append(f.Axes.Items, items...)
}

// Sorted returns the items ordered by z order, keeping insertion order for
// equal z.
func (a *Axes) Sorted() []Item {
	out := make([]Item, len(a.Items))
	copy(out, a.Items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZOrder() < out[j].ZOrder() })
	return out
}

// Collect returns every item of type T, in insertion order.
func Collect[T Item](f *Figure) []T {
	var out []T
	for _, it := range f.Axes.Items {
		if t, ok := it.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
