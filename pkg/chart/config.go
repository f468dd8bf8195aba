package chart

import (
	"encoding/json"
	"fmt"

	"github.com/jplusplus/nwcharts/pkg/colors"
	"github.com/jplusplus/nwcharts/pkg/dataset"
)

// Config is the caller-owned content of a chart. Every field is optional;
// the zero value renders an empty chart. Config never references a style:
// the same Config renders under any style.
type Config struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Note     string `json:"note,omitempty"`
	XLabel   string `json:"xlabel,omitempty"`
	YLabel   string `json:"ylabel,omitempty"`

	// Units is number, percent or degrees. "count" is a deprecated alias of
	// number.
	Units string `json:"units,omitempty"`
	// Decimals fixes the number of decimals. nil picks them automatically.
	Decimals      *int `json:"decimals,omitempty"`
	ForceDecimals bool `json:"force_decimals,omitempty"`

	// Highlight is a date (serial charts), categories, region codes or
	// point labels, depending on the chart type.
	Highlight           StringList `json:"highlight,omitempty"`
	HighlightAnnotation *bool      `json:"highlight_annotation,omitempty"`

	// Colors overrides series colors (or category colors for maps). Role
	// names such as "strong" are resolved through the style.
	Colors  []string `json:"colors,omitempty"`
	ColorFn ColorFn  `json:"color_fn,omitempty"`
	Labels  []string `json:"labels,omitempty"`

	Annotations   []Annotation `json:"annotations,omitempty"`
	Trendline     []TrendPoint `json:"trendline,omitempty"`
	AnnotateTrend *bool        `json:"annotate_trend,omitempty"`

	Interval    string     `json:"interval,omitempty"`
	Ticks       []Tick     `json:"ticks,omitempty"`
	ShowTicks   *bool      `json:"show_ticks,omitempty"`
	LegendTitle string     `json:"legend_title,omitempty"`
	YMin        *float64   `json:"ymin,omitempty"`
	YMax        *float64   `json:"ymax,omitempty"`
	YLine       *float64   `json:"yline,omitempty"`
	Logo        string     `json:"logo,omitempty"`
	Type        StringList `json:"type,omitempty"`

	// Serial and categorical options.
	BarOrientation   string `json:"bar_orientation,omitempty"`
	Stacked          bool   `json:"stacked,omitempty"`
	AllowBrokenYAxis *bool  `json:"allow_broken_y_axis,omitempty"`
	// LabelPlacement is legend, inline or none.
	LabelPlacement string `json:"label_placement,omitempty"`
	ValueLabels    *bool  `json:"value_labels,omitempty"`

	// Progress charts.
	Target FloatList `json:"target,omitempty"`

	// Stripe charts and warm_cold coloring.
	Baseline *float64 `json:"baseline,omitempty"`

	// Choropleth maps.
	BaseMap      string    `json:"base_map,omitempty"`
	Bins         []float64 `json:"bins,omitempty"`
	Binning      string    `json:"binning,omitempty"`
	NumBins      int       `json:"num_bins,omitempty"`
	MissingLabel string    `json:"missing_label,omitempty"`

	// Datawrapper charts: the chart object sent to the API.
	DWData map[string]any `json:"dw_data,omitempty"`
}

// Label placements.
const (
	PlacementLegend = "legend"
	PlacementInline = "inline"
	PlacementNone   = "none"
)

// Bar orientations.
const (
	Horizontal = "horizontal"
	Vertical   = "vertical"
)

// Series types for serial charts.
const (
	TypeBars = "bars"
	TypeLine = "line"
)

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// StringList accepts a single string or a list of strings.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringList) UnmarshalJSON(b []byte) error {
	var one any
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	switch v := one.(type) {
	case nil:
		*s = nil
	case []any:
		out := make(StringList, 0, len(v))
		for _, x := range v {
			out = append(out, dataset.ToString(x))
		}
		*s = out
	default:
		*s = StringList{dataset.ToString(v)}
	}
	return nil
}

// First returns the first value or "".
func (s StringList) First() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Contains reports whether v is in the list.
func (s StringList) Contains(v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// At returns the i:th value. A single value applies to every index.
func (s StringList) At(i int, def string) string {
	switch {
	case len(s) == 1:
		return s[0]
	case i < len(s) && s[i] != "":
		return s[i]
	}
	return def
}

// FloatList accepts a single number or a list of numbers.
type FloatList []float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FloatList) UnmarshalJSON(b []byte) error {
	var one any
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	conv := func(x any) (float64, error) {
		v, err := dataset.ToFloat(x)
		if err != nil || v == nil {
			return 0, fmt.Errorf("not a number: %v", x)
		}
		return *v, nil
	}
	switch v := one.(type) {
	case nil:
		*f = nil
	case []any:
		out := make(FloatList, 0, len(v))
		for _, x := range v {
			n, err := conv(x)
			if err != nil {
				return err
			}
			out = append(out, n)
		}
		*f = out
	default:
		n, err := conv(v)
		if err != nil {
			return err
		}
		*f = FloatList{n}
	}
	return nil
}

// At returns the i:th value. A single value applies to every index.
func (f FloatList) At(i int) (float64, bool) {
	switch {
	case len(f) == 1:
		return f[0], true
	case i < len(f):
		return f[i], true
	}
	return 0, false
}

// ColorFn colors values by rule. It is either the name of a built-in rule
// ("positive_negative", "warm_cold") or a function.
type ColorFn struct {
	Name string
	Func colors.Rule
}

// IsZero reports whether no rule is set.
func (c ColorFn) IsZero() bool { return c.Name == "" && c.Func == nil }

// UnmarshalJSON implements json.Unmarshaler.
func (c *ColorFn) UnmarshalJSON(b []byte) error {
	var name *string
	if err := json.Unmarshal(b, &name); err != nil {
		return fmt.Errorf("color_fn must be a rule name: %w", err)
	}
	c.Func = nil
	c.Name = ""
	if name != nil {
		c.Name = *name
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Function rules cannot be
// serialized and are written as null.
func (c ColorFn) MarshalJSON() ([]byte, error) {
	if c.Name == "" {
		return []byte("null"), nil
	}
	return json.Marshal(c.Name)
}

// rule returns the rule to apply, or nil.
func (c ColorFn) rule(baseline float64) (colors.Rule, error) {
	if c.Func != nil {
		return c.Func, nil
	}
	if c.Name == "" {
		return nil, nil
	}
	return colors.LookupRule(c.Name, baseline)
}

// Annotation is a caller supplied label at a data point. X is a date,
// category or number depending on the chart type.
type Annotation struct {
	X         string  `json:"-"`
	Y         float64 `json:"-"`
	Text      string  `json:"text"`
	Direction string  `json:"direction,omitempty"`
}

type annotationJSON struct {
	Text      string `json:"text"`
	XY        []any  `json:"xy"`
	Direction string `json:"direction,omitempty"`
}

// UnmarshalJSON reads {"text": ..., "xy": [x, y], "direction": ...}.
func (a *Annotation) UnmarshalJSON(b []byte) error {
	var raw annotationJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw.XY) != 2 {
		return fmt.Errorf("annotation %q: xy must have two elements", raw.Text)
	}
	y, err := dataset.ToFloat(raw.XY[1])
	if err != nil || y == nil {
		return fmt.Errorf("annotation %q: y must be a number", raw.Text)
	}
	*a = Annotation{X: dataset.ToString(raw.XY[0]), Y: *y, Text: raw.Text, Direction: raw.Direction}
	return nil
}

// MarshalJSON writes the same shape UnmarshalJSON reads.
func (a Annotation) MarshalJSON() ([]byte, error) {
	return json.Marshal(annotationJSON{Text: a.Text, XY: []any{a.X, a.Y}, Direction: a.Direction})
}

// TrendPoint is a point on a trend line. A nil Value takes the value of the
// first series at Key.
type TrendPoint struct {
	Key   string
	Value *float64
}

// UnmarshalJSON accepts "2016-01-01" or ["2016-01-01", 3.2].
func (t *TrendPoint) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if pair, ok := raw.([]any); ok {
		if len(pair) != 2 {
			return fmt.Errorf("trendline point must be [key, value]")
		}
		v, err := dataset.ToFloat(pair[1])
		if err != nil {
			return fmt.Errorf("trendline point: %w", err)
		}
		*t = TrendPoint{Key: dataset.ToString(pair[0]), Value: v}
		return nil
	}
	*t = TrendPoint{Key: dataset.ToString(raw)}
	return nil
}

// MarshalJSON writes a key or a [key, value] pair.
func (t TrendPoint) MarshalJSON() ([]byte, error) {
	if t.Value == nil {
		return json.Marshal(t.Key)
	}
	return json.Marshal([]any{t.Key, *t.Value})
}

// Tick is a custom category axis tick: [position, label].
type Tick struct {
	X     string
	Label string
}

// UnmarshalJSON reads [x, label].
func (t *Tick) UnmarshalJSON(b []byte) error {
	var pair []any
	if err := json.Unmarshal(b, &pair); err != nil || len(pair) != 2 {
		return fmt.Errorf("tick must be [position, label]")
	}
	*t = Tick{X: dataset.ToString(pair[0]), Label: dataset.ToString(pair[1])}
	return nil
}

// MarshalJSON writes [x, label].
func (t Tick) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{t.X, t.Label})
}
