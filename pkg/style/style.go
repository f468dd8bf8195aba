package style

import (
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/jplusplus/nwcharts/pkg/colors"
)

// CustomPrefix marks Newsworthy specific keys in the merged mapping.
const CustomPrefix = "nwc."

// Style is an immutable, resolved set of style parameters.
type Style struct {
	Name   string // name or path the style was resolved from
	Source string // "builtin:<name>" or the file path
	params map[string]string
}

// New builds a style from the built-in defaults overlaid with params.
// Custom keys must carry CustomPrefix.
func New(name string, params map[string]string) *Style {
	merged := Defaults()
	for k, v := range params {
		merged[k] = v
	}
	return &Style{Name: name, Source: name, params: merged}
}

// Get returns the raw value for key.
func (s *Style) Get(key string) (string, bool) {
	v, ok := s.params[key]
	return v, ok
}

// String returns the value for key, or def when unset.
func (s *Style) String(key, def string) string {
	if v, ok := s.params[key]; ok && v != "" {
		return v
	}
	return def
}

// Float returns the numeric value for key, or def when unset or invalid.
// Relative font sizes ("small", "large") are resolved against font.size.
func (s *Style) Float(key string, def float64) float64 {
	v, ok := s.params[key]
	if !ok {
		return def
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
		return f
	}
	if scale, ok := relativeSizes[v]; ok {
		base, err := strconv.ParseFloat(s.params["font.size"], 64)
		if err != nil {
			base = 10
		}
		return base * scale
	}
	return def
}

var relativeSizes = map[string]float64{
	"xx-small": 0.579, "x-small": 0.694, "small": 0.833, "medium": 1,
	"large": 1.2, "x-large": 1.44, "xx-large": 1.728, "smaller": 0.833, "larger": 1.2,
}

// Bool returns the boolean value for key, or def when unset or invalid.
func (s *Style) Bool(key string, def bool) bool {
	v, ok := s.params[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return def
	}
	return b
}

// Color returns the color for key, or def when unset.
func (s *Style) Color(key, def string) color.NRGBA {
	return colors.MustParse(s.String(key, def))
}

// List returns a comma separated value as a slice.
func (s *Style) List(key string) []string {
	v, ok := s.params[key]
	if !ok || v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Custom returns a Newsworthy specific value.
func (s *Style) Custom(key string) string {
	return s.params[CustomPrefix+key]
}

// CustomFloat returns a Newsworthy specific number.
func (s *Style) CustomFloat(key string, def float64) float64 {
	return s.Float(CustomPrefix+key, def)
}

// RoleColor resolves a color role ("strong", "neutral", ...) to a literal
// color. Anything that is not a role is returned unchanged.
func (s *Style) RoleColor(name string) string {
	if colors.IsRole(name) {
		if c := s.Custom(name + "_color"); c != "" {
			return c
		}
	}
	return name
}

// Qualitative returns the style's categorical palette. Parsed styles hold
// normalized colors.
func (s *Style) Qualitative() colors.Palette {
	if l := s.List(CustomPrefix + "qualitative_colors"); len(l) > 0 {
		return colors.Palette(l)
	}
	return colors.Qualitative
}

// Background returns the figure face color.
func (s *Style) Background() color.NRGBA {
	return s.Color("figure.facecolor", "#ffffff")
}

// Params returns a copy of every parameter.
func (s *Style) Params() map[string]string {
	out := make(map[string]string, len(s.params))
	for k, v := range s.params {
		out[k] = v
	}
	return out
}

// Keys returns all parameter names, sorted.
func (s *Style) Keys() []string {
	keys := make([]string, 0, len(s.params))
	for k := range s.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Defaults returns the parameters every style starts from.
func Defaults() map[string]string {
	return map[string]string{
		"font.family":      "sans-serif",
		"font.size":        "10",
		"text.color":       "#333333",
		"figure.facecolor": "#ffffff",
		"axes.edgecolor":   "#999999",
		"axes.labelcolor":  "#555555",
		"axes.labelsize":   "10",
		"axes.linewidth":   "0.8",
		"xtick.color":      "#666666",
		"xtick.labelsize":  "9",
		"ytick.color":      "#666666",
		"ytick.labelsize":  "9",
		"grid.color":       "#e6e6e6",
		"grid.linewidth":   "0.8",
		"lines.linewidth":  "2",
		"lines.markersize": "6",
		"legend.fontsize":  "9",

		CustomPrefix + "title_font":          "sans-serif",
		CustomPrefix + "title.fontsize":      "15",
		CustomPrefix + "title.weight":        "bold",
		CustomPrefix + "subtitle.fontsize":   "11",
		CustomPrefix + "note.fontsize":       "9",
		CustomPrefix + "caption.fontsize":    "8",
		CustomPrefix + "annotation.fontsize": "9",
		CustomPrefix + "strong_color":        colors.Strong,
		CustomPrefix + "neutral_color":       colors.Neutral,
		CustomPrefix + "positive_color":      colors.Positive,
		CustomPrefix + "negative_color":      colors.Negative,
		CustomPrefix + "warm_color":          colors.Warm,
		CustomPrefix + "cold_color":          colors.Cold,
		CustomPrefix + "fill_between_color":  colors.FillBetween,
		CustomPrefix + "fill_between_alpha":  "1",
		CustomPrefix + "missing_color":       colors.Missing,
		CustomPrefix + "qualitative_colors":  strings.Join(colors.Qualitative, ","),
	}
}
