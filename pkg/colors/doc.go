// Package colors holds the default chart palette, color rules and colormaps.
//
// Colors are exchanged as strings throughout nwcharts: either a role name
// ("strong", "neutral", "positive", "negative", "warm", "cold") that a style
// resolves to a concrete color, or a literal color ("#5aa69d", "5aa69d",
// "steelblue"). [Parse] turns a literal into a color.Color.
//
// # Rules
//
// A [Rule] maps a single value to a color name. Two rules are built in:
//
//	colors.PositiveNegative(v) // "negative" below 0, "positive" above, else "neutral"
//	colors.WarmCold(0)(v)      // "cold" below the baseline, "warm" above
//
// # Scales
//
// A [Scale] interpolates between color stops in CIE L*a*b* space, which keeps
// perceived lightness steps even. Choropleth maps use sequential scales and
// stripe charts use diverging ones.
package colors
