package colors

// Default colors, used when a style does not set its own.
const (
	Strong      = "#5aa69d" // primary color, for highlighting
	Neutral     = "#999999"
	Positive    = "#47b358"
	Negative    = "#ec6b56"
	FillBetween = "#f7f4f4"
	Warm        = "#ff808f"
	Cold        = "#4062bb"
	Missing     = "#e6e6e6" // regions and cells without data
)

// Color roles a style can resolve.
const (
	RoleStrong   = "strong"
	RoleNeutral  = "neutral"
	RolePositive = "positive"
	RoleNegative = "negative"
	RoleWarm     = "warm"
	RoleCold     = "cold"
)

// Roles lists every role name, in the order styles document them.
var Roles = []string{RoleStrong, RoleNeutral, RolePositive, RoleNegative, RoleWarm, RoleCold}

// IsRole reports whether name is one of the color roles.
func IsRole(name string) bool {
	for _, r := range Roles {
		if r == name {
			return true
		}
	}
	return false
}

// Palette is an ordered list of colors for categorical coloring.
type Palette []string

// At returns the i:th color, wrapping around when the palette is exhausted.
func (p Palette) At(i int) string {
	if len(p) == 0 {
		return Neutral
	}
	if i < 0 {
		i = -i
	}
	return p[i%len(p)]
}

// Qualitative is the default palette for series without a highlight.
// Picked from ColorBrewer Set2.
var Qualitative Palette

func init() {
	Qualitative = splitColorString("66c2a5fc8d628da0cbe78ac3a6d854ffd92fe5c494b3b3b3")
}

func splitColorString(str string) Palette {
	var arr Palette
	for i := 0; i+6 <= len(str); i += 6 {
		arr = append(arr, "#"+str[i:i+6])
	}
	return arr
}
