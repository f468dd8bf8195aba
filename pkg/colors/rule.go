package colors

import "fmt"

// Rule maps a value, nil when missing, to a role name or a literal color.
type Rule func(v *float64) string

// PositiveNegative colors values below zero as negative and above zero as
// positive. Zero and missing values are neutral.
func PositiveNegative(v *float64) string {
	switch {
	case v == nil:
		return RoleNeutral
	case *v < 0:
		return RoleNegative
	case *v > 0:
		return RolePositive
	default:
		return RoleNeutral
	}
}

// WarmCold returns a rule coloring values above baseline warm and values
// below it cold. Values equal to the baseline and missing values are neutral.
func WarmCold(baseline float64) Rule {
	return func(v *float64) string {
		switch {
		case v == nil:
			return RoleNeutral
		case *v < baseline:
			return RoleCold
		case *v > baseline:
			return RoleWarm
		default:
			return RoleNeutral
		}
	}
}

// Rule names accepted by LookupRule.
const (
	RulePositiveNegative = "positive_negative"
	RuleWarmCold         = "warm_cold"
)

// LookupRule returns the named built-in rule. baseline is only used by
// warm_cold.
func LookupRule(name string, baseline float64) (Rule, error) {
	switch name {
	case RulePositiveNegative:
		return PositiveNegative, nil
	case RuleWarmCold:
		return WarmCold(baseline), nil
	}
	return nil, fmt.Errorf("unknown color rule: %s", name)
}
