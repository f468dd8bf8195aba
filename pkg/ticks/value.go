package ticks

import "math"

// Tick is a positioned, labelled axis tick. An empty label draws a minor tick.
type Tick struct {
	Value float64
	Label string
}

// Values returns the tick positions.
func Values(ts []Tick) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = t.Value
	}
	return out
}

var niceSteps = []float64{1, 2, 2.5, 5, 10}

// Nice returns evenly spaced tick values covering [min, max] with at most
// maxTicks ticks, all lying inside the interval.
func Nice(min, max float64, maxTicks int) []float64 {
	if maxTicks < 2 {
		maxTicks = 2
	}
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return nil
	}
	if min > max {
		min, max = max, min
	}
	if min == max {
		return []float64{min}
	}

	step := NiceStep(max-min, maxTicks)
	eps := step * 1e-9
	start := math.Ceil((min-eps)/step) * step
	var out []float64
	for v := start; v <= max+eps; v += step {
		out = append(out, cleanZero(roundTo(v, step)))
	}
	return out
}

// NiceStep returns the smallest nice step splitting span into at most
// maxTicks ticks.
func NiceStep(span float64, maxTicks int) float64 {
	raw := span / float64(maxTicks-1)
	magnitude := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, s := range niceSteps {
		step := s * magnitude
		if span/step <= float64(maxTicks-1)+1e-9 {
			return step
		}
	}
	return 10 * magnitude
}

// roundTo strips floating point noise such as 0.30000000000000004.
func roundTo(v, step float64) float64 {
	digits := math.Max(0, -math.Floor(math.Log10(step))+2)
	p := math.Pow(10, digits)
	return math.Round(v*p) / p
}

func cleanZero(v float64) float64 {
	if v == 0 {
		return 0 // turn -0 into 0
	}
	return v
}

// Labeler formats v with a fixed number of decimals, or automatically when
// decimals is nil.
type Labeler func(v float64, decimals *int) string

// Label labels values. When decimals is nil and two neighbouring labels come
// out equal, one to three decimals are tried until they differ; the chosen
// number is returned. Labels that still repeat are dropped. With zero
// decimals the ticks are rebuilt on whole numbers instead.
func Label(values []float64, lab Labeler, decimals *int) ([]Tick, *int) {
	label := func(d *int) []Tick {
		out := make([]Tick, len(values))
		for i, v := range values {
			out[i] = Tick{Value: v, Label: lab(v, d)}
		}
		return out
	}

	out := label(decimals)
	if decimals == nil && hasDuplicates(out) {
		for try := 1; try <= 3; try++ {
			d := try
			out = label(&d)
			decimals = &d
			if !hasDuplicates(out) {
				break
			}
		}
	}
	if !hasDuplicates(out) {
		return out, decimals
	}

	if decimals != nil && *decimals == 0 && len(values) > 0 {
		// Whole numbers inside the tick range only.
		lo := math.Ceil(values[0])
		hi := math.Floor(values[len(values)-1])
		var whole []Tick
		for v := lo; v <= hi; v++ {
			whole = append(whole, Tick{Value: v, Label: lab(v, decimals)})
		}
		if len(whole) > 0 {
			return dedupe(whole), decimals
		}
	}
	return dedupe(out), decimals
}

func hasDuplicates(ts []Tick) bool {
	for i := 1; i < len(ts); i++ {
		if ts[i].Label == ts[i-1].Label {
			return true
		}
	}
	return false
}

func dedupe(ts []Tick) []Tick {
	var out []Tick
	for i, t := range ts {
		if i > 0 && t.Label == ts[i-1].Label {
			continue
		}
		out = append(out, t)
	}
	return out
}
