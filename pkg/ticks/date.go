package ticks

import (
	"time"
)

// DefaultMaxYearTicks is the year tick budget used by serial charts.
const DefaultMaxYearTicks = 5

var yearSteps = []int{1, 2, 5, 10, 20, 25, 50, 100, 200, 500}

// YearTicks returns January 1st of evenly spaced years between start and end,
// at most maxTicks of them. Ticks are counted back from the last year so that
// the most recent year is always labelled.
func YearTicks(start, end time.Time, maxTicks int) []time.Time {
	if maxTicks < 1 {
		maxTicks = 1
	}
	if end.Before(start) {
		start, end = end, start
	}
	first, last := start.Year(), end.Year()
	if start.YearDay() > 1 {
		first++ // the first labelled year must be inside the data
	}
	if first > last {
		first = last
	}

	step := yearSteps[len(yearSteps)-1]
	for _, s := range yearSteps {
		if (last-first)/s+1 <= maxTicks {
			step = s
			break
		}
	}

	var out []time.Time
	for y := last; y >= first; y -= step {
		out = append([]time.Time{time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)}, out...)
	}
	return out
}

// Locator kinds returned by BestLocator.
const (
	LocateYears  = "years"
	LocateMonths = "months"
	LocateDays   = "days"
)

// Locator describes where date ticks go: every Step years, months or days.
type Locator struct {
	Kind string
	Step int
}

// BestLocator picks a conservative locator for a time span of delta and a
// series of points observations.
func BestLocator(delta time.Duration, points int) Locator {
	days := int(delta.Hours() / 24)
	switch {
	case days > 365*150:
		return Locator{LocateYears, 100}
	case days > 365*45:
		return Locator{LocateYears, 20}
	case days > 365:
		switch {
		case points > 20:
			return Locator{LocateYears, 10}
		case points > 10:
			return Locator{LocateYears, 5}
		case points > 5:
			return Locator{LocateYears, 2}
		default:
			return Locator{LocateYears, 1}
		}
	case days > 30:
		return Locator{LocateMonths, 1}
	default:
		return Locator{LocateDays, 1}
	}
}

// Dates returns the tick dates of l between start and end, inclusive.
// Month and day locators are thinned so that no more than maxTicks remain.
func (l Locator) Dates(start, end time.Time, maxTicks int) []time.Time {
	var out []time.Time
	switch l.Kind {
	case LocateYears:
		y := start.Year()
		if start.YearDay() > 1 {
			y++
		}
		for ; y <= end.Year(); y++ {
			if y%l.Step == 0 {
				out = append(out, time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC))
			}
		}
	case LocateMonths:
		d := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		if d.Before(start) {
			d = d.AddDate(0, 1, 0)
		}
		for ; !d.After(end); d = d.AddDate(0, l.Step, 0) {
			out = append(out, d)
		}
	default:
		d := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		for ; !d.After(end); d = d.AddDate(0, 0, l.Step) {
			out = append(out, d)
		}
	}
	return thin(out, maxTicks)
}

// thin keeps every k:th element, always including the last one.
func thin(ts []time.Time, max int) []time.Time {
	if max <= 0 || len(ts) <= max {
		return ts
	}
	k := (len(ts) + max - 1) / max
	var out []time.Time
	for i := len(ts) - 1; i >= 0; i -= k {
		out = append([]time.Time{ts[i]}, out...)
	}
	return out
}

// DayNumber converts t to fractional days since the Unix epoch, the x unit
// used for time axes.
func DayNumber(t time.Time) float64 {
	return float64(t.Unix()) / 86400
}

// FromDayNumber is the inverse of DayNumber.
func FromDayNumber(d float64) time.Time {
	return time.Unix(int64(d*86400), 0).UTC()
}
