package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/jplusplus/nwcharts/pkg/errors"
)

// Data intervals for time series.
const (
	Yearly    = "yearly"
	Quarterly = "quarterly"
	Monthly   = "monthly"
	Weekly    = "weekly"
	Daily     = "daily"
)

// ValidInterval reports whether s is a known interval.
func ValidInterval(s string) bool {
	switch s {
	case Yearly, Quarterly, Monthly, Weekly, Daily:
		return true
	}
	return false
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006-01", "2006"}

// ParseDate parses an ISO date key. Partial dates ("2016", "2016-03") are
// taken as the first day of the period.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(errors.ErrCodeInvalidInput, "not a date: %q", s)
}

// ParseDates parses every key of every series, returning the first failure.
func (l List) ParseDates() (map[string]time.Time, error) {
	out := make(map[string]time.Time)
	for _, s := range l {
		for _, p := range s {
			if _, ok := out[p.Key]; ok {
				continue
			}
			t, err := ParseDate(p.Key)
			if err != nil {
				return nil, err
			}
			out[p.Key] = t
		}
	}
	return out, nil
}

// CheckDuplicateDates fails with DUPLICATE_TIMEPOINT if two keys of one
// series parse to the same date, such as "2016" and "2016-01-01". dates is
// the result of ParseDates.
func (l List) CheckDuplicateDates(dates map[string]time.Time, labels []string) error {
	for i, s := range l {
		seen := make(map[int64]string, len(s))
		for _, p := range s {
			d := dates[p.Key].UnixNano()
			if prev, ok := seen[d]; ok {
				return errors.New(errors.ErrCodeDuplicateTime, "series %s: %q and %q are the same date",
					seriesName(i, labels), prev, p.Key)
			}
			seen[d] = p.Key
		}
	}
	return nil
}

// GuessInterval returns the most probable interval of the data: yearly unless
// some year has several points, then quarterly if all months start a
// quarter, monthly, weekly when a month repeats, daily when a week repeats.
func GuessInterval(l List) string {
	interval := Yearly
	for _, s := range l {
		years := map[int]bool{}
		months := map[string]bool{}
		weeks := map[string]bool{}
		quarterStarts := true
		multiYear, multiMonth, multiWeek := false, false, false

		for _, p := range s {
			d, err := ParseDate(p.Key)
			if err != nil {
				continue
			}
			if years[d.Year()] {
				multiYear = true
			}
			years[d.Year()] = true

			ym := d.Format("2006-01")
			if months[ym] {
				multiMonth = true
			}
			months[ym] = true

			y, w := d.ISOWeek()
			yw := fmt.Sprintf("%d-%02d", y, w)
			if weeks[yw] {
				multiWeek = true
			}
			weeks[yw] = true

			switch d.Month() {
			case time.January, time.April, time.July, time.October:
			default:
				quarterStarts = false
			}
		}

		if !multiYear {
			continue
		}
		switch {
		case multiWeek:
			interval = Daily
		case multiMonth:
			interval = Weekly
		case quarterStarts:
			interval = Quarterly
		default:
			interval = Monthly
		}
	}
	return interval
}

// DaysIn returns the number of days in the period starting at d. A zero d
// returns the typical length of the interval.
func DaysIn(interval string, d time.Time) int {
	if d.IsZero() {
		switch interval {
		case Yearly:
			return 365
		case Quarterly:
			return 91
		case Monthly:
			return 30
		case Weekly:
			return 7
		default:
			return 1
		}
	}
	switch interval {
	case Yearly:
		start := time.Date(d.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return int(start.AddDate(1, 0, 0).Sub(start).Hours() / 24)
	case Quarterly:
		start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		return int(start.AddDate(0, 3, 0).Sub(start).Hours() / 24)
	case Monthly:
		start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		return int(start.AddDate(0, 1, 0).Sub(start).Hours() / 24)
	case Weekly:
		return 7
	default:
		return 1
	}
}
