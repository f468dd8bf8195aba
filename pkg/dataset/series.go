package dataset

import (
	"math"
	"sort"
	"strconv"

	"github.com/jplusplus/nwcharts/pkg/errors"
)

// Point is a single observation.
type Point struct {
	Key   string
	Value *float64 // nil when missing
	Text  string   // categorical value or free text label, if any
}

// Float returns a pointer to v, for building points by hand.
func Float(v float64) *float64 { return &v }

// Series is an ordered list of points.
type Series []Point

// Keys returns the keys in series order.
func (s Series) Keys() []string {
	keys := make([]string, len(s))
	for i, p := range s {
		keys[i] = p.Key
	}
	return keys
}

// Values returns the values in series order, nil for missing points.
func (s Series) Values() []*float64 {
	vals := make([]*float64, len(s))
	for i, p := range s {
		vals[i] = p.Value
	}
	return vals
}

// Index returns the position of key, or -1.
func (s Series) Index(key string) int {
	for i, p := range s {
		if p.Key == key {
			return i
		}
	}
	return -1
}

// Lookup returns the value for key and whether the key exists.
func (s Series) Lookup(key string) (*float64, bool) {
	if i := s.Index(key); i >= 0 {
		return s[i].Value, true
	}
	return nil, false
}

// CheckDuplicates fails with DUPLICATE_TIMEPOINT if a key occurs twice.
// name identifies the series in the error message.
func (s Series) CheckDuplicates(name string) error {
	seen := make(map[string]bool, len(s))
	for _, p := range s {
		if seen[p.Key] {
			return errors.New(errors.ErrCodeDuplicateTime, "series %s: duplicate key %q", name, p.Key)
		}
		seen[p.Key] = true
	}
	return nil
}

// List is the set of series drawn in one chart.
type List []Series

// Len returns the number of series.
func (l List) Len() int { return len(l) }

// Empty reports whether there is no point with a value in any series.
func (l List) Empty() bool {
	_, _, ok := l.Range()
	return !ok
}

// Range returns the smallest and largest value over all series. ok is false
// when every value is missing.
func (l List) Range() (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, s := range l {
		for _, p := range s {
			if p.Value == nil || math.IsNaN(*p.Value) {
				continue
			}
			min = math.Min(min, *p.Value)
			max = math.Max(max, *p.Value)
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}

// XPoints returns the sorted union of keys. ISO dates sort chronologically.
func (l List) XPoints() []string {
	set := make(map[string]bool)
	for _, s := range l {
		for _, p := range s {
			set[p.Key] = true
		}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Categories returns the union of keys in first-seen order.
func (l List) Categories() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, s := range l {
		for _, p := range s {
			if !seen[p.Key] {
				seen[p.Key] = true
				keys = append(keys, p.Key)
			}
		}
	}
	return keys
}

// CheckDuplicates runs Series.CheckDuplicates on every series. labels, when
// long enough, name the series in errors.
func (l List) CheckDuplicates(labels []string) error {
	for i, s := range l {
		if err := s.CheckDuplicates(seriesName(i, labels)); err != nil {
			return err
		}
	}
	return nil
}

// seriesName is the label of series i, or its 1-based position.
func seriesName(i int, labels []string) string {
	if i < len(labels) && labels[i] != "" {
		return labels[i]
	}
	return "#" + strconv.Itoa(i+1)
}

// InnerRange returns the keys between which every series has data: the
// latest first key and the earliest last key. ok is false when a series has
// no values at all.
func (l List) InnerRange() (from, to string, ok bool) {
	for i, s := range l {
		first, last := "", ""
		for _, p := range s {
			if p.Value == nil {
				continue
			}
			if first == "" || p.Key < first {
				first = p.Key
			}
			if p.Key > last {
				last = p.Key
			}
		}
		if first == "" {
			return "", "", false
		}
		if i == 0 || first > from {
			from = first
		}
		if i == 0 || last < to {
			to = last
		}
	}
	return from, to, len(l) > 0 && from <= to
}

// Filled returns one value slice per series aligned to XPoints, with missing
// values between two known values linearly interpolated. Leading and trailing
// gaps stay nil.
func (l List) Filled() [][]*float64 {
	xs := l.XPoints()
	out := make([][]*float64, len(l))
	for i, s := range l {
		row := make([]*float64, len(xs))
		for j, x := range xs {
			if v, ok := s.Lookup(x); ok {
				row[j] = v
			}
		}
		out[i] = interpolate(row)
	}
	return out
}

func interpolate(row []*float64) []*float64 {
	prev := -1
	for i, v := range row {
		if v == nil {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			a, b := *row[prev], *v
			for k := prev + 1; k < i; k++ {
				t := float64(k-prev) / float64(i-prev)
				row[k] = Float(a + (b-a)*t)
			}
		}
		prev = i
	}
	return row
}
