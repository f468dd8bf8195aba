// Package dataset holds the data series a chart is drawn from.
//
// A [Series] is an ordered list of points. Each point has a key (a date such
// as "2016-01-01", a category name or a region code) and an optional numeric
// value; a nil value means missing and is never silently coerced to zero.
// A [List] is the set of series drawn in one chart and keeps track of the
// combined value range and the union of keys.
//
// Rows coming from JSON or YAML definitions are converted with [FromRows],
// which accepts numbers, numeric strings and nulls:
//
//	s, err := dataset.FromRows([][]any{{"2016-01-01", 2}, {"2017-01-01", nil}})
package dataset
