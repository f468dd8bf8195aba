package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jplusplus/nwcharts/pkg/errors"
)

// FromRows converts decoded JSON/YAML rows of the form [key, value] into a
// series. Values may be numbers, numeric strings, null or, for categorical
// maps, any other string (stored in Point.Text).
func FromRows(rows [][]any) (Series, error) {
	s := make(Series, 0, len(rows))
	for i, row := range rows {
		if len(row) < 1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "row %d is empty", i)
		}
		p := Point{Key: ToString(row[0])}
		if len(row) > 1 {
			v, err := ToFloat(row[1])
			if err != nil {
				if str, ok := row[1].(string); ok {
					p.Text = str
				} else {
					return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "row %d", i)
				}
			}
			p.Value = v
		}
		if len(row) > 2 {
			p.Text = ToString(row[2])
		}
		s = append(s, p)
	}
	return s, nil
}

// ListFromRows converts several series of rows at once.
func ListFromRows(series [][][]any) (List, error) {
	l := make(List, 0, len(series))
	for i, rows := range series {
		s, err := FromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("series %d: %w", i+1, err)
		}
		l = append(l, s)
	}
	return l, nil
}

// ToFloat converts a decoded scalar to a float. nil and empty strings yield
// a nil value without error; NaN is treated as missing.
func ToFloat(v any) (*float64, error) {
	var f float64
	switch x := v.(type) {
	case nil:
		return nil, nil
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		var err error
		if f, err = x.Float64(); err != nil {
			return nil, err
		}
	case string:
		s := strings.TrimSpace(x)
		if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
			return nil, nil
		}
		var err error
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, fmt.Errorf("not a number: %q", x)
		}
	default:
		return nil, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
	if math.IsNaN(f) {
		return nil, nil
	}
	return &f, nil
}

// ToString converts a decoded scalar key to a string. Integer-valued numbers
// print without a decimal point, so that a YAML year 2016 becomes "2016".
func ToString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	}
	return fmt.Sprint(v)
}
