// Package format provides locale-aware number and date formatting for chart
// labels and annotations.
//
// Numbers are formatted with golang.org/x/text, which carries CLDR data for
// decimal and grouping separators and percent patterns. Month and weekday
// names come from github.com/goodsign/monday.
//
//	f, _ := format.New("sv-SE")
//	f.Percent(0.14) // "14 %"
//	f.Number(1234.5) // "1 234" (with a non-breaking space)
package format

import (
	"math"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jplusplus/nwcharts/pkg/errors"
)

// Units a chart value axis can be expressed in.
const (
	UnitsNumber  = "number"
	UnitsPercent = "percent"
	UnitsDegrees = "degrees"

	// UnitsCount is a deprecated alias for UnitsNumber.
	UnitsCount = "count"
)

// NormalizeUnits validates units and maps deprecated aliases. The second
// return value reports whether a deprecated alias was used.
func NormalizeUnits(units string) (string, bool, error) {
	switch units {
	case "", UnitsNumber:
		return UnitsNumber, false, nil
	case UnitsCount:
		return UnitsNumber, true, nil
	case UnitsPercent, UnitsDegrees:
		return units, false, nil
	}
	return "", false, errors.New(errors.ErrCodeInvalidUnits,
		"units must be one of number, percent, degrees, got %q", units)
}

// ParseLanguage standardizes a BCP 47 tag, accepting "sv_FI" as well as "sv-FI".
func ParseLanguage(tag string) (language.Tag, error) {
	if err := errors.ValidateLanguageTag(tag); err != nil {
		return language.Und, err
	}
	t, err := language.Parse(strings.ReplaceAll(tag, "_", "-"))
	if err != nil {
		return language.Und, errors.Wrap(errors.ErrCodeInvalidLanguage, err, "invalid language tag %q", tag)
	}
	return t, nil
}

// Formatter formats numbers and dates for one locale.
// A nil Decimals means the formatter picks a sensible default per value.
type Formatter struct {
	Tag      language.Tag
	Decimals *int
	// Force keeps trailing zeros, so that 1.50 is not shortened to 1.5.
	Force bool

	printer *message.Printer
	locale  monday.Locale
}

// New creates a formatter for the given BCP 47 language tag.
func New(tag string) (*Formatter, error) {
	t, err := ParseLanguage(tag)
	if err != nil {
		return nil, err
	}
	return ForTag(t), nil
}

// ForTag creates a formatter for an already parsed tag.
func ForTag(t language.Tag) *Formatter {
	return &Formatter{
		Tag:     t,
		printer: message.NewPrinter(t),
		locale:  mondayLocale(t),
	}
}

// WithDecimals returns a copy of f using a fixed number of decimals.
// A nil d restores automatic decimals.
func (f *Formatter) WithDecimals(d *int, force bool) *Formatter {
	cp := *f
	cp.Decimals = d
	cp.Force = force
	return &cp
}

// String returns the standardized language tag.
func (f *Formatter) String() string {
	return f.Tag.String()
}

// DefaultDecimals returns the number of decimals used for x when none are set:
// two below 0.1, one below 1, otherwise none.
func DefaultDecimals(x float64) int {
	switch ax := math.Abs(x); {
	case ax < 0.1 && ax != 0:
		return 2
	case ax < 1 && ax != 0:
		return 1
	default:
		return 0
	}
}

func (f *Formatter) decimalsFor(x float64) int {
	if f.Decimals != nil {
		return *f.Decimals
	}
	return DefaultDecimals(x)
}

func (f *Formatter) digits(d int) []number.Option {
	opts := []number.Option{number.MaxFractionDigits(d)}
	if f.Force || f.Decimals != nil {
		opts = append(opts, number.MinFractionDigits(d))
	}
	return opts
}

// Number formats x as a decimal number.
func (f *Formatter) Number(x float64) string {
	d := f.decimalsFor(x)
	return f.printer.Sprint(number.Decimal(round(x, d), f.digits(d)...))
}

// Percent formats a fraction as a percentage (0.14 → "14%" in English).
// Without explicit decimals, one decimal is shown below 1 %.
func (f *Formatter) Percent(x float64) string {
	d := 0
	if f.Decimals != nil {
		d = *f.Decimals
	} else if math.Abs(x) < 0.01 && x != 0 {
		d = 1
	}
	return f.printer.Sprint(number.Percent(round(x, d+2), f.digits(d)...))
}

// Degrees formats a temperature with a trailing degree sign.
func (f *Formatter) Degrees(x float64) string {
	d := 0
	if f.Decimals != nil {
		d = *f.Decimals
	}
	return f.printer.Sprint(number.Decimal(round(x, d), f.digits(d)...)) + "°"
}

// Units returns the formatting function for the given units.
func (f *Formatter) Units(units string) func(float64) string {
	switch units {
	case UnitsPercent:
		return f.Percent
	case UnitsDegrees:
		return f.Degrees
	default:
		return f.Number
	}
}

// Month returns the full localized month name (1 = January).
func (f *Formatter) Month(m time.Month) string {
	d := time.Date(2000, m, 1, 0, 0, 0, 0, time.UTC)
	return monday.Format(d, "January", f.locale)
}

// Date formats t with a Go layout, translating month and weekday names.
func (f *Formatter) Date(t time.Time, layout string) string {
	return monday.Format(t, layout, f.locale)
}

// Date layouts used for axis labels.
const (
	LayoutYear       = "2006"
	LayoutShortMonth = "Jan"
	LayoutMonthYear  = "Jan\n2006"
	LayoutDayMonth   = "2 Jan"
	LayoutWeekday    = "Mon"
	LayoutWeekdayDM  = "Mon 2/1"
)

// IsRTL reports whether the language is written right to left.
func (f *Formatter) IsRTL() bool {
	base, _ := f.Tag.Base()
	switch base.String() {
	case "ar", "fa", "he", "ur", "ps", "sd", "yi", "dv", "ug", "ckb":
		return true
	}
	return false
}

func round(x float64, d int) float64 {
	p := math.Pow(10, float64(d))
	return math.Round(x*p) / p
}

func mondayLocale(t language.Tag) monday.Locale {
	base, _ := t.Base()
	region, _ := t.Region()
	candidate := monday.Locale(base.String() + "_" + region.String())
	for _, l := range monday.ListLocales() {
		if l == candidate {
			return l
		}
	}
	// Fall back to any locale of the same language.
	for _, l := range monday.ListLocales() {
		if strings.HasPrefix(string(l), base.String()+"_") {
			return l
		}
	}
	return monday.LocaleEnUS
}
