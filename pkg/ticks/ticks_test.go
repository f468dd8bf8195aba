package ticks

import (
	"strconv"
	"testing"
	"time"
)

func date(y, m, d int) time.Time { return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC) }

func TestNice(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		want     []float64
	}{
		{"zero based", 0, 115, []float64{0, 25, 50, 75, 100}},
		{"negative", -10, 10, []float64{-10, -5, 0, 5, 10}},
		{"fractions", 0, 0.35, []float64{0, 0.1, 0.2, 0.3}},
		{"single value", 3, 3, []float64{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Nice(tt.min, tt.max, 6)
			if len(got) != len(tt.want) {
				t.Fatalf("Nice(%v, %v) = %v, want %v", tt.min, tt.max, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Nice(%v, %v)[%d] = %v, want %v", tt.min, tt.max, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNiceStaysInside(t *testing.T) {
	for _, r := range [][2]float64{{1.7, 9.3}, {-0.45, 3.2}, {1000, 1015}} {
		for _, v := range Nice(r[0], r[1], 6) {
			if v < r[0] || v > r[1] {
				t.Errorf("tick %v outside [%v, %v]", v, r[0], r[1])
			}
		}
	}
}

func fixedLabeler(v float64, d *int) string {
	n := 0
	if d != nil {
		n = *d
	}
	return strconv.FormatFloat(v, 'f', n, 64)
}

func TestLabelAddsDecimals(t *testing.T) {
	ticks, dec := Label([]float64{0, 0.5, 1, 1.5, 2}, fixedLabeler, nil)
	if dec == nil || *dec != 1 {
		t.Fatalf("decimals = %v, want 1", dec)
	}
	if len(ticks) != 5 || ticks[1].Label != "0.5" {
		t.Errorf("ticks = %v", ticks)
	}
}

func TestLabelKeepsExplicitDecimals(t *testing.T) {
	zero := 0
	ticks, dec := Label([]float64{0, 0.5, 1, 1.5, 2}, fixedLabeler, &zero)
	if *dec != 0 {
		t.Fatalf("decimals changed to %d", *dec)
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i].Label == ticks[i-1].Label {
			t.Errorf("duplicate label %q", ticks[i].Label)
		}
	}
	if len(ticks) != 3 {
		t.Errorf("expected whole-number ticks 0,1,2, got %v", ticks)
	}
}

func TestLabelWholeNumbersStayInRange(t *testing.T) {
	zero := 0
	tests := []struct {
		name   string
		values []float64
		want   []float64
	}{
		{"fractional ends", []float64{0.5, 1, 1.5, 2, 2.5}, []float64{1, 2}},
		{"negative", []float64{-1.5, -1, -0.5, 0, 0.5}, []float64{-1, 0}},
		{"no whole number", []float64{0.2, 0.4, 0.6}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticks, _ := Label(tt.values, fixedLabeler, &zero)
			lo, hi := tt.values[0], tt.values[len(tt.values)-1]
			for _, tk := range ticks {
				if tk.Value < lo || tk.Value > hi {
					t.Errorf("tick %v outside [%v, %v]", tk.Value, lo, hi)
				}
			}
			if tt.want == nil {
				return
			}
			if len(ticks) != len(tt.want) {
				t.Fatalf("ticks = %v, want values %v", ticks, tt.want)
			}
			for i, w := range tt.want {
				if ticks[i].Value != w {
					t.Errorf("tick %d = %v, want %v", i, ticks[i].Value, w)
				}
			}
		})
	}
}

func TestYearTicks(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       []int
	}{
		{"few years", date(2015, 1, 1), date(2018, 1, 1), []int{2015, 2016, 2017, 2018}},
		{"decade", date(2000, 1, 1), date(2020, 1, 1), []int{2000, 2005, 2010, 2015, 2020}},
		{"mid year start", date(2014, 6, 1), date(2018, 1, 1), []int{2015, 2016, 2017, 2018}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := YearTicks(tt.start, tt.end, DefaultMaxYearTicks)
			if len(got) != len(tt.want) {
				t.Fatalf("YearTicks = %v, want years %v", got, tt.want)
			}
			for i, y := range tt.want {
				if got[i].Year() != y {
					t.Errorf("tick %d = %d, want %d", i, got[i].Year(), y)
				}
			}
		})
	}
}

func TestBestLocator(t *testing.T) {
	day := 24 * time.Hour
	tests := []struct {
		delta  time.Duration
		points int
		want   Locator
	}{
		{365 * 200 * day, 10, Locator{LocateYears, 100}},
		{365 * 50 * day, 10, Locator{LocateYears, 20}},
		{365 * 10 * day, 30, Locator{LocateYears, 10}},
		{365 * 10 * day, 15, Locator{LocateYears, 5}},
		{365 * 10 * day, 8, Locator{LocateYears, 2}},
		{365 * 3 * day, 3, Locator{LocateYears, 1}},
		{90 * day, 3, Locator{LocateMonths, 1}},
		{10 * day, 10, Locator{LocateDays, 1}},
	}
	for _, tt := range tests {
		if got := BestLocator(tt.delta, tt.points); got != tt.want {
			t.Errorf("BestLocator(%v, %d) = %v, want %v", tt.delta, tt.points, got, tt.want)
		}
	}
}

func TestLocatorDates(t *testing.T) {
	months := Locator{LocateMonths, 1}.Dates(date(2019, 1, 1), date(2019, 6, 1), 12)
	if len(months) != 6 {
		t.Errorf("months = %d, want 6", len(months))
	}

	days := Locator{LocateDays, 1}.Dates(date(2019, 1, 1), date(2019, 1, 31), 8)
	if len(days) > 8 {
		t.Errorf("days not thinned: %d", len(days))
	}
	if !days[len(days)-1].Equal(date(2019, 1, 31)) {
		t.Errorf("last day tick = %v", days[len(days)-1])
	}
}

func TestDayNumberRoundTrip(t *testing.T) {
	d := date(2019, 3, 4)
	if got := FromDayNumber(DayNumber(d)); !got.Equal(d) {
		t.Errorf("round trip = %v", got)
	}
}
