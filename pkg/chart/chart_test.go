package chart

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/jplusplus/nwcharts/pkg/dataset"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/geo"
	"github.com/jplusplus/nwcharts/pkg/render"
	"github.com/jplusplus/nwcharts/pkg/storage"
)

// series builds a series from key/value pairs. A nil value is missing.
func series(kv ...any) dataset.Series {
	var s dataset.Series
	for i := 0; i+1 < len(kv); i += 2 {
		p := dataset.Point{Key: kv[i].(string)}
		switch v := kv[i+1].(type) {
		case float64:
			p.Value = dataset.Float(v)
		case int:
			p.Value = dataset.Float(float64(v))
		case string:
			p.Text = v
		}
		s = append(s, p)
	}
	return s
}

func testOptions() Options {
	return Options{
		Width:   600,
		Height:  400,
		Storage: storage.NewMemory(),
		Logger:  log.New(io.Discard),
		Maps:    testMaps(),
	}
}

func newTestChart(t *testing.T, kind string) *Chart {
	t.Helper()
	c, err := New(kind, testOptions())
	if err != nil {
		t.Fatalf("New(%q): %v", kind, err)
	}
	return c
}

func figure(t *testing.T, c *Chart) *render.Figure {
	t.Helper()
	fig, err := c.Figure(RenderOptions{})
	if err != nil {
		t.Fatalf("Figure: %v", err)
	}
	return fig
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"SerialChart", SerialChart},
		{"serial", SerialChart},
		{"serial_chart", SerialChart},
		{"seasonal-chart", SeasonalChart},
		{"categorical", CategoricalChart},
		{"CategoricalChartWithReference", CategoricalChartWithReference},
		{"scatter", ScatterPlot},
		{"range", RangePlot},
		{"choropleth", ChoroplethMap},
		{"Stripe Chart", StripeChart},
		{"datawrapper", DatawrapperChart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(tt.name)
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if got != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, name := range []string{"", "pie", "serialx"} {
		if _, err := New(name, testOptions()); !errors.Is(err, errors.ErrCodeInvalidChartType) {
			t.Errorf("New(%q) error = %v, want INVALID_CHART_TYPE", name, err)
		}
	}
}

func TestTypes(t *testing.T) {
	types := Types()
	if len(types) != len(engines) {
		t.Fatalf("Types() = %d names, want %d", len(types), len(engines))
	}
	for i := 1; i < len(types); i++ {
		if types[i-1] >= types[i] {
			t.Errorf("Types() not sorted: %v", types)
		}
	}
}

func TestEmptyChartsRender(t *testing.T) {
	for _, kind := range Types() {
		if kind == DatawrapperChart {
			continue
		}
		t.Run(kind, func(t *testing.T) {
			c := newTestChart(t, kind)
			c.Title = "Nothing yet"
			fig := figure(t, c)
			if fig.Width != 600 || fig.Height != 400 {
				t.Errorf("size = %vx%v, want 600x400", fig.Width, fig.Height)
			}
			if _, err := c.Encode(context.Background(), "png", RenderOptions{}); err != nil {
				t.Errorf("Encode: %v", err)
			}
		})
	}
}

func TestFigureIsDeterministic(t *testing.T) {
	build := func() *render.Figure {
		c := newTestChart(t, SerialChart)
		c.Title = "Unemployment"
		c.Data = dataset.List{
			series("2015-01-01", 7.4, "2016-01-01", 6.9, "2017-01-01", nil, "2018-01-01", 6.3),
			series("2015-01-01", 5.1, "2016-01-01", 5.3, "2017-01-01", 5.6, "2018-01-01", 5.8),
		}
		c.Type = StringList{TypeLine}
		c.Labels = []string{"Men", "Women"}
		return figure(t, c)
	}
	a, b := build(), build()
	if !reflect.DeepEqual(a, b) {
		t.Error("two builds of the same chart differ")
	}
}

func TestRenderJPEGAlias(t *testing.T) {
	opts := testOptions()
	mem := storage.NewMemory()
	opts.Storage = mem
	c, err := New(CategoricalChart, opts)
	if err != nil {
		t.Fatal(err)
	}
	c.Data = dataset.List{series("a", 1, "b", 2)}

	ctx := context.Background()
	loc1, err := c.Render(ctx, "chart", "jpeg", RenderOptions{})
	if err != nil {
		t.Fatalf("Render jpeg: %v", err)
	}
	loc2, err := c.Render(ctx, "chart", "jpg", RenderOptions{})
	if err != nil {
		t.Fatalf("Render jpg: %v", err)
	}
	if loc1 != loc2 || loc1 != "mem://chart.jpg" {
		t.Errorf("locations = %q, %q, want mem://chart.jpg twice", loc1, loc2)
	}
	if names := mem.Names(); len(names) != 1 {
		t.Errorf("stored %v, want one object", names)
	}
	obj, _ := mem.Get("chart.jpg")
	if !bytes.HasPrefix(obj.Data, []byte{0xff, 0xd8}) {
		t.Error("stored object is not a JPG")
	}
}

func TestRenderValidatesBeforeWriting(t *testing.T) {
	mem := storage.NewMemory()
	opts := testOptions()
	opts.Storage = mem
	c, _ := New(SerialChart, opts)
	c.Data = dataset.List{series("2016", 1, "2016", 2)}

	tests := []struct {
		name   string
		key    string
		format string
		code   errors.Code
	}{
		{"bad format", "chart", "gif", errors.ErrCodeInvalidFormat},
		{"bad key", "../chart", "png", errors.ErrCodeInvalidKey},
		{"duplicate timepoint", "chart", "png", errors.ErrCodeDuplicateTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Render(context.Background(), tt.key, tt.format, RenderOptions{})
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
	if len(mem.Names()) != 0 {
		t.Errorf("failed renders wrote %v", mem.Names())
	}
}

func TestRenderAll(t *testing.T) {
	mem := storage.NewMemory()
	opts := testOptions()
	opts.Storage = mem
	c, _ := New(CategoricalChart, opts)
	c.Data = dataset.List{series("a", 1, "b", 2)}

	locs, err := c.RenderAll(context.Background(), "all", RenderOptions{})
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	if len(locs) != len(c.Formats()) {
		t.Errorf("RenderAll saved %d files, want %d", len(locs), len(c.Formats()))
	}
	if _, ok := mem.Get("all.svg"); !ok {
		t.Error("all.svg missing")
	}
}

func TestRenderBatchScalesHeight(t *testing.T) {
	mem := storage.NewMemory()
	opts := testOptions()
	opts.Storage = mem
	c, _ := New(CategoricalChart, opts)
	c.Data = dataset.List{series("a", 1, "b", 2)}

	locs, err := c.RenderBatch(context.Background(), "batch", []Variant{
		{Suffix: "-small", Format: "svg", Width: 300},
		{Suffix: "-large", Format: "png", Width: 1200, RenderOptions: RenderOptions{Factor: 2}},
	})
	if err != nil {
		t.Fatalf("RenderBatch: %v", err)
	}
	want := []string{"mem://batch-small.svg", "mem://batch-large.png"}
	if !reflect.DeepEqual(locs, want) {
		t.Errorf("locations = %v, want %v", locs, want)
	}
	if w, h := c.Size(); w != 600 || h != 400 {
		t.Errorf("RenderBatch changed the chart size to %vx%v", w, h)
	}
}

func TestSizeValidation(t *testing.T) {
	opts := testOptions()
	opts.Width = 0
	c, _ := New(SerialChart, opts)
	if _, err := c.Figure(RenderOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("zero width error = %v, want INVALID_INPUT", err)
	}
}

func TestAutoHeight(t *testing.T) {
	opts := testOptions()
	opts.Height = 0
	tests := []struct {
		kind string
		data dataset.List
		want float64
	}{
		{SerialChart, nil, 600},
		{StripeChart, nil, 300},
		{ProgressChart, dataset.List{series("a", 1, "b", 2)}, 180},
		{CategoricalChart, dataset.List{series("a", 1, "b", 2)}, 300},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			c, _ := New(tt.kind, opts)
			c.Data = tt.data
			if _, h := c.Size(); h != tt.want {
				t.Errorf("height = %v, want %v", h, tt.want)
			}
		})
	}
}

func TestUnknownStyleAndLanguage(t *testing.T) {
	opts := testOptions()
	opts.Style = "no-such-style"
	c, _ := New(SerialChart, opts)
	if _, err := c.Figure(RenderOptions{}); !errors.Is(err, errors.ErrCodeStyleNotFound) {
		t.Errorf("style error = %v, want STYLE_NOT_FOUND", err)
	}

	opts = testOptions()
	opts.Language = "not a language!"
	c, _ = New(SerialChart, opts)
	if _, err := c.Figure(RenderOptions{}); !errors.Is(err, errors.ErrCodeInvalidLanguage) {
		t.Errorf("language error = %v, want INVALID_LANGUAGE", err)
	}
}

func TestInvalidColors(t *testing.T) {
	badRule := ColorFn{Func: func(*float64) string { return "reddish" }}
	tests := []struct {
		name    string
		kind    string
		colors  []string
		colorFn ColorFn
		wantErr string
	}{
		{"role", SerialChart, []string{"strong"}, ColorFn{}, ""},
		{"hex", CategoricalChart, []string{"#ff0000"}, ColorFn{}, ""},
		{"bad series color", SerialChart, []string{"not-a-color"}, ColorFn{}, "not-a-color"},
		{"bad second color", CategoricalChart, []string{"red", "blurple"}, ColorFn{}, "colors[1]"},
		{"bad rule output", SerialChart, nil, badRule, "reddish"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChart(t, tt.kind)
			c.Data = dataset.List{series("2016", 1, "2017", 2)}
			c.Colors = tt.colors
			c.ColorFn = tt.colorFn
			_, err := c.Figure(RenderOptions{})
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Figure: %v", err)
				}
				return
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("error = %v, want INVALID_INPUT", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not name %q", err, tt.wantErr)
			}
		})
	}
}

func TestInvalidUnits(t *testing.T) {
	c := newTestChart(t, SerialChart)
	c.Units = "parsecs"
	if _, err := c.Figure(RenderOptions{}); !errors.Is(err, errors.ErrCodeInvalidUnits) {
		t.Errorf("error = %v, want INVALID_UNITS", err)
	}
}

func TestHeaderAndFooter(t *testing.T) {
	c := newTestChart(t, CategoricalChart)
	c.Title = "Title"
	c.Subtitle = "Subtitle"
	c.Note = "Note"
	c.Caption = "Source: SCB"
	fig := figure(t, c)

	if len(fig.Header) < 2 || fig.Header[0].Text != "Title" || fig.Header[1].Text != "Subtitle" {
		t.Errorf("header = %+v", fig.Header)
	}
	if !fig.Header[0].Font.Bold {
		t.Error("title is not bold in the default style")
	}
	if len(fig.Footer) < 2 || fig.Footer[0].Text != "Note" || fig.Footer[1].Text != "Source: SCB" {
		t.Errorf("footer = %+v", fig.Footer)
	}
	if fig.Metadata["Title"] != "Title" {
		t.Errorf("metadata title = %q", fig.Metadata["Title"])
	}
}

func TestAnnotations(t *testing.T) {
	c := newTestChart(t, CategoricalChart)
	c.Data = dataset.List{series("a", 1, "b", 2)}
	c.Annotations = []Annotation{{X: "b", Y: 2, Text: "peak", Direction: render.Right}}
	fig := figure(t, c)

	var found bool
	for _, a := range render.Collect[render.Annotation](fig) {
		if a.Text == "peak" {
			found = true
			// Horizontal bars: values on x, categories on y; "b" is the
			// second category so it sits at y = 0.
			if a.X != 2 || a.Y != 0 || a.Direction != render.Right {
				t.Errorf("annotation = %+v", a)
			}
		}
	}
	if !found {
		t.Error("annotation not drawn")
	}

	c.Annotations = []Annotation{{X: "a", Y: 1, Text: "x", Direction: "sideways"}}
	if _, err := c.Figure(RenderOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad direction error = %v, want INVALID_INPUT", err)
	}
}

// testMaps registers a four region "se-7" map.
func testMaps() *geo.Registry {
	r := geo.NewRegistry()
	fc := []byte(`{"type":"FeatureCollection","features":[` +
		square("SE-0114", 17, 59) + "," +
		square("SE-0180", 18, 59) + "," +
		square("SE-0381", 17, 60) + "," +
		square("SE-1280", 13, 55) + `]}`)
	if err := r.Register("se-7", fc); err != nil {
		panic(err)
	}
	return r
}

func square(id string, lon, lat float64) string {
	return `{"type":"Feature","id":"` + id + `","properties":{"name":"` + id + `"},` +
		`"geometry":{"type":"Polygon","coordinates":[[` +
		point(lon, lat) + "," + point(lon+1, lat) + "," + point(lon+1, lat+1) + "," +
		point(lon, lat+1) + "," + point(lon, lat) + `]]}}`
}

func point(lon, lat float64) string {
	return "[" + dataset.ToString(lon) + "," + dataset.ToString(lat) + "]"
}
