package chart

import (
	"reflect"
	"testing"

	"github.com/jplusplus/nwcharts/pkg/colors"
	"github.com/jplusplus/nwcharts/pkg/dataset"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/render"
)

func fills(fig *render.Figure) map[string]render.Polygon {
	out := map[string]render.Polygon{}
	for _, p := range render.Collect[render.Polygon](fig) {
		out[p.Key] = p
	}
	return out
}

func TestChoroplethNumeric(t *testing.T) {
	c := newTestChart(t, ChoroplethMap)
	c.Data = dataset.List{series("SE-0114", 1, "0180", 2, "se-0381", 10)}
	c.Highlight = StringList{"0180"}
	fig := figure(t, c)

	polys := fills(fig)
	if len(polys) != 4 {
		t.Fatalf("got %d regions, want 4", len(polys))
	}
	if polys["SE-1280"].Fill != colors.MustParse(colors.Missing) {
		t.Errorf("region without data = %v, want the missing color", polys["SE-1280"].Fill)
	}
	if polys["SE-0114"].Fill == polys["SE-0381"].Fill {
		t.Error("lowest and highest values share a class")
	}
	if polys["SE-0180"].StrokeWidth != 1.5 || polys["SE-0114"].StrokeWidth == 1.5 {
		t.Error("highlight stroke not applied to SE-0180 only")
	}
	if !fig.Axes.Hidden || !fig.Axes.EqualAspect {
		t.Errorf("axes = %+v", fig.Axes)
	}
	last := fig.Legend.Entries[len(fig.Legend.Entries)-1]
	if last.Label != "No data" {
		t.Errorf("last legend entry = %q, want No data", last.Label)
	}
}

func TestChoroplethCategorical(t *testing.T) {
	c := newTestChart(t, ChoroplethMap)
	c.Data = dataset.List{series("SE-0114", "yes", "SE-0180", "no", "SE-0381", "yes")}
	c.MissingLabel = "Unknown"
	fig := figure(t, c)

	polys := fills(fig)
	if polys["SE-0114"].Fill != polys["SE-0381"].Fill || polys["SE-0114"].Fill == polys["SE-0180"].Fill {
		t.Error("categories are not colored consistently")
	}
	var labels []string
	for _, e := range fig.Legend.Entries {
		labels = append(labels, e.Label)
	}
	if want := []string{"yes", "no", "Unknown"}; !reflect.DeepEqual(labels, want) {
		t.Errorf("legend = %v, want %v", labels, want)
	}
}

func TestChoroplethUnknownRegion(t *testing.T) {
	c := newTestChart(t, ChoroplethMap)
	c.Data = dataset.List{series("SE-9999", 1)}
	if _, err := c.Figure(RenderOptions{}); !errors.Is(err, errors.ErrCodeRegionNotFound) {
		t.Errorf("error = %v, want REGION_NOT_FOUND", err)
	}
}

func TestChoroplethUnknownBaseMap(t *testing.T) {
	c := newTestChart(t, ChoroplethMap)
	c.BaseMap = "xx-1"
	if _, err := c.Figure(RenderOptions{}); !errors.Is(err, errors.ErrCodeInvalidBaseMap) {
		t.Errorf("error = %v, want INVALID_BASE_MAP", err)
	}
}

func TestBinBreaks(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tests := []struct {
		name    string
		cfg     Config
		want    []float64
		wantErr bool
	}{
		{"explicit", Config{Bins: []float64{5, 2, 5}}, []float64{2, 5}, false},
		{"equal", Config{Binning: BinningEqual, NumBins: 3}, []float64{4, 7}, false},
		{"quantile count", Config{NumBins: 2}, nil, false},
		{"unknown", Config{Binning: "jenks"}, nil, true},
		{"negative count", Config{NumBins: -1}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := binBreaks(&tt.cfg, values)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("error = %v, want INVALID_INPUT", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if tt.want != nil && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("breaks = %v, want %v", got, tt.want)
			}
			if tt.want == nil && len(got) != tt.cfg.NumBins-1 {
				t.Errorf("got %d breaks, want %d", len(got), tt.cfg.NumBins-1)
			}
		})
	}
}

func TestBinBreaksConstantValues(t *testing.T) {
	got, err := binBreaks(&Config{}, []float64{3, 3, 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("breaks = %v, want none", got)
	}
}
