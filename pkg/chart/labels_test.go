package chart

import (
	"testing"

	"github.com/jplusplus/nwcharts/pkg/dataset"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/render"
)

func TestPlaceLabels(t *testing.T) {
	bounds := box{0, 0, 100, 100}
	tests := []struct {
		name string
		reqs []labelRequest
		want []string
	}{
		{
			name: "room on the right",
			reqs: []labelRequest{{X: 10, Y: 50, Width: 20, Height: 10}},
			want: []string{render.Right},
		},
		{
			name: "edge forces left",
			reqs: []labelRequest{{X: 90, Y: 50, Width: 20, Height: 10}},
			want: []string{render.Left},
		},
		{
			name: "second label avoids the first",
			reqs: []labelRequest{
				{X: 40, Y: 50, Width: 20, Height: 10},
				{X: 40, Y: 52, Width: 20, Height: 10},
			},
			want: []string{render.Right, render.Left},
		},
		{
			name: "no room is skipped",
			reqs: []labelRequest{{X: 50, Y: 50, Width: 200, Height: 200}},
			want: []string{""},
		},
		{
			name: "highlight always placed",
			reqs: []labelRequest{{X: 50, Y: 50, Width: 200, Height: 200, Highlight: true}},
			want: []string{render.Right},
		},
		{
			name: "highlight placed first",
			reqs: []labelRequest{
				{X: 40, Y: 52, Width: 20, Height: 10},
				{X: 40, Y: 50, Width: 20, Height: 10, Highlight: true},
			},
			want: []string{render.Left, render.Right},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := placeLabels(tt.reqs, bounds, 5, 2)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("placeLabels = %q, want %q", got, tt.want)
					break
				}
			}
		})
	}
}

func TestScatter(t *testing.T) {
	c := newTestChart(t, ScatterPlot)
	c.Data = dataset.List{dataset.Series{
		{Key: "1", Value: dataset.Float(2), Text: "Stockholm"},
		{Key: "3", Value: dataset.Float(4), Text: "Malmö"},
		{Key: "5", Value: dataset.Float(1)},
	}}
	c.Highlight = StringList{"Malmö"}
	fig := figure(t, c)

	if n := len(render.Collect[render.Marker](fig)); n != 3 {
		t.Errorf("got %d markers, want 3", n)
	}
	if fig.Axes.X.Min >= 1 || fig.Axes.X.Max <= 5 || fig.Axes.Y.Min >= 1 || fig.Axes.Y.Max <= 4 {
		t.Errorf("axes do not contain the data: x [%v, %v] y [%v, %v]",
			fig.Axes.X.Min, fig.Axes.X.Max, fig.Axes.Y.Min, fig.Axes.Y.Max)
	}
	var labelled bool
	for _, a := range render.Collect[render.Annotation](fig) {
		if a.Text == "Malmö" {
			labelled = true
		}
	}
	if !labelled {
		t.Error("highlighted point is not labelled")
	}
}

func TestScatterNonNumericX(t *testing.T) {
	c := newTestChart(t, ScatterPlot)
	c.Data = dataset.List{series("abc", 1)}
	if _, err := c.Figure(RenderOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}
