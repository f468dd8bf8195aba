package chart

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jplusplus/nwcharts/pkg/dataset"
	"github.com/jplusplus/nwcharts/pkg/datawrapper"
	"github.com/jplusplus/nwcharts/pkg/errors"
)

func TestDatawrapperChart(t *testing.T) {
	t.Setenv(datawrapper.TokenEnv, "secret")
	var created map[string]any
	var csvBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v3/charts":
			if err := json.NewDecoder(r.Body).Decode(&created); err != nil {
				t.Errorf("decode: %v", err)
			}
			io.WriteString(w, `{"id":"x1"}`)
		case r.Method == http.MethodPut && r.URL.Path == "/v3/charts/x1/data":
			b, _ := io.ReadAll(r.Body)
			csvBody = string(b)
		case r.Method == http.MethodGet && r.URL.Path == "/v3/charts/x1/export/png":
			if got := r.URL.Query().Get("scale"); got != "2" {
				t.Errorf("scale = %q, want 2", got)
			}
			io.WriteString(w, "PNG")
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	opts := testOptions()
	opts.DatawrapperURL = srv.URL
	opts.HTTPClient = srv.Client()
	c, err := New(DatawrapperChart, opts)
	if err != nil {
		t.Fatal(err)
	}
	c.Title = "Prices"
	c.Caption = "Source: SCB"
	c.Labels = []string{"Milk", "Bread"}
	c.Highlight = StringList{"Bread"}
	c.DWData = map[string]any{"type": "d3-lines", "metadata": map[string]any{"visualize": map[string]any{"x": 1}}}
	c.Data = dataset.List{series("2020", 1, "2021", 2), series("2020", 3, "2021", nil)}

	data, err := c.Encode(context.Background(), "png", RenderOptions{Factor: 2})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(data) != "PNG" {
		t.Errorf("data = %q", data)
	}
	if created["title"] != "Prices" || created["language"] != DefaultLanguage {
		t.Errorf("chart object = %v", created)
	}
	source := created["metadata"].(map[string]any)["describe"].(map[string]any)["source-name"]
	if source != "Source: SCB" {
		t.Errorf("source-name = %v", source)
	}
	custom := created["metadata"].(map[string]any)["visualize"].(map[string]any)["custom-colors"].(map[string]any)
	if custom["Bread"] == custom["Milk"] {
		t.Errorf("custom colors = %v", custom)
	}
	want := ",Milk,Bread\n2020,1,3\n2021,2,\n"
	if csvBody != want {
		t.Errorf("csv = %q, want %q", csvBody, want)
	}
	if _, ok := c.DWData["title"]; ok {
		t.Error("Encode modified the caller's dw_data")
	}
}

func TestDatawrapperErrors(t *testing.T) {
	c := newTestChart(t, DatawrapperChart)
	if _, err := c.Encode(context.Background(), "svg", RenderOptions{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("svg error = %v, want INVALID_FORMAT", err)
	}
	if _, err := c.Figure(RenderOptions{}); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("figure error = %v, want UNSUPPORTED", err)
	}
	t.Setenv(datawrapper.TokenEnv, "")
	if _, err := c.Encode(context.Background(), "png", RenderOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing token error = %v, want INVALID_INPUT", err)
	}
	if got := c.Formats(); len(got) != 1 || !strings.EqualFold(got[0], "png") {
		t.Errorf("Formats() = %v", got)
	}
}
