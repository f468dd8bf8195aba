package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/jplusplus/nwcharts/pkg/cache"
	"github.com/jplusplus/nwcharts/pkg/chart"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/pipeline"
	"github.com/jplusplus/nwcharts/pkg/storage"
)

const definition = `
chart: categorical
width: 300
height: 200
title: Fruit
data:
  - - ["Apples", 3]
    - ["Pears", 5]
`

func newTestServer(t *testing.T) (*httptest.Server, *storage.Memory) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	mem := storage.NewMemory()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(c, nil, logger)
	runner.Defaults = chart.Options{Storage: mem}

	ts := httptest.NewServer(New(Config{MaxBodyBytes: 4096}, runner, logger).Handler())
	t.Cleanup(func() {
		ts.Close()
		runner.Close()
	})
	return ts, mem
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/yaml", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	decode(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestListings(t *testing.T) {
	ts, _ := newTestServer(t)
	tests := []struct {
		path string
		key  string
		want string
	}{
		{"/v1/types", "types", chart.SerialChart},
		{"/v1/styles", "styles", "newsworthy"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			var body map[string][]string
			decode(t, resp, &body)
			found := false
			for _, v := range body[tt.key] {
				found = found || v == tt.want
			}
			if !found {
				t.Errorf("%s = %v, missing %q", tt.path, body[tt.key], tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	ts, mem := newTestServer(t)

	resp := post(t, ts.URL+"/v1/render?format=svg", definition)
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, b)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get("X-Cache") != "miss" {
		t.Errorf("first render X-Cache = %q", resp.Header.Get("X-Cache"))
	}
	first, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(first, []byte("<svg")) {
		t.Error("body is not an svg")
	}

	again := post(t, ts.URL+"/v1/render?format=svg", definition)
	if again.Header.Get("X-Cache") != "hit" {
		t.Errorf("second render X-Cache = %q", again.Header.Get("X-Cache"))
	}
	second, _ := io.ReadAll(again.Body)
	if !bytes.Equal(first, second) {
		t.Error("cached render differs")
	}

	if len(mem.Names()) != 0 {
		t.Errorf("render should not save, have %v", mem.Names())
	}
}

func TestRenderDefaultsToPNG(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := post(t, ts.URL+"/v1/render", definition)
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRenderJPEGAlias(t *testing.T) {
	ts, _ := newTestServer(t)
	for _, format := range []string{"jpeg", "JPG"} {
		t.Run(format, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/render?format="+format, definition)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
				t.Errorf("Content-Type = %q", ct)
			}
			body, _ := io.ReadAll(resp.Body)
			if !bytes.HasPrefix(body, []byte{0xff, 0xd8}) {
				t.Error("body is not a jpeg")
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	ts, _ := newTestServer(t)
	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   errors.Code
	}{
		{"bad format", "?format=gif", definition, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad chart", "?chart=pie", definition, http.StatusBadRequest, errors.ErrCodeInvalidChartType},
		{"bad width", "?width=wide", definition, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad boolean", "?transparent=maybe", definition, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"no size", "", "chart: categorical\n", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"too large", "", definition + strings.Repeat("#", 5000), http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/render"+tt.query, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body errorResponse
			decode(t, resp, &body)
			if body.Code != string(tt.code) {
				t.Errorf("code = %q, want %s (%s)", body.Code, tt.code, body.Error)
			}
		})
	}
}

func TestCreateAndGetChart(t *testing.T) {
	ts, mem := newTestServer(t)

	resp := post(t, ts.URL+"/v1/charts?formats=png,svg", definition)
	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, b)
	}
	var created ChartResponse
	decode(t, resp, &created)
	if created.Chart != chart.CategoricalChart {
		t.Errorf("chart = %q", created.Chart)
	}
	if got, want := created.Locations["png"], "mem://"+created.ID+".png"; got != want {
		t.Errorf("png location = %q, want %q", got, want)
	}
	if _, ok := mem.Get(created.ID + ".svg"); !ok {
		t.Errorf("svg not stored, have %v", mem.Names())
	}

	got, err := http.Get(ts.URL + "/v1/charts/" + created.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer got.Body.Close()
	def, _ := io.ReadAll(got.Body)
	if got.StatusCode != http.StatusOK || string(def) != definition {
		t.Errorf("GET chart = %d %q", got.StatusCode, def)
	}
}

func TestGetChartNotFound(t *testing.T) {
	ts, _ := newTestServer(t)
	for _, id := range []string{"not-a-uuid", "7b0c1a5e-4f4e-4c43-9d59-1d1f0b2f6a11"} {
		resp, err := http.Get(ts.URL + "/v1/charts/" + id)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", id, resp.StatusCode)
		}
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeStyleNotFound, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeStorage, "x"), http.StatusBadGateway},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusCode(tt.err); got != tt.want {
			t.Errorf("statusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
