package datawrapper

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jplusplus/nwcharts/pkg/errors"
)

func TestNewRequiresToken(t *testing.T) {
	if _, err := New(""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
	t.Setenv(TokenEnv, "")
	if _, err := FromEnv(); err == nil {
		t.Error("FromEnv with empty env should fail")
	}
}

func TestRoundTrip(t *testing.T) {
	var csvBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization = %q", got)
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v3/charts":
			var obj map[string]any
			if err := json.NewDecoder(r.Body).Decode(&obj); err != nil {
				t.Errorf("decode chart object: %v", err)
			}
			if obj["type"] != "d3-lines" {
				t.Errorf("type = %v", obj["type"])
			}
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"id":"abc12"}`)
		case r.Method == http.MethodPut && r.URL.Path == "/v3/charts/abc12/data":
			if ct := r.Header.Get("Content-Type"); ct != "text/csv" {
				t.Errorf("content type = %q", ct)
			}
			b, _ := io.ReadAll(r.Body)
			csvBody = string(b)
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodGet && r.URL.Path == "/v3/charts/abc12/export/png":
			if r.URL.Query().Get("width") != "600" {
				t.Errorf("width = %q", r.URL.Query().Get("width"))
			}
			if r.URL.Query().Has("height") {
				t.Error("zero height should not be sent")
			}
			io.WriteString(w, "PNGDATA")
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	c, err := New("secret", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	id, err := c.CreateChart(ctx, map[string]any{"type": "d3-lines"})
	if err != nil {
		t.Fatal(err)
	}
	if id != "abc12" {
		t.Errorf("id = %s", id)
	}
	if err := c.UploadData(ctx, id, [][]string{{"", "a"}, {"2020", "1.5"}}); err != nil {
		t.Fatal(err)
	}
	if csvBody != ",a\n2020,1.5\n" {
		t.Errorf("csv = %q", csvBody)
	}
	data, err := c.Export(ctx, id, "png", ExportOptions{Width: 600})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "PNGDATA" {
		t.Errorf("export = %q", data)
	}
}

func TestNotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, _ := New("secret", WithBaseURL(srv.URL))
	_, err := c.Export(context.Background(), "missing", "png", ExportOptions{})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestServerErrorIsRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, `{"id":"x1"}`)
	}))
	defer srv.Close()

	c, _ := New("secret", WithBaseURL(srv.URL))
	id, err := c.CreateChart(context.Background(), map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	if id != "x1" || calls.Load() != 2 {
		t.Errorf("id = %s after %d calls", id, calls.Load())
	}
}

func TestStringHidesToken(t *testing.T) {
	c, _ := New("secret")
	if strings.Contains(c.String(), "secret") {
		t.Error("String leaks the token")
	}
}
