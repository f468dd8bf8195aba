package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jplusplus/nwcharts/pkg/cache"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/geo"
	"github.com/jplusplus/nwcharts/pkg/storage"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("NWC_SET", "hello")
	t.Setenv("NWC_EMPTY", "")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bracket syntax", "${NWC_SET}", "hello"},
		{"embedded in text", "prefix-${NWC_SET}-suffix", "prefix-hello-suffix"},
		{"unset", "${NWC_UNSET}", ""},
		{"unset with default", "${NWC_UNSET:-default}", "default"},
		{"empty with default", "${NWC_EMPTY:-default}", "default"},
		{"set with default", "${NWC_SET:-default}", "hello"},
		{"default with colon", "${NWC_UNSET:-localhost:6379}", "localhost:6379"},
		{"bare dollar kept", "pa$$word $NWC_SET", "pa$$word $NWC_SET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandEnv(tt.input)
			if err != nil {
				t.Fatalf("ExpandEnv(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ExpandEnv(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandEnvRequired(t *testing.T) {
	_, err := ExpandEnv("${NWC_UNSET:?set the bucket}")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ExpandEnv(required) = %v, want INVALID_INPUT", err)
	}
}

func TestParse(t *testing.T) {
	t.Setenv("NWC_BUCKET", "charts")

	cfg, err := Parse([]byte(`
[defaults]
style = "newsworthy"
language = "sv-SE"
width = 600
formats = ["png", "svg"]

[storage]
backend = "s3"

[storage.s3]
bucket = "${NWC_BUCKET}"
region = "${NWC_REGION:-eu-north-1}"

[cache]
backend = "redis"
ttl = "72h"
prefix = "newsroom:"

[cache.redis]
addr = "redis:6379"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Defaults.Language != "sv-SE" || cfg.Defaults.Width != 600 {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if cfg.Storage.S3.Bucket != "charts" || cfg.Storage.S3.Region != "eu-north-1" {
		t.Errorf("s3 = %+v", cfg.Storage.S3)
	}
	if cfg.Cache.TTL != 72*time.Hour {
		t.Errorf("ttl = %v", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("unset sections should keep defaults, server addr = %q", cfg.Server.Addr)
	}
	if _, ok := cfg.Keyer().(*cache.ScopedKeyer); !ok {
		t.Error("a cache prefix should give a scoped keyer")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[defaults\n"},
		{"unknown key", "[defaults]\ncolour = \"red\"\n"},
		{"unknown storage", "[storage]\nbackend = \"ftp\"\n"},
		{"unknown cache", "[cache]\nbackend = \"memcached\"\n"},
		{"negative width", "[defaults]\nwidth = -1\n"},
		{"missing env", "[storage]\ndir = \"${NWC_UNSET:?output dir}\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Parse() = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// A missing default file gives the defaults.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(default): %v", err)
	}
	if cfg.Storage.Backend != "local" || cfg.Cache.Backend != "file" {
		t.Errorf("defaults = %+v", cfg)
	}

	// A missing explicit file is an error.
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load(missing explicit file) should fail")
	}

	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"none\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("cache backend = %q, want none", cfg.Cache.Backend)
	}
}

func TestCacheDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	got, err := CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "nwcharts"); got != want {
		t.Errorf("CacheDir() = %q, want %q", got, want)
	}

	cfg := Default()
	cfg.Cache.Dir = "/tmp/custom"
	if got, _ := cfg.CacheDir(); got != "/tmp/custom" {
		t.Errorf("configured dir ignored: %q", got)
	}
}

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		backend string
		want    string
	}{
		{"local", "local"},
		{"memory", "memory"},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := Default()
			cfg.Storage.Backend = tt.backend
			cfg.Storage.Dir = t.TempDir()
			s, closeFn, err := cfg.OpenStorage(ctx)
			if err != nil {
				t.Fatal(err)
			}
			defer closeFn(ctx)
			if got := storage.Name(s); got != tt.want {
				t.Errorf("backend = %q, want %q", got, tt.want)
			}
		})
	}

	cfg := Default()
	cfg.Storage.Backend = "ftp"
	if _, _, err := cfg.OpenStorage(ctx); err == nil {
		t.Error("unknown backend should fail")
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	cfg := Default()
	cfg.Cache.Dir = t.TempDir()
	c, err := cfg.OpenCache(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("file backend gave %T", c)
	}

	c, err = cfg.OpenCache(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("noCache gave %T", c)
	}

	cfg.Cache.Backend = "none"
	c, _ = cfg.OpenCache(ctx, false)
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("none backend gave %T", c)
	}
}

func TestLoadMaps(t *testing.T) {
	dir := t.TempDir()
	square := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"id":"A"},` +
		`"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}}]}`
	if err := os.WriteFile(filepath.Join(dir, "xx-1.geojson"), []byte(square), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	reg := geo.NewRegistry()
	if n, err := cfg.LoadMaps(reg); err != nil || n != 0 {
		t.Errorf("LoadMaps without dir = %d, %v", n, err)
	}

	cfg.Maps.Dir = dir
	n, err := cfg.LoadMaps(reg)
	if err != nil {
		t.Fatalf("LoadMaps: %v", err)
	}
	if n != 1 {
		t.Errorf("loaded %d maps, want 1", n)
	}
	if _, err := reg.Get("xx-1"); err != nil {
		t.Errorf("Get(xx-1): %v", err)
	}
}

func TestChartOptions(t *testing.T) {
	cfg := Default()
	cfg.Defaults.Style = "dark"
	cfg.Defaults.StyleDirs = []string{t.TempDir()}
	opts := cfg.ChartOptions()
	if opts.Style != "dark" || opts.Width != 800 {
		t.Errorf("ChartOptions() = %+v", opts)
	}
	if opts.StyleResolver == nil {
		t.Error("style dirs should give a resolver")
	}
}
