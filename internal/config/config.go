// Package config loads the nwcharts configuration file.
//
// The file is TOML, by default ~/.config/nwcharts/config.toml. Values may
// reference environment variables as ${VAR} or ${VAR:-default}, which keeps
// credentials out of the file:
//
//	[defaults]
//	style = "newsworthy"
//	language = "sv-SE"
//	width = 800
//
//	[storage]
//	backend = "s3"
//
//	[storage.s3]
//	bucket = "charts"
//	access_key_id = "${AWS_ACCESS_KEY_ID}"
//
//	[cache]
//	backend = "redis"
//	ttl = "72h"
//
//	[cache.redis]
//	addr = "${REDIS_ADDR:-localhost:6379}"
//
// Command-line flags override file values.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jplusplus/nwcharts/pkg/errors"
)

const appName = "nwcharts"

// Config is the whole configuration file.
type Config struct {
	Defaults Defaults `toml:"defaults"`
	Storage  Storage  `toml:"storage"`
	Cache    Cache    `toml:"cache"`
	Maps     Maps     `toml:"maps"`
	Server   Server   `toml:"server"`
}

// Defaults are the chart options used when a definition does not set them.
type Defaults struct {
	Style    string   `toml:"style"`
	Language string   `toml:"language"`
	Width    float64  `toml:"width"`
	Height   float64  `toml:"height"`
	Formats  []string `toml:"formats"`
	// StyleDirs are searched for style files before the built-in styles.
	StyleDirs []string `toml:"style_dirs"`
}

// Storage selects where rendered charts are saved.
type Storage struct {
	// Backend is one of local, memory, s3, gcs, azure or gridfs.
	Backend string `toml:"backend"`
	// Dir is the output directory of the local backend.
	Dir string `toml:"dir"`

	S3     S3     `toml:"s3"`
	GCS    GCS    `toml:"gcs"`
	Azure  Azure  `toml:"azure"`
	GridFS GridFS `toml:"gridfs"`
}

type S3 struct {
	Bucket          string `toml:"bucket"`
	Prefix          string `toml:"prefix"`
	Region          string `toml:"region"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
	SessionToken    string `toml:"session_token"`
	Endpoint        string `toml:"endpoint"`
	PublicURL       string `toml:"public_url"`
}

type GCS struct {
	Bucket          string `toml:"bucket"`
	Prefix          string `toml:"prefix"`
	CredentialsFile string `toml:"credentials_file"`
	PublicURL       string `toml:"public_url"`
}

type Azure struct {
	Container        string `toml:"container"`
	Prefix           string `toml:"prefix"`
	AccountName      string `toml:"account_name"`
	AccountKey       string `toml:"account_key"`
	ConnectionString string `toml:"connection_string"`
}

type GridFS struct {
	URI            string        `toml:"uri"`
	Database       string        `toml:"database"`
	Bucket         string        `toml:"bucket"`
	Prefix         string        `toml:"prefix"`
	ConnectTimeout time.Duration `toml:"connect_timeout"`
}

// Cache selects the artifact cache.
type Cache struct {
	// Backend is one of file, redis or none.
	Backend string        `toml:"backend"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
	// Prefix scopes keys, e.g. per newsroom sharing one Redis.
	Prefix string `toml:"prefix"`
	Redis  Redis  `toml:"redis"`
}

type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Maps configures choropleth base maps.
type Maps struct {
	// Dir holds additional "<key>.geojson" base maps.
	Dir string `toml:"dir"`
}

// Server configures "nwcharts serve".
type Server struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	// MaxBodyBytes limits the size of posted definitions.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

// Default returns the configuration used without a file.
func Default() *Config {
	return &Config{
		Defaults: Defaults{Width: 800},
		Storage:  Storage{Backend: "local", Dir: "."},
		Cache:    Cache{Backend: "file", TTL: 7 * 24 * time.Hour},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 2 * time.Minute,
			MaxBodyBytes: 10 << 20,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/nwcharts/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns $XDG_CACHE_HOME/nwcharts, falling back to ~/.cache.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the file at path. An empty path reads the default file, and a
// missing default file yields the defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
	}
	return Parse(data)
}

// Parse expands environment references in data and decodes it over the
// defaults.
func Parse(data []byte) (*Config, error) {
	expanded, err := ExpandEnv(string(data))
	if err != nil {
		return nil, err
	}
	cfg := Default()
	md, err := toml.Decode(expanded, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backend names and numeric ranges.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "local", "memory", "s3", "gcs", "azure", "gridfs":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Defaults.Width < 0 || c.Defaults.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "default width and height must not be negative")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	return nil
}
