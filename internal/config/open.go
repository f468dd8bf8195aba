package config

import (
	"context"

	"github.com/jplusplus/nwcharts/pkg/cache"
	"github.com/jplusplus/nwcharts/pkg/chart"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/geo"
	"github.com/jplusplus/nwcharts/pkg/storage"
	"github.com/jplusplus/nwcharts/pkg/style"
)

// Closer releases a backend. It is never nil.
type Closer func(ctx context.Context) error

func noClose(context.Context) error { return nil }

// OpenStorage creates the configured storage backend.
func (c *Config) OpenStorage(ctx context.Context) (storage.Storage, Closer, error) {
	s := c.Storage
	switch s.Backend {
	case "local":
		dir := s.Dir
		if dir == "" {
			dir = "."
		}
		return storage.NewLocal(dir), noClose, nil
	case "memory":
		return storage.NewMemory(), noClose, nil
	case "s3":
		b, err := storage.NewS3(ctx, storage.S3Config{
			Bucket:          s.S3.Bucket,
			Prefix:          s.S3.Prefix,
			Region:          s.S3.Region,
			AccessKeyID:     s.S3.AccessKeyID,
			SecretAccessKey: s.S3.SecretAccessKey,
			SessionToken:    s.S3.SessionToken,
			Endpoint:        s.S3.Endpoint,
			PublicURL:       s.S3.PublicURL,
		})
		if err != nil {
			return nil, nil, err
		}
		return b, noClose, nil
	case "gcs":
		b, err := storage.NewGCS(ctx, storage.GCSConfig{
			Bucket:          s.GCS.Bucket,
			Prefix:          s.GCS.Prefix,
			CredentialsFile: s.GCS.CredentialsFile,
			PublicURL:       s.GCS.PublicURL,
		})
		if err != nil {
			return nil, nil, err
		}
		return b, func(context.Context) error { return b.Close() }, nil
	case "azure":
		b, err := storage.NewAzure(storage.AzureConfig{
			Container:        s.Azure.Container,
			Prefix:           s.Azure.Prefix,
			AccountName:      s.Azure.AccountName,
			AccountKey:       s.Azure.AccountKey,
			ConnectionString: s.Azure.ConnectionString,
		})
		if err != nil {
			return nil, nil, err
		}
		return b, noClose, nil
	case "gridfs":
		b, err := storage.NewGridFS(ctx, storage.GridFSConfig{
			URI:            s.GridFS.URI,
			Database:       s.GridFS.Database,
			Bucket:         s.GridFS.Bucket,
			Prefix:         s.GridFS.Prefix,
			ConnectTimeout: s.GridFS.ConnectTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	}
	return nil, nil, errors.New(errors.ErrCodeInvalidInput, "unknown storage backend %q", s.Backend)
}

// OpenCache creates the configured artifact cache. noCache forces a
// NullCache.
func (c *Config) OpenCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		rc := cache.DefaultRedisConfig()
		if c.Cache.Redis.Addr != "" {
			rc.Addr = c.Cache.Redis.Addr
		}
		rc.Password = c.Cache.Redis.Password
		rc.DB = c.Cache.Redis.DB
		return cache.NewRedis(ctx, rc)
	case "file", "":
		dir, err := c.CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
}

// CacheDir returns the file cache directory.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return CacheDir()
}

// Keyer returns the cache keyer, scoped by Cache.Prefix when set.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Prefix)
}

// LoadMaps registers the base maps of Maps.Dir in reg.
func (c *Config) LoadMaps(reg *geo.Registry) (int, error) {
	if c.Maps.Dir == "" {
		return 0, nil
	}
	return reg.LoadDir(c.Maps.Dir)
}

// StyleResolver returns a resolver searching StyleDirs, or nil to use the
// package default.
func (c *Config) StyleResolver() *style.Resolver {
	if len(c.Defaults.StyleDirs) == 0 {
		return nil
	}
	return style.NewResolver(c.Defaults.StyleDirs...)
}

// ChartOptions returns chart options carrying the configured defaults.
// Storage, Maps and Logger are left for the caller.
func (c *Config) ChartOptions() chart.Options {
	return chart.Options{
		Width:         c.Defaults.Width,
		Height:        c.Defaults.Height,
		Style:         c.Defaults.Style,
		StyleResolver: c.StyleResolver(),
		Language:      c.Defaults.Language,
	}
}
