package storage

import (
	"context"
	"fmt"
	"path"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSConfig configures the Google Cloud Storage backend.
type GCSConfig struct {
	Bucket          string
	Prefix          string
	CredentialsFile string // optional, Application Default Credentials when empty
	PublicURL       string
}

// GCS stores charts in a Google Cloud Storage bucket.
type GCS struct {
	client *gcs.Client
	cfg    GCSConfig
}

// NewGCS creates a GCS backend. Close releases the client.
func NewGCS(ctx context.Context, cfg GCSConfig) (*GCS, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("gcs: bucket is required")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: create client: %w", err)
	}
	return &GCS{client: client, cfg: cfg}, nil
}

// Close closes the underlying client.
func (g *GCS) Close() error { return g.client.Close() }

// Save writes the object and returns its gs:// URI or public URL.
func (g *GCS) Save(ctx context.Context, data []byte, key, format string, opts map[string]string) (string, error) {
	obj, err := Prepare(key, format, opts)
	if err != nil {
		return "", err
	}
	name := path.Join(g.cfg.Prefix, obj.Name)

	w := g.client.Bucket(g.cfg.Bucket).Object(name).NewWriter(ctx)
	w.ContentType = obj.ContentType
	w.Metadata = obj.Metadata()
	w.CacheControl = obj.Option(OptCacheControl)
	w.ContentDisposition = obj.Option(OptContentDisposition)
	if acl := obj.Option(OptACL); acl == "public-read" {
		w.PredefinedACL = "publicRead"
	} else if acl != "" {
		w.PredefinedACL = acl
	}

	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", storageErr(err, "upload", name)
	}
	if err := w.Close(); err != nil {
		return "", storageErr(err, "finalize", name)
	}
	if g.cfg.PublicURL != "" {
		return joinURL(g.cfg.PublicURL, name), nil
	}
	return "gs://" + g.cfg.Bucket + "/" + name, nil
}
