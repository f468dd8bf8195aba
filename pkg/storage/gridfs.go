package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFSConfig configures the MongoDB GridFS backend.
type GridFSConfig struct {
	URI            string // default mongodb://localhost:27017
	Database       string // default nwcharts
	Bucket         string // default charts
	Prefix         string
	ConnectTimeout time.Duration
}

// GridFS stores charts as GridFS files. Saving a key twice keeps both
// revisions; GridFS readers return the newest.
type GridFS struct {
	client *mongo.Client
	bucket *gridfs.Bucket
	cfg    GridFSConfig
}

// NewGridFS connects to MongoDB and opens the bucket. Close disconnects.
func NewGridFS(ctx context.Context, cfg GridFSConfig) (*GridFS, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "nwcharts"
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "charts"
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetConnectTimeout(cfg.ConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("gridfs: connect: %w", err)
	}
	bucket, err := gridfs.NewBucket(client.Database(cfg.Database), options.GridFSBucket().SetName(cfg.Bucket))
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("gridfs: open bucket: %w", err)
	}
	return &GridFS{client: client, bucket: bucket, cfg: cfg}, nil
}

// Close disconnects from MongoDB.
func (g *GridFS) Close(ctx context.Context) error {
	return g.client.Disconnect(ctx)
}

// Save uploads the file and returns "gridfs://<bucket>/<id>".
func (g *GridFS) Save(ctx context.Context, data []byte, key, format string, opts map[string]string) (string, error) {
	obj, err := Prepare(key, format, opts)
	if err != nil {
		return "", err
	}
	name := path.Join(g.cfg.Prefix, obj.Name)

	md := bson.D{{Key: "contentType", Value: obj.ContentType}}
	for k, v := range obj.Metadata() {
		md = append(md, bson.E{Key: k, Value: v})
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := g.bucket.SetWriteDeadline(deadline); err != nil {
			return "", storageErr(err, "upload", name)
		}
	}
	id, err := g.bucket.UploadFromStream(name, bytes.NewReader(data), options.GridFSUpload().SetMetadata(md))
	if err != nil {
		return "", storageErr(err, "upload", name)
	}
	return "gridfs://" + g.cfg.Bucket + "/" + id.Hex(), nil
}
