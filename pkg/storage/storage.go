package storage

import (
	"context"
	"sort"
	"strings"

	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/render"
)

// Storage persists rendered bytes and returns where they ended up: a file
// path, URL or object identifier depending on the backend.
type Storage interface {
	Save(ctx context.Context, data []byte, key, format string, opts map[string]string) (string, error)
}

// Option keys understood by the backends.
const (
	OptCacheControl       = "cache-control"
	OptContentDisposition = "content-disposition"
	OptACL                = "acl"
	OptMetaPrefix         = "meta-"
)

// Object describes what to write, after validation.
type Object struct {
	Name        string // key plus extension, e.g. "charts/unemployment.png"
	Format      string // normalized format
	ContentType string
	Options     map[string]string
}

// Prepare validates key and format and returns the object to write.
// Backends call it first so that every backend names objects the same way.
func Prepare(key, format string, opts map[string]string) (Object, error) {
	f, err := render.NormalizeFormat(format)
	if err != nil {
		return Object{}, err
	}
	if err := errors.ValidateKey(key); err != nil {
		return Object{}, err
	}
	mime, _ := render.MIMEType(f)
	return Object{
		Name:        key + "." + f,
		Format:      f,
		ContentType: mime,
		Options:     opts,
	}, nil
}

// Metadata returns the user metadata carried in "meta-" options, with the
// prefix stripped.
func (o Object) Metadata() map[string]string {
	var md map[string]string
	for k, v := range o.Options {
		if name, ok := strings.CutPrefix(strings.ToLower(k), OptMetaPrefix); ok && name != "" {
			if md == nil {
				md = make(map[string]string)
			}
			md[name] = v
		}
	}
	return md
}

// Option returns the value of a recognized option, matching case-insensitively.
func (o Object) Option(name string) string {
	keys := make([]string, 0, len(o.Options))
	for k := range o.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(k, name) {
			return o.Options[k]
		}
	}
	return ""
}

func storageErr(err error, op, name string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(errors.ErrCodeStorage, err, "%s %s", op, name)
}

// Name returns a short name for the backend behind s, for logs and metrics.
func Name(s Storage) string {
	switch s.(type) {
	case *Local:
		return "local"
	case *Memory:
		return "memory"
	case *S3:
		return "s3"
	case *GCS:
		return "gcs"
	case *Azure:
		return "azure"
	case *GridFS:
		return "gridfs"
	case nil:
		return "none"
	}
	return "custom"
}
