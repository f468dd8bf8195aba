package storage

import (
	"context"
	"os"
	"path/filepath"
)

// Local writes files to a directory.
type Local struct {
	Dir string
}

// NewLocal returns a Local storage rooted at dir. An empty dir means the
// working directory.
func NewLocal(dir string) *Local {
	if dir == "" {
		dir = "."
	}
	return &Local{Dir: dir}
}

// Save writes <dir>/<key>.<ext>, creating directories as needed, and returns
// the file path. Options do not apply to files.
func (l *Local) Save(ctx context.Context, data []byte, key, format string, opts map[string]string) (string, error) {
	obj, err := Prepare(key, format, opts)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(l.Dir, filepath.FromSlash(obj.Name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", storageErr(err, "create directory for", obj.Name)
	}
	// Write to a temp file first so readers never see a partial chart.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".nwcharts-*")
	if err != nil {
		return "", storageErr(err, "write", obj.Name)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", storageErr(err, "write", obj.Name)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", storageErr(err, "write", obj.Name)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return "", storageErr(err, "write", obj.Name)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", storageErr(err, "write", obj.Name)
	}
	return path, nil
}
