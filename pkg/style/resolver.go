package style

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jplusplus/nwcharts/pkg/errors"
)

//go:embed builtin/*
var builtinFS embed.FS

// DefaultName is the style used when none is given.
const DefaultName = "newsworthy"

var extensions = []string{".rc", ".toml", ".mplstyle"}

// Resolver finds and parses styles. It is safe for concurrent use.
type Resolver struct {
	dirs  []string
	cache sync.Map // identity -> *Style
}

// NewResolver returns a resolver that, after the built-in styles, searches
// dirs in order and finally the working directory.
func NewResolver(dirs ...string) *Resolver {
	return &Resolver{dirs: dirs}
}

var defaultResolver = NewResolver()

// Resolve resolves name with the package level resolver.
func Resolve(name string) (*Style, error) {
	return defaultResolver.Resolve(name)
}

// Builtins lists the names of the embedded styles.
func Builtins() []string {
	entries, _ := fs.ReadDir(builtinFS, "builtin")
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// Resolve returns the style called name, or stored at the path name.
// An empty name resolves the default style. Fails with STYLE_NOT_FOUND when
// nothing matches and INVALID_STYLE when the file cannot be parsed.
func (r *Resolver) Resolve(name string) (*Style, error) {
	if name == "" {
		name = DefaultName
	}
	if cached, ok := r.cache.Load(name); ok {
		return cached.(*Style), nil
	}

	s, err := r.load(name)
	if err != nil {
		return nil, err
	}
	actual, _ := r.cache.LoadOrStore(name, s)
	return actual.(*Style), nil
}

func (r *Resolver) load(name string) (*Style, error) {
	if looksLikePath(name) {
		return loadFile(name, name)
	}

	for _, ext := range extensions {
		data, err := builtinFS.ReadFile("builtin/" + name + ext)
		if err == nil {
			return parse(name, "builtin:"+name, ext, data)
		}
	}

	for _, dir := range append(r.dirs, ".") {
		for _, ext := range append([]string{""}, extensions...) {
			path := filepath.Join(dir, name+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return loadFile(name, path)
			}
		}
	}
	return nil, errors.New(errors.ErrCodeStyleNotFound, "no such style: %s", name)
}

func loadFile(name, path string) (*Style, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeStyleNotFound, "no such style file: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidStyle, err, "read %s", path)
	}
	return parse(name, path, filepath.Ext(path), data)
}

func parse(name, source, ext string, data []byte) (*Style, error) {
	var (
		params map[string]string
		err    error
	)
	if ext == ".toml" {
		params, err = ParseTOML(data)
	} else {
		params, err = ParseRC(data)
	}
	if err != nil {
		return nil, err
	}
	s := New(name, params)
	s.Source = source
	return s, nil
}

// looksLikePath reports whether name should be read from disk directly
// instead of being looked up among named styles.
func looksLikePath(name string) bool {
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return true
	}
	ext := filepath.Ext(name)
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
