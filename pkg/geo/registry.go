package geo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Registry maps base map keys to base maps. It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	maps map[string]*BaseMap
}

// Default is the registry used when a chart is not given one.
var Default = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{maps: make(map[string]*BaseMap)}
}

// ParseKey splits "iso-level" or "iso|subset-level".
func ParseKey(key string) (iso, subset, level string, err error) {
	k := strings.ToLower(strings.TrimSpace(key))
	dash := strings.LastIndex(k, "-")
	if dash <= 0 || dash == len(k)-1 {
		return "", "", "", errors.New(errors.ErrCodeInvalidBaseMap, "invalid base map key %q (want iso-level, e.g. se-7)", key)
	}
	iso, level = k[:dash], k[dash+1:]
	if bar := strings.Index(iso, "|"); bar >= 0 {
		iso, subset = iso[:bar], iso[bar+1:]
		if subset == "" {
			return "", "", "", errors.New(errors.ErrCodeInvalidBaseMap, "invalid base map key %q: empty subset", key)
		}
	}
	if iso == "" {
		return "", "", "", errors.New(errors.ErrCodeInvalidBaseMap, "invalid base map key %q", key)
	}
	return iso, subset, level, nil
}

// Register parses a GeoJSON FeatureCollection and stores it under key,
// replacing any previous map with that key.
func (r *Registry) Register(key string, data []byte) error {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidBaseMap, err, "parse base map %s", key)
	}
	return r.RegisterCollection(key, fc)
}

// RegisterCollection stores an already decoded FeatureCollection. Feature
// codes come from the feature id or the "id" or "code" property; names from
// the "name" property.
func (r *Registry) RegisterCollection(key string, fc *geojson.FeatureCollection) error {
	iso, subset, level, err := ParseKey(key)
	if err != nil {
		return err
	}
	if subset != "" {
		return errors.New(errors.ErrCodeInvalidBaseMap, "cannot register a subset key: %s", key)
	}
	prefix := strings.ToUpper(iso) + "-"

	regions := make([]Region, 0, len(fc.Features))
	seen := make(map[string]bool, len(fc.Features))
	for i, f := range fc.Features {
		code := featureCode(f)
		if code == "" {
			return errors.New(errors.ErrCodeInvalidBaseMap, "base map %s: feature %d has no id", key, i)
		}
		code = strings.ToUpper(code)
		if !strings.HasPrefix(code, prefix) {
			code = prefix + code
		}
		if seen[code] {
			return errors.New(errors.ErrCodeInvalidBaseMap, "base map %s: duplicate region %s", key, code)
		}
		seen[code] = true
		if !isArea(f.Geometry) {
			return errors.New(errors.ErrCodeInvalidBaseMap, "base map %s: region %s is a %s, want Polygon or MultiPolygon", key, code, geometryType(f.Geometry))
		}
		regions = append(regions, Region{Code: code, Name: f.Properties.MustString("name", ""), Geometry: f.Geometry})
	}

	bm := newBaseMap(iso+"-"+level, iso, level, regions)
	r.mu.Lock()
	r.maps[bm.Key] = bm
	r.mu.Unlock()
	return nil
}

func featureCode(f *geojson.Feature) string {
	if f.ID != nil {
		if s := idString(f.ID); s != "" {
			return s
		}
	}
	for _, k := range []string{"id", "code"} {
		if v, ok := f.Properties[k]; ok && v != nil {
			return idString(v)
		}
	}
	return ""
}

// idString formats a feature id. JSON numbers decode as float64 and are
// written without an exponent.
func idString(v any) string {
	if n, ok := v.(float64); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func isArea(g orb.Geometry) bool {
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon:
		return true
	}
	return false
}

func geometryType(g orb.Geometry) string {
	if g == nil {
		return "null geometry"
	}
	return g.GeoJSONType()
}

// LoadDir registers every "<key>.geojson" file in dir and returns how many
// maps were loaded.
func (r *Registry) LoadDir(dir string) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return 0, err
	}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("read base map: %w", err)
		}
		key := strings.TrimSuffix(filepath.Base(path), ".geojson")
		if err := r.Register(key, data); err != nil {
			return 0, err
		}
	}
	return len(files), nil
}

// Get returns the map for key. Subset keys build a fresh map from the
// registered one on every call.
func (r *Registry) Get(key string) (*BaseMap, error) {
	iso, subset, level, err := ParseKey(key)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	bm, ok := r.maps[iso+"-"+level]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidBaseMap, "unknown base map %q", key)
	}
	if subset == "" {
		return bm, nil
	}
	return bm.Subset(subset)
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.maps))
	for k := range r.maps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
