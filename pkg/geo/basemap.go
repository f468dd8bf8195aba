package geo

import (
	"math"
	"sort"
	"strings"

	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/paulmach/orb"
)

// Region is one feature of a base map.
type Region struct {
	Code     string // upper-case, with country prefix, e.g. "SE-0180"
	Name     string
	Geometry orb.Geometry
}

// BaseMap is an immutable set of regions.
type BaseMap struct {
	Key     string // e.g. "se-7" or "se|01-7"
	ISO     string // upper-case country code, e.g. "SE"
	Level   string
	Regions []Region

	index     map[string]int
	codeWidth int
}

func newBaseMap(key, iso, level string, regions []Region) *BaseMap {
	bm := &BaseMap{
		Key:     key,
		ISO:     strings.ToUpper(iso),
		Level:   level,
		Regions: regions,
		index:   make(map[string]int, len(regions)),
	}
	sort.SliceStable(bm.Regions, func(i, j int) bool { return bm.Regions[i].Code < bm.Regions[j].Code })
	for i, r := range bm.Regions {
		bm.index[r.Code] = i
		if w := len(bm.localCode(r.Code)); w > bm.codeWidth {
			bm.codeWidth = w
		}
	}
	return bm
}

func (b *BaseMap) prefix() string { return b.ISO + "-" }

func (b *BaseMap) localCode(code string) string {
	return strings.TrimPrefix(code, b.prefix())
}

// Codes returns the region codes in sorted order.
func (b *BaseMap) Codes() []string {
	out := make([]string, len(b.Regions))
	for i, r := range b.Regions {
		out[i] = r.Code
	}
	return out
}

// Normalize turns a caller-supplied code into the canonical form used by
// the map: trimmed, upper-cased, with the "ISO-" prefix, and numeric codes
// zero-padded to the map's code width. It does not check existence.
func (b *BaseMap) Normalize(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	c = strings.TrimPrefix(c, b.prefix())
	if isDigits(c) && len(c) < b.codeWidth {
		c = strings.Repeat("0", b.codeWidth-len(c)) + c
	}
	return b.prefix() + c
}

// Lookup finds the region for code. An exact match on the normalized code
// wins; otherwise a single region whose code starts with it is accepted.
// Anything else fails with REGION_NOT_FOUND.
func (b *BaseMap) Lookup(code string) (Region, error) {
	c := b.Normalize(code)
	if i, ok := b.index[c]; ok {
		return b.Regions[i], nil
	}
	// Prefix matching uses the unpadded code so "1" does not become "0001".
	raw := b.prefix() + strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(code)), b.prefix())
	var match []int
	for i, r := range b.Regions {
		if strings.HasPrefix(r.Code, raw) {
			match = append(match, i)
		}
	}
	if len(match) == 1 {
		return b.Regions[match[0]], nil
	}
	if len(match) > 1 {
		return Region{}, errors.New(errors.ErrCodeRegionNotFound,
			"region %q is ambiguous in base map %s (%d matches)", code, b.Key, len(match))
	}
	return Region{}, errors.New(errors.ErrCodeRegionNotFound, "region %q not found in base map %s", code, b.Key)
}

// Subset returns a new map with the regions whose local code starts with
// prefix. The receiver is not modified.
func (b *BaseMap) Subset(prefix string) (*BaseMap, error) {
	p := strings.ToUpper(strings.TrimSpace(prefix))
	var regions []Region
	for _, r := range b.Regions {
		if strings.HasPrefix(b.localCode(r.Code), p) {
			regions = append(regions, r)
		}
	}
	if len(regions) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidBaseMap, "base map %s has no regions in subset %q", b.Key, prefix)
	}
	key := strings.ToLower(b.ISO) + "|" + p + "-" + b.Level
	return newBaseMap(key, b.ISO, b.Level, regions), nil
}

// Bound returns the bounding box of every region.
func (b *BaseMap) Bound() orb.Bound {
	if len(b.Regions) == 0 {
		return orb.Bound{}
	}
	bound := b.Regions[0].Geometry.Bound()
	for _, r := range b.Regions[1:] {
		bound = bound.Union(r.Geometry.Bound())
	}
	return bound
}

// Project returns an equirectangular projection for the map, with
// longitudes scaled by the cosine of the central latitude so shapes keep
// their proportions at that latitude.
func (b *BaseMap) Project() func(orb.Point) orb.Point {
	bound := b.Bound()
	k := math.Cos(bound.Center().Lat() * math.Pi / 180)
	if k <= 0 {
		k = 1
	}
	return func(p orb.Point) orb.Point {
		return orb.Point{p.Lon() * k, p.Lat()}
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
