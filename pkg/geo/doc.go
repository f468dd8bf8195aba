// Package geo holds the base maps choropleth charts draw on.
//
// A base map is a GeoJSON FeatureCollection whose features carry a region
// code, such as "SE-0180" for a Swedish municipality. Base maps are stored in
// a [Registry] under keys of the form "ISO-level" ("se-7"). A key may select
// a subset of a registered map, "ISO|subset-level" ("se|01-7"), which yields a
// new map with the regions whose code, after the country prefix, starts with
// the subset.
//
// Region codes given by callers are normalized before lookup: trimmed,
// upper-cased, prefixed with the country code and zero-padded to the width of
// the map's codes. See [BaseMap.Lookup].
package geo
