// Package render defines the drawable scene a chart is turned into.
//
// Rendering happens in two phases:
//
//  1. A chart strategy (package chart) computes a [Figure]: header and footer
//     texts, axis ranges and ticks, and a list of positioned primitives
//     ([Bar], [Line], [Marker], [Annotation], [Polygon], ...) in data
//     coordinates. This phase holds every presentation heuristic and is what
//     tests inspect.
//  2. A sink (package render/sink) draws the figure onto a gonum/plot canvas
//     and encodes it as PNG, JPG, SVG, PDF or WEBP.
//
// Keeping the scene separate from the encoder means the same figure renders
// identically in every format, and a figure can be compared structurally
// without decoding images.
package render
