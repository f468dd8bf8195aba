// Package pkg provides the libraries behind nwcharts, a renderer for
// newsroom charts in a consistent house style.
//
// # Overview
//
// A chart is a type (serial, categorical, scatter, map, ...), caller-owned
// content (title, data, highlights) and a style. The same content renders
// under any style, in any supported language, to PNG, SVG, PDF, JPG or WEBP,
// and is saved to local disk or cloud storage.
//
// # Architecture
//
// The typical data flow:
//
//	YAML/JSON definition
//	         ↓
//	    [chart] package (parse, pick the chart type, build a figure)
//	         ↓
//	    [render] package (figure: axes, items, legend, texts)
//	         ↓
//	    [render/sink] package (encode with gonum/plot)
//	         ↓
//	    [storage] package (local, memory, S3, GCS, Azure, GridFS)
//
// [pipeline] wraps the flow with the artifact [cache] and is shared by the
// CLI and the HTTP server.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/jplusplus/nwcharts/pkg/chart"
//	    "github.com/jplusplus/nwcharts/pkg/storage"
//	)
//
//	c, _ := chart.FromDefinition(yamlBytes, "", chart.Options{
//	    Language: "sv-SE",
//	    Storage:  storage.NewLocal("out"),
//	})
//	paths, _ := c.RenderAll(context.Background(), "unemployment", chart.RenderOptions{})
//
// # Main Packages
//
// ## Charts
//
// [chart] - Chart types, the definition format and the render entry points.
//
// [dataset] - Series of keyed points, date parsing and interval guessing.
//
// [style] - Style files (rc, TOML, YAML) and the built-in newsworthy styles.
//
// [colors] - Color parsing, palettes, roles and color rules.
//
// [format] - Locale aware number, percent, date and list formatting.
//
// [ticks] - Value and date tick selection.
//
// [geo] - Base map registry for choropleth maps.
//
// [datawrapper] - Client for charts rendered by the Datawrapper API.
//
// ## Rendering
//
// [render] - The figure model shared by every chart type.
//
// [render/sink] - PNG, JPG, SVG, PDF and WEBP encoders.
//
// ## Infrastructure
//
// [storage] - Where rendered files go.
//
// [cache] - Artifact cache with file, Redis and null backends.
//
// [pipeline] - Definition to artifacts with caching, used by CLI and server.
//
// [observability] - Render, storage, cache and HTTP hooks, with an
// OpenTelemetry implementation.
//
// [errors] - Error codes and key validation.
//
// [httputil] - Retry with backoff for remote API calls.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/chart/...    # Specific package
package pkg
