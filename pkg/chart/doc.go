// Package chart builds newsroom charts from data series and renders them
// through a style.
//
// A [Chart] combines a caller-owned [Config] (titles, units, highlight,
// annotations and per-type options) with a [dataset.List]. Nothing is drawn
// until Render: the style is resolved, the chart type's layout strategy
// turns the data into a [render.Figure], the figure is encoded and the bytes
// are handed to a [storage.Storage].
//
//	c, _ := chart.New("serial", chart.Options{Width: 600, Height: 400})
//	c.Title = "Unemployment"
//	c.Units = "percent"
//	c.Data = dataset.List{series}
//	loc, err := c.Render(ctx, "unemployment", "png", chart.RenderOptions{})
//
// # Chart types
//
// SerialChart, SeasonalChart, CategoricalChart,
// CategoricalChartWithReference, ProgressChart, ScatterPlot, RangePlot,
// StripeChart, ChoroplethMap and DatawrapperChart. Names are matched without
// regard to case or separators, and the suffix may be left out: "serial",
// "categorical-with-reference" and "choropleth" all resolve.
//
// # Definitions
//
// [FromDefinition] reads the same settings from a JSON or YAML object, which
// is how the CLI and the HTTP API create charts.
package chart
