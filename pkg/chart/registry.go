package chart

import (
	"sort"
	"strings"

	"github.com/jplusplus/nwcharts/pkg/errors"
)

// Chart type names.
const (
	SerialChart                   = "SerialChart"
	SeasonalChart                 = "SeasonalChart"
	CategoricalChart              = "CategoricalChart"
	CategoricalChartWithReference = "CategoricalChartWithReference"
	ProgressChart                 = "ProgressChart"
	ScatterPlot                   = "ScatterPlot"
	RangePlot                     = "RangePlot"
	StripeChart                   = "StripeChart"
	ChoroplethMap                 = "ChoroplethMap"
	DatawrapperChart              = "DatawrapperChart"
)

// engine is the layout strategy of a chart type.
type engine interface {
	// build adds the data items, axes and legend to b.fig.
	build(b *builder) error
	// autoHeight is the height used when none is given.
	autoHeight(c *Chart, width float64) float64
	// formats lists the formats RenderAll produces.
	formats() []string
}

// remoteEngine is implemented by chart types rendered by an external
// service instead of a local figure.
type remoteEngine interface {
	engine
	encode(b *builder, format string) ([]byte, error)
}

var engines = map[string]func() engine{
	SerialChart:                   func() engine { return &serial{} },
	SeasonalChart:                 func() engine { return &serial{seasonal: true} },
	CategoricalChart:              func() engine { return &categorical{} },
	CategoricalChartWithReference: func() engine { return &categorical{reference: true} },
	ProgressChart:                 func() engine { return &progress{} },
	ScatterPlot:                   func() engine { return &scatter{} },
	RangePlot:                     func() engine { return &rangePlot{} },
	StripeChart:                   func() engine { return &stripe{} },
	ChoroplethMap:                 func() engine { return &choropleth{} },
	DatawrapperChart:              func() engine { return &remoteDatawrapper{} },
}

var suffixes = []string{"", "chart", "plot", "map"}

func squash(s string) string {
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

// Lookup returns the canonical name of a chart type. It fails with
// INVALID_CHART_TYPE for unknown names.
func Lookup(name string) (string, error) {
	key := squash(name)
	if key != "" {
		for _, suffix := range suffixes {
			for canonical := range engines {
				if squash(canonical) == key+suffix {
					return canonical, nil
				}
			}
		}
	}
	return "", errors.New(errors.ErrCodeInvalidChartType,
		"unknown chart type %q (supported: %s)", name, strings.Join(Types(), ", "))
}

// Types returns the canonical chart type names, sorted.
func Types() []string {
	out := make([]string, 0, len(engines))
	for name := range engines {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
