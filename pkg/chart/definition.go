package chart

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jplusplus/nwcharts/pkg/dataset"
	"github.com/jplusplus/nwcharts/pkg/errors"
)

// Definition is a chart described in a YAML or JSON document:
//
//	width: 800
//	height: null
//	title: Unemployment
//	units: percent
//	data:
//	  - - ["2016-01-01", 0.071]
//	    - ["2017-01-01", 0.067]
//
// width and height are required; a null height is derived from the width.
type Definition struct {
	Config
	Chart    string    `json:"chart,omitempty"`
	Width    float64   `json:"width"`
	Height   *float64  `json:"height"`
	Data     [][][]any `json:"data,omitempty"`
	Style    string    `json:"style,omitempty"`
	Language string    `json:"language,omitempty"`
}

// ParseDefinition decodes a YAML (or JSON) chart definition.
func ParseDefinition(data []byte) (*Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse chart definition")
	}
	for _, key := range []string{"width", "height"} {
		if _, ok := raw[key]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "chart definition must set %q", key)
		}
	}
	js, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "chart definition")
	}
	var def Definition
	if err := json.Unmarshal(js, &def); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "chart definition")
	}
	if def.Width <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "width must be positive, got %v", def.Width)
	}
	return &def, nil
}

// LoadDefinition reads and parses a definition file.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return ParseDefinition(data)
}

// NewChart creates the chart the definition describes. kind overrides the
// definition's "chart" key. Size, style and language in the definition take
// precedence over opts.
func (d *Definition) NewChart(kind string, opts Options) (*Chart, error) {
	if kind == "" {
		kind = d.Chart
	}
	if kind == "" {
		return nil, errors.New(errors.ErrCodeInvalidChartType, "no chart type given")
	}
	opts.Width = d.Width
	opts.Height = 0
	if d.Height != nil {
		opts.Height = *d.Height
	}
	if d.Style != "" {
		opts.Style = d.Style
	}
	if d.Language != "" {
		opts.Language = d.Language
	}
	c, err := New(kind, opts)
	if err != nil {
		return nil, err
	}
	c.Config = d.Config
	c.Data, err = dataset.ListFromRows(d.Data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "data")
	}
	return c, nil
}

// FromDefinition parses data and creates the chart it describes.
func FromDefinition(data []byte, kind string, opts Options) (*Chart, error) {
	def, err := ParseDefinition(data)
	if err != nil {
		return nil, err
	}
	return def.NewChart(kind, opts)
}

// normalizeYAML makes decoded YAML encodable as JSON.
func normalizeYAML(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalizeYAML(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeYAML(e)
		}
		return out
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	}
	return v
}
