package chart

import (
	"encoding/json"
	"math"
	"time"

	"github.com/jplusplus/nwcharts/pkg/colors"
	"github.com/jplusplus/nwcharts/pkg/dataset"
	"github.com/jplusplus/nwcharts/pkg/datawrapper"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/observability"
	"github.com/jplusplus/nwcharts/pkg/render"
)

// remoteDatawrapper renders through the Datawrapper API. Config.DWData is the
// chart object sent on creation; title, caption and language are filled in
// from the chart.
type remoteDatawrapper struct{}

func (d *remoteDatawrapper) formats() []string                      { return []string{render.FormatPNG} }
func (d *remoteDatawrapper) autoHeight(_ *Chart, w float64) float64 { return w }

func (d *remoteDatawrapper) build(*builder) error {
	return errors.New(errors.ErrCodeUnsupported, "datawrapper charts are rendered remotely")
}

func (d *remoteDatawrapper) encode(b *builder, format string) (data []byte, err error) {
	if err := errors.ValidateFormat(format, d.formats()); err != nil {
		return nil, err
	}
	start := time.Now()
	observability.Render().OnRenderStart(b.ctx, DatawrapperChart, format)
	defer func() {
		observability.Render().OnRenderComplete(b.ctx, DatawrapperChart, format, len(data), time.Since(start), err)
	}()

	client, err := datawrapper.FromEnv(
		datawrapper.WithBaseURL(b.c.opts.DatawrapperURL),
		datawrapper.WithHTTPClient(b.c.opts.HTTPClient),
	)
	if err != nil {
		return nil, err
	}

	obj, err := d.chartObject(b)
	if err != nil {
		return nil, err
	}
	id, err := client.CreateChart(b.ctx, obj)
	if err != nil {
		return nil, err
	}
	b.log.Debug("created datawrapper chart", "id", id)
	if err := client.UploadData(b.ctx, id, datawrapperRows(b.data, b.cfg.Labels)); err != nil {
		return nil, err
	}
	return client.Export(b.ctx, id, format, datawrapper.ExportOptions{
		Width:  int(math.Round(b.width)),
		Height: int(math.Round(b.height)),
		Scale:  b.ro.factor(),
	})
}

// chartObject deep copies DWData and fills in the chart's own settings.
func (d *remoteDatawrapper) chartObject(b *builder) (map[string]any, error) {
	raw, err := json.Marshal(b.cfg.DWData)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "dw_data")
	}
	obj := map[string]any{}
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		obj = map[string]any{}
	}
	obj["utf8"] = true
	obj["language"] = b.c.opts.Language
	if b.cfg.Title != "" {
		obj["title"] = b.cfg.Title
	}
	if b.cfg.Caption != "" {
		nested(obj, "metadata", "describe")["source-name"] = b.cfg.Caption
	}
	if obj["type"] == "d3-lines" && b.cfg.Highlight.First() != "" {
		hl := b.cfg.Highlight.First()
		custom := map[string]any{}
		for i := range b.data {
			label := b.seriesLabel(i)
			if label == "" {
				continue
			}
			role := colors.RoleNeutral
			if label == hl {
				role = colors.RoleStrong
			}
			custom[label] = b.style.RoleColor(role)
		}
		nested(obj, "metadata", "visualize")["custom-colors"] = custom
	}
	return obj, nil
}

// nested returns m[keys[0]][keys[1]]..., creating maps as needed.
func nested(m map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[k] = next
		}
		m = next
	}
	return m
}

// datawrapperRows lays the series out as CSV rows: a header with the series
// labels, then one row per key.
func datawrapperRows(data dataset.List, labels []string) [][]string {
	header := []string{""}
	for i := range data {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		header = append(header, label)
	}
	rows := [][]string{header}
	for _, key := range data.Categories() {
		row := []string{key}
		for _, s := range data {
			v, _ := s.Lookup(key)
			cell := ""
			if v != nil {
				cell = dataset.ToString(*v)
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return rows
}
