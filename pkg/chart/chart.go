package chart

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jplusplus/nwcharts/pkg/dataset"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/geo"
	"github.com/jplusplus/nwcharts/pkg/observability"
	"github.com/jplusplus/nwcharts/pkg/render"
	"github.com/jplusplus/nwcharts/pkg/render/sink"
	"github.com/jplusplus/nwcharts/pkg/storage"
	"github.com/jplusplus/nwcharts/pkg/style"
)

// DefaultLanguage is used when Options.Language is empty.
const DefaultLanguage = "en-GB"

// Options configure a chart independently of its content.
type Options struct {
	// Width and Height are in pixels. A zero Height is derived from the
	// width in a way that suits the chart type.
	Width, Height float64

	// Style is a built-in style name or a path to a style file
	// (default "newsworthy").
	Style string
	// StyleResolver resolves Style. nil uses the package-level resolver.
	StyleResolver *style.Resolver
	// Language is a BCP 47 tag used for numbers, dates and text direction.
	Language string

	// Storage receives rendered files (default: the working directory).
	Storage storage.Storage
	Logger  *log.Logger

	// Maps holds the base maps of choropleth charts (default geo.Default).
	Maps *geo.Registry
	// HTTPClient is used by charts rendered through a remote service.
	HTTPClient *http.Client
	// DatawrapperURL overrides the Datawrapper API base URL.
	DatawrapperURL string
}

// RenderOptions control a single render.
type RenderOptions struct {
	Transparent bool
	// Factor multiplies the pixel size of raster formats (default 1).
	Factor float64
	// StorageOptions are forwarded to the storage backend, e.g.
	// "cache-control" or "meta-source".
	StorageOptions map[string]string
}

func (o RenderOptions) factor() float64 {
	if o.Factor <= 0 {
		return 1
	}
	return o.Factor
}

// Chart is a chart of one type. Config and Data may be changed freely until
// Render; a Chart must not be rendered from several goroutines at once.
type Chart struct {
	Config
	Data dataset.List

	kind string
	eng  engine
	opts Options
	log  *log.Logger
}

// New creates a chart of the named type. See [Lookup] for accepted names.
func New(kind string, opts Options) (*Chart, error) {
	name, err := Lookup(kind)
	if err != nil {
		return nil, err
	}
	return newChart(name, opts), nil
}

func newChart(name string, opts Options) *Chart {
	if opts.Style == "" {
		opts.Style = style.DefaultName
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.Storage == nil {
		opts.Storage = storage.NewLocal(".")
	}
	if opts.Maps == nil {
		opts.Maps = geo.Default
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Chart{
		kind: name,
		eng:  engines[name](),
		opts: opts,
		log:  logger.With("chart", name),
	}
}

// NewSerial creates a serial (time series) chart.
func NewSerial(opts Options) *Chart { return newChart(SerialChart, opts) }

// NewSeasonal creates a seasonal chart.
func NewSeasonal(opts Options) *Chart { return newChart(SeasonalChart, opts) }

// NewCategorical creates a bar chart over categories.
func NewCategorical(opts Options) *Chart { return newChart(CategoricalChart, opts) }

// NewCategoricalWithReference creates a categorical chart whose second
// series is drawn as reference marks.
func NewCategoricalWithReference(opts Options) *Chart {
	return newChart(CategoricalChartWithReference, opts)
}

// NewProgress creates a progress chart.
func NewProgress(opts Options) *Chart { return newChart(ProgressChart, opts) }

// NewScatter creates a scatter plot.
func NewScatter(opts Options) *Chart { return newChart(ScatterPlot, opts) }

// NewRange creates a range plot.
func NewRange(opts Options) *Chart { return newChart(RangePlot, opts) }

// NewStripe creates a stripe chart.
func NewStripe(opts Options) *Chart { return newChart(StripeChart, opts) }

// NewChoropleth creates a choropleth map.
func NewChoropleth(opts Options) *Chart { return newChart(ChoroplethMap, opts) }

// NewDatawrapper creates a chart rendered by the Datawrapper API.
func NewDatawrapper(opts Options) *Chart { return newChart(DatawrapperChart, opts) }

// Kind returns the canonical chart type name.
func (c *Chart) Kind() string { return c.kind }

// StyleName returns the style name or path the chart is drawn with.
func (c *Chart) StyleName() string { return c.opts.Style }

// Language returns the chart's language tag.
func (c *Chart) Language() string { return c.opts.Language }

// Size returns the width and the height the chart will be rendered at.
func (c *Chart) Size() (float64, float64) {
	h := c.opts.Height
	if h <= 0 {
		h = c.eng.autoHeight(c, c.opts.Width)
	}
	return c.opts.Width, h
}

// Formats returns the formats RenderAll produces for this chart type.
func (c *Chart) Formats() []string {
	var out []string
	for _, f := range c.eng.formats() {
		if f == render.FormatWEBP && !sink.WEBPAvailable() {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Figure builds the scene without encoding it. It fails on configuration
// errors and for chart types rendered remotely.
func (c *Chart) Figure(ro RenderOptions) (*render.Figure, error) {
	if _, ok := c.eng.(remoteEngine); ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s is rendered remotely and has no figure", c.kind)
	}
	b, err := c.newBuilder(context.Background(), ro)
	if err != nil {
		return nil, err
	}
	return b.figure()
}

// Encode renders the chart in format and returns the bytes.
func (c *Chart) Encode(ctx context.Context, format string, ro RenderOptions) ([]byte, error) {
	f, err := render.NormalizeFormat(format)
	if err != nil {
		return nil, err
	}
	b, err := c.newBuilder(ctx, ro)
	if err != nil {
		return nil, err
	}
	if remote, ok := c.eng.(remoteEngine); ok {
		return remote.encode(b, f)
	}
	fig, err := b.figure()
	if err != nil {
		return nil, err
	}
	return c.encodeFigure(ctx, fig, f, ro)
}

func (c *Chart) encodeFigure(ctx context.Context, fig *render.Figure, format string, ro RenderOptions) ([]byte, error) {
	start := time.Now()
	observability.Render().OnRenderStart(ctx, c.kind, format)
	data, err := sink.Encode(fig, format, sink.WithScale(ro.factor()), sink.WithTransparent(ro.Transparent))
	d := time.Since(start)
	observability.Render().OnRenderComplete(ctx, c.kind, format, len(data), d, err)
	if err != nil {
		return nil, err
	}
	c.log.Debug("encoded chart", "format", format, "bytes", len(data), "duration", d)
	return data, nil
}

// Render encodes the chart in format and saves it under key. It returns the
// location reported by the storage. Configuration errors are returned
// before anything is written.
func (c *Chart) Render(ctx context.Context, key, format string, ro RenderOptions) (string, error) {
	f, err := render.NormalizeFormat(format)
	if err != nil {
		return "", err
	}
	if err := errors.ValidateKey(key); err != nil {
		return "", err
	}
	data, err := c.Encode(ctx, f, ro)
	if err != nil {
		return "", err
	}
	return c.save(ctx, data, key, f, ro)
}

// Save stores already encoded bytes under key, e.g. an artifact served
// from a cache.
func (c *Chart) Save(ctx context.Context, data []byte, key, format string, ro RenderOptions) (string, error) {
	f, err := render.NormalizeFormat(format)
	if err != nil {
		return "", err
	}
	if err := errors.ValidateKey(key); err != nil {
		return "", err
	}
	return c.save(ctx, data, key, f, ro)
}

func (c *Chart) save(ctx context.Context, data []byte, key, format string, ro RenderOptions) (string, error) {
	start := time.Now()
	loc, err := c.opts.Storage.Save(ctx, data, key, format, ro.StorageOptions)
	observability.Storage().OnSave(ctx, storage.Name(c.opts.Storage), format, len(data), time.Since(start), err)
	if err != nil {
		return "", err
	}
	c.log.Info("saved chart", "location", loc)
	return loc, nil
}

// RenderAll renders every format in Formats under the same key. The figure
// is built once. Locations are returned in format order.
func (c *Chart) RenderAll(ctx context.Context, key string, ro RenderOptions) ([]string, error) {
	if err := errors.ValidateKey(key); err != nil {
		return nil, err
	}
	b, err := c.newBuilder(ctx, ro)
	if err != nil {
		return nil, err
	}
	var fig *render.Figure
	remote, isRemote := c.eng.(remoteEngine)
	if !isRemote {
		if fig, err = b.figure(); err != nil {
			return nil, err
		}
	}

	var locs []string
	for _, f := range c.Formats() {
		var data []byte
		if isRemote {
			data, err = remote.encode(b, f)
		} else {
			data, err = c.encodeFigure(ctx, fig, f, ro)
		}
		if err != nil {
			return locs, err
		}
		loc, err := c.save(ctx, data, key, f, ro)
		if err != nil {
			return locs, err
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

// Variant is one output of RenderBatch.
type Variant struct {
	// Suffix is appended to the key, e.g. "-large".
	Suffix string
	Format string
	// Width and Height override the chart size when positive.
	Width, Height float64
	RenderOptions
}

// RenderBatch renders several format and size variants of the chart. It
// stops at the first error, returning the locations saved so far.
func (c *Chart) RenderBatch(ctx context.Context, key string, variants []Variant) ([]string, error) {
	var locs []string
	for _, v := range variants {
		cp := *c
		if v.Width > 0 {
			cp.opts.Width = v.Width
			if v.Height <= 0 && c.opts.Height > 0 && c.opts.Width > 0 {
				cp.opts.Height = c.opts.Height * v.Width / c.opts.Width
			}
		}
		if v.Height > 0 {
			cp.opts.Height = v.Height
		}
		loc, err := cp.Render(ctx, key+v.Suffix, v.Format, v.RenderOptions)
		if err != nil {
			return locs, err
		}
		locs = append(locs, loc)
	}
	return locs, nil
}
