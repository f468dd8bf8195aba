package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jplusplus/nwcharts/pkg/cache"
	"github.com/jplusplus/nwcharts/pkg/chart"
	"github.com/jplusplus/nwcharts/pkg/observability"
)

// keyTypeArtifact labels artifact cache events.
const keyTypeArtifact = "artifact"

// Runner executes the pipeline with artifact caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless apart from its cache, defaults and logger, so
// multiple goroutines can share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Defaults are the chart options definitions start from: storage,
	// base maps, style resolver, and fallback style and language.
	Defaults chart.Options
	// TTL of cached artifacts (default cache.TTLArtifact).
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLArtifact,
	}
}

// Execute parses the definition, encodes every requested format and saves
// the artifacts when opts.Key is set. Configuration errors are returned
// before anything is saved.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	buildStart := time.Now()
	ch, err := r.Chart(opts)
	if err != nil {
		return nil, err
	}
	width, height := ch.Size()
	result := &Result{
		Kind:           ch.Kind(),
		DefinitionHash: cache.Hash(opts.Definition),
		Width:          width,
		Height:         height,
		Artifacts:      make(map[string][]byte),
		Locations:      make(map[string]string),
	}
	result.Stats.BuildTime = time.Since(buildStart)

	formats := opts.Formats
	if len(formats) == 0 {
		formats = ch.Formats()
	}
	ro := chart.RenderOptions{
		Transparent:    opts.Transparent,
		Factor:         opts.Factor,
		StorageOptions: opts.StorageOptions,
	}

	renderStart := time.Now()
	for _, f := range formats {
		data, hit, err := r.encode(ctx, ch, result.DefinitionHash, f, ro, opts)
		if err != nil {
			return nil, err
		}
		result.Artifacts[f] = data
		if hit {
			result.CacheInfo.Hits = append(result.CacheInfo.Hits, f)
		} else {
			result.CacheInfo.Misses = append(result.CacheInfo.Misses, f)
		}
	}
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Debug("rendered chart",
		"chart", result.Kind,
		"formats", formats,
		"cached", len(result.CacheInfo.Hits),
		"duration", result.Stats.RenderTime)

	if opts.Key == "" {
		return result, nil
	}
	saveStart := time.Now()
	for _, f := range formats {
		loc, err := ch.Save(ctx, result.Artifacts[f], opts.Key, f, ro)
		if err != nil {
			return result, err
		}
		result.Locations[f] = loc
	}
	result.Stats.SaveTime = time.Since(saveStart)
	return result, nil
}

// Chart builds the chart described by opts without rendering it.
func (r *Runner) Chart(opts Options) (*chart.Chart, error) {
	def, err := chart.ParseDefinition(opts.Definition)
	if err != nil {
		return nil, err
	}
	if opts.Style != "" {
		def.Style = opts.Style
	}
	if opts.Language != "" {
		def.Language = opts.Language
	}
	if opts.Width > 0 {
		def.Width = opts.Width
	}
	if opts.Height > 0 {
		h := opts.Height
		def.Height = &h
	}

	co := r.Defaults
	if opts.Logger != nil {
		co.Logger = opts.Logger
	}
	return def.NewChart(opts.Kind, co)
}

// encode returns the artifact of one format, from the cache when possible.
func (r *Runner) encode(ctx context.Context, ch *chart.Chart, defHash, format string, ro chart.RenderOptions, opts Options) ([]byte, bool, error) {
	width, height := ch.Size()
	style, language := ch.StyleName(), ch.Language()
	key := r.Keyer.ArtifactKey(defHash, opts.artifactKeyOpts(ch.Kind(), style, language, width, height, format))

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			opts.Logger.Warn("artifact cache read failed", "error", err)
		case hit:
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			return data, true, nil
		default:
			observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
		}
	}

	data, err := ch.Encode(ctx, format, ro)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		opts.Logger.Warn("artifact cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
