// Package pipeline turns chart definitions into rendered files.
//
// It is the single code path shared by the CLI and the HTTP API: a
// definition is parsed, the chart is built, every requested format is
// encoded (or taken from the artifact cache) and, when a key is given,
// saved to storage.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	runner.Defaults = chart.Options{Storage: storage.NewLocal("out")}
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Definition: yamlBytes,
//	    Formats:    []string{"png", "svg"},
//	    Key:        "unemployment",
//	})
//	png := result.Artifacts["png"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jplusplus/nwcharts/pkg/cache"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/render"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options describe one pipeline run. The JSON form is accepted by the HTTP
// API next to the definition.
type Options struct {
	// Definition is the YAML or JSON chart definition.
	Definition []byte `json:"-"`
	// Kind overrides the definition's chart type.
	Kind string `json:"chart,omitempty"`

	// Formats to encode. Empty means every format the chart type supports.
	Formats []string `json:"formats,omitempty"`
	// Key saves the artifacts to storage when set.
	Key string `json:"key,omitempty"`

	// Overrides of the definition.
	Style    string  `json:"style,omitempty"`
	Language string  `json:"language,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`

	Factor         float64           `json:"factor,omitempty"`
	Transparent    bool              `json:"transparent,omitempty"`
	StorageOptions map[string]string `json:"storage_options,omitempty"`

	// Refresh bypasses cached artifacts (fresh ones are still written).
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Validate checks the options and applies defaults.
func (o *Options) Validate() error {
	if len(o.Definition) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "chart definition is empty")
	}
	for i, f := range o.Formats {
		nf, err := render.NormalizeFormat(f)
		if err != nil {
			return err
		}
		o.Formats[i] = nf
	}
	if o.Key != "" {
		if err := errors.ValidateKey(o.Key); err != nil {
			return err
		}
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width and height must not be negative")
	}
	if o.Factor < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "factor must not be negative, got %v", o.Factor)
	}
	if o.Factor == 0 {
		o.Factor = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// artifactKeyOpts returns the cache key options of one format.
func (o *Options) artifactKeyOpts(kind, style, language string, width, height float64, format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Kind:        kind,
		Format:      format,
		Style:       style,
		Language:    language,
		Width:       width,
		Height:      height,
		Factor:      o.Factor,
		Transparent: o.Transparent,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Kind is the canonical chart type.
	Kind string
	// DefinitionHash is the content hash of the definition.
	DefinitionHash string
	// Width and Height are the rendered size in pixels.
	Width, Height float64

	// Artifacts are the encoded files keyed by format.
	Artifacts map[string][]byte
	// Locations are the storage locations keyed by format, when saved.
	Locations map[string]string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing information.
type Stats struct {
	BuildTime  time.Duration
	RenderTime time.Duration
	SaveTime   time.Duration
}

// CacheInfo records which formats came from the cache.
type CacheInfo struct {
	Hits   []string
	Misses []string
}

// AllHit reports whether every artifact came from the cache.
func (c CacheInfo) AllHit() bool {
	return len(c.Misses) == 0 && len(c.Hits) > 0
}

func (r *Result) String() string {
	return fmt.Sprintf("%s %.0fx%.0f (%d artifacts, %d cached)", r.Kind, r.Width, r.Height, len(r.Artifacts), len(r.CacheInfo.Hits))
}
