package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jplusplus/nwcharts/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	formats     string  // comma-separated output formats
	output      string  // output directory, overrides the configured storage
	key         string  // storage key, single file only
	kind        string  // chart type override
	style       string  // style name or path override
	language    string  // BCP 47 tag override
	width       float64 // pixel width override
	height      float64 // pixel height override
	factor      float64 // raster pixel multiplier
	transparent bool    // skip the background
	noCache     bool    // do not read or write the artifact cache
	refresh     bool    // re-render even when cached
	jobs        int     // files rendered concurrently
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{jobs: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "render [definition...]",
		Short: "Render chart definitions",
		Long: `Render one or more YAML or JSON chart definitions.

Each file is saved under its base name, e.g. unemployment.yaml becomes
unemployment.png, to the --output directory or the configured storage.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.key != "" && len(args) > 1 {
				return fmt.Errorf("--key needs a single definition, got %d", len(args))
			}
			if opts.jobs < 1 {
				opts.jobs = 1
			}
			return c.runRender(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): png, svg, pdf, jpg, webp (comma-separated, default all)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (overrides the configured storage)")
	cmd.Flags().StringVar(&opts.key, "key", "", "storage key (default: file name without extension)")
	cmd.Flags().StringVarP(&opts.kind, "type", "t", "", "chart type (overrides the definition)")
	cmd.Flags().StringVar(&opts.style, "style", "", "style name or file")
	cmd.Flags().StringVar(&opts.language, "language", "", "language tag, e.g. sv-SE")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "height in pixels")
	cmd.Flags().Float64Var(&opts.factor, "factor", 1, "pixel multiplier for raster formats")
	cmd.Flags().BoolVar(&opts.transparent, "transparent", false, "transparent background")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render cached charts")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "files rendered concurrently")

	return cmd
}

// runRender renders every file, at most opts.jobs at a time. Each file gets
// its own chart, so failures are independent; the first error is returned
// after all files finish.
func (c *CLI) runRender(ctx context.Context, paths []string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	cfg := *c.config()
	if opts.output != "" {
		cfg.Storage.Backend = "local"
		cfg.Storage.Dir = opts.output
	}

	runner, release, err := c.newRunner(ctx, &cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer release()

	formats := parseFormats(opts.formats, cfg.Defaults.Formats)
	results := make([]*pipeline.Result, len(paths))
	errs := make([]error, len(paths))

	var spin *Spinner
	if len(paths) == 1 {
		spin = newSpinner(ctx, os.Stderr, "Rendering "+filepath.Base(paths[0]))
		spin.Start()
	}
	prog := newProgress(logger)

	var g errgroup.Group
	g.SetLimit(opts.jobs)
	for i, path := range paths {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				errs[i] = err
				return nil
			}
			key := opts.key
			if key == "" {
				key = keyFor(path)
			}
			results[i], errs[i] = runner.Execute(ctx, pipeline.Options{
				Definition:  data,
				Kind:        opts.kind,
				Formats:     append([]string(nil), formats...),
				Key:         key,
				Style:       opts.style,
				Language:    opts.language,
				Width:       opts.width,
				Height:      opts.height,
				Factor:      opts.factor,
				Transparent: opts.transparent,
				Refresh:     opts.refresh,
				Logger:      logger.With("file", filepath.Base(path)),
			})
			return nil
		})
	}
	_ = g.Wait()
	if spin != nil {
		spin.Stop()
	}

	failed := 0
	var first error
	for i, path := range paths {
		if errs[i] != nil {
			failed++
			if first == nil {
				first = fmt.Errorf("%s: %w", path, errs[i])
			}
			printError("%s: %v", path, errs[i])
			continue
		}
		printResult(path, results[i])
	}
	if len(paths) > 1 {
		prog.done(fmt.Sprintf("Rendered %d of %d charts", len(paths)-failed, len(paths)))
	}
	return first
}

// keyFor derives a storage key from a definition path.
func keyFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func printResult(path string, res *pipeline.Result) {
	printSuccess("%s %s", filepath.Base(path), StyleDim.Render(res.Kind))
	formats := make([]string, 0, len(res.Locations))
	for f := range res.Locations {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	for _, f := range formats {
		printFile(res.Locations[f])
	}
	printStats(res)
}
