package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jplusplus/nwcharts/internal/config"
	"github.com/jplusplus/nwcharts/pkg/buildinfo"
	"github.com/jplusplus/nwcharts/pkg/geo"
	"github.com/jplusplus/nwcharts/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The configuration file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "nwcharts",
		Short:        "nwcharts renders newsroom charts from YAML definitions",
		Long:         `nwcharts renders line, bar, scatter, range, stripe and map charts in a consistent house style to PNG, SVG, PDF, JPG and WEBP, locally or to cloud storage.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/nwcharts/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.stylesCommand())
	root.AddCommand(c.typesCommand())
	root.AddCommand(c.newCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// config returns the loaded configuration, or the defaults when a command
// runs without the root pre-run (tests).
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner from the configuration. The returned
// function releases the cache and storage.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, func(), error) {
	st, closeStorage, err := cfg.OpenStorage(ctx)
	if err != nil {
		return nil, nil, err
	}
	ac, err := cfg.OpenCache(ctx, noCache)
	if err != nil {
		_ = closeStorage(ctx)
		return nil, nil, err
	}
	if n, err := cfg.LoadMaps(geo.Default); err != nil {
		c.Logger.Warn("could not load base maps", "dir", cfg.Maps.Dir, "error", err)
	} else if n > 0 {
		c.Logger.Debug("loaded base maps", "count", n, "dir", cfg.Maps.Dir)
	}

	runner := pipeline.NewRunner(ac, cfg.Keyer(), c.Logger)
	runner.Defaults = cfg.ChartOptions()
	runner.Defaults.Storage = st
	runner.Defaults.Maps = geo.Default
	if cfg.Cache.TTL > 0 {
		runner.TTL = cfg.Cache.TTL
	}
	release := func() {
		if err := runner.Close(); err != nil {
			c.Logger.Warn("close cache", "error", err)
		}
		if err := closeStorage(context.WithoutCancel(ctx)); err != nil {
			c.Logger.Warn("close storage", "error", err)
		}
	}
	return runner, release, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats splits a comma-separated format list. An empty flag falls
// back to the configured formats, and nil means every supported format.
func parseFormats(s string, defaults []string) []string {
	if s == "" {
		return append([]string(nil), defaults...)
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
