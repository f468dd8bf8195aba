package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jplusplus/nwcharts/internal/config"
	"github.com/jplusplus/nwcharts/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered chart cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			ac, err := cfg.OpenCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer ac.Close()

			clr, ok := ac.(cache.Clearer)
			if !ok {
				printInfo("The %s cache backend keeps nothing to clear", cfg.Cache.Backend)
				return nil
			}
			if err := clr.Clear(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Cache cleared")
			printDetail("Backend: %s", cacheLocation(cfg))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache is kept",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(cfg))
			return nil
		},
	}
}

// cacheLocation describes the cache: a directory for the file backend,
// an address for redis.
func cacheLocation(cfg *config.Config) string {
	switch cfg.Cache.Backend {
	case "none":
		return "disabled"
	case "redis":
		addr := cfg.Cache.Redis.Addr
		if addr == "" {
			addr = cache.DefaultRedisConfig().Addr
		}
		return "redis://" + addr
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		return "unavailable: " + err.Error()
	}
	return dir
}
