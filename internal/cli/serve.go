package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jplusplus/nwcharts/internal/server"
)

const shutdownTimeout = 15 * time.Second

// serveCommand runs the HTTP rendering server until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve chart rendering over HTTP",
		Long: `Serve chart rendering over HTTP.

Endpoints:
  GET  /healthz
  GET  /v1/styles
  GET  /v1/types
  POST /v1/render        render a posted definition, respond with the image
  POST /v1/charts        render and store a definition, respond with locations
  GET  /v1/charts/{id}   fetch a stored definition`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()
			runner, release, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer release()

			sc := server.Config{
				Addr:         cfg.Server.Addr,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
			}
			if addr != "" {
				sc.Addr = addr
			}
			srv := server.New(sc, runner, c.Logger)
			return serve(ctx, srv)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *server.Server) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
