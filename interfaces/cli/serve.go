package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"genealogy3d/interfaces/http/rest"
)

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the family graph, its layout and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := a.cfg
			if addr != "" {
				cfg.HTTP.Address = addr
			}

			c, err := a.headlessContainer(cmd)
			if err != nil {
				return err
			}
			defer c.Session.Close()
			logger := c.Logger
			defer logger.Sync()

			router := rest.NewRouter(c.Service, c.Metrics.GetRegistry(), rest.Options{
				Layout:         cfg.Layout,
				MaxNeighbors:   cfg.Traversal.MaxNeighbors,
				AllowedOrigins: cfg.HTTP.AllowedOrigins,
				Debug:          cfg.IsDevelopment(),
			}, logger)

			srv := &http.Server{
				Addr:         cfg.HTTP.Address,
				Handler:      router.Setup(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting server",
					zap.String("address", cfg.HTTP.Address),
					zap.String("environment", cfg.Environment),
				)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Server shutdown error", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to http.address)")
	return cmd
}
