package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"genealogy3d/application/ports"
	"genealogy3d/domain/core/entities"
	"genealogy3d/domain/events"
	"genealogy3d/infrastructure/config"
	"genealogy3d/infrastructure/di"
	headlessrender "genealogy3d/infrastructure/render/headless"
	"genealogy3d/infrastructure/watch"
)

// Window is a render surface that owns its frame loop.
type Window interface {
	ports.Surface
	Run(step func(dt time.Duration) error) error
}

// WindowFactory opens the desktop window for the view command.
type WindowFactory func(cfg config.WindowConfig) Window

func viewCmd(a *app) *cobra.Command {
	var (
		noWatch  bool
		headless bool
		ticks    uint64
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the 3D viewer window",
		Long: `Open the 3D viewer window.

  mouse move     hover a person or relation
  left click     select a person and show their connections
  left drag      orbit          right drag  pan
  wheel, + / -   zoom           f           freeze the view
  r, Esc         reset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := a.cfg

			var (
				surface ports.Surface
				loop    func(step func(time.Duration) error) error
			)
			if headless {
				surface = headlessrender.NewSurface(float32(cfg.Window.Width), float32(cfg.Window.Height))
				loop = func(step func(time.Duration) error) error {
					err := headlessrender.Run(ctx, step, headlessrender.Config{TPS: cfg.Window.TPS, Ticks: ticks})
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				}
			} else {
				if a.newWindow == nil {
					return errors.New("no window support in this build, use --headless")
				}
				window := a.newWindow(cfg.Window)
				surface, loop = window, window.Run
			}

			c, err := di.InitializeContainer(cfg, surface)
			if err != nil {
				return err
			}
			logger := c.Logger
			defer logger.Sync()
			session := c.Session

			session.OnSelect(func(p *entities.Person) {
				logger.Info("Person selected",
					zap.String("personID", p.ID.String()),
					zap.String("name", p.DisplayName()),
				)
			})
			session.Subscribe(func(ev events.DomainEvent) {
				logger.Debug("Family changed", zap.String("event", ev.GetEventType()))
			})
			if err := session.Start(ctx); err != nil {
				return err
			}
			defer session.Close()

			if cfg.Watch.Enabled && !noWatch {
				w, err := watch.NewWatcher(cfg.Fixture, cfg.Watch.Debounce, logger)
				if err != nil {
					return err
				}
				defer w.Close()
				w.OnChange(func(path string) {
					session.Enqueue(watch.ReloadTask(path, c.Backend, session.Reload))
				})
			}

			if cfg.Metrics.Enabled {
				srv := &http.Server{
					Addr:              cfg.Metrics.Address,
					Handler:           promhttp.HandlerFor(c.Metrics.GetRegistry(), promhttp.HandlerOpts{}),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					logger.Info("Serving metrics", zap.String("address", cfg.Metrics.Address))
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("Metrics server failed", zap.Error(err))
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			return loop(func(dt time.Duration) error {
				if ctx.Err() != nil {
					return session.Close()
				}
				if err := session.Tick(ctx, dt); err != nil {
					logger.Warn("Frame task failed", zap.Error(err))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload the fixture when it changes")
	cmd.Flags().BoolVar(&headless, "headless", false, "Run the frame loop without opening a window")
	cmd.Flags().Uint64Var(&ticks, "ticks", 0, "Stop a headless run after this many frames (0 runs until interrupted)")
	return cmd
}
