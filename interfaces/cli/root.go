// Package cli holds the genealogy3d command tree.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"genealogy3d/infrastructure/config"
	"genealogy3d/infrastructure/di"
	"genealogy3d/infrastructure/render/headless"
)

var version = "0.3.0"

type app struct {
	configPath string
	cfg        *config.Config
	newWindow  WindowFactory
}

// NewRootCmd builds the command tree. newWindow may be nil, in which case
// view only runs headless.
func NewRootCmd(newWindow WindowFactory) *cobra.Command {
	a := &app{newWindow: newWindow}

	root := &cobra.Command{
		Use:   "genealogy3d",
		Short: "Explore a family tree in 3D",
		Long: Brand.Sprint("genealogy3d") + " renders a family graph as a navigable 3D scene\n" +
			Subtle.Sprint("Hover, click to focus, and follow a person's connections"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.SetVersionTemplate("genealogy3d {{ .Version }}\n")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "genealogy3d.yaml", "Path to the YAML config file")

	root.AddCommand(
		viewCmd(a),
		layoutCmd(a),
		connectionsCmd(a),
		searchCmd(a),
		serveCmd(a),
	)
	return root
}

// Execute runs the root command and prints a failure to stderr.
func Execute(newWindow WindowFactory) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd(newWindow)
	err := root.ExecuteContext(ctx)
	if err != nil {
		Bad.Fprintf(root.ErrOrStderr(), "genealogy3d: %v\n", err)
	}
	return err
}

// headlessContainer wires the application against an off-screen surface
// and loads the graph.
func (a *app) headlessContainer(cmd *cobra.Command) (*di.Container, error) {
	surface := headless.NewSurface(float32(a.cfg.Window.Width), float32(a.cfg.Window.Height))
	c, err := di.InitializeContainer(a.cfg, surface)
	if err != nil {
		return nil, err
	}
	if err := c.Session.Start(cmd.Context()); err != nil {
		return nil, err
	}
	return c, nil
}
