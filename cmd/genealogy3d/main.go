package main

import (
	"os"

	"genealogy3d/infrastructure/config"
	"genealogy3d/infrastructure/render/ebitenview"
	"genealogy3d/interfaces/cli"
)

func main() {
	if err := cli.Execute(newWindow); err != nil {
		os.Exit(1)
	}
}

func newWindow(cfg config.WindowConfig) cli.Window {
	return ebitenview.NewWindow(ebitenview.Config{
		Width:  cfg.Width,
		Height: cfg.Height,
		Title:  cfg.Title,
		TPS:    cfg.TPS,
	}, nil)
}
