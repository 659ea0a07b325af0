//go:build wireinject
// +build wireinject

// wire_gen.go is committed. After changing this file run
// `go generate ./infrastructure/di` and check that `git diff --exit-code`
// stays clean; TestInitializeContainer covers the generated wiring.

package di

import (
	"github.com/google/wire"

	"genealogy3d/application/ports"
	"genealogy3d/application/viewer"
	"genealogy3d/infrastructure/config"
	"genealogy3d/infrastructure/observability"
	"genealogy3d/infrastructure/persistence/memory"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	wire.Bind(new(ports.Metrics), new(*observability.Collector)),
	ProvideBackend,
	wire.Bind(new(ports.DataBackend), new(*memory.Backend)),
	ProvideFamilyService,
	ProvideSynchronizer,
	ProvideMachine,
	viewer.NewSession,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container drawing on surface
func InitializeContainer(cfg *config.Config, surface ports.Surface) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
