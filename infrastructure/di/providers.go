package di

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"genealogy3d/application/interaction"
	"genealogy3d/application/ports"
	"genealogy3d/application/scene"
	"genealogy3d/application/services"
	"genealogy3d/application/viewer"
	"genealogy3d/infrastructure/config"
	"genealogy3d/infrastructure/observability"
	"genealogy3d/infrastructure/persistence/fixture"
	"genealogy3d/infrastructure/persistence/memory"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "genealogy3d"

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Collector
	Backend *memory.Backend
	Service *services.FamilyService
	Session *viewer.Session
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector(MetricsNamespace)
}

// ProvideBackend creates the in-memory data backend seeded from the
// configured fixture
func ProvideBackend(cfg *config.Config, logger *zap.Logger) (*memory.Backend, error) {
	fam, err := fixture.LoadFile(cfg.Fixture)
	if err != nil {
		return nil, err
	}
	backend := memory.NewBackend()
	backend.Seed(fam.Persons, fam.Relations)
	logger.Info("Fixture loaded",
		zap.String("path", cfg.Fixture),
		zap.Int("persons", len(fam.Persons)),
		zap.Int("relations", len(fam.Relations)),
	)
	return backend, nil
}

// ProvideFamilyService creates the family service. The session registers
// itself as the event publisher.
func ProvideFamilyService(backend ports.DataBackend, cfg *config.Config, logger *zap.Logger, metrics ports.Metrics) *services.FamilyService {
	return services.NewFamilyService(backend, nil, cfg.Backend, logger, metrics)
}

// ProvideSynchronizer creates the scene synchronizer for surface
func ProvideSynchronizer(surface ports.Surface, cfg *config.Config, logger *zap.Logger, metrics ports.Metrics) *scene.Synchronizer {
	return scene.NewSynchronizer(surface, cfg.Layout, cfg.Scene, logger, metrics)
}

// ProvideMachine creates the interaction state machine
func ProvideMachine(cfg *config.Config, logger *zap.Logger, metrics ports.Metrics) *interaction.Machine {
	return interaction.NewMachine(cfg.Camera, cfg.Traversal.MaxNeighbors, logger, metrics)
}
