// Package config loads viewer settings from a YAML file overlaid with
// GENEALOGY3D_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"genealogy3d/application/interaction"
	"genealogy3d/application/scene"
	appservices "genealogy3d/application/services"
	"genealogy3d/domain/services"
	"genealogy3d/pkg/utils"
)

// EnvPrefix prefixes every environment override. A double underscore
// separates nesting levels: GENEALOGY3D_CAMERA__ZOOM_STEP=0.1.
const EnvPrefix = "GENEALOGY3D_"

// Config holds all application configuration
type Config struct {
	Environment string `koanf:"environment" validate:"oneof=development production test"`
	LogLevel    string `koanf:"log_level" validate:"oneof=debug info warn error"`
	Fixture     string `koanf:"fixture" validate:"required"`

	Layout    services.LayoutConfig     `koanf:"layout"`
	Scene     scene.SceneConfig         `koanf:"scene"`
	Camera    interaction.CameraConfig  `koanf:"camera"`
	Traversal TraversalConfig           `koanf:"traversal"`
	Backend   appservices.BackendConfig `koanf:"backend"`
	Window    WindowConfig              `koanf:"window"`
	Metrics   MetricsConfig             `koanf:"metrics"`
	Watch     WatchConfig               `koanf:"watch"`
	HTTP      HTTPConfig                `koanf:"http"`
}

// TraversalConfig bounds the connection highlight.
type TraversalConfig struct {
	MaxNeighbors int `koanf:"max_neighbors" validate:"gt=0"`
}

// WindowConfig sizes the desktop window.
type WindowConfig struct {
	Width  int    `koanf:"width" validate:"gt=0"`
	Height int    `koanf:"height" validate:"gt=0"`
	Title  string `koanf:"title"`
	TPS    int    `koanf:"tps" validate:"gt=0,lte=240"`
}

// MetricsConfig controls the Prometheus registry and its listener.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Address string `koanf:"address" validate:"required_if=Enabled true"`
}

// WatchConfig controls fixture hot reload.
type WatchConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Debounce time.Duration `koanf:"debounce" validate:"gte=0"`
}

// HTTPConfig configures the read-only API served by the serve command.
type HTTPConfig struct {
	Address        string   `koanf:"address" validate:"required"`
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Fixture:     "fixtures/family.yaml",
		Layout:      services.DefaultLayoutConfig(),
		Scene:       scene.DefaultSceneConfig(),
		Camera:      interaction.DefaultCameraConfig(),
		Traversal:   TraversalConfig{MaxNeighbors: scene.DefaultMaxNeighbors},
		Backend:     appservices.DefaultBackendConfig(),
		Window: WindowConfig{
			Width:  1280,
			Height: 800,
			Title:  "Genealogy 3D",
			TPS:    60,
		},
		Metrics: MetricsConfig{Address: ":9090"},
		Watch:   WatchConfig{Enabled: true, Debounce: 500 * time.Millisecond},
		HTTP: HTTPConfig{
			Address:        ":8080",
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load reads the YAML file at path when it exists, then overlays
// environment overrides and validates the result. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps GENEALOGY3D_CAMERA__ZOOM_STEP to camera.zoom_step.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	return utils.ValidateStruct(c)
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
