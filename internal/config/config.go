// Package config loads the CatalystRun YAML configuration with embedded
// defaults: a missing file runs everything on defaults, a present file
// overrides only what it sets.
package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/sawpanic/catalystrun/internal/domain/rating"
	"github.com/sawpanic/catalystrun/internal/infrastructure/market"
)

// Store backends selectable via store.backend.
const (
	BackendJSON     = "json"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
)

// StoreConfig selects and tunes the persistence backend.
type StoreConfig struct {
	Backend     string `yaml:"backend"`
	DataDir     string `yaml:"data_dir"`     // json backend
	BadgerDir   string `yaml:"badger_dir"`   // badger backend
	PostgresDSN string `yaml:"postgres_dsn"` // postgres backend
}

// ServeConfig tunes the read-only report API.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the full application configuration.
type Config struct {
	Store   StoreConfig     `yaml:"store"`
	Market  market.Config   `yaml:"market"`
	Weights *rating.Weights `yaml:"weights"` // optional composite weight override
	Serve   ServeConfig     `yaml:"serve"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend:   BackendJSON,
			DataDir:   "data",
			BadgerDir: "data/kv",
		},
		Market: market.DefaultConfig(),
		Serve:  ServeConfig{Addr: ":8087"},
	}
}

// Load reads the config file at path on top of the defaults. A missing file
// is not an error; a malformed file or an invalid weight override is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Debug().Str("path", path).Msg("No config file, using defaults")
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := validate(cfg); err != nil {
		return cfg, fmt.Errorf("validate config %s: %w", path, err)
	}

	log.Debug().Str("path", path).Str("backend", cfg.Store.Backend).Msg("Config loaded")
	return cfg, nil
}

func validate(cfg Config) error {
	switch cfg.Store.Backend {
	case BackendJSON, BackendBadger, BackendPostgres:
	default:
		return fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	if cfg.Store.Backend == BackendPostgres && cfg.Store.PostgresDSN == "" {
		return fmt.Errorf("postgres backend requires store.postgres_dsn")
	}
	if w := cfg.Weights; w != nil {
		const eps = 1e-9
		if sum := w.Sum(); sum < 1-eps || sum > 1+eps {
			return fmt.Errorf("weight override must sum to 1.0, got %.4f", sum)
		}
	}
	return nil
}
