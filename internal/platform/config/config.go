// Package config provides the immutable runtime configuration.
// Defaults are explicit; no package-level mutable state is shared.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the tunable parameters of the idle server.
type Config struct {
	// HTTP / WebSocket listener
	ListenAddr string `env:"IDLE_LISTEN_ADDR"`

	// SQLite database file backing the save slot and event sink
	DBPath string `env:"IDLE_DB_PATH"`

	// Auto-save period. Persistence failures log and retry next cycle.
	AutoSaveInterval time.Duration `env:"IDLE_AUTOSAVE_INTERVAL"`

	// Player-visible game log bound
	GameLogCapacity int `env:"IDLE_GAMELOG_CAPACITY"`

	// Minimum gap between actions from one websocket client
	ClientActionWindow time.Duration `env:"IDLE_CLIENT_ACTION_WINDOW"`

	// Automatic chopping loop. Off means the axe only swings on request.
	AutoChop bool `env:"IDLE_AUTO_CHOP"`
}

// DefaultConfig returns the shipped defaults.
func DefaultConfig() Config {
	return Config{
		ListenAddr:         ":8080",
		DBPath:             "haizkolari.db",
		AutoSaveInterval:   5 * time.Minute,
		GameLogCapacity:    10,
		ClientActionWindow: 100 * time.Millisecond,
		AutoChop:           true,
	}
}

// Load returns the defaults overlaid with any environment overrides.
func Load() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
