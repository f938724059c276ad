package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/oriumgames/traitswap/store"
	"github.com/oriumgames/traitswap/store/redisstore"
	"github.com/oriumgames/traitswap/store/sqlitestore"
	"github.com/oriumgames/traitswap/store/yamlstore"
)

// Store backends.
const (
	backendYAML   = "yaml"
	backendRedis  = "redis"
	backendSQLite = "sqlite"
)

var flagStore string

// Config holds the process configuration, read from the environment.
type Config struct {
	Store        string        `env:"TRAITSWAP_STORE" envDefault:"yaml"`
	YAMLPath     string        `env:"TRAITSWAP_YAML_PATH" envDefault:"traits.yml"`
	RedisAddr    string        `env:"TRAITSWAP_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisKey     string        `env:"TRAITSWAP_REDIS_KEY" envDefault:"traitswap:traits"`
	SQLitePath   string        `env:"TRAITSWAP_SQLITE_PATH" envDefault:"traits.db"`
	Listen       string        `env:"TRAITSWAP_LISTEN" envDefault:":19132"`
	RespawnDelay int           `env:"TRAITSWAP_RESPAWN_DELAY_TICKS" envDefault:"1"`
	SaveTimeout  time.Duration `env:"TRAITSWAP_SAVE_TIMEOUT" envDefault:"5s"`
	LogLevel     string        `env:"TRAITSWAP_LOG_LEVEL" envDefault:"info"`
}

// loadConfig parses the environment and applies command line overrides.
func loadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if flagStore != "" {
		cfg.Store = flagStore
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	switch c.Store {
	case backendYAML, backendRedis, backendSQLite:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.RespawnDelay < 0 {
		return fmt.Errorf("respawn delay must not be negative, got %d", c.RespawnDelay)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// logger returns the process logger at the configured level.
func (c *Config) logger() *slog.Logger {
	lvl, _ := c.level()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// openStore opens the configured store backend.
func (c *Config) openStore() (store.Store, error) {
	switch c.Store {
	case backendRedis:
		client, err := redisstore.Dial(c.RedisAddr, nil)
		if err != nil {
			return nil, err
		}
		return redisstore.New(&redisstore.Config{Client: client, Key: c.RedisKey})
	case backendSQLite:
		return sqlitestore.Open(c.SQLitePath)
	default:
		return yamlstore.New(c.YAMLPath), nil
	}
}
