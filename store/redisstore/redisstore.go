// Package redisstore persists trait assignments in a single Redis hash,
// field = player UUID, value = trait identifier.
package redisstore

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oriumgames/traitswap/store"
)

// DefaultKey is the hash used when Config.Key is empty.
const DefaultKey = "traitswap:traits"

// Options configures the Redis client created by Dial.
type Options struct {
	PoolSize        int
	MinIdleConns    int
	ConnMaxIdleTime time.Duration
	MaxRetries      int
	UseTLS          bool
}

// Dial creates a client for a single Redis instance. Redis connects lazily,
// so no connection is made until the first command.
func Dial(endpoint string, opts *Options) (redis.UniversalClient, error) {
	if endpoint == "" {
		return nil, errors.New("redis: endpoint is required")
	}
	if opts == nil {
		opts = &Options{}
	}

	redisOpts := &redis.Options{
		Addr:            endpoint,
		PoolSize:        opts.PoolSize,
		MinIdleConns:    opts.MinIdleConns,
		ConnMaxIdleTime: opts.ConnMaxIdleTime,
		MaxRetries:      opts.MaxRetries,
	}
	if opts.UseTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(redisOpts), nil
}

// Config holds the configuration for the Redis store.
type Config struct {
	Client redis.UniversalClient
	// Key is the hash holding the traits. Defaults to DefaultKey.
	Key string
}

// Validate ensures all required dependencies are provided.
func (c *Config) Validate() error {
	if c == nil || c.Client == nil {
		return errors.New("redis client is required")
	}
	return nil
}

// Store is a Redis-backed store.Store.
type Store struct {
	client redis.UniversalClient
	key    string
}

// Ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

// New creates a Redis store.
func New(cfg *Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	return &Store{client: cfg.Client, key: key}, nil
}

// Key returns the hash the store uses.
func (s *Store) Key() string {
	return s.key
}

// Load reads the whole hash. A missing hash yields an empty snapshot.
func (s *Store) Load(ctx context.Context) (store.Snapshot, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read traits from Redis: %w", err)
	}
	return store.Snapshot(fields), nil
}

// Save replaces the hash in a single transaction.
func (s *Store) Save(ctx context.Context, snap store.Snapshot) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key)
	if len(snap) > 0 {
		values := make(map[string]any, len(snap))
		for id, name := range snap {
			values[id] = name
		}
		pipe.HSet(ctx, s.key, values)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write traits to Redis: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
