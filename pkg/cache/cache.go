// Package cache provides a Redis-backed JSON cache with lifecycle
// coordination. A nil-safe no-op implementation is used when no cache
// address is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flowbit/flowbit/pkg/lifecycle"
)

// ErrMiss is returned by Get when a key is absent.
var ErrMiss = errors.New("cache miss")

// System stores and retrieves JSON-encoded values by key.
type System interface {
	// Get unmarshals the cached value for key into dest.
	// Returns ErrMiss when the key is absent.
	Get(ctx context.Context, key string, dest any) error
	// Set marshals value and stores it under key with the configured TTL.
	Set(ctx context.Context, key string, value any) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type store struct {
	client *redis.Client
	logger *slog.Logger
	prefix string
	ttl    time.Duration
}

// New creates a cache system from the configuration. When no address is
// configured, a disabled system is returned: every Get misses and writes are
// discarded.
func New(cfg *Config, logger *slog.Logger) System {
	if !cfg.Enabled() {
		return disabled{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	return &store{
		client: client,
		logger: logger.With("system", "cache"),
		prefix: cfg.KeyPrefix,
		ttl:    cfg.TTLDuration(),
	}
}

func (s *store) key(key string) string {
	return s.prefix + key
}

func (s *store) Get(ctx context.Context, key string, dest any) error {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache decode %s: %w", key, err)
	}
	return nil
}

func (s *store) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	if err := s.client.Set(ctx, s.key(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (s *store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

func (s *store) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting cache connection")

	lc.OnStartup(func() {
		pingCtx, cancel := context.WithTimeout(lc.Context(), 5*time.Second)
		defer cancel()

		if err := s.client.Ping(pingCtx).Err(); err != nil {
			s.logger.Error("cache ping failed", "error", err)
			return
		}

		s.logger.Info("cache connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		if err := s.client.Close(); err != nil {
			s.logger.Error("cache close failed", "error", err)
			return
		}

		s.logger.Info("cache connection closed")
	})

	return nil
}

type disabled struct{}

func (disabled) Get(context.Context, string, any) error    { return ErrMiss }
func (disabled) Set(context.Context, string, any) error    { return nil }
func (disabled) Delete(context.Context, string) error      { return nil }
func (disabled) Start(*lifecycle.Coordinator) error        { return nil }
