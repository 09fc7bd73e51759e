// Package cache stores rendered API responses and answers conditional requests.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Cache defines the interface for all cache backends
type Cache interface {
	// Get retrieves a value, returning ErrCacheMiss when absent
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value; a zero ttl uses the backend default
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache
	Delete(ctx context.Context, key string) error

	// Clear removes every value under the backend prefix
	Clear(ctx context.Context) error

	// Close releases background resources
	Close() error
}

// CacheConfig holds common configuration for cache backends
type CacheConfig struct {
	// DefaultTTL is the default time-to-live for cached items
	DefaultTTL time.Duration
	// Prefix is prepended to all cache keys
	Prefix string
}

// DefaultCacheConfig returns a default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DefaultTTL: 5 * time.Minute,
		Prefix:     "patternbook:",
	}
}

// Options selects and configures a backend for New
type Options struct {
	Backend string
	Config  CacheConfig
	Redis   RedisConfig
}

// New builds the backend named by opts.Backend. The redis backend is pinged
// before it is returned.
func New(ctx context.Context, opts Options) (Cache, error) {
	cfg := opts.Config
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultCacheConfig().Prefix
	}

	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryCacheWithConfig(cfg), nil
	case BackendRedis:
		redisCfg := opts.Redis
		if redisCfg.Addr == "" {
			redisCfg.Addr = DefaultRedisConfig().Addr
		}
		redisCfg.CacheConfig = cfg
		return NewRedisCacheWithConfig(ctx, redisCfg)
	case BackendNone:
		return NopCache{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// IsCacheMiss checks if an error is a cache miss
func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

// NopCache never stores anything
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, error) { return nil, ErrCacheMiss }

func (NopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NopCache) Delete(context.Context, string) error { return nil }

func (NopCache) Clear(context.Context) error { return nil }

func (NopCache) Close() error { return nil }
