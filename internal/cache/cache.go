// Package cache provides the time-windowed caches that sit in front of the
// adapter layer. Values are stored JSON encoded so every backend behaves alike.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
)

// Backend names accepted by New
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Cache stores encoded values for a limited time
type Cache interface {
	// Get returns the raw value for key and whether it was present and fresh
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
	// Close releases backend resources
	Close() error
}

// New creates the cache for backend. redisURL is only used by the redis backend.
func New(backend, redisURL string) (Cache, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendRedis:
		return NewRedis(redisURL)
	case BackendNone:
		return Noop{}, nil
	}
	return nil, fmt.Errorf("unknown cache backend: %s", backend)
}

// Key joins parts into a namespaced cache key
func Key(parts ...string) string {
	return "daoview:" + strings.Join(parts, ":")
}

// Fetch returns the cached value for key, or calls load and caches its result
// when load succeeds and reports it cacheable. Cache failures are logged and
// fall through to load.
func Fetch[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, bool, error)) (T, error) {
	var cached T
	raw, ok, err := c.Get(ctx, key)
	if err != nil {
		log.Printf("Cache get %s failed: %v", key, err)
	} else if ok {
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		log.Printf("Cache entry %s is corrupt, reloading", key)
	}

	value, cacheable, err := load(ctx)
	if err != nil || !cacheable {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		log.Printf("Cache encode %s failed: %v", key, err)
		return value, nil
	}
	if err := c.Set(ctx, key, encoded, ttl); err != nil {
		log.Printf("Cache set %s failed: %v", key, err)
	}
	return value, nil
}

// Noop never stores anything
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }

func (Noop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error { return nil }

func (Noop) Delete(ctx context.Context, key string) error { return nil }

func (Noop) DeletePrefix(ctx context.Context, prefix string) error { return nil }

func (Noop) Close() error { return nil }
