// Package cache stores shortened links and rendered artifacts.
//
// Three backends implement [Cache]: [FileCache] under the user cache
// directory for the CLI, [RedisCache] for a shared server deployment, and
// [NullCache] when caching is disabled. [Open] picks one from [Options].
//
// Keys are built by a [Keyer] so every backend sees the same namespaced,
// hashed key space.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Backends lists the canonical backend names.
func Backends() []string { return []string{BackendFile, BackendRedis, BackendNone} }

// ErrUnknownBackend is returned by [Open] for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown cache backend")

// Options selects and configures a backend.
type Options struct {
	Backend string
	Dir     string
	Redis   RedisOptions
}

// Open builds the cache described by opts. An empty backend means file.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone, "off", "null":
		return NewNullCache(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}

// RenderKeyOpts lists the render options that change the output bytes.
type RenderKeyOpts struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Theme  string `json:"theme,omitempty"`
}

// NullCache never stores anything. It backs the "none" backend and is the
// fallback when the configured backend cannot be opened.
type NullCache struct{}

// NewNullCache returns a cache that misses on every read.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
