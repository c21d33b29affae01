// Package cache provides byte caches for rendered tree artifacts.
//
// The pipeline stores each artifact (SVG, PDF, JSON, DOT) under a key
// derived from the layout it was drawn from, so re-rendering an unchanged
// tree with the same format and style is a lookup.
//
// Backends:
//   - [FileCache]: files under the user cache directory, for the CLI
//   - [RedisCache]: shared cache for servers
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer]; use [NewScopedKeyer] to isolate callers that
// share one backend.
package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default time-to-live values.
const (
	// TTLLayout bounds how long a computed layout stays cached.
	TTLLayout = 24 * time.Hour

	// TTLArtifact bounds how long a rendered artifact stays cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. The bool is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// DefaultDir returns $XDG_CACHE_HOME/hanzitree, falling back to the
// platform user cache directory.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "hanzitree"), nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return filepath.Join(dir, "hanzitree"), nil
}

// NullCache stores nothing; every Get misses. The CLI uses it for
// --no-cache and when the configured cache cannot be opened.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
