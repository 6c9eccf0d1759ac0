package cache

import (
	"context"
	"time"
)

// TTLs for cached items.
const (
	// TTLRaster covers rasterized sources. SVG rasterization shells out to
	// rsvg-convert and is the slowest stage.
	TTLRaster = 7 * 24 * time.Hour
	// TTLArtifact covers rendered SVG, PNG and JSON output.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte blobs under string keys.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// failed, not that the key is absent. A zero ttl stores without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NullCache is a no-op cache that never stores anything.
// It backs --no-cache and tests.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return NullCache{}
}

// Get always returns a cache miss.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set does nothing.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete does nothing.
func (NullCache) Delete(context.Context, string) error { return nil }

// Close does nothing.
func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
