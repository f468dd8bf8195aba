// Package cache stores rendered chart artifacts so that identical render
// requests are served without drawing the chart again.
//
// Three backends are provided:
//
//   - [FileCache] keeps entries as files, for the CLI.
//   - [RedisCache] shares entries between server instances.
//   - [NullCache] stores nothing, for tests and --no-cache.
//
// Keys are built by a [Keyer] from a hash of the chart definition and the
// render options, so a change to either yields a new entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default TTLs.
const (
	// TTLArtifact keeps rendered files for a week. The key covers every
	// input, so entries never go stale; the TTL only bounds disk use.
	TTLArtifact = 7 * 24 * time.Hour
	// TTLDefinition keeps definitions submitted to the HTTP API.
	TTLDefinition = 30 * 24 * time.Hour
)
