// Package cache stores rendered graph artifacts between runs.
//
// Rendering DOT to SVG or PNG through Graphviz is the only expensive step in
// treedot, and its output depends only on the DOT text and the target format.
// Artifacts are therefore keyed by a hash of both and reused until they expire.
//
// Two implementations are provided:
//   - [FileCache] stores JSON-wrapped entries under a directory, normally
//     $XDG_CACHE_HOME/treedot
//   - [NullCache] never stores anything and backs --no-cache
package cache

import (
	"context"
	"time"
)

// ArtifactTTL is how long a rendered artifact stays valid.
const ArtifactTTL = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiration.
type Cache interface {
	// Get returns the stored data and true on a hit. Expired or corrupt
	// entries are reported as a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ArtifactKey returns the cache key for dot rendered in format.
func ArtifactKey(dot, format string) string {
	return hashKey("artifact", format, Hash([]byte(dot)))
}
