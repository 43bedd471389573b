// Package cache stores rendered analysis output between runs.
//
// Rendering a large log is dominated by parsing and graph construction, so
// the pipeline keys its output on everything that determines it (analyzer,
// format, deleted node ids and the input file's identity) and consults a
// [Cache] before doing any work.
//
// # Backends
//
//   - [NullCache]: never stores anything; used with --no-cache
//   - [FileCache]: zstd-compressed entries under a local directory
//   - [RedisCache]: a shared Redis instance for the HTTP server
//
// Keys are derived with [Key], which hashes its parts with BLAKE3. [Scoped]
// prefixes every key so several deployments can share one Redis database.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
