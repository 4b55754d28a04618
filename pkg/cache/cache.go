// Package cache provides the caches used by folio.
//
// # Overview
//
// Two kinds of cache live here:
//
//   - [Store]: a typed, in-memory, time-expiring store of fetched records keyed
//     by request signature. Entries remember which username they were fetched
//     for and are considered stale after a fixed window; stale entries are
//     ignored, never evicted. This is the client-side cache shared by every
//     loader of a [fetcher.Client].
//   - [Cache]: a byte-oriented key/value cache with TTL, used by the proxy
//     server in front of the upstream API. Backends: [MemoryCache] (a bounded
//     expiring LRU), [FileCache], [RedisCache] and [NullCache].
//
// # Keys
//
// [Keyer] derives byte-cache keys. [DefaultKeyer] hashes structured parts so
// keys are safe for any backend; [ScopedKeyer] prefixes keys for isolation.
//
// # Retry
//
// [Retryable] and [RetryWithBackoff] let fetch functions that fill a cache
// mark transient failures for retry.
//
// [fetcher.Client]: github.com/matzehuels/folio/pkg/fetcher.Client
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value cache with per-entry expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (hit == false, err == nil); err is reserved for backend failures.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
