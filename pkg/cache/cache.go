// Package cache provides pluggable byte caching for content providers.
//
// Providers that scan slow sources (directory trees, application lists)
// cache their snapshots here so reopening the menu stays instant. The
// engine itself never touches this package - its layout memoization is
// in-process and structural - but providers share one Cache so a daemon
// can point them all at the same backend.
//
// Backends:
//   - memory: LRU-bounded in-process cache (default)
//   - file: on-disk cache for short-lived CLI invocations
//   - redis: shared cache for a long-running daemon
//   - null: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is the interface all backends implement.
type Cache interface {
	// Get retrieves a value. The boolean reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
