// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. A host application can
// register hooks at startup to receive events about navigation, layout
// computation, provider refreshes, and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the engine dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, statsd, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    observability.SetProviderHooks(&myProviderHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the ring engine.
type EngineHooks interface {
	// OnNavigate records a navigation operation (navigateInto,
	// navigateBack, expandCategory, collapseToRing, ...) and whether it
	// changed the stack.
	OnNavigate(ctx context.Context, op string, level, index int, changed bool)

	// OnLayout records a layout computation, including whether it was
	// served from the structural memo.
	OnLayout(ctx context.Context, rings int, cached bool, duration time.Duration)

	// OnOverflow records items folded into a More node.
	OnOverflow(ctx context.Context, level, folded int)

	// OnStaleResult records an async load discarded because its target
	// changed while the fetch was in flight.
	OnStaleResult(ctx context.Context, providerID, contentID string)
}

// =============================================================================
// Provider Hooks
// =============================================================================

// ProviderHooks receives events from content providers.
type ProviderHooks interface {
	// OnRefresh records a provider resync.
	OnRefresh(ctx context.Context, providerID string, nodeCount int, duration time.Duration, err error)

	// OnLoadChildren records a dynamic child fetch.
	OnLoadChildren(ctx context.Context, providerID, contentID string, nodeCount int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnNavigate(context.Context, string, int, int, bool)      {}
func (NoopEngineHooks) OnLayout(context.Context, int, bool, time.Duration)      {}
func (NoopEngineHooks) OnOverflow(context.Context, int, int)                    {}
func (NoopEngineHooks) OnStaleResult(context.Context, string, string)           {}

// NoopProviderHooks is a no-op implementation of ProviderHooks.
type NoopProviderHooks struct{}

func (NoopProviderHooks) OnRefresh(context.Context, string, int, time.Duration, error) {}
func (NoopProviderHooks) OnLoadChildren(context.Context, string, string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks   EngineHooks   = NoopEngineHooks{}
	providerHooks ProviderHooks = NoopProviderHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetProviderHooks registers custom provider hooks.
// This should be called once at application startup.
func SetProviderHooks(h ProviderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		providerHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Provider returns the registered provider hooks.
func Provider() ProviderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return providerHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	providerHooks = NoopProviderHooks{}
	cacheHooks = NoopCacheHooks{}
}
