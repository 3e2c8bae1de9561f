// Package observability provides hooks for metrics, tracing, and logging.
//
// The declutter pipeline, the result cache and the HTTP server emit events
// through small hook interfaces. Nothing is recorded unless a consumer
// registers an implementation at startup; the defaults are no-ops.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSeparationHooks(&mySeparationHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Separation().OnSeparateStart(ctx, "horizontal", lines)
//	// ... spread clusters ...
//	observability.Separation().OnSeparateComplete(ctx, "horizontal", clusters, moved, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Separation Hooks
// =============================================================================

// SeparationHooks receives events from declutter passes.
type SeparationHooks interface {
	// Per-axis events
	OnSeparateStart(ctx context.Context, axis string, lines int)
	OnSeparateComplete(ctx context.Context, axis string, clusters, moved int, duration time.Duration, err error)

	// OnCornersComplete records a corner-removal pass.
	OnCornersComplete(ctx context.Context, corners int)
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
// Server Hooks
// =============================================================================

// ServerHooks receives events from the HTTP server.
type ServerHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSeparationHooks is a no-op implementation of SeparationHooks.
type NoopSeparationHooks struct{}

func (NoopSeparationHooks) OnSeparateStart(context.Context, string, int) {}
func (NoopSeparationHooks) OnSeparateComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopSeparationHooks) OnCornersComplete(context.Context, int) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	separationHooks SeparationHooks = NoopSeparationHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	serverHooks     ServerHooks     = NoopServerHooks{}
	hooksMu         sync.RWMutex
)

// SetSeparationHooks registers custom separation hooks.
// This should be called once at application startup before any pass runs.
func SetSeparationHooks(h SeparationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		separationHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers custom server hooks.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Separation returns the registered separation hooks.
func Separation() SeparationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return separationHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	separationHooks = NoopSeparationHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
