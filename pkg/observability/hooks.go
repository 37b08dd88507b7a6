// Package observability exposes event hooks for overlay computation,
// rendering, cache lookups and HTTP requests.
//
// Hooks default to no-ops. A binary installs its own implementations once at
// startup, before any work begins; gridkit's CLI installs logging hooks when
// run with --verbose:
//
//	observability.SetPipelineHooks(myHooks)
//	observability.SetCacheHooks(myHooks)
//
// Instrumented code reads the current hooks at the call site:
//
//	observability.Pipeline().OnComputeStart(ctx, zoom, gridType)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the render pipeline.
type PipelineHooks interface {
	// Compute events
	OnComputeStart(ctx context.Context, zoom float64, gridType string)
	OnComputeComplete(ctx context.Context, elements int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
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
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server. OnResponse and OnError
// receive the matched route pattern (e.g. "/v1/presets/{name}"); OnRequest
// fires before routing and receives the raw path.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a handler failure that was reported to the client.
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnComputeStart(context.Context, float64, string)                  {}
func (NoopPipelineHooks) OnComputeComplete(context.Context, int, time.Duration, error)     {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var hooks = registry{
	pipeline: NoopPipelineHooks{},
	cache:    NoopCacheHooks{},
	http:     NoopHTTPHooks{},
}

// install stores h in *dst unless h is nil.
func install[T any](dst *T, h T) {
	if any(h) == nil {
		return
	}
	hooks.mu.Lock()
	*dst = h
	hooks.mu.Unlock()
}

func current[T any](src *T) T {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return *src
}

// SetPipelineHooks installs h for compute and render events. A nil h is
// ignored.
func SetPipelineHooks(h PipelineHooks) { install(&hooks.pipeline, h) }

// SetCacheHooks installs h for cache events.
func SetCacheHooks(h CacheHooks) { install(&hooks.cache, h) }

// SetHTTPHooks installs h for API request events.
func SetHTTPHooks(h HTTPHooks) { install(&hooks.http, h) }

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current(&hooks.pipeline) }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current(&hooks.cache) }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current(&hooks.http) }

// Reset reinstalls the no-op hooks. Tests that install hooks should call it
// in cleanup.
func Reset() {
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.pipeline = NoopPipelineHooks{}
	hooks.cache = NoopCacheHooks{}
	hooks.http = NoopHTTPHooks{}
}
