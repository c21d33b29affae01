// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through a package-level registry; main decides what
// receives them. The defaults are no-ops, so the pipeline, caches and HTTP
// client carry no dependency on a metrics backend.
//
// Register hooks at application startup:
//
//	observability.Install(observability.NewLogHooks(logger))
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLayoutStart(ctx, len(items))
//	// ... bucket and place ...
//	observability.Pipeline().OnLayoutComplete(ctx, len(layout.Tiers), time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the render pipeline.
type PipelineHooks interface {
	// Characters and notes read from storage.
	OnLoadStart(ctx context.Context)
	OnLoadComplete(ctx context.Context, cardCount int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, itemCount int)
	OnLayoutComplete(ctx context.Context, tierCount int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups. keyType is "layout" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the API client.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records a request that got no response (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// Noop implements every hook interface and discards all events.
type Noop struct{}

func (Noop) OnLoadStart(context.Context)                                            {}
func (Noop) OnLoadComplete(context.Context, int, time.Duration, error)              {}
func (Noop) OnLayoutStart(context.Context, int)                                     {}
func (Noop) OnLayoutComplete(context.Context, int, time.Duration, error)            {}
func (Noop) OnRenderStart(context.Context, []string)                                {}
func (Noop) OnRenderComplete(context.Context, []string, time.Duration, error)       {}
func (Noop) OnCacheHit(context.Context, string)                                     {}
func (Noop) OnCacheMiss(context.Context, string)                                    {}
func (Noop) OnCacheSet(context.Context, string, int)                                {}
func (Noop) OnRequest(context.Context, string, string, string)                      {}
func (Noop) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (Noop) OnError(context.Context, string, string, string, error)                 {}

var (
	_ PipelineHooks = Noop{}
	_ CacheHooks    = Noop{}
	_ HTTPHooks     = Noop{}
)

// registry is replaced as a whole on every change, so readers never lock.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var current atomic.Pointer[registry]

func init() { Reset() }

func update(fn func(r *registry)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Install registers h for every hook interface it implements and reports
// whether it implemented any.
func Install(h any) bool {
	p, isPipeline := h.(PipelineHooks)
	c, isCache := h.(CacheHooks)
	ht, isHTTP := h.(HTTPHooks)
	update(func(r *registry) {
		if isPipeline {
			r.pipeline = p
		}
		if isCache {
			r.cache = c
		}
		if isHTTP {
			r.http = ht
		}
	})
	return isPipeline || isCache || isHTTP
}

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks registers HTTP client hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset restores the no-op hooks.
func Reset() {
	current.Store(&registry{pipeline: Noop{}, cache: Noop{}, http: Noop{}})
}
