// Package observability lets the pipeline, the cache layer and the HTTP
// server report what they do without depending on a metrics backend.
//
// Each layer calls the hooks registered here; by default they do nothing.
// The serve command installs Counters so /v1/stats can report totals:
//
//	counters := observability.NewCounters()
//	observability.Install(counters)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives one start and one complete event per stage.
type PipelineHooks interface {
	OnRasterizeStart(ctx context.Context, pixelWidth int)
	OnRasterizeComplete(ctx context.Context, pixelWidth int, duration time.Duration, err error)

	// Build covers classification, segmentation, merging and layout.
	OnBuildStart(ctx context.Context, mode string, rows int)
	OnBuildComplete(ctx context.Context, mode string, bricks int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache events. kind is "raster" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// ServerHooks receives one event per HTTP request and one per response.
type ServerHooks interface {
	OnRequest(ctx context.Context, requestID, method, path string)
	OnResponse(ctx context.Context, requestID string, statusCode int, size int, duration time.Duration)
}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRasterizeStart(context.Context, int)                              {}
func (NoopPipelineHooks) OnRasterizeComplete(context.Context, int, time.Duration, error)     {}
func (NoopPipelineHooks) OnBuildStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, string)           {}
func (NoopServerHooks) OnResponse(context.Context, string, int, int, time.Duration) {}

// registry is replaced as a whole, so readers never take a lock.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	server   ServerHooks
}

var current atomic.Pointer[registry]

func init() { Reset() }

func update(f func(r *registry)) {
	for {
		old := current.Load()
		next := *old
		f(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks registers h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks registers h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetServerHooks registers h. A nil h is ignored.
func SetServerHooks(h ServerHooks) {
	if h != nil {
		update(func(r *registry) { r.server = h })
	}
}

// Install registers c for every kind of hook.
func Install(c *Counters) {
	update(func(r *registry) {
		r.pipeline, r.cache, r.server = c, c, c
	})
}

func Pipeline() PipelineHooks { return current.Load().pipeline }
func Cache() CacheHooks       { return current.Load().cache }
func Server() ServerHooks     { return current.Load().server }

// Reset restores the no-op hooks.
func Reset() {
	current.Store(&registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		server:   NoopServerHooks{},
	})
}
