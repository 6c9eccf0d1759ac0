package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters totals the events of every hook with atomic counters. It is
// safe for concurrent use.
type Counters struct {
	started time.Time

	builds       atomic.Int64
	buildErrors  atomic.Int64
	bricks       atomic.Int64
	buildNanos   atomic.Int64
	rasterizes   atomic.Int64
	renders      atomic.Int64
	renderErrors atomic.Int64

	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	cacheBytes  atomic.Int64

	requests     atomic.Int64
	serverErrors atomic.Int64
	bytesOut     atomic.Int64
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters {
	return &Counters{started: time.Now()}
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Uptime        string  `json:"uptime"`
	Builds        int64   `json:"builds"`
	BuildErrors   int64   `json:"build_errors"`
	Bricks        int64   `json:"bricks"`
	AvgBuildMs    float64 `json:"avg_build_ms"`
	Rasterizes    int64   `json:"rasterizes"`
	Renders       int64   `json:"renders"`
	RenderErrors  int64   `json:"render_errors"`
	CacheHits     int64   `json:"cache_hits"`
	CacheMisses   int64   `json:"cache_misses"`
	CacheBytesSet int64   `json:"cache_bytes_set"`
	Requests      int64   `json:"requests"`
	ServerErrors  int64   `json:"server_errors"`
	BytesOut      int64   `json:"bytes_out"`
}

// Snapshot reads every counter. Counters updated concurrently may be
// slightly out of step with each other.
func (c *Counters) Snapshot() Snapshot {
	s := Snapshot{
		Uptime:        time.Since(c.started).Round(time.Second).String(),
		Builds:        c.builds.Load(),
		BuildErrors:   c.buildErrors.Load(),
		Bricks:        c.bricks.Load(),
		Rasterizes:    c.rasterizes.Load(),
		Renders:       c.renders.Load(),
		RenderErrors:  c.renderErrors.Load(),
		CacheHits:     c.cacheHits.Load(),
		CacheMisses:   c.cacheMisses.Load(),
		CacheBytesSet: c.cacheBytes.Load(),
		Requests:      c.requests.Load(),
		ServerErrors:  c.serverErrors.Load(),
		BytesOut:      c.bytesOut.Load(),
	}
	if s.Builds > 0 {
		s.AvgBuildMs = float64(c.buildNanos.Load()) / float64(s.Builds) / float64(time.Millisecond)
	}
	return s
}

func (c *Counters) OnRasterizeStart(context.Context, int) {}

func (c *Counters) OnRasterizeComplete(_ context.Context, _ int, _ time.Duration, err error) {
	if err == nil {
		c.rasterizes.Add(1)
	}
}

func (c *Counters) OnBuildStart(context.Context, string, int) {}

func (c *Counters) OnBuildComplete(_ context.Context, _ string, bricks int, d time.Duration, err error) {
	c.builds.Add(1)
	c.buildNanos.Add(int64(d))
	if err != nil {
		c.buildErrors.Add(1)
		return
	}
	c.bricks.Add(int64(bricks))
}

func (c *Counters) OnRenderStart(context.Context, []string) {}

func (c *Counters) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	c.renders.Add(1)
	if err != nil {
		c.renderErrors.Add(1)
	}
}

func (c *Counters) OnCacheHit(context.Context, string)  { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string) { c.cacheMisses.Add(1) }

func (c *Counters) OnCacheSet(_ context.Context, _ string, size int) {
	c.cacheBytes.Add(int64(size))
}

func (c *Counters) OnRequest(context.Context, string, string, string) {
	c.requests.Add(1)
}

func (c *Counters) OnResponse(_ context.Context, _ string, status int, size int, _ time.Duration) {
	if status >= 500 {
		c.serverErrors.Add(1)
	}
	c.bytesOut.Add(int64(size))
}

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
	_ ServerHooks   = (*Counters)(nil)
)
