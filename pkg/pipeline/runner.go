package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/cache"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/observability"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/raster"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/splitter"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache      cache.Cache
	Keyer      cache.Keyer
	Rasterizer raster.Rasterizer
	Logger     *log.Logger

	// TTL overrides the cache lifetime of rasters and artifacts when
	// non-zero.
	TTL time.Duration
}

// NewRunner creates a runner.
// If cache is nil, a NullCache is used (caching disabled).
// If keyer is nil, a DefaultKeyer is used.
// If rasterizer is nil, raster.Default() is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, rasterizer raster.Rasterizer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if rasterizer == nil {
		rasterizer = raster.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:      c,
		Keyer:      keyer,
		Rasterizer: rasterizer,
		Logger:     logger,
	}
}

// Execute runs the complete rasterize → build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, src []byte, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		SourceHash: cache.Hash(src),
		Artifacts:  make(map[string][]byte),
	}

	// Every artifact cached: nothing else to do
	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, result.SourceHash, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			r.Logger.Debug("artifacts from cache", "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 1: Rasterize
	rasterStart := time.Now()
	img, split, rasterHit, err := r.RasterizeWithCacheInfo(ctx, src, result.SourceHash, opts)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	result.Stats.RasterizeTime = time.Since(rasterStart)
	result.CacheInfo.RasterHit = rasterHit

	r.Logger.Info("rasterized source",
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
		"cached", rasterHit,
		"duration", result.Stats.RasterizeTime)

	// Stage 2: Build
	buildStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, opts.Mode, img.Bounds().Dy())
	doc, err := Build(img, opts)
	result.Stats.BuildTime = time.Since(buildStart)
	bricksBuilt := 0
	if doc != nil {
		bricksBuilt = len(doc.Bricks)
	}
	observability.Pipeline().OnBuildComplete(ctx, opts.Mode, bricksBuilt, result.Stats.BuildTime, err)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Document = doc
	result.Stats.GridWidth = doc.Plan.GridWidth
	result.Stats.GridHeight = doc.Plan.GridHeight
	result.Stats.Bricks = len(doc.Bricks)

	r.Logger.Info("built bricks",
		"rows", doc.Stats.Rows,
		"bricks", doc.Stats.Bricks,
		"merges", doc.Stats.Merges,
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.RenderAndCache(ctx, doc, split, result.SourceHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RasterizeWithCacheInfo rasterizes src with caching and returns cache hit
// info. The split of a full logo is recomputed on every call; only the
// rasterized image is cached.
func (r *Runner) RasterizeWithCacheInfo(ctx context.Context, src []byte, sourceHash string, opts Options) (image.Image, *splitter.Parts, bool, error) {
	if err := opts.ValidateForRaster(); err != nil {
		return nil, nil, false, err
	}

	split, titleSrc, err := SplitSource(src, opts)
	if err != nil {
		return nil, nil, false, err
	}

	cacheKey := r.Keyer.RasterKey(sourceHash, opts.RasterKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if img, err := png.Decode(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "raster")
				return img, split, true, nil
			}
			// Undecodable entry, fall through to rasterize
		}
		observability.Cache().OnCacheMiss(ctx, "raster")
	}

	start := time.Now()
	observability.Pipeline().OnRasterizeStart(ctx, opts.PixelWidth)
	img, err := r.Rasterizer.Rasterize(ctx, titleSrc, opts.PixelWidth)
	observability.Pipeline().OnRasterizeComplete(ctx, opts.PixelWidth, time.Since(start), err)
	if err != nil {
		return nil, nil, false, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), r.ttl(cache.TTLRaster)); err != nil {
			r.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "raster", buf.Len())
		}
	}

	return img, split, false, nil
}

// RenderAndCache renders doc in every requested format and caches each
// artifact under the source hash.
func (r *Runner) RenderAndCache(ctx context.Context, doc *bricks.Document, split *splitter.Parts, sourceHash string, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, err := Render(doc, split, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	for format, data := range artifacts {
		cacheKey := r.Keyer.ArtifactKey(sourceHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLArtifact)); err != nil {
			r.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, nil
}

// cachedArtifacts returns every requested format from the cache, or false
// if any of them is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, sourceHash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(sourceHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	return artifacts, true
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
