package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cellwarp/cellwarp/pkg/cache"
	"github.com/cellwarp/cellwarp/pkg/geom"
	"github.com/cellwarp/cellwarp/pkg/noise"
	"github.com/cellwarp/cellwarp/pkg/observability"
	"github.com/cellwarp/cellwarp/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → warp → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Generate
	generateStart := time.Now()
	observability.Pipeline().OnGenerateStart(ctx, opts.Seed, opts.Points)
	original, genStats, genHit, err := r.GenerateWithCacheInfo(ctx, opts)
	observability.Pipeline().OnGenerateComplete(ctx, opts.Seed, len(original), time.Since(generateStart), err)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Original = original
	result.Stats.CellCount = genStats.CellCount
	result.Stats.OriginalCount = len(original)
	result.Stats.Discards.add(genStats.Discards)
	result.Stats.GenerateTime = time.Since(generateStart)
	result.CacheInfo.GenerateHit = genHit

	// Compute content hash for cache keys and API responses
	if data, err := MarshalSet(original); err == nil {
		result.OriginalHash = cache.Hash(data)
	}

	r.Logger.Info("generated mosaic",
		"cells", genStats.CellCount,
		"polygons", len(original),
		"discarded", genStats.Discards.Total(),
		"duration", result.Stats.GenerateTime)

	// Stage 2: Warp
	warpStart := time.Now()
	observability.Pipeline().OnWarpStart(ctx, opts.Seed, len(original))
	warped, warpStats, warpHit, err := r.WarpWithCacheInfo(ctx, original, result.OriginalHash, opts)
	observability.Pipeline().OnWarpComplete(ctx, opts.Seed, time.Since(warpStart), err)
	if err != nil {
		return nil, fmt.Errorf("warp: %w", err)
	}
	result.Warped = warped
	result.Stats.WarpedCount = len(warped)
	result.Stats.Discards.add(warpStats.Discards)
	result.Stats.WarpTime = time.Since(warpStart)
	result.CacheInfo.WarpHit = warpHit

	r.Logger.Info("warped mosaic",
		"polygons", len(warped),
		"discarded", warpStats.Discards.Total(),
		"duration", result.Stats.WarpTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, original, warped, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo runs the generate stage with caching and returns
// cache hit info. Discard counts are only populated on a cache miss; a
// hit restores the polygon set without rerunning the per-cell work.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (geom.PolygonSet, Stats, bool, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, Stats{}, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.MosaicKey(opts.MosaicKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			set, err := UnmarshalSet(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "mosaic")
				return set, Stats{OriginalCount: len(set)}, true, nil // Cache hit
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "mosaic")

	set, stats, err := generate(ctx, opts)
	if err != nil {
		return nil, stats, false, err
	}

	// Cache the result
	if data, err := MarshalSet(set); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.MosaicTTL)
		observability.Cache().OnCacheSet(ctx, "mosaic", len(data))
	}

	return set, stats, false, nil // Cache miss
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) (geom.PolygonSet, error) {
	set, _, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return set, err
}

// WarpWithCacheInfo runs the warp stage with caching and returns cache
// hit info. originalHash is the content hash of the input set; pass ""
// to have it computed here.
func (r *Runner) WarpWithCacheInfo(ctx context.Context, in geom.PolygonSet, originalHash string, opts Options) (geom.PolygonSet, Stats, bool, error) {
	if err := opts.ValidateForWarp(); err != nil {
		return nil, Stats{}, false, err
	}
	r.applyLogger(&opts)

	if originalHash == "" {
		data, err := MarshalSet(in)
		if err != nil {
			return nil, Stats{}, false, fmt.Errorf("serialize input for cache key: %w", err)
		}
		originalHash = cache.Hash(data)
	}
	cacheKey := r.Keyer.WarpKey(originalHash, opts.WarpKeyOpts())

	// Try cache first
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			set, err := UnmarshalSet(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "warp")
				return set, Stats{WarpedCount: len(set)}, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
	}
	observability.Cache().OnCacheMiss(ctx, "warp")

	field := noise.New(opts.Seed, opts.NoiseParams())
	set, stats, err := warp(ctx, field, in, opts)
	if err != nil {
		return nil, stats, false, err
	}

	// Cache the result
	if data, err := MarshalSet(set); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.WarpTTL)
		observability.Cache().OnCacheSet(ctx, "warp", len(data))
	}

	return set, stats, false, nil // Cache miss
}

// Warp is a convenience wrapper that calls WarpWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Warp(ctx context.Context, in geom.PolygonSet, opts Options) (geom.PolygonSet, error) {
	set, _, _, err := r.WarpWithCacheInfo(ctx, in, "", opts)
	return set, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, original, warped geom.PolygonSet, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from both sets
	origData, err := MarshalSet(original)
	if err != nil {
		return nil, false, fmt.Errorf("serialize original for cache key: %w", err)
	}
	warpData, err := MarshalSet(warped)
	if err != nil {
		return nil, false, fmt.Errorf("serialize warped for cache key: %w", err)
	}
	contentHash := cache.Hash(append(origData, warpData...))

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(contentHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	rendered := make(map[string][]byte)
	for _, format := range opts.Formats {
		data, err := renderFormat(format, original, warped, opts)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		rendered[format] = data
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(contentHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.ArtifactTTL)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, original, warped geom.PolygonSet, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, original, warped, opts)
	return artifacts, err
}

// renderFormat dispatches to the sink for one output format.
func renderFormat(format string, original, warped geom.PolygonSet, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return render.SVG(original, warped, render.WithSize(opts.Width, opts.Height))
	case FormatPNG:
		return render.PNG(original, warped, render.WithSize(opts.Width, opts.Height))
	case FormatJSON:
		return render.GeoJSON(original, warped)
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
