package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridkit/pkg/cache"
	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/observability"
)

// cacheKeyType labels artifact entries in cache hooks.
const cacheKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long rendered artifacts stay cached. Zero means
	// cache.TTLArtifact.
	TTL time.Duration

	// MaxElements is the element budget applied to options that leave
	// their own at zero. Zero means DefaultMaxElements.
	MaxElements int
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

// Execute runs the complete validate → compute → render pipeline with caching.
//
// Every requested format is looked up in the cache before any geometry is
// generated; the overlay is computed only when at least one format misses.
// On a full hit [Result.Overlay] is nil and Stats are derived from
// [grid.Count].
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyDefaults(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		Input:       opts.Input(),
		OverlayHash: r.OverlayHash(opts),
	}
	result.Stats = countStats(grid.Count(result.Input))

	artifacts, info, missing := r.lookupArtifacts(ctx, result.OverlayHash, opts)
	result.Artifacts = artifacts
	if len(missing) == 0 {
		info.RenderHit = true
		result.CacheInfo = info
		r.Logger.Info("rendered outputs", "formats", opts.Formats, "cached", len(info.Hits))
		return result, nil
	}

	// Stage 1: Compute
	computeStart := time.Now()
	overlay := r.Compute(ctx, opts)
	result.Overlay = &overlay
	result.Stats.ComputeTime = time.Since(computeStart)

	// Stage 2: Render
	renderStart := time.Now()
	if err := r.renderMissing(ctx, overlay, result.OverlayHash, opts, missing, artifacts); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo = info

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(info.Hits),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Compute builds the overlay and reports it to the pipeline hooks.
// Options must already be validated.
func (r *Runner) Compute(ctx context.Context, opts Options) grid.Overlay {
	hooks := observability.Pipeline()
	hooks.OnComputeStart(ctx, opts.Zoom, string(opts.GridType))

	start := time.Now()
	overlay := Compute(opts)
	elapsed := time.Since(start)

	hooks.OnComputeComplete(ctx, overlay.ElementCount(), elapsed, nil)

	r.Logger.Debug("computed overlay",
		"viewport", opts.Viewport.String(),
		"zoom", opts.Zoom,
		"type", opts.GridType,
		"elements", overlay.ElementCount(),
		"duration", elapsed)
	return overlay
}

// OverlayHash returns the content hash identifying the overlay for opts.
func (r *Runner) OverlayHash(opts Options) string {
	return cache.Hash([]byte(r.Keyer.OverlayKey(opts.Input())))
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// Only formats missing from the cache are rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, overlay grid.Overlay, overlayHash string, opts Options) (map[string][]byte, CacheInfo, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, CacheInfo{}, err
	}
	r.applyDefaults(&opts)

	artifacts, info, missing := r.lookupArtifacts(ctx, overlayHash, opts)
	if len(missing) == 0 {
		info.RenderHit = true
		return artifacts, info, nil
	}
	if err := r.renderMissing(ctx, overlay, overlayHash, opts, missing, artifacts); err != nil {
		return nil, info, err
	}
	return artifacts, info, nil
}

// lookupArtifacts reads every requested format from the cache. It returns
// the hits and the formats that still need rendering. Refresh skips the
// lookup entirely.
func (r *Runner) lookupArtifacts(ctx context.Context, overlayHash string, opts Options) (map[string][]byte, CacheInfo, []string) {
	var info CacheInfo
	cacheHooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))

	if opts.Refresh {
		return artifacts, info, slices.Clone(opts.Formats)
	}

	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(overlayHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "error", err)
		}
		if err == nil && hit {
			cacheHooks.OnCacheHit(ctx, cacheKeyType)
			artifacts[format] = data
			info.Hits = append(info.Hits, format)
			continue
		}
		cacheHooks.OnCacheMiss(ctx, cacheKeyType)
		missing = append(missing, format)
	}
	return artifacts, info, missing
}

// renderMissing renders each missing format into artifacts and stores it.
func (r *Runner) renderMissing(ctx context.Context, overlay grid.Overlay, overlayHash string, opts Options, missing []string, artifacts map[string][]byte) error {
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	hooks.OnRenderStart(ctx, missing)
	start := time.Now()
	for _, format := range missing {
		data, err := RenderFormat(overlay, format, opts)
		if err != nil {
			hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
			return err
		}
		artifacts[format] = data

		key := r.Keyer.ArtifactKey(overlayHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, cacheKeyType, len(data))
	}
	hooks.OnRenderComplete(ctx, missing, time.Since(start), nil)
	return nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLArtifact
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, overlay grid.Overlay, overlayHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, overlay, overlayHash, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyDefaults fills the logger and element budget from the runner when
// opts leaves them unset.
func (r *Runner) applyDefaults(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.MaxElements == 0 {
		opts.MaxElements = r.MaxElements
	}
}

func countStats(c grid.Counts) Stats {
	return Stats{
		Elements:   c.Total(),
		TierCounts: c.Tiers,
		Origin:     c.Origin,
	}
}
