package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/loopgrid/pkg/cache"
	"github.com/matzehuels/loopgrid/pkg/graph"
	pkgio "github.com/matzehuels/loopgrid/pkg/io"
	"github.com/matzehuels/loopgrid/pkg/observability"
	"github.com/matzehuels/loopgrid/pkg/topology"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// LayoutTTL is how long composed layouts stay cached.
	LayoutTTL time.Duration
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
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		LayoutTTL: cache.LayoutTTL,
	}
}

// Load reads and validates a topology file.
func (r *Runner) Load(path string) (*topology.Loop, error) {
	l, err := pkgio.Load(path)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded topology", "path", path, "loop", describe(l))
	return l, nil
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, l *topology.Loop, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash, err := l.Hash()
	if err != nil {
		return nil, fmt.Errorf("hash topology: %w", err)
	}
	result := &Result{TopologyHash: hash}

	// Stage 1: Layout
	layoutStart := time.Now()
	out, layoutHit, err := r.layout(ctx, l, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = out
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Components = len(out.Nodes)
	result.Stats.Cells = len(out.Cells)
	result.Stats.Diagnostics = len(out.Diagnostics)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"loop", l.Name,
		"width", out.Width,
		"height", out.Height,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, out, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout composes l with caching and returns cache hit info.
func (r *Runner) Layout(ctx context.Context, l *topology.Loop, opts Options) (graph.Layout, bool, error) {
	hash, err := l.Hash()
	if err != nil {
		return graph.Layout{}, false, fmt.Errorf("hash topology: %w", err)
	}
	return r.layout(ctx, l, hash, opts)
}

func (r *Runner) layout(ctx context.Context, l *topology.Loop, hash string, opts Options) (graph.Layout, bool, error) {
	hooks := observability.Cache()
	cacheKey := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := graph.UnmarshalLayout(data)
			if err == nil {
				hooks.OnCacheHit(ctx, keyTypeLayout)
				return cached, true, nil
			}
			r.Logger.Debug("discarding unreadable cached layout", "key", cacheKey, "err", err)
		} else if err != nil {
			r.Logger.Debug("layout cache read failed", "err", err)
		}
		hooks.OnCacheMiss(ctx, keyTypeLayout)
	}

	out, err := GenerateLayout(ctx, l, opts, r.Logger)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if data, err := graph.MarshalLayout(out); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.LayoutTTL); err != nil {
			r.Logger.Debug("layout cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}
	return out, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	cacheHooks := observability.Cache()
	renderHooks := observability.Render()

	// Compute cache key from layout data
	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				cacheHooks.OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
			cacheHooks.OnCacheMiss(ctx, keyTypeArtifact)
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderHooks.OnRenderStart(ctx, missing)
	for _, format := range missing {
		start := time.Now()
		data, err := RenderFormat(ctx, l, format, opts)
		renderHooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data

		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err == nil {
			cacheHooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
