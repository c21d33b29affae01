package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hanzitree/pkg/cache"
	"github.com/matzehuels/hanzitree/pkg/notes"
	"github.com/matzehuels/hanzitree/pkg/observability"
	"github.com/matzehuels/hanzitree/pkg/store"
	"github.com/matzehuels/hanzitree/pkg/tree"
	"github.com/matzehuels/hanzitree/pkg/tree/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner holds no per-run state, so multiple goroutines can share one
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

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, repo store.Repository, ns notes.Store, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	loadStart := time.Now()
	cards, err := r.Cards(ctx, repo, ns)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	loadTime := time.Since(loadStart)
	r.Logger.Info("loaded cards", "cards", len(cards), "duration", loadTime)

	result, err := r.ExecuteItems(ctx, tree.Cards(cards), opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = loadTime
	return result, nil
}

// ExecuteItems runs layout and render for items that are already resolved.
func (r *Runner) ExecuteItems(ctx context.Context, items []tree.Item, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{}

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, items, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.CardCount = l.Len()
	result.Stats.TierCount = len(l.Tiers)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"cards", l.Len(),
		"tiers", len(l.Tiers),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
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

// Cards loads every known character in learning order and resolves its
// notes into a display card. ns may be nil.
func (r *Runner) Cards(ctx context.Context, repo store.Repository, ns notes.Store) (cards []tree.Card, err error) {
	observability.Pipeline().OnLoadStart(ctx)
	start := time.Now()
	defer func() {
		observability.Pipeline().OnLoadComplete(ctx, len(cards), time.Since(start), err)
	}()

	chars, err := repo.List(ctx, store.All)
	if err != nil {
		return nil, err
	}
	return notes.Resolve(ctx, ns, chars)
}

// LayoutWithCacheInfo builds the layout for items and reports whether it
// came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, items []tree.Item, opts Options) (l tree.Layout, hit bool, err error) {
	if err := opts.Validate(); err != nil {
		return tree.Layout{}, false, err
	}

	observability.Pipeline().OnLayoutStart(ctx, len(items))
	start := time.Now()
	defer func() {
		observability.Pipeline().OnLayoutComplete(ctx, len(l.Tiers), time.Since(start), err)
	}()

	itemsHash, err := hashItems(items)
	if err != nil {
		return tree.Layout{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(itemsHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := sink.ReadJSON(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	l = Layout(items, opts)

	if data, err := sink.RenderJSON(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, false, nil
}

// Layout builds the card tree for items without caching.
func Layout(items []tree.Item, opts Options) tree.Layout {
	opts.SetDefaults()
	return tree.Build(items, opts.Width, tree.WithSchedule(opts.Schedule()))
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l tree.Layout, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	layoutData, err := sink.RenderJSON(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts = make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, l, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l tree.Layout, opts Options) (map[string][]byte, error) {
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

type hashedItem struct {
	Kind string    `json:"kind"`
	Item tree.Item `json:"item"`
}

func hashItems(items []tree.Item) (string, error) {
	hashed := make([]hashedItem, len(items))
	for i, it := range items {
		kind := "opaque"
		if _, ok := tree.AsCard(it); ok {
			kind = "card"
		}
		hashed[i] = hashedItem{Kind: kind, Item: it}
	}
	data, err := json.Marshal(hashed)
	if err != nil {
		return "", fmt.Errorf("hash items: %w", err)
	}
	return cache.Hash(data), nil
}
