package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wiresep/pkg/cache"
	"github.com/matzehuels/wiresep/pkg/corner"
	"github.com/matzehuels/wiresep/pkg/declutter"
	"github.com/matzehuels/wiresep/pkg/diagram"
	wireio "github.com/matzehuels/wiresep/pkg/io"
	"github.com/matzehuels/wiresep/pkg/observability"
)

const cacheKeyType = "declutter"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger, so the HTTP
// server shares one across requests.
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

// cachedResult is the cache entry format.
type cachedResult struct {
	Snapshot json.RawMessage `json:"snapshot"`
	Stats    Stats           `json:"stats"`
}

// Execute declutters d. The input diagram is never modified.
func (r *Runner) Execute(ctx context.Context, d diagram.Diagram, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	start := time.Now()

	snapshot, err := wireio.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("hash snapshot: %w", err)
	}
	result := &Result{SnapshotHash: cache.Hash(snapshot)}
	key := r.Keyer.DeclutterKey(result.SnapshotHash, opts.KeyOpts())

	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, key); ok {
			result.Diagram = cached.Diagram
			result.Stats = cached.Stats
			result.CacheHit = true
			result.Warnings = diagram.PortMismatches(result.Diagram)
			opts.Logger.Debug("cache hit", "key", key)
			return result, nil
		}
	}

	out, err := r.run(ctx, d, opts, &result.Stats)
	if err != nil {
		return nil, err
	}
	result.Diagram = out
	result.Stats.Duration = time.Since(start)
	result.Warnings = diagram.PortMismatches(out)
	for _, w := range result.Warnings {
		opts.Logger.Warn("port edge mismatch", "port", w.Port, "wire", w.WireID)
	}

	r.store(ctx, key, out, result.Stats, opts)
	return result, nil
}

func (r *Runner) run(ctx context.Context, d diagram.Diagram, opts Options, stats *Stats) (diagram.Diagram, error) {
	work := d
	for _, o := range []diagram.Orientation{diagram.Horizontal, diagram.Vertical} {
		if err := ctx.Err(); err != nil {
			return diagram.Diagram{}, err
		}
		wires, axis, err := r.SeparateAxis(ctx, work, o, opts)
		if err != nil {
			return diagram.Diagram{}, fmt.Errorf("%s: %w", o, err)
		}
		if o == diagram.Horizontal {
			stats.Horizontal = axis
		} else {
			stats.Vertical = axis
		}
		work = diagram.Diagram{Wires: wires, Symbols: d.Symbols}
	}

	if opts.Corners {
		if err := ctx.Err(); err != nil {
			return diagram.Diagram{}, err
		}
		wires, removed, err := corner.Simplify(work.Wires, work.Symbols, opts.CornerOptions())
		if err != nil {
			return diagram.Diagram{}, fmt.Errorf("corners: %w", err)
		}
		stats.Corners = len(removed)
		observability.Separation().OnCornersComplete(ctx, len(removed))
		opts.Logger.Info("removed corners", "corners", len(removed))
		work.Wires = wires
	}
	return work, nil
}

// SeparateAxis runs one instrumented declutter pass over orientation o.
func (r *Runner) SeparateAxis(ctx context.Context, d diagram.Diagram, o diagram.Orientation, opts Options) (diagram.Wires, declutter.AxisStats, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return d.Wires, declutter.AxisStats{Orientation: o}, err
	}

	hooks := observability.Separation()
	info := declutter.Extract(d, opts.Declutter)
	hooks.OnSeparateStart(ctx, o.String(), len(info.Lines(o)))

	start := time.Now()
	wires, stats, err := info.Separate(o, opts.Declutter)
	elapsed := time.Since(start)
	hooks.OnSeparateComplete(ctx, o.String(), stats.Clusters, stats.Moved, elapsed, err)
	if err != nil {
		return d.Wires, stats, err
	}

	opts.Logger.Info("separated axis",
		"axis", o,
		"lines", stats.Lines,
		"clusters", stats.Clusters,
		"moved", stats.Moved,
		"duration", elapsed)
	return wires, stats, nil
}

type cacheHit struct {
	Diagram diagram.Diagram
	Stats   Stats
}

func (r *Runner) lookup(ctx context.Context, key string) (cacheHit, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		if err != nil {
			r.Logger.Debug("cache get failed", "err", err)
		}
		hooks.OnCacheMiss(ctx, cacheKeyType)
		return cacheHit{}, false
	}

	var entry cachedResult
	if err := json.Unmarshal(data, &entry); err != nil {
		hooks.OnCacheMiss(ctx, cacheKeyType)
		return cacheHit{}, false
	}
	d, err := wireio.ReadJSON(bytes.NewReader(entry.Snapshot))
	if err != nil {
		hooks.OnCacheMiss(ctx, cacheKeyType)
		return cacheHit{}, false
	}
	hooks.OnCacheHit(ctx, cacheKeyType)
	return cacheHit{Diagram: d, Stats: entry.Stats}, true
}

func (r *Runner) store(ctx context.Context, key string, d diagram.Diagram, stats Stats, opts Options) {
	snapshot, err := wireio.Marshal(d)
	if err != nil {
		return
	}
	data, err := json.Marshal(cachedResult{Snapshot: snapshot, Stats: stats})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, opts.CacheTTL); err != nil {
		opts.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
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
