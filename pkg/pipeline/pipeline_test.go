package pipeline

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/wiresep/pkg/cache"
	"github.com/matzehuels/wiresep/pkg/corner"
	"github.com/matzehuels/wiresep/pkg/declutter"
	"github.com/matzehuels/wiresep/pkg/diagram"
	errs "github.com/matzehuels/wiresep/pkg/errors"
	"github.com/matzehuels/wiresep/pkg/geom"
	wireio "github.com/matzehuels/wiresep/pkg/io"
	"github.com/matzehuels/wiresep/pkg/observability"
)

func zWire(id diagram.WireID, port diagram.PortID, x0, x1, y float64) diagram.Wire {
	return diagram.Wire{
		ID:                 id,
		OutputPort:         port,
		InputPort:          diagram.PortID("in-" + string(id)),
		Start:              geom.Point{X: x0 - 8, Y: y - 40},
		InitialOrientation: diagram.Horizontal,
		Segments: []diagram.Segment{
			{Index: 0, Length: 8},
			{Index: 1, Length: 40},
			{Index: 2, Length: x1 - x0},
			{Index: 3, Length: 40},
			{Index: 4, Length: 8},
		},
	}
}

func staggered() diagram.Diagram {
	return diagram.Diagram{Wires: diagram.Wires{
		"a": zWire("a", "o1", 0, 50, 100),
		"b": zWire("b", "o2", 10, 60, 102),
		"c": zWire("c", "o3", 20, 70, 104),
	}}
}

func middleY(d diagram.Diagram, id diagram.WireID) float64 {
	return d.Wires[id].SegmentStart(2).Y
}

func fileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	require.NoError(t, opts.ValidateAndSetDefaults())

	assert.Equal(t, declutter.DefaultOptions(), opts.Declutter)
	assert.Equal(t, corner.DefaultMaxCornerSize, opts.MaxCornerSize)
	assert.Equal(t, DefaultCacheTTL, opts.CacheTTL)
	assert.NotNil(t, opts.Logger)

	bad := Options{Declutter: declutter.Options{MaxSegmentSeparation: -1}}
	err := bad.ValidateAndSetDefaults()
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig))

	badCorners := Options{Corners: true, MaxCornerSize: -3}
	err = badCorners.ValidateAndSetDefaults()
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig))
}

func TestKeyOpts(t *testing.T) {
	plain := Options{}
	require.NoError(t, plain.ValidateAndSetDefaults())
	assert.Zero(t, plain.KeyOpts().MaxCornerSize, "corner size only matters with corners on")

	withCorners := Options{Corners: true}
	require.NoError(t, withCorners.ValidateAndSetDefaults())
	assert.NotEqual(t, plain.KeyOpts(), withCorners.KeyOpts())
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	in := staggered()

	res, err := r.Execute(context.Background(), in, Options{})
	require.NoError(t, err)

	assert.False(t, res.CacheHit)
	assert.InDelta(t, 95.0, middleY(res.Diagram, "a"), 1e-9)
	assert.InDelta(t, 102.0, middleY(res.Diagram, "b"), 1e-9)
	assert.InDelta(t, 109.0, middleY(res.Diagram, "c"), 1e-9)
	assert.Equal(t, 1, res.Stats.Horizontal.Clusters)
	assert.Equal(t, 2, res.Stats.Horizontal.Moved)
	assert.Len(t, res.SnapshotHash, 64)
	assert.Equal(t, 100.0, middleY(in, "a"), "input is not modified")
}

func TestExecuteIsIdempotent(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	once, err := r.Execute(context.Background(), staggered(), Options{})
	require.NoError(t, err)

	twice, err := r.Execute(context.Background(), once.Diagram, Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, twice.Stats.Horizontal.Moved+twice.Stats.Vertical.Moved)
	for _, id := range once.Diagram.Wires.IDs() {
		for i := range once.Diagram.Wires[id].Segments {
			assert.InDelta(t, once.Diagram.Wires[id].SegmentLength(i), twice.Diagram.Wires[id].SegmentLength(i), 1e-6)
		}
	}
}

func TestExecuteUsesCache(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)

	first, err := r.Execute(ctx, staggered(), Options{})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := r.Execute(ctx, staggered(), Options{})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Diagram, second.Diagram)
	assert.Equal(t, first.Stats.Horizontal, second.Stats.Horizontal)
	assert.Equal(t, first.SnapshotHash, second.SnapshotHash)

	refreshed, err := r.Execute(ctx, staggered(), Options{Refresh: true})
	require.NoError(t, err)
	assert.False(t, refreshed.CacheHit)

	other, err := r.Execute(ctx, staggered(), Options{Declutter: declutter.Options{MaxSegmentSeparation: 10}})
	require.NoError(t, err)
	assert.False(t, other.CacheHit, "different options miss")
}

func TestExecuteCachesUnnamedWires(t *testing.T) {
	const snapshot = `{"wires":[
		{"start":{"x":-8,"y":60},"segments":[{"length":8},{"length":40},{"length":50},{"length":40},{"length":8}]},
		{"start":{"x":-8,"y":62},"segments":[{"length":8},{"length":40},{"length":50},{"length":40},{"length":8}]}
	]}`
	ctx := context.Background()
	r := fileRunner(t)

	var hits []bool
	for range 2 {
		d, err := wireio.ReadJSON(strings.NewReader(snapshot))
		require.NoError(t, err)
		res, err := r.Execute(ctx, d, Options{})
		require.NoError(t, err)
		hits = append(hits, res.CacheHit)
	}
	assert.Equal(t, []bool{false, true}, hits)
}

func TestExecuteCorners(t *testing.T) {
	w := diagram.Wire{
		ID:                 "step",
		OutputPort:         "o",
		InputPort:          "i",
		InitialOrientation: diagram.Horizontal,
	}
	for i, l := range []float64{8, 20, 10, 5, 30, 20, 8} {
		w.Segments = append(w.Segments, diagram.Segment{Index: i, Length: l})
	}
	d := diagram.Diagram{Wires: diagram.Wires{"step": w}}

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), d, Options{Corners: true})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Stats.Corners)
	got := res.Diagram.Wires["step"]
	assert.InDelta(t, w.End().X, got.End().X, 1e-9)
	assert.InDelta(t, w.End().Y, got.End().Y, 1e-9)
	assert.Equal(t, 0.0, got.SegmentLength(2))
	assert.Equal(t, 0.0, got.SegmentLength(3))
}

func TestExecuteWarnings(t *testing.T) {
	d := staggered()
	d.Symbols = []diagram.Symbol{{ID: "src", Box: geom.Box{W: 10, H: 10}, Ports: map[diagram.PortID]diagram.Edge{"o1": diagram.Top}}}

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), d, Options{})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, diagram.PortID("o1"), res.Warnings[0].Port)
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil, nil, nil).Execute(ctx, staggered(), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecuteInvalidOptions(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), staggered(),
		Options{Declutter: declutter.Options{MaxSegmentSeparation: 7, MinNubLength: -1}})
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig))
}

func TestExecuteEmitsHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	sep := &recordingHooks{}
	observability.SetSeparationHooks(sep)
	observability.SetCacheHooks(sep)

	r := fileRunner(t)
	_, err := r.Execute(context.Background(), staggered(), Options{Corners: true})
	require.NoError(t, err)
	_, err = r.Execute(context.Background(), staggered(), Options{Corners: true})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"miss",
		"start horizontal 3",
		"complete horizontal 1",
		"start vertical 6",
		"complete vertical 0",
		"corners",
		"set",
		"hit",
	}, sep.events)
}

type recordingHooks struct {
	observability.NoopSeparationHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnSeparateStart(_ context.Context, axis string, lines int) {
	h.add("start " + axis + " " + strconv.Itoa(lines))
}

func (h *recordingHooks) OnSeparateComplete(_ context.Context, axis string, clusters, _ int, _ time.Duration, _ error) {
	h.add("complete " + axis + " " + strconv.Itoa(clusters))
}

func (h *recordingHooks) OnCornersComplete(context.Context, int) { h.add("corners") }
func (h *recordingHooks) OnCacheHit(context.Context, string)     { h.add("hit") }
func (h *recordingHooks) OnCacheMiss(context.Context, string)    { h.add("miss") }
func (h *recordingHooks) OnCacheSet(context.Context, string, int) {
	h.add("set")
}
