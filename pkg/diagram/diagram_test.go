package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/wiresep/pkg/errors"
	"github.com/matzehuels/wiresep/pkg/geom"
)

// fiveSegmentWire leaves its port to the right, drops down and continues right.
func fiveSegmentWire() Wire {
	return Wire{
		ID:                 "w1",
		OutputPort:         "o1",
		InputPort:          "i1",
		Start:              geom.Point{X: 0, Y: 0},
		InitialOrientation: Horizontal,
		Segments: []Segment{
			{Index: 0, Length: 8},
			{Index: 1, Length: 20},
			{Index: 2, Length: 40},
			{Index: 3, Length: 10},
			{Index: 4, Length: 8},
		},
	}
}

func TestSegmentGeometry(t *testing.T) {
	w := fiveSegmentWire()

	assert.Equal(t, Horizontal, w.SegmentOrientation(0))
	assert.Equal(t, Vertical, w.SegmentOrientation(1))
	assert.Equal(t, Horizontal, w.SegmentOrientation(2))

	assert.Equal(t, geom.Point{X: 8, Y: 0}, w.SegmentStart(1))
	assert.Equal(t, geom.Point{X: 8, Y: 20}, w.SegmentStart(2))
	assert.Equal(t, geom.Point{X: 48, Y: 20}, w.SegmentEnd(2))
	assert.Equal(t, geom.Point{X: 56, Y: 30}, w.End())
}

func TestMoveSegment(t *testing.T) {
	w := fiveSegmentWire()

	moved, err := MoveSegment(2, 5, w)
	require.NoError(t, err)

	assert.Equal(t, 25.0, moved.SegmentLength(1))
	assert.Equal(t, 40.0, moved.SegmentLength(2), "moved segment keeps its length")
	assert.Equal(t, 5.0, moved.SegmentLength(3))
	assert.Equal(t, 25.0, moved.SegmentStart(2).Y)
	assert.Equal(t, w.End(), moved.End(), "endpoints are preserved")
	assert.Equal(t, 20.0, w.SegmentLength(1), "input wire is not modified")
}

func TestMoveSegmentInvertible(t *testing.T) {
	w := fiveSegmentWire()

	for _, index := range []int{1, 2, 3} {
		for _, delta := range []float64{-12.5, -1, 0, 0.25, 30} {
			there, err := MoveSegment(index, delta, w)
			require.NoError(t, err)
			back, err := MoveSegment(index, -delta, there)
			require.NoError(t, err)
			assert.Equal(t, w, back, "index %d delta %v", index, delta)
		}
	}
}

func TestMoveSegmentKeepsNubs(t *testing.T) {
	w := fiveSegmentWire()

	for _, index := range []int{1, 2, 3} {
		moved, err := MoveSegment(index, 3, w)
		require.NoError(t, err)
		if index != 1 {
			assert.Equal(t, w.SegmentLength(0), moved.SegmentLength(0))
		}
		if index != 3 {
			assert.Equal(t, w.SegmentLength(4), moved.SegmentLength(4))
		}
		assert.Equal(t, w.Start, moved.Start)
		assert.Equal(t, w.End(), moved.End())
	}
}

func TestMoveSegmentRejectsNubs(t *testing.T) {
	w := fiveSegmentWire()

	for _, index := range []int{-1, 0, 4, 5} {
		_, err := MoveSegment(index, 1, w)
		require.Error(t, err, "index %d", index)
		assert.True(t, errs.Is(err, errs.ErrCodeInvalidOperation), "index %d: %v", index, err)
	}
}

func TestWithSegmentLengthCopies(t *testing.T) {
	w := fiveSegmentWire()
	c := w.WithSegmentLength(2, 99)

	assert.Equal(t, 99.0, c.SegmentLength(2))
	assert.Equal(t, 40.0, w.SegmentLength(2))
}

func TestWiresWith(t *testing.T) {
	w := fiveSegmentWire()
	ws := Wires{"w1": w}

	moved, err := MoveSegment(2, 1, w)
	require.NoError(t, err)
	updated := ws.With("w1", moved)

	assert.Equal(t, 20.0, ws["w1"].SegmentLength(1), "original map untouched")
	assert.Equal(t, 21.0, updated["w1"].SegmentLength(1))
	assert.Len(t, updated, 1)
}

func TestWiresIDsSorted(t *testing.T) {
	ws := Wires{"c": {}, "a": {}, "b": {}}
	assert.Equal(t, []WireID{"a", "b", "c"}, ws.IDs())
}

func TestParseOrientation(t *testing.T) {
	o, err := ParseOrientation("V")
	require.NoError(t, err)
	assert.Equal(t, Vertical, o)

	_, err = ParseOrientation("diagonal")
	assert.Error(t, err)
}

func TestPortMismatches(t *testing.T) {
	w := fiveSegmentWire()
	d := Diagram{
		Wires: Wires{"w1": w},
		Symbols: []Symbol{
			{ID: "src", Ports: map[PortID]Edge{"o1": Right}},
			{ID: "dst", Ports: map[PortID]Edge{"i1": Top}},
		},
	}

	got := PortMismatches(d)
	require.Len(t, got, 1)
	assert.Equal(t, PortID("i1"), got[0].Port)
	assert.Equal(t, Horizontal, got[0].Nub)

	d.Symbols[1].Ports["i1"] = Left
	assert.Empty(t, PortMismatches(d))
}
