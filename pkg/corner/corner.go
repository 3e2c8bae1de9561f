// Package corner removes small right-angle detours from wires.
//
// A detour is a run of four segments s..s+3 whose two interior segments are
// short. Folding the interior lengths into s and s+3 turns the run into a
// single L without moving either end of the wire:
//
//	s ──┐                s ──────┐
//	    └─┐       =>             │
//	      │ s+3                  │ s+3
//
// Runs containing manual segments, runs that would reverse a segment, and
// runs whose new L would cut through a symbol are left alone.
package corner

import (
	"fmt"
	"math"

	"github.com/matzehuels/wiresep/pkg/diagram"
	errs "github.com/matzehuels/wiresep/pkg/errors"
	"github.com/matzehuels/wiresep/pkg/geom"
)

// DefaultMaxCornerSize is the longest interior segment a detour may have.
const DefaultMaxCornerSize = 30.0

const zero = 0.0001

// Options configures corner removal.
type Options struct {
	MaxCornerSize float64 `json:"max_corner_size" toml:"max_corner_size" yaml:"max_corner_size"`
}

// DefaultOptions returns the editor's standard settings.
func DefaultOptions() Options {
	return Options{MaxCornerSize: DefaultMaxCornerSize}
}

// Validate checks that the options are usable.
func (o Options) Validate() error {
	if o.MaxCornerSize <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "max corner size must be positive, got %v", o.MaxCornerSize)
	}
	return nil
}

// WireCorner describes one removable detour. Applying it adds StartDelta to
// segment StartSeg, EndDelta to segment EndSeg and zeroes the two segments
// between them.
type WireCorner struct {
	WireID           diagram.WireID      `json:"wire_id"`
	StartSeg         int                 `json:"start_seg"`
	EndSeg           int                 `json:"end_seg"`
	StartOrientation diagram.Orientation `json:"-"`
	StartDelta       float64             `json:"start_delta"`
	EndDelta         float64             `json:"end_delta"`
}

func (c WireCorner) String() string {
	return fmt.Sprintf("%s[%d..%d] %s %+.2f/%+.2f",
		c.WireID, c.StartSeg, c.EndSeg, c.StartOrientation, c.StartDelta, c.EndDelta)
}

// FindCorners returns the detours of w, scanning from the output port. Two
// consecutive corners may share their boundary segment; each is found on the
// wire with the earlier ones already applied, so the result can be applied
// in order. Nubs are never part of a detour.
func FindCorners(w diagram.Wire, symbols []diagram.Symbol, opts Options) []WireCorner {
	var out []WireCorner
	n := len(w.Segments)
	work := w
	for s := 1; s+3 <= n-2; {
		c, ok := cornerAt(work, s, symbols, opts)
		if !ok {
			s++
			continue
		}
		out = append(out, c)
		work = apply(work, c)
		s += 3
	}
	return out
}

func cornerAt(w diagram.Wire, s int, symbols []diagram.Symbol, opts Options) (WireCorner, bool) {
	segs := w.Segments[s : s+4]
	for _, seg := range segs {
		if seg.Manual {
			return WireCorner{}, false
		}
	}
	for _, seg := range segs[1:3] {
		l := math.Abs(seg.Length)
		if l < zero || l > opts.MaxCornerSize {
			return WireCorner{}, false
		}
	}

	c := WireCorner{
		WireID:           w.ID,
		StartSeg:         s,
		EndSeg:           s + 3,
		StartOrientation: w.SegmentOrientation(s),
		StartDelta:       segs[2].Length,
		EndDelta:         segs[1].Length,
	}
	if reverses(segs[0].Length, c.StartDelta) || reverses(segs[3].Length, c.EndDelta) {
		return WireCorner{}, false
	}

	from := w.SegmentStart(s)
	to := w.SegmentEnd(s + 3)
	bend := geom.Point{X: from.X + segs[0].Length + c.StartDelta, Y: from.Y}
	if c.StartOrientation == diagram.Vertical {
		bend = geom.Point{X: from.X, Y: from.Y + segs[0].Length + c.StartDelta}
	}
	for _, sym := range symbols {
		box := geom.FixBoundingBox(sym.Box)
		corners := [2]geom.Point{box.TopLeft, {X: box.Right(), Y: box.Bottom()}}
		if geom.Overlap2D([2]geom.Point{from, bend}, corners) || geom.Overlap2D([2]geom.Point{bend, to}, corners) {
			return WireCorner{}, false
		}
	}
	return c, true
}

// reverses reports whether adding delta to length flips its direction.
func reverses(length, delta float64) bool {
	merged := length + delta
	return (length > zero && merged < -zero) || (length < -zero && merged > zero)
}

// Apply removes corner c from w and returns the new wire.
func Apply(w diagram.Wire, c WireCorner) (diagram.Wire, error) {
	n := len(w.Segments)
	if c.WireID != w.ID {
		return w, errs.New(errs.ErrCodeInvalidOperation, "corner %s does not belong to wire %s", c, w.ID)
	}
	if c.StartSeg < 1 || c.EndSeg != c.StartSeg+3 || c.EndSeg > n-2 {
		return w, errs.New(errs.ErrCodeInvalidOperation, "corner %s out of range for wire with %d segments", c, n)
	}
	return apply(w, c), nil
}

func apply(w diagram.Wire, c WireCorner) diagram.Wire {
	out := w.Clone()
	out.Segments[c.StartSeg].Length += c.StartDelta
	out.Segments[c.EndSeg].Length += c.EndDelta
	out.Segments[c.StartSeg+1].Length = 0
	out.Segments[c.StartSeg+2].Length = 0
	return out
}

// Simplify removes every detour from every wire. It returns the new wire map
// and the corners that were removed; wires is not modified.
func Simplify(wires diagram.Wires, symbols []diagram.Symbol, opts Options) (diagram.Wires, []WireCorner, error) {
	if err := opts.Validate(); err != nil {
		return wires, nil, err
	}
	out := wires.Clone()
	var removed []WireCorner
	for _, id := range wires.IDs() {
		w := wires[id]
		for _, c := range FindCorners(w, symbols, opts) {
			next, err := Apply(w, c)
			if err != nil {
				return wires, nil, err
			}
			w = next
			removed = append(removed, c)
		}
		out[id] = w
	}
	return out, removed, nil
}
