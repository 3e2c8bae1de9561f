package declutter

import (
	"math"
	"sort"

	"github.com/matzehuels/wiresep/pkg/diagram"
	"github.com/matzehuels/wiresep/pkg/geom"
)

func tiny(l float64) bool { return math.Abs(l) < SmallOffset }

// SegmentIsNubExtension reports whether segment i continues a nub across a
// zero-length segment: index 2 when segment 1 is zero-length, or index len-3
// when segment len-2 is. Such segments are drawn as part of the nub.
func SegmentIsNubExtension(w diagram.Wire, i int) bool {
	n := len(w.Segments)
	if i < 1 || i > n-2 {
		return false
	}
	return (i == 2 && tiny(w.Segments[1].Length)) ||
		(i == n-3 && tiny(w.Segments[n-2].Length))
}

// VisibleNubLength returns the on-screen stub length at the start of w, or at
// its end when atEnd is set. A nub followed by a zero-length segment is drawn
// together with the segment after that.
func VisibleNubLength(w diagram.Wire, atEnd bool) float64 {
	n := len(w.Segments)
	if n == 0 {
		return 0
	}
	nub, next, after := 0, 1, 2
	if atEnd {
		nub, next, after = n-1, n-2, n-3
	}
	l := w.Segments[nub].Length
	if n >= 3 && tiny(w.Segments[next].Length) {
		l += w.Segments[next].Length + w.Segments[after].Length
	}
	return math.Abs(l)
}

// nubRunNeighbours returns the first segment after the start nub run and the
// last one before the end nub run. A nub run is the nub itself, or the nub,
// a zero-length segment and the nub extension.
func nubRunNeighbours(w diagram.Wire) (first, last int) {
	n := len(w.Segments)
	first, last = 1, n-2
	if n >= 4 && tiny(w.Segments[1].Length) {
		first = 3
	}
	if n >= 4 && tiny(w.Segments[n-2].Length) {
		last = n - 4
	}
	return first, last
}

// Extract builds the per-axis line arrays for d.
func Extract(d diagram.Diagram, opts Options) *LineInfo {
	var h, v []Line
	add := func(l Line) {
		if l.Orientation == diagram.Horizontal {
			h = append(h, l)
		} else {
			v = append(v, l)
		}
	}

	for _, id := range d.Wires.IDs() {
		for _, l := range wireLines(d.Wires[id], opts) {
			add(l)
		}
	}
	for _, s := range d.Symbols {
		for _, l := range symbolLines(s) {
			add(l)
		}
	}

	info := &LineInfo{
		HLines: sortLines(h),
		VLines: sortLines(v),
		Wires:  d.Wires,
		Index:  make(map[SegKey]LineID),
	}
	for _, lines := range [][]Line{info.HLines, info.VLines} {
		linkSameNet(lines)
		for _, l := range lines {
			if l.Seg != nil {
				info.Index[*l.Seg] = l.ID
			}
		}
	}
	return info
}

func wireLines(w diagram.Wire, opts Options) []Line {
	n := len(w.Segments)
	if n < 3 {
		return nil
	}
	first, last := nubRunNeighbours(w)
	shortStart := VisibleNubLength(w, false) < opts.MinNubLength
	shortEnd := VisibleNubLength(w, true) < opts.MinNubLength

	var lines []Line
	for i := 1; i <= n-2; i++ {
		seg := w.Segments[i]
		if tiny(seg.Length) || SegmentIsNubExtension(w, i) {
			continue
		}
		start := w.SegmentStart(i)
		o := w.SegmentOrientation(i)

		l := Line{
			Orientation: o,
			Seg:         &SegKey{Index: i, WireID: w.ID},
			LType:       NormSeg,
			WireID:      w.ID,
			PortID:      w.OutputPort,
		}
		if o == diagram.Horizontal {
			l.P = start.Y
			l.B = geom.NewBound(start.X, start.X+seg.Length)
		} else {
			l.P = start.X
			l.B = geom.NewBound(start.Y, start.Y+seg.Length)
		}

		switch {
		case seg.Manual:
			l.LType = FixedManualSeg
		case i == 1 || i == n-2:
			// Moving it would resize a nub.
			l.LType = FixedSeg
		case (i == first && shortStart) || (i == last && shortEnd):
			l.LType = FixedSeg
		}
		lines = append(lines, l)
	}
	return lines
}

func symbolLines(s diagram.Symbol) []Line {
	box := geom.FixBoundingBox(s.Box)
	xb, yb := box.XBound(), box.YBound()
	return []Line{
		{P: box.TopLeft.Y, B: xb, Orientation: diagram.Horizontal, LType: Fixed},
		{P: box.Bottom(), B: xb, Orientation: diagram.Horizontal, LType: Fixed},
		{P: box.TopLeft.X, B: yb, Orientation: diagram.Vertical, LType: Fixed},
		{P: box.Right(), B: yb, Orientation: diagram.Vertical, LType: Fixed},
	}
}

func sortLines(lines []Line) []Line {
	segIndex := func(l Line) int {
		if l.Seg == nil {
			return -1
		}
		return l.Seg.Index
	}
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		switch {
		case a.P != b.P:
			return a.P < b.P
		case a.B.MinB != b.B.MinB:
			return a.B.MinB < b.B.MinB
		case a.WireID != b.WireID:
			return a.WireID < b.WireID
		default:
			return segIndex(a) < segIndex(b)
		}
	})
	for i := range lines {
		lines[i].ID = LineID(i)
	}
	return lines
}

// linkSameNet folds same-net segments drawn on top of each other into the
// first of them. The representative takes the union extent and the most
// restrictive mobility of the group.
func linkSameNet(lines []Line) {
	for i := range lines {
		rep := &lines[i]
		if rep.Seg == nil || rep.LType == LinkedSeg || rep.PortID == "" {
			continue
		}
		for j := i + 1; j < len(lines) && lines[j].P-rep.P < SmallOffset; j++ {
			other := &lines[j]
			if other.Seg == nil || other.LType == LinkedSeg || other.PortID != rep.PortID {
				continue
			}
			if !geom.HasNearOverlap(SmallOffset, rep.B, other.B) {
				continue
			}
			if other.LType.restriction() > rep.LType.restriction() {
				rep.LType = other.LType
			}
			rep.B = geom.BoundUnion(rep.B, other.B)
			rep.Links = append(rep.Links, other.ID)
			other.LType = LinkedSeg
		}
	}
}
