package declutter

import (
	"fmt"
	"strings"

	"github.com/matzehuels/wiresep/pkg/diagram"
	"github.com/matzehuels/wiresep/pkg/geom"
)

// LType classifies how a line may move.
type LType int

const (
	Fixed          LType = iota // symbol edge
	NormSeg                     // freely movable segment
	FixedSeg                    // barrier this pass, may move in a later one
	FixedManualSeg              // user-placed segment
	LinkedSeg                   // follows another same-net line
)

func (t LType) String() string {
	switch t {
	case Fixed:
		return "FIXED"
	case NormSeg:
		return "NORMSEG"
	case FixedSeg:
		return "FIXEDSEG"
	case FixedManualSeg:
		return "FIXEDMANUALSEG"
	case LinkedSeg:
		return "LINKEDSEG"
	}
	return fmt.Sprintf("LType(%d)", int(t))
}

// restriction orders segment types from most to least mobile.
func (t LType) restriction() int {
	switch t {
	case NormSeg:
		return 0
	case FixedSeg:
		return 1
	default:
		return 2
	}
}

// LineID is a line's position in its sorted per-axis array.
type LineID int

// SegKey identifies one segment of one wire.
type SegKey struct {
	Index  int
	WireID diagram.WireID
}

// Line is an axis-aligned wire segment or symbol edge.
type Line struct {
	P           float64    // coordinate on the perpendicular axis
	B           geom.Bound // extent along the line's own axis
	Orientation diagram.Orientation
	Seg         *SegKey // nil for symbol edges
	LType       LType
	Links       []LineID // LinkedSeg lines that move with this one
	WireID      diagram.WireID
	PortID      diagram.PortID // output port of the owning net
	ID          LineID
}

func (l Line) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "L%d %s P=%.2f B=%s %s", l.ID, l.Orientation, l.P, l.B, l.LType)
	if l.Seg != nil {
		fmt.Fprintf(&b, " wire=%s seg=%d", l.Seg.WireID, l.Seg.Index)
	}
	if len(l.Links) > 0 {
		fmt.Fprintf(&b, " links=%v", l.Links)
	}
	return b.String()
}

// LineInfo is the snapshot of one declutter pass.
type LineInfo struct {
	HLines []Line
	VLines []Line
	Wires  diagram.Wires
	Index  map[SegKey]LineID
}

// Lines returns the line array for orientation o.
func (li *LineInfo) Lines(o diagram.Orientation) []Line {
	if o == diagram.Horizontal {
		return li.HLines
	}
	return li.VLines
}

// Lookup finds the line extracted from segment index of wire id.
func (li *LineInfo) Lookup(id diagram.WireID, index int) (Line, bool) {
	key := SegKey{Index: index, WireID: id}
	lid, ok := li.Index[key]
	if !ok {
		return Line{}, false
	}
	o := li.Wires[id].SegmentOrientation(index)
	return li.Lines(o)[lid], true
}
