package declutter

import (
	"github.com/matzehuels/wiresep/pkg/diagram"
	errs "github.com/matzehuels/wiresep/pkg/errors"
)

// MoveLine moves the segment behind line so that its perpendicular
// coordinate becomes newP. It returns a new wire map in which only the
// owning wire is replaced.
//
// Moving a line with no backing segment (a symbol edge) is a caller bug and
// returns an INVALID_OPERATION error.
func MoveLine(o diagram.Orientation, newP float64, line Line, wires diagram.Wires) (diagram.Wires, error) {
	w, delta, err := lineDelta(o, newP, line, wires)
	if err != nil {
		return wires, err
	}
	moved, err := diagram.MoveSegment(line.Seg.Index, delta, w)
	if err != nil {
		return wires, err
	}
	return wires.With(w.ID, moved), nil
}

// moveLineInPlace is MoveLine on a map the caller owns. It reports whether
// the segment actually moved.
func moveLineInPlace(o diagram.Orientation, newP float64, line Line, wires diagram.Wires) (bool, error) {
	w, delta, err := lineDelta(o, newP, line, wires)
	if err != nil {
		return false, err
	}
	if tiny(delta) {
		return false, nil
	}
	moved, err := diagram.MoveSegment(line.Seg.Index, delta, w)
	if err != nil {
		return false, err
	}
	wires[w.ID] = moved
	return true, nil
}

func lineDelta(o diagram.Orientation, newP float64, line Line, wires diagram.Wires) (diagram.Wire, float64, error) {
	if line.Seg == nil {
		return diagram.Wire{}, 0, errs.New(errs.ErrCodeInvalidOperation,
			"line L%d at P=%.2f has no backing segment", line.ID, line.P)
	}
	w, ok := wires[line.Seg.WireID]
	if !ok {
		return diagram.Wire{}, 0, errs.New(errs.ErrCodeNotFound, "wire %s not in wire map", line.Seg.WireID)
	}
	idx := line.Seg.Index
	if idx < 0 || idx >= len(w.Segments) {
		return diagram.Wire{}, 0, errs.New(errs.ErrCodeInvalidOperation,
			"segment %d out of range for wire %s with %d segments", idx, w.ID, len(w.Segments))
	}
	if w.SegmentOrientation(idx) != o {
		return diagram.Wire{}, 0, errs.New(errs.ErrCodeInvalidOperation,
			"segment %d of wire %s is %s, not %s", idx, w.ID, w.SegmentOrientation(idx), o)
	}

	start := w.SegmentStart(idx)
	current := start.Y
	if o == diagram.Vertical {
		current = start.X
	}
	return w, newP - current, nil
}
