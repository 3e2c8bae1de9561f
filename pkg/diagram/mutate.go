package diagram

import (
	errs "github.com/matzehuels/wiresep/pkg/errors"
)

// MoveSegment shifts interior segment index perpendicular to its own
// orientation by delta. The segments on either side absorb the move, so the
// wire's start and end points are unchanged and the nubs keep their place.
//
// Moving a nub or an index outside the wire is a caller bug and returns an
// INVALID_OPERATION error; w is never modified.
func MoveSegment(index int, delta float64, w Wire) (Wire, error) {
	n := len(w.Segments)
	if index < 1 || index > n-2 {
		return w, errs.New(errs.ErrCodeInvalidOperation,
			"cannot move segment %d of wire %s with %d segments: only segments 1..%d are movable",
			index, w.ID, n, n-2)
	}

	moved := w.Clone()
	moved.Segments[index-1].Length += delta
	moved.Segments[index+1].Length -= delta
	return moved, nil
}
