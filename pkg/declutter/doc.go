// Package declutter spreads apart parallel wire segments that run on top of,
// or too close to, each other.
//
// # Overview
//
// A declutter pass works on one axis at a time:
//
//  1. Extract: every interior wire segment and every symbol edge becomes a
//     [Line]. Lines of one orientation are sorted by their perpendicular
//     coordinate P.
//  2. Cluster: starting from a movable line, [BuildCluster] walks the sorted
//     array upwards and then downwards, absorbing movable lines that overlap
//     the cluster's extent and stopping at the first barrier or at a line
//     that does not overlap.
//  3. Space: [Span] turns the members' positions and any barriers into the
//     interval the cluster must occupy, and [Positions] places members at
//     evenly spaced slots inside it. A spread cluster is a fixed point:
//     running the pass again leaves it where it is.
//  4. Move: [MoveLine] shifts each member's backing segment onto its slot
//     using [diagram.MoveSegment].
//
// [SeparateAxis] runs one axis; [Separate] runs horizontal then vertical.
//
// # Mobility
//
// Every line carries an [LType]:
//
//   - Fixed: symbol edge, bounds clusters and never moves
//   - NormSeg: freely movable segment
//   - FixedSeg: segment next to a short nub; a barrier for this pass
//   - FixedManualSeg: user-placed segment; a barrier, never moves
//   - LinkedSeg: same-net segment drawn on top of another; it follows the
//     line whose Links list it appears in and is skipped by the search
//
// # Immutability
//
// The engine never modifies the diagram it is given. Each pass works on a
// private copy of the wire map and returns it.
package declutter
