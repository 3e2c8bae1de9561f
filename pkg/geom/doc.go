// Package geom provides the interval and rectangle primitives used by the
// wire declutter engine.
//
// # Intervals
//
// A [Bound] is a closed 1-D interval describing how far a line extends along
// its own axis. Overlap tests are inclusive: two bounds that merely touch at
// an endpoint are considered overlapping, so segments meeting end-to-end are
// clustered together.
//
// # Rectangles
//
// A [Box] is given by its top-left corner and a width and height that may be
// negative (boxes dragged "backwards" in the editor). All 2-D tests normalize
// boxes with [FixBoundingBox] before comparing them.
package geom
