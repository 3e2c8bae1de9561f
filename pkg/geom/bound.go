package geom

import (
	"fmt"
	"math"
)

// Bound is a closed interval {MinB, MaxB} with MinB <= MaxB.
type Bound struct {
	MinB float64 `json:"min"`
	MaxB float64 `json:"max"`
}

// NewBound returns the bound spanning a and b in either order.
func NewBound(a, b float64) Bound {
	return Bound{MinB: math.Min(a, b), MaxB: math.Max(a, b)}
}

// Length returns the extent of the bound.
func (b Bound) Length() float64 { return b.MaxB - b.MinB }

// Contains reports whether x lies inside b, endpoints included.
func (b Bound) Contains(x float64) bool { return x >= b.MinB && x <= b.MaxB }

func (b Bound) String() string {
	return fmt.Sprintf("[%.2f, %.2f]", b.MinB, b.MaxB)
}

// HasOverlap reports whether b1 and b2 overlap or touch at an endpoint.
func HasOverlap(b1, b2 Bound) bool {
	return b1.MinB <= b2.MaxB && b2.MinB <= b1.MaxB
}

// HasNearOverlap reports whether b1 and b2 would overlap after either is
// inflated by tolerance on each side.
func HasNearOverlap(tolerance float64, b1, b2 Bound) bool {
	return b1.MinB-tolerance <= b2.MaxB && b2.MinB-tolerance <= b1.MaxB
}

// BoundUnion returns the smallest bound containing both b1 and b2. The inputs
// need not overlap.
func BoundUnion(b1, b2 Bound) Bound {
	return Bound{
		MinB: math.Min(b1.MinB, b2.MinB),
		MaxB: math.Max(b1.MaxB, b2.MaxB),
	}
}

// Overlap1D reports whether two intervals, each given as an unordered pair of
// endpoints, intersect. Touching endpoints count as intersecting.
func Overlap1D(a, b [2]float64) bool {
	return HasOverlap(NewBound(a[0], a[1]), NewBound(b[0], b[1]))
}
