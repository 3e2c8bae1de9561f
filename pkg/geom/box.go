package geom

import "fmt"

// Point is a 2-D coordinate. Y grows downwards, as on screen.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

func (p Point) String() string { return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y) }

// Box is an axis-aligned rectangle. W and H may be negative, in which case
// TopLeft is really another corner; use FixBoundingBox before relying on it.
type Box struct {
	TopLeft Point   `json:"top_left"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
}

// Right returns the X coordinate of the right edge of a normalized box.
func (b Box) Right() float64 { return b.TopLeft.X + b.W }

// Bottom returns the Y coordinate of the bottom edge of a normalized box.
func (b Box) Bottom() float64 { return b.TopLeft.Y + b.H }

// XBound returns the horizontal extent of b.
func (b Box) XBound() Bound { return NewBound(b.TopLeft.X, b.TopLeft.X+b.W) }

// YBound returns the vertical extent of b.
func (b Box) YBound() Bound { return NewBound(b.TopLeft.Y, b.TopLeft.Y+b.H) }

// FixBoundingBox returns the equivalent box with non-negative W and H.
func FixBoundingBox(b Box) Box {
	if b.W < 0 {
		b.TopLeft.X += b.W
		b.W = -b.W
	}
	if b.H < 0 {
		b.TopLeft.Y += b.H
		b.H = -b.H
	}
	return b
}

// Overlap2D reports whether two rectangles, each given by a pair of opposite
// corners in any order, intersect on both axes.
func Overlap2D(a, b [2]Point) bool {
	return Overlap1D([2]float64{a[0].X, a[1].X}, [2]float64{b[0].X, b[1].X}) &&
		Overlap1D([2]float64{a[0].Y, a[1].Y}, [2]float64{b[0].Y, b[1].Y})
}

// Overlap2DBox reports whether two boxes intersect. Boxes with negative
// extents are normalized first.
func Overlap2DBox(a, b Box) bool {
	a, b = FixBoundingBox(a), FixBoundingBox(b)
	return Overlap2D(
		[2]Point{a.TopLeft, {X: a.Right(), Y: a.Bottom()}},
		[2]Point{b.TopLeft, {X: b.Right(), Y: b.Bottom()}},
	)
}
