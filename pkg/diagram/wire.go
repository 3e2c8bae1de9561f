// Package diagram holds the read-only snapshot the declutter engine works on:
// wires made of alternating orthogonal segments, and the symbols they
// connect.
//
// Values in this package are treated as immutable. Every update returns a new
// value; [Wires.With] replaces one wire in a copy of the map and
// [MoveSegment] returns a wire with a fresh segment slice.
package diagram

import (
	"fmt"
	"strings"

	"github.com/matzehuels/wiresep/pkg/geom"
)

// Orientation is the axis a segment runs along.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Other returns the perpendicular orientation.
func (o Orientation) Other() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ParseOrientation parses "horizontal"/"vertical" (or "h"/"v").
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("unknown orientation %q", s)
}

// WireID identifies a wire in the diagram.
type WireID string

// PortID identifies a symbol port. A wire's OutputPort names its net.
type PortID string

// Segment is one element of a wire. Length is signed: positive lengths run
// towards +X (horizontal) or +Y (vertical).
type Segment struct {
	Index  int
	Length float64
	Manual bool // placed by the user; never moved automatically
}

// Wire is an ordered run of segments whose orientations alternate, starting
// with InitialOrientation. The first and last segments are nubs emerging from
// the output and input ports respectively.
type Wire struct {
	ID                 WireID
	OutputPort         PortID
	InputPort          PortID
	Start              geom.Point
	InitialOrientation Orientation
	Segments           []Segment
}

// SegmentOrientation returns the orientation of segment i.
func (w Wire) SegmentOrientation(i int) Orientation {
	if i%2 == 0 {
		return w.InitialOrientation
	}
	return w.InitialOrientation.Other()
}

func (w Wire) vector(i int) geom.Point {
	l := w.Segments[i].Length
	if w.SegmentOrientation(i) == Horizontal {
		return geom.Point{X: l}
	}
	return geom.Point{Y: l}
}

// SegmentStart returns the coordinate where segment i begins.
func (w Wire) SegmentStart(i int) geom.Point {
	p := w.Start
	for k := 0; k < i; k++ {
		p = p.Add(w.vector(k))
	}
	return p
}

// SegmentEnd returns the coordinate where segment i ends.
func (w Wire) SegmentEnd(i int) geom.Point {
	return w.SegmentStart(i).Add(w.vector(i))
}

// End returns the wire's final coordinate (the input port position).
func (w Wire) End() geom.Point {
	if len(w.Segments) == 0 {
		return w.Start
	}
	return w.SegmentEnd(len(w.Segments) - 1)
}

// SegmentLength returns the signed length of segment i.
func (w Wire) SegmentLength(i int) float64 {
	return w.Segments[i].Length
}

// WithSegmentLength returns a copy of w with segment i set to length l.
func (w Wire) WithSegmentLength(i int, l float64) Wire {
	c := w.Clone()
	c.Segments[i].Length = l
	return c
}

// Clone returns a copy of w that shares no segment storage with it.
func (w Wire) Clone() Wire {
	c := w
	c.Segments = make([]Segment, len(w.Segments))
	copy(c.Segments, w.Segments)
	return c
}

// IsNub reports whether segment i is the first or last segment.
func (w Wire) IsNub(i int) bool {
	return i == 0 || i == len(w.Segments)-1
}

func (w Wire) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "wire %s %s->%s start=%s %s [", w.ID, w.OutputPort, w.InputPort, w.Start, w.InitialOrientation)
	for i, s := range w.Segments {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%.2f", s.Length)
		if s.Manual {
			b.WriteString("m")
		}
	}
	b.WriteString("]")
	return b.String()
}
