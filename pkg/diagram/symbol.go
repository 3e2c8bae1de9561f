package diagram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/wiresep/pkg/geom"
)

// Edge is the side of a symbol a port sits on.
type Edge int

const (
	Top Edge = iota
	Bottom
	Left
	Right
)

func (e Edge) String() string {
	switch e {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	default:
		return "right"
	}
}

// ParseEdge parses an edge name.
func ParseEdge(s string) (Edge, error) {
	switch strings.ToLower(s) {
	case "top":
		return Top, nil
	case "bottom":
		return Bottom, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Top, fmt.Errorf("unknown edge %q", s)
}

// NubOrientation is the orientation a nub leaving a port on e must have.
func (e Edge) NubOrientation() Orientation {
	if e == Left || e == Right {
		return Horizontal
	}
	return Vertical
}

// Symbol is a component on the schematic. Ports maps each of its ports to the
// edge it sits on.
type Symbol struct {
	ID    string
	Box   geom.Box
	Ports map[PortID]Edge
}

// Diagram is the snapshot handed to the declutter engine.
type Diagram struct {
	Wires   Wires
	Symbols []Symbol
}

// PortEdge finds the edge port p sits on, searching all symbols.
func (d Diagram) PortEdge(p PortID) (Edge, bool) {
	for _, s := range d.Symbols {
		if e, ok := s.Ports[p]; ok {
			return e, true
		}
	}
	return Top, false
}

// PortMismatch describes a nub that does not leave its port perpendicular to
// the symbol edge.
type PortMismatch struct {
	WireID WireID
	Port   PortID
	Edge   Edge
	Nub    Orientation
}

func (m PortMismatch) String() string {
	return fmt.Sprintf("wire %s: %s nub on %s edge of port %s", m.WireID, m.Nub, m.Edge, m.Port)
}

// PortMismatches lists every wire end whose nub orientation disagrees with
// the edge its port sits on. Ports not found on any symbol are ignored.
func PortMismatches(d Diagram) []PortMismatch {
	var out []PortMismatch
	for _, id := range d.Wires.IDs() {
		w := d.Wires[id]
		n := len(w.Segments)
		if n == 0 {
			continue
		}
		ends := []struct {
			port PortID
			seg  int
		}{{w.OutputPort, 0}, {w.InputPort, n - 1}}
		for _, end := range ends {
			e, ok := d.PortEdge(end.port)
			if !ok {
				continue
			}
			if o := w.SegmentOrientation(end.seg); o != e.NubOrientation() {
				out = append(out, PortMismatch{WireID: id, Port: end.port, Edge: e, Nub: o})
			}
		}
	}
	return out
}

// Wires maps wire ids to wires. Treat it as immutable: use With to replace an
// entry.
type Wires map[WireID]Wire

// With returns a new map equal to ws except that id maps to w.
func (ws Wires) With(id WireID, w Wire) Wires {
	out := make(Wires, len(ws)+1)
	for k, v := range ws {
		out[k] = v
	}
	out[id] = w
	return out
}

// Clone returns a deep copy of ws.
func (ws Wires) Clone() Wires {
	out := make(Wires, len(ws))
	for k, v := range ws {
		out[k] = v.Clone()
	}
	return out
}

// IDs returns the wire ids in sorted order.
func (ws Wires) IDs() []WireID {
	ids := make([]WireID, 0, len(ws))
	for id := range ws {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
