package declutter

import (
	"fmt"

	"github.com/matzehuels/wiresep/pkg/diagram"
)

// AxisStats summarises one axis of a declutter pass.
type AxisStats struct {
	Orientation diagram.Orientation `json:"-"`
	Lines       int                 `json:"lines"`
	Clusters    int                 `json:"clusters"`
	Moved       int                 `json:"moved"`
}

// Stats summarises a full pass over both axes.
type Stats struct {
	Horizontal AxisStats `json:"horizontal"`
	Vertical   AxisStats `json:"vertical"`
}

// Clusters returns the clusters of orientation o in seed order. Every
// unclaimed NormSeg line seeds one, and no line belongs to two.
func (li *LineInfo) Clusters(o diagram.Orientation) []Cluster {
	lines := li.Lines(o)
	claimed := make([]bool, len(lines))

	var out []Cluster
	for _, seed := range lines {
		if seed.LType != NormSeg || claimed[seed.ID] {
			continue
		}
		c := buildCluster(lines, seed.ID, claimed)
		for _, id := range c.Segments {
			claimed[id] = true
		}
		out = append(out, c)
	}
	return out
}

// Separate spreads the clusters of orientation o and returns the updated
// wire map. li.Wires is not modified.
func (li *LineInfo) Separate(o diagram.Orientation, opts Options) (diagram.Wires, AxisStats, error) {
	stats := AxisStats{Orientation: o}
	if err := opts.Validate(); err != nil {
		return li.Wires, stats, err
	}

	lines := li.Lines(o)
	stats.Lines = len(lines)
	wires := li.Wires.Clone()

	for _, c := range li.Clusters(o) {
		stats.Clusters++
		for _, pl := range Positions(c, lines, opts.MaxSegmentSeparation) {
			member := lines[pl.Line]
			group := append([]LineID{member.ID}, member.Links...)
			for _, id := range group {
				moved, err := moveLineInPlace(o, pl.P, lines[id], wires)
				if err != nil {
					return li.Wires, stats, fmt.Errorf("move %s: %w", lines[id], err)
				}
				if moved {
					stats.Moved++
				}
			}
		}
	}
	return wires, stats, nil
}

// SeparateAxis spreads the clustered segments of orientation o and returns
// the updated wire map. d is not modified.
func SeparateAxis(d diagram.Diagram, o diagram.Orientation, opts Options) (diagram.Wires, AxisStats, error) {
	if err := opts.Validate(); err != nil {
		return d.Wires, AxisStats{Orientation: o}, err
	}
	return Extract(d, opts).Separate(o, opts)
}

// Separate runs a horizontal pass and then a vertical pass on its result.
func Separate(d diagram.Diagram, opts Options) (diagram.Wires, Stats, error) {
	var stats Stats

	wires, h, err := SeparateAxis(d, diagram.Horizontal, opts)
	stats.Horizontal = h
	if err != nil {
		return d.Wires, stats, fmt.Errorf("horizontal: %w", err)
	}

	next := diagram.Diagram{Wires: wires, Symbols: d.Symbols}
	wires, v, err := SeparateAxis(next, diagram.Vertical, opts)
	stats.Vertical = v
	if err != nil {
		return d.Wires, stats, fmt.Errorf("vertical: %w", err)
	}
	return wires, stats, nil
}
