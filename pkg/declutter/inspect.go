package declutter

import (
	"github.com/matzehuels/wiresep/pkg/diagram"
)

// AxisDump lists the lines of one axis and the clusters a pass would
// spread, without moving anything.
type AxisDump struct {
	Orientation diagram.Orientation
	Lines       []Line
	Clusters    []Cluster
	Placements  [][]Placement // per cluster, in Clusters order
}

// Inspect extracts d and reports what a pass over orientation o would do.
func Inspect(d diagram.Diagram, o diagram.Orientation, opts Options) (AxisDump, error) {
	dump := AxisDump{Orientation: o}
	if err := opts.Validate(); err != nil {
		return dump, err
	}
	info := Extract(d, opts)
	dump.Lines = info.Lines(o)
	dump.Clusters = info.Clusters(o)
	for _, c := range dump.Clusters {
		dump.Placements = append(dump.Placements, Positions(c, dump.Lines, opts.MaxSegmentSeparation))
	}
	return dump, nil
}
