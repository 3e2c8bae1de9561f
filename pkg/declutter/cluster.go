package declutter

import (
	"fmt"
	"strings"

	"github.com/matzehuels/wiresep/pkg/geom"
)

// Cluster is a group of mutually overlapping movable lines that are spread
// apart together. UpperFix and LowerFix hold the P of the barrier that
// stopped the search on that side, if any.
type Cluster struct {
	UpperFix *float64
	LowerFix *float64
	Segments []LineID
	Bound    geom.Bound
}

func (c Cluster) String() string {
	fix := func(f *float64) string {
		if f == nil {
			return "-"
		}
		return fmt.Sprintf("%.2f", *f)
	}
	ids := make([]string, len(c.Segments))
	for i, id := range c.Segments {
		ids[i] = fmt.Sprintf("L%d", id)
	}
	return fmt.Sprintf("cluster [%s] B=%s lower=%s upper=%s",
		strings.Join(ids, " "), c.Bound, fix(c.LowerFix), fix(c.UpperFix))
}

type searchDir int

const (
	upwards searchDir = iota
	downwards
)

func (c Cluster) withFix(dir searchDir, p float64) Cluster {
	if dir == upwards {
		c.UpperFix = &p
	} else {
		c.LowerFix = &p
	}
	return c
}

// BuildCluster grows a cluster from lines[seed], first towards higher
// indices and then towards lower ones. lines must be sorted by P, as
// produced by Extract.
func BuildCluster(lines []Line, seed LineID) Cluster {
	return buildCluster(lines, seed, nil)
}

// buildCluster treats lines marked in claimed as the end of the search, so
// that no line joins two clusters in one pass.
func buildCluster(lines []Line, seed LineID, claimed []bool) Cluster {
	c := Cluster{
		Segments: []LineID{seed},
		Bound:    lines[seed].B,
	}
	c = expandCluster(lines, int(seed), upwards, c, claimed)
	return expandCluster(lines, int(seed), downwards, c, claimed)
}

func expandCluster(lines []Line, seed int, dir searchDir, c Cluster, claimed []bool) Cluster {
	step := 1
	if dir == downwards {
		step = -1
	}
	for i := seed + step; i >= 0 && i < len(lines); i += step {
		line := lines[i]
		switch line.LType {
		case Fixed:
			return c.withFix(dir, line.P)
		case LinkedSeg:
			continue
		case FixedSeg, FixedManualSeg:
			if geom.HasOverlap(c.Bound, line.B) {
				return c.withFix(dir, line.P)
			}
			return c
		case NormSeg:
			if !geom.HasOverlap(c.Bound, line.B) || (claimed != nil && claimed[i]) {
				return c
			}
			c.Segments = append(c.Segments, line.ID)
			c.Bound = geom.BoundUnion(c.Bound, line.B)
		}
	}
	return c
}
