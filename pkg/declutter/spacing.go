package declutter

import "sort"

func mean(pts []float64) float64 {
	if len(pts) == 0 {
		return 0
	}
	var sum float64
	for _, p := range pts {
		sum += p
	}
	return sum / float64(len(pts))
}

// upperS is the top of the ideal span centred on the members' mean.
func upperS(pts []float64, sep float64) float64 {
	return mean(pts) + float64(len(pts))*sep/2
}

// lowerS is the bottom of the ideal span centred on the members' mean.
func lowerS(pts []float64, sep float64) float64 {
	return mean(pts) - float64(len(pts))*sep/2
}

func widthS(c Cluster, sep float64) float64 {
	return float64(len(c.Segments)) * sep
}

// Span returns the interval the cluster's members are spread over, given
// their current positions pts.
//
// The ideal span is n·sep wide and centred on the mean of pts. A fix only
// takes effect when the ideal span crosses it: the span is then shifted to
// end exactly on the fix. When both fixes are closer than n·sep the span is
// exactly [LowerFix, UpperFix] and the members are compressed to fit.
func Span(c Cluster, pts []float64, sep float64) (lower, upper float64) {
	width := widthS(c, sep)
	if c.LowerFix != nil && c.UpperFix != nil && *c.UpperFix-*c.LowerFix < width {
		return *c.LowerFix, *c.UpperFix
	}

	switch {
	case c.UpperFix != nil && upperS(pts, sep) > *c.UpperFix:
		return *c.UpperFix - width, *c.UpperFix
	case c.LowerFix != nil && lowerS(pts, sep) < *c.LowerFix:
		return *c.LowerFix, *c.LowerFix + width
	}
	return lowerS(pts, sep), upperS(pts, sep)
}

// Placement is the target coordinate of one cluster member.
type Placement struct {
	Line LineID
	P    float64
}

// Positions assigns each member of c a slot in its span, keeping the
// members' existing order. With n members the span is cut into n equal slots
// and each member goes to the centre of its slot.
func Positions(c Cluster, lines []Line, sep float64) []Placement {
	members := make([]LineID, len(c.Segments))
	copy(members, c.Segments)
	sort.Slice(members, func(i, j int) bool {
		a, b := lines[members[i]], lines[members[j]]
		if a.P != b.P {
			return a.P < b.P
		}
		return a.ID < b.ID
	})

	pts := make([]float64, len(members))
	for i, id := range members {
		pts[i] = lines[id].P
	}
	lower, upper := Span(c, pts, sep)
	step := (upper - lower) / float64(len(members))

	out := make([]Placement, len(members))
	for k, id := range members {
		out[k] = Placement{Line: id, P: lower + (float64(k)+0.5)*step}
	}
	return out
}
