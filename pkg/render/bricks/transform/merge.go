package transform

import (
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/segment"
)

// DefaultTolerance is the per-channel color difference under which two
// neighboring segments are considered the same color.
const DefaultTolerance = 2

// MergeRow joins adjacent {1,2} or {2,1} segment pairs of similar color into
// one class-3 segment carrying the left segment's color. The scan is a single
// left-to-right pass: a merged pair is never reconsidered, and class 3 is not
// merged further.
//
// segs must be ordered by Start, as produced by a [segment.Func]. The input
// slice is not modified. MergeRow returns the merged segments and the number
// of merges applied.
func MergeRow(segs []segment.Segment, tolerance int) ([]segment.Segment, int) {
	out := make([]segment.Segment, 0, len(segs))
	merges := 0
	for i := 0; i < len(segs); i++ {
		if i+1 < len(segs) && mergeable(segs[i], segs[i+1], tolerance) {
			a := segs[i]
			a.Class = segment.Class3
			out = append(out, a)
			merges++
			i++
			continue
		}
		out = append(out, segs[i])
	}
	return out, merges
}

// MergePlan applies MergeRow to plan. FirstClass keeps the segmenter's value,
// since the next row is segmented against the unmerged plan.
func MergePlan(plan segment.RowPlan, tolerance int) (segment.RowPlan, int) {
	segs, n := MergeRow(plan.Segments, tolerance)
	plan.Segments = segs
	return plan, n
}

func mergeable(a, b segment.Segment, tolerance int) bool {
	if a.End() != b.Start || a.Row != b.Row {
		return false
	}
	switch {
	case a.Class == segment.Class1 && b.Class == segment.Class2:
	case a.Class == segment.Class2 && b.Class == segment.Class1:
	default:
		return false
	}
	return a.Color.Similar(b.Color, tolerance)
}
