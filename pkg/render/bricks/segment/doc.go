// Package segment partitions grid rows into bricks.
//
// # Overview
//
// Each opaque cell of a row belongs to exactly one [Segment]; a segment spans
// 1 to 4 cells ([WidthClass]) of a single exact color. Rows are segmented top
// to bottom, and each row sees a [RowState] summary of the row before it:
//
//	var prev segment.RowState
//	for y := 0; y < g.Height(); y++ {
//	    plan, err := segment.Adaptive(g, y, prev)
//	    if err != nil {
//	        return err
//	    }
//	    prev = plan.State()
//	}
//
// # Strategies
//
//   - [Adaptive]: longest run first, with seam avoidance and a running-bond
//     stagger against the previous row.
//   - [Single]: one class-1 brick per cell.
//   - [Pairs]: same-colored neighbors pair up into class-2 bricks.
//
// Every strategy validates its output with [Check]; a plan that does not
// partition the row's opaque cells is reported as an
// INTERNAL_INVARIANT_VIOLATION error.
package segment
