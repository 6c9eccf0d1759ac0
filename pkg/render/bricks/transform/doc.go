// Package transform post-processes segmented rows before layout.
//
// The adaptive segmenter decides brick widths one cell at a time and so
// cannot see that a class-2 brick followed by a nearly identical class-1
// brick would read better as one class-3 brick. [MergeRow] performs that
// repair on a single row:
//
//	plan, _ := segment.Adaptive(g, y, prev)
//	merged, n := transform.MergePlan(plan, transform.DefaultTolerance)
//
// Only the pairs {2,1} and {1,2} merge. Colors are compared per channel
// against the tolerance with [grid.RGB.Similar].
//
// [grid.RGB.Similar]: github.com/Suomen-Palikkayhteiso-ry/brand/pkg/grid.RGB.Similar
package transform
