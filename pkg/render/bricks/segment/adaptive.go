package segment

import "github.com/Suomen-Palikkayhteiso-ry/brand/pkg/grid"

// Adaptive segments row y of g left to right, choosing for each opaque
// position the longest same-colored brick that fits, then adjusting it with
// two cross-row rules:
//
//   - Seam avoidance: when the previous row has a segment of the same color
//     and class starting at the same column and the color run here is longer
//     than 2, take the longest other class that fits.
//   - Running bond: the first segment of the row avoids the previous row's
//     first class when another class fits.
//
// Seam avoidance runs first; the running-bond rule only overrides a choice
// that still equals the previous row's first class.
func Adaptive(g *grid.Grid, y int, prev RowState) (RowPlan, error) {
	plan := RowPlan{Row: y}

	for x := 0; x < g.Width(); {
		cell := g.At(x, y)
		if !cell.Opaque {
			x++
			continue
		}

		run := runLength(g, x, y)
		possible := possibleClasses(g, x, y)
		if len(possible) == 0 {
			x++
			continue
		}
		choice := possible[0]

		if below, ok := prev.StartingAt(x); ok &&
			below.Color == cell.Color && run > 2 && choice == below.Class {
			if alt, ok := longestExcept(possible, choice); ok {
				choice = alt
			}
		}

		if len(plan.Segments) == 0 && prev.FirstClass != 0 && choice == prev.FirstClass {
			if alt, ok := longestExcept(possible, prev.FirstClass); ok {
				choice = alt
			}
		}

		plan.Segments = append(plan.Segments, Segment{Start: x, Row: y, Class: choice, Color: cell.Color})
		x += int(choice)
	}

	if len(plan.Segments) > 0 {
		plan.FirstClass = plan.Segments[0].Class
	}
	return plan, Check(g, plan)
}

// runLength counts consecutive opaque cells from (x, y) with exactly the
// color of (x, y).
func runLength(g *grid.Grid, x, y int) int {
	c := g.At(x, y)
	if !c.Opaque {
		return 0
	}
	n := 0
	for g.At(x+n, y) == c {
		n++
	}
	return n
}

// possibleClasses returns, longest first, every class whose cells starting at
// (x, y) are all opaque with the exact color of (x, y).
func possibleClasses(g *grid.Grid, x, y int) []WidthClass {
	c := g.At(x, y)
	var out []WidthClass
	for _, class := range candidates {
		if fits(g, x, y, int(class), c) {
			out = append(out, class)
		}
	}
	return out
}

func fits(g *grid.Grid, x, y, length int, c grid.Cell) bool {
	if !c.Opaque {
		return false
	}
	for i := 0; i < length; i++ {
		if g.At(x+i, y) != c {
			return false
		}
	}
	return true
}

// longestExcept returns the first class in possible (longest first) that is
// not avoid.
func longestExcept(possible []WidthClass, avoid WidthClass) (WidthClass, bool) {
	for _, c := range possible {
		if c != avoid {
			return c, true
		}
	}
	return 0, false
}
