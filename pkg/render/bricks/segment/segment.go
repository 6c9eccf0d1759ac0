package segment

import (
	"fmt"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/grid"
)

// WidthClass is the span of a brick in grid cells.
type WidthClass int

// Width classes in ascending order. Nothing wider than Class4 is produced.
const (
	Class1 WidthClass = 1
	Class2 WidthClass = 2
	Class3 WidthClass = 3
	Class4 WidthClass = 4
)

// candidates lists the classes the segmenter tries, longest first.
var candidates = []WidthClass{Class4, Class3, Class2, Class1}

// Valid reports whether c is one of Class1..Class4.
func (c WidthClass) Valid() bool { return c >= Class1 && c <= Class4 }

// Segment is one brick: a contiguous run of Class cells in one row.
type Segment struct {
	Start int
	Row   int
	Class WidthClass
	Color grid.RGB
}

// End returns the first column after the segment.
func (s Segment) End() int { return s.Start + int(s.Class) }

func (s Segment) String() string {
	return fmt.Sprintf("row %d [%d,%d) class %d %s", s.Row, s.Start, s.End(), s.Class, s.Color)
}

// RowPlan is the ordered segments of one row.
type RowPlan struct {
	Row      int
	Segments []Segment

	// FirstClass is the class of the first segment the segmenter emitted,
	// or 0 for a row without opaque cells.
	FirstClass WidthClass
}

// State summarizes the plan for the next row's segmentation.
func (p RowPlan) State() RowState {
	starts := make(map[int]Segment, len(p.Segments))
	for _, s := range p.Segments {
		starts[s.Start] = s
	}
	return RowState{FirstClass: p.FirstClass, starts: starts}
}

// RowState is what a row's segmentation needs to know about the row processed
// before it. The zero value describes "no previous row".
type RowState struct {
	FirstClass WidthClass
	starts     map[int]Segment
}

// StartingAt returns the previous row's segment that starts at column x.
func (s RowState) StartingAt(x int) (Segment, bool) {
	seg, ok := s.starts[x]
	return seg, ok
}

// Func segments row y of g given the previous row's state.
type Func func(g *grid.Grid, y int, prev RowState) (RowPlan, error)

// Check verifies the partition invariant of plan against row plan.Row of g:
// segments are ordered, valid, do not overlap, and cover exactly the opaque
// cells. A failure is an INTERNAL_INVARIANT_VIOLATION.
func Check(g *grid.Grid, plan RowPlan) error {
	covered := make([]bool, g.Width())
	cursor := 0
	for _, s := range plan.Segments {
		if !s.Class.Valid() {
			return errors.Invariant("%v: invalid width class", s)
		}
		if s.Row != plan.Row {
			return errors.Invariant("%v: belongs to row %d", s, plan.Row)
		}
		if s.Start < cursor {
			return errors.Invariant("%v: overlaps previous segment ending at %d", s, cursor)
		}
		if s.End() > g.Width() {
			return errors.Invariant("%v: exceeds row width %d", s, g.Width())
		}
		for x := s.Start; x < s.End(); x++ {
			covered[x] = true
		}
		cursor = s.End()
	}
	for x, c := range covered {
		if c != g.Opaque(x, plan.Row) {
			return errors.Invariant("row %d column %d: covered=%v opaque=%v", plan.Row, x, c, !c)
		}
	}
	return nil
}
