package segment

import (
	"reflect"
	"testing"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/grid"
)

var (
	red   = grid.RGB{R: 255}
	green = grid.RGB{G: 255}
	blue  = grid.RGB{B: 255}
)

// mustGrid builds a grid from rows of colors; a nil entry is transparent.
func mustGrid(t *testing.T, rows ...[]*grid.RGB) *grid.Grid {
	t.Helper()
	var cells []grid.Cell
	for _, row := range rows {
		for _, c := range row {
			if c == nil {
				cells = append(cells, grid.Cell{})
				continue
			}
			cells = append(cells, grid.Cell{Opaque: true, Color: *c})
		}
	}
	g, err := grid.New(len(rows[0]), len(rows), cells)
	if err != nil {
		t.Fatalf("grid.New() error: %v", err)
	}
	return g
}

func row(cs ...*grid.RGB) []*grid.RGB { return cs }

func classes(p RowPlan) []WidthClass {
	out := make([]WidthClass, len(p.Segments))
	for i, s := range p.Segments {
		out[i] = s.Class
	}
	return out
}

func starts(p RowPlan) []int {
	out := make([]int, len(p.Segments))
	for i, s := range p.Segments {
		out[i] = s.Start
	}
	return out
}

func TestAdaptiveSingleRun(t *testing.T) {
	tests := []struct {
		name        string
		row         []*grid.RGB
		wantClasses []WidthClass
		wantStarts  []int
	}{
		{"two same", row(&red, &red), []WidthClass{2}, []int{0}},
		{"three same", row(&red, &red, &red), []WidthClass{3}, []int{0}},
		{"four same", row(&red, &red, &red, &red), []WidthClass{4}, []int{0}},
		{"six same", row(&red, &red, &red, &red, &red, &red), []WidthClass{4, 2}, []int{0, 4}},
		{"A A B", row(&red, &red, &blue), []WidthClass{2, 1}, []int{0, 2}},
		{"gap", row(&red, nil, &red, &red), []WidthClass{1, 2}, []int{0, 2}},
		{"alternating", row(&red, &blue, &red), []WidthClass{1, 1, 1}, []int{0, 1, 2}},
		{"all transparent", row(nil, nil, nil), []WidthClass{}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, tt.row)
			plan, err := Adaptive(g, 0, RowState{})
			if err != nil {
				t.Fatalf("Adaptive() error: %v", err)
			}
			if got := classes(plan); !reflect.DeepEqual(got, tt.wantClasses) {
				t.Errorf("classes = %v, want %v", got, tt.wantClasses)
			}
			if got := starts(plan); !reflect.DeepEqual(got, tt.wantStarts) {
				t.Errorf("starts = %v, want %v", got, tt.wantStarts)
			}
		})
	}
}

func TestAdaptiveFirstClass(t *testing.T) {
	g := mustGrid(t, row(nil, &red, &red, &blue))
	plan, err := Adaptive(g, 0, RowState{})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := plan.FirstClass, Class2; got != want {
		t.Errorf("FirstClass = %d, want %d", got, want)
	}

	empty := mustGrid(t, row(nil, nil))
	plan, err = Adaptive(empty, 0, RowState{})
	if err != nil {
		t.Fatal(err)
	}
	if plan.FirstClass != 0 || len(plan.Segments) != 0 {
		t.Errorf("empty row plan = %+v, want no segments and FirstClass 0", plan)
	}
}

func TestAdaptiveSeamAvoidance(t *testing.T) {
	g := mustGrid(t,
		row(&red, &red, &red, &red),
		row(&red, &red, &red, &red),
	)

	top, err := Adaptive(g, 0, RowState{})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := classes(top), []WidthClass{4}; !reflect.DeepEqual(got, want) {
		t.Fatalf("row 0 classes = %v, want %v", got, want)
	}

	next, err := Adaptive(g, 1, top.State())
	if err != nil {
		t.Fatal(err)
	}
	if got, want := classes(next), []WidthClass{3, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("row 1 classes = %v, want %v", got, want)
	}
}

func TestAdaptiveSeamAvoidanceKeepsWithoutAlternative(t *testing.T) {
	// A run of 2 is too short for seam avoidance.
	g := mustGrid(t,
		row(&red, &red, nil, &blue),
		row(&red, &red, nil, &blue),
	)
	prev := RowState{starts: map[int]Segment{
		0: {Start: 0, Row: 0, Class: Class2, Color: red},
	}}

	plan, err := Adaptive(g, 1, prev)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := classes(plan), []WidthClass{2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("classes = %v, want %v", got, want)
	}
}

func TestAdaptiveSeamAvoidanceRequiresSameColor(t *testing.T) {
	g := mustGrid(t, row(&red, &red, &red, &red))
	prev := RowState{starts: map[int]Segment{
		0: {Start: 0, Class: Class4, Color: blue},
	}}

	plan, err := Adaptive(g, 0, prev)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := classes(plan), []WidthClass{4}; !reflect.DeepEqual(got, want) {
		t.Errorf("classes = %v, want %v", got, want)
	}
}

func TestAdaptiveRunningBond(t *testing.T) {
	tests := []struct {
		name      string
		row       []*grid.RGB
		prevFirst WidthClass
		want      []WidthClass
	}{
		{"avoid previous first", row(&red, &red, &blue), Class2, []WidthClass{1, 1, 1}},
		{"no alternative", row(&red, &blue), Class1, []WidthClass{1, 1}},
		{"different already", row(&red, &red, &red), Class2, []WidthClass{3}},
		{"unknown previous", row(&red, &red, &red), 0, []WidthClass{3}},
		{"only first segment", row(&red, &red, &blue, &blue), Class2, []WidthClass{1, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, tt.row)
			plan, err := Adaptive(g, 0, RowState{FirstClass: tt.prevFirst})
			if err != nil {
				t.Fatal(err)
			}
			if got := classes(plan); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("classes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdaptiveRuleOrder(t *testing.T) {
	// Seam avoidance is applied first; the row-start rule then sees its result.
	below := map[int]Segment{0: {Start: 0, Class: Class4, Color: red}}
	tests := []struct {
		name      string
		prevFirst WidthClass
		want      WidthClass
	}{
		{"seam only", Class4, Class3},
		{"row start undoes seam", Class3, Class4},
		{"neither conflicts", Class2, Class3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, row(&red, &red, &red, &red))
			plan, err := Adaptive(g, 0, RowState{FirstClass: tt.prevFirst, starts: below})
			if err != nil {
				t.Fatal(err)
			}
			if got := plan.Segments[0].Class; got != tt.want {
				t.Errorf("first class = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAdaptiveDeterministic(t *testing.T) {
	g := mustGrid(t,
		row(&red, &red, &red, &red, &red, &blue, &blue, nil, &green),
		row(&red, &red, &red, &blue, &blue, &blue, &blue, &green, &green),
	)
	var prev1, prev2 RowState
	for y := 0; y < g.Height(); y++ {
		a, err := Adaptive(g, y, prev1)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Adaptive(g, y, prev2)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("row %d differs between runs: %v vs %v", y, a, b)
		}
		prev1, prev2 = a.State(), b.State()
	}
}

func TestSingle(t *testing.T) {
	g := mustGrid(t, row(&red, &red, nil, &blue))
	plan, err := Single(g, 0, RowState{})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := classes(plan), []WidthClass{1, 1, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("classes = %v, want %v", got, want)
	}
	if got, want := starts(plan), []int{0, 1, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("starts = %v, want %v", got, want)
	}
}

func TestPairs(t *testing.T) {
	g := mustGrid(t, row(&red, &red, &red, &blue, &blue, nil, &green))
	plan, err := Pairs(g, 0, RowState{})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := classes(plan), []WidthClass{2, 1, 2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("classes = %v, want %v", got, want)
	}
}

func TestCheck(t *testing.T) {
	g := mustGrid(t, row(&red, &red, nil, &blue))

	tests := []struct {
		name    string
		segs    []Segment
		wantErr bool
	}{
		{"valid", []Segment{{Start: 0, Class: 2}, {Start: 3, Class: 1}}, false},
		{"gap over opaque", []Segment{{Start: 0, Class: 1}, {Start: 3, Class: 1}}, true},
		{"covers transparent", []Segment{{Start: 0, Class: 3}, {Start: 3, Class: 1}}, true},
		{"overlap", []Segment{{Start: 0, Class: 2}, {Start: 1, Class: 1}, {Start: 3, Class: 1}}, true},
		{"past width", []Segment{{Start: 0, Class: 2}, {Start: 3, Class: 2}}, true},
		{"bad class", []Segment{{Start: 0, Class: 5}}, true},
		{"wrong row", []Segment{{Start: 0, Row: 1, Class: 2}, {Start: 3, Row: 1, Class: 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(g, RowPlan{Row: 0, Segments: tt.segs})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvariant) {
				t.Errorf("Check() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvariant)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"1x1", ModeSingle, false},
		{"2x2", ModePairs, false},
		{"3x3", "", true},
		{"AUTO", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWidthClassValid(t *testing.T) {
	for c := WidthClass(-1); c <= 6; c++ {
		want := c >= 1 && c <= 4
		if got := c.Valid(); got != want {
			t.Errorf("WidthClass(%d).Valid() = %v, want %v", c, got, want)
		}
	}
}
