package segment

import (
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/grid"
)

// Mode names a segmentation strategy.
type Mode string

const (
	// ModeAuto uses Adaptive followed by merging.
	ModeAuto Mode = "auto"
	// ModeSingle makes every opaque cell its own class-1 brick.
	ModeSingle Mode = "1x1"
	// ModePairs joins two adjacent same-colored cells into a class-2 brick.
	ModePairs Mode = "2x2"
)

// Modes lists the supported modes in display order.
var Modes = []Mode{ModeAuto, ModeSingle, ModePairs}

// ParseMode validates s as a Mode. The empty string selects ModeAuto.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeAuto, nil
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidMode, "invalid mode: %q (must be one of: auto, 1x1, 2x2)", s)
}

// Func returns the segmentation function for m.
func (m Mode) Func() (Func, error) {
	switch m {
	case ModeAuto, "":
		return Adaptive, nil
	case ModeSingle:
		return Single, nil
	case ModePairs:
		return Pairs, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidMode, "invalid mode: %q", string(m))
	}
}

// Merges reports whether rows segmented in this mode go through the merger.
func (m Mode) Merges() bool { return m == ModeAuto || m == "" }

func (m Mode) String() string { return string(m) }

// Set implements pflag.Value so a Mode can be bound directly to a flag.
func (m *Mode) Set(s string) error {
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Type implements pflag.Value.
func (m *Mode) Type() string { return "mode" }

// Single emits one class-1 segment per opaque cell of row y.
func Single(g *grid.Grid, y int, _ RowState) (RowPlan, error) {
	plan := RowPlan{Row: y}
	for x := 0; x < g.Width(); x++ {
		if c := g.At(x, y); c.Opaque {
			plan.Segments = append(plan.Segments, Segment{Start: x, Row: y, Class: Class1, Color: c.Color})
		}
	}
	if len(plan.Segments) > 0 {
		plan.FirstClass = Class1
	}
	return plan, Check(g, plan)
}

// Pairs scans row y and joins an opaque cell with its right neighbor when
// both share the exact color; any other opaque cell becomes class 1.
func Pairs(g *grid.Grid, y int, _ RowState) (RowPlan, error) {
	plan := RowPlan{Row: y}
	for x := 0; x < g.Width(); {
		c := g.At(x, y)
		if !c.Opaque {
			x++
			continue
		}
		class := Class1
		if g.At(x+1, y) == c {
			class = Class2
		}
		plan.Segments = append(plan.Segments, Segment{Start: x, Row: y, Class: class, Color: c.Color})
		x += int(class)
	}
	if len(plan.Segments) > 0 {
		plan.FirstClass = plan.Segments[0].Class
	}
	return plan, Check(g, plan)
}
