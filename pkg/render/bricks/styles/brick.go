package styles

import (
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/grid"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/layout"
)

const (
	// StudWidth is the fixed width of every stud.
	StudWidth = 7

	BorderStrokeWidth = 0.5
	BorderOpacity     = 0.3
	StudBorderOpacity = 0.2
)

// BorderColor is the stroke color of all hairlines.
var BorderColor = grid.RGB{}

// Kind distinguishes the two primitive shapes.
type Kind uint8

const (
	KindRect Kind = iota
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindLine:
		return "line"
	default:
		return "unknown"
	}
}

// Role is the part of a brick a primitive draws.
type Role uint8

const (
	RoleBody Role = iota
	RoleBorder
	RoleStud
	RoleStudBorder
)

func (r Role) String() string {
	switch r {
	case RoleBody:
		return "body"
	case RoleBorder:
		return "border"
	case RoleStud:
		return "stud"
	case RoleStudBorder:
		return "stud-border"
	default:
		return "unknown"
	}
}

// Primitive is one drawable element. Rectangles use X, Y, W, H; lines use
// X1, Y1, X2, Y2. A Filled primitive is painted with Fill; any other is
// stroked with Fill at StrokeWidth and Opacity.
type Primitive struct {
	Kind Kind
	Role Role

	X, Y, W, H     float64
	X1, Y1, X2, Y2 float64

	Fill        grid.RGB
	Filled      bool
	StrokeWidth float64
	Opacity     float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Geometry is the measured shape of one brick.
type Geometry struct {
	Box        Rect
	Body       Rect
	StudHeight float64
	Studs      []Rect
}

// Measure splits brick b into body and studs. The stud height is derived
// again from the brick's own height; stud i is centered in the i-th cell of
// width cellWidth.
func Measure(b layout.Brick, cellWidth float64) Geometry {
	stud := float64(layout.StudHeight(int(b.Height)))
	g := Geometry{
		Box:        Rect{X: b.X, Y: b.Y, W: b.Width, H: b.Height},
		Body:       Rect{X: b.X, Y: b.Y + stud, W: b.Width, H: b.Height - stud},
		StudHeight: stud,
		Studs:      make([]Rect, int(b.Class)),
	}
	inset := (cellWidth - StudWidth) / 2
	for i := range g.Studs {
		g.Studs[i] = Rect{
			X: b.X + float64(i)*cellWidth + inset,
			Y: b.Y,
			W: StudWidth,
			H: stud,
		}
	}
	return g
}

// Render emits the primitives of brick b in paint order: body, the top,
// bottom, left and right hairlines around the whole box including the stud
// band, then each stud followed by its outline.
// Studs whose grid column satisfies skip are left out; skip may be nil.
func Render(b layout.Brick, cellWidth float64, skip func(col int) bool) []Primitive {
	g := Measure(b, cellWidth)
	out := make([]Primitive, 0, 5+2*len(g.Studs))

	out = append(out, Primitive{
		Kind: KindRect, Role: RoleBody,
		X: g.Body.X, Y: g.Body.Y, W: g.Body.W, H: g.Body.H,
		Fill: b.Color, Filled: true, Opacity: 1,
	})

	left, right := g.Box.X, g.Box.X+g.Box.W
	top, bottom := g.Box.Y, g.Box.Y+g.Box.H
	for _, l := range [4][4]float64{
		{left, top, right, top},
		{left, bottom, right, bottom},
		{left, top, left, bottom},
		{right, top, right, bottom},
	} {
		out = append(out, Primitive{
			Kind: KindLine, Role: RoleBorder,
			X1: l[0], Y1: l[1], X2: l[2], Y2: l[3],
			Fill: BorderColor, StrokeWidth: BorderStrokeWidth, Opacity: BorderOpacity,
		})
	}

	for i, s := range g.Studs {
		if skip != nil && skip(b.Start+i) {
			continue
		}
		out = append(out,
			Primitive{
				Kind: KindRect, Role: RoleStud,
				X: s.X, Y: s.Y, W: s.W, H: s.H,
				Fill: b.Color, Filled: true, Opacity: 1,
			},
			Primitive{
				Kind: KindRect, Role: RoleStudBorder,
				X: s.X, Y: s.Y, W: s.W, H: s.H,
				Fill: BorderColor, StrokeWidth: BorderStrokeWidth, Opacity: StudBorderOpacity,
			},
		)
	}
	return out
}
