package layout

import (
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/segment"
)

const (
	// DefaultBlockWidth is the width of a class-2 brick.
	DefaultBlockWidth = 24
	// DefaultBlockHeight keeps the 5:6 height to width ratio of a real brick.
	DefaultBlockHeight = 20

	// MinBlockWidth is the smallest block width with a non-zero cell.
	MinBlockWidth = 2
	// MinBlockHeight is the smallest block height whose body still leaves
	// room for an inner stud and a non-empty inner body.
	MinBlockHeight = 5

	studFraction  = 15
	minStudHeight = 2
)

// StudHeight returns max(2, floor(h*0.15)), the stud height used for a brick
// of total height h.
func StudHeight(h int) int {
	if s := h * studFraction / 100; s > minStudHeight {
		return s
	}
	return minStudHeight
}

// Plan holds the canvas geometry for a grid of a given size.
type Plan struct {
	GridWidth, GridHeight int

	// CellWidth is the horizontal size of one grid column: half a block.
	CellWidth float64

	StudHeight int
	BodyHeight int

	// InnerStudHeight and InnerBodyHeight split BodyHeight again. Rows are
	// stacked InnerBodyHeight apart so a row's body rests on the studs of the
	// row below.
	InnerStudHeight int
	InnerBodyHeight int

	CanvasWidth    float64
	CanvasHeight   float64
	ContentHeight  float64
	VerticalOffset float64
}

// New computes the plan for a gridW x gridH grid drawn with blocks of
// blockW x blockH.
//
// For a square grid the canvas is made square and the content centered
// vertically. Content taller than the canvas width gets a negative offset
// and overhangs the canvas equally at top and bottom.
func New(gridW, gridH, blockW, blockH int) (Plan, error) {
	if err := errors.ValidateDimensions("grid", gridW, gridH); err != nil {
		return Plan{}, err
	}
	if blockW < MinBlockWidth {
		return Plan{}, errors.New(errors.ErrCodeInvalidInput, "block width %d is below the minimum of %d", blockW, MinBlockWidth)
	}
	if blockH < MinBlockHeight {
		return Plan{}, errors.New(errors.ErrCodeInvalidInput, "block height %d is below the minimum of %d", blockH, MinBlockHeight)
	}

	p := Plan{
		GridWidth:  gridW,
		GridHeight: gridH,
		CellWidth:  float64(blockW / 2),
		StudHeight: StudHeight(blockH),
	}
	p.BodyHeight = blockH - p.StudHeight
	p.InnerStudHeight = StudHeight(p.BodyHeight)
	p.InnerBodyHeight = p.BodyHeight - p.InnerStudHeight

	p.CanvasWidth = float64(gridW) * p.CellWidth
	p.ContentHeight = float64((gridH-1)*p.InnerBodyHeight + p.BodyHeight)

	if gridW == gridH {
		p.CanvasHeight = p.CanvasWidth
		p.VerticalOffset = (p.CanvasHeight - p.ContentHeight) / 2
	} else {
		p.CanvasHeight = p.ContentHeight
	}
	return p, nil
}

// BrickY returns the top edge of row y.
func (p Plan) BrickY(y int) float64 {
	return float64(y*p.InnerBodyHeight) + p.VerticalOffset
}

// Brick is a segment placed on the canvas. Height is the plan's body height,
// which the brick renderer splits again into stud and body.
type Brick struct {
	segment.Segment
	X, Y          float64
	Width, Height float64
}

// Bottom returns the lower edge of the brick.
func (b Brick) Bottom() float64 { return b.Y + b.Height }

// Right returns the right edge of the brick.
func (b Brick) Right() float64 { return b.X + b.Width }

// Place positions s on the canvas.
func (p Plan) Place(s segment.Segment) Brick {
	return Brick{
		Segment: s,
		X:       float64(s.Start) * p.CellWidth,
		Y:       p.BrickY(s.Row),
		Width:   float64(s.Class) * p.CellWidth,
		Height:  float64(p.BodyHeight),
	}
}
