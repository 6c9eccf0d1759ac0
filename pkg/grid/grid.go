// Package grid holds the classified pixel grid that the brick engine reads.
//
// A [Grid] is produced once from a rasterized image by [Classify] and is
// read-only afterwards. Each [Cell] carries an opacity flag and, when opaque,
// a flat RGB color; the alpha channel plays no further role after
// classification.
//
// Access is bounds-checked: [Grid.At] returns the zero Cell (transparent) for
// coordinates outside the grid, so neighbor lookups never need a separate
// membership test.
package grid

import (
	"fmt"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
)

// DefaultMinAlpha is the alpha value at or above which a pixel counts as opaque.
const DefaultMinAlpha = 128

// RGB is an 8-bit color without alpha.
type RGB struct {
	R, G, B uint8
}

// String formats the color the way SVG fill attributes expect it.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Similar reports whether every channel of c and o differs by at most tol.
func (c RGB) Similar(o RGB, tol int) bool {
	return absDiff(c.R, o.R) <= tol && absDiff(c.G, o.G) <= tol && absDiff(c.B, o.B) <= tol
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// Cell is one classified grid position. Color is meaningful only when Opaque.
type Cell struct {
	Opaque bool
	Color  RGB
}

// Grid is an immutable width × height array of cells, row-major, origin top-left.
type Grid struct {
	width, height int
	cells         []Cell
}

// New builds a grid from row-major cells. It fails with INVALID_INPUT when a
// side is zero or the cell count does not match.
func New(width, height int, cells []Cell) (*Grid, error) {
	if err := errors.ValidateDimensions("grid", width, height); err != nil {
		return nil, err
	}
	if len(cells) != width*height {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"grid has %d cells, want %d (%dx%d)", len(cells), width*height, width, height)
	}
	owned := make([]Cell, len(cells))
	copy(owned, cells)
	return &Grid{width: width, height: height, cells: owned}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Square reports whether the grid has as many rows as columns.
func (g *Grid) Square() bool { return g.width == g.height }

// At returns the cell at (x, y), or the zero (transparent) Cell when the
// coordinates fall outside the grid.
func (g *Grid) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return Cell{}
	}
	return g.cells[y*g.width+x]
}

// Opaque is shorthand for At(x, y).Opaque.
func (g *Grid) Opaque(x, y int) bool {
	return g.At(x, y).Opaque
}

// OpaqueCount returns the number of opaque cells in row y.
func (g *Grid) OpaqueCount(y int) int {
	n := 0
	for x := 0; x < g.width; x++ {
		if g.Opaque(x, y) {
			n++
		}
	}
	return n
}
