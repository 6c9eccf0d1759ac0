package bricks

import (
	"fmt"
	"image"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/grid"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/layout"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/segment"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/styles"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/transform"
)

// Options configures Build.
type Options struct {
	// BlockWidth is the width of a class-2 brick. Zero selects 24.
	BlockWidth int
	// BlockHeight is the full brick height including studs. Zero selects 20.
	BlockHeight int
	// MinAlpha is the opacity threshold used by BuildImage. Nil selects 128;
	// an explicit 0 counts every pixel as opaque.
	MinAlpha *uint8
	// Mode selects the segmenter. Empty selects auto.
	Mode segment.Mode
	// Tolerance is the per-channel color distance within which the merger
	// joins neighboring bricks. Nil selects 2; an explicit 0 merges exact
	// matches only.
	Tolerance *int
	// PruneStuds drops studs whose cell has an opaque cell directly above.
	PruneStuds bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		BlockWidth:  layout.DefaultBlockWidth,
		BlockHeight: layout.DefaultBlockHeight,
		MinAlpha:    Value[uint8](grid.DefaultMinAlpha),
		Mode:        segment.ModeAuto,
		Tolerance:   Value(transform.DefaultTolerance),
	}
}

// Value returns a pointer to v, for the optional fields of Options.
func Value[T any](v T) *T { return &v }

func (o Options) withDefaults() Options {
	if o.BlockWidth == 0 {
		o.BlockWidth = layout.DefaultBlockWidth
	}
	if o.BlockHeight == 0 {
		o.BlockHeight = layout.DefaultBlockHeight
	}
	if o.MinAlpha == nil {
		o.MinAlpha = Value[uint8](grid.DefaultMinAlpha)
	}
	if o.Tolerance == nil {
		o.Tolerance = Value(transform.DefaultTolerance)
	}
	if o.Mode == "" {
		o.Mode = segment.ModeAuto
	}
	return o
}

// Document is a fully laid out brick wall, ready for a sink.
type Document struct {
	Width  float64
	Height float64
	Mode   segment.Mode
	Desc   string
	Plan   layout.Plan

	// Rows holds the final segments of each grid row, top to bottom.
	Rows []segment.RowPlan
	// Bricks and Primitives are in paint order: bottom row first.
	Bricks     []layout.Brick
	Primitives []styles.Primitive

	Stats Stats
}

// Description returns the metadata line written into every document.
func Description(m segment.Mode) string {
	return fmt.Sprintf("Brick-style blocky version - %s bricks side view", m)
}

// BuildImage classifies img and builds its document.
func BuildImage(img image.Image, opts Options) (*Document, error) {
	opts = opts.withDefaults()
	g, err := grid.Classify(img, *opts.MinAlpha)
	if err != nil {
		return nil, err
	}
	return Build(g, opts)
}

// Build segments every row of g top to bottom, then places and renders the
// bricks bottom to top so each row covers the studs of the row beneath it.
//
// An empty grid is INVALID_INPUT. A segmenter or merger producing a row that
// does not partition its opaque cells is INTERNAL_INVARIANT_VIOLATION and no
// document is returned.
func Build(g *grid.Grid, opts Options) (*Document, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "grid is nil")
	}
	if err := errors.ValidateDimensions("grid", g.Width(), g.Height()); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if *opts.Tolerance < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tolerance must be non-negative (got %d)", *opts.Tolerance)
	}

	segmentRow, err := opts.Mode.Func()
	if err != nil {
		return nil, err
	}
	plan, err := layout.New(g.Width(), g.Height(), opts.BlockWidth, opts.BlockHeight)
	if err != nil {
		return nil, err
	}

	rows, merges, err := segmentRows(g, segmentRow, opts)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Width:  plan.CanvasWidth,
		Height: plan.CanvasHeight,
		Mode:   opts.Mode,
		Desc:   Description(opts.Mode),
		Plan:   plan,
		Rows:   rows,
	}

	for y := len(rows) - 1; y >= 0; y-- {
		var skip func(int) bool
		if opts.PruneStuds && y > 0 {
			above := y - 1
			skip = func(col int) bool { return g.Opaque(col, above) }
		}
		for _, s := range rows[y].Segments {
			b := plan.Place(s)
			doc.Bricks = append(doc.Bricks, b)
			doc.Primitives = append(doc.Primitives, styles.Render(b, plan.CellWidth, skip)...)
		}
	}

	doc.Stats = computeStats(doc, merges)
	return doc, nil
}

func segmentRows(g *grid.Grid, segmentRow segment.Func, opts Options) ([]segment.RowPlan, int, error) {
	rows := make([]segment.RowPlan, g.Height())
	merges := 0

	var prev segment.RowState
	for y := range rows {
		rp, err := segmentRow(g, y, prev)
		if err != nil {
			return nil, 0, err
		}
		// The next row is segmented against the unmerged plan.
		prev = rp.State()

		if opts.Mode.Merges() {
			var n int
			rp, n = transform.MergePlan(rp, *opts.Tolerance)
			if err := segment.Check(g, rp); err != nil {
				return nil, 0, err
			}
			merges += n
		}
		rows[y] = rp
	}
	return rows, merges, nil
}
