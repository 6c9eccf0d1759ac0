// Package bricks builds brick walls from pixel grids.
//
// # Overview
//
// A [grid.Grid] of opaque and transparent cells becomes a [Document]: a wall
// of side-view bricks, each spanning one to four cells of a single color.
// [Build] runs the stages in order:
//
//  1. Segment ([segment]): partition each row, top to bottom, into bricks.
//  2. Merge ([transform]): join {1,2} neighbors of similar color into class 3.
//  3. Layout ([layout]): place the bricks on the canvas.
//  4. Styles ([styles]): turn each brick into body, border and stud primitives.
//
// Bricks are emitted bottom row first. Because the rows overlap vertically,
// painting in this order lets each row's body hide the studs of the row
// beneath it.
//
//	doc, err := bricks.BuildImage(img, bricks.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(doc)
//
// [grid.Grid]: github.com/Suomen-Palikkayhteiso-ry/brand/pkg/grid.Grid
// [segment]: github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/segment
// [transform]: github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/transform
// [layout]: github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/layout
// [styles]: github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/styles
package bricks
