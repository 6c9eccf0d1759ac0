// Package render groups the renderers that turn a classified pixel grid into
// a drawable document.
//
// # Overview
//
// The only renderer is [bricks]: a side view of stacked, interlocking bricks
// where every opaque grid cell is covered by exactly one brick and every
// brick carries studs on its top edge.
//
// Key bricks subpackages:
//   - [bricks/segment]: Row segmentation into width classes 1..4
//   - [bricks/transform]: Merging of adjacent similar segments
//   - [bricks/layout]: Grid to canvas geometry
//   - [bricks/styles]: Brick body, stud and border primitives
//   - [bricks/sink]: Output formats (SVG, PNG, JSON)
//
// # Usage
//
//	doc, err := bricks.BuildImage(img, bricks.DefaultOptions())
//	svg, err := sink.RenderSVG(doc)
//
// Rasterizing a source document into img is the job of package raster; the
// pipeline package wires both together with caching.
//
// [bricks]: github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks
// [bricks/segment]: github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/segment
// [bricks/transform]: github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/transform
// [bricks/layout]: github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/layout
// [bricks/styles]: github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/styles
// [bricks/sink]: github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/sink
package render
