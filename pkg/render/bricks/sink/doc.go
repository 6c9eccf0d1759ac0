// Package sink provides output format renderers for brick documents.
//
// # Overview
//
// A sink turns a [bricks.Document] into bytes. All sinks draw the same
// primitive list in the same paint order:
//
//   - SVG: the canonical vector output ([RenderSVG])
//   - JSON: canvas, layout plan and per-brick geometry ([RenderJSON])
//   - PNG: pure-Go raster output via github.com/gogpu/gg ([RenderPNG])
//
// # SVG Output
//
// The SVG document starts with an XML declaration, carries a single <desc>
// naming the brick mode, and then lists body rectangles, hairline borders and
// studs exactly as produced by [styles.Render]:
//
//	svg := sink.RenderSVG(doc)
//
// Coordinates are written with the shortest exact decimal form, so a whole
// number renders as "24" and a half as "2.5".
//
// # PNG Output
//
//	png, err := sink.RenderPNG(doc, sink.WithScale(2))
//
// [bricks.Document]: github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks.Document
// [styles.Render]: github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/styles.Render
package sink
