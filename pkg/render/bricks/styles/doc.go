// Package styles turns placed bricks into flat drawing primitives.
//
// A brick is drawn side on: a body rectangle in the brick's color, four
// hairline borders, and one stud per grid cell along its top edge. Nothing is
// shaded; every fill is the exact cell color so the wall reads as solid
// plastic.
//
// The output of [Render] is sink independent. The SVG, JSON and PNG sinks in
// [sink] all consume the same []Primitive.
//
// [sink]: github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/sink
package styles
