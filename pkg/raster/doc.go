// Package raster turns source documents into small flat-color images.
//
// The brick engine needs one color per grid cell with no anti-aliased edges,
// so every [Rasterizer] here finishes with a nearest-neighbor resize
// ([Nearest]) to the requested width. The height follows the source aspect
// ratio, rounded down.
//
//   - [ImageRasterizer] decodes PNG, JPEG, GIF, BMP, TIFF and WebP.
//   - [SVGRasterizer] renders with rsvg-convert at several times the target
//     width first, then downsamples.
//   - [Auto] picks one of the two by sniffing the source.
//
// Failures to decode or convert carry the RASTERIZE_FAILED code; a source
// that yields an empty image is INVALID_INPUT.
package raster
