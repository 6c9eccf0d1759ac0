package grid

import (
	"image"
	"image/color"
)

// Classify derives a Grid from img: a pixel is opaque when its alpha is at
// least minAlpha, and opaque pixels keep their straight (non-premultiplied)
// RGB color.
//
// The image is expected to come from a nearest-neighbor rasterizer so every
// pixel is already a flat color; Classify does no blending of its own.
func Classify(img image.Image, minAlpha uint8) (*Grid, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	cells := make([]Cell, 0, max(w*h, 0))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A < minAlpha {
				cells = append(cells, Cell{})
				continue
			}
			cells = append(cells, Cell{Opaque: true, Color: RGB{c.R, c.G, c.B}})
		}
	}
	return New(w, h, cells)
}
