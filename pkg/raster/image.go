package raster

import (
	"bytes"
	"context"
	"image"

	// Decoders for the raster formats accepted as sources.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
)

// ImageRasterizer decodes PNG, JPEG, GIF, BMP, TIFF and WebP sources and
// resizes them with nearest-neighbor sampling.
type ImageRasterizer struct{}

// Rasterize implements Rasterizer.
func (ImageRasterizer) Rasterize(ctx context.Context, src []byte, width int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkWidth(width); err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterize, err, "decode image")
	}
	out, err := Nearest(img, width)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "resize %s", format)
	}
	return out, nil
}
