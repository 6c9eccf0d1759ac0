package raster

import (
	"bytes"
	"context"
	"image"

	"golang.org/x/image/draw"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
)

// Rasterizer turns a source document into an image width pixels wide. The
// height follows the source aspect ratio, rounded down.
type Rasterizer interface {
	Rasterize(ctx context.Context, src []byte, width int) (image.Image, error)
}

// Func adapts a plain function to the Rasterizer interface.
type Func func(ctx context.Context, src []byte, width int) (image.Image, error)

// Rasterize calls f.
func (f Func) Rasterize(ctx context.Context, src []byte, width int) (image.Image, error) {
	return f(ctx, src, width)
}

// Auto sends SVG sources to SVG and everything else to Image.
type Auto struct {
	SVG   Rasterizer
	Image Rasterizer
}

// Default returns an Auto rasterizer with the default SVG and image backends.
func Default() Auto {
	return Auto{SVG: &SVGRasterizer{}, Image: ImageRasterizer{}}
}

// Rasterize dispatches on the sniffed source type.
func (a Auto) Rasterize(ctx context.Context, src []byte, width int) (image.Image, error) {
	if IsSVG(src) {
		if a.SVG == nil {
			return nil, errors.New(errors.ErrCodeUnsupported, "no SVG rasterizer configured")
		}
		return a.SVG.Rasterize(ctx, src, width)
	}
	if a.Image == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no image rasterizer configured")
	}
	return a.Image.Rasterize(ctx, src, width)
}

// sniffLimit is how far into a document IsSVG looks for the root element.
const sniffLimit = 1024

// IsSVG reports whether src looks like an SVG document: an <svg element
// appears near the start, possibly after an XML declaration, comments or a
// doctype.
func IsSVG(src []byte) bool {
	head := src[:min(len(src), sniffLimit)]
	head = bytes.TrimLeft(head, "\xef\xbb\xbf \t\r\n")
	if !bytes.HasPrefix(head, []byte("<")) {
		return false
	}
	return bytes.Contains(head, []byte("<svg"))
}

func checkWidth(width int) error {
	if width <= 0 || width > errors.MaxGridSide {
		return errors.New(errors.ErrCodeInvalidInput, "target width must be between 1 and %d (got %d)", errors.MaxGridSide, width)
	}
	return nil
}

// Nearest resizes img to width pixels with nearest-neighbor sampling, so
// every output pixel is a copy of one source pixel and no colors blend.
func Nearest(img image.Image, width int) (*image.NRGBA, error) {
	if err := checkWidth(width); err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "source image is empty (%dx%d)", b.Dx(), b.Dy())
	}
	height := width * b.Dy() / b.Dx()
	if height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"source %dx%d is too wide to rasterize at width %d", b.Dx(), b.Dy(), width)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}
