package pipeline

import (
	"context"
	"image"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/palette"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/raster"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/splitter"
)

// Rasterize turns src into an image opts.PixelWidth pixels wide.
//
// With opts.Full the source must be SVG: it is split first and only the
// title is rasterized. The returned split is nil otherwise.
func Rasterize(ctx context.Context, r raster.Rasterizer, src []byte, opts Options) (image.Image, *splitter.Parts, error) {
	split, titleSrc, err := SplitSource(src, opts)
	if err != nil {
		return nil, nil, err
	}
	img, err := r.Rasterize(ctx, titleSrc, opts.PixelWidth)
	if err != nil {
		return nil, nil, err
	}
	return img, split, nil
}

// SplitSource returns the document to rasterize: src itself, or its title
// when opts.Full is set.
func SplitSource(src []byte, opts Options) (*splitter.Parts, []byte, error) {
	if !opts.Full {
		return nil, src, nil
	}
	if !raster.IsSVG(src) {
		return nil, nil, errors.New(errors.ErrCodeUnsupported, "full mode needs an SVG source")
	}
	split, err := splitter.Split(src, opts.TitleFraction)
	if err != nil {
		return nil, nil, err
	}
	return split, split.Title, nil
}

// Build reduces img to a palette when requested and builds its brick
// document.
func Build(img image.Image, opts Options) (*bricks.Document, error) {
	if opts.Palette > 0 {
		method, err := palette.ParseMethod(opts.PaletteMethod)
		if err != nil {
			return nil, err
		}
		reduced, _, err := palette.Reduce(img, opts.Palette, method, uint8(opts.MinAlpha))
		if err != nil {
			return nil, err
		}
		img = reduced
	}
	return bricks.BuildImage(img, opts.BuildOptions())
}
