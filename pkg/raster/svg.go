package raster

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os/exec"
	"strconv"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
)

const (
	// DefaultBinary is the librsvg command line converter.
	DefaultBinary = "rsvg-convert"
	// DefaultOversample renders SVGs this many times wider than the target
	// before the nearest-neighbor downscale.
	DefaultOversample = 4
)

// SVGRasterizer renders SVG sources with rsvg-convert and downsamples the
// result with nearest-neighbor sampling.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
type SVGRasterizer struct {
	// Binary overrides the converter command. Empty selects DefaultBinary.
	Binary string
	// Oversample overrides DefaultOversample when positive.
	Oversample int
}

// Rasterize implements Rasterizer.
func (r *SVGRasterizer) Rasterize(ctx context.Context, src []byte, width int) (image.Image, error) {
	if err := checkWidth(width); err != nil {
		return nil, err
	}
	over := r.Oversample
	if over <= 0 {
		over = DefaultOversample
	}

	data, err := r.convert(ctx, src, "-f", "png", "-w", strconv.Itoa(width*over))
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterize, err, "decode rsvg-convert output")
	}
	out, err := Nearest(img, width)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SVGRasterizer) binary() string {
	if r.Binary != "" {
		return r.Binary
	}
	return DefaultBinary
}

// convert shells out to rsvg-convert with src on stdin.
func (r *SVGRasterizer) convert(ctx context.Context, src []byte, args ...string) ([]byte, error) {
	bin := r.binary()
	if _, err := exec.LookPath(bin); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterize, err,
			"SVG sources require librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = bytes.NewReader(src)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterize, err, "%s: %s", bin, bytes.TrimSpace(errBuf.Bytes()))
	}
	return out.Bytes(), nil
}
