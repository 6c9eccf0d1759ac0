package sink

import (
	"bytes"
	"math"

	"github.com/gogpu/gg"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/grid"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/styles"
)

// MaxPNGSide bounds either side of a rendered PNG in pixels.
const MaxPNGSide = 16384

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background *grid.RGB
}

// WithScale sets the PNG scale factor (default 1).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithBackground fills the canvas with c before drawing. The default
// background is transparent.
func WithBackground(c grid.RGB) PNGOption {
	return func(r *pngRenderer) { r.background = &c }
}

// RenderPNG rasterizes the primitive list of doc in paint order. Unlike the
// SVG sink it needs no external tools.
func RenderPNG(doc *bricks.Document, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) || math.IsInf(r.scale, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png scale must be positive (got %v)", r.scale)
	}

	w := int(math.Ceil(doc.Width * r.scale))
	h := int(math.Ceil(doc.Height * r.scale))
	if w <= 0 || h <= 0 || w > MaxPNGSide || h > MaxPNGSide {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png size %dx%d out of range (max %d)", w, h, MaxPNGSide)
	}

	dc := gg.NewContext(w, h)
	defer func() { _ = dc.Close() }()

	if r.background != nil {
		setColor(dc, *r.background, 1)
		dc.DrawRectangle(0, 0, float64(w), float64(h))
		if err := dc.Fill(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "fill background")
		}
	}

	dc.Scale(r.scale, r.scale)
	for i, p := range doc.Primitives {
		if err := drawPrimitive(dc, p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "draw primitive %d (%s)", i, p.Role)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func drawPrimitive(dc *gg.Context, p styles.Primitive) error {
	switch {
	case p.Kind == styles.KindLine:
		setColor(dc, p.Fill, p.Opacity)
		dc.SetLineWidth(p.StrokeWidth)
		dc.DrawLine(p.X1, p.Y1, p.X2, p.Y2)
		return dc.Stroke()
	case p.Filled:
		setColor(dc, p.Fill, 1)
		dc.DrawRectangle(p.X, p.Y, p.W, p.H)
		return dc.Fill()
	default:
		setColor(dc, p.Fill, p.Opacity)
		dc.SetLineWidth(p.StrokeWidth)
		dc.DrawRectangle(p.X, p.Y, p.W, p.H)
		return dc.Stroke()
	}
}

func setColor(dc *gg.Context, c grid.RGB, alpha float64) {
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, alpha)
}
