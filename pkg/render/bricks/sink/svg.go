package sink

import (
	"bytes"
	"fmt"
	"html"
	"strconv"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/styles"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	declaration bool
	desc        string
}

// WithoutDeclaration omits the leading XML declaration, for documents that
// will be embedded in another one.
func WithoutDeclaration() SVGOption { return func(r *svgRenderer) { r.declaration = false } }

// WithDescription replaces the document's <desc> text.
func WithDescription(s string) SVGOption { return func(r *svgRenderer) { r.desc = s } }

// RenderSVG serializes doc. Primitives are written in the document's paint
// order, one element per line.
func RenderSVG(doc *bricks.Document, opts ...SVGOption) []byte {
	r := svgRenderer{declaration: true, desc: doc.Desc}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	if r.declaration {
		buf.WriteString(xmlDeclaration + "\n")
	}
	w, h := num(doc.Width), num(doc.Height)
	fmt.Fprintf(&buf, `<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, "  <desc>%s</desc>\n", html.EscapeString(r.desc))

	for _, p := range doc.Primitives {
		writePrimitive(&buf, p)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writePrimitive(buf *bytes.Buffer, p styles.Primitive) {
	switch {
	case p.Kind == styles.KindLine:
		fmt.Fprintf(buf, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" opacity="%s"/>`+"\n",
			num(p.X1), num(p.Y1), num(p.X2), num(p.Y2), p.Fill, num(p.StrokeWidth), num(p.Opacity))
	case p.Filled:
		fmt.Fprintf(buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(p.X), num(p.Y), num(p.W), num(p.H), p.Fill)
	default:
		fmt.Fprintf(buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" stroke-width="%s" opacity="%s"/>`+"\n",
			num(p.X), num(p.Y), num(p.W), num(p.H), p.Fill, num(p.StrokeWidth), num(p.Opacity))
	}
}

// num formats v with the fewest digits that round-trip, so whole numbers
// carry no decimal point.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
