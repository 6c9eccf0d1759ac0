package sink

import (
	"encoding/json"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/styles"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	stats      bool
	primitives bool
}

// WithJSONStats includes the document statistics.
func WithJSONStats() JSONOption { return func(r *jsonRenderer) { r.stats = true } }

// WithJSONPrimitives includes the raw primitive list in paint order.
func WithJSONPrimitives() JSONOption { return func(r *jsonRenderer) { r.primitives = true } }

type jsonOutput struct {
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Mode       string          `json:"mode"`
	Desc       string          `json:"desc"`
	Plan       jsonPlan        `json:"plan"`
	Bricks     []jsonBrick     `json:"bricks"`
	Stats      *jsonStats      `json:"stats,omitempty"`
	Primitives []jsonPrimitive `json:"primitives,omitempty"`
}

type jsonPlan struct {
	GridWidth       int     `json:"grid_width"`
	GridHeight      int     `json:"grid_height"`
	CellWidth       float64 `json:"cell_width"`
	StudHeight      int     `json:"stud_height"`
	BodyHeight      int     `json:"body_height"`
	InnerStudHeight int     `json:"inner_stud_height"`
	InnerBodyHeight int     `json:"inner_body_height"`
	ContentHeight   float64 `json:"content_height"`
	VerticalOffset  float64 `json:"vertical_offset"`
}

type jsonBrick struct {
	Row   int        `json:"row"`
	Start int        `json:"start"`
	Class int        `json:"class"`
	Color string     `json:"color"`
	Box   jsonRect   `json:"box"`
	Body  jsonRect   `json:"body"`
	Studs []jsonRect `json:"studs"`
}

type jsonRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type jsonStats struct {
	Rows        int     `json:"rows"`
	EmptyRows   int     `json:"empty_rows"`
	Bricks      int     `json:"bricks"`
	Studs       int     `json:"studs"`
	Merges      int     `json:"merges"`
	Classes     []int   `json:"classes"`
	MeanWidth   float64 `json:"mean_width"`
	StdDevWidth float64 `json:"stddev_width"`
}

type jsonPrimitive struct {
	Kind        string   `json:"kind"`
	Role        string   `json:"role"`
	X           float64  `json:"x,omitempty"`
	Y           float64  `json:"y,omitempty"`
	W           float64  `json:"w,omitempty"`
	H           float64  `json:"h,omitempty"`
	X1          float64  `json:"x1,omitempty"`
	Y1          float64  `json:"y1,omitempty"`
	X2          float64  `json:"x2,omitempty"`
	Y2          float64  `json:"y2,omitempty"`
	Fill        string   `json:"fill,omitempty"`
	Stroke      string   `json:"stroke,omitempty"`
	StrokeWidth float64  `json:"stroke_width,omitempty"`
	Opacity     *float64 `json:"opacity,omitempty"`
}

// RenderJSON exports the laid out bricks for external tools. Bricks appear in
// paint order, each with its measured body and stud rectangles.
func RenderJSON(doc *bricks.Document, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	p := doc.Plan
	out := jsonOutput{
		Width:  doc.Width,
		Height: doc.Height,
		Mode:   doc.Mode.String(),
		Desc:   doc.Desc,
		Plan: jsonPlan{
			GridWidth:       p.GridWidth,
			GridHeight:      p.GridHeight,
			CellWidth:       p.CellWidth,
			StudHeight:      p.StudHeight,
			BodyHeight:      p.BodyHeight,
			InnerStudHeight: p.InnerStudHeight,
			InnerBodyHeight: p.InnerBodyHeight,
			ContentHeight:   p.ContentHeight,
			VerticalOffset:  p.VerticalOffset,
		},
		Bricks: make([]jsonBrick, 0, len(doc.Bricks)),
	}

	for _, b := range doc.Bricks {
		g := styles.Measure(b, p.CellWidth)
		jb := jsonBrick{
			Row:   b.Row,
			Start: b.Start,
			Class: int(b.Class),
			Color: b.Color.String(),
			Box:   jsonRect(g.Box),
			Body:  jsonRect(g.Body),
			Studs: make([]jsonRect, len(g.Studs)),
		}
		for i, s := range g.Studs {
			jb.Studs[i] = jsonRect(s)
		}
		out.Bricks = append(out.Bricks, jb)
	}

	if r.stats {
		s := doc.Stats
		out.Stats = &jsonStats{
			Rows:        s.Rows,
			EmptyRows:   s.EmptyRows,
			Bricks:      s.Bricks,
			Studs:       s.Studs,
			Merges:      s.Merges,
			Classes:     s.Classes[1:],
			MeanWidth:   s.MeanWidth,
			StdDevWidth: s.StdDevWidth,
		}
	}

	if r.primitives {
		out.Primitives = make([]jsonPrimitive, len(doc.Primitives))
		for i, pr := range doc.Primitives {
			out.Primitives[i] = toJSONPrimitive(pr)
		}
	}

	return json.MarshalIndent(out, "", "  ")
}

func toJSONPrimitive(p styles.Primitive) jsonPrimitive {
	jp := jsonPrimitive{
		Kind: p.Kind.String(),
		Role: p.Role.String(),
		X:    p.X, Y: p.Y, W: p.W, H: p.H,
		X1: p.X1, Y1: p.Y1, X2: p.X2, Y2: p.Y2,
	}
	if p.Filled {
		jp.Fill = p.Fill.String()
		return jp
	}
	op := p.Opacity
	jp.Stroke = p.Fill.String()
	jp.StrokeWidth = p.StrokeWidth
	jp.Opacity = &op
	return jp
}
