package bricks

import (
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/segment"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/styles"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a built document.
type Stats struct {
	Rows      int
	EmptyRows int
	Bricks    int
	Studs     int
	Merges    int

	// Classes counts bricks by width class; index 0 is unused.
	Classes [segment.Class4 + 1]int

	// MeanWidth and StdDevWidth are in grid cells.
	MeanWidth   float64
	StdDevWidth float64
}

func computeStats(doc *Document, merges int) Stats {
	s := Stats{
		Rows:   len(doc.Rows),
		Bricks: len(doc.Bricks),
		Merges: merges,
	}
	for _, r := range doc.Rows {
		if len(r.Segments) == 0 {
			s.EmptyRows++
		}
	}
	widths := make([]float64, 0, len(doc.Bricks))
	for _, b := range doc.Bricks {
		s.Classes[b.Class]++
		widths = append(widths, float64(b.Class))
	}
	for _, p := range doc.Primitives {
		if p.Role == styles.RoleStud {
			s.Studs++
		}
	}
	switch len(widths) {
	case 0:
	case 1:
		s.MeanWidth = widths[0]
	default:
		s.MeanWidth, s.StdDevWidth = stat.MeanStdDev(widths, nil)
	}
	return s
}
