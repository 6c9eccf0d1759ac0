package bricks_test

import (
	"fmt"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/grid"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks"
)

func ExampleBuild() {
	red := grid.Cell{Opaque: true, Color: grid.RGB{R: 255}}
	blue := grid.Cell{Opaque: true, Color: grid.RGB{B: 255}}

	g, _ := grid.New(4, 2, []grid.Cell{
		red, red, red, {},
		red, red, blue, blue,
	})

	doc, err := bricks.Build(g, bricks.DefaultOptions())
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("canvas: %vx%v\n", doc.Width, doc.Height)
	for _, b := range doc.Bricks {
		fmt.Printf("row %d: class %d at x=%v y=%v\n", b.Row, b.Class, b.X, b.Y)
	}
	// Output:
	// canvas: 48x32
	// row 1: class 2 at x=0 y=15
	// row 1: class 2 at x=24 y=15
	// row 0: class 3 at x=0 y=0
}
