package trapmap_test

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/0x0FACED/go-trapmap/pkg/dcel"
	"github.com/0x0FACED/go-trapmap/pkg/generator"
	"github.com/0x0FACED/go-trapmap/pkg/geom"
	"github.com/0x0FACED/go-trapmap/pkg/trapmap"
)

func ExampleBuildShuffled() {
	g := generator.Quad()
	d, err := dcel.Build(g.Points, g.Edges)
	if err != nil {
		panic(err)
	}
	segs, err := d.Segments()
	if err != nil {
		panic(err)
	}

	s, err := trapmap.BuildShuffled(context.Background(), d.OuterBoundary(), segs, rand.New(rand.NewSource(1)), nil)
	if err != nil {
		panic(err)
	}
	for _, p := range []geom.Point{{X: 1.4, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 5}} {
		face, err := s.Face(p)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%v -> face %d\n", p, face)
	}
	// Output:
	// (1.4, 2) -> face 2
	// (3, 4) -> face 1
	// (5, 5) -> face 0
}

func ExampleStructure_Locate() {
	b := trapmap.NewBuilder(geom.NewBox(-2, -2, 7, 7).Boundary(0), nil)
	if err := b.Insert(geom.MustSegment(geom.Point{X: 1, Y: 5}, geom.Point{X: 3, Y: 5})); err != nil {
		panic(err)
	}

	t, err := b.Structure().Locate(geom.Point{X: 2, Y: 4})
	if err != nil {
		panic(err)
	}
	fmt.Println("top:", t.Top)
	fmt.Println("left:", t.LeftP, "right:", t.RightP)
	// Output:
	// top: [(1, 5)-(3, 5)]
	// left: (1, 5) right: (3, 5)
}
