// Package generator produces planar straight-line graphs in general position
// for building and exercising trapezoidal maps.
package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/0x0FACED/go-trapmap/pkg/geom"
	sf "github.com/peterstace/simplefeatures/geom"
)

var ErrBadSize = errors.New("generator size out of range")

// Graph is a set of points and edges between them, given as indexes into
// Points.
type Graph struct {
	Points []geom.Point
	Edges  [][2]int
}

// Names lists the generators known to ByName.
var Names = []string{"expanding", "horizontal", "quad", "random"}

// ByName runs the named generator. size is the face count for expanding, the
// edge count for horizontal and random, and is ignored for quad. Only random
// watches ctx.
func ByName(ctx context.Context, name string, size int, rnd *rand.Rand) (Graph, error) {
	switch name {
	case "expanding":
		return Expanding(size)
	case "horizontal":
		return Horizontal(size, rnd)
	case "quad":
		return Quad(), nil
	case "random":
		if size < 1 {
			return Graph{}, fmt.Errorf("%w: random needs at least 1 segment, got %d", ErrBadSize, size)
		}
		return RandomContext(ctx, rnd, size+size/2+2, size)
	}
	return Graph{}, fmt.Errorf("unknown generator %q (have %s)", name, strings.Join(Names, ", "))
}

// Segments returns the edges oriented left to right, without faces.
func (g Graph) Segments() ([]geom.Segment, error) {
	segs := make([]geom.Segment, 0, len(g.Edges))
	for _, e := range g.Edges {
		s, err := geom.NewSegment(g.Points[e[0]], g.Points[e[1]])
		if err != nil {
			return nil, err
		}
		segs = append(segs, s)
	}
	return segs, nil
}

// WKT writes one LINESTRING per edge, one per line.
func (g Graph) WKT() (string, error) {
	var sb strings.Builder
	for _, e := range g.Edges {
		a, b := g.Points[e[0]], g.Points[e[1]]
		ls, err := sf.NewLineString(sf.NewSequence([]float64{a.X, a.Y, b.X, b.Y}, sf.DimXY))
		if err != nil {
			return "", fmt.Errorf("edge %v-%v: %w", a, b, err)
		}
		sb.WriteString(ls.AsText())
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

type builder struct {
	g     Graph
	index map[geom.Point]int
}

func newBuilder() *builder {
	return &builder{index: make(map[geom.Point]int)}
}

func (b *builder) point(p geom.Point) int {
	if i, ok := b.index[p]; ok {
		return i
	}
	b.index[p] = len(b.g.Points)
	b.g.Points = append(b.g.Points, p)
	return b.index[p]
}

func (b *builder) edge(p, q geom.Point) {
	b.g.Edges = append(b.g.Edges, [2]int{b.point(p), b.point(q)})
}

// Expanding builds a pyramid of stacked bands: a horizontal base from (-1,0)
// to (1,0) and, per face, a wider horizontal one level up joined to the
// previous one on both sides.
func Expanding(faces int) (Graph, error) {
	if faces < 1 {
		return Graph{}, fmt.Errorf("%w: expanding needs at least 1 face, got %d", ErrBadSize, faces)
	}
	b := newBuilder()
	left, right := geom.Point{X: -1, Y: 0}, geom.Point{X: 1, Y: 0}
	b.edge(left, right)
	for i := 0; i < faces; i++ {
		nl := geom.Point{X: left.X - 1, Y: left.Y + 1}
		nr := geom.Point{X: right.X + 1, Y: right.Y + 1}
		b.edge(nl, nr)
		b.edge(left, nl)
		b.edge(right, nr)
		left, right = nl, nr
	}
	return b.g, nil
}

// Horizontal builds a strip between the lines y=4 and y=0, zigzagging
// between them left to right. Diagonals are added at random, so rnd decides
// which of the strip's cells are triangles and which are quadrilaterals.
func Horizontal(edges int, rnd *rand.Rand) (Graph, error) {
	if edges <= 2 {
		return Graph{}, fmt.Errorf("%w: horizontal needs more than 2 edges, got %d", ErrBadSize, edges)
	}
	b := newBuilder()
	high, low := geom.Point{X: 0, Y: 4}, geom.Point{X: 2, Y: 0}
	b.edge(high, low)
	highs, lows := 1, 1

	for len(b.g.Edges) < edges {
		n := len(b.g.Edges)
		closing := n+1 == edges-1
		extra := closing || (rnd.Intn(2) == 1 && n+1 <= edges-3)

		if (highs+lows)%2 == 0 {
			p := geom.Point{X: float64(highs * 4), Y: 4}
			b.edge(high, p)
			if extra {
				b.edge(low, p)
			}
			high = p
			highs++
		} else {
			p := geom.Point{X: float64(2 + lows*4), Y: 0}
			b.edge(low, p)
			if extra {
				b.edge(high, p)
			}
			low = p
			lows++
		}
	}
	return b.g, nil
}

// Quad is the quadrilateral (1,5) (3,5) (4,0) (1.5,0) cut by the diagonal
// from (1,5) to (4,0).
func Quad() Graph {
	b := newBuilder()
	a, c, d, e := geom.Point{X: 1, Y: 5}, geom.Point{X: 3, Y: 5}, geom.Point{X: 4, Y: 0}, geom.Point{X: 1.5, Y: 0}
	b.edge(a, c)
	b.edge(c, d)
	b.edge(d, e)
	b.edge(e, a)
	b.edge(a, d)
	return b.g
}

// Random scatters points in [0,100)x[0,100) with pairwise distinct x and
// joins random pairs while the new edge touches no other edge except at a
// shared endpoint. It returns fewer than segments edges when the points run
// out of room.
func Random(rnd *rand.Rand, points, segments int) Graph {
	g, _ := RandomContext(context.Background(), rnd, points, segments)
	return g
}

// RandomContext is Random checking ctx every few dozen tries.
func RandomContext(ctx context.Context, rnd *rand.Rand, points, segments int) (Graph, error) {
	b := newBuilder()
	xs := make(map[float64]bool)
	for len(b.g.Points) < points {
		p := geom.Point{X: rnd.Float64() * 100, Y: rnd.Float64() * 100}
		if xs[p.X] {
			continue
		}
		xs[p.X] = true
		b.point(p)
	}
	if points < 2 {
		return b.g, nil
	}

	used := make(map[[2]int]bool)
	for tries := 0; len(b.g.Edges) < segments && tries < segments*50; tries++ {
		if tries%64 == 0 {
			if err := ctx.Err(); err != nil {
				return Graph{}, err
			}
		}
		i, j := rnd.Intn(points), rnd.Intn(points)
		if i == j {
			continue
		}
		if i > j {
			i, j = j, i
		}
		if used[[2]int{i, j}] || !b.fits(i, j) {
			continue
		}
		used[[2]int{i, j}] = true
		b.g.Edges = append(b.g.Edges, [2]int{i, j})
	}
	return b.g, nil
}

// fits reports whether the edge i-j avoids every point and every edge of the
// graph apart from its own endpoints.
func (b *builder) fits(i, j int) bool {
	p, q := b.g.Points[i], b.g.Points[j]
	for k, r := range b.g.Points {
		if k != i && k != j && onSegment(p, q, r) {
			return false
		}
	}
	for _, e := range b.g.Edges {
		shared := 0
		for _, v := range e {
			if v == i || v == j {
				shared++
			}
		}
		a, c := b.g.Points[e[0]], b.g.Points[e[1]]
		switch shared {
		case 0:
			if intersects(p, q, a, c) {
				return false
			}
		case 1:
			// collinear edges sharing an endpoint overlap
			if geom.Orientation(p, q, a) == 0 && geom.Orientation(p, q, c) == 0 {
				return false
			}
		}
	}
	return true
}

func onSegment(p, q, r geom.Point) bool {
	return geom.Orientation(p, q, r) == 0 &&
		min(p.X, q.X) <= r.X && r.X <= max(p.X, q.X) &&
		min(p.Y, q.Y) <= r.Y && r.Y <= max(p.Y, q.Y)
}

// intersects reports whether the closed segments pq and ab meet.
func intersects(p, q, a, b geom.Point) bool {
	d1 := geom.Orientation(a, b, p)
	d2 := geom.Orientation(a, b, q)
	d3 := geom.Orientation(p, q, a)
	d4 := geom.Orientation(p, q, b)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return onSegment(a, b, p) || onSegment(a, b, q) || onSegment(p, q, a) || onSegment(p, q, b)
}
