package dcel

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/0x0FACED/go-trapmap/pkg/geom"
	sf "github.com/peterstace/simplefeatures/geom"
)

// FromWKT reads one geometry per non-empty line. LINESTRING, MULTILINESTRING,
// POLYGON and MULTIPOLYGON contribute their edges; shared vertices and edges
// are merged.
func FromWKT(r io.Reader) (*DCEL, error) {
	var c collector
	c.index = make(map[geom.Point]int)
	c.edges = make(map[[2]int]bool)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		g, err := sf.UnmarshalWKT(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := c.add(g); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return Build(c.points, c.order)
}

type collector struct {
	points []geom.Point
	index  map[geom.Point]int
	edges  map[[2]int]bool
	order  [][2]int
}

func (c *collector) add(g sf.Geometry) error {
	switch g.Type() {
	case sf.TypeLineString:
		ls, ok := g.AsLineString()
		if !ok {
			return errNotA(g, sf.TypeLineString)
		}
		c.lineString(ls)
	case sf.TypeMultiLineString:
		mls, ok := g.AsMultiLineString()
		if !ok {
			return errNotA(g, sf.TypeMultiLineString)
		}
		for i := 0; i < mls.NumLineStrings(); i++ {
			c.lineString(mls.LineStringN(i))
		}
	case sf.TypePolygon:
		p, ok := g.AsPolygon()
		if !ok {
			return errNotA(g, sf.TypePolygon)
		}
		c.polygon(p)
	case sf.TypeMultiPolygon:
		mp, ok := g.AsMultiPolygon()
		if !ok {
			return errNotA(g, sf.TypeMultiPolygon)
		}
		for i := 0; i < mp.NumPolygons(); i++ {
			c.polygon(mp.PolygonN(i))
		}
	default:
		return fmt.Errorf("unsupported geometry %v", g.Type())
	}
	return nil
}

func errNotA(g sf.Geometry, want any) error {
	return fmt.Errorf("geometry of type %v is not a %v", g.Type(), want)
}

func (c *collector) polygon(p sf.Polygon) {
	c.lineString(p.ExteriorRing())
	for i := 0; i < p.NumInteriorRings(); i++ {
		c.lineString(p.InteriorRingN(i))
	}
}

func (c *collector) lineString(ls sf.LineString) {
	seq := ls.Coordinates()
	for i := 0; i+1 < seq.Length(); i++ {
		a, b := seq.GetXY(i), seq.GetXY(i+1)
		c.edge(geom.Point{X: a.X, Y: a.Y}, geom.Point{X: b.X, Y: b.Y})
	}
}

func (c *collector) vertex(p geom.Point) int {
	if i, ok := c.index[p]; ok {
		return i
	}
	c.index[p] = len(c.points)
	c.points = append(c.points, p)
	return c.index[p]
}

func (c *collector) edge(a, b geom.Point) {
	if a == b {
		return
	}
	i, j := c.vertex(a), c.vertex(b)
	key := [2]int{min(i, j), max(i, j)}
	if c.edges[key] {
		return
	}
	c.edges[key] = true
	c.order = append(c.order, [2]int{i, j})
}
