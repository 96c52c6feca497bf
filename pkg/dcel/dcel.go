// Package dcel builds a doubly connected edge list from a planar straight-line
// graph and hands its edges to the trapezoidal map as faced segments.
//
// Faces are the cycles of half-edges, each face lying left of its half-edges.
// Counter-clockwise cycles bound faces. Clockwise and zero-area cycles are
// the boundaries of the unbounded region and all map to a single outer face,
// so holes are not told apart from the outside.
package dcel

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/0x0FACED/go-trapmap/pkg/geom"
)

var (
	ErrUnknownVertex = errors.New("edge references an unknown vertex")
	ErrLoop          = errors.New("edge joins a vertex to itself")
	ErrDuplicate     = errors.New("duplicate vertex or edge")
	ErrEmpty         = errors.New("no edges")
)

type HalfEdgeID int

type Vertex struct {
	Point geom.Point
	// Incident is one half-edge leaving the vertex.
	Incident HalfEdgeID
}

type HalfEdge struct {
	Origin int
	Twin   HalfEdgeID
	Next   HalfEdgeID
	Prev   HalfEdgeID
	Face   geom.FaceID
}

type Face struct {
	ID    geom.FaceID
	Outer bool
	// Area is zero for the outer face.
	Area float64
	// Components holds one half-edge per boundary cycle.
	Components []HalfEdgeID
}

type DCEL struct {
	Vertices  []Vertex
	HalfEdges []HalfEdge
	Faces     []Face
}

// OuterFace is always the first face.
const OuterFace geom.FaceID = 0

// Build links points by edges, given as index pairs. Edge i becomes half-edges
// 2i (as given) and 2i+1 (its twin).
func Build(points []geom.Point, edges [][2]int) (*DCEL, error) {
	if len(edges) == 0 {
		return nil, ErrEmpty
	}
	d := &DCEL{Vertices: make([]Vertex, len(points))}

	seenPoint := make(map[geom.Point]int, len(points))
	for i, p := range points {
		if j, ok := seenPoint[p]; ok {
			return nil, fmt.Errorf("%w: vertices %d and %d at %v", ErrDuplicate, j, i, p)
		}
		seenPoint[p] = i
		d.Vertices[i] = Vertex{Point: p, Incident: -1}
	}

	seenEdge := make(map[[2]int]bool, len(edges))
	outgoing := make([][]HalfEdgeID, len(points))
	for i, e := range edges {
		a, b := e[0], e[1]
		if a < 0 || a >= len(points) || b < 0 || b >= len(points) {
			return nil, fmt.Errorf("%w: edge %d %v", ErrUnknownVertex, i, e)
		}
		if a == b {
			return nil, fmt.Errorf("%w: edge %d at %v", ErrLoop, i, points[a])
		}
		key := [2]int{min(a, b), max(a, b)}
		if seenEdge[key] {
			return nil, fmt.Errorf("%w: edge %d %v-%v", ErrDuplicate, i, points[a], points[b])
		}
		seenEdge[key] = true

		h := HalfEdgeID(len(d.HalfEdges))
		d.HalfEdges = append(d.HalfEdges,
			HalfEdge{Origin: a, Twin: h + 1, Face: geom.NoFace},
			HalfEdge{Origin: b, Twin: h, Face: geom.NoFace},
		)
		outgoing[a] = append(outgoing[a], h)
		outgoing[b] = append(outgoing[b], h+1)
	}

	d.linkCycles(outgoing)
	d.assignFaces()
	return d, nil
}

func (d *DCEL) destination(h HalfEdgeID) geom.Point {
	return d.Vertices[d.HalfEdges[d.HalfEdges[h].Twin].Origin].Point
}

func (d *DCEL) angle(h HalfEdgeID) float64 {
	o := d.Vertices[d.HalfEdges[h].Origin].Point
	t := d.destination(h)
	a := math.Atan2(t.Y-o.Y, t.X-o.X)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// linkCycles sorts the half-edges around every vertex clockwise and makes the
// twin of each one continue with the next clockwise half-edge.
func (d *DCEL) linkCycles(outgoing [][]HalfEdgeID) {
	for v, out := range outgoing {
		if len(out) == 0 {
			continue
		}
		sort.Slice(out, func(i, j int) bool {
			return d.angle(out[i]) > d.angle(out[j])
		})
		d.Vertices[v].Incident = out[0]
		for i, h1 := range out {
			h2 := out[(i+1)%len(out)]
			in := d.HalfEdges[h1].Twin
			d.HalfEdges[in].Next = h2
			d.HalfEdges[h2].Prev = in
		}
	}
}

func (d *DCEL) assignFaces() {
	d.Faces = []Face{{ID: OuterFace, Outer: true}}
	for start := range d.HalfEdges {
		if d.HalfEdges[start].Face != geom.NoFace {
			continue
		}
		ring := d.Cycle(HalfEdgeID(start))
		area := geom.SignedArea(ring)

		face := OuterFace
		if area > 0 {
			face = geom.FaceID(len(d.Faces))
			d.Faces = append(d.Faces, Face{ID: face, Area: area})
		}
		d.Faces[face].Components = append(d.Faces[face].Components, HalfEdgeID(start))

		h := HalfEdgeID(start)
		for {
			d.HalfEdges[h].Face = face
			h = d.HalfEdges[h].Next
			if h == HalfEdgeID(start) {
				break
			}
		}
	}
}

// Cycle lists the origins of the half-edges in the cycle through h.
func (d *DCEL) Cycle(h HalfEdgeID) []geom.Point {
	var ring []geom.Point
	cur := h
	for {
		ring = append(ring, d.Vertices[d.HalfEdges[cur].Origin].Point)
		cur = d.HalfEdges[cur].Next
		if cur == h {
			return ring
		}
	}
}

// Segments returns one segment per edge, oriented left to right. FaceAbove is
// the face of the left to right half-edge and FaceBelow that of its twin.
func (d *DCEL) Segments() ([]geom.Segment, error) {
	segs := make([]geom.Segment, 0, len(d.HalfEdges)/2)
	for h := 0; h < len(d.HalfEdges); h += 2 {
		lr, rl := HalfEdgeID(h), HalfEdgeID(h+1)
		o := d.Vertices[d.HalfEdges[lr].Origin].Point
		t := d.destination(lr)
		if o.X > t.X {
			lr, rl = rl, lr
		}
		s, err := geom.NewSegment(o, t)
		if err != nil {
			return nil, err
		}
		segs = append(segs, s.WithFaces(d.HalfEdges[lr].Face, d.HalfEdges[rl].Face))
	}
	return segs, nil
}

// Margin is the gap between the vertices and the outer boundary.
const Margin = 2

// OuterBoundary frames the vertices with the outer face inside the frame.
func (d *DCEL) OuterBoundary() geom.OuterBoundary {
	pts := make([]geom.Point, len(d.Vertices))
	for i, v := range d.Vertices {
		pts[i] = v.Point
	}
	return geom.BoxFromPoints(pts...).Padded(Margin).Boundary(OuterFace)
}

// BoundedFaces returns the number of faces other than the outer one.
func (d *DCEL) BoundedFaces() int {
	return len(d.Faces) - 1
}
