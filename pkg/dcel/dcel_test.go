package dcel

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/0x0FACED/go-trapmap/pkg/geom"
)

var quadPoints = []geom.Point{{X: 1, Y: 5}, {X: 3, Y: 5}, {X: 4, Y: 0}, {X: 1.5, Y: 0}}
var quadEdges = [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 2}}

func checkLinks(t *testing.T, d *DCEL) {
	t.Helper()
	for i, h := range d.HalfEdges {
		id := HalfEdgeID(i)
		if d.HalfEdges[h.Twin].Twin != id {
			t.Fatalf("half-edge %d: twin %d does not point back", i, h.Twin)
		}
		if d.HalfEdges[h.Next].Prev != id {
			t.Fatalf("half-edge %d: next %d has prev %d", i, h.Next, d.HalfEdges[h.Next].Prev)
		}
		if d.HalfEdges[h.Next].Face != h.Face {
			t.Fatalf("half-edge %d and its next lie in different faces", i)
		}
		if d.HalfEdges[h.Next].Origin != d.HalfEdges[h.Twin].Origin {
			t.Fatalf("half-edge %d: next does not start at its destination", i)
		}
	}
}

func TestBuildQuad(t *testing.T) {
	d, err := Build(quadPoints, quadEdges)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	checkLinks(t, d)

	if d.BoundedFaces() != 2 {
		t.Fatalf("bounded faces = %d, want 2", d.BoundedFaces())
	}
	if !d.Faces[OuterFace].Outer {
		t.Error("face 0 should be the outer face")
	}
	var total float64
	for _, f := range d.Faces[1:] {
		total += f.Area
	}
	if math.Abs(total-11.25) > 1e-9 {
		t.Errorf("bounded area = %g, want 11.25", total)
	}
}

func TestSegmentFaces(t *testing.T) {
	d, err := Build(quadPoints, quadEdges)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	segs, err := d.Segments()
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}

	byEnds := make(map[[2]geom.Point]geom.Segment)
	for _, s := range segs {
		byEnds[[2]geom.Point{s.Origin, s.Destination}] = s
	}
	top := byEnds[[2]geom.Point{{X: 1, Y: 5}, {X: 3, Y: 5}}]
	diag := byEnds[[2]geom.Point{{X: 1, Y: 5}, {X: 4, Y: 0}}]
	left := byEnds[[2]geom.Point{{X: 1, Y: 5}, {X: 1.5, Y: 0}}]
	base := byEnds[[2]geom.Point{{X: 1.5, Y: 0}, {X: 4, Y: 0}}]

	if top.FaceAbove != OuterFace || top.FaceBelow == OuterFace {
		t.Errorf("top edge faces = %d/%d, want outer above", top.FaceAbove, top.FaceBelow)
	}
	if base.FaceBelow != OuterFace || base.FaceAbove == OuterFace {
		t.Errorf("base edge faces = %d/%d, want outer below", base.FaceAbove, base.FaceBelow)
	}
	if diag.FaceAbove != top.FaceBelow {
		t.Errorf("upper triangle: diagonal above %d, top below %d", diag.FaceAbove, top.FaceBelow)
	}
	if diag.FaceBelow != base.FaceAbove || diag.FaceBelow != left.FaceAbove {
		t.Errorf("lower triangle: diagonal below %d, base above %d, left above %d",
			diag.FaceBelow, base.FaceAbove, left.FaceAbove)
	}
	if left.FaceBelow != OuterFace {
		t.Errorf("left edge below = %d, want outer", left.FaceBelow)
	}
}

func TestOuterBoundaryMargin(t *testing.T) {
	d, err := Build(quadPoints, quadEdges)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ob := d.OuterBoundary()
	if ob.BottomLeft != (geom.Point{X: -1, Y: -2}) || ob.UpperRight != (geom.Point{X: 6, Y: 7}) {
		t.Errorf("frame = %v..%v, want (-1,-2)..(6,7)", ob.BottomLeft, ob.UpperRight)
	}
	if ob.Top.FaceBelow != OuterFace || ob.Bottom.FaceAbove != OuterFace {
		t.Error("outer face should lie inside the frame")
	}
}

func TestTreeHasOnlyOuterFace(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}, {X: 2, Y: 1}, {X: 4, Y: 0}, {X: 3, Y: 3}}
	d, err := Build(pts, [][2]int{{0, 1}, {1, 2}, {1, 3}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	checkLinks(t, d)
	if d.BoundedFaces() != 0 {
		t.Errorf("a tree bounds no face, got %d", d.BoundedFaces())
	}
}

func TestBuildErrors(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
	tests := []struct {
		name  string
		pts   []geom.Point
		edges [][2]int
		want  error
	}{
		{"empty", pts, nil, ErrEmpty},
		{"unknown vertex", pts, [][2]int{{0, 2}}, ErrUnknownVertex},
		{"loop", pts, [][2]int{{1, 1}}, ErrLoop},
		{"duplicate edge", pts, [][2]int{{0, 1}, {1, 0}}, ErrDuplicate},
		{"duplicate point", []geom.Point{{X: 0, Y: 0}, {X: 0, Y: 0}}, [][2]int{{0, 1}}, ErrDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.pts, tt.edges); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFromWKT(t *testing.T) {
	in := `
# quad with its diagonal
POLYGON((1 5,3 5,4 0,1.5 0,1 5))
LINESTRING(1 5,4 0)
`
	d, err := FromWKT(strings.NewReader(in))
	if err != nil {
		t.Fatalf("FromWKT: %v", err)
	}
	if len(d.Vertices) != 4 || len(d.HalfEdges) != 10 {
		t.Fatalf("got %d vertices and %d half-edges, want 4 and 10", len(d.Vertices), len(d.HalfEdges))
	}
	if d.BoundedFaces() != 2 {
		t.Errorf("bounded faces = %d, want 2", d.BoundedFaces())
	}
}

func TestFromWKTRejectsPoints(t *testing.T) {
	_, err := FromWKT(strings.NewReader("POINT(1 2)"))
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Errorf("err = %v, want unsupported geometry on line 1", err)
	}
}

func TestFromWKTMixedGeometries(t *testing.T) {
	in := "POLYGON((0 0,4 1,2 5,0 0))\nMULTILINESTRING((4 1,6 2),(6 2,7 -1,4 1))\n"
	d, err := FromWKT(strings.NewReader(in))
	if err != nil {
		t.Fatalf("FromWKT: %v", err)
	}
	checkLinks(t, d)
	if len(d.Vertices) != 5 || len(d.HalfEdges) != 12 {
		t.Fatalf("got %d vertices and %d half-edges, want 5 and 12", len(d.Vertices), len(d.HalfEdges))
	}
	if d.BoundedFaces() != 2 {
		t.Errorf("bounded faces = %d, want 2", d.BoundedFaces())
	}
}

func TestFromWKTMultiPolygon(t *testing.T) {
	in := "MULTIPOLYGON(((0 0,2 1,1 3,0 0)),((5 0,7 1,6 3,5 0)))"
	d, err := FromWKT(strings.NewReader(in))
	if err != nil {
		t.Fatalf("FromWKT: %v", err)
	}
	if d.BoundedFaces() != 2 || len(d.HalfEdges) != 12 {
		t.Errorf("got %d faces and %d half-edges, want 2 and 12", d.BoundedFaces(), len(d.HalfEdges))
	}
}
