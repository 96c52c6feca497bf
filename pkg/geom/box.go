package geom

import (
	"github.com/golang/geo/r2"
)

// Box is an axis-aligned bounding box, closed on all sides.
type Box struct {
	rect r2.Rect
}

func NewBox(minX, minY, maxX, maxY float64) Box {
	return BoxFromPoints(Point{minX, minY}, Point{maxX, maxY})
}

func BoxFromPoints(pts ...Point) Box {
	rect := r2.EmptyRect()
	for _, p := range pts {
		rect = rect.AddPoint(r2.Point{X: p.X, Y: p.Y})
	}
	return Box{rect: rect}
}

// Padded grows the box by margin on every side.
func (b Box) Padded(margin float64) Box {
	return Box{rect: b.rect.ExpandedByMargin(margin)}
}

func (b Box) Contains(p Point) bool {
	return b.rect.ContainsPoint(r2.Point{X: p.X, Y: p.Y})
}

func (b Box) InteriorContains(p Point) bool {
	return b.rect.InteriorContainsPoint(r2.Point{X: p.X, Y: p.Y})
}

func (b Box) Min() Point { return Point{b.rect.X.Lo, b.rect.Y.Lo} }
func (b Box) Max() Point { return Point{b.rect.X.Hi, b.rect.Y.Hi} }

func (b Box) Width() float64  { return b.rect.X.Length() }
func (b Box) Height() float64 { return b.rect.Y.Length() }
func (b Box) Area() float64   { return b.Width() * b.Height() }

// OuterBoundary is the axis-aligned frame seeding the decomposition. Top and
// Bottom carry the enclosed face on their inner side; Left and Right are
// vertical and never inserted.
type OuterBoundary struct {
	BottomLeft  Point
	UpperLeft   Point
	UpperRight  Point
	BottomRight Point

	Top    Segment
	Bottom Segment
	Left   Segment
	Right  Segment
}

// Boundary builds the frame of b with face lying inside it.
func (b Box) Boundary(face FaceID) OuterBoundary {
	lo, hi := b.Min(), b.Max()
	ob := OuterBoundary{
		BottomLeft:  lo,
		UpperLeft:   Point{lo.X, hi.Y},
		UpperRight:  hi,
		BottomRight: Point{hi.X, lo.Y},
	}
	ob.Top = Segment{Origin: ob.UpperLeft, Destination: ob.UpperRight, FaceAbove: NoFace, FaceBelow: face}
	ob.Bottom = Segment{Origin: ob.BottomLeft, Destination: ob.BottomRight, FaceAbove: face, FaceBelow: NoFace}
	ob.Left = Segment{Origin: ob.BottomLeft, Destination: ob.UpperLeft, FaceAbove: NoFace, FaceBelow: NoFace}
	ob.Right = Segment{Origin: ob.BottomRight, Destination: ob.UpperRight, FaceAbove: NoFace, FaceBelow: NoFace}
	return ob
}

func (ob OuterBoundary) Box() Box {
	return BoxFromPoints(ob.BottomLeft, ob.UpperRight)
}

// Segments lists the frame counter-clockwise starting at the bottom.
func (ob OuterBoundary) Segments() []Segment {
	return []Segment{ob.Bottom, ob.Right, ob.Top, ob.Left}
}
