package geom

import (
	"errors"
	"fmt"
)

var ErrVerticalSegment = errors.New("segment is vertical or has zero length")

type Point struct {
	X float64
	Y float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// FaceID references a face of the planar subdivision the segments bound.
type FaceID int

const NoFace FaceID = -1

// Segment is stored left to right: Origin.X < Destination.X.
type Segment struct {
	Origin      Point
	Destination Point
	FaceAbove   FaceID
	FaceBelow   FaceID
}

func NewSegment(a, b Point) (Segment, error) {
	if a.X == b.X {
		return Segment{}, fmt.Errorf("%w: %v-%v", ErrVerticalSegment, a, b)
	}
	if b.X < a.X {
		a, b = b, a
	}
	return Segment{Origin: a, Destination: b, FaceAbove: NoFace, FaceBelow: NoFace}, nil
}

// MustSegment is NewSegment for literals known to be valid.
func MustSegment(a, b Point) Segment {
	s, err := NewSegment(a, b)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Segment) WithFaces(above, below FaceID) Segment {
	s.FaceAbove = above
	s.FaceBelow = below
	return s
}

func (s Segment) Slope() float64 {
	return (s.Destination.Y - s.Origin.Y) / (s.Destination.X - s.Origin.X)
}

// LineY evaluates the supporting line. Endpoint x values return the stored
// endpoint y so shared vertices compare equal without rounding.
func (s Segment) LineY(x float64) float64 {
	switch x {
	case s.Origin.X:
		return s.Origin.Y
	case s.Destination.X:
		return s.Destination.Y
	}
	return s.Slope()*(x-s.Origin.X) + s.Origin.Y
}

// YAt returns the height of the segment at x, false outside its x-range.
func (s Segment) YAt(x float64) (float64, bool) {
	if x < s.Origin.X || x > s.Destination.X {
		return 0, false
	}
	return s.LineY(x), true
}

// PointLiesAbove reports whether p is strictly above the segment's line at p.X.
func (s Segment) PointLiesAbove(p Point) bool {
	return p.Y > s.LineY(p.X)
}

func (s Segment) PointLiesOn(p Point) bool {
	y, ok := s.YAt(p.X)
	return ok && y == p.Y
}

// SameEndpoints compares geometry only, ignoring face references.
func (s Segment) SameEndpoints(o Segment) bool {
	return s.Origin == o.Origin && s.Destination == o.Destination
}

func (s Segment) String() string {
	return fmt.Sprintf("[%v-%v]", s.Origin, s.Destination)
}

// Orientation is twice the signed area of the triangle abc: positive when c
// lies left of the directed line ab, negative when right, zero if collinear.
func Orientation(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// SignedArea is the shoelace area of a closed ring, positive for
// counter-clockwise rings.
func SignedArea(ring []Point) float64 {
	var sum float64
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}
