package trapmap

import (
	"fmt"

	"github.com/0x0FACED/go-trapmap/pkg/geom"
)

// TrapezoidID indexes the trapezoid arena of a Structure.
type TrapezoidID int32

const NoTrapezoid TrapezoidID = -1

// Trapezoid is a cell of the vertical decomposition: the region between Top
// and Bottom for LeftP.X <= x <= RightP.X.
//
// UpperLeft and UpperRight share Top with the trapezoid, LowerLeft and
// LowerRight share Bottom. Linking is symmetric: a.UpperRight == b implies
// b.UpperLeft == a, and the same for the lower pair.
type Trapezoid struct {
	ID     TrapezoidID
	LeftP  geom.Point
	RightP geom.Point
	Top    geom.Segment
	Bottom geom.Segment

	UpperLeft  TrapezoidID
	UpperRight TrapezoidID
	LowerLeft  TrapezoidID
	LowerRight TrapezoidID

	leaf NodeID
}

// Face is the face of the subdivision the trapezoid lies in.
func (t Trapezoid) Face() geom.FaceID {
	return t.Bottom.FaceAbove
}

func (t Trapezoid) heights(x float64) (bottom, top float64) {
	b, ok := t.Bottom.YAt(x)
	if !ok {
		panic(fmt.Sprintf("trapezoid %d: bottom %v does not span x=%g", t.ID, t.Bottom, x))
	}
	tp, ok := t.Top.YAt(x)
	if !ok {
		panic(fmt.Sprintf("trapezoid %d: top %v does not span x=%g", t.ID, t.Top, x))
	}
	return b, tp
}

// Contains reports whether p lies in the closed trapezoid.
func (t Trapezoid) Contains(p geom.Point) bool {
	if p.X < t.LeftP.X || p.X > t.RightP.X {
		return false
	}
	bottom, top := t.heights(p.X)
	return bottom <= p.Y && p.Y <= top
}

// Corners lists the vertices counter-clockwise from the lower left one.
// Triangles repeat a corner.
func (t Trapezoid) Corners() [4]geom.Point {
	lb, lt := t.heights(t.LeftP.X)
	rb, rt := t.heights(t.RightP.X)
	return [4]geom.Point{
		{X: t.LeftP.X, Y: lb},
		{X: t.RightP.X, Y: rb},
		{X: t.RightP.X, Y: rt},
		{X: t.LeftP.X, Y: lt},
	}
}

func (t Trapezoid) Area() float64 {
	c := t.Corners()
	left := c[3].Y - c[0].Y
	right := c[2].Y - c[1].Y
	return (left + right) / 2 * (t.RightP.X - t.LeftP.X)
}

func (t Trapezoid) String() string {
	return fmt.Sprintf("T%d{%v..%v top=%v bottom=%v}", t.ID, t.LeftP, t.RightP, t.Top, t.Bottom)
}

// newTrapezoid allocates a trapezoid together with its leaf. No neighbours
// are set.
func (s *Structure) newTrapezoid(leftp, rightp geom.Point, top, bottom geom.Segment) TrapezoidID {
	id := TrapezoidID(len(s.traps))
	s.traps = append(s.traps, Trapezoid{
		ID:         id,
		LeftP:      leftp,
		RightP:     rightp,
		Top:        top,
		Bottom:     bottom,
		UpperLeft:  NoTrapezoid,
		UpperRight: NoTrapezoid,
		LowerLeft:  NoTrapezoid,
		LowerRight: NoTrapezoid,
	})
	s.traps[id].leaf = s.newNode(node{kind: KindLeaf, trap: id, left: NoNode, right: NoNode})
	return id
}

// linkUpperRight makes b the upper right neighbour of a. The trapezoid a
// pointed at before loses its back link.
func (s *Structure) linkUpperRight(a, b TrapezoidID) {
	if old := s.traps[a].UpperRight; old != NoTrapezoid && old != b && s.traps[old].UpperLeft == a {
		s.traps[old].UpperLeft = NoTrapezoid
	}
	s.traps[a].UpperRight = b
	if b != NoTrapezoid {
		s.traps[b].UpperLeft = a
	}
}

func (s *Structure) linkLowerRight(a, b TrapezoidID) {
	if old := s.traps[a].LowerRight; old != NoTrapezoid && old != b && s.traps[old].LowerLeft == a {
		s.traps[old].LowerLeft = NoTrapezoid
	}
	s.traps[a].LowerRight = b
	if b != NoTrapezoid {
		s.traps[b].LowerLeft = a
	}
}

// inheritLeft hands the left neighbours of a replaced trapezoid to the new
// trapezoids taking its top and bottom.
func (s *Structure) inheritLeft(old Trapezoid, upper, lower TrapezoidID) {
	if old.UpperLeft != NoTrapezoid {
		s.linkUpperRight(old.UpperLeft, upper)
	}
	if old.LowerLeft != NoTrapezoid {
		s.linkLowerRight(old.LowerLeft, lower)
	}
}

func (s *Structure) inheritRight(old Trapezoid, upper, lower TrapezoidID) {
	s.linkUpperRight(upper, old.UpperRight)
	s.linkLowerRight(lower, old.LowerRight)
}
