package trapmap

import (
	"fmt"

	"github.com/0x0FACED/go-trapmap/pkg/geom"
)

// followSegment lists the trapezoids seg crosses, left to right. It fails
// with ErrCrossing when seg passes through an inserted vertex or leaves a
// trapezoid through its top or bottom. Nothing is modified.
func (s *Structure) followSegment(seg geom.Segment) ([]TrapezoidID, error) {
	p, q := seg.Origin, seg.Destination

	leaf, err := s.queryForAddingSegment(seg)
	if err != nil {
		return nil, err
	}
	d := s.nodes[leaf].trap
	if !passes(s.traps[d], seg, p.X, false) {
		return nil, fmt.Errorf("%w: %v starts outside trapezoid %d", ErrCrossing, seg, d)
	}

	crossed := []TrapezoidID{d}
	for q.X > s.traps[d].RightP.X {
		t := s.traps[d]
		r := t.RightP
		if seg.PointLiesOn(r) {
			return nil, fmt.Errorf("%w: %v passes through vertex %v", ErrCrossing, seg, r)
		}
		if !passes(t, seg, r.X, true) {
			return nil, fmt.Errorf("%w: %v leaves trapezoid %d before x=%g", ErrCrossing, seg, d, r.X)
		}

		next := t.UpperRight
		if seg.PointLiesAbove(r) {
			next = t.LowerRight
		}
		if next == NoTrapezoid {
			return nil, fmt.Errorf("%w: %v has no trapezoid right of %v", ErrCrossing, seg, r)
		}
		if !passes(s.traps[next], seg, r.X, true) {
			return nil, fmt.Errorf("%w: %v misses trapezoid %d at x=%g", ErrCrossing, seg, next, r.X)
		}
		d = next
		crossed = append(crossed, d)
	}

	if !passes(s.traps[d], seg, q.X, false) {
		return nil, fmt.Errorf("%w: %v ends outside trapezoid %d", ErrCrossing, seg, d)
	}
	return crossed, nil
}

// passes reports whether seg at x lies between the bottom and top of t.
func passes(t Trapezoid, seg geom.Segment, x float64, strict bool) bool {
	y := seg.LineY(x)
	bottom, top := t.heights(x)
	if strict {
		return bottom < y && y < top
	}
	return bottom <= y && y <= top
}

// splitSingle handles a segment lying inside one trapezoid. The trapezoid is
// cut into A (left of p), C (above seg), D (below seg) and B (right of q); A
// and B are skipped when p or q already sit on its walls.
func (s *Structure) splitSingle(d TrapezoidID, seg geom.Segment) string {
	old := s.traps[d]
	p, q := seg.Origin, seg.Destination

	c := s.newTrapezoid(p, q, old.Top, seg)
	dd := s.newTrapezoid(p, q, seg, old.Bottom)
	shape := "C,D"

	sub := s.newSegmentNode(seg, c, dd)

	if old.RightP != q {
		b := s.newTrapezoid(q, old.RightP, old.Top, old.Bottom)
		s.linkUpperRight(c, b)
		s.linkLowerRight(dd, b)
		s.inheritRight(old, b, b)
		sub = s.newXNode(q, sub, s.traps[b].leaf)
		shape += ",B"
	} else {
		s.inheritRight(old, c, dd)
	}

	if old.LeftP != p {
		a := s.newTrapezoid(old.LeftP, p, old.Top, old.Bottom)
		s.inheritLeft(old, a, a)
		s.linkUpperRight(a, c)
		s.linkLowerRight(a, dd)
		sub = s.newXNode(p, s.traps[a].leaf, sub)
		shape = "A," + shape
	} else {
		s.inheritLeft(old, c, dd)
	}

	s.replaceSubtree(old.leaf, sub)
	return shape
}

// splitMany handles a segment crossing several trapezoids. The parts above
// seg merge across walls whose point lies below seg and the parts below merge
// across walls above it, giving an upper and a lower chain.
func (s *Structure) splitMany(crossed []TrapezoidID, seg geom.Segment) string {
	n := len(crossed)
	p, q := seg.Origin, seg.Destination

	olds := make([]Trapezoid, n)
	for i, d := range crossed {
		olds[i] = s.traps[d]
	}

	above := make([]TrapezoidID, n)
	below := make([]TrapezoidID, n)
	var uppers, lowers []TrapezoidID
	upperLeft, lowerLeft := p, p

	closeUpper := func(start, end int, right geom.Point) {
		u := s.newTrapezoid(upperLeft, right, olds[end].Top, seg)
		for j := start; j <= end; j++ {
			above[j] = u
		}
		if k := len(uppers); k > 0 {
			s.linkLowerRight(uppers[k-1], u)
			if ul := olds[start].UpperLeft; ul != NoTrapezoid {
				s.linkUpperRight(ul, u)
			}
		}
		if end < n-1 {
			s.linkUpperRight(u, olds[end].UpperRight)
		}
		uppers = append(uppers, u)
		upperLeft = right
	}
	closeLower := func(start, end int, right geom.Point) {
		l := s.newTrapezoid(lowerLeft, right, seg, olds[end].Bottom)
		for j := start; j <= end; j++ {
			below[j] = l
		}
		if k := len(lowers); k > 0 {
			s.linkUpperRight(lowers[k-1], l)
			if ll := olds[start].LowerLeft; ll != NoTrapezoid {
				s.linkLowerRight(ll, l)
			}
		}
		if end < n-1 {
			s.linkLowerRight(l, olds[end].LowerRight)
		}
		lowers = append(lowers, l)
		lowerLeft = right
	}

	upperStart, lowerStart := 0, 0
	for i := 0; i < n-1; i++ {
		r := olds[i].RightP
		if seg.PointLiesAbove(r) {
			closeUpper(upperStart, i, r)
			upperStart = i + 1
		} else {
			closeLower(lowerStart, i, r)
			lowerStart = i + 1
		}
	}
	closeUpper(upperStart, n-1, q)
	closeLower(lowerStart, n-1, q)

	shape := fmt.Sprintf("chains %d/%d", len(uppers), len(lowers))
	for i := range crossed {
		old := olds[i]
		sub := s.newSegmentNode(seg, above[i], below[i])

		switch {
		case i == 0 && old.LeftP != p:
			a := s.newTrapezoid(old.LeftP, p, old.Top, old.Bottom)
			s.inheritLeft(old, a, a)
			s.linkUpperRight(a, above[0])
			s.linkLowerRight(a, below[0])
			sub = s.newXNode(p, s.traps[a].leaf, sub)
			shape = "A," + shape
		case i == 0:
			s.inheritLeft(old, above[0], below[0])
		case i == n-1 && old.RightP != q:
			b := s.newTrapezoid(q, old.RightP, old.Top, old.Bottom)
			s.linkUpperRight(above[i], b)
			s.linkLowerRight(below[i], b)
			s.inheritRight(old, b, b)
			sub = s.newXNode(q, sub, s.traps[b].leaf)
			shape += ",B"
		case i == n-1:
			s.inheritRight(old, above[i], below[i])
		}

		s.replaceSubtree(old.leaf, sub)
	}
	return shape
}
