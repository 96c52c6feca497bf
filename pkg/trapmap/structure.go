package trapmap

import (
	"fmt"
	"slices"

	"github.com/0x0FACED/go-trapmap/pkg/geom"
)

// Structure is a trapezoidal map of a set of non-crossing segments together
// with its search graph. Once built it may be queried from many goroutines.
type Structure struct {
	boundary geom.OuterBoundary
	box      geom.Box

	traps []Trapezoid
	nodes []node
	root  NodeID

	segments []geom.Segment
}

type Stats struct {
	Segments     int
	Trapezoids   int
	Nodes        int
	XNodes       int
	SegmentNodes int
	// Depth counts edges on the longest root to leaf path.
	Depth int
	// Allocated counts nodes and trapezoids ever created, replaced ones
	// included.
	Allocated      int
	AllocatedTraps int
}

func (s *Structure) Boundary() geom.OuterBoundary {
	return s.boundary
}

// Segments returns the inserted segments in insertion order, left to right
// oriented.
func (s *Structure) Segments() []geom.Segment {
	return slices.Clone(s.segments)
}

func (s *Structure) Root() NodeID {
	return s.root
}

func (s *Structure) Node(id NodeID) Node {
	n := s.nodes[id]
	return Node{
		ID:        id,
		Kind:      n.kind,
		Endpoint:  n.endpoint,
		Segment:   n.segment,
		Trapezoid: n.trap,
		Left:      n.left,
		Right:     n.right,
		Parents:   slices.Clone(n.parents),
	}
}

func (s *Structure) Trapezoid(id TrapezoidID) Trapezoid {
	return s.traps[id]
}

// Locate returns the trapezoid holding p. Points on a wall belong to the
// trapezoid on its right, points on a segment to the trapezoid below.
func (s *Structure) Locate(p geom.Point) (Trapezoid, error) {
	if !s.box.Contains(p) {
		return Trapezoid{}, fmt.Errorf("%w: %v", ErrOutsideBoundary, p)
	}
	return s.traps[s.nodes[s.query(p)].trap], nil
}

// Face returns the face of the subdivision holding p.
func (s *Structure) Face(p geom.Point) (geom.FaceID, error) {
	t, err := s.Locate(p)
	if err != nil {
		return geom.NoFace, err
	}
	return t.Face(), nil
}

// Walk visits every node reachable from the root once, parents before
// children and left before right, until fn returns false.
func (s *Structure) Walk(fn func(Node) bool) {
	visited := make([]bool, len(s.nodes))
	stack := []NodeID{s.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		if !fn(s.Node(id)) {
			return
		}
		if n := s.nodes[id]; n.kind != KindLeaf {
			stack = append(stack, n.right, n.left)
		}
	}
}

// Trapezoids lists the current trapezoids in search graph order.
func (s *Structure) Trapezoids() []Trapezoid {
	var out []Trapezoid
	s.Walk(func(n Node) bool {
		if n.Kind == KindLeaf {
			out = append(out, s.traps[n.Trapezoid])
		}
		return true
	})
	return out
}

func (s *Structure) Stats() Stats {
	st := Stats{
		Segments:       len(s.segments),
		Allocated:      len(s.nodes),
		AllocatedTraps: len(s.traps),
	}
	s.Walk(func(n Node) bool {
		st.Nodes++
		switch n.Kind {
		case KindXSplit:
			st.XNodes++
		case KindSegmentSplit:
			st.SegmentNodes++
		case KindLeaf:
			st.Trapezoids++
		}
		return true
	})
	st.Depth = s.depth()
	return st
}

// depth is the number of edges on the longest root to leaf path.
func (s *Structure) depth() int {
	const unknown = -1
	memo := make([]int, len(s.nodes))
	for i := range memo {
		memo[i] = unknown
	}

	stack := []NodeID{s.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		n := s.nodes[id]
		if n.kind == KindLeaf {
			memo[id] = 0
			stack = stack[:len(stack)-1]
			continue
		}
		l, r := memo[n.left], memo[n.right]
		if l != unknown && r != unknown {
			memo[id] = 1 + max(l, r)
			stack = stack[:len(stack)-1]
			continue
		}
		if l == unknown {
			stack = append(stack, n.left)
		}
		if r == unknown {
			stack = append(stack, n.right)
		}
	}
	return memo[s.root]
}

func (s *Structure) children(id NodeID) []NodeID {
	n := s.nodes[id]
	if n.kind == KindLeaf {
		return nil
	}
	return []NodeID{n.left, n.right}
}

// Validate checks the search graph and the trapezoid links: the graph is
// acyclic, parent lists match the edges, leaves and trapezoids pair up one to
// one, and neighbour links are symmetric between live trapezoids.
func (s *Structure) Validate() error {
	const (
		white = iota
		grey
		black
	)
	color := make([]uint8, len(s.nodes))

	type frame struct {
		id   NodeID
		next int
	}
	stack := []frame{{id: s.root}}
	color[s.root] = grey
	for len(stack) > 0 {
		top := len(stack) - 1
		children := s.children(stack[top].id)
		if stack[top].next < len(children) {
			c := children[stack[top].next]
			stack[top].next++
			if c == NoNode {
				return fmt.Errorf("node %d (%v) has an empty child slot", stack[top].id, s.nodes[stack[top].id].kind)
			}
			switch color[c] {
			case grey:
				return fmt.Errorf("cycle through node %d", c)
			case white:
				color[c] = grey
				stack = append(stack, frame{id: c})
			}
			continue
		}
		color[stack[top].id] = black
		stack = stack[:top]
	}

	incoming := make(map[NodeID][]NodeID)
	live := make(map[TrapezoidID]bool)
	for i, c := range color {
		if c != black {
			continue
		}
		id := NodeID(i)
		n := s.nodes[id]
		if n.kind == KindLeaf {
			if n.left != NoNode || n.right != NoNode {
				return fmt.Errorf("leaf %d has children", id)
			}
			if n.trap < 0 || int(n.trap) >= len(s.traps) {
				return fmt.Errorf("leaf %d references trapezoid %d", id, n.trap)
			}
			if live[n.trap] {
				return fmt.Errorf("trapezoid %d reached through two leaves", n.trap)
			}
			if s.traps[n.trap].leaf != id {
				return fmt.Errorf("trapezoid %d pairs with leaf %d, reached through %d", n.trap, s.traps[n.trap].leaf, id)
			}
			live[n.trap] = true
			continue
		}
		for _, c := range s.children(id) {
			incoming[c] = append(incoming[c], id)
		}
	}

	for i, c := range color {
		if c != black {
			continue
		}
		id := NodeID(i)
		got := slices.Clone(s.nodes[id].parents)
		want := incoming[id]
		slices.Sort(got)
		slices.Sort(want)
		if !slices.Equal(got, want) {
			return fmt.Errorf("node %d lists parents %v, referenced by %v", id, got, want)
		}
	}

	for id := range live {
		t := s.traps[id]
		if t.LeftP.X >= t.RightP.X {
			return fmt.Errorf("trapezoid %d has no width: %v", id, t)
		}
		mid := (t.LeftP.X + t.RightP.X) / 2
		top, okTop := t.Top.YAt(mid)
		bottom, okBottom := t.Bottom.YAt(mid)
		if !okTop || !okBottom {
			return fmt.Errorf("trapezoid %d is not spanned by its top and bottom: %v", id, t)
		}
		if top <= bottom {
			return fmt.Errorf("trapezoid %d has no height: %v", id, t)
		}
		links := []struct {
			name     string
			other    TrapezoidID
			right    bool
			upper    bool
			backlink func(Trapezoid) TrapezoidID
		}{
			{"upper left", t.UpperLeft, false, true, func(o Trapezoid) TrapezoidID { return o.UpperRight }},
			{"upper right", t.UpperRight, true, true, func(o Trapezoid) TrapezoidID { return o.UpperLeft }},
			{"lower left", t.LowerLeft, false, false, func(o Trapezoid) TrapezoidID { return o.LowerRight }},
			{"lower right", t.LowerRight, true, false, func(o Trapezoid) TrapezoidID { return o.LowerLeft }},
		}
		for _, l := range links {
			if l.other == NoTrapezoid {
				continue
			}
			if !live[l.other] {
				return fmt.Errorf("trapezoid %d: %s neighbour %d is not in the map", id, l.name, l.other)
			}
			o := s.traps[l.other]
			if back := l.backlink(o); back != id {
				return fmt.Errorf("trapezoid %d: %s neighbour %d links back to %d", id, l.name, l.other, back)
			}
			if l.upper && !o.Top.SameEndpoints(t.Top) || !l.upper && !o.Bottom.SameEndpoints(t.Bottom) {
				return fmt.Errorf("trapezoid %d: %s neighbour %d does not share its boundary segment", id, l.name, l.other)
			}
			if l.right && o.LeftP.X != t.RightP.X || !l.right && o.RightP.X != t.LeftP.X {
				return fmt.Errorf("trapezoid %d: %s neighbour %d is not across its wall", id, l.name, l.other)
			}
		}
	}
	return nil
}
