package trapmap

import (
	"fmt"

	"github.com/0x0FACED/go-trapmap/pkg/geom"
)

// NodeID indexes the search graph arena of a Structure.
type NodeID int32

const NoNode NodeID = -1

type NodeKind uint8

const (
	// KindXSplit sends points left of its endpoint to Left, the rest to Right.
	KindXSplit NodeKind = iota + 1
	// KindSegmentSplit sends points strictly above its segment to Left.
	KindSegmentSplit
	KindLeaf
)

func (k NodeKind) String() string {
	switch k {
	case KindXSplit:
		return "x-split"
	case KindSegmentSplit:
		return "segment-split"
	case KindLeaf:
		return "leaf"
	}
	return fmt.Sprintf("NodeKind(%d)", uint8(k))
}

type node struct {
	kind     NodeKind
	endpoint geom.Point
	segment  geom.Segment
	trap     TrapezoidID

	left    NodeID
	right   NodeID
	parents []NodeID
}

// Node is a read-only view of a search graph node.
type Node struct {
	ID        NodeID
	Kind      NodeKind
	Endpoint  geom.Point   // KindXSplit
	Segment   geom.Segment // KindSegmentSplit
	Trapezoid TrapezoidID  // KindLeaf
	Left      NodeID
	Right     NodeID
	Parents   []NodeID
}

func (s *Structure) newNode(n node) NodeID {
	id := NodeID(len(s.nodes))
	s.nodes = append(s.nodes, n)
	return id
}

func (s *Structure) newXNode(e geom.Point, left, right NodeID) NodeID {
	id := s.newNode(node{kind: KindXSplit, endpoint: e, trap: NoTrapezoid, left: NoNode, right: NoNode})
	s.setLeftChild(id, left)
	s.setRightChild(id, right)
	return id
}

// newSegmentNode splits on seg with the leaves of above and below as children.
func (s *Structure) newSegmentNode(seg geom.Segment, above, below TrapezoidID) NodeID {
	id := s.newNode(node{kind: KindSegmentSplit, segment: seg, trap: NoTrapezoid, left: NoNode, right: NoNode})
	s.setLeftChild(id, s.traps[above].leaf)
	s.setRightChild(id, s.traps[below].leaf)
	return id
}

func (s *Structure) setLeftChild(n, child NodeID) {
	if old := s.nodes[n].left; old != NoNode {
		s.removeParent(old, n)
	}
	s.nodes[n].left = child
	if child != NoNode {
		s.nodes[child].parents = append(s.nodes[child].parents, n)
	}
}

func (s *Structure) setRightChild(n, child NodeID) {
	if old := s.nodes[n].right; old != NoNode {
		s.removeParent(old, n)
	}
	s.nodes[n].right = child
	if child != NoNode {
		s.nodes[child].parents = append(s.nodes[child].parents, n)
	}
}

// removeParent drops one parent entry. A node listed in both slots of the
// same parent keeps the other entry.
func (s *Structure) removeParent(child, parent NodeID) {
	ps := s.nodes[child].parents
	for i, p := range ps {
		if p == parent {
			s.nodes[child].parents = append(ps[:i:i], ps[i+1:]...)
			return
		}
	}
	panic(fmt.Sprintf("node %d is not a parent of node %d", parent, child))
}

// replaceSubtree puts repl everywhere old is referenced and detaches old.
func (s *Structure) replaceSubtree(old, repl NodeID) {
	if old == s.root {
		if len(s.nodes[old].parents) != 0 {
			panic(fmt.Sprintf("root node %d has parents %v", old, s.nodes[old].parents))
		}
		s.root = repl
		return
	}

	parents := append([]NodeID(nil), s.nodes[old].parents...)
	for _, p := range parents {
		switch {
		case s.nodes[p].left == old:
			s.setLeftChild(p, repl)
		case s.nodes[p].right == old:
			s.setRightChild(p, repl)
		default:
			panic(fmt.Sprintf("node %d lists parent %d that does not reference it", old, p))
		}
	}
	s.nodes[old].parents = nil
}

// query walks from the root to the leaf whose trapezoid holds p. A point on a
// vertical wall belongs to the trapezoid on its right, a point on a segment to
// the trapezoid below it.
func (s *Structure) query(p geom.Point) NodeID {
	id := s.root
	for {
		n := &s.nodes[id]
		switch n.kind {
		case KindXSplit:
			if p.X < n.endpoint.X {
				id = n.left
			} else {
				id = n.right
			}
		case KindSegmentSplit:
			if n.segment.PointLiesAbove(p) {
				id = n.left
			} else {
				id = n.right
			}
		case KindLeaf:
			return id
		default:
			panic(fmt.Sprintf("node %d has unknown kind %v", id, n.kind))
		}
	}
}

// queryForAddingSegment finds the trapezoid seg enters just right of its
// origin. An origin lying on a split segment is resolved by slope; equal
// slopes mean seg runs along that segment and fail with ErrCrossing.
func (s *Structure) queryForAddingSegment(seg geom.Segment) (NodeID, error) {
	origin := seg.Origin
	id := s.root
	for {
		n := &s.nodes[id]
		switch n.kind {
		case KindXSplit:
			if origin.X < n.endpoint.X {
				id = n.left
			} else {
				id = n.right
			}
		case KindSegmentSplit:
			y := n.segment.LineY(origin.X)
			switch {
			case origin.Y > y:
				id = n.left
			case origin.Y < y:
				id = n.right
			case seg.Slope() > n.segment.Slope():
				id = n.left
			case seg.Slope() == n.segment.Slope() && origin.X < n.segment.Destination.X:
				return NoNode, fmt.Errorf("%w: %v overlaps %v", ErrCrossing, seg, n.segment)
			default:
				id = n.right
			}
		case KindLeaf:
			return id, nil
		default:
			panic(fmt.Sprintf("node %d has unknown kind %v", id, n.kind))
		}
	}
}
