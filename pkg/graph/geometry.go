package graph

import (
	errs "github.com/matzehuels/nodeweave/pkg/errors"
)

// NodeHeight returns the height of a node under the scene's metrics.
func (s *Scene) NodeHeight(n *Node) float64 { return s.metrics.NodeHeight(n) }

// SocketPos returns the position of a socket in scene coordinates.
func (s *Scene) SocketPos(socket ID) (Point, error) {
	sock, ok := s.sockets[socket]
	if !ok {
		return Point{}, errs.New(errs.ErrCodeNotFound, "socket %d not found", socket)
	}
	n, ok := s.nodes[sock.Node]
	if !ok {
		return Point{}, errs.New(errs.ErrCodeStructural, "socket %d: owning node %d missing", socket, sock.Node)
	}

	group := n.Outputs
	if sock.IsInput {
		group = n.Inputs
	}
	count := 0
	for _, sid := range group {
		if other, ok := s.sockets[sid]; ok && other.Position == sock.Position {
			count++
		}
	}

	off := s.metrics.SocketOffset(sock.Index, sock.Position, count, s.metrics.NodeHeight(n))
	return n.Pos.Add(off), nil
}

// SocketAt returns the topmost socket whose hit circle contains p.
// Later nodes are drawn above earlier ones.
func (s *Scene) SocketAt(p Point) (ID, bool) {
	r2 := s.metrics.SocketRadius * s.metrics.SocketRadius
	for i := len(s.nodeOrder) - 1; i >= 0; i-- {
		n := s.nodes[s.nodeOrder[i]]
		for _, sid := range n.Sockets() {
			pos, err := s.SocketPos(sid)
			if err != nil {
				continue
			}
			if pos.DistSq(p) <= r2 {
				return sid, true
			}
		}
	}
	return NoID, false
}

// NodeAt returns the topmost node whose body contains p.
func (s *Scene) NodeAt(p Point) (ID, bool) {
	for i := len(s.nodeOrder) - 1; i >= 0; i-- {
		n := s.nodes[s.nodeOrder[i]]
		h := s.metrics.NodeHeight(n)
		if p.X >= n.Pos.X && p.X <= n.Pos.X+s.metrics.Width &&
			p.Y >= n.Pos.Y && p.Y <= n.Pos.Y+h {
			return n.ID, true
		}
	}
	return NoID, false
}

// Bounds returns the bounding box of all nodes, or zero points for an
// empty scene.
func (s *Scene) Bounds() (minPt, maxPt Point) {
	first := true
	for _, id := range s.nodeOrder {
		n := s.nodes[id]
		lo := n.Pos
		hi := n.Pos.Add(Point{X: s.metrics.Width, Y: s.metrics.NodeHeight(n)})
		if first {
			minPt, maxPt, first = lo, hi, false
			continue
		}
		minPt = Point{X: min(minPt.X, lo.X), Y: min(minPt.Y, lo.Y)}
		maxPt = Point{X: max(maxPt.X, hi.X), Y: max(maxPt.Y, hi.Y)}
	}
	return minPt, maxPt
}
