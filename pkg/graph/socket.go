package graph

import (
	"fmt"
	"slices"
)

// Socket is a typed connection point on a node.
//
// A socket is owned by exactly one node; Node is a handle used for
// navigation only. The connected edge list keeps connection order. When
// MultiEdges is false the list never holds more than one edge: connecting a
// new edge evicts the old one (see [Scene.AddEdge]).
//
// Sockets are mutated through their [Scene]; the unexported edge list is
// only ever changed together with the edge's endpoints.
type Socket struct {
	ID         ID
	Node       ID         // owning node (non-owning handle)
	Index      int        // position among sockets of the same side and anchor
	Position   Position   // anchor on the node
	Type       SocketType // value kind, drives renderer styling
	IsInput    bool       // input socket; IsOutput is the negation
	MultiEdges bool       // may hold more than one edge

	edges []ID
}

// IsOutput reports whether the socket is an output.
func (s *Socket) IsOutput() bool { return !s.IsInput }

// Edges returns the connected edges in connection order.
// The returned slice is a copy.
func (s *Socket) Edges() []ID { return slices.Clone(s.edges) }

// EdgeCount returns the number of connected edges.
func (s *Socket) EdgeCount() int { return len(s.edges) }

// HasAnyEdge reports whether at least one edge is connected.
func (s *Socket) HasAnyEdge() bool { return len(s.edges) > 0 }

// IsConnected reports whether the edge is registered on this socket.
func (s *Socket) IsConnected(edge ID) bool { return slices.Contains(s.edges, edge) }

func (s *Socket) String() string {
	mode := "SE"
	if s.MultiEdges {
		mode = "ME"
	}
	return fmt.Sprintf("<Socket #%d %s id=%d node=%d>", s.Index, mode, s.ID, s.Node)
}

func (s *Socket) addEdge(edge ID) {
	s.edges = append(s.edges, edge)
}

func (s *Socket) removeEdge(edge ID) bool {
	i := slices.Index(s.edges, edge)
	if i < 0 {
		return false
	}
	s.edges = slices.Delete(s.edges, i, i+1)
	return true
}

func (s *Socket) popFront() (ID, bool) {
	if len(s.edges) == 0 {
		return NoID, false
	}
	id := s.edges[0]
	s.edges = slices.Delete(s.edges, 0, 1)
	return id, true
}

// MultiEdgesFor infers whether a socket accepts multiple edges when a
// document predates the "multi_edges" field: sockets anchored right-top or
// right-bottom were multi-edge, everything else was single-edge.
func MultiEdgesFor(p Position) bool {
	return p == RightTop || p == RightBottom
}
