package graph

import (
	"errors"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
)

// Validate checks the scene's referential integrity and returns every
// violation found, joined. A scene built only through Scene methods always
// validates; Validate exists to catch bugs in callers that mutate entities
// directly and to vet loaded documents in tests and the CLI.
//
// Checked invariants:
//   - every socket belongs to an existing node that lists it
//   - every edge endpoint exists and lists the edge
//   - every edge listed on a socket exists and has the socket as endpoint
//   - single-edge sockets hold at most one edge
//   - socket indices are unique per node, anchor and direction
func (s *Scene) Validate() error {
	var problems []error
	fail := func(format string, args ...any) {
		problems = append(problems, errs.New(errs.ErrCodeStructural, format, args...))
	}

	type slot struct {
		node  ID
		pos   Position
		input bool
		index int
	}
	slots := make(map[slot]bool)
	for _, id := range s.nodeOrder {
		n := s.nodes[id]
		for _, sid := range n.Sockets() {
			sock, ok := s.sockets[sid]
			if !ok {
				fail("node %d: socket %d missing", id, sid)
				continue
			}
			if sock.Node != id {
				fail("socket %d: owner %d, listed under node %d", sid, sock.Node, id)
			}
			k := slot{id, sock.Position, sock.IsInput, sock.Index}
			if slots[k] {
				fail("node %d: socket index %d used twice at %s", id, sock.Index, sock.Position)
			}
			slots[k] = true
		}
	}

	for sid, sock := range s.sockets {
		n, ok := s.nodes[sock.Node]
		if !ok || !n.HasSocket(sid) {
			fail("socket %d: not owned by node %d", sid, sock.Node)
		}
		if !sock.MultiEdges && len(sock.edges) > 1 {
			fail("socket %d: single-edge socket holds %d edges", sid, len(sock.edges))
		}
		for _, eid := range sock.edges {
			e, ok := s.edges[eid]
			if !ok {
				fail("socket %d: lists missing edge %d", sid, eid)
				continue
			}
			if !e.HasEndpoint(sid) {
				fail("socket %d: lists edge %d which does not end here", sid, eid)
			}
		}
	}

	for _, id := range s.edgeOrder {
		e := s.edges[id]
		for _, sid := range e.Sockets() {
			sock, ok := s.sockets[sid]
			if !ok {
				fail("edge %d: unknown socket %d", id, sid)
				continue
			}
			if !sock.IsConnected(id) {
				fail("edge %d: not registered on socket %d", id, sid)
			}
		}
	}

	return errors.Join(problems...)
}
