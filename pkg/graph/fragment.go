package graph

import (
	errs "github.com/matzehuels/nodeweave/pkg/errors"
)

// FragmentNode is a node together with the sockets it owns.
// Node.Inputs and Node.Outputs list the IDs of Sockets in index order.
type FragmentNode struct {
	Node    *Node
	Sockets []*Socket
}

// Fragment is a detached set of nodes, sockets and edges with IDs already
// assigned, typically produced by deserialization. A fragment is applied to
// a scene as a whole with [Scene.Insert] or [Scene.Replace]; the scene takes
// ownership of its entities.
type Fragment struct {
	Nodes []FragmentNode
	Edges []*Edge
}

// NodeIDs returns the IDs of the fragment's nodes in order.
func (f *Fragment) NodeIDs() []ID {
	out := make([]ID, 0, len(f.Nodes))
	for _, fn := range f.Nodes {
		out = append(out, fn.Node.ID)
	}
	return out
}

// Insert adds the fragment's entities to the scene. Edges may reference
// sockets already in the scene; single-edge sockets among those evict their
// current edge as with [Scene.AddEdge]. When several fragment edges meet at
// one single-edge socket, the last one in fragment order is kept.
//
// The fragment is checked completely before anything is added. On error
// the scene is unchanged:
//   - DUPLICATE_ID: an ID repeats within the fragment or is taken in the scene
//   - RESOLUTION_ERROR: an edge endpoint or node type cannot be resolved
//   - STRUCTURAL_VIOLATION: sockets and nodes disagree about ownership
func (s *Scene) Insert(f *Fragment) error {
	if err := s.checkFragment(f, false); err != nil {
		return err
	}
	s.dropOverloaded(f, false)
	s.commit(f)
	return nil
}

// Replace swaps the scene's entire content for the fragment. The fragment
// is checked as if the scene were empty; on error the scene is unchanged.
// The modified flag and the scene's ID counter survive the swap.
func (s *Scene) Replace(f *Fragment) error {
	if err := s.checkFragment(f, true); err != nil {
		return err
	}
	s.dropOverloaded(f, true)
	modified := s.modified
	s.Clear()
	s.bulk++
	s.commit(f)
	s.changed(SceneReplaced, NoID)
	s.bulk--
	s.modified = modified
	return nil
}

func (s *Scene) checkFragment(f *Fragment, replacing bool) error {
	if f == nil {
		return errs.New(errs.ErrCodeInvalidInput, "nil fragment")
	}

	seen := make(map[ID]bool)
	claim := func(id ID, what string) error {
		if id == NoID {
			return errs.New(errs.ErrCodeStructural, "%s has no id", what)
		}
		if seen[id] || (!replacing && s.inUse(id)) {
			return errs.New(errs.ErrCodeDuplicateID, "%s: id %d already in use", what, id)
		}
		seen[id] = true
		return nil
	}

	fragSockets := make(map[ID]*Socket)
	for _, fn := range f.Nodes {
		n := fn.Node
		if n == nil {
			return errs.New(errs.ErrCodeInvalidInput, "fragment contains a nil node")
		}
		if err := claim(n.ID, "node"); err != nil {
			return err
		}
		if s.registry != nil {
			if _, ok := s.registry.Lookup(n.Type); !ok {
				return errs.New(errs.ErrCodeResolution, "node %d: unknown node type %d", n.ID, n.Type)
			}
		}
		if err := checkNodeSockets(fn); err != nil {
			return err
		}
		for _, sock := range fn.Sockets {
			if err := claim(sock.ID, "socket"); err != nil {
				return err
			}
			fragSockets[sock.ID] = sock
		}
	}

	for _, e := range f.Edges {
		if e == nil {
			return errs.New(errs.ErrCodeInvalidInput, "fragment contains a nil edge")
		}
		if err := claim(e.ID, "edge"); err != nil {
			return err
		}
		if !e.IsComplete() {
			return errs.New(errs.ErrCodeStructural, "edge %d: missing endpoint", e.ID)
		}
		if e.Start == e.End {
			return errs.New(errs.ErrCodeStructural, "edge %d connects socket %d to itself", e.ID, e.Start)
		}
		for _, sid := range e.Sockets() {
			_, ok := fragSockets[sid]
			if !ok && !replacing {
				_, ok = s.sockets[sid]
			}
			if !ok {
				return errs.New(errs.ErrCodeResolution, "edge %d: unknown socket %d", e.ID, sid)
			}
		}
	}
	return nil
}

// dropOverloaded removes fragment edges that a later fragment edge evicts
// from a single-edge socket. f must have passed checkFragment.
func (s *Scene) dropOverloaded(f *Fragment, replacing bool) {
	multi := make(map[ID]bool)
	for _, fn := range f.Nodes {
		for _, sock := range fn.Sockets {
			multi[sock.ID] = sock.MultiEdges
		}
	}
	isMulti := func(sid ID) bool {
		if m, ok := multi[sid]; ok || replacing {
			return m
		}
		return s.sockets[sid].MultiEdges
	}

	keep := make([]bool, len(f.Edges))
	newest := make(map[ID]int)
	for i, e := range f.Edges {
		keep[i] = true
		for _, sid := range e.Sockets() {
			if isMulti(sid) {
				continue
			}
			if j, ok := newest[sid]; ok && keep[j] {
				keep[j] = false
				s.log.Debug("single-edge socket keeps newest fragment edge", "socket", sid, "dropped", f.Edges[j].ID, "kept", e.ID)
			}
			newest[sid] = i
		}
	}
	edges := f.Edges[:0]
	for i, e := range f.Edges {
		if keep[i] {
			edges = append(edges, e)
		}
	}
	f.Edges = edges
}

func checkNodeSockets(fn FragmentNode) error {
	n := fn.Node
	byID := make(map[ID]*Socket, len(fn.Sockets))
	type slot struct {
		pos   Position
		input bool
		index int
	}
	slots := make(map[slot]bool)
	for _, sock := range fn.Sockets {
		if sock == nil {
			return errs.New(errs.ErrCodeInvalidInput, "node %d: nil socket", n.ID)
		}
		if sock.Node != n.ID {
			return errs.New(errs.ErrCodeStructural, "socket %d: owner %d, listed under node %d", sock.ID, sock.Node, n.ID)
		}
		if !sock.Position.Valid() {
			return errs.New(errs.ErrCodeStructural, "socket %d: invalid position %d", sock.ID, sock.Position)
		}
		k := slot{sock.Position, sock.IsInput, sock.Index}
		if slots[k] {
			return errs.New(errs.ErrCodeStructural, "node %d: socket index %d used twice at %s", n.ID, sock.Index, sock.Position)
		}
		slots[k] = true
		byID[sock.ID] = sock
	}
	if len(n.Inputs)+len(n.Outputs) != len(fn.Sockets) {
		return errs.New(errs.ErrCodeStructural, "node %d: socket lists do not match its sockets", n.ID)
	}
	for _, sid := range n.Inputs {
		if sock, ok := byID[sid]; !ok || !sock.IsInput {
			return errs.New(errs.ErrCodeStructural, "node %d: input %d is not an input socket of the node", n.ID, sid)
		}
	}
	for _, sid := range n.Outputs {
		if sock, ok := byID[sid]; !ok || sock.IsInput {
			return errs.New(errs.ErrCodeStructural, "node %d: output %d is not an output socket of the node", n.ID, sid)
		}
	}
	return nil
}

func (s *Scene) commit(f *Fragment) {
	for _, fn := range f.Nodes {
		n := fn.Node
		if n.Content == nil {
			n.Content = Content{}
		}
		s.nodes[n.ID] = n
		s.nodeOrder = append(s.nodeOrder, n.ID)
		s.reserve(n.ID)
		for _, sock := range fn.Sockets {
			sock.edges = nil
			s.sockets[sock.ID] = sock
			s.reserve(sock.ID)
			s.renderer.SocketTypeChanged(sock)
		}
		s.changed(NodeAdded, n.ID)
	}
	for _, e := range f.Edges {
		s.edges[e.ID] = e
		s.edgeOrder = append(s.edgeOrder, e.ID)
		s.reserve(e.ID)
		for _, sid := range e.Sockets() {
			s.attach(s.sockets[sid], e.ID)
		}
		s.changed(EdgeAdded, e.ID)
	}
}
