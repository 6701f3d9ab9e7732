package graph

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
)

// DefaultSceneSize is the width and height of a new scene's canvas.
const DefaultSceneSize = 64000

// Sockets created by [Scene.NewNode] and [Scene.CreateNode] are anchored
// at these positions. Inputs accept a single edge, outputs fan out.
const (
	DefaultInputPosition  = LeftTop
	DefaultOutputPosition = RightTop
)

// Renderer is notified when a socket's presentation may have changed.
// Scenes default to [NopRenderer].
type Renderer interface {
	// SocketTypeChanged is called after a socket is created or its type changes.
	SocketTypeChanged(s *Socket)
	// SocketConnectionChanged is called after an edge is attached to or
	// detached from a socket. connected reports whether any edge remains.
	SocketConnectionChanged(s *Socket, connected bool)
}

// NopRenderer ignores all notifications.
type NopRenderer struct{}

func (NopRenderer) SocketTypeChanged(*Socket)             {}
func (NopRenderer) SocketConnectionChanged(*Socket, bool) {}

// Option configures a [Scene].
type Option func(*Scene)

// WithRegistry sets the node type registry. Without a registry,
// [Scene.NewNode] fails and documents may reference any node type.
func WithRegistry(r *Registry) Option { return func(s *Scene) { s.registry = r } }

// WithRenderer sets the renderer notified about socket changes.
func WithRenderer(r Renderer) Option {
	return func(s *Scene) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithLogger sets the logger used for debug diagnostics such as removal of
// already-removed edges.
func WithLogger(l *log.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets the node geometry used to place sockets.
func WithMetrics(m Metrics) Option { return func(s *Scene) { s.metrics = m } }

// Scene is the mediator that owns all nodes, sockets and edges of one graph.
//
// Every structural mutation marks the scene modified and notifies change
// listeners.
//
// Entities are stored in ID-keyed tables and refer to each other by ID, so
// the cyclic node/socket/edge relationships never form pointer cycles. Every
// mutation goes through Scene methods, which keep two invariants:
//
//   - An edge is registered in the edge list of exactly its set endpoints.
//   - A single-edge socket never holds more than one edge.
//
// Node and edge iteration follow insertion order.
//
// The zero value is not usable; use [New]. Scene is not safe for concurrent
// use; the editor serializes access.
type Scene struct {
	uuid          string
	width, height float64

	nodes     map[ID]*Node
	sockets   map[ID]*Socket
	edges     map[ID]*Edge
	nodeOrder []ID
	edgeOrder []ID
	nextID    ID

	modified bool
	bulk     int // >0 while Clear or Replace run; mutations keep the flag

	selected     map[ID]bool
	lastSelected []ItemRef
	lastState    map[ID]bool

	onModified   []func()
	onChange     []func(Change)
	onSelection  []func([]ItemRef)
	onDeselected []func()

	registry *Registry
	renderer Renderer
	metrics  Metrics
	log      *log.Logger
}

// New creates an empty scene.
func New(opts ...Option) *Scene {
	s := &Scene{
		uuid:      uuid.NewString(),
		width:     DefaultSceneSize,
		height:    DefaultSceneSize,
		nodes:     make(map[ID]*Node),
		sockets:   make(map[ID]*Socket),
		edges:     make(map[ID]*Edge),
		selected:  make(map[ID]bool),
		lastState: make(map[ID]bool),
		renderer:  NopRenderer{},
		metrics:   DefaultMetrics,
		log:       log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// Accessors
// =============================================================================

// UUID returns the scene's document identifier.
func (s *Scene) UUID() string { return s.uuid }

// SetUUID replaces the scene's document identifier.
func (s *Scene) SetUUID(id string) { s.uuid = id }

// Size returns the canvas size.
func (s *Scene) Size() (width, height float64) { return s.width, s.height }

// SetSize sets the canvas size.
func (s *Scene) SetSize(width, height float64) { s.width, s.height = width, height }

// Registry returns the node type registry, or nil.
func (s *Scene) Registry() *Registry { return s.registry }

// Metrics returns the node geometry.
func (s *Scene) Metrics() Metrics { return s.metrics }

// Logger returns the scene's logger.
func (s *Scene) Logger() *log.Logger { return s.log }

// Node returns the node with the given ID.
func (s *Scene) Node(id ID) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Socket returns the socket with the given ID.
func (s *Scene) Socket(id ID) (*Socket, bool) {
	sock, ok := s.sockets[id]
	return sock, ok
}

// Edge returns the edge with the given ID.
func (s *Scene) Edge(id ID) (*Edge, bool) {
	e, ok := s.edges[id]
	return e, ok
}

// Nodes returns all nodes in insertion order.
func (s *Scene) Nodes() []*Node {
	out := make([]*Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		out = append(out, s.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (s *Scene) Edges() []*Edge {
	out := make([]*Edge, 0, len(s.edgeOrder))
	for _, id := range s.edgeOrder {
		out = append(out, s.edges[id])
	}
	return out
}

// NodeCount returns the number of nodes.
func (s *Scene) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges.
func (s *Scene) EdgeCount() int { return len(s.edges) }

// SocketCount returns the number of sockets.
func (s *Scene) SocketCount() int { return len(s.sockets) }

// NodeOf returns the node owning the socket.
func (s *Scene) NodeOf(socket ID) (*Node, bool) {
	sock, ok := s.sockets[socket]
	if !ok {
		return nil, false
	}
	return s.Node(sock.Node)
}

// =============================================================================
// Identity
// =============================================================================

// MintID returns a fresh ID not used by any entity of the scene.
// IDs increase monotonically and are never reused within a scene.
func (s *Scene) MintID() ID {
	s.nextID++
	for s.inUse(s.nextID) {
		s.nextID++
	}
	return s.nextID
}

func (s *Scene) reserve(id ID) {
	if id > s.nextID {
		s.nextID = id
	}
}

func (s *Scene) inUse(id ID) bool {
	if _, ok := s.nodes[id]; ok {
		return true
	}
	if _, ok := s.sockets[id]; ok {
		return true
	}
	_, ok := s.edges[id]
	return ok
}

// =============================================================================
// Modified Flag and Listeners
// =============================================================================

// IsModified reports whether the scene has unsaved changes.
func (s *Scene) IsModified() bool { return s.modified }

// SetModified sets the unsaved-changes flag. Modified listeners run only on
// the transition from unmodified to modified.
func (s *Scene) SetModified(v bool) {
	was := s.modified
	s.modified = v
	if v && !was {
		for _, fn := range s.onModified {
			fn()
		}
	}
}

// OnModified registers fn to run when the scene becomes modified.
func (s *Scene) OnModified(fn func()) { s.onModified = append(s.onModified, fn) }

// OnChange registers fn to run after every structural mutation.
func (s *Scene) OnChange(fn func(Change)) { s.onChange = append(s.onChange, fn) }

// OnSelectionChanged registers fn to run when [Scene.CommitSelection]
// detects a new non-empty selection.
func (s *Scene) OnSelectionChanged(fn func([]ItemRef)) {
	s.onSelection = append(s.onSelection, fn)
}

// OnItemsDeselected registers fn to run when [Scene.CommitSelection]
// detects that everything was deselected.
func (s *Scene) OnItemsDeselected(fn func()) {
	s.onDeselected = append(s.onDeselected, fn)
}

// changed marks the scene modified and notifies change listeners.
func (s *Scene) changed(kind ChangeKind, id ID) {
	if s.bulk == 0 {
		s.SetModified(true)
	}
	c := Change{Kind: kind, ID: id}
	for _, fn := range s.onChange {
		fn(c)
	}
}

// =============================================================================
// Nodes
// =============================================================================

// NewNode creates a node of type t from the scene's registry and adds it at
// pos. A non-empty title overrides the type's default title.
//
// Returns an UNSUPPORTED error if the scene has no registry and a NOT_FOUND
// error if t is not registered.
func (s *Scene) NewNode(t NodeType, title string, pos Point) (*Node, error) {
	if s.registry == nil {
		return nil, errs.New(errs.ErrCodeUnsupported, "scene has no node registry")
	}
	ctor, ok := s.registry.Lookup(t)
	if !ok {
		return nil, errs.New(errs.ErrCodeNotFound, "unknown node type %d", t)
	}
	spec := ctor()
	if title != "" {
		spec.Title = title
	}
	return s.CreateNode(t, spec, pos), nil
}

// CreateNode adds a node built from spec at pos, minting IDs for the node
// and its sockets. Inputs are anchored at [DefaultInputPosition] and accept
// one edge; outputs are anchored at [DefaultOutputPosition] and accept many.
func (s *Scene) CreateNode(t NodeType, spec NodeSpec, pos Point) *Node {
	n := &Node{
		ID:      s.MintID(),
		Type:    t,
		Title:   spec.Title,
		Pos:     pos,
		IsVar:   spec.IsVar,
		Content: spec.Content.Clone(),
	}
	s.nodes[n.ID] = n
	s.nodeOrder = append(s.nodeOrder, n.ID)
	s.buildSockets(n, spec.Inputs, spec.Outputs)
	s.changed(NodeAdded, n.ID)
	return n
}

func (s *Scene) buildSockets(n *Node, inputs, outputs []SocketType) {
	n.Inputs = make([]ID, 0, len(inputs))
	n.Outputs = make([]ID, 0, len(outputs))
	for i, t := range inputs {
		sock := &Socket{
			ID:       s.MintID(),
			Node:     n.ID,
			Index:    i,
			Position: DefaultInputPosition,
			Type:     t,
			IsInput:  true,
		}
		s.sockets[sock.ID] = sock
		n.Inputs = append(n.Inputs, sock.ID)
		s.renderer.SocketTypeChanged(sock)
	}
	for i, t := range outputs {
		sock := &Socket{
			ID:         s.MintID(),
			Node:       n.ID,
			Index:      i,
			Position:   DefaultOutputPosition,
			Type:       t,
			MultiEdges: true,
		}
		s.sockets[sock.ID] = sock
		n.Outputs = append(n.Outputs, sock.ID)
		s.renderer.SocketTypeChanged(sock)
	}
}

// ReinitSockets replaces all sockets of a node. Edges attached to the old
// sockets are removed from both endpoints and from the scene.
func (s *Scene) ReinitSockets(node ID, inputs, outputs []SocketType) error {
	n, ok := s.nodes[node]
	if !ok {
		return errs.New(errs.ErrCodeNotFound, "node %d not found", node)
	}
	s.dropSockets(n)
	s.buildSockets(n, inputs, outputs)
	s.changed(NodeUpdated, n.ID)
	return nil
}

func (s *Scene) dropSockets(n *Node) {
	for _, sid := range n.Sockets() {
		if _, ok := s.sockets[sid]; ok {
			_ = s.RemoveAllEdges(sid, true)
		}
	}
	for _, sid := range n.Sockets() {
		delete(s.sockets, sid)
	}
	n.Inputs, n.Outputs = nil, nil
}

// RemoveNode removes a node: first every edge attached to its sockets, then
// the sockets, then the node itself. Removing an absent node is a no-op
// logged at debug level; the result reports whether anything was removed.
func (s *Scene) RemoveNode(id ID) bool {
	n, ok := s.nodes[id]
	if !ok {
		s.log.Debug("remove of absent node ignored", "node", id)
		return false
	}
	s.dropSockets(n)
	delete(s.nodes, id)
	s.nodeOrder = slices.DeleteFunc(s.nodeOrder, func(x ID) bool { return x == id })
	s.forget(id)
	s.changed(NodeRemoved, id)
	return true
}

// MoveNode sets the position of a node.
func (s *Scene) MoveNode(id ID, pos Point) error {
	n, ok := s.nodes[id]
	if !ok {
		return errs.New(errs.ErrCodeNotFound, "node %d not found", id)
	}
	n.Pos = pos
	s.changed(NodeMoved, id)
	return nil
}

// SetTitle sets the title of a node.
func (s *Scene) SetTitle(id ID, title string) error {
	return s.UpdateNode(id, func(n *Node) { n.Title = title })
}

// UpdateNode applies fn to a node and notifies change listeners. fn may
// change the title, position, content and variable flags, but must not
// touch Inputs or Outputs; use [Scene.ReinitSockets] for that.
func (s *Scene) UpdateNode(id ID, fn func(n *Node)) error {
	n, ok := s.nodes[id]
	if !ok {
		return errs.New(errs.ErrCodeNotFound, "node %d not found", id)
	}
	fn(n)
	if n.Content == nil {
		n.Content = Content{}
	}
	s.changed(NodeUpdated, id)
	return nil
}

// Clear removes every node and edge and resets the modified flag.
func (s *Scene) Clear() {
	s.bulk++
	defer func() { s.bulk-- }()
	for _, id := range slices.Clone(s.nodeOrder) {
		s.RemoveNode(id)
	}
	for _, id := range slices.Clone(s.edgeOrder) {
		s.RemoveEdge(id)
	}
	s.ClearSelection()
	s.ResetLastSelectedStates()
	s.lastSelected = nil
	s.modified = false
}

// =============================================================================
// Edges
// =============================================================================

// AddEdge adds e and registers it on its set endpoints. A zero e.ID is
// replaced by a minted one.
//
// When an endpoint is a single-edge socket that already holds an edge, the
// existing edge is removed first, so the newest connection wins.
//
// Errors: INVALID_STATE if e has no endpoint, STRUCTURAL_VIOLATION if both
// endpoints are the same socket, RESOLUTION_ERROR if an endpoint is not in
// the scene, DUPLICATE_ID if e.ID is taken. On error the scene is unchanged.
func (s *Scene) AddEdge(e *Edge) error {
	if e == nil {
		return errs.New(errs.ErrCodeInvalidInput, "nil edge")
	}
	if e.Start == NoID && e.End == NoID {
		return errs.New(errs.ErrCodeInvalidState, "edge has no endpoints")
	}
	if e.Start == e.End {
		return errs.New(errs.ErrCodeStructural, "edge cannot connect socket %d to itself", e.Start)
	}
	for _, sid := range e.Sockets() {
		if _, ok := s.sockets[sid]; !ok {
			return errs.New(errs.ErrCodeResolution, "edge references unknown socket %d", sid)
		}
	}
	if e.ID == NoID {
		e.ID = s.MintID()
	} else if s.inUse(e.ID) {
		return errs.New(errs.ErrCodeDuplicateID, "id %d already in use", e.ID)
	}

	s.edges[e.ID] = e
	s.edgeOrder = append(s.edgeOrder, e.ID)
	s.reserve(e.ID)
	for _, sid := range e.Sockets() {
		s.attach(s.sockets[sid], e.ID)
	}
	s.changed(EdgeAdded, e.ID)
	return nil
}

// Connect creates and adds an edge from start to end.
func (s *Scene) Connect(start, end ID) (*Edge, error) {
	e := NewEdge(start, end)
	if err := s.AddEdge(e); err != nil {
		return nil, err
	}
	return e, nil
}

// ConnectEdge assigns socket to the first unset endpoint of an edge already
// in the scene and registers the edge on it.
func (s *Scene) ConnectEdge(edge, socket ID) error {
	e, ok := s.edges[edge]
	if !ok {
		return errs.New(errs.ErrCodeNotFound, "edge %d not found", edge)
	}
	sock, ok := s.sockets[socket]
	if !ok {
		return errs.New(errs.ErrCodeResolution, "edge %d: unknown socket %d", edge, socket)
	}
	if err := e.Connect(socket); err != nil {
		return err
	}
	s.attach(sock, e.ID)
	s.changed(EdgeUpdated, e.ID)
	return nil
}

// RemoveEdge removes an edge from both endpoints and from the scene.
// Removing an absent edge is a no-op logged at debug level; the result
// reports whether anything was removed.
func (s *Scene) RemoveEdge(id ID) bool {
	return s.removeEdge(id, NoID)
}

// RemoveEdgeSilently is like [Scene.RemoveEdge] but does not touch the edge
// list of silentFor, which the caller is already clearing.
func (s *Scene) RemoveEdgeSilently(id, silentFor ID) bool {
	return s.removeEdge(id, silentFor)
}

func (s *Scene) removeEdge(id, silentFor ID) bool {
	e, ok := s.edges[id]
	if !ok {
		s.log.Debug("remove of absent edge ignored", "edge", id)
		return false
	}
	for _, sid := range e.Sockets() {
		if sid == silentFor {
			continue
		}
		if sock, ok := s.sockets[sid]; ok {
			s.detach(sock, id)
		}
	}
	delete(s.edges, id)
	s.edgeOrder = slices.DeleteFunc(s.edgeOrder, func(x ID) bool { return x == id })
	s.forget(id)
	s.changed(EdgeRemoved, id)
	return true
}

// RemoveAllEdges removes every edge attached to a socket, oldest first.
//
// With silent set, the removed edges are not detached from this socket a
// second time. Without it, each detach of this socket finds the edge already
// gone and logs that at debug level.
func (s *Scene) RemoveAllEdges(socket ID, silent bool) error {
	sock, ok := s.sockets[socket]
	if !ok {
		return errs.New(errs.ErrCodeNotFound, "socket %d not found", socket)
	}
	silentFor := NoID
	if silent {
		silentFor = sock.ID
	}
	for {
		eid, ok := sock.popFront()
		if !ok {
			break
		}
		s.removeEdge(eid, silentFor)
	}
	s.renderer.SocketConnectionChanged(sock, false)
	return nil
}

// ChangeSocketType sets the value type of a socket and reports whether it
// changed. Setting the current type is a no-op.
func (s *Scene) ChangeSocketType(socket ID, t SocketType) (bool, error) {
	sock, ok := s.sockets[socket]
	if !ok {
		return false, errs.New(errs.ErrCodeNotFound, "socket %d not found", socket)
	}
	if sock.Type == t {
		return false, nil
	}
	sock.Type = t
	s.renderer.SocketTypeChanged(sock)
	s.changed(SocketUpdated, sock.ID)
	return true, nil
}

func (s *Scene) attach(sock *Socket, edge ID) {
	if sock.IsConnected(edge) {
		return
	}
	if !sock.MultiEdges && sock.HasAnyEdge() {
		s.log.Debug("single-edge socket evicts existing edge", "socket", sock.ID, "edges", sock.edges)
		_ = s.RemoveAllEdges(sock.ID, true)
	}
	sock.addEdge(edge)
	s.renderer.SocketConnectionChanged(sock, true)
}

func (s *Scene) detach(sock *Socket, edge ID) {
	if !sock.removeEdge(edge) {
		s.log.Debug("edge not registered on socket", "socket", sock.ID, "edge", edge)
	}
	s.renderer.SocketConnectionChanged(sock, sock.HasAnyEdge())
}
