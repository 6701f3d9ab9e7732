// Package graph implements the headless data model of a node-graph editor.
//
// A [Scene] owns all [Node], [Socket] and [Edge] entities of one graph and
// is the only place they are mutated. Entities live in ID-keyed tables and
// refer to each other by [ID]: a node lists its socket IDs, a socket knows
// its owning node and its connected edge IDs, an edge knows its two socket
// IDs. No renderer, widget toolkit or window is involved; presentation
// layers observe the scene through [Renderer] and change listeners.
//
// # Core Types
//
//   - [Node]: titled box with ordered input and output sockets
//   - [Socket]: typed connection point, single-edge or multi-edge
//   - [Edge]: link between a start socket and an end socket
//   - [Scene]: mediator, selection state, modified flag, listeners
//   - [Registry]: node type constructors
//   - [Fragment]: detached entities applied as a whole
//
// # Invariants
//
// The scene keeps the edge registration symmetric: an edge appears in the
// edge list of exactly the sockets it names as endpoints. A single-edge
// socket holds at most one edge; connecting another one evicts the old
// edge from both of its endpoints and from the scene:
//
//	s := graph.New(graph.WithRegistry(reg))
//	a, _ := s.NewNode(typeAdd, "", graph.Point{})
//	b, _ := s.NewNode(typeAdd, "", graph.Point{X: 300})
//	e, _ := s.Connect(a.Outputs[0], b.Inputs[0])
//
// Removing things that are already gone is not an error. [Scene.RemoveEdge]
// and [Scene.RemoveNode] log such calls at debug level and report false.
//
// # Selection
//
// Selection is set with [Scene.SetSelected] and friends and announced
// lazily by [Scene.CommitSelection], which compares against the last
// committed selection. Editors call it after a mouse release.
//
// # Fragments
//
// Deserialized documents are turned into a [Fragment] and applied with
// [Scene.Insert] (paste) or [Scene.Replace] (load, undo). Both validate
// the whole fragment first, so a rejected document never leaves a
// partially built graph behind.
package graph
