package graph

import (
	errs "github.com/matzehuels/nodeweave/pkg/errors"
)

// Edge links two sockets. Either endpoint may be [NoID] while a connection
// is being formed, for example during an interactive drag.
//
// An edge held by a [Scene] is registered in the edge lists of exactly its
// set endpoints. Use [Scene.AddEdge], [Scene.ConnectEdge] and
// [Scene.RemoveEdge] to keep that registration symmetric.
type Edge struct {
	ID    ID
	Start ID // start socket
	End   ID // end socket
}

// NewEdge returns an edge between start and end. Either may be NoID.
// The edge has no ID until it is added to a scene.
func NewEdge(start, end ID) *Edge {
	return &Edge{Start: start, End: end}
}

// IsComplete reports whether both endpoints are set.
func (e *Edge) IsComplete() bool { return e.Start != NoID && e.End != NoID }

// HasEndpoint reports whether socket is one of the edge's endpoints.
func (e *Edge) HasEndpoint(socket ID) bool {
	return socket != NoID && (e.Start == socket || e.End == socket)
}

// Sockets returns the set endpoints, start first.
func (e *Edge) Sockets() []ID {
	out := make([]ID, 0, 2)
	if e.Start != NoID {
		out = append(out, e.Start)
	}
	if e.End != NoID {
		out = append(out, e.End)
	}
	return out
}

// Connect assigns socket to the first unset endpoint (start, then end).
// It only updates the edge value; registration into the socket's edge list
// is done by the scene.
//
// Returns an INVALID_STATE error when both endpoints are already set or the
// socket already is an endpoint.
func (e *Edge) Connect(socket ID) error {
	if socket == NoID {
		return errs.New(errs.ErrCodeInvalidInput, "edge %d: cannot connect an unset socket", e.ID)
	}
	if e.HasEndpoint(socket) {
		return errs.New(errs.ErrCodeInvalidState, "edge %d: socket %d is already an endpoint", e.ID, socket)
	}
	switch {
	case e.Start == NoID:
		e.Start = socket
	case e.End == NoID:
		e.End = socket
	default:
		return errs.New(errs.ErrCodeInvalidState, "edge %d: both endpoints already connected", e.ID)
	}
	return nil
}

// OtherSocket returns the endpoint opposite to socket.
// Returns an INVALID_STATE error if socket is not an endpoint of the edge.
func (e *Edge) OtherSocket(socket ID) (ID, error) {
	switch {
	case socket == NoID:
	case e.Start == socket:
		return e.End, nil
	case e.End == socket:
		return e.Start, nil
	}
	return NoID, errs.New(errs.ErrCodeInvalidState, "edge %d: socket %d is not an endpoint", e.ID, socket)
}
