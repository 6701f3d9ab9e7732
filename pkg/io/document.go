package io

import (
	"slices"

	"github.com/matzehuels/nodeweave/pkg/graph"
)

// Document is the serialized form of a scene or of a selected subgraph.
// The same shape is used for files, history snapshots, clipboard payloads
// and store entries.
type Document struct {
	ID          string  `json:"id" bson:"id"`
	SceneWidth  float64 `json:"scene_width" bson:"scene_width"`
	SceneHeight float64 `json:"scene_height" bson:"scene_height"`
	Nodes       []Node  `json:"nodes" bson:"nodes"`
	Edges       []Edge  `json:"edges" bson:"edges"`
}

// Node is the serialized form of a node and its sockets.
type Node struct {
	ID       graph.ID       `json:"id" bson:"id"`
	Title    string         `json:"title" bson:"title"`
	PosX     float64        `json:"pos_x" bson:"pos_x"`
	PosY     float64        `json:"pos_y" bson:"pos_y"`
	NodeType graph.NodeType `json:"node_type" bson:"node_type"`
	IsVar    bool           `json:"is_var" bson:"is_var"`
	IsSetter bool           `json:"is_setter" bson:"is_setter"`
	Inputs   []Socket       `json:"inputs" bson:"inputs"`
	Outputs  []Socket       `json:"outputs" bson:"outputs"`
	Content  map[string]any `json:"content" bson:"content"`
}

// Socket is the serialized form of a socket. MultiEdges is a pointer so
// that documents written before the field existed can be told apart; see
// [graph.MultiEdgesFor].
type Socket struct {
	ID         graph.ID         `json:"id" bson:"id"`
	Index      int              `json:"index" bson:"index"`
	MultiEdges *bool            `json:"multi_edges,omitempty" bson:"multi_edges,omitempty"`
	Position   graph.Position   `json:"position" bson:"position"`
	SocketType graph.SocketType `json:"socket_type" bson:"socket_type"`
}

// Edge is the serialized form of an edge.
type Edge struct {
	ID    graph.ID `json:"id" bson:"id"`
	Start graph.ID `json:"start_socket_id" bson:"start_socket_id"`
	End   graph.ID `json:"end_socket_id" bson:"end_socket_id"`
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Nodes = make([]Node, len(d.Nodes))
	for i, n := range d.Nodes {
		n.Inputs = cloneSockets(n.Inputs)
		n.Outputs = cloneSockets(n.Outputs)
		n.Content = cloneMap(n.Content)
		out.Nodes[i] = n
	}
	out.Edges = slices.Clone(d.Edges)
	return &out
}

func cloneSockets(in []Socket) []Socket {
	out := make([]Socket, len(in))
	for i, s := range in {
		if s.MultiEdges != nil {
			v := *s.MultiEdges
			s.MultiEdges = &v
		}
		out[i] = s
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
