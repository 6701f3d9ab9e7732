package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/nodeweave/pkg/graph"
)

// Serialize converts the whole scene to a document. Nodes and edges keep
// scene order. Edges with an unset endpoint are not serialized.
func Serialize(s *graph.Scene) *Document {
	w, h := s.Size()
	doc := &Document{
		ID:          s.UUID(),
		SceneWidth:  w,
		SceneHeight: h,
		Nodes:       []Node{},
		Edges:       []Edge{},
	}
	for _, n := range s.Nodes() {
		doc.Nodes = append(doc.Nodes, serializeNode(s, n))
	}
	for _, e := range s.Edges() {
		if e.IsComplete() {
			doc.Edges = append(doc.Edges, Edge{ID: e.ID, Start: e.Start, End: e.End})
		}
	}
	return doc
}

// SerializeItems converts a subset of the scene to a document. Only edges
// whose both endpoints belong to one of the given nodes are kept, so the
// result is self-contained. Unknown IDs are skipped.
func SerializeItems(s *graph.Scene, nodes, edges []graph.ID) *Document {
	w, h := s.Size()
	doc := &Document{
		ID:          s.UUID(),
		SceneWidth:  w,
		SceneHeight: h,
		Nodes:       []Node{},
		Edges:       []Edge{},
	}
	included := make(map[graph.ID]bool)
	for _, id := range nodes {
		n, ok := s.Node(id)
		if !ok {
			continue
		}
		doc.Nodes = append(doc.Nodes, serializeNode(s, n))
		for _, sid := range n.Sockets() {
			included[sid] = true
		}
	}
	for _, id := range edges {
		e, ok := s.Edge(id)
		if !ok || !e.IsComplete() {
			continue
		}
		if included[e.Start] && included[e.End] {
			doc.Edges = append(doc.Edges, Edge{ID: e.ID, Start: e.Start, End: e.End})
		}
	}
	return doc
}

func serializeNode(s *graph.Scene, n *graph.Node) Node {
	return Node{
		ID:       n.ID,
		Title:    n.Title,
		PosX:     n.Pos.X,
		PosY:     n.Pos.Y,
		NodeType: n.Type,
		IsVar:    n.IsVar,
		IsSetter: n.IsSetter,
		Inputs:   serializeSockets(s, n.Inputs),
		Outputs:  serializeSockets(s, n.Outputs),
		Content:  cloneMap(n.Content),
	}
}

func serializeSockets(s *graph.Scene, ids []graph.ID) []Socket {
	out := make([]Socket, 0, len(ids))
	for _, id := range ids {
		sock, ok := s.Socket(id)
		if !ok {
			continue
		}
		multi := sock.MultiEdges
		out = append(out, Socket{
			ID:         sock.ID,
			Index:      sock.Index,
			MultiEdges: &multi,
			Position:   sock.Position,
			SocketType: sock.Type,
		})
	}
	return out
}

// Marshal encodes a document as indented JSON.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON encodes a document as indented JSON and writes it to w.
// The output can be read back with [ReadJSON].
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a document to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}
