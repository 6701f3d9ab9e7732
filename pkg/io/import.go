package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
	"github.com/matzehuels/nodeweave/pkg/graph"
)

// Resolver is the ID resolution context of one deserialization.
//
// In restore mode every entity keeps the ID stored in the document, which
// is how files and history snapshots come back. Otherwise every entity gets
// a fresh ID from the minter, which is how pasted content avoids clashing
// with what is already in the scene. Either way the hashmap records, for
// each document ID, the ID assigned to the entity, and edges are resolved
// through it.
type Resolver struct {
	restore bool
	mint    func() graph.ID
	hashmap map[graph.ID]graph.ID
}

// NewResolver returns a resolver. mint is only used when restore is false.
func NewResolver(restore bool, mint func() graph.ID) *Resolver {
	return &Resolver{
		restore: restore,
		mint:    mint,
		hashmap: make(map[graph.ID]graph.ID),
	}
}

// Restore reports whether stored IDs are kept.
func (r *Resolver) Restore() bool { return r.restore }

// Resolve returns the ID assigned to a document ID.
func (r *Resolver) Resolve(docID graph.ID) (graph.ID, bool) {
	id, ok := r.hashmap[docID]
	return id, ok
}

// Hashmap returns a copy of the document-ID to assigned-ID mapping.
func (r *Resolver) Hashmap() map[graph.ID]graph.ID { return maps.Clone(r.hashmap) }

func (r *Resolver) assign(docID graph.ID, what string) (graph.ID, error) {
	if docID == graph.NoID {
		return graph.NoID, errs.New(errs.ErrCodeMalformedDocument, "%s without id", what)
	}
	if _, dup := r.hashmap[docID]; dup {
		return graph.NoID, errs.New(errs.ErrCodeDuplicateID, "%s: id %d appears twice in document", what, docID)
	}
	id := docID
	if !r.restore {
		if r.mint == nil {
			return graph.NoID, errs.New(errs.ErrCodeInternal, "resolver has no id minter")
		}
		id = r.mint()
	}
	r.hashmap[docID] = id
	return id, nil
}

// Deserialize resolves a document into a fragment ready for
// [graph.Scene.Insert] or [graph.Scene.Replace].
//
// Resolution runs in two phases. The first creates every node with its
// sockets and records their IDs in the resolver. The second creates the
// edges, looking both endpoints up in the resolver. An endpoint that does
// not name a socket of the document fails with RESOLUTION_ERROR. Nothing is
// applied to any scene here, so a failing document leaves the live graph
// untouched.
//
// Sockets without "multi_edges" get the value implied by their position.
func Deserialize(doc *Document, r *Resolver) (*graph.Fragment, error) {
	if doc == nil {
		return nil, errs.New(errs.ErrCodeMalformedDocument, "nil document")
	}
	f := &graph.Fragment{}

	for _, dn := range doc.Nodes {
		id, err := r.assign(dn.ID, "node")
		if err != nil {
			return nil, err
		}
		n := &graph.Node{
			ID:       id,
			Type:     dn.NodeType,
			Title:    dn.Title,
			Pos:      graph.Point{X: dn.PosX, Y: dn.PosY},
			IsVar:    dn.IsVar,
			IsSetter: dn.IsSetter,
			Content:  cloneMap(dn.Content),
		}
		fn := graph.FragmentNode{Node: n}
		for _, group := range []struct {
			sockets []Socket
			input   bool
		}{{dn.Inputs, true}, {dn.Outputs, false}} {
			for _, ds := range group.sockets {
				sock, err := deserializeSocket(ds, id, group.input, r)
				if err != nil {
					return nil, fmt.Errorf("node %d: %w", dn.ID, err)
				}
				fn.Sockets = append(fn.Sockets, sock)
				if group.input {
					n.Inputs = append(n.Inputs, sock.ID)
				} else {
					n.Outputs = append(n.Outputs, sock.ID)
				}
			}
		}
		f.Nodes = append(f.Nodes, fn)
	}

	for _, de := range doc.Edges {
		start, ok := r.Resolve(de.Start)
		if !ok {
			return nil, errs.New(errs.ErrCodeResolution, "edge %d: unknown start socket %d", de.ID, de.Start)
		}
		end, ok := r.Resolve(de.End)
		if !ok {
			return nil, errs.New(errs.ErrCodeResolution, "edge %d: unknown end socket %d", de.ID, de.End)
		}
		id, err := r.assign(de.ID, "edge")
		if err != nil {
			return nil, err
		}
		f.Edges = append(f.Edges, &graph.Edge{ID: id, Start: start, End: end})
	}
	return f, nil
}

func deserializeSocket(ds Socket, node graph.ID, input bool, r *Resolver) (*graph.Socket, error) {
	if !ds.Position.Valid() {
		return nil, errs.New(errs.ErrCodeMalformedDocument, "socket %d: invalid position %d", ds.ID, ds.Position)
	}
	id, err := r.assign(ds.ID, "socket")
	if err != nil {
		return nil, err
	}
	multi := graph.MultiEdgesFor(ds.Position)
	if ds.MultiEdges != nil {
		multi = *ds.MultiEdges
	}
	return &graph.Socket{
		ID:         id,
		Node:       node,
		Index:      ds.Index,
		Position:   ds.Position,
		Type:       ds.SocketType,
		IsInput:    input,
		MultiEdges: multi,
	}, nil
}

// Load replaces the scene's content with the document, keeping stored IDs.
// The scene's UUID and size are taken from the document when present.
// On error the scene is unchanged.
func Load(s *graph.Scene, doc *Document) error {
	f, err := Deserialize(doc, NewResolver(true, s.MintID))
	if err != nil {
		return err
	}
	if err := s.Replace(f); err != nil {
		return err
	}
	if doc.ID != "" {
		s.SetUUID(doc.ID)
	}
	if doc.SceneWidth > 0 && doc.SceneHeight > 0 {
		s.SetSize(doc.SceneWidth, doc.SceneHeight)
	}
	return nil
}

// Merge inserts the document into the scene with fresh IDs and returns the
// inserted fragment. On error the scene is unchanged.
func Merge(s *graph.Scene, doc *Document) (*graph.Fragment, error) {
	f, err := Deserialize(doc, NewResolver(false, s.MintID))
	if err != nil {
		return nil, err
	}
	if err := s.Insert(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Parse decodes a JSON document. Invalid JSON and payloads without a
// "nodes" key fail with MALFORMED_DOCUMENT.
func Parse(data []byte) (*Document, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedDocument, err, "decode")
	}
	if _, ok := keys["nodes"]; !ok {
		return nil, errs.New(errs.ErrCodeMalformedDocument, "document has no \"nodes\" key")
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedDocument, err, "decode")
	}
	return &doc, nil
}

// ReadJSON decodes a JSON document from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Parse(data)
}

// ImportJSON reads a JSON document from the file at path. A missing file
// fails with FILE_NOT_FOUND.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
