package io

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
	"github.com/matzehuels/nodeweave/pkg/graph"
	"github.com/matzehuels/nodeweave/pkg/nodes"
)

func newScene() *graph.Scene {
	return graph.New(graph.WithRegistry(nodes.NewRegistry()))
}

// buildChain creates float getter -> generic <- integer getter, plus a
// float setter hanging off nothing.
func buildChain(t *testing.T) *graph.Scene {
	t.Helper()
	s := newScene()
	f, err := s.NewNode(nodes.TypeVarFloat, "speed", graph.Point{X: 10, Y: 20})
	if err != nil {
		t.Fatalf("NewNode: %v", err)
	}
	i, _ := s.NewNode(nodes.TypeVarInteger, "", graph.Point{X: 10, Y: 120})
	g, _ := s.NewNode(nodes.TypeGeneric, "sum", graph.Point{X: 300, Y: 60})
	v, _ := s.NewNode(nodes.TypeVarFloat, "", graph.Point{X: 600})
	if err := nodes.ToSetter(s, v.ID); err != nil {
		t.Fatalf("ToSetter: %v", err)
	}
	_ = s.UpdateNode(g.ID, func(n *graph.Node) { n.Content["note"] = "hello" })
	if _, err := s.Connect(f.Outputs[0], g.Inputs[0]); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if _, err := s.Connect(i.Outputs[0], g.Inputs[1]); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if _, err := s.Connect(g.Outputs[0], v.Inputs[1]); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return s
}

func TestRoundTrip(t *testing.T) {
	src := buildChain(t)
	want := Serialize(src)

	data, err := Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	dst := newScene()
	if err := Load(dst, doc); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := dst.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	got := Serialize(dst)

	again, _ := Marshal(got)
	if !bytes.Equal(data, again) {
		t.Errorf("round trip differs:\n--- want\n%s\n--- got\n%s", data, again)
	}
	if dst.UUID() != src.UUID() {
		t.Errorf("UUID = %q, want %q", dst.UUID(), src.UUID())
	}
}

func TestSerializeKeyOrder(t *testing.T) {
	s := newScene()
	_, _ = s.NewNode(nodes.TypeVarFloat, "", graph.Point{})
	data, _ := Marshal(Serialize(s))

	socket := `"id": 2,
          "index": 0,
          "multi_edges": true,
          "position": 4,
          "socket_type": 1`
	if !strings.Contains(string(data), socket) {
		t.Errorf("socket record not in expected key order:\n%s", data)
	}
}

func TestMultiEdgesBackwardCompat(t *testing.T) {
	tests := []struct {
		name     string
		position graph.Position
		field    string
		want     bool
	}{
		{"RightTopMissing", graph.RightTop, "", true},
		{"RightBottomMissing", graph.RightBottom, "", true},
		{"RightCenterMissing", graph.RightCenter, "", false},
		{"LeftTopMissing", graph.LeftTop, "", false},
		{"LeftBottomMissing", graph.LeftBottom, "", false},
		{"RightTopExplicitFalse", graph.RightTop, `"multi_edges": false,`, false},
		{"LeftTopExplicitTrue", graph.LeftTop, `"multi_edges": true,`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.position.IsLeft()
			list := "outputs"
			if input {
				list = "inputs"
			}
			data := []byte(`{"nodes": [{"id": 10, "node_type": 0, "` + list + `": [
				{"id": 1, "index": 0, ` + tt.field + ` "position": ` + itoa(int(tt.position)) + `, "socket_type": 1}
			]}], "edges": []}`)

			doc, err := Parse(data)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			f, err := Deserialize(doc, NewResolver(true, nil))
			if err != nil {
				t.Fatalf("Deserialize: %v", err)
			}
			sock := f.Nodes[0].Sockets[0]
			if sock.MultiEdges != tt.want {
				t.Errorf("MultiEdges = %v, want %v", sock.MultiEdges, tt.want)
			}
			if sock.IsInput != input {
				t.Errorf("IsInput = %v, want %v", sock.IsInput, input)
			}
		})
	}
}

func itoa(i int) string { return string(rune('0' + i)) }

func TestLoadRejectsDanglingEdge(t *testing.T) {
	s := buildChain(t)
	before, _ := Marshal(Serialize(s))

	doc := Serialize(buildChain(t))
	doc.Edges = append(doc.Edges, Edge{ID: 999, Start: doc.Nodes[0].Outputs[0].ID, End: 12345})

	err := Load(s, doc)
	if !errs.Is(err, errs.ErrCodeResolution) {
		t.Fatalf("Load = %v, want RESOLUTION_ERROR", err)
	}
	if !errs.IsStructural(err) {
		t.Error("resolution error not classified as structural")
	}
	after, _ := Marshal(Serialize(s))
	if !bytes.Equal(before, after) {
		t.Error("scene changed by rejected document")
	}
}

func TestLoadLegacyOverloadedInput(t *testing.T) {
	// Older files carry no multi_edges key and may hold two edges on one
	// input socket. The later edge wins.
	out, in := itoa(int(graph.RightTop)), itoa(int(graph.LeftTop))
	data := []byte(`{"nodes": [
		{"id": 10, "node_type": 0, "outputs": [{"id": 11, "index": 0, "position": ` + out + `, "socket_type": 1}]},
		{"id": 20, "node_type": 0, "outputs": [{"id": 21, "index": 0, "position": ` + out + `, "socket_type": 1}]},
		{"id": 30, "node_type": 0, "inputs": [{"id": 31, "index": 0, "position": ` + in + `, "socket_type": 1}]}
	], "edges": [
		{"id": 40, "start_socket_id": 11, "end_socket_id": 31},
		{"id": 41, "start_socket_id": 21, "end_socket_id": 31}
	]}`)
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	s := newScene()
	if err := Load(s, doc); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.EdgeCount() != 1 {
		t.Fatalf("EdgeCount = %d, want 1", s.EdgeCount())
	}
	if _, ok := s.Edge(41); !ok {
		t.Error("newest edge 41 not kept")
	}
	if _, ok := s.Edge(40); ok {
		t.Error("older edge 40 kept")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDeserializeDuplicateID(t *testing.T) {
	doc := Serialize(buildChain(t))
	doc.Nodes[1].ID = doc.Nodes[0].ID
	if _, err := Deserialize(doc, NewResolver(true, nil)); !errs.Is(err, errs.ErrCodeDuplicateID) {
		t.Errorf("Deserialize = %v, want DUPLICATE_ID", err)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"InvalidJSON", `{"nodes": [`},
		{"NotAnObject", `[1, 2, 3]`},
		{"MissingNodes", `{"edges": []}`},
		{"WrongType", `{"nodes": "many"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errs.IsMalformed(err) {
				t.Errorf("Parse = %v, want MALFORMED_DOCUMENT", err)
			}
		})
	}
}

func TestMergeMintsFreshIDs(t *testing.T) {
	s := buildChain(t)
	doc := Serialize(s)
	nodesBefore, edgesBefore := s.NodeCount(), s.EdgeCount()

	f, err := Merge(s, doc)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if s.NodeCount() != 2*nodesBefore || s.EdgeCount() != 2*edgesBefore {
		t.Errorf("counts = %d/%d, want %d/%d", s.NodeCount(), s.EdgeCount(), 2*nodesBefore, 2*edgesBefore)
	}
	old := make(map[graph.ID]bool)
	for _, n := range doc.Nodes {
		old[n.ID] = true
	}
	for _, id := range f.NodeIDs() {
		if old[id] {
			t.Errorf("merged node reuses id %d", id)
		}
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSerializeItemsKeepsInternalEdges(t *testing.T) {
	s := buildChain(t)
	all := s.Nodes()
	f, g := all[0], all[2]
	edgeIDs := make([]graph.ID, 0)
	for _, e := range s.Edges() {
		edgeIDs = append(edgeIDs, e.ID)
	}

	doc := SerializeItems(s, []graph.ID{f.ID, g.ID}, edgeIDs)
	if len(doc.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(doc.Nodes))
	}
	if len(doc.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(doc.Edges))
	}
	if doc.Edges[0].Start != f.Outputs[0] || doc.Edges[0].End != g.Inputs[0] {
		t.Errorf("edge = %+v, want %d -> %d", doc.Edges[0], f.Outputs[0], g.Inputs[0])
	}
}

func TestDocumentClone(t *testing.T) {
	doc := Serialize(buildChain(t))
	c := doc.Clone()
	if !reflect.DeepEqual(doc, c) {
		t.Fatal("clone differs from original")
	}
	c.Nodes[2].Content["note"] = "changed"
	*c.Nodes[0].Outputs[0].MultiEdges = false
	if doc.Nodes[2].Content["note"] != "hello" {
		t.Error("clone shares content map")
	}
	if !*doc.Nodes[0].Outputs[0].MultiEdges {
		t.Error("clone shares multi_edges pointer")
	}
}

func TestImportExportJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	want := Serialize(buildChain(t))

	if err := ExportJSON(want, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(got.Nodes) != len(want.Nodes) || len(got.Edges) != len(want.Edges) {
		t.Errorf("counts = %d/%d, want %d/%d", len(got.Nodes), len(got.Edges), len(want.Nodes), len(want.Edges))
	}

	_, err = ImportJSON(filepath.Join(dir, "missing.json"))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("ImportJSON(missing) = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
}

type typeCounter struct{ n int }

func (c *typeCounter) SocketTypeChanged(*graph.Socket)             { c.n++ }
func (c *typeCounter) SocketConnectionChanged(*graph.Socket, bool) {}

func TestLoadSignalsSocketTypes(t *testing.T) {
	doc := Serialize(buildChain(t))
	sockets := 0
	for _, n := range doc.Nodes {
		sockets += len(n.Inputs) + len(n.Outputs)
	}

	tc := &typeCounter{}
	s := graph.New(graph.WithRegistry(nodes.NewRegistry()), graph.WithRenderer(tc))
	if err := Load(s, doc); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tc.n != sockets {
		t.Errorf("SocketTypeChanged calls = %d, want %d", tc.n, sockets)
	}
}
