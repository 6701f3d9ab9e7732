package graph

import (
	"testing"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
)

// pair builds a fragment of a source node (ids 100, 101) feeding a binary
// node (ids 200..203) through edge 300.
func pair() *Fragment {
	src := &Node{ID: 100, Type: typeSource, Title: "Source", Outputs: []ID{101}}
	bin := &Node{ID: 200, Type: typeBinary, Title: "Binary", Inputs: []ID{201, 202}, Outputs: []ID{203}}
	return &Fragment{
		Nodes: []FragmentNode{
			{Node: src, Sockets: []*Socket{
				{ID: 101, Node: 100, Position: RightTop, MultiEdges: true},
			}},
			{Node: bin, Sockets: []*Socket{
				{ID: 201, Node: 200, Index: 0, Position: LeftTop, IsInput: true},
				{ID: 202, Node: 200, Index: 1, Position: LeftTop, IsInput: true},
				{ID: 203, Node: 200, Position: RightTop, MultiEdges: true},
			}},
		},
		Edges: []*Edge{{ID: 300, Start: 101, End: 201}},
	}
}

func TestInsert(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	if err := s.Insert(pair()); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if s.NodeCount() != 2 || s.EdgeCount() != 1 || s.SocketCount() != 4 {
		t.Errorf("counts = %d/%d/%d, want 2/1/4", s.NodeCount(), s.EdgeCount(), s.SocketCount())
	}
	if !socket(t, s, 201).IsConnected(300) || !socket(t, s, 101).IsConnected(300) {
		t.Error("edge 300 not registered on both endpoints")
	}
	if id := s.MintID(); id <= 300 {
		t.Errorf("MintID after insert = %d, want > 300", id)
	}
	mustValid(t, s)
}

func TestInsertRejectsAtomically(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Fragment)
		want   errs.Code
	}{
		{
			name:   "UnknownEndpoint",
			mutate: func(f *Fragment) { f.Edges[0].End = 999 },
			want:   errs.ErrCodeResolution,
		},
		{
			name:   "DuplicateInFragment",
			mutate: func(f *Fragment) { f.Edges = append(f.Edges, &Edge{ID: 300, Start: 101, End: 202}) },
			want:   errs.ErrCodeDuplicateID,
		},
		{
			name:   "WrongOwner",
			mutate: func(f *Fragment) { f.Nodes[1].Sockets[0].Node = 100 },
			want:   errs.ErrCodeStructural,
		},
		{
			name:   "UnknownNodeType",
			mutate: func(f *Fragment) { f.Nodes[0].Node.Type = 42 },
			want:   errs.ErrCodeResolution,
		},
		{
			name:   "IncompleteEdge",
			mutate: func(f *Fragment) { f.Edges[0].End = NoID },
			want:   errs.ErrCodeStructural,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(WithRegistry(testRegistry()))
			keep := mustNode(t, s, typeSource, 0)
			f := pair()
			tt.mutate(f)

			err := s.Insert(f)
			if got := errs.GetCode(err); got != tt.want {
				t.Fatalf("code = %q, want %q (err=%v)", got, tt.want, err)
			}
			if s.NodeCount() != 1 || s.EdgeCount() != 0 {
				t.Errorf("scene changed: %d nodes, %d edges", s.NodeCount(), s.EdgeCount())
			}
			if _, ok := s.Node(keep.ID); !ok {
				t.Error("existing node lost")
			}
			mustValid(t, s)
		})
	}
}

func TestInsertCollidesWithScene(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	if err := s.Insert(pair()); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Insert(pair()); !errs.Is(err, errs.ErrCodeDuplicateID) {
		t.Errorf("second Insert = %v, want DUPLICATE_ID", err)
	}
	if s.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", s.NodeCount())
	}
}

func TestReplace(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	if err := s.Insert(pair()); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	s.SetModified(true)

	// Same IDs are fine when replacing.
	f := pair()
	f.Nodes[0].Node.Title = "Replaced"
	if err := s.Replace(f); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	n, _ := s.Node(100)
	if n.Title != "Replaced" {
		t.Errorf("Title = %q, want Replaced", n.Title)
	}
	if !s.IsModified() {
		t.Error("Replace cleared the modified flag")
	}
	mustValid(t, s)

	bad := pair()
	bad.Edges[0].Start = 999
	if err := s.Replace(bad); !errs.IsStructural(err) {
		t.Errorf("Replace(bad) = %v, want structural error", err)
	}
	if s.NodeCount() != 2 || s.EdgeCount() != 1 {
		t.Errorf("scene changed after rejected Replace")
	}
}

func TestInsertEvictsExistingSingleEdge(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	a := mustNode(t, s, typeSource, 0)
	b := mustNode(t, s, typeBinary, 300)
	old, _ := s.Connect(a.Outputs[0], b.Inputs[0])

	f := pair()
	f.Edges = append(f.Edges, &Edge{ID: 301, Start: 203, End: b.Inputs[0]})
	if err := s.Insert(f); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, ok := s.Edge(old.ID); ok {
		t.Error("old edge on single-edge socket not evicted")
	}
	mustValid(t, s)
}

func TestFragmentKeepsNewestEdgeOnSingleSocket(t *testing.T) {
	for _, replace := range []bool{false, true} {
		s := New(WithRegistry(testRegistry()))
		f := pair()
		// 301 arrives after 300 on input 201; 302 shares no single-edge socket.
		f.Edges = append(f.Edges,
			&Edge{ID: 301, Start: 203, End: 201},
			&Edge{ID: 302, Start: 101, End: 202},
		)

		apply := s.Insert
		if replace {
			apply = s.Replace
		}
		if err := apply(f); err != nil {
			t.Fatalf("replace=%v: %v", replace, err)
		}
		if _, ok := s.Edge(300); ok {
			t.Errorf("replace=%v: older edge 300 kept", replace)
		}
		for _, id := range []ID{301, 302} {
			if _, ok := s.Edge(id); !ok {
				t.Errorf("replace=%v: edge %d missing", replace, id)
			}
		}
		if got := socket(t, s, 201).Edges(); len(got) != 1 || got[0] != 301 {
			t.Errorf("replace=%v: socket 201 edges = %v, want [301]", replace, got)
		}
		mustValid(t, s)
	}
}
