package graph

import (
	"testing"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
)

const (
	typeSource NodeType = 1
	typeBinary NodeType = 2
)

func testRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(typeSource, "source", func() NodeSpec {
		return NodeSpec{Title: "Source", Outputs: []SocketType{SocketFloat}}
	})
	r.MustRegister(typeBinary, "binary", func() NodeSpec {
		return NodeSpec{
			Title:   "Binary",
			Inputs:  []SocketType{SocketFloat, SocketFloat},
			Outputs: []SocketType{SocketFloat},
		}
	})
	return r
}

func mustNode(t *testing.T, s *Scene, typ NodeType, x float64) *Node {
	t.Helper()
	n, err := s.NewNode(typ, "", Point{X: x})
	if err != nil {
		t.Fatalf("NewNode: %v", err)
	}
	return n
}

func mustValid(t *testing.T, s *Scene) {
	t.Helper()
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func socket(t *testing.T, s *Scene, id ID) *Socket {
	t.Helper()
	sock, ok := s.Socket(id)
	if !ok {
		t.Fatalf("socket %d missing", id)
	}
	return sock
}

func TestNewNode(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	n := mustNode(t, s, typeBinary, 10)

	if n.Title != "Binary" {
		t.Errorf("Title = %q, want Binary", n.Title)
	}
	if len(n.Inputs) != 2 || len(n.Outputs) != 1 {
		t.Fatalf("sockets = %d/%d, want 2/1", len(n.Inputs), len(n.Outputs))
	}
	for i, sid := range n.Inputs {
		sock := socket(t, s, sid)
		if !sock.IsInput || sock.MultiEdges || sock.Index != i || sock.Position != LeftTop {
			t.Errorf("input %d = %+v, want single-edge left-top input", i, sock)
		}
		if sock.Node != n.ID {
			t.Errorf("input %d owner = %d, want %d", i, sock.Node, n.ID)
		}
	}
	out := socket(t, s, n.Outputs[0])
	if out.IsInput || !out.MultiEdges || out.Position != RightTop {
		t.Errorf("output = %+v, want multi-edge right-top output", out)
	}
	if s.SocketCount() != 3 {
		t.Errorf("SocketCount = %d, want 3", s.SocketCount())
	}
	mustValid(t, s)
}

func TestNewNodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		scene *Scene
		typ   NodeType
		want  errs.Code
	}{
		{"NoRegistry", New(), typeSource, errs.ErrCodeUnsupported},
		{"UnknownType", New(WithRegistry(testRegistry())), 99, errs.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.scene.NewNode(tt.typ, "", Point{})
			if got := errs.GetCode(err); got != tt.want {
				t.Errorf("code = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddEdgeRegistersBothEndpoints(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	a := mustNode(t, s, typeSource, 0)
	b := mustNode(t, s, typeBinary, 300)

	e, err := s.Connect(a.Outputs[0], b.Inputs[0])
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if !socket(t, s, a.Outputs[0]).IsConnected(e.ID) {
		t.Error("start socket does not list edge")
	}
	if !socket(t, s, b.Inputs[0]).IsConnected(e.ID) {
		t.Error("end socket does not list edge")
	}
	if s.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", s.EdgeCount())
	}
	mustValid(t, s)
}

func TestSingleEdgeSocketEvicts(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	a := mustNode(t, s, typeSource, 0)
	b := mustNode(t, s, typeSource, 0)
	c := mustNode(t, s, typeBinary, 300)

	first, err := s.Connect(a.Outputs[0], c.Inputs[0])
	if err != nil {
		t.Fatalf("Connect first: %v", err)
	}
	second, err := s.Connect(b.Outputs[0], c.Inputs[0])
	if err != nil {
		t.Fatalf("Connect second: %v", err)
	}

	in := socket(t, s, c.Inputs[0])
	if got := in.Edges(); len(got) != 1 || got[0] != second.ID {
		t.Errorf("input edges = %v, want [%d]", got, second.ID)
	}
	if _, ok := s.Edge(first.ID); ok {
		t.Error("evicted edge still in scene")
	}
	if socket(t, s, a.Outputs[0]).HasAnyEdge() {
		t.Error("evicted edge still registered on its other endpoint")
	}
	mustValid(t, s)
}

func TestMultiEdgeSocketAccumulates(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	a := mustNode(t, s, typeSource, 0)
	b := mustNode(t, s, typeBinary, 300)

	e1, _ := s.Connect(a.Outputs[0], b.Inputs[0])
	e2, _ := s.Connect(a.Outputs[0], b.Inputs[1])

	got := socket(t, s, a.Outputs[0]).Edges()
	if len(got) != 2 || got[0] != e1.ID || got[1] != e2.ID {
		t.Errorf("output edges = %v, want [%d %d]", got, e1.ID, e2.ID)
	}
	mustValid(t, s)
}

func TestAddEdgeErrors(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	a := mustNode(t, s, typeSource, 0)
	b := mustNode(t, s, typeBinary, 300)
	existing, _ := s.Connect(a.Outputs[0], b.Inputs[0])

	tests := []struct {
		name string
		edge *Edge
		want errs.Code
	}{
		{"Nil", nil, errs.ErrCodeInvalidInput},
		{"NoEndpoints", NewEdge(NoID, NoID), errs.ErrCodeInvalidState},
		{"SelfLoop", NewEdge(b.Inputs[1], b.Inputs[1]), errs.ErrCodeStructural},
		{"UnknownSocket", NewEdge(a.Outputs[0], 999), errs.ErrCodeResolution},
		{"DuplicateID", &Edge{ID: existing.ID, Start: a.Outputs[0], End: b.Inputs[1]}, errs.ErrCodeDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.AddEdge(tt.edge)
			if got := errs.GetCode(err); got != tt.want {
				t.Errorf("code = %q, want %q (err=%v)", got, tt.want, err)
			}
			if s.EdgeCount() != 1 {
				t.Errorf("EdgeCount = %d, want 1", s.EdgeCount())
			}
		})
	}
	mustValid(t, s)
}

func TestConnectEdge(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	a := mustNode(t, s, typeSource, 0)
	b := mustNode(t, s, typeBinary, 300)

	e := NewEdge(a.Outputs[0], NoID)
	if err := s.AddEdge(e); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := s.ConnectEdge(e.ID, b.Inputs[1]); err != nil {
		t.Fatalf("ConnectEdge: %v", err)
	}
	if e.End != b.Inputs[1] {
		t.Errorf("End = %d, want %d", e.End, b.Inputs[1])
	}
	if err := s.ConnectEdge(e.ID, b.Inputs[0]); !errs.Is(err, errs.ErrCodeInvalidState) {
		t.Errorf("ConnectEdge on full edge = %v, want INVALID_STATE", err)
	}
	mustValid(t, s)
}

func TestRemoveEdgeIdempotent(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	a := mustNode(t, s, typeSource, 0)
	b := mustNode(t, s, typeBinary, 300)
	e, _ := s.Connect(a.Outputs[0], b.Inputs[0])

	if !s.RemoveEdge(e.ID) {
		t.Fatal("first RemoveEdge = false, want true")
	}
	if s.RemoveEdge(e.ID) {
		t.Error("second RemoveEdge = true, want false")
	}
	if socket(t, s, a.Outputs[0]).HasAnyEdge() || socket(t, s, b.Inputs[0]).HasAnyEdge() {
		t.Error("edge still registered after removal")
	}
	mustValid(t, s)
}

func TestRemoveAllEdges(t *testing.T) {
	for _, silent := range []bool{false, true} {
		s := New(WithRegistry(testRegistry()))
		a := mustNode(t, s, typeSource, 0)
		b := mustNode(t, s, typeBinary, 300)
		_, _ = s.Connect(a.Outputs[0], b.Inputs[0])
		_, _ = s.Connect(a.Outputs[0], b.Inputs[1])

		if err := s.RemoveAllEdges(a.Outputs[0], silent); err != nil {
			t.Fatalf("RemoveAllEdges(silent=%v): %v", silent, err)
		}
		if s.EdgeCount() != 0 {
			t.Errorf("silent=%v: EdgeCount = %d, want 0", silent, s.EdgeCount())
		}
		for _, sid := range b.Inputs {
			if socket(t, s, sid).HasAnyEdge() {
				t.Errorf("silent=%v: input %d still connected", silent, sid)
			}
		}
		mustValid(t, s)
	}
}

func TestRemoveNode(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	a := mustNode(t, s, typeSource, 0)
	b := mustNode(t, s, typeBinary, 300)
	c := mustNode(t, s, typeBinary, 600)
	_, _ = s.Connect(a.Outputs[0], b.Inputs[0])
	_, _ = s.Connect(b.Outputs[0], c.Inputs[0])

	if !s.RemoveNode(b.ID) {
		t.Fatal("RemoveNode = false, want true")
	}
	if s.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", s.EdgeCount())
	}
	for _, sid := range b.Sockets() {
		if _, ok := s.Socket(sid); ok {
			t.Errorf("socket %d of removed node still present", sid)
		}
	}
	if socket(t, s, a.Outputs[0]).HasAnyEdge() || socket(t, s, c.Inputs[0]).HasAnyEdge() {
		t.Error("neighbors still list removed edges")
	}
	if s.RemoveNode(b.ID) {
		t.Error("second RemoveNode = true, want false")
	}
	mustValid(t, s)
}

func TestReinitSockets(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	a := mustNode(t, s, typeSource, 0)
	b := mustNode(t, s, typeBinary, 300)
	_, _ = s.Connect(a.Outputs[0], b.Inputs[0])

	if err := s.ReinitSockets(b.ID, nil, []SocketType{SocketString, SocketBoolean}); err != nil {
		t.Fatalf("ReinitSockets: %v", err)
	}
	if len(b.Inputs) != 0 || len(b.Outputs) != 2 {
		t.Errorf("sockets = %d/%d, want 0/2", len(b.Inputs), len(b.Outputs))
	}
	if s.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", s.EdgeCount())
	}
	if got := socket(t, s, b.Outputs[1]).Type; got != SocketBoolean {
		t.Errorf("output type = %v, want boolean", got)
	}
	mustValid(t, s)
}

func TestMintIDNeverReuses(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	a := mustNode(t, s, typeSource, 0)
	last := a.Outputs[0]
	s.RemoveNode(a.ID)
	if id := s.MintID(); id <= last {
		t.Errorf("MintID = %d, want > %d", id, last)
	}
}

func TestModifiedListener(t *testing.T) {
	s := New()
	calls := 0
	s.OnModified(func() { calls++ })

	s.SetModified(true)
	s.SetModified(true)
	s.SetModified(false)
	s.SetModified(true)

	if calls != 2 {
		t.Errorf("listener calls = %d, want 2", calls)
	}
}

func TestChangeListener(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	var kinds []ChangeKind
	s.OnChange(func(c Change) { kinds = append(kinds, c.Kind) })

	a := mustNode(t, s, typeSource, 0)
	_ = s.MoveNode(a.ID, Point{X: 5})
	s.RemoveNode(a.ID)

	want := []ChangeKind{NodeAdded, NodeMoved, NodeRemoved}
	if len(kinds) != len(want) {
		t.Fatalf("changes = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("change[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

type recordingRenderer struct {
	connected map[ID]bool
	typed     int
}

func (r *recordingRenderer) SocketTypeChanged(*Socket) { r.typed++ }
func (r *recordingRenderer) SocketConnectionChanged(s *Socket, c bool) {
	r.connected[s.ID] = c
}

func TestRendererNotified(t *testing.T) {
	rr := &recordingRenderer{connected: map[ID]bool{}}
	s := New(WithRegistry(testRegistry()), WithRenderer(rr))
	a := mustNode(t, s, typeSource, 0)
	b := mustNode(t, s, typeBinary, 300)

	if rr.typed != 4 {
		t.Errorf("SocketTypeChanged calls = %d, want 4", rr.typed)
	}
	e, _ := s.Connect(a.Outputs[0], b.Inputs[0])
	if !rr.connected[a.Outputs[0]] || !rr.connected[b.Inputs[0]] {
		t.Error("connect not reported for both endpoints")
	}
	s.RemoveEdge(e.ID)
	if rr.connected[a.Outputs[0]] || rr.connected[b.Inputs[0]] {
		t.Error("disconnect not reported for both endpoints")
	}
}

func TestSocketPos(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	b, _ := s.NewNode(typeBinary, "", Point{X: 100, Y: 50})
	m := s.Metrics()

	in0, _ := s.SocketPos(b.Inputs[0])
	in1, _ := s.SocketPos(b.Inputs[1])
	out, _ := s.SocketPos(b.Outputs[0])

	if in0.X != 100 || out.X != 100+m.Width {
		t.Errorf("x = %v/%v, want 100/%v", in0.X, out.X, 100+m.Width)
	}
	if in1.Y-in0.Y != m.SocketSpacing {
		t.Errorf("spacing = %v, want %v", in1.Y-in0.Y, m.SocketSpacing)
	}
	if got, ok := s.SocketAt(in1); !ok || got != b.Inputs[1] {
		t.Errorf("SocketAt = %d,%v, want %d", got, ok, b.Inputs[1])
	}
	if got, ok := s.NodeAt(Point{X: 150, Y: 60}); !ok || got != b.ID {
		t.Errorf("NodeAt = %d,%v, want %d", got, ok, b.ID)
	}
}

func TestClear(t *testing.T) {
	s := New(WithRegistry(testRegistry()))
	a := mustNode(t, s, typeSource, 0)
	b := mustNode(t, s, typeBinary, 300)
	_, _ = s.Connect(a.Outputs[0], b.Inputs[0])
	s.SetModified(true)

	s.Clear()
	if s.NodeCount() != 0 || s.EdgeCount() != 0 || s.SocketCount() != 0 {
		t.Errorf("counts = %d/%d/%d, want 0/0/0", s.NodeCount(), s.EdgeCount(), s.SocketCount())
	}
	if s.IsModified() {
		t.Error("IsModified = true after Clear")
	}
}
