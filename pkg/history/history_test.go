package history

import (
	"bytes"
	"testing"

	"github.com/matzehuels/nodeweave/pkg/graph"
	graphio "github.com/matzehuels/nodeweave/pkg/io"
	"github.com/matzehuels/nodeweave/pkg/nodes"
)

func snapshot(t *testing.T, s *graph.Scene) []byte {
	t.Helper()
	data, err := graphio.Marshal(graphio.Serialize(s))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return data
}

func TestHistoryLaw(t *testing.T) {
	s := graph.New(graph.WithRegistry(nodes.NewRegistry()))
	h := New(s)
	h.StoreInitialStamp()
	initial := snapshot(t, s)

	var a, b *graph.Node
	steps := []struct {
		desc string
		do   func()
	}{
		{"add a", func() { a, _ = s.NewNode(nodes.TypeVarFloat, "", graph.Point{}) }},
		{"add b", func() { b, _ = s.NewNode(nodes.TypeGeneric, "", graph.Point{X: 300}) }},
		{"connect", func() { _, _ = s.Connect(a.Outputs[0], b.Inputs[0]) }},
		{"move", func() { _ = s.MoveNode(b.ID, graph.Point{X: 400, Y: 40}) }},
		{"toggle", func() { _ = nodes.ToggleSetter(s, a.ID) }},
		{"remove", func() { s.RemoveNode(b.ID) }},
	}
	for _, st := range steps {
		st.do()
		h.StoreHistory(st.desc, true)
	}
	final := snapshot(t, s)

	for range steps {
		if err := h.Undo(); err != nil {
			t.Fatalf("Undo: %v", err)
		}
	}
	if got := snapshot(t, s); !bytes.Equal(got, initial) {
		t.Errorf("after %d undos:\n%s\nwant:\n%s", len(steps), got, initial)
	}
	if h.CanUndo() {
		t.Error("CanUndo = true at initial stamp")
	}

	for range steps {
		if err := h.Redo(); err != nil {
			t.Fatalf("Redo: %v", err)
		}
	}
	if got := snapshot(t, s); !bytes.Equal(got, final) {
		t.Errorf("after %d redos:\n%s\nwant:\n%s", len(steps), got, final)
	}
	if h.CanRedo() {
		t.Error("CanRedo = true at last stamp")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestStoreDropsRedo(t *testing.T) {
	s := graph.New(graph.WithRegistry(nodes.NewRegistry()))
	h := New(s)
	h.StoreInitialStamp()

	_, _ = s.NewNode(nodes.TypeGeneric, "", graph.Point{})
	h.StoreHistory("first", true)
	_, _ = s.NewNode(nodes.TypeGeneric, "", graph.Point{})
	h.StoreHistory("second", true)

	_ = h.Undo()
	if !h.CanRedo() {
		t.Fatal("CanRedo = false after undo")
	}
	_, _ = s.NewNode(nodes.TypeGeneric, "", graph.Point{})
	h.StoreHistory("third", true)

	if h.CanRedo() {
		t.Error("CanRedo = true after storing")
	}
	want := []string{InitialDesc, "first", "third"}
	got := h.Descriptions()
	if len(got) != len(want) {
		t.Fatalf("Descriptions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Descriptions[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLimit(t *testing.T) {
	s := graph.New(graph.WithRegistry(nodes.NewRegistry()))
	h := New(s, WithLimit(3))
	h.StoreInitialStamp()
	for i := 0; i < 5; i++ {
		_, _ = s.NewNode(nodes.TypeGeneric, "", graph.Point{X: float64(i)})
		h.StoreHistory("add", true)
	}
	if h.Len() != 3 {
		t.Errorf("Len = %d, want 3", h.Len())
	}
	if h.Cursor() != 2 {
		t.Errorf("Cursor = %d, want 2", h.Cursor())
	}
	_ = h.Undo()
	_ = h.Undo()
	if s.NodeCount() != 3 {
		t.Errorf("NodeCount after undoing to oldest kept stamp = %d, want 3", s.NodeCount())
	}
}

func TestUndoMarksModifiedAndRestoresSelection(t *testing.T) {
	s := graph.New(graph.WithRegistry(nodes.NewRegistry()))
	h := New(s)
	n, _ := s.NewNode(nodes.TypeGeneric, "", graph.Point{})
	_ = s.SelectOnly(graph.NodeRef(n.ID))
	h.StoreInitialStamp()

	s.ClearSelection()
	_ = s.MoveNode(n.ID, graph.Point{X: 50})
	h.StoreHistory("move", true)
	s.SetModified(false)

	restored := 0
	h.OnRestored(func(*History) { restored++ })

	if err := h.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !s.IsModified() {
		t.Error("IsModified = false after undo")
	}
	if !s.IsSelected(n.ID) {
		t.Error("selection not restored")
	}
	got, _ := s.Node(n.ID)
	if got.Pos.X != 0 {
		t.Errorf("Pos.X = %v, want 0", got.Pos.X)
	}
	if restored != 1 {
		t.Errorf("restored listener calls = %d, want 1", restored)
	}
}

func TestStampRecordsSetModified(t *testing.T) {
	s := graph.New(graph.WithRegistry(nodes.NewRegistry()))
	h := New(s)
	h.StoreInitialStamp()
	if st, _ := h.Current(); st.SetModified || s.IsModified() {
		t.Errorf("initial stamp SetModified = %v, scene modified = %v", st.SetModified, s.IsModified())
	}

	_, _ = s.NewNode(nodes.TypeGeneric, "", graph.Point{})
	h.StoreHistory("add", true)
	if st, _ := h.Current(); !st.SetModified || st.Desc != "add" {
		t.Errorf("stamp = %q SetModified %v, want add true", st.Desc, st.SetModified)
	}

	s.SetModified(false)
	h.StoreHistory("select", false)
	if st, _ := h.Current(); st.SetModified {
		t.Error("stamp stored without setModified reports true")
	}
	if s.IsModified() {
		t.Error("StoreHistory(false) marked the scene modified")
	}
}

func TestUndoRedoNoop(t *testing.T) {
	s := graph.New()
	h := New(s)
	if err := h.Undo(); err != nil {
		t.Errorf("Undo on empty history: %v", err)
	}
	if err := h.Redo(); err != nil {
		t.Errorf("Redo on empty history: %v", err)
	}
	if _, ok := h.Current(); ok {
		t.Error("Current on empty history reported a stamp")
	}
}
