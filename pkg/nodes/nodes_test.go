package nodes

import (
	"testing"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
	"github.com/matzehuels/nodeweave/pkg/graph"
)

func TestRegister(t *testing.T) {
	r := NewRegistry()
	if got := len(r.Types()); got != len(All) {
		t.Errorf("registered types = %d, want %d", got, len(All))
	}
	if err := Register(r); !errs.Is(err, errs.ErrCodeDuplicateID) {
		t.Errorf("second Register = %v, want DUPLICATE_ID", err)
	}
	if typ, ok := r.TypeByName("integer"); !ok || typ != TypeVarInteger {
		t.Errorf("TypeByName(integer) = %d,%v, want %d", typ, ok, TypeVarInteger)
	}
}

func TestToggleSetter(t *testing.T) {
	tests := []struct {
		kind *Kind
	}{
		{FloatVar},
		{IntegerVar},
		{BooleanVar},
		{StringVar},
	}
	for _, tt := range tests {
		t.Run(tt.kind.Name, func(t *testing.T) {
			s := graph.New(graph.WithRegistry(NewRegistry()))
			n, err := s.NewNode(tt.kind.Type, "", graph.Point{})
			if err != nil {
				t.Fatalf("NewNode: %v", err)
			}
			if len(n.Inputs) != 0 || len(n.Outputs) != 1 {
				t.Fatalf("getter sockets = %d/%d, want 0/1", len(n.Inputs), len(n.Outputs))
			}

			if err := ToggleSetter(s, n.ID); err != nil {
				t.Fatalf("ToggleSetter: %v", err)
			}
			if !n.IsSetter {
				t.Error("IsSetter = false after toggle")
			}
			if len(n.Inputs) != 2 || len(n.Outputs) != 1 {
				t.Fatalf("setter sockets = %d/%d, want 2/1", len(n.Inputs), len(n.Outputs))
			}
			in1, _ := s.Socket(n.Inputs[1])
			if in1.Type != tt.kind.Value {
				t.Errorf("value input type = %v, want %v", in1.Type, tt.kind.Value)
			}
			out, _ := s.Socket(n.Outputs[0])
			if out.Type != graph.SocketExec {
				t.Errorf("setter output type = %v, want exec", out.Type)
			}

			if err := ToggleSetter(s, n.ID); err != nil {
				t.Fatalf("ToggleSetter back: %v", err)
			}
			if n.IsSetter || len(n.Inputs) != 0 {
				t.Error("node did not return to getter form")
			}
			if err := s.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestToggleSetterDropsEdges(t *testing.T) {
	s := graph.New(graph.WithRegistry(NewRegistry()))
	v, _ := s.NewNode(TypeVarFloat, "", graph.Point{})
	g, _ := s.NewNode(TypeGeneric, "", graph.Point{X: 300})
	if _, err := s.Connect(v.Outputs[0], g.Inputs[0]); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := ToSetter(s, v.ID); err != nil {
		t.Fatalf("ToSetter: %v", err)
	}
	if s.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", s.EdgeCount())
	}
	in, _ := s.Socket(g.Inputs[0])
	if in.HasAnyEdge() {
		t.Error("neighbor input still connected")
	}
}

func TestToggleSetterErrors(t *testing.T) {
	s := graph.New(graph.WithRegistry(NewRegistry()))
	g, _ := s.NewNode(TypeGeneric, "", graph.Point{})

	if err := ToggleSetter(s, g.ID); !errs.Is(err, errs.ErrCodeInvalidState) {
		t.Errorf("ToggleSetter(generic) = %v, want INVALID_STATE", err)
	}
	if err := ToggleSetter(s, 999); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("ToggleSetter(missing) = %v, want NOT_FOUND", err)
	}
}
