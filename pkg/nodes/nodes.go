// Package nodes provides the built-in node types of nodeweave.
//
// Each type is described by a [Kind] and registered in a [graph.Registry]
// with [Register]. Besides the generic node, the catalogue contains one
// variable node per value type. Variable nodes start as getters (one value
// output) and toggle into setters (exec + value inputs, exec output) with
// [ToggleSetter].
package nodes

import (
	"fmt"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
	"github.com/matzehuels/nodeweave/pkg/graph"
)

// Node type tags stored in documents as "node_type".
const (
	TypeGeneric    graph.NodeType = 0
	TypeVarFloat   graph.NodeType = 1
	TypeVarInteger graph.NodeType = 2
	TypeVarBoolean graph.NodeType = 3
	TypeVarString  graph.NodeType = 4
)

// Kind describes a built-in node type.
type Kind struct {
	Type    graph.NodeType
	Name    string             // registry name, also the default title
	Inputs  []graph.SocketType // getter or plain form
	Outputs []graph.SocketType
	IsVar   bool
	Value   graph.SocketType // value type of a variable node
}

// Spec returns the constructor output for the kind.
func (k *Kind) Spec() graph.NodeSpec {
	return graph.NodeSpec{
		Title:   k.Name,
		Inputs:  append([]graph.SocketType(nil), k.Inputs...),
		Outputs: append([]graph.SocketType(nil), k.Outputs...),
		IsVar:   k.IsVar,
		Content: graph.Content{},
	}
}

// Generic is a plain two-input, one-output node.
var Generic = &Kind{
	Type:    TypeGeneric,
	Name:    "Undefined",
	Inputs:  []graph.SocketType{graph.SocketInteger, graph.SocketInteger},
	Outputs: []graph.SocketType{graph.SocketFloat},
}

var (
	FloatVar   = varKind(TypeVarFloat, "float", graph.SocketFloat)
	IntegerVar = varKind(TypeVarInteger, "integer", graph.SocketInteger)
	BooleanVar = varKind(TypeVarBoolean, "boolean", graph.SocketBoolean)
	StringVar  = varKind(TypeVarString, "string", graph.SocketString)
)

func varKind(t graph.NodeType, name string, value graph.SocketType) *Kind {
	return &Kind{
		Type:    t,
		Name:    name,
		Outputs: []graph.SocketType{value},
		IsVar:   true,
		Value:   value,
	}
}

// All lists the built-in kinds in type order.
var All = []*Kind{Generic, FloatVar, IntegerVar, BooleanVar, StringVar}

// Lookup returns the built-in kind for t.
func Lookup(t graph.NodeType) (*Kind, bool) {
	for _, k := range All {
		if k.Type == t {
			return k, true
		}
	}
	return nil, false
}

// Register adds every built-in kind to r.
func Register(r *graph.Registry) error {
	for _, k := range All {
		if err := r.Register(k.Type, k.Name, k.Spec); err != nil {
			return fmt.Errorf("register %s: %w", k.Name, err)
		}
	}
	return nil
}

// NewRegistry returns a registry holding the built-in kinds.
func NewRegistry() *graph.Registry {
	r := graph.NewRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
}

// ToSetter turns a variable node into its setter form: inputs exec and
// value, output exec. Edges on the old sockets are removed.
func ToSetter(s *graph.Scene, id graph.ID) error {
	k, err := varNode(s, id)
	if err != nil {
		return err
	}
	if err := s.ReinitSockets(id,
		[]graph.SocketType{graph.SocketExec, k.Value},
		[]graph.SocketType{graph.SocketExec},
	); err != nil {
		return err
	}
	return s.UpdateNode(id, func(n *graph.Node) { n.IsSetter = true })
}

// ToGetter turns a variable node into its getter form: a single value
// output. Edges on the old sockets are removed.
func ToGetter(s *graph.Scene, id graph.ID) error {
	k, err := varNode(s, id)
	if err != nil {
		return err
	}
	if err := s.ReinitSockets(id, nil, []graph.SocketType{k.Value}); err != nil {
		return err
	}
	return s.UpdateNode(id, func(n *graph.Node) { n.IsSetter = false })
}

// ToggleSetter switches a variable node between getter and setter form.
func ToggleSetter(s *graph.Scene, id graph.ID) error {
	n, ok := s.Node(id)
	if !ok {
		return errs.New(errs.ErrCodeNotFound, "node %d not found", id)
	}
	if n.IsSetter {
		return ToGetter(s, id)
	}
	return ToSetter(s, id)
}

func varNode(s *graph.Scene, id graph.ID) (*Kind, error) {
	n, ok := s.Node(id)
	if !ok {
		return nil, errs.New(errs.ErrCodeNotFound, "node %d not found", id)
	}
	if !n.IsVar {
		return nil, errs.New(errs.ErrCodeInvalidState, "node %d is not a variable node", id)
	}
	k, ok := Lookup(n.Type)
	if !ok || !k.IsVar {
		return nil, errs.New(errs.ErrCodeUnsupported, "node %d: no variable kind for type %d", id, n.Type)
	}
	return k, nil
}
