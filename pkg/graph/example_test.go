package graph_test

import (
	"fmt"

	"github.com/matzehuels/nodeweave/pkg/graph"
)

func Example() {
	reg := graph.NewRegistry()
	reg.MustRegister(1, "value", func() graph.NodeSpec {
		return graph.NodeSpec{Title: "Value", Outputs: []graph.SocketType{graph.SocketFloat}}
	})
	reg.MustRegister(2, "print", func() graph.NodeSpec {
		return graph.NodeSpec{Title: "Print", Inputs: []graph.SocketType{graph.SocketFloat}}
	})

	s := graph.New(graph.WithRegistry(reg))
	a, _ := s.NewNode(1, "", graph.Point{})
	b, _ := s.NewNode(1, "", graph.Point{Y: 100})
	p, _ := s.NewNode(2, "", graph.Point{X: 300})

	_, _ = s.Connect(a.Outputs[0], p.Inputs[0])
	// The print input accepts one edge, so this replaces the first one.
	_, _ = s.Connect(b.Outputs[0], p.Inputs[0])

	in, _ := s.Socket(p.Inputs[0])
	fmt.Println("edges in scene:", s.EdgeCount())
	fmt.Println("edges on input:", in.EdgeCount())
	fmt.Println("valid:", s.Validate() == nil)
	// Output:
	// edges in scene: 1
	// edges on input: 1
	// valid: true
}

func ExampleScene_RemoveEdge() {
	reg := graph.NewRegistry()
	reg.MustRegister(1, "pass", func() graph.NodeSpec {
		return graph.NodeSpec{
			Inputs:  []graph.SocketType{graph.SocketExec},
			Outputs: []graph.SocketType{graph.SocketExec},
		}
	})
	s := graph.New(graph.WithRegistry(reg))
	a, _ := s.NewNode(1, "a", graph.Point{})
	b, _ := s.NewNode(1, "b", graph.Point{X: 300})
	e, _ := s.Connect(a.Outputs[0], b.Inputs[0])

	fmt.Println(s.RemoveEdge(e.ID))
	fmt.Println(s.RemoveEdge(e.ID))
	// Output:
	// true
	// false
}
