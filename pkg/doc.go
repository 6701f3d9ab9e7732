// Package pkg provides the core libraries of nodeweave, a headless node-graph
// editor.
//
// # Overview
//
// A scene holds nodes, their typed input and output sockets and the edges
// between sockets. Everything else in pkg edits, records, moves or draws a
// scene. The pkg directory is organized into four areas:
//
//  1. Model - [graph], [nodes]
//  2. Editing - [interact], [history], [clipboard], [editor]
//  3. Persistence - [io], [store], [config]
//  4. Output - [render], [render/nodelink], [cache]
//
// # Architecture
//
// The typical data flow of one edit:
//
//	pointer events / commands
//	         ↓
//	    [interact] edge drag state machine
//	         ↓
//	    [graph] scene mutation (invariants checked here)
//	         ↓
//	    [history] snapshot via [io] serialization
//	         ↓
//	    [editor] save, autosave, [store] push
//
// # Quick Start
//
// Build a scene, connect two nodes and write it to a file:
//
//	import (
//	    "github.com/matzehuels/nodeweave/pkg/graph"
//	    graphio "github.com/matzehuels/nodeweave/pkg/io"
//	    "github.com/matzehuels/nodeweave/pkg/nodes"
//	)
//
//	s := graph.New(graph.WithRegistry(nodes.NewRegistry()))
//	speed, _ := s.NewNode(nodes.TypeVarFloat, "speed", graph.Point{})
//	sum, _ := s.NewNode(nodes.TypeGeneric, "sum", graph.Point{X: 300})
//	s.Connect(speed.Outputs[0], sum.Inputs[0])
//
//	graphio.ExportJSON(graphio.Serialize(s), "graph.json")
//
// # Main Packages
//
// [graph] - Scene, nodes, sockets and edges. The scene is the only place
// that mutates the graph and it keeps socket edge lists and edge endpoints
// consistent.
//
// [nodes] - The built-in node kinds: a generic node and one variable node
// per value type, with getter and setter forms.
//
// [interact] - The edge drag state machine and socket hit testing.
//
// [history] - Bounded snapshot undo and redo with selection restore.
//
// [io] - The JSON document format and the two-phase deserializer that maps
// document IDs to live IDs.
//
// [clipboard] - Copy, cut and paste of selections with fresh IDs, backed by
// an in-process or Redis buffer.
//
// [editor] - An editing session: the scene plus history, dragger, clipboard,
// file binding and autosave.
//
// [store] - Named document storage on the file system, Redis, SQLite or
// MongoDB.
//
// [config] - The TOML settings file.
//
// [render/nodelink] - Graphviz node-link diagrams of a scene.
//
// [render] - SVG to PDF and PNG conversion.
//
// [cache] - Content-addressed cache for rendered artifacts.
//
// [observability] - Hooks for load, save, history and clipboard events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/graph/...              # Specific package
//	go test -run Example                 # Examples only
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/nodeweave/pkg/graph
// [nodes]: https://pkg.go.dev/github.com/matzehuels/nodeweave/pkg/nodes
// [interact]: https://pkg.go.dev/github.com/matzehuels/nodeweave/pkg/interact
// [history]: https://pkg.go.dev/github.com/matzehuels/nodeweave/pkg/history
// [io]: https://pkg.go.dev/github.com/matzehuels/nodeweave/pkg/io
// [clipboard]: https://pkg.go.dev/github.com/matzehuels/nodeweave/pkg/clipboard
// [editor]: https://pkg.go.dev/github.com/matzehuels/nodeweave/pkg/editor
// [store]: https://pkg.go.dev/github.com/matzehuels/nodeweave/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/nodeweave/pkg/config
// [render]: https://pkg.go.dev/github.com/matzehuels/nodeweave/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/nodeweave/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/nodeweave/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/nodeweave/pkg/observability
package pkg
