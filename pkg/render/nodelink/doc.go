// Package nodelink renders scenes as node-link diagrams.
//
// # Overview
//
// Each node becomes a Graphviz record with three columns: the input ports,
// the title and the output ports. Edges connect ports, so a diagram shows
// exactly which socket feeds which, colored by the source socket type.
// Graphviz computes its own layout; node positions stored in the scene are
// not used.
//
// # Usage
//
//	dot := nodelink.ToDOT(scene, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
