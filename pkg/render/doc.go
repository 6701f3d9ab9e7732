// Package render turns scenes into pictures.
//
// The [nodelink] subpackage draws a scene as a Graphviz diagram: every node
// is a record with its input ports on the left and its output ports on the
// right, and every edge runs from an output port to an input port.
//
//	dot := nodelink.ToDOT(scene, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [ToPDF] and [ToPNG] convert any SVG to other formats with the external
// rsvg-convert tool (from librsvg).
//
// [nodelink]: github.com/matzehuels/nodeweave/pkg/render/nodelink
package render
