package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nodeweave/pkg/graph"
	"github.com/matzehuels/nodeweave/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node type, the node ID and the content keys to node
	// labels and names ports by socket type. When false, nodes show their
	// title and ports their index.
	Detailed bool
}

// Edge colors by socket type. Unknown types are drawn black.
var socketColors = map[graph.SocketType]string{
	graph.SocketExec:    "gray40",
	graph.SocketFloat:   "green4",
	graph.SocketInteger: "dodgerblue3",
	graph.SocketBoolean: "firebrick3",
	graph.SocketString:  "darkorchid3",
	graph.SocketHolder:  "darkorange2",
}

// ToDOT converts a scene to Graphviz DOT source. The result can be rendered
// with [RenderSVG], [RenderPDF] or [RenderPNG].
//
// Nodes become records named "n<ID>" with one port "s<ID>" per socket.
// Variable nodes are filled light yellow and setters additionally get a bold
// outline. Incomplete edges are skipped.
func ToDOT(s *graph.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=record, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes() {
		label := fmtLabel(s, n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges() {
		if !e.IsComplete() {
			continue
		}
		from, okFrom := s.NodeOf(e.Start)
		to, okTo := s.NodeOf(e.End)
		if !okFrom || !okTo {
			continue
		}
		color := "black"
		if sock, ok := s.Socket(e.Start); ok {
			if c, ok := socketColors[sock.Type]; ok {
				color = c
			}
		}
		fmt.Fprintf(&buf, "  n%d:s%d -> n%d:s%d [color=%s];\n", from.ID, e.Start, to.ID, e.End, color)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// fmtLabel builds a record label "{{inputs}|title|{outputs}}". With
// rankdir=LR the outer braces lay the three columns out horizontally.
func fmtLabel(s *graph.Scene, n *graph.Node, detailed bool) string {
	title := escapeRecord(n.Title)
	if detailed {
		parts := []string{
			title,
			escapeRecord(s.Registry().Name(n.Type)),
			"#" + n.ID.String(),
		}
		for _, k := range slices.Sorted(maps.Keys(n.Content)) {
			parts = append(parts, escapeRecord(fmt.Sprintf("%s: %v", k, n.Content[k])))
		}
		title = strings.Join(parts, `\n`)
	}

	return "{" + fmtPorts(s, n.Inputs, detailed) + "|" + title + "|" + fmtPorts(s, n.Outputs, detailed) + "}"
}

func fmtPorts(s *graph.Scene, ids []graph.ID, detailed bool) string {
	ports := make([]string, 0, len(ids))
	for _, id := range ids {
		sock, ok := s.Socket(id)
		if !ok {
			continue
		}
		name := strconv.Itoa(sock.Index)
		if detailed {
			name = sock.Type.String()
		}
		ports = append(ports, fmt.Sprintf("<s%d> %s", id, escapeRecord(name)))
	}
	return "{" + strings.Join(ports, "|") + "}"
}

func fmtAttrs(n *graph.Node, label string) []string {
	attrs := []string{`label="` + label + `"`}
	if n.IsVar {
		attrs = append(attrs, "fillcolor=lightyellow")
	}
	if n.IsSetter {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

var recordEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
	"\n", ` `,
)

// escapeRecord escapes text for use inside a quoted record label.
func escapeRecord(s string) string { return recordEscaper.Replace(s) }

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// viewBox starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given
// scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
