// Package clipboard implements cut, copy and paste of scene subgraphs.
//
// The payload is a regular document (see package io) restricted to the
// selected nodes and the edges running between them. Pasting assigns fresh
// IDs to every pasted entity and re-wires the pasted edges through the
// resolver hashmap, so a payload can be pasted any number of times into the
// scene it came from.
//
// Payloads travel through a [Buffer]: [MemoryBuffer] inside one process,
// [RedisBuffer] across processes.
package clipboard

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
	"github.com/matzehuels/nodeweave/pkg/graph"
	graphio "github.com/matzehuels/nodeweave/pkg/io"
	"github.com/matzehuels/nodeweave/pkg/observability"
)

// History descriptions recorded by clipboard operations.
const (
	DescCut   = "Cut out elements from scene"
	DescPaste = "Pasted elements in scene"
)

// Recorder stores history stamps. *history.History implements it.
type Recorder interface {
	StoreHistory(desc string, setModified bool)
}

// Clipboard serializes selections of a scene and pastes payloads into it.
type Clipboard struct {
	scene   *graph.Scene
	history Recorder
	log     *log.Logger
}

// New returns a clipboard for s recording into h. h may be nil.
func New(s *graph.Scene, h Recorder, logger *log.Logger) *Clipboard {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Clipboard{scene: s, history: h, log: logger}
}

// SerializeSelected returns a document of the selected nodes and every edge
// running between two of them. With del the selected nodes and edges are
// then removed from the scene as one history step.
func (c *Clipboard) SerializeSelected(del bool) *graphio.Document {
	selNodes := c.scene.SelectedNodes()
	var edges []graph.ID
	for _, e := range c.scene.Edges() {
		edges = append(edges, e.ID)
	}
	doc := graphio.SerializeItems(c.scene, selNodes, edges)
	if del {
		c.removeSelected()
	}
	return doc
}

// removeSelected deletes the selected edges and nodes as one history step.
// An empty selection records nothing.
func (c *Clipboard) removeSelected() {
	selEdges, selNodes := c.scene.SelectedEdges(), c.scene.SelectedNodes()
	if len(selEdges) == 0 && len(selNodes) == 0 {
		c.log.Debug("cut with empty selection")
		return
	}
	for _, id := range selEdges {
		c.scene.RemoveEdge(id)
	}
	for _, id := range selNodes {
		c.scene.RemoveNode(id)
	}
	c.record(DescCut)
}

// DeserializeFromClipboard pastes a payload at the positions it was copied
// from. See [Clipboard.PasteAt].
func (c *Clipboard) DeserializeFromClipboard(data []byte) (*graph.Fragment, error) {
	return c.paste(data, nil)
}

// PasteAt pastes a payload so that the bounding box of the pasted nodes is
// centred on center.
//
// Invalid JSON and payloads without "nodes" fail with MALFORMED_DOCUMENT;
// payloads with dangling edges fail with a structural error. Either way the
// scene is unchanged. On success the pasted nodes and edges become the
// selection and one history step is recorded.
func (c *Clipboard) PasteAt(data []byte, center graph.Point) (*graph.Fragment, error) {
	return c.paste(data, &center)
}

func (c *Clipboard) paste(data []byte, center *graph.Point) (*graph.Fragment, error) {
	doc, err := graphio.Parse(data)
	if err != nil {
		c.log.Warn("paste of invalid clipboard payload rejected", "err", err)
		return nil, err
	}
	if center != nil {
		recenter(doc, *center, c.scene.Metrics().Width)
	}

	f, err := graphio.Merge(c.scene, doc)
	if err != nil {
		c.log.Warn("paste rejected", "err", err)
		return nil, err
	}

	refs := make([]graph.ItemRef, 0, len(f.Nodes)+len(f.Edges))
	for _, id := range f.NodeIDs() {
		refs = append(refs, graph.NodeRef(id))
	}
	for _, e := range f.Edges {
		refs = append(refs, graph.EdgeRef(e.ID))
	}
	if err := c.scene.SelectOnly(refs...); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "select pasted items")
	}
	c.record(DescPaste)
	return f, nil
}

// recenter moves the document's nodes so their bounding box is centred on p.
func recenter(doc *graphio.Document, p graph.Point, width float64) {
	if len(doc.Nodes) == 0 {
		return
	}
	minX, minY := doc.Nodes[0].PosX, doc.Nodes[0].PosY
	maxX, maxY := minX, minY
	for _, n := range doc.Nodes[1:] {
		minX, maxX = min(minX, n.PosX), max(maxX, n.PosX)
		minY, maxY = min(minY, n.PosY), max(maxY, n.PosY)
	}
	dx := p.X - (minX+maxX+width)/2
	dy := p.Y - (minY+maxY)/2
	for i := range doc.Nodes {
		doc.Nodes[i].PosX += dx
		doc.Nodes[i].PosY += dy
	}
}

func (c *Clipboard) record(desc string) {
	if c.history != nil {
		c.history.StoreHistory(desc, true)
	}
}

// =============================================================================
// Buffer Round Trips
// =============================================================================

// Copy writes the selection to buf.
func (c *Clipboard) Copy(ctx context.Context, buf Buffer) error {
	return c.store(ctx, buf, false)
}

// Cut writes the selection to buf and removes it from the scene. The scene
// is only changed once buf holds the payload.
func (c *Clipboard) Cut(ctx context.Context, buf Buffer) error {
	return c.store(ctx, buf, true)
}

func (c *Clipboard) store(ctx context.Context, buf Buffer, del bool) error {
	doc := c.SerializeSelected(false)
	data, err := graphio.Marshal(doc)
	if err != nil {
		return err
	}
	if err := buf.Set(ctx, data); err != nil {
		c.log.Warn("clipboard write failed, selection kept", "err", err)
		return err
	}
	if del {
		c.removeSelected()
	}
	observability.Clipboard().OnCopy(ctx, len(doc.Nodes), len(doc.Edges), del)
	return nil
}

// Paste reads buf and pastes its payload, centred on at when non-nil.
func (c *Clipboard) Paste(ctx context.Context, buf Buffer, at *graph.Point) (*graph.Fragment, error) {
	data, err := buf.Get(ctx)
	if err != nil {
		return nil, err
	}
	f, err := c.paste(data, at)
	if err != nil {
		observability.Clipboard().OnPaste(ctx, 0, 0, err)
		return nil, err
	}
	observability.Clipboard().OnPaste(ctx, len(f.Nodes), len(f.Edges), nil)
	return f, nil
}
