// Package editor ties a scene to its history, clipboard and edge dragger
// and adds the file handling of an editing session.
//
// Every mutating method of [Editor] goes through one chokepoint that
// applies the change and then records a history stamp, so an editor-driven
// scene can always be undone step by step. Methods that fail leave both the
// scene and the history unchanged.
//
// # Files
//
// An editor is bound to at most one file path. [Editor.Save] writes to it;
// files inside an AutoSave folder are never overwritten that way, callers
// must pick a real location with [Editor.SaveAs]. [Editor.AutoSave] writes a
// recovery copy to <project>/AutoSave/<name>.json without touching the path
// or the modified flag.
package editor

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodeweave/pkg/clipboard"
	"github.com/matzehuels/nodeweave/pkg/config"
	errs "github.com/matzehuels/nodeweave/pkg/errors"
	"github.com/matzehuels/nodeweave/pkg/graph"
	"github.com/matzehuels/nodeweave/pkg/history"
	"github.com/matzehuels/nodeweave/pkg/interact"
	"github.com/matzehuels/nodeweave/pkg/nodes"
	"github.com/matzehuels/nodeweave/pkg/observability"
)

// History descriptions of editor operations.
const (
	DescAddNode      = "Added node"
	DescRemoveNode   = "Removed node"
	DescConnect      = "Connected sockets"
	DescRemoveEdge   = "Removed edge"
	DescMove         = "Node moved"
	DescRename       = "Renamed node"
	DescDelete       = "Delete selected"
	DescToggleSetter = "Toggled variable setter"
)

// Options configures an [Editor]. Zero values select the defaults.
type Options struct {
	Registry      *graph.Registry  // default nodes.NewRegistry()
	Renderer      graph.Renderer   // default graph.NopRenderer
	Clipboard     clipboard.Buffer // default in-process buffer
	HistoryLimit  int
	DragThreshold float64
	AutosaveEdits int // stamps between autosaves, 0 disables
	ProjectDir    string
	Logger        *log.Logger
}

// OptionsFromConfig returns the options described by cfg.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	dir, err := cfg.ProjectDir()
	if err != nil {
		return Options{}, err
	}
	return Options{
		HistoryLimit:  cfg.Editor.HistoryLimit,
		DragThreshold: cfg.Editor.DragThreshold,
		AutosaveEdits: cfg.Editor.AutosaveEdits,
		ProjectDir:    dir,
	}, nil
}

// Editor is one editing session. It is not safe for concurrent use.
type Editor struct {
	scene   *graph.Scene
	history *history.History
	clip    *clipboard.Clipboard
	drag    *interact.EdgeDragger
	buf     clipboard.Buffer
	log     *log.Logger

	path          string
	projectDir    string
	autosaveEvery int
	sinceAutosave int
}

// New returns an editor on an empty scene.
func New(opts Options) *Editor {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	reg := opts.Registry
	if reg == nil {
		reg = nodes.NewRegistry()
	}
	buf := opts.Clipboard
	if buf == nil {
		buf = clipboard.NewMemoryBuffer()
	}
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = history.DefaultLimit
	}

	sceneOpts := []graph.Option{graph.WithRegistry(reg), graph.WithLogger(logger)}
	if opts.Renderer != nil {
		sceneOpts = append(sceneOpts, graph.WithRenderer(opts.Renderer))
	}
	s := graph.New(sceneOpts...)
	h := history.New(s, history.WithLimit(limit), history.WithLogger(logger))

	e := &Editor{
		scene:         s,
		history:       h,
		clip:          clipboard.New(s, h, logger),
		drag:          interact.New(s, h, interact.WithThreshold(opts.DragThreshold), interact.WithLogger(logger)),
		buf:           buf,
		log:           logger,
		projectDir:    opts.ProjectDir,
		autosaveEvery: opts.AutosaveEdits,
	}
	h.OnStored(e.stored)
	e.resetHistory()
	return e
}

// Scene returns the edited scene. Mutating it directly bypasses history.
func (e *Editor) Scene() *graph.Scene { return e.scene }

// History returns the undo stack.
func (e *Editor) History() *history.History { return e.history }

// Dragger returns the edge-drag state machine. Edges it creates are
// recorded in the history.
func (e *Editor) Dragger() *interact.EdgeDragger { return e.drag }

// Clipboard returns the clipboard of the scene.
func (e *Editor) Clipboard() *clipboard.Clipboard { return e.clip }

// Buffer returns the clipboard buffer used by Cut, Copy and Paste.
func (e *Editor) Buffer() clipboard.Buffer { return e.buf }

// Logger returns the editor's logger.
func (e *Editor) Logger() *log.Logger { return e.log }

func (e *Editor) stored(h *history.History) {
	e.sinceAutosave++
	if st, ok := h.Current(); ok {
		observability.Editor().OnEdit(context.Background(), st.Desc, h.Len())
	}
}

// resetHistory replaces the history with a baseline of the current scene.
func (e *Editor) resetHistory() {
	e.history.Clear()
	e.history.StoreInitialStamp()
	e.sinceAutosave = 0
}

// apply runs fn and records desc when it succeeds.
func (e *Editor) apply(desc string, fn func() error) error {
	if err := fn(); err != nil {
		return err
	}
	e.history.StoreHistory(desc, true)
	return nil
}

// =============================================================================
// Editing
// =============================================================================

// AddNode creates a node of a registered type at pos.
func (e *Editor) AddNode(t graph.NodeType, title string, pos graph.Point) (*graph.Node, error) {
	var n *graph.Node
	err := e.apply(DescAddNode, func() error {
		var err error
		n, err = e.scene.NewNode(t, title, pos)
		return err
	})
	return n, err
}

// RemoveNode removes a node and its edges.
func (e *Editor) RemoveNode(id graph.ID) error {
	return e.apply(DescRemoveNode, func() error {
		if !e.scene.RemoveNode(id) {
			return errs.New(errs.ErrCodeNotFound, "node %d not found", id)
		}
		return nil
	})
}

// Connect adds an edge from start to end.
func (e *Editor) Connect(start, end graph.ID) (*graph.Edge, error) {
	var edge *graph.Edge
	err := e.apply(DescConnect, func() error {
		var err error
		edge, err = e.scene.Connect(start, end)
		return err
	})
	return edge, err
}

// RemoveEdge removes an edge.
func (e *Editor) RemoveEdge(id graph.ID) error {
	return e.apply(DescRemoveEdge, func() error {
		if !e.scene.RemoveEdge(id) {
			return errs.New(errs.ErrCodeNotFound, "edge %d not found", id)
		}
		return nil
	})
}

// MoveNodes moves every node in ids by delta as one step.
func (e *Editor) MoveNodes(ids []graph.ID, delta graph.Point) error {
	for _, id := range ids {
		if _, ok := e.scene.Node(id); !ok {
			return errs.New(errs.ErrCodeNotFound, "node %d not found", id)
		}
	}
	return e.apply(DescMove, func() error {
		for _, id := range ids {
			n, _ := e.scene.Node(id)
			if err := e.scene.MoveNode(id, n.Pos.Add(delta)); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetTitle renames a node.
func (e *Editor) SetTitle(id graph.ID, title string) error {
	return e.apply(DescRename, func() error { return e.scene.SetTitle(id, title) })
}

// DeleteSelected removes the selected edges and nodes. With nothing
// selected it does nothing.
func (e *Editor) DeleteSelected() error {
	selEdges, selNodes := e.scene.SelectedEdges(), e.scene.SelectedNodes()
	if len(selEdges) == 0 && len(selNodes) == 0 {
		e.log.Debug("delete with empty selection")
		return nil
	}
	return e.apply(DescDelete, func() error {
		for _, id := range selEdges {
			e.scene.RemoveEdge(id)
		}
		for _, id := range selNodes {
			e.scene.RemoveNode(id)
		}
		return nil
	})
}

// ToggleSetter switches a variable node between getter and setter form.
func (e *Editor) ToggleSetter(id graph.ID) error {
	return e.apply(DescToggleSetter, func() error { return nodes.ToggleSetter(e.scene, id) })
}

// Select replaces the selection and commits it.
func (e *Editor) Select(refs ...graph.ItemRef) error {
	if err := e.scene.SelectOnly(refs...); err != nil {
		return err
	}
	e.scene.CommitSelection()
	return nil
}

// =============================================================================
// History
// =============================================================================

// Undo restores the previous stamp. At the oldest stamp it does nothing.
func (e *Editor) Undo(ctx context.Context) error {
	if !e.history.CanUndo() {
		return nil
	}
	if err := e.history.Undo(); err != nil {
		return err
	}
	observability.Editor().OnUndo(ctx, e.history.Cursor())
	return nil
}

// Redo restores the next stamp. At the newest stamp it does nothing.
func (e *Editor) Redo(ctx context.Context) error {
	if !e.history.CanRedo() {
		return nil
	}
	if err := e.history.Redo(); err != nil {
		return err
	}
	observability.Editor().OnRedo(ctx, e.history.Cursor())
	return nil
}

// =============================================================================
// Clipboard
// =============================================================================

// Copy writes the selection to the clipboard buffer.
func (e *Editor) Copy(ctx context.Context) error { return e.clip.Copy(ctx, e.buf) }

// Cut writes the selection to the clipboard buffer and removes it.
func (e *Editor) Cut(ctx context.Context) error { return e.clip.Cut(ctx, e.buf) }

// Paste pastes the clipboard buffer, centred on at when non-nil.
func (e *Editor) Paste(ctx context.Context, at *graph.Point) (*graph.Fragment, error) {
	return e.clip.Paste(ctx, e.buf, at)
}
