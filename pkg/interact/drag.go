// Package interact turns discrete pointer gestures into scene edits.
//
// The only interaction with state is dragging a new edge out of a socket.
// [EdgeDragger] receives press and release gestures together with a hit-test
// [Target] and either consumes them (handled) or lets them fall through to
// whatever the caller does by default, such as rubber-band selection or
// node moves.
//
// A drag starts with a primary press on a socket and ends with either a
// second primary press (click-click) or a primary release far enough from
// the last press (press-drag-release). Releases within the threshold are
// ignored so that a plain click on a socket leaves the drag running.
package interact

import (
	"io"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
	"github.com/matzehuels/nodeweave/pkg/graph"
)

// DefaultThreshold is the distance a release must travel from the last
// press to end a drag.
const DefaultThreshold = 10.0

// DescEdgeCreated is the history description of a finalized drag.
const DescEdgeCreated = "Created new edge by dragging"

// Mode is the state of an [EdgeDragger].
type Mode int

const (
	ModeNoop Mode = iota
	ModeEdgeDrag
)

func (m Mode) String() string {
	if m == ModeEdgeDrag {
		return "edge-drag"
	}
	return "noop"
}

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Recorder stores history stamps. *history.History implements it.
type Recorder interface {
	StoreHistory(desc string, setModified bool)
}

// Option configures an [EdgeDragger].
type Option func(*EdgeDragger)

// WithThreshold sets the release distance that ends a drag. Non-positive
// values are ignored.
func WithThreshold(t float64) Option {
	return func(d *EdgeDragger) {
		if t > 0 {
			d.threshold = t
		}
	}
}

// WithLogger sets the logger for cancelled and rejected drags.
func WithLogger(l *log.Logger) Option {
	return func(d *EdgeDragger) {
		if l != nil {
			d.log = l
		}
	}
}

// EdgeDragger is the edge-drag state machine of a scene view.
type EdgeDragger struct {
	scene     *graph.Scene
	history   Recorder
	log       *log.Logger
	threshold float64

	mode      Mode
	lastPress graph.Point
	cursor    graph.Point
	pending   *graph.Edge
}

// New returns a dragger editing s and recording into h. h may be nil.
func New(s *graph.Scene, h Recorder, opts ...Option) *EdgeDragger {
	d := &EdgeDragger{
		scene:     s,
		history:   h,
		log:       log.New(io.Discard),
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Mode returns the current state.
func (d *EdgeDragger) Mode() Mode { return d.mode }

// Threshold returns the configured drag threshold.
func (d *EdgeDragger) Threshold() float64 { return d.threshold }

// Pending returns the edge being dragged, which has only its start socket
// set and is not part of the scene, or nil outside a drag.
func (d *EdgeDragger) Pending() *graph.Edge { return d.pending }

// Cursor returns the last pointer position seen during a drag.
func (d *EdgeDragger) Cursor() graph.Point { return d.cursor }

// Move updates the free end of the pending edge.
func (d *EdgeDragger) Move(pos graph.Point) {
	if d.mode == ModeEdgeDrag {
		d.cursor = pos
	}
}

// Press handles a button press at pos over target and reports whether the
// gesture was consumed.
func (d *EdgeDragger) Press(b Button, pos graph.Point, target Target) (bool, error) {
	if b != ButtonLeft {
		return false, nil
	}
	d.lastPress = pos

	if d.mode == ModeEdgeDrag {
		return d.end(target)
	}
	if target.Kind != TargetSocket {
		return false, nil
	}
	if _, ok := d.scene.Socket(target.ID); !ok {
		return false, errs.New(errs.ErrCodeNotFound, "socket %d not found", target.ID)
	}
	d.mode = ModeEdgeDrag
	d.cursor = pos
	d.pending = &graph.Edge{Start: target.ID}
	d.log.Debug("edge drag started", "socket", target.ID)
	return true, nil
}

// Release handles a button release at pos over target and reports whether
// the gesture was consumed.
func (d *EdgeDragger) Release(b Button, pos graph.Point, target Target) (bool, error) {
	if b != ButtonLeft || d.mode != ModeEdgeDrag {
		return false, nil
	}
	if pos.DistSq(d.lastPress) <= d.threshold*d.threshold {
		return false, nil
	}
	return d.end(target)
}

// Cancel abandons a running drag.
func (d *EdgeDragger) Cancel() {
	if d.mode == ModeEdgeDrag {
		d.log.Debug("edge drag cancelled")
	}
	d.reset()
}

func (d *EdgeDragger) reset() {
	d.mode = ModeNoop
	d.pending = nil
}

// end leaves the drag over target. Over a socket the gesture is consumed
// whether or not an edge results.
func (d *EdgeDragger) end(target Target) (bool, error) {
	e := d.pending
	d.reset()

	if target.Kind != TargetSocket {
		d.log.Debug("edge drag ended off socket", "target", target.Kind)
		return false, nil
	}
	from, ok := d.scene.Socket(e.Start)
	if !ok {
		d.log.Debug("edge drag start socket vanished", "socket", e.Start)
		return true, nil
	}
	to, ok := d.scene.Socket(target.ID)
	if !ok {
		return true, errs.New(errs.ErrCodeNotFound, "socket %d not found", target.ID)
	}
	if !canConnect(from, to) {
		d.log.Debug("edge drag rejected", "from", from, "to", to)
		return true, nil
	}

	if err := e.Connect(to.ID); err != nil {
		return true, err
	}
	if from.IsInput {
		e.Start, e.End = e.End, e.Start
	}
	if err := d.scene.AddEdge(e); err != nil {
		return true, err
	}
	if d.history != nil {
		d.history.StoreHistory(DescEdgeCreated, true)
	}
	return true, nil
}

func canConnect(from, to *graph.Socket) bool {
	return from.ID != to.ID && from.Node != to.Node && from.IsInput != to.IsInput
}
