package interact

import "github.com/matzehuels/nodeweave/pkg/graph"

// TargetKind classifies what lies under the pointer.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetSocket
	TargetNode
	TargetEdge
)

var targetNames = [...]string{"none", "socket", "node", "edge"}

func (k TargetKind) String() string {
	if k < 0 || int(k) >= len(targetNames) {
		return "unknown"
	}
	return targetNames[k]
}

// Target is the item under the pointer at the time of a gesture.
type Target struct {
	Kind TargetKind
	ID   graph.ID
}

// NoTarget is the empty canvas.
var NoTarget = Target{}

// SocketTarget returns the target for a socket.
func SocketTarget(id graph.ID) Target { return Target{Kind: TargetSocket, ID: id} }

// NodeTarget returns the target for a node body.
func NodeTarget(id graph.ID) Target { return Target{Kind: TargetNode, ID: id} }

// HitTester resolves scene positions to targets. A GUI typically implements
// it on top of its own item picking.
type HitTester interface {
	HitTest(p graph.Point) Target
}

// GeometryHitTester resolves targets from the scene's node metrics.
// Sockets take precedence over node bodies. Edges are never reported.
type GeometryHitTester struct {
	Scene *graph.Scene
}

// HitTest implements [HitTester].
func (g GeometryHitTester) HitTest(p graph.Point) Target {
	if id, ok := g.Scene.SocketAt(p); ok {
		return SocketTarget(id)
	}
	if id, ok := g.Scene.NodeAt(p); ok {
		return NodeTarget(id)
	}
	return NoTarget
}

var _ HitTester = GeometryHitTester{}
