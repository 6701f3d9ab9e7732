package graph

import (
	"fmt"
	"maps"
	"slices"
)

// Content stores the opaque, node-type-specific payload of a node, such as
// the literal value of a constant node or the name of a variable. The scene
// never interprets it; it is carried through serialization unchanged.
type Content map[string]any

// Clone returns a shallow copy of c. A nil Content clones to an empty map.
func (c Content) Clone() Content {
	if c == nil {
		return Content{}
	}
	return maps.Clone(c)
}

// Node is a titled box on the canvas owning ordered input and output sockets.
//
// Inputs and Outputs hold socket IDs in index order. The sockets themselves
// live in the scene and are reached with [Scene.Socket]. A node exclusively
// owns its sockets: removing the node removes them.
//
// The zero value is not usable; nodes are created by [Scene.NewNode],
// [Scene.CreateNode] or inserted from a deserialized [Fragment].
type Node struct {
	ID       ID
	Type     NodeType
	Title    string
	Pos      Point
	Inputs   []ID
	Outputs  []ID
	IsVar    bool    // variable node that toggles between getter and setter
	IsSetter bool    // setter form of a variable node
	Content  Content // node-type specific payload (never nil after insertion)
}

// Sockets returns the IDs of all sockets of the node, inputs first.
func (n *Node) Sockets() []ID {
	return slices.Concat(n.Inputs, n.Outputs)
}

// HasSocket reports whether the node owns the socket.
func (n *Node) HasSocket(id ID) bool {
	return slices.Contains(n.Inputs, id) || slices.Contains(n.Outputs, id)
}

func (n *Node) String() string {
	return fmt.Sprintf("<Node %q id=%d type=%d>", n.Title, n.ID, n.Type)
}

// =============================================================================
// Socket Geometry
// =============================================================================

// Metrics holds the node-local geometry used to place sockets. The values
// only affect the computed socket positions; nothing in the scene depends
// on a particular renderer.
type Metrics struct {
	Width         float64 // node width
	TitleHeight   float64 // height of the title bar
	TitlePadding  float64 // vertical padding below the title bar
	EdgeRoundness float64 // corner radius of the node box
	SocketSpacing float64 // vertical distance between sockets
	SocketRadius  float64 // hit radius around a socket center
}

// DefaultMetrics are the metrics used when a scene is created without
// [WithMetrics].
var DefaultMetrics = Metrics{
	Width:         180,
	TitleHeight:   24,
	TitlePadding:  4,
	EdgeRoundness: 10,
	SocketSpacing: 22,
	SocketRadius:  8,
}

// NodeHeight returns the height of n: the title bar plus room for the
// taller of its two socket columns.
func (m Metrics) NodeHeight(n *Node) float64 {
	rows := max(len(n.Inputs), len(n.Outputs), 1)
	return m.TitleHeight + 2*m.TitlePadding + m.EdgeRoundness + float64(rows)*m.SocketSpacing
}

// SocketOffset returns the position of a socket relative to its node's
// origin. count is the number of sockets sharing the socket's anchor and
// direction; height is the node height.
func (m Metrics) SocketOffset(index int, pos Position, count int, height float64) Point {
	x := 0.0
	if pos.IsRight() {
		x = m.Width
	}

	var y float64
	switch pos {
	case LeftBottom, RightBottom:
		y = height - m.EdgeRoundness - m.TitlePadding - float64(index)*m.SocketSpacing
	case LeftCenter, RightCenter:
		top := m.TitleHeight + 2*m.TitlePadding + m.EdgeRoundness
		available := height - top
		y = top + available/2 + (float64(index)-0.5)*m.SocketSpacing
		if count > 1 {
			y -= m.SocketSpacing * float64(count-1) / 2
		}
	default:
		y = m.TitleHeight + m.TitlePadding + m.EdgeRoundness + float64(index)*m.SocketSpacing
	}
	return Point{X: x, Y: y}
}
