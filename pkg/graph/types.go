package graph

import (
	"fmt"
	"strconv"
)

// =============================================================================
// Identity
// =============================================================================

// ID identifies a node, socket or edge. All three share one ID space within
// a scene, so an ID alone is enough to find any entity.
type ID int64

// NoID is the zero ID. It marks an unset edge endpoint.
const NoID ID = 0

// String returns the decimal form of the ID.
func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// =============================================================================
// Geometry
// =============================================================================

// Point is a position in scene coordinates.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// DistSq returns the squared Euclidean distance between p and q.
func (p Point) DistSq(q Point) float64 {
	d := p.Sub(q)
	return d.X*d.X + d.Y*d.Y
}

// =============================================================================
// Socket Position
// =============================================================================

// Position places a socket on one of six anchor points of its node.
// The numeric values are part of the document format.
type Position int

const (
	LeftTop Position = iota + 1
	LeftCenter
	LeftBottom
	RightTop
	RightCenter
	RightBottom
)

var positionNames = map[Position]string{
	LeftTop:     "left-top",
	LeftCenter:  "left-center",
	LeftBottom:  "left-bottom",
	RightTop:    "right-top",
	RightCenter: "right-center",
	RightBottom: "right-bottom",
}

// Valid reports whether p is one of the six known positions.
func (p Position) Valid() bool { return p >= LeftTop && p <= RightBottom }

// IsLeft reports whether p is on the left edge of the node.
func (p Position) IsLeft() bool { return p >= LeftTop && p <= LeftBottom }

// IsRight reports whether p is on the right edge of the node.
func (p Position) IsRight() bool { return p >= RightTop && p <= RightBottom }

func (p Position) String() string {
	if s, ok := positionNames[p]; ok {
		return s
	}
	return fmt.Sprintf("position(%d)", int(p))
}

// =============================================================================
// Socket Type
// =============================================================================

// SocketType tags the kind of value a socket carries. Renderers map it to
// a color and a shape.
type SocketType int

const (
	SocketExec SocketType = iota
	SocketFloat
	SocketInteger
	SocketBoolean
	SocketString
	SocketHolder
)

var socketTypeNames = map[SocketType]string{
	SocketExec:    "exec",
	SocketFloat:   "float",
	SocketInteger: "integer",
	SocketBoolean: "boolean",
	SocketString:  "string",
	SocketHolder:  "holder",
}

func (t SocketType) String() string {
	if s, ok := socketTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("socket-type(%d)", int(t))
}

// NodeType tags the kind of a node. It selects the constructor in a
// [Registry] and is stored in documents as "node_type".
type NodeType int

// =============================================================================
// Item References
// =============================================================================

// ItemKind distinguishes selectable items.
type ItemKind int

const (
	ItemNode ItemKind = iota
	ItemEdge
)

func (k ItemKind) String() string {
	if k == ItemEdge {
		return "edge"
	}
	return "node"
}

// ItemRef names a selectable item (node or edge) of a scene.
type ItemRef struct {
	Kind ItemKind
	ID   ID
}

// NodeRef returns a reference to the node with the given ID.
func NodeRef(id ID) ItemRef { return ItemRef{Kind: ItemNode, ID: id} }

// EdgeRef returns a reference to the edge with the given ID.
func EdgeRef(id ID) ItemRef { return ItemRef{Kind: ItemEdge, ID: id} }

func (r ItemRef) String() string { return fmt.Sprintf("%s#%d", r.Kind, r.ID) }

// =============================================================================
// Change Notifications
// =============================================================================

// ChangeKind describes a structural mutation of a scene.
type ChangeKind int

const (
	NodeAdded ChangeKind = iota
	NodeRemoved
	NodeMoved
	NodeUpdated
	EdgeAdded
	EdgeRemoved
	EdgeUpdated
	SocketUpdated
	SceneReplaced
)

var changeNames = map[ChangeKind]string{
	NodeAdded:     "node-added",
	NodeRemoved:   "node-removed",
	NodeMoved:     "node-moved",
	NodeUpdated:   "node-updated",
	EdgeAdded:     "edge-added",
	EdgeRemoved:   "edge-removed",
	EdgeUpdated:   "edge-updated",
	SocketUpdated: "socket-updated",
	SceneReplaced: "scene-replaced",
}

func (k ChangeKind) String() string { return changeNames[k] }

// Change is delivered to change listeners after every structural mutation.
type Change struct {
	Kind ChangeKind
	ID   ID // affected entity, NoID for SceneReplaced
}
