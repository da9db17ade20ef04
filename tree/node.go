package tree

import (
	"github.com/google/uuid"

	"mindterm/geometry"
)

// NodeID identifies a node. Ids are never reused within a tree.
type NodeID string

// NewID returns a random UUID-backed id.
func NewID() NodeID {
	return NodeID(uuid.NewString())
}

// Node is a single mind-map element.
type Node struct {
	ID         NodeID
	Content    string
	StyleClass string
	Size       geometry.Size
	Position   geometry.Point
	IsRoot     bool
	ParentID   NodeID
	ChildIDs   []NodeID
}

// Rect returns the node's box.
func (n Node) Rect() geometry.Rect {
	return geometry.RectAt(n.Position, n.Size)
}

// HasChildren reports whether the node has at least one child.
func (n Node) HasChildren() bool {
	return len(n.ChildIDs) > 0
}

func (n *Node) clone() *Node {
	c := *n
	if n.ChildIDs != nil {
		c.ChildIDs = append([]NodeID(nil), n.ChildIDs...)
	}
	return &c
}

// EdgeKey identifies the parent→child edge.
type EdgeKey struct {
	Source NodeID
	Target NodeID
}

// Edge is the derived connector between a parent and one of its children.
type Edge struct {
	Source    NodeID
	Target    NodeID
	Waypoints []geometry.Point
}

// Key returns the edge's identity.
func (e Edge) Key() EdgeKey {
	return EdgeKey{Source: e.Source, Target: e.Target}
}
