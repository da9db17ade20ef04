// Package tree is the mind-map data model: an id-indexed arena of nodes with
// ordered child lists and a single root. All parent/child references are ids;
// callers only ever receive copies of the records.
package tree

import (
	"fmt"

	"mindterm/geometry"
)

// Tree is a rooted, ordered tree. It is not safe for concurrent use.
type Tree struct {
	nodes     map[NodeID]*Node
	root      NodeID
	waypoints map[NodeID][]geometry.Point // keyed by edge target
	newID     func() NodeID
}

// Option configures a Tree.
type Option func(*Tree)

// WithIDGenerator replaces the UUID id generator, mostly for tests that want
// readable ids.
func WithIDGenerator(gen func() NodeID) Option {
	return func(t *Tree) {
		t.newID = gen
	}
}

// New creates a tree holding only a root labelled rootContent.
func New(rootContent string, opts ...Option) *Tree {
	t := &Tree{
		nodes:     make(map[NodeID]*Node),
		waypoints: make(map[NodeID][]geometry.Point),
		newID:     NewID,
	}
	for _, opt := range opts {
		opt(t)
	}
	id := t.newID()
	t.nodes[id] = &Node{ID: id, Content: rootContent, StyleClass: geometry.RootClass, IsRoot: true}
	t.root = id
	return t
}

// NewWithRoot creates a tree whose root is a copy of root. Its id is kept if
// set; children and parent fields are ignored.
func NewWithRoot(root Node, opts ...Option) *Tree {
	t := &Tree{
		nodes:     make(map[NodeID]*Node),
		waypoints: make(map[NodeID][]geometry.Point),
		newID:     NewID,
	}
	for _, opt := range opts {
		opt(t)
	}
	if root.ID == "" {
		root.ID = t.newID()
	}
	root.IsRoot = true
	root.ParentID = ""
	root.ChildIDs = nil
	t.nodes[root.ID] = &root
	t.root = root.ID
	return t
}

// Root returns the root id.
func (t *Tree) Root() NodeID {
	return t.root
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// NewID returns a fresh id from the tree's generator.
func (t *Tree) NewID() NodeID {
	return t.newID()
}

// Has reports whether id names a node.
func (t *Tree) Has(id NodeID) bool {
	_, ok := t.nodes[id]
	return ok
}

// Node returns a copy of the node.
func (t *Tree) Node(id NodeID) (Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *n.clone(), nil
}

// Nodes returns copies of every node in pre-order.
func (t *Tree) Nodes() []Node {
	out := make([]Node, 0, len(t.nodes))
	t.walk(t.root, func(n *Node) {
		out = append(out, *n.clone())
	})
	return out
}

// IDs returns every node id in pre-order.
func (t *Tree) IDs() []NodeID {
	out := make([]NodeID, 0, len(t.nodes))
	t.walk(t.root, func(n *Node) {
		out = append(out, n.ID)
	})
	return out
}

// Edges returns the derived parent→child edges in pre-order of the target.
func (t *Tree) Edges() []Edge {
	out := make([]Edge, 0, len(t.nodes))
	t.walk(t.root, func(n *Node) {
		for _, childID := range n.ChildIDs {
			out = append(out, Edge{
				Source:    n.ID,
				Target:    childID,
				Waypoints: append([]geometry.Point(nil), t.waypoints[childID]...),
			})
		}
	})
	return out
}

// IsRoot reports whether id is the root.
func (t *Tree) IsRoot(id NodeID) bool {
	return id == t.root
}

// Parent returns the parent id of a non-root node.
func (t *Tree) Parent(id NodeID) (NodeID, error) {
	n, ok := t.nodes[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return n.ParentID, nil
}

// Children returns a copy of the ordered child ids.
func (t *Tree) Children(id NodeID) ([]NodeID, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return append([]NodeID(nil), n.ChildIDs...), nil
}

// Ancestors returns the chain from the immediate parent up to the root.
func (t *Tree) Ancestors(id NodeID) ([]NodeID, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var out []NodeID
	for p := n.ParentID; p != ""; p = t.nodes[p].ParentID {
		out = append(out, p)
	}
	return out, nil
}

// Descendants returns every node below id in pre-order, id excluded.
func (t *Tree) Descendants(id NodeID) ([]NodeID, error) {
	if _, ok := t.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var out []NodeID
	t.walk(id, func(n *Node) {
		if n.ID != id {
			out = append(out, n.ID)
		}
	})
	return out, nil
}

// IsAncestor reports whether anc is a proper ancestor of id.
func (t *Tree) IsAncestor(anc, id NodeID) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	for p := n.ParentID; p != ""; p = t.nodes[p].ParentID {
		if p == anc {
			return true
		}
	}
	return false
}

// ChildIndex returns the position of nodeID in parentID's child list.
func (t *Tree) ChildIndex(parentID, nodeID NodeID) (int, error) {
	p, ok := t.nodes[parentID]
	if !ok {
		return -1, fmt.Errorf("%w: %s", ErrNotFound, parentID)
	}
	for i, id := range p.ChildIDs {
		if id == nodeID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s is not a child of %s", ErrNotFound, nodeID, parentID)
}

// walk visits id and its subtree in pre-order.
func (t *Tree) walk(id NodeID, fn func(*Node)) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	fn(n)
	for _, childID := range n.ChildIDs {
		t.walk(childID, fn)
	}
}

// Clone returns a deep copy sharing nothing with t.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		nodes:     make(map[NodeID]*Node, len(t.nodes)),
		root:      t.root,
		waypoints: make(map[NodeID][]geometry.Point, len(t.waypoints)),
		newID:     t.newID,
	}
	for id, n := range t.nodes {
		c.nodes[id] = n.clone()
	}
	for id, wps := range t.waypoints {
		c.waypoints[id] = append([]geometry.Point(nil), wps...)
	}
	return c
}

// SetContent replaces a node's label and returns the previous one. The
// cached size is left for the caller to refresh.
func (t *Tree) SetContent(id NodeID, content string) (string, error) {
	n, ok := t.nodes[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	old := n.Content
	n.Content = content
	return old, nil
}

// SetSize records a measured size.
func (t *Tree) SetSize(id NodeID, size geometry.Size) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	n.Size = size
	return nil
}

// ApplyLayout writes computed positions and edge waypoints. Entries for
// unknown nodes or non-existent edges are ignored and waypoints of edges not
// present in the map are cleared.
func (t *Tree) ApplyLayout(positions map[NodeID]geometry.Point, waypoints map[EdgeKey][]geometry.Point) {
	for id, p := range positions {
		if n, ok := t.nodes[id]; ok {
			n.Position = p
		}
	}
	t.waypoints = make(map[NodeID][]geometry.Point, len(waypoints))
	for key, wps := range waypoints {
		n, ok := t.nodes[key.Target]
		if !ok || n.ParentID != key.Source || len(wps) == 0 {
			continue
		}
		t.waypoints[key.Target] = append([]geometry.Point(nil), wps...)
	}
}
