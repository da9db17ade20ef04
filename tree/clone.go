package tree

import (
	"fmt"
	"strings"

	"mindterm/geometry"
)

// Subtree is a detached deep copy of part of a tree, used by the clipboard.
type Subtree struct {
	root  NodeID
	nodes map[NodeID]*Node
}

// Root returns the id of the subtree's top node.
func (s *Subtree) Root() NodeID {
	return s.root
}

// Len returns the number of nodes in the subtree.
func (s *Subtree) Len() int {
	return len(s.nodes)
}

// Nodes returns copies of the subtree's nodes in pre-order.
func (s *Subtree) Nodes() []Node {
	out := make([]Node, 0, len(s.nodes))
	s.walk(s.root, 0, func(n *Node, _ int) {
		out = append(out, *n.clone())
	})
	return out
}

// Outline renders the subtree as an indented plain-text list, two spaces per
// level, one node per line.
func (s *Subtree) Outline() string {
	var b strings.Builder
	s.walk(s.root, 0, func(n *Node, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(strings.Join(geometry.Lines(n.Content), " "))
		b.WriteByte('\n')
	})
	return b.String()
}

func (s *Subtree) walk(id NodeID, depth int, fn func(*Node, int)) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	fn(n, depth)
	for _, childID := range n.ChildIDs {
		s.walk(childID, depth+1, fn)
	}
}

// renew copies the subtree giving every node a fresh id from gen.
func (s *Subtree) renew(gen func() NodeID) *Subtree {
	out := &Subtree{nodes: make(map[NodeID]*Node, len(s.nodes))}
	var copyNode func(id, parent NodeID) NodeID
	copyNode = func(id, parent NodeID) NodeID {
		src := s.nodes[id]
		n := src.clone()
		n.ID = gen()
		n.ParentID = parent
		n.ChildIDs = make([]NodeID, 0, len(src.ChildIDs))
		out.nodes[n.ID] = n
		for _, childID := range src.ChildIDs {
			n.ChildIDs = append(n.ChildIDs, copyNode(childID, n.ID))
		}
		return n.ID
	}
	out.root = copyNode(s.root, "")
	return out
}

// CloneSubtree deep-copies id and its descendants with fresh ids. Content,
// style and measured sizes are preserved.
func (t *Tree) CloneSubtree(id NodeID) (*Subtree, error) {
	if _, ok := t.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	view := &Subtree{root: id, nodes: make(map[NodeID]*Node)}
	t.walk(id, func(n *Node) {
		view.nodes[n.ID] = n
	})
	clone := view.renew(t.newID)
	top := clone.nodes[clone.root]
	top.IsRoot = false
	if top.StyleClass == geometry.RootClass {
		top.StyleClass = ""
	}
	return clone, nil
}

// InsertSubtree attaches sub under parentID at index (default: last) keeping
// sub's ids. Every id is checked before anything is written.
func (t *Tree) InsertSubtree(parentID NodeID, sub *Subtree, index ...int) (NodeID, error) {
	parent, ok := t.nodes[parentID]
	if !ok {
		return "", fmt.Errorf("%w: parent %s does not exist", ErrInvalidParent, parentID)
	}
	for id := range sub.nodes {
		if _, exists := t.nodes[id]; exists {
			return "", fmt.Errorf("%w: id %s already exists", ErrInvalidParent, id)
		}
	}

	sub.walk(sub.root, 0, func(n *Node, _ int) {
		c := n.clone()
		c.IsRoot = false
		if c.ID == sub.root {
			c.ParentID = parentID
		}
		t.nodes[c.ID] = c
	})
	parent.ChildIDs = insertAt(parent.ChildIDs, clampIndex(index, len(parent.ChildIDs)), sub.root)
	return sub.root, nil
}

// InsertClone inserts a fresh-id copy of sub, so the same clipboard entry can
// be pasted any number of times.
func (t *Tree) InsertClone(parentID NodeID, sub *Subtree, index ...int) (NodeID, error) {
	return t.InsertSubtree(parentID, sub.renew(t.newID), index...)
}
