package tree

import (
	"fmt"

	"mindterm/geometry"
)

func clampIndex(index []int, n int) int {
	if len(index) == 0 {
		return n
	}
	i := index[0]
	if i < 0 || i > n {
		return n
	}
	return i
}

func insertAt(ids []NodeID, i int, id NodeID) []NodeID {
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

func without(ids []NodeID, id NodeID) []NodeID {
	out := ids[:0]
	for _, c := range ids {
		if c != id {
			out = append(out, c)
		}
	}
	return out
}

// InsertChild inserts node under parentID at index (default: last). The node
// gets a fresh id when its ID is empty; its children list is ignored.
func (t *Tree) InsertChild(parentID NodeID, node Node, index ...int) (NodeID, error) {
	parent, ok := t.nodes[parentID]
	if !ok {
		return "", fmt.Errorf("%w: parent %s does not exist", ErrInvalidParent, parentID)
	}
	if node.ID == "" {
		node.ID = t.newID()
	}
	if _, exists := t.nodes[node.ID]; exists {
		return "", fmt.Errorf("%w: id %s already exists", ErrInvalidParent, node.ID)
	}

	node.ParentID = parentID
	node.IsRoot = false
	node.ChildIDs = nil
	if node.StyleClass == geometry.RootClass {
		node.StyleClass = ""
	}
	t.nodes[node.ID] = &node
	parent.ChildIDs = insertAt(parent.ChildIDs, clampIndex(index, len(parent.ChildIDs)), node.ID)
	return node.ID, nil
}

// RemoveSubtree detaches id and discards it with all its descendants. The
// removed ids are returned in pre-order.
func (t *Tree) RemoveSubtree(id NodeID) ([]NodeID, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if n.IsRoot {
		return nil, ErrRootRemovalForbidden
	}

	var removed []NodeID
	t.walk(id, func(d *Node) {
		removed = append(removed, d.ID)
	})

	parent := t.nodes[n.ParentID]
	parent.ChildIDs = without(parent.ChildIDs, id)
	for _, rid := range removed {
		delete(t.nodes, rid)
		delete(t.waypoints, rid)
	}
	return removed, nil
}

// CanReparent validates a reparent without applying it.
func (t *Tree) CanReparent(id, newParentID NodeID) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if _, ok := t.nodes[newParentID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, newParentID)
	}
	if n.IsRoot {
		return ErrRootRemovalForbidden
	}
	if newParentID == id || t.IsAncestor(id, newParentID) {
		return fmt.Errorf("%w: %s is %s or one of its descendants", ErrCycleDetected, newParentID, id)
	}
	return nil
}

// Reparent moves id under newParentID at index (default: last). When the
// parent does not change the index applies to the list without id.
func (t *Tree) Reparent(id, newParentID NodeID, index ...int) error {
	if err := t.CanReparent(id, newParentID); err != nil {
		return err
	}
	n := t.nodes[id]
	old := t.nodes[n.ParentID]
	old.ChildIDs = without(old.ChildIDs, id)

	parent := t.nodes[newParentID]
	parent.ChildIDs = insertAt(parent.ChildIDs, clampIndex(index, len(parent.ChildIDs)), id)
	n.ParentID = newParentID
	if old.ID != newParentID {
		delete(t.waypoints, id)
	}
	return nil
}

// Move shifts id by delta positions among its siblings. It reports false
// when the node is already at that end of the list.
func (t *Tree) Move(id NodeID, delta int) (bool, error) {
	n, ok := t.nodes[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if n.IsRoot {
		return false, ErrRootRemovalForbidden
	}
	siblings := t.nodes[n.ParentID].ChildIDs
	cur := -1
	for i, sid := range siblings {
		if sid == id {
			cur = i
			break
		}
	}
	next := cur + delta
	if next < 0 || next >= len(siblings) || delta == 0 {
		return false, nil
	}
	siblings = without(siblings, id)
	t.nodes[n.ParentID].ChildIDs = insertAt(siblings, next, id)
	return true, nil
}
