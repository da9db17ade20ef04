package tree

import (
	"errors"
	"fmt"
)

// ErrInvariant is wrapped by every error Check returns.
var ErrInvariant = errors.New("tree invariant violated")

// Check verifies the structural invariants and returns the first violation:
// a single root without parent, consistent parent/child links without
// duplicates, no cycles, every node reachable from the root, and waypoint
// records only for existing edges.
func (t *Tree) Check() error {
	roots := 0
	for id, n := range t.nodes {
		if n.ID != id {
			return fmt.Errorf("%w: node stored under %s reports id %s", ErrInvariant, id, n.ID)
		}
		if n.IsRoot {
			roots++
			if id != t.root {
				return fmt.Errorf("%w: %s flagged root but tree root is %s", ErrInvariant, id, t.root)
			}
			if n.ParentID != "" {
				return fmt.Errorf("%w: root %s has parent %s", ErrInvariant, id, n.ParentID)
			}
			continue
		}
		parent, ok := t.nodes[n.ParentID]
		if !ok {
			return fmt.Errorf("%w: %s has missing parent %q", ErrInvariant, id, n.ParentID)
		}
		count := 0
		for _, c := range parent.ChildIDs {
			if c == id {
				count++
			}
		}
		if count != 1 {
			return fmt.Errorf("%w: parent %s lists %s %d times", ErrInvariant, parent.ID, id, count)
		}
	}
	if roots != 1 {
		return fmt.Errorf("%w: %d roots", ErrInvariant, roots)
	}

	for id, n := range t.nodes {
		seen := make(map[NodeID]bool, len(n.ChildIDs))
		for _, c := range n.ChildIDs {
			child, ok := t.nodes[c]
			if !ok {
				return fmt.Errorf("%w: %s lists unknown child %s", ErrInvariant, id, c)
			}
			if seen[c] {
				return fmt.Errorf("%w: %s lists child %s twice", ErrInvariant, id, c)
			}
			seen[c] = true
			if child.ParentID != id {
				return fmt.Errorf("%w: %s lists %s whose parent is %s", ErrInvariant, id, c, child.ParentID)
			}
		}
	}

	visited := make(map[NodeID]bool, len(t.nodes))
	var visit func(id NodeID) error
	visit = func(id NodeID) error {
		if visited[id] {
			return fmt.Errorf("%w: cycle through %s", ErrInvariant, id)
		}
		visited[id] = true
		for _, c := range t.nodes[id].ChildIDs {
			if err := visit(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(t.root); err != nil {
		return err
	}
	if len(visited) != len(t.nodes) {
		return fmt.Errorf("%w: %d of %d nodes unreachable from root", ErrInvariant, len(t.nodes)-len(visited), len(t.nodes))
	}

	for target := range t.waypoints {
		n, ok := t.nodes[target]
		if !ok || n.IsRoot {
			return fmt.Errorf("%w: waypoints recorded for missing edge into %s", ErrInvariant, target)
		}
	}
	return nil
}
