// Package render draws laid-out mind maps, either as a grid of terminal
// cells or as a PNG image.
package render

import (
	"mindterm/geometry"
	"mindterm/layout"
	"mindterm/tree"
)

// Scene is a laid-out tree ready to draw.
type Scene struct {
	Nodes     []tree.Node
	Edges     []tree.Edge
	Direction layout.Direction
}

// SceneOf snapshots t, which must already be laid out.
func SceneOf(t *tree.Tree, dir layout.Direction) Scene {
	return Scene{Nodes: t.Nodes(), Edges: t.Edges(), Direction: dir}
}

// Bounds returns the box enclosing every node.
func (s Scene) Bounds() geometry.Rect {
	var bounds geometry.Rect
	for i, n := range s.Nodes {
		if i == 0 {
			bounds = n.Rect()
			continue
		}
		bounds = bounds.Union(n.Rect())
	}
	return bounds
}

func (s Scene) index() map[tree.NodeID]tree.Node {
	idx := make(map[tree.NodeID]tree.Node, len(s.Nodes))
	for _, n := range s.Nodes {
		idx[n.ID] = n
	}
	return idx
}
