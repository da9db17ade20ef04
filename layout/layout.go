// Package layout positions a mind-map tree. Every call recomputes the whole
// tree from its structure and node sizes, so the result depends only on the
// tree, never on edit history.
package layout

import (
	"mindterm/geometry"
	"mindterm/tree"
)

// Config holds the layout parameters.
type Config struct {
	Direction Direction
	// LevelGap separates a parent from its children along the growth axis.
	LevelGap float64
	// SiblingGap separates consecutive sibling subtrees along the cross-axis.
	SiblingGap float64
	// Origin is where the top-left corner of the tree's bounding box lands.
	Origin geometry.Point
}

// DefaultConfig returns the pixel spacing used by the PNG export.
func DefaultConfig() Config {
	return Config{
		Direction:  LeftToRight,
		LevelGap:   100,
		SiblingGap: 30,
	}
}

// CellConfig returns spacing suited to terminal cells.
func CellConfig() Config {
	return Config{
		Direction:  LeftToRight,
		LevelGap:   4,
		SiblingGap: 1,
	}
}

// Result is a computed layout.
type Result struct {
	Positions map[tree.NodeID]geometry.Point
	Waypoints map[tree.EdgeKey][]geometry.Point
	Bounds    geometry.Rect
}

// Engine lays out trees with a fixed configuration.
type Engine struct {
	cfg Config
}

// NewEngine returns an engine; a blank direction means left-to-right.
func NewEngine(cfg Config) *Engine {
	if cfg.Direction == "" {
		cfg.Direction = LeftToRight
	}
	return &Engine{cfg: cfg}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetConfig replaces the configuration used by later calls.
func (e *Engine) SetConfig(cfg Config) {
	if cfg.Direction == "" {
		cfg.Direction = LeftToRight
	}
	e.cfg = cfg
}

// box is a node in growth/cross coordinates.
type box struct {
	node   tree.Node
	growth float64 // size along the growth axis
	cross  float64 // size along the cross-axis
	extent float64 // cross-axis extent of the whole subtree
	g, c   float64 // placed position, forward orientation
}

// Layout computes positions and edge waypoints without touching t.
func (e *Engine) Layout(t *tree.Tree) Result {
	nodes := t.Nodes()
	boxes := make(map[tree.NodeID]*box, len(nodes))
	for _, n := range nodes {
		b := &box{node: n}
		if e.cfg.Direction.Horizontal() {
			b.growth, b.cross = n.Size.Width, n.Size.Height
		} else {
			b.growth, b.cross = n.Size.Height, n.Size.Width
		}
		boxes[n.ID] = b
	}

	e.measure(boxes, t.Root())
	e.place(boxes, t.Root(), 0, 0)

	res := Result{
		Positions: make(map[tree.NodeID]geometry.Point, len(boxes)),
		Waypoints: make(map[tree.EdgeKey][]geometry.Point),
	}
	for id, b := range boxes {
		res.Positions[id] = e.toPoint(b)
	}

	var bounds geometry.Rect
	first := true
	for _, n := range nodes {
		r := geometry.RectAt(res.Positions[n.ID], n.Size)
		if first {
			bounds = r
			first = false
			continue
		}
		bounds = bounds.Union(r)
	}
	offset := e.cfg.Origin.Sub(bounds.Min())
	for id, p := range res.Positions {
		res.Positions[id] = p.Add(offset)
	}
	bounds.X += offset.X
	bounds.Y += offset.Y
	res.Bounds = bounds

	for _, edge := range t.Edges() {
		src := geometry.RectAt(res.Positions[edge.Source], boxes[edge.Source].node.Size)
		tgt := geometry.RectAt(res.Positions[edge.Target], boxes[edge.Target].node.Size)
		if wps := Route(src, tgt, e.cfg.Direction); len(wps) > 0 {
			res.Waypoints[edge.Key()] = wps
		}
	}
	return res
}

// Apply lays out t and writes the result into it.
func (e *Engine) Apply(t *tree.Tree) Result {
	res := e.Layout(t)
	t.ApplyLayout(res.Positions, res.Waypoints)
	return res
}

// measure fills in subtree extents in post-order.
func (e *Engine) measure(boxes map[tree.NodeID]*box, id tree.NodeID) float64 {
	b := boxes[id]
	total := 0.0
	for i, childID := range b.node.ChildIDs {
		if i > 0 {
			total += e.cfg.SiblingGap
		}
		total += e.measure(boxes, childID)
	}
	b.extent = b.cross
	if total > b.extent {
		b.extent = total
	}
	return b.extent
}

// place positions id's subtree inside the cross-axis slot starting at
// crossStart, with the node's near edge at growthStart.
func (e *Engine) place(boxes map[tree.NodeID]*box, id tree.NodeID, growthStart, crossStart float64) {
	b := boxes[id]
	b.g = growthStart
	if len(b.node.ChildIDs) == 0 {
		b.c = crossStart + (b.extent-b.cross)/2
		return
	}

	total := 0.0
	for i, childID := range b.node.ChildIDs {
		if i > 0 {
			total += e.cfg.SiblingGap
		}
		total += boxes[childID].extent
	}
	blockStart := crossStart + (b.extent-total)/2
	b.c = blockStart + total/2 - b.cross/2

	childGrowth := growthStart + b.growth + e.cfg.LevelGap
	cur := blockStart
	for _, childID := range b.node.ChildIDs {
		e.place(boxes, childID, childGrowth, cur)
		cur += boxes[childID].extent + e.cfg.SiblingGap
	}
}

// toPoint maps a placed box back to x/y, mirroring the growth axis for the
// reversed directions.
func (e *Engine) toPoint(b *box) geometry.Point {
	g := b.g
	if e.cfg.Direction.Reversed() {
		g = -(b.g + b.growth)
	}
	if e.cfg.Direction.Horizontal() {
		return geometry.Point{X: g, Y: b.c}
	}
	return geometry.Point{X: b.c, Y: g}
}
