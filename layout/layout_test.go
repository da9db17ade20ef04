package layout

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindterm/geometry"
	"mindterm/tree"
)

type shape struct {
	name     string
	w, h     float64
	children []shape
}

func build(t *testing.T, root shape, gen func() tree.NodeID) (*tree.Tree, map[string]tree.NodeID) {
	t.Helper()
	tr := tree.New(root.name, tree.WithIDGenerator(gen))
	ids := map[string]tree.NodeID{root.name: tr.Root()}
	require.NoError(t, tr.SetSize(tr.Root(), geometry.Size{Width: root.w, Height: root.h}))
	var add func(parent tree.NodeID, s shape)
	add = func(parent tree.NodeID, s shape) {
		id, err := tr.InsertChild(parent, tree.Node{Content: s.name, Size: geometry.Size{Width: s.w, Height: s.h}})
		require.NoError(t, err)
		ids[s.name] = id
		for _, c := range s.children {
			add(id, c)
		}
	}
	for _, c := range root.children {
		add(tr.Root(), c)
	}
	return tr, ids
}

func counter(prefix string) func() tree.NodeID {
	n := 0
	return func() tree.NodeID {
		n++
		return tree.NodeID(fmt.Sprintf("%s%d", prefix, n))
	}
}

func rect(res Result, tr *tree.Tree, id tree.NodeID) geometry.Rect {
	n, _ := tr.Node(id)
	return geometry.RectAt(res.Positions[id], n.Size)
}

var chain = shape{name: "Root", w: 80, h: 40, children: []shape{
	{name: "A", w: 60, h: 30, children: []shape{
		{name: "A1", w: 50, h: 20},
	}},
}}

func TestChildPlacedBeyondParentByLevelGap(t *testing.T) {
	for _, dir := range Directions {
		t.Run(dir.String(), func(t *testing.T) {
			tr, ids := build(t, chain, counter("n"))
			cfg := DefaultConfig()
			cfg.Direction = dir
			res := NewEngine(cfg).Layout(tr)

			a, a1 := rect(res, tr, ids["A"]), rect(res, tr, ids["A1"])
			switch dir {
			case LeftToRight:
				assert.Equal(t, a.Right()+cfg.LevelGap, a1.X)
			case RightToLeft:
				assert.Equal(t, a.X-cfg.LevelGap, a1.Right())
			case TopToBottom:
				assert.Equal(t, a.Bottom()+cfg.LevelGap, a1.Y)
			case BottomToTop:
				assert.Equal(t, a.Y-cfg.LevelGap, a1.Bottom())
			}
		})
	}
}

func TestSiblingsStackedAndParentCentered(t *testing.T) {
	root := shape{name: "Root", w: 80, h: 40, children: []shape{
		{name: "A", w: 60, h: 20},
		{name: "B", w: 60, h: 50, children: []shape{
			{name: "B1", w: 40, h: 30},
			{name: "B2", w: 40, h: 30},
			{name: "B3", w: 40, h: 30},
		}},
		{name: "C", w: 60, h: 20},
	}}
	tr, ids := build(t, root, counter("n"))
	cfg := DefaultConfig()
	res := NewEngine(cfg).Layout(tr)

	b1, b2, b3 := rect(res, tr, ids["B1"]), rect(res, tr, ids["B2"]), rect(res, tr, ids["B3"])
	assert.Equal(t, b1.Bottom()+cfg.SiblingGap, b2.Y)
	assert.Equal(t, b2.Bottom()+cfg.SiblingGap, b3.Y)

	b := rect(res, tr, ids["B"])
	assert.Equal(t, (b1.Y+b3.Bottom())/2, b.Center().Y)

	// B's subtree extent is 3*30+2*30 = 150, so A sits above it and C below.
	a, c := rect(res, tr, ids["A"]), rect(res, tr, ids["C"])
	assert.Equal(t, a.Bottom()+cfg.SiblingGap, b1.Y)
	assert.Equal(t, b3.Bottom()+cfg.SiblingGap, c.Y)

	r := rect(res, tr, tr.Root())
	assert.Equal(t, (a.Y+c.Bottom())/2, r.Center().Y)
}

func TestLeafTreeSitsAtOrigin(t *testing.T) {
	tr, _ := build(t, shape{name: "Root", w: 30, h: 10}, counter("n"))
	cfg := DefaultConfig()
	cfg.Origin = geometry.Point{X: 7, Y: 9}
	res := NewEngine(cfg).Layout(tr)

	assert.Equal(t, geometry.Point{X: 7, Y: 9}, res.Positions[tr.Root()])
	assert.Empty(t, res.Waypoints)
	assert.Equal(t, geometry.Rect{X: 7, Y: 9, Width: 30, Height: 10}, res.Bounds)
}

func TestZeroSizeNodesStayInBounds(t *testing.T) {
	tests := []struct {
		dir       Direction
		root, kid geometry.Point
	}{
		{LeftToRight, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 0}},
		{RightToLeft, geometry.Point{X: 100, Y: 0}, geometry.Point{X: 0, Y: 0}},
		{TopToBottom, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 0, Y: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			tr, ids := build(t, shape{name: "Root", children: []shape{{name: "child"}}}, counter("n"))
			cfg := DefaultConfig()
			cfg.Direction = tt.dir
			res := NewEngine(cfg).Layout(tr)

			assert.Equal(t, tt.root, res.Positions[tr.Root()])
			assert.Equal(t, tt.kid, res.Positions[ids["child"]])
			assert.Equal(t, geometry.Point{}, res.Bounds.Min())
			for _, p := range res.Positions {
				assert.True(t, res.Bounds.Contains(p), "%v outside %v", p, res.Bounds)
			}
		})
	}
}

func TestBoundsTranslatedToOrigin(t *testing.T) {
	for _, dir := range Directions {
		tr, _ := build(t, chain, counter("n"))
		cfg := DefaultConfig()
		cfg.Direction = dir
		cfg.Origin = geometry.Point{X: 100, Y: 50}
		res := NewEngine(cfg).Layout(tr)

		assert.Equal(t, 100.0, res.Bounds.X, dir)
		assert.Equal(t, 50.0, res.Bounds.Y, dir)
		for id, p := range res.Positions {
			assert.GreaterOrEqual(t, p.X, 100.0, "%s %s", dir, id)
			assert.GreaterOrEqual(t, p.Y, 50.0, "%s %s", dir, id)
		}
	}
}

func TestLayoutDeterministicAndIdempotent(t *testing.T) {
	tr, _ := build(t, shape{name: "Root", w: 80, h: 40, children: []shape{
		{name: "A", w: 61, h: 23, children: []shape{{name: "A1", w: 33, h: 17}, {name: "A2", w: 70, h: 41}}},
		{name: "B", w: 45, h: 19},
	}}, counter("n"))
	engine := NewEngine(DefaultConfig())

	first := engine.Layout(tr)
	second := engine.Layout(tr)
	assert.Equal(t, first, second)

	engine.Apply(tr)
	digest := tr.Digest()
	engine.Apply(tr)
	assert.Equal(t, digest, tr.Digest())
	assert.NoError(t, tr.Check())
}

func TestLayoutIgnoresIDOrder(t *testing.T) {
	doc := shape{name: "Root", w: 80, h: 40, children: []shape{
		{name: "A", w: 60, h: 20, children: []shape{{name: "A1", w: 30, h: 20}}},
		{name: "B", w: 60, h: 20},
	}}
	ascending := counter("a")
	descending := func() func() tree.NodeID {
		n := 1000
		return func() tree.NodeID {
			n--
			return tree.NodeID(fmt.Sprintf("z%d", n))
		}
	}()

	tr1, ids1 := build(t, doc, ascending)
	tr2, ids2 := build(t, doc, descending)
	res1 := NewEngine(DefaultConfig()).Layout(tr1)
	res2 := NewEngine(DefaultConfig()).Layout(tr2)

	for name := range ids1 {
		assert.Equal(t, res1.Positions[ids1[name]], res2.Positions[ids2[name]], name)
	}
}

func TestWaypointsOnlyForOffsetEdges(t *testing.T) {
	tr, _ := build(t, shape{name: "Root", w: 80, h: 40, children: []shape{
		{name: "A", w: 60, h: 20},
		{name: "B", w: 60, h: 20},
	}}, counter("n"))
	res := NewEngine(DefaultConfig()).Layout(tr)
	assert.Len(t, res.Waypoints, 2)

	single, sids := build(t, chain, counter("n"))
	res = NewEngine(DefaultConfig()).Layout(single)
	assert.Empty(t, res.Waypoints[tree.EdgeKey{Source: sids["Root"], Target: sids["A"]}])
}

func TestRoute(t *testing.T) {
	src := geometry.Rect{X: 0, Y: 0, Width: 100, Height: 40}

	tests := []struct {
		name string
		dir  Direction
		tgt  geometry.Rect
		want []geometry.Point
	}{
		{"LR offset", LeftToRight, geometry.Rect{X: 200, Y: 60, Width: 50, Height: 20},
			[]geometry.Point{{X: 150, Y: 20}, {X: 150, Y: 70}}},
		{"LR aligned", LeftToRight, geometry.Rect{X: 200, Y: 10, Width: 50, Height: 20}, nil},
		{"RL offset", RightToLeft, geometry.Rect{X: -150, Y: 60, Width: 50, Height: 20},
			[]geometry.Point{{X: -50, Y: 20}, {X: -50, Y: 70}}},
		{"TB offset", TopToBottom, geometry.Rect{X: 120, Y: 140, Width: 40, Height: 20},
			[]geometry.Point{{X: 50, Y: 90}, {X: 140, Y: 90}}},
		{"TB aligned", TopToBottom, geometry.Rect{X: 30, Y: 140, Width: 40, Height: 20}, nil},
		{"BT offset", BottomToTop, geometry.Rect{X: 120, Y: -120, Width: 40, Height: 20},
			[]geometry.Point{{X: 50, Y: -50}, {X: 140, Y: -50}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Route(src, tt.tgt, tt.dir))
		})
	}
}

func TestConnectorPath(t *testing.T) {
	src := geometry.Rect{X: 0, Y: 0, Width: 100, Height: 40}
	tgt := geometry.Rect{X: 200, Y: 60, Width: 50, Height: 20}
	wps := Route(src, tgt, LeftToRight)

	path := ConnectorPath(src, tgt, LeftToRight, wps)
	assert.Equal(t, []geometry.Point{
		{X: 100, Y: 20}, {X: 150, Y: 20}, {X: 150, Y: 70}, {X: 200, Y: 70},
	}, path)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection(" tb ")
	require.NoError(t, err)
	assert.Equal(t, TopToBottom, d)
	assert.False(t, d.Horizontal())

	_, err = ParseDirection("diagonal")
	assert.Error(t, err)
}
