package tree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindterm/geometry"
)

func seqIDs() func() NodeID {
	n := 0
	return func() NodeID {
		n++
		return NodeID(fmt.Sprintf("n%d", n))
	}
}

// sample builds Root → [A → [A1, A2], B].
func sample(t *testing.T) (*Tree, map[string]NodeID) {
	t.Helper()
	tr := New("Root", WithIDGenerator(seqIDs()))
	ids := map[string]NodeID{"Root": tr.Root()}
	add := func(name, parent string) {
		id, err := tr.InsertChild(ids[parent], Node{Content: name})
		require.NoError(t, err)
		ids[name] = id
	}
	add("A", "Root")
	add("A1", "A")
	add("A2", "A")
	add("B", "Root")
	require.NoError(t, tr.Check())
	return tr, ids
}

func contents(t *testing.T, tr *Tree, ids []NodeID) []string {
	t.Helper()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		n, err := tr.Node(id)
		require.NoError(t, err)
		out = append(out, n.Content)
	}
	return out
}

func TestNewTreeHasSingleRoot(t *testing.T) {
	tr := New("Root")
	root, err := tr.Node(tr.Root())
	require.NoError(t, err)
	assert.True(t, root.IsRoot)
	assert.Empty(t, root.ParentID)
	assert.Equal(t, geometry.RootClass, root.StyleClass)
	assert.Equal(t, 1, tr.Len())
	assert.NoError(t, tr.Check())
}

func TestInsertChild(t *testing.T) {
	tr, ids := sample(t)

	t.Run("appends by default", func(t *testing.T) {
		children, err := tr.Children(ids["A"])
		require.NoError(t, err)
		assert.Equal(t, []string{"A1", "A2"}, contents(t, tr, children))
	})

	t.Run("inserts at index", func(t *testing.T) {
		id, err := tr.InsertChild(ids["A"], Node{Content: "A0"}, 0)
		require.NoError(t, err)
		children, _ := tr.Children(ids["A"])
		assert.Equal(t, []string{"A0", "A1", "A2"}, contents(t, tr, children))
		n, _ := tr.Node(id)
		assert.Equal(t, ids["A"], n.ParentID)
		assert.NoError(t, tr.Check())
	})

	t.Run("out of range index appends", func(t *testing.T) {
		_, err := tr.InsertChild(ids["B"], Node{Content: "B9"}, 42)
		require.NoError(t, err)
		children, _ := tr.Children(ids["B"])
		assert.Equal(t, []string{"B9"}, contents(t, tr, children))
	})

	t.Run("missing parent", func(t *testing.T) {
		_, err := tr.InsertChild("nope", Node{Content: "x"})
		assert.ErrorIs(t, err, ErrInvalidParent)
	})

	t.Run("duplicate id", func(t *testing.T) {
		before := tr.Digest()
		_, err := tr.InsertChild(ids["B"], Node{ID: ids["A1"], Content: "dup"})
		assert.ErrorIs(t, err, ErrInvalidParent)
		assert.Equal(t, before, tr.Digest())
	})
}

func TestRemoveSubtree(t *testing.T) {
	tr, ids := sample(t)

	removed, err := tr.RemoveSubtree(ids["A"])
	require.NoError(t, err)
	assert.Equal(t, []NodeID{ids["A"], ids["A1"], ids["A2"]}, removed)
	assert.False(t, tr.Has(ids["A1"]))
	assert.False(t, tr.Has(ids["A2"]))
	_, err = tr.Node(ids["A2"])
	assert.ErrorIs(t, err, ErrNotFound)

	children, _ := tr.Children(tr.Root())
	assert.Equal(t, []NodeID{ids["B"]}, children)
	assert.NoError(t, tr.Check())

	_, err = tr.RemoveSubtree(tr.Root())
	assert.ErrorIs(t, err, ErrRootRemovalForbidden)

	_, err = tr.RemoveSubtree("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReparent(t *testing.T) {
	t.Run("moves subtree", func(t *testing.T) {
		tr, ids := sample(t)
		require.NoError(t, tr.Reparent(ids["A"], ids["B"]))
		anc, err := tr.Ancestors(ids["A1"])
		require.NoError(t, err)
		assert.Equal(t, []NodeID{ids["A"], ids["B"], ids["Root"]}, anc)
		assert.NoError(t, tr.Check())
	})

	t.Run("cycle rejected and tree unchanged", func(t *testing.T) {
		tr, ids := sample(t)
		before := tr.Digest()
		for _, target := range []string{"A", "A1", "A2"} {
			err := tr.Reparent(ids["A"], ids[target])
			assert.ErrorIs(t, err, ErrCycleDetected, target)
		}
		assert.Equal(t, before, tr.Digest())
		assert.NoError(t, tr.Check())
	})

	t.Run("root cannot move", func(t *testing.T) {
		tr, ids := sample(t)
		assert.ErrorIs(t, tr.Reparent(tr.Root(), ids["B"]), ErrRootRemovalForbidden)
	})

	t.Run("same parent reorders", func(t *testing.T) {
		tr, ids := sample(t)
		require.NoError(t, tr.Reparent(ids["A2"], ids["A"], 0))
		children, _ := tr.Children(ids["A"])
		assert.Equal(t, []string{"A2", "A1"}, contents(t, tr, children))
	})
}

func TestMove(t *testing.T) {
	tr, ids := sample(t)

	moved, err := tr.Move(ids["A1"], 1)
	require.NoError(t, err)
	assert.True(t, moved)
	children, _ := tr.Children(ids["A"])
	assert.Equal(t, []string{"A2", "A1"}, contents(t, tr, children))

	moved, err = tr.Move(ids["A1"], 1)
	require.NoError(t, err)
	assert.False(t, moved)

	_, err = tr.Move(tr.Root(), -1)
	assert.ErrorIs(t, err, ErrRootRemovalForbidden)
}

func TestQueries(t *testing.T) {
	tr, ids := sample(t)

	idx, err := tr.ChildIndex(tr.Root(), ids["B"])
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = tr.ChildIndex(tr.Root(), ids["A1"])
	assert.ErrorIs(t, err, ErrNotFound)

	desc, err := tr.Descendants(tr.Root())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "A1", "A2", "B"}, contents(t, tr, desc))

	assert.True(t, tr.IsRoot(ids["Root"]))
	assert.False(t, tr.IsRoot(ids["A"]))
	assert.True(t, tr.IsAncestor(ids["A"], ids["A2"]))
	assert.False(t, tr.IsAncestor(ids["B"], ids["A2"]))

	edges := tr.Edges()
	require.Len(t, edges, 4)
	assert.Equal(t, EdgeKey{Source: ids["Root"], Target: ids["A"]}, edges[0].Key())
	assert.Equal(t, EdgeKey{Source: ids["Root"], Target: ids["B"]}, edges[3].Key())
}

func TestCloneSubtree(t *testing.T) {
	tr, ids := sample(t)

	sub, err := tr.CloneSubtree(ids["A"])
	require.NoError(t, err)
	assert.Equal(t, 3, sub.Len())
	nodes := sub.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, "A", nodes[0].Content)
	assert.Equal(t, []string{"A1", "A2"}, []string{nodes[1].Content, nodes[2].Content})
	for _, n := range nodes {
		assert.False(t, tr.Has(n.ID), "clone reuses id %s", n.ID)
	}
	assert.Equal(t, "A\n  A1\n  A2\n", sub.Outline())

	first, err := tr.InsertClone(ids["B"], sub)
	require.NoError(t, err)
	second, err := tr.InsertClone(ids["B"], sub)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 4+1+6, tr.Len())
	assert.NoError(t, tr.Check())

	_, err = tr.InsertSubtree(ids["B"], sub)
	require.NoError(t, err)
	_, err = tr.InsertSubtree(ids["B"], sub)
	assert.ErrorIs(t, err, ErrInvalidParent)
	assert.NoError(t, tr.Check())
}

func TestCloneOfRootBecomesPlainNode(t *testing.T) {
	tr, ids := sample(t)
	sub, err := tr.CloneSubtree(tr.Root())
	require.NoError(t, err)

	id, err := tr.InsertClone(ids["B"], sub)
	require.NoError(t, err)
	n, _ := tr.Node(id)
	assert.False(t, n.IsRoot)
	assert.Empty(t, n.StyleClass)
	assert.NoError(t, tr.Check())
}

func TestReduce(t *testing.T) {
	tr, ids := sample(t)
	pick := func(names ...string) []NodeID {
		out := make([]NodeID, 0, len(names))
		for _, n := range names {
			if id, ok := ids[n]; ok {
				out = append(out, id)
			} else {
				out = append(out, NodeID(n))
			}
		}
		return out
	}

	tests := []struct {
		name     string
		selected []NodeID
		want     []NodeID
	}{
		{"descendant dropped", pick("A", "A1"), pick("A")},
		{"descendant before ancestor", pick("A2", "A"), pick("A")},
		{"root collapses", pick("A1", "Root", "B"), pick("Root")},
		{"siblings kept in order", pick("B", "A1", "A2"), pick("B", "A1", "A2")},
		{"unknown and duplicates dropped", pick("ghost", "B", "B"), pick("B")},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Reduce(tt.selected))
		})
	}
}

func TestCheckReportsCorruption(t *testing.T) {
	t.Run("orphan", func(t *testing.T) {
		tr, ids := sample(t)
		tr.nodes[ids["A"]].ChildIDs = []NodeID{ids["A1"]}
		assert.ErrorIs(t, tr.Check(), ErrInvariant)
	})
	t.Run("duplicate child", func(t *testing.T) {
		tr, ids := sample(t)
		tr.nodes[ids["A"]].ChildIDs = append(tr.nodes[ids["A"]].ChildIDs, ids["A1"])
		assert.ErrorIs(t, tr.Check(), ErrInvariant)
	})
	t.Run("stray waypoints", func(t *testing.T) {
		tr, _ := sample(t)
		tr.waypoints["ghost"] = []geometry.Point{{X: 1, Y: 1}}
		assert.ErrorIs(t, tr.Check(), ErrInvariant)
	})
	t.Run("two roots", func(t *testing.T) {
		tr, ids := sample(t)
		tr.nodes[ids["B"]].IsRoot = true
		assert.ErrorIs(t, tr.Check(), ErrInvariant)
	})
}

func TestApplyLayoutAndClone(t *testing.T) {
	tr, ids := sample(t)
	tr.ApplyLayout(
		map[NodeID]geometry.Point{ids["A"]: {X: 10, Y: 20}, "ghost": {X: 1}},
		map[EdgeKey][]geometry.Point{
			{Source: ids["Root"], Target: ids["A"]}: {{X: 5, Y: 1}, {X: 5, Y: 2}},
			{Source: ids["B"], Target: ids["A"]}:    {{X: 9, Y: 9}},
		},
	)
	require.NoError(t, tr.Check())

	n, _ := tr.Node(ids["A"])
	assert.Equal(t, geometry.Point{X: 10, Y: 20}, n.Position)
	assert.Len(t, tr.Edges()[0].Waypoints, 2)

	c := tr.Clone()
	assert.Equal(t, tr.Digest(), c.Digest())
	_, err := c.SetContent(ids["A"], "changed")
	require.NoError(t, err)
	assert.NotEqual(t, tr.Digest(), c.Digest())
	orig, _ := tr.Node(ids["A"])
	assert.Equal(t, "A", orig.Content)

	_, err = tr.RemoveSubtree(ids["A"])
	require.NoError(t, err)
	assert.NoError(t, tr.Check())
}

func TestParseOutline(t *testing.T) {
	tr, ids := sample(t)
	sub, err := tr.CloneSubtree(ids["A"])
	require.NoError(t, err)

	parsed := ParseOutline(sub.Outline() + "\n\tB\n  C\r\n")
	require.Len(t, parsed, 1)
	assert.Equal(t, "A\n  A1\n  A2\n  B\n  C\n", parsed[0].Outline())

	parsed = ParseOutline("one\ntwo\n    deep\nthree")
	require.Len(t, parsed, 3)
	assert.Equal(t, "two\n  deep\n", parsed[1].Outline())

	id, err := tr.InsertClone(ids["B"], parsed[1])
	require.NoError(t, err)
	children, _ := tr.Children(id)
	assert.Len(t, children, 1)
	assert.NoError(t, tr.Check())

	assert.Empty(t, ParseOutline(" \n\n"))
}
