package render

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindterm/geometry"
	"mindterm/layout"
	"mindterm/tree"
)

func laidOut(t *testing.T, oracle geometry.Oracle, cfg layout.Config, children ...string) (*tree.Tree, []tree.NodeID) {
	t.Helper()
	tr := tree.New("Root")
	var ids []tree.NodeID
	for _, c := range children {
		id, err := tr.InsertChild(tr.Root(), tree.Node{Content: c})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	for _, n := range tr.Nodes() {
		require.NoError(t, tr.SetSize(n.ID, oracle.Measure(n.Content, n.StyleClass)))
	}
	layout.NewEngine(cfg).Apply(tr)
	return tr, ids
}

func TestTextRootOnly(t *testing.T) {
	tr, _ := laidOut(t, geometry.NewCellOracle(), layout.CellConfig())
	got := Text(SceneOf(tr, layout.LeftToRight), TextOptions{})
	assert.Equal(t, []string{
		"            ",
		" *========* ",
		" |  Root  | ",
		" *========* ",
		"            ",
	}, got)
}

func TestTextConnector(t *testing.T) {
	tr, ids := laidOut(t, geometry.NewCellOracle(), layout.CellConfig(), "A")
	got := Text(SceneOf(tr, layout.LeftToRight), TextOptions{Selected: ids})
	require.Len(t, got, 5)
	assert.Contains(t, got[2], "|--->#")
	assert.Contains(t, got[2], "#  A   #")
}

func TestTextConnectorWithJog(t *testing.T) {
	tr, _ := laidOut(t, geometry.NewCellOracle(), layout.CellConfig(), "A", "B")
	got := strings.Join(Text(SceneOf(tr, layout.LeftToRight), TextOptions{}), "\n")
	assert.Equal(t, 2, strings.Count(got, ">"))
	assert.Contains(t, got, "+")
}

func TestTextVertical(t *testing.T) {
	tr, _ := laidOut(t, geometry.NewCellOracle(), layout.Config{Direction: layout.TopToBottom, LevelGap: 2, SiblingGap: 1}, "A")
	got := Text(SceneOf(tr, layout.TopToBottom), TextOptions{})
	joined := strings.Join(got, "\n")
	assert.Contains(t, joined, "v")
	assert.Contains(t, joined, "Root")
	assert.Contains(t, joined, "A")
}

func TestTextViewportAndEditing(t *testing.T) {
	tr, _ := laidOut(t, geometry.NewCellOracle(), layout.CellConfig())
	got := Text(SceneOf(tr, layout.LeftToRight), TextOptions{Width: 5, Height: 2})
	assert.Equal(t, []string{"*====", "|  Ro"}, got)

	got = Text(SceneOf(tr, layout.LeftToRight), TextOptions{Width: 10, Height: 3, Editing: tr.Root(), EditText: "Hi"})
	assert.Equal(t, "|  Hi_   |", got[1])
}

func TestPNG(t *testing.T) {
	fonts, err := geometry.NewFontOracle(geometry.DefaultFontOptions())
	require.NoError(t, err)
	tr, _ := laidOut(t, fonts, layout.DefaultConfig(), "First child", "Second<br>two lines")
	scene := SceneOf(tr, layout.LeftToRight)

	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, scene, DefaultPNGOptions(fonts)))
	img, err := png.Decode(&buf)
	require.NoError(t, err)

	bounds := scene.Bounds()
	assert.Equal(t, int(math.Ceil(bounds.Width+48)), img.Bounds().Dx())
	assert.Equal(t, int(math.Ceil(bounds.Height+48)), img.Bounds().Dy())
}

func TestPNGNeedsFonts(t *testing.T) {
	tr, _ := laidOut(t, geometry.NewCellOracle(), layout.CellConfig())
	var buf bytes.Buffer
	assert.Error(t, PNG(&buf, SceneOf(tr, layout.LeftToRight), PNGOptions{}))
	assert.Error(t, PNG(&buf, Scene{}, DefaultPNGOptions(nil)))
}
