package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"mindterm/geometry"
	"mindterm/layout"
	"mindterm/render"
	"mindterm/tree"
)

// sizedScene lays a copy of t out with sizes from oracle, so a map saved by
// one front end can be drawn by another.
func sizedScene(t *tree.Tree, oracle geometry.Oracle, cfg layout.Config) (render.Scene, error) {
	sized := t.Clone()
	sizes := geometry.NewCache(oracle)
	for _, n := range sized.Nodes() {
		if err := sized.SetSize(n.ID, sizes.Measure(n.Content, n.StyleClass)); err != nil {
			return render.Scene{}, err
		}
	}
	layout.NewEngine(cfg).Apply(sized)
	return render.SceneOf(sized, cfg.Direction), nil
}

func fontOracle(size float64) (*geometry.FontOracle, error) {
	opts := geometry.DefaultFontOptions()
	if size > 0 {
		opts.RootSize = opts.RootSize * size / opts.Size
		opts.Size = size
	}
	return geometry.NewFontOracle(opts)
}

// pixelScene uses the PNG font metrics and pixel spacing.
func pixelScene(t *tree.Tree, dir layout.Direction, fontSize float64) (render.Scene, *geometry.FontOracle, error) {
	fonts, err := fontOracle(fontSize)
	if err != nil {
		return render.Scene{}, nil, err
	}
	cfg := layout.DefaultConfig()
	cfg.Direction = dir
	scene, err := sizedScene(t, fonts, cfg)
	return scene, fonts, err
}

func exportPNG(filename string, t *tree.Tree, dir layout.Direction, fontSize float64) error {
	scene, fonts, err := pixelScene(t, dir, fontSize)
	if err != nil {
		return err
	}
	return render.SavePNG(filename, scene, render.DefaultPNGOptions(fonts))
}

// exportVisualTXT draws the whole map, not just the visible part of it.
func exportVisualTXT(filename string, t *tree.Tree, cfg layout.Config) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := writeVisualTXT(w, t, cfg); err != nil {
		return err
	}
	return w.Flush()
}

func writeVisualTXT(w io.Writer, t *tree.Tree, cfg layout.Config) error {
	scene, err := sizedScene(t, geometry.NewCellOracle(), cfg)
	if err != nil {
		return err
	}
	for _, line := range render.Text(scene, render.TextOptions{}) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

type layoutReport struct {
	Direction layout.Direction `json:"direction"`
	Bounds    geometry.Rect    `json:"bounds"`
	Nodes     []nodeReport     `json:"nodes"`
	Edges     []edgeReport     `json:"edges"`
}

type nodeReport struct {
	ID       tree.NodeID    `json:"id"`
	Content  string         `json:"content"`
	Position geometry.Point `json:"position"`
	Size     geometry.Size  `json:"size"`
}

type edgeReport struct {
	Source    tree.NodeID      `json:"source"`
	Target    tree.NodeID      `json:"target"`
	Waypoints []geometry.Point `json:"waypoints,omitempty"`
}

func newLayoutReport(scene render.Scene) layoutReport {
	report := layoutReport{Direction: scene.Direction, Bounds: scene.Bounds()}
	for _, n := range scene.Nodes {
		report.Nodes = append(report.Nodes, nodeReport{ID: n.ID, Content: n.Content, Position: n.Position, Size: n.Size})
	}
	for _, e := range scene.Edges {
		report.Edges = append(report.Edges, edgeReport{Source: e.Source, Target: e.Target, Waypoints: e.Waypoints})
	}
	return report
}

func writeLayoutJSON(w io.Writer, scene render.Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newLayoutReport(scene))
}
