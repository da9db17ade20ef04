package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mindterm/geometry"
	"mindterm/tree"
)

// focused is the node keyboard commands act on.
func (m *model) focused() (tree.NodeID, bool) {
	if m.mode == ModeMultiSelect && m.focusID != "" {
		if _, err := m.session.Node(m.focusID); err == nil {
			return m.focusID, true
		}
	}
	ids := m.session.Selection()
	if len(ids) == 0 {
		return "", false
	}
	return ids[len(ids)-1], true
}

func (m *model) viewportSize() (int, int) {
	width := m.width
	if width < 1 {
		width = 80
	}
	height := m.height - statusLines
	if height < 1 {
		height = 24
	}
	return width, height
}

// worldAt converts a screen cell to the world point at its centre.
func (m *model) worldAt(x, y int) geometry.Point {
	return geometry.Point{X: float64(x+m.panX) + 0.5, Y: float64(y+m.panY) + 0.5}
}

func (m *model) screenOf(p geometry.Point) (int, int) {
	x, y := p.Round()
	return x - m.panX, y - m.panY
}

// nodeAt returns the node drawn at a screen cell.
func (m *model) nodeAt(x, y int) (tree.NodeID, bool) {
	p := m.worldAt(x, y)
	for _, n := range m.session.Nodes() {
		if n.Rect().Contains(p) {
			return n.ID, true
		}
	}
	return "", false
}

// ensureVisible pans the least amount that brings id fully on screen.
func (m *model) ensureVisible(id tree.NodeID) {
	n, err := m.session.Node(id)
	if err != nil {
		return
	}
	width, height := m.viewportSize()
	x, y := n.Position.Round()
	w, h := geometry.Point{X: n.Size.Width, Y: n.Size.Height}.Round()

	if x+w > m.panX+width {
		m.panX = x + w - width
	}
	if x < m.panX {
		m.panX = x
	}
	if y+h > m.panY+height {
		m.panY = y + h - height
	}
	if y < m.panY {
		m.panY = y
	}
}

// centerOn pans so id sits in the middle of the viewport.
func (m *model) centerOn(id tree.NodeID) {
	n, err := m.session.Node(id)
	if err != nil {
		return
	}
	width, height := m.viewportSize()
	cx, cy := n.Rect().Center().Round()
	m.panX = cx - width/2
	m.panY = cy - height/2
}

// scanMapFiles lists saved maps in the save directory, or the working
// directory when none is configured.
func (m *model) scanMapFiles() {
	m.fileList = []string{}
	m.selectedFileIndex = -1

	dir := "."
	if m.config.SaveDirectory != "" {
		dir = m.config.SaveDirectory
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isMapFile(entry.Name()) {
			m.fileList = append(m.fileList, entry.Name())
		}
	}
	sort.Strings(m.fileList)
	if len(m.fileList) > 0 {
		m.selectedFileIndex = 0
		m.filename = m.fileList[0]
	}
}

func isMapFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range mapExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// withExtension appends ext unless name already ends in one of allowed.
func withExtension(name, ext string, allowed ...string) string {
	lower := strings.ToLower(name)
	for _, a := range append(allowed, ext) {
		if strings.HasSuffix(lower, a) {
			return name
		}
	}
	return name + ext
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (m *model) setError(msg string) {
	m.errorMessage = msg
	m.successMessage = ""
}

func (m *model) setSuccess(msg string) {
	m.successMessage = msg
	m.errorMessage = ""
}

func (m *model) clearMessages() {
	m.errorMessage = ""
	m.successMessage = ""
}
