package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mindterm/geometry"
	"mindterm/layout"
	"mindterm/tree"
)

// TextOptions controls the cell renderer.
type TextOptions struct {
	// Width and Height size the viewport in cells. Zero means the whole
	// scene plus one cell of margin.
	Width, Height int
	// Pan is the world cell shown in the viewport's top-left corner.
	Pan geometry.Point
	// Selected nodes get a '#' border.
	Selected []tree.NodeID
	// Editing replaces that node's label with EditText and a cursor.
	Editing  tree.NodeID
	EditText string
}

// cell is an integer box on the grid.
type cell struct {
	x, y, w, h int
}

func toCell(r geometry.Rect) cell {
	x, y := geometry.Point{X: r.X, Y: r.Y}.Round()
	return cell{x: x, y: y, w: int(math.Round(r.Width)), h: int(math.Round(r.Height))}
}

func (c cell) midRow() int { return c.y + (c.h-1)/2 }
func (c cell) midCol() int { return c.x + (c.w-1)/2 }

type grid struct {
	cells         [][]rune
	offX, offY    int
	width, height int
}

func newGrid(width, height, offX, offY int) *grid {
	g := &grid{cells: make([][]rune, height), offX: offX, offY: offY, width: width, height: height}
	for y := range g.cells {
		g.cells[y] = []rune(strings.Repeat(" ", width))
	}
	return g
}

func (g *grid) set(x, y int, r rune) {
	x -= g.offX
	y -= g.offY
	if y < 0 || y >= g.height || x < 0 || x >= g.width {
		return
	}
	g.cells[y][x] = r
}

func (g *grid) get(x, y int) rune {
	x -= g.offX
	y -= g.offY
	if y < 0 || y >= g.height || x < 0 || x >= g.width {
		return ' '
	}
	return g.cells[y][x]
}

// line draws an axis-aligned segment; crossings become '+'.
func (g *grid) line(x1, y1, x2, y2 int) {
	if y1 == y2 {
		for x := min(x1, x2); x <= max(x1, x2); x++ {
			if g.get(x, y1) == '|' {
				g.set(x, y1, '+')
			} else {
				g.set(x, y1, '-')
			}
		}
		return
	}
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		if g.get(x1, y) == '-' {
			g.set(x1, y, '+')
		} else {
			g.set(x1, y, '|')
		}
	}
}

func (g *grid) lines() []string {
	out := make([]string, len(g.cells))
	for i, row := range g.cells {
		out[i] = string(row)
	}
	return out
}

// Text renders the scene into lines of exactly the viewport width.
func Text(scene Scene, opts TextOptions) []string {
	width, height := opts.Width, opts.Height
	offX, offY := opts.Pan.Round()
	if width <= 0 || height <= 0 {
		b := toCell(scene.Bounds())
		width, height = b.w+2, b.h+2
		offX, offY = b.x-1, b.y-1
	}
	g := newGrid(width, height, offX, offY)

	nodes := scene.index()
	for _, e := range scene.Edges {
		src, ok := nodes[e.Source]
		if !ok {
			continue
		}
		tgt, ok := nodes[e.Target]
		if !ok {
			continue
		}
		drawConnector(g, toCell(src.Rect()), toCell(tgt.Rect()), scene.Direction, e.Waypoints)
	}

	selected := make(map[tree.NodeID]bool, len(opts.Selected))
	for _, id := range opts.Selected {
		selected[id] = true
	}
	for _, n := range scene.Nodes {
		label := n.Content
		if n.ID == opts.Editing && opts.Editing != "" {
			label = opts.EditText + "_"
		}
		drawBox(g, toCell(n.Rect()), geometry.Lines(label), n.StyleClass == geometry.RootClass, selected[n.ID])
	}
	return g.lines()
}

// drawConnector draws an orthogonal path from the source's outer side to
// the cell just outside the target, ending in an arrow head.
func drawConnector(g *grid, src, tgt cell, dir layout.Direction, waypoints []geometry.Point) {
	var fx, fy, tx, ty int
	var head rune
	switch dir {
	case layout.RightToLeft:
		fx, fy, tx, ty, head = src.x-1, src.midRow(), tgt.x+tgt.w, tgt.midRow(), '<'
	case layout.TopToBottom:
		fx, fy, tx, ty, head = src.midCol(), src.y+src.h, tgt.midCol(), tgt.y-1, 'v'
	case layout.BottomToTop:
		fx, fy, tx, ty, head = src.midCol(), src.y-1, tgt.midCol(), tgt.y+tgt.h, '^'
	default:
		fx, fy, tx, ty, head = src.x+src.w, src.midRow(), tgt.x-1, tgt.midRow(), '>'
	}

	if dir.Horizontal() {
		jog := (fx + tx) / 2
		if len(waypoints) > 0 {
			jog = int(math.Round(waypoints[0].X))
		}
		if fy == ty {
			g.line(fx, fy, tx, ty)
		} else {
			g.line(fx, fy, jog, fy)
			g.line(jog, fy, jog, ty)
			g.line(jog, ty, tx, ty)
			g.set(jog, fy, '+')
			g.set(jog, ty, '+')
		}
	} else {
		jog := (fy + ty) / 2
		if len(waypoints) > 0 {
			jog = int(math.Round(waypoints[0].Y))
		}
		if fx == tx {
			g.line(fx, fy, tx, ty)
		} else {
			g.line(fx, fy, fx, jog)
			g.line(fx, jog, tx, jog)
			g.line(tx, jog, tx, ty)
			g.set(fx, jog, '+')
			g.set(tx, jog, '+')
		}
	}
	g.set(tx, ty, head)
}

func drawBox(g *grid, c cell, lines []string, root, selected bool) {
	corner, horizontal, vertical := '+', '-', '|'
	if root {
		corner, horizontal, vertical = '*', '=', '|'
	}
	if selected {
		corner, horizontal, vertical = '#', '#', '#'
	}

	for y := c.y; y < c.y+c.h; y++ {
		for x := c.x; x < c.x+c.w; x++ {
			switch {
			case (y == c.y || y == c.y+c.h-1) && (x == c.x || x == c.x+c.w-1):
				g.set(x, y, corner)
			case y == c.y || y == c.y+c.h-1:
				g.set(x, y, horizontal)
			case x == c.x || x == c.x+c.w-1:
				g.set(x, y, vertical)
			default:
				g.set(x, y, ' ')
			}
		}
	}

	inner := c.w - 2
	for i, line := range lines {
		y := c.y + 1 + i
		if y >= c.y+c.h-1 {
			break
		}
		// Lines are centered inside the border.
		x := c.x + 1 + (inner-lipgloss.Width(line))/2
		if x < c.x+1 {
			x = c.x + 1
		}
		for _, r := range line {
			if x >= c.x+c.w-1 {
				break
			}
			g.set(x, y, r)
			x++
		}
	}
}
