package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"

	"mindterm/geometry"
	"mindterm/layout"
)

// PNGOptions controls the image renderer. Node sizes in the scene must have
// been measured with Fonts so labels fit their boxes.
type PNGOptions struct {
	Fonts      *geometry.FontOracle
	Padding    float64
	Background color.Color
	Line       color.Color
	Fill       color.Color
	RootFill   color.Color
	Radius     float64
}

// DefaultPNGOptions returns the export styling.
func DefaultPNGOptions(fonts *geometry.FontOracle) PNGOptions {
	return PNGOptions{
		Fonts:      fonts,
		Padding:    24,
		Background: color.White,
		Line:       color.Black,
		Fill:       color.RGBA{R: 0xf2, G: 0xf5, B: 0xfa, A: 0xff},
		RootFill:   color.RGBA{R: 0xd6, G: 0xe4, B: 0xff, A: 0xff},
		Radius:     6,
	}
}

// Image draws the scene onto a new context sized to its bounds plus padding.
func Image(scene Scene, opts PNGOptions) (*gg.Context, error) {
	if len(scene.Nodes) == 0 {
		return nil, fmt.Errorf("nothing to export")
	}
	if opts.Fonts == nil {
		return nil, fmt.Errorf("no font oracle configured")
	}

	bounds := scene.Bounds()
	width := int(math.Ceil(bounds.Width + 2*opts.Padding))
	height := int(math.Ceil(bounds.Height + 2*opts.Padding))
	origin := geometry.Point{X: bounds.X - opts.Padding, Y: bounds.Y - opts.Padding}

	dc := gg.NewContext(width, height)
	dc.SetColor(opts.Background)
	dc.Clear()

	// Connectors first so boxes sit on top of them.
	nodes := scene.index()
	dc.SetLineWidth(1.5)
	for _, e := range scene.Edges {
		src, ok := nodes[e.Source]
		if !ok {
			continue
		}
		tgt, ok := nodes[e.Target]
		if !ok {
			continue
		}
		path := layout.ConnectorPath(src.Rect(), tgt.Rect(), scene.Direction, e.Waypoints)
		dc.SetColor(opts.Line)
		for i := 0; i < len(path)-1; i++ {
			a, b := path[i].Sub(origin), path[i+1].Sub(origin)
			dc.DrawLine(a.X, a.Y, b.X, b.Y)
			dc.Stroke()
		}
		n := len(path)
		drawArrow(dc, path[n-2].Sub(origin), path[n-1].Sub(origin))
	}

	for _, n := range scene.Nodes {
		r := n.Rect()
		x, y := r.X-origin.X, r.Y-origin.Y
		root := n.StyleClass == geometry.RootClass

		dc.DrawRoundedRectangle(x, y, r.Width, r.Height, opts.Radius)
		if root {
			dc.SetColor(opts.RootFill)
		} else {
			dc.SetColor(opts.Fill)
		}
		dc.FillPreserve()
		dc.SetColor(opts.Line)
		if root {
			dc.SetLineWidth(2)
		} else {
			dc.SetLineWidth(1)
		}
		dc.Stroke()

		face := opts.Fonts.Face(n.StyleClass)
		dc.SetFontFace(face)
		lines := geometry.Lines(n.Content)
		lineHeight := float64(face.Metrics().Height.Ceil())
		top := y + (r.Height-lineHeight*float64(len(lines)))/2
		for i, line := range lines {
			dc.DrawStringAnchored(line, x+r.Width/2, top+lineHeight*(float64(i)+0.5), 0.5, 0.35)
		}
	}
	return dc, nil
}

// PNG encodes the scene as a PNG image.
func PNG(w io.Writer, scene Scene, opts PNGOptions) error {
	dc, err := Image(scene, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// SavePNG writes the scene to a PNG file.
func SavePNG(path string, scene Scene, opts PNGOptions) error {
	dc, err := Image(scene, opts)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}

func drawArrow(dc *gg.Context, from, to geometry.Point) {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	const size, spread = 7.0, 0.5
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(to.X-size*dx+size*dy*spread, to.Y-size*dy-size*dx*spread)
	dc.LineTo(to.X-size*dx-size*dy*spread, to.Y-size*dy+size*dx*spread)
	dc.ClosePath()
	dc.Fill()
}
