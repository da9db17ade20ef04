package geometry

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// RootClass is the style class carried by the root node.
const RootClass = "root"

// Oracle reports the rendered size of a label. Implementations must be pure:
// the same content and class always yield the same size.
type Oracle interface {
	Measure(content, styleClass string) Size
}

// OracleFunc adapts a plain function to Oracle.
type OracleFunc func(content, styleClass string) Size

// Measure calls f.
func (f OracleFunc) Measure(content, styleClass string) Size {
	return f(content, styleClass)
}

// CellOracle measures labels in terminal cells: one column per display cell
// of the widest line plus padding and a border on each side, one row per
// line plus the top and bottom border.
type CellOracle struct {
	MinWidth int
	Padding  int
}

// NewCellOracle returns a CellOracle with the box minimums used by the
// terminal front-end.
func NewCellOracle() CellOracle {
	return CellOracle{MinWidth: minBoxWidth, Padding: 1}
}

const (
	minBoxWidth  = 8
	minBoxHeight = 3
)

// Measure implements Oracle.
func (o CellOracle) Measure(content, styleClass string) Size {
	lines := Lines(content)
	pad := o.Padding
	if styleClass == RootClass {
		pad++
	}

	maxWidth := o.MinWidth
	for _, line := range lines {
		if w := lipgloss.Width(line) + 2*pad + 2; w > maxWidth {
			maxWidth = w
		}
	}

	height := len(lines) + 2
	if height < minBoxHeight {
		height = minBoxHeight
	}
	return Size{Width: float64(maxWidth), Height: float64(height)}
}

// FontOracle measures labels in pixels using the Go Mono face, the same face
// the PNG renderer draws with.
type FontOracle struct {
	face     font.Face
	rootFace font.Face
	paddingX float64
	paddingY float64
}

// FontOptions configures a FontOracle.
type FontOptions struct {
	Size     float64
	RootSize float64
	PaddingX float64
	PaddingY float64
}

// DefaultFontOptions mirrors the label styling of the PNG export.
func DefaultFontOptions() FontOptions {
	return FontOptions{Size: 14, RootSize: 18, PaddingX: 12, PaddingY: 6}
}

// NewFontOracle parses the embedded font and builds the faces.
func NewFontOracle(opts FontOptions) (*FontOracle, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &FontOracle{
		face:     truetype.NewFace(ttf, &truetype.Options{Size: opts.Size, DPI: 72, Hinting: font.HintingFull}),
		rootFace: truetype.NewFace(ttf, &truetype.Options{Size: opts.RootSize, DPI: 72, Hinting: font.HintingFull}),
		paddingX: opts.PaddingX,
		paddingY: opts.PaddingY,
	}, nil
}

// Face returns the face used for the given style class.
func (o *FontOracle) Face(styleClass string) font.Face {
	if styleClass == RootClass {
		return o.rootFace
	}
	return o.face
}

// Measure implements Oracle.
func (o *FontOracle) Measure(content, styleClass string) Size {
	face := o.Face(styleClass)
	lines := Lines(content)

	maxWidth := 0
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > maxWidth {
			maxWidth = w
		}
	}
	lineHeight := face.Metrics().Height.Ceil()

	return Size{
		Width:  float64(maxWidth) + 2*o.paddingX,
		Height: float64(lineHeight*len(lines)) + 2*o.paddingY,
	}
}
