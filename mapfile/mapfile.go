// Package mapfile reads and writes mind maps as JSON or YAML documents.
// Only structure, labels and measured geometry are stored; edge waypoints
// are recomputed by the layout engine after loading.
package mapfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"mindterm/geometry"
	"mindterm/layout"
	"mindterm/tree"
)

// Version is the document version written by Encode.
const Version = 1

// ErrInvalidDocument is wrapped by every validation failure.
var ErrInvalidDocument = errors.New("invalid mind map document")

// Format is a serialization format.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unsupported mind map extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Document is the on-disk form of a map.
type Document struct {
	Version   int     `json:"version" yaml:"version" validate:"eq=1"`
	Direction string  `json:"direction,omitempty" yaml:"direction,omitempty" validate:"omitempty,oneof=LR RL TB BT"`
	Root      NodeDoc `json:"root" yaml:"root"`
}

// NodeDoc is one node and, recursively, its children.
type NodeDoc struct {
	ID       string         `json:"id" yaml:"id" validate:"required,max=128"`
	Content  string         `json:"content" yaml:"content"`
	Style    string         `json:"style,omitempty" yaml:"style,omitempty" validate:"omitempty,max=64"`
	Size     SizeDoc        `json:"size" yaml:"size"`
	Position geometry.Point `json:"position" yaml:"position"`
	Children []NodeDoc      `json:"children,omitempty" yaml:"children,omitempty" validate:"dive"`
}

// SizeDoc is a measured size; negative values are rejected.
type SizeDoc struct {
	Width  float64 `json:"width" yaml:"width" validate:"gte=0"`
	Height float64 `json:"height" yaml:"height" validate:"gte=0"`
}

// Map is a decoded document. Direction is empty when the document does not
// store one.
type Map struct {
	Tree      *tree.Tree
	Direction layout.Direction
}

var validate = validator.New()

// NewDocument converts t into its document form.
func NewDocument(t *tree.Tree, dir layout.Direction) (*Document, error) {
	var build func(id tree.NodeID) (NodeDoc, error)
	build = func(id tree.NodeID) (NodeDoc, error) {
		n, err := t.Node(id)
		if err != nil {
			return NodeDoc{}, err
		}
		doc := NodeDoc{
			ID:       string(n.ID),
			Content:  n.Content,
			Style:    n.StyleClass,
			Size:     SizeDoc{Width: n.Size.Width, Height: n.Size.Height},
			Position: n.Position,
		}
		for _, childID := range n.ChildIDs {
			child, err := build(childID)
			if err != nil {
				return NodeDoc{}, err
			}
			doc.Children = append(doc.Children, child)
		}
		return doc, nil
	}

	root, err := build(t.Root())
	if err != nil {
		return nil, err
	}
	return &Document{Version: Version, Direction: string(dir), Root: root}, nil
}

// Tree validates the document and builds the tree it describes.
func (d *Document) Tree(opts ...tree.Option) (*Map, error) {
	if err := validate.Struct(d); err != nil {
		return nil, formatValidationError(err)
	}

	style := d.Root.Style
	if style == "" {
		style = geometry.RootClass
	}
	t := tree.NewWithRoot(tree.Node{
		ID:         tree.NodeID(d.Root.ID),
		Content:    d.Root.Content,
		StyleClass: style,
		Size:       geometry.Size{Width: d.Root.Size.Width, Height: d.Root.Size.Height},
		Position:   d.Root.Position,
	}, opts...)

	var attach func(parent tree.NodeID, docs []NodeDoc) error
	attach = func(parent tree.NodeID, docs []NodeDoc) error {
		for _, doc := range docs {
			id, err := t.InsertChild(parent, tree.Node{
				ID:         tree.NodeID(doc.ID),
				Content:    doc.Content,
				StyleClass: doc.Style,
				Size:       geometry.Size{Width: doc.Size.Width, Height: doc.Size.Height},
				Position:   doc.Position,
			})
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
			}
			if err := attach(id, doc.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := attach(t.Root(), d.Root.Children); err != nil {
		return nil, err
	}
	if err := t.Check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return &Map{Tree: t, Direction: layout.Direction(d.Direction)}, nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Namespace()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", e.Namespace(), e.Param()))
		case "eq":
			msgs = append(msgs, fmt.Sprintf("%s must be %s", e.Namespace(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", e.Namespace(), e.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}

// Encode writes t in format f.
func Encode(w io.Writer, t *tree.Tree, dir layout.Direction, f Format) error {
	doc, err := NewDocument(t, dir)
	if err != nil {
		return err
	}
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}

// Decode reads a document in format f and builds its tree.
func Decode(r io.Reader, f Format, opts ...tree.Option) (*Map, error) {
	var doc Document
	switch f {
	case JSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode JSON: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
	return doc.Tree(opts...)
}

// Save writes t to path in the format named by its extension.
func Save(path string, t *tree.Tree, dir layout.Direction) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, t, dir, f); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Load reads the map stored at path.
func Load(path string, opts ...tree.Option) (*Map, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()
	return Decode(file, f, opts...)
}
