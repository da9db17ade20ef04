package editor

import (
	"mindterm/geometry"
	"mindterm/tree"
)

// Kind names an edit operation.
type Kind string

const (
	AddChild     Kind = "add_child"
	AddSibling   Kind = "add_sibling"
	Delete       Kind = "delete"
	Copy         Kind = "copy"
	Cut          Kind = "cut"
	Paste        Kind = "paste"
	DragReparent Kind = "drag_reparent"
	EditContent  Kind = "edit_content"
	MoveUp       Kind = "move_up"
	MoveDown     Kind = "move_down"
	SelectAll    Kind = "select_all"
)

// History batch labels.
const (
	LabelAppendChildren     = "appendChildren"
	LabelAppendBrother      = "appendBrother"
	LabelRemoveNodes        = "removeNodes"
	LabelDropAppendChildren = "dropAppendChildren"
	LabelPasteNodes         = "pasteNodes"
	LabelCutNodes           = "cutNodes"
	LabelUpdateContent      = "updateContent"
	LabelMoveNode           = "moveNode"
)

// Operation is a request to ApplyOperation. Only the fields relevant to the
// kind are read.
type Operation struct {
	Kind Kind
	// Content is the label for EditContent, or for AddChild and AddSibling
	// in place of the placeholder.
	Content string
	// Target is the node for EditContent; the last selected node otherwise.
	Target tree.NodeID
	// Point is the drop location for DragReparent.
	Point geometry.Point
}

// Result describes what an operation did. An operation that was valid but
// had nothing to do reports Applied=false with a Reason and a nil error.
type Result struct {
	Applied  bool
	Reason   string
	Affected []tree.NodeID
	Removed  []tree.NodeID
}

func skipped(reason string) Result {
	return Result{Reason: reason}
}
