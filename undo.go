package main

import (
	"go.uber.org/zap"

	"mindterm/editor"
)

// Friendly names for history labels shown after undo and redo.
var actionNames = map[string]string{
	editor.LabelAppendChildren:     "add child",
	editor.LabelAppendBrother:      "add sibling",
	editor.LabelRemoveNodes:        "delete",
	editor.LabelDropAppendChildren: "move",
	editor.LabelPasteNodes:         "paste",
	editor.LabelCutNodes:           "cut",
	editor.LabelUpdateContent:      "edit",
	editor.LabelMoveNode:           "reorder",
}

func actionName(label string) string {
	if name, ok := actionNames[label]; ok {
		return name
	}
	return label
}

func (m *model) undo() {
	label, err := m.session.Undo()
	if err != nil {
		m.setError(describeError(err))
		return
	}
	m.afterHistory()
	m.logger.Debug("undo", zap.String("label", label))
	m.setSuccess("Undid " + actionName(label))
}

func (m *model) redo() {
	label, err := m.session.Redo()
	if err != nil {
		m.setError(describeError(err))
		return
	}
	m.afterHistory()
	m.logger.Debug("redo", zap.String("label", label))
	m.setSuccess("Redid " + actionName(label))
}

func (m *model) afterHistory() {
	m.dirty = true
	if id, ok := m.focused(); ok {
		m.ensureVisible(id)
	}
}
