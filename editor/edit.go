package editor

import (
	"fmt"

	"go.uber.org/zap"

	"mindterm/tree"
)

// BeginEdit opens an inline edit of id and returns its current content.
func (s *Session) BeginEdit(id tree.NodeID) (string, error) {
	if s.editing != "" {
		return "", fmt.Errorf("%w: editing %s", ErrEditInProgress, s.editing)
	}
	n, err := s.tree.Node(id)
	if err != nil {
		return "", err
	}
	s.editing = id
	s.logger.Debug("begin edit", zap.String("node", string(id)))
	return n.Content, nil
}

// Editing returns the node being edited, if any.
func (s *Session) Editing() (tree.NodeID, bool) {
	return s.editing, s.editing != ""
}

// CommitEdit writes content to the node being edited as one batch and
// closes the edit, whether or not the write succeeds.
func (s *Session) CommitEdit(content string) (Result, error) {
	if s.editing == "" {
		return Result{}, ErrNotEditing
	}
	id := s.editing
	s.editing = ""
	return s.ApplyOperation(Operation{Kind: EditContent, Target: id, Content: content})
}

// CancelEdit closes the edit without touching the tree.
func (s *Session) CancelEdit() error {
	if s.editing == "" {
		return ErrNotEditing
	}
	s.logger.Debug("cancel edit", zap.String("node", string(s.editing)))
	s.editing = ""
	return nil
}
