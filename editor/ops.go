package editor

import (
	"fmt"

	"go.uber.org/zap"

	"mindterm/tree"
)

// ApplyOperation validates and performs op. Every mutating operation is one
// undoable batch followed by a single layout notification. On error nothing
// observable has changed.
func (s *Session) ApplyOperation(op Operation) (Result, error) {
	s.logger.Debug("apply operation", zap.String("op", string(op.Kind)))

	var (
		res Result
		err error
	)
	switch op.Kind {
	case AddChild:
		res, err = s.addChild(op)
	case AddSibling:
		res, err = s.addSibling(op)
	case Delete:
		res, err = s.deleteSelected()
	case Copy:
		res, err = s.copySelected()
	case Cut:
		res, err = s.cutSelected()
	case Paste:
		res, err = s.paste()
	case DragReparent:
		res, err = s.dragReparent(op)
	case EditContent:
		res, err = s.editContent(op)
	case MoveUp:
		res, err = s.move(-1)
	case MoveDown:
		res, err = s.move(1)
	case SelectAll:
		res, err = s.selectAll()
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op.Kind)
	}

	if err != nil {
		s.logger.Warn("operation failed", zap.String("op", string(op.Kind)), zap.Error(err))
		return Result{}, err
	}
	if !res.Applied {
		s.logger.Debug("operation skipped", zap.String("op", string(op.Kind)), zap.String("reason", res.Reason))
	}
	return res, nil
}

func (s *Session) addChild(op Operation) (Result, error) {
	parent, err := s.lastSelected()
	if err != nil {
		return Result{}, err
	}
	content := op.Content
	if content == "" {
		content = s.placeholder()
	}

	var id tree.NodeID
	err = s.batch(LabelAppendChildren, func() error {
		var err error
		id, err = s.tree.InsertChild(parent, tree.Node{Content: content})
		if err != nil {
			return err
		}
		s.selectIDs(id)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Applied: true, Affected: []tree.NodeID{id}}, nil
}

func (s *Session) addSibling(op Operation) (Result, error) {
	selected, err := s.lastSelected()
	if err != nil {
		return Result{}, err
	}
	if s.tree.IsRoot(selected) {
		return skipped("the root has no siblings"), nil
	}
	parent, err := s.tree.Parent(selected)
	if err != nil {
		return Result{}, err
	}
	index, err := s.tree.ChildIndex(parent, selected)
	if err != nil {
		return Result{}, err
	}
	content := op.Content
	if content == "" {
		content = s.placeholder()
	}

	var id tree.NodeID
	err = s.batch(LabelAppendBrother, func() error {
		var err error
		id, err = s.tree.InsertChild(parent, tree.Node{Content: content}, index+1)
		if err != nil {
			return err
		}
		s.selectIDs(id)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Applied: true, Affected: []tree.NodeID{id}}, nil
}

// removable is the reduced selection without the root.
func (s *Session) removable() []tree.NodeID {
	return s.tree.Reduce(s.tree.WithoutRoot(s.Selection()))
}

func (s *Session) deleteSelected() (Result, error) {
	targets := s.removable()
	if len(targets) == 0 {
		return skipped("nothing deletable selected"), nil
	}

	var removed []tree.NodeID
	err := s.batch(LabelRemoveNodes, func() error {
		var err error
		removed, err = s.removeAll(targets)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Applied: true, Affected: targets, Removed: removed}, nil
}

// removeAll removes each subtree and moves the selection to the parent of
// the first removed node.
func (s *Session) removeAll(targets []tree.NodeID) ([]tree.NodeID, error) {
	next := s.tree.Root()
	if parent, err := s.tree.Parent(targets[0]); err == nil && parent != "" {
		next = parent
	}

	var removed []tree.NodeID
	for _, id := range targets {
		ids, err := s.tree.RemoveSubtree(id)
		if err != nil {
			return nil, err
		}
		removed = append(removed, ids...)
	}
	s.selectIDs(next)
	return removed, nil
}

func (s *Session) clone(ids []tree.NodeID) ([]*tree.Subtree, error) {
	entries := make([]*tree.Subtree, 0, len(ids))
	for _, id := range ids {
		sub, err := s.tree.CloneSubtree(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, sub)
	}
	return entries, nil
}

func (s *Session) copySelected() (Result, error) {
	ids := s.tree.Reduce(s.Selection())
	if len(ids) == 0 {
		return skipped("nothing selected to copy"), nil
	}
	entries, err := s.clone(ids)
	if err != nil {
		return Result{}, err
	}
	s.clipboard.Set(entries)
	return Result{Applied: true, Affected: ids}, nil
}

func (s *Session) cutSelected() (Result, error) {
	targets := s.removable()
	if len(targets) == 0 {
		res, err := s.copySelected()
		if res.Applied {
			res.Reason = "the root cannot be cut, copied instead"
		}
		return res, err
	}

	entries, err := s.clone(targets)
	if err != nil {
		return Result{}, err
	}
	var removed []tree.NodeID
	err = s.batch(LabelCutNodes, func() error {
		var err error
		removed, err = s.removeAll(targets)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	s.clipboard.Set(entries)
	return Result{Applied: true, Affected: targets, Removed: removed}, nil
}

func (s *Session) paste() (Result, error) {
	entries := s.clipboard.Get()
	if len(entries) == 0 {
		return skipped("clipboard is empty"), nil
	}
	parent, err := s.lastSelected()
	if err != nil {
		return Result{}, err
	}

	var pasted []tree.NodeID
	err = s.batch(LabelPasteNodes, func() error {
		for _, sub := range entries {
			id, err := s.tree.InsertClone(parent, sub)
			if err != nil {
				return err
			}
			pasted = append(pasted, id)
		}
		s.selectIDs(pasted...)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Applied: true, Affected: pasted}, nil
}

// dropTarget returns the first node in pre-order, skipping the dragged
// nodes themselves, whose box contains the drop point.
func (s *Session) dropTarget(op Operation, dragged []tree.NodeID) (tree.NodeID, bool) {
	skip := make(map[tree.NodeID]bool, len(dragged))
	for _, id := range dragged {
		skip[id] = true
	}
	for _, n := range s.tree.Nodes() {
		if skip[n.ID] {
			continue
		}
		if n.Rect().Contains(op.Point) {
			return n.ID, true
		}
	}
	return "", false
}

func (s *Session) dragReparent(op Operation) (Result, error) {
	dragged := s.removable()
	if len(dragged) == 0 {
		return skipped("nothing draggable selected"), nil
	}
	target, ok := s.dropTarget(op, dragged)
	if !ok {
		return skipped("no node under the drop point"), nil
	}
	for _, id := range dragged {
		if err := s.tree.CanReparent(id, target); err != nil {
			return Result{}, err
		}
	}

	err := s.batch(LabelDropAppendChildren, func() error {
		for _, id := range dragged {
			if err := s.tree.Reparent(id, target); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Applied: true, Affected: append([]tree.NodeID{target}, dragged...)}, nil
}

func (s *Session) editContent(op Operation) (Result, error) {
	id := op.Target
	if id == "" {
		var err error
		if id, err = s.lastSelected(); err != nil {
			return Result{}, err
		}
	}
	n, err := s.tree.Node(id)
	if err != nil {
		return Result{}, err
	}
	if n.Content == op.Content {
		return skipped("content unchanged"), nil
	}

	err = s.batch(LabelUpdateContent, func() error {
		if _, err := s.tree.SetContent(id, op.Content); err != nil {
			return err
		}
		s.sizes.Invalidate(op.Content, n.StyleClass)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Applied: true, Affected: []tree.NodeID{id}}, nil
}

func (s *Session) move(delta int) (Result, error) {
	id, err := s.lastSelected()
	if err != nil {
		return Result{}, err
	}
	if s.tree.IsRoot(id) {
		return skipped("the root cannot move"), nil
	}

	var moved bool
	err = s.batch(LabelMoveNode, func() error {
		var err error
		moved, err = s.tree.Move(id, delta)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	if !moved {
		return skipped("already at the end of its siblings"), nil
	}
	return Result{Applied: true, Affected: []tree.NodeID{id}}, nil
}

func (s *Session) selectAll() (Result, error) {
	ids := s.tree.IDs()
	s.selectIDs(ids...)
	return Result{Applied: true, Affected: ids}, nil
}
