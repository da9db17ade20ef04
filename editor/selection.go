package editor

import "mindterm/tree"

// SelectionProvider reports the currently selected node ids, in the order
// they were selected.
type SelectionProvider interface {
	SelectedIDs() []tree.NodeID
}

// SelectionSetter is implemented by providers the session may update after
// an operation, e.g. to select a newly created node.
type SelectionSetter interface {
	Select(ids ...tree.NodeID)
}

// Selection is an in-memory SelectionProvider and SelectionSetter.
type Selection struct {
	ids []tree.NodeID
}

// NewSelection returns a selection holding ids.
func NewSelection(ids ...tree.NodeID) *Selection {
	s := &Selection{}
	s.Select(ids...)
	return s
}

func (s *Selection) SelectedIDs() []tree.NodeID {
	return append([]tree.NodeID(nil), s.ids...)
}

// Select replaces the selection.
func (s *Selection) Select(ids ...tree.NodeID) {
	s.ids = append(s.ids[:0:0], ids...)
}

// Toggle adds id to the selection or removes it if already present.
func (s *Selection) Toggle(id tree.NodeID) {
	for i, sel := range s.ids {
		if sel == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			return
		}
	}
	s.ids = append(s.ids, id)
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id tree.NodeID) bool {
	for _, sel := range s.ids {
		if sel == id {
			return true
		}
	}
	return false
}
