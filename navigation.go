package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"mindterm/layout"
	"mindterm/tree"
)

type step int

const (
	stepNone step = iota
	stepParent
	stepChild
	stepPrevSibling
	stepNextSibling
)

// screenDirection folds the vim keys and arrows onto one of h, j, k or l.
func screenDirection(key string) string {
	switch key {
	case "h", "left", "H", "shift+left":
		return "h"
	case "l", "right", "L", "shift+right":
		return "l"
	case "k", "up", "K", "shift+up":
		return "k"
	case "j", "down", "J", "shift+down":
		return "j"
	}
	return ""
}

// stepFor maps a screen direction to a tree step. Moving along the growth
// axis walks between parent and child; moving across it walks siblings.
func stepFor(dir layout.Direction, key string) step {
	s := screenDirection(key)
	if s == "" {
		return stepNone
	}
	forward, backward := "l", "h"
	prev, next := "k", "j"
	switch dir {
	case layout.RightToLeft:
		forward, backward = "h", "l"
	case layout.TopToBottom:
		forward, backward, prev, next = "j", "k", "h", "l"
	case layout.BottomToTop:
		forward, backward, prev, next = "k", "j", "h", "l"
	}
	switch s {
	case forward:
		return stepChild
	case backward:
		return stepParent
	case prev:
		return stepPrevSibling
	case next:
		return stepNextSibling
	}
	return stepNone
}

func (m *model) handleNavigation(key string, speed int) (tea.Model, tea.Cmd) {
	if m.zPanMode {
		return m.handlePan(key, speed), nil
	}
	return m.handleSelectionMove(key), nil
}

func (m *model) handlePan(key string, speed int) tea.Model {
	switch screenDirection(key) {
	case "h":
		m.panX -= speed
	case "l":
		m.panX += speed
	case "k":
		m.panY -= speed
	case "j":
		m.panY += speed
	}
	m.follow = false
	return m
}

func (m *model) handleSelectionMove(key string) tea.Model {
	current, ok := m.focused()
	if !ok {
		return m
	}
	next, ok := m.neighbour(current, stepFor(m.session.Direction(), key))
	if !ok {
		return m
	}
	if m.mode == ModeMultiSelect {
		m.focusID = next
	} else {
		m.session.Select(next)
	}
	m.follow = true
	m.ensureVisible(next)
	return m
}

// neighbour returns the node one step away from id, if there is one.
func (m *model) neighbour(id tree.NodeID, s step) (tree.NodeID, bool) {
	n, err := m.session.Node(id)
	if err != nil {
		return "", false
	}
	switch s {
	case stepParent:
		if n.IsRoot {
			return "", false
		}
		return n.ParentID, true
	case stepChild:
		if len(n.ChildIDs) == 0 {
			return "", false
		}
		// The middle child sits level with its parent.
		return n.ChildIDs[(len(n.ChildIDs)-1)/2], true
	case stepPrevSibling, stepNextSibling:
		if n.IsRoot {
			return "", false
		}
		parent, err := m.session.Node(n.ParentID)
		if err != nil {
			return "", false
		}
		i := indexOf(parent.ChildIDs, id)
		if s == stepPrevSibling {
			i--
		} else {
			i++
		}
		if i < 0 || i >= len(parent.ChildIDs) {
			return "", false
		}
		return parent.ChildIDs[i], true
	}
	return "", false
}

// siblingEnd jumps to the first or last sibling of the focused node.
func (m *model) siblingEnd(last bool) {
	id, ok := m.focused()
	if !ok {
		return
	}
	n, err := m.session.Node(id)
	if err != nil || n.IsRoot {
		return
	}
	parent, err := m.session.Node(n.ParentID)
	if err != nil {
		return
	}
	target := parent.ChildIDs[0]
	if last {
		target = parent.ChildIDs[len(parent.ChildIDs)-1]
	}
	m.session.Select(target)
	m.follow = true
	m.ensureVisible(target)
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return fastPanStep
	default:
		return panStep
	}
}

func indexOf(ids []tree.NodeID, id tree.NodeID) int {
	for i, c := range ids {
		if c == id {
			return i
		}
	}
	return -1
}
