package main

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"mindterm/editor"
	"mindterm/history"
	"mindterm/layout"
	"mindterm/tree"
)

// apply runs op against the session and reports the outcome on the status
// line. It returns the result only when the operation changed something.
func (m *model) apply(op editor.Operation) (editor.Result, bool) {
	res, err := m.session.ApplyOperation(op)
	if err != nil {
		m.setError(describeError(err))
		return res, false
	}
	if !res.Applied {
		if res.Reason != "" {
			m.setSuccess(res.Reason)
		}
		return res, false
	}
	switch op.Kind {
	case editor.Copy, editor.SelectAll:
	default:
		m.dirty = true
	}
	if id, ok := m.focused(); ok && m.follow {
		m.ensureVisible(id)
	}
	return res, true
}

func describeError(err error) string {
	switch {
	case errors.Is(err, tree.ErrCycleDetected):
		return "cannot drop a node onto itself or one of its descendants"
	case errors.Is(err, tree.ErrRootRemovalForbidden):
		return "the central topic cannot be moved or deleted"
	case errors.Is(err, editor.ErrEmptySelection):
		return "nothing selected"
	case errors.Is(err, editor.ErrEditInProgress):
		return "finish the current edit first"
	case errors.Is(err, history.ErrNothingToUndo):
		return "nothing to undo"
	case errors.Is(err, history.ErrNothingToRedo):
		return "nothing to redo"
	default:
		return err.Error()
	}
}

func (m *model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if msg.Type == tea.KeyEscape {
		m.zPanMode = false
		m.clearMessages()
		return m, nil
	}

	switch key {
	case "ctrl+c":
		return m, m.quit()
	case "q":
		if m.dirty && m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return m, nil
		}
		return m, m.quit()
	case "?":
		m.help = true
		m.helpScroll = 0
		return m, nil
	case "z":
		m.zPanMode = !m.zPanMode
		return m, nil
	}

	if m.zPanMode {
		if screenDirection(key) != "" {
			return m.handleNavigation(key, m.getMoveSpeed(key))
		}
	}

	m.clearMessages()
	switch key {
	case "h", "j", "k", "l", "left", "right", "up", "down":
		return m.handleNavigation(key, 1)
	case "tab", "a":
		m.addNode(editor.AddChild)
	case "enter", "o":
		m.addNode(editor.AddSibling)
	case "e", "i", "f2":
		if id, ok := m.focused(); ok {
			m.beginEdit(id, false)
		}
	case "d", "delete", "backspace":
		m.requestDelete()
	case "y", "c":
		if res, ok := m.apply(editor.Operation{Kind: editor.Copy}); ok {
			m.setSuccess(fmt.Sprintf("Copied %d node(s)", len(res.Affected)))
		}
	case "x":
		if res, ok := m.apply(editor.Operation{Kind: editor.Cut}); ok {
			if len(res.Removed) == 0 {
				m.setSuccess(res.Reason)
			} else {
				m.setSuccess(fmt.Sprintf("Cut %d node(s)", len(res.Removed)))
			}
		}
	case "p":
		if res, ok := m.apply(editor.Operation{Kind: editor.Paste}); ok {
			m.setSuccess(fmt.Sprintf("Pasted %d subtree(s)", len(res.Affected)))
		}
	case "J":
		m.apply(editor.Operation{Kind: editor.MoveDown})
	case "K":
		m.apply(editor.Operation{Kind: editor.MoveUp})
	case "g":
		root := m.session.Root()
		m.session.Select(root)
		m.centerOn(root)
		m.follow = true
	case "[":
		m.siblingEnd(false)
	case "]":
		m.siblingEnd(true)
	case "m":
		m.beginDrag()
	case "v":
		m.mode = ModeMultiSelect
		m.focusID, _ = m.focused()
	case "ctrl+a":
		if res, ok := m.apply(editor.Operation{Kind: editor.SelectAll}); ok {
			m.setSuccess(fmt.Sprintf("Selected %d node(s)", len(res.Affected)))
		}
	case "r":
		m.cycleDirection()
	case "+", "=":
		m.adjustSpacing(1)
	case "-", "_":
		m.adjustSpacing(-1)
	case "u", "ctrl+z":
		m.undo()
	case "U", "ctrl+r", "ctrl+y":
		m.redo()
	case "s", "ctrl+s":
		if m.currentFile != "" {
			m.saveTo(m.currentFile)
			return m, nil
		}
		m.startFileInput(FileOpSave)
	case "S":
		m.startFileInput(FileOpSave)
	case "O", "ctrl+o":
		m.startFileInput(FileOpOpen)
	case "E":
		m.startFileInput(FileOpSavePNG)
	case "T":
		m.startFileInput(FileOpSaveVisualTXT)
	case "n":
		if m.dirty && m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmNewMap
			return m, nil
		}
		m.newMap()
	}
	return m, nil
}

// addNode creates a child or sibling of the focused node and opens it for
// editing with an empty label.
func (m *model) addNode(kind editor.Kind) {
	res, ok := m.apply(editor.Operation{Kind: kind})
	if !ok || len(res.Affected) == 0 {
		return
	}
	id := res.Affected[0]
	m.follow = true
	m.ensureVisible(id)
	m.beginEdit(id, true)
}

func (m *model) beginEdit(id tree.NodeID, fresh bool) {
	content, err := m.session.BeginEdit(id)
	if err != nil {
		m.setError(describeError(err))
		return
	}
	if fresh {
		content = ""
	}
	m.editText = content
	m.editCursorPos = len([]rune(content))
	m.mode = ModeEditing
}

func (m *model) requestDelete() {
	t := m.session.Tree()
	targets := t.Reduce(t.WithoutRoot(m.session.Selection()))
	if len(targets) == 0 {
		m.apply(editor.Operation{Kind: editor.Delete})
		return
	}
	count := 0
	for _, id := range targets {
		desc, _ := t.Descendants(id)
		count += 1 + len(desc)
	}
	if m.config.Confirmations && count > 1 {
		m.mode = ModeConfirm
		m.confirmAction = ConfirmDeleteNodes
		m.pendingCount = count
		return
	}
	m.deleteSelected()
}

func (m *model) deleteSelected() {
	if res, ok := m.apply(editor.Operation{Kind: editor.Delete}); ok {
		m.setSuccess(fmt.Sprintf("Deleted %d node(s)", len(res.Removed)))
	}
}

func (m *model) beginDrag() {
	t := m.session.Tree()
	dragged := t.Reduce(t.WithoutRoot(m.session.Selection()))
	if len(dragged) == 0 {
		m.setError("select a node other than the central topic to move it")
		return
	}
	n, err := m.session.Node(dragged[len(dragged)-1])
	if err != nil {
		return
	}
	m.dragging = dragged
	m.cursorX, m.cursorY = m.screenOf(n.Rect().Center())
	m.mode = ModeDrag
}

func (m *model) handleDragKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case msg.Type == tea.KeyEscape:
		m.endDrag()
		return m, nil
	case msg.Type == tea.KeyEnter:
		m.dropAt(m.cursorX, m.cursorY)
		return m, nil
	}
	speed := 1
	if key == "H" || key == "J" || key == "K" || key == "L" || strings.HasPrefix(key, "shift+") {
		speed = panStep
	}
	switch screenDirection(key) {
	case "h":
		m.cursorX -= speed
	case "l":
		m.cursorX += speed
	case "k":
		m.cursorY -= speed
	case "j":
		m.cursorY += speed
	}
	m.keepCursorOnScreen()
	return m, nil
}

// dropAt reparents the selection under the node at a screen cell.
func (m *model) dropAt(x, y int) {
	m.endDrag()
	if res, ok := m.apply(editor.Operation{Kind: editor.DragReparent, Point: m.worldAt(x, y)}); ok {
		n, _ := m.session.Node(res.Affected[0])
		m.setSuccess(fmt.Sprintf("Moved %d node(s) under %q", len(res.Affected)-1, n.Content))
	}
}

func (m *model) endDrag() {
	m.dragging = nil
	m.mouseDown = false
	m.mouseDragged = false
	m.mode = ModeNormal
}

// keepCursorOnScreen pans when the drag cursor reaches the viewport edge.
func (m *model) keepCursorOnScreen() {
	width, height := m.viewportSize()
	if m.cursorX < 0 {
		m.panX += m.cursorX
		m.cursorX = 0
	}
	if m.cursorX >= width {
		m.panX += m.cursorX - width + 1
		m.cursorX = width - 1
	}
	if m.cursorY < 0 {
		m.panY += m.cursorY
		m.cursorY = 0
	}
	if m.cursorY >= height {
		m.panY += m.cursorY - height + 1
		m.cursorY = height - 1
	}
}

func (m *model) handleMultiSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case msg.Type == tea.KeyEscape, key == "v", key == "enter":
		m.mode = ModeNormal
		m.focusID = ""
		return m, nil
	case key == " " || key == "space":
		if id, ok := m.focused(); ok {
			m.selection.Toggle(id)
		}
		return m, nil
	case key == "ctrl+a":
		m.apply(editor.Operation{Kind: editor.SelectAll})
		return m, nil
	}
	if screenDirection(key) != "" {
		return m.handleNavigation(key, 1)
	}
	return m, nil
}

func (m *model) cycleDirection() {
	next := layout.Directions[0]
	for i, d := range layout.Directions {
		if d == m.session.Direction() {
			next = layout.Directions[(i+1)%len(layout.Directions)]
			break
		}
	}
	m.session.SetDirection(next)
	m.logger.Debug("direction changed", zap.String("direction", next.String()))
	if id, ok := m.focused(); ok {
		m.centerOn(id)
	}
	m.setSuccess("Layout " + next.String())
}

func (m *model) adjustSpacing(delta float64) {
	cfg := m.session.Layout()
	gap := cfg.LevelGap + delta
	if gap < 1 || gap > 40 {
		return
	}
	m.session.SetSpacing(gap, cfg.SiblingGap)
	m.setSuccess(fmt.Sprintf("Level gap %g", gap))
}

func (m *model) newMap() {
	m.session.Load(tree.New(editor.DefaultRootContent))
	m.currentFile = ""
	m.dirty = false
	m.centerOn(m.session.Root())
	m.setSuccess("New map")
}

func (m *model) quit() tea.Cmd {
	if m.watcher != nil {
		m.watcher.Stop()
	}
	return tea.Quit
}
