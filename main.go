package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"mindterm/editor"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newModel(session *editor.Session, selection *editor.Selection, config *Config, logger *zap.Logger) *model {
	m := &model{
		session:           session,
		selection:         selection,
		config:            config,
		logger:            logger,
		mode:              ModeNormal,
		follow:            true,
		selectedFileIndex: -1,
	}
	session.OnLayoutUpdated(func(u editor.LayoutUpdate) {
		logger.Debug("layout updated",
			zap.String("label", u.Label),
			zap.Int("nodes", len(u.Positions)),
			zap.Float64("width", u.Bounds.Width),
			zap.Float64("height", u.Bounds.Height),
		)
	})
	return m
}

func (m *model) Init() tea.Cmd {
	if m.watcher != nil {
		return m.watcher.next()
	}
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		first := m.width == 0
		m.width = msg.Width
		m.height = msg.Height
		if first {
			m.centerOn(m.session.Root())
		} else if id, ok := m.focused(); ok && m.follow {
			m.ensureVisible(id)
		}
		return m, nil

	case configReloadedMsg:
		m.applyConfig(msg.config)
		return m, m.watcher.next()

	case configErrorMsg:
		m.setError("config not reloaded: " + msg.err.Error())
		return m, m.watcher.next()

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.help {
			return m.handleHelpKey(msg)
		}
		switch m.mode {
		case ModeEditing:
			return m.handleEditingKey(msg)
		case ModeDrag:
			return m.handleDragKey(msg)
		case ModeMultiSelect:
			return m.handleMultiSelectKey(msg)
		case ModeFileInput:
			return m.handleFileInputKey(msg)
		case ModeConfirm:
			return m.handleConfirmKey(msg)
		default:
			return m.handleNormalKey(msg)
		}
	}
	return m, nil
}

// applyConfig takes over the preferences that can change while running.
func (m *model) applyConfig(config *Config) {
	prev := m.session.Layout()
	m.config = config
	next := config.Layout()
	next.Origin = prev.Origin
	if next != prev {
		m.session.SetLayout(next)
	}
	m.logger.Info("configuration applied",
		zap.String("direction", next.Direction.String()),
		zap.Float64("level_gap", next.LevelGap),
		zap.Float64("sibling_gap", next.SiblingGap),
	)
	m.setSuccess("Config reloaded")
}

func (m *model) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	runes := []rune(m.editText)
	switch {
	case msg.Type == tea.KeyEscape:
		if err := m.session.CancelEdit(); err != nil {
			m.logger.Warn("cancel edit", zap.Error(err))
		}
		m.mode = ModeNormal
		m.editText = ""
		m.editCursorPos = 0
		return m, nil
	case msg.Type == tea.KeyEnter && msg.Alt:
		m.insertText("\n")
		return m, nil
	case msg.Type == tea.KeyEnter, msg.Type == tea.KeyCtrlS:
		m.commitEdit()
		return m, nil
	case msg.Type == tea.KeyTab:
		// Tab finishes the label and starts a child, as in most mind map tools.
		m.commitEdit()
		m.addNode(editor.AddChild)
		return m, nil
	case msg.String() == "left":
		if m.editCursorPos > 0 {
			m.editCursorPos--
		}
		return m, nil
	case msg.String() == "right":
		if m.editCursorPos < len(runes) {
			m.editCursorPos++
		}
		return m, nil
	case msg.Type == tea.KeyHome, msg.Type == tea.KeyCtrlA:
		m.editCursorPos = 0
		return m, nil
	case msg.Type == tea.KeyEnd, msg.Type == tea.KeyCtrlE:
		m.editCursorPos = len(runes)
		return m, nil
	case msg.Type == tea.KeyCtrlU:
		m.editText = ""
		m.editCursorPos = 0
		return m, nil
	case msg.Type == tea.KeyBackspace:
		if m.editCursorPos > 0 {
			m.editText = string(runes[:m.editCursorPos-1]) + string(runes[m.editCursorPos:])
			m.editCursorPos--
		}
		return m, nil
	case msg.Type == tea.KeyDelete:
		if m.editCursorPos < len(runes) {
			m.editText = string(runes[:m.editCursorPos]) + string(runes[m.editCursorPos+1:])
		}
		return m, nil
	case msg.Type == tea.KeySpace:
		m.insertText(" ")
		return m, nil
	case msg.Type == tea.KeyRunes:
		m.insertText(string(msg.Runes))
		return m, nil
	}
	return m, nil
}

func (m *model) insertText(s string) {
	runes := []rune(m.editText)
	m.editText = string(runes[:m.editCursorPos]) + s + string(runes[m.editCursorPos:])
	m.editCursorPos += len([]rune(s))
}

func (m *model) commitEdit() {
	text := m.editText
	m.mode = ModeNormal
	m.editText = ""
	m.editCursorPos = 0

	// A blank label keeps whatever the node had before.
	if strings.TrimSpace(text) == "" {
		if err := m.session.CancelEdit(); err != nil {
			m.logger.Warn("cancel edit", zap.Error(err))
		}
		return
	}
	res, err := m.session.CommitEdit(text)
	if err != nil {
		m.setError(describeError(err))
		return
	}
	if res.Applied {
		m.dirty = true
		m.ensureVisible(res.Affected[0])
	}
}

func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal && m.mode != ModeMultiSelect && m.mode != ModeDrag {
		return m, nil
	}
	switch msg.Type {
	case tea.MouseWheelUp:
		m.panY -= 2
		m.follow = false
	case tea.MouseWheelDown:
		m.panY += 2
		m.follow = false
	case tea.MouseLeft, tea.MouseMotion:
		// Some terminals report a held button as repeated presses.
		if m.mouseDown {
			m.mouseMoved(msg.X, msg.Y)
			return m, nil
		}
		if msg.Type == tea.MouseMotion {
			return m, nil
		}
		id, ok := m.nodeAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		if msg.Ctrl || m.mode == ModeMultiSelect {
			m.selection.Toggle(id)
			m.focusID = id
			return m, nil
		}
		if !m.selection.Contains(id) {
			m.session.Select(id)
		}
		m.mouseDown = true
		m.mouseDragged = false
		m.mouseStart = point{X: msg.X, Y: msg.Y}
	case tea.MouseRelease:
		if m.mouseDragged {
			m.dropAt(msg.X, msg.Y)
			return m, nil
		}
		m.mouseDown = false
	}
	return m, nil
}

func (m *model) mouseMoved(x, y int) {
	if x == m.mouseStart.X && y == m.mouseStart.Y {
		return
	}
	if !m.mouseDragged {
		m.beginDrag()
		m.mouseDragged = m.mode == ModeDrag
		if !m.mouseDragged {
			m.mouseDown = false
			return
		}
	}
	m.cursorX, m.cursorY = x, y
}
