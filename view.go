package main

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mindterm/geometry"
	"mindterm/render"
)

var (
	statusStyle  = lipgloss.NewStyle().Reverse(true)
	modeStyle    = lipgloss.NewStyle().Bold(true).Reverse(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

func (m *model) View() string {
	if m.help {
		return m.helpView()
	}

	width, height := m.viewportSize()
	opts := render.TextOptions{
		Width:    width,
		Height:   height,
		Pan:      geometry.Point{X: float64(m.panX), Y: float64(m.panY)},
		Selected: m.session.Selection(),
	}
	if id, ok := m.session.Editing(); ok {
		opts.Editing = id
		opts.EditText = m.editText
	}
	if m.mode == ModeDrag {
		opts.Selected = m.dragging
	}

	scene := render.Scene{Nodes: m.session.Nodes(), Edges: m.session.Edges(), Direction: m.session.Direction()}
	lines := render.Text(scene, opts)
	if m.mode == ModeDrag {
		overlay(lines, m.cursorX, m.cursorY, '█')
	}

	var result strings.Builder
	if m.mode == ModeFileInput {
		m.writeFileDialog(&result, lines, width)
	} else {
		result.WriteString(strings.Join(lines, "\n"))
	}
	result.WriteString("\n")
	result.WriteString(m.statusLine(width))
	return result.String()
}

// overlay replaces one cell of the rendered grid.
func overlay(lines []string, x, y int, r rune) {
	if y < 0 || y >= len(lines) {
		return
	}
	row := []rune(lines[y])
	if x < 0 || x >= len(row) {
		return
	}
	row[x] = r
	lines[y] = string(row)
}

// writeFileDialog draws the file list over the bottom of the canvas.
func (m *model) writeFileDialog(b *strings.Builder, canvas []string, width int) {
	var dialog []string
	if m.fileOp == FileOpOpen && len(m.fileList) > 0 {
		dialog = append(dialog, "Maps:")
		for i, file := range m.fileList {
			if i == m.selectedFileIndex {
				dialog = append(dialog, "> "+file+" <")
			} else {
				dialog = append(dialog, "  "+file)
			}
		}
	}
	dialog = append(dialog, strings.Repeat("─", width), "Filename: "+m.filename+"█")

	keep := len(canvas) - len(dialog)
	if keep < 0 {
		dialog = dialog[-keep:]
		keep = 0
	}
	b.WriteString(strings.Join(append(canvas[:keep:keep], dialog...), "\n"))
}

func (m *model) statusLine(width int) string {
	mode := m.modeString()
	if m.zPanMode && m.mode == ModeNormal {
		mode = "PAN"
	}

	var parts []string
	switch m.mode {
	case ModeEditing:
		parts = append(parts, "Enter=save, Alt+Enter=newline, Tab=save+child, Esc=cancel")
	case ModeDrag:
		target := "(no target)"
		if id, ok := m.nodeAt(m.cursorX, m.cursorY); ok {
			if n, err := m.session.Node(id); err == nil {
				target = fmt.Sprintf("onto %q", firstLine(n.Content))
			}
		}
		parts = append(parts, fmt.Sprintf("Moving %d node(s) %s", len(m.dragging), target), "hjkl=move, Enter=drop, Esc=cancel")
	case ModeMultiSelect:
		parts = append(parts, fmt.Sprintf("%d selected", len(m.session.Selection())), "hjkl=move, Space=toggle, Esc=done")
	case ModeFileInput:
		parts = append(parts, m.fileOpString())
		if m.fileOp == FileOpOpen {
			parts = append(parts, "↑/↓=navigate, Enter=confirm, Esc=cancel")
		} else {
			parts = append(parts, "Enter=confirm, Esc=cancel")
		}
	case ModeConfirm:
		parts = append(parts, m.confirmMessage())
	default:
		if id, ok := m.focused(); ok {
			if n, err := m.session.Node(id); err == nil {
				parts = append(parts, fmt.Sprintf("%q", firstLine(n.Content)))
			}
		}
		file := "[new map]"
		if m.currentFile != "" {
			file = filepath.Base(m.currentFile)
		}
		if m.dirty {
			file += " *"
		}
		parts = append(parts, file, m.session.Direction().String())
		if m.errorMessage == "" && m.successMessage == "" {
			parts = append(parts, "? for help | q to quit")
		}
	}

	line := modeStyle.Render(" "+mode+" ") + statusStyle.Render(" "+strings.Join(parts, " | ")+" ")
	switch {
	case m.errorMessage != "":
		line += " " + errorStyle.Render("ERROR: "+m.errorMessage)
	case m.successMessage != "":
		line += " " + successStyle.Render(m.successMessage)
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

func (m *model) fileOpString() string {
	switch m.fileOp {
	case FileOpSave:
		return "Save as"
	case FileOpOpen:
		return "Open"
	case FileOpSavePNG:
		return "Export PNG"
	case FileOpSaveVisualTXT:
		return "Export text"
	}
	return ""
}

func (m *model) confirmMessage() string {
	switch m.confirmAction {
	case ConfirmDeleteNodes:
		return fmt.Sprintf("Delete %d nodes? (y/n)", m.pendingCount)
	case ConfirmQuit:
		return "Quit with unsaved changes? (y/n)"
	case ConfirmNewMap:
		return "Start a new map? Unsaved changes will be lost. (y/n)"
	case ConfirmOverwriteFile:
		return fmt.Sprintf("File %s already exists. Overwrite? (y/n)", filepath.Base(m.pendingPath))
	}
	return ""
}

func (m *model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModeEditing:
		return "EDIT"
	case ModeDrag:
		return "MOVE"
	case ModeMultiSelect:
		return "SELECT"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}

var helpLines = []string{
	"mindterm help",
	"",
	"Navigation:",
	"  h/j/k/l, arrows   Move to parent, child or sibling (follows the layout direction)",
	"  g                 Jump to the central topic",
	"  [ / ]             First / last sibling",
	"  z                 Toggle pan mode (hjkl pans, HJKL pans faster)",
	"  mouse wheel       Scroll the map",
	"",
	"Editing:",
	"  Tab / a           Add child",
	"  Enter / o         Add sibling",
	"  e / i / F2        Edit label",
	"  d / Del           Delete selection with its children",
	"  y / c             Copy selection",
	"  x                 Cut selection",
	"  p                 Paste as children of the selected node",
	"  J / K             Move node down / up among its siblings",
	"  m                 Move selection under another node (hjkl, Enter to drop)",
	"  drag with mouse   Same as m",
	"",
	"Selection:",
	"  click             Select node",
	"  ctrl+click        Toggle node in selection",
	"  v                 Multi-select mode (Space toggles)",
	"  ctrl+a            Select all",
	"",
	"Layout:",
	"  r                 Cycle direction LR, RL, TB, BT",
	"  + / -             Widen / narrow the gap between levels",
	"",
	"History:",
	"  u / ctrl+z        Undo",
	"  U / ctrl+r        Redo",
	"",
	"Files:",
	"  s                 Save (asks for a name the first time)",
	"  S                 Save as",
	"  O                 Open",
	"  E                 Export PNG",
	"  T                 Export text drawing",
	"  n                 New map",
	"  q                 Quit",
	"",
	"Press ? or Esc to close, j/k to scroll.",
}

func (m *model) helpView() string {
	_, height := m.viewportSize()
	lines := make([]string, len(helpLines))
	copy(lines, helpLines)
	lines[0] = titleStyle.Render(lines[0])

	start := m.helpScroll
	if start > len(lines)-1 {
		start = len(lines) - 1
	}
	end := start + height
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

func (m *model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	_, height := m.viewportSize()
	maxScroll := len(helpLines) - height
	if maxScroll < 0 {
		maxScroll = 0
	}
	switch msg.String() {
	case "esc", "q", "?":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	}
	return m, nil
}
