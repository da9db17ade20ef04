package main

import (
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"mindterm/mapfile"
)

func (m *model) startFileInput(op FileOperation) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.filename = ""
	m.fileList = nil
	m.selectedFileIndex = -1
	m.clearMessages()

	switch op {
	case FileOpOpen:
		m.scanMapFiles()
	case FileOpSave:
		if m.currentFile != "" {
			m.filename = filepath.Base(m.currentFile)
		}
	case FileOpSavePNG, FileOpSaveVisualTXT:
		if m.currentFile != "" {
			m.filename = strings.TrimSuffix(filepath.Base(m.currentFile), filepath.Ext(m.currentFile))
		}
	}
}

func (m *model) handleFileInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEscape:
		m.mode = ModeNormal
		m.filename = ""
		m.errorMessage = ""
		return m, nil
	case msg.String() == "up" || msg.String() == "down":
		if m.fileOp == FileOpOpen && len(m.fileList) > 0 {
			if msg.String() == "up" {
				m.selectedFileIndex = (m.selectedFileIndex - 1 + len(m.fileList)) % len(m.fileList)
			} else {
				m.selectedFileIndex = (m.selectedFileIndex + 1) % len(m.fileList)
			}
			m.filename = m.fileList[m.selectedFileIndex]
		}
		return m, nil
	case msg.Type == tea.KeyEnter:
		return m, m.executeFileOp()
	case msg.Type == tea.KeyBackspace:
		if runes := []rune(m.filename); len(runes) > 0 {
			m.filename = string(runes[:len(runes)-1])
		}
		m.selectedFileIndex = -1
		return m, nil
	case msg.Type == tea.KeyRunes:
		m.filename += string(msg.Runes)
		m.selectedFileIndex = -1
		return m, nil
	}
	return m, nil
}

func (m *model) executeFileOp() tea.Cmd {
	name := strings.TrimSpace(m.filename)
	if name == "" {
		m.setError("Please enter a filename")
		return nil
	}

	var path string
	switch m.fileOp {
	case FileOpOpen:
		path = m.config.GetSavePath(name)
		m.openFile(path)
		return nil
	case FileOpSave:
		path = m.config.GetSavePath(withExtension(name, ".json", ".yaml", ".yml"))
	case FileOpSavePNG:
		path = m.config.GetSavePath(withExtension(name, ".png"))
	case FileOpSaveVisualTXT:
		path = m.config.GetSavePath(withExtension(name, ".txt"))
	}

	if m.config.Confirmations && fileExists(path) && path != m.currentFile {
		m.pendingPath = path
		m.mode = ModeConfirm
		m.confirmAction = ConfirmOverwriteFile
		return nil
	}
	m.writeFile(path)
	return nil
}

// writeFile performs the pending save or export to path.
func (m *model) writeFile(path string) {
	var err error
	switch m.fileOp {
	case FileOpSave:
		m.saveTo(path)
		return
	case FileOpSavePNG:
		err = exportPNG(path, m.session.Tree(), m.session.Direction(), m.config.FontSize)
	case FileOpSaveVisualTXT:
		err = exportVisualTXT(path, m.session.Tree(), m.session.Layout())
	}
	m.mode = ModeNormal
	if err != nil {
		m.logger.Error("export failed", zap.String("path", path), zap.Error(err))
		m.setError(err.Error())
		return
	}
	m.logger.Info("exported map", zap.String("path", path))
	m.setSuccess("Exported " + filepath.Base(path))
}

func (m *model) saveTo(path string) {
	m.mode = ModeNormal
	if err := mapfile.Save(path, m.session.Tree(), m.session.Direction()); err != nil {
		m.logger.Error("save failed", zap.String("path", path), zap.Error(err))
		m.setError(err.Error())
		return
	}
	m.currentFile = path
	m.dirty = false
	m.logger.Info("saved map", zap.String("path", path))
	m.setSuccess("Saved " + filepath.Base(path))
}

func (m *model) openFile(path string) {
	doc, err := mapfile.Load(path)
	if err != nil {
		m.logger.Warn("open failed", zap.String("path", path), zap.Error(err))
		m.setError(err.Error())
		return
	}
	m.session.LoadIn(doc.Tree, doc.Direction)
	m.currentFile = path
	m.dirty = false
	m.mode = ModeNormal
	m.centerOn(m.session.Root())
	m.logger.Info("opened map", zap.String("path", path), zap.Int("nodes", len(m.session.Nodes())))
	m.setSuccess("Opened " + filepath.Base(path))
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmDeleteNodes:
			m.deleteSelected()
		case ConfirmQuit:
			return m, m.quit()
		case ConfirmNewMap:
			m.newMap()
		case ConfirmOverwriteFile:
			m.writeFile(m.pendingPath)
		}
		m.pendingPath = ""
		m.pendingCount = 0
		return m, nil
	case "n", "N", "esc":
		m.mode = ModeNormal
		m.pendingPath = ""
		m.pendingCount = 0
		return m, nil
	}
	return m, nil
}
