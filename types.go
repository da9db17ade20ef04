package main

import (
	"go.uber.org/zap"

	"mindterm/editor"
	"mindterm/tree"
)

type model struct {
	width      int
	height     int
	session    *editor.Session
	selection  *editor.Selection
	config     *Config
	logger     *zap.Logger
	watcher    *configWatcher
	mode       Mode
	help       bool
	helpScroll int
	zPanMode   bool
	panX       int
	panY       int
	// focusID is the node the cursor is on in multi-select mode.
	focusID tree.NodeID
	// follow keeps the selected node in view until the user pans by hand.
	follow bool

	editText      string
	editCursorPos int

	// Drag state: the nodes being moved and the drop cursor in screen cells.
	dragging     []tree.NodeID
	cursorX      int
	cursorY      int
	mouseDown    bool
	mouseDragged bool
	mouseStart   point

	currentFile       string
	dirty             bool
	filename          string
	fileList          []string
	selectedFileIndex int
	fileOp            FileOperation
	confirmAction     ConfirmAction
	pendingPath       string
	pendingCount      int

	errorMessage   string
	successMessage string
}

type point struct {
	X, Y int
}
