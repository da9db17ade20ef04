package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeEditing
	ModeDrag
	ModeMultiSelect
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpSavePNG
	FileOpSaveVisualTXT
	FileOpOpen
)

type ConfirmAction int

const (
	ConfirmDeleteNodes ConfirmAction = iota
	ConfirmQuit
	ConfirmNewMap
	ConfirmOverwriteFile
)

const (
	panStep     = 4
	fastPanStep = 12
	statusLines = 1
)

// File extensions offered by the open dialog.
var mapExtensions = []string{".json", ".yaml", ".yml"}
