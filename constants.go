package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeMove
	ModePrompt
	ModeTable
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpExportPNG FileOperation = iota
	FileOpExportTXT
)

type ConfirmAction int

const (
	ConfirmDelete ConfirmAction = iota
	ConfirmQuit
)

const (
	defaultCellWidth  = 10.0 // canvas pixels per terminal column
	defaultCellHeight = 20.0 // canvas pixels per terminal row

	curveSegments = 48

	tablePanelWidth = 56
	doubleClickMs   = 400
)
