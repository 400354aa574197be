package main

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/fsnotify/fsnotify"

	"blockdiag/controller"
	"blockdiag/diagram"
)

type model struct {
	width  int
	height int

	ctl   *controller.Controller
	graph *diagram.Graph
	table *diagram.ConnectionTable

	config     *Config
	configPath string
	watcher    *fsnotify.Watcher
	log        *slog.Logger

	cursorX  int
	cursorY  int
	panX     int
	panY     int
	zPanMode bool

	mode Mode
	help bool

	// prompt widgets, rebuilt whenever the controller asks something new
	choice      int
	textInput   textinput.Model
	portInputs  [3]textinput.Model
	portFocus   int
	promptError string

	// move mode
	moveNodeID int
	moveOrigin diagram.Point

	// mouse drag
	dragNodeID int
	dragOffset diagram.Point
	lastClick  time.Time
	lastClickN int

	// connection table panel
	connTable  table.Model
	rowConnIDs []int
	sortColumn int
	sortDesc   bool

	fileOp        FileOperation
	filename      string
	confirmAction ConfirmAction

	status *statusMessage
}

// statusMessage is shared with the controller's reporter, so it survives
// the model being copied between updates.
type statusMessage struct {
	text    string
	isError bool
}
