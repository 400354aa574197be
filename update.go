package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"blockdiag/controller"
	"blockdiag/diagram"
)

func (m model) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return waitForConfig(m.watcher, m.configPath)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()

	case tea.MouseMsg:
		m.handleMouse(msg)

	case configReloadedMsg:
		m.applyConfig(msg.config)
		cmd = m.rewatch()

	case configErrorMsg:
		m.log.Warn("config reload failed", "err", msg.err)
		m.setError(fmt.Sprintf("Config: %s", msg.err))
		cmd = m.rewatch()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.help {
			m.help = false
			return m, nil
		}
		switch m.mode {
		case ModePrompt:
			cmd = m.handlePromptKey(msg)
		case ModeMove:
			m.handleMoveKey(msg)
		case ModeTable:
			cmd = m.handleTableKey(msg)
		case ModeFileInput:
			m.handleFileInputKey(msg)
		case ModeConfirm:
			cmd = m.handleConfirmKey(msg)
		default:
			cmd = m.handleNormalKey(msg)
		}
	}
	return m, cmd
}

// sync pulls controller state into the shell after every gesture call.
func (m *model) sync() {
	m.syncPrompt()
	m.refreshTable()
}

// syncPrompt rebuilds the prompt widgets from the controller's pending
// prompt, or leaves prompt mode when there is none.
func (m *model) syncPrompt() {
	p, ok := m.ctl.Prompt()
	if !ok {
		if m.mode == ModePrompt {
			m.mode = ModeNormal
		}
		return
	}

	m.mode = ModePrompt
	m.promptError = ""
	switch p.Shape {
	case controller.ShapeChoice:
		m.choice = p.Selected
	case controller.ShapeText:
		ti := textinput.New()
		ti.Prompt = p.Message + " "
		ti.CharLimit = 64
		ti.SetValue(p.Text)
		ti.Focus()
		m.textInput = ti
	case controller.ShapePorts:
		for i, name := range []string{"master", "slave", "bidir"} {
			ti := textinput.New()
			ti.Prompt = fmt.Sprintf("%-7s", name+":")
			ti.CharLimit = 2
			ti.SetValue("0")
			ti.Blur()
			m.portInputs[i] = ti
		}
		m.portFocus = 0
		m.portInputs[0].Focus()
	}
}

func (m *model) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if isNavKey(key) {
		m.handleNavigation(key, m.getMoveSpeed(key))
		return nil
	}

	m.status.clear()
	switch key {
	case "q":
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return nil
		}
		return tea.Quit
	case "?":
		m.help = true
	case "z":
		m.zPanMode = !m.zPanMode
	case "esc":
		m.zPanMode = false
		if m.ctl.State() != controller.StateIdle {
			m.ctl.Cancel()
		} else {
			m.ctl.ClearSelection()
		}
	case "b":
		m.ctl.CreateBlock(m.snap(m.cellOrigin(m.cursorX, m.cursorY)))
	case "B":
		m.ctl.CreateBlock(controller.DefaultBlockPosition)
	case "a":
		m.connectAtCursor()
	case "enter", " ":
		m.clickAt(m.cursorX, m.cursorY, false)
	case "e":
		if id, ok := m.targetNode(); ok {
			m.ctl.BeginRename(id)
		} else {
			m.setError("Put the cursor on a block to rename it")
		}
	case "t":
		m.selectUnderCursor()
		m.ctl.ChangeNodeType()
	case "d", "x":
		m.selectUnderCursor()
		m.requestDelete()
	case "m":
		m.beginMove()
	case "tab":
		m.mode = ModeTable
		m.connTable.Focus()
	case "y":
		m.copyTable()
	case "S":
		m.beginFileInput(FileOpExportPNG)
	case "T":
		m.beginFileInput(FileOpExportTXT)
	}
	m.sync()
	return nil
}

// connectAtCursor starts a connection from the block under the cursor, or
// finishes one on it when a start block is already chosen.
func (m *model) connectAtCursor() {
	n, onNode := m.nodeUnderCursor()
	if m.ctl.State() == controller.StateAwaitingTarget {
		if onNode {
			m.ctl.ClickNode(n.ID)
		} else {
			m.setError("Put the cursor on the target block")
		}
		return
	}
	if onNode {
		m.ctl.ClickNode(n.ID)
	}
	m.ctl.StartConnection()
}

func (m *model) clickAt(x, y int, toggle bool) {
	n, ok := m.graph.NodeAt(m.cellToWorld(x, y))
	switch {
	case !ok:
		m.ctl.ClickEmpty()
	case toggle && m.ctl.State() == controller.StateIdle:
		m.ctl.ToggleSelect(controller.NodeRef(n.ID))
	default:
		m.ctl.ClickNode(n.ID)
	}
}

// selectUnderCursor makes the block under the cursor the selection, if there is one.
func (m *model) selectUnderCursor() {
	if m.ctl.State() != controller.StateIdle {
		return
	}
	if n, ok := m.nodeUnderCursor(); ok && !m.ctl.IsSelected(controller.NodeRef(n.ID)) {
		m.ctl.ClickNode(n.ID)
	}
}

// targetNode is the block under the cursor, else the single selected block.
func (m *model) targetNode() (int, bool) {
	if n, ok := m.nodeUnderCursor(); ok {
		return n.ID, true
	}
	sel := m.ctl.Selection()
	if len(sel) == 1 && sel[0].Kind == controller.EntityNode {
		return sel[0].ID, true
	}
	return 0, false
}

func (m *model) requestDelete() {
	if m.config.Confirmations && len(m.ctl.Selection()) > 0 && m.ctl.State() == controller.StateIdle {
		m.mode = ModeConfirm
		m.confirmAction = ConfirmDelete
		return
	}
	m.ctl.DeleteSelected()
}

func (m *model) beginMove() {
	if m.ctl.State() == controller.StatePrompting {
		return
	}
	id, ok := m.targetNode()
	if !ok {
		m.setError("Put the cursor on a block to move it")
		return
	}
	n, _ := m.graph.Node(id)
	m.mode = ModeMove
	m.moveNodeID = id
	m.moveOrigin = n.Position
}

func (m *model) handleMoveKey(msg tea.KeyMsg) {
	key := msg.String()
	switch key {
	case "esc":
		m.ctl.MoveNode(m.moveNodeID, m.moveOrigin)
		m.endMove()
		m.setSuccess("Move cancelled")
	case "enter", "m":
		m.endMove()
	default:
		dx, dy := direction(key)
		if dx == 0 && dy == 0 {
			return
		}
		n, ok := m.graph.Node(m.moveNodeID)
		if !ok {
			m.endMove()
			return
		}
		speed := float64(m.getMoveSpeed(key))
		delta := diagram.Point{
			X: float64(dx) * speed * m.config.CellWidth,
			Y: float64(dy) * speed * m.config.CellHeight,
		}
		m.ctl.MoveNode(n.ID, clampPoint(n.Position.Add(delta)))
	}
	m.refreshTable()
}

func (m *model) endMove() {
	m.mode = ModeNormal
	m.moveNodeID = -1
}

func (m *model) handleTableKey(msg tea.KeyMsg) tea.Cmd {
	m.status.clear()
	switch msg.String() {
	case "tab", "esc":
		m.mode = ModeNormal
		m.connTable.Blur()
		return nil
	case "enter", " ":
		m.selectTableRow()
		return nil
	case "s":
		m.cycleSort()
		return nil
	case "y":
		m.copyTable()
		return nil
	case "d", "x":
		m.selectTableRow()
		m.requestDelete()
		m.refreshTable()
		return nil
	case "?":
		m.help = true
		return nil
	}
	var cmd tea.Cmd
	m.connTable, cmd = m.connTable.Update(msg)
	return cmd
}

func (m *model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	p, ok := m.ctl.Prompt()
	if !ok {
		m.mode = ModeNormal
		return nil
	}
	if msg.String() == "esc" {
		m.ctl.Cancel()
		m.sync()
		return nil
	}

	switch p.Shape {
	case controller.ShapeChoice:
		return m.handleChoiceKey(msg, p)
	case controller.ShapeText:
		return m.handleTextKey(msg)
	case controller.ShapePorts:
		return m.handlePortsKey(msg, p)
	}
	return nil
}

func (m *model) handleChoiceKey(msg tea.KeyMsg, p controller.Prompt) tea.Cmd {
	key := msg.String()
	switch key {
	case "up", "k", "shift+tab":
		m.choice = (m.choice - 1 + len(p.Options)) % len(p.Options)
	case "down", "j", "tab":
		m.choice = (m.choice + 1) % len(p.Options)
	case "enter", " ":
		m.ctl.SubmitChoice(m.choice)
		m.sync()
	default:
		if i, err := strconv.Atoi(key); err == nil && i >= 1 && i <= len(p.Options) {
			m.ctl.SubmitChoice(i - 1)
			m.sync()
		}
	}
	return nil
}

func (m *model) handleTextKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEnter {
		m.ctl.SubmitText(m.textInput.Value())
		m.sync()
		return nil
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return cmd
}

func (m *model) handlePortsKey(msg tea.KeyMsg, p controller.Prompt) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		m.focusPort(m.portFocus + 1)
		return nil
	case "shift+tab", "up":
		m.focusPort(m.portFocus - 1)
		return nil
	case "enter":
		var counts [3]int
		for i, in := range m.portInputs {
			v, err := strconv.Atoi(strings.TrimSpace(in.Value()))
			if err != nil || v < p.Min || v > p.Max {
				m.promptError = fmt.Sprintf("Each count must be a whole number from %d to %d", p.Min, p.Max)
				m.focusPort(i)
				return nil
			}
			counts[i] = v
		}
		m.ctl.SubmitPorts(counts[0], counts[1], counts[2])
		m.sync()
		return nil
	}
	var cmd tea.Cmd
	m.portInputs[m.portFocus], cmd = m.portInputs[m.portFocus].Update(msg)
	return cmd
}

func (m *model) focusPort(i int) {
	n := len(m.portInputs)
	i = (i + n) % n
	m.portInputs[m.portFocus].Blur()
	m.portFocus = i
	m.portInputs[i].Focus()
}

func (m *model) beginFileInput(op FileOperation) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.filename = ""
}

func (m *model) handleFileInputKey(msg tea.KeyMsg) {
	switch {
	case msg.Type == tea.KeyEscape:
		m.mode = ModeNormal
		m.filename = ""
		m.status.clear()
	case msg.Type == tea.KeyEnter:
		if strings.TrimSpace(m.filename) == "" {
			m.setError("Filename cannot be empty")
			return
		}
		var path string
		var err error
		switch m.fileOp {
		case FileOpExportPNG:
			path = m.config.GetSavePath(withExtension(m.filename, ".png"))
			err = exportPNG(m.graph, path)
		case FileOpExportTXT:
			path = m.config.GetSavePath(withExtension(m.filename, ".txt"))
			err = m.exportVisualTXT(path)
		}
		if err != nil {
			m.log.Error("export failed", "path", path, "err", err)
			m.setError(fmt.Sprintf("Export failed: %s", err))
			return
		}
		absPath, _ := filepath.Abs(path)
		m.log.Info("exported", "path", absPath)
		m.setSuccess(fmt.Sprintf("Exported to %s", absPath))
		m.mode = ModeNormal
		m.filename = ""
	case msg.Type == tea.KeyBackspace:
		if len(m.filename) > 0 {
			r := []rune(m.filename)
			m.filename = string(r[:len(r)-1])
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.filename += string(msg.Runes)
		}
	}
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	m.mode = ModeNormal
	switch msg.String() {
	case "y", "Y":
		switch m.confirmAction {
		case ConfirmQuit:
			return tea.Quit
		case ConfirmDelete:
			m.ctl.DeleteSelected()
			m.sync()
		}
	default:
		m.setSuccess("Cancelled")
	}
	return nil
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	if msg.Action == tea.MouseActionRelease {
		m.dragNodeID = -1
		return
	}
	if m.mode != ModeNormal && m.mode != ModeTable {
		return
	}
	canvasW, canvasH := m.canvasSize()
	if msg.X >= canvasW || msg.Y >= canvasH {
		return
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.panY--
		return
	case tea.MouseButtonWheelDown:
		m.panY++
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		m.dragNodeID = -1
		if m.mode == ModeTable {
			m.mode = ModeNormal
			m.connTable.Blur()
		}
		m.status.clear()
		m.cursorX, m.cursorY = msg.X, msg.Y
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.mousePress(msg)
		case tea.MouseButtonRight:
			m.ctl.CreateBlock(m.snap(m.cellOrigin(msg.X, msg.Y)))
		}
		m.sync()

	case tea.MouseActionMotion:
		if m.dragNodeID < 0 {
			return
		}
		pos := clampPoint(m.cellToWorld(msg.X, msg.Y).Add(m.dragOffset))
		m.ctl.MoveNode(m.dragNodeID, pos)
		m.cursorX, m.cursorY = msg.X, msg.Y
	}
}

func (m *model) mousePress(msg tea.MouseMsg) {
	p := m.cellToWorld(msg.X, msg.Y)
	n, ok := m.graph.NodeAt(p)
	if !ok {
		m.ctl.ClickEmpty()
		m.lastClickN = -1
		return
	}

	now := time.Now()
	double := n.ID == m.lastClickN && now.Sub(m.lastClick) < doubleClickMs*time.Millisecond
	m.lastClick, m.lastClickN = now, n.ID

	idle := m.ctl.State() == controller.StateIdle
	switch {
	case double && idle:
		m.lastClickN = -1
		m.ctl.BeginRename(n.ID)
		return
	case (msg.Shift || msg.Ctrl) && idle:
		m.ctl.ToggleSelect(controller.NodeRef(n.ID))
		return
	}

	m.ctl.ClickNode(n.ID)
	if idle {
		m.dragNodeID = n.ID
		m.dragOffset = n.Position.Add(p.Scale(-1))
	}
}
