package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	reflowtruncate "github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"blockdiag/controller"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F"))
	promptStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("57")).
			Padding(0, 1)
	optionStyle         = lipgloss.NewStyle().PaddingLeft(2)
	selectedOptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).PaddingLeft(1).PaddingRight(1)
)

const promptWrap = 40

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.help {
		return m.helpView()
	}

	w, h := m.canvasSize()
	lines := m.renderCanvas(w, h, true)
	canvas := strings.Join(lines, "\n")
	if m.mode == ModePrompt {
		canvas = m.overlayPrompt(w, h)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.tablePanelView(h))
	return body + "\n" + m.statusLine()
}

// renderCanvas rasterizes the graph for a w x h area, with the pending
// connection preview and the cursor on top.
func (m *model) renderCanvas(w, h int, decorate bool) []string {
	vp := m.viewport(w, h)
	c := renderGraph(m.graph, vp, m.highlights())
	if decorate {
		if src, ok := m.ctl.Source(); ok {
			if n, ok := m.graph.Node(src); ok {
				c.drawPreview(n, m.cursorWorld())
			}
		}
		if m.mode != ModeFileInput {
			c.set(m.cursorX, m.cursorY, '█', cellCursor)
		}
	}
	return c.Lines(decorate)
}

// overlayPrompt centers the prompt box over the canvas area.
func (m *model) overlayPrompt(w, h int) string {
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, m.promptView())
}

func (m *model) promptView() string {
	p, ok := m.ctl.Prompt()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(p.Title))
	b.WriteString("\n\n")

	switch p.Shape {
	case controller.ShapeChoice:
		b.WriteString(wordwrap.String(p.Message, promptWrap))
		b.WriteString("\n")
		for i, opt := range p.Options {
			label := fmt.Sprintf("%d. %s", i+1, opt)
			if i == m.choice {
				b.WriteString(selectedOptionStyle.Render(label))
			} else {
				b.WriteString(optionStyle.Render(label))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n↑/↓ choose · enter confirm · esc cancel")
	case controller.ShapeText:
		b.WriteString(m.textInput.View())
		b.WriteString("\n\nenter confirm · esc cancel")
	case controller.ShapePorts:
		b.WriteString(wordwrap.String(p.Message, promptWrap))
		b.WriteString("\n")
		for _, in := range m.portInputs {
			b.WriteString(in.View())
			b.WriteString("\n")
		}
		if m.promptError != "" {
			b.WriteString(errorStyle.Render(m.promptError))
			b.WriteString("\n")
		}
		b.WriteString("\ntab next · enter confirm · esc cancel")
	}
	return promptStyle.Render(b.String())
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModeMove:
		return "MOVE"
	case ModePrompt:
		return "PROMPT"
	case ModeTable:
		return "TABLE"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

func (m model) statusLine() string {
	var status string
	switch m.mode {
	case ModeMove:
		status = fmt.Sprintf("Mode: MOVE | %s | hjkl/arrows=move, Enter=finish, Esc=cancel", m.nodeLabel(m.moveNodeID))
	case ModeFileInput:
		op := "Export PNG"
		if m.fileOp == FileOpExportTXT {
			op = "Export TXT"
		}
		status = fmt.Sprintf("Mode: FILE | %s filename: %s█ | Enter=confirm, Esc=cancel", op, m.filename)
	case ModeConfirm:
		message := "Quit? (y/n)"
		if m.confirmAction == ConfirmDelete {
			message = fmt.Sprintf("Delete %d selected item(s)? (y/n)", len(m.ctl.Selection()))
		}
		status = fmt.Sprintf("Mode: CONFIRM | %s", message)
	case ModeTable:
		status = "Mode: TABLE | ↑/↓=row, Enter=select, s=sort, y=copy, d=delete, Tab=canvas"
	default:
		modeStr := m.modeString()
		if m.zPanMode {
			modeStr = "PAN"
		}
		status = fmt.Sprintf("Mode: %s | Cursor: (%d,%d)", modeStr, m.cursorX, m.cursorY)
		if src, ok := m.ctl.Source(); ok {
			status += fmt.Sprintf(" | Connecting from %q (select target)", m.nodeLabel(src))
		}
		if label := m.selectedNodeLabel(); label != "" {
			status += fmt.Sprintf(" | Selected: %s", label)
		} else if n := len(m.ctl.Selection()); n > 1 {
			status += fmt.Sprintf(" | Selected: %d items", n)
		}
	}

	switch {
	case m.status.text == "":
		if m.mode == ModeNormal {
			status += " | ? for help | q to quit"
		}
	case m.status.isError:
		status += " | " + errorStyle.Render("ERROR: "+m.status.text)
	default:
		status += " | " + successStyle.Render(m.status.text)
	}
	return reflowtruncate.String(status, uint(max(m.width, 1)))
}

var helpLines = []string{
	"blockdiag help",
	"==============",
	"",
	"Navigation:",
	"  h/←/j/↓/k/↑/l/→  Move cursor",
	"  Shift+h/j/k/l    Move cursor faster",
	"  z                Toggle pan mode (movement keys scroll the canvas)",
	"  mouse wheel      Scroll the canvas",
	"",
	"Blocks:",
	"  b / right click  Create block at cursor (type, then port counts)",
	"  B                Create block at the default position",
	"  Enter / click    Select the block under the cursor",
	"  Shift+click      Add or remove a block from the selection",
	"  e / double click Rename block",
	"  t                Change block type",
	"  m / drag         Move block (Esc in move mode restores it)",
	"  d / x            Delete selection",
	"",
	"Connections:",
	"  a                On a block: start a connection from it",
	"                   While connecting: finish on the block under the cursor",
	"  Esc              Cancel the gesture in progress, or clear the selection",
	"",
	"Connection table:",
	"  Tab              Focus the table",
	"  ↑/↓ Enter        Select a connection",
	"  s                Cycle sort column",
	"  y                Copy table to clipboard",
	"",
	"Export:",
	"  S                Export PNG",
	"  T                Export text",
	"",
	"  ?                Toggle this help",
	"  q / Ctrl+C       Quit",
}

func (m model) helpView() string {
	lines := helpLines
	if len(lines) > m.height {
		lines = lines[:max(m.height, 1)]
	}
	return strings.Join(lines, "\n")
}
