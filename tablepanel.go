package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"blockdiag/controller"
	"blockdiag/diagram"
)

var tableColumnWidths = [...]int{14, 12, 14, 12}

func newConnTable() table.Model {
	cols := make([]table.Column, len(diagram.TableHeaders))
	for i, h := range diagram.TableHeaders {
		cols[i] = table.Column{Title: h, Width: tableColumnWidths[i]}
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)
	return t
}

// refreshTable copies the connection table into the panel, applying the
// current sort, and remembers which connection each row shows.
func (m *model) refreshTable() {
	rows := m.table.Rows()
	if m.sortColumn >= 0 {
		rows = m.table.Sorted(m.sortColumn, m.sortDesc)
	}

	out := make([]table.Row, len(rows))
	ids := make([]int, len(rows))
	for i, r := range rows {
		cells := r.Cells()
		out[i] = table.Row(cells[:])
		ids[i] = r.ConnectionID
	}
	m.connTable.SetRows(out)
	m.rowConnIDs = ids
	if c := m.connTable.Cursor(); c >= len(out) && len(out) > 0 {
		m.connTable.SetCursor(len(out) - 1)
	}
}

// cycleSort steps through unsorted, then each column ascending and descending.
func (m *model) cycleSort() {
	switch {
	case m.sortColumn < 0:
		m.sortColumn, m.sortDesc = diagram.ColSource, false
	case !m.sortDesc:
		m.sortDesc = true
	case m.sortColumn+1 < len(diagram.TableHeaders):
		m.sortColumn, m.sortDesc = m.sortColumn+1, false
	default:
		m.sortColumn, m.sortDesc = -1, false
	}
	m.refreshTable()
}

func (m *model) sortDescription() string {
	if m.sortColumn < 0 {
		return "insertion order"
	}
	dir := "asc"
	if m.sortDesc {
		dir = "desc"
	}
	return fmt.Sprintf("%s %s", diagram.TableHeaders[m.sortColumn], dir)
}

// selectedConnection is the connection under the table cursor.
func (m *model) selectedConnection() (int, bool) {
	c := m.connTable.Cursor()
	if c < 0 || c >= len(m.rowConnIDs) {
		return 0, false
	}
	return m.rowConnIDs[c], true
}

func (m *model) selectTableRow() {
	id, ok := m.selectedConnection()
	if !ok {
		return
	}
	m.ctl.Select(controller.ConnectionRef(id))
}

func (m *model) copyTable() {
	if m.table.Len() == 0 {
		m.setError("No connections to copy")
		return
	}
	if err := clipboard.WriteAll(m.table.TSV()); err != nil {
		m.setError(fmt.Sprintf("Copy failed: %s", err))
		return
	}
	m.setSuccess(fmt.Sprintf("Copied %d connections", m.table.Len()))
}

func (m *model) tablePanelView(height int) string {
	m.connTable.SetHeight(max(height-4, 3))
	title := fmt.Sprintf("Connections (%d) · %s", m.table.Len(), m.sortDescription())
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(truncate(title, tablePanelWidth-2)))
	b.WriteString("\n")
	b.WriteString(m.connTable.View())
	border := panelStyle
	if m.mode == ModeTable {
		border = panelFocusedStyle
	}
	return border.Height(max(height-2, 1)).Render(b.String())
}

var (
	panelTitleStyle   = lipgloss.NewStyle().Bold(true)
	panelStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Width(tablePanelWidth - 2)
	panelFocusedStyle = panelStyle.BorderForeground(lipgloss.Color("57"))
)
