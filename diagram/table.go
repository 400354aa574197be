package diagram

import (
	"cmp"
	"slices"
	"strings"
)

// Table columns.
const (
	ColSource = iota
	ColSourceType
	ColTarget
	ColConnection
	numColumns
)

// TableHeaders are the column titles of the connection table.
var TableHeaders = [numColumns]string{"Source", "Source Type", "Target", "Connection"}

// Row is one connection rendered as text.
type Row struct {
	ConnectionID int

	SourceLabel     string
	SourceType      string
	TargetLabel     string
	ConnectionLabel string
}

// Cells returns the row in column order.
func (r Row) Cells() [numColumns]string {
	return [numColumns]string{r.SourceLabel, r.SourceType, r.TargetLabel, r.ConnectionLabel}
}

// ConnectionTable is a read-only tabular projection of a graph's connections.
// It is rebuilt in full on every refresh; row order follows connection
// insertion order.
type ConnectionTable struct {
	rows []Row
}

// NewConnectionTable returns a table that refreshes itself from g after
// every mutation.
func NewConnectionTable(g *Graph) *ConnectionTable {
	t := &ConnectionTable{}
	t.Refresh(g)
	g.Subscribe(func(Batch) { t.Refresh(g) })
	return t
}

// Refresh rebuilds every row from the graph's current connections.
func (t *ConnectionTable) Refresh(g *Graph) {
	conns := g.Connections()
	rows := make([]Row, 0, len(conns))
	for _, c := range conns {
		src, _ := g.Node(c.From)
		dst, _ := g.Node(c.To)
		rows = append(rows, Row{
			ConnectionID:    c.ID,
			SourceLabel:     src.Label,
			SourceType:      src.Type.String(),
			TargetLabel:     dst.Label,
			ConnectionLabel: c.Label,
		})
	}
	t.rows = rows
}

// Rows returns a copy of the current rows.
func (t *ConnectionTable) Rows() []Row {
	return slices.Clone(t.rows)
}

func (t *ConnectionTable) Len() int { return len(t.rows) }

// Sorted returns the rows ordered by column col without touching the
// projection itself. Ties keep insertion order.
func (t *ConnectionTable) Sorted(col int, desc bool) []Row {
	rows := t.Rows()
	if col < 0 || col >= numColumns {
		return rows
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		c := cmp.Compare(a.Cells()[col], b.Cells()[col])
		if desc {
			return -c
		}
		return c
	})
	return rows
}

// TSV renders the header and rows as tab-separated text.
func (t *ConnectionTable) TSV() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(TableHeaders[:], "\t"))
	sb.WriteString("\n")
	for _, r := range t.rows {
		cells := r.Cells()
		sb.WriteString(strings.Join(cells[:], "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}
