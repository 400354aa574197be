package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionTableFollowsGraph(t *testing.T) {
	g := NewGraph()
	table := NewConnectionTable(g)
	assert.Zero(t, table.Len())

	cpu := mustAddNode(t, g, "cpu", 0, 0)
	bus, err := g.AddNode(NodeSpec{Label: "bus", Type: AmbaBridge, Position: Point{X: 300}})
	require.NoError(t, err)
	mem := mustAddNode(t, g, "mem", 600, 0)

	_, err = g.AddConnection(cpu.ID, bus.ID, "axi")
	require.NoError(t, err)
	_, err = g.AddConnection(bus.ID, mem.ID, "apb")
	require.NoError(t, err)

	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, Row{ConnectionID: 1, SourceLabel: "cpu", SourceType: "Function_IP", TargetLabel: "bus", ConnectionLabel: "axi"}, rows[0])
	assert.Equal(t, Row{ConnectionID: 2, SourceLabel: "bus", SourceType: "Amba_bridge", TargetLabel: "mem", ConnectionLabel: "apb"}, rows[1])

	_, err = g.RenameNode(bus.ID, "bridge")
	require.NoError(t, err)
	require.NoError(t, g.SetNodeType(bus.ID, CombLogic))
	rows = table.Rows()
	assert.Equal(t, "bridge", rows[0].TargetLabel)
	assert.Equal(t, "Comb_logic", rows[1].SourceType)

	require.NoError(t, g.RemoveNode(mem.ID))
	assert.Equal(t, 1, table.Len())
}

func TestConnectionTableRowsAreCopies(t *testing.T) {
	g := NewGraph()
	table := NewConnectionTable(g)
	a := mustAddNode(t, g, "a", 0, 0)
	b := mustAddNode(t, g, "b", 300, 0)
	_, err := g.AddConnection(a.ID, b.ID, "x")
	require.NoError(t, err)

	rows := table.Rows()
	rows[0].ConnectionLabel = "changed"
	assert.Equal(t, "x", table.Rows()[0].ConnectionLabel)
}

func TestConnectionTableSorted(t *testing.T) {
	g := NewGraph()
	table := NewConnectionTable(g)
	a := mustAddNode(t, g, "a", 0, 0)
	b := mustAddNode(t, g, "b", 300, 0)
	c := mustAddNode(t, g, "c", 600, 0)
	for _, e := range []struct {
		from, to int
		label    string
	}{
		{c.ID, a.ID, "zeta"},
		{a.ID, b.ID, "alpha"},
		{b.ID, c.ID, "mid"},
	} {
		_, err := g.AddConnection(e.from, e.to, e.label)
		require.NoError(t, err)
	}

	byLabel := table.Sorted(ColConnection, false)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, labels(byLabel))

	bySourceDesc := table.Sorted(ColSource, true)
	assert.Equal(t, []string{"c", "b", "a"}, []string{bySourceDesc[0].SourceLabel, bySourceDesc[1].SourceLabel, bySourceDesc[2].SourceLabel})

	// the projection keeps insertion order
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, labels(table.Rows()))
	assert.Equal(t, labels(table.Rows()), labels(table.Sorted(-1, false)))
}

func TestConnectionTableTSV(t *testing.T) {
	g := NewGraph()
	table := NewConnectionTable(g)
	a := mustAddNode(t, g, "a", 0, 0)
	b := mustAddNode(t, g, "b", 300, 0)
	_, err := g.AddConnection(a.ID, b.ID, "")
	require.NoError(t, err)

	assert.Equal(t, "Source\tSource Type\tTarget\tConnection\na\tFunction_IP\tb\tunnamed\n", table.TSV())
}

func labels(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ConnectionLabel
	}
	return out
}
