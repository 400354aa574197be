package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockdiag/diagram"
)

type harness struct {
	ctl     *Controller
	graph   *diagram.Graph
	table   *diagram.ConnectionTable
	batches []diagram.Batch
	reports []Report
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{graph: diagram.NewGraph()}
	h.table = diagram.NewConnectionTable(h.graph)
	h.graph.Subscribe(func(b diagram.Batch) { h.batches = append(h.batches, b) })
	h.ctl = New(h.graph, WithReporter(func(r Report) { h.reports = append(h.reports, r) }))
	return h
}

// createBlock runs the whole create gesture and returns the new block's id.
func (h *harness) createBlock(t *testing.T, typeIdx, master, slave, bidir int, at diagram.Point) int {
	t.Helper()
	require.NoError(t, h.ctl.CreateBlock(at))
	require.NoError(t, h.ctl.SubmitChoice(typeIdx))
	require.NoError(t, h.ctl.SubmitPorts(master, slave, bidir))
	require.Equal(t, StateIdle, h.ctl.State())
	sel := h.ctl.Selection()
	require.Len(t, sel, 1)
	return sel[0].ID
}

func (h *harness) connect(t *testing.T, from, to int, label string) {
	t.Helper()
	h.ctl.Select(NodeRef(from))
	require.NoError(t, h.ctl.StartConnection())
	require.NoError(t, h.ctl.ClickNode(to))
	require.NoError(t, h.ctl.SubmitText(label))
}

func TestCreateBlockGesture(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctl.CreateBlock(diagram.Point{X: 10, Y: 20}))
	p, ok := h.ctl.Prompt()
	require.True(t, ok)
	assert.Equal(t, PurposeBlockType, p.Purpose)
	assert.Equal(t, []string{"Function_IP", "Amba_bridge", "Comb_logic"}, p.Options)

	require.NoError(t, h.ctl.SubmitChoice(1))
	p, ok = h.ctl.Prompt()
	require.True(t, ok)
	assert.Equal(t, ShapePorts, p.Shape)
	assert.Equal(t, 0, p.Min)
	assert.Equal(t, 10, p.Max)

	require.NoError(t, h.ctl.SubmitPorts(2, 1, 0))
	assert.Equal(t, StateIdle, h.ctl.State())

	nodes := h.graph.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, diagram.AmbaBridge, nodes[0].Type)
	assert.Equal(t, diagram.Point{X: 10, Y: 20}, nodes[0].Position)
	assert.Equal(t, diagram.DefaultNodeLabel, nodes[0].Label)
	assert.Equal(t, []Entity{NodeRef(nodes[0].ID)}, h.ctl.Selection())
	assert.Equal(t, LevelInfo, h.ctl.LastReport().Level)
}

func TestCancelPortsCreatesNothing(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctl.CreateBlock(DefaultBlockPosition))
	require.NoError(t, h.ctl.SubmitChoice(0))
	h.ctl.Cancel()

	assert.Equal(t, StateIdle, h.ctl.State())
	assert.Zero(t, h.graph.NodeCount())
	assert.Empty(t, h.batches)
	_, ok := h.ctl.Prompt()
	assert.False(t, ok)
}

func TestCreateBlockRejectsBadPorts(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctl.CreateBlock(DefaultBlockPosition))
	require.NoError(t, h.ctl.SubmitChoice(2))
	err := h.ctl.SubmitPorts(3, -1, 12)
	assert.ErrorIs(t, err, diagram.ErrInvalidPortConfiguration)

	assert.Equal(t, StateIdle, h.ctl.State())
	assert.Zero(t, h.graph.NodeCount())
	assert.Empty(t, h.batches)
	last := h.ctl.LastReport()
	assert.Equal(t, LevelError, last.Level)
	assert.ErrorIs(t, last.Err, diagram.ErrInvalidPortConfiguration)
}

func TestCreateBlockRejectsUnknownType(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctl.CreateBlock(DefaultBlockPosition))
	assert.ErrorIs(t, h.ctl.SubmitChoice(7), diagram.ErrInvalidNodeType)

	assert.Equal(t, StateIdle, h.ctl.State())
	assert.Zero(t, h.graph.NodeCount())
	assert.ErrorIs(t, h.ctl.LastReport().Err, diagram.ErrInvalidNodeType)
}

func TestSubmitWrongShape(t *testing.T) {
	h := newHarness(t)

	assert.ErrorIs(t, h.ctl.SubmitText("x"), ErrNoPendingPrompt)

	require.NoError(t, h.ctl.CreateBlock(DefaultBlockPosition))
	assert.ErrorIs(t, h.ctl.SubmitPorts(1, 1, 1), ErrPromptMismatch)
	assert.Equal(t, StatePrompting, h.ctl.State())
}

func TestStartConnectionNeedsExactlyOneBlock(t *testing.T) {
	h := newHarness(t)
	a := h.createBlock(t, 0, 0, 0, 0, diagram.Point{})
	b := h.createBlock(t, 0, 0, 0, 0, diagram.Point{X: 300})

	h.ctl.ClearSelection()
	assert.ErrorIs(t, h.ctl.StartConnection(), ErrEmptySelection)
	assert.Equal(t, StateIdle, h.ctl.State())
	assert.Equal(t, LevelWarning, h.ctl.LastReport().Level)

	h.ctl.Select(NodeRef(a), NodeRef(b))
	assert.ErrorIs(t, h.ctl.StartConnection(), ErrAmbiguousSelection)
	assert.Equal(t, StateIdle, h.ctl.State())

	h.ctl.Select(NodeRef(a))
	require.NoError(t, h.ctl.StartConnection())
	src, ok := h.ctl.Source()
	assert.True(t, ok)
	assert.Equal(t, a, src)
}

func TestConnectGesture(t *testing.T) {
	h := newHarness(t)
	x := h.createBlock(t, 0, 0, 0, 0, diagram.Point{})
	y := h.createBlock(t, 1, 0, 0, 0, diagram.Point{X: 300})

	h.ctl.Select(NodeRef(x))
	require.NoError(t, h.ctl.StartConnection())
	require.NoError(t, h.ctl.ClickNode(y))
	p, ok := h.ctl.Prompt()
	require.True(t, ok)
	assert.Equal(t, PurposeConnectionLabel, p.Purpose)

	require.NoError(t, h.ctl.SubmitText(""))
	assert.Equal(t, StateIdle, h.ctl.State())

	rows := h.table.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, diagram.DefaultConnectionLabel, rows[0].ConnectionLabel)
}

func TestConnectToSelfReturnsToIdle(t *testing.T) {
	h := newHarness(t)
	x := h.createBlock(t, 0, 0, 0, 0, diagram.Point{})

	require.NoError(t, h.ctl.StartConnection())
	err := h.ctl.ClickNode(x)
	assert.ErrorIs(t, err, diagram.ErrInvalidEdge)
	assert.Equal(t, StateIdle, h.ctl.State())
	assert.Equal(t, "A block cannot connect to itself", h.ctl.LastReport().Message)
	assert.Zero(t, h.graph.ConnectionCount())
}

func TestDuplicateConnectionReportedAndIdle(t *testing.T) {
	h := newHarness(t)
	x := h.createBlock(t, 0, 0, 0, 0, diagram.Point{})
	y := h.createBlock(t, 0, 0, 0, 0, diagram.Point{X: 300})

	h.connect(t, x, y, "clk")

	h.ctl.Select(NodeRef(x))
	require.NoError(t, h.ctl.StartConnection())
	err := h.ctl.ClickNode(y)
	assert.ErrorIs(t, err, diagram.ErrDuplicateEdge)
	_, asked := h.ctl.Prompt()
	assert.False(t, asked, "no label prompt for an existing connection")
	assert.Equal(t, StateIdle, h.ctl.State())
	assert.Equal(t, "Connection already exists", h.ctl.LastReport().Message)
	assert.Equal(t, 1, h.table.Len())

	h.connect(t, y, x, "rst")
	assert.Equal(t, 2, h.table.Len())
}

func TestCancelWhileAwaitingTarget(t *testing.T) {
	h := newHarness(t)
	x := h.createBlock(t, 0, 0, 0, 0, diagram.Point{})
	y := h.createBlock(t, 0, 0, 0, 0, diagram.Point{X: 300})

	h.ctl.Select(NodeRef(x))
	require.NoError(t, h.ctl.StartConnection())
	h.ctl.ClickEmpty()
	assert.Equal(t, StateAwaitingTarget, h.ctl.State())

	h.ctl.Cancel()
	assert.Equal(t, StateIdle, h.ctl.State())

	require.NoError(t, h.ctl.ClickNode(y))
	assert.Equal(t, []Entity{NodeRef(y)}, h.ctl.Selection())
	assert.Zero(t, h.graph.ConnectionCount())
}

func TestCancelLabelPromptAddsNoConnection(t *testing.T) {
	h := newHarness(t)
	x := h.createBlock(t, 0, 0, 0, 0, diagram.Point{})
	y := h.createBlock(t, 0, 0, 0, 0, diagram.Point{X: 300})

	h.ctl.Select(NodeRef(x))
	require.NoError(t, h.ctl.StartConnection())
	require.NoError(t, h.ctl.ClickNode(y))
	h.ctl.Cancel()

	assert.Equal(t, StateIdle, h.ctl.State())
	assert.Zero(t, h.graph.ConnectionCount())
}

func TestCommandsRejectedMidGesture(t *testing.T) {
	h := newHarness(t)
	x := h.createBlock(t, 0, 0, 0, 0, diagram.Point{})

	require.NoError(t, h.ctl.StartConnection())
	assert.ErrorIs(t, h.ctl.CreateBlock(diagram.Point{}), ErrGestureInProgress)
	assert.ErrorIs(t, h.ctl.DeleteSelected(), ErrGestureInProgress)
	assert.Equal(t, StateAwaitingTarget, h.ctl.State())

	// dragging is still allowed while picking a target
	require.NoError(t, h.ctl.MoveNode(x, diagram.Point{X: 40, Y: 40}))

	h.ctl.Cancel()
	require.NoError(t, h.ctl.CreateBlock(diagram.Point{}))
	assert.ErrorIs(t, h.ctl.MoveNode(x, diagram.Point{}), ErrGestureInProgress)
	assert.ErrorIs(t, h.ctl.ClickNode(x), ErrGestureInProgress)
}

func TestScenarioDeleteSelectedNode(t *testing.T) {
	h := newHarness(t)
	x := h.createBlock(t, 0, 2, 1, 0, diagram.Point{})
	y := h.createBlock(t, 0, 0, 0, 0, diagram.Point{X: 300})
	h.connect(t, x, y, "bus")

	h.ctl.Select(NodeRef(x))
	require.NoError(t, h.ctl.DeleteSelected())

	assert.Zero(t, h.graph.ConnectionCount())
	nodes := h.graph.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, y, nodes[0].ID)
	assert.Empty(t, nodes[0].Connections)
	assert.Zero(t, h.table.Len())
	assert.Empty(t, h.ctl.Selection())
}

func TestDeleteSelectedContinuesPastFailures(t *testing.T) {
	h := newHarness(t)
	x := h.createBlock(t, 0, 0, 0, 0, diagram.Point{})
	y := h.createBlock(t, 0, 0, 0, 0, diagram.Point{X: 300})
	z := h.createBlock(t, 0, 0, 0, 0, diagram.Point{X: 600})
	h.connect(t, x, y, "a")
	conn := h.graph.Connections()[0]

	h.reports = nil
	h.ctl.Select(NodeRef(x), ConnectionRef(conn.ID), NodeRef(99), NodeRef(z))
	err := h.ctl.DeleteSelected()

	require.Error(t, err)
	assert.ErrorIs(t, err, diagram.ErrConnectionNotFound)
	assert.ErrorIs(t, err, diagram.ErrNodeNotFound)
	assert.Len(t, h.reports, 2)

	nodes := h.graph.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, y, nodes[0].ID)
}

func TestDeleteEmptySelection(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.ctl.DeleteSelected(), ErrEmptySelection)
}

func TestChangeNodeType(t *testing.T) {
	h := newHarness(t)
	x := h.createBlock(t, 0, 0, 0, 0, diagram.Point{})

	require.NoError(t, h.ctl.ChangeNodeType())
	p, ok := h.ctl.Prompt()
	require.True(t, ok)
	assert.Equal(t, int(diagram.FunctionIP), p.Selected)

	h.batches = nil
	require.NoError(t, h.ctl.SubmitChoice(2))
	got, _ := h.graph.Node(x)
	assert.Equal(t, diagram.CombLogic, got.Type)
	require.Len(t, h.batches, 1)
	assert.Equal(t, []diagram.EventKind{diagram.NodeTypeChanged}, h.batches[0].Kinds())

	// an unknown choice is ignored silently
	require.NoError(t, h.ctl.ChangeNodeType())
	h.reports = nil
	require.NoError(t, h.ctl.SubmitChoice(-4))
	got, _ = h.graph.Node(x)
	assert.Equal(t, diagram.CombLogic, got.Type)
	assert.Empty(t, h.reports)
	assert.Equal(t, StateIdle, h.ctl.State())
}

func TestRename(t *testing.T) {
	h := newHarness(t)
	x := h.createBlock(t, 0, 0, 0, 0, diagram.Point{})

	require.NoError(t, h.ctl.BeginRename(x))
	p, ok := h.ctl.Prompt()
	require.True(t, ok)
	assert.Equal(t, diagram.DefaultNodeLabel, p.Text)
	require.NoError(t, h.ctl.SubmitText("cpu"))

	require.NoError(t, h.ctl.RenameNode(x, "   "))
	got, _ := h.graph.Node(x)
	assert.Equal(t, "cpu", got.Label)

	assert.ErrorIs(t, h.ctl.RenameNode(404, "x"), diagram.ErrNodeNotFound)
	assert.ErrorIs(t, h.ctl.BeginRename(404), diagram.ErrNodeNotFound)
}

func TestMoveNodeUpdatesPaths(t *testing.T) {
	h := newHarness(t)
	x := h.createBlock(t, 0, 0, 0, 0, diagram.Point{})
	y := h.createBlock(t, 0, 0, 0, 0, diagram.Point{X: 300})
	h.connect(t, x, y, "bus")

	h.batches = nil
	require.NoError(t, h.ctl.MoveNode(y, diagram.Point{X: 300, Y: 200}))
	require.Len(t, h.batches, 1)
	assert.Equal(t, []diagram.EventKind{diagram.NodeMoved, diagram.PathUpdated}, h.batches[0].Kinds())

	conn := h.graph.Connections()[0]
	assert.Equal(t, diagram.Point{X: 360, Y: 240}, conn.Path.End)

	assert.ErrorIs(t, h.ctl.MoveNode(77, diagram.Point{}), diagram.ErrNodeNotFound)
}

func TestToggleSelect(t *testing.T) {
	h := newHarness(t)
	h.ctl.ToggleSelect(NodeRef(1))
	h.ctl.ToggleSelect(ConnectionRef(1))
	assert.True(t, h.ctl.IsSelected(ConnectionRef(1)))
	h.ctl.ToggleSelect(NodeRef(1))
	assert.Equal(t, []Entity{ConnectionRef(1)}, h.ctl.Selection())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "", Describe(nil))
	assert.Equal(t, "Connection already exists", Describe(diagram.ErrDuplicateEdge))
	assert.Equal(t, "Select exactly one block", Describe(ErrAmbiguousSelection))
	assert.Equal(t, "Port counts must be between 0 and 10", Describe(diagram.ErrInvalidPortConfiguration))
}

func TestDefaultLabel(t *testing.T) {
	g := diagram.NewGraph()
	ctl := New(g, WithDefaultLabel("Core"))

	require.NoError(t, ctl.CreateBlock(DefaultBlockPosition))
	require.NoError(t, ctl.SubmitChoice(0))
	require.NoError(t, ctl.SubmitPorts(0, 0, 0))

	ctl.SetDefaultLabel("  ")
	ctl.SetDefaultLabel("Bridge")
	require.NoError(t, ctl.CreateBlock(DefaultBlockPosition))
	require.NoError(t, ctl.SubmitChoice(1))
	require.NoError(t, ctl.SubmitPorts(0, 0, 0))

	nodes := g.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "Core", nodes[0].Label)
	assert.Equal(t, "Bridge", nodes[1].Label)
	assert.Equal(t, DefaultBlockPosition, nodes[1].Position)
}
