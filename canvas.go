package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	reflowtruncate "github.com/muesli/reflow/truncate"

	"blockdiag/diagram"
)

type cellKind int

const (
	cellBlank cellKind = iota
	cellConnection
	cellConnectionHot
	cellConnectionLabel
	cellPreview
	cellBlock
	cellPort
	cellCursor
)

// A cell with ch == 0 is the right half of the wide rune before it.
type cell struct {
	ch       rune
	kind     cellKind
	nodeType diagram.NodeType
	hot      bool
}

// viewport maps canvas coordinates onto terminal cells.
type viewport struct {
	width, height int
	cellW, cellH  float64
	panX, panY    int
}

func (v viewport) toCell(p diagram.Point) (int, int) {
	return int(math.Floor(p.X/v.cellW)) - v.panX, int(math.Floor(p.Y/v.cellH)) - v.panY
}

type rect struct{ x0, y0, x1, y1 int }

func (r rect) contains(x, y int) bool {
	return x >= r.x0 && x <= r.x1 && y >= r.y0 && y <= r.y1
}

// blockRect is the inclusive cell box a block occupies. Every block is at
// least 2x2 so its border stays visible.
func (v viewport) blockRect(n diagram.Node) rect {
	x0, y0 := v.toCell(n.Position)
	x1, y1 := v.toCell(n.Position.Add(diagram.Point{X: n.Width - 0.001, Y: n.Height - 0.001}))
	return rect{x0, y0, max(x1, x0+1), max(y1, y0+1)}
}

// highlight says which entities are drawn emphasized.
type highlight struct {
	nodes  map[int]bool
	conns  map[int]bool
	source int // pending connection start, 0 for none
}

// Canvas is a rasterized view of a graph, one terminal column per cell.
type Canvas struct {
	vp    viewport
	cells [][]cell
}

func NewCanvas(vp viewport) *Canvas {
	cells := make([][]cell, vp.height)
	for y := range cells {
		cells[y] = make([]cell, vp.width)
		for x := range cells[y] {
			cells[y][x] = cell{ch: ' '}
		}
	}
	return &Canvas{vp: vp, cells: cells}
}

// renderGraph draws connections first so blocks paint over the curve ends.
func renderGraph(g *diagram.Graph, vp viewport, hl highlight) *Canvas {
	c := NewCanvas(vp)
	for _, conn := range g.Connections() {
		from, okFrom := g.Node(conn.From)
		to, okTo := g.Node(conn.To)
		if !okFrom || !okTo {
			continue
		}
		c.drawConnection(conn, from, to, hl.conns[conn.ID])
	}
	for _, n := range g.Nodes() {
		c.drawBlock(n, hl.nodes[n.ID], n.ID == hl.source)
	}
	return c
}

func (c *Canvas) set(x, y int, ch rune, kind cellKind) {
	c.put(x, y, cell{ch: ch, kind: kind})
}

func (c *Canvas) setBlock(x, y int, ch rune, kind cellKind, t diagram.NodeType, hot bool) {
	c.put(x, y, cell{ch: ch, kind: kind, nodeType: t, hot: hot})
}

// put stores cl at (x, y). A wide rune also takes the cell to its right,
// and a wide rune that would run past the edge becomes a space.
func (c *Canvas) put(x, y int, cl cell) {
	if y < 0 || y >= len(c.cells) || x < 0 || x >= len(c.cells[y]) {
		return
	}
	row := c.cells[y]
	w := runeCells(cl.ch)
	if w == 2 && x+1 >= len(row) {
		cl.ch, w = ' ', 1
	}
	c.split(row, x)
	if w == 2 {
		c.split(row, x+1)
		filler := cl
		filler.ch = 0
		row[x+1] = filler
	}
	row[x] = cl
}

// split blanks whatever half of a wide rune is left behind when cell x is
// overwritten.
func (c *Canvas) split(row []cell, x int) {
	if row[x].ch == 0 && x > 0 {
		row[x-1].ch = ' '
	}
	if x+1 < len(row) && row[x+1].ch == 0 {
		row[x+1].ch = ' '
	}
}

// runeCells is the number of terminal columns r occupies on the canvas.
func runeCells(r rune) int {
	if runewidth.RuneWidth(r) == 2 {
		return 2
	}
	return 1
}

func textCells(s string) int {
	n := 0
	for _, r := range s {
		n += runeCells(r)
	}
	return n
}

func (c *Canvas) writeText(x, y int, s string, kind cellKind) {
	for _, r := range s {
		c.set(x, y, r, kind)
		x += runeCells(r)
	}
}

type cellPos struct{ x, y int }

// trace turns sampled points into a connected run of cells without repeats.
func (c *Canvas) trace(points []diagram.Point) []cellPos {
	var path []cellPos
	push := func(p cellPos) {
		if n := len(path); n > 0 && path[n-1] == p {
			return
		}
		path = append(path, p)
	}
	for i, pt := range points {
		x, y := c.vp.toCell(pt)
		if i == 0 {
			push(cellPos{x, y})
			continue
		}
		prev := path[len(path)-1]
		for _, p := range line(prev.x, prev.y, x, y) {
			push(p)
		}
	}
	return path
}

// line is Bresenham between two cells, both ends included.
func line(x0, y0, x1, y1 int) []cellPos {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	var out []cellPos
	for {
		out = append(out, cellPos{x0, y0})
		if x0 == x1 && y0 == y1 {
			return out
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// strokeRune picks a line glyph for the local direction (dx, dy).
func strokeRune(dx, dy int) rune {
	switch {
	case abs(dx) >= 2*abs(dy):
		return '─'
	case abs(dy) >= 2*abs(dx):
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func arrowRune(dx, dy int) rune {
	if abs(dx) >= abs(dy) {
		if dx >= 0 {
			return '▶'
		}
		return '◀'
	}
	if dy > 0 {
		return '▼'
	}
	return '▲'
}

func (c *Canvas) drawConnection(conn diagram.Connection, from, to diagram.Node, hot bool) {
	kind := cellConnection
	if hot {
		kind = cellConnectionHot
	}
	src, dst := c.vp.blockRect(from), c.vp.blockRect(to)
	path := c.trace(conn.Path.Flatten(curveSegments))

	tip := -1
	for i, p := range path {
		if src.contains(p.x, p.y) || dst.contains(p.x, p.y) {
			continue
		}
		prev, next := path[max(i-1, 0)], path[min(i+1, len(path)-1)]
		c.set(p.x, p.y, strokeRune(next.x-prev.x, next.y-prev.y), kind)
		if i+1 < len(path) && dst.contains(path[i+1].x, path[i+1].y) {
			tip = i
		}
	}
	if tip >= 0 {
		p, q := path[tip], path[tip+1]
		c.set(p.x, p.y, arrowRune(q.x-p.x, q.y-p.y), kind)
	}

	ax, ay := c.vp.toCell(conn.Path.LabelAnchor())
	c.writeText(ax-textCells(conn.Label)/2, ay, conn.Label, cellConnectionLabel)
}

// drawPreview shows the pending connection from the source block to the cursor.
func (c *Canvas) drawPreview(from diagram.Node, to diagram.Point) {
	src := c.vp.blockRect(from)
	for _, p := range c.trace([]diagram.Point{from.Center(), to}) {
		if src.contains(p.x, p.y) {
			continue
		}
		c.set(p.x, p.y, '·', cellPreview)
	}
}

type borderSet struct {
	h, v, tl, tr, bl, br rune
}

var (
	borderNormal   = borderSet{'─', '│', '┌', '┐', '└', '┘'}
	borderSelected = borderSet{'═', '║', '╔', '╗', '╚', '╝'}
	borderSource   = borderSet{'━', '┃', '┏', '┓', '┗', '┛'}
)

func (c *Canvas) drawBlock(n diagram.Node, selected, source bool) {
	b := borderNormal
	switch {
	case source:
		b = borderSource
	case selected:
		b = borderSelected
	}
	hot := selected || source
	r := c.vp.blockRect(n)

	for y := r.y0; y <= r.y1; y++ {
		for x := r.x0; x <= r.x1; x++ {
			ch := ' '
			switch {
			case y == r.y0 && x == r.x0:
				ch = b.tl
			case y == r.y0 && x == r.x1:
				ch = b.tr
			case y == r.y1 && x == r.x0:
				ch = b.bl
			case y == r.y1 && x == r.x1:
				ch = b.br
			case y == r.y0 || y == r.y1:
				ch = b.h
			case x == r.x0 || x == r.x1:
				ch = b.v
			}
			c.setBlock(x, y, ch, cellBlock, n.Type, hot)
		}
	}

	for _, p := range n.PortLayout {
		c.drawPort(n, r, p)
	}

	margin := 1
	if n.Ports.Bidir > 0 {
		margin = 5
	}
	room := r.x1 - r.x0 + 1 - 2*margin
	label := truncate(n.Label, room)
	if label == "" {
		return
	}
	y := (r.y0 + r.y1) / 2
	x := r.x0 + margin + (room-textCells(label))/2
	end := r.x1 + 1 - margin
	for _, ch := range label {
		if x+runeCells(ch) > end {
			break
		}
		c.setBlock(x, y, ch, cellBlock, n.Type, hot)
		x += runeCells(ch)
	}
}

// drawPort writes a port's label onto its side of the block, centered on
// the port.
func (c *Canvas) drawPort(n diagram.Node, r rect, p diagram.Port) {
	width := textCells(p.Label)
	cx, cy := c.vp.toCell(n.Position.Add(diagram.Point{X: p.X + p.W/2, Y: p.Y + p.H/2}))

	var x, y int
	switch p.Side {
	case diagram.SideTop:
		x, y = cx-width/2, r.y0
	case diagram.SideBottom:
		x, y = cx-width/2, r.y1
	case diagram.SideLeft:
		x, y = r.x0, cy
	case diagram.SideRight:
		x, y = r.x1-width+1, cy
	}
	y = max(r.y0, min(y, r.y1))
	horizontal := p.Side == diagram.SideTop || p.Side == diagram.SideBottom
	for _, ch := range p.Label {
		px, w := x, runeCells(ch)
		x += w
		if horizontal && (px <= r.x0 || px+w-1 >= r.x1) {
			continue
		}
		c.setBlock(px, y, ch, cellPort, n.Type, false)
	}
}

// truncate shortens s to n cells, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if textCells(s) <= n {
		return s
	}
	return reflowtruncate.StringWithTail(s, uint(n), "…")
}

var (
	connectionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#006400"))
	connectionHotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	labelStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#006400")).Italic(true)
	previewStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	portStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#FFFFFF"))
	cursorStyle        = lipgloss.NewStyle().Reverse(true)
)

func blockStyle(t diagram.NodeType, hot bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(t.Hex()))
	if hot {
		s = s.Bold(true)
	}
	return s
}

func (c cell) style() (lipgloss.Style, bool) {
	switch c.kind {
	case cellConnection:
		return connectionStyle, true
	case cellConnectionHot:
		return connectionHotStyle, true
	case cellConnectionLabel:
		return labelStyle, true
	case cellPreview:
		return previewStyle, true
	case cellBlock:
		return blockStyle(c.nodeType, c.hot), true
	case cellPort:
		return portStyle, true
	case cellCursor:
		return cursorStyle, true
	}
	return lipgloss.Style{}, false
}

// Lines returns one string per row. With color set, runs of equally styled
// cells are rendered through lipgloss.
func (c *Canvas) Lines(color bool) []string {
	out := make([]string, len(c.cells))
	for y, row := range c.cells {
		var b strings.Builder
		for x := 0; x < len(row); {
			end := x + 1
			for end < len(row) && sameStyle(row[x], row[end]) {
				end++
			}
			run := make([]rune, 0, end-x)
			for _, cl := range row[x:end] {
				if cl.ch != 0 {
					run = append(run, cl.ch)
				}
			}
			if st, ok := row[x].style(); color && ok {
				b.WriteString(st.Render(string(run)))
			} else {
				b.WriteString(string(run))
			}
			x = end
		}
		out[y] = b.String()
	}
	return out
}

func sameStyle(a, b cell) bool {
	if a.kind != b.kind {
		return false
	}
	if a.kind == cellBlock {
		return a.nodeType == b.nodeType && a.hot == b.hot
	}
	return true
}

// String is the uncolored raster, rows joined by newlines.
func (c *Canvas) String() string {
	return strings.Join(c.Lines(false), "\n")
}
