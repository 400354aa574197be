package diagram

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultNodeLabel names a block created with a blank label.
const DefaultNodeLabel = "New Block"

// NodeSpec describes a block to add.
type NodeSpec struct {
	Label    string
	Position Point
	Type     NodeType
	Ports    PortConfig
}

type edgeKey struct{ from, to int }

// Graph is the authoritative set of blocks and connections. It is the only
// mutation surface: every method either applies completely and notifies
// subscribers with a single Batch, or returns an error and changes nothing.
//
// Graph is not safe for concurrent use.
type Graph struct {
	nodes       map[int]*Node
	connections map[int]*Connection
	edges       map[edgeKey]int

	// insertion order for deterministic iteration
	nodeOrder []int
	connOrder []int

	nextNodeID int
	nextConnID int

	listeners []Listener
}

func NewGraph() *Graph {
	return &Graph{
		nodes:       make(map[int]*Node),
		connections: make(map[int]*Connection),
		edges:       make(map[edgeKey]int),
		nextNodeID:  1,
		nextConnID:  1,
	}
}

// Subscribe registers l for every future Batch.
func (g *Graph) Subscribe(l Listener) {
	g.listeners = append(g.listeners, l)
}

func (g *Graph) emit(b Batch) {
	if len(b) == 0 {
		return
	}
	for _, l := range g.listeners {
		l(b)
	}
}

// AddNode creates a block. A blank label becomes DefaultNodeLabel.
func (g *Graph) AddNode(ns NodeSpec) (Node, error) {
	label := strings.TrimSpace(ns.Label)
	if label == "" {
		label = DefaultNodeLabel
	}
	n, err := newNode(g.nextNodeID, label, ns.Position, ns.Type, ns.Ports)
	if err != nil {
		return Node{}, err
	}
	g.nextNodeID++

	g.nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)
	g.emit(Batch{nodeEvent(NodeAdded, n)})
	return n.clone(), nil
}

// AddConnection links from → to. Self-loops and a second edge with the same
// ordered endpoints fail with ErrInvalidEdge; the reverse direction is allowed.
func (g *Graph) AddConnection(from, to int, label string) (Connection, error) {
	start, ok := g.nodes[from]
	if !ok {
		return Connection{}, fmt.Errorf("%w: %d", ErrNodeNotFound, from)
	}
	end, ok := g.nodes[to]
	if !ok {
		return Connection{}, fmt.Errorf("%w: %d", ErrNodeNotFound, to)
	}
	if from == to {
		return Connection{}, fmt.Errorf("%w: node %d", ErrSelfLoop, from)
	}
	key := edgeKey{from, to}
	if existing, dup := g.edges[key]; dup {
		return Connection{}, fmt.Errorf("%w: %d → %d is connection %d", ErrDuplicateEdge, from, to, existing)
	}

	c := newConnection(g.nextConnID, start, end, label)
	g.nextConnID++

	g.connections[c.ID] = c
	g.connOrder = append(g.connOrder, c.ID)
	g.edges[key] = c.ID
	g.emit(Batch{connectionEvent(ConnectionAdded, c)})
	return *c, nil
}

// RemoveNode deletes a block after first deleting every connection touching it.
// The batch holds one ConnectionRemoved per incident connection, then NodeRemoved.
func (g *Graph) RemoveNode(id int) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}

	batch := make(Batch, 0, len(n.Connections)+1)
	for _, connID := range slices.Clone(n.Connections) {
		batch = append(batch, connectionEvent(ConnectionRemoved, g.dropConnection(connID)))
	}

	delete(g.nodes, id)
	g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(nid int) bool { return nid == id })
	batch = append(batch, nodeEvent(NodeRemoved, n))
	g.emit(batch)
	return nil
}

// RemoveConnection deletes a single connection.
func (g *Graph) RemoveConnection(id int) error {
	if _, ok := g.connections[id]; !ok {
		return fmt.Errorf("%w: %d", ErrConnectionNotFound, id)
	}
	c := g.dropConnection(id)
	g.emit(Batch{connectionEvent(ConnectionRemoved, c)})
	return nil
}

func (g *Graph) dropConnection(id int) *Connection {
	c := g.connections[id]
	c.destroy(g.nodes[c.From], g.nodes[c.To])
	delete(g.connections, id)
	delete(g.edges, edgeKey{c.From, c.To})
	g.connOrder = slices.DeleteFunc(g.connOrder, func(cid int) bool { return cid == id })
	return c
}

// MoveNode repositions a block and recomputes the path of every connection
// touching it. Subscribers receive NodeMoved followed by one PathUpdated per
// incident connection, all in a single Batch.
func (g *Graph) MoveNode(id int, pos Point) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}

	n.Position = pos
	batch := make(Batch, 0, len(n.Connections)+1)
	batch = append(batch, nodeEvent(NodeMoved, n))
	for _, connID := range n.Connections {
		c := g.connections[connID]
		c.recomputePath(g.nodes[c.From], g.nodes[c.To])
		batch = append(batch, connectionEvent(PathUpdated, c))
	}
	g.emit(batch)
	return nil
}

// SetNodeType changes a block's type. Geometry is unaffected.
func (g *Graph) SetNodeType(id int, t NodeType) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	if !n.setType(t) {
		return fmt.Errorf("%w: %s", ErrInvalidNodeType, t)
	}
	g.emit(Batch{nodeEvent(NodeTypeChanged, n)})
	return nil
}

// RenameNode replaces a block's label. A blank label is ignored and reports
// false without error.
func (g *Graph) RenameNode(id int, label string) (bool, error) {
	n, ok := g.nodes[id]
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	if !n.rename(strings.TrimSpace(label)) {
		return false, nil
	}
	g.emit(Batch{nodeEvent(NodeRenamed, n)})
	return true, nil
}

// Node returns a snapshot of the block with the given id.
func (g *Graph) Node(id int) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

// Connection returns a snapshot of the connection with the given id.
func (g *Graph) Connection(id int) (Connection, bool) {
	c, ok := g.connections[id]
	if !ok {
		return Connection{}, false
	}
	return *c, true
}

// HasEdge reports whether a connection from → to exists.
func (g *Graph) HasEdge(from, to int) bool {
	_, ok := g.edges[edgeKey{from, to}]
	return ok
}

// Nodes returns snapshots of every block in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id].clone())
	}
	return out
}

// Connections returns snapshots of every connection in insertion order.
func (g *Graph) Connections() []Connection {
	out := make([]Connection, 0, len(g.connOrder))
	for _, id := range g.connOrder {
		out = append(out, *g.connections[id])
	}
	return out
}

func (g *Graph) NodeCount() int       { return len(g.nodes) }
func (g *Graph) ConnectionCount() int { return len(g.connections) }

// NodeAt returns the topmost block containing p. Later blocks are drawn over
// earlier ones, so the search runs newest first.
func (g *Graph) NodeAt(p Point) (Node, bool) {
	for i := len(g.nodeOrder) - 1; i >= 0; i-- {
		n := g.nodes[g.nodeOrder[i]]
		if n.Contains(p) {
			return n.clone(), true
		}
	}
	return Node{}, false
}
