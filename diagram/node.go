package diagram

import (
	"fmt"
	"image/color"
	"slices"
	"strings"
)

// NodeType is the closed set of block kinds. Each kind maps to a fixed color.
type NodeType int

const (
	FunctionIP NodeType = iota
	AmbaBridge
	CombLogic
)

var nodeTypeNames = [...]string{
	FunctionIP: "Function_IP",
	AmbaBridge: "Amba_bridge",
	CombLogic:  "Comb_logic",
}

var nodeTypeColors = [...]color.RGBA{
	FunctionIP: {R: 25, G: 25, B: 112, A: 255},
	AmbaBridge: {R: 50, G: 205, B: 50, A: 255},
	CombLogic:  {R: 147, G: 112, B: 219, A: 255},
}

// NodeTypes lists every valid type in menu order.
func NodeTypes() []NodeType {
	return []NodeType{FunctionIP, AmbaBridge, CombLogic}
}

func (t NodeType) Valid() bool {
	return t >= FunctionIP && t <= CombLogic
}

func (t NodeType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
	return nodeTypeNames[t]
}

// Color returns the fill color for the type, or opaque black for an invalid type.
func (t NodeType) Color() color.RGBA {
	if !t.Valid() {
		return color.RGBA{A: 255}
	}
	return nodeTypeColors[t]
}

// Hex returns the fill color as #rrggbb.
func (t NodeType) Hex() string {
	c := t.Color()
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseNodeType accepts a type's display name, case-insensitively.
func ParseNodeType(s string) (NodeType, error) {
	for _, t := range NodeTypes() {
		if strings.EqualFold(s, nodeTypeNames[t]) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidNodeType, s)
}

// Point is a canvas coordinate; the origin is the top-left corner.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Node is a typed block on the canvas. Values handed out by Graph are
// snapshots; mutating them does not affect the graph.
type Node struct {
	ID       int
	Label    string
	Type     NodeType
	Position Point
	Ports    PortConfig

	// Width and Height are fixed at creation.
	Width, Height float64
	PortLayout    []Port

	// Connections holds the ids of every connection touching this node,
	// in the order they were attached.
	Connections []int
}

func newNode(id int, label string, pos Point, t NodeType, pc PortConfig) (*Node, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidNodeType, t)
	}
	if err := pc.Validate(); err != nil {
		return nil, err
	}

	w, h := NodeSize(pc.Master, pc.Slave, pc.Bidir)
	return &Node{
		ID:         id,
		Label:      label,
		Type:       t,
		Position:   pos,
		Ports:      pc,
		Width:      w,
		Height:     h,
		PortLayout: ComputePorts(pc.Master, pc.Slave, pc.Bidir, w, h),
	}, nil
}

// Center is the middle of the block's box in canvas coordinates.
func (n Node) Center() Point {
	return Point{X: n.Position.X + n.Width/2, Y: n.Position.Y + n.Height/2}
}

// Contains reports whether p falls inside the block's box.
func (n Node) Contains(p Point) bool {
	return p.X >= n.Position.X && p.X < n.Position.X+n.Width &&
		p.Y >= n.Position.Y && p.Y < n.Position.Y+n.Height
}

// rename replaces the label unless the new one is blank.
func (n *Node) rename(label string) bool {
	if strings.TrimSpace(label) == "" {
		return false
	}
	n.Label = label
	return true
}

// setType changes appearance only; geometry and ports are untouched.
func (n *Node) setType(t NodeType) bool {
	if !t.Valid() {
		return false
	}
	n.Type = t
	return true
}

func (n *Node) attach(connID int) {
	if !slices.Contains(n.Connections, connID) {
		n.Connections = append(n.Connections, connID)
	}
}

func (n *Node) detach(connID int) {
	n.Connections = slices.DeleteFunc(n.Connections, func(id int) bool { return id == connID })
}

func (n *Node) clone() Node {
	c := *n
	c.PortLayout = slices.Clone(n.PortLayout)
	c.Connections = slices.Clone(n.Connections)
	return c
}
