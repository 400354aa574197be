package diagram

import "strings"

// DefaultConnectionLabel is used when a connection is created with a blank label.
const DefaultConnectionLabel = "unnamed"

// curveSag pushes the control point below the midpoint so parallel edges
// in opposite directions stay readable.
const curveSag = 50.0

// Curve is a quadratic Bézier from Start to End bent through Control.
type Curve struct {
	Start, Control, End Point
}

// At evaluates the curve at t in [0,1].
func (c Curve) At(t float64) Point {
	u := 1 - t
	return c.Start.Scale(u * u).
		Add(c.Control.Scale(2 * u * t)).
		Add(c.End.Scale(t * t))
}

// LabelAnchor is where a connection's label is drawn.
func (c Curve) LabelAnchor() Point {
	return c.At(0.5)
}

// Flatten samples the curve into segments+1 points, endpoints included.
func (c Curve) Flatten(segments int) []Point {
	if segments < 1 {
		segments = 1
	}
	pts := make([]Point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		pts = append(pts, c.At(float64(i)/float64(segments)))
	}
	return pts
}

// CurveBetween routes a connection from the center of one box to the center of another.
func CurveBetween(from, to Node) Curve {
	s, e := from.Center(), to.Center()
	mid := s.Add(e).Scale(0.5)
	return Curve{
		Start:   s,
		Control: mid.Add(Point{Y: curveSag}),
		End:     e,
	}
}

// Connection is a directed, labeled edge between two distinct blocks.
type Connection struct {
	ID    int
	From  int
	To    int
	Label string
	Path  Curve
}

func newConnection(id int, from, to *Node, label string) *Connection {
	if strings.TrimSpace(label) == "" {
		label = DefaultConnectionLabel
	}
	c := &Connection{
		ID:    id,
		From:  from.ID,
		To:    to.ID,
		Label: label,
	}
	c.recomputePath(from, to)
	from.attach(id)
	to.attach(id)
	return c
}

func (c *Connection) recomputePath(from, to *Node) {
	c.Path = CurveBetween(*from, *to)
}

// destroy drops the connection from both endpoints' back-references.
func (c *Connection) destroy(from, to *Node) {
	from.detach(c.ID)
	to.detach(c.ID)
}

// Touches reports whether the node is either endpoint.
func (c Connection) Touches(nodeID int) bool {
	return c.From == nodeID || c.To == nodeID
}
