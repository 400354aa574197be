package diagram

import "fmt"

const (
	// MaxPorts bounds each port category on a block.
	MaxPorts = 10

	minNodeWidth  = 120.0
	minNodeHeight = 80.0
	portPitch     = 30.0

	portLong  = 25.0
	portShort = 15.0
	portInset = 2.0
)

// Side is the edge of a block a port sits on.
type Side int

const (
	SideTop    Side = iota // master
	SideBottom             // slave
	SideLeft               // bidirectional, left half of a pair
	SideRight              // bidirectional, right half of a pair
)

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}

// Port is a labeled connection point. X and Y are relative to the owning
// block's top-left corner.
type Port struct {
	Side  Side
	Index int // 1-based within its category
	Label string
	X, Y  float64
	W, H  float64
}

// NodeSize derives a block's box from its port counts.
func NodeSize(master, slave, bidir int) (width, height float64) {
	width = max(minNodeWidth, portPitch*float64(max(master, slave)+1))
	height = max(minNodeHeight, portPitch*float64(bidir+1))
	return width, height
}

// ComputePorts lays out master ports along the top edge, slave ports along
// the bottom edge and bidirectional pairs on the left and right edges.
// Output order is masters, slaves, then each bidirectional pair left-first.
func ComputePorts(master, slave, bidir int, width, height float64) []Port {
	ports := make([]Port, 0, master+slave+2*bidir)

	for i := 1; i <= master; i++ {
		ports = append(ports, Port{
			Side:  SideTop,
			Index: i,
			Label: fmt.Sprintf("M%d", i),
			X:     spread(i, master, width),
			Y:     portInset,
			W:     portLong,
			H:     portShort,
		})
	}

	for i := 1; i <= slave; i++ {
		ports = append(ports, Port{
			Side:  SideBottom,
			Index: i,
			Label: fmt.Sprintf("S%d", i),
			X:     spread(i, slave, width),
			Y:     height - portShort - portInset,
			W:     portLong,
			H:     portShort,
		})
	}

	for i := 1; i <= bidir; i++ {
		y := spread(i, bidir, height)
		ports = append(ports,
			Port{
				Side:  SideLeft,
				Index: i,
				Label: fmt.Sprintf("B%dL", i),
				X:     portInset,
				Y:     y,
				W:     portShort,
				H:     portLong,
			},
			Port{
				Side:  SideRight,
				Index: i,
				Label: fmt.Sprintf("B%dR", i),
				X:     width - portShort - portInset,
				Y:     y,
				W:     portShort,
				H:     portLong,
			},
		)
	}

	return ports
}

// spread places item i of n evenly along length, centered on a port's long side.
func spread(i, n int, length float64) float64 {
	return float64(i)*(length/float64(n+1)) - portLong/2
}
