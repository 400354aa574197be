package diagram

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestGeometryInvariants checks the size and port rules over the whole 0..10 range.
func TestGeometryInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	counts := gen.IntRange(0, MaxPorts)

	properties.Property("block size follows the port formula", prop.ForAll(
		func(master, slave, bidir int) bool {
			g := NewGraph()
			n, err := g.AddNode(NodeSpec{Type: FunctionIP, Ports: PortConfig{Master: master, Slave: slave, Bidir: bidir}})
			if err != nil {
				return false
			}
			wantW := max(120, 30*float64(max(master, slave)+1))
			wantH := max(80, 30*float64(bidir+1))
			return n.Width == wantW && n.Height == wantH
		},
		counts, counts, counts,
	))

	properties.Property("port layout is pure", prop.ForAll(
		func(master, slave, bidir int) bool {
			w, h := NodeSize(master, slave, bidir)
			a := ComputePorts(master, slave, bidir, w, h)
			b := ComputePorts(master, slave, bidir, w, h)
			if len(a) != master+slave+2*bidir || len(a) != len(b) {
				return false
			}
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
			return true
		},
		counts, counts, counts,
	))

	properties.Property("ports stay inside the box", prop.ForAll(
		func(master, slave, bidir int) bool {
			w, h := NodeSize(master, slave, bidir)
			for _, p := range ComputePorts(master, slave, bidir, w, h) {
				if p.X < 0 || p.Y < 0 || p.X+p.W > w || p.Y+p.H > h {
					return false
				}
			}
			return true
		},
		counts, counts, counts,
	))

	properties.TestingRun(t)
}

// TestEdgeInvariants checks that each ordered pair connects at most once and
// that self-loops never succeed.
func TestEdgeInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	type pair struct{ from, to int }
	pairs := gen.SliceOf(gopter.CombineGens(gen.IntRange(1, 5), gen.IntRange(1, 5)).Map(
		func(vals []interface{}) pair {
			return pair{vals[0].(int), vals[1].(int)}
		},
	))

	properties.Property("ordered pairs connect at most once", prop.ForAll(
		func(attempts []pair) bool {
			g := NewGraph()
			for i := 0; i < 5; i++ {
				if _, err := g.AddNode(NodeSpec{Type: AmbaBridge, Position: Point{X: float64(i * 200)}}); err != nil {
					return false
				}
			}

			seen := make(map[pair]bool)
			for _, p := range attempts {
				_, err := g.AddConnection(p.from, p.to, "e")
				switch {
				case p.from == p.to, seen[p]:
					if err == nil {
						return false
					}
				default:
					if err != nil {
						return false
					}
					seen[p] = true
				}
			}
			return g.ConnectionCount() == len(seen)
		},
		pairs,
	))

	properties.Property("removing a node leaves no dangling references", prop.ForAll(
		func(attempts []pair, victim int) bool {
			g := NewGraph()
			for i := 0; i < 5; i++ {
				if _, err := g.AddNode(NodeSpec{Type: CombLogic}); err != nil {
					return false
				}
			}
			for _, p := range attempts {
				_, _ = g.AddConnection(p.from, p.to, "e")
			}

			victimNode, _ := g.Node(victim)
			k := len(victimNode.Connections)

			var got Batch
			g.Subscribe(func(b Batch) { got = b })
			if err := g.RemoveNode(victim); err != nil {
				return false
			}
			if len(got) != k+1 || got[k].Kind != NodeRemoved {
				return false
			}
			for _, ev := range got[:k] {
				if ev.Kind != ConnectionRemoved {
					return false
				}
			}
			for _, c := range g.Connections() {
				if c.Touches(victim) {
					return false
				}
			}
			for _, n := range g.Nodes() {
				for _, cid := range n.Connections {
					if _, ok := g.Connection(cid); !ok {
						return false
					}
				}
			}
			return true
		},
		pairs, gen.IntRange(1, 5),
	))

	properties.TestingRun(t)
}
