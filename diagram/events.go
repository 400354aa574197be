package diagram

// EventKind identifies what changed in a graph mutation.
type EventKind int

const (
	NodeAdded EventKind = iota
	NodeRemoved
	NodeMoved
	NodeTypeChanged
	NodeRenamed
	ConnectionAdded
	ConnectionRemoved
	PathUpdated
)

func (k EventKind) String() string {
	switch k {
	case NodeAdded:
		return "NodeAdded"
	case NodeRemoved:
		return "NodeRemoved"
	case NodeMoved:
		return "NodeMoved"
	case NodeTypeChanged:
		return "NodeTypeChanged"
	case NodeRenamed:
		return "NodeRenamed"
	case ConnectionAdded:
		return "ConnectionAdded"
	case ConnectionRemoved:
		return "ConnectionRemoved"
	case PathUpdated:
		return "PathUpdated"
	default:
		return "Unknown"
	}
}

// Event carries a snapshot of the entity it describes. Node events set Node;
// connection events set Connection.
type Event struct {
	Kind       EventKind
	Node       *Node
	Connection *Connection
}

// Batch is every event produced by one graph mutation, in the order they happened.
type Batch []Event

// Kinds lists the batch's event kinds in order.
func (b Batch) Kinds() []EventKind {
	kinds := make([]EventKind, len(b))
	for i, ev := range b {
		kinds[i] = ev.Kind
	}
	return kinds
}

// Listener receives one Batch per successful mutation.
type Listener func(Batch)

func nodeEvent(kind EventKind, n *Node) Event {
	snap := n.clone()
	return Event{Kind: kind, Node: &snap}
}

func connectionEvent(kind EventKind, c *Connection) Event {
	snap := *c
	return Event{Kind: kind, Connection: &snap}
}
