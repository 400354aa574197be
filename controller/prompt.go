package controller

import "blockdiag/diagram"

// Shape is the kind of answer a prompt expects.
type Shape int

const (
	ShapeChoice Shape = iota // pick one of Options
	ShapeText                // free text
	ShapePorts               // three integers in [Min, Max]
)

// Purpose says which gesture step a prompt belongs to.
type Purpose int

const (
	PurposeBlockType Purpose = iota
	PurposePorts
	PurposeConnectionLabel
	PurposeChangeType
	PurposeRename
)

// Prompt is a request for input the shell must resolve with one of the
// Submit methods or Cancel.
type Prompt struct {
	Purpose Purpose
	Shape   Shape
	Title   string
	Message string

	Options  []string
	Selected int

	Text string

	Min, Max int
}

type answer struct {
	choice int
	text   string
	ports  diagram.PortConfig
}

func typeOptions() []string {
	types := diagram.NodeTypes()
	opts := make([]string, len(types))
	for i, t := range types {
		opts[i] = t.String()
	}
	return opts
}

func choiceToType(i int) (diagram.NodeType, bool) {
	types := diagram.NodeTypes()
	if i < 0 || i >= len(types) {
		return 0, false
	}
	return types[i], true
}
