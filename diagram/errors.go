package diagram

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEdge is returned for self-loops and duplicate directed edges.
	ErrInvalidEdge = errors.New("invalid edge")

	// ErrSelfLoop and ErrDuplicateEdge both match ErrInvalidEdge.
	ErrSelfLoop      = fmt.Errorf("%w: self-loop", ErrInvalidEdge)
	ErrDuplicateEdge = fmt.Errorf("%w: duplicate connection", ErrInvalidEdge)

	ErrNodeNotFound       = errors.New("node not found")
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrInvalidPortConfiguration is returned when a port count is negative or above MaxPorts.
	ErrInvalidPortConfiguration = errors.New("invalid port configuration")

	ErrInvalidNodeType = errors.New("invalid node type")
)
