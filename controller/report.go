package controller

import (
	"errors"
	"fmt"

	"blockdiag/diagram"
)

// Level grades a user-facing report.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Report is a message for the user. Err is set when the report stems from a failure.
type Report struct {
	Level   Level
	Message string
	Err     error
}

// Describe turns a failure into the message shown to the user.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, diagram.ErrSelfLoop):
		return "A block cannot connect to itself"
	case errors.Is(err, diagram.ErrDuplicateEdge):
		return "Connection already exists"
	case errors.Is(err, diagram.ErrInvalidEdge):
		return "Invalid connection"
	case errors.Is(err, diagram.ErrNodeNotFound):
		return "Block no longer exists"
	case errors.Is(err, diagram.ErrConnectionNotFound):
		return "Connection no longer exists"
	case errors.Is(err, diagram.ErrInvalidPortConfiguration):
		return fmt.Sprintf("Port counts must be between 0 and %d", diagram.MaxPorts)
	case errors.Is(err, diagram.ErrInvalidNodeType):
		return "Unknown block type"
	case errors.Is(err, ErrEmptySelection):
		return "Select a block first"
	case errors.Is(err, ErrAmbiguousSelection):
		return "Select exactly one block"
	case errors.Is(err, ErrGestureInProgress):
		return "Finish or cancel the current action first"
	case errors.Is(err, ErrNoPendingPrompt):
		return "Nothing to answer"
	case errors.Is(err, ErrPromptMismatch):
		return "That answer does not fit the question"
	default:
		return err.Error()
	}
}

func levelFor(err error) Level {
	switch {
	case errors.Is(err, ErrEmptySelection), errors.Is(err, ErrAmbiguousSelection),
		errors.Is(err, ErrGestureInProgress), errors.Is(err, diagram.ErrInvalidEdge):
		return LevelWarning
	default:
		return LevelError
	}
}
