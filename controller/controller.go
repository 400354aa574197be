// Package controller turns user gestures into graph mutations. It owns the
// gesture state machine, the current selection and every prompt the core
// needs answered, and it is the only place failures become messages.
package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"blockdiag/diagram"
)

var (
	ErrEmptySelection     = errors.New("empty selection")
	ErrAmbiguousSelection = errors.New("ambiguous selection")
	ErrGestureInProgress  = errors.New("gesture in progress")
	ErrNoPendingPrompt    = errors.New("no pending prompt")
	ErrPromptMismatch     = errors.New("answer does not match prompt")
)

// DefaultBlockPosition is where blocks go when the shell has no context position.
var DefaultBlockPosition = diagram.Point{X: 100, Y: 100}

// State is the gesture state.
type State int

const (
	StateIdle State = iota
	StateAwaitingTarget
	StatePrompting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingTarget:
		return "awaiting-target"
	case StatePrompting:
		return "prompting"
	default:
		return "unknown"
	}
}

// EntityKind distinguishes selectable things.
type EntityKind int

const (
	EntityNode EntityKind = iota
	EntityConnection
)

// Entity identifies a selected block or connection.
type Entity struct {
	Kind EntityKind
	ID   int
}

func NodeRef(id int) Entity       { return Entity{Kind: EntityNode, ID: id} }
func ConnectionRef(id int) Entity { return Entity{Kind: EntityConnection, ID: id} }

// Controller processes one gesture at a time against a single graph.
// It is not safe for concurrent use.
type Controller struct {
	graph *diagram.Graph
	log   *slog.Logger

	state  State
	source int // start block while awaiting a target

	prompt *Prompt
	resume func(answer) error

	selection []Entity

	defaultLabel string
	reporter     func(Report)
	last         Report
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithReporter receives every user-facing report as it is made.
func WithReporter(fn func(Report)) Option {
	return func(c *Controller) { c.reporter = fn }
}

// WithDefaultLabel sets the label given to new blocks.
func WithDefaultLabel(label string) Option {
	return func(c *Controller) { c.defaultLabel = label }
}

func New(g *diagram.Graph, opts ...Option) *Controller {
	c := &Controller{
		graph:        g,
		log:          slog.New(slog.DiscardHandler),
		defaultLabel: diagram.DefaultNodeLabel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetDefaultLabel changes the label given to blocks created from now on.
// A blank label is ignored.
func (c *Controller) SetDefaultLabel(label string) {
	if strings.TrimSpace(label) != "" {
		c.defaultLabel = label
	}
}

func (c *Controller) Graph() *diagram.Graph { return c.graph }
func (c *Controller) State() State          { return c.state }

// Source returns the start block while awaiting a connection target.
func (c *Controller) Source() (int, bool) {
	return c.source, c.state == StateAwaitingTarget
}

// Prompt returns the pending prompt, if any.
func (c *Controller) Prompt() (Prompt, bool) {
	if c.prompt == nil {
		return Prompt{}, false
	}
	p := *c.prompt
	p.Options = slices.Clone(p.Options)
	return p, true
}

// LastReport returns the most recent report.
func (c *Controller) LastReport() Report { return c.last }

// Selection returns the selected entities in selection order.
func (c *Controller) Selection() []Entity { return slices.Clone(c.selection) }

// Select replaces the selection.
func (c *Controller) Select(entities ...Entity) {
	c.selection = slices.Clone(entities)
}

// ToggleSelect adds e to the selection or removes it if already present.
func (c *Controller) ToggleSelect(e Entity) {
	if i := slices.Index(c.selection, e); i >= 0 {
		c.selection = slices.Delete(c.selection, i, i+1)
		return
	}
	c.selection = append(c.selection, e)
}

func (c *Controller) ClearSelection() { c.selection = nil }

// IsSelected reports whether e is part of the selection.
func (c *Controller) IsSelected(e Entity) bool {
	return slices.Contains(c.selection, e)
}

// singleNode returns the one selected block, failing for zero or several
// selected entities.
func (c *Controller) singleNode() (int, error) {
	switch {
	case len(c.selection) == 0:
		return 0, ErrEmptySelection
	case len(c.selection) > 1:
		return 0, fmt.Errorf("%w: %d items selected", ErrAmbiguousSelection, len(c.selection))
	case c.selection[0].Kind != EntityNode:
		return 0, fmt.Errorf("%w: a connection is selected", ErrEmptySelection)
	}
	id := c.selection[0].ID
	if _, ok := c.graph.Node(id); !ok {
		return 0, fmt.Errorf("%w: %d", diagram.ErrNodeNotFound, id)
	}
	return id, nil
}

func (c *Controller) report(level Level, msg string) {
	c.emit(Report{Level: level, Message: msg})
}

// fail reports err and hands it back to the caller.
func (c *Controller) fail(err error) error {
	c.log.Warn("gesture failed", "state", c.state, "err", err)
	c.emit(Report{Level: levelFor(err), Message: Describe(err), Err: err})
	return err
}

func (c *Controller) emit(r Report) {
	c.last = r
	if c.reporter != nil {
		c.reporter(r)
	}
}

func (c *Controller) ask(p Prompt, next func(answer) error) {
	c.state = StatePrompting
	c.prompt = &p
	c.resume = next
	c.log.Debug("prompt", "purpose", p.Purpose, "title", p.Title)
}

// idle ends the current gesture.
func (c *Controller) idle() {
	c.state = StateIdle
	c.source = 0
	c.prompt = nil
	c.resume = nil
}

// busy rejects commands that may only start from Idle.
func (c *Controller) busy() error {
	if c.state != StateIdle {
		return c.fail(fmt.Errorf("%w: %s", ErrGestureInProgress, c.state))
	}
	return nil
}
