package controller

import (
	"errors"
	"fmt"

	"blockdiag/diagram"
)

// CreateBlock starts the create-block gesture: pick a type, then port
// counts, then the block is added at pos. Cancelling either prompt adds nothing.
func (c *Controller) CreateBlock(pos diagram.Point) error {
	if err := c.busy(); err != nil {
		return err
	}

	c.ask(Prompt{
		Purpose: PurposeBlockType,
		Shape:   ShapeChoice,
		Title:   "Block type",
		Message: "Choose the block type:",
		Options: typeOptions(),
	}, func(a answer) error {
		t, ok := choiceToType(a.choice)
		if !ok {
			c.idle()
			return c.fail(fmt.Errorf("%w: choice %d", diagram.ErrInvalidNodeType, a.choice))
		}
		c.askPorts(pos, t)
		return nil
	})
	return nil
}

func (c *Controller) askPorts(pos diagram.Point, t diagram.NodeType) {
	c.ask(Prompt{
		Purpose: PurposePorts,
		Shape:   ShapePorts,
		Title:   "Ports",
		Message: fmt.Sprintf("Master, slave and bidirectional port counts for %s:", t),
		Min:     0,
		Max:     diagram.MaxPorts,
	}, func(a answer) error {
		c.idle()
		n, err := c.graph.AddNode(diagram.NodeSpec{
			Label:    c.defaultLabel,
			Position: pos,
			Type:     t,
			Ports:    a.ports,
		})
		if err != nil {
			return c.fail(err)
		}
		c.Select(NodeRef(n.ID))
		c.log.Info("block created", "id", n.ID, "type", n.Type, "ports", a.ports)
		c.report(LevelInfo, fmt.Sprintf("Created %s block %q", n.Type, n.Label))
		return nil
	})
}

// StartConnection uses the single selected block as the start of a new
// connection and waits for a target click.
func (c *Controller) StartConnection() error {
	if err := c.busy(); err != nil {
		return err
	}
	src, err := c.singleNode()
	if err != nil {
		return c.fail(err)
	}

	c.state = StateAwaitingTarget
	c.source = src
	c.log.Debug("awaiting connection target", "source", src)
	c.report(LevelInfo, "Click the target block")
	return nil
}

// ClickNode handles a click on a block. While awaiting a connection target
// it completes the connection gesture; otherwise it selects the block.
func (c *Controller) ClickNode(id int) error {
	switch c.state {
	case StatePrompting:
		return c.fail(fmt.Errorf("%w: %s", ErrGestureInProgress, c.state))
	case StateIdle:
		if _, ok := c.graph.Node(id); !ok {
			return c.fail(fmt.Errorf("%w: %d", diagram.ErrNodeNotFound, id))
		}
		c.Select(NodeRef(id))
		return nil
	}

	src := c.source
	if id == src {
		c.idle()
		return c.fail(fmt.Errorf("%w: node %d", diagram.ErrSelfLoop, id))
	}
	if c.graph.HasEdge(src, id) {
		c.idle()
		return c.fail(fmt.Errorf("%w: %d → %d", diagram.ErrDuplicateEdge, src, id))
	}

	c.ask(Prompt{
		Purpose: PurposeConnectionLabel,
		Shape:   ShapeText,
		Title:   "Connection name",
		Message: "Enter a connection name:",
	}, func(a answer) error {
		c.idle()
		conn, err := c.graph.AddConnection(src, id, a.text)
		if err != nil {
			return c.fail(err)
		}
		c.log.Info("connection created", "id", conn.ID, "from", conn.From, "to", conn.To, "label", conn.Label)
		c.report(LevelInfo, fmt.Sprintf("Connected %q", conn.Label))
		return nil
	})
	return nil
}

// ClickEmpty handles a click on bare canvas. It clears the selection when
// idle and is ignored while a gesture is in progress.
func (c *Controller) ClickEmpty() {
	if c.state == StateIdle {
		c.ClearSelection()
	}
}

// DeleteSelected removes every selected entity. A failure on one entity is
// reported and the rest are still processed; the joined failures are returned.
func (c *Controller) DeleteSelected() error {
	if err := c.busy(); err != nil {
		return err
	}
	if len(c.selection) == 0 {
		return c.fail(ErrEmptySelection)
	}

	var errs []error
	removed := 0
	for _, e := range c.selection {
		var err error
		switch e.Kind {
		case EntityNode:
			err = c.graph.RemoveNode(e.ID)
		case EntityConnection:
			err = c.graph.RemoveConnection(e.ID)
		}
		if err != nil {
			errs = append(errs, c.fail(err))
			continue
		}
		removed++
	}
	c.ClearSelection()

	c.log.Info("deleted selection", "removed", removed, "failed", len(errs))
	if removed > 0 && len(errs) == 0 {
		c.report(LevelInfo, fmt.Sprintf("Deleted %d item(s)", removed))
	}
	return errors.Join(errs...)
}

// ChangeNodeType prompts for a new type for the single selected block.
func (c *Controller) ChangeNodeType() error {
	if err := c.busy(); err != nil {
		return err
	}
	id, err := c.singleNode()
	if err != nil {
		return c.fail(err)
	}
	n, _ := c.graph.Node(id)

	c.ask(Prompt{
		Purpose:  PurposeChangeType,
		Shape:    ShapeChoice,
		Title:    "Change type",
		Message:  "Choose the block type:",
		Options:  typeOptions(),
		Selected: int(n.Type),
	}, func(a answer) error {
		c.idle()
		t, ok := choiceToType(a.choice)
		if !ok {
			c.log.Debug("ignoring unknown type choice", "choice", a.choice)
			return nil
		}
		if err := c.graph.SetNodeType(id, t); err != nil {
			return c.fail(err)
		}
		return nil
	})
	return nil
}

// BeginRename prompts for a new label for block id.
func (c *Controller) BeginRename(id int) error {
	if err := c.busy(); err != nil {
		return err
	}
	n, ok := c.graph.Node(id)
	if !ok {
		return c.fail(fmt.Errorf("%w: %d", diagram.ErrNodeNotFound, id))
	}

	c.ask(Prompt{
		Purpose: PurposeRename,
		Shape:   ShapeText,
		Title:   "Rename block",
		Message: "New name:",
		Text:    n.Label,
	}, func(a answer) error {
		c.idle()
		return c.rename(id, a.text)
	})
	return nil
}

// RenameNode applies a resolved rename. Blank text leaves the label alone.
func (c *Controller) RenameNode(id int, text string) error {
	if c.state == StatePrompting {
		return c.fail(fmt.Errorf("%w: %s", ErrGestureInProgress, c.state))
	}
	return c.rename(id, text)
}

func (c *Controller) rename(id int, text string) error {
	if _, err := c.graph.RenameNode(id, text); err != nil {
		return c.fail(err)
	}
	return nil
}

// MoveNode drags block id to pos.
func (c *Controller) MoveNode(id int, pos diagram.Point) error {
	if c.state == StatePrompting {
		return c.fail(fmt.Errorf("%w: %s", ErrGestureInProgress, c.state))
	}
	if err := c.graph.MoveNode(id, pos); err != nil {
		return c.fail(err)
	}
	return nil
}
