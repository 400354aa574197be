package controller

import (
	"fmt"

	"blockdiag/diagram"
)

// SubmitChoice answers a pick-one prompt with the index of an option. It
// returns the error of the gesture step the answer resumes, which has
// already been reported.
func (c *Controller) SubmitChoice(i int) error {
	if err := c.expect(ShapeChoice); err != nil {
		return err
	}
	return c.resume(answer{choice: i})
}

// SubmitText answers a free-text prompt. Errors are returned as for SubmitChoice.
func (c *Controller) SubmitText(text string) error {
	if err := c.expect(ShapeText); err != nil {
		return err
	}
	return c.resume(answer{text: text})
}

// SubmitPorts answers the port configuration prompt. Errors are returned as
// for SubmitChoice.
func (c *Controller) SubmitPorts(master, slave, bidir int) error {
	if err := c.expect(ShapePorts); err != nil {
		return err
	}
	return c.resume(answer{ports: diagram.PortConfig{Master: master, Slave: slave, Bidir: bidir}})
}

// Cancel aborts the gesture in progress. Nothing it started is applied.
func (c *Controller) Cancel() {
	if c.state == StateIdle {
		return
	}
	c.log.Debug("gesture cancelled", "state", c.state)
	c.idle()
	c.report(LevelInfo, "Cancelled")
}

func (c *Controller) expect(shape Shape) error {
	if c.prompt == nil {
		return ErrNoPendingPrompt
	}
	if c.prompt.Shape != shape {
		return fmt.Errorf("%w: want %d, got %d", ErrPromptMismatch, c.prompt.Shape, shape)
	}
	return nil
}
