package application

import (
	"context"

	"github.com/wms-platform/rf-picking-service/pkg/logging"
)

// compensationStep is one typed undo operation pushed after a committing
// write.
type compensationStep struct {
	name string
	undo func(ctx context.Context) error
}

// Compensator holds the undo stack for one packing transaction. Writes
// push their reversal as they commit; on failure the stack runs once in
// reverse order. Undo failures are logged and skipped, the stack keeps
// unwinding.
type Compensator struct {
	transactionID string
	steps         []compensationStep
	rolledBack    bool
	logger        *logging.Logger
}

// NewCompensator creates a compensator scoped to one transaction id.
func NewCompensator(transactionID string, logger *logging.Logger) *Compensator {
	return &Compensator{
		transactionID: transactionID,
		steps:         make([]compensationStep, 0, 8),
		logger:        logger,
	}
}

// Push registers the undo for a write that just committed.
func (c *Compensator) Push(name string, undo func(ctx context.Context) error) {
	c.steps = append(c.steps, compensationStep{name: name, undo: undo})
}

// Committed reports whether any committing write has happened yet.
func (c *Compensator) Committed() bool {
	return len(c.steps) > 0
}

// Rollback runs the undo stack in reverse order, once. It returns the
// number of steps undone successfully. Calling it again is a no-op.
func (c *Compensator) Rollback(ctx context.Context) int {
	if c.rolledBack {
		return 0
	}
	c.rolledBack = true

	undone := 0
	for i := len(c.steps) - 1; i >= 0; i-- {
		step := c.steps[i]
		if err := step.undo(ctx); err != nil {
			c.logger.WithError(err).Error("Compensation step failed",
				"transactionId", c.transactionID,
				"step", step.name,
			)
			continue
		}
		undone++
	}

	c.logger.Info("Packing transaction rolled back",
		"transactionId", c.transactionID,
		"stepsUndone", undone,
		"stepsTotal", len(c.steps),
	)

	return undone
}
