// Package director implements the score director described in
// SPEC_FULL.md §4.2 and §4.5: the component that brackets every planning
// variable mutation with SERIO before/after notifications, maintains the
// undo stack moves need to backtrack cheaply, and keeps shadow variables
// recomputed in a fixed, cycle-free topological order.
package director

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrCycleInShadowGraph is returned by New when a class's shadow variables'
// declared ShadowSources form a cycle, violating the acyclicity requirement
// from spec §9 open question (a).
var ErrCycleInShadowGraph = errors.New("cycle in shadow variable graph")

// CycleInShadowGraphError names one variable on the offending cycle.
type CycleInShadowGraphError struct {
	Class, Variable string
}

func (e *CycleInShadowGraphError) Error() string {
	return fmt.Sprintf("cycle in shadow variable graph at %s.%s", e.Class, e.Variable)
}

func (e *CycleInShadowGraphError) Unwrap() error { return ErrCycleInShadowGraph }

func cycleInShadowGraph(class, variable string) error {
	return errors.WithStack(&CycleInShadowGraphError{Class: class, Variable: variable})
}

// ErrInvariantViolation is returned when a caller calls director methods
// out of the required order (e.g. AfterVariableChange without a matching
// BeforeVariableChange, or Undo with an empty stack).
var ErrInvariantViolation = errors.New("director invariant violation")

// InvariantViolationError names the violated invariant for diagnostics.
type InvariantViolationError struct {
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("director invariant violation: %s", e.Reason)
}

func (e *InvariantViolationError) Unwrap() error { return ErrInvariantViolation }

func invariantViolation(reason string) error {
	return errors.WithStack(&InvariantViolationError{Reason: reason})
}

// ErrCancelled is returned by DoAndScore when the supplied context has been
// cancelled, per spec §8 scenario 6 (cancellation latency).
var ErrCancelled = errors.New("solve cancelled")
