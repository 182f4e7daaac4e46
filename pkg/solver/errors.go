// Package solver implements the out-of-core driver surface described in
// SPEC_FULL.md §4.6: a SolverManager that accepts a problem (working
// solution, constraint network, config), runs phases a driver supplies
// against a director.Director, and streams best-solution improvements plus
// a final SolveResult. The phases/acceptors/move-selectors themselves are
// named, closed config, not shipped in depth — only a FirstFitConstructor
// and a HillClimbingAcceptor are provided, enough to run the seed scenarios
// end to end.
package solver

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrCancelled is returned when a solve's termination flag was observed set
// before or during a step. Mirrors director.ErrCancelled at the manager
// layer so callers that never touch pkg/director directly still get a
// stable sentinel.
var ErrCancelled = errors.New("solve cancelled")

// ErrParse is the sentinel for config and score-string parse failures.
var ErrParse = errors.New("parse error")

// ErrUnknownJob is returned by SolverManager.Result/Poll for a job id that
// was never submitted (BestSolutions and Done return nil for such an id).
var ErrUnknownJob = errors.New("unknown solver job")

// ParseError reports a failure parsing a config file or score string.
// LoadConfig fills only Reason (the decoder's message or the unknown key);
// it sets Line and Column to 0 in every case, TOML syntax errors included.
type ParseError struct {
	Line   int
	Column int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrParse }

func parseError(line, column int, reason string) error {
	return errors.WithStack(&ParseError{Line: line, Column: column, Reason: reason})
}

// ErrUnknownAcceptor is returned when a config names an acceptor outside
// the closed enumeration in SPEC_FULL.md §4.6.
var ErrUnknownAcceptor = errors.New("unknown acceptor")

// UnknownAcceptorError names the offending config value.
type UnknownAcceptorError struct {
	Name string
}

func (e *UnknownAcceptorError) Error() string {
	return fmt.Sprintf("unknown acceptor %q", e.Name)
}

func (e *UnknownAcceptorError) Unwrap() error { return ErrUnknownAcceptor }

func unknownAcceptor(name string) error {
	return errors.WithStack(&UnknownAcceptorError{Name: name})
}

// ErrUnknownConstructionHeuristic is returned when a config names a
// construction heuristic outside the closed enumeration.
var ErrUnknownConstructionHeuristic = errors.New("unknown construction heuristic")

// UnknownConstructionHeuristicError names the offending config value.
type UnknownConstructionHeuristicError struct {
	Name string
}

func (e *UnknownConstructionHeuristicError) Error() string {
	return fmt.Sprintf("unknown construction heuristic %q", e.Name)
}

func (e *UnknownConstructionHeuristicError) Unwrap() error {
	return ErrUnknownConstructionHeuristic
}

func unknownConstructionHeuristic(name string) error {
	return errors.WithStack(&UnknownConstructionHeuristicError{Name: name})
}
