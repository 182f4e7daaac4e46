package score

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrIncompatibleScoreKinds is returned by Add/CompareTo when the two
// operands do not belong to the same score algebra (or, for bendable
// scores, do not share the same hard/soft arity). It corresponds to the
// IncompatibleScoreKinds error kind in SPEC_FULL.md §7.
var ErrIncompatibleScoreKinds = errors.New("incompatible score kinds")

// ErrScoreOverflow is returned when an arithmetic operation would carry a
// level outside its representable range. Overflow is always surfaced as
// this error; it never wraps silently. Corresponds to the ScoreOverflow
// error kind.
var ErrScoreOverflow = errors.New("score overflow")

// IncompatibleScoreKindsError carries the two offending kinds for
// diagnostics while still satisfying errors.Is(err, ErrIncompatibleScoreKinds).
type IncompatibleScoreKindsError struct {
	Left, Right Kind
}

func (e *IncompatibleScoreKindsError) Error() string {
	return fmt.Sprintf("incompatible score kinds: %s vs %s", e.Left, e.Right)
}

func (e *IncompatibleScoreKindsError) Unwrap() error { return ErrIncompatibleScoreKinds }

func incompatible(left, right Kind) error {
	return errors.WithStack(&IncompatibleScoreKindsError{Left: left, Right: right})
}

// ScoreOverflowError names the level that overflowed.
type ScoreOverflowError struct {
	Level string
}

func (e *ScoreOverflowError) Error() string {
	return fmt.Sprintf("score overflow at level %q", e.Level)
}

func (e *ScoreOverflowError) Unwrap() error { return ErrScoreOverflow }

func overflow(level string) error {
	return errors.WithStack(&ScoreOverflowError{Level: level})
}

// ParseError reports a failure parsing a score string. The score parsers
// fill only Reason; Line and Column are left at 0.
type ParseError struct {
	Line   int
	Column int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Reason)
}
