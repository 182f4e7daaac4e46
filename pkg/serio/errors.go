package serio

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrDuplicateConstraint is returned by ConstraintSet.Add when a constraint
// name collides with one already registered. SPEC_FULL.md §4.4 requires
// constraint names to be unique per builder so a solution's constraint
// breakdown is unambiguous.
var ErrDuplicateConstraint = errors.New("duplicate constraint name")

// DuplicateConstraintError names the offending constraint.
type DuplicateConstraintError struct {
	Name string
}

func (e *DuplicateConstraintError) Error() string {
	return fmt.Sprintf("duplicate constraint name %q", e.Name)
}

func (e *DuplicateConstraintError) Unwrap() error { return ErrDuplicateConstraint }

func duplicateConstraint(name string) error {
	return errors.WithStack(&DuplicateConstraintError{Name: name})
}
