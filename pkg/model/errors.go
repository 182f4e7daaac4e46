package model

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel error kinds for setup-time descriptor mismatches (spec §7).
// These surface from Descriptor lookups (ClassIndex, VariableIndex,
// ValueRange, Validate) and from WorkingSolution writes, which the
// director's SetVariable/SetListVariable return unchanged; the director
// never catches them. director.Director.TakeWorkingSolution performs no
// descriptor checks and returns no error.
var (
	ErrUnknownClass      = errors.New("unknown class")
	ErrUnknownVariable   = errors.New("unknown variable")
	ErrUnknownValueRange = errors.New("unknown value range")
	ErrValueOutOfRange   = errors.New("value out of range")
	ErrEntityPinned      = errors.New("entity is pinned")
)

// UnknownClassError names the offending class.
type UnknownClassError struct{ Class string }

func (e *UnknownClassError) Error() string   { return fmt.Sprintf("unknown class %q", e.Class) }
func (e *UnknownClassError) Unwrap() error   { return ErrUnknownClass }
func newUnknownClass(class string) error     { return errors.WithStack(&UnknownClassError{Class: class}) }

// UnknownVariableError names the offending class and variable.
type UnknownVariableError struct {
	Class, Variable string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q on class %q", e.Variable, e.Class)
}
func (e *UnknownVariableError) Unwrap() error { return ErrUnknownVariable }
func newUnknownVariable(class, variable string) error {
	return errors.WithStack(&UnknownVariableError{Class: class, Variable: variable})
}

// UnknownValueRangeError names the offending range.
type UnknownValueRangeError struct{ Range string }

func (e *UnknownValueRangeError) Error() string {
	return fmt.Sprintf("unknown value range %q", e.Range)
}
func (e *UnknownValueRangeError) Unwrap() error { return ErrUnknownValueRange }
func newUnknownValueRange(r string) error       { return errors.WithStack(&UnknownValueRangeError{Range: r}) }

// ValueOutOfRangeError names the offending assignment.
type ValueOutOfRangeError struct {
	Variable string
	Value    int
}

func (e *ValueOutOfRangeError) Error() string {
	return fmt.Sprintf("value %d is out of range for variable %q", e.Value, e.Variable)
}
func (e *ValueOutOfRangeError) Unwrap() error { return ErrValueOutOfRange }
func newValueOutOfRange(variable string, value int) error {
	return errors.WithStack(&ValueOutOfRangeError{Variable: variable, Value: value})
}

// EntityPinnedError names the pinned location a write was attempted on.
type EntityPinnedError struct {
	ClassIdx, Pos int
}

func (e *EntityPinnedError) Error() string {
	return fmt.Sprintf("entity at class %d pos %d is pinned", e.ClassIdx, e.Pos)
}
func (e *EntityPinnedError) Unwrap() error { return ErrEntityPinned }
func newEntityPinned(classIdx, pos int) error {
	return errors.WithStack(&EntityPinnedError{ClassIdx: classIdx, Pos: pos})
}
