// Package score implements the score algebra described in SPEC_FULL.md §4.1:
// a family of commutative-group score kinds with total lexicographic order,
// a feasibility predicate, and a string grammar for parsing and formatting.
//
// Score kind is fixed per problem instance: callers pick one concrete type
// (SimpleScore, HardSoftScore, HardMediumSoftScore, BendableScore, or a
// decimal variant) and use it consistently for the lifetime of a solve.
package score

import "fmt"

// Kind identifies a score's algebra so mixed-kind arithmetic can be rejected
// before it produces a nonsensical result.
type Kind int

const (
	KindSimple Kind = iota
	KindHardSoft
	KindHardMediumSoft
	KindBendable
	KindSimpleDecimal
	KindHardSoftDecimal
)

func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "Simple"
	case KindHardSoft:
		return "HardSoft"
	case KindHardMediumSoft:
		return "HardMediumSoft"
	case KindBendable:
		return "Bendable"
	case KindSimpleDecimal:
		return "SimpleDecimal"
	case KindHardSoftDecimal:
		return "HardSoftDecimal"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Score is a point in one of the score algebras. Every level of every kind
// compares most-significant-first with ties falling through; addition is
// commutative and associative; negation is the group inverse.
//
// Implementations must be immutable: Add and Negate return new values.
type Score interface {
	// Kind reports which algebra this score belongs to.
	Kind() Kind

	// Add returns the sum of this score and other. Returns
	// IncompatibleScoreKindsError if other has a different Kind, or a
	// different bendable arity.
	Add(other Score) (Score, error)

	// Negate returns the additive inverse. Returns ScoreOverflowError if any
	// level's negation is not representable (the int64 MinInt64 case), the
	// same way Add reports overflow.
	Negate() (Score, error)

	// CompareTo returns -1, 0, or 1 as this score is less than, equal to,
	// or greater than other, comparing levels most-significant first.
	// Returns IncompatibleScoreKindsError for mismatched kinds/arities.
	CompareTo(other Score) (int, error)

	// IsFeasible reports whether every hard level is >= zero.
	IsFeasible() bool

	// String formats the score per the grammar in SPEC_FULL.md §6.
	String() string
}

// Equal reports whether a and b compare as equal. A kind mismatch is not
// equal (it never panics).
func Equal(a, b Score) bool {
	c, err := a.CompareTo(b)
	return err == nil && c == 0
}

// Zero returns the zero element for the same kind (and arity, for bendable
// scores) as the given score.
func Zero(like Score) Score {
	switch s := like.(type) {
	case SimpleScore:
		return SimpleScore(0)
	case HardSoftScore:
		return HardSoftScore{}
	case HardMediumSoftScore:
		return HardMediumSoftScore{}
	case BendableScore:
		return NewBendableScore(make([]int64, len(s.Hard)), make([]int64, len(s.Soft)))
	case SimpleDecimalScore:
		return NewSimpleDecimalScore(zeroDecimal, s.Scale)
	case HardSoftDecimalScore:
		return NewHardSoftDecimalScore(zeroDecimal, zeroDecimal, s.Scale)
	default:
		return nil
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
