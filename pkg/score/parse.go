package score

import "fmt"

// Parse dispatches to the grammar for the given kind. For bendable scores
// the caller need not supply the arity: it is encoded in the string itself,
// via vector length, so Parse infers it. For decimal kinds the caller
// supplies scale.
func Parse(kind Kind, str string, scale int32) (Score, error) {
	switch kind {
	case KindSimple:
		return ParseSimpleScore(str)
	case KindHardSoft:
		return ParseHardSoftScore(str)
	case KindHardMediumSoft:
		return ParseHardMediumSoftScore(str)
	case KindBendable:
		return ParseBendableScore(str)
	case KindSimpleDecimal:
		return ParseSimpleDecimalScore(str, scale)
	case KindHardSoftDecimal:
		return ParseHardSoftDecimalScore(str, scale)
	default:
		return nil, &ParseError{Reason: fmt.Sprintf("unsupported score kind for parsing: %s", kind)}
	}
}
