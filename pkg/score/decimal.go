package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var zeroDecimal = decimal.Zero

// DecimalFromFloat64 converts a weight function's float64 result into a
// decimal.Decimal, rejecting non-finite input. Per SPEC_FULL.md §9 (open
// question b), a non-finite weight is a ScoreOverflow, not a silently
// truncated or NaN-propagating value.
func DecimalFromFloat64(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, overflow("weight")
	}
	return decimal.NewFromFloat(f), nil
}

// SimpleDecimalScore is a single-level fixed-point score. Scale is the
// caller-chosen number of digits after the decimal point; it is part of the
// score's identity the same way bendable arity is — combining or comparing
// two decimal scores of differing scale returns IncompatibleScoreKindsError
// rather than rounding either one.
type SimpleDecimalScore struct {
	Value decimal.Decimal
	Scale int32
}

func NewSimpleDecimalScore(v decimal.Decimal, scale int32) SimpleDecimalScore {
	return SimpleDecimalScore{Value: v.Round(scale), Scale: scale}
}

func (s SimpleDecimalScore) Kind() Kind { return KindSimpleDecimal }

func (s SimpleDecimalScore) Add(other Score) (Score, error) {
	o, ok := other.(SimpleDecimalScore)
	if !ok || o.Scale != s.Scale {
		return nil, incompatible(s.Kind(), other.Kind())
	}
	return SimpleDecimalScore{Value: s.Value.Add(o.Value).Round(s.Scale), Scale: s.Scale}, nil
}

func (s SimpleDecimalScore) Negate() (Score, error) {
	return SimpleDecimalScore{Value: s.Value.Neg(), Scale: s.Scale}, nil
}

func (s SimpleDecimalScore) CompareTo(other Score) (int, error) {
	o, ok := other.(SimpleDecimalScore)
	if !ok || o.Scale != s.Scale {
		return 0, incompatible(s.Kind(), other.Kind())
	}
	return s.Value.Cmp(o.Value), nil
}

func (s SimpleDecimalScore) IsFeasible() bool { return true }

func (s SimpleDecimalScore) String() string {
	return s.Value.StringFixed(s.Scale)
}

// ParseSimpleDecimalScore parses a plain fixed-point literal at the given
// scale (SPEC_FULL.md §6).
func ParseSimpleDecimalScore(str string, scale int32) (SimpleDecimalScore, error) {
	trimmed := strings.TrimSpace(str)
	if strings.ContainsAny(trimmed, " \t") {
		return SimpleDecimalScore{}, &ParseError{Reason: fmt.Sprintf("unexpected whitespace inside score %q", str)}
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return SimpleDecimalScore{}, &ParseError{Reason: err.Error()}
	}
	return NewSimpleDecimalScore(d, scale), nil
}

// HardSoftDecimalScore is the decimal-precision variant of HardSoftScore.
type HardSoftDecimalScore struct {
	Hard  decimal.Decimal
	Soft  decimal.Decimal
	Scale int32
}

func NewHardSoftDecimalScore(hard, soft decimal.Decimal, scale int32) HardSoftDecimalScore {
	return HardSoftDecimalScore{Hard: hard.Round(scale), Soft: soft.Round(scale), Scale: scale}
}

func (s HardSoftDecimalScore) Kind() Kind { return KindHardSoftDecimal }

func (s HardSoftDecimalScore) Add(other Score) (Score, error) {
	o, ok := other.(HardSoftDecimalScore)
	if !ok || o.Scale != s.Scale {
		return nil, incompatible(s.Kind(), other.Kind())
	}
	return HardSoftDecimalScore{
		Hard:  s.Hard.Add(o.Hard).Round(s.Scale),
		Soft:  s.Soft.Add(o.Soft).Round(s.Scale),
		Scale: s.Scale,
	}, nil
}

func (s HardSoftDecimalScore) Negate() (Score, error) {
	return HardSoftDecimalScore{Hard: s.Hard.Neg(), Soft: s.Soft.Neg(), Scale: s.Scale}, nil
}

func (s HardSoftDecimalScore) CompareTo(other Score) (int, error) {
	o, ok := other.(HardSoftDecimalScore)
	if !ok || o.Scale != s.Scale {
		return 0, incompatible(s.Kind(), other.Kind())
	}
	if c := s.Hard.Cmp(o.Hard); c != 0 {
		return c, nil
	}
	return s.Soft.Cmp(o.Soft), nil
}

func (s HardSoftDecimalScore) IsFeasible() bool { return s.Hard.Sign() >= 0 }

func (s HardSoftDecimalScore) String() string {
	return fmt.Sprintf("%shard/%ssoft", s.Hard.StringFixed(s.Scale), s.Soft.StringFixed(s.Scale))
}

// ParseHardSoftDecimalScore parses `<decimal>hard/<decimal>soft` at the
// given scale. Decimal variants "use plain fixed-point literals" per
// SPEC_FULL.md §6.
func ParseHardSoftDecimalScore(str string, scale int32) (HardSoftDecimalScore, error) {
	parts := strings.Split(strings.TrimSpace(str), "/")
	if len(parts) != 2 {
		return HardSoftDecimalScore{}, &ParseError{Reason: fmt.Sprintf("expected '<decimal>hard/<decimal>soft', got %q", str)}
	}
	hard, err := parseDecimalSuffix(parts[0], "hard")
	if err != nil {
		return HardSoftDecimalScore{}, err
	}
	soft, err := parseDecimalSuffix(parts[1], "soft")
	if err != nil {
		return HardSoftDecimalScore{}, err
	}
	return NewHardSoftDecimalScore(hard, soft, scale), nil
}

func parseDecimalSuffix(component, suffix string) (decimal.Decimal, error) {
	if strings.ContainsAny(component, " \t") {
		return decimal.Zero, &ParseError{Reason: fmt.Sprintf("unexpected whitespace inside component %q", component)}
	}
	if !strings.HasSuffix(component, suffix) {
		return decimal.Zero, &ParseError{Reason: fmt.Sprintf("expected component %q to end with %q", component, suffix)}
	}
	numeric := strings.TrimSuffix(component, suffix)
	d, err := decimal.NewFromString(numeric)
	if err != nil {
		return decimal.Zero, &ParseError{Reason: err.Error()}
	}
	return d, nil
}
