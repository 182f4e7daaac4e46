package score

import (
	"fmt"
	"strconv"
	"strings"
)

// HardSoftScore is a two-level score: hard levels must be satisfied (or
// driven towards zero) before soft levels are considered at all — strictly
// lexicographic, hard before soft.
type HardSoftScore struct {
	Hard int64
	Soft int64
}

func NewHardSoftScore(hard, soft int64) HardSoftScore {
	return HardSoftScore{Hard: hard, Soft: soft}
}

func (s HardSoftScore) Kind() Kind { return KindHardSoft }

func (s HardSoftScore) Add(other Score) (Score, error) {
	o, ok := other.(HardSoftScore)
	if !ok {
		return nil, incompatible(s.Kind(), other.Kind())
	}
	hard, err := addLevel(s.Hard, o.Hard, "hard")
	if err != nil {
		return nil, err
	}
	soft, err := addLevel(s.Soft, o.Soft, "soft")
	if err != nil {
		return nil, err
	}
	return HardSoftScore{Hard: hard, Soft: soft}, nil
}

func (s HardSoftScore) Negate() (Score, error) {
	hard, err := negLevel(s.Hard, "hard")
	if err != nil {
		return nil, err
	}
	soft, err := negLevel(s.Soft, "soft")
	if err != nil {
		return nil, err
	}
	return HardSoftScore{Hard: hard, Soft: soft}, nil
}

func (s HardSoftScore) CompareTo(other Score) (int, error) {
	o, ok := other.(HardSoftScore)
	if !ok {
		return 0, incompatible(s.Kind(), other.Kind())
	}
	if c := compareInt64(s.Hard, o.Hard); c != 0 {
		return c, nil
	}
	return compareInt64(s.Soft, o.Soft), nil
}

func (s HardSoftScore) IsFeasible() bool { return s.Hard >= 0 }

func (s HardSoftScore) String() string {
	return fmt.Sprintf("%dhard/%dsoft", s.Hard, s.Soft)
}

// ParseHardSoftScore parses the grammar `<int>hard/<int>soft`.
func ParseHardSoftScore(str string) (HardSoftScore, error) {
	trimmed := strings.TrimSpace(str)
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 {
		return HardSoftScore{}, &ParseError{Reason: fmt.Sprintf("expected '<int>hard/<int>soft', got %q", str)}
	}
	hard, err := parseLevelSuffix(parts[0], "hard")
	if err != nil {
		return HardSoftScore{}, err
	}
	soft, err := parseLevelSuffix(parts[1], "soft")
	if err != nil {
		return HardSoftScore{}, err
	}
	return HardSoftScore{Hard: hard, Soft: soft}, nil
}

func parseLevelSuffix(component, suffix string) (int64, error) {
	if strings.ContainsAny(component, " \t") {
		return 0, &ParseError{Reason: fmt.Sprintf("unexpected whitespace inside component %q", component)}
	}
	if !strings.HasSuffix(component, suffix) {
		return 0, &ParseError{Reason: fmt.Sprintf("expected component %q to end with %q", component, suffix)}
	}
	numeric := strings.TrimSuffix(component, suffix)
	v, err := strconv.ParseInt(numeric, 10, 64)
	if err != nil {
		return 0, &ParseError{Reason: err.Error()}
	}
	return v, nil
}
