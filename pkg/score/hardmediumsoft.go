package score

import (
	"fmt"
	"strings"
)

// HardMediumSoftScore is a three-level score: hard, then medium, then soft,
// strictly lexicographic.
type HardMediumSoftScore struct {
	Hard   int64
	Medium int64
	Soft   int64
}

func NewHardMediumSoftScore(hard, medium, soft int64) HardMediumSoftScore {
	return HardMediumSoftScore{Hard: hard, Medium: medium, Soft: soft}
}

func (s HardMediumSoftScore) Kind() Kind { return KindHardMediumSoft }

func (s HardMediumSoftScore) Add(other Score) (Score, error) {
	o, ok := other.(HardMediumSoftScore)
	if !ok {
		return nil, incompatible(s.Kind(), other.Kind())
	}
	hard, err := addLevel(s.Hard, o.Hard, "hard")
	if err != nil {
		return nil, err
	}
	medium, err := addLevel(s.Medium, o.Medium, "medium")
	if err != nil {
		return nil, err
	}
	soft, err := addLevel(s.Soft, o.Soft, "soft")
	if err != nil {
		return nil, err
	}
	return HardMediumSoftScore{Hard: hard, Medium: medium, Soft: soft}, nil
}

func (s HardMediumSoftScore) Negate() (Score, error) {
	hard, err := negLevel(s.Hard, "hard")
	if err != nil {
		return nil, err
	}
	medium, err := negLevel(s.Medium, "medium")
	if err != nil {
		return nil, err
	}
	soft, err := negLevel(s.Soft, "soft")
	if err != nil {
		return nil, err
	}
	return HardMediumSoftScore{Hard: hard, Medium: medium, Soft: soft}, nil
}

func (s HardMediumSoftScore) CompareTo(other Score) (int, error) {
	o, ok := other.(HardMediumSoftScore)
	if !ok {
		return 0, incompatible(s.Kind(), other.Kind())
	}
	if c := compareInt64(s.Hard, o.Hard); c != 0 {
		return c, nil
	}
	if c := compareInt64(s.Medium, o.Medium); c != 0 {
		return c, nil
	}
	return compareInt64(s.Soft, o.Soft), nil
}

func (s HardMediumSoftScore) IsFeasible() bool { return s.Hard >= 0 }

func (s HardMediumSoftScore) String() string {
	return fmt.Sprintf("%dhard/%dmedium/%dsoft", s.Hard, s.Medium, s.Soft)
}

// ParseHardMediumSoftScore parses `<int>hard/<int>medium/<int>soft`.
func ParseHardMediumSoftScore(str string) (HardMediumSoftScore, error) {
	parts := strings.Split(strings.TrimSpace(str), "/")
	if len(parts) != 3 {
		return HardMediumSoftScore{}, &ParseError{Reason: fmt.Sprintf("expected '<int>hard/<int>medium/<int>soft', got %q", str)}
	}
	hard, err := parseLevelSuffix(parts[0], "hard")
	if err != nil {
		return HardMediumSoftScore{}, err
	}
	medium, err := parseLevelSuffix(parts[1], "medium")
	if err != nil {
		return HardMediumSoftScore{}, err
	}
	soft, err := parseLevelSuffix(parts[2], "soft")
	if err != nil {
		return HardMediumSoftScore{}, err
	}
	return HardMediumSoftScore{Hard: hard, Medium: medium, Soft: soft}, nil
}
