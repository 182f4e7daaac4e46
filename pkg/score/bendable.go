package score

import (
	"fmt"
	"strconv"
	"strings"
)

// BendableScore is a configurable fixed vector of hard levels and soft
// levels, compared lexicographically across all hard levels then all soft
// levels. The arity (len(Hard), len(Soft)) is part of the score's identity:
// two bendable scores of differing arity are incomparable.
type BendableScore struct {
	Hard []int64
	Soft []int64
}

// NewBendableScore copies the given level slices into a new score.
func NewBendableScore(hard, soft []int64) BendableScore {
	h := append([]int64(nil), hard...)
	s := append([]int64(nil), soft...)
	return BendableScore{Hard: h, Soft: s}
}

func (s BendableScore) Kind() Kind { return KindBendable }

func (s BendableScore) sameArity(o BendableScore) bool {
	return len(s.Hard) == len(o.Hard) && len(s.Soft) == len(o.Soft)
}

func (s BendableScore) Add(other Score) (Score, error) {
	o, ok := other.(BendableScore)
	if !ok || !s.sameArity(o) {
		return nil, incompatible(s.Kind(), other.Kind())
	}
	hard := make([]int64, len(s.Hard))
	for i := range hard {
		v, err := addLevel(s.Hard[i], o.Hard[i], fmt.Sprintf("hard[%d]", i))
		if err != nil {
			return nil, err
		}
		hard[i] = v
	}
	soft := make([]int64, len(s.Soft))
	for i := range soft {
		v, err := addLevel(s.Soft[i], o.Soft[i], fmt.Sprintf("soft[%d]", i))
		if err != nil {
			return nil, err
		}
		soft[i] = v
	}
	return BendableScore{Hard: hard, Soft: soft}, nil
}

func (s BendableScore) Negate() (Score, error) {
	hard := make([]int64, len(s.Hard))
	for i, v := range s.Hard {
		n, err := negLevel(v, fmt.Sprintf("hard[%d]", i))
		if err != nil {
			return nil, err
		}
		hard[i] = n
	}
	soft := make([]int64, len(s.Soft))
	for i, v := range s.Soft {
		n, err := negLevel(v, fmt.Sprintf("soft[%d]", i))
		if err != nil {
			return nil, err
		}
		soft[i] = n
	}
	return BendableScore{Hard: hard, Soft: soft}, nil
}

func (s BendableScore) CompareTo(other Score) (int, error) {
	o, ok := other.(BendableScore)
	if !ok || !s.sameArity(o) {
		return 0, incompatible(s.Kind(), other.Kind())
	}
	for i := range s.Hard {
		if c := compareInt64(s.Hard[i], o.Hard[i]); c != 0 {
			return c, nil
		}
	}
	for i := range s.Soft {
		if c := compareInt64(s.Soft[i], o.Soft[i]); c != 0 {
			return c, nil
		}
	}
	return 0, nil
}

func (s BendableScore) IsFeasible() bool {
	for _, h := range s.Hard {
		if h < 0 {
			return false
		}
	}
	return true
}

func (s BendableScore) String() string {
	return fmt.Sprintf("%shard/%ssoft", formatLevels(s.Hard), formatLevels(s.Soft))
}

func formatLevels(levels []int64) string {
	parts := make([]string, len(levels))
	for i, v := range levels {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// ParseBendableScore parses `[<int>,...]hard/[<int>,...]soft`.
func ParseBendableScore(str string) (BendableScore, error) {
	parts := strings.Split(strings.TrimSpace(str), "/")
	if len(parts) != 2 {
		return BendableScore{}, &ParseError{Reason: fmt.Sprintf("expected '[...]hard/[...]soft', got %q", str)}
	}
	hard, err := parseLevelVector(parts[0], "hard")
	if err != nil {
		return BendableScore{}, err
	}
	soft, err := parseLevelVector(parts[1], "soft")
	if err != nil {
		return BendableScore{}, err
	}
	return BendableScore{Hard: hard, Soft: soft}, nil
}

func parseLevelVector(component, suffix string) ([]int64, error) {
	if !strings.HasSuffix(component, suffix) {
		return nil, &ParseError{Reason: fmt.Sprintf("expected component %q to end with %q", component, suffix)}
	}
	vector := strings.TrimSuffix(component, suffix)
	if !strings.HasPrefix(vector, "[") || !strings.HasSuffix(vector, "]") {
		return nil, &ParseError{Reason: fmt.Sprintf("expected bracketed vector, got %q", vector)}
	}
	inner := vector[1 : len(vector)-1]
	if inner == "" {
		return []int64{}, nil
	}
	fields := strings.Split(inner, ",")
	levels := make([]int64, len(fields))
	for i, f := range fields {
		if strings.ContainsAny(f, " \t") {
			return nil, &ParseError{Reason: fmt.Sprintf("unexpected whitespace inside vector element %q", f)}
		}
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, &ParseError{Reason: err.Error()}
		}
		levels[i] = v
	}
	return levels, nil
}
