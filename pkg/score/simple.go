package score

import (
	"fmt"
	"strconv"
	"strings"
)

// SimpleScore is a single-level integer score.
type SimpleScore int64

func (s SimpleScore) Kind() Kind { return KindSimple }

func (s SimpleScore) Add(other Score) (Score, error) {
	o, ok := other.(SimpleScore)
	if !ok {
		return nil, incompatible(s.Kind(), other.Kind())
	}
	v, err := addLevel(int64(s), int64(o), "score")
	if err != nil {
		return nil, err
	}
	return SimpleScore(v), nil
}

func (s SimpleScore) Negate() (Score, error) {
	v, err := negLevel(int64(s), "score")
	if err != nil {
		return nil, err
	}
	return SimpleScore(v), nil
}

func (s SimpleScore) CompareTo(other Score) (int, error) {
	o, ok := other.(SimpleScore)
	if !ok {
		return 0, incompatible(s.Kind(), other.Kind())
	}
	return compareInt64(int64(s), int64(o)), nil
}

func (s SimpleScore) IsFeasible() bool { return true }

func (s SimpleScore) String() string { return strconv.FormatInt(int64(s), 10) }

// ParseSimpleScore parses the grammar `<int>`.
func ParseSimpleScore(str string) (SimpleScore, error) {
	trimmed := strings.TrimSpace(str)
	if trimmed != str && strings.TrimSpace(trimmed) == "" {
		return 0, &ParseError{Reason: "empty score"}
	}
	if strings.ContainsAny(trimmed, " \t") {
		return 0, &ParseError{Reason: fmt.Sprintf("unexpected whitespace inside score %q", str)}
	}
	v, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, &ParseError{Reason: err.Error()}
	}
	return SimpleScore(v), nil
}
