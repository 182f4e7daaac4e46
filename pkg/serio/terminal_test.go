package serio

import (
	"testing"

	"github.com/solverforge/solverforge/pkg/model"
	"github.com/solverforge/solverforge/pkg/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPenalizeAccumulatesAndRetracts(t *testing.T) {
	src := NewForEachNode(0)
	node := Penalize(src, score.HardSoftScore{}, func(t Tuple) (score.Score, error) {
		return score.HardSoftScore{Hard: 1}, nil
	}, nil, func(err error) { t.Fatalf("unexpected error: %v", err) })

	src.Insert("e1", model.Location{}, struct{}{})
	hs := node.Score().(score.HardSoftScore)
	assert.Equal(t, int64(-1), hs.Hard)

	src.Insert("e2", model.Location{}, struct{}{})
	hs = node.Score().(score.HardSoftScore)
	assert.Equal(t, int64(-2), hs.Hard)

	src.Retract("e1", model.Location{}, struct{}{})
	hs = node.Score().(score.HardSoftScore)
	assert.Equal(t, int64(-1), hs.Hard)
}

func TestRewardAddsPositively(t *testing.T) {
	src := NewForEachNode(0)
	node := Reward(src, score.HardSoftScore{}, func(t Tuple) (score.Score, error) {
		return score.HardSoftScore{Soft: 3}, nil
	}, nil, nil)

	src.Insert("e1", model.Location{}, struct{}{})
	hs := node.Score().(score.HardSoftScore)
	assert.Equal(t, int64(3), hs.Soft)
}

func TestConstraintSetRejectsDuplicateNames(t *testing.T) {
	src := NewForEachNode(0)
	set := NewConstraintSet(score.HardSoftScore{})
	node1 := Penalize(src, score.HardSoftScore{}, func(Tuple) (score.Score, error) { return score.HardSoftScore{Hard: 1}, nil }, nil, nil)
	_, err := set.Add("no_conflict", node1)
	require.NoError(t, err)

	node2 := Penalize(src, score.HardSoftScore{}, func(Tuple) (score.Score, error) { return score.HardSoftScore{Hard: 1}, nil }, nil, nil)
	_, err = set.Add("no_conflict", node2)
	require.Error(t, err)
}

func TestConstraintSetTotalScoreSumsContributions(t *testing.T) {
	srcA := NewForEachNode(0)
	srcB := NewForEachNode(1)
	set := NewConstraintSet(score.HardSoftScore{})

	nodeA := Penalize(srcA, score.HardSoftScore{}, func(Tuple) (score.Score, error) { return score.HardSoftScore{Hard: 1}, nil }, nil, nil)
	_, err := set.Add("constraintA", nodeA)
	require.NoError(t, err)

	nodeB := Reward(srcB, score.HardSoftScore{}, func(Tuple) (score.Score, error) { return score.HardSoftScore{Soft: 5}, nil }, nil, nil)
	_, err = set.Add("constraintB", nodeB)
	require.NoError(t, err)

	srcA.Insert("a1", model.Location{}, struct{}{})
	srcA.Insert("a2", model.Location{}, struct{}{})
	srcB.Insert("b1", model.Location{}, struct{}{})

	total, err := set.TotalScore()
	require.NoError(t, err)
	hs := total.(score.HardSoftScore)
	assert.Equal(t, int64(-2), hs.Hard)
	assert.Equal(t, int64(5), hs.Soft)
}
