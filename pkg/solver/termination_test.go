package solver

import (
	"testing"
	"time"

	"github.com/solverforge/solverforge/pkg/score"
	"github.com/stretchr/testify/assert"
)

func TestSecondsSpentLimit(t *testing.T) {
	start := time.Now()
	term := SecondsSpentLimit(time.Second)
	assert.False(t, term.ShouldTerminate(SolveState{StartedAt: start, Now: start}))
	assert.True(t, term.ShouldTerminate(SolveState{StartedAt: start, Now: start.Add(2 * time.Second)}))
}

func TestStepCountLimit(t *testing.T) {
	term := StepCountLimit(10)
	assert.False(t, term.ShouldTerminate(SolveState{StepCount: 9}))
	assert.True(t, term.ShouldTerminate(SolveState{StepCount: 10}))
}

func TestUnimprovedStepCountLimit(t *testing.T) {
	term := UnimprovedStepCountLimit(5)
	assert.False(t, term.ShouldTerminate(SolveState{StepCount: 4, LastImprovedAtStep: 0}))
	assert.True(t, term.ShouldTerminate(SolveState{StepCount: 5, LastImprovedAtStep: 0}))
}

func TestBestScoreLimit(t *testing.T) {
	term := BestScoreLimit(score.HardSoftScore{Hard: 0, Soft: -10})
	assert.False(t, term.ShouldTerminate(SolveState{BestScore: score.HardSoftScore{Hard: -1, Soft: 0}}))
	assert.True(t, term.ShouldTerminate(SolveState{BestScore: score.HardSoftScore{Hard: 0, Soft: -5}}))
}

func TestDiminishedReturns(t *testing.T) {
	d := &DiminishedReturns{
		Window:   3,
		MinDelta: 1,
		ScoreAsFloat: func(s score.Score) float64 {
			return float64(s.(score.HardSoftScore).Soft)
		},
	}
	scores := []int64{-100, -90, -85, -84, -84, -84, -84}
	var terminated bool
	for _, soft := range scores {
		terminated = d.ShouldTerminate(SolveState{BestScore: score.HardSoftScore{Soft: soft}})
	}
	assert.True(t, terminated, "flat tail should trigger diminished returns")
}

func TestAnyOfTerminatesOnFirstTrue(t *testing.T) {
	term := AnyOf(StepCountLimit(100), SecondsSpentLimit(0))
	assert.True(t, term.ShouldTerminate(SolveState{Now: time.Now(), StartedAt: time.Now().Add(-time.Millisecond)}))
}

func TestAnyOfIgnoresNilEntries(t *testing.T) {
	term := AnyOf(nil, StepCountLimit(5))
	assert.False(t, term.ShouldTerminate(SolveState{StepCount: 1}))
	assert.True(t, term.ShouldTerminate(SolveState{StepCount: 5}))
}

func TestCancelFlag(t *testing.T) {
	var c CancelFlag
	assert.False(t, c.ShouldTerminate(SolveState{}))
	c.Cancel()
	assert.True(t, c.ShouldTerminate(SolveState{}))
}
