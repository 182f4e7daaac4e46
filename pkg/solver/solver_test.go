package solver

import (
	"context"
	"testing"
	"time"

	"github.com/solverforge/solverforge/pkg/director"
	"github.com/solverforge/solverforge/pkg/model"
	"github.com/solverforge/solverforge/pkg/score"
	"github.com/solverforge/solverforge/pkg/serio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queen mirrors pkg/director's own fixture: four queens, one basic "row"
// variable each, one row_conflict constraint penalizing same-row pairs.
type queen struct {
	id  int
	row int
}

func queenDescriptor(n int) *model.Descriptor {
	d := model.NewDescriptor()
	d.AddValueRange(model.NewIntervalValueRange("row", 0, n-1))
	d.AddClass(model.ClassDescriptor{
		Name: "Queen",
		Variables: []model.VariableDescriptor{{
			Name:           "row",
			Kind:           model.Basic,
			ValueRangeName: "row",
			Get:            func(e any) int { return e.(*queen).row },
			Set:            func(e any, v int) { e.(*queen).row = v },
		}},
		IDOf: func(e any) any { return e.(*queen).id },
	})
	return d
}

func buildQueensNetwork(desc *model.Descriptor) *serio.Network {
	net := serio.NewNetwork(desc, score.HardSoftScore{})
	left := net.ForEach(0)
	right := net.ForEach(0)
	pairs := left.Join(right,
		func(t serio.Tuple) serio.Key { return serio.NewKey(struct{}{}) },
		func(t serio.Tuple) serio.Key { return serio.NewKey(struct{}{}) },
	).Filter(func(t serio.Tuple) bool {
		return t[0].Entity.(*queen).id < t[1].Entity.(*queen).id
	}).Filter(func(t serio.Tuple) bool {
		return t[0].Entity.(*queen).row == t[1].Entity.(*queen).row
	})
	_, err := pairs.Penalize("row_conflict", func(serio.Tuple) (score.Score, error) {
		return score.HardSoftScore{Hard: 1}, nil
	}, nil)
	if err != nil {
		panic(err)
	}
	return net
}

func setupQueensDirector(t *testing.T, n int) (*director.Director, []*queen) {
	t.Helper()
	desc := queenDescriptor(n)
	queens := make([]*queen, n)
	entities := make([]any, n)
	for i := range queens {
		queens[i] = &queen{id: i, row: 0}
		entities[i] = queens[i]
	}
	ws := model.NewWorkingSolution(desc, [][]any{entities})
	net := buildQueensNetwork(desc)
	d, err := director.New(ws, net)
	require.NoError(t, err)
	d.TakeWorkingSolution()
	return d, queens
}

// rowCycleSelector is a tiny finite move selector: it walks every queen
// through every row value once, in order, then reports it has nothing left.
type rowCycleSelector struct {
	n        int
	nextPos  int
	nextVal  int
}

func (s *rowCycleSelector) NextMove(ws *model.WorkingSolution) Move {
	if s.nextPos >= ws.EntityCount(0) {
		return nil
	}
	pos, val := s.nextPos, s.nextVal
	s.nextVal++
	if s.nextVal >= s.n {
		s.nextVal = 0
		s.nextPos++
	}
	return func(d *director.Director) error {
		loc := model.Location{ClassIdx: 0, Pos: pos}
		return d.SetVariable(loc, 0, val)
	}
}

func TestFirstFitConstructorReachesFeasible(t *testing.T) {
	d, _ := setupQueensDirector(t, 4)
	tel := newTelemetryAccumulator()
	constructor := FirstFitConstructor{
		ClassIdx: 0,
		VarIdx:   0,
		Values:   func() []int { return []int{0, 1, 2, 3} },
	}
	require.NoError(t, constructor.Run(context.Background(), d, nil, tel, nil))

	s, err := d.CalculateScore()
	require.NoError(t, err)
	assert.True(t, s.IsFeasible())
}

func TestLocalSearchPhaseImprovesScore(t *testing.T) {
	d, _ := setupQueensDirector(t, 4)
	tel := newTelemetryAccumulator()
	phase := LocalSearchPhase{
		Selector: &rowCycleSelector{n: 4},
		Acceptor: HillClimbingAcceptor{},
	}
	var improvements []score.Score
	require.NoError(t, phase.Run(context.Background(), d, nil, tel, func(s score.Score) {
		improvements = append(improvements, s)
	}))

	final, err := d.CalculateScore()
	require.NoError(t, err)
	initial := score.HardSoftScore{Hard: -6}
	cmp, err := final.CompareTo(initial)
	require.NoError(t, err)
	assert.True(t, cmp >= 0, "local search must not leave the score worse than the start")

	// Every emitted improvement must be strictly better than the one
	// before it (spec §5 ordering guarantee 1).
	for i := 1; i < len(improvements); i++ {
		c, err := improvements[i].CompareTo(improvements[i-1])
		require.NoError(t, err)
		assert.True(t, c > 0)
	}
}

func TestLocalSearchPhaseRespectsStepCountTermination(t *testing.T) {
	d, _ := setupQueensDirector(t, 4)
	tel := newTelemetryAccumulator()
	phase := LocalSearchPhase{
		Selector: &rowCycleSelector{n: 4},
		Acceptor: HillClimbingAcceptor{},
	}
	require.NoError(t, phase.Run(context.Background(), d, StepCountLimit(2), tel, nil))
	assert.Equal(t, int64(2), tel.totalMoves)
}

func TestSolverManagerSubmitAndPoll(t *testing.T) {
	d, _ := setupQueensDirector(t, 4)
	m := NewSolverManager()
	constructor := FirstFitConstructor{
		ClassIdx: 0,
		VarIdx:   0,
		Values:   func() []int { return []int{0, 1, 2, 3} },
	}
	id := m.Submit(d, []Phase{constructor}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	result, err := m.Result(ctx, id)
	require.NoError(t, err)
	assert.True(t, result.Feasible)
	assert.False(t, result.Cancelled)
}

func TestSolverManagerCancel(t *testing.T) {
	d, _ := setupQueensDirector(t, 4)
	m := NewSolverManager()
	phase := LocalSearchPhase{
		Selector: &rowCycleSelector{n: 4},
		Acceptor: HillClimbingAcceptor{},
	}
	id := m.Submit(d, []Phase{phase}, nil)
	m.Cancel(id)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	result, err := m.Result(ctx, id)
	require.NoError(t, err)
	assert.True(t, result.Cancelled)
}

func TestSolverManagerUnknownJob(t *testing.T) {
	m := NewSolverManager()
	_, _, err := m.Poll([16]byte{})
	require.Error(t, err)
}
