package director

import (
	"context"
	"testing"

	"github.com/solverforge/solverforge/pkg/model"
	"github.com/solverforge/solverforge/pkg/score"
	"github.com/solverforge/solverforge/pkg/serio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queen struct {
	id  int
	row int
	col int
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

// buildNQueensNetwork wires the row_conflict constraint from spec §8
// scenario 1: every unordered pair of queens on the same row is penalized
// one hard point.
func buildNQueensNetwork(desc *model.Descriptor) *serio.Network {
	net := serio.NewNetwork(desc, score.HardSoftScore{})
	left := net.ForEach(0)
	right := net.ForEach(0)
	pairs := left.Join(right,
		func(t serio.Tuple) serio.Key { return serio.NewKey(struct{}{}) },
		func(t serio.Tuple) serio.Key { return serio.NewKey(struct{}{}) },
	).Filter(func(t serio.Tuple) bool {
		a, b := t[0].Entity.(*queen), t[1].Entity.(*queen)
		return a.id < b.id
	})
	sameRow := pairs.Filter(func(t serio.Tuple) bool {
		a, b := t[0].Entity.(*queen), t[1].Entity.(*queen)
		return a.row == b.row
	})
	_, err := sameRow.Penalize("row_conflict", func(serio.Tuple) (score.Score, error) {
		return score.HardSoftScore{Hard: 1}, nil
	}, nil)
	if err != nil {
		panic(err)
	}
	return net
}

func setupFourQueens(t *testing.T) (*Director, []*queen) {
	t.Helper()
	desc := queenDescriptor(4)
	queens := []*queen{{id: 0, row: 0}, {id: 1, row: 0}, {id: 2, row: 0}, {id: 3, row: 0}}
	entities := make([]any, len(queens))
	for i, q := range queens {
		entities[i] = q
	}
	ws := model.NewWorkingSolution(desc, [][]any{entities})
	net := buildNQueensNetwork(desc)
	d, err := New(ws, net)
	require.NoError(t, err)
	d.TakeWorkingSolution()
	return d, queens
}

func TestDirectorInitialScoreAllSameRow(t *testing.T) {
	d, _ := setupFourQueens(t)
	s, err := d.CalculateScore()
	require.NoError(t, err)
	hs := s.(score.HardSoftScore)
	// C(4,2) = 6 conflicting pairs, one hard point each.
	assert.Equal(t, int64(-6), hs.Hard)
}

func TestDirectorSetVariableUpdatesScoreIncrementally(t *testing.T) {
	d, _ := setupFourQueens(t)
	ws := d.WorkingSolution()

	loc, ok := ws.Locate(0)
	require.True(t, ok)
	require.NoError(t, d.SetVariable(loc, 0, 1))

	s, err := d.CalculateScore()
	require.NoError(t, err)
	hs := s.(score.HardSoftScore)
	// Queen 0 moved off row 0: 3 remaining same-row pairs among {1,2,3}.
	assert.Equal(t, int64(-3), hs.Hard)
}

func TestDirectorUndoRestoresExactScore(t *testing.T) {
	d, _ := setupFourQueens(t)
	ws := d.WorkingSolution()
	before, err := d.CalculateScore()
	require.NoError(t, err)

	loc, _ := ws.Locate(1)
	checkpoint := d.Checkpoint()
	require.NoError(t, d.SetVariable(loc, 0, 2))
	require.NoError(t, d.UndoTo(checkpoint))

	after, err := d.CalculateScore()
	require.NoError(t, err)
	assert.True(t, score.Equal(before, after))
	assert.Equal(t, 0, ws.ReadVariable(loc, 0))
}

func TestDirectorReachesFeasibleSolution(t *testing.T) {
	d, _ := setupFourQueens(t)
	ws := d.WorkingSolution()

	assignments := map[int]int{0: 1, 1: 3, 2: 0, 3: 2}
	for id, row := range assignments {
		loc, ok := ws.Locate(id)
		require.True(t, ok)
		require.NoError(t, d.SetVariable(loc, 0, row))
	}

	s, err := d.CalculateScore()
	require.NoError(t, err)
	assert.True(t, s.IsFeasible())
}

func TestDirectorDoAndScoreRespectsCancellation(t *testing.T) {
	d, _ := setupFourQueens(t)
	ws := d.WorkingSolution()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.DoAndScore(ctx, func(d *Director) error {
		loc, _ := ws.Locate(0)
		return d.SetVariable(loc, 0, 1)
	})
	require.ErrorIs(t, err, ErrCancelled)
}

type route struct {
	id    int
	stops []int
}

func routeDescriptor() *model.Descriptor {
	d := model.NewDescriptor()
	d.AddClass(model.ClassDescriptor{
		Name: "Route",
		Variables: []model.VariableDescriptor{{
			Name:    "stops",
			Kind:    model.List,
			GetList: func(e any) []int { return e.(*route).stops },
			SetList: func(e any, v []int) { e.(*route).stops = v },
		}},
		IDOf: func(e any) any { return e.(*route).id },
	})
	return d
}

// buildRouteNetwork penalizes one hard point per stop on a route, so every
// SetListVariable call that changes a route's length moves the score.
func buildRouteNetwork(desc *model.Descriptor) *serio.Network {
	net := serio.NewNetwork(desc, score.HardSoftScore{})
	_, err := net.ForEach(0).Penalize("stop_count", func(t serio.Tuple) (score.Score, error) {
		return score.HardSoftScore{Hard: int64(len(t[0].Entity.(*route).stops))}, nil
	}, nil)
	if err != nil {
		panic(err)
	}
	return net
}

func setupSingleRoute(t *testing.T) (*Director, *route) {
	t.Helper()
	desc := routeDescriptor()
	r := &route{id: 0, stops: []int{1, 2}}
	ws := model.NewWorkingSolution(desc, [][]any{{r}})
	net := buildRouteNetwork(desc)
	d, err := New(ws, net)
	require.NoError(t, err)
	d.TakeWorkingSolution()
	return d, r
}

func TestDirectorSetListVariableUpdatesScoreIncrementally(t *testing.T) {
	d, _ := setupSingleRoute(t)
	s, err := d.CalculateScore()
	require.NoError(t, err)
	assert.Equal(t, int64(-2), s.(score.HardSoftScore).Hard)

	ws := d.WorkingSolution()
	loc, ok := ws.Locate(0)
	require.True(t, ok)
	require.NoError(t, d.SetListVariable(loc, 0, []int{1, 2, 3}))

	s, err = d.CalculateScore()
	require.NoError(t, err)
	assert.Equal(t, int64(-3), s.(score.HardSoftScore).Hard)
	assert.Equal(t, []int{1, 2, 3}, ws.ReadListVariable(loc, 0))
}

func TestDirectorSetListVariableUndoRestoresExactScore(t *testing.T) {
	d, _ := setupSingleRoute(t)
	ws := d.WorkingSolution()
	before, err := d.CalculateScore()
	require.NoError(t, err)

	loc, _ := ws.Locate(0)
	checkpoint := d.Checkpoint()
	require.NoError(t, d.SetListVariable(loc, 0, []int{4, 5, 6, 7}))
	require.NoError(t, d.UndoTo(checkpoint))

	after, err := d.CalculateScore()
	require.NoError(t, err)
	assert.True(t, score.Equal(before, after))
	assert.Equal(t, []int{1, 2}, ws.ReadListVariable(loc, 0))
}

func TestDirectorRejectsUnbracketedAfterVariableChange(t *testing.T) {
	d, _ := setupFourQueens(t)
	ws := d.WorkingSolution()
	loc, _ := ws.Locate(0)
	err := d.AfterVariableChange(loc)
	require.ErrorIs(t, err, ErrInvariantViolation)
}
