package solver

import (
	"context"
	"errors"
	"time"

	"github.com/solverforge/solverforge/pkg/director"
	"github.com/solverforge/solverforge/pkg/model"
	"github.com/solverforge/solverforge/pkg/score"
)

// Move is one trial mutation a phase asks the director to apply and score.
// Phases never call director.WorkingSolution's writers directly — only
// through Director.SetVariable/DoAndScore, so SERIO's before/after
// bracketing (spec §4.5) is never bypassed.
type Move func(d *director.Director) error

// MoveSelector produces the next move to try, or nil once it has nothing
// left to offer this step (spec §1: move generators are named but not
// shipped in depth; this is the seam a driver plugs one into).
type MoveSelector interface {
	NextMove(ws *model.WorkingSolution) Move
}

// Acceptor decides whether a candidate score replaces the current one
// (spec §4.6's named, closed enumeration of local-search acceptors).
// Only HillClimbingAcceptor ships a body; the rest are config-level only.
type Acceptor interface {
	Accept(current, candidate score.Score) bool
}

// HillClimbingAcceptor accepts a move iff the candidate score is no worse
// than the current one — the simplest acceptor in the closed enumeration,
// and the one the spec §8 seed scenarios are solved with.
type HillClimbingAcceptor struct{}

func (HillClimbingAcceptor) Accept(current, candidate score.Score) bool {
	if current == nil {
		return true
	}
	c, err := candidate.CompareTo(current)
	return err == nil && c >= 0
}

// Phase is one stage of a solve — a construction heuristic or a local
// search loop — run against a director until its own logic or term says
// stop. onStep is called with the resulting score, in step order:
// LocalSearchPhase calls it when an accepted move is strictly better than
// the phase's best score so far; FirstFitConstructor calls it for each
// entity whose kept value leaves the solution feasible. SolverManager
// forwards only strict improvements as best-solution events (spec §5
// ordering guarantee).
type Phase interface {
	Run(ctx context.Context, d *director.Director, term Termination, tel *telemetryAccumulator, onStep func(score.Score)) error
}

// FirstFitConstructor is the reference construction heuristic: for each
// live, unpinned entity in ClassIdx, try each candidate value from Values
// in order and keep the first that leaves the solution feasible. If none
// does, the entity is left at whatever value it already had (commonly the
// "unassigned" sentinel — spec §3's nullable basic variables).
type FirstFitConstructor struct {
	ClassIdx int
	VarIdx   int
	Values   func() []int
}

func (f FirstFitConstructor) Run(ctx context.Context, d *director.Director, term Termination, tel *telemetryAccumulator, onStep func(score.Score)) error {
	ws := d.WorkingSolution()
	state := SolveState{StartedAt: tel.startedAt}
	for pos := 0; pos < ws.EntityCount(f.ClassIdx); pos++ {
		select {
		case <-ctx.Done():
			return ErrCancelled
		default:
		}
		state.Now = time.Now()
		state.StepCount = int64(pos)
		if term != nil && term.ShouldTerminate(state) {
			return ErrCancelled
		}
		loc := model.Location{ClassIdx: f.ClassIdx, Pos: pos}
		if ws.IsPinned(loc) {
			continue
		}
		for _, v := range f.Values() {
			if err := d.SetVariable(loc, f.VarIdx, v); err != nil {
				return err
			}
			tel.recordMove(true)
			s, err := d.CalculateScore()
			if err != nil {
				return err
			}
			tel.recordScoreCalculation()
			if s.IsFeasible() {
				if onStep != nil {
					onStep(s)
				}
				break
			}
			if err := d.Undo(); err != nil {
				return err
			}
		}
	}
	return nil
}

// LocalSearchPhase repeatedly asks Selector for a move, tries it, and asks
// Acceptor whether to keep it, until Selector has nothing left or term
// fires. It is the one phase body every acceptor in the closed enumeration
// can be plugged into; only HillClimbingAcceptor has a shipped Accept body.
type LocalSearchPhase struct {
	Selector MoveSelector
	Acceptor Acceptor
}

func (p LocalSearchPhase) Run(ctx context.Context, d *director.Director, term Termination, tel *telemetryAccumulator, onStep func(score.Score)) error {
	ws := d.WorkingSolution()
	current, err := d.CalculateScore()
	if err != nil {
		return err
	}
	state := SolveState{StartedAt: tel.startedAt, BestScore: current, LastStepScore: current}
	for {
		state.Now = time.Now()
		if term != nil && term.ShouldTerminate(state) {
			return nil
		}
		move := p.Selector.NextMove(ws)
		if move == nil {
			return nil
		}
		checkpoint := d.Checkpoint()
		candidate, err := d.DoAndScore(ctx, func(d *director.Director) error { return move(d) })
		if err != nil {
			if errors.Is(err, director.ErrCancelled) {
				return ErrCancelled
			}
			return err
		}
		tel.recordScoreCalculation()
		state.StepCount++
		accepted := p.Acceptor.Accept(current, candidate)
		tel.recordMove(accepted)
		if accepted {
			current = candidate
			state.LastStepScore = candidate
			if cmp, err := candidate.CompareTo(state.BestScore); err == nil && cmp > 0 {
				state.BestScore = candidate
				state.LastImprovedAt = state.Now
				state.LastImprovedAtStep = state.StepCount
				if onStep != nil {
					onStep(candidate)
				}
			}
		} else {
			if err := d.UndoTo(checkpoint); err != nil {
				return err
			}
		}
	}
}
