package main

import (
	"fmt"

	"github.com/solverforge/solverforge/examples/employee-scheduling"
	"github.com/solverforge/solverforge/examples/n-queens"
	"github.com/solverforge/solverforge/pkg/director"
	"github.com/solverforge/solverforge/pkg/model"
	"github.com/solverforge/solverforge/pkg/solver"
)

// domain is a registry entry for one of the example problem domains the CLI
// can run — SolverForge has no generic wire format for a descriptor or
// constraint set (those are produced out-of-scope, per SPEC_FULL.md §6), so
// the CLI ships a small fixed set of named instances instead of accepting
// arbitrary problem files.
type domain struct {
	name        string
	build       func() (*director.Director, error)
	classIdx    int
	varIdx      int
	values      []int
	entityCount func(*model.WorkingSolution) int
}

func nQueensDomain(n int) domain {
	return domain{
		name: fmt.Sprintf("n-queens-%d", n),
		build: func() (*director.Director, error) {
			d, _, err := nqueens.Build(n)
			return d, err
		},
		classIdx: nqueens.QueenClassIdx,
		varIdx:   0,
		values:   rangeInts(0, n-1),
		entityCount: func(ws *model.WorkingSolution) int {
			return ws.EntityCount(nqueens.QueenClassIdx)
		},
	}
}

func employeeSchedulingDomain() domain {
	return domain{
		name: "employee-scheduling-minimal",
		build: func() (*director.Director, error) {
			return scheduling.Build(scheduling.MinimalInstance())
		},
		classIdx: scheduling.ShiftClassIdx,
		varIdx:   0,
		values:   []int{scheduling.Unassigned, 0, 1},
		entityCount: func(ws *model.WorkingSolution) int {
			return ws.EntityCount(scheduling.ShiftClassIdx)
		},
	}
}

func domains() map[string]func() domain {
	return map[string]func() domain{
		"n-queens-4":                  func() domain { return nQueensDomain(4) },
		"n-queens-8":                  func() domain { return nQueensDomain(8) },
		"employee-scheduling-minimal": employeeSchedulingDomain,
	}
}

func rangeInts(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}

// cycleSelector walks every entity in classIdx through every candidate
// value once, in order, then reports it has nothing left — a small,
// deterministic stand-in for the production move selectors SPEC_FULL.md
// §4.6 treats as external collaborators (random restarts, ruin-and-
// recreate, tabu-aware selection).
type cycleSelector struct {
	d        domain
	nextPos  int
	nextVal  int
}

func (s *cycleSelector) NextMove(ws *model.WorkingSolution) solver.Move {
	if s.nextPos >= s.d.entityCount(ws) {
		return nil
	}
	pos, val := s.nextPos, s.d.values[s.nextVal]
	s.nextVal++
	if s.nextVal >= len(s.d.values) {
		s.nextVal = 0
		s.nextPos++
	}
	classIdx, varIdx := s.d.classIdx, s.d.varIdx
	return func(dir *director.Director) error {
		loc := model.Location{ClassIdx: classIdx, Pos: pos}
		return dir.SetVariable(loc, varIdx, val)
	}
}
