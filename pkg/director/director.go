package director

import (
	"context"

	"github.com/solverforge/solverforge/pkg/model"
	"github.com/solverforge/solverforge/pkg/score"
	"github.com/solverforge/solverforge/pkg/serio"
)

type shadowStep struct {
	classIdx, varIdx int
}

// undoEntry reverses exactly one WriteVariable or WriteListVariable call the director performed,
// by replaying Before/Write/After with the old value. Kept as a closure
// (spec §9 design note: dynamic dispatch confined to the director) rather
// than a serialized change-set, since every entry already knows precisely
// how to invert itself.
type undoEntry func(d *Director) error

// Director is the score director from SPEC_FULL.md §4.2: the only thing
// permitted to mutate a WorkingSolution's planning variables. Every write
// goes through BeforeVariableChange/AfterVariableChange so the attached
// Network sees the exact retract-then-insert sequence invariant I3 requires,
// and every write is recorded on an undo stack so moves can be rolled back
// without a full re-score.
type Director struct {
	ws          *model.WorkingSolution
	network     *serio.Network
	shadowOrder []shadowStep
	undoStack   []undoEntry

	inFlight  bool // true between BeforeVariableChange and AfterVariableChange
	beforeLoc model.Location
}

// New builds a director over ws and network, computing a fixed topological
// order for shadow-variable recomputation across every class. Returns
// CycleInShadowGraphError if any class's ShadowSources form a cycle (spec
// §9 open question (a)).
func New(ws *model.WorkingSolution, network *serio.Network) (*Director, error) {
	order, err := topoSortShadows(ws.Descriptor())
	if err != nil {
		return nil, err
	}
	return &Director{ws: ws, network: network, shadowOrder: order}, nil
}

// WorkingSolution returns the solution this director mutates.
func (d *Director) WorkingSolution() *model.WorkingSolution { return d.ws }

// TakeWorkingSolution seeds the attached Network with every currently-live
// entity, as if each had just been inserted. Call once, before the first
// move, so the initial score reflects the starting solution (spec §4.2).
func (d *Director) TakeWorkingSolution() {
	for classIdx := range d.ws.Descriptor().Classes {
		d.ws.ForEachEntity(classIdx, func(pos int, entity any) {
			loc := model.Location{ClassIdx: classIdx, Pos: pos}
			d.network.Insert(classIdx, idOf(d.ws, classIdx, entity), loc, entity)
		})
	}
}

func idOf(ws *model.WorkingSolution, classIdx int, entity any) any {
	cd := ws.Descriptor().Classes[classIdx]
	if cd.IDOf == nil {
		return entity
	}
	return cd.IDOf(entity)
}

// BeforeVariableChange retracts the entity at loc from the network ahead of
// a write, per spec §4.5: "retract stale tuples before any value changes."
// Must be followed by exactly one AfterVariableChange before another
// BeforeVariableChange starts.
func (d *Director) BeforeVariableChange(loc model.Location) error {
	if d.inFlight {
		return invariantViolation("BeforeVariableChange called while another change is in flight")
	}
	entity := d.ws.EntityAt(loc.ClassIdx, loc.Pos)
	d.network.Retract(loc.ClassIdx, idOf(d.ws, loc.ClassIdx, entity), loc, entity)
	d.inFlight = true
	d.beforeLoc = loc
	return nil
}

// AfterVariableChange recomputes every shadow variable on loc's class in
// the fixed topological order, then reinserts the entity into the network.
// Must follow a matching BeforeVariableChange for the same location.
func (d *Director) AfterVariableChange(loc model.Location) error {
	if !d.inFlight || loc != d.beforeLoc {
		return invariantViolation("AfterVariableChange without a matching BeforeVariableChange")
	}
	entity := d.ws.EntityAt(loc.ClassIdx, loc.Pos)
	for _, step := range d.shadowOrder {
		if step.classIdx != loc.ClassIdx {
			continue
		}
		vd := d.ws.Descriptor().Classes[step.classIdx].Variables[step.varIdx]
		if vd.Recompute != nil {
			vd.Recompute(d.ws, entity)
		}
	}
	d.network.Insert(loc.ClassIdx, idOf(d.ws, loc.ClassIdx, entity), loc, entity)
	d.inFlight = false
	return nil
}

// SetVariable writes newValue to a Basic variable at loc, bracketing the
// write with Before/AfterVariableChange and recording an undo entry. This
// is the only way a move should mutate a planning variable.
func (d *Director) SetVariable(loc model.Location, varIdx int, newValue int) error {
	if err := d.BeforeVariableChange(loc); err != nil {
		return err
	}
	old, err := d.ws.WriteVariable(loc, varIdx, newValue)
	if err != nil {
		// Restore network consistency: the retract from BeforeVariableChange
		// already happened, so reinsert the unchanged entity before
		// surfacing the error.
		d.inFlight = false
		entity := d.ws.EntityAt(loc.ClassIdx, loc.Pos)
		d.network.Insert(loc.ClassIdx, idOf(d.ws, loc.ClassIdx, entity), loc, entity)
		return err
	}
	if err := d.AfterVariableChange(loc); err != nil {
		return err
	}
	d.undoStack = append(d.undoStack, func(d *Director) error {
		return d.SetVariable(loc, varIdx, old)
	})
	return nil
}

// SetListVariable writes newValues to a List variable at loc, bracketing the
// write with Before/AfterVariableChange and recording an undo entry the same
// way SetVariable does for Basic variables (spec §3 invariant 1, §4.5).
func (d *Director) SetListVariable(loc model.Location, varIdx int, newValues []int) error {
	if err := d.BeforeVariableChange(loc); err != nil {
		return err
	}
	old, err := d.ws.WriteListVariable(loc, varIdx, newValues)
	if err != nil {
		// Restore network consistency: the retract from BeforeVariableChange
		// already happened, so reinsert the unchanged entity before
		// surfacing the error.
		d.inFlight = false
		entity := d.ws.EntityAt(loc.ClassIdx, loc.Pos)
		d.network.Insert(loc.ClassIdx, idOf(d.ws, loc.ClassIdx, entity), loc, entity)
		return err
	}
	if err := d.AfterVariableChange(loc); err != nil {
		return err
	}
	d.undoStack = append(d.undoStack, func(d *Director) error {
		return d.SetListVariable(loc, varIdx, old)
	})
	return nil
}

// CalculateScore returns the network's current total score.
func (d *Director) CalculateScore() (score.Score, error) {
	return d.network.Constraints().TotalScore()
}

// Analyze returns the current per-constraint score breakdown.
func (d *Director) Analyze() map[string]score.Score {
	return d.network.Constraints().Breakdown()
}

// DoAndScore applies move (a closure that calls SetVariable zero or more
// times) and returns the resulting score, checking ctx for cancellation
// before running it (spec §8 scenario 6). The move's writes remain on the
// undo stack as individual entries; callers that want one atomic undo
// step should call Undo once per SetVariable the move performed, or use
// UndoTo with a checkpoint from Checkpoint.
func (d *Director) DoAndScore(ctx context.Context, move func(*Director) error) (score.Score, error) {
	select {
	case <-ctx.Done():
		return nil, ErrCancelled
	default:
	}
	if err := move(d); err != nil {
		return nil, err
	}
	return d.CalculateScore()
}

// Checkpoint returns the current undo-stack depth, for use with UndoTo.
func (d *Director) Checkpoint() int { return len(d.undoStack) }

// Undo reverses the most recent SetVariable call.
func (d *Director) Undo() error {
	if len(d.undoStack) == 0 {
		return invariantViolation("Undo called with an empty undo stack")
	}
	entry := d.undoStack[len(d.undoStack)-1]
	d.undoStack = d.undoStack[:len(d.undoStack)-1]
	drop := len(d.undoStack) // entry pushes its own undo entry when it replays the write; discard it
	if err := entry(d); err != nil {
		return err
	}
	d.undoStack = d.undoStack[:drop]
	return nil
}

// UndoTo reverses SetVariable calls until the undo stack is back at depth
// checkpoint, as returned by an earlier Checkpoint call — the exact-undo
// mechanism spec §8 scenario 3 exercises.
func (d *Director) UndoTo(checkpoint int) error {
	for len(d.undoStack) > checkpoint {
		if err := d.Undo(); err != nil {
			return err
		}
	}
	return nil
}

// AssertFullRecomputeMatches compares the director's incrementally
// maintained score against an externally computed full recompute, for the
// I1 property spec §8 requires solvers be able to check in debug builds.
func (d *Director) AssertFullRecomputeMatches(full score.Score) error {
	incremental, err := d.CalculateScore()
	if err != nil {
		return err
	}
	if !score.Equal(incremental, full) {
		return invariantViolation("incremental score diverged from full recompute")
	}
	return nil
}

type shadowNode struct {
	classIdx, varIdx int
	name             string
}

func topoSortShadows(desc *model.Descriptor) ([]shadowStep, error) {
	var nodes []shadowNode
	byName := make(map[string]int)
	for ci, cd := range desc.Classes {
		for vi, vd := range cd.Variables {
			if vd.Kind != model.Shadow {
				continue
			}
			name := cd.Name + "." + vd.Name
			byName[name] = len(nodes)
			nodes = append(nodes, shadowNode{classIdx: ci, varIdx: vi, name: name})
		}
	}

	deps := make([][]int, len(nodes))
	for i, n := range nodes {
		vd := desc.Classes[n.classIdx].Variables[n.varIdx]
		for _, src := range vd.ShadowSources {
			if j, ok := byName[src]; ok {
				deps[i] = append(deps[i], j)
			}
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(nodes))
	var order []shadowStep
	var visit func(i int) error
	visit = func(i int) error {
		switch color[i] {
		case black:
			return nil
		case gray:
			return cycleInShadowGraph(desc.Classes[nodes[i].classIdx].Name, nodes[i].name)
		}
		color[i] = gray
		for _, j := range deps[i] {
			if err := visit(j); err != nil {
				return err
			}
		}
		color[i] = black
		order = append(order, shadowStep{classIdx: nodes[i].classIdx, varIdx: nodes[i].varIdx})
		return nil
	}
	for i := range nodes {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return order, nil
}
