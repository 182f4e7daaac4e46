// Package model implements the working-solution layer described in
// SPEC_FULL.md §3-4.2: class/variable descriptors, value ranges, and the
// working-solution view the score director mutates through.
package model

import "strings"

// VariableKind distinguishes the four variable shapes from spec §3.
type VariableKind int

const (
	// Basic variables take a single value from a declared ValueRange.
	Basic VariableKind = iota
	// List variables hold an ordered sequence drawn from a value pool.
	List
	// Chained variables form a linked sequence with anchors.
	Chained
	// Shadow variables are computed deterministically from other
	// variables and are never chosen directly by search.
	Shadow
)

func (k VariableKind) String() string {
	switch k {
	case Basic:
		return "basic"
	case List:
		return "list"
	case Chained:
		return "chained"
	case Shadow:
		return "shadow"
	default:
		return "unknown"
	}
}

// VariableDescriptor describes one planning variable slot on a class. The
// accessor closures (Get/Set, GetList/SetList) bind to the user's domain
// struct fields; SolverForge never uses reflection on the hot path.
type VariableDescriptor struct {
	Name string
	Kind VariableKind

	// ValueRangeName names the ValueRange a Basic variable draws from.
	// Unused for List/Chained/Shadow variables.
	ValueRangeName string

	// Get/Set back a Basic variable. Unassigned is represented by a
	// caller-chosen sentinel int, which must itself be a member of the
	// variable's ValueRange, since WorkingSolution rejects any value outside
	// the range (nullable basic variables, SPEC_FULL.md §3).
	Get func(entity any) int
	Set func(entity any, value int)

	// GetList/SetList back a List variable: an ordered sequence of pool
	// indices.
	GetList func(entity any) []int
	SetList func(entity any, values []int)

	// ShadowSources names the variables (by "Class.Variable") this shadow
	// variable's recomputation reads. Declared up front so the director
	// can build the dependency DAG and detect CycleInShadowGraph before
	// any move runs, rather than only at first propagation.
	ShadowSources []string

	// Recompute sets the shadow variable's current value on entity, given
	// read-only access to the working solution for looking up whatever
	// ShadowSources named. Must be deterministic and must terminate.
	Recompute func(ws *WorkingSolution, entity any)
}

// ClassDescriptor describes one planning-entity (or problem-fact) class:
// its name, its ordered variable descriptors, and how to extract a stable
// identity from an instance for the id->location map (spec invariant 5).
type ClassDescriptor struct {
	Name      string
	Variables []VariableDescriptor
	IDOf      func(entity any) any
}

// VariableIndex returns the index of the named variable, or
// UnknownVariableError.
func (c ClassDescriptor) VariableIndex(name string) (int, error) {
	for i, v := range c.Variables {
		if v.Name == name {
			return i, nil
		}
	}
	return 0, newUnknownVariable(c.Name, name)
}

// Descriptor aggregates every class descriptor and named value range for a
// problem domain. It is built once, out of core (spec §6 "domain-model
// declaration... produced out-of-scope"), and handed to
// NewWorkingSolution.
type Descriptor struct {
	Classes     []ClassDescriptor
	ValueRanges map[string]ValueRange
}

// NewDescriptor creates an empty descriptor with no classes or ranges.
func NewDescriptor() *Descriptor {
	return &Descriptor{ValueRanges: make(map[string]ValueRange)}
}

// AddClass appends a class descriptor and returns its index.
func (d *Descriptor) AddClass(c ClassDescriptor) int {
	d.Classes = append(d.Classes, c)
	return len(d.Classes) - 1
}

// AddValueRange registers a named value range.
func (d *Descriptor) AddValueRange(r ValueRange) {
	d.ValueRanges[r.Name()] = r
}

// ClassIndex returns the index of the named class, or UnknownClassError.
func (d *Descriptor) ClassIndex(name string) (int, error) {
	for i, c := range d.Classes {
		if c.Name == name {
			return i, nil
		}
	}
	return 0, newUnknownClass(name)
}

// ValueRange returns the named value range, or UnknownValueRangeError.
func (d *Descriptor) ValueRange(name string) (ValueRange, error) {
	r, ok := d.ValueRanges[name]
	if !ok {
		return ValueRange{}, newUnknownValueRange(name)
	}
	return r, nil
}

// Validate checks that every Basic variable's declared ValueRangeName
// resolves and that every ShadowSources reference parses as "Class.Variable"
// against a known class/variable. It does not check the current value
// (that is WorkingSolution's job); it checks the descriptor is internally
// consistent before any solution is attached.
func (d *Descriptor) Validate() error {
	for _, c := range d.Classes {
		for _, v := range c.Variables {
			if v.Kind == Basic {
				if _, err := d.ValueRange(v.ValueRangeName); err != nil {
					return err
				}
			}
			for _, src := range v.ShadowSources {
				parts := strings.SplitN(src, ".", 2)
				if len(parts) != 2 {
					return newUnknownVariable(c.Name, src)
				}
				ci, err := d.ClassIndex(parts[0])
				if err != nil {
					return err
				}
				if _, err := d.Classes[ci].VariableIndex(parts[1]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
