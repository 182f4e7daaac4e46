// Package serio implements the incremental scoring dataflow network
// described in SPEC_FULL.md §4.3: arity-indexed stream nodes that maintain,
// for every node, the exact multiset of tuples satisfying the upstream
// pattern, and emit insert/retract delta events on every variable mutation.
package serio

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/solverforge/solverforge/pkg/model"
)

// Fact is one entity reference inside a tuple. ID is the entity's stable
// identity (used for refcount/membership keys so diamond patterns resolve
// correctly); Loc is the entity's current (class, position) pair, usable by
// terminal weight functions per SPEC_FULL.md §4.4 ("weight functions...
// read shadow state" via the working solution); Entity is the live
// reference itself so key functions never need to dereference through the
// working solution mid-propagation (design note in spec §4.4).
type Fact struct {
	ID     any
	Loc    model.Location
	Entity any
}

// Tuple is an arity-n ordered reference to entities flowing through SERIO.
// Arity is fixed per stream by construction; nothing in this package
// resizes a Tuple after creation.
type Tuple []Fact

// Delta is a (tuple, +1/-1) event, the unit of propagation through SERIO
// (spec GLOSSARY "Delta").
type Delta struct {
	Tuple  Tuple
	Insert bool // true = insert, false = retract
}

// Key is a hashable, comparable composite key used by join/group nodes.
// Key functions build one from values read directly off a Tuple (never by
// re-dereferencing entities through the working solution), per spec §4.4.
type Key struct {
	parts []any
	hash  uint64
}

// NewKey builds a key from an ordered list of comparable field values.
func NewKey(parts ...any) Key {
	h := xxhash.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%v\x00%T\x00", p, p)
	}
	return Key{parts: parts, hash: h.Sum64()}
}

// Hash returns the xxhash bucket for this key. Two equal keys always
// return the same hash; two unequal keys usually (not always, hash
// collisions are possible and Equal is the final authority) differ.
func (k Key) Hash() uint64 { return k.hash }

// Equal reports exact equality of the underlying field values.
func (k Key) Equal(o Key) bool {
	if len(k.parts) != len(o.parts) {
		return false
	}
	for i := range k.parts {
		if k.parts[i] != o.parts[i] {
			return false
		}
	}
	return true
}

// hasNull reports whether this key contains a nil component. Per
// SPEC_FULL.md §9 (open question c), null keys never join — this is
// distinct from equality of two null keys, which is also false for join
// purposes.
func (k Key) hasNull() bool {
	for _, p := range k.parts {
		if p == nil {
			return true
		}
	}
	return false
}

// DeltaSink receives propagated deltas from an upstream node.
type DeltaSink func(Delta)
