package serio

import (
	"github.com/solverforge/solverforge/pkg/model"
	"github.com/solverforge/solverforge/pkg/score"
)

// Network owns the per-class source nodes and the constraint set a solver
// scores against. It is the single entry point the director (spec §4.2's
// before/after-variable-change hooks) pushes entity mutations through.
type Network struct {
	descriptor  *model.Descriptor
	sources     map[int]*ForEachNode
	constraints *ConstraintSet
}

// NewNetwork builds an empty network over desc. like fixes the score kind
// (and bendable arity) every constraint in this network must share.
func NewNetwork(desc *model.Descriptor, like score.Score) *Network {
	return &Network{
		descriptor:  desc,
		sources:     make(map[int]*ForEachNode),
		constraints: NewConstraintSet(like),
	}
}

// ForEach returns the stream of every live entity of the given class,
// creating the underlying source node on first use.
func (n *Network) ForEach(classIdx int) *Stream {
	src, ok := n.sources[classIdx]
	if !ok {
		src = NewForEachNode(classIdx)
		n.sources[classIdx] = src
	}
	return &Stream{node: src, network: n}
}

// Insert pushes an entity-insert event into the source node for its class.
// A class with no registered constraints referencing it is a no-op.
func (n *Network) Insert(classIdx int, id any, loc model.Location, entity any) {
	if src, ok := n.sources[classIdx]; ok {
		src.Insert(id, loc, entity)
	}
}

// Retract pushes an entity-retract event into the source node for its class.
func (n *Network) Retract(classIdx int, id any, loc model.Location, entity any) {
	if src, ok := n.sources[classIdx]; ok {
		src.Retract(id, loc, entity)
	}
}

// Constraints returns the network's registered constraint set.
func (n *Network) Constraints() *ConstraintSet { return n.constraints }

// Stream is the fluent builder type returned by every intermediate SERIO
// node, per SPEC_FULL.md §4.4's Constraint Stream Builder. Each method attaches
// a new node downstream of the current one and returns a Stream wrapping it;
// the chain terminates with Penalize/Reward/Impact, which registers a
// Constraint into the owning Network.
type Stream struct {
	node    Node
	network *Network
}

// Filter keeps only tuples satisfying pred.
func (s *Stream) Filter(pred func(Tuple) bool) *Stream {
	return &Stream{node: NewFilterNode(s.node, pred), network: s.network}
}

// Join performs an equality join against other, concatenating matched
// tuples.
func (s *Stream) Join(other *Stream, leftKey, rightKey func(Tuple) Key) *Stream {
	return &Stream{node: Join(s.node, other.node, leftKey, rightKey), network: s.network}
}

// InequalityJoin performs a Less/LessOrEqual/Overlapping join against other.
func (s *Stream) InequalityJoin(other *Stream, joiner Joiner, leftValue, rightValue func(Tuple) [2]float64) *Stream {
	return &Stream{node: InequalityJoin(s.node, other.node, joiner, leftValue, rightValue), network: s.network}
}

// Group buckets by keyFn and folds each bucket through a fresh collector
// from newColl, emitting one (key, aggregate) tuple per non-empty bucket.
func (s *Stream) Group(keyFn func(Tuple) Key, itemFn func(Tuple) any, newColl func() Collector) *Stream {
	return &Stream{node: Group(s.node, keyFn, itemFn, newColl), network: s.network}
}

// IfExists keeps tuples with at least one matching tuple in other.
func (s *Stream) IfExists(other *Stream, leftKey, rightKey func(Tuple) Key) *Stream {
	return &Stream{node: IfExists(s.node, other.node, leftKey, rightKey), network: s.network}
}

// IfNotExists keeps tuples with no matching tuple in other.
func (s *Stream) IfNotExists(other *Stream, leftKey, rightKey func(Tuple) Key) *Stream {
	return &Stream{node: IfNotExists(s.node, other.node, leftKey, rightKey), network: s.network}
}

// Flatten expands each tuple into zero or more tuples via expandFn.
func (s *Stream) Flatten(expandFn func(Tuple) []Tuple) *Stream {
	return &Stream{node: Flatten(s.node, expandFn), network: s.network}
}

// Penalize registers a terminal constraint that subtracts weightFn(tuple)
// from the running score for every currently-matching tuple.
func (s *Stream) Penalize(name string, weightFn func(Tuple) (score.Score, error), onError func(error)) (*Constraint, error) {
	zero := s.network.constraints.zero
	node := Penalize(s.node, zero, weightFn, nil, onError)
	return s.network.constraints.Add(name, node)
}

// Reward registers a terminal constraint that adds weightFn(tuple) to the
// running score for every currently-matching tuple.
func (s *Stream) Reward(name string, weightFn func(Tuple) (score.Score, error), onError func(error)) (*Constraint, error) {
	zero := s.network.constraints.zero
	node := Reward(s.node, zero, weightFn, nil, onError)
	return s.network.constraints.Add(name, node)
}

// Impact registers a terminal constraint that adds weightFn(tuple) to the
// running score as-is, with weightFn free to return either sign.
func (s *Stream) Impact(name string, weightFn func(Tuple) (score.Score, error), onError func(error)) (*Constraint, error) {
	zero := s.network.constraints.zero
	node := Impact(s.node, zero, weightFn, nil, onError)
	return s.network.constraints.Add(name, node)
}
