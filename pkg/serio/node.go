package serio

import "github.com/solverforge/solverforge/pkg/model"

// Node is any stream node that can be attached to a downstream sink. The
// for-each source nodes, filters, joins, group-bys, and flattens all
// implement it; terminal penalize/reward/impact nodes do not (they have no
// downstream — spec §4.3 "terminal").
type Node interface {
	// Subscribe registers a downstream sink. Called once per edge while the
	// network is being built; never after the first delta flows.
	Subscribe(sink DeltaSink)
}

// ForEachNode is the source node from spec §4.3: it emits one tuple per
// live entity of a class, and on variable change, a retract+insert pair for
// that entity (if the variable participates downstream — the caller decides
// that by only routing mutations of relevant classes here).
type ForEachNode struct {
	ClassIdx   int
	downstream []DeltaSink
	present    *presenceSet
}

// NewForEachNode creates a for-each source over the given class index.
func NewForEachNode(classIdx int) *ForEachNode {
	return &ForEachNode{ClassIdx: classIdx, present: newPresenceSet()}
}

func (n *ForEachNode) Subscribe(sink DeltaSink) {
	n.downstream = append(n.downstream, sink)
}

func (n *ForEachNode) emit(d Delta) {
	for _, s := range n.downstream {
		s(d)
	}
}

// Retract builds a one-entity tuple for (id, loc, entity) and pushes a
// retract delta downstream if it is currently counted present.
func (n *ForEachNode) Retract(id any, loc model.Location, entity any) {
	key := NewKey(id)
	if n.present.retract(key) {
		n.emit(Delta{Tuple: Tuple{{ID: id, Loc: loc, Entity: entity}}, Insert: false})
	}
}

// Insert builds a one-entity tuple for (id, loc, entity) and pushes an
// insert delta downstream if this transitions the entity to present.
func (n *ForEachNode) Insert(id any, loc model.Location, entity any) {
	key := NewKey(id)
	if n.present.insert(key) {
		n.emit(Delta{Tuple: Tuple{{ID: id, Loc: loc, Entity: entity}}, Insert: true})
	}
}

// FilterNode forwards a delta iff pred(tuple) holds, per spec §4.3.
type FilterNode struct {
	pred       func(Tuple) bool
	downstream []DeltaSink
}

// NewFilterNode subscribes to upstream and returns the new filter node.
func NewFilterNode(upstream Node, pred func(Tuple) bool) *FilterNode {
	n := &FilterNode{pred: pred}
	upstream.Subscribe(n.receive)
	return n
}

func (n *FilterNode) Subscribe(sink DeltaSink) {
	n.downstream = append(n.downstream, sink)
}

func (n *FilterNode) receive(d Delta) {
	if !n.pred(d.Tuple) {
		return
	}
	for _, s := range n.downstream {
		s(d)
	}
}
