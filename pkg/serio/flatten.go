package serio

// FlattenNode expands a single upstream tuple into zero or more downstream
// tuples via expandFn — e.g. "for each shift, flatten over its assigned
// employees" — per spec §4.3 "flatten_last". Retracting the source tuple
// retracts every tuple it previously expanded to; since expandFn can return
// overlapping sets across distinct source tuples (the diamond pattern), the
// node dedups its output via the shared presenceSet mechanism.
type FlattenNode struct {
	expandFn   func(Tuple) []Tuple
	downstream []DeltaSink
	dedup      outputDedup
}

// Flatten builds a flatten node. expandFn must be a pure function of its
// input tuple: calling it again on retract must reproduce exactly the set
// of tuples it produced on insert, so outputs can be retracted symmetrically.
func Flatten(upstream Node, expandFn func(Tuple) []Tuple) *FlattenNode {
	n := &FlattenNode{expandFn: expandFn, dedup: newOutputDedup()}
	upstream.Subscribe(n.receive)
	return n
}

func (n *FlattenNode) Subscribe(sink DeltaSink) { n.downstream = append(n.downstream, sink) }

func (n *FlattenNode) emit(t Tuple, insert bool) {
	if insert {
		if !n.dedup.emitInsert(t) {
			return
		}
	} else {
		if !n.dedup.emitRetract(t) {
			return
		}
	}
	d := Delta{Tuple: t, Insert: insert}
	for _, s := range n.downstream {
		s(d)
	}
}

func (n *FlattenNode) receive(d Delta) {
	expanded := n.expandFn(d.Tuple)
	for _, out := range expanded {
		n.emit(out, d.Insert)
	}
}
