package serio

// outputDedup collapses duplicate concurrent delivery of the same tuple
// (the "diamond pattern" from spec §4.3: the same tuple reaching a node via
// two upstream paths) to a single downstream insert/retract using the
// refcounted presenceSet. JoinNode, InequalityJoinNode, and FlattenNode each
// embed one for their output stream.
type outputDedup struct {
	present *presenceSet
}

func newOutputDedup() outputDedup {
	return outputDedup{present: newPresenceSet()}
}

func tupleKey(t Tuple) Key {
	ids := make([]any, len(t))
	for i, f := range t {
		ids[i] = f.ID
	}
	return NewKey(ids...)
}

// emitInsert reports true iff this is the transition that should actually
// be forwarded downstream (refcount 0 -> 1).
func (d *outputDedup) emitInsert(t Tuple) bool {
	return d.present.insert(tupleKey(t))
}

// emitRetract reports true iff this is the transition that should actually
// be forwarded downstream (refcount 1 -> 0).
func (d *outputDedup) emitRetract(t Tuple) bool {
	return d.present.retract(tupleKey(t))
}
