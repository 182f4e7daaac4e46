package serio

import "github.com/solverforge/solverforge/pkg/model"

// groupEntry holds a key's collector plus the refcount of source tuples
// currently folded into it, so the entry can be deleted when its group
// empties (spec §4.3: "deletes key entry when its group empties").
type groupEntry struct {
	collector Collector
	ref       int
}

// GroupNode is the group(key, collector) node from spec §4.3: it buckets
// upstream tuples by keyFn, folds each bucket through a fresh Collector, and
// emits a retract-then-insert of (key, old_value) -> (key, new_value)
// whenever a bucket's aggregate changes.
type GroupNode struct {
	keyFn      func(Tuple) Key
	newItem    func(Tuple) any
	newColl    func() Collector
	groups     map[uint64][]*groupEntryWithKey
	downstream []DeltaSink
}

type groupEntryWithKey struct {
	key Key
	groupEntry
}

// Group builds a group-by node. keyFn extracts the grouping key from an
// upstream tuple; itemFn extracts the value handed to the collector;
// newColl constructs a fresh Collector per distinct key.
func Group(upstream Node, keyFn func(Tuple) Key, itemFn func(Tuple) any, newColl func() Collector) *GroupNode {
	n := &GroupNode{
		keyFn:   keyFn,
		newItem: itemFn,
		newColl: newColl,
		groups:  make(map[uint64][]*groupEntryWithKey),
	}
	upstream.Subscribe(n.receive)
	return n
}

func (n *GroupNode) Subscribe(sink DeltaSink) { n.downstream = append(n.downstream, sink) }

func (n *GroupNode) entryFor(key Key) (*groupEntryWithKey, bool) {
	h := key.Hash()
	for _, e := range n.groups[h] {
		if e.key.Equal(key) {
			return e, false
		}
	}
	e := &groupEntryWithKey{key: key, groupEntry: groupEntry{collector: n.newColl()}}
	n.groups[h] = append(n.groups[h], e)
	return e, true
}

func (n *GroupNode) deleteEntry(key Key) {
	h := key.Hash()
	bucket := n.groups[h]
	for i, e := range bucket {
		if e.key.Equal(key) {
			n.groups[h] = append(bucket[:i], bucket[i+1:]...)
			return
		}
	}
}

func (n *GroupNode) groupTuple(key Key, value any) Tuple {
	return Tuple{{ID: key, Loc: model.Location{}, Entity: value}}
}

func (n *GroupNode) emit(t Tuple, insert bool) {
	d := Delta{Tuple: t, Insert: insert}
	for _, s := range n.downstream {
		s(d)
	}
}

func (n *GroupNode) receive(d Delta) {
	key := n.keyFn(d.Tuple)
	if key.hasNull() {
		return
	}
	entry, wasNew := n.entryFor(key)
	var oldValue any
	hadOldValue := !wasNew
	if hadOldValue {
		oldValue = entry.collector.Value()
	}

	item := n.newItem(d.Tuple)
	if d.Insert {
		entry.collector.Insert(item)
		entry.ref++
	} else {
		entry.collector.Retract(item)
		entry.ref--
	}

	if hadOldValue {
		n.emit(n.groupTuple(key, oldValue), false)
	}

	if entry.ref <= 0 {
		n.deleteEntry(key)
		return
	}
	n.emit(n.groupTuple(key, entry.collector.Value()), true)
}
