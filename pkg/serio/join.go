package serio

import "sort"

// Joiner selects which comparison an inequality join performs. Equality
// joins use Join instead (filtered with UniquePairKey for unique pairs),
// which hash-indexes both sides.
type Joiner int

const (
	// Less matches left.value < right.value.
	Less Joiner = iota
	// LessOrEqual matches left.value <= right.value.
	LessOrEqual
	// Overlapping matches two (start, end) intervals that intersect.
	Overlapping
)

type joinEntry struct {
	key   Key
	tuple Tuple
	ref   int
}

type joinSide struct {
	buckets map[uint64][]*joinEntry
}

func newJoinSide() *joinSide { return &joinSide{buckets: make(map[uint64][]*joinEntry)} }

// upsert bumps the refcount of the entry for (key, tuple) and reports
// whether it is a brand-new entry (ref became 1).
func (s *joinSide) upsert(key Key, tuple Tuple) (*joinEntry, bool) {
	h := key.Hash()
	tk := tupleKey(tuple)
	for _, e := range s.buckets[h] {
		if e.key.Equal(key) && tupleKey(e.tuple).Equal(tk) {
			e.ref++
			return e, e.ref == 1
		}
	}
	e := &joinEntry{key: key, tuple: tuple, ref: 1}
	s.buckets[h] = append(s.buckets[h], e)
	return e, true
}

// remove decrements the refcount of the matching entry and reports whether
// it dropped to zero (and removes it from the index in that case).
func (s *joinSide) remove(key Key, tuple Tuple) (*joinEntry, bool) {
	h := key.Hash()
	tk := tupleKey(tuple)
	bucket := s.buckets[h]
	for i, e := range bucket {
		if e.key.Equal(key) && tupleKey(e.tuple).Equal(tk) {
			e.ref--
			if e.ref <= 0 {
				s.buckets[h] = append(bucket[:i], bucket[i+1:]...)
				return e, true
			}
			return e, false
		}
	}
	return nil, false
}

func (s *joinSide) matches(key Key) []*joinEntry {
	var out []*joinEntry
	for _, e := range s.buckets[key.Hash()] {
		if e.key.Equal(key) {
			out = append(out, e)
		}
	}
	return out
}

// JoinNode is the equality/inequality binary node from spec §4.3: it
// maintains a hash index keyed by the join key on each side and, on an
// insert to one side, emits one output tuple per currently-present tuple on
// the other side whose key matches.
type JoinNode struct {
	leftKey, rightKey func(Tuple) Key
	left, right       *joinSide
	downstream        []DeltaSink
	dedup             outputDedup
}

// Join builds an equality joiner between two upstream arity-m/arity-n
// streams, concatenating matched tuples into an arity-(m+n) output.
func Join(left, right Node, leftKey, rightKey func(Tuple) Key) *JoinNode {
	n := &JoinNode{
		leftKey:  leftKey,
		rightKey: rightKey,
		left:     newJoinSide(),
		right:    newJoinSide(),
		dedup:    newOutputDedup(),
	}
	left.Subscribe(n.receiveLeft)
	right.Subscribe(n.receiveRight)
	return n
}

func (n *JoinNode) Subscribe(sink DeltaSink) { n.downstream = append(n.downstream, sink) }

func (n *JoinNode) emit(t Tuple, insert bool) {
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

func concat(a, b Tuple) Tuple {
	out := make(Tuple, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

func (n *JoinNode) receiveLeft(d Delta) {
	key := n.leftKey(d.Tuple)
	if key.hasNull() {
		return
	}
	if d.Insert {
		_, isNew := n.left.upsert(key, d.Tuple)
		if !isNew {
			return
		}
		for _, re := range n.right.matches(key) {
			n.emit(concat(d.Tuple, re.tuple), true)
		}
	} else {
		_, becameAbsent := n.left.remove(key, d.Tuple)
		if !becameAbsent {
			return
		}
		for _, re := range n.right.matches(key) {
			n.emit(concat(d.Tuple, re.tuple), false)
		}
	}
}

func (n *JoinNode) receiveRight(d Delta) {
	key := n.rightKey(d.Tuple)
	if key.hasNull() {
		return
	}
	if d.Insert {
		_, isNew := n.right.upsert(key, d.Tuple)
		if !isNew {
			return
		}
		for _, le := range n.left.matches(key) {
			n.emit(concat(le.tuple, d.Tuple), true)
		}
	} else {
		_, becameAbsent := n.right.remove(key, d.Tuple)
		if !becameAbsent {
			return
		}
		for _, le := range n.left.matches(key) {
			n.emit(concat(le.tuple, d.Tuple), false)
		}
	}
}

// InequalityJoinNode maintains a sorted slice per side (insertion position
// found via sort.Search) for Less/LessOrEqual/Overlapping joins. Finding the
// insertion point is O(log n); matching is a linear scan of the other side's
// slice, which is correct but not range-bounded — fine for the group sizes
// spec §8's scenarios exercise, a candidate for a proper range-bounded scan
// if it shows up hot in profiling.
type InequalityJoinNode struct {
	joiner            Joiner
	leftValue         func(Tuple) [2]float64 // single value in [0]; Overlapping uses both
	rightValue        func(Tuple) [2]float64
	left, right       []sortedEntry
	downstream        []DeltaSink
	dedup             outputDedup
}

type sortedEntry struct {
	value [2]float64
	tuple Tuple
}

// InequalityJoin builds a Less/LessOrEqual/Overlapping joiner.
func InequalityJoin(left, right Node, joiner Joiner, leftValue, rightValue func(Tuple) [2]float64) *InequalityJoinNode {
	n := &InequalityJoinNode{joiner: joiner, leftValue: leftValue, rightValue: rightValue, dedup: newOutputDedup()}
	left.Subscribe(n.receiveLeft)
	right.Subscribe(n.receiveRight)
	return n
}

func (n *InequalityJoinNode) Subscribe(sink DeltaSink) { n.downstream = append(n.downstream, sink) }

func (n *InequalityJoinNode) emit(t Tuple, insert bool) {
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

func (n *InequalityJoinNode) matchesLeftAgainstRight(left sortedEntry) []sortedEntry {
	var out []sortedEntry
	for _, r := range n.right {
		if n.satisfies(left.value, r.value) {
			out = append(out, r)
		}
	}
	return out
}

func (n *InequalityJoinNode) matchesRightAgainstLeft(right sortedEntry) []sortedEntry {
	var out []sortedEntry
	for _, l := range n.left {
		if n.satisfies(l.value, right.value) {
			out = append(out, l)
		}
	}
	return out
}

func (n *InequalityJoinNode) satisfies(left, right [2]float64) bool {
	switch n.joiner {
	case Less:
		return left[0] < right[0]
	case LessOrEqual:
		return left[0] <= right[0]
	case Overlapping:
		// left=(start,end), right=(start,end): intersect iff
		// left.start < right.end && right.start < left.end.
		return left[0] < right[1] && right[0] < left[1]
	default:
		return false
	}
}

func insertSorted(s []sortedEntry, e sortedEntry) []sortedEntry {
	i := sort.Search(len(s), func(i int) bool { return s[i].value[0] >= e.value[0] })
	s = append(s, sortedEntry{})
	copy(s[i+1:], s[i:])
	s[i] = e
	return s
}

func removeSorted(s []sortedEntry, tuple Tuple) []sortedEntry {
	tk := tupleKey(tuple)
	for i, e := range s {
		if tupleKey(e.tuple).Equal(tk) {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

func (n *InequalityJoinNode) receiveLeft(d Delta) {
	entry := sortedEntry{value: n.leftValue(d.Tuple), tuple: d.Tuple}
	if d.Insert {
		n.left = insertSorted(n.left, entry)
		for _, r := range n.matchesLeftAgainstRight(entry) {
			n.emit(concat(d.Tuple, r.tuple), true)
		}
	} else {
		n.left = removeSorted(n.left, d.Tuple)
		for _, r := range n.matchesLeftAgainstRight(entry) {
			n.emit(concat(d.Tuple, r.tuple), false)
		}
	}
}

func (n *InequalityJoinNode) receiveRight(d Delta) {
	entry := sortedEntry{value: n.rightValue(d.Tuple), tuple: d.Tuple}
	if d.Insert {
		n.right = insertSorted(n.right, entry)
		for _, l := range n.matchesRightAgainstLeft(entry) {
			n.emit(concat(l.tuple, d.Tuple), true)
		}
	} else {
		n.right = removeSorted(n.right, d.Tuple)
		for _, l := range n.matchesRightAgainstLeft(entry) {
			n.emit(concat(l.tuple, d.Tuple), false)
		}
	}
}

// UniquePairKey builds a canonical-ordering key (spec §4.3
// for_each_unique_pair: "a.id < b.id" predicate) usable as a filter
// predicate after a self-join, so each unordered pair of entities from the
// same class is emitted exactly once.
func UniquePairKey(idA, idB func(Tuple) int64) func(Tuple) bool {
	return func(t Tuple) bool { return idA(t) < idB(t) }
}
