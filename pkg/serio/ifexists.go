package serio

// leftEntry tracks one currently-present left tuple under its join key, so
// a later right-side match-count flip can find and re-emit it.
type leftEntry struct {
	key   Key
	tuple Tuple
}

// rightKeyCount is the number of right-side tuples currently matching a
// given key. ifExists/ifNotExists only care about its 0<->>=1 toggle, not
// the exact value, per spec §4.3.
type rightKeyCount struct {
	key Key
	n   int
}

// IfExistsNode forwards a left tuple iff at least one right tuple currently
// shares its key; IfNotExistsNode (built with negate=true) forwards iff
// none does. Both re-derive membership incrementally: a right-side
// insert/retract can flip a previously-emitted left tuple's presence
// without the left tuple itself changing (spec §4.3 "if_exists/if_not_exists").
type IfExistsNode struct {
	negate            bool
	leftKey, rightKey func(Tuple) Key
	rightCounts       map[uint64][]rightKeyCount
	leftByKey         map[uint64][]leftEntry
	downstream        []DeltaSink
}

func newIfExistsNode(negate bool, leftKey, rightKey func(Tuple) Key) *IfExistsNode {
	return &IfExistsNode{
		negate:      negate,
		leftKey:     leftKey,
		rightKey:    rightKey,
		rightCounts: make(map[uint64][]rightKeyCount),
		leftByKey:   make(map[uint64][]leftEntry),
	}
}

// IfExists forwards left tuples that have at least one right-side match.
func IfExists(left, right Node, leftKey, rightKey func(Tuple) Key) *IfExistsNode {
	n := newIfExistsNode(false, leftKey, rightKey)
	left.Subscribe(n.receiveLeft)
	right.Subscribe(n.receiveRight)
	return n
}

// IfNotExists forwards left tuples that have zero right-side matches.
func IfNotExists(left, right Node, leftKey, rightKey func(Tuple) Key) *IfExistsNode {
	n := newIfExistsNode(true, leftKey, rightKey)
	left.Subscribe(n.receiveLeft)
	right.Subscribe(n.receiveRight)
	return n
}

func (n *IfExistsNode) Subscribe(sink DeltaSink) { n.downstream = append(n.downstream, sink) }

func (n *IfExistsNode) emit(t Tuple, insert bool) {
	d := Delta{Tuple: t, Insert: insert}
	for _, s := range n.downstream {
		s(d)
	}
}

func (n *IfExistsNode) rightCountEntry(key Key) *rightKeyCount {
	h := key.Hash()
	bucket := n.rightCounts[h]
	for i := range bucket {
		if bucket[i].key.Equal(key) {
			return &bucket[i]
		}
	}
	n.rightCounts[h] = append(bucket, rightKeyCount{key: key})
	return &n.rightCounts[h][len(n.rightCounts[h])-1]
}

func (n *IfExistsNode) rightCount(key Key) int {
	bucket := n.rightCounts[key.Hash()]
	for _, e := range bucket {
		if e.key.Equal(key) {
			return e.n
		}
	}
	return 0
}

// satisfied reports whether a left tuple matched against this many
// right-side tuples should be forwarded: count > 0 for ifExists, count == 0
// for ifNotExists.
func (n *IfExistsNode) satisfied(count int) bool {
	if n.negate {
		return count == 0
	}
	return count > 0
}

func (n *IfExistsNode) addLeft(key Key, tuple Tuple) {
	h := key.Hash()
	n.leftByKey[h] = append(n.leftByKey[h], leftEntry{key: key, tuple: tuple})
}

func (n *IfExistsNode) removeLeft(key Key, tuple Tuple) {
	h := key.Hash()
	tk := tupleKey(tuple)
	bucket := n.leftByKey[h]
	for i, e := range bucket {
		if e.key.Equal(key) && tupleKey(e.tuple).Equal(tk) {
			n.leftByKey[h] = append(bucket[:i], bucket[i+1:]...)
			return
		}
	}
}

func (n *IfExistsNode) receiveLeft(d Delta) {
	key := n.leftKey(d.Tuple)
	if key.hasNull() {
		return
	}
	satisfied := n.satisfied(n.rightCount(key))
	if d.Insert {
		n.addLeft(key, d.Tuple)
		if satisfied {
			n.emit(d.Tuple, true)
		}
	} else {
		n.removeLeft(key, d.Tuple)
		if satisfied {
			n.emit(d.Tuple, false)
		}
	}
}

func (n *IfExistsNode) receiveRight(d Delta) {
	key := n.rightKey(d.Tuple)
	if key.hasNull() {
		return
	}
	count := n.rightCountEntry(key)
	wasSatisfied := n.satisfied(count.n)
	if d.Insert {
		count.n++
	} else {
		count.n--
	}
	isSatisfied := n.satisfied(count.n)
	if wasSatisfied == isSatisfied {
		return
	}
	// The match count flipped across the 0<->>=1 boundary: re-emit every
	// currently-present left tuple sharing this key.
	for _, e := range n.leftByKey[key.Hash()] {
		if !e.key.Equal(key) {
			continue
		}
		n.emit(e.tuple, isSatisfied)
	}
}
