package serio

// presenceSet is a refcounted multiset keyed by Key, implementing the
// "Tuple identity and multiplicity" rule from SPEC_FULL.md §4.3: a tuple is
// present iff its refcount > 0. Insert bumps the refcount; the 0->1
// transition is reported back to the caller so it can emit a downstream
// insert. Retract decrements; the 1->0 transition is reported the same way.
// This is what lets diamond patterns (the same tuple reachable via two
// upstream paths) collapse to a single downstream event.
type presenceBucket struct {
	key   Key
	count int
}

type presenceSet struct {
	buckets map[uint64][]presenceBucket
}

func newPresenceSet() *presenceSet {
	return &presenceSet{buckets: make(map[uint64][]presenceBucket)}
}

// insert bumps the refcount for key and reports whether this was the
// transition from absent to present (count 0 -> 1).
func (p *presenceSet) insert(key Key) (becamePresent bool) {
	h := key.Hash()
	bucket := p.buckets[h]
	for i := range bucket {
		if bucket[i].key.Equal(key) {
			bucket[i].count++
			p.buckets[h] = bucket
			return bucket[i].count == 1
		}
	}
	p.buckets[h] = append(bucket, presenceBucket{key: key, count: 1})
	return true
}

// retract decrements the refcount for key and reports whether this was the
// transition from present to absent (count 1 -> 0). Retracting an absent
// key is a no-op that reports false.
func (p *presenceSet) retract(key Key) (becameAbsent bool) {
	h := key.Hash()
	bucket := p.buckets[h]
	for i := range bucket {
		if bucket[i].key.Equal(key) {
			bucket[i].count--
			if bucket[i].count <= 0 {
				p.buckets[h] = append(bucket[:i], bucket[i+1:]...)
				return true
			}
			return false
		}
	}
	return false
}

// count returns the current refcount for key (0 if absent).
func (p *presenceSet) count(key Key) int {
	bucket := p.buckets[key.Hash()]
	for _, b := range bucket {
		if b.key.Equal(key) {
			return b.count
		}
	}
	return 0
}

// size returns the number of distinct present keys.
func (p *presenceSet) size() int {
	n := 0
	for _, bucket := range p.buckets {
		n += len(bucket)
	}
	return n
}
