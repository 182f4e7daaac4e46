package model

import (
	"fmt"
	"strings"
)

// ValueRange is the declared domain of a basic planning variable: a finite
// set of values or an integer interval, referenced by name from a variable
// descriptor (spec §3). Values are represented as a dense bitset so
// membership, iteration, and intersection are cheap even for ranges with a
// few hundred candidate values — the common case for shift/queue/seat
// assignment problems.
//
// ValueRange is immutable: all operations return a new range rather than
// mutating the receiver.
type ValueRange struct {
	name  string
	min   int // inclusive
	words []uint64
}

// NewIntervalValueRange creates a range covering every integer in [min, max].
func NewIntervalValueRange(name string, min, max int) ValueRange {
	if max < min {
		return ValueRange{name: name, min: min}
	}
	n := max - min + 1
	words := make([]uint64, (n+63)/64)
	for i := 0; i < n; i++ {
		words[i/64] |= 1 << uint(i%64)
	}
	return ValueRange{name: name, min: min, words: words}
}

// NewSetValueRange creates a range containing exactly the given values.
func NewSetValueRange(name string, values []int) ValueRange {
	if len(values) == 0 {
		return ValueRange{name: name}
	}
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	n := max - min + 1
	words := make([]uint64, (n+63)/64)
	for _, v := range values {
		i := v - min
		words[i/64] |= 1 << uint(i%64)
	}
	return ValueRange{name: name, min: min, words: words}
}

// Name returns the value range's declared name.
func (r ValueRange) Name() string { return r.name }

// Count returns the number of values in the range.
func (r ValueRange) Count() int {
	count := 0
	for _, w := range r.words {
		count += popcount(w)
	}
	return count
}

// Has reports whether value is a member of the range.
func (r ValueRange) Has(value int) bool {
	i := value - r.min
	if i < 0 {
		return false
	}
	wordIdx := i / 64
	if wordIdx >= len(r.words) {
		return false
	}
	return r.words[wordIdx]&(1<<uint(i%64)) != 0
}

// Values returns every member of the range in ascending order. Intended for
// construction-heuristic iteration, not hot-path propagation.
func (r ValueRange) Values() []int {
	var out []int
	for wordIdx, w := range r.words {
		for w != 0 {
			bit := trailingZeros(w)
			out = append(out, r.min+wordIdx*64+bit)
			w &= w - 1
		}
	}
	return out
}

// String renders the range as a sorted value list, e.g. "{1,2,3}".
func (r ValueRange) String() string {
	values := r.Values()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func popcount(w uint64) int {
	count := 0
	for w != 0 {
		w &= w - 1
		count++
	}
	return count
}

func trailingZeros(w uint64) int {
	n := 0
	for w&1 == 0 {
		w >>= 1
		n++
	}
	return n
}
