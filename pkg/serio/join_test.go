package serio

import (
	"testing"

	"github.com/solverforge/solverforge/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectDeltas(n Node) *[]Delta {
	out := &[]Delta{}
	n.Subscribe(func(d Delta) { *out = append(*out, d) })
	return out
}

func TestJoinEqualityBasicMatchAndUnmatch(t *testing.T) {
	left := NewForEachNode(0)
	right := NewForEachNode(1)
	joined := Join(left, right,
		func(t Tuple) Key { return NewKey(t[0].Entity) },
		func(t Tuple) Key { return NewKey(t[0].Entity) },
	)
	out := collectDeltas(joined)

	left.Insert("L1", model.Location{}, 5)
	assert.Empty(t, *out, "no match yet, right side empty")

	right.Insert("R1", model.Location{}, 5)
	require.Len(t, *out, 1)
	assert.True(t, (*out)[0].Insert)
	assert.Len(t, (*out)[0].Tuple, 2)

	*out = nil
	right.Retract("R1", model.Location{}, 5)
	require.Len(t, *out, 1)
	assert.False(t, (*out)[0].Insert)
}

func TestJoinRefcountAvoidsDuplicateEmission(t *testing.T) {
	left := NewForEachNode(0)
	right := NewForEachNode(1)
	joined := Join(left, right,
		func(t Tuple) Key { return NewKey(t[0].Entity) },
		func(t Tuple) Key { return NewKey(t[0].Entity) },
	)
	out := collectDeltas(joined)

	right.Insert("R1", model.Location{}, 9)
	left.Insert("L1", model.Location{}, 9)
	require.Len(t, *out, 1)

	*out = nil
	// A second right-side tuple with the same key forms one genuinely new
	// pair, (L1,R2), which is emitted once; the existing (L1,R1) match must
	// not be emitted again.
	right.Insert("R2", model.Location{}, 9)
	require.Len(t, *out, 1)
}

func TestJoinNullKeyNeverMatches(t *testing.T) {
	left := NewForEachNode(0)
	right := NewForEachNode(1)
	joined := Join(left, right,
		func(t Tuple) Key { return NewKey(t[0].Entity) },
		func(t Tuple) Key { return NewKey(t[0].Entity) },
	)
	out := collectDeltas(joined)

	left.Insert("L1", model.Location{}, nil)
	right.Insert("R1", model.Location{}, nil)
	assert.Empty(t, *out, "null keys must never join")
}

func TestInequalityJoinOverlapping(t *testing.T) {
	left := NewForEachNode(0)
	right := NewForEachNode(1)
	joined := InequalityJoin(left, right, Overlapping,
		func(t Tuple) [2]float64 { return t[0].Entity.([2]float64) },
		func(t Tuple) [2]float64 { return t[0].Entity.([2]float64) },
	)
	out := collectDeltas(joined)

	left.Insert("L1", model.Location{}, [2]float64{0, 10})
	right.Insert("R1", model.Location{}, [2]float64{5, 15})
	require.Len(t, *out, 1)
	assert.True(t, (*out)[0].Insert)

	*out = nil
	right.Insert("R2", model.Location{}, [2]float64{20, 30})
	assert.Empty(t, *out, "non-overlapping interval must not match")
}

func TestUniquePairKeyCanonicalOrdering(t *testing.T) {
	pred := UniquePairKey(
		func(t Tuple) int64 { return t[0].Entity.(int64) },
		func(t Tuple) int64 { return t[1].Entity.(int64) },
	)
	assert.True(t, pred(Tuple{{Entity: int64(1)}, {Entity: int64(2)}}))
	assert.False(t, pred(Tuple{{Entity: int64(2)}, {Entity: int64(1)}}))
	assert.False(t, pred(Tuple{{Entity: int64(3)}, {Entity: int64(3)}}))
}
