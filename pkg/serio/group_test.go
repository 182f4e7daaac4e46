package serio

import (
	"testing"

	"github.com/solverforge/solverforge/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupCountEmitsRetractThenInsertOnChange(t *testing.T) {
	src := NewForEachNode(0)
	grouped := Group(src,
		func(t Tuple) Key { return NewKey(t[0].Entity.(string)) },
		func(t Tuple) any { return t[0].ID },
		func() Collector { return NewCountCollector() },
	)
	out := collectDeltas(grouped)

	src.Insert("a1", model.Location{}, "teamA")
	require.Len(t, *out, 1)
	assert.True(t, (*out)[0].Insert)
	assert.Equal(t, 1, (*out)[0].Tuple[0].Entity)

	*out = nil
	src.Insert("a2", model.Location{}, "teamA")
	require.Len(t, *out, 2)
	assert.False(t, (*out)[0].Insert)
	assert.Equal(t, 1, (*out)[0].Tuple[0].Entity)
	assert.True(t, (*out)[1].Insert)
	assert.Equal(t, 2, (*out)[1].Tuple[0].Entity)
}

func TestGroupDeletesEntryWhenBucketEmpties(t *testing.T) {
	src := NewForEachNode(0)
	grouped := Group(src,
		func(t Tuple) Key { return NewKey(t[0].Entity.(string)) },
		func(t Tuple) any { return t[0].ID },
		func() Collector { return NewCountCollector() },
	)
	out := collectDeltas(grouped)

	src.Insert("a1", model.Location{}, "teamA")
	*out = nil
	src.Retract("a1", model.Location{}, "teamA")
	require.Len(t, *out, 1, "bucket emptying should only retract, never insert a zero entry")
	assert.False(t, (*out)[0].Insert)
}

func TestIfExistsTogglesOnRightSideChange(t *testing.T) {
	left := NewForEachNode(0)
	right := NewForEachNode(1)
	stream := IfExists(left, right,
		func(t Tuple) Key { return NewKey(t[0].Entity) },
		func(t Tuple) Key { return NewKey(t[0].Entity) },
	)
	out := collectDeltas(stream)

	left.Insert("L1", model.Location{}, "x")
	assert.Empty(t, *out, "no right match yet")

	right.Insert("R1", model.Location{}, "x")
	require.Len(t, *out, 1)
	assert.True(t, (*out)[0].Insert)

	*out = nil
	right.Retract("R1", model.Location{}, "x")
	require.Len(t, *out, 1)
	assert.False(t, (*out)[0].Insert)
}

func TestIfNotExistsInverse(t *testing.T) {
	left := NewForEachNode(0)
	right := NewForEachNode(1)
	stream := IfNotExists(left, right,
		func(t Tuple) Key { return NewKey(t[0].Entity) },
		func(t Tuple) Key { return NewKey(t[0].Entity) },
	)
	out := collectDeltas(stream)

	left.Insert("L1", model.Location{}, "x")
	require.Len(t, *out, 1, "no right match: forwarded immediately")
	assert.True(t, (*out)[0].Insert)

	*out = nil
	right.Insert("R1", model.Location{}, "x")
	require.Len(t, *out, 1, "a match appearing must retract the previously-forwarded tuple")
	assert.False(t, (*out)[0].Insert)
}

func TestFlattenExpandsAndRetractsSymmetrically(t *testing.T) {
	src := NewForEachNode(0)
	flat := Flatten(src, func(t Tuple) []Tuple {
		members := t[0].Entity.([]string)
		out := make([]Tuple, len(members))
		for i, m := range members {
			out[i] = Tuple{{ID: m, Entity: m}}
		}
		return out
	})
	out := collectDeltas(flat)

	src.Insert("shift1", model.Location{}, []string{"alice", "bob"})
	require.Len(t, *out, 2)

	*out = nil
	src.Retract("shift1", model.Location{}, []string{"alice", "bob"})
	require.Len(t, *out, 2)
	assert.False(t, (*out)[0].Insert)
	assert.False(t, (*out)[1].Insert)
}
