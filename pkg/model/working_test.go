package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queen struct {
	id  int
	row int
}

func queenDescriptor(n int) *Descriptor {
	d := NewDescriptor()
	d.AddValueRange(NewIntervalValueRange("row", 0, n-1))
	d.AddClass(ClassDescriptor{
		Name: "Queen",
		Variables: []VariableDescriptor{{
			Name:           "row",
			Kind:           Basic,
			ValueRangeName: "row",
			Get:            func(e any) int { return e.(*queen).row },
			Set:            func(e any, v int) { e.(*queen).row = v },
		}},
		IDOf: func(e any) any { return e.(*queen).id },
	})
	return d
}

func TestWorkingSolutionLocateAndMutate(t *testing.T) {
	d := queenDescriptor(4)
	qs := []any{&queen{id: 0, row: 0}, &queen{id: 1, row: 1}, &queen{id: 2, row: 2}, &queen{id: 3, row: 3}}
	ws := NewWorkingSolution(d, [][]any{qs})

	loc, ok := ws.Locate(2)
	require.True(t, ok)
	assert.Equal(t, Location{ClassIdx: 0, Pos: 2}, loc)

	old, err := ws.WriteVariable(loc, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, old)
	assert.Equal(t, 1, ws.ReadVariable(loc, 0))
}

func TestWorkingSolutionValueOutOfRange(t *testing.T) {
	d := queenDescriptor(4)
	ws := NewWorkingSolution(d, [][]any{{&queen{id: 0, row: 0}}})
	loc, _ := ws.Locate(0)
	_, err := ws.WriteVariable(loc, 0, 99)
	require.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestWorkingSolutionPinnedRejectsWrite(t *testing.T) {
	d := queenDescriptor(4)
	ws := NewWorkingSolution(d, [][]any{{&queen{id: 0, row: 0}}})
	loc, _ := ws.Locate(0)
	ws.SetPinned(loc, true)
	_, err := ws.WriteVariable(loc, 0, 1)
	require.ErrorIs(t, err, ErrEntityPinned)
}

func TestRemoveEntityUpdatesLocateForSwappedEntity(t *testing.T) {
	d := queenDescriptor(4)
	qs := []any{&queen{id: 0}, &queen{id: 1}, &queen{id: 2}}
	ws := NewWorkingSolution(d, [][]any{qs})

	ws.RemoveEntity(Location{ClassIdx: 0, Pos: 0})

	_, stillThere := ws.Locate(0)
	assert.False(t, stillThere)

	loc, ok := ws.Locate(2)
	require.True(t, ok, "entity swapped into the removed slot must be relocatable")
	assert.Equal(t, Location{ClassIdx: 0, Pos: 0}, loc)
	assert.Equal(t, 2, ws.EntityCount(0))
}
