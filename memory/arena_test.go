package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaInsertGet(t *testing.T) {
	a := NewArena[int]()
	k := a.Insert(42)
	v, ok := a.Get(k)
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestArenaRemoveInvalidatesKey(t *testing.T) {
	a := NewArena[string]()
	k := a.Insert("hello")
	require.True(t, a.Remove(k), "Remove returned false for live key")
	_, ok := a.Get(k)
	assert.False(t, ok, "Get succeeded after Remove")
}

func TestArenaRecyclesSlotsWithFreshGeneration(t *testing.T) {
	a := NewArena[int]()
	k1 := a.Insert(1)
	a.Remove(k1)
	k2 := a.Insert(2)

	_, ok := a.Get(k1)
	assert.False(t, ok, "stale key k1 resolved after slot recycled")

	v, ok := a.Get(k2)
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestArenaSet(t *testing.T) {
	a := NewArena[int]()
	k := a.Insert(1)
	require.True(t, a.Set(k, 99), "Set returned false for live key")
	v, _ := a.Get(k)
	assert.Equal(t, 99, v)
}

func TestArenaLen(t *testing.T) {
	a := NewArena[int]()
	k1 := a.Insert(1)
	a.Insert(2)
	assert.Equal(t, 2, a.Len())
	a.Remove(k1)
	assert.Equal(t, 1, a.Len())
}
