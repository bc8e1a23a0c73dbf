package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DexterHill0/SPWN-language/memory"
)

func TestDeepCloneArrayProducesFreshKeys(t *testing.T) {
	arena := memory.NewArena[StoredValue]()
	inner := arena.Insert(StoredValue{Value: Int(1)})
	outer := arena.Insert(StoredValue{Value: Array{Keys: []memory.Key{inner}}})

	cloned := DeepClone(arena, outer)
	assert.NotEqual(t, outer, cloned, "DeepClone returned the same key as the source")

	clonedVal, ok := arena.Get(cloned)
	require.True(t, ok, "cloned key does not resolve")
	clonedArr := clonedVal.Value.(Array)
	assert.NotEqual(t, inner, clonedArr.Keys[0], "DeepClone shared the inner key instead of cloning it")

	innerVal, _ := arena.Get(clonedArr.Keys[0])
	assert.Equal(t, Int(1), innerVal.Value)
}

func TestDeepCloneIsIdempotentStructurally(t *testing.T) {
	arena := memory.NewArena[StoredValue]()
	k := arena.Insert(StoredValue{Value: Int(42)})

	c1 := DeepClone(arena, k)
	c2 := DeepClone(arena, c1)

	v1, _ := arena.Get(c1)
	v2, _ := arena.Get(c2)
	assert.Equal(t, v1.Value, v2.Value, "deep_clone(deep_clone(v)) must be structurally equal to deep_clone(v)")
}
