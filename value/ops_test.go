package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DexterHill0/SPWN-language/memory"
)

func TestPlusPromotesMixedIntFloatToFloat(t *testing.T) {
	got, err := Plus(Int(1), Float(2.5))
	require.NoError(t, err)
	assert.Equal(t, Float(3.5), got)
}

func TestPlusIntStaysInt(t *testing.T) {
	got, err := Plus(Int(1), Int(2))
	require.NoError(t, err)
	assert.Equal(t, Int(3), got)
}

func TestMultStringRepeat(t *testing.T) {
	got, err := Mult(String("ab"), Int(3))
	require.NoError(t, err)
	assert.Equal(t, String("ababab"), got)
}

func TestMultNegativeRepeatYieldsEmptyString(t *testing.T) {
	got, err := Mult(String("ab"), Int(-1))
	require.NoError(t, err)
	assert.Equal(t, String(""), got)
}

func TestDivByZeroIntErrors(t *testing.T) {
	_, err := Div(Int(1), Int(0))
	assert.IsType(t, &DivideByZeroError{}, err)
}

func TestPlusArraySharesKeysNotDeepClone(t *testing.T) {
	k1 := memory.Key{}
	a := Array{Keys: []memory.Key{k1}}
	b := Array{Keys: []memory.Key{k1}}
	got, err := Plus(a, b)
	require.NoError(t, err)
	arr, ok := got.(Array)
	require.True(t, ok)
	require.Len(t, arr.Keys, 2)
	assert.Equal(t, k1, arr.Keys[0])
	assert.Equal(t, k1, arr.Keys[1])
}

type fakeResolver map[memory.Key]StoredValue

func (r fakeResolver) Get(k memory.Key) (StoredValue, bool) {
	v, ok := r[k]
	return v, ok
}

func TestEqualityNumericMixedIntFloat(t *testing.T) {
	assert.True(t, Equality(nil, Int(1), Float(1.0)))
}

func TestEqualityElementwiseArrays(t *testing.T) {
	arena := NewArenaStub()
	k1 := arena.Insert(StoredValue{Value: Int(1)})
	k2 := arena.Insert(StoredValue{Value: Int(1)})
	a := Array{Keys: []memory.Key{k1}}
	b := Array{Keys: []memory.Key{k2}}
	assert.True(t, Equality(arena, a, b))
}

func TestMatchesPatternAnyMatchesEverything(t *testing.T) {
	assert.True(t, MatchesPattern(Int(1), AnyPattern()))
}

func TestMatchesPatternTypeChecksTag(t *testing.T) {
	intType := TypeIndicator{Builtin: TInt}
	assert.True(t, MatchesPattern(Int(1), TypePattern(intType)))
	assert.False(t, MatchesPattern(Float(1), TypePattern(intType)))
}

// NewArenaStub returns a memory.Arena[StoredValue] wrapped so this
// package's tests don't need to import memory's generic type directly at
// every call site.
func NewArenaStub() *memory.Arena[StoredValue] {
	return memory.NewArena[StoredValue]()
}
