package object

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DexterHill0/SPWN-language/ids"
)

func TestNumberFormatSnapsNearIntegers(t *testing.T) {
	cases := []struct {
		in   Number
		want string
	}{
		{Number(5), "5"},
		{Number(5.0003), "5"},
		{Number(5.25), "5.250"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.in.Format())
	}
}

func TestGroupListFormatsArbitraryAsZero(t *testing.T) {
	gl := GroupList{IDs: []ids.Id{ids.Specific(5), ids.Arbitrary(0), ids.Specific(9)}}
	assert.Equal(t, "5.0.9", gl.Format())
}

func TestSerializeSingleTrigger(t *testing.T) {
	obj := NewTrigger()
	obj.Set(ObjectIDKey, Number(1007))
	obj.Set(TargetGroupKey, GroupParam{ID: ids.Specific(5)})
	obj.Set(SourceGroupKey, GroupParam{ID: ids.Specific(0)})
	obj.EnsureSignatureGroup()

	got := obj.Serialize()
	assert.True(t, strings.HasSuffix(got, "108,1;"), "Serialize() = %q, want suffix 108,1;", got)
	assert.Contains(t, got, "57,0.1001,")
}

func TestResolveAssignsSmallestFreeGroup(t *testing.T) {
	objs := []*GdObj{NewTrigger()}
	objs[0].Set(SourceGroupKey, GroupParam{ID: ids.Arbitrary(0)})

	require.NoError(t, Resolve("1,1,57,3;", objs, zerolog.Logger{}))
	got := objs[0].Params[SourceGroupKey].(GroupParam).ID
	assert.False(t, got.IsArbitrary())
	assert.Equal(t, uint16(1), got.Value())
}

// TestResolveAssignsSameClassIDsInKeyOrder guards I6: an object carrying
// two arbitrary ids of the same class (a trigger's own source group on 57
// next to an arbitrary target group on 51) must get the same concrete
// numbers every run, not whatever order Go's map iteration happens to
// visit obj.Params in.
func TestResolveAssignsSameClassIDsInKeyOrder(t *testing.T) {
	for i := 0; i < 20; i++ {
		obj := NewTrigger()
		obj.Set(TargetGroupKey, GroupParam{ID: ids.Arbitrary(0)}) // key 51
		obj.Set(SourceGroupKey, GroupParam{ID: ids.Arbitrary(1)}) // key 57
		objs := []*GdObj{obj}

		require.NoError(t, Resolve("", objs, zerolog.Logger{}))
		target := objs[0].Params[TargetGroupKey].(GroupParam).ID
		source := objs[0].Params[SourceGroupKey].(GroupParam).ID
		assert.Equal(t, uint16(1), target.Value(), "iteration %d: key 51 must resolve first", i)
		assert.Equal(t, uint16(2), source.Value(), "iteration %d: key 57 must resolve second", i)
	}
}

func TestResolveOverflowsReportsLevelLimitExceeded(t *testing.T) {
	objs := make([]*GdObj, 0, 1000)
	for i := 0; i < 1000; i++ {
		o := NewTrigger()
		o.Set(SourceGroupKey, GroupParam{ID: ids.Arbitrary(uint32(i))})
		objs = append(objs, o)
	}

	err := Resolve("", objs, zerolog.Logger{})
	require.Error(t, err)
	limitErr, ok := err.(*LevelLimitExceededError)
	require.True(t, ok, "error type = %T, want *LevelLimitExceededError", err)
	assert.Equal(t, ids.Group, limitErr.Class)
}

func TestRemoveSignatureObjectsStripsPriorRunOutput(t *testing.T) {
	level := "1,1,57,1001;1,1,57,2;"
	got := RemoveSignatureObjects(level)
	assert.NotContains(t, got, "1001")
	assert.Contains(t, got, "57,2")
}
