package spwn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DexterHill0/SPWN-language/bytecode"
	"github.com/DexterHill0/SPWN-language/ids"
)

// buildSingleTriggerProgram returns a one-function program equivalent to
// §8 scenario 1: build a trigger {1: 1007, 51: <group>}, AddObject, done.
// The group comes from LoadArbitraryId since this bytecode set has no
// "push a literal specific id" opcode (that lowering is the external
// compiler's job, out of scope here).
func buildSingleTriggerProgram() *bytecode.Program {
	consts := []bytecode.ConstValue{
		{Kind: bytecode.ConstInt, Int: 1},
		{Kind: bytecode.ConstInt, Int: 1007},
		{Kind: bytecode.ConstInt, Int: 51},
	}
	instrs := []bytecode.Instruction{
		bytecode.LoadConst(0), // key 1
		bytecode.LoadConst(1), // value 1007
		bytecode.LoadConst(2), // key 51
		bytecode.LoadArbitraryID(int(ids.Group)), // value: fresh group
		bytecode.BuildTrigger(2),
		bytecode.AddObject(),
	}
	return &bytecode.Program{
		Funcs:     []bytecode.FuncDef{{Instructions: instrs}},
		Constants: consts,
	}
}

func TestRunSingleTriggerAppendsSignedTrigger(t *testing.T) {
	prog := buildSingleTriggerProgram()
	it := New(Options{})

	out, err := it.Run(prog, "")
	require.NoError(t, err)

	assert.Contains(t, out, "57,0.1001,", "trigger's source group must carry the signature group")
	assert.Contains(t, out, "108,1;", "trigger must be linked-group terminated")
	assert.Contains(t, out, "1,1007,")
}

func TestRunStripsPriorRunSignatureBeforeAppending(t *testing.T) {
	prog := buildSingleTriggerProgram()
	it := New(Options{})

	existing := "1,1,57,1001;1,1,57,2;"
	out, err := it.Run(prog, existing)
	require.NoError(t, err)

	assert.NotContains(t, out, "57,1001;", "must strip a prior run's signed objects first")
	assert.Contains(t, out, "57,2;", "must keep objects outside the signature group")
}
