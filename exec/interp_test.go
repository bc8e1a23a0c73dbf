package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DexterHill0/SPWN-language/bytecode"
	"github.com/DexterHill0/SPWN-language/ids"
	"github.com/DexterHill0/SPWN-language/value"
)

func newExecutor(prog *bytecode.Program) *Executor {
	return NewExecutor(prog, NewGlobals(Options{}))
}

func rootOf(fc *FullContext) *Context { return fc.Single }

// TestRunArithmeticLeavesResultOnStack covers §4.2's LoadConst/Plus and the
// implicit-return path (falling off the end of Funcs[0]).
func TestRunArithmeticLeavesResultOnStack(t *testing.T) {
	prog := &bytecode.Program{
		Funcs: []bytecode.FuncDef{{Instructions: []bytecode.Instruction{
			bytecode.LoadConst(0),
			bytecode.LoadConst(1),
			bytecode.Plus(),
		}}},
		Constants: []bytecode.ConstValue{
			{Kind: bytecode.ConstInt, Int: 2},
			{Kind: bytecode.ConstInt, Int: 3},
		},
	}
	ex := newExecutor(prog)
	root := NewSingle(NewContext("root", ids.Specific(0), 0, 0))

	final, err := ex.Run(root)
	require.NoError(t, err)
	require.NotNil(t, final)

	ctx := rootOf(final)
	require.Len(t, ctx.Stack, 1)
	got := ex.resolve(ctx.Stack[0])
	assert.Equal(t, value.Int(5), got)
}

// TestSplitProducesTwoIndependentLeaves covers §4.3: a plain Split gives
// each child its own deep-cloned copy of the popped operand, so mutating
// one never affects the other.
func TestSplitProducesTwoIndependentLeaves(t *testing.T) {
	prog := &bytecode.Program{
		Funcs: []bytecode.FuncDef{{Instructions: []bytecode.Instruction{
			bytecode.LoadConst(0),
			bytecode.LoadConst(1),
			bytecode.Split(),
		}}},
		Constants: []bytecode.ConstValue{
			{Kind: bytecode.ConstInt, Int: 1},
			{Kind: bytecode.ConstInt, Int: 2},
		},
	}
	ex := newExecutor(prog)
	root := NewSingle(NewContext("root", ids.Specific(0), 0, 0))

	final, err := ex.Run(root)
	require.NoError(t, err)
	require.NotNil(t, final)
	require.Nil(t, final.Single, "root should have become a Split node")

	leaves := final.Leaves()
	require.Len(t, leaves, 2)

	leftVal := ex.resolve(leaves[0].Single.Stack[0])
	rightVal := ex.resolve(leaves[1].Single.Stack[0])
	assert.Equal(t, value.Int(1), leftVal)
	assert.Equal(t, value.Int(2), rightVal)
	assert.NotEqual(t, leaves[0].Single.ID, leaves[1].Single.ID)
}

// TestJumpIfFalseSkipsOnFalseCondition covers §4.2 JumpIfFalse/Destinations.
func TestJumpIfFalseSkipsOnFalseCondition(t *testing.T) {
	prog := &bytecode.Program{
		Funcs: []bytecode.FuncDef{{Instructions: []bytecode.Instruction{
			bytecode.LoadConst(0),        // 0: push false
			bytecode.JumpIfFalse(0),      // 1: jump to dest 0 -> index 3
			bytecode.LoadConst(1),        // 2: skipped
			bytecode.LoadConst(2),        // 3: landed here
		}}},
		Constants: []bytecode.ConstValue{
			{Kind: bytecode.ConstBool, Bool: false},
			{Kind: bytecode.ConstInt, Int: 999},
			{Kind: bytecode.ConstInt, Int: 7},
		},
		Destinations: []int{3},
	}
	ex := newExecutor(prog)
	root := NewSingle(NewContext("root", ids.Specific(0), 0, 0))

	final, err := ex.Run(root)
	require.NoError(t, err)
	ctx := rootOf(final)
	require.Len(t, ctx.Stack, 1)
	assert.Equal(t, value.Int(7), ex.resolve(ctx.Stack[0]))
}

// TestEnterTriggerFunctionAssignsFreshGroupToInsideBranch covers §4.4: the
// outside branch gets a TriggerFunc value and skips to dest; the inside
// branch continues past the instruction tagged with a freshly allocated
// group.
func TestEnterTriggerFunctionAssignsFreshGroupToInsideBranch(t *testing.T) {
	prog := &bytecode.Program{
		Funcs: []bytecode.FuncDef{{Instructions: []bytecode.Instruction{
			bytecode.EnterTriggerFunction(0), // 0
			bytecode.PopTop(),                // 1: inside body
			bytecode.Jump(1),                 // 2: inside jumps past the outside landing spot
			bytecode.PopTop(),                // 3: outside landing spot
		}}},
		Destinations: []int{3, 4},
	}
	ex := newExecutor(prog)
	root := NewSingle(NewContext("root", ids.Specific(0), 0, 0))

	final, err := ex.Run(root)
	require.NoError(t, err)
	require.Nil(t, final.Single)

	leaves := final.Leaves()
	require.Len(t, leaves, 2)

	outside, inside := leaves[0].Single, leaves[1].Single
	assert.Equal(t, ids.Specific(0), outside.Group, "outside branch keeps the original group")
	assert.NotEqual(t, outside.Group, inside.Group, "inside branch must get a fresh group")
	assert.True(t, inside.Group.IsArbitrary())
}

func TestRunRespectsMaxTicks(t *testing.T) {
	prog := &bytecode.Program{
		Funcs: []bytecode.FuncDef{{Instructions: []bytecode.Instruction{
			bytecode.Jump(0),
		}}},
		Destinations: []int{0},
	}
	g := NewGlobals(Options{MaxTicks: 3})
	ex := NewExecutor(prog, g)
	root := NewSingle(NewContext("root", ids.Specific(0), 0, 0))

	_, err := ex.Run(root)
	require.Error(t, err)
	var tickErr *ErrMaxTicksExceeded
	require.ErrorAs(t, err, &tickErr)
	assert.Equal(t, 3, tickErr.MaxTicks)
}
