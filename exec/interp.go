package exec

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/DexterHill0/SPWN-language/bytecode"
	"github.com/DexterHill0/SPWN-language/ids"
	"github.com/DexterHill0/SPWN-language/memory"
	"github.com/DexterHill0/SPWN-language/object"
	"github.com/DexterHill0/SPWN-language/value"
)

// Executor drives one interpreter run: the immutable Program plus the
// Globals it mutates as it ticks every leaf of a FullContext tree
// forward, grounded on the teacher's agoraFuncVM dispatch loop
// (runtime/funcvm.go) generalized from "one linear stack per call" to
// "one instruction per tick per context-tree leaf", and on
// original_source/src/interpreter/interpreter.rs's execute_code.
type Executor struct {
	Prog *Program
	G    *Globals
}

// Program is an alias kept local to exec so interp.go reads naturally
// next to Globals/Context without every signature spelling out the
// bytecode package name.
type Program = bytecode.Program

// NewExecutor returns an Executor ready to Run prog against g.
func NewExecutor(prog *Program, g *Globals) *Executor {
	return &Executor{Prog: prog, G: g}
}

// ErrMaxTicksExceeded is returned by Run when opt.maxTicks is positive
// and the loop reaches it without every context finishing; it is the
// safety valve Options.MaxTicks configures, not part of §7's taxonomy.
type ErrMaxTicksExceeded struct {
	MaxTicks int
}

func (e *ErrMaxTicksExceeded) Error() string {
	return fmt.Sprintf("exec: exceeded max ticks (%d)", e.MaxTicks)
}

// Run drives root to completion: every tick advances every
// non-returned, non-dead leaf by one instruction, then prunes leaves
// whose Pos emptied out without returning (yeeted contexts). Returned
// leaves stay in the tree for finishReturns. It returns the (possibly
// pruned-to-nil) final tree, or the first unhandled runtime error
// encountered (§4.4, §7 Propagation: "With no Try, the error escapes the
// interpreter").
func (ex *Executor) Run(root *FullContext) (*FullContext, error) {
	ticks := 0
	for root != nil {
		if ex.allSettled(root) {
			break
		}
		for _, leaf := range root.Leaves() {
			ctx := leaf.Single
			if ctx.IsDead() || ctx.Returned != ReturnNone {
				continue
			}
			if err := ex.step(leaf); err != nil {
				return root, err
			}
		}
		before := len(root.Leaves())
		root = Prune(root, func(c *Context) bool { return c.IsDead() && c.Returned == ReturnNone })
		after := 0
		if root != nil {
			after = len(root.Leaves())
		}
		if after < before {
			ex.G.logger().Debug().Int("tick", ticks).Int("pruned", before-after).Msg("pruned dead contexts")
		}
		ticks++
		if ex.G.opt.maxTicks > 0 && ticks >= ex.G.opt.maxTicks && root != nil && !ex.allSettled(root) {
			return root, &ErrMaxTicksExceeded{MaxTicks: ex.G.opt.maxTicks}
		}
	}
	ex.G.logger().Debug().Int("ticks", ticks).Msg("interpreter run complete")

	if root != nil {
		ex.finishReturns(root)
	}
	return root, nil
}

// allSettled reports whether every leaf of root has either died or
// returned, i.e. nothing remains to advance this tick.
func (ex *Executor) allSettled(root *FullContext) bool {
	for _, leaf := range root.Leaves() {
		c := leaf.Single
		if !c.IsDead() && c.Returned == ReturnNone {
			return false
		}
	}
	return true
}

// finishReturns implements §4.4's end-of-run rule: "if any leaf returned
// explicitly, discard implicit-return leaves; finally clear all return
// markers." This only ever matters for the outermost frame of a whole
// program run (a nested Call's return is handled by popReturn while the
// tick loop is still advancing, long before Run returns), so it is a
// one-time cleanup pass here rather than a per-call mechanic.
func (ex *Executor) finishReturns(root *FullContext) {
	leaves := root.Leaves()
	anyExplicit := false
	for _, leaf := range leaves {
		if leaf.Single.Returned == ReturnExplicit {
			anyExplicit = true
			break
		}
	}
	if anyExplicit {
		for _, leaf := range leaves {
			if leaf.Single.Returned == ReturnImplicit {
				leaf.Single.Yeet()
			}
		}
	}
	for _, leaf := range leaves {
		leaf.Single.Returned = ReturnNone
	}
}

// step executes exactly one instruction for leaf's context (§4.4 step
// 1-3): pop an exhausted frame (return), or decode-and-execute, then
// advance the frame's index unless the instruction already jumped.
func (ex *Executor) step(leaf *FullContext) error {
	ctx := leaf.Single
	frame := ctx.CurrentFrame()
	if frame == nil {
		ctx.Yeet()
		return nil
	}
	fn := &ex.Prog.Funcs[frame.FuncID]
	if frame.Pos >= len(fn.Instructions) {
		ex.popReturn(ctx, false)
		return nil
	}

	instr := fn.Instructions[frame.Pos]
	advanced, err := ex.exec(leaf, instr)
	if err != nil {
		if ex.catch(ctx, err) {
			return nil
		}
		return err
	}
	if !advanced {
		if cur := ctx.CurrentFrame(); cur != nil {
			cur.Pos++
		}
	}
	return nil
}

// catch implements §4.4 "Error handling": search ctx's block stack,
// innermost first, for the nearest Try; pop everything above (and
// including) it and jump to its handler. Reports false, leaving ctx
// untouched, if no Try exists (the error then escapes Run per §7).
func (ex *Executor) catch(ctx *Context, _ error) bool {
	for i := len(ctx.BlockStack) - 1; i >= 0; i-- {
		b := ctx.BlockStack[i]
		if b.Kind == BlockTry {
			ex.popBlocksAbove(ctx, i)
			if frame := ctx.CurrentFrame(); frame != nil {
				frame.Pos = b.Handler
			}
			return true
		}
	}
	return false
}

// popBlocksAbove truncates ctx's block/iter stacks down to (and
// including) index i, unwinding any `for` iterators the handler search
// stepped past.
func (ex *Executor) popBlocksAbove(ctx *Context, i int) {
	for j := len(ctx.BlockStack) - 1; j >= i; j-- {
		if ctx.BlockStack[j].Kind == BlockFor && len(ctx.IterStack) > 0 {
			ctx.IterStack = ctx.IterStack[:len(ctx.IterStack)-1]
		}
	}
	ctx.BlockStack = ctx.BlockStack[:i]
}

// popReturn implements §4.3 Return: pop the top frame. If a caller frame
// remains below it (the frame was pushed by Call), consult Globals'
// live-call set first: the first sibling to finish a shared call wins
// and evicts it; any other branch that later tries to finish the SAME
// call-id instead yeets (the call was abandoned). The program's root
// frame is popped without a live-call check.
// explicit distinguishes a ReturnValue-driven return from falling off
// the end of a function body.
func (ex *Executor) popReturn(ctx *Context, explicit bool) {
	frame := ctx.CurrentFrame()
	if frame == nil {
		ctx.Yeet()
		return
	}
	callID := frame.CallID
	hasCall := len(ctx.Pos) > 1 // the root frame (program entry) carries no real call-id contention

	if hasCall {
		if !ex.G.CallIsLive(callID) {
			ctx.Yeet()
			return
		}
		ex.G.EvictCall(callID)
	}

	ctx.PopFrame()
	if ctx.IsDead() {
		if explicit {
			ctx.Returned = ReturnExplicit
		} else {
			ctx.Returned = ReturnImplicit
		}
	}
}

// pop removes and returns the top of ctx's operand stack. Per I1, every
// key popped here is still live in the arena; a context that underflows
// its stack indicates a compiler/bytecode invariant violation, not a
// user error (§7 "Fatal / non-recoverable").
func (ex *Executor) pop(ctx *Context) memory.Key {
	k, ok := ctx.Pop()
	if !ok {
		panic("exec: operand stack underflow")
	}
	return k
}

func (ex *Executor) popValue(ctx *Context) value.Value {
	return ex.resolve(ex.pop(ctx))
}

func (ex *Executor) resolve(k memory.Key) value.Value {
	sv, ok := ex.G.Arena.Get(k)
	if !ok {
		panic("exec: stale arena key")
	}
	return sv.Value
}

func (ex *Executor) push(ctx *Context, v value.Value) {
	ctx.Push(ex.G.Arena.Insert(value.StoredValue{Value: v}))
}

func (ex *Executor) pushKey(ctx *Context, k memory.Key) { ctx.Push(k) }

// exec dispatches one instruction. It returns advanced=true if it
// already repositioned the frame's Pos itself (a jump, split, or
// control-flow instruction), so step should not also add 1.
func (ex *Executor) exec(leaf *FullContext, instr bytecode.Instruction) (advanced bool, err error) {
	ctx := leaf.Single
	frame := ctx.CurrentFrame()
	op := instr.Op

	if op.IsBinaryOp() {
		return false, ex.binaryOp(ctx, op)
	}

	switch op {
	case bytecode.OpLoadConst:
		c := ex.Prog.Constants[instr.Operand]
		ex.push(ctx, constToValue(c))

	case bytecode.OpLoadVar:
		k, ok := ctx.GetVar(instr.Operand)
		if !ok {
			panic("exec: read of unbound variable")
		}
		ex.pushKey(ctx, value.DeepClone(ex.G.Arena, k))

	case bytecode.OpSetVar:
		k := ex.pop(ctx)
		ctx.ReplaceVar(instr.Operand, value.DeepClone(ex.G.Arena, k))

	case bytecode.OpNegate:
		v, e := value.UnaryNegate(ex.popValue(ctx))
		if e != nil {
			return false, e
		}
		ex.push(ctx, v)

	case bytecode.OpNot:
		v, e := value.UnaryNot(ex.popValue(ctx))
		if e != nil {
			return false, e
		}
		ex.push(ctx, v)

	case bytecode.OpPrint:
		ex.doPrint(ex.popValue(ctx))

	case bytecode.OpLoadType:
		name := ex.Prog.Names[instr.Operand]
		ex.push(ctx, value.TypeIndicator{IsUser: true, Name: name, UserID: userTypeHash(name)})

	case bytecode.OpJump:
		frame.Pos = ex.Prog.Destination(instr.Operand)
		return true, nil

	case bytecode.OpJumpIfFalse:
		cond, e := value.ToBool(ex.popValue(ctx))
		if e != nil {
			return false, e
		}
		if !cond {
			frame.Pos = ex.Prog.Destination(instr.Operand)
			return true, nil
		}

	case bytecode.OpToIter:
		it, e := value.ToIter(ex.popValue(ctx))
		if e != nil {
			return false, e
		}
		ctx.IterStack = append(ctx.IterStack, it)
		ctx.BlockStack = append(ctx.BlockStack, Block{Kind: BlockFor})

	case bytecode.OpIterNext:
		if !ex.iterNext(ctx) {
			frame.Pos = ex.Prog.Destination(instr.Operand)
			return true, nil
		}

	case bytecode.OpPopBlock:
		for i := 0; i < instr.Operand; i++ {
			ex.popOneBlock(ctx)
		}

	case bytecode.OpPushTry:
		ctx.BlockStack = append(ctx.BlockStack, Block{Kind: BlockTry, Handler: ex.Prog.Destination(instr.Operand)})

	case bytecode.OpYeetContext:
		ctx.Yeet()
		return true, nil

	case bytecode.OpReturnValue:
		ex.popReturn(ctx, true)
		return true, nil

	case bytecode.OpBuildArray:
		ex.buildArray(ctx, instr.Operand)

	case bytecode.OpBuildDict:
		ex.buildDict(ctx, instr.Operand)

	case bytecode.OpPushEmpty:
		ex.push(ctx, value.Empty{})

	case bytecode.OpPushNone:
		ex.push(ctx, value.Maybe{HasValue: false})

	case bytecode.OpWrapMaybe:
		k := ex.pop(ctx)
		ex.push(ctx, value.Maybe{Key: k, HasValue: true})

	case bytecode.OpPushAnyPattern:
		ex.push(ctx, value.AnyPattern())

	case bytecode.OpMakeMacro:
		ex.makeMacro(ctx, instr.Operand)

	case bytecode.OpMakeMacroPattern:
		ex.makeMacroPattern(ctx, instr.Operand)

	case bytecode.OpBuildObject:
		obj, e := ex.buildGdObj(ctx, instr.Operand, object.ModeObject)
		if e != nil {
			return false, e
		}
		ex.push(ctx, value.Object{Obj: obj})

	case bytecode.OpBuildTrigger:
		obj, e := ex.buildGdObj(ctx, instr.Operand, object.ModeTrigger)
		if e != nil {
			return false, e
		}
		ex.push(ctx, value.Object{Obj: obj})

	case bytecode.OpAddObject:
		ex.addObject(ctx)

	case bytecode.OpTriggerFuncCall:
		e := ex.triggerFuncCall(ctx)
		if e != nil {
			return false, e
		}

	case bytecode.OpLoadArbitraryId:
		id := ex.G.AllocArbitrary(ids.Class(instr.Operand))
		ex.push(ctx, idValue(ids.Class(instr.Operand), id))

	case bytecode.OpEnterTriggerFunction:
		ex.enterTriggerFunction(leaf, instr.Operand)
		return true, nil

	case bytecode.OpEnterArrowStatement:
		ex.enterArrowStatement(leaf, instr.Operand)
		return true, nil

	case bytecode.OpMergeContexts:
		ex.mergeContexts(ctx)

	case bytecode.OpCall:
		e := ex.call(leaf, instr.Operand)
		if e != nil {
			return false, e
		}
		return true, nil

	case bytecode.OpIndex:
		e := ex.index(ctx)
		if e != nil {
			return false, e
		}

	case bytecode.OpPopTop:
		ex.pop(ctx)

	case bytecode.OpSplit:
		ex.split(leaf)
		return true, nil

	case bytecode.OpLoadTypeDef:
		return false, &NotImplementedError{What: "TypeDef"}

	case bytecode.OpImpl:
		return false, &NotImplementedError{What: "Impl"}

	case bytecode.OpInstance:
		return false, &NotImplementedError{What: "Instance"}

	default:
		panic(fmt.Sprintf("exec: unknown opcode %s", op))
	}
	return false, nil
}

func constToValue(c bytecode.ConstValue) value.Value {
	switch c.Kind {
	case bytecode.ConstInt:
		return value.Int(c.Int)
	case bytecode.ConstFloat:
		return value.Float(c.Flt)
	case bytecode.ConstString:
		return value.String(c.Str)
	case bytecode.ConstBool:
		return value.Bool(c.Bool)
	default:
		panic("exec: unknown constant kind")
	}
}

// binaryOp dispatches one of the arithmetic/comparison/Is opcodes
// through value's op surface (§4.4 "Operator instructions"). Equality
// and ordering need the arena to recurse into arrays/dicts, so ex
// itself (via Globals.Arena) is passed as the value.Resolver.
func (ex *Executor) binaryOp(ctx *Context, op bytecode.Opcode) error {
	b := ex.popValue(ctx)
	a := ex.popValue(ctx)

	var result value.Value
	var err error
	switch op {
	case bytecode.OpPlus:
		result, err = value.Plus(a, b)
	case bytecode.OpMinus:
		result, err = value.Minus(a, b)
	case bytecode.OpMult:
		result, err = value.Mult(a, b)
	case bytecode.OpDiv:
		result, err = value.Div(a, b)
	case bytecode.OpMod:
		result, err = value.Mod(a, b)
	case bytecode.OpPow:
		result, err = value.Pow(a, b)
	case bytecode.OpEq:
		result = value.Bool(value.Equality(ex.G.Arena, a, b))
	case bytecode.OpNotEq:
		result = value.Bool(!value.Equality(ex.G.Arena, a, b))
	case bytecode.OpGreater:
		result, err = value.Greater(a, b)
	case bytecode.OpGreaterEq:
		result, err = value.GreaterEq(a, b)
	case bytecode.OpLesser:
		result, err = value.Lesser(a, b)
	case bytecode.OpLesserEq:
		result, err = value.LesserEq(a, b)
	case bytecode.OpIs:
		result, err = value.Is(a, b)
	default:
		panic(fmt.Sprintf("exec: %s is not a binary op", op))
	}
	if err != nil {
		return err
	}
	ex.push(ctx, result)
	return nil
}

// doPrint writes v colored the way the original's Print instruction
// does (ansi_term Green for strings, Blue otherwise), via
// github.com/fatih/color, the teacher-adjacent dependency wired for
// exactly this purpose (SPEC_FULL §3 Logging).
func (ex *Executor) doPrint(v value.Value) {
	if s, ok := v.(value.String); ok {
		color.New(color.FgGreen).Println(string(s))
		return
	}
	color.New(color.FgBlue).Println(v.String())
}

// iterNext implements §4.4's IterNext: advance the innermost active
// iterator, deep-cloning the next element onto ctx's stack, or report
// false on exhaustion so the caller jumps past the loop body. Dict
// iteration yields a two-element array [StringKey, ValueClone].
func (ex *Executor) iterNext(ctx *Context) bool {
	n := len(ctx.IterStack)
	if n == 0 {
		panic("exec: IterNext with no active iterator")
	}
	it := ctx.IterStack[n-1]
	switch it.Kind {
	case value.IterArray:
		k, ok := it.NextArrayKey()
		if !ok {
			return false
		}
		ex.pushKey(ctx, value.DeepClone(ex.G.Arena, k))
		return true
	case value.IterDict:
		e, ok := it.NextDictEntry()
		if !ok {
			return false
		}
		nameKey := ex.G.Arena.Insert(value.StoredValue{Value: value.String(e.Name)})
		valKey := value.DeepClone(ex.G.Arena, e.Key)
		ex.push(ctx, value.Array{Keys: []memory.Key{nameKey, valKey}})
		return true
	case value.IterString:
		c, ok := it.NextChar()
		if !ok {
			return false
		}
		ex.push(ctx, value.String(c))
		return true
	default:
		panic("exec: unknown iterator kind")
	}
}

// popOneBlock pops one entry off ctx's block stack, also popping the
// matching iterator when the block was a `for` (exec.Context models
// IterStack and BlockStack as two parallel stacks rather than an
// iterator embedded in the Block enum the way contexts.rs does).
func (ex *Executor) popOneBlock(ctx *Context) {
	n := len(ctx.BlockStack)
	if n == 0 {
		return
	}
	b := ctx.BlockStack[n-1]
	ctx.BlockStack = ctx.BlockStack[:n-1]
	if b.Kind == BlockFor && len(ctx.IterStack) > 0 {
		ctx.IterStack = ctx.IterStack[:len(ctx.IterStack)-1]
	}
}

func (ex *Executor) buildArray(ctx *Context, n int) {
	keys := make([]memory.Key, n)
	for i := n - 1; i >= 0; i-- {
		keys[i] = ex.pop(ctx)
	}
	ex.push(ctx, value.Array{Keys: keys})
}

// buildDict pops len(nameSet) values (one per name, in nameSet order,
// deepest-first on the stack so the first name corresponds to the
// bottommost popped value) and assembles a Dict.
func (ex *Executor) buildDict(ctx *Context, nameSetID int) {
	names := ex.Prog.NameSets[nameSetID]
	d := value.NewDict()
	vals := make([]memory.Key, len(names))
	for i := len(names) - 1; i >= 0; i-- {
		vals[i] = ex.pop(ctx)
	}
	for i, name := range names {
		d.Set(name, vals[i])
	}
	ex.push(ctx, *d)
}

// makeMacro implements §4.4 MakeMacro: pop the return pattern, then for
// each arg in reverse declaration order pop its default (if flagged)
// and pattern (if flagged), and capture the current value of every
// compile-time id in capture_ids.
func (ex *Executor) makeMacro(ctx *Context, id int) {
	mbi := ex.Prog.MacroBuildInfo[id]
	retPat, err := value.ToPattern(ex.popValue(ctx))
	if err != nil {
		retPat = value.AnyPattern()
	}

	n := len(mbi.Args)
	args := make([]value.MacroArg, n)
	for i := n - 1; i >= 0; i-- {
		info := mbi.Args[i]
		arg := value.MacroArg{Name: info.Name}
		if info.HasDefault {
			k := ex.pop(ctx)
			arg.Default = &k
		}
		if info.HasPattern {
			pat, _ := value.ToPattern(ex.popValue(ctx))
			arg.Pattern = &pat
		}
		args[i] = arg
	}

	fn := &ex.Prog.Funcs[mbi.FuncID]
	captures := make([]memory.Key, len(fn.CaptureIDs))
	for i, vid := range fn.CaptureIDs {
		if k, ok := ctx.GetVar(vid); ok {
			captures[i] = value.DeepClone(ex.G.Arena, k)
		}
	}

	ex.push(ctx, &value.Macro{FuncID: mbi.FuncID, Args: args, CaptureKeys: captures, RetType: retPat})
}

// makeMacroPattern assembles a Macro-shaped Pattern from argAmount
// argument patterns plus a return pattern, both read top-down off the
// stack (mirrors MakeMacro's pattern half without building a callable).
func (ex *Executor) makeMacroPattern(ctx *Context, argAmount int) {
	retPat, _ := value.ToPattern(ex.popValue(ctx))
	argPats := make([]value.Pattern, argAmount)
	for i := argAmount - 1; i >= 0; i-- {
		p, _ := value.ToPattern(ex.popValue(ctx))
		argPats[i] = p
	}
	ex.push(ctx, value.MacroPattern(argPats, retPat))
}

// buildGdObj implements §4.4 BuildObject/BuildTrigger: pop n (key,
// value) pairs and coerce each value to an ObjParam.
func (ex *Executor) buildGdObj(ctx *Context, n int, mode object.Mode) (*object.GdObj, error) {
	type pair struct {
		key uint16
		val value.Value
	}
	pairs := make([]pair, n)
	for i := n - 1; i >= 0; i-- {
		v := ex.popValue(ctx)
		kv := ex.popValue(ctx)
		keyInt, ok := kv.(value.Int)
		if !ok {
			return nil, &value.TypeMismatchError{Value: kv, Expected: value.TInt}
		}
		pairs[i] = pair{key: uint16(keyInt), val: v}
	}

	obj := &object.GdObj{Params: map[uint16]object.ObjParam{}, Mode: mode}
	for _, p := range pairs {
		param, err := toObjParam(p.val)
		if err != nil {
			return nil, err
		}
		obj.Params[p.key] = param
	}
	return obj, nil
}

func toObjParam(v value.Value) (object.ObjParam, error) {
	switch c := v.(type) {
	case value.Int:
		return object.Number(c), nil
	case value.Float:
		return object.Number(c), nil
	case value.String:
		return object.Text(c), nil
	case value.Bool:
		return object.BoolParam(c), nil
	case value.Group:
		return object.GroupParam{ID: c.ID}, nil
	case value.Color:
		return object.ColorParam{ID: c.ID}, nil
	case value.Block:
		return object.BlockParam{ID: c.ID}, nil
	case value.Item:
		return object.ItemParam{ID: c.ID}, nil
	case value.TriggerFunc:
		return object.GroupParam{ID: c.StartGroup}, nil
	default:
		return nil, &value.TypeMismatchError{Value: v, Expected: value.TObject}
	}
}

// addObject implements §4.4 AddObject: route a popped Object value into
// Globals.Objects or, for a trigger, stamp its source group (param 57)
// with ctx's current group first.
func (ex *Executor) addObject(ctx *Context) {
	obj, ok := ex.popValue(ctx).(value.Object)
	if !ok {
		panic("exec: AddObject popped a non-Object value")
	}
	if obj.Obj.Mode == object.ModeTrigger {
		obj.Obj.Set(object.SourceGroupKey, object.GroupParam{ID: ctx.Group})
		ex.G.Triggers = append(ex.G.Triggers, obj.Obj)
		return
	}
	ex.G.Objects = append(ex.G.Objects, obj.Obj)
}

// triggerFuncCall implements §4.4 TriggerFuncCall: pop a TriggerFunc and
// emit a synthetic spawn trigger {1: 1268, 51: target, 57: ctx.group}.
func (ex *Executor) triggerFuncCall(ctx *Context) error {
	v := ex.popValue(ctx)
	tf, ok := v.(value.TriggerFunc)
	if !ok {
		return &CannotCallError{Value: v}
	}
	trig := object.NewTrigger()
	trig.Set(object.ObjectIDKey, object.Number(object.SpawnTriggerID))
	trig.Set(object.TargetGroupKey, object.GroupParam{ID: tf.StartGroup})
	trig.Set(object.SourceGroupKey, object.GroupParam{ID: ctx.Group})
	ex.G.Triggers = append(ex.G.Triggers, trig)
	return nil
}

func idValue(class ids.Class, id ids.Id) value.Value {
	switch class {
	case ids.Group:
		return value.Group{ID: id}
	case ids.Color:
		return value.Color{ID: id}
	case ids.Block:
		return value.Block{ID: id}
	default:
		return value.Item{ID: id}
	}
}

// enterTriggerFunction implements §4.4 EnterTriggerFunction: split the
// leaf; the outside child jumps past the function body carrying a fresh
// TriggerFunc on its stack, the inside child adopts that fresh group and
// falls straight into the body.
func (ex *Executor) enterTriggerFunction(leaf *FullContext, destID int) {
	dest := ex.Prog.Destination(destID)
	outside, inside := leaf.Split(ex.G.Arena)

	freshGroup := ex.G.AllocArbitrary(ids.Group)

	outsideFrame := outside.CurrentFrame()
	outsideFrame.Pos = dest
	ex.push(outside, value.TriggerFunc{StartGroup: freshGroup})

	inside.Group = freshGroup
	if insideFrame := inside.CurrentFrame(); insideFrame != nil {
		insideFrame.Pos++
	}
	ex.G.logger().Debug().Str("outside", outside.ID).Str("inside", inside.ID).
		Str("group", freshGroup.String()).Msg("entered trigger function")
}

// enterArrowStatement implements §4.4 EnterArrowStatement: the same
// split as EnterTriggerFunction, but both children continue in straight
// code (no TriggerFunc value, no group change) — outside skips the arrow
// body, inside enters it.
func (ex *Executor) enterArrowStatement(leaf *FullContext, destID int) {
	dest := ex.Prog.Destination(destID)
	outside, inside := leaf.Split(ex.G.Arena)

	outside.CurrentFrame().Pos = dest
	if insideFrame := inside.CurrentFrame(); insideFrame != nil {
		insideFrame.Pos++
	}
	ex.G.logger().Debug().Str("outside", outside.ID).Str("inside", inside.ID).
		Msg("entered arrow statement")
}

// split implements the plain Split instruction: pop b then a, split the
// leaf, push a onto the left child and b onto the right, both advance
// past the instruction normally.
func (ex *Executor) split(leaf *FullContext) {
	ctx := leaf.Single
	b := ex.pop(ctx)
	a := ex.pop(ctx)

	left, right := leaf.Split(ex.G.Arena)
	ex.pushKey(left, a)
	ex.pushKey(right, value.DeepClone(ex.G.Arena, b))
	ex.G.logger().Debug().Str("left", left.ID).Str("right", right.ID).Msg("split context")

	if f := left.CurrentFrame(); f != nil {
		f.Pos++
	}
	if f := right.CurrentFrame(); f != nil {
		f.Pos++
	}
}

// index implements the Index instruction: pop an index then a
// container, push the selected element (deep-cloned) or error per §8
// boundary behavior ("Array/string index out of range must error").
func (ex *Executor) index(ctx *Context) error {
	idxVal := ex.popValue(ctx)
	container := ex.popValue(ctx)

	idx, ok := idxVal.(value.Int)
	if !ok {
		return &value.TypeMismatchError{Value: idxVal, Expected: value.TInt}
	}

	switch c := container.(type) {
	case value.Array:
		i := int(idx)
		if i < 0 || i >= len(c.Keys) {
			return &IndexOutOfRangeError{Index: i, Length: len(c.Keys)}
		}
		ex.pushKey(ctx, value.DeepClone(ex.G.Arena, c.Keys[i]))
		return nil
	case value.String:
		runes := []rune(string(c))
		i := int(idx)
		if i < 0 || i >= len(runes) {
			return &IndexOutOfRangeError{Index: i, Length: len(runes)}
		}
		ex.push(ctx, value.String(string(runes[i])))
		return nil
	default:
		return &value.TypeMismatchError{Value: container, Expected: value.TArray}
	}
}

// call implements §4.4 Call's full argument-binding protocol, grounded
// on original_source/src/interpreter/interpreter.rs's commented-out
// macro_call (the active Call arm there is an unfinished todo!()):
// positional/named argument collection via name_sets, mapping named
// args to declared parameter positions, pattern checks, default fills,
// and finally pushing the callee's scoped/capture frames and a fresh
// call frame.
func (ex *Executor) call(leaf *FullContext, nameSetID int) error {
	ctx := leaf.Single
	names := ex.Prog.NameSets[nameSetID]

	type supplied struct {
		name string
		key  memory.Key
	}
	args := make([]supplied, len(names))
	for i := len(names) - 1; i >= 0; i-- {
		args[i] = supplied{name: names[i], key: value.DeepClone(ex.G.Arena, ex.pop(ctx))}
	}

	calleeVal := ex.popValue(ctx)
	macro, ok := calleeVal.(*value.Macro)
	if !ok {
		return &CannotCallError{Value: calleeVal}
	}

	bound := make([]*memory.Key, len(macro.Args))
	positional := 0
	for _, a := range args {
		if a.name == "" {
			if positional >= len(macro.Args) {
				return &TooManyArgumentsError{Got: positional + 1, Want: len(macro.Args)}
			}
			k := a.key
			bound[positional] = &k
			positional++
			continue
		}
		idx := -1
		for i, p := range macro.Args {
			if p.Name == a.name {
				idx = i
				break
			}
		}
		if idx == -1 {
			return &UndefinedArgumentError{Name: a.name}
		}
		k := a.key
		bound[idx] = &k
	}

	for i, param := range macro.Args {
		if bound[i] == nil && param.Default != nil {
			k := value.DeepClone(ex.G.Arena, *param.Default)
			bound[i] = &k
		}
		if bound[i] == nil {
			return &ArgumentNotSatisfiedError{Name: param.Name}
		}
		if param.Pattern != nil {
			v := ex.resolve(*bound[i])
			if !value.MatchesPattern(v, *param.Pattern) {
				return &PatternMismatchError{ArgName: param.Name, Pattern: *param.Pattern, Got: v}
			}
		}
	}

	// Only ScopedVarIDs get a fresh PushVar frame here; ArgIDs/CaptureIDs
	// are bound with ReplaceVar directly on the current frame instead, and
	// popReturn never unwinds any of the three. This only stays correct
	// because the compiler hands out a globally unique variable index per
	// function rather than reusing indices across functions - if that ever
	// changes, args/captures need their own PushVar/PopVar pair too.
	fn := &ex.Prog.Funcs[macro.FuncID]
	for _, varID := range fn.ScopedVarIDs {
		ctx.PushVar(varID, memory.Key{})
	}
	for i, varID := range fn.ArgIDs {
		if i < len(bound) && bound[i] != nil {
			ctx.ReplaceVar(varID, *bound[i])
		}
	}
	for i, varID := range fn.CaptureIDs {
		if i < len(macro.CaptureKeys) {
			ctx.ReplaceVar(varID, macro.CaptureKeys[i])
		}
	}

	// Advance the caller's frame past this Call instruction now, before
	// pushing the callee's frame, so its eventual Return resumes here.
	if callerFrame := ctx.CurrentFrame(); callerFrame != nil {
		callerFrame.Pos++
	}

	callID := ex.G.NewCallID()
	ctx.PushFrame(Frame{FuncID: macro.FuncID, Pos: 0, CallID: callID})
	return nil
}

// userTypeHash derives the stable identifier §6.5 requires for a
// user-defined TypeIndicator ("a hash derived from the type name is
// acceptable").
func userTypeHash(name string) uint64 {
	var h uint64 = 14695981039346656037
	for _, b := range []byte(name) {
		h ^= uint64(b)
		h *= 1099511628211
	}
	return h
}
