package bytecode

import "fmt"

// Span is a source location, supplied by the compiler purely for
// diagnostics; the interpreter never inspects its fields.
type Span struct {
	File       string
	StartLine  int
	StartCol   int
	EndLine    int
	EndCol     int
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.StartLine, s.StartCol)
}

// MacroArgInfo is one formal parameter slot in a macro_build_info entry:
// its name plus whether a pattern and/or default value are present on the
// stack at the MakeMacro call site (§4.4 MakeMacro).
type MacroArgInfo struct {
	Name       string
	HasPattern bool
	HasDefault bool
}

// MacroBuildInfo is compiler-supplied info describing how to assemble a
// Macro value from the MakeMacro call-site stack.
type MacroBuildInfo struct {
	FuncID int
	Args   []MacroArgInfo
}

// FuncDef is one compiled function: its instruction stream plus the
// variable-index lists the context machine needs to push/pop scopes.
type FuncDef struct {
	Instructions []Instruction

	// ArgIDs are the compile-time variable indices that receive positional
	// call arguments, in declaration order.
	ArgIDs []int
	// CaptureIDs are the compile-time variable indices a closure captures
	// from its defining context.
	CaptureIDs []int
	// ScopedVarIDs are the compile-time variable indices owned by this
	// function's top-level scope, pushed on entry by Call. Returning from
	// the function does not pop them.
	ScopedVarIDs []int
}

// MacroArgSpanKey identifies a (func, call-site instruction index) pair for
// MacroArgSpans lookups.
type MacroArgSpanKey struct {
	Func int
	Pos  int
}

// Program is the immutable bundle a compiler hands to the interpreter.
// Nothing in exec ever mutates it.
type Program struct {
	Funcs []FuncDef

	Constants []ConstValue
	Names     []string
	// NameSets holds, per call/dict-build site, the ordered list of names
	// used to interpret the operand stack (empty name = positional arg,
	// see Call semantics in §4.4; field name for BuildDict).
	NameSets [][]string
	// Destinations holds jump targets indexed by a small integer id so
	// Jump/JumpIfFalse/IterNext/PushTry/EnterTriggerFunction/
	// EnterArrowStatement instructions stay relocation-friendly.
	Destinations []int

	MacroBuildInfo []MacroBuildInfo
	MacroArgSpans  map[MacroArgSpanKey][]Span

	// Spans maps (func, instruction index) to its source span for
	// diagnostics; see GetSpan.
	Spans map[MacroArgSpanKey]Span
}

// ConstValue is a compile-time pooled literal; the interpreter converts it
// to a runtime value.StoredValue on LoadConst.
type ConstValue struct {
	Kind ConstKind
	Int  int64
	Flt  float64
	Str  string
	Bool bool
}

type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstString
	ConstBool
)

// GetSpan returns the source span recorded for instruction pos of func, or
// the zero Span if none was recorded (compiler-internal instructions such
// as synthetic jumps may omit one).
func (p *Program) GetSpan(funcID, pos int) Span {
	return p.Spans[MacroArgSpanKey{Func: funcID, Pos: pos}]
}

// GetMacroArgSpans returns the per-parameter spans recorded for the
// MakeMacro call site at (funcID, pos).
func (p *Program) GetMacroArgSpans(funcID, pos int) []Span {
	return p.MacroArgSpans[MacroArgSpanKey{Func: funcID, Pos: pos}]
}

// Destination resolves a jump-id operand to an absolute instruction index.
func (p *Program) Destination(id int) int {
	return p.Destinations[id]
}
