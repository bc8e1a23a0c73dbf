package value

import (
	"math"
	"strings"

	"github.com/DexterHill0/SPWN-language/memory"
)

// Resolver looks up an arena key's stored value. memory.Arena[StoredValue]
// satisfies this structurally; ops only needs read access to compare or
// iterate container contents.
type Resolver interface {
	Get(memory.Key) (StoredValue, bool)
}

func numeric(v Value) (float64, bool, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true, true
	case Float:
		return float64(n), false, true
	default:
		return 0, false, false
	}
}

// bothInt reports whether a and b are both Int, in which case integer
// arithmetic (not float promotion) applies.
func bothInt(a, b Value) (Int, Int, bool) {
	ai, aok := a.(Int)
	bi, bok := b.(Int)
	return ai, bi, aok && bok
}

// Plus implements `+`. Int/Int stays Int; any Int/Float mix promotes to
// Float; String/String concatenates; Array/Array concatenates by sharing
// keys rather than deep-cloning them (the one documented non-deep-clone
// operation — correctness depends on callers never mutating shared
// elements afterward).
func Plus(a, b Value) (Value, error) {
	if ai, bi, ok := bothInt(a, b); ok {
		return ai + bi, nil
	}
	if af, _, aok := numeric(a); aok {
		if bf, _, bok := numeric(b); bok {
			return Float(af + bf), nil
		}
	}
	if as, ok := a.(String); ok {
		if bs, ok := b.(String); ok {
			return as + bs, nil
		}
	}
	if aa, ok := a.(Array); ok {
		if ba, ok := b.(Array); ok {
			joined := make([]memory.Key, 0, len(aa.Keys)+len(ba.Keys))
			joined = append(joined, aa.Keys...)
			joined = append(joined, ba.Keys...)
			return Array{Keys: joined}, nil
		}
	}
	return nil, &InvalidOperandsError{A: a, B: b, Op: "+"}
}

// Minus implements `-`.
func Minus(a, b Value) (Value, error) {
	if ai, bi, ok := bothInt(a, b); ok {
		return ai - bi, nil
	}
	if af, _, aok := numeric(a); aok {
		if bf, _, bok := numeric(b); bok {
			return Float(af - bf), nil
		}
	}
	return nil, &InvalidOperandsError{A: a, B: b, Op: "-"}
}

// Mult implements `*`. (int, string) and (string, int) repeat the string
// n times; a negative count yields the empty string.
func Mult(a, b Value) (Value, error) {
	if ai, bi, ok := bothInt(a, b); ok {
		return ai * bi, nil
	}
	if af, _, aok := numeric(a); aok {
		if bf, _, bok := numeric(b); bok {
			return Float(af * bf), nil
		}
	}
	if s, ok := a.(String); ok {
		if n, ok := b.(Int); ok {
			return String(repeatString(string(s), int64(n))), nil
		}
	}
	if n, ok := a.(Int); ok {
		if s, ok := b.(String); ok {
			return String(repeatString(string(s), int64(n))), nil
		}
	}
	return nil, &InvalidOperandsError{A: a, B: b, Op: "*"}
}

func repeatString(s string, n int64) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, int(n))
}

// DivideByZeroError reports integer division/modulo by zero. Float
// operands never raise it: they follow IEEE-754.
type DivideByZeroError struct {
	Op string
}

func (e *DivideByZeroError) Error() string { return "divide by zero in " + e.Op }
func (*DivideByZeroError) RuntimeErr()     {}

// Div implements `/`. Float division follows IEEE-754 (including
// producing Inf/NaN); integer division truncates toward zero and errors
// on a zero divisor.
func Div(a, b Value) (Value, error) {
	if ai, bi, ok := bothInt(a, b); ok {
		if bi == 0 {
			return nil, &DivideByZeroError{Op: "/"}
		}
		return ai / bi, nil
	}
	if af, _, aok := numeric(a); aok {
		if bf, _, bok := numeric(b); bok {
			return Float(af / bf), nil
		}
	}
	return nil, &InvalidOperandsError{A: a, B: b, Op: "/"}
}

// Mod implements `%`, with the same zero-divisor behavior as Div.
func Mod(a, b Value) (Value, error) {
	if ai, bi, ok := bothInt(a, b); ok {
		if bi == 0 {
			return nil, &DivideByZeroError{Op: "%"}
		}
		return ai % bi, nil
	}
	if af, _, aok := numeric(a); aok {
		if bf, _, bok := numeric(b); bok {
			return Float(math.Mod(af, bf)), nil
		}
	}
	return nil, &InvalidOperandsError{A: a, B: b, Op: "%"}
}

// Pow implements `^`. The result is always computed in float64 and, for
// an Int/Int base and exponent, floored back into an Int.
func Pow(a, b Value) (Value, error) {
	if ai, bi, ok := bothInt(a, b); ok {
		return Int(math.Floor(math.Pow(float64(ai), float64(bi)))), nil
	}
	if af, _, aok := numeric(a); aok {
		if bf, _, bok := numeric(b); bok {
			return Float(math.Pow(af, bf)), nil
		}
	}
	return nil, &InvalidOperandsError{A: a, B: b, Op: "^"}
}

// UnaryNegate implements unary `-`.
func UnaryNegate(a Value) (Value, error) {
	switch v := a.(type) {
	case Int:
		return -v, nil
	case Float:
		return -v, nil
	default:
		return nil, &InvalidUnaryOperandError{Value: a, Op: "-"}
	}
}

// UnaryNot implements unary `!`.
func UnaryNot(a Value) (Value, error) {
	if v, ok := a.(Bool); ok {
		return !v, nil
	}
	return nil, &InvalidUnaryOperandError{Value: a, Op: "!"}
}

// Equality implements structural equality: numeric across Int/Float,
// element-wise for arrays, key-wise for dicts (a missing key makes dicts
// unequal), None==None for Maybe, and value-identity by variant for
// everything else. r resolves array/dict element keys for the recursive
// comparisons; pass nil if a and b cannot contain containers.
func Equality(r Resolver, a, b Value) bool {
	if af, _, aok := numeric(a); aok {
		if bf, _, bok := numeric(b); bok {
			return af == bf
		}
	}
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Empty:
		_, ok := b.(Empty)
		return ok
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av.Keys) != len(bv.Keys) {
			return false
		}
		for i := range av.Keys {
			ea, eaOK := r.Get(av.Keys[i])
			eb, ebOK := r.Get(bv.Keys[i])
			if !eaOK || !ebOK || !Equality(r, ea.Value, eb.Value) {
				return false
			}
		}
		return true
	case Dict:
		bv, ok := b.(Dict)
		if !ok || len(av.Keys) != len(bv.Keys) {
			return false
		}
		for name, ka := range av.Keys {
			kb, present := bv.Keys[name]
			if !present {
				return false
			}
			ea, eaOK := r.Get(ka)
			eb, ebOK := r.Get(kb)
			if !eaOK || !ebOK || !Equality(r, ea.Value, eb.Value) {
				return false
			}
		}
		return true
	case Maybe:
		bv, ok := b.(Maybe)
		if !ok {
			return false
		}
		if !av.HasValue || !bv.HasValue {
			return av.HasValue == bv.HasValue
		}
		ea, eaOK := r.Get(av.Key)
		eb, ebOK := r.Get(bv.Key)
		return eaOK && ebOK && Equality(r, ea.Value, eb.Value)
	case Group:
		bv, ok := b.(Group)
		return ok && av.ID == bv.ID
	case Color:
		bv, ok := b.(Color)
		return ok && av.ID == bv.ID
	case Block:
		bv, ok := b.(Block)
		return ok && av.ID == bv.ID
	case Item:
		bv, ok := b.(Item)
		return ok && av.ID == bv.ID
	default:
		return a.Type() == b.Type()
	}
}

// ToBool implements to_bool: only Bool converts; everything else errors.
func ToBool(a Value) (bool, error) {
	if v, ok := a.(Bool); ok {
		return bool(v), nil
	}
	return false, &CannotConvertError{Value: a, To: "bool"}
}

// ToPattern implements to_pat: a TypeIndicator becomes a Type(t) pattern,
// a Pattern passes through unchanged, everything else errors.
func ToPattern(a Value) (Pattern, error) {
	switch v := a.(type) {
	case TypeIndicator:
		return TypePattern(v), nil
	case Pattern:
		return v, nil
	default:
		return Pattern{}, &CannotConvertError{Value: a, To: "pattern"}
	}
}

// MatchesPattern implements `is`'s matching rules: Any matches anything;
// Type(t) matches iff the value's tag equals t; a macro pattern matches a
// Macro iff the return pattern and every argument pattern are pairwise
// equal to the macro's own.
func MatchesPattern(v Value, p Pattern) bool {
	switch p.Kind {
	case PatternAny:
		return true
	case PatternOfType:
		ti := p.OfType
		if ti.IsUser {
			return false // user-type matching requires the external TypeRegistry; see exec.
		}
		return v.Type() == ti.Builtin
	case PatternMacro:
		m, ok := v.(*Macro)
		if !ok {
			return false
		}
		if len(m.Args) != len(p.ArgPats) {
			return false
		}
		for i, arg := range m.Args {
			argPat := AnyPattern()
			if arg.Pattern != nil {
				argPat = *arg.Pattern
			}
			if !argPat.Equal(p.ArgPats[i]) {
				return false
			}
		}
		if p.RetPat != nil && !m.RetType.Equal(*p.RetPat) {
			return false
		}
		return true
	default:
		return false
	}
}

// Is implements the `is` operator. The right operand must be a
// TypeIndicator or Pattern; anything else is a type mismatch.
func Is(a, b Value) (Value, error) {
	pat, err := ToPattern(b)
	if err != nil {
		return nil, &TypeMismatchError{Value: b, Expected: TPattern}
	}
	return Bool(MatchesPattern(a, pat)), nil
}

// ToIter implements to_iter (§4.4): Array and String convert directly;
// Dict freezes its current insertion order. It reads no arena slots: the
// iterator holds keys, which exec resolves as IterNext advances.
func ToIter(v Value) (*ValueIter, error) {
	switch c := v.(type) {
	case Array:
		return NewArrayIter(c.Keys), nil
	case String:
		return NewStringIter(string(c)), nil
	case Dict:
		return NewDictIter(&c), nil
	default:
		return nil, &CannotIterateError{Value: v}
	}
}

func comparable(a, b Value) (float64, float64, bool) {
	af, _, aok := numeric(a)
	bf, _, bok := numeric(b)
	return af, bf, aok && bok
}

// Greater, GreaterEq, Lesser, LesserEq implement the ordering operators,
// defined only over numeric operands.
func Greater(a, b Value) (Value, error) {
	af, bf, ok := comparable(a, b)
	if !ok {
		return nil, &InvalidOperandsError{A: a, B: b, Op: ">"}
	}
	return Bool(af > bf), nil
}

func GreaterEq(a, b Value) (Value, error) {
	af, bf, ok := comparable(a, b)
	if !ok {
		return nil, &InvalidOperandsError{A: a, B: b, Op: ">="}
	}
	return Bool(af >= bf), nil
}

func Lesser(a, b Value) (Value, error) {
	af, bf, ok := comparable(a, b)
	if !ok {
		return nil, &InvalidOperandsError{A: a, B: b, Op: "<"}
	}
	return Bool(af < bf), nil
}

func LesserEq(a, b Value) (Value, error) {
	af, bf, ok := comparable(a, b)
	if !ok {
		return nil, &InvalidOperandsError{A: a, B: b, Op: "<="}
	}
	return Bool(af <= bf), nil
}
