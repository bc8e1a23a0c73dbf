package exec

import (
	"fmt"

	"github.com/DexterHill0/SPWN-language/value"
)

// The call/macro/type errors below complete the taxonomy started in
// value/errors.go (the operator-level errors value_ops itself raises).
// All satisfy value.RuntimeError so a Try block catches either family
// uniformly.

// CannotCallError reports Call popping a non-Macro callee.
type CannotCallError struct {
	Value value.Value
}

func (e *CannotCallError) Error() string {
	return fmt.Sprintf("cannot call value of type %s", e.Value.Type())
}
func (*CannotCallError) RuntimeErr() {}

// UndefinedTypeError reports LoadType/TypeDef naming an unregistered
// user type.
type UndefinedTypeError struct {
	Name string
}

func (e *UndefinedTypeError) Error() string { return "undefined type: " + e.Name }
func (*UndefinedTypeError) RuntimeErr()     {}

// UndefinedArgumentError reports a named call argument that does not
// match any of the callee's declared parameters.
type UndefinedArgumentError struct {
	Name string
}

func (e *UndefinedArgumentError) Error() string { return "undefined argument: " + e.Name }
func (*UndefinedArgumentError) RuntimeErr()     {}

// TooManyArgumentsError reports more positional arguments than the
// callee declares.
type TooManyArgumentsError struct {
	Got, Want int
}

func (e *TooManyArgumentsError) Error() string {
	return fmt.Sprintf("too many arguments: got %d, want at most %d", e.Got, e.Want)
}
func (*TooManyArgumentsError) RuntimeErr() {}

// ArgumentNotSatisfiedError reports a required parameter that received
// neither an argument nor had a default.
type ArgumentNotSatisfiedError struct {
	Name string
}

func (e *ArgumentNotSatisfiedError) Error() string { return "argument not satisfied: " + e.Name }
func (*ArgumentNotSatisfiedError) RuntimeErr()     {}

// PatternMismatchError reports a call argument failing its parameter's
// pattern check.
type PatternMismatchError struct {
	ArgName string
	Pattern value.Pattern
	Got     value.Value
}

func (e *PatternMismatchError) Error() string {
	return fmt.Sprintf("argument %q: expected %s, got %s", e.ArgName, e.Pattern, e.Got.Type())
}
func (*PatternMismatchError) RuntimeErr() {}

// IndexOutOfRangeError reports an array/string Index instruction whose
// index falls outside the container's bounds (§8 boundary behavior:
// "implementer should convert to ... IndexOutOfRange").
type IndexOutOfRangeError struct {
	Index, Length int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range (length %d)", e.Index, e.Length)
}
func (*IndexOutOfRangeError) RuntimeErr() {}

// NotImplementedError marks an instruction whose mechanics are an
// explicit Open Question deferred to the external user-type subsystem
// (LoadType/TypeDef/Impl/Instance, §9).
type NotImplementedError struct {
	What string
}

func (e *NotImplementedError) Error() string { return "not implemented: " + e.What }
func (*NotImplementedError) RuntimeErr()     {}
