package exec

import "github.com/DexterHill0/SPWN-language/value"

// TypeRegistry is the external user-type collaborator (§6.5). Its
// construction DSL is out of scope here; the interpreter only needs
// these four operations to resolve LoadType/TypeDef/Impl/Instance and
// attribute/method access on Instance values. The interpreter does not
// call into a registry: TypeDef/Impl/Instance return
// NotImplementedError whether or not Options.Types is set, and a nil
// TypeRegistry is valid.
type TypeRegistry interface {
	CallStatic(name string, args []value.Value) (value.Value, error)
	GetSelfMethod(name string) (Method, error)
}

// Method is a resolved static or instance method.
type Method func(args []value.Value) (value.Value, error)

// Instance is implemented by the external registry's instance values;
// Value itself has no Instance variant yet (§9: the Instance instruction
// and its value representation belong to the user-type subsystem's
// design, done together with TypeRegistry).
type Instance interface {
	GetAttr(name string, g *Globals) (value.Value, error)
	CallSelf(name string, args []value.Value, g *Globals) (value.Value, error)
}
