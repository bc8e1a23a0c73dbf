// Package value implements the interpreter's runtime value model: the
// closed Value tagged union, patterns, macros, and the value_ops surface
// (arithmetic, comparison, pattern matching, iteration), grounded on
// original_source/src/interpreter/value.rs.
//
// Values that reference other values (arrays, dicts, maybe) hold
// memory.Key indirections rather than nested Values directly, so the
// arena in package memory owns the actual storage. A context split
// deep-clones every key, so split children share no structure.
package value

import (
	"fmt"
	"strings"

	"github.com/DexterHill0/SPWN-language/ids"
	"github.com/DexterHill0/SPWN-language/memory"
	"github.com/DexterHill0/SPWN-language/object"
)

// Type tags every Value variant.
type Type uint8

const (
	TInt Type = iota
	TFloat
	TString
	TBool
	TEmpty
	TArray
	TDict
	TMaybe
	TTypeIndicator
	TPattern
	TGroup
	TColor
	TBlock
	TItem
	TTriggerFunc
	TMacro
	TObject
)

var typeNames = map[Type]string{
	TInt: "int", TFloat: "float", TString: "string", TBool: "bool",
	TEmpty: "empty", TArray: "array", TDict: "dict", TMaybe: "maybe",
	TTypeIndicator: "type_indicator", TPattern: "pattern", TGroup: "group",
	TColor: "color", TBlock: "block", TItem: "item",
	TTriggerFunc: "trigger_function", TMacro: "macro", TObject: "object",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Tag renders the type the way the original formats it in diagnostics and
// pattern literals, e.g. "@int".
func (t Type) Tag() string { return "@" + t.String() }

// Value is one runtime value. The variant set is closed; every concrete
// type below is the only implementer of its kind.
type Value interface {
	Type() Type
	fmt.Stringer
}

type Int int64

func (Int) Type() Type        { return TInt }
func (v Int) String() string  { return fmt.Sprintf("%d", int64(v)) }

type Float float64

func (Float) Type() Type       { return TFloat }
func (v Float) String() string { return fmt.Sprintf("%g", float64(v)) }

type String string

func (String) Type() Type       { return TString }
func (v String) String() string { return string(v) }

type Bool bool

func (Bool) Type() Type { return TBool }
func (v Bool) String() string {
	if v {
		return "true"
	}
	return "false"
}

// Empty is the language's unit value.
type Empty struct{}

func (Empty) Type() Type     { return TEmpty }
func (Empty) String() string { return "()" }

// Group, Color, Block and Item each wrap one id of their class.
type Group struct{ ID ids.Id }

func (Group) Type() Type       { return TGroup }
func (v Group) String() string { return "g" + v.ID.String() }

type Color struct{ ID ids.Id }

func (Color) Type() Type       { return TColor }
func (v Color) String() string { return "c" + v.ID.String() }

type Block struct{ ID ids.Id }

func (Block) Type() Type       { return TBlock }
func (v Block) String() string { return "b" + v.ID.String() }

type Item struct{ ID ids.Id }

func (Item) Type() Type       { return TItem }
func (v Item) String() string { return "i" + v.ID.String() }

// TriggerFunc is the value produced by entering a trigger-function body:
// calling it emits a spawn trigger targeting StartGroup.
type TriggerFunc struct{ StartGroup ids.Id }

func (TriggerFunc) Type() Type       { return TTriggerFunc }
func (v TriggerFunc) String() string { return "!{" + v.StartGroup.String() + "}" }

// TypeIndicator names a type, built-in or user-defined, as a first-class
// value (so it can be pushed, compared, and used on the right side of
// `is`). UserID is a stable hash of the type name per §6.5; it is 0 and
// ignored for built-in types.
type TypeIndicator struct {
	Builtin Type
	IsUser  bool
	UserID  uint64
	Name    string
}

func (TypeIndicator) Type() Type { return TTypeIndicator }
func (v TypeIndicator) String() string {
	if v.IsUser {
		return "@" + v.Name
	}
	return v.Builtin.Tag()
}

// Object wraps a fully-built GD object or trigger as a first-class value
// between BuildObject/BuildTrigger and AddObject.
type Object struct{ Obj *object.GdObj }

func (Object) Type() Type { return TObject }
func (v Object) String() string {
	if v.Obj == nil {
		return "<object>"
	}
	return "<object " + v.Obj.Serialize() + ">"
}

// Array is an ordered sequence of arena keys.
type Array struct{ Keys []memory.Key }

func (Array) Type() Type { return TArray }
func (v Array) String() string {
	strs := make([]string, len(v.Keys))
	for i := range v.Keys {
		strs[i] = "<key>"
	}
	return "[" + strings.Join(strs, ", ") + "]"
}

// Dict is a name→key mapping with insertion-order iteration.
type Dict struct {
	Keys  map[string]memory.Key
	Order []string
}

// NewDict returns an empty Dict ready for Set.
func NewDict() *Dict {
	return &Dict{Keys: map[string]memory.Key{}}
}

// Set stores key under name, recording insertion order the first time
// name is seen.
func (d *Dict) Set(name string, key memory.Key) {
	if _, exists := d.Keys[name]; !exists {
		d.Order = append(d.Order, name)
	}
	d.Keys[name] = key
}

func (Dict) Type() Type { return TDict }
func (v Dict) String() string {
	return fmt.Sprintf("{%s}", strings.Join(v.Order, ", "))
}

// Maybe is an optional arena reference: Some(key) or None.
type Maybe struct {
	Key      memory.Key
	HasValue bool
}

func (Maybe) Type() Type { return TMaybe }
func (v Maybe) String() string {
	if !v.HasValue {
		return "none"
	}
	return "some(<key>)"
}
