package value

import "github.com/DexterHill0/SPWN-language/memory"

// Arena is the minimal arena surface DeepClone needs: read a key, insert
// a fresh value. memory.Arena[StoredValue] satisfies it structurally.
type Arena interface {
	Resolver
	Insert(StoredValue) memory.Key
}

// DeepClone recursively copies the value at k into freshly inserted
// slots, producing a key that shares no slot with k's transitive
// closure. This is assignment semantics (§3 Invariants) and what
// split_context uses to give the new sibling context independent state
// (§4.3). Primitive values are copied as-is; only aggregate kinds
// (array, dict, maybe-some, macro captures/defaults) recurse.
//
// It does not detect cycles: no current instruction can construct one in
// the value graph (§9 Design Notes), so callers whose user code might
// someday need that should add a visited-set.
func DeepClone(a Arena, k memory.Key) memory.Key {
	sv, ok := a.Get(k)
	if !ok {
		return k
	}
	return a.Insert(StoredValue{Value: deepCloneValue(a, sv.Value), DefArea: sv.DefArea})
}

func deepCloneValue(a Arena, v Value) Value {
	switch c := v.(type) {
	case Array:
		keys := make([]memory.Key, len(c.Keys))
		for i, k := range c.Keys {
			keys[i] = DeepClone(a, k)
		}
		return Array{Keys: keys}
	case Dict:
		nd := NewDict()
		for _, name := range c.Order {
			nd.Set(name, DeepClone(a, c.Keys[name]))
		}
		return *nd
	case Maybe:
		if !c.HasValue {
			return c
		}
		return Maybe{Key: DeepClone(a, c.Key), HasValue: true}
	case *Macro:
		args := make([]MacroArg, len(c.Args))
		for i, arg := range c.Args {
			na := arg
			if arg.Default != nil {
				d := DeepClone(a, *arg.Default)
				na.Default = &d
			}
			args[i] = na
		}
		captures := make([]memory.Key, len(c.CaptureKeys))
		for i, k := range c.CaptureKeys {
			captures[i] = DeepClone(a, k)
		}
		return &Macro{FuncID: c.FuncID, Args: args, CaptureKeys: captures, RetType: c.RetType}
	default:
		return v
	}
}
