package value

import "github.com/DexterHill0/SPWN-language/bytecode"

// StoredValue is what actually lives in a memory.Arena slot: a Value
// plus the compiler-supplied source span it was defined at, carried only
// for diagnostics.
type StoredValue struct {
	Value  Value
	DefArea bytecode.Span
}
