package value

import (
	"strconv"

	"github.com/DexterHill0/SPWN-language/memory"
)

// MacroArg is one formal parameter of a Macro: its declared name, an
// optional pattern constraint, and an optional default value key.
type MacroArg struct {
	Name     string
	Pattern  *Pattern
	Default  *memory.Key
}

// Macro is a callable value: an index into the program's function table,
// its formal parameters, the keys it closed over, and its return pattern.
type Macro struct {
	FuncID      int
	Args        []MacroArg
	CaptureKeys []memory.Key
	RetType     Pattern
}

func (*Macro) Type() Type { return TMacro }
func (m *Macro) String() string {
	return "macro#" + strconv.Itoa(m.FuncID)
}
