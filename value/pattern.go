package value

import "strings"

// PatternKind tags the variant of a Pattern.
type PatternKind uint8

const (
	PatternAny PatternKind = iota
	PatternOfType
	PatternMacro
)

// Pattern is a small sublanguage matching values: Any, a type tag, or a
// macro's argument/return-type shape.
type Pattern struct {
	Kind     PatternKind
	OfType   TypeIndicator // valid when Kind == PatternOfType
	ArgPats  []Pattern     // valid when Kind == PatternMacro
	RetPat   *Pattern      // valid when Kind == PatternMacro
}

// AnyPattern matches every value.
func AnyPattern() Pattern { return Pattern{Kind: PatternAny} }

// TypePattern matches any value whose Type tag equals t.
func TypePattern(t TypeIndicator) Pattern { return Pattern{Kind: PatternOfType, OfType: t} }

// MacroPattern matches a Macro value whose argument patterns and return
// pattern are pairwise equal to args/ret.
func MacroPattern(args []Pattern, ret Pattern) Pattern {
	return Pattern{Kind: PatternMacro, ArgPats: args, RetPat: &ret}
}

func (p Pattern) Type() Type { return TPattern }

func (p Pattern) String() string {
	switch p.Kind {
	case PatternAny:
		return "any"
	case PatternOfType:
		return p.OfType.String()
	case PatternMacro:
		parts := make([]string, len(p.ArgPats))
		for i, a := range p.ArgPats {
			parts[i] = a.String()
		}
		ret := "any"
		if p.RetPat != nil {
			ret = p.RetPat.String()
		}
		return "(" + strings.Join(parts, ", ") + ") -> " + ret
	default:
		return "<pattern>"
	}
}

// Equal reports whether p and other are the same pattern, recursively for
// macro patterns, used by MacroArg pattern comparisons in `is`.
func (p Pattern) Equal(other Pattern) bool {
	if p.Kind != other.Kind {
		return false
	}
	switch p.Kind {
	case PatternAny:
		return true
	case PatternOfType:
		return p.OfType.IsUser == other.OfType.IsUser &&
			p.OfType.Builtin == other.OfType.Builtin &&
			p.OfType.UserID == other.OfType.UserID
	case PatternMacro:
		if len(p.ArgPats) != len(other.ArgPats) {
			return false
		}
		for i := range p.ArgPats {
			if !p.ArgPats[i].Equal(other.ArgPats[i]) {
				return false
			}
		}
		if (p.RetPat == nil) != (other.RetPat == nil) {
			return false
		}
		if p.RetPat != nil && !p.RetPat.Equal(*other.RetPat) {
			return false
		}
		return true
	default:
		return false
	}
}
