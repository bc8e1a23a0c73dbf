// Package ids defines the four GD id classes and the Specific/Arbitrary id
// representation shared by value.Group/Color/Block/Item and object.ObjParam,
// grounded on original_source/src/interpreter/value.rs's Id enum and
// leveldata.rs's per-class id handling. It has no dependency on value or
// object so both can depend on it without a cycle.
package ids

import "strconv"

// Class is one of the four 16-bit GD id namespaces.
type Class uint8

const (
	Group Class = iota
	Color
	Block
	Item
)

func (c Class) String() string {
	switch c {
	case Group:
		return "group"
	case Color:
		return "color"
	case Block:
		return "block"
	case Item:
		return "item"
	default:
		return "unknown"
	}
}

// Id is either a fixed numeric id or an Arbitrary placeholder tagged with
// the allocation sequence number it was handed out at, resolved to a
// concrete number only at serialization time.
type Id struct {
	specific  uint16
	arbitrary bool
	seq       uint32
}

// Specific returns a fixed, already-numbered id.
func Specific(n uint16) Id { return Id{specific: n} }

// Arbitrary returns a placeholder id carrying allocation sequence seq.
// Two Arbitrary ids with the same seq but different Class are distinct;
// the sequence is only unique within one class's counter.
func Arbitrary(seq uint32) Id { return Id{arbitrary: true, seq: seq} }

func (id Id) IsArbitrary() bool { return id.arbitrary }

// Value returns the numeric id. Calling it on an unresolved Arbitrary id
// returns 0; callers must check IsArbitrary first.
func (id Id) Value() uint16 { return id.specific }

// Seq returns the allocation sequence number of an Arbitrary id.
func (id Id) Seq() uint32 { return id.seq }

// Resolve returns a new Specific Id carrying n; used by the id resolver to
// replace a placeholder once a concrete number has been chosen.
func (id Id) Resolve(n uint16) Id { return Specific(n) }

// String renders the id the way the original Dump output does: "?" for an
// unresolved placeholder, the decimal number otherwise.
func (id Id) String() string {
	if id.arbitrary {
		return "?"
	}
	return strconv.Itoa(int(id.specific))
}
