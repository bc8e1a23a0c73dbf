// Package object implements the GD level wire format: the GdObj/ObjParam
// value types, the post-run id resolver, and serialization, grounded on
// original_source/compiler/src/leveldata.rs (ObjParam, GdObj, get_used_ids,
// append_objects).
package object

import (
	"math"
	"strconv"
	"strings"

	"github.com/DexterHill0/SPWN-language/ids"
)

// ObjParam is one GD object parameter value. The set is closed: Number,
// Bool, Text, Group, Color, Block, Item, GroupList, Epsilon.
type ObjParam interface {
	// Format renders the wire-format value string for this parameter,
	// per the level format's key,value encoding.
	Format() string
}

// Number formats within 0.001 of an integer as a bare integer, else with
// three decimal places, matching the original's float-snap behavior.
type Number float64

func (n Number) Format() string {
	rounded := math.Round(float64(n))
	if math.Abs(float64(n)-rounded) < 0.001 {
		return strconv.FormatInt(int64(rounded), 10)
	}
	return strconv.FormatFloat(float64(n), 'f', 3, 64)
}

// BoolParam formats as "1" or "0".
type BoolParam bool

func (b BoolParam) Format() string {
	if b {
		return "1"
	}
	return "0"
}

// Text formats as its literal contents.
type Text string

func (t Text) Format() string { return string(t) }

// Epsilon always formats as the literal GD epsilon constant.
type Epsilon struct{}

func (Epsilon) Format() string { return "0.05" }

func formatSingleID(id ids.Id) string {
	if id.IsArbitrary() {
		return "0"
	}
	return strconv.Itoa(int(id.Value()))
}

// GroupParam, ColorParam, BlockParam and ItemParam each carry one id of
// their respective class. An unresolved Arbitrary id formats as the
// sentinel "0"; the resolver is expected to have replaced it with a
// Specific id before serialization runs.
type GroupParam struct{ ID ids.Id }

func (g GroupParam) Format() string { return formatSingleID(g.ID) }
func (GroupParam) Class() ids.Class { return ids.Group }

type ColorParam struct{ ID ids.Id }

func (c ColorParam) Format() string { return formatSingleID(c.ID) }
func (ColorParam) Class() ids.Class { return ids.Color }

type BlockParam struct{ ID ids.Id }

func (b BlockParam) Format() string { return formatSingleID(b.ID) }
func (BlockParam) Class() ids.Class { return ids.Block }

type ItemParam struct{ ID ids.Id }

func (i ItemParam) Format() string { return formatSingleID(i.ID) }
func (ItemParam) Class() ids.Class { return ids.Item }

// GroupList formats as a dot-joined run of group ids, each an Arbitrary
// placeholder rendered as "0", with no trailing dot.
type GroupList struct{ IDs []ids.Id }

func (g GroupList) Format() string {
	parts := make([]string, len(g.IDs))
	for i, id := range g.IDs {
		parts[i] = formatSingleID(id)
	}
	return strings.TrimSuffix(strings.Join(parts, "."), ".")
}

func (GroupList) Class() ids.Class { return ids.Group }

// idParam is satisfied by every ObjParam variant that carries one or more
// ids of a single class, letting the resolver walk params generically
// instead of a long type switch per call site.
type idParam interface {
	ObjParam
	Class() ids.Class
}

// idsOf returns the id(s) carried by p and a function to rebuild an
// equivalent param with replacement ids, or ok=false if p carries none.
func idsOf(p ObjParam) (values []ids.Id, rebuild func([]ids.Id) ObjParam, ok bool) {
	switch v := p.(type) {
	case GroupParam:
		return []ids.Id{v.ID}, func(r []ids.Id) ObjParam { return GroupParam{ID: r[0]} }, true
	case ColorParam:
		return []ids.Id{v.ID}, func(r []ids.Id) ObjParam { return ColorParam{ID: r[0]} }, true
	case BlockParam:
		return []ids.Id{v.ID}, func(r []ids.Id) ObjParam { return BlockParam{ID: r[0]} }, true
	case ItemParam:
		return []ids.Id{v.ID}, func(r []ids.Id) ObjParam { return ItemParam{ID: r[0]} }, true
	case GroupList:
		return append([]ids.Id(nil), v.IDs...), func(r []ids.Id) ObjParam { return GroupList{IDs: r} }, true
	default:
		return nil, nil, false
	}
}

var _ idParam = GroupParam{}
