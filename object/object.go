package object

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DexterHill0/SPWN-language/ids"
)

// Mode distinguishes a plain GD object from a trigger, which additionally
// carries a source group and a linked-group marker on serialization.
type Mode uint8

const (
	ModeObject Mode = iota
	ModeTrigger
)

// Level format constants, per the fixed GD wire-format contract.
const (
	SignatureGroupID uint16 = 1001
	IDMax                   = 999
	MaxLevelID              = 9999

	ObjectIDKey   uint16 = 1
	SpawnTriggerID        = 1268
	TargetGroupKey uint16 = 51
	SourceGroupKey uint16 = 57
	LinkedGroupKey uint16 = 108
)

// SignatureGroup marks interpreter-emitted objects so a later run can
// find and strip them before appending its own output.
var SignatureGroup = GroupParam{ID: ids.Specific(SignatureGroupID)}

// GdObj is one GD level object: a key→ObjParam mapping plus whether it is
// a plain object or a trigger.
type GdObj struct {
	Params map[uint16]ObjParam
	Mode   Mode
}

// NewObject returns an empty plain object.
func NewObject() *GdObj {
	return &GdObj{Params: map[uint16]ObjParam{}, Mode: ModeObject}
}

// NewTrigger returns an empty trigger.
func NewTrigger() *GdObj {
	return &GdObj{Params: map[uint16]ObjParam{}, Mode: ModeTrigger}
}

// Set records param at key, overwriting any existing value.
func (o *GdObj) Set(key uint16, param ObjParam) {
	o.Params[key] = param
}

// Serialize renders o as a ";"-terminated run of "key,value" pairs,
// sorted by ascending key (§6.1, §4.5 step 5). Callers must have already
// resolved every arbitrary id and ensured the signature group is present
// on key 57 before calling this; Serialize does not mutate o.
func (o *GdObj) Serialize() string {
	keys := make([]int, 0, len(o.Params))
	for k := range o.Params {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)

	var b strings.Builder
	for _, k := range keys {
		p := o.Params[uint16(k)]
		fmt.Fprintf(&b, "%d,%s,", k, p.Format())
	}
	if o.Mode == ModeTrigger {
		fmt.Fprintf(&b, "%d,1,", LinkedGroupKey)
	}
	s := b.String()
	return strings.TrimSuffix(s, ",") + ";"
}

// EnsureSignatureGroup ensures key 57 carries the signature group,
// promoting a scalar GroupParam to a GroupList if one is already present,
// as required before Serialize is called (§4.5 step 5).
func (o *GdObj) EnsureSignatureGroup() {
	existing, ok := o.Params[SourceGroupKey]
	if !ok {
		o.Params[SourceGroupKey] = GroupList{IDs: []ids.Id{SignatureGroup.ID}}
		return
	}
	switch v := existing.(type) {
	case GroupParam:
		if v.ID == SignatureGroup.ID {
			return
		}
		o.Params[SourceGroupKey] = GroupList{IDs: []ids.Id{v.ID, SignatureGroup.ID}}
	case GroupList:
		for _, id := range v.IDs {
			if id == SignatureGroup.ID {
				return
			}
		}
		o.Params[SourceGroupKey] = GroupList{IDs: append(append([]ids.Id(nil), v.IDs...), SignatureGroup.ID)}
	}
}
