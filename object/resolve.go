package object

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/DexterHill0/SPWN-language/ids"
)

// nearCeilingMargin is how close to IDMax a class's assigned-id count has
// to get before Resolve logs a warning, giving a level author advance
// notice before a later run actually overflows (§4.5 step 4, I5).
const nearCeilingMargin = 50

// LevelLimitExceededError is returned by Resolve when the emitted objects
// use more than IDMax distinct ids of one class (ids assigned to
// arbitrary placeholders plus specific ids the objects already carry).
type LevelLimitExceededError struct {
	Class  ids.Class
	Actual int
	Max    int
}

func (e *LevelLimitExceededError) Error() string {
	return fmt.Sprintf("level limit exceeded for %s ids: %d used, max %d", e.Class, e.Actual, e.Max)
}

// parsedObject is one ";"-separated run of the level string, kept as a
// raw key/value multimap (values are left as strings: the resolver only
// needs to classify occupied ids, not fully decode the object).
type parsedObject map[uint16]string

// parseLevelString splits s on ";" and each object on "," into k,v pairs.
// Malformed trailing fragments (odd field count, non-numeric key) are
// skipped rather than erroring: a hand-edited level string tolerates
// noise the way the original parser does.
func parseLevelString(s string) []parsedObject {
	var objs []parsedObject
	for _, chunk := range strings.Split(s, ";") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		fields := strings.Split(chunk, ",")
		obj := parsedObject{}
		for i := 0; i+1 < len(fields); i += 2 {
			k, err := strconv.Atoi(fields[i])
			if err != nil || k < 0 || k > 65535 {
				continue
			}
			obj[uint16(k)] = fields[i+1]
		}
		if len(obj) > 0 {
			objs = append(objs, obj)
		}
	}
	return objs
}

// occupiedIDs walks parsed objects classifying every id-bearing parameter
// into one of the four id classes, per §4.5 step 1.
//
// Object id 1006 (Pulse Trigger) overloads key 51 with key 52 ("target
// type": 1 = color channel, 2 = group) to pick whether 51 means a color
// or a group; every other object's key 51 means a target group. This
// mapping is the "load-bearing GD-format detail" spec.md's DESIGN NOTES
// flags; original_source/compiler/src/leveldata.rs encodes it the same
// way.
func occupiedIDs(objs []parsedObject) map[ids.Class]map[uint16]bool {
	occupied := map[ids.Class]map[uint16]bool{
		ids.Group: {}, ids.Color: {}, ids.Block: {}, ids.Item: {},
	}
	mark := func(class ids.Class, raw string) {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return
		}
		occupied[class][uint16(n)] = true
	}
	markDotted := func(class ids.Class, raw string) {
		for _, part := range strings.Split(raw, ".") {
			mark(class, part)
		}
	}

	for _, obj := range objs {
		if v, ok := obj[SourceGroupKey]; ok {
			markDotted(ids.Group, v)
		}
		if v, ok := obj[71]; ok {
			markDotted(ids.Group, v)
		}
		if v, ok := obj[TargetGroupKey]; ok {
			class := ids.Group
			if objID, ok := obj[ObjectIDKey]; ok && objID == "1006" {
				if tt, ok := obj[52]; ok && tt == "1" {
					class = ids.Color
				}
			}
			mark(class, v)
		}
		for _, key := range [3]uint16{21, 22, 23} {
			if v, ok := obj[key]; ok {
				mark(ids.Color, v)
			}
		}
		if v, ok := obj[80]; ok {
			class := ids.Item
			if _, hasBlockField := obj[95]; hasBlockField {
				class = ids.Block
			}
			mark(class, v)
		}
		if v, ok := obj[95]; ok {
			mark(ids.Block, v)
		}
	}
	return occupied
}

// freeIDs enumerates {1..MaxLevelID} not present in occupied, ascending.
func freeIDs(occupied map[uint16]bool) []uint16 {
	free := make([]uint16, 0, MaxLevelID)
	for n := uint16(1); n <= MaxLevelID; n++ {
		if !occupied[n] {
			free = append(free, n)
		}
	}
	return free
}

// idCursor hands out free ids of one class in ascending order, falling
// back to the overflow sentinel once exhausted, and tracks how many
// distinct ids this run has actually assigned for the I5/overflow check.
type idCursor struct {
	class     ids.Class
	free      []uint16
	pos       int
	assigned  map[uint16]bool
}

func newIDCursor(class ids.Class, occupied map[uint16]bool) *idCursor {
	return &idCursor{class: class, free: freeIDs(occupied), assigned: map[uint16]bool{}}
}

func (c *idCursor) next() uint16 {
	var n uint16
	if c.pos < len(c.free) {
		n = c.free[c.pos]
		c.pos++
	} else {
		n = IDMax
	}
	c.assigned[n] = true
	return n
}

func (c *idCursor) recordSpecific(n uint16) {
	c.assigned[n] = true
}

func (c *idCursor) overflowed() error {
	if len(c.assigned) > IDMax {
		return &LevelLimitExceededError{Class: c.class, Actual: len(c.assigned), Max: IDMax}
	}
	return nil
}

// Resolve assigns concrete numbers to every Arbitrary id referenced by
// objs' parameters, in emission order (and, within one object, ascending
// key order rather than map-iteration order, so an object carrying two
// arbitrary ids of the same class — e.g. a trigger's own source group on
// key 57 next to an arbitrary target group on key 51 — always assigns
// them the same concrete numbers run over run, per I6), given the id
// classes already occupied by levelString. It returns an error naming
// the first class to exceed IDMax distinct ids, if any. logger receives a
// warning once a class's assigned-id count comes within nearCeilingMargin
// of IDMax, and an error-level record if a class actually overflows. The
// zero zerolog.Logger is a silent no-op, so callers that don't care can
// pass it unconstructed.
func Resolve(levelString string, objs []*GdObj, logger zerolog.Logger) error {
	occupied := occupiedIDs(parseLevelString(levelString))
	cursors := map[ids.Class]*idCursor{
		ids.Group: newIDCursor(ids.Group, occupied[ids.Group]),
		ids.Color: newIDCursor(ids.Color, occupied[ids.Color]),
		ids.Block: newIDCursor(ids.Block, occupied[ids.Block]),
		ids.Item:  newIDCursor(ids.Item, occupied[ids.Item]),
	}

	for _, obj := range objs {
		keys := make([]uint16, 0, len(obj.Params))
		for key := range obj.Params {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

		for _, key := range keys {
			param := obj.Params[key]
			values, rebuild, ok := idsOf(param)
			if !ok {
				continue
			}
			cur := cursors[classOf(param)]
			resolved := make([]ids.Id, len(values))
			for i, id := range values {
				if id.IsArbitrary() {
					resolved[i] = ids.Specific(cur.next())
				} else {
					cur.recordSpecific(id.Value())
					resolved[i] = id
				}
			}
			obj.Params[key] = rebuild(resolved)
		}
	}

	for _, class := range [4]ids.Class{ids.Group, ids.Color, ids.Block, ids.Item} {
		cur := cursors[class]
		if err := cur.overflowed(); err != nil {
			logger.Error().Str("class", class.String()).Int("assigned", len(cur.assigned)).
				Int("max", IDMax).Msg("id class exceeded level limit")
			return err
		}
		if len(cur.assigned) >= IDMax-nearCeilingMargin {
			logger.Warn().Str("class", class.String()).Int("assigned", len(cur.assigned)).
				Int("max", IDMax).Msg("id class nearing level limit")
		}
	}
	return nil
}

func classOf(p ObjParam) ids.Class {
	if ip, ok := p.(idParam); ok {
		return ip.Class()
	}
	return ids.Group
}

// RemoveSignatureObjects strips every object from an existing level
// string whose source group includes the signature group, clearing a
// prior run's output before new objects are appended (§6.2).
func RemoveSignatureObjects(levelString string) string {
	var kept []string
	for _, chunk := range strings.Split(levelString, ";") {
		trimmed := strings.TrimSpace(chunk)
		if trimmed == "" {
			continue
		}
		if hasSignatureGroup(trimmed) {
			continue
		}
		kept = append(kept, trimmed)
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, ";") + ";"
}

func hasSignatureGroup(chunk string) bool {
	fields := strings.Split(chunk, ",")
	for i := 0; i+1 < len(fields); i += 2 {
		if fields[i] != fmt.Sprint(SourceGroupKey) {
			continue
		}
		for _, part := range strings.Split(fields[i+1], ".") {
			if part == fmt.Sprint(SignatureGroupID) {
				return true
			}
		}
	}
	return false
}

// Append concatenates the cleansed existing level string with the newly
// serialized objects (§4.5 step 6, §6.2), ensuring every object and
// trigger carries the signature group first.
func Append(levelString string, objs []*GdObj) string {
	cleansed := RemoveSignatureObjects(levelString)
	var b strings.Builder
	b.WriteString(cleansed)
	for _, obj := range objs {
		obj.EnsureSignatureGroup()
		b.WriteString(obj.Serialize())
	}
	return b.String()
}
