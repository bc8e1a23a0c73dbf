package value

import "github.com/DexterHill0/SPWN-language/memory"

// IterKind tags which container a ValueIter was built from.
type IterKind uint8

const (
	IterArray IterKind = iota
	IterDict
	IterString
)

// DictEntry is one name/key pair yielded while iterating a Dict.
type DictEntry struct {
	Name string
	Key  memory.Key
}

// ValueIter is the frozen iteration state ToIter produces: a snapshot of
// the container taken at conversion time plus a cursor, per §4.4. It does
// not itself touch the arena; exec deep-clones each yielded key onto the
// context's stack as IterNext advances.
type ValueIter struct {
	Kind    IterKind
	Keys    []memory.Key
	Entries []DictEntry
	Chars   []rune
	Cursor  int
}

// NewArrayIter snapshots an array's key sequence.
func NewArrayIter(keys []memory.Key) *ValueIter {
	return &ValueIter{Kind: IterArray, Keys: append([]memory.Key(nil), keys...)}
}

// NewDictIter freezes a dict's name→key mapping in its current insertion
// order.
func NewDictIter(d *Dict) *ValueIter {
	entries := make([]DictEntry, len(d.Order))
	for i, name := range d.Order {
		entries[i] = DictEntry{Name: name, Key: d.Keys[name]}
	}
	return &ValueIter{Kind: IterDict, Entries: entries}
}

// NewStringIter snapshots a string's characters.
func NewStringIter(s string) *ValueIter {
	return &ValueIter{Kind: IterString, Chars: []rune(s)}
}

// Done reports whether the cursor has consumed every element.
func (it *ValueIter) Done() bool {
	switch it.Kind {
	case IterArray:
		return it.Cursor >= len(it.Keys)
	case IterDict:
		return it.Cursor >= len(it.Entries)
	case IterString:
		return it.Cursor >= len(it.Chars)
	default:
		return true
	}
}

// NextArrayKey returns the next element's arena key and advances the
// cursor. Valid only when Kind == IterArray.
func (it *ValueIter) NextArrayKey() (memory.Key, bool) {
	if it.Done() {
		return memory.Key{}, false
	}
	k := it.Keys[it.Cursor]
	it.Cursor++
	return k, true
}

// NextDictEntry returns the next name/key pair and advances the cursor.
// Valid only when Kind == IterDict.
func (it *ValueIter) NextDictEntry() (DictEntry, bool) {
	if it.Done() {
		return DictEntry{}, false
	}
	e := it.Entries[it.Cursor]
	it.Cursor++
	return e, true
}

// NextChar returns the next character, as a one-rune string, and advances
// the cursor. Valid only when Kind == IterString.
func (it *ValueIter) NextChar() (string, bool) {
	if it.Done() {
		return "", false
	}
	c := it.Chars[it.Cursor]
	it.Cursor++
	return string(c), true
}
