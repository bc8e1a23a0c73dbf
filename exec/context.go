// Package exec implements the context-splitting interpreter loop: the
// Context/FullContext execution-state tree, Globals (the arena, id
// counters, emitted objects/triggers, live-call set), and the bytecode
// dispatch loop, grounded on original_source/src/interpreter/contexts.rs
// and interpreter.rs.
package exec

import (
	"github.com/DexterHill0/SPWN-language/ids"
	"github.com/DexterHill0/SPWN-language/memory"
	"github.com/DexterHill0/SPWN-language/value"
)

// Frame is one call-frame: which function, which instruction index, and
// the call id that must still be live in Globals for this frame to keep
// running (§4.3 Return).
type Frame struct {
	FuncID int
	Pos    int
	CallID int64
}

// BlockKind tags a Context's block-stack entries.
type BlockKind uint8

const (
	BlockFor BlockKind = iota
	BlockTry
)

// Block is one active block: a running `for` loop (referencing its
// iterator on IterStack) or a `try` handler (a jump destination).
type Block struct {
	Kind    BlockKind
	Handler int
}

// ReturnKind marks whether/how a Context finished.
type ReturnKind uint8

const (
	ReturnNone ReturnKind = iota
	ReturnExplicit
	ReturnImplicit
)

// Context is one logical execution thread: a GD group tag, a call-frame
// chain, variable-index stacks (one stack per compile-time id so nested
// scopes can shadow), an operand stack, active iterator/block state, and
// a return marker.
type Context struct {
	Group ids.Id
	ID    string

	Pos   []Frame
	Vars  map[int][]memory.Key
	Stack []memory.Key

	IterStack  []*value.ValueIter
	BlockStack []Block

	Returned ReturnKind
}

// NewContext returns a fresh context rooted at (funcID, 0) tagged with
// group, with the textual path id (conventionally "O" for the program's
// outermost context).
func NewContext(id string, group ids.Id, funcID int, callID int64) *Context {
	return &Context{
		Group: group,
		ID:    id,
		Pos:   []Frame{{FuncID: funcID, Pos: 0, CallID: callID}},
		Vars:  map[int][]memory.Key{},
	}
}

func (c *Context) CurrentFrame() *Frame {
	if len(c.Pos) == 0 {
		return nil
	}
	return &c.Pos[len(c.Pos)-1]
}

func (c *Context) PushFrame(f Frame)   { c.Pos = append(c.Pos, f) }
func (c *Context) PopFrame()           { if len(c.Pos) > 0 { c.Pos = c.Pos[:len(c.Pos)-1] } }
func (c *Context) Yeet()               { c.Pos = nil }
func (c *Context) IsDead() bool        { return len(c.Pos) == 0 }

func (c *Context) Push(k memory.Key) { c.Stack = append(c.Stack, k) }

func (c *Context) Pop() (memory.Key, bool) {
	n := len(c.Stack)
	if n == 0 {
		return memory.Key{}, false
	}
	k := c.Stack[n-1]
	c.Stack = c.Stack[:n-1]
	return k, true
}

func (c *Context) Top() (memory.Key, bool) {
	n := len(c.Stack)
	if n == 0 {
		return memory.Key{}, false
	}
	return c.Stack[n-1], true
}

// PushVar introduces a new shadowing entry for variable id.
func (c *Context) PushVar(id int, k memory.Key) {
	c.Vars[id] = append(c.Vars[id], k)
}

// PopVar discards the innermost entry for variable id, unshadowing any
// enclosing scope's binding.
func (c *Context) PopVar(id int) {
	s := c.Vars[id]
	if len(s) > 0 {
		c.Vars[id] = s[:len(s)-1]
	}
}

// SetVar overwrites the innermost entry for variable id, introducing one
// if none exists yet.
func (c *Context) SetVar(id int, k memory.Key) {
	s := c.Vars[id]
	if len(s) == 0 {
		c.Vars[id] = []memory.Key{k}
		return
	}
	s[len(s)-1] = k
}

// ReplaceVar is SetVar under the name contexts.rs uses for the same
// operation (replacing the current binding rather than shadowing it).
func (c *Context) ReplaceVar(id int, k memory.Key) { c.SetVar(id, k) }

func (c *Context) GetVar(id int) (memory.Key, bool) {
	s := c.Vars[id]
	if len(s) == 0 {
		return memory.Key{}, false
	}
	return s[len(s)-1], true
}

// Clone produces an independent deep copy of c: every key reachable from
// its variable stacks, operand stack, and active iterators is
// deep-cloned into a freshly inserted slot, so the clone shares no slot
// with c (§3 Invariants, §4.3 split_context). idSuffix is appended to the
// clone's textual path.
func (c *Context) Clone(a value.Arena, idSuffix string) *Context {
	nc := &Context{
		Group:    c.Group,
		ID:       c.ID + idSuffix,
		Pos:      append([]Frame(nil), c.Pos...),
		Vars:     make(map[int][]memory.Key, len(c.Vars)),
		Returned: c.Returned,
	}
	for id, stack := range c.Vars {
		cloned := make([]memory.Key, len(stack))
		for i, k := range stack {
			cloned[i] = value.DeepClone(a, k)
		}
		nc.Vars[id] = cloned
	}
	nc.Stack = make([]memory.Key, len(c.Stack))
	for i, k := range c.Stack {
		nc.Stack[i] = value.DeepClone(a, k)
	}
	nc.IterStack = make([]*value.ValueIter, len(c.IterStack))
	for i, it := range c.IterStack {
		nc.IterStack[i] = cloneIter(a, it)
	}
	nc.BlockStack = append([]Block(nil), c.BlockStack...)
	return nc
}

func cloneIter(a value.Arena, it *value.ValueIter) *value.ValueIter {
	if it == nil {
		return nil
	}
	clone := &value.ValueIter{Kind: it.Kind, Cursor: it.Cursor}
	switch it.Kind {
	case value.IterArray:
		clone.Keys = make([]memory.Key, len(it.Keys))
		for i, k := range it.Keys {
			clone.Keys[i] = value.DeepClone(a, k)
		}
	case value.IterDict:
		clone.Entries = make([]value.DictEntry, len(it.Entries))
		for i, e := range it.Entries {
			clone.Entries[i] = value.DictEntry{Name: e.Name, Key: value.DeepClone(a, e.Key)}
		}
	case value.IterString:
		clone.Chars = append([]rune(nil), it.Chars...)
	}
	return clone
}
