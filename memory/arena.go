// Package memory implements the value arena the interpreter stores every
// runtime value in. Containers (arrays, dicts) and Maybe values hold Keys
// into this arena rather than values directly, exactly as the original
// interpreter's SlotMap<ValueKey, StoredValue> does. A deep clone walks
// those keys and inserts fresh copies; a context split deep-clones every
// key its context holds, so the two children share no slot.
//
// Go has no slotmap in the retrieval pack to borrow, but it has generics:
// Arena[T] reproduces the same generational-index discipline (grow a
// slice on demand, recycle freed slots, bump a generation counter so a
// stale Key is never silently reread) the teacher's own valStack/bkmStack
// fields use for their simpler grow-on-demand slices.
package memory

// Key references a value previously inserted into an Arena. The zero Key
// is never valid; NewArena never hands one out.
type Key struct {
	index int
	gen   uint32
}

// Valid reports whether k could possibly reference a live slot. It does
// not check the arena itself, only that k is not the zero value.
func (k Key) Valid() bool { return k.gen != 0 || k.index != 0 }

type slot[T any] struct {
	value    T
	occupied bool
	gen      uint32
}

// Arena is a generation-checked, growable store of values of type T.
type Arena[T any] struct {
	slots []slot[T]
	free  []int
}

// NewArena returns an empty Arena.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores v and returns the Key that retrieves it.
func (a *Arena[T]) Insert(v T) Key {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[idx].value = v
		a.slots[idx].occupied = true
		return Key{index: idx, gen: a.slots[idx].gen}
	}
	a.slots = append(a.slots, slot[T]{value: v, occupied: true, gen: 1})
	return Key{index: len(a.slots) - 1, gen: 1}
}

// Get returns the value stored at k and whether k is still live.
func (a *Arena[T]) Get(k Key) (T, bool) {
	var zero T
	if k.index < 0 || k.index >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[k.index]
	if !s.occupied || s.gen != k.gen {
		return zero, false
	}
	return s.value, true
}

// Set overwrites the value at k in place. It reports false, leaving the
// arena untouched, if k is no longer live.
func (a *Arena[T]) Set(k Key, v T) bool {
	if k.index < 0 || k.index >= len(a.slots) {
		return false
	}
	s := &a.slots[k.index]
	if !s.occupied || s.gen != k.gen {
		return false
	}
	s.value = v
	return true
}

// Remove frees the slot at k so a future Insert can recycle it. Any Key
// still pointing at this slot becomes stale: its generation no longer
// matches.
func (a *Arena[T]) Remove(k Key) bool {
	if k.index < 0 || k.index >= len(a.slots) {
		return false
	}
	s := &a.slots[k.index]
	if !s.occupied || s.gen != k.gen {
		return false
	}
	var zero T
	s.value = zero
	s.occupied = false
	s.gen++
	a.free = append(a.free, k.index)
	return true
}

// Len reports the number of live (non-removed) entries.
func (a *Arena[T]) Len() int {
	return len(a.slots) - len(a.free)
}
