package exec

import "github.com/DexterHill0/SPWN-language/value"

// FullContext is a rose tree of Single leaves and binary Split internal
// nodes (§4.3). A node is a leaf iff Single != nil.
type FullContext struct {
	Single *Context
	Left   *FullContext
	Right  *FullContext
}

// NewSingle wraps c as a one-leaf tree.
func NewSingle(c *Context) *FullContext { return &FullContext{Single: c} }

// Inner returns the leaf's Context. It panics on a Split node, mirroring
// the original's inner(), which is only ever called where the caller has
// already established the node is a leaf.
func (f *FullContext) Inner() *Context {
	if f.Single == nil {
		panic("exec: Inner called on a Split FullContext node")
	}
	return f.Single
}

// Split replaces this leaf with Split(Single(orig), Single(clone)),
// where clone is a full deep-clone of orig (§4.3 split_context). orig
// keeps this node's Context pointer identity-wise (same struct, "a"
// suffix appended to its id); clone gets "b". It returns both so the
// caller can give them independent instruction pointers.
func (f *FullContext) Split(a value.Arena) (left, right *Context) {
	if f.Single == nil {
		panic("exec: Split called on a Split FullContext node")
	}
	orig := f.Single
	clone := orig.Clone(a, "b")
	orig.ID = orig.ID + "a"

	f.Single = nil
	f.Left = &FullContext{Single: orig}
	f.Right = &FullContext{Single: clone}
	return orig, clone
}

// Leaves returns every leaf node in left-to-right order, using an
// explicit stack of pending right subtrees rather than recursion
// (grounded on contexts.rs's ContextIter, which walks the same way to
// avoid unbounded call-stack growth on a deeply split tree).
func (f *FullContext) Leaves() []*FullContext {
	if f == nil {
		return nil
	}
	var out []*FullContext
	var pendingRight []*FullContext
	cur := f
	for cur != nil || len(pendingRight) > 0 {
		for cur != nil && cur.Single == nil {
			pendingRight = append(pendingRight, cur.Right)
			cur = cur.Left
		}
		if cur != nil {
			out = append(out, cur)
		}
		if len(pendingRight) == 0 {
			break
		}
		cur = pendingRight[len(pendingRight)-1]
		pendingRight = pendingRight[:len(pendingRight)-1]
	}
	return out
}

// Prune removes every leaf for which dead reports true and rebalances
// the survivors into a right-leaning chain (§4.3 remove_finished /
// clean_yeeted). It returns nil if every leaf died.
func Prune(root *FullContext, dead func(*Context) bool) *FullContext {
	leaves := root.Leaves()
	survivors := make([]*Context, 0, len(leaves))
	for _, leaf := range leaves {
		if !dead(leaf.Single) {
			survivors = append(survivors, leaf.Single)
		}
	}
	if len(survivors) == 0 {
		return nil
	}
	node := &FullContext{Single: survivors[len(survivors)-1]}
	for i := len(survivors) - 2; i >= 0; i-- {
		node = &FullContext{Left: &FullContext{Single: survivors[i]}, Right: node}
	}
	return node
}
