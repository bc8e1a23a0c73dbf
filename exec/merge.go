package exec

// MergeContexts is the reserved synchronization point (§4.4, §9 Open
// Questions). The original source comments out its merge logic entirely
// rather than shipping a guessed mergable-state predicate; this keeps
// the same conservative choice: observe the instruction (advance past
// it) without merging anything.
//
// A later, non-conservative implementation would: compare the sibling
// contexts reachable at this program point for structural equality of
// their variable frames and stacks modulo group id, and if equal, emit a
// spawn trigger that routes both contexts' current groups into one
// freshly allocated group, then collapse the siblings into a single
// surviving context carrying that group. That predicate is unspecified
// in the source this was distilled from ("Do not infer intent" — §9),
// so it is not implemented here.
func (ex *Executor) mergeContexts(ctx *Context) {
	_ = ctx
}
