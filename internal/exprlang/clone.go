package exprlang

// cloneNode deep-copies n. For a FUNC node the descriptor pointer is shared
// but a fresh context buffer is allocated (zeroed, CtxSize bytes) instead of
// copying the old one's contents — this is a deliberate carry-over of the
// reference engine's behaviour (see SPEC_FULL.md §5 / spec.md §9): a macro
// body containing a call expands to a brand new call node on every
// instantiation, and any host function that accumulates state in its context
// across calls will see an empty context on each macro-expanded instance.
// VAR nodes copy the pointer, so a cloned VAR still shares the same
// Variable (and hence the same macro parameter slot) as the original.
func cloneNode(n *Node) *Node {
	if n == nil {
		return nil
	}
	clone := &Node{
		Kind:       n.Kind,
		Value:      n.Value,
		Ref:        n.Ref,
		Descriptor: n.Descriptor,
		Op:         n.Op,
	}
	if n.Kind == nodeFunc && n.Descriptor != nil && n.Descriptor.CtxSize > 0 {
		clone.Ctx = make([]byte, n.Descriptor.CtxSize)
	}
	if len(n.Args) > 0 {
		clone.Args = make([]*Node, len(n.Args))
		for i, a := range n.Args {
			clone.Args[i] = cloneNode(a)
		}
	}
	return clone
}
