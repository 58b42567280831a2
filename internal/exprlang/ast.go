package exprlang

// nodeKind is the outer tag on an AST Node. Operator nodes (unary and
// binary) share nodeOp and are further distinguished by their Op field;
// CONST, VAR, and FUNC each have a dedicated kind and payload.
type nodeKind int

const (
	nodeConst nodeKind = iota
	nodeVar
	nodeFunc
	nodeOp
)

// Node is a single AST node. Which fields are meaningful depends on Kind:
//
//	CONST: Value
//	VAR:   Ref
//	FUNC:  Descriptor, Ctx, Args
//	unary op (Op one of the unary kinds): Args[0]
//	binary op (Op one of the binary kinds): Args[0], Args[1]
//
// A Node owns its Args exclusively; subtrees never alias each other except
// through VAR's Ref, which is a non-owning pointer into the Environment the
// expression was compiled against.
type Node struct {
	Kind nodeKind

	Value float64   // CONST
	Ref   *Variable // VAR

	Descriptor *Func  // FUNC
	Ctx        []byte // FUNC: per-call context, owned by this node

	Op   opKind
	Args []*Node
}

func newConst(v float64) *Node {
	return &Node{Kind: nodeConst, Value: v}
}

func newVarRef(ref *Variable) *Node {
	return &Node{Kind: nodeVar, Ref: ref}
}

func newUnary(op opKind, arg *Node) *Node {
	return &Node{Kind: nodeOp, Op: op, Args: []*Node{arg}}
}

func newBinary(op opKind, left, right *Node) *Node {
	return &Node{Kind: nodeOp, Op: op, Args: []*Node{left, right}}
}

func newCall(desc *Func, args []*Node) *Node {
	n := &Node{Kind: nodeFunc, Descriptor: desc, Args: args}
	if desc.CtxSize > 0 {
		n.Ctx = make([]byte, desc.CtxSize)
	}
	return n
}

// destroy tears down a node and its subtree, invoking any FUNC Cleanup
// callback before releasing its context. Go's GC reclaims the memory itself;
// destroy exists to run the user-supplied Cleanup hooks the same way
// expr_destroy_args does, so host functions that hold non-memory resources
// (file handles, counters in an external system) via their context are still
// notified.
// Destroy tears down root and its subtree, running any FUNC Cleanup hooks.
// See the unexported destroy method for why this is needed despite Go's GC.
func Destroy(root *Node) {
	root.destroy()
}

func (n *Node) destroy() {
	if n == nil {
		return
	}
	for _, a := range n.Args {
		a.destroy()
	}
	if n.Kind == nodeFunc && n.Descriptor != nil && n.Descriptor.Cleanup != nil {
		n.Descriptor.Cleanup(n.Ctx)
	}
}
