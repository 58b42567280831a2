package exprlang

// Variable is one named numeric slot in an Environment. Its Value field's
// address is stable for the variable's lifetime: a VAR AST node stores a
// pointer to it directly so reads/writes at eval time are O(1), with no
// further name lookup.
type Variable struct {
	Name  string
	Value float64
	next  *Variable
}

// Environment is a flat, global namespace of Variables for one expression (or
// family of expressions compiled against the same names). It is a
// singly-linked list headed by the Environment, matching the reference
// engine's append-at-head variable list; lookup is linear by name equality.
//
// An Environment must outlive every *exprlang.AST compiled against it: VAR
// nodes hold a non-owning pointer into it.
type Environment struct {
	head  *Variable
	Funcs FuncTable
}

// NewEnvironment returns an empty Environment using funcs as its host
// function table. funcs may be nil, in which case only macros (and no host
// functions) are callable.
func NewEnvironment(funcs FuncTable) *Environment {
	return &Environment{Funcs: funcs}
}

// Var looks up the Variable named name, creating and appending it (at the
// head of the list, with value 0) if absent. Var is idempotent: two calls
// with the same name return the same *Variable.
func (e *Environment) Var(name string) *Variable {
	for v := e.head; v != nil; v = v.next {
		if v.Name == name {
			return v
		}
	}
	v := &Variable{Name: name}
	v.next = e.head
	e.head = v
	return v
}

// Lookup returns the Variable named name without creating it, and reports
// whether it was found.
func (e *Environment) Lookup(name string) (*Variable, bool) {
	for v := e.head; v != nil; v = v.next {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// All returns the name/value of every Variable currently in e, including
// ones created mid-expression by assignment.
func (e *Environment) All() map[string]float64 {
	vars := make(map[string]float64)
	for v := e.head; v != nil; v = v.next {
		vars[v.Name] = v.Value
	}
	return vars
}

// Func is a host-provided function invoked by a FUNC AST node.
//
// ctx is the per-call context buffer (len(ctx) == CtxSize, freshly allocated
// and zeroed for each call node by the parser, and for each cloned node by
// the cloner). args are the node's argument subtrees, unevaluated; Eval is
// responsible for evaluating whichever of them it needs, in whatever order
// it chooses to read them.
type Func struct {
	Name string

	// Eval is invoked to produce the call's value.
	Eval func(args []*Node, eval func(*Node) float64, ctx []byte) float64

	// Cleanup, if non-nil, is invoked on a call node's context buffer when
	// that node is torn down, before the buffer itself is released.
	Cleanup func(ctx []byte)

	// CtxSize is the size in bytes of the per-call context buffer to
	// allocate for each call node bound to this descriptor. Zero means no
	// context is allocated; Eval and Cleanup then receive a nil slice.
	CtxSize int
}

// FuncTable is the caller-owned, static table of host functions a parse may
// bind FUNC nodes against, keyed by name.
type FuncTable map[string]*Func
