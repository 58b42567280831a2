package exprscript

import "github.com/lucaspiller/exprscript/internal/exprlang"

// Expr is a compiled expression: an AST produced once by Create and
// evaluated repeatedly against the Environment it was compiled with.
//
// Expr is not safe for concurrent evaluation by multiple goroutines when
// they share an Environment; evaluating a single Expr from one goroutine at
// a time is the contract (see SPEC_FULL.md §1 / spec.md §5).
type Expr struct {
	root *exprlang.Node
	env  *Environment
}

// Create compiles text against env, resolving FUNC calls against funcs. On
// success it returns the compiled Expr; on failure it returns a nil Expr and
// a *ParseError (see CreateWithDiagnostics to access the error's Code/Near/
// Line/Col directly without a type assertion).
func Create(text string, env *Environment, funcs FuncTable) (*Expr, error) {
	root, err := exprlang.Parse(text, env.inner, funcs)
	if err != nil {
		return nil, err
	}
	return &Expr{root: root, env: env}, nil
}

// CreateWithDiagnostics is Create, but returns the failure as a concrete
// *ParseError rather than the bare error interface, for callers that want
// Near/Line/Col/FullMessage without a type assertion.
func CreateWithDiagnostics(text string, env *Environment, funcs FuncTable) (*Expr, *ParseError) {
	e, err := Create(text, env, funcs)
	if err != nil {
		pe := err.(ParseError)
		return nil, &pe
	}
	return e, nil
}

// Eval evaluates the expression against the environment it was compiled
// with. Eval cannot fail: anomalous results are IEEE values (NaN, +/-Inf).
func (e *Expr) Eval() float64 {
	return exprlang.Eval(e.root)
}

// Destroy releases e's AST, running any FUNC Cleanup hooks registered on its
// call nodes. It does not touch the Environment e was compiled against; call
// Environment.Destroy separately once no compiled Expr still references it.
func (e *Expr) Destroy() {
	exprlang.Destroy(e.root)
	e.root = nil
}
