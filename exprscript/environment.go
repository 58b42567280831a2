package exprscript

import "github.com/lucaspiller/exprscript/internal/exprlang"

// Variable is one named numeric slot in an Environment.
type Variable = exprlang.Variable

// Environment is the flat, global variable namespace an expression compiles
// and evaluates against. An Environment must outlive every Expr compiled
// against it: a compiled expression's VAR nodes hold pointers directly into
// it.
//
// The zero value is not usable; construct one with NewEnvironment.
type Environment struct {
	inner *exprlang.Environment
}

// NewEnvironment returns an empty Environment whose compiled expressions may
// call the host functions in funcs. funcs may be nil if no host functions
// (only macros) are needed.
func NewEnvironment(funcs FuncTable) *Environment {
	return &Environment{inner: exprlang.NewEnvironment(funcs)}
}

// Var looks up the Variable named name, creating it (with value 0) if
// absent. Var is idempotent: two calls with the same name return the same
// *Variable.
func (e *Environment) Var(name string) *Variable {
	return e.inner.Var(name)
}

// Lookup returns the Variable named name without creating it, and reports
// whether it was found.
func (e *Environment) Lookup(name string) (*Variable, bool) {
	return e.inner.Lookup(name)
}

// All returns the name/value of every Variable currently in e, including
// ones created mid-expression by assignment.
func (e *Environment) All() map[string]float64 {
	return e.inner.All()
}

// Destroy releases e. Go's garbage collector reclaims the underlying memory
// regardless; Destroy exists for parity with the engine's explicit
// create/destroy lifecycle and to drop e's reference to its variable list
// promptly rather than waiting on e itself to become unreachable.
func (e *Environment) Destroy() {
	e.inner = nil
}
