// Package exprscript is an embeddable arithmetic expression engine: compile
// a textual infix expression once with Create, then evaluate the result
// repeatedly against the Environment (variables) and FuncTable (host
// functions) it was compiled with.
//
// The expression language supports numeric literals, named variables with
// assignment, C-like arithmetic/logical/bitwise/comparison operators with
// conventional precedence, comma sequencing, parenthesized grouping,
// host-provided functions, and textual macros defined with `$(name, body)`.
//
// The compiler, AST, and evaluator live in the internal/exprlang package;
// this package is the stable surface callers use.
package exprscript
