package exprscript

import "github.com/lucaspiller/exprscript/internal/exprlang"

// Function is a host-provided function a compiled expression can call.
//
// Eval is invoked to produce the call's value; args are the call's argument
// subtrees, unevaluated, and eval evaluates whichever of them Eval chooses to
// read, in whatever order it reads them. ctx is the per-call context buffer
// (len(ctx) == CtxSize), freshly allocated and zeroed for this call node (and
// for each clone of it produced by macro expansion); Cleanup, if set, runs on
// ctx when the node that owns it is destroyed.
type Function = exprlang.Func

// FuncTable is the caller-owned, static table of host functions available to
// a compiled expression, keyed by name.
type FuncTable = exprlang.FuncTable
