package exprscript

import "github.com/lucaspiller/exprscript/internal/exprlang"

// ErrCode identifies why a Create call failed. See the package-level
// constants for the full taxonomy.
type ErrCode = exprlang.ErrCode

const (
	ErrUnknown             = exprlang.ErrUnknown
	ErrUnexpectedNumber     = exprlang.ErrUnexpectedNumber
	ErrUnexpectedWord       = exprlang.ErrUnexpectedWord
	ErrUnexpectedParens     = exprlang.ErrUnexpectedParens
	ErrMissExpectedOperand  = exprlang.ErrMissExpectedOperand
	ErrUnknownOperator      = exprlang.ErrUnknownOperator
	ErrInvalidFuncName      = exprlang.ErrInvalidFuncName
	ErrBadCall              = exprlang.ErrBadCall
	ErrBadParens            = exprlang.ErrBadParens
	ErrTooFewFuncArgs       = exprlang.ErrTooFewFuncArgs
	ErrFirstArgIsNotVar     = exprlang.ErrFirstArgIsNotVar
	ErrAllocationFailed     = exprlang.ErrAllocationFailed
	ErrBadVariableName      = exprlang.ErrBadVariableName
	ErrBadAssignment        = exprlang.ErrBadAssignment
)

// ParseError is returned by Create/CreateWithDiagnostics when compilation
// fails. It carries the error Code, the near byte offset, and (derived from
// tracking newlines during lexing) a 1-indexed Line/Col pair plus the
// offending source line.
type ParseError = exprlang.SyntaxError
