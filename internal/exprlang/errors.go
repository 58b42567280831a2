// Package exprlang implements the compiler front end (lexer, shunting-yard
// parser with macro expansion) and evaluator for the exprscript expression
// language.
package exprlang

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// diagnosticWidth is the column width FullMessage wraps its prose at, matching
// the console width the original engine wrapped interpreter output to.
const diagnosticWidth = 80

// ErrCode identifies the reason a parse failed. The zero value, ErrUnknown,
// is the catch-all.
type ErrCode int

const (
	ErrUnknown ErrCode = iota
	ErrUnexpectedNumber
	ErrUnexpectedWord
	ErrUnexpectedParens
	ErrMissExpectedOperand
	ErrUnknownOperator
	ErrInvalidFuncName
	ErrBadCall
	ErrBadParens
	ErrTooFewFuncArgs
	ErrFirstArgIsNotVar
	ErrAllocationFailed
	ErrBadVariableName
	ErrBadAssignment
)

func (c ErrCode) String() string {
	switch c {
	case ErrUnknown:
		return "unknown error"
	case ErrUnexpectedNumber:
		return "unexpected number"
	case ErrUnexpectedWord:
		return "unexpected word"
	case ErrUnexpectedParens:
		return "unexpected parenthesis"
	case ErrMissExpectedOperand:
		return "missing expected operand"
	case ErrUnknownOperator:
		return "unknown operator"
	case ErrInvalidFuncName:
		return "invalid function name"
	case ErrBadCall:
		return "bad call"
	case ErrBadParens:
		return "bad parenthesis"
	case ErrTooFewFuncArgs:
		return "too few arguments to function"
	case ErrFirstArgIsNotVar:
		return "first argument is not a variable"
	case ErrAllocationFailed:
		return "allocation failed"
	case ErrBadVariableName:
		return "bad variable name"
	case ErrBadAssignment:
		return "bad assignment"
	default:
		return fmt.Sprintf("error code %d", int(c))
	}
}

// SyntaxError is returned when parsing fails. It carries the error code, the
// byte offset nearest to the failure, and (derived by tracking newlines seen
// during lexing) a 1-indexed line/column pair plus the offending source line,
// so that a caller can render a one-line diagnostic without re-scanning the
// source itself.
type SyntaxError struct {
	Code ErrCode

	// Near is the 0-indexed byte offset into the compiled text nearest to
	// the failure.
	Near int

	// Line and Col are 1-indexed. They are 0 if position tracking was not
	// available (this never happens for parse errors produced by Create,
	// but is left at the zero value for errors synthesized elsewhere).
	Line, Col int

	sourceLine string
	message    string
}

func (se SyntaxError) Error() string {
	if se.Line == 0 {
		return fmt.Sprintf("%s: near byte %d", se.Code, se.Near)
	}
	return fmt.Sprintf("%s: line %d, col %d: %s", se.Code, se.Line, se.Col, se.message)
}

// SourceLine returns the source line the error occurred on, or "" if none is
// available.
func (se SyntaxError) SourceLine() string {
	return se.sourceLine
}

// FullMessage renders se as a multi-line diagnostic: the wrapped error text
// followed by the offending source line and a caret under the failing
// column. It returns Error() alone if no line/column was recorded.
func (se SyntaxError) FullMessage() string {
	summary := rosed.Edit(se.Error()).Wrap(diagnosticWidth).String()
	if se.Line == 0 {
		return summary
	}

	caret := strings.Repeat(" ", se.Col-1) + "^"
	detail := rosed.Edit(se.sourceLine + "\n" + caret).Indent(1).String()
	return summary + "\n" + detail
}

func newSyntaxError(code ErrCode, near int, text string) SyntaxError {
	se := SyntaxError{Code: code, Near: near, message: code.String()}
	se.Line, se.Col, se.sourceLine = locate(text, near)
	return se
}

// locate derives a 1-indexed line/column and the text of that line for the
// byte offset off into text. It is an enrichment over the single "near"
// offset the original engine reports; the core lexer does not need line
// tracking to operate, only diagnostics do.
func locate(text string, off int) (line, col int, sourceLine string) {
	if off < 0 {
		off = 0
	}
	if off > len(text) {
		off = len(text)
	}
	line = 1
	lineStart := 0
	for i := 0; i < off; i++ {
		if text[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	col = off - lineStart + 1
	lineEnd := len(text)
	for i := lineStart; i < len(text); i++ {
		if text[i] == '\n' {
			lineEnd = i
			break
		}
	}
	sourceLine = text[lineStart:lineEnd]
	return
}
