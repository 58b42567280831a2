package exprlang

import (
	"fmt"

	"github.com/lucaspiller/exprscript/internal/util"
)

// parenMode tracks what a following '(' would mean: free grouping, a
// required call-open (an identifier naming something callable was just
// buffered), or forbidden (the previous token already completed a value, so
// a following '(' would be attempting a call on a non-callable).
type parenMode int

const (
	parenAllowed parenMode = iota
	parenForbidden
)

// sentinelKind distinguishes the two kinds of marker pushed to the operator
// stack: a plain grouping '(' and a call-open '{' (spec.md §4.E's "(" / "{"
// sentinels).
type sentinelKind int

const (
	itemOperator sentinelKind = iota
	itemParen
	itemCallOpen
)

// opStackItem is one entry on the operator stack: either a reducible
// operator, or one of the two sentinel kinds.
type opStackItem struct {
	kind  sentinelKind
	op    opKind
	unary bool
	name  string // identifier lexeme, for itemCallOpen
}

// callFrame tracks one in-progress call: the output-stack height at the
// point the call opened (used to detect whether a trailing, not-yet-comma'd
// argument remains when the call closes) and the arguments accumulated so
// far via comma-separation.
type callFrame struct {
	outLen int
	name   string
	args   []*Node
}

// parser is shunting-yard parser state. Its three stacks (output, operator,
// call frames) plus parenMode are the entire state, kept local to one
// compile the way spec.md §9 "Shunting-yard state" directs.
type parser struct {
	lx    *lexer
	env   *Environment
	funcs FuncTable

	macros map[string][]*Node

	output util.Stack[*Node]
	ops    util.Stack[opStackItem]
	frames util.Stack[*callFrame]

	mode parenMode

	pendingIdent *token
}

// Parse compiles text into an AST evaluated against env, resolving FUNC calls
// against funcs. On success it returns the root node; on failure it returns
// a SyntaxError identifying where and why.
func Parse(text string, env *Environment, funcs FuncTable) (*Node, error) {
	p := &parser{
		lx:     newLexer(text),
		env:    env,
		funcs:  funcs,
		macros: make(map[string][]*Node),
		mode:   parenAllowed,
	}
	root, err := p.parse()
	if err != nil {
		// Tear down any partially built AST; the macro table and call
		// frame argument lists are just Go slices and need no explicit
		// free, but FUNC contexts allocated so far still get their
		// Cleanup hooks run.
		for {
			v, ok := p.output.Pop()
			if !ok {
				break
			}
			v.destroy()
		}
		return nil, err
	}
	return root, nil
}

func (p *parser) errAt(code ErrCode) error {
	return newSyntaxError(code, p.lx.pos, p.lx.text)
}

func (p *parser) parse() (*Node, error) {
	for {
		tok, err := p.lx.next()
		if err != nil {
			return nil, err
		}

		if p.pendingIdent != nil {
			ident := *p.pendingIdent
			p.pendingIdent = nil

			if tok.kind == tokOpen {
				if err := p.openCall(ident); err != nil {
					return nil, err
				}
				continue
			}

			// Not a call: the buffered identifier is a variable
			// reference.
			p.output.Push(newVarRef(p.env.Var(ident.text)))
			p.mode = parenForbidden
			if err := p.reduceUnary(); err != nil {
				return nil, err
			}
			// fall through to process tok itself below
		}

		switch tok.kind {
		case tokEOF:
			return p.finish()

		case tokWord:
			w := tok
			p.pendingIdent = &w
			continue

		case tokNumber:
			v, ok := parseNumber(tok.text)
			if !ok {
				return nil, newSyntaxError(ErrBadVariableName, tok.start, p.lx.text)
			}
			p.output.Push(newConst(v))
			p.mode = parenForbidden
			if err := p.reduceUnary(); err != nil {
				return nil, err
			}

		case tokOpen:
			if p.mode == parenForbidden {
				return nil, p.errAt(ErrBadCall)
			}
			p.ops.Push(opStackItem{kind: itemParen})
			p.mode = parenAllowed

		case tokClose:
			if err := p.closeGroup(); err != nil {
				return nil, err
			}

		case tokOp, tokComma:
			if err := p.handleOperator(tok); err != nil {
				return nil, err
			}
		}
	}
}

// operatorKind resolves a lexed operator (or auto-comma) token to its opKind.
func operatorKind(tok token) opKind {
	if tok.kind == tokComma {
		return opComma
	}
	if tok.unary {
		e, _ := matchUnary(tok.text[0])
		return e.kind
	}
	for _, e := range binOps {
		if e.lexeme == tok.text {
			return e.kind
		}
	}
	return opUnknown
}

func (p *parser) handleOperator(tok token) error {
	incoming := operatorKind(tok)

	if err := p.reduceWhile(incoming); err != nil {
		return err
	}

	if incoming == opComma {
		if top, ok := p.ops.Peek(); ok && top.kind == itemCallOpen {
			v, ok := p.output.Pop()
			if !ok {
				return p.errAt(ErrMissExpectedOperand)
			}
			frame, _ := p.frames.Peek()
			frame.args = append(frame.args, v)
			p.mode = parenAllowed
			return nil
		}
	}

	p.ops.Push(opStackItem{kind: itemOperator, op: incoming, unary: tok.unary})
	p.mode = parenAllowed
	return nil
}

// reduceWhile pops and binds operators off the operator stack while they
// should reduce ahead of incoming, per spec.md §4.C's should_reduce
// predicate. It stops at a sentinel or an empty stack.
func (p *parser) reduceWhile(incoming opKind) error {
	for {
		top, ok := p.ops.Peek()
		if !ok || top.kind != itemOperator {
			return nil
		}
		if !shouldReduce(top.op, incoming) {
			return nil
		}
		p.ops.Pop()
		if err := p.bind(top); err != nil {
			return err
		}
	}
}

// reduceUnary immediately binds any unary operators sitting on top of the
// operator stack. Unary operators are prefix and always apply to the
// primary that directly follows them, so they reduce as soon as that
// primary (a number, variable, grouped, or call value) completes, rather
// than waiting on the usual precedence comparison against the next token
// (which would never fire: unary's precedence is already the tightest, so
// should_reduce never sees a looser incoming operator to justify it).
func (p *parser) reduceUnary() error {
	for {
		top, ok := p.ops.Peek()
		if !ok || top.kind != itemOperator || !isUnaryKind(top.op) {
			return nil
		}
		p.ops.Pop()
		if err := p.bind(top); err != nil {
			return err
		}
	}
}

// bind pops operands off the output stack for item and pushes the combined
// node back. This is the single routine used both mid-parse (via
// reduceWhile/reduceUnary) and at end-of-input drain, so the BAD_ASSIGNMENT
// check runs identically in both places.
func (p *parser) bind(item opStackItem) error {
	if isUnaryKind(item.op) {
		a, ok := p.output.Pop()
		if !ok {
			return p.errAt(ErrMissExpectedOperand)
		}
		p.output.Push(newUnary(item.op, a))
		return nil
	}

	b, ok := p.output.Pop()
	if !ok {
		return p.errAt(ErrMissExpectedOperand)
	}
	a, ok := p.output.Pop()
	if !ok {
		return p.errAt(ErrMissExpectedOperand)
	}

	if item.op == opAssign && a.Kind != nodeVar {
		return p.errAt(ErrBadAssignment)
	}

	p.output.Push(newBinary(item.op, a, b))
	return nil
}

// openCall is reached when a buffered identifier is directly followed by
// '('. Every such identifier opens a call frame; which of the macro-definer,
// a known macro, a host function, or none of the above it names is resolved
// at the matching close, because macro names only become known once their
// defining call has itself closed (so a macro cannot call itself from
// within its own definition).
func (p *parser) openCall(ident token) error {
	p.ops.Push(opStackItem{kind: itemCallOpen, name: ident.text})
	p.frames.Push(&callFrame{outLen: p.output.Len(), name: ident.text})
	p.mode = parenAllowed
	return nil
}

// closeGroup handles a ')': reduce down to the nearest sentinel, then either
// close a plain grouping paren or materialise a call.
func (p *parser) closeGroup() error {
	for {
		top, ok := p.ops.Peek()
		if !ok {
			return p.errAt(ErrBadParens)
		}
		if top.kind != itemOperator {
			break
		}
		p.ops.Pop()
		if err := p.bind(top); err != nil {
			return err
		}
	}

	sentinel, _ := p.ops.Pop()
	if sentinel.kind == itemParen {
		p.mode = parenForbidden
		return p.reduceUnary()
	}

	frame, _ := p.frames.Pop()
	if p.output.Len() > frame.outLen {
		v, _ := p.output.Pop()
		frame.args = append(frame.args, v)
	}

	if err := p.materialize(frame); err != nil {
		return err
	}
	p.mode = parenForbidden
	return p.reduceUnary()
}

// materialize resolves a closed call frame into the call's AST value,
// pushed onto the output stack, per spec.md §4.E.
func (p *parser) materialize(frame *callFrame) error {
	switch {
	case frame.name == "$":
		if len(frame.args) == 0 {
			return p.errAt(ErrTooFewFuncArgs)
		}
		first := frame.args[0]
		if first.Kind != nodeVar {
			return p.errAt(ErrFirstArgIsNotVar)
		}
		p.macros[first.Ref.Name] = frame.args[1:]
		p.output.Push(newConst(0))
		return nil

	case p.macroDefined(frame.name):
		body := p.macros[frame.name]
		chain := make([]*Node, 0, len(frame.args)+len(body))
		for i, actual := range frame.args {
			param := p.env.Var(fmt.Sprintf("$%d", i+1))
			chain = append(chain, newBinary(opAssign, newVarRef(param), actual))
		}
		for _, b := range body {
			chain = append(chain, cloneNode(b))
		}
		if len(chain) == 0 {
			p.output.Push(newConst(0))
			return nil
		}
		node := chain[len(chain)-1]
		for i := len(chain) - 2; i >= 0; i-- {
			node = newBinary(opComma, chain[i], node)
		}
		p.output.Push(node)
		return nil

	default:
		desc, ok := p.funcs[frame.name]
		if !ok {
			return p.errAt(ErrInvalidFuncName)
		}
		p.output.Push(newCall(desc, frame.args))
		return nil
	}
}

func (p *parser) macroDefined(name string) bool {
	_, ok := p.macros[name]
	return ok
}

// finish runs at end-of-input: flush any buffered identifier, drain the
// operator stack (detecting unmatched parens and un-bindable assignments
// the same way bind does mid-parse), and return the sole remaining root.
func (p *parser) finish() (*Node, error) {
	if p.pendingIdent != nil {
		ident := *p.pendingIdent
		p.pendingIdent = nil
		p.output.Push(newVarRef(p.env.Var(ident.text)))
		if err := p.reduceUnary(); err != nil {
			return nil, err
		}
	}

	for {
		top, ok := p.ops.Pop()
		if !ok {
			break
		}
		if top.kind != itemOperator {
			return nil, p.errAt(ErrBadParens)
		}
		if err := p.bind(top); err != nil {
			return nil, err
		}
	}

	if p.output.Len() == 0 {
		// Empty / whitespace-only / comment-only input evaluates to 0.
		return newConst(0), nil
	}

	root, _ := p.output.Pop()
	return root, nil
}
