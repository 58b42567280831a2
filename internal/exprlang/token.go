package exprlang

// lexFlags is the single stateful bitfield the lexer threads through calls to
// nextToken: given remaining text and the current flags, nextToken returns
// what kind of token is acceptable next.
type lexFlags uint16

const (
	flagOp lexFlags = 1 << iota // TOP: an operator may come next
	flagOpen                    // TOPEN: '(' may come next
	flagClose                   // TCLOSE: ')' may come next
	flagNumber                  // TNUMBER: a numeric literal may come next
	flagWord                    // TWORD: an identifier may come next
	flagUnary                   // UNARY: the operator just returned is in unary position
	flagComma                   // COMMA: a newline in the current region should auto-insert a comma
)

const flagDefault = flagOpen | flagNumber | flagWord

// tokenKind classifies a lexed token span.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokWord
	tokOpen  // '('
	tokClose // ')'
	tokOp    // operator lexeme, including unary forms and ','
	tokComma // a newline rewritten to a comma by the parser
)

// token is one lexed span of the input.
type token struct {
	kind  tokenKind
	text  string // the raw lexeme text (number/word/operator)
	start int    // byte offset of the start of the span in the source
	unary bool    // true if this operator token is in unary position
}
