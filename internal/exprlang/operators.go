package exprlang

// opKind identifies an operator or pseudo-operator node kind. The ordering
// mirrors the reference engine's enum so that the precedence table lines up
// index-for-index with it.
type opKind int

const (
	opUnknown opKind = iota
	opUnaryMinus
	opUnaryLogicalNot
	opUnaryBitwiseNot
	opPower
	opDivide
	opMultiply
	opRemainder
	opPlus
	opMinus
	opShl
	opShr
	opLt
	opLe
	opGt
	opGe
	opEq
	opNe
	opBitwiseAnd
	opBitwiseOr
	opBitwiseXor
	opLogicalAnd
	opLogicalOr
	opAssign
	opComma
)

// prec is indexed by opKind and gives each operator's precedence, tightest
// first. Unary operators (indices 1-3) bind tightest; comma loosest.
var prec = [...]int{
	opUnknown:         0,
	opUnaryMinus:      1,
	opUnaryLogicalNot: 1,
	opUnaryBitwiseNot: 1,
	opPower:           2,
	opDivide:          2,
	opMultiply:        2,
	opRemainder:       2,
	opPlus:            3,
	opMinus:           3,
	opShl:             4,
	opShr:             4,
	opLt:              5,
	opLe:              5,
	opGt:              5,
	opGe:              5,
	opEq:              5,
	opNe:              5,
	opBitwiseAnd:      6,
	opBitwiseOr:       7,
	opBitwiseXor:      8,
	opLogicalAnd:      9,
	opLogicalOr:       10,
	opAssign:          11,
	opComma:           12,
}

func isUnaryKind(k opKind) bool {
	return k == opUnaryMinus || k == opUnaryLogicalNot || k == opUnaryBitwiseNot
}

func isBinaryKind(k opKind) bool {
	switch k {
	case opPower, opDivide, opMultiply, opRemainder, opPlus, opMinus, opShl, opShr,
		opLt, opLe, opGt, opGe, opEq, opNe, opBitwiseAnd, opBitwiseOr, opBitwiseXor,
		opLogicalAnd, opLogicalOr, opAssign, opComma:
		return true
	default:
		return false
	}
}

// opEntry pairs a lexeme with the kind it denotes. Entries are ordered
// longest-possible-match-first is NOT required here; the lexer itself finds
// the longest matching prefix by trying progressively longer spans, not by
// table order.
type opEntry struct {
	lexeme string
	kind   opKind
	unary  bool
}

// binOps is the table of binary (and comma/assign) lexemes.
var binOps = []opEntry{
	{"**", opPower, false},
	{"*", opMultiply, false},
	{"/", opDivide, false},
	{"%", opRemainder, false},
	{"+", opPlus, false},
	{"-", opMinus, false},
	{"<<", opShl, false},
	{">>", opShr, false},
	{"<=", opLe, false},
	{"<", opLt, false},
	{">=", opGe, false},
	{">", opGt, false},
	{"==", opEq, false},
	{"!=", opNe, false},
	{"&&", opLogicalAnd, false},
	{"&", opBitwiseAnd, false},
	{"||", opLogicalOr, false},
	{"|", opBitwiseOr, false},
	{"^", opBitwiseXor, false},
	{"=", opAssign, false},
	{",", opComma, false},
}

// unaryOps is the table of single-character unary lexemes, distinct kinds
// from their binary homographs ('-' and '^' overload with binary minus and
// bitwise-xor; the lexer disambiguates by position, not by lexeme).
var unaryOps = []opEntry{
	{"-", opUnaryMinus, true},
	{"!", opUnaryLogicalNot, true},
	{"^", opUnaryBitwiseNot, true},
}

// matchOperator finds the longest prefix of s that is a known binary operator
// lexeme. It returns the matched entry and its length, or ok=false if no
// prefix of s names an operator at all.
func matchOperator(s string) (entry opEntry, length int, ok bool) {
	for _, e := range binOps {
		if len(e.lexeme) <= len(s) && s[:len(e.lexeme)] == e.lexeme {
			if len(e.lexeme) > length {
				entry = e
				length = len(e.lexeme)
				ok = true
			}
		}
	}
	return
}

// matchUnary reports whether c is one of the three unary-prefix characters,
// returning the associated unary opEntry.
func matchUnary(c byte) (entry opEntry, ok bool) {
	for _, e := range unaryOps {
		if e.lexeme[0] == c {
			return e, true
		}
	}
	return opEntry{}, false
}

// shouldReduce is the shunting-yard reduction predicate: the operator "top"
// sitting on the operator stack should be reduced (popped and bound) before
// "incoming" is pushed when top is left-associative and has precedence >=
// incoming's, or when top simply binds tighter than incoming regardless of
// associativity.
func shouldReduce(top, incoming opKind) bool {
	leftAssoc := isBinaryKind(top) && top != opAssign && top != opPower && top != opComma
	if leftAssoc && prec[top] >= prec[incoming] {
		return true
	}
	return prec[top] > prec[incoming]
}
