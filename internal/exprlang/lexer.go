package exprlang

// lexer turns source text into a stream of tokens, threading a single flags
// word through each call the way the reference engine's next_token does:
// what came before determines what may come next.
type lexer struct {
	text  string
	pos   int
	flags lexFlags
}

func newLexer(text string) *lexer {
	return &lexer{text: text, flags: flagDefault}
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isFirstVarChr reports whether c may start an identifier: any byte whose
// unsigned value is >= '@' (0x40) except '^' and '|', or '$'. This
// deliberately admits high-bit UTF-8 continuation bytes, so non-ASCII names
// are accepted as opaque byte sequences.
func isFirstVarChr(c byte) bool {
	return (c >= '@' && c != '^' && c != '|') || c == '$'
}

// isVarChr reports whether c may continue an identifier begun by
// isFirstVarChr: that charset plus '#' and ASCII digits.
func isVarChr(c byte) bool {
	return isFirstVarChr(c) || c == '#' || isDigit(c)
}

// next scans and returns the next token, or a SyntaxError if the text
// violates what the current flags permit.
func (lx *lexer) next() (token, error) {
	for {
		if lx.pos >= len(lx.text) {
			return token{kind: tokEOF, start: lx.pos}, nil
		}
		c := lx.text[lx.pos]

		switch {
		case c == '#':
			for lx.pos < len(lx.text) && lx.text[lx.pos] != '\n' {
				lx.pos++
			}
			continue

		case c == '\n':
			start := lx.pos
			lx.pos++
			for lx.pos < len(lx.text) && isWhitespace(lx.text[lx.pos]) {
				lx.pos++
			}
			for lx.pos < len(lx.text) && lx.text[lx.pos] == '\n' {
				lx.pos++
				for lx.pos < len(lx.text) && isWhitespace(lx.text[lx.pos]) {
					lx.pos++
				}
			}

			armed := lx.flags&flagComma != 0
			atEnd := lx.pos >= len(lx.text)
			atClose := !atEnd && lx.text[lx.pos] == ')'

			if armed && !atEnd && !atClose {
				lx.flags = flagNumber | flagWord | flagOpen
				return token{kind: tokComma, text: ",", start: start}, nil
			}
			lx.flags &^= flagComma
			continue

		case isWhitespace(c):
			lx.pos++
			continue

		case isDigit(c):
			if lx.flags&flagNumber == 0 {
				return token{}, newSyntaxError(ErrUnexpectedNumber, lx.pos, lx.text)
			}
			start := lx.pos
			for lx.pos < len(lx.text) && (isDigit(lx.text[lx.pos]) || lx.text[lx.pos] == '.') {
				lx.pos++
			}
			lx.flags = flagOp | flagClose | flagComma
			return token{kind: tokNumber, text: lx.text[start:lx.pos], start: start}, nil

		case isFirstVarChr(c):
			if lx.flags&flagWord == 0 {
				return token{}, newSyntaxError(ErrUnexpectedWord, lx.pos, lx.text)
			}
			start := lx.pos
			lx.pos++
			for lx.pos < len(lx.text) && isVarChr(lx.text[lx.pos]) {
				lx.pos++
			}
			lx.flags = flagOp | flagOpen | flagClose | flagComma
			return token{kind: tokWord, text: lx.text[start:lx.pos], start: start}, nil

		case c == '(':
			if lx.flags&flagOpen == 0 {
				return token{}, newSyntaxError(ErrUnexpectedParens, lx.pos, lx.text)
			}
			start := lx.pos
			lx.pos++
			lx.flags = flagNumber | flagWord | flagOpen | flagClose
			return token{kind: tokOpen, text: "(", start: start}, nil

		case c == ')':
			if lx.flags&flagClose == 0 {
				return token{}, newSyntaxError(ErrUnexpectedParens, lx.pos, lx.text)
			}
			start := lx.pos
			lx.pos++
			lx.flags = flagOp | flagClose | flagComma
			return token{kind: tokClose, text: ")", start: start}, nil

		default:
			start := lx.pos
			if lx.flags&flagOp == 0 {
				ue, ok := matchUnary(c)
				if !ok {
					return token{}, newSyntaxError(ErrMissExpectedOperand, lx.pos, lx.text)
				}
				lx.pos++
				lx.flags = flagNumber | flagWord | flagOpen | flagUnary
				return token{kind: tokOp, text: ue.lexeme, start: start, unary: true}, nil
			}

			rest := lx.text[lx.pos:]
			_, length, ok := matchOperator(rest)
			if !ok {
				return token{}, newSyntaxError(ErrUnknownOperator, lx.pos, lx.text)
			}
			lexeme := rest[:length]
			lx.pos += length
			lx.flags = flagNumber | flagWord | flagOpen
			return token{kind: tokOp, text: lexeme, start: start}, nil
		}
	}
}

// parseNumber re-validates a digit/dot span produced by the lexer, rejecting
// anything with more than one '.'. This mirrors expr_parse_number's
// digit-by-digit accumulation rather than deferring to strconv, so that a
// malformed literal like "2.3.4" is detected the same way the reference
// engine detects it rather than however a generic float parser happens to.
func parseNumber(s string) (float64, bool) {
	var num float64
	seenDot := false
	fracDigits := 0
	digits := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '.' {
			if seenDot {
				return 0, false
			}
			seenDot = true
			continue
		}
		if !isDigit(c) {
			return 0, false
		}
		digits++
		num = num*10 + float64(c-'0')
		if seenDot {
			fracDigits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	for i := 0; i < fracDigits; i++ {
		num /= 10
	}
	return num, true
}
