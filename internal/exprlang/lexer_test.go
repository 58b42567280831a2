package exprlang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func allTokens(t *testing.T, text string) ([]token, error) {
	t.Helper()
	lx := newLexer(text)
	var toks []token
	for {
		tok, err := lx.next()
		if err != nil {
			return toks, err
		}
		if tok.kind == tokEOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

func Test_Lexer_longestOperatorMatch(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []string
	}{
		{name: "shl beats lt", input: "1<<2", expect: []string{"1", "<<", "2"}},
		{name: "ge beats gt", input: "1>=2", expect: []string{"1", ">=", "2"}},
		{name: "power beats multiply", input: "1**2", expect: []string{"1", "**", "2"}},
		{name: "ne beats unary not", input: "1!=2", expect: []string{"1", "!=", "2"}},
		{name: "logical and beats bitwise and", input: "1&&2", expect: []string{"1", "&&", "2"}},
		{name: "logical or beats bitwise or", input: "1||2", expect: []string{"1", "||", "2"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			toks, err := allTokens(t, tc.input)
			assert.NoError(t, err)
			var got []string
			for _, tok := range toks {
				got = append(got, tok.text)
			}
			assert.Equal(t, tc.expect, got)
		})
	}
}

func Test_Lexer_unaryVsBinaryDisambiguation(t *testing.T) {
	toks, err := allTokens(t, "-1 - -2")
	assert.NoError(t, err)
	assert.True(t, toks[0].unary, "leading '-' should be unary")
	assert.False(t, toks[2].unary, "middle '-' should be binary")
	assert.True(t, toks[3].unary, "'-' after a binary operator should be unary")
}

func Test_Lexer_commentsAreIgnored(t *testing.T) {
	toks, err := allTokens(t, "1 + 2 # trailing comment\n")
	assert.NoError(t, err)
	assert.Len(t, toks, 3)
}

func Test_Lexer_errorsOnMisplacedTokens(t *testing.T) {
	_, err := allTokens(t, "1 2")
	if assert.Error(t, err) {
		assert.Equal(t, ErrUnexpectedNumber, err.(SyntaxError).Code)
	}

	_, err = allTokens(t, "*1")
	if assert.Error(t, err) {
		assert.Equal(t, ErrMissExpectedOperand, err.(SyntaxError).Code)
	}
}

func Test_ParseNumber(t *testing.T) {
	testCases := []struct {
		input  string
		expect float64
		ok     bool
	}{
		{"1", 1, true},
		{"026", 26, true},
		{"0.5", 0.5, true},
		{"3.14", 3.14, true},
		{"2.3.4", 0, false},
		{".", 0, false},
	}

	for _, tc := range testCases {
		got, ok := parseNumber(tc.input)
		assert.Equal(t, tc.ok, ok, tc.input)
		if tc.ok {
			assert.InDelta(t, tc.expect, got, 1e-9, tc.input)
		}
	}
}
