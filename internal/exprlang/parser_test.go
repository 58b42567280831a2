package exprlang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Parse_badSyntax(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		wantCode  ErrCode
		wantNear  int
	}{
		{name: "unmatched open paren", input: "(", wantCode: ErrBadParens, wantNear: 1},
		{name: "number after empty group", input: "()3", wantCode: ErrUnexpectedNumber, wantNear: 2},
		{name: "assign to a constant", input: "2=3", wantCode: ErrBadAssignment, wantNear: 3},
		{name: "macro def with no args", input: "$()", wantCode: ErrTooFewFuncArgs, wantNear: 3},
		{name: "macro def first arg not var", input: "$(1)", wantCode: ErrFirstArgIsNotVar, wantNear: 4},
		{name: "macro cannot self-reference at definition", input: "$(recurse, recurse()), recurse()", wantCode: ErrInvalidFuncName},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := NewEnvironment(nil)
			_, err := Parse(tc.input, env, nil)
			if assert.Error(t, err) {
				se, ok := err.(SyntaxError)
				if assert.True(t, ok, "error should be a SyntaxError") {
					assert.Equal(t, tc.wantCode, se.Code)
					if tc.wantNear != 0 {
						assert.Equal(t, tc.wantNear, se.Near)
					}
				}
			}
		})
	}
}

func Test_Parse_precedenceShape(t *testing.T) {
	env := NewEnvironment(nil)

	root, err := Parse("a + b * c", env, nil)
	assert.NoError(t, err)
	assert.Equal(t, opPlus, root.Op)
	assert.Equal(t, opMultiply, root.Args[1].Op)

	root, err = Parse("a = b = c", env, nil)
	assert.NoError(t, err)
	assert.Equal(t, opAssign, root.Op)
	assert.Equal(t, opAssign, root.Args[1].Op)

	root, err = Parse("a , b , c", env, nil)
	assert.NoError(t, err)
	assert.Equal(t, opComma, root.Op)
	assert.Equal(t, opComma, root.Args[1].Op)
}

func Test_Parse_assignRequiresVarOnLeft(t *testing.T) {
	env := NewEnvironment(nil)
	_, err := Parse("1 = 2", env, nil)
	if assert.Error(t, err) {
		se := err.(SyntaxError)
		assert.Equal(t, ErrBadAssignment, se.Code)
	}
}

func Test_Parse_unaryNegationChain(t *testing.T) {
	env := NewEnvironment(nil)
	root, err := Parse("--5", env, nil)
	assert.NoError(t, err)
	assert.Equal(t, float64(5), Eval(root))
}
