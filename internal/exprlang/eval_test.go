package exprlang

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustEval(t *testing.T, text string, funcs FuncTable) float64 {
	t.Helper()
	env := NewEnvironment(funcs)
	root, err := Parse(text, env, funcs)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}
	return Eval(root)
}

func Test_Eval_endToEndScenarios(t *testing.T) {
	addNext := FuncTable{
		"add": {Name: "add", Eval: func(args []*Node, eval func(*Node) float64, ctx []byte) float64 {
			return eval(args[0]) + eval(args[1])
		}},
		"next": {Name: "next", Eval: func(args []*Node, eval func(*Node) float64, ctx []byte) float64 {
			return eval(args[0]) + 1
		}},
	}

	testCases := []struct {
		name   string
		input  string
		funcs  FuncTable
		expect float64
	}{
		{name: "precedence: plus over times", input: "2+3*4", expect: 14},
		{name: "power is right-assoc", input: "2**2**3", expect: 256},
		{name: "assignment chain then sum", input: "x=5, y=3, x+y", expect: 8},
		{name: "host functions", input: "add(1,2) + next(3)", funcs: addNext, expect: 7},
		{name: "macro with two params", input: "$(mysum, $1 + $2), mysum(2, 3)", expect: 5},
		{name: "macro with integerise", input: "$(triw, ($1 * 256) & 255), triw(0.1)+triw(0.7)+triw(0.2)", expect: 255},
		{name: "newline auto-comma", input: "a=3\nb=4\na", expect: 3},
		{name: "empty input is zero", input: "", expect: 0},
		{name: "comment only is zero", input: "# just a comment", expect: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, mustEval(t, tc.input, tc.funcs))
		})
	}
}

func Test_Eval_boundaryBehavior(t *testing.T) {
	assert.Equal(t, math.Inf(1), mustEval(t, "3/0", nil))
	assert.Equal(t, float64(math.MaxInt32), mustEval(t, "(3/0)|0", nil))
	assert.True(t, math.IsNaN(mustEval(t, "3%0", nil)))
	assert.Equal(t, float64(0), mustEval(t, "(3%0)|0", nil))
	assert.True(t, math.IsNaN(mustEval(t, "1 && (3%0)", nil)))
	assert.Equal(t, float64(1), mustEval(t, "1 || (3%0)", nil))
	assert.Equal(t, float64(-math.MaxInt32), mustEval(t, "(-3/0)|0", nil))
}

func Test_Eval_variableRoundTrip(t *testing.T) {
	env := NewEnvironment(nil)
	v := env.Var("n")
	v.Value = 42

	root, err := Parse("n", env, nil)
	assert.NoError(t, err)
	assert.Equal(t, float64(42), Eval(root))
}

func Test_Eval_assignRoundTrip(t *testing.T) {
	env := NewEnvironment(nil)
	root, err := Parse("x = 7, x", env, nil)
	assert.NoError(t, err)
	assert.Equal(t, float64(7), Eval(root))
}

func Test_Environment_VarIsIdempotent(t *testing.T) {
	env := NewEnvironment(nil)
	a := env.Var("same")
	b := env.Var("same")
	assert.Same(t, a, b)
}
