package exprscript_test

import (
	"testing"

	"github.com/lucaspiller/exprscript"
	"github.com/lucaspiller/exprscript/internal/exprlang"
	"github.com/stretchr/testify/assert"
)

func Test_Calc(t *testing.T) {
	assert.Equal(t, float64(14), exprscript.Calc("2+3*4"))
}

func Test_Calc_parseFailureIsNaN(t *testing.T) {
	assert.True(t, isNaN(exprscript.Calc("(")))
}

func Test_CalcLen_stopsAtGivenLength(t *testing.T) {
	assert.Equal(t, float64(2), exprscript.CalcLen("2+3*4", 1))
	assert.Equal(t, float64(14), exprscript.CalcLen("2+3*4", 5))
}

func Test_CalcLen_clampsOutOfRangeLength(t *testing.T) {
	assert.Equal(t, float64(14), exprscript.CalcLen("2+3*4", 100))
	assert.Equal(t, float64(0), exprscript.CalcLen("2+3*4", -1))
}

func isNaN(f float64) bool {
	return f != f
}

func Test_CreateEvalDestroy(t *testing.T) {
	env := exprscript.NewEnvironment(nil)
	expr, err := exprscript.Create("x = 5, y = 3, x + y", env, nil)
	assert.NoError(t, err)
	assert.Equal(t, float64(8), expr.Eval())
	expr.Destroy()
	env.Destroy()
}

func Test_CreateWithDiagnostics_reportsPosition(t *testing.T) {
	env := exprscript.NewEnvironment(nil)
	_, perr := exprscript.CreateWithDiagnostics("2=3", env, nil)
	if assert.NotNil(t, perr) {
		assert.Equal(t, exprscript.ErrBadAssignment, perr.Code)
		assert.Equal(t, 3, perr.Near)
	}
}

func Test_HostFunction(t *testing.T) {
	funcs := exprscript.FuncTable{
		"double": {Name: "double", Eval: func(args []*exprlang.Node, eval func(*exprlang.Node) float64, ctx []byte) float64 {
			return eval(args[0]) * 2
		}},
	}
	env := exprscript.NewEnvironment(funcs)
	expr, err := exprscript.Create("double(21)", env, funcs)
	assert.NoError(t, err)
	assert.Equal(t, float64(42), expr.Eval())
}
