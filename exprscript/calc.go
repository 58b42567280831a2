package exprscript

import "math"

// Calc is the one-shot convenience form: compile text against a fresh,
// throwaway Environment with no host functions, evaluate it, and return the
// result, discarding the compiled Expr and Environment immediately.
// Returns NaN if text fails to compile.
func Calc(text string) float64 {
	env := NewEnvironment(nil)
	defer env.Destroy()
	expr, err := Create(text, env, nil)
	if err != nil {
		return math.NaN()
	}
	defer expr.Destroy()
	return expr.Eval()
}

// CalcLen is Calc, but only the first length bytes of text are compiled, the
// way the reference engine's calc_len takes an explicit buffer length instead
// of relying on a NUL terminator. length is clamped to [0, len(text)].
func CalcLen(text string, length int) float64 {
	if length < 0 {
		length = 0
	} else if length > len(text) {
		length = len(text)
	}
	return Calc(text[:length])
}
