// Package builtin provides a small set of example FuncDefs — sin, cos, tan,
// sqrt, abs, floor, ceil and print — demonstrating how a host wires ordinary
// stdlib functionality into a mathex.Funcs registry. None of this is part of
// the engine itself; callers are free to register their own functions
// instead or alongside these.
package builtin

import (
	"math"

	"go.uber.org/zap"

	mathex "github.com/st9007a/MathEX"
)

func monadic(name string, fn func(float64) float64) mathex.FuncDef {
	return mathex.FuncDef{
		Name: name,
		Invoke: func(args []*mathex.Node, ctx []byte) mathex.Scalar {
			if len(args) != 1 {
				return mathex.Scalar(math.NaN())
			}
			return mathex.Scalar(fn(float64(args[0].Eval())))
		},
	}
}

// Funcs returns the standard set of example functions, logging calls to
// print through logger. A nil logger disables print's logging but still
// makes it callable (it evaluates and returns its argument).
func Funcs(logger *zap.SugaredLogger) *mathex.Funcs {
	return mathex.NewFuncs(
		monadic("sin", math.Sin),
		monadic("cos", math.Cos),
		monadic("tan", math.Tan),
		monadic("sqrt", math.Sqrt),
		monadic("abs", math.Abs),
		monadic("floor", math.Floor),
		monadic("ceil", math.Ceil),
		mathex.FuncDef{
			Name: "print",
			Invoke: func(args []*mathex.Node, ctx []byte) mathex.Scalar {
				var v mathex.Scalar
				if len(args) > 0 {
					v = args[0].Eval()
				}
				if logger != nil {
					logger.Debugf("print: %v", v)
				}
				return v
			},
		},
	)
}
