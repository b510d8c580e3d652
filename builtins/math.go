package builtins

import (
	"math"
	"math/rand"

	"github.com/karatelabs/karate-js/runtime"
)

// MathObject builds the Math namespace. One-argument functions share an
// adapter; the rest are spelled out.
func MathObject() *runtime.JsObject {
	m := runtime.NewObject()
	m.Set("PI", math.Pi)
	m.Set("E", math.E)
	m.Set("LN2", math.Ln2)
	m.Set("LN10", math.Log(10))
	m.Set("SQRT2", math.Sqrt2)

	oneArg := func(name string, fn func(float64) float64) {
		m.Set(name, runtime.Func(func(args []any) (any, error) {
			return runtime.Narrow(fn(runtime.ToNumber(argAt(args, 0)))), nil
		}))
	}
	oneArg("abs", math.Abs)
	oneArg("ceil", math.Ceil)
	oneArg("floor", math.Floor)
	oneArg("trunc", math.Trunc)
	oneArg("sqrt", math.Sqrt)
	oneArg("cbrt", math.Cbrt)
	oneArg("exp", math.Exp)
	oneArg("log", math.Log)
	oneArg("log2", math.Log2)
	oneArg("log10", math.Log10)
	oneArg("sin", math.Sin)
	oneArg("cos", math.Cos)
	oneArg("tan", math.Tan)
	oneArg("asin", math.Asin)
	oneArg("acos", math.Acos)
	oneArg("atan", math.Atan)
	oneArg("round", func(f float64) float64 {
		// half-up, including negative halves: -0.5 rounds to 0
		return math.Floor(f + 0.5)
	})
	oneArg("sign", func(f float64) float64 {
		switch {
		case f > 0:
			return 1
		case f < 0:
			return -1
		}
		return f
	})

	m.Set("pow", runtime.Func(func(args []any) (any, error) {
		return runtime.Narrow(math.Pow(runtime.ToNumber(argAt(args, 0)), runtime.ToNumber(argAt(args, 1)))), nil
	}))
	m.Set("atan2", runtime.Func(func(args []any) (any, error) {
		return runtime.Narrow(math.Atan2(runtime.ToNumber(argAt(args, 0)), runtime.ToNumber(argAt(args, 1)))), nil
	}))
	m.Set("hypot", runtime.Func(func(args []any) (any, error) {
		total := 0.0
		for _, a := range args {
			n := runtime.ToNumber(a)
			total += n * n
		}
		return runtime.Narrow(math.Sqrt(total)), nil
	}))
	m.Set("min", runtime.Func(func(args []any) (any, error) {
		return minMax(args, math.Inf(1), math.Min), nil
	}))
	m.Set("max", runtime.Func(func(args []any) (any, error) {
		return minMax(args, math.Inf(-1), math.Max), nil
	}))
	m.Set("random", runtime.Func(func(args []any) (any, error) {
		return rand.Float64(), nil
	}))
	return m
}

func minMax(args []any, start float64, pick func(a, b float64) float64) any {
	result := start
	for _, a := range args {
		n := runtime.ToNumber(a)
		if math.IsNaN(n) {
			return math.NaN()
		}
		result = pick(result, n)
	}
	return runtime.Narrow(result)
}
