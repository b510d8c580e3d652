package builtins

import (
	"math"

	"github.com/karatelabs/karate-js/runtime"
)

// The wrapper constructors consult the call info a new-expression carries:
// under new they produce boxed objects, called plain they convert to
// primitives. Ordinary calls allocate no info at all.

func StringCtor() *Ctor {
	c := NewCtor("String", func(info *runtime.CallInfo, args []any) (any, error) {
		s := ""
		if len(args) > 0 {
			s = runtime.ToString(args[0])
		}
		if constructed(info) {
			return runtime.NewString(s), nil
		}
		return s, nil
	})
	c.matches = func(v any) bool {
		_, ok := v.(*runtime.JsString)
		return ok
	}
	c.static("fromCharCode", func(args []any) (any, error) {
		runes := make([]rune, len(args))
		for i, a := range args {
			runes[i] = rune(int(runtime.ToNumber(a)))
		}
		return string(runes), nil
	})
	return c
}

func NumberCtor() *Ctor {
	c := NewCtor("Number", func(info *runtime.CallInfo, args []any) (any, error) {
		n := 0.0
		if len(args) > 0 {
			n = runtime.ToNumber(args[0])
		}
		if constructed(info) {
			return runtime.NewNumber(n), nil
		}
		return runtime.Narrow(n), nil
	})
	c.matches = func(v any) bool {
		_, ok := v.(*runtime.JsNumber)
		return ok
	}
	c.props.Set("MAX_SAFE_INTEGER", float64(1<<53-1))
	c.props.Set("MIN_SAFE_INTEGER", -float64(1<<53-1))
	c.props.Set("MAX_VALUE", math.MaxFloat64)
	c.props.Set("MIN_VALUE", math.SmallestNonzeroFloat64)
	c.props.Set("EPSILON", math.Nextafter(1, 2)-1)
	c.props.Set("POSITIVE_INFINITY", math.Inf(1))
	c.props.Set("NEGATIVE_INFINITY", math.Inf(-1))
	c.props.Set("NaN", math.NaN())
	c.static("isInteger", func(args []any) (any, error) {
		v := argAt(args, 0)
		if !runtime.IsNumber(v) {
			return false, nil
		}
		n := runtime.ToNumber(v)
		return !math.IsNaN(n) && !math.IsInf(n, 0) && n == math.Trunc(n), nil
	})
	c.static("isFinite", func(args []any) (any, error) {
		v := argAt(args, 0)
		if !runtime.IsNumber(v) {
			return false, nil
		}
		n := runtime.ToNumber(v)
		return !math.IsNaN(n) && !math.IsInf(n, 0), nil
	})
	c.static("isNaN", func(args []any) (any, error) {
		v := argAt(args, 0)
		return runtime.IsNumber(v) && math.IsNaN(runtime.ToNumber(v)), nil
	})
	c.static("parseInt", parseIntFn)
	c.static("parseFloat", parseFloatFn)
	return c
}

func BooleanCtor() *Ctor {
	c := NewCtor("Boolean", func(info *runtime.CallInfo, args []any) (any, error) {
		b := runtime.IsTruthy(argAt(args, 0))
		if constructed(info) {
			return runtime.NewBoolean(b), nil
		}
		return b, nil
	})
	c.matches = func(v any) bool {
		_, ok := v.(*runtime.JsBoolean)
		return ok
	}
	return c
}
