package builtins

import (
	"github.com/karatelabs/karate-js/runtime"
)

func RegExpCtor() *Ctor {
	c := NewCtor("RegExp", func(info *runtime.CallInfo, args []any) (any, error) {
		switch t := runtime.Unwrap(argAt(args, 0)).(type) {
		case *runtime.JsRegex:
			if len(args) > 1 {
				return runtime.NewRegex(t.Source, runtime.ToString(args[1]))
			}
			return t, nil
		default:
			flags := ""
			if len(args) > 1 {
				flags = runtime.ToString(args[1])
			}
			source := ""
			if t != nil && !runtime.IsUndefined(t) {
				source = runtime.ToString(t)
			}
			return runtime.NewRegex(source, flags)
		}
	})
	c.matches = func(v any) bool {
		_, ok := v.(*runtime.JsRegex)
		return ok
	}
	return c
}
