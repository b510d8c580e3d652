package builtins

import (
	"github.com/karatelabs/karate-js/runtime"
)

var errorNames = []string{
	"Error",
	"TypeError",
	"RangeError",
	"ReferenceError",
	"SyntaxError",
	"EvalError",
}

// ErrorCtors builds the error constructor family. The base Error matches
// every error instance, the typed variants only their own name.
func ErrorCtors() map[string]*Ctor {
	ctors := make(map[string]*Ctor, len(errorNames))
	for _, name := range errorNames {
		name := name
		c := NewCtor(name, func(info *runtime.CallInfo, args []any) (any, error) {
			message := ""
			if v := argAt(args, 0); v != nil && !runtime.IsUndefined(v) {
				message = runtime.ToString(v)
			}
			return runtime.NewErrorValue(name, message), nil
		})
		c.matches = func(v any) bool {
			e, ok := v.(*runtime.JsError)
			if !ok {
				return false
			}
			return name == "Error" || e.Name == name
		}
		ctors[name] = c
	}
	return ctors
}
