package builtins

import (
	"github.com/karatelabs/karate-js/runtime"
)

func ArrayCtor() *Ctor {
	c := NewCtor("Array", func(info *runtime.CallInfo, args []any) (any, error) {
		// single numeric argument presizes, everything else enumerates
		if len(args) == 1 && runtime.IsNumber(args[0]) {
			arr := runtime.NewArray()
			arr.SetLength(int(runtime.ToNumber(args[0])))
			return arr, nil
		}
		return runtime.NewArray(args...), nil
	})
	c.matches = func(v any) bool {
		_, ok := v.(*runtime.JsArray)
		return ok
	}
	c.static("isArray", func(args []any) (any, error) {
		_, ok := argAt(args, 0).(*runtime.JsArray)
		return ok, nil
	})
	c.static("of", func(args []any) (any, error) {
		return runtime.NewArray(args...), nil
	})
	c.static("from", func(args []any) (any, error) {
		source := argAt(args, 0)
		var items []any
		switch t := runtime.Unwrap(source).(type) {
		case *runtime.JsArray:
			items = append(items, t.Items()...)
		case string:
			for i := 0; i < len(t); i++ {
				items = append(items, string(t[i]))
			}
		case runtime.ObjectLike:
			// array-like: a length property plus indexed entries
			if length, ok := t.Get("length"); ok {
				n := int(runtime.ToNumber(length))
				for i := 0; i < n; i++ {
					v, _ := t.Get(runtime.NumberToString(float64(i)))
					items = append(items, v)
				}
			}
		}
		if mapper, ok := argAt(args, 1).(runtime.Invokable); ok {
			for i, item := range items {
				mapped, err := mapper.Invoke([]any{item, i})
				if err != nil {
					return nil, err
				}
				items[i] = mapped
			}
		}
		return runtime.NewArray(items...), nil
	})
	return c
}
