package builtins

import (
	"github.com/karatelabs/karate-js/runtime"
)

func ObjectCtor() *Ctor {
	c := NewCtor("Object", func(info *runtime.CallInfo, args []any) (any, error) {
		arg := argAt(args, 0)
		if arg == nil || runtime.IsUndefined(arg) {
			return runtime.NewObject(), nil
		}
		return arg, nil
	})
	c.matches = func(v any) bool {
		_, ok := v.(runtime.ObjectLike)
		return ok
	}
	c.static("keys", func(args []any) (any, error) {
		return runtime.NewArray(ownKeys(argAt(args, 0))...), nil
	})
	c.static("values", func(args []any) (any, error) {
		target := argAt(args, 0)
		keys := ownKeys(target)
		values := make([]any, len(keys))
		for i, key := range keys {
			values[i], _ = runtime.GetProperty(target, key.(string))
		}
		return runtime.NewArray(values...), nil
	})
	c.static("entries", func(args []any) (any, error) {
		target := argAt(args, 0)
		keys := ownKeys(target)
		entries := make([]any, len(keys))
		for i, key := range keys {
			v, _ := runtime.GetProperty(target, key.(string))
			entries[i] = runtime.NewArray(key, v)
		}
		return runtime.NewArray(entries...), nil
	})
	c.static("assign", func(args []any) (any, error) {
		target, ok := argAt(args, 0).(runtime.ObjectLike)
		if !ok {
			return nil, runtime.NewTypeError("Object.assign target must be an object")
		}
		for _, src := range args[1:] {
			if from, ok := runtime.Unwrap(src).(runtime.ObjectLike); ok {
				for _, key := range from.Keys() {
					v, _ := from.Get(key)
					target.Set(key, v)
				}
			}
		}
		return target, nil
	})
	c.static("fromEntries", func(args []any) (any, error) {
		obj := runtime.NewObject()
		if arr, ok := argAt(args, 0).(*runtime.JsArray); ok {
			for _, item := range arr.Items() {
				if pair, ok := item.(*runtime.JsArray); ok && pair.Len() >= 2 {
					obj.Set(runtime.ToString(pair.GetIdx(0)), pair.GetIdx(1))
				}
			}
		}
		return obj, nil
	})
	c.static("getPrototypeOf", func(args []any) (any, error) {
		if obj, ok := argAt(args, 0).(*runtime.JsObject); ok {
			if proto := obj.Proto(); proto != nil {
				return proto, nil
			}
		}
		return nil, nil
	})
	return c
}

func ownKeys(v any) []any {
	switch t := runtime.Unwrap(v).(type) {
	case *runtime.JsArray:
		keys := make([]any, t.Len())
		for i := range keys {
			keys[i] = runtime.NumberToString(float64(i))
		}
		return keys
	case runtime.ObjectLike:
		names := t.Keys()
		keys := make([]any, len(names))
		for i, name := range names {
			keys[i] = name
		}
		return keys
	case string:
		keys := make([]any, len(t))
		for i := range keys {
			keys[i] = runtime.NumberToString(float64(i))
		}
		return keys
	}
	return nil
}
