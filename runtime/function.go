package runtime

// Function.prototype behaviors. Builtin functions are closures already
// bound to their receiver, so call/apply only re-bind user functions,
// which implement ThisBindable.

func invokeWithThis(fn any, this any, args []any) (any, error) {
	if tb, ok := fn.(ThisBindable); ok {
		return tb.InvokeOn(this, args)
	}
	inv, ok := fn.(Invokable)
	if !ok {
		return nil, NewTypeError(ToString(fn) + " is not a function")
	}
	return inv.Invoke(args)
}

func init() {
	FunctionProto.method("call", func(self any, args []any) (any, error) {
		this := Arg(args, 0)
		var rest []any
		if len(args) > 1 {
			rest = args[1:]
		}
		return invokeWithThis(self, this, rest)
	})
	FunctionProto.method("apply", func(self any, args []any) (any, error) {
		this := Arg(args, 0)
		var rest []any
		if arr, ok := Arg(args, 1).(*JsArray); ok {
			rest = arr.Items()
		}
		return invokeWithThis(self, this, rest)
	})
	FunctionProto.method("bind", func(self any, args []any) (any, error) {
		this := Arg(args, 0)
		var bound []any
		if len(args) > 1 {
			bound = append(bound, args[1:]...)
		}
		return Func(func(callArgs []any) (any, error) {
			return invokeWithThis(self, this, append(append([]any{}, bound...), callArgs...))
		}), nil
	})
	FunctionProto.method("toString", func(self any, args []any) (any, error) {
		return ToString(self), nil
	})
}
