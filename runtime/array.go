package runtime

import (
	"sort"
	"strings"
)

// JsArray is a guest array backed by a mutable slice shared by all holders.
// Guest reads return raw internals (undefined is a real element value);
// host access goes through ListView.
type JsArray struct {
	items []any
}

func NewArray(items ...any) *JsArray {
	return &JsArray{items: items}
}

func (a *JsArray) Len() int {
	return len(a.items)
}

// GetIdx returns the raw guest element, Undefined when out of range.
func (a *JsArray) GetIdx(i int) any {
	if i < 0 || i >= len(a.items) {
		return Undefined
	}
	return a.items[i]
}

// SetIdx grows the array with undefined holes when assigning past the end.
func (a *JsArray) SetIdx(i int, v any) {
	if i < 0 {
		return
	}
	for i >= len(a.items) {
		a.items = append(a.items, Undefined)
	}
	a.items[i] = v
}

func (a *JsArray) SetLength(n int) {
	if n < 0 {
		n = 0
	}
	for len(a.items) < n {
		a.items = append(a.items, Undefined)
	}
	a.items = a.items[:n]
}

func (a *JsArray) Push(v any) {
	a.items = append(a.items, v)
}

// Items returns the raw backing slice, the guest-side view.
func (a *JsArray) Items() []any {
	return a.items
}

// HostValue exposes the array to the host as a lazily converting view.
func (a *JsArray) HostValue() any {
	return &ListView{arr: a}
}

// ListView is the host-side face of a guest array; conversion happens per
// access, never as an up-front snapshot.
type ListView struct {
	arr *JsArray
}

func (l *ListView) Len() int {
	return l.arr.Len()
}

func (l *ListView) Get(i int) any {
	v := l.arr.GetIdx(i)
	return ToHost(v)
}

func (l *ListView) Set(i int, v any) {
	l.arr.SetIdx(i, FromHost(v))
}

// Slice materializes the whole array eagerly, converting nested containers
// recursively; the lazy Get is the usual path.
func (l *ListView) Slice() []any {
	result := make([]any, l.arr.Len())
	for i := range result {
		result[i] = materialize(l.arr.GetIdx(i))
	}
	return result
}

func toArray(v any) *JsArray {
	arr, _ := v.(*JsArray)
	return arr
}

func invokeCallback(cb any, args ...any) (any, error) {
	inv, ok := cb.(Invokable)
	if !ok {
		return nil, NewTypeError(ToString(cb) + " is not a function")
	}
	return inv.Invoke(args)
}

func init() {
	ArrayProto.method("push", func(self any, args []any) (any, error) {
		arr := toArray(self)
		for _, v := range args {
			arr.Push(v)
		}
		return arr.Len(), nil
	})
	ArrayProto.method("pop", func(self any, args []any) (any, error) {
		arr := toArray(self)
		n := arr.Len()
		if n == 0 {
			return Undefined, nil
		}
		last := arr.items[n-1]
		arr.items = arr.items[:n-1]
		return last, nil
	})
	ArrayProto.method("shift", func(self any, args []any) (any, error) {
		arr := toArray(self)
		if arr.Len() == 0 {
			return Undefined, nil
		}
		first := arr.items[0]
		arr.items = arr.items[1:]
		return first, nil
	})
	ArrayProto.method("unshift", func(self any, args []any) (any, error) {
		arr := toArray(self)
		arr.items = append(append([]any{}, args...), arr.items...)
		return arr.Len(), nil
	})
	ArrayProto.method("slice", func(self any, args []any) (any, error) {
		arr := toArray(self)
		start, end := sliceRange(arr.Len(), args)
		result := make([]any, 0, end-start)
		result = append(result, arr.items[start:end]...)
		return NewArray(result...), nil
	})
	ArrayProto.method("splice", func(self any, args []any) (any, error) {
		arr := toArray(self)
		n := arr.Len()
		start := clampIndex(int(ToNumber(Arg(args, 0))), n)
		count := n - start
		if len(args) > 1 {
			count = int(ToNumber(args[1]))
		}
		if count < 0 {
			count = 0
		}
		if start+count > n {
			count = n - start
		}
		removed := append([]any{}, arr.items[start:start+count]...)
		var inserted []any
		if len(args) > 2 {
			inserted = args[2:]
		}
		rest := append([]any{}, arr.items[start+count:]...)
		arr.items = append(append(arr.items[:start], inserted...), rest...)
		return NewArray(removed...), nil
	})
	ArrayProto.method("concat", func(self any, args []any) (any, error) {
		arr := toArray(self)
		result := append([]any{}, arr.items...)
		for _, v := range args {
			if other, ok := v.(*JsArray); ok {
				result = append(result, other.items...)
			} else {
				result = append(result, v)
			}
		}
		return NewArray(result...), nil
	})
	ArrayProto.method("join", func(self any, args []any) (any, error) {
		arr := toArray(self)
		sep := ","
		if len(args) > 0 && !IsUndefined(args[0]) {
			sep = ToString(args[0])
		}
		parts := make([]string, arr.Len())
		for i, v := range arr.items {
			if v == nil || IsUndefined(v) {
				parts[i] = ""
			} else {
				parts[i] = ToString(v)
			}
		}
		return strings.Join(parts, sep), nil
	})
	ArrayProto.method("indexOf", func(self any, args []any) (any, error) {
		arr := toArray(self)
		needle := Arg(args, 0)
		for i, v := range arr.items {
			if Eq(v, needle, true) {
				return i, nil
			}
		}
		return -1, nil
	})
	ArrayProto.method("lastIndexOf", func(self any, args []any) (any, error) {
		arr := toArray(self)
		needle := Arg(args, 0)
		for i := arr.Len() - 1; i >= 0; i-- {
			if Eq(arr.items[i], needle, true) {
				return i, nil
			}
		}
		return -1, nil
	})
	ArrayProto.method("includes", func(self any, args []any) (any, error) {
		arr := toArray(self)
		needle := Arg(args, 0)
		for _, v := range arr.items {
			if Eq(v, needle, true) {
				return true, nil
			}
		}
		return false, nil
	})
	ArrayProto.method("find", func(self any, args []any) (any, error) {
		arr := toArray(self)
		for i, v := range arr.items {
			match, err := invokeCallback(Arg(args, 0), v, i, arr)
			if err != nil {
				return nil, err
			}
			if IsTruthy(match) {
				return v, nil
			}
		}
		return Undefined, nil
	})
	ArrayProto.method("findIndex", func(self any, args []any) (any, error) {
		arr := toArray(self)
		for i, v := range arr.items {
			match, err := invokeCallback(Arg(args, 0), v, i, arr)
			if err != nil {
				return nil, err
			}
			if IsTruthy(match) {
				return i, nil
			}
		}
		return -1, nil
	})
	ArrayProto.method("filter", func(self any, args []any) (any, error) {
		arr := toArray(self)
		var result []any
		for i, v := range arr.items {
			match, err := invokeCallback(Arg(args, 0), v, i, arr)
			if err != nil {
				return nil, err
			}
			if IsTruthy(match) {
				result = append(result, v)
			}
		}
		return NewArray(result...), nil
	})
	ArrayProto.method("map", func(self any, args []any) (any, error) {
		arr := toArray(self)
		result := make([]any, arr.Len())
		for i, v := range arr.items {
			mapped, err := invokeCallback(Arg(args, 0), v, i, arr)
			if err != nil {
				return nil, err
			}
			result[i] = mapped
		}
		return NewArray(result...), nil
	})
	ArrayProto.method("forEach", func(self any, args []any) (any, error) {
		arr := toArray(self)
		for i, v := range arr.items {
			if _, err := invokeCallback(Arg(args, 0), v, i, arr); err != nil {
				return nil, err
			}
		}
		return Undefined, nil
	})
	ArrayProto.method("reduce", func(self any, args []any) (any, error) {
		arr := toArray(self)
		var acc any
		start := 0
		if len(args) > 1 {
			acc = args[1]
		} else {
			if arr.Len() == 0 {
				return nil, NewTypeError("reduce of empty array with no initial value")
			}
			acc = arr.items[0]
			start = 1
		}
		for i := start; i < arr.Len(); i++ {
			next, err := invokeCallback(Arg(args, 0), acc, arr.items[i], i, arr)
			if err != nil {
				return nil, err
			}
			acc = next
		}
		return acc, nil
	})
	ArrayProto.method("some", func(self any, args []any) (any, error) {
		arr := toArray(self)
		for i, v := range arr.items {
			match, err := invokeCallback(Arg(args, 0), v, i, arr)
			if err != nil {
				return nil, err
			}
			if IsTruthy(match) {
				return true, nil
			}
		}
		return false, nil
	})
	ArrayProto.method("every", func(self any, args []any) (any, error) {
		arr := toArray(self)
		for i, v := range arr.items {
			match, err := invokeCallback(Arg(args, 0), v, i, arr)
			if err != nil {
				return nil, err
			}
			if !IsTruthy(match) {
				return false, nil
			}
		}
		return true, nil
	})
	ArrayProto.method("reverse", func(self any, args []any) (any, error) {
		arr := toArray(self)
		for i, j := 0, arr.Len()-1; i < j; i, j = i+1, j-1 {
			arr.items[i], arr.items[j] = arr.items[j], arr.items[i]
		}
		return arr, nil
	})
	ArrayProto.method("sort", func(self any, args []any) (any, error) {
		arr := toArray(self)
		var sortErr error
		cmp, hasCmp := Arg(args, 0).(Invokable)
		sort.SliceStable(arr.items, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			if hasCmp {
				result, err := cmp.Invoke([]any{arr.items[i], arr.items[j]})
				if err != nil {
					sortErr = err
					return false
				}
				return ToNumber(result) < 0
			}
			return ToString(arr.items[i]) < ToString(arr.items[j])
		})
		if sortErr != nil {
			return nil, sortErr
		}
		return arr, nil
	})
	ArrayProto.method("flat", func(self any, args []any) (any, error) {
		arr := toArray(self)
		depth := 1
		if len(args) > 0 {
			depth = int(ToNumber(args[0]))
		}
		return NewArray(flatten(arr.items, depth)...), nil
	})
}

func flatten(items []any, depth int) []any {
	var result []any
	for _, v := range items {
		if inner, ok := v.(*JsArray); ok && depth > 0 {
			result = append(result, flatten(inner.items, depth-1)...)
		} else {
			result = append(result, v)
		}
	}
	return result
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func sliceRange(n int, args []any) (int, int) {
	start := 0
	end := n
	if len(args) > 0 && !IsUndefined(args[0]) {
		start = clampIndex(int(ToNumber(args[0])), n)
	}
	if len(args) > 1 && !IsUndefined(args[1]) {
		end = clampIndex(int(ToNumber(args[1])), n)
	}
	if end < start {
		end = start
	}
	return start, end
}
