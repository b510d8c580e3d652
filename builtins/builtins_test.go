package builtins

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/karatelabs/karate-js/runtime"
)

func call(t *testing.T, holder interface{ Get(string) (any, bool) }, name string, args ...any) any {
	t.Helper()
	fn, ok := holder.Get(name)
	assert.True(t, ok, "missing %s", name)
	result, err := fn.(runtime.Invokable).Invoke(args)
	assert.NoError(t, err)
	return result
}

func TestConsoleLog(t *testing.T) {
	var buf bytes.Buffer
	console := Console(func() io.Writer { return &buf })
	call(t, console, "log", "hello", 42, true)
	assert.Equal(t, "hello 42 true\n", buf.String())
}

func TestConsoleDisplaysContainers(t *testing.T) {
	var buf bytes.Buffer
	console := Console(func() io.Writer { return &buf })
	obj := runtime.NewObject()
	obj.Set("a", 1)
	call(t, console, "log", obj, runtime.NewArray(1, 2))
	assert.Equal(t, "{\"a\":1} [1,2]\n", buf.String())
}

func TestMath(t *testing.T) {
	m := MathObject()
	assert.Equal(t, 3, call(t, m, "floor", 3.7))
	assert.Equal(t, 4, call(t, m, "ceil", 3.2))
	assert.Equal(t, 4, call(t, m, "round", 3.5))
	assert.Equal(t, 0, call(t, m, "round", -0.5))
	assert.Equal(t, 8, call(t, m, "pow", 2, 3))
	assert.Equal(t, 2, call(t, m, "abs", -2))
	assert.Equal(t, 1, call(t, m, "min", 3, 1, 2))
	assert.Equal(t, 3, call(t, m, "max", 3, 1, 2))
	assert.Equal(t, -1, call(t, m, "sign", -7.5))
	assert.Equal(t, 5, call(t, m, "hypot", 3, 4))
	nan := call(t, m, "min", 1, "abc")
	assert.True(t, math.IsNaN(nan.(float64)))
}

func TestParseInt(t *testing.T) {
	v, _ := parseIntFn([]any{"42px"})
	assert.Equal(t, 42, v)
	v, _ = parseIntFn([]any{"  -17  "})
	assert.Equal(t, -17, v)
	v, _ = parseIntFn([]any{"0xff"})
	assert.Equal(t, 255, v)
	v, _ = parseIntFn([]any{"ff", 16})
	assert.Equal(t, 255, v)
	v, _ = parseIntFn([]any{"101", 2})
	assert.Equal(t, 5, v)
	v, _ = parseIntFn([]any{"abc"})
	assert.True(t, math.IsNaN(v.(float64)))
}

func TestParseFloat(t *testing.T) {
	v, _ := parseFloatFn([]any{"3.14 is pi"})
	assert.Equal(t, 3.14, v)
	v, _ = parseFloatFn([]any{"1e3x"})
	assert.Equal(t, 1000, v)
	v, _ = parseFloatFn([]any{"x"})
	assert.True(t, math.IsNaN(v.(float64)))
}

func TestJSONParseKeepsKeyOrder(t *testing.T) {
	v, err := ParseJSON(`{"z":1,"a":{"m":true},"k":[1,null,"s"]}`)
	assert.NoError(t, err)
	obj := v.(*runtime.JsObject)
	assert.Equal(t, []string{"z", "a", "k"}, obj.Keys())
	text, err := Stringify(obj, "")
	assert.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":{"m":true},"k":[1,null,"s"]}`, text)
}

func TestJSONParseTrailingGarbage(t *testing.T) {
	_, err := ParseJSON(`{"a":1} extra`)
	assert.Error(t, err)
}

func TestJSONStringifyIndent(t *testing.T) {
	v, err := ParseJSON(`{"a":1,"b":[1,2]}`)
	assert.NoError(t, err)
	text, err := Stringify(v, "  ")
	assert.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    1,\n    2\n  ]\n}", text)
}

func TestJSONStringifyDropsUndefined(t *testing.T) {
	obj := runtime.NewObject()
	obj.Set("a", runtime.Undefined)
	obj.Set("b", 1)
	text, err := Stringify(obj, "")
	assert.NoError(t, err)
	assert.Equal(t, `{"b":1}`, text)

	arr := runtime.NewArray(1, runtime.Undefined, 3)
	text, err = Stringify(arr, "")
	assert.NoError(t, err)
	assert.Equal(t, `[1,null,3]`, text)
}

func TestObjectStatics(t *testing.T) {
	obj := runtime.NewObject()
	obj.Set("a", 1)
	obj.Set("b", 2)
	o := ObjectCtor()
	keys := call(t, o, "keys", obj).(*runtime.JsArray)
	assert.Equal(t, []any{"a", "b"}, keys.Items())
	values := call(t, o, "values", obj).(*runtime.JsArray)
	assert.Equal(t, []any{1, 2}, values.Items())
	entries := call(t, o, "entries", obj).(*runtime.JsArray)
	first := entries.GetIdx(0).(*runtime.JsArray)
	assert.Equal(t, []any{"a", 1}, first.Items())

	target := runtime.NewObject()
	call(t, o, "assign", target, obj)
	v, _ := target.Get("b")
	assert.Equal(t, 2, v)

	back := call(t, o, "fromEntries", entries).(*runtime.JsObject)
	v, _ = back.Get("a")
	assert.Equal(t, 1, v)
}

func TestArrayStatics(t *testing.T) {
	a := ArrayCtor()
	assert.Equal(t, true, call(t, a, "isArray", runtime.NewArray()))
	assert.Equal(t, false, call(t, a, "isArray", runtime.NewObject()))

	of := call(t, a, "of", 1, 2, 3).(*runtime.JsArray)
	assert.Equal(t, []any{1, 2, 3}, of.Items())

	from := call(t, a, "from", "abc").(*runtime.JsArray)
	assert.Equal(t, []any{"a", "b", "c"}, from.Items())

	mapped := call(t, a, "from", runtime.NewArray(1, 2), runtime.Func(func(args []any) (any, error) {
		return runtime.ToNumber(args[0]) * 10, nil
	})).(*runtime.JsArray)
	assert.Equal(t, []any{10.0, 20.0}, []any{runtime.ToNumber(mapped.GetIdx(0)), runtime.ToNumber(mapped.GetIdx(1))})

	presized, err := a.InvokeWith(&runtime.CallInfo{Construct: true}, []any{3})
	assert.NoError(t, err)
	assert.Equal(t, 3, presized.(*runtime.JsArray).Len())
}

func TestWrapperDuality(t *testing.T) {
	s := StringCtor()
	plain, err := s.Invoke([]any{42})
	assert.NoError(t, err)
	assert.Equal(t, "42", plain)
	boxed, err := s.InvokeWith(&runtime.CallInfo{Construct: true}, []any{"hi"})
	assert.NoError(t, err)
	assert.IsType(t, &runtime.JsString{}, boxed)
	assert.True(t, s.InstanceOf(boxed))
	assert.False(t, s.InstanceOf("hi"))

	n := NumberCtor()
	plain, err = n.Invoke([]any{"3.5"})
	assert.NoError(t, err)
	assert.Equal(t, 3.5, plain)
	boxed, err = n.InvokeWith(&runtime.CallInfo{Construct: true}, []any{1})
	assert.NoError(t, err)
	assert.IsType(t, &runtime.JsNumber{}, boxed)

	b := BooleanCtor()
	plain, err = b.Invoke([]any{""})
	assert.NoError(t, err)
	assert.Equal(t, false, plain)
}

func TestNumberStatics(t *testing.T) {
	n := NumberCtor()
	assert.Equal(t, true, call(t, n, "isInteger", 4))
	assert.Equal(t, false, call(t, n, "isInteger", 4.5))
	assert.Equal(t, false, call(t, n, "isInteger", "4"))
	assert.Equal(t, true, call(t, n, "isNaN", math.NaN()))
	assert.Equal(t, false, call(t, n, "isNaN", "abc"))
	v, ok := n.Get("MAX_SAFE_INTEGER")
	assert.True(t, ok)
	assert.Equal(t, float64(1<<53-1), v)
}

func TestDateCtor(t *testing.T) {
	d := DateCtor()
	fromMillis, err := d.InvokeWith(&runtime.CallInfo{Construct: true}, []any{1700000000000})
	assert.NoError(t, err)
	assert.Equal(t, int64(1700000000000), fromMillis.(*runtime.JsDate).Millis)

	parsed, err := d.InvokeWith(&runtime.CallInfo{Construct: true}, []any{"2023-11-14T22:13:20Z"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1700000000000), parsed.(*runtime.JsDate).Millis)

	calendar, err := d.InvokeWith(&runtime.CallInfo{Construct: true}, []any{1970, 0, 1})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), calendar.(*runtime.JsDate).Millis)

	utc := call(t, d, "UTC", 1970, 0, 2)
	assert.Equal(t, 86400000, utc)

	assert.True(t, d.InstanceOf(runtime.NowDate()))
}

func TestErrorCtors(t *testing.T) {
	ctors := ErrorCtors()
	te, err := ctors["TypeError"].Invoke([]any{"bad"})
	assert.NoError(t, err)
	jsErr := te.(*runtime.JsError)
	assert.Equal(t, "TypeError", jsErr.Name)
	assert.Equal(t, "bad", jsErr.Message)
	assert.True(t, ctors["TypeError"].InstanceOf(jsErr))
	assert.True(t, ctors["Error"].InstanceOf(jsErr))
	assert.False(t, ctors["RangeError"].InstanceOf(jsErr))
}

func TestRegExpCtor(t *testing.T) {
	r := RegExpCtor()
	re, err := r.Invoke([]any{"a+", "i"})
	assert.NoError(t, err)
	rx := re.(*runtime.JsRegex)
	assert.True(t, rx.Test("AAA"))
	assert.True(t, r.InstanceOf(rx))

	same, err := r.Invoke([]any{rx})
	assert.NoError(t, err)
	assert.Same(t, rx, same)

	_, err = r.Invoke([]any{"("})
	assert.Error(t, err)
}
