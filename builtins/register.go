// Package builtins provides the global environment scripts start with:
// console, Math, JSON, the wrapper and collection constructors, and the
// top-level conversion functions.
package builtins

import (
	"io"

	"github.com/karatelabs/karate-js/runtime"
)

// Register binds every builtin global through the given function. The out
// accessor is read at print time so console output can be redirected after
// registration.
func Register(bind func(name string, value any), out func() io.Writer) {
	bind("console", Console(out))
	bind("Math", MathObject())
	bind("JSON", JSONObject())

	registerGlobals(bind)

	bind("Object", ObjectCtor())
	bind("Array", ArrayCtor())
	bind("String", StringCtor())
	bind("Number", NumberCtor())
	bind("Boolean", BooleanCtor())
	bind("Date", DateCtor())
	bind("RegExp", RegExpCtor())
	for name, c := range ErrorCtors() {
		bind(name, c)
	}
}

// Ctor is a constructor-style builtin: callable plain or with new, with
// static properties and an instanceof test.
type Ctor struct {
	name      string
	construct func(info *runtime.CallInfo, args []any) (any, error)
	props     *runtime.JsObject
	matches   func(v any) bool
}

func NewCtor(name string, construct func(info *runtime.CallInfo, args []any) (any, error)) *Ctor {
	return &Ctor{name: name, construct: construct, props: runtime.NewObject()}
}

func (c *Ctor) Invoke(args []any) (any, error) {
	return c.construct(nil, args)
}

// InvokeWith receives the call info a new-expression allocates, letting
// the wrapper constructors choose boxed versus primitive results.
func (c *Ctor) InvokeWith(info *runtime.CallInfo, args []any) (any, error) {
	return c.construct(info, args)
}

// InstanceOf implements the instanceof check for builtin kinds.
func (c *Ctor) InstanceOf(v any) bool {
	if c.matches == nil {
		return false
	}
	return c.matches(v)
}

func (c *Ctor) Get(name string) (any, bool) {
	if name == "name" {
		return c.name, true
	}
	return c.props.Get(name)
}

func (c *Ctor) Set(name string, v any) {
	c.props.Set(name, v)
}

func (c *Ctor) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

func (c *Ctor) Delete(name string) {
	c.props.Delete(name)
}

func (c *Ctor) Keys() []string {
	return c.props.Keys()
}

func (c *Ctor) String() string {
	return "function " + c.name + "() { [native code] }"
}

// static registers a function-valued static property.
func (c *Ctor) static(name string, fn func(args []any) (any, error)) {
	c.props.Set(name, runtime.Func(fn))
}

func argAt(args []any, i int) any {
	return runtime.Arg(args, i)
}

func constructed(info *runtime.CallInfo) bool {
	return info != nil && info.Construct
}
