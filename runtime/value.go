package runtime

// The guest value domain is a closed set over Go's any:
//
//	nil            null
//	Undefined      undefined (distinct from null)
//	bool           boolean primitive
//	int, float64   number (whole numbers narrow to int, see Narrow)
//	string         string primitive
//	*JsObject      object
//	*JsArray       array
//	*JsDate        date (internally a millisecond count)
//	*JsRegex       regular expression
//	*JsString etc. boxed primitives (constructor-style invocation only)
//	Invokable      functions, user-defined and builtin
//
// Host values enter and leave this domain only through the bridge
// (FromHost/ToHost) and the engine's binding accessors.

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined is the singleton undefined value.
var Undefined = undefined{}

// IsUndefined reports whether v is the undefined value.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// CallInfo is per-invocation metadata allocated only for constructor-style
// calls. Ordinary calls pass nil, so the common path costs nothing. The
// primitive-wrapper constructors inspect it to decide between returning a
// primitive and a boxed object.
type CallInfo struct {
	Construct bool
}

// Invokable is anything a call expression can apply.
type Invokable interface {
	Invoke(args []any) (any, error)
}

// CallAware invokables additionally see the CallInfo when one exists
// (new-expressions); everything else goes through Invoke.
type CallAware interface {
	Invokable
	InvokeWith(info *CallInfo, args []any) (any, error)
}

// ThisBindable invokables accept an explicit receiver, used by member
// calls and Function.prototype.call/apply.
type ThisBindable interface {
	Invokable
	InvokeOn(this any, args []any) (any, error)
}

// Func adapts a Go function to Invokable; all builtin functions and
// prototype methods are Funcs closed over their receiver.
type Func func(args []any) (any, error)

func (f Func) Invoke(args []any) (any, error) {
	return f(args)
}

func (f Func) String() string { return "[function]" }

// JsValue is implemented by wrapper values that expose a host-facing
// representation different from their guest identity.
type JsValue interface {
	// HostValue returns the value handed across the bridge: dates become
	// host time values, boxed primitives unbox, containers expose views.
	HostValue() any
}

// Unwrappable is implemented by values with an internal primitive
// representation. Numeric coercion unwraps first, then switches on the raw
// type: a date unwraps to its millisecond count, never to a formatted
// string.
type Unwrappable interface {
	Unwrap() any
}

// Arg returns the argument at index i, Undefined when absent.
func Arg(args []any, i int) any {
	if i < 0 || i >= len(args) {
		return Undefined
	}
	return args[i]
}
