package runtime

// Proto is one link in a delegation chain. Property resolution is an
// explicit chained lookup over these links, selected per value kind; there
// is no type-hierarchy dispatch. Each entry produces the property value for
// a given receiver, typically a Func closed over it.
type Proto struct {
	name   string
	parent *Proto
	props  map[string]func(self any) any
}

func NewProto(name string, parent *Proto) *Proto {
	return &Proto{name: name, parent: parent, props: map[string]func(self any) any{}}
}

func (p *Proto) Name() string {
	return p.name
}

func (p *Proto) put(name string, prop func(self any) any) {
	p.props[name] = prop
}

// method registers a prototype function that closes over the receiver.
func (p *Proto) method(name string, fn func(self any, args []any) (any, error)) {
	p.props[name] = func(self any) any {
		return Func(func(args []any) (any, error) {
			return fn(self, args)
		})
	}
}

// Lookup walks the chain for the named property of the receiver.
func (p *Proto) Lookup(self any, name string) (any, bool) {
	for cur := p; cur != nil; cur = cur.parent {
		if prop, ok := cur.props[name]; ok {
			return prop(self), true
		}
	}
	return nil, false
}

// Has reports whether the chain defines the property at all.
func (p *Proto) Has(name string) bool {
	for cur := p; cur != nil; cur = cur.parent {
		if _, ok := cur.props[name]; ok {
			return true
		}
	}
	return false
}

// ObjectLike is the own-property contract shared by plain objects and
// function objects. Get resolves own properties and the guest __proto__
// chain but not the builtin delegate chain.
type ObjectLike interface {
	Get(name string) (any, bool)
	Set(name string, v any)
	Has(name string) bool
	Delete(name string)
	Keys() []string
}

// delegation chains, one head per value kind
var (
	ObjectProto   = NewProto("Object", nil)
	ArrayProto    = NewProto("Array", ObjectProto)
	StringProto   = NewProto("String", ObjectProto)
	NumberProto   = NewProto("Number", ObjectProto)
	BooleanProto  = NewProto("Boolean", ObjectProto)
	FunctionProto = NewProto("Function", ObjectProto)
	DateProto     = NewProto("Date", ObjectProto)
	RegexProto    = NewProto("RegExp", ObjectProto)
	ErrorProto    = NewProto("Error", ObjectProto)
)

// ChainOf selects the delegation chain for a value kind.
func ChainOf(v any) *Proto {
	switch v.(type) {
	case *JsArray:
		return ArrayProto
	case string, *JsString:
		return StringProto
	case int, int64, float64, *JsNumber:
		return NumberProto
	case bool, *JsBoolean:
		return BooleanProto
	case *JsDate:
		return DateProto
	case *JsRegex:
		return RegexProto
	case *JsError:
		return ErrorProto
	case Invokable:
		return FunctionProto
	case *JsObject:
		return ObjectProto
	case ObjectLike:
		return ObjectProto
	}
	return nil
}

// GetProperty resolves a named property: own properties (and the guest
// __proto__ chain) first, then the per-kind delegate chain.
func GetProperty(target any, name string) (any, bool) {
	if obj, ok := target.(ObjectLike); ok {
		if v, found := obj.Get(name); found {
			return v, true
		}
	}
	if arr, ok := target.(*JsArray); ok && name == "length" {
		return arr.Len(), true
	}
	if s, ok := stringValue(target); ok && name == "length" {
		return len(s), true
	}
	if chain := ChainOf(target); chain != nil {
		return chain.Lookup(target, name)
	}
	return nil, false
}

// HasProperty reports whether the property resolves at all, own or chained.
func HasProperty(target any, name string) bool {
	if obj, ok := target.(ObjectLike); ok {
		if obj.Has(name) {
			return true
		}
	}
	if _, ok := target.(*JsArray); ok && name == "length" {
		return true
	}
	if chain := ChainOf(target); chain != nil {
		return chain.Has(name)
	}
	return false
}

// SetProperty assigns a named property. Assignments to primitives are
// silently ignored, matching guest semantics.
func SetProperty(target any, name string, v any) {
	switch t := target.(type) {
	case ObjectLike:
		t.Set(name, v)
	case *JsArray:
		if name == "length" {
			t.SetLength(int(ToNumber(v)))
		}
	}
}

// DeleteProperty removes an own property; true unless the target cannot
// carry own properties.
func DeleteProperty(target any, name string) bool {
	if obj, ok := target.(ObjectLike); ok {
		obj.Delete(name)
		return true
	}
	return false
}

func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case *JsString:
		return t.Value, true
	}
	return "", false
}
