package runtime

// Throw carries a guest thrown value through Go error returns. Runtime
// errors unwind the evaluator like guest exceptions: catch blocks unwrap
// the Value, and only uncaught throws reach the host caller as errors.
type Throw struct {
	Value any
}

func (t *Throw) Error() string {
	return ToString(t.Value)
}

// Thrown wraps an arbitrary guest value for a throw statement.
func Thrown(v any) *Throw {
	return &Throw{Value: v}
}

// JsError is a guest error value with the usual name/message shape plus
// arbitrary own properties.
type JsError struct {
	Name    string
	Message string
	extra   *JsObject
}

func NewErrorValue(name, message string) *JsError {
	return &JsError{Name: name, Message: message}
}

func (e *JsError) Get(name string) (any, bool) {
	switch name {
	case "name":
		return e.Name, true
	case "message":
		return e.Message, true
	}
	if e.extra != nil {
		return e.extra.Get(name)
	}
	return nil, false
}

func (e *JsError) Set(name string, v any) {
	switch name {
	case "name":
		e.Name = ToString(v)
	case "message":
		e.Message = ToString(v)
	default:
		if e.extra == nil {
			e.extra = NewObject()
		}
		e.extra.Set(name, v)
	}
}

func (e *JsError) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

func (e *JsError) Delete(name string) {
	if e.extra != nil {
		e.extra.Delete(name)
	}
}

func (e *JsError) Keys() []string {
	keys := []string{"name", "message"}
	if e.extra != nil {
		keys = append(keys, e.extra.Keys()...)
	}
	return keys
}

func (e *JsError) String() string {
	if e.Message == "" {
		return e.Name
	}
	return e.Name + ": " + e.Message
}

func (e *JsError) HostValue() any {
	return e.String()
}

// The typed constructors produce catchable guest errors wrapped as Go
// errors, ready to return from evaluation.

func NewTypeError(message string) error {
	return Thrown(NewErrorValue("TypeError", message))
}

func NewReferenceError(message string) error {
	return Thrown(NewErrorValue("ReferenceError", message))
}

func NewRangeError(message string) error {
	return Thrown(NewErrorValue("RangeError", message))
}

func NewSyntaxErrorValue(message string) error {
	return Thrown(NewErrorValue("SyntaxError", message))
}

func init() {
	ErrorProto.method("toString", func(self any, args []any) (any, error) {
		if e, ok := self.(*JsError); ok {
			return e.String(), nil
		}
		return ToString(self), nil
	})
}
