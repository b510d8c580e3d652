package runtime

import (
	"fmt"
	"reflect"
	"sort"
	"time"
)

// The bridge converts between guest values and host objects. Conversion is
// applied only at call/return edges and at binding get/set, never by
// bulk-converting nested structures: containers cross the boundary as live
// views that convert per access.

// ToHost converts a guest value for a host caller: undefined becomes nil,
// wrappers unwrap to idiomatic host equivalents, containers become lazily
// converting views.
func ToHost(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case undefined:
		return nil
	case bool, int, int64, float64, string:
		return t
	case JsValue:
		return t.HostValue()
	}
	return v
}

// FromHost classifies a host value into the nearest guest kind. Several
// host representations collapse onto one guest kind: every numeric type
// becomes a guest number, every time representation the guest date.
// Values with no guest mapping pass through opaque; TryFromHost rejects
// them instead.
func FromHost(v any) any {
	converted, _ := fromHost(v)
	return converted
}

// TryFromHost is the strict form used at binding edges: a host value with
// no guest mapping is an immediate error.
func TryFromHost(v any) (any, error) {
	converted, ok := fromHost(v)
	if !ok {
		return nil, fmt.Errorf("no guest mapping for host type %T", v)
	}
	return converted, nil
}

func fromHost(v any) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, true
	case undefined:
		return t, true
	case bool, string:
		return t, true
	case int:
		return t, true
	case int8:
		return int(t), true
	case int16:
		return int(t), true
	case int32:
		return int(t), true
	case int64:
		return Narrow(float64(t)), true
	case uint:
		return Narrow(float64(t)), true
	case uint8:
		return int(t), true
	case uint16:
		return int(t), true
	case uint32:
		return Narrow(float64(t)), true
	case uint64:
		return Narrow(float64(t)), true
	case float32:
		return Narrow(float64(t)), true
	case float64:
		return Narrow(t), true
	case time.Time:
		return NewDate(t.UnixMilli()), true
	case *time.Time:
		return NewDate(t.UnixMilli()), true
	case time.Duration:
		return Narrow(float64(t.Milliseconds())), true
	case *JsObject, *JsArray, *JsDate, *JsRegex, *JsError,
		*JsString, *JsNumber, *JsBoolean:
		return t, true
	case *MapView:
		return t.obj, true
	case *ListView:
		return t.arr, true
	case map[string]any:
		// live view: later host-side mutation stays observable
		return &HostObject{m: t}, true
	case []any:
		// shares the backing array with the host slice
		return &JsArray{items: t}, true
	case Func:
		return t, true
	case func(args []any) (any, error):
		return Func(t), true
	case Invokable:
		return t, true
	case error:
		return NewErrorValue("Error", t.Error()), true
	}
	return fromHostReflect(v)
}

// fromHostReflect widens the accepted host types to arbitrary slices and
// string-keyed maps by copying element-wise. Only []any and map[string]any
// stay live; other element types have no addressable guest form.
func fromHostReflect(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			converted, ok := fromHost(rv.Index(i).Interface())
			if !ok {
				return v, false
			}
			items[i] = converted
		}
		return NewArray(items...), true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v, false
		}
		obj := NewObject()
		keys := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			keys = append(keys, iter.Key().String())
		}
		sort.Strings(keys)
		for _, k := range keys {
			converted, ok := fromHost(rv.MapIndex(reflect.ValueOf(k)).Interface())
			if !ok {
				return v, false
			}
			obj.Set(k, converted)
		}
		return obj, true
	case reflect.Ptr:
		if rv.IsNil() {
			return nil, true
		}
	}
	return v, false
}

// HostObject is a live guest view over a host map: reads classify the
// current host value at access time, writes convert back. Because nothing
// is snapshotted, concurrent host-side mutation needs no synchronization
// here beyond what the host already does.
type HostObject struct {
	m map[string]any
}

func NewHostObject(m map[string]any) *HostObject {
	return &HostObject{m: m}
}

func (h *HostObject) Get(name string) (any, bool) {
	v, ok := h.m[name]
	if !ok {
		return nil, false
	}
	return FromHost(v), true
}

func (h *HostObject) Set(name string, v any) {
	h.m[name] = ToHost(v)
}

func (h *HostObject) Has(name string) bool {
	_, ok := h.m[name]
	return ok
}

func (h *HostObject) Delete(name string) {
	delete(h.m, name)
}

func (h *HostObject) Keys() []string {
	keys := make([]string, 0, len(h.m))
	for k := range h.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (h *HostObject) Len() int {
	return len(h.m)
}

// HostValue hands the underlying map straight back to the host.
func (h *HostObject) HostValue() any {
	return h.m
}
