package runtime

// JsObject is a plain guest object: insertion-ordered own properties plus
// an optional guest __proto__ link consulted before the builtin chain.
type JsObject struct {
	keys   []string
	values map[string]any
	proto  *JsObject
}

func NewObject() *JsObject {
	return &JsObject{values: map[string]any{}}
}

// SetProto sets the guest __proto__ link.
func (o *JsObject) SetProto(proto *JsObject) {
	o.proto = proto
}

func (o *JsObject) Proto() *JsObject {
	return o.proto
}

// Get resolves own properties, then the guest __proto__ chain.
func (o *JsObject) Get(name string) (any, bool) {
	if v, ok := o.values[name]; ok {
		return v, true
	}
	if o.proto != nil {
		return o.proto.Get(name)
	}
	return nil, false
}

// GetOr returns the property value or Undefined, the guest read semantics.
func (o *JsObject) GetOr(name string) any {
	if v, ok := o.Get(name); ok {
		return v
	}
	return Undefined
}

func (o *JsObject) Set(name string, v any) {
	if _, exists := o.values[name]; !exists {
		o.keys = append(o.keys, name)
	}
	o.values[name] = v
}

func (o *JsObject) Has(name string) bool {
	if _, ok := o.values[name]; ok {
		return true
	}
	if o.proto != nil {
		return o.proto.Has(name)
	}
	return false
}

func (o *JsObject) HasOwn(name string) bool {
	_, ok := o.values[name]
	return ok
}

func (o *JsObject) Delete(name string) {
	if _, ok := o.values[name]; !ok {
		return
	}
	delete(o.values, name)
	for i, k := range o.keys {
		if k == name {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns own enumerable keys in insertion order.
func (o *JsObject) Keys() []string {
	result := make([]string, len(o.keys))
	copy(result, o.keys)
	return result
}

func (o *JsObject) Len() int {
	return len(o.keys)
}

// HostValue exposes the object to the host as a lazily converting view.
func (o *JsObject) HostValue() any {
	return &MapView{obj: o}
}

// MapView is the host-side face of a guest object. Each access converts
// just the value being read, so undefined stays visible to guest code while
// host callers see host-native values, and later guest mutations are
// observed rather than snapshotted.
type MapView struct {
	obj *JsObject
}

// Get converts the named value at access time; undefined and missing both
// become nil on the host side.
func (m *MapView) Get(name string) any {
	v, ok := m.obj.Get(name)
	if !ok {
		return nil
	}
	return ToHost(v)
}

func (m *MapView) Has(name string) bool {
	return m.obj.HasOwn(name)
}

func (m *MapView) Keys() []string {
	return m.obj.Keys()
}

func (m *MapView) Len() int {
	return m.obj.Len()
}

// Set writes through to the guest object, classifying the host value.
func (m *MapView) Set(name string, v any) {
	m.obj.Set(name, FromHost(v))
}

// Map materializes the whole object as a host map, converting every entry
// recursively at call time. This is the explicit eager escape hatch;
// nothing calls it implicitly.
func (m *MapView) Map() map[string]any {
	result := make(map[string]any, m.obj.Len())
	for _, k := range m.obj.Keys() {
		v, _ := m.obj.Get(k)
		result[k] = materialize(v)
	}
	return result
}

// materialize converts eagerly all the way down, unlike ToHost which stops
// at container boundaries.
func materialize(v any) any {
	switch hosted := ToHost(v).(type) {
	case *MapView:
		return hosted.Map()
	case *ListView:
		return hosted.Slice()
	default:
		return hosted
	}
}

func init() {
	ObjectProto.method("hasOwnProperty", func(self any, args []any) (any, error) {
		name := ToString(Arg(args, 0))
		switch t := self.(type) {
		case *JsObject:
			return t.HasOwn(name), nil
		case ObjectLike:
			return t.Has(name), nil
		case *JsArray:
			idx := int(ToNumber(name))
			return idx >= 0 && idx < t.Len(), nil
		}
		return false, nil
	})
	ObjectProto.method("toString", func(self any, args []any) (any, error) {
		return ToString(self), nil
	})
}
