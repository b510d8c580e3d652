package builtins

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/karatelabs/karate-js/runtime"
)

// JSONObject builds the JSON namespace. Parsing runs over the stream
// tokenizer so object key order survives into the ordered guest object;
// plain unmarshalling would lose it.
func JSONObject() *runtime.JsObject {
	j := runtime.NewObject()
	j.Set("parse", runtime.Func(func(args []any) (any, error) {
		value, err := ParseJSON(runtime.ToString(argAt(args, 0)))
		if err != nil {
			return nil, runtime.NewSyntaxErrorValue(err.Error())
		}
		return value, nil
	}))
	j.Set("stringify", runtime.Func(func(args []any) (any, error) {
		indent := ""
		if len(args) > 2 {
			switch t := args[2].(type) {
			case string:
				indent = t
			default:
				if runtime.IsNumber(t) {
					indent = strings.Repeat(" ", int(runtime.ToNumber(t)))
				}
			}
		}
		value := argAt(args, 0)
		if runtime.IsUndefined(value) || isStringifySkipped(value) {
			return runtime.Undefined, nil
		}
		text, err := Stringify(value, indent)
		if err != nil {
			return nil, err
		}
		return text, nil
	}))
	return j
}

// ParseJSON decodes text into guest values, preserving object key order.
func ParseJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	value, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	// trailing garbage is an error, same as the usual parse contract
	if dec.More() {
		return nil, fmt.Errorf("unexpected content after JSON value")
	}
	return value, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeFrom(dec, t)
}

func decodeFrom(dec *json.Decoder, t json.Token) (any, error) {
	switch v := t.(type) {
	case json.Delim:
		switch v {
		case '{':
			obj := runtime.NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				value, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, value)
			}
			if _, err := dec.Token(); err != nil { // closing brace
				return nil, err
			}
			return obj, nil
		case '[':
			arr := runtime.NewArray()
			for dec.More() {
				value, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr.Push(value)
			}
			if _, err := dec.Token(); err != nil { // closing bracket
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return runtime.Narrow(f), nil
	case string:
		return v, nil
	case bool:
		return v, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected token %v", t)
}

// Stringify renders a guest value as JSON text. Undefined entries follow
// the standard behavior: dropped from objects, null in arrays.
func Stringify(value any, indent string) (string, error) {
	var sb strings.Builder
	if err := writeJSON(&sb, value, indent, ""); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func isStringifySkipped(v any) bool {
	switch v.(type) {
	case runtime.Invokable:
		return true
	}
	return false
}

func writeJSON(sb *strings.Builder, value any, indent, prefix string) error {
	value = runtime.Unwrap(value)
	switch t := value.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		if t {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case int, int64, float64:
		sb.WriteString(runtime.NumberToString(runtime.ToNumber(t)))
	case string:
		quoted, err := json.Marshal(t)
		if err != nil {
			return err
		}
		sb.Write(quoted)
	case *runtime.JsArray:
		return writeJSONArray(sb, t, indent, prefix)
	case *runtime.JsDate:
		sb.WriteString(`"` + t.ToISOString() + `"`)
	case runtime.ObjectLike:
		return writeJSONObject(sb, t, indent, prefix)
	default:
		if runtime.IsUndefined(value) {
			sb.WriteString("null")
			return nil
		}
		return runtime.NewTypeError(fmt.Sprintf("cannot stringify %T", value))
	}
	return nil
}

func writeJSONArray(sb *strings.Builder, arr *runtime.JsArray, indent, prefix string) error {
	if arr.Len() == 0 {
		sb.WriteString("[]")
		return nil
	}
	inner := prefix + indent
	sb.WriteByte('[')
	for i := 0; i < arr.Len(); i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeBreak(sb, indent, inner)
		item := arr.GetIdx(i)
		if isStringifySkipped(item) {
			item = nil
		}
		if err := writeJSON(sb, item, indent, inner); err != nil {
			return err
		}
	}
	writeBreak(sb, indent, prefix)
	sb.WriteByte(']')
	return nil
}

func writeJSONObject(sb *strings.Builder, obj runtime.ObjectLike, indent, prefix string) error {
	keys := obj.Keys()
	if len(keys) == 0 {
		sb.WriteString("{}")
		return nil
	}
	inner := prefix + indent
	sb.WriteByte('{')
	first := true
	for _, key := range keys {
		v, _ := obj.Get(key)
		if runtime.IsUndefined(v) || isStringifySkipped(v) {
			continue
		}
		if !first {
			sb.WriteByte(',')
		}
		first = false
		writeBreak(sb, indent, inner)
		quoted, err := json.Marshal(key)
		if err != nil {
			return err
		}
		sb.Write(quoted)
		sb.WriteByte(':')
		if indent != "" {
			sb.WriteByte(' ')
		}
		if err := writeJSON(sb, v, indent, inner); err != nil {
			return err
		}
	}
	writeBreak(sb, indent, prefix)
	sb.WriteByte('}')
	return nil
}

func writeBreak(sb *strings.Builder, indent, prefix string) {
	if indent != "" {
		sb.WriteString("\n" + prefix)
	}
}
