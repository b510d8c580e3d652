package runtime

import (
	"math"
	"strconv"
	"strings"
)

// Boxed primitives exist only through constructor-style invocation of the
// wrapper constructors; everything else produces unboxed primitives. They
// unwrap transparently for coercion and cross the bridge as primitives.

type JsString struct {
	Value string
}

func NewString(v string) *JsString { return &JsString{Value: v} }

func (s *JsString) Unwrap() any    { return s.Value }
func (s *JsString) HostValue() any { return s.Value }

type JsNumber struct {
	Value float64
}

func NewNumber(v float64) *JsNumber { return &JsNumber{Value: v} }

func (n *JsNumber) Unwrap() any    { return Narrow(n.Value) }
func (n *JsNumber) HostValue() any { return Narrow(n.Value) }

type JsBoolean struct {
	Value bool
}

func NewBoolean(v bool) *JsBoolean { return &JsBoolean{Value: v} }

func (b *JsBoolean) Unwrap() any    { return b.Value }
func (b *JsBoolean) HostValue() any { return b.Value }

func selfString(self any) string {
	if s, ok := stringValue(self); ok {
		return s
	}
	return ToString(self)
}

func init() {
	StringProto.method("charAt", func(self any, args []any) (any, error) {
		s := selfString(self)
		i := int(ToNumber(Arg(args, 0)))
		if i < 0 || i >= len(s) {
			return "", nil
		}
		return string(s[i]), nil
	})
	StringProto.method("charCodeAt", func(self any, args []any) (any, error) {
		s := selfString(self)
		i := int(ToNumber(Arg(args, 0)))
		if i < 0 || i >= len(s) {
			return math.NaN(), nil
		}
		return int(s[i]), nil
	})
	StringProto.method("indexOf", func(self any, args []any) (any, error) {
		return strings.Index(selfString(self), ToString(Arg(args, 0))), nil
	})
	StringProto.method("lastIndexOf", func(self any, args []any) (any, error) {
		return strings.LastIndex(selfString(self), ToString(Arg(args, 0))), nil
	})
	StringProto.method("includes", func(self any, args []any) (any, error) {
		return strings.Contains(selfString(self), ToString(Arg(args, 0))), nil
	})
	StringProto.method("startsWith", func(self any, args []any) (any, error) {
		return strings.HasPrefix(selfString(self), ToString(Arg(args, 0))), nil
	})
	StringProto.method("endsWith", func(self any, args []any) (any, error) {
		return strings.HasSuffix(selfString(self), ToString(Arg(args, 0))), nil
	})
	StringProto.method("substring", func(self any, args []any) (any, error) {
		s := selfString(self)
		start, end := sliceRange(len(s), args)
		return s[start:end], nil
	})
	StringProto.method("slice", func(self any, args []any) (any, error) {
		s := selfString(self)
		start, end := sliceRange(len(s), args)
		return s[start:end], nil
	})
	StringProto.method("toUpperCase", func(self any, args []any) (any, error) {
		return strings.ToUpper(selfString(self)), nil
	})
	StringProto.method("toLowerCase", func(self any, args []any) (any, error) {
		return strings.ToLower(selfString(self)), nil
	})
	StringProto.method("trim", func(self any, args []any) (any, error) {
		return strings.TrimSpace(selfString(self)), nil
	})
	StringProto.method("split", func(self any, args []any) (any, error) {
		s := selfString(self)
		sep := Arg(args, 0)
		if IsUndefined(sep) {
			return NewArray(s), nil
		}
		var parts []string
		if re, ok := sep.(*JsRegex); ok {
			parts = re.Split(s)
		} else {
			parts = strings.Split(s, ToString(sep))
		}
		items := make([]any, len(parts))
		for i, p := range parts {
			items[i] = p
		}
		return NewArray(items...), nil
	})
	StringProto.method("replace", func(self any, args []any) (any, error) {
		s := selfString(self)
		pattern := Arg(args, 0)
		replacement := ToString(Arg(args, 1))
		if re, ok := pattern.(*JsRegex); ok {
			return re.Replace(s, replacement), nil
		}
		return strings.Replace(s, ToString(pattern), replacement, 1), nil
	})
	StringProto.method("replaceAll", func(self any, args []any) (any, error) {
		s := selfString(self)
		return strings.ReplaceAll(s, ToString(Arg(args, 0)), ToString(Arg(args, 1))), nil
	})
	StringProto.method("repeat", func(self any, args []any) (any, error) {
		count := int(ToNumber(Arg(args, 0)))
		if count < 0 {
			return nil, NewRangeError("invalid count value")
		}
		return strings.Repeat(selfString(self), count), nil
	})
	StringProto.method("padStart", func(self any, args []any) (any, error) {
		return pad(selfString(self), args, true), nil
	})
	StringProto.method("padEnd", func(self any, args []any) (any, error) {
		return pad(selfString(self), args, false), nil
	})
	StringProto.method("concat", func(self any, args []any) (any, error) {
		var sb strings.Builder
		sb.WriteString(selfString(self))
		for _, v := range args {
			sb.WriteString(ToString(v))
		}
		return sb.String(), nil
	})
	StringProto.method("match", func(self any, args []any) (any, error) {
		re, ok := Arg(args, 0).(*JsRegex)
		if !ok {
			return nil, NewTypeError("match expects a regular expression")
		}
		return re.Match(selfString(self)), nil
	})
	StringProto.method("toString", func(self any, args []any) (any, error) {
		return selfString(self), nil
	})

	NumberProto.method("toFixed", func(self any, args []any) (any, error) {
		digits := int(ToNumber(Arg(args, 0)))
		if IsUndefined(Arg(args, 0)) {
			digits = 0
		}
		return strconv.FormatFloat(ToNumber(self), 'f', digits, 64), nil
	})
	NumberProto.method("toString", func(self any, args []any) (any, error) {
		radix := 10
		if len(args) > 0 && !IsUndefined(args[0]) {
			radix = int(ToNumber(args[0]))
		}
		if radix < 2 || radix > 36 {
			return nil, NewRangeError("radix must be between 2 and 36")
		}
		f := ToNumber(self)
		if radix == 10 {
			return NumberToString(f), nil
		}
		return strconv.FormatInt(int64(f), radix), nil
	})
	NumberProto.method("toPrecision", func(self any, args []any) (any, error) {
		if len(args) == 0 || IsUndefined(args[0]) {
			return NumberToString(ToNumber(self)), nil
		}
		return strconv.FormatFloat(ToNumber(self), 'g', int(ToNumber(args[0])), 64), nil
	})

	BooleanProto.method("toString", func(self any, args []any) (any, error) {
		return ToString(Unwrap(self)), nil
	})
}

func pad(s string, args []any, start bool) string {
	target := int(ToNumber(Arg(args, 0)))
	fill := " "
	if len(args) > 1 && !IsUndefined(args[1]) {
		fill = ToString(args[1])
	}
	if fill == "" || len(s) >= target {
		return s
	}
	var sb strings.Builder
	for sb.Len() < target-len(s) {
		sb.WriteString(fill)
	}
	padding := sb.String()[:target-len(s)]
	if start {
		return padding + s
	}
	return s + padding
}
