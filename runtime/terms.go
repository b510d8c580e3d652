package runtime

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Truthiness: undefined, null, false, zero, NaN and the empty string are
// falsy; everything else is truthy.
func IsTruthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case undefined:
		return false
	case bool:
		return t
	case int:
		return t != 0
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	case Unwrappable:
		return IsTruthy(t.Unwrap())
	}
	return true
}

// Unwrap reduces a wrapper value to its internal representation; all other
// values pass through.
func Unwrap(v any) any {
	if u, ok := v.(Unwrappable); ok {
		return Unwrap(u.Unwrap())
	}
	return v
}

// ToNumber implements the unwrap-then-coerce rule: wrappers unwrap first
// (a date yields its millisecond count), then the raw type decides: numbers
// pass through, booleans map to 0/1, strings parse as numeric literals
// (failure is NaN), null is 0, undefined is NaN.
func ToNumber(v any) float64 {
	switch t := Unwrap(v).(type) {
	case nil:
		return 0
	case undefined:
		return math.NaN()
	case bool:
		if t {
			return 1
		}
		return 0
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float64:
		return t
	case string:
		return stringToNumber(t)
	case *JsArray:
		// [] is 0, [x] is number(x), anything longer is NaN
		switch t.Len() {
		case 0:
			return 0
		case 1:
			return ToNumber(t.GetIdx(0))
		}
	}
	return math.NaN()
}

func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if n, err := strconv.ParseInt(s[2:], 16, 64); err == nil {
			return float64(n)
		}
		return math.NaN()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return math.NaN()
}

// Narrow stores whole numbers as ints so that arithmetic on integers stays
// integral in display and interop; everything else stays float64.
func Narrow(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
		return int(f)
	}
	return f
}

// ToInt32 coerces per the bitwise-operator rules.
func ToInt32(v any) int32 {
	f := ToNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(uint32(int64(f)))
}

// ToUint32 coerces per the unsigned-shift rules.
func ToUint32(v any) uint32 {
	f := ToNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return uint32(int64(f))
}

// NumberToString renders a number the way the guest language prints it:
// whole values without a decimal point.
func NumberToString(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ToString renders any guest value as a string.
func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case undefined:
		return "undefined"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return NumberToString(t)
	case string:
		return t
	case *JsArray:
		items := make([]string, t.Len())
		for i := range items {
			item := t.GetIdx(i)
			if item == nil || IsUndefined(item) {
				items[i] = ""
			} else {
				items[i] = ToString(item)
			}
		}
		return strings.Join(items, ",")
	case *JsObject:
		return "[object Object]"
	case *JsDate:
		return t.ToISOString()
	case *JsRegex:
		return t.Literal()
	case Unwrappable:
		return ToString(t.Unwrap())
	case Invokable:
		return "[function]"
	}
	return fmt.Sprintf("%v", v)
}

// TypeOf implements the typeof operator.
func TypeOf(v any) string {
	switch Unwrap(v).(type) {
	case undefined:
		return "undefined"
	case nil:
		return "object" // typeof null
	case bool:
		return "boolean"
	case int, int64, float64:
		return "number"
	case string:
		return "string"
	case Invokable:
		return "function"
	}
	return "object"
}

// IsNumber reports whether the raw value is a guest number.
func IsNumber(v any) bool {
	switch v.(type) {
	case int, int64, float64:
		return true
	}
	return false
}

// Eq implements equality. Strict comparison never coerces: differing type
// tags are unequal, objects compare by identity. Loose comparison applies
// the unwrap-then-coerce rule first: null equals undefined, numbers and
// strings meet as numbers, booleans coerce to numbers.
func Eq(a, b any, strict bool) bool {
	if !strict {
		a = Unwrap(a)
		b = Unwrap(b)
	}
	aNil := a == nil
	bNil := b == nil
	aUndef := IsUndefined(a)
	bUndef := IsUndefined(b)
	if strict {
		if aNil || bNil {
			return aNil && bNil
		}
		if aUndef || bUndef {
			return aUndef && bUndef
		}
	} else {
		if aNil || aUndef || bNil || bUndef {
			return (aNil || aUndef) && (bNil || bUndef)
		}
	}
	if IsNumber(a) && IsNumber(b) {
		return numberEquals(a, b)
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return as == bs
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			return ab == bb
		}
	}
	if strict {
		// identity for reference types, no coercion across type tags
		return sameRef(a, b)
	}
	// loose, mixed types: compare as numbers when either side is numeric
	// or boolean; string-string was handled above
	switch a.(type) {
	case int, int64, float64, bool, string:
		switch b.(type) {
		case int, int64, float64, bool, string:
			return numberEquals(ToNumber(a), ToNumber(b))
		}
	}
	return sameRef(a, b)
}

// sameRef is identity comparison that tolerates uncomparable dynamic types:
// funcs, slices and maps compare by pointer instead of panicking under ==.
func sameRef(a, b any) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	switch ta.Kind() {
	case reflect.Func, reflect.Slice, reflect.Map:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}
	return false
}

func numberEquals(a, b any) bool {
	af := ToNumber(a)
	bf := ToNumber(b)
	if math.IsNaN(af) || math.IsNaN(bf) {
		return false
	}
	return af == bf
}

// Compare returns -1, 0 or 1 for the relational operators; ok is false when
// either side is NaN (all comparisons false).
func Compare(a, b any) (int, bool) {
	ua := Unwrap(a)
	ub := Unwrap(b)
	if as, isA := ua.(string); isA {
		if bs, isB := ub.(string); isB {
			return strings.Compare(as, bs), true
		}
	}
	af := ToNumber(ua)
	bf := ToNumber(ub)
	if math.IsNaN(af) || math.IsNaN(bf) {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	}
	return 0, true
}
