package runtime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToNumberCoercion(t *testing.T) {
	assert.Equal(t, 1.0, ToNumber(true))
	assert.Equal(t, 0.0, ToNumber(false))
	assert.Equal(t, 0.0, ToNumber(""))
	assert.Equal(t, 0.0, ToNumber("  "))
	assert.True(t, math.IsNaN(ToNumber("abc")))
	assert.Equal(t, 0.0, ToNumber(nil))
	assert.True(t, math.IsNaN(ToNumber(Undefined)))
	assert.Equal(t, 42.0, ToNumber("42"))
	assert.Equal(t, 255.0, ToNumber("0xff"))
	assert.Equal(t, 1.5, ToNumber(" 1.5 "))
}

func TestToNumberUnwrapsBeforeCoercing(t *testing.T) {
	d := NewDate(1700000000000)
	assert.Equal(t, 1.7e12, ToNumber(d))

	assert.Equal(t, 7.0, ToNumber(NewNumber(7)))
	assert.Equal(t, 3.0, ToNumber(NewString("3")))
	assert.Equal(t, 1.0, ToNumber(NewBoolean(true)))
}

func TestToNumberArrays(t *testing.T) {
	assert.Equal(t, 0.0, ToNumber(NewArray()))
	assert.Equal(t, 5.0, ToNumber(NewArray(5)))
	assert.True(t, math.IsNaN(ToNumber(NewArray(1, 2))))
}

func TestTruthiness(t *testing.T) {
	assert.False(t, IsTruthy(nil))
	assert.False(t, IsTruthy(Undefined))
	assert.False(t, IsTruthy(false))
	assert.False(t, IsTruthy(0))
	assert.False(t, IsTruthy(0.0))
	assert.False(t, IsTruthy(math.NaN()))
	assert.False(t, IsTruthy(""))
	assert.True(t, IsTruthy("0"))
	assert.True(t, IsTruthy(NewObject()))
	assert.True(t, IsTruthy(NewArray()))
	assert.True(t, IsTruthy(-1))
}

func TestStrictEquality(t *testing.T) {
	assert.False(t, Eq(1, "1", true))
	assert.True(t, Eq(1, 1.0, true))
	assert.True(t, Eq("a", "a", true))
	assert.False(t, Eq(nil, Undefined, true))
	assert.False(t, Eq(math.NaN(), math.NaN(), true))

	a := NewObject()
	assert.True(t, Eq(a, a, true))
	assert.False(t, Eq(NewObject(), NewObject(), true))
}

func TestLooseEquality(t *testing.T) {
	assert.True(t, Eq(1, "1", false))
	assert.True(t, Eq(nil, Undefined, false))
	assert.True(t, Eq(Undefined, nil, false))
	assert.False(t, Eq(nil, 0, false))
	assert.False(t, Eq(Undefined, false, false))
	assert.True(t, Eq(true, 1, false))
	assert.True(t, Eq("", 0, false))
}

func TestCompare(t *testing.T) {
	c, ok := Compare(1, 2)
	assert.True(t, ok)
	assert.Equal(t, -1, c)

	c, ok = Compare("b", "a")
	assert.True(t, ok)
	assert.Equal(t, 1, c)

	// numeric comparison when only one side is a string
	c, ok = Compare("10", 9)
	assert.True(t, ok)
	assert.Equal(t, 1, c)

	_, ok = Compare(math.NaN(), 1)
	assert.False(t, ok)
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, "undefined", TypeOf(Undefined))
	assert.Equal(t, "object", TypeOf(nil))
	assert.Equal(t, "number", TypeOf(1))
	assert.Equal(t, "number", TypeOf(1.5))
	assert.Equal(t, "string", TypeOf("x"))
	assert.Equal(t, "boolean", TypeOf(true))
	assert.Equal(t, "object", TypeOf(NewObject()))
	assert.Equal(t, "object", TypeOf(NewArray()))
	assert.Equal(t, "function", TypeOf(Func(func(args []any) (any, error) { return nil, nil })))
}

func TestNarrow(t *testing.T) {
	assert.Equal(t, 3, Narrow(3.0))
	assert.Equal(t, 1.5, Narrow(1.5))
	nan := Narrow(math.NaN())
	f, ok := nan.(float64)
	assert.True(t, ok)
	assert.True(t, math.IsNaN(f))
}

func TestNumberToString(t *testing.T) {
	assert.Equal(t, "3", NumberToString(3.0))
	assert.Equal(t, "1.5", NumberToString(1.5))
	assert.Equal(t, "NaN", NumberToString(math.NaN()))
	assert.Equal(t, "Infinity", NumberToString(math.Inf(1)))
	assert.Equal(t, "-Infinity", NumberToString(math.Inf(-1)))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "null", ToString(nil))
	assert.Equal(t, "undefined", ToString(Undefined))
	assert.Equal(t, "1,2", ToString(NewArray(1, 2)))
	assert.Equal(t, "[object Object]", ToString(NewObject()))
}
