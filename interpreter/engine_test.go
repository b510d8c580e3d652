package interpreter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnginePersistence(t *testing.T) {
	e := NewEngine()
	_, err := e.Eval("var total = 1")
	assert.NoError(t, err)
	_, err = e.Eval("total += 2")
	assert.NoError(t, err)
	v, err := e.Eval("total")
	assert.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, 3, e.Get("total"))
	assert.True(t, e.Has("total"))
	assert.False(t, e.Has("missing"))
}

func TestEngineHoistingDoesNotResetBindings(t *testing.T) {
	e := NewEngine()
	_, err := e.Eval("var n = 5")
	assert.NoError(t, err)
	// a later var statement for the same name must keep the stored value
	v, err := e.Eval("var n; n")
	assert.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestEngineSetHostValues(t *testing.T) {
	e := NewEngine()
	assert.NoError(t, e.Set("count", int64(4)))
	v, err := e.Eval("count + 1")
	assert.NoError(t, err)
	assert.Equal(t, 5, v)

	when := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	assert.NoError(t, e.Set("when", when))
	v, err = e.Eval("when.getFullYear()")
	assert.NoError(t, err)
	assert.Equal(t, 2024, v)
	v, err = e.Eval("when.getMonth()")
	assert.NoError(t, err)
	assert.Equal(t, 2, v)

	assert.NoError(t, e.Set("config", map[string]any{"retries": 3}))
	v, err = e.Eval("config.retries")
	assert.NoError(t, err)
	assert.Equal(t, 3, v)

	assert.Error(t, e.Set("bad", make(chan int)))
}

func TestEngineHostFunction(t *testing.T) {
	e := NewEngine()
	assert.NoError(t, e.Set("double", func(args []any) (any, error) {
		return args[0].(int) * 2, nil
	}))
	v, err := e.Eval("double(21)")
	assert.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestEvalWithIsolation(t *testing.T) {
	e := NewEngine()
	map1 := map[string]any{}
	map2 := map[string]any{}
	_, err := e.EvalWith("const a = 1", map1)
	assert.NoError(t, err)
	// same const name again: a fresh scope per call, no redeclaration clash
	_, err = e.EvalWith("const a = 2", map2)
	assert.NoError(t, err)
	assert.Equal(t, 1, map1["a"])
	assert.Equal(t, 2, map2["a"])
	assert.False(t, e.Has("a"))
}

func TestEvalWithVarStaysLocal(t *testing.T) {
	// var and hoisted function declarations bind at the isolated scope,
	// not the persistent root, and come back through the bindings map
	e := NewEngine()
	bindings := map[string]any{}
	v, err := e.EvalWith("var n = 42; function helper() { return n } helper()", bindings)
	assert.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 42, bindings["n"])
	assert.NotNil(t, bindings["helper"])
	assert.False(t, e.Has("n"))
	assert.False(t, e.Has("helper"))
	assert.Nil(t, e.Get("n"))
}

func TestEvalWithReadsSeedAndRoot(t *testing.T) {
	e := NewEngine()
	_, err := e.Eval("var base = 10")
	assert.NoError(t, err)
	bindings := map[string]any{"extra": 5}
	v, err := e.EvalWith("let sum = base + extra; sum", bindings)
	assert.NoError(t, err)
	assert.Equal(t, 15, v)
	assert.Equal(t, 15, bindings["sum"])
	// the seed value is written back too
	assert.Equal(t, 5, bindings["extra"])
	assert.False(t, e.Has("sum"))
}

func TestHiddenAndLazyBindings(t *testing.T) {
	e := NewEngine()
	assert.NoError(t, e.SetHidden("secret", 42))
	v, err := e.Eval("secret")
	assert.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.NotContains(t, e.Names(), "secret")

	calls := 0
	e.SetLazy("tick", func() any {
		calls++
		return calls
	})
	v, err = e.Eval("tick + tick")
	assert.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.NotContains(t, e.Names(), "tick")
}

func TestNamesOnlyUserBindings(t *testing.T) {
	e := NewEngine()
	_, err := e.Eval("var a = 1; let b = 2")
	assert.NoError(t, err)
	names := e.Names()
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestConsoleOutputRedirect(t *testing.T) {
	e := NewEngine()
	var buf bytes.Buffer
	e.SetOut(&buf)
	_, err := e.Eval("console.log('hello', {a: 1})")
	assert.NoError(t, err)
	assert.Equal(t, "hello {\"a\":1}\n", buf.String())
}

func TestParseErrorSurfaces(t *testing.T) {
	e := NewEngine()
	_, err := e.Eval("let x = 1 +")
	assert.Error(t, err)
}

func TestResultConversion(t *testing.T) {
	v, err := Eval("({a: [1, 2]})")
	assert.NoError(t, err)
	view, ok := v.(interface{ Get(string) any })
	assert.True(t, ok)
	assert.NotNil(t, view.Get("a"))

	v, err = Eval("undefined")
	assert.NoError(t, err)
	assert.Nil(t, v)
}
