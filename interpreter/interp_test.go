package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/karatelabs/karate-js/runtime"
)

func evalSrc(t *testing.T, source string) any {
	t.Helper()
	value, err := Eval(source)
	assert.NoError(t, err, source)
	return value
}

func evalErr(t *testing.T, source string) error {
	t.Helper()
	_, err := Eval(source)
	assert.Error(t, err, source)
	return err
}

func TestExpressions(t *testing.T) {
	assert.Equal(t, 3, evalSrc(t, "1 + 2"))
	assert.Equal(t, 2.5, evalSrc(t, "5 / 2"))
	assert.Equal(t, 1, evalSrc(t, "7 % 3"))
	assert.Equal(t, 8, evalSrc(t, "2 ** 3"))
	assert.Equal(t, "ab", evalSrc(t, "'a' + 'b'"))
	assert.Equal(t, "a1", evalSrc(t, "'a' + 1"))
	assert.Equal(t, 3, evalSrc(t, "'1' * 3"))
	assert.Equal(t, -5, evalSrc(t, "-5"))
	assert.Equal(t, true, evalSrc(t, "!0"))
	assert.Equal(t, -6, evalSrc(t, "~5"))
	assert.Equal(t, true, evalSrc(t, "1 < 2 && 2 <= 2"))
	assert.Equal(t, false, evalSrc(t, "1 > 2 || 2 > 3"))
	assert.Equal(t, true, evalSrc(t, "1 == '1'"))
	assert.Equal(t, false, evalSrc(t, "1 === '1'"))
	assert.Equal(t, true, evalSrc(t, "1 !== '1'"))
	assert.Equal(t, 12, evalSrc(t, "3 << 2"))
	assert.Equal(t, 3, evalSrc(t, "-8 >>> 30"))
	assert.Equal(t, -2, evalSrc(t, "-8 >> 2"))
	assert.Equal(t, 5, evalSrc(t, "7 & 5"))
	assert.Equal(t, 7, evalSrc(t, "6 | 1"))
	assert.Equal(t, 3, evalSrc(t, "6 ^ 5"))
}

func TestLogicReturnsOperands(t *testing.T) {
	assert.Equal(t, "b", evalSrc(t, "'a' && 'b'"))
	assert.Equal(t, 0, evalSrc(t, "0 && 'b'"))
	assert.Equal(t, "a", evalSrc(t, "'a' || 'b'"))
	assert.Equal(t, "b", evalSrc(t, "'' || 'b'"))
	assert.Equal(t, 0, evalSrc(t, "0 ?? 'b'"))
	assert.Equal(t, "b", evalSrc(t, "null ?? 'b'"))
	assert.Equal(t, "b", evalSrc(t, "undefined ?? 'b'"))
}

func TestVariables(t *testing.T) {
	assert.Equal(t, 3, evalSrc(t, "var a = 1; let b = 2; a + b"))
	assert.Equal(t, 10, evalSrc(t, "const c = 10; c"))
	assert.Equal(t, 7, evalSrc(t, "let x = 1, y = 6; x + y"))
	err := evalErr(t, "const c = 1; c = 2")
	assert.Contains(t, err.Error(), "constant")
	evalErr(t, "let d = 1; let d = 2")
}

func TestAssignmentOperators(t *testing.T) {
	assert.Equal(t, 6, evalSrc(t, "let a = 2; a += 4; a"))
	assert.Equal(t, 8, evalSrc(t, "let a = 2; a *= 4; a"))
	assert.Equal(t, 1, evalSrc(t, "let a = 5; a %= 4; a"))
	assert.Equal(t, 3, evalSrc(t, "let a = null; a ??= 3; a"))
	assert.Equal(t, 1, evalSrc(t, "let a = 1; a ??= 3; a"))
	assert.Equal(t, 3, evalSrc(t, "let a = 0; a ||= 3; a"))
	assert.Equal(t, 3, evalSrc(t, "let a = 1; a &&= 3; a"))
	assert.Equal(t, 5, evalSrc(t, "let a, b; a = b = 5; a"))
}

func TestIncDec(t *testing.T) {
	assert.Equal(t, 1, evalSrc(t, "let a = 1; a++"))
	assert.Equal(t, 2, evalSrc(t, "let a = 1; a++; a"))
	assert.Equal(t, 2, evalSrc(t, "let a = 1; ++a"))
	assert.Equal(t, 0, evalSrc(t, "let a = 1; --a"))
	assert.Equal(t, 5, evalSrc(t, "let arr = [4]; arr[0]++; arr[0] + 0"))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, 5, evalSrc(t, "'hello'.length"))
	assert.Equal(t, "HELLO", evalSrc(t, "'hello'.toUpperCase()"))
	assert.Equal(t, "ell", evalSrc(t, "'hello'.substring(1, 4)"))
	assert.Equal(t, true, evalSrc(t, "'hello'.startsWith('he')"))
	assert.Equal(t, "h", evalSrc(t, "'hello'[0]"))
}

func TestTemplates(t *testing.T) {
	assert.Equal(t, "sum: 3", evalSrc(t, "let a = 1; `sum: ${a + 2}`"))
	assert.Equal(t, "a\nb", evalSrc(t, "`a\\nb`"))
	assert.Equal(t, "xy", evalSrc(t, "`${'x'}${'y'}`"))
}

func TestObjectsAndArrays(t *testing.T) {
	obj := evalSrc(t, "({a: 1, b: {c: 2}})").(*runtime.MapView)
	assert.Equal(t, 1, obj.Get("a"))
	assert.Equal(t, []string{"a", "b"}, obj.Keys())

	arr := evalSrc(t, "[1, 'two', [3]]").(*runtime.ListView)
	assert.Equal(t, 3, arr.Len())
	assert.Equal(t, "two", arr.Get(1))

	assert.Equal(t, 2, evalSrc(t, "let o = {a: 1}; o.a = 2; o.a"))
	assert.Equal(t, 2, evalSrc(t, "let o = {}; o['x'] = 2; o.x"))
	assert.Equal(t, 3, evalSrc(t, "let key = 'k'; let o = {[key]: 3}; o.k"))
	assert.Equal(t, 1, evalSrc(t, "let a = 1; let o = {a}; o.a"))
	assert.Equal(t, 4, evalSrc(t, "let o = {m() { return 4 }}; o.m()"))
	assert.Equal(t, 3, evalSrc(t, "let a = [1, 2, 3]; a.length"))
	assert.Equal(t, 6, evalSrc(t, "[1, 2, 3].reduce((x, y) => x + y, 0)"))
	assert.Equal(t, "1-2", evalSrc(t, "[1, 2].join('-')"))
}

func TestSpread(t *testing.T) {
	assert.Equal(t, 4, evalSrc(t, "let a = [1, 2]; let b = [...a, 3, 4]; b.length"))
	assert.Equal(t, 2, evalSrc(t, "let o = {a: 1}; let p = {...o, b: 2}; p.b"))
	assert.Equal(t, 6, evalSrc(t, "function add(x, y, z) { return x + y + z }; add(...[1, 2, 3])"))
}

func TestDestructuring(t *testing.T) {
	assert.Equal(t, 3, evalSrc(t, "let [a, b] = [1, 2]; a + b"))
	assert.Equal(t, 1, evalSrc(t, "let [a, , c] = [1, 2, 3]; c - a - 1"))
	assert.Equal(t, 5, evalSrc(t, "let [a, ...rest] = [1, 2, 3]; rest[0] + rest[1]"))
	assert.Equal(t, 3, evalSrc(t, "let {a, b} = {a: 1, b: 2}; a + b"))
	assert.Equal(t, 2, evalSrc(t, "let {a: renamed} = {a: 2}; renamed"))
	assert.Equal(t, 9, evalSrc(t, "let {a = 9} = {}; a"))
	assert.Equal(t, 2, evalSrc(t, "let {a, ...rest} = {a: 1, b: 2}; rest.b"))
	assert.Equal(t, 3, evalSrc(t, "function f([x, y]) { return x + y }; f([1, 2])"))
}

func TestFunctions(t *testing.T) {
	assert.Equal(t, 9, evalSrc(t, "function sq(x) { return x * x }; sq(3)"))
	assert.Equal(t, 9, evalSrc(t, "let sq = function(x) { return x * x }; sq(3)"))
	assert.Equal(t, 9, evalSrc(t, "let sq = x => x * x; sq(3)"))
	assert.Equal(t, 9, evalSrc(t, "let sq = (x) => { return x * x }; sq(3)"))
	assert.Equal(t, 5, evalSrc(t, "function f(a, b = 3) { return a + b }; f(2)"))
	assert.Equal(t, 6, evalSrc(t, "function f(...nums) { return nums.reduce((a, b) => a + b, 0) }; f(1, 2, 3)"))
	assert.Nil(t, evalSrc(t, "function f() {}; f()"))
	assert.Equal(t, 3, evalSrc(t, "[() => 3][0]()"))
	assert.Equal(t, 3, evalSrc(t, "let fns = [() => 1, () => 2]; fns[0]() + fns[1]()"))
}

func TestFunctionIdentity(t *testing.T) {
	assert.Equal(t, true, evalSrc(t, "console.log === console.log"))
	assert.Equal(t, true, evalSrc(t, "let f = () => 1; f === f"))
	assert.Equal(t, false, evalSrc(t, "let f = () => 1; let g = () => 1; f === g"))
	assert.Equal(t, false, evalSrc(t, "console.log == Math.max"))
}

func TestClosures(t *testing.T) {
	assert.Equal(t, 3, evalSrc(t, `
		function counter() {
			let n = 0;
			return function() { n++; return n };
		}
		let c = counter();
		c(); c(); c()
	`))
	assert.Equal(t, 1, evalSrc(t, `
		let c1 = (function() { let n = 0; return () => ++n })();
		let c2 = (function() { let n = 0; return () => ++n })();
		c1(); c1(); c2()
	`))
}

func TestHoisting(t *testing.T) {
	assert.Equal(t, 4, evalSrc(t, "let r = twice(2); function twice(x) { return x * 2 }; r"))
	assert.Nil(t, evalSrc(t, "let r = v; var v = 1; r"))
	assert.Equal(t, 1, evalSrc(t, "function f() { if (true) { var x = 1 } return x }; f()"))
}

func TestThisAndMethods(t *testing.T) {
	assert.Equal(t, 3, evalSrc(t, "let o = {n: 3, get() { return this.n }}; o.get()"))
	assert.Equal(t, 3, evalSrc(t, `
		let o = {n: 3, get() { return (() => this.n)() }};
		o.get()
	`))
	assert.Equal(t, 7, evalSrc(t, "function f() { return this.n }; f.call({n: 7})"))
	assert.Equal(t, 7, evalSrc(t, "function f(a, b) { return this.n + a + b }; f.apply({n: 4}, [1, 2])"))
	assert.Equal(t, 7, evalSrc(t, "function f(a) { return this.n + a }; let g = f.bind({n: 5}); g(2)"))
}

func TestNewAndPrototype(t *testing.T) {
	assert.Equal(t, "rex", evalSrc(t, `
		function Dog(name) { this.name = name }
		new Dog('rex').name
	`))
	assert.Equal(t, "woof", evalSrc(t, `
		function Dog(name) { this.name = name }
		Dog.prototype.speak = function() { return 'woof' };
		new Dog('rex').speak()
	`))
	assert.Equal(t, true, evalSrc(t, `
		function Dog() {}
		new Dog() instanceof Dog
	`))
	assert.Equal(t, true, evalSrc(t, "[] instanceof Array"))
	assert.Equal(t, true, evalSrc(t, "new Date(0) instanceof Date"))
	assert.Equal(t, false, evalSrc(t, "({}) instanceof Array"))
}

func TestControlFlow(t *testing.T) {
	assert.Equal(t, "big", evalSrc(t, "let x = 10; if (x > 5) { 'big' } else { 'small' }"))
	assert.Equal(t, "small", evalSrc(t, "let x = 1; if (x > 5) 'big'; else 'small'"))
	assert.Equal(t, 10, evalSrc(t, "let s = 0; for (let i = 1; i <= 4; i++) s += i; s"))
	assert.Equal(t, 3, evalSrc(t, "let s = 0; while (s < 3) s++; s"))
	assert.Equal(t, 1, evalSrc(t, "let s = 0; do { s++ } while (false); s"))
	assert.Equal(t, 6, evalSrc(t, "let s = 0; for (let v of [1, 2, 3]) s += v; s"))
	assert.Equal(t, "ab", evalSrc(t, "let s = ''; for (let k in {a: 1, b: 2}) s += k; s"))
	assert.Equal(t, "012", evalSrc(t, "let s = ''; for (let i in [9, 9, 9]) s += i; s"))
}

func TestBreakContinue(t *testing.T) {
	assert.Equal(t, 3, evalSrc(t, "let s = 0; for (let i = 0; i < 10; i++) { if (i == 3) break; s = i + 1 } s"))
	assert.Equal(t, 11, evalSrc(t, "let s = 0; for (let i = 0; i < 5; i++) { if (i == 3) continue; s += i + 1 } s"))
	assert.Equal(t, 2, evalSrc(t, "let s = 0; while (true) { s++; if (s == 2) break } s"))
}

func TestLoopCapturesPerIteration(t *testing.T) {
	assert.Equal(t, 3, evalSrc(t, `
		let fns = [];
		for (let i = 0; i < 3; i++) fns.push(() => i);
		fns[0]() + fns[1]() + fns[2]()
	`))
}

func TestSwitch(t *testing.T) {
	assert.Equal(t, "two", evalSrc(t, `
		let r;
		switch (2) {
			case 1: r = 'one'; break;
			case 2: r = 'two'; break;
			default: r = 'other';
		}
		r
	`))
	assert.Equal(t, "other", evalSrc(t, `
		let r;
		switch (9) {
			case 1: r = 'one'; break;
			default: r = 'other';
		}
		r
	`))
	assert.Equal(t, "ab", evalSrc(t, `
		let r = '';
		switch (1) {
			case 1: r += 'a';
			case 2: r += 'b'; break;
			case 3: r += 'c';
		}
		r
	`))
	assert.Nil(t, evalSrc(t, "let r; switch ('1') { case 1: r = 'wrong'; break; case 2: r = 'two' } r"))
}

func TestTryCatchFinally(t *testing.T) {
	assert.Equal(t, "caught: boom", evalSrc(t, `
		try { throw 'boom' } catch (e) { 'caught: ' + e }
	`))
	assert.Equal(t, "bad", evalSrc(t, `
		try { throw new Error('bad') } catch (e) { e.message }
	`))
	assert.Equal(t, "TypeError", evalSrc(t, `
		try { null.x } catch (e) { e.name }
	`))
	assert.Equal(t, 3, evalSrc(t, `
		let n = 0;
		function f() {
			try { return 1 } finally { n = 3 }
		}
		f(); n
	`))
	assert.Equal(t, "inner", evalSrc(t, `
		try {
			try { throw 'inner' } finally {}
		} catch (e) { e }
	`))
	err := evalErr(t, "throw new TypeError('oops')")
	var thrown *runtime.Throw
	assert.ErrorAs(t, err, &thrown)
	assert.Equal(t, "TypeError: oops", err.Error())
}

func TestOptionalChaining(t *testing.T) {
	assert.Nil(t, evalSrc(t, "let o = null; o?.a"))
	assert.Nil(t, evalSrc(t, "let o = {}; o.a?.b"))
	assert.Equal(t, 1, evalSrc(t, "let o = {a: {b: 1}}; o.a?.b"))
	assert.Nil(t, evalSrc(t, "let o = {}; o.a?.[0]"))
	assert.Nil(t, evalSrc(t, "let o = {}; o.f?.()"))
	assert.Equal(t, 2, evalSrc(t, "let o = {f() { return 2 }}; o.f?.()"))
	evalErr(t, "let o = null; o.a")
}

func TestTypeofAndDelete(t *testing.T) {
	assert.Equal(t, "number", evalSrc(t, "typeof 1"))
	assert.Equal(t, "string", evalSrc(t, "typeof 'x'"))
	assert.Equal(t, "boolean", evalSrc(t, "typeof true"))
	assert.Equal(t, "undefined", evalSrc(t, "typeof undefined"))
	assert.Equal(t, "undefined", evalSrc(t, "typeof neverDeclared"))
	assert.Equal(t, "object", evalSrc(t, "typeof null"))
	assert.Equal(t, "object", evalSrc(t, "typeof {}"))
	assert.Equal(t, "function", evalSrc(t, "typeof (() => 1)"))
	assert.Equal(t, false, evalSrc(t, "let o = {a: 1}; delete o.a; 'a' in o"))
	assert.Equal(t, true, evalSrc(t, "'a' in {a: 1}"))
}

func TestBuiltinsThroughScripts(t *testing.T) {
	assert.Equal(t, 7, evalSrc(t, "Math.max(3, 7, 1)"))
	assert.Equal(t, 2, evalSrc(t, "JSON.parse('{\"a\": 2}').a"))
	assert.Equal(t, `{"a":1}`, evalSrc(t, "JSON.stringify({a: 1})"))
	assert.Equal(t, 42, evalSrc(t, "parseInt('42px')"))
	assert.Equal(t, 2023, evalSrc(t, "new Date('2023-11-14T22:13:20Z').getFullYear()"))
	assert.Equal(t, "2,4", evalSrc(t, "[1, 2].map(x => x * 2).join()"))
}

func TestGetPropertyOnPrimitiveWrapper(t *testing.T) {
	assert.Equal(t, "HI", evalSrc(t, "new String('hi').toUpperCase()"))
	assert.Equal(t, "string", evalSrc(t, "typeof String(42)"))
}

func TestNumberFormats(t *testing.T) {
	assert.Equal(t, 255, evalSrc(t, "0xff"))
	assert.Equal(t, 5, evalSrc(t, "0b101"))
	assert.Equal(t, 8, evalSrc(t, "0o10"))
	assert.Equal(t, 1000000, evalSrc(t, "1_000_000"))
	assert.Equal(t, 1500, evalSrc(t, "1.5e3"))
}
