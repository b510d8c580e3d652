package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/karatelabs/karate-js/token"
)

func kindsOf(source string) []token.Kind {
	var kinds []token.Kind
	for _, t := range Tokenize(source).Primary() {
		kinds = append(kinds, t.Kind)
	}
	return kinds
}

func TestRoundTrip(t *testing.T) {
	sources := []string{
		"",
		"let x = 1;",
		"let x = 1 + 2 // trailing comment",
		"/* block\n comment */ var y\n",
		"a.b?.c?.[0]",
		"`before ${a + `${inner}`} after`",
		"let re = /ab[/]c/gi; let div = a / b;",
		"'unterminated",
		"\"also unterminated\nnext line",
		"function f(...args) { return args[0] ?? 'none' }",
		"\xff\xfe garbage @ # \\",
		"0xCAFE_F00D 0b1010_1010 1_000_000.5",
		"for (let i = 0; i < 10; i++) { s += i }",
	}
	for _, source := range sources {
		buf := Tokenize(source)
		assert.Equal(t, source, buf.Text(), "round-trip of %q", source)
		last := buf.At(buf.Len() - 1)
		assert.Equal(t, token.EOF, last.Kind, "terminator of %q", source)
	}
}

func TestAttributionComplete(t *testing.T) {
	source := "let x = 1\nlet y = `a ${x} b` // done"
	buf := Tokenize(source)
	offset := 0
	for i := 0; i < buf.Len(); i++ {
		tok := buf.At(i)
		assert.Equal(t, offset, tok.Pos, "token %d (%s) starts where the previous ended", i, tok)
		offset = tok.End()
	}
	assert.Equal(t, len(source), offset)
}

func TestKindSequence(t *testing.T) {
	assert.Equal(t, []token.Kind{
		token.LET, token.IDENT, token.EQ, token.NUMBER, token.SEMI, token.EOF,
	}, kindsOf("let x = 42;"))

	assert.Equal(t, []token.Kind{
		token.IDENT, token.QUES_DOT, token.IDENT, token.QUES_QUES, token.S_STRING, token.EOF,
	}, kindsOf("a?.b ?? 'x'"))

	assert.Equal(t, []token.Kind{
		token.IDENT, token.QUES_QUES_EQ, token.NUMBER, token.EOF,
	}, kindsOf("a ??= 1"))
}

func TestRegexVersusDivision(t *testing.T) {
	// after '=' a slash opens a regex
	kinds := kindsOf("let re = /a+/g")
	assert.Contains(t, kinds, token.REGEX)
	// after a value a slash is division
	kinds = kindsOf("let q = a / b / c")
	assert.NotContains(t, kinds, token.REGEX)
	assert.Contains(t, kinds, token.SLASH)
	// a bracket class may contain a bare slash
	buf := Tokenize("x = /a[/]b/")
	regex := buf.Primary()[2]
	assert.Equal(t, token.REGEX, regex.Kind)
	assert.Equal(t, "/a[/]b/", regex.Text)
}

func TestStringVariants(t *testing.T) {
	assert.Equal(t, []token.Kind{token.S_STRING, token.EOF}, kindsOf("'a\\'b'"))
	assert.Equal(t, []token.Kind{token.D_STRING, token.EOF}, kindsOf(`"a\"b"`))
	// an unterminated string stops at the line break instead of swallowing it
	buf := Tokenize("'open\nnext")
	primary := buf.Primary()
	assert.Equal(t, token.S_STRING, primary[0].Kind)
	assert.Equal(t, "'open", primary[0].Text)
	assert.Equal(t, token.IDENT, primary[1].Kind)
}

func TestTemplateTokens(t *testing.T) {
	kinds := kindsOf("`a ${b} c`")
	assert.Equal(t, []token.Kind{
		token.BACKTICK, token.T_STRING, token.DOLLAR_L_CURLY, token.IDENT,
		token.R_CURLY, token.T_STRING, token.BACKTICK, token.EOF,
	}, kinds)

	// an object literal inside a placeholder keeps its closing brace
	kinds = kindsOf("`${ {a: 1} }`")
	assert.Equal(t, []token.Kind{
		token.BACKTICK, token.DOLLAR_L_CURLY, token.L_CURLY, token.IDENT,
		token.COLON, token.NUMBER, token.R_CURLY, token.R_CURLY,
		token.BACKTICK, token.EOF,
	}, kinds)
}

func TestNumbers(t *testing.T) {
	for _, source := range []string{"0", "42", "3.14", "1.", ".5", "1e3", "1.5e-2", "0xff", "0b101", "0o17", "1_000"} {
		primary := Tokenize(source).Primary()
		assert.Equal(t, token.NUMBER, primary[0].Kind, source)
		assert.Equal(t, source, primary[0].Text, source)
	}
	// a method call on an integer keeps the dot separate
	assert.Equal(t, []token.Kind{
		token.NUMBER, token.DOT, token.DOT, token.IDENT, token.L_PAREN,
		token.R_PAREN, token.EOF,
	}, kindsOf("1..toFixed()"))
}

func TestPositions(t *testing.T) {
	buf := Tokenize("let a\nlet b")
	primary := buf.Primary()
	assert.Equal(t, 1, primary[0].Line)
	assert.Equal(t, 1, primary[0].Col)
	b := primary[3]
	assert.Equal(t, "b", b.Text)
	assert.Equal(t, 2, b.Line)
	assert.Equal(t, 5, b.Col)
	assert.Equal(t, 10, b.Pos)
}

func TestIllegalInput(t *testing.T) {
	buf := Tokenize("a # b")
	var illegal int
	for i := 0; i < buf.Len(); i++ {
		if buf.At(i).Kind == token.ILLEGAL {
			illegal++
		}
	}
	assert.Equal(t, 1, illegal)
	assert.Equal(t, "a # b", buf.Text())
}

func TestTruncatedInputsNeverFail(t *testing.T) {
	source := "let o = {f(a, b = [1, /x/g]) { return `v ${a /* c */ + b} w` }}; o.f('s\", 2)"
	for i := 0; i <= len(source); i++ {
		prefix := source[:i]
		buf := Tokenize(prefix)
		assert.Equal(t, prefix, buf.Text(), "prefix %d", i)
	}
}
