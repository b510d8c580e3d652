package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferChain(t *testing.T) {
	b := NewBuffer("let x")
	b.Append(LET, "let", 0, 1, 1)
	b.Append(WS, " ", 3, 1, 4)
	b.Append(IDENT, "x", 4, 1, 5)
	b.Append(EOF, "", 5, 1, 6)

	assert.Equal(t, 4, b.Len())
	first := b.At(0)
	assert.Equal(t, LET, first.Kind)
	assert.Equal(t, -1, first.Prev)
	assert.Equal(t, 1, first.Next)
	assert.Nil(t, b.At(-1))
	assert.Nil(t, b.At(4))

	ws := b.NextOf(first)
	assert.Equal(t, WS, ws.Kind)
	assert.Same(t, first, b.PrevOf(ws))
}

func TestBufferPrimarySkipsTrivia(t *testing.T) {
	b := NewBuffer("a /*c*/ b")
	b.Append(IDENT, "a", 0, 1, 1)
	b.Append(WS, " ", 1, 1, 2)
	b.Append(B_COMMENT, "/*c*/", 2, 1, 3)
	b.Append(WS, " ", 7, 1, 8)
	b.Append(IDENT, "b", 8, 1, 9)
	b.Append(EOF, "", 9, 1, 10)

	primary := b.Primary()
	assert.Len(t, primary, 3)
	assert.Equal(t, "a", primary[0].Text)
	assert.Equal(t, "b", primary[1].Text)
	assert.Equal(t, EOF, primary[2].Kind)

	a := b.At(0)
	assert.Equal(t, "b", b.NextPrimary(a).Text)
	assert.Equal(t, "a", b.PrevPrimary(b.At(4)).Text)
	assert.Nil(t, b.PrevPrimary(a))
}

func TestBufferTextRoundTrip(t *testing.T) {
	source := "a /*c*/ b"
	b := NewBuffer(source)
	b.Append(IDENT, "a", 0, 1, 1)
	b.Append(WS, " ", 1, 1, 2)
	b.Append(B_COMMENT, "/*c*/", 2, 1, 3)
	b.Append(WS, " ", 7, 1, 8)
	b.Append(IDENT, "b", 8, 1, 9)
	b.Append(EOF, "", 9, 1, 10)
	assert.Equal(t, source, b.Text())
}

func TestKindClasses(t *testing.T) {
	assert.False(t, WS.Primary())
	assert.False(t, WS_LF.Primary())
	assert.False(t, L_COMMENT.Primary())
	assert.False(t, B_COMMENT.Primary())
	assert.False(t, G_COMMENT.Primary())
	assert.True(t, EOF.Primary())
	assert.True(t, IDENT.Primary())
	assert.True(t, G_CELL.Primary())

	assert.True(t, LET.Keyword())
	assert.True(t, THIS.Keyword())
	assert.False(t, IDENT.Keyword())
	assert.False(t, PLUS.Keyword())

	assert.Equal(t, FUNCTION, LookupIdent("function"))
	assert.Equal(t, IDENT, LookupIdent("banana"))
}

func TestRegexAllowed(t *testing.T) {
	// after a value a slash is division
	assert.False(t, IDENT.RegexAllowed())
	assert.False(t, NUMBER.RegexAllowed())
	assert.False(t, R_PAREN.RegexAllowed())
	// after operators and openers a slash starts a regex
	assert.True(t, EQ.RegexAllowed())
	assert.True(t, L_PAREN.RegexAllowed())
	assert.True(t, COMMA.RegexAllowed())
	assert.True(t, RETURN.RegexAllowed())
}

func TestTokenEndAndDisplay(t *testing.T) {
	tok := &Token{Kind: IDENT, Text: "abc", Pos: 4, Line: 2, Col: 5}
	assert.Equal(t, 7, tok.End())
	assert.Equal(t, "2:5", tok.PositionDisplay())
	assert.Equal(t, "IDENT:abc", tok.String())
	assert.Equal(t, "+", (&Token{Kind: PLUS, Text: "+"}).String())
}
