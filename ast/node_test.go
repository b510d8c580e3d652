package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/karatelabs/karate-js/token"
)

// builds the tree for "let x = 1" by hand:
// PROGRAM > VAR_STMT > [let, x, =, LIT_EXPR > [1]]
func sampleTree() (*Node, []*token.Token) {
	buf := token.NewBuffer("let x = 1")
	buf.Append(token.LET, "let", 0, 1, 1)
	buf.Append(token.WS, " ", 3, 1, 4)
	buf.Append(token.IDENT, "x", 4, 1, 5)
	buf.Append(token.WS, " ", 5, 1, 6)
	buf.Append(token.EQ, "=", 6, 1, 7)
	buf.Append(token.WS, " ", 7, 1, 8)
	buf.Append(token.NUMBER, "1", 8, 1, 9)

	program := NewNode(PROGRAM)
	stmt := NewNode(VAR_STMT)
	program.Add(stmt)
	stmt.Add(NewTokenNode(buf.At(0)))
	stmt.Add(NewTokenNode(buf.At(2)))
	stmt.Add(NewTokenNode(buf.At(4)))
	lit := NewNode(LIT_EXPR)
	stmt.Add(lit)
	lit.Add(NewTokenNode(buf.At(6)))
	return program, []*token.Token{buf.At(0), buf.At(2), buf.At(4), buf.At(6)}
}

func TestNodeShape(t *testing.T) {
	program, tokens := sampleTree()
	assert.Equal(t, 1, program.Size())
	assert.False(t, program.IsEmpty())
	stmt := program.First()
	assert.Equal(t, VAR_STMT, stmt.Type)
	assert.Same(t, program, stmt.Parent())
	assert.Equal(t, 4, stmt.Size())
	assert.True(t, stmt.Get(0).IsToken())
	assert.Same(t, tokens[0], stmt.FirstToken())
	assert.Same(t, tokens[3], stmt.LastToken())
	assert.Same(t, stmt.Last(), stmt.Get(3))
}

func TestFinders(t *testing.T) {
	program, tokens := sampleTree()
	lit := program.FindFirst(LIT_EXPR)
	assert.NotNil(t, lit)
	assert.Equal(t, "1", lit.Text())
	assert.Nil(t, program.FindFirst(IF_STMT))

	assert.Len(t, program.FindAll(VAR_STMT), 1)
	assert.Len(t, program.FindImmediate(VAR_STMT), 1)
	assert.Empty(t, program.FindImmediate(LIT_EXPR)) // not a direct child

	eq := program.FindFirstToken(token.EQ)
	assert.NotNil(t, eq)
	assert.Same(t, tokens[2], eq.Token)
	assert.Nil(t, program.FindFirstToken(token.SEMI))
	assert.Len(t, program.FindTokens(token.IDENT), 1)

	assert.Same(t, program, lit.FindParent(PROGRAM))
	assert.Nil(t, lit.FindParent(IF_STMT))
}

func TestTextForms(t *testing.T) {
	program, _ := sampleTree()
	// leaf concatenation has no trivia
	assert.Equal(t, "letx=1", program.Text())
	// the source span keeps the whitespace
	assert.Equal(t, "let x = 1", program.TextIn("let x = 1"))
	assert.Equal(t, "[PROGRAM] letx=1", program.String())
	assert.Equal(t, "1", program.FindFirst(LIT_EXPR).First().String())
}

func TestMutation(t *testing.T) {
	parent := NewNode(BLOCK)
	a := NewNode(EXPR_STMT)
	b := NewNode(EXPR_STMT)
	parent.Add(a)
	parent.Add(b)
	removed := parent.RemoveLast()
	assert.Same(t, b, removed)
	assert.Nil(t, removed.Parent())
	assert.Equal(t, 1, parent.Size())

	c := NewNode(VAR_STMT)
	parent.AddFirst(c)
	assert.Same(t, c, parent.First())
	assert.Same(t, a, parent.Last())
}

func TestEmptyNodeTokens(t *testing.T) {
	empty := NewNode(ERROR)
	assert.Nil(t, empty.FirstToken())
	assert.Nil(t, empty.LastToken())
	assert.Equal(t, "", empty.Text())
	assert.Equal(t, "", empty.TextIn("whatever"))
}
