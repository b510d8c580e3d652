package token

import "strings"

// Buffer is an append-only arena of tokens for one source text. Tokens are
// addressed by index; the prev/next fields of each token are maintained as
// the buffer grows. The buffer keeps every token including trivia, so the
// exact source can be rebuilt from the chain.
type Buffer struct {
	Source string
	tokens []Token
}

func NewBuffer(source string) *Buffer {
	return &Buffer{Source: source}
}

// Append adds a token to the end of the chain and returns its index.
func (b *Buffer) Append(kind Kind, text string, pos, line, col int) int {
	index := len(b.tokens)
	prev := index - 1
	if index > 0 {
		b.tokens[prev].Next = index
	}
	b.tokens = append(b.tokens, Token{
		Kind:  kind,
		Text:  text,
		Pos:   pos,
		Line:  line,
		Col:   col,
		Index: index,
		Prev:  prev,
		Next:  -1,
	})
	return index
}

func (b *Buffer) Len() int {
	return len(b.tokens)
}

// At returns the token at the given index, nil if out of range.
func (b *Buffer) At(index int) *Token {
	if index < 0 || index >= len(b.tokens) {
		return nil
	}
	return &b.tokens[index]
}

// PrevOf returns the token before t in the chain.
func (b *Buffer) PrevOf(t *Token) *Token {
	if t == nil {
		return nil
	}
	return b.At(t.Prev)
}

// NextOf returns the token after t in the chain.
func (b *Buffer) NextOf(t *Token) *Token {
	if t == nil {
		return nil
	}
	return b.At(t.Next)
}

// PrevPrimary walks backwards past trivia to the previous primary token.
func (b *Buffer) PrevPrimary(t *Token) *Token {
	for p := b.PrevOf(t); p != nil; p = b.PrevOf(p) {
		if p.Kind.Primary() {
			return p
		}
	}
	return nil
}

// NextPrimary walks forwards past trivia to the next primary token.
func (b *Buffer) NextPrimary(t *Token) *Token {
	for n := b.NextOf(t); n != nil; n = b.NextOf(n) {
		if n.Kind.Primary() {
			return n
		}
	}
	return nil
}

// Primary returns the primary tokens in chain order. This is the token
// stream the parsers operate on; trivia stays behind in the buffer.
func (b *Buffer) Primary() []*Token {
	result := make([]*Token, 0, len(b.tokens))
	for i := range b.tokens {
		if b.tokens[i].Kind.Primary() {
			result = append(result, &b.tokens[i])
		}
	}
	return result
}

// Text concatenates every token text in chain order. For a well-formed
// buffer this reproduces the source exactly.
func (b *Buffer) Text() string {
	var sb strings.Builder
	sb.Grow(len(b.Source))
	for i := range b.tokens {
		sb.WriteString(b.tokens[i].Text)
	}
	return sb.String()
}
