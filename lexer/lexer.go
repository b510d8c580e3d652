package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/karatelabs/karate-js/token"
)

// lexer state, driven by template literals: backtick enters TEMPLATE, "${"
// enters PLACEHOLDER (ordinary tokens until the matching "}").
type state int

const (
	stInitial state = iota
	stTemplate
	stPlaceholder
)

type Lexer struct {
	input string
	buf   *token.Buffer
	pos   int // byte offset of current char
	ch    rune
	width int // byte width of current char
	line  int
	col   int

	states     []state
	braceDepth []int // per-placeholder curly nesting

	prevPrimary token.Kind // last primary kind emitted, for regex detection
}

// Tokenize scans the entire source into a token buffer. It never fails:
// unrecognized characters become ILLEGAL tokens and unterminated literals
// extend to end of input. The buffer always ends with an EOF token.
func Tokenize(source string) *token.Buffer {
	l := &Lexer{
		input:       source,
		buf:         token.NewBuffer(source),
		line:        1,
		col:         1,
		prevPrimary: token.EOF,
	}
	l.readChar()
	for l.ch != 0 {
		if l.state() == stTemplate {
			l.templateToken()
		} else {
			l.nextToken()
		}
	}
	l.buf.Append(token.EOF, "", l.pos, l.line, l.col)
	return l.buf
}

func (l *Lexer) state() state {
	if len(l.states) == 0 {
		return stInitial
	}
	return l.states[len(l.states)-1]
}

func (l *Lexer) pushState(s state) {
	l.states = append(l.states, s)
	if s == stPlaceholder {
		l.braceDepth = append(l.braceDepth, 0)
	}
}

func (l *Lexer) popState() {
	if len(l.states) == 0 {
		return
	}
	if l.state() == stPlaceholder {
		l.braceDepth = l.braceDepth[:len(l.braceDepth)-1]
	}
	l.states = l.states[:len(l.states)-1]
}

func (l *Lexer) readChar() {
	l.pos += l.width
	if l.pos >= len(l.input) {
		l.ch = 0
		l.width = 0
		return
	}
	if l.width > 0 {
		if l.ch == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.ch = r
	l.width = size
}

func (l *Lexer) peekChar() rune {
	if l.pos+l.width >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos+l.width:])
	return r
}

func (l *Lexer) peekCharAt(offset int) byte {
	pos := l.pos + l.width + offset
	if pos >= len(l.input) {
		return 0
	}
	return l.input[pos]
}

// emit appends the token covering [start, l.pos) to the buffer.
func (l *Lexer) emit(kind token.Kind, start, startLine, startCol int) {
	l.buf.Append(kind, l.input[start:l.pos], start, startLine, startCol)
	if kind.Primary() {
		l.prevPrimary = kind
	}
}

func (l *Lexer) nextToken() {
	start, startLine, startCol := l.pos, l.line, l.col
	switch {
	case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
		l.whitespace(start, startLine, startCol)
	case l.ch == '/' && l.peekChar() == '/':
		l.lineComment(start, startLine, startCol)
	case l.ch == '/' && l.peekChar() == '*':
		l.blockComment(start, startLine, startCol)
	case l.ch == '/' && l.prevPrimary.RegexAllowed():
		l.regex(start, startLine, startCol)
	case l.ch == '\'' || l.ch == '"':
		l.stringLit(start, startLine, startCol)
	case l.ch == '`':
		l.readChar()
		l.emit(token.BACKTICK, start, startLine, startCol)
		l.pushState(stTemplate)
	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		l.number(start, startLine, startCol)
	case isIdentStart(l.ch):
		l.ident(start, startLine, startCol)
	default:
		l.operator(start, startLine, startCol)
	}
}

func (l *Lexer) whitespace(start, startLine, startCol int) {
	kind := token.WS
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		if l.ch == '\n' {
			kind = token.WS_LF
		}
		l.readChar()
	}
	l.emit(kind, start, startLine, startCol)
}

func (l *Lexer) lineComment(start, startLine, startCol int) {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	l.emit(token.L_COMMENT, start, startLine, startCol)
}

func (l *Lexer) blockComment(start, startLine, startCol int) {
	l.readChar() // '/'
	l.readChar() // '*'
	for l.ch != 0 {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			break
		}
		l.readChar()
	}
	l.emit(token.B_COMMENT, start, startLine, startCol)
}

// regex scans a regex literal including flags. The token text keeps the
// enclosing slashes; bracket classes may contain unescaped slashes.
func (l *Lexer) regex(start, startLine, startCol int) {
	l.readChar() // opening '/'
	inClass := false
	for l.ch != 0 && l.ch != '\n' {
		if l.ch == '\\' {
			l.readChar()
			if l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '[' {
			inClass = true
		} else if l.ch == ']' {
			inClass = false
		} else if l.ch == '/' && !inClass {
			l.readChar()
			break
		}
		l.readChar()
	}
	for l.ch != 0 && unicode.IsLetter(l.ch) {
		l.readChar() // flags
	}
	l.emit(token.REGEX, start, startLine, startCol)
}

// stringLit scans a quoted string. The token text keeps the quotes; escape
// decoding happens later in the evaluator. An unterminated string runs to
// the end of the line (or input) rather than failing.
func (l *Lexer) stringLit(start, startLine, startCol int) {
	quote := l.ch
	kind := token.S_STRING
	if quote == '"' {
		kind = token.D_STRING
	}
	l.readChar()
	for l.ch != 0 && l.ch != '\n' {
		if l.ch == '\\' {
			l.readChar()
			if l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == quote {
			l.readChar()
			break
		}
		l.readChar()
	}
	l.emit(kind, start, startLine, startCol)
}

func (l *Lexer) number(start, startLine, startCol int) {
	if l.ch == '0' {
		switch l.peekChar() {
		case 'x', 'X':
			l.readChar()
			l.readChar()
			for isHexDigit(l.ch) || l.ch == '_' {
				l.readChar()
			}
			l.emit(token.NUMBER, start, startLine, startCol)
			return
		case 'b', 'B':
			l.readChar()
			l.readChar()
			for l.ch == '0' || l.ch == '1' || l.ch == '_' {
				l.readChar()
			}
			l.emit(token.NUMBER, start, startLine, startCol)
			return
		case 'o', 'O':
			l.readChar()
			l.readChar()
			for (l.ch >= '0' && l.ch <= '7') || l.ch == '_' {
				l.readChar()
			}
			l.emit(token.NUMBER, start, startLine, startCol)
			return
		}
	}
	// '_' is the numeric separator; it never starts the literal
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	} else if l.ch == '.' && !isIdentStart(l.peekChar()) && l.peekChar() != '.' {
		// trailing dot as in "1."
		l.readChar()
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(rune(l.peekCharAt(1)))) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	l.emit(token.NUMBER, start, startLine, startCol)
}

func (l *Lexer) ident(start, startLine, startCol int) {
	for isIdentPart(l.ch) {
		l.readChar()
	}
	l.emit(token.LookupIdent(l.input[start:l.pos]), start, startLine, startCol)
}

// templateToken scans one token inside a template literal: the closing
// backtick, a "${" placeholder opener, or a raw chunk up to either.
func (l *Lexer) templateToken() {
	start, startLine, startCol := l.pos, l.line, l.col
	if l.ch == '`' {
		l.readChar()
		l.emit(token.BACKTICK, start, startLine, startCol)
		l.popState()
		return
	}
	if l.ch == '$' && l.peekChar() == '{' {
		l.readChar()
		l.readChar()
		l.emit(token.DOLLAR_L_CURLY, start, startLine, startCol)
		l.pushState(stPlaceholder)
		return
	}
	for l.ch != 0 && l.ch != '`' && !(l.ch == '$' && l.peekChar() == '{') {
		if l.ch == '\\' {
			l.readChar()
			if l.ch != 0 {
				l.readChar()
			}
			continue
		}
		l.readChar()
	}
	l.emit(token.T_STRING, start, startLine, startCol)
}

func (l *Lexer) operator(start, startLine, startCol int) {
	ch := l.ch
	switch ch {
	case '(':
		l.single(token.L_PAREN, start, startLine, startCol)
	case ')':
		l.single(token.R_PAREN, start, startLine, startCol)
	case '{':
		if l.state() == stPlaceholder {
			l.braceDepth[len(l.braceDepth)-1]++
		}
		l.single(token.L_CURLY, start, startLine, startCol)
	case '}':
		if l.state() == stPlaceholder {
			depth := l.braceDepth[len(l.braceDepth)-1]
			if depth == 0 {
				l.popState()
			} else {
				l.braceDepth[len(l.braceDepth)-1]--
			}
		}
		l.single(token.R_CURLY, start, startLine, startCol)
	case '[':
		l.single(token.L_BRACKET, start, startLine, startCol)
	case ']':
		l.single(token.R_BRACKET, start, startLine, startCol)
	case ',':
		l.single(token.COMMA, start, startLine, startCol)
	case ';':
		l.single(token.SEMI, start, startLine, startCol)
	case ':':
		l.single(token.COLON, start, startLine, startCol)
	case '.':
		if l.peekChar() == '.' && l.peekCharAt(1) == '.' {
			l.multi(token.DOT_DOT_DOT, 3, start, startLine, startCol)
		} else {
			l.single(token.DOT, start, startLine, startCol)
		}
	case '?':
		switch l.peekChar() {
		case '.':
			l.multi(token.QUES_DOT, 2, start, startLine, startCol)
		case '?':
			if l.peekCharAt(1) == '=' {
				l.multi(token.QUES_QUES_EQ, 3, start, startLine, startCol)
			} else {
				l.multi(token.QUES_QUES, 2, start, startLine, startCol)
			}
		default:
			l.single(token.QUES, start, startLine, startCol)
		}
	case '=':
		switch l.peekChar() {
		case '=':
			if l.peekCharAt(1) == '=' {
				l.multi(token.EQ_EQ_EQ, 3, start, startLine, startCol)
			} else {
				l.multi(token.EQ_EQ, 2, start, startLine, startCol)
			}
		case '>':
			l.multi(token.ARROW, 2, start, startLine, startCol)
		default:
			l.single(token.EQ, start, startLine, startCol)
		}
	case '!':
		if l.peekChar() == '=' {
			if l.peekCharAt(1) == '=' {
				l.multi(token.NOT_EQ_EQ, 3, start, startLine, startCol)
			} else {
				l.multi(token.NOT_EQ, 2, start, startLine, startCol)
			}
		} else {
			l.single(token.NOT, start, startLine, startCol)
		}
	case '<':
		switch l.peekChar() {
		case '=':
			l.multi(token.LT_EQ, 2, start, startLine, startCol)
		case '<':
			if l.peekCharAt(1) == '=' {
				l.multi(token.LT_LT_EQ, 3, start, startLine, startCol)
			} else {
				l.multi(token.LT_LT, 2, start, startLine, startCol)
			}
		default:
			l.single(token.LT, start, startLine, startCol)
		}
	case '>':
		switch l.peekChar() {
		case '=':
			l.multi(token.GT_EQ, 2, start, startLine, startCol)
		case '>':
			if l.peekCharAt(1) == '>' {
				if l.peekCharAt(2) == '=' {
					l.multi(token.GT_GT_GT_EQ, 4, start, startLine, startCol)
				} else {
					l.multi(token.GT_GT_GT, 3, start, startLine, startCol)
				}
			} else if l.peekCharAt(1) == '=' {
				l.multi(token.GT_GT_EQ, 3, start, startLine, startCol)
			} else {
				l.multi(token.GT_GT, 2, start, startLine, startCol)
			}
		default:
			l.single(token.GT, start, startLine, startCol)
		}
	case '&':
		switch l.peekChar() {
		case '&':
			if l.peekCharAt(1) == '=' {
				l.multi(token.AMP_AMP_EQ, 3, start, startLine, startCol)
			} else {
				l.multi(token.AMP_AMP, 2, start, startLine, startCol)
			}
		case '=':
			l.multi(token.AMP_EQ, 2, start, startLine, startCol)
		default:
			l.single(token.AMP, start, startLine, startCol)
		}
	case '|':
		switch l.peekChar() {
		case '|':
			if l.peekCharAt(1) == '=' {
				l.multi(token.PIPE_PIPE_EQ, 3, start, startLine, startCol)
			} else {
				l.multi(token.PIPE_PIPE, 2, start, startLine, startCol)
			}
		case '=':
			l.multi(token.PIPE_EQ, 2, start, startLine, startCol)
		default:
			l.single(token.PIPE, start, startLine, startCol)
		}
	case '^':
		if l.peekChar() == '=' {
			l.multi(token.CARET_EQ, 2, start, startLine, startCol)
		} else {
			l.single(token.CARET, start, startLine, startCol)
		}
	case '~':
		l.single(token.TILDE, start, startLine, startCol)
	case '+':
		switch l.peekChar() {
		case '+':
			l.multi(token.PLUS_PLUS, 2, start, startLine, startCol)
		case '=':
			l.multi(token.PLUS_EQ, 2, start, startLine, startCol)
		default:
			l.single(token.PLUS, start, startLine, startCol)
		}
	case '-':
		switch l.peekChar() {
		case '-':
			l.multi(token.MINUS_MINUS, 2, start, startLine, startCol)
		case '=':
			l.multi(token.MINUS_EQ, 2, start, startLine, startCol)
		default:
			l.single(token.MINUS, start, startLine, startCol)
		}
	case '*':
		switch l.peekChar() {
		case '*':
			if l.peekCharAt(1) == '=' {
				l.multi(token.STAR_STAR_EQ, 3, start, startLine, startCol)
			} else {
				l.multi(token.STAR_STAR, 2, start, startLine, startCol)
			}
		case '=':
			l.multi(token.STAR_EQ, 2, start, startLine, startCol)
		default:
			l.single(token.STAR, start, startLine, startCol)
		}
	case '/':
		if l.peekChar() == '=' {
			l.multi(token.SLASH_EQ, 2, start, startLine, startCol)
		} else {
			l.single(token.SLASH, start, startLine, startCol)
		}
	case '%':
		if l.peekChar() == '=' {
			l.multi(token.PERCENT_EQ, 2, start, startLine, startCol)
		} else {
			l.single(token.PERCENT, start, startLine, startCol)
		}
	default:
		// not part of the language: emit and move on, never fail
		l.single(token.ILLEGAL, start, startLine, startCol)
	}
}

func (l *Lexer) single(kind token.Kind, start, startLine, startCol int) {
	l.readChar()
	l.emit(kind, start, startLine, startCol)
}

func (l *Lexer) multi(kind token.Kind, count, start, startLine, startCol int) {
	for i := 0; i < count; i++ {
		l.readChar()
	}
	l.emit(kind, start, startLine, startCol)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ch == '$' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}
