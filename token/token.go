package token

import "strconv"

// Kind identifies the lexical class of a token. One enumeration serves both
// grammars: scripting-language kinds first, then the G_* kinds emitted by the
// feature-file lexer.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	// trivia
	WS
	WS_LF
	L_COMMENT
	B_COMMENT

	// punctuation
	L_PAREN
	R_PAREN
	L_CURLY
	R_CURLY
	L_BRACKET
	R_BRACKET
	COMMA
	SEMI
	COLON
	DOT
	DOT_DOT_DOT
	QUES
	QUES_DOT
	QUES_QUES
	ARROW
	BACKTICK
	DOLLAR_L_CURLY
	T_STRING

	// assignment operators
	EQ
	PLUS_EQ
	MINUS_EQ
	STAR_EQ
	SLASH_EQ
	PERCENT_EQ
	STAR_STAR_EQ
	AMP_EQ
	PIPE_EQ
	CARET_EQ
	LT_LT_EQ
	GT_GT_EQ
	GT_GT_GT_EQ
	AMP_AMP_EQ
	PIPE_PIPE_EQ
	QUES_QUES_EQ

	// comparison
	EQ_EQ
	EQ_EQ_EQ
	NOT_EQ
	NOT_EQ_EQ
	LT
	GT
	LT_EQ
	GT_EQ

	// logic and bitwise
	AMP_AMP
	PIPE_PIPE
	NOT
	AMP
	PIPE
	CARET
	TILDE
	LT_LT
	GT_GT
	GT_GT_GT

	// arithmetic
	PLUS
	MINUS
	STAR
	STAR_STAR
	SLASH
	PERCENT
	PLUS_PLUS
	MINUS_MINUS

	// literals
	NUMBER
	S_STRING
	D_STRING
	REGEX
	IDENT

	// keywords
	NULL
	TRUE
	FALSE
	UNDEFINED
	VAR
	LET
	CONST
	FUNCTION
	RETURN
	IF
	ELSE
	FOR
	WHILE
	DO
	BREAK
	CONTINUE
	SWITCH
	CASE
	DEFAULT
	THROW
	TRY
	CATCH
	FINALLY
	NEW
	DELETE
	TYPEOF
	INSTANCEOF
	IN
	OF
	THIS

	// feature-file kinds
	G_TAG
	G_FEATURE
	G_BACKGROUND
	G_SCENARIO
	G_OUTLINE
	G_EXAMPLES
	G_PREFIX
	G_KEYWORD
	G_DESC
	G_TEXT
	G_PIPE
	G_CELL
	G_DOCSTRING
	G_COMMENT
)

var names = [...]string{
	ILLEGAL:        "ILLEGAL",
	EOF:            "EOF",
	WS:             "WS",
	WS_LF:          "WS_LF",
	L_COMMENT:      "L_COMMENT",
	B_COMMENT:      "B_COMMENT",
	L_PAREN:        "(",
	R_PAREN:        ")",
	L_CURLY:        "{",
	R_CURLY:        "}",
	L_BRACKET:      "[",
	R_BRACKET:      "]",
	COMMA:          ",",
	SEMI:           ";",
	COLON:          ":",
	DOT:            ".",
	DOT_DOT_DOT:    "...",
	QUES:           "?",
	QUES_DOT:       "?.",
	QUES_QUES:      "??",
	ARROW:          "=>",
	BACKTICK:       "`",
	DOLLAR_L_CURLY: "${",
	T_STRING:       "T_STRING",
	EQ:             "=",
	PLUS_EQ:        "+=",
	MINUS_EQ:       "-=",
	STAR_EQ:        "*=",
	SLASH_EQ:       "/=",
	PERCENT_EQ:     "%=",
	STAR_STAR_EQ:   "**=",
	AMP_EQ:         "&=",
	PIPE_EQ:        "|=",
	CARET_EQ:       "^=",
	LT_LT_EQ:       "<<=",
	GT_GT_EQ:       ">>=",
	GT_GT_GT_EQ:    ">>>=",
	AMP_AMP_EQ:     "&&=",
	PIPE_PIPE_EQ:   "||=",
	QUES_QUES_EQ:   "??=",
	EQ_EQ:          "==",
	EQ_EQ_EQ:       "===",
	NOT_EQ:         "!=",
	NOT_EQ_EQ:      "!==",
	LT:             "<",
	GT:             ">",
	LT_EQ:          "<=",
	GT_EQ:          ">=",
	AMP_AMP:        "&&",
	PIPE_PIPE:      "||",
	NOT:            "!",
	AMP:            "&",
	PIPE:           "|",
	CARET:          "^",
	TILDE:          "~",
	LT_LT:          "<<",
	GT_GT:          ">>",
	GT_GT_GT:       ">>>",
	PLUS:           "+",
	MINUS:          "-",
	STAR:           "*",
	STAR_STAR:      "**",
	SLASH:          "/",
	PERCENT:        "%",
	PLUS_PLUS:      "++",
	MINUS_MINUS:    "--",
	NUMBER:         "NUMBER",
	S_STRING:       "S_STRING",
	D_STRING:       "D_STRING",
	REGEX:          "REGEX",
	IDENT:          "IDENT",
	NULL:           "null",
	TRUE:           "true",
	FALSE:          "false",
	UNDEFINED:      "undefined",
	VAR:            "var",
	LET:            "let",
	CONST:          "const",
	FUNCTION:       "function",
	RETURN:         "return",
	IF:             "if",
	ELSE:           "else",
	FOR:            "for",
	WHILE:          "while",
	DO:             "do",
	BREAK:          "break",
	CONTINUE:       "continue",
	SWITCH:         "switch",
	CASE:           "case",
	DEFAULT:        "default",
	THROW:          "throw",
	TRY:            "try",
	CATCH:          "catch",
	FINALLY:        "finally",
	NEW:            "new",
	DELETE:         "delete",
	TYPEOF:         "typeof",
	INSTANCEOF:     "instanceof",
	IN:             "in",
	OF:             "of",
	THIS:           "this",
	G_TAG:          "G_TAG",
	G_FEATURE:      "G_FEATURE",
	G_BACKGROUND:   "G_BACKGROUND",
	G_SCENARIO:     "G_SCENARIO",
	G_OUTLINE:      "G_OUTLINE",
	G_EXAMPLES:     "G_EXAMPLES",
	G_PREFIX:       "G_PREFIX",
	G_KEYWORD:      "G_KEYWORD",
	G_DESC:         "G_DESC",
	G_TEXT:         "G_TEXT",
	G_PIPE:         "G_PIPE",
	G_CELL:         "G_CELL",
	G_DOCSTRING:    "G_DOCSTRING",
	G_COMMENT:      "G_COMMENT",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(names) {
		return "Kind(?)"
	}
	return names[k]
}

// Primary reports whether the kind takes part in parsing. Whitespace and
// comments are retained in the buffer for round-tripping but are invisible
// to the grammars. EOF counts as primary so every parse has a terminator.
func (k Kind) Primary() bool {
	switch k {
	case WS, WS_LF, L_COMMENT, B_COMMENT, G_COMMENT:
		return false
	}
	return true
}

// Keyword reports whether the kind is a reserved word of the scripting
// grammar.
func (k Kind) Keyword() bool {
	return k >= NULL && k <= THIS
}

// RegexAllowed reports whether a regex literal may directly follow a token
// of this kind. After value-ending tokens a slash means division.
func (k Kind) RegexAllowed() bool {
	switch k {
	case IDENT, NUMBER, S_STRING, D_STRING, T_STRING, BACKTICK, REGEX,
		R_PAREN, R_BRACKET, R_CURLY, PLUS_PLUS, MINUS_MINUS,
		THIS, TRUE, FALSE, NULL, UNDEFINED:
		return false
	}
	return true
}

// Keywords maps reserved words to their kinds.
var Keywords = map[string]Kind{
	"null":       NULL,
	"true":       TRUE,
	"false":      FALSE,
	"undefined":  UNDEFINED,
	"var":        VAR,
	"let":        LET,
	"const":      CONST,
	"function":   FUNCTION,
	"return":     RETURN,
	"if":         IF,
	"else":       ELSE,
	"for":        FOR,
	"while":      WHILE,
	"do":         DO,
	"break":      BREAK,
	"continue":   CONTINUE,
	"switch":     SWITCH,
	"case":       CASE,
	"default":    DEFAULT,
	"throw":      THROW,
	"try":        TRY,
	"catch":      CATCH,
	"finally":    FINALLY,
	"new":        NEW,
	"delete":     DELETE,
	"typeof":     TYPEOF,
	"instanceof": INSTANCEOF,
	"in":         IN,
	"of":         OF,
	"this":       THIS,
}

// LookupIdent returns the keyword kind for reserved words, IDENT otherwise.
func LookupIdent(ident string) Kind {
	if k, ok := Keywords[ident]; ok {
		return k
	}
	return IDENT
}

// Token is the atomic lexical unit. Prev and Next are indices into the
// owning Buffer rather than pointers, so the trivia chain can be walked in
// both directions without reference cycles.
type Token struct {
	Kind  Kind
	Text  string
	Pos   int // byte offset into the source
	Line  int // 1-based
	Col   int // 1-based
	Index int // position in the owning buffer
	Prev  int // index of previous token, -1 if none
	Next  int // index of next token, -1 if none
}

// End returns the byte offset just past this token's text.
func (t *Token) End() int {
	return t.Pos + len(t.Text)
}

func (t *Token) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case IDENT, NUMBER, S_STRING, D_STRING, T_STRING, REGEX,
		G_KEYWORD, G_DESC, G_TEXT, G_CELL, G_TAG, G_PREFIX:
		return t.Kind.String() + ":" + t.Text
	}
	return t.Kind.String()
}

// PositionDisplay formats the token position as line:column for messages.
func (t *Token) PositionDisplay() string {
	return strconv.Itoa(t.Line) + ":" + strconv.Itoa(t.Col)
}
