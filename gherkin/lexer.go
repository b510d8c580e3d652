package gherkin

import (
	"strings"

	"github.com/karatelabs/karate-js/token"
)

// The feature-file lexer is line-oriented: every decision is made from the
// first significant characters of a line. Tokens cover the source without
// gaps so the buffer round-trips exactly, same as the script lexer.

type lexer struct {
	input string
	pos   int
	line  int
	col   int
	buf   *token.Buffer
}

// Tokenize lexes feature-file source into a token buffer. It never fails:
// anything unrecognized becomes a description token.
func Tokenize(source string) *token.Buffer {
	l := &lexer{input: source, line: 1, col: 1, buf: token.NewBuffer(source)}
	l.run()
	return l.buf
}

// stepPrefixes start a step line; the bare star is the conventional one.
var stepPrefixes = []string{"*", "Given", "When", "Then", "And", "But"}

// stepKeywords are the action words recognized right after a step prefix.
var stepKeywords = map[string]bool{
	"match": true, "def": true, "assert": true, "print": true,
	"configure": true, "call": true, "callonce": true, "eval": true,
	"set": true, "remove": true, "replace": true, "text": true,
	"table": true, "csv": true, "yaml": true, "json": true, "xml": true,
	"xmlstring": true, "string": true, "bytes": true, "copy": true,
	"read": true, "url": true, "path": true, "request": true,
	"method": true, "status": true, "param": true, "params": true,
	"header": true, "headers": true, "cookie": true, "cookies": true,
	"form": true, "multipart": true, "soap": true, "retry": true,
	"driver": true, "robot": true, "doc": true, "compare": true,
	"delay": true, "listen": true,
}

var sectionHeaders = []struct {
	word string
	kind token.Kind
}{
	{"Feature:", token.G_FEATURE},
	{"Background:", token.G_BACKGROUND},
	{"Scenario Outline:", token.G_OUTLINE},
	{"Scenario:", token.G_SCENARIO},
	{"Examples:", token.G_EXAMPLES},
}

func (l *lexer) run() {
	for l.pos < len(l.input) {
		l.whitespace()
		if l.pos >= len(l.input) {
			break
		}
		l.lineStart()
	}
	l.buf.Append(token.EOF, "", l.pos, l.line, l.col)
}

// lineStart dispatches on the first significant character of a line and
// consumes through to the end of the construct (which for docstrings spans
// multiple lines).
func (l *lexer) lineStart() {
	rest := l.input[l.pos:]
	switch {
	case rest[0] == '#':
		l.emitToEOL(token.G_COMMENT)
	case rest[0] == '@':
		l.tagLine()
	case rest[0] == '|':
		l.tableRow()
	case strings.HasPrefix(rest, `"""`):
		l.docString()
	default:
		for _, h := range sectionHeaders {
			if strings.HasPrefix(rest, h.word) {
				l.emit(h.kind, h.word)
				l.headerRest()
				return
			}
		}
		if prefix, ok := l.stepPrefix(rest); ok {
			l.emit(token.G_PREFIX, prefix)
			l.stepRest()
			return
		}
		l.emitTrimmedToEOL(token.G_DESC)
	}
}

// stepPrefix matches a step prefix only when followed by whitespace (or end
// of line), so a description line starting with "Andy" stays a description.
func (l *lexer) stepPrefix(rest string) (string, bool) {
	for _, p := range stepPrefixes {
		if !strings.HasPrefix(rest, p) {
			continue
		}
		if len(rest) == len(p) {
			return p, true
		}
		c := rest[len(p)]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			return p, true
		}
	}
	return "", false
}

// headerRest lexes the text after a section header keyword as a single
// description token holding the section name.
func (l *lexer) headerRest() {
	l.lineWhitespace()
	if l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.emitTrimmedToEOL(token.G_DESC)
	}
}

// stepRest lexes the remainder of a step line: an optional action keyword,
// an optional assignment sign, then the raw step text.
func (l *lexer) stepRest() {
	l.lineWhitespace()
	word := l.peekWord()
	if stepKeywords[word] {
		l.emit(token.G_KEYWORD, word)
		l.lineWhitespace()
		// "def name = expr": the name and sign get their own tokens so the
		// step text is exactly the right-hand side
		if word == "def" {
			name := l.peekWord()
			if name != "" {
				l.emit(token.G_TEXT, name)
				l.lineWhitespace()
				if l.pos < len(l.input) && l.input[l.pos] == '=' {
					l.emit(token.EQ, "=")
					l.lineWhitespace()
				}
			}
		}
	}
	if l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.emitTrimmedToEOL(token.G_TEXT)
	}
}

func (l *lexer) tagLine() {
	for l.pos < len(l.input) && l.input[l.pos] == '@' {
		start := l.pos
		for l.pos < len(l.input) && !isSpace(l.input[l.pos]) && l.input[l.pos] != '\n' {
			l.pos++
		}
		text := l.input[start:l.pos]
		l.pos = start
		l.emit(token.G_TAG, text)
		l.lineWhitespace()
	}
	if l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.emitTrimmedToEOL(token.G_DESC)
	}
}

func (l *lexer) tableRow() {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		c := l.input[l.pos]
		switch {
		case c == '|':
			l.emit(token.G_PIPE, "|")
		case isSpace(c):
			l.lineWhitespace()
		default:
			start := l.pos
			end := l.pos
			for end < len(l.input) && l.input[end] != '|' && l.input[end] != '\n' {
				end++
			}
			// drop trailing padding from the cell token
			last := end
			for last > start && isSpace(l.input[last-1]) {
				last--
			}
			l.emit(token.G_CELL, l.input[start:last])
		}
	}
}

// docString consumes a triple-quoted block as one token, delimiters
// included.
func (l *lexer) docString() {
	start := l.pos
	startLine, startCol := l.line, l.col
	end := strings.Index(l.input[l.pos+3:], `"""`)
	var text string
	if end < 0 {
		text = l.input[start:]
	} else {
		text = l.input[start : l.pos+3+end+3]
	}
	l.buf.Append(token.G_DOCSTRING, text, start, startLine, startCol)
	l.advanceOver(text)
}

func (l *lexer) whitespace() {
	start := l.pos
	hasLF := false
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == '\n' {
			hasLF = true
		} else if !isSpace(c) {
			break
		}
		l.pos++
	}
	if l.pos > start {
		kind := token.WS
		if hasLF {
			kind = token.WS_LF
		}
		text := l.input[start:l.pos]
		l.pos = start
		l.emit(kind, text)
	}
}

// lineWhitespace consumes spaces and tabs but never a newline.
func (l *lexer) lineWhitespace() {
	start := l.pos
	for l.pos < len(l.input) && (l.input[l.pos] == ' ' || l.input[l.pos] == '\t' || l.input[l.pos] == '\r') {
		l.pos++
	}
	if l.pos > start {
		text := l.input[start:l.pos]
		l.pos = start
		l.emit(token.WS, text)
	}
}

func (l *lexer) peekWord() string {
	end := l.pos
	for end < len(l.input) && !isSpace(l.input[end]) && l.input[end] != '\n' {
		end++
	}
	return l.input[l.pos:end]
}

// emitToEOL emits the rest of the line, trailing whitespace included.
func (l *lexer) emitToEOL(kind token.Kind) {
	end := l.pos
	for end < len(l.input) && l.input[end] != '\n' {
		end++
	}
	l.emit(kind, l.input[l.pos:end])
}

// emitTrimmedToEOL emits the rest of the line minus trailing padding, which
// stays in the buffer as whitespace trivia.
func (l *lexer) emitTrimmedToEOL(kind token.Kind) {
	end := l.pos
	for end < len(l.input) && l.input[end] != '\n' {
		end++
	}
	last := end
	for last > l.pos && isSpace(l.input[last-1]) {
		last--
	}
	l.emit(kind, l.input[l.pos:last])
}

func (l *lexer) emit(kind token.Kind, text string) {
	l.buf.Append(kind, text, l.pos, l.line, l.col)
	l.advanceOver(text)
}

func (l *lexer) advanceOver(text string) {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}
	l.pos += len(text)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
