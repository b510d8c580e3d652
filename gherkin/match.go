package gherkin

import (
	"fmt"
	"strings"
)

// MatchType identifies the comparison a match step requests.
type MatchType int

const (
	MatchEquals MatchType = iota
	MatchNotEquals
	MatchContains
	MatchNotContains
	MatchContainsOnly
	MatchContainsAny
	MatchContainsDeep
	MatchNotContainsDeep
	MatchWithin
	MatchNotWithin
)

var matchTypeNames = map[MatchType]string{
	MatchEquals:          "==",
	MatchNotEquals:       "!=",
	MatchContains:        "contains",
	MatchNotContains:     "!contains",
	MatchContainsOnly:    "contains only",
	MatchContainsAny:     "contains any",
	MatchContainsDeep:    "contains deep",
	MatchNotContainsDeep: "!contains deep",
	MatchWithin:          "within",
	MatchNotWithin:       "!within",
}

func (t MatchType) String() string {
	return matchTypeNames[t]
}

// matchOps is ordered longest-first so "contains only" wins over
// "contains".
var matchOps = []struct {
	text string
	typ  MatchType
}{
	{"!contains deep", MatchNotContainsDeep},
	{"contains deep", MatchContainsDeep},
	{"contains only", MatchContainsOnly},
	{"contains any", MatchContainsAny},
	{"!contains", MatchNotContains},
	{"contains", MatchContains},
	{"!within", MatchNotWithin},
	{"within", MatchWithin},
	{"==", MatchEquals},
	{"!=", MatchNotEquals},
}

// MatchExpression is the parsed form of a match step: an optional "each"
// prefix, the actual-side expression, the operator and the expected-side
// expression.
type MatchExpression struct {
	Each     bool
	Actual   string
	Type     MatchType
	Expected string
}

// ParseMatch splits match step text into its three parts. The operator is
// located by scanning outside quotes and brackets, so expressions like
// `foo['a == b']` keep their operators. An empty right-hand side is legal
// when a docstring follows the step; use WithExpected for that.
func ParseMatch(text string) (*MatchExpression, error) {
	m := &MatchExpression{}
	text = strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(text, "each "); ok {
		m.Each = true
		text = strings.TrimSpace(rest)
	}
	opStart, op := findOperator(text)
	if opStart < 0 {
		return nil, fmt.Errorf("no match operator in: %s", text)
	}
	m.Actual = strings.TrimSpace(text[:opStart])
	m.Type = op.typ
	m.Expected = strings.TrimSpace(text[opStart+len(op.text):])
	if m.Actual == "" {
		return nil, fmt.Errorf("no expression before operator in: %s", text)
	}
	return m, nil
}

// WithExpected fills in a right-hand side delivered out of band, typically
// a docstring following the step line.
func (m *MatchExpression) WithExpected(expected string) *MatchExpression {
	if m.Expected == "" {
		m.Expected = expected
	}
	return m
}

func (m *MatchExpression) String() string {
	prefix := ""
	if m.Each {
		prefix = "each "
	}
	return prefix + m.Actual + " " + m.Type.String() + " " + m.Expected
}

// findOperator locates the first top-level operator occurrence: depth
// tracking skips bracketed and quoted regions of the actual-side
// expression.
func findOperator(text string) (int, *struct {
	text string
	typ  MatchType
}) {
	depth := 0
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == quote && (i == 0 || text[i-1] != '\\') {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		default:
			if depth > 0 {
				continue
			}
			for oi := range matchOps {
				op := &matchOps[oi]
				if !strings.HasPrefix(text[i:], op.text) {
					continue
				}
				// word operators need space separation on both sides
				if isWordOp(op.text) && !isolated(text, i, len(op.text)) {
					continue
				}
				return i, op
			}
		}
	}
	return -1, nil
}

func isWordOp(op string) bool {
	c := op[0]
	return c == 'c' || c == 'w' || (c == '!' && len(op) > 2)
}

func isolated(text string, start, length int) bool {
	if start > 0 && !isSpace(text[start-1]) {
		return false
	}
	end := start + length
	if end < len(text) && !isSpace(text[end]) {
		return false
	}
	return true
}
