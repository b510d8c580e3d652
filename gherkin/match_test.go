package gherkin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatchOperators(t *testing.T) {
	cases := []struct {
		text     string
		each     bool
		actual   string
		typ      MatchType
		expected string
	}{
		{"foo == bar", false, "foo", MatchEquals, "bar"},
		{"foo != bar", false, "foo", MatchNotEquals, "bar"},
		{"foo contains bar", false, "foo", MatchContains, "bar"},
		{"foo !contains bar", false, "foo", MatchNotContains, "bar"},
		{"foo contains only [1, 2]", false, "foo", MatchContainsOnly, "[1, 2]"},
		{"foo contains any [1, 2]", false, "foo", MatchContainsAny, "[1, 2]"},
		{"foo contains deep { a: 1 }", false, "foo", MatchContainsDeep, "{ a: 1 }"},
		{"foo !contains deep { a: 1 }", false, "foo", MatchNotContainsDeep, "{ a: 1 }"},
		{"foo within bar", false, "foo", MatchWithin, "bar"},
		{"foo !within bar", false, "foo", MatchNotWithin, "bar"},
		{"each foo == bar", true, "foo", MatchEquals, "bar"},
		{"each foo contains deep bar", true, "foo", MatchContainsDeep, "bar"},
	}
	for _, c := range cases {
		m, err := ParseMatch(c.text)
		require.NoError(t, err, c.text)
		assert.Equal(t, c.each, m.Each, c.text)
		assert.Equal(t, c.actual, m.Actual, c.text)
		assert.Equal(t, c.typ, m.Type, c.text)
		assert.Equal(t, c.expected, m.Expected, c.text)
	}
}

func TestParseMatchSkipsQuotedAndBracketed(t *testing.T) {
	m, err := ParseMatch(`foo['a == b'] == 1`)
	require.NoError(t, err)
	assert.Equal(t, "foo['a == b']", m.Actual)
	assert.Equal(t, MatchEquals, m.Type)
	assert.Equal(t, "1", m.Expected)

	m, err = ParseMatch(`response.contains == 'word as path, not operator'`)
	require.NoError(t, err)
	assert.Equal(t, "response.contains", m.Actual)
	assert.Equal(t, MatchEquals, m.Type)
}

func TestParseMatchDocStringExpected(t *testing.T) {
	m, err := ParseMatch("response ==")
	require.NoError(t, err)
	assert.Equal(t, "", m.Expected)
	m.WithExpected(`{ "a": 1 }`)
	assert.Equal(t, `{ "a": 1 }`, m.Expected)
}

func TestParseMatchErrors(t *testing.T) {
	_, err := ParseMatch("no operator here at all")
	assert.Error(t, err)

	_, err = ParseMatch("== dangling")
	assert.Error(t, err)
}

func TestMatchExpressionString(t *testing.T) {
	m, err := ParseMatch("each foo contains only bar")
	require.NoError(t, err)
	assert.Equal(t, "each foo contains only bar", m.String())
}
