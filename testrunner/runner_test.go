package testrunner

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/karatelabs/karate-js/gherkin"
)

func runSource(t *testing.T, source string) ([]ScenarioResult, *bytes.Buffer) {
	t.Helper()
	feature, diags := gherkin.ParseFeature(source)
	assert.Empty(t, diags)
	var out bytes.Buffer
	results := RunFeature("inline.feature", feature, Config{Out: &out})
	return results, &out
}

func TestRunScenario(t *testing.T) {
	results, _ := runSource(t, `Feature: arithmetic

Scenario: sums
* def a = 1
* def b = 2
* assert a + b == 3
* match a + b == 3
`)
	assert.Len(t, results, 1)
	assert.Equal(t, Pass, results[0].Result)
	assert.Len(t, results[0].Steps, 4)
}

func TestMatchToleratesUncomparableValues(t *testing.T) {
	// function-typed values must compare unequal, never panic under ==
	fn := func(args []any) (any, error) { return nil, nil }
	err := Match(fn, fn, gherkin.MatchEquals, false)
	assert.Error(t, err)
	err = Match(fn, 1, gherkin.MatchNotEquals, false)
	assert.NoError(t, err)
}

func TestFailingAssertStopsScenario(t *testing.T) {
	results, _ := runSource(t, `Feature: failing

Scenario: bad assert
* def a = 1
* assert a == 2
* def never = 1
`)
	assert.Equal(t, Fail, results[0].Result)
	assert.Len(t, results[0].Steps, 2)
	assert.Contains(t, results[0].Steps[1].Message, "assert failed")
}

func TestBackgroundRunsFirst(t *testing.T) {
	results, _ := runSource(t, `Feature: shared setup

Background:
* def base = 10

Scenario: one
* assert base + 1 == 11

Scenario: two
* def base = 20
* assert base == 20
`)
	assert.Len(t, results, 2)
	assert.Equal(t, Pass, results[0].Result)
	// scenario two sees a fresh engine: its redefinition cannot clash
	assert.Equal(t, Pass, results[1].Result)
}

func TestOutlineExpansion(t *testing.T) {
	results, _ := runSource(t, `Feature: outline

Scenario Outline: doubling
* def n = <value>
* assert n * 2 == <doubled>

Examples:
| value | doubled |
| 2     | 4       |
| 5     | 10      |
| 7     | 14      |
`)
	assert.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, Pass, r.Result)
	}
}

func TestDocStringDef(t *testing.T) {
	results, _ := runSource(t, `Feature: payloads

Scenario: json docstring
* def payload =
"""
{ "name": "widget", "sizes": [1, 2, 3] }
"""
* match payload.name == 'widget'
* match payload.sizes contains 2
* match payload == { name: 'widget', sizes: [1, 2, 3] }
`)
	assert.Equal(t, Pass, results[0].Result)
}

func TestPrintGoesToOut(t *testing.T) {
	results, out := runSource(t, `Feature: printing

Scenario: print
* def a = 41
* print 'answer', a + 1
`)
	assert.Equal(t, Pass, results[0].Result)
	assert.Equal(t, "answer 42\n", out.String())
}

func TestUnsupportedKeyword(t *testing.T) {
	results, _ := runSource(t, `Feature: http

Scenario: not wired
Given url 'https://example.com'
`)
	assert.Equal(t, Error, results[0].Result)
	assert.Contains(t, results[0].Steps[0].Message, "unsupported keyword")
}

func TestFilter(t *testing.T) {
	feature, _ := gherkin.ParseFeature(`Feature: filtered

Scenario: wanted
* assert true

Scenario: unwanted
* assert false
`)
	var out bytes.Buffer
	results := RunFeature("inline.feature", feature, Config{Out: &out, Filter: "wanted"})
	assert.Len(t, results, 2) // "unwanted" also contains "wanted"
	results = RunFeature("inline.feature", feature, Config{Out: &out, Filter: "unwanted"})
	assert.Len(t, results, 1)
	assert.Equal(t, Fail, results[0].Result)
}
