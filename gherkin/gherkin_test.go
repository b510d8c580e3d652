package gherkin

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karatelabs/karate-js/ast"
)

const sample = `@smoke @fast
Feature: user accounts
  manages the full account lifecycle

Background:
* def base = 'https://api.example.com'

@critical
Scenario: create account
creates and verifies one account
* def payload = { name: 'Billie' }
Given url base
When method post
Then status 201
* match response contains { name: 'Billie' }
`

func TestLexerRoundTrip(t *testing.T) {
	sources := []string{
		sample,
		"",
		"Feature:",
		"* match a == b",
		"| one | two |\n| 1 | 2 |",
		"@tag",
		"# just a comment\n",
		"random prose\nwith two lines",
		"* text block =\n\"\"\"\nhello\n\"\"\"",
		"\"\"\"\nnever closed",
	}
	for _, src := range sources {
		buf := Tokenize(src)
		assert.Equal(t, src, buf.Text(), "source: %q", src)
	}
}

func TestParseWellFormedFeature(t *testing.T) {
	f, diags := ParseFeature(sample)
	require.Empty(t, diags)

	assert.Equal(t, "user accounts", f.Name)
	assert.Equal(t, "manages the full account lifecycle", f.Description)
	require.Len(t, f.Tags, 2)
	assert.Equal(t, "@smoke", f.Tags[0].Name)
	assert.Equal(t, 1, f.Tags[0].Line)

	require.Len(t, f.Sections, 2)
	bg := f.Sections[0].Background
	require.NotNil(t, bg)
	require.Len(t, bg.Steps, 1)
	assert.Equal(t, "def", bg.Steps[0].Keyword)
	assert.Equal(t, "base = 'https://api.example.com'", bg.Steps[0].Text)

	sc := f.Sections[1].Scenario
	require.NotNil(t, sc)
	assert.Equal(t, "create account", sc.Name)
	assert.Equal(t, "creates and verifies one account", sc.Description)
	require.Len(t, sc.Tags, 1)
	assert.Equal(t, "@critical", sc.Tags[0].Name)

	require.Len(t, sc.Steps, 5)
	assert.Equal(t, "*", sc.Steps[0].Prefix)
	assert.Equal(t, "def", sc.Steps[0].Keyword)
	assert.Equal(t, "Given", sc.Steps[1].Prefix)
	assert.Equal(t, "url", sc.Steps[1].Keyword)
	assert.Equal(t, "base", sc.Steps[1].Text)
	assert.Equal(t, "match", sc.Steps[4].Keyword)
	assert.Equal(t, "response contains { name: 'Billie' }", sc.Steps[4].Text)
}

func TestStepPositions(t *testing.T) {
	f, diags := ParseFeature("Feature: x\n* print 'hi'\n")
	require.Empty(t, diags)
	steps := f.Steps()
	require.Len(t, steps, 1)
	assert.Equal(t, 2, steps[0].Line)
	assert.Equal(t, 1, steps[0].Col)
	assert.Equal(t, 11, steps[0].Offset)
}

func TestMissingFeatureKeywordStillYieldsStep(t *testing.T) {
	root, diags := ParseRecover("* print 'still here'\n")
	require.Len(t, diags, 1)

	steps := root.FindAll(ast.G_STEP)
	require.Len(t, steps, 1)
	assert.Equal(t, ast.G_FEATURE, steps[0].Parent().Type)

	f := NewFeature("* print 'still here'\n", root)
	all := f.Steps()
	require.Len(t, all, 1)
	assert.Equal(t, "print", all[0].Keyword)
}

func TestScenarioOutlineWithExamples(t *testing.T) {
	src := `Feature: math
Scenario Outline: addition
* assert <a> + <b> == <total>

Examples:
| a | b | total |
| 1 | 2 | 3 |
| 5 | 5 | 10 |
`
	f, diags := ParseFeature(src)
	require.Empty(t, diags)
	require.Len(t, f.Sections, 1)
	sc := f.Sections[0].Scenario
	require.NotNil(t, sc)
	assert.True(t, sc.Outline)
	require.Len(t, sc.Examples, 1)

	table := sc.Examples[0]
	want := [][]string{{"a", "b", "total"}, {"1", "2", "3"}, {"5", "5", "10"}}
	if diff := cmp.Diff(want, table.Rows); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"a", "b", "total"}, table.Header())
	assert.Len(t, table.Data(), 2)
}

func TestStepTable(t *testing.T) {
	src := `Feature: x
Scenario: y
* table rows
| name | age |
| Jo | 30 |
`
	f, diags := ParseFeature(src)
	require.Empty(t, diags)
	step := f.Sections[0].Scenario.Steps[0]
	require.NotNil(t, step.Table)
	assert.Equal(t, [][]string{{"name", "age"}, {"Jo", "30"}}, step.Table.Rows)
}

func TestDocString(t *testing.T) {
	src := "Feature: x\nScenario: y\n* match a ==\n\"\"\"\n  { \"n\": 1 }\n\"\"\"\n"
	f, diags := ParseFeature(src)
	require.Empty(t, diags)
	step := f.Sections[0].Scenario.Steps[0]
	assert.Equal(t, `{ "n": 1 }`, step.DocString)
}

func TestCommentsAndBlankLinesIgnored(t *testing.T) {
	src := "# top comment\nFeature: x\n\n# before scenario\nScenario: y\n\n* print 1\n"
	f, diags := ParseFeature(src)
	require.Empty(t, diags)
	require.Len(t, f.Sections, 1)
	assert.Len(t, f.Sections[0].Scenario.Steps, 1)
}

func TestMalformedSectionRecovers(t *testing.T) {
	src := "Feature: x\nScenario: ok\n* print 1\n"
	root, diags := ParseRecover(src)
	assert.Empty(t, diags)
	assert.NotNil(t, root.FindFirst(ast.G_SCENARIO))

	// arbitrary junk between sections never aborts the parse
	_, diags = ParseRecover("Feature: x\nScenario: a\n* print 1\nScenario: b\n* print 2\n")
	assert.Empty(t, diags)
}

func TestStrictParseFailsOnMissingFeature(t *testing.T) {
	_, err := Parse("* print 'x'\n")
	assert.Error(t, err)

	root, err := Parse("Feature: fine\n* print 'x'\n")
	require.NoError(t, err)
	assert.NotNil(t, root)
}
