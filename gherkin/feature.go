package gherkin

import (
	"strings"

	"github.com/karatelabs/karate-js/ast"
	"github.com/karatelabs/karate-js/parser"
	"github.com/karatelabs/karate-js/token"
)

// The document model is what runners and editor tooling consume: a plain
// structured view derived from the syntax tree by one order-preserving
// walk. Every element keeps its source position for reporting.

type Feature struct {
	Name        string
	Description string
	Tags        []Tag
	Sections    []FeatureSection
}

// FeatureSection is one top-level block: either the background or a
// scenario, in file order.
type FeatureSection struct {
	Background *Background
	Scenario   *Scenario
}

type Background struct {
	Name  string
	Steps []Step
}

type Scenario struct {
	Name        string
	Description string
	Tags        []Tag
	Steps       []Step
	Outline     bool
	Examples    []Table
	Line        int
}

type Step struct {
	Prefix    string
	Keyword   string
	Text      string
	Table     *Table
	DocString string
	Line      int
	Col       int
	Offset    int
}

// Table holds a header row plus data rows, all as raw cell text.
type Table struct {
	Rows [][]string
	Line int
}

// Header returns the first row, or nil for an empty table.
func (t *Table) Header() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// Data returns the rows after the header.
func (t *Table) Data() [][]string {
	if len(t.Rows) < 2 {
		return nil
	}
	return t.Rows[1:]
}

type Tag struct {
	Name string
	Line int
}

// ParseFeature parses source with recovery and derives the document model.
// Diagnostics report what was malformed; the document is best-effort.
func ParseFeature(source string) (*Feature, []parser.Diagnostic) {
	root, diags := ParseRecover(source)
	return NewFeature(source, root), diags
}

// NewFeature walks a feature syntax tree into the document model.
func NewFeature(source string, root *ast.Node) *Feature {
	f := &Feature{}
	for _, child := range root.Children() {
		switch child.Type {
		case ast.G_TAGS:
			f.Tags = tagsOf(child)
		case ast.G_NAME_DESC:
			f.Name, f.Description = nameDescOf(child)
		case ast.G_BACKGROUND:
			bg := &Background{}
			for _, sub := range child.Children() {
				switch sub.Type {
				case ast.G_NAME_DESC:
					bg.Name, _ = nameDescOf(sub)
				case ast.G_STEP:
					bg.Steps = append(bg.Steps, stepOf(source, sub))
				}
			}
			f.Sections = append(f.Sections, FeatureSection{Background: bg})
		case ast.G_SCENARIO, ast.G_OUTLINE:
			f.Sections = append(f.Sections, FeatureSection{Scenario: scenarioOf(source, child)})
		case ast.G_STEP:
			// recovered stray step: give it a section so runners see it
			s := &Scenario{Steps: []Step{stepOf(source, child)}}
			if first := child.FirstToken(); first != nil {
				s.Line = first.Line
			}
			f.Sections = append(f.Sections, FeatureSection{Scenario: s})
		}
	}
	return f
}

// Steps returns every step in document order, background included.
func (f *Feature) Steps() []Step {
	var steps []Step
	for _, s := range f.Sections {
		if s.Background != nil {
			steps = append(steps, s.Background.Steps...)
		}
		if s.Scenario != nil {
			steps = append(steps, s.Scenario.Steps...)
		}
	}
	return steps
}

func scenarioOf(source string, node *ast.Node) *Scenario {
	s := &Scenario{Outline: node.Type == ast.G_OUTLINE}
	if first := node.FirstToken(); first != nil {
		s.Line = first.Line
	}
	for _, child := range node.Children() {
		switch child.Type {
		case ast.G_TAGS:
			s.Tags = tagsOf(child)
		case ast.G_NAME_DESC:
			s.Name, s.Description = nameDescOf(child)
		case ast.G_STEP:
			s.Steps = append(s.Steps, stepOf(source, child))
		case ast.G_EXAMPLES:
			if table := child.FindFirst(ast.G_TABLE); table != nil {
				s.Examples = append(s.Examples, tableOf(table))
			}
		}
	}
	return s
}

func stepOf(source string, node *ast.Node) Step {
	s := Step{}
	if prefix := node.FindFirstToken(token.G_PREFIX); prefix != nil {
		s.Prefix = prefix.Token.Text
		s.Line = prefix.Token.Line
		s.Col = prefix.Token.Col
		s.Offset = prefix.Token.Pos
	}
	if kw := node.FindFirstToken(token.G_KEYWORD); kw != nil {
		s.Keyword = kw.Token.Text
	}
	s.Text = stepText(source, node)
	for _, child := range node.Children() {
		switch child.Type {
		case ast.G_TABLE:
			t := tableOf(child)
			s.Table = &t
		case ast.G_DOCSTRING:
			s.DocString = docStringOf(child)
		}
	}
	return s
}

// stepText reproduces the step body as the exact source span from the
// first to the last text token, so interior spacing survives.
func stepText(source string, node *ast.Node) string {
	var first, last *token.Token
	for _, child := range node.Children() {
		if !child.IsToken() {
			continue
		}
		k := child.Token.Kind
		if k == token.G_TEXT || k == token.EQ {
			if first == nil {
				first = child.Token
			}
			last = child.Token
		}
	}
	if first == nil {
		return ""
	}
	return source[first.Pos:last.End()]
}

func tableOf(node *ast.Node) Table {
	t := Table{}
	if first := node.FirstToken(); first != nil {
		t.Line = first.Line
	}
	for _, row := range node.FindImmediate(ast.G_ROW) {
		var cells []string
		for _, child := range row.Children() {
			if child.IsToken() && child.Token.Kind == token.G_CELL {
				cells = append(cells, child.Token.Text)
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func tagsOf(node *ast.Node) []Tag {
	var tags []Tag
	for _, child := range node.Children() {
		if child.IsToken() && child.Token.Kind == token.G_TAG {
			tags = append(tags, Tag{Name: child.Token.Text, Line: child.Token.Line})
		}
	}
	return tags
}

// nameDescOf splits header description lines: first line is the name, the
// rest join as the free-form description.
func nameDescOf(node *ast.Node) (string, string) {
	var name string
	var desc []string
	for i, child := range node.Children() {
		if !child.IsToken() {
			continue
		}
		if i == 0 {
			name = child.Token.Text
		} else {
			desc = append(desc, child.Token.Text)
		}
	}
	return name, strings.Join(desc, "\n")
}

// docStringOf strips the triple-quote delimiters and the common leading
// indentation of the block body.
func docStringOf(node *ast.Node) string {
	raw := node.Text()
	raw = strings.TrimPrefix(raw, `"""`)
	raw = strings.TrimSuffix(raw, `"""`)
	lines := strings.Split(raw, "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if indent > 0 && len(line) >= indent {
			lines[i] = line[indent:]
		}
	}
	return strings.Join(lines, "\n")
}
