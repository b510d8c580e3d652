package gherkin

import (
	"github.com/karatelabs/karate-js/ast"
	"github.com/karatelabs/karate-js/parser"
	"github.com/karatelabs/karate-js/token"
)

// Parser is the feature-file grammar over the shared base machinery.
// Recovery points are the structural boundaries of the format: section
// keywords, step prefixes and table-row delimiters.
type Parser struct {
	parser.Base
}

func New(source string, recovery bool) *Parser {
	p := &Parser{}
	p.Init(Tokenize(source), recovery)
	return p
}

// Parse is the strict entry point: the first syntax error is returned.
func Parse(source string) (*ast.Node, error) {
	p := New(source, false)
	root := p.Feature()
	if p.HasErrors() {
		return nil, p.Errors()[0]
	}
	return root, nil
}

// ParseRecover always returns a root spanning every token, plus any
// diagnostics. A file missing its Feature keyword still yields the steps
// beneath it.
func ParseRecover(source string) (*ast.Node, []parser.Diagnostic) {
	p := New(source, true)
	return p.Feature(), p.Errors()
}

var sectionStart = []token.Kind{
	token.G_TAG, token.G_FEATURE, token.G_BACKGROUND, token.G_SCENARIO,
	token.G_OUTLINE, token.G_EXAMPLES, token.G_PREFIX, token.G_PIPE,
}

// Feature parses a whole file and returns the G_FEATURE node.
func (p *Parser) Feature() *ast.Node {
	p.Enter(ast.G_FEATURE)
	p.tags()
	if !p.ConsumeIf(token.G_FEATURE) {
		p.ErrorExpected(token.G_FEATURE)
	}
	p.nameDesc()
	for p.Peek() != token.EOF && !p.Inert() {
		switch p.Peek() {
		case token.G_BACKGROUND:
			p.section(ast.G_BACKGROUND, token.G_BACKGROUND)
		case token.G_TAG, token.G_SCENARIO, token.G_OUTLINE:
			p.scenario()
		case token.G_PREFIX:
			// a step outside any section still lands in the tree
			p.step()
		default:
			p.Errorf("expected scenario or step")
			p.Enter(ast.ERROR)
			p.RecoverTo(sectionStart...)
			p.ExitSoft()
		}
	}
	p.ConsumeIf(token.EOF)
	node := p.MarkerNode()
	p.Exit()
	return node
}

// tags collects a run of @tag tokens into a G_TAGS node, if any.
func (p *Parser) tags() {
	if !p.PeekIf(token.G_TAG) {
		return
	}
	p.Enter(ast.G_TAGS)
	for p.ConsumeIf(token.G_TAG) {
	}
	p.Exit()
}

// nameDesc collects the description lines that follow a section header:
// the first is the name, the rest free-form description.
func (p *Parser) nameDesc() {
	if !p.PeekIf(token.G_DESC) {
		return
	}
	p.Enter(ast.G_NAME_DESC)
	for p.ConsumeIf(token.G_DESC) {
	}
	p.Exit()
}

func (p *Parser) scenario() {
	kind := ast.G_SCENARIO
	header := token.G_SCENARIO
	if p.PeekIf(token.G_OUTLINE) {
		kind = ast.G_OUTLINE
		header = token.G_OUTLINE
	} else if p.PeekIf(token.G_TAG) {
		// tags belong to the scenario they precede; peek past them
		offset := 0
		for p.PeekAt(offset).Kind == token.G_TAG {
			offset++
		}
		if p.PeekAt(offset).Kind == token.G_OUTLINE {
			kind = ast.G_OUTLINE
			header = token.G_OUTLINE
		}
	}
	p.Enter(kind)
	p.tags()
	if !p.ConsumeIf(header) {
		p.ErrorExpected(header)
		p.RecoverTo(sectionStart...)
		p.ExitSoft()
		return
	}
	p.nameDesc()
	p.steps()
	if kind == ast.G_OUTLINE {
		for p.PeekIf(token.G_EXAMPLES) && !p.Inert() {
			p.examples()
		}
	}
	p.Exit()
}

// section parses Background (and any future step-holding section) bodies.
func (p *Parser) section(kind ast.NodeType, header token.Kind) {
	p.Enter(kind)
	p.Consume(header)
	p.nameDesc()
	p.steps()
	p.Exit()
}

func (p *Parser) steps() {
	for !p.Inert() {
		switch p.Peek() {
		case token.G_PREFIX:
			p.step()
		case token.G_PIPE:
			// a stray table outside a step; keep it in the tree
			p.table()
		default:
			return
		}
	}
}

func (p *Parser) step() {
	p.Enter(ast.G_STEP)
	p.Consume(token.G_PREFIX)
	p.ConsumeIf(token.G_KEYWORD)
	for p.PeekIf(token.G_TEXT, token.EQ) && !p.Inert() {
		p.ConsumeNext()
	}
	if p.PeekIf(token.G_PIPE) {
		p.table()
	}
	if p.PeekIf(token.G_DOCSTRING) {
		p.Enter(ast.G_DOCSTRING, token.G_DOCSTRING)
		p.Exit()
	}
	p.Exit()
}

func (p *Parser) table() {
	p.Enter(ast.G_TABLE)
	for p.PeekIf(token.G_PIPE) && !p.Inert() {
		p.row()
	}
	p.Exit()
}

// row consumes the pipes and cells that share one source line.
func (p *Parser) row() {
	p.Enter(ast.G_ROW)
	line := p.PeekToken().Line
	for p.PeekIf(token.G_PIPE, token.G_CELL) && p.PeekToken().Line == line && !p.Inert() {
		p.ConsumeNext()
	}
	p.Exit()
}

func (p *Parser) examples() {
	p.Enter(ast.G_EXAMPLES)
	p.Consume(token.G_EXAMPLES)
	p.nameDesc()
	if p.PeekIf(token.G_PIPE) {
		p.table()
	}
	p.Exit()
}
