package parser

import (
	"github.com/karatelabs/karate-js/ast"
	"github.com/karatelabs/karate-js/lexer"
	"github.com/karatelabs/karate-js/token"
)

// operator priorities for precedence climbing; higher binds tighter
const (
	prioAssign = iota + 1
	prioTernary
	prioNullish
	prioOr
	prioAnd
	prioBitOr
	prioBitXor
	prioBitAnd
	prioEquality
	prioRelational
	prioShift
	prioAdditive
	prioMultiplicative
	prioExponent
)

// Parser is the scripting-language grammar over the shared base machinery.
type Parser struct {
	Base
	noIn bool // suppress 'in' as a binary operator inside for-statement headers
}

// New lexes the source and prepares a parser. With recovery enabled the
// parse always yields a root and diagnostics; without it the first
// diagnostic ends the parse.
func New(source string, recovery bool) *Parser {
	p := &Parser{}
	p.Init(lexer.Tokenize(source), recovery)
	return p
}

// Parse is the strict entry point: the first syntax error is returned and
// the partial tree discarded.
func Parse(source string) (*ast.Node, error) {
	p := New(source, false)
	root := p.Program()
	if p.HasErrors() {
		return nil, p.Errors()[0]
	}
	return root, nil
}

// ParseRecover is the tolerant entry point: always returns a root spanning
// every token, plus any diagnostics.
func ParseRecover(source string) (*ast.Node, []Diagnostic) {
	p := New(source, true)
	return p.Program(), p.Errors()
}

var statementStart = []token.Kind{
	token.VAR, token.LET, token.CONST, token.FUNCTION, token.IF, token.FOR,
	token.WHILE, token.DO, token.SWITCH, token.TRY, token.THROW, token.RETURN,
	token.BREAK, token.CONTINUE, token.L_CURLY, token.SEMI,
}

// Program parses statements until EOF and returns the PROGRAM node.
func (p *Parser) Program() *ast.Node {
	p.Enter(ast.PROGRAM)
	for p.Peek() != token.EOF && !p.Inert() {
		if !p.statement() {
			p.Errorf("expected statement")
			p.Enter(ast.ERROR)
			p.RecoverTo(statementStart...)
			p.ExitSoft()
		}
	}
	p.ConsumeIf(token.EOF)
	node := p.MarkerNode()
	p.Exit()
	return node
}

func (p *Parser) statement() bool {
	switch p.Peek() {
	case token.VAR, token.LET, token.CONST:
		return p.varStmt()
	case token.FUNCTION:
		return p.fnDeclStmt()
	case token.IF:
		return p.ifStmt()
	case token.FOR:
		return p.forStmt()
	case token.WHILE:
		return p.whileStmt()
	case token.DO:
		return p.doWhileStmt()
	case token.SWITCH:
		return p.switchStmt()
	case token.TRY:
		return p.tryStmt()
	case token.THROW:
		return p.throwStmt()
	case token.RETURN:
		return p.returnStmt()
	case token.BREAK:
		p.Enter(ast.BREAK_STMT, token.BREAK)
		p.ConsumeIf(token.SEMI)
		p.Exit()
		return true
	case token.CONTINUE:
		p.Enter(ast.CONTINUE_STMT, token.CONTINUE)
		p.ConsumeIf(token.SEMI)
		p.Exit()
		return true
	case token.L_CURLY:
		return p.block()
	case token.SEMI:
		p.Enter(ast.EMPTY_STMT, token.SEMI)
		p.Exit()
		return true
	case token.EOF:
		return false
	default:
		return p.exprStmt()
	}
}

func (p *Parser) varStmt() bool {
	if !p.Enter(ast.VAR_STMT, token.VAR, token.LET, token.CONST) {
		return false
	}
	for {
		if !p.bindingTarget() {
			p.ErrorExpected(token.IDENT)
			break
		}
		if p.ConsumeIf(token.EQ) {
			if !p.expr(prioAssign) {
				p.missingExpr()
			}
		}
		if !p.ConsumeIf(token.COMMA) {
			break
		}
	}
	p.ConsumeIf(token.SEMI)
	p.Exit()
	return true
}

// bindingTarget parses a declaration target: an identifier or a
// destructuring pattern.
func (p *Parser) bindingTarget() bool {
	switch p.Peek() {
	case token.IDENT:
		p.ConsumeNext()
		return true
	case token.L_BRACKET:
		p.Enter(ast.PATTERN_ARRAY, token.L_BRACKET)
		for !p.PeekIf(token.R_BRACKET, token.EOF) {
			// elided slot: [a, , c]
			if p.ConsumeIf(token.COMMA) {
				continue
			}
			if p.PeekIf(token.DOT_DOT_DOT) {
				p.ConsumeNext()
			}
			if !p.bindingTarget() {
				p.ErrorExpected(token.IDENT)
				break
			}
			if !p.ConsumeIf(token.COMMA) {
				break
			}
		}
		p.ConsumeSoft(token.R_BRACKET)
		p.Exit()
		return true
	case token.L_CURLY:
		p.Enter(ast.PATTERN_OBJECT, token.L_CURLY)
		for !p.PeekIf(token.R_CURLY, token.EOF) {
			if p.PeekIf(token.DOT_DOT_DOT) {
				p.ConsumeNext()
				if !p.ConsumeSoft(token.IDENT) {
					break
				}
			} else {
				if !p.ConsumeSoft(token.IDENT) {
					break
				}
				if p.ConsumeIf(token.COLON) {
					if !p.bindingTarget() {
						p.ErrorExpected(token.IDENT)
						break
					}
				}
				// default: {a = 9}
				if p.ConsumeIf(token.EQ) {
					if !p.expr(prioAssign) {
						p.missingExpr()
					}
				}
			}
			if !p.ConsumeIf(token.COMMA) {
				break
			}
		}
		p.ConsumeSoft(token.R_CURLY)
		p.Exit()
		return true
	}
	return false
}

func (p *Parser) fnDeclStmt() bool {
	if !p.Enter(ast.FN_DECL_STMT, token.FUNCTION) {
		return false
	}
	p.ConsumeSoft(token.IDENT)
	p.fnArgs()
	p.fnBody()
	p.Exit()
	return true
}

func (p *Parser) fnArgs() {
	if !p.Enter(ast.FN_DECL_ARGS, token.L_PAREN) {
		p.ErrorExpected(token.L_PAREN)
		return
	}
	for !p.PeekIf(token.R_PAREN, token.EOF) {
		p.fnArg()
		if !p.ConsumeIf(token.COMMA) {
			break
		}
	}
	p.ConsumeSoft(token.R_PAREN)
	p.Exit()
}

func (p *Parser) fnArg() {
	p.Enter(ast.FN_DECL_ARG)
	p.ConsumeIf(token.DOT_DOT_DOT)
	if !p.bindingTarget() {
		p.ErrorExpected(token.IDENT)
		p.ExitSoft()
		return
	}
	if p.ConsumeIf(token.EQ) {
		if !p.expr(prioAssign) {
			p.missingExpr()
		}
	}
	p.Exit()
}

func (p *Parser) fnBody() {
	if !p.Enter(ast.FN_BODY, token.L_CURLY) {
		p.ErrorExpected(token.L_CURLY)
		return
	}
	for !p.PeekIf(token.R_CURLY, token.EOF) && !p.Inert() {
		if !p.statement() {
			p.Errorf("expected statement")
			p.Enter(ast.ERROR)
			p.RecoverTo(append([]token.Kind{token.R_CURLY}, statementStart...)...)
			p.ExitSoft()
		}
	}
	p.ConsumeSoft(token.R_CURLY)
	p.Exit()
}

func (p *Parser) block() bool {
	if !p.Enter(ast.BLOCK, token.L_CURLY) {
		return false
	}
	for !p.PeekIf(token.R_CURLY, token.EOF) && !p.Inert() {
		if !p.statement() {
			p.Errorf("expected statement")
			p.Enter(ast.ERROR)
			p.RecoverTo(append([]token.Kind{token.R_CURLY}, statementStart...)...)
			p.ExitSoft()
		}
	}
	p.ConsumeSoft(token.R_CURLY)
	p.Exit()
	return true
}

func (p *Parser) ifStmt() bool {
	if !p.Enter(ast.IF_STMT, token.IF) {
		return false
	}
	p.ConsumeSoft(token.L_PAREN)
	if !p.expr(prioAssign) {
		p.missingExpr()
	}
	p.ConsumeSoft(token.R_PAREN)
	if !p.statement() {
		p.Errorf("expected statement")
	}
	if p.ConsumeIf(token.ELSE) {
		if !p.statement() {
			p.Errorf("expected statement")
		}
	}
	p.Exit()
	return true
}

// forStmt parses classic, for-in and for-of forms; the header is
// disambiguated by scanning ahead for 'in' / 'of' before the first
// semicolon.
func (p *Parser) forStmt() bool {
	nodeType := p.forType()
	if !p.Enter(nodeType, token.FOR) {
		return false
	}
	p.ConsumeSoft(token.L_PAREN)
	switch nodeType {
	case ast.FOR_IN_STMT, ast.FOR_OF_STMT:
		p.AnyOf(token.VAR, token.LET, token.CONST)
		if !p.bindingTarget() {
			p.ErrorExpected(token.IDENT)
		}
		if nodeType == ast.FOR_IN_STMT {
			p.ConsumeSoft(token.IN)
		} else {
			p.ConsumeSoft(token.OF)
		}
		if !p.expr(prioAssign) {
			p.missingExpr()
		}
	default:
		if !p.PeekIf(token.SEMI) {
			p.noIn = true
			switch p.Peek() {
			case token.VAR, token.LET, token.CONST:
				p.varStmt()
			default:
				p.exprNoStmt()
			}
			p.noIn = false
		}
		p.ConsumeIf(token.SEMI) // varStmt may have taken it already
		if !p.PeekIf(token.SEMI) {
			if !p.expr(prioAssign) {
				p.missingExpr()
			}
		}
		p.ConsumeSoft(token.SEMI)
		if !p.PeekIf(token.R_PAREN) {
			if !p.expr(prioAssign) {
				p.missingExpr()
			}
		}
	}
	p.ConsumeSoft(token.R_PAREN)
	if !p.statement() {
		p.Errorf("expected statement")
	}
	p.Exit()
	return true
}

// forType scans the header to classify the for-statement form.
func (p *Parser) forType() ast.NodeType {
	depth := 0
	for i := 1; ; i++ {
		t := p.PeekAt(i)
		switch t.Kind {
		case token.EOF, token.SEMI:
			return ast.FOR_STMT
		case token.L_PAREN, token.L_BRACKET, token.L_CURLY:
			depth++
		case token.R_PAREN, token.R_BRACKET, token.R_CURLY:
			if depth == 0 {
				return ast.FOR_STMT
			}
			depth--
		case token.IN:
			if depth <= 1 {
				return ast.FOR_IN_STMT
			}
		case token.OF:
			if depth <= 1 {
				return ast.FOR_OF_STMT
			}
		}
	}
}

// exprNoStmt parses a bare expression in a for-header without wrapping it
// in an EXPR_STMT node.
func (p *Parser) exprNoStmt() {
	if !p.expr(prioAssign) {
		p.missingExpr()
	}
}

func (p *Parser) whileStmt() bool {
	if !p.Enter(ast.WHILE_STMT, token.WHILE) {
		return false
	}
	p.ConsumeSoft(token.L_PAREN)
	if !p.expr(prioAssign) {
		p.missingExpr()
	}
	p.ConsumeSoft(token.R_PAREN)
	if !p.statement() {
		p.Errorf("expected statement")
	}
	p.Exit()
	return true
}

func (p *Parser) doWhileStmt() bool {
	if !p.Enter(ast.DO_WHILE_STMT, token.DO) {
		return false
	}
	if !p.statement() {
		p.Errorf("expected statement")
	}
	p.ConsumeSoft(token.WHILE)
	p.ConsumeSoft(token.L_PAREN)
	if !p.expr(prioAssign) {
		p.missingExpr()
	}
	p.ConsumeSoft(token.R_PAREN)
	p.ConsumeIf(token.SEMI)
	p.Exit()
	return true
}

func (p *Parser) switchStmt() bool {
	if !p.Enter(ast.SWITCH_STMT, token.SWITCH) {
		return false
	}
	p.ConsumeSoft(token.L_PAREN)
	if !p.expr(prioAssign) {
		p.missingExpr()
	}
	p.ConsumeSoft(token.R_PAREN)
	p.ConsumeSoft(token.L_CURLY)
	for !p.PeekIf(token.R_CURLY, token.EOF) && !p.Inert() {
		switch p.Peek() {
		case token.CASE:
			p.Enter(ast.CASE_BLOCK, token.CASE)
			if !p.expr(prioAssign) {
				p.missingExpr()
			}
			p.ConsumeSoft(token.COLON)
			p.caseStatements()
			p.Exit()
		case token.DEFAULT:
			p.Enter(ast.DEFAULT_BLOCK, token.DEFAULT)
			p.ConsumeSoft(token.COLON)
			p.caseStatements()
			p.Exit()
		default:
			p.Errorf("expected case or default")
			p.Enter(ast.ERROR)
			p.RecoverTo(token.CASE, token.DEFAULT, token.R_CURLY)
			p.ExitSoft()
		}
	}
	p.ConsumeSoft(token.R_CURLY)
	p.Exit()
	return true
}

func (p *Parser) caseStatements() {
	for !p.PeekIf(token.CASE, token.DEFAULT, token.R_CURLY, token.EOF) && !p.Inert() {
		if !p.statement() {
			p.Errorf("expected statement")
			p.Enter(ast.ERROR)
			p.RecoverTo(token.CASE, token.DEFAULT, token.R_CURLY)
			p.ExitSoft()
			return
		}
	}
}

func (p *Parser) tryStmt() bool {
	if !p.Enter(ast.TRY_STMT, token.TRY) {
		return false
	}
	if !p.block() {
		p.ErrorExpected(token.L_CURLY)
	}
	if p.Enter(ast.CATCH_BLOCK, token.CATCH) {
		if p.ConsumeIf(token.L_PAREN) {
			p.ConsumeSoft(token.IDENT)
			p.ConsumeSoft(token.R_PAREN)
		}
		if !p.block() {
			p.ErrorExpected(token.L_CURLY)
		}
		p.Exit()
	}
	if p.Enter(ast.FINALLY_BLOCK, token.FINALLY) {
		if !p.block() {
			p.ErrorExpected(token.L_CURLY)
		}
		p.Exit()
	}
	p.Exit()
	return true
}

func (p *Parser) throwStmt() bool {
	if !p.Enter(ast.THROW_STMT, token.THROW) {
		return false
	}
	if !p.expr(prioAssign) {
		p.missingExpr()
	}
	p.ConsumeIf(token.SEMI)
	p.Exit()
	return true
}

func (p *Parser) returnStmt() bool {
	if !p.Enter(ast.RETURN_STMT, token.RETURN) {
		return false
	}
	if !p.PeekIf(token.SEMI, token.R_CURLY, token.EOF) {
		if !p.expr(prioAssign) {
			p.missingExpr()
		}
	}
	p.ConsumeIf(token.SEMI)
	p.Exit()
	return true
}

func (p *Parser) exprStmt() bool {
	p.Enter(ast.EXPR_STMT)
	if !p.expr(prioAssign) {
		return p.ExitIf(false)
	}
	p.ConsumeIf(token.SEMI)
	p.Exit()
	return true
}

// missingExpr records the absence of an expected expression and leaves an
// empty ERROR node in its place so the tree shape stays intact.
func (p *Parser) missingExpr() {
	p.Errorf("expected expression")
	p.Enter(ast.ERROR)
	p.ExitSoft()
}

// expr parses an expression whose operators all bind at least as tightly as
// min. The marker protocol keeps the current subtree as the last child of
// the open node; binary and postfix forms exit with a shift to pull it in.
func (p *Parser) expr(min int) bool {
	if !p.unary() {
		return false
	}
	for !p.Inert() {
		k := p.Peek()
		if isAssignOp(k) && min <= prioAssign {
			p.Enter(ast.ASSIGN_EXPR)
			p.ConsumeNext()
			if !p.expr(prioAssign + 1) {
				p.missingExpr()
			}
			p.ExitShift(ShiftRight)
			continue
		}
		if k == token.QUES && min <= prioTernary {
			p.Enter(ast.TERNARY_EXPR)
			p.ConsumeNext()
			if !p.expr(prioAssign) {
				p.missingExpr()
			}
			p.ConsumeSoft(token.COLON)
			if !p.expr(prioAssign) {
				p.missingExpr()
			}
			p.ExitShift(ShiftLeft)
			continue
		}
		prio, nodeType, rightAssoc := p.binaryOp(k)
		if prio == 0 || prio < min {
			return true
		}
		p.Enter(nodeType)
		p.ConsumeNext()
		next := prio + 1
		if rightAssoc {
			next = prio
		}
		if !p.expr(next) {
			p.missingExpr()
		}
		p.ExitShift(ShiftLeft)
	}
	return true
}

func isAssignOp(k token.Kind) bool {
	switch k {
	case token.EQ, token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ,
		token.SLASH_EQ, token.PERCENT_EQ, token.STAR_STAR_EQ, token.AMP_EQ,
		token.PIPE_EQ, token.CARET_EQ, token.LT_LT_EQ, token.GT_GT_EQ,
		token.GT_GT_GT_EQ, token.AMP_AMP_EQ, token.PIPE_PIPE_EQ,
		token.QUES_QUES_EQ:
		return true
	}
	return false
}

// binaryOp returns the priority, node type and associativity for a binary
// operator kind, or priority 0 when the kind is not a binary operator.
func (p *Parser) binaryOp(k token.Kind) (int, ast.NodeType, bool) {
	switch k {
	case token.QUES_QUES:
		return prioNullish, ast.LOGIC_EXPR, false
	case token.PIPE_PIPE:
		return prioOr, ast.LOGIC_EXPR, false
	case token.AMP_AMP:
		return prioAnd, ast.LOGIC_EXPR, false
	case token.PIPE:
		return prioBitOr, ast.BINARY_EXPR, false
	case token.CARET:
		return prioBitXor, ast.BINARY_EXPR, false
	case token.AMP:
		return prioBitAnd, ast.BINARY_EXPR, false
	case token.EQ_EQ, token.EQ_EQ_EQ, token.NOT_EQ, token.NOT_EQ_EQ:
		return prioEquality, ast.BINARY_EXPR, false
	case token.LT, token.GT, token.LT_EQ, token.GT_EQ:
		return prioRelational, ast.BINARY_EXPR, false
	case token.INSTANCEOF:
		return prioRelational, ast.INSTANCEOF_EXPR, false
	case token.IN:
		if p.noIn {
			return 0, ast.ERROR, false
		}
		return prioRelational, ast.BINARY_EXPR, false
	case token.LT_LT, token.GT_GT, token.GT_GT_GT:
		return prioShift, ast.BINARY_EXPR, false
	case token.PLUS, token.MINUS:
		return prioAdditive, ast.BINARY_EXPR, false
	case token.STAR, token.SLASH, token.PERCENT:
		return prioMultiplicative, ast.BINARY_EXPR, false
	case token.STAR_STAR:
		return prioExponent, ast.BINARY_EXPR, true
	}
	return 0, ast.ERROR, false
}

// unary parses prefix forms, then the postfix chain.
func (p *Parser) unary() bool {
	switch p.Peek() {
	case token.NOT, token.TILDE, token.PLUS, token.MINUS,
		token.PLUS_PLUS, token.MINUS_MINUS:
		p.Enter(ast.UNARY_EXPR)
		p.ConsumeNext()
		if !p.unary() {
			p.missingExpr()
		}
		p.Exit()
		return true
	case token.TYPEOF:
		p.Enter(ast.TYPEOF_EXPR, token.TYPEOF)
		if !p.unary() {
			p.missingExpr()
		}
		p.Exit()
		return true
	case token.DELETE:
		p.Enter(ast.DELETE_EXPR, token.DELETE)
		if !p.unary() {
			p.missingExpr()
		}
		p.Exit()
		return true
	case token.NEW:
		p.Enter(ast.NEW_EXPR, token.NEW)
		if !p.memberExpr() {
			p.missingExpr()
		}
		if p.PeekIf(token.L_PAREN) {
			p.callArgs()
		}
		p.Exit()
		return p.postfixLoop()
	}
	if !p.primary() {
		return false
	}
	return p.postfixLoop()
}

// memberExpr parses a primary plus dot/bracket accesses but no call, for
// the callee of a new-expression.
func (p *Parser) memberExpr() bool {
	if !p.primary() {
		return false
	}
	for {
		switch p.Peek() {
		case token.DOT:
			p.Enter(ast.DOT_EXPR)
			p.ConsumeNext()
			p.propertyName()
			p.ExitShift(ShiftLeft)
		case token.L_BRACKET:
			p.Enter(ast.BRACKET_EXPR)
			p.ConsumeNext()
			if !p.expr(prioAssign) {
				p.missingExpr()
			}
			p.ConsumeSoft(token.R_BRACKET)
			p.ExitShift(ShiftLeft)
		default:
			return true
		}
	}
}

// postfixLoop extends the last parsed expression with call, member, index,
// optional-chain and postfix increment forms, left to right.
func (p *Parser) postfixLoop() bool {
	for !p.Inert() {
		switch p.Peek() {
		case token.DOT, token.QUES_DOT:
			p.Enter(ast.DOT_EXPR)
			p.ConsumeNext()
			if p.PeekIf(token.L_BRACKET) {
				// optional chained index: a?.[0]
				p.ConsumeNext()
				if !p.expr(prioAssign) {
					p.missingExpr()
				}
				p.ConsumeSoft(token.R_BRACKET)
			} else if p.PeekIf(token.L_PAREN) {
				// optional chained call: a?.()
				p.callArgs()
			} else {
				p.propertyName()
			}
			p.ExitShift(ShiftLeft)
		case token.L_BRACKET:
			p.Enter(ast.BRACKET_EXPR)
			p.ConsumeNext()
			if !p.expr(prioAssign) {
				p.missingExpr()
			}
			p.ConsumeSoft(token.R_BRACKET)
			p.ExitShift(ShiftLeft)
		case token.L_PAREN:
			p.Enter(ast.FN_CALL_EXPR)
			p.callArgs()
			p.ExitShift(ShiftLeft)
		case token.PLUS_PLUS, token.MINUS_MINUS:
			p.Enter(ast.POST_EXPR)
			p.ConsumeNext()
			p.ExitShift(ShiftLeft)
		default:
			return true
		}
	}
	return true
}

// propertyName consumes a member name after a dot; keywords are valid
// property names in that position.
func (p *Parser) propertyName() {
	if p.PeekIf(token.IDENT) || p.Peek().Keyword() {
		p.ConsumeNext()
		return
	}
	p.ErrorExpected(token.IDENT)
}

func (p *Parser) callArgs() {
	if !p.Enter(ast.FN_CALL_ARGS, token.L_PAREN) {
		p.ErrorExpected(token.L_PAREN)
		return
	}
	for !p.PeekIf(token.R_PAREN, token.EOF) {
		if p.PeekIf(token.DOT_DOT_DOT) {
			p.Enter(ast.SPREAD_EXPR, token.DOT_DOT_DOT)
			if !p.expr(prioAssign) {
				p.missingExpr()
			}
			p.Exit()
		} else if !p.expr(prioAssign) {
			p.missingExpr()
			break
		}
		if !p.ConsumeIf(token.COMMA) {
			break
		}
	}
	p.ConsumeSoft(token.R_PAREN)
	p.Exit()
}

func (p *Parser) primary() bool {
	switch p.Peek() {
	case token.NUMBER, token.S_STRING, token.D_STRING,
		token.TRUE, token.FALSE, token.NULL, token.UNDEFINED:
		p.Enter(ast.LIT_EXPR)
		p.ConsumeNext()
		p.Exit()
		return true
	case token.REGEX:
		p.Enter(ast.REGEX_LIT, token.REGEX)
		p.Exit()
		return true
	case token.IDENT:
		if p.PeekAt(1).Kind == token.ARROW {
			return p.arrowFn()
		}
		p.Enter(ast.REF_EXPR, token.IDENT)
		p.Exit()
		return true
	case token.THIS:
		p.Enter(ast.REF_EXPR, token.THIS)
		p.Exit()
		return true
	case token.FUNCTION:
		p.Enter(ast.FN_EXPR, token.FUNCTION)
		p.ConsumeIf(token.IDENT)
		p.fnArgs()
		p.fnBody()
		p.Exit()
		return true
	case token.L_PAREN:
		if p.isArrowAhead() {
			return p.arrowFn()
		}
		p.Enter(ast.PAREN_EXPR, token.L_PAREN)
		if !p.expr(prioAssign) {
			p.missingExpr()
		}
		p.ConsumeSoft(token.R_PAREN)
		p.Exit()
		return true
	case token.L_BRACKET:
		return p.arrayLit()
	case token.L_CURLY:
		return p.objectLit()
	case token.BACKTICK:
		return p.templateLit()
	}
	return false
}

// isArrowAhead scans past a parenthesized group to see if "=>" follows.
func (p *Parser) isArrowAhead() bool {
	depth := 0
	for i := 0; ; i++ {
		t := p.PeekAt(i)
		switch t.Kind {
		case token.EOF:
			return false
		case token.L_PAREN:
			depth++
		case token.R_PAREN:
			depth--
			if depth == 0 {
				return p.PeekAt(i+1).Kind == token.ARROW
			}
		}
	}
}

func (p *Parser) arrowFn() bool {
	p.Enter(ast.FN_ARROW_EXPR)
	if p.PeekIf(token.IDENT) {
		p.Enter(ast.FN_DECL_ARGS)
		p.fnArg()
		p.Exit()
	} else {
		p.fnArgs()
	}
	if !p.ConsumeSoft(token.ARROW) {
		p.ExitSoft()
		return true
	}
	if p.PeekIf(token.L_CURLY) {
		p.fnBody()
	} else {
		if !p.expr(prioAssign) {
			p.missingExpr()
		}
	}
	p.Exit()
	return true
}

func (p *Parser) arrayLit() bool {
	if !p.Enter(ast.LIT_ARRAY, token.L_BRACKET) {
		return false
	}
	for !p.PeekIf(token.R_BRACKET, token.EOF) {
		if p.PeekIf(token.COMMA) {
			// elision: hole stays representable as consecutive commas
			p.ConsumeNext()
			continue
		}
		if p.PeekIf(token.DOT_DOT_DOT) {
			p.Enter(ast.SPREAD_EXPR, token.DOT_DOT_DOT)
			if !p.expr(prioAssign) {
				p.missingExpr()
			}
			p.Exit()
		} else if !p.expr(prioAssign) {
			p.missingExpr()
			break
		}
		if !p.PeekIf(token.COMMA, token.R_BRACKET) {
			break
		}
	}
	p.ConsumeSoft(token.R_BRACKET)
	p.Exit()
	return true
}

func (p *Parser) objectLit() bool {
	if !p.Enter(ast.LIT_OBJECT, token.L_CURLY) {
		return false
	}
	for !p.PeekIf(token.R_CURLY, token.EOF) {
		p.objectEntry()
		if !p.ConsumeIf(token.COMMA) {
			break
		}
	}
	p.ConsumeSoft(token.R_CURLY)
	p.Exit()
	return true
}

func (p *Parser) objectEntry() {
	p.Enter(ast.LIT_OBJECT_ENTRY)
	switch {
	case p.PeekIf(token.DOT_DOT_DOT):
		p.Enter(ast.SPREAD_EXPR, token.DOT_DOT_DOT)
		if !p.expr(prioAssign) {
			p.missingExpr()
		}
		p.Exit()
	case p.PeekIf(token.L_BRACKET):
		// computed key
		p.ConsumeNext()
		if !p.expr(prioAssign) {
			p.missingExpr()
		}
		p.ConsumeSoft(token.R_BRACKET)
		p.ConsumeSoft(token.COLON)
		if !p.expr(prioAssign) {
			p.missingExpr()
		}
	case p.PeekIf(token.S_STRING, token.D_STRING, token.NUMBER) ||
		p.PeekIf(token.IDENT) || p.Peek().Keyword():
		p.ConsumeNext()
		if p.ConsumeIf(token.COLON) {
			if !p.expr(prioAssign) {
				p.missingExpr()
			}
		} else if p.PeekIf(token.L_PAREN) {
			// method shorthand
			p.Enter(ast.FN_EXPR)
			p.fnArgs()
			p.fnBody()
			p.Exit()
		}
		// bare key is identifier shorthand
	default:
		p.Errorf("expected object entry")
	}
	p.ExitSoft()
}

func (p *Parser) templateLit() bool {
	if !p.Enter(ast.LIT_TEMPLATE, token.BACKTICK) {
		return false
	}
	for !p.Inert() {
		switch p.Peek() {
		case token.T_STRING:
			p.ConsumeNext()
		case token.DOLLAR_L_CURLY:
			p.Enter(ast.PLACEHOLDER, token.DOLLAR_L_CURLY)
			if !p.expr(prioAssign) {
				p.missingExpr()
			}
			p.ConsumeSoft(token.R_CURLY)
			p.Exit()
		case token.BACKTICK:
			p.ConsumeNext()
			p.Exit()
			return true
		default:
			p.ErrorExpected(token.BACKTICK)
			p.ExitSoft()
			return true
		}
	}
	p.ExitSoft()
	return true
}
