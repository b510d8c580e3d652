package parser

import (
	"fmt"
	"strings"

	"github.com/karatelabs/karate-js/ast"
	"github.com/karatelabs/karate-js/token"
)

const maxDepth = 128

// Shift controls how a node attaches to its parent on exit. Left pulls the
// previous sibling in as the first child (left-associative operators);
// Right additionally re-nests when the previous sibling has the same type,
// so chained assignments group rightwards.
type Shift int

const (
	ShiftNone Shift = iota
	ShiftLeft
	ShiftRight
)

// Diagnostic is a recoverable syntax error: an expectation that failed at a
// token. When recovery is enabled diagnostics accumulate instead of ending
// the parse.
type Diagnostic struct {
	Token    *token.Token
	Message  string
	Expected token.Kind // zero (ILLEGAL) when no single kind was expected
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("parse error at %s: %s", d.Token.PositionDisplay(), d.Message)
}

// Line, Col and Offset expose the diagnostic position for reporting.
func (d Diagnostic) Line() int   { return d.Token.Line }
func (d Diagnostic) Col() int    { return d.Token.Col }
func (d Diagnostic) Offset() int { return d.Token.Pos }

// Base is the shared recursive-descent machinery: a marker stack of open
// nodes, peek/consume over the primary token stream, and the error-recovery
// protocol. Grammars embed it and drive it from their productions.
//
// With recovery enabled a failed expectation records a diagnostic and
// parsing continues; the grammar is expected to route unattributable tokens
// into an ERROR node via RecoverTo. With recovery disabled the first
// diagnostic is terminal: the parser goes inert and the caller receives the
// partial tree plus the diagnostic. Neither mode panics.
type Base struct {
	buf      *token.Buffer
	tokens   []*token.Token
	position int
	eof      *token.Token

	nodeStack []*ast.Node
	posStack  []int

	recovery     bool
	errors       []Diagnostic
	lastRecovery int
	inert        bool // set on first error when recovery is disabled
}

// Init prepares the base over a lexed buffer. The grammar operates on the
// primary tokens only; trivia stays in the buffer for round-tripping.
func (p *Base) Init(buf *token.Buffer, recovery bool) {
	p.buf = buf
	p.tokens = buf.Primary()
	p.eof = p.tokens[len(p.tokens)-1]
	p.recovery = recovery
	p.lastRecovery = -1
	p.nodeStack = make([]*ast.Node, 1, maxDepth)
	p.posStack = make([]int, 1, maxDepth)
	p.nodeStack[0] = ast.NewNode(ast.ROOT)
}

// Buffer returns the token buffer the parse is running over.
func (p *Base) Buffer() *token.Buffer {
	return p.buf
}

// Errors returns the diagnostics collected so far.
func (p *Base) Errors() []Diagnostic {
	return p.errors
}

func (p *Base) HasErrors() bool {
	return len(p.errors) > 0
}

// MarkerNode returns the node currently being built.
func (p *Base) MarkerNode() *ast.Node {
	return p.nodeStack[len(p.nodeStack)-1]
}

// IsCallerType reports whether the enclosing open node has the given type.
func (p *Base) IsCallerType(t ast.NodeType) bool {
	n := len(p.nodeStack)
	return n >= 2 && p.nodeStack[n-2].Type == t
}

// Errorf records a diagnostic at the current token.
func (p *Base) Errorf(format string, args ...any) {
	p.diagnose(Diagnostic{Token: p.PeekToken(), Message: fmt.Sprintf(format, args...)})
}

// ErrorExpected records an expectation diagnostic at the current token.
func (p *Base) ErrorExpected(expected ...token.Kind) {
	parts := make([]string, len(expected))
	for i, k := range expected {
		parts[i] = k.String()
	}
	p.diagnose(Diagnostic{
		Token:    p.PeekToken(),
		Message:  "expected: " + strings.Join(parts, " | "),
		Expected: expected[0],
	})
}

func (p *Base) diagnose(d Diagnostic) {
	if p.inert {
		return
	}
	p.errors = append(p.errors, d)
	if !p.recovery {
		p.inert = true
	}
}

// Inert reports whether a terminal error has stopped the parse.
func (p *Base) Inert() bool {
	return p.inert
}

// RecoverTo skips tokens into the open node until one of the recovery kinds
// (or EOF) is found. If called twice from the same position it forces one
// token forward so recovery always makes progress.
func (p *Base) RecoverTo(recoveryKinds ...token.Kind) bool {
	if p.position == p.lastRecovery && p.Peek() != token.EOF {
		p.ConsumeNext()
	}
	p.lastRecovery = p.position
	for {
		current := p.Peek()
		if current == token.EOF {
			return false
		}
		for _, k := range recoveryKinds {
			if current == k {
				return true
			}
		}
		p.ConsumeNext()
	}
}

// Enter opens a node of the given type. With expected kinds, the node opens
// only if the next token matches one of them (the token is then consumed as
// the node's first child) and the return value says whether it did.
func (p *Base) Enter(t ast.NodeType, expected ...token.Kind) bool {
	if len(expected) > 0 && !p.PeekIf(expected...) {
		return false
	}
	if len(p.nodeStack) >= maxDepth && !p.inert {
		// depth cap: report once and go inert; the push still happens so
		// Enter and Exit stay balanced while the recursion unwinds
		p.Errorf("too much recursion")
		p.inert = true
	}
	p.posStack = append(p.posStack, p.position)
	p.nodeStack = append(p.nodeStack, ast.NewNode(t))
	if len(expected) > 0 {
		p.ConsumeNext()
	}
	return true
}

// Exit closes the current node and attaches it to its parent.
func (p *Base) Exit() {
	p.exit(true, false, ShiftNone)
}

// ExitShift closes the current node, re-parenting per the shift mode.
func (p *Base) ExitShift(shift Shift) {
	p.exit(true, false, shift)
}

// ExitIf keeps the node when result is true, otherwise discards it and
// rewinds the token position to where the node began.
func (p *Base) ExitIf(result bool) bool {
	return p.exit(result, false, ShiftNone)
}

// ExitRequired is like ExitIf but records an expectation diagnostic when
// the result is false.
func (p *Base) ExitRequired(result bool) bool {
	return p.exit(result, true, ShiftNone)
}

// ExitSoft closes the current node even if structurally incomplete, so a
// partial node is still attached to its parent instead of being dropped.
func (p *Base) ExitSoft() {
	p.exit(true, false, ShiftNone)
}

func (p *Base) exit(result, mandatory bool, shift Shift) bool {
	n := len(p.nodeStack)
	node := p.nodeStack[n-1]
	if mandatory && !result {
		p.Errorf("expected: %s", node.Type)
	}
	if result {
		parent := p.nodeStack[n-2]
		if parent.IsEmpty() && shift != ShiftNone {
			shift = ShiftNone // no sibling to pull in; can happen mid-recovery
		}
		switch shift {
		case ShiftLeft:
			prev := parent.RemoveLast()
			node.AddFirst(prev)
			parent.Add(node)
		case ShiftNone:
			parent.Add(node)
		case ShiftRight:
			prev := parent.RemoveLast()
			if prev.Type == node.Type {
				// a = b = c: regroup so the tree nests to the right
				regrouped := ast.NewNode(node.Type)
				parent.Add(regrouped)
				regrouped.Add(prev.Get(0)) // previous lhs
				regrouped.Add(prev.Get(1)) // operator
				rhs := ast.NewNode(node.Type)
				regrouped.Add(rhs)
				rhs.Add(prev.Get(2)) // previous rhs becomes current lhs
				rhs.Add(node.Get(0)) // operator
				rhs.Add(node.Get(1)) // current rhs
			} else {
				node.AddFirst(prev)
				parent.Add(node)
			}
		}
	} else {
		p.position = p.posStack[n-1]
	}
	p.nodeStack = p.nodeStack[:n-1]
	p.posStack = p.posStack[:n-1]
	return result
}

// Peek returns the kind of the next token without consuming it.
func (p *Base) Peek() token.Kind {
	return p.PeekToken().Kind
}

// PeekToken returns the next token without consuming it.
func (p *Base) PeekToken() *token.Token {
	if p.inert || p.position >= len(p.tokens) {
		return p.eof
	}
	return p.tokens[p.position]
}

// PeekAt looks ahead by offset primary tokens (0 is the next token).
func (p *Base) PeekAt(offset int) *token.Token {
	if p.inert || p.position+offset >= len(p.tokens) {
		return p.eof
	}
	return p.tokens[p.position+offset]
}

func (p *Base) PeekIf(kinds ...token.Kind) bool {
	current := p.Peek()
	for _, k := range kinds {
		if current == k {
			return true
		}
	}
	return false
}

// Next consumes and returns the next token without attaching it to a node.
func (p *Base) Next() *token.Token {
	if p.inert || p.position >= len(p.tokens) {
		return p.eof
	}
	t := p.tokens[p.position]
	p.position++
	return t
}

// ConsumeNext consumes the next token as a leaf of the current node.
func (p *Base) ConsumeNext() {
	if p.inert || p.position >= len(p.tokens) {
		return
	}
	p.MarkerNode().Add(ast.NewTokenNode(p.Next()))
}

// Consume expects the given kind; on mismatch a diagnostic is recorded (and
// the token is not consumed).
func (p *Base) Consume(k token.Kind) {
	if !p.ConsumeIf(k) {
		p.ErrorExpected(k)
	}
}

// ConsumeIf consumes the next token into the current node if it matches.
func (p *Base) ConsumeIf(k token.Kind) bool {
	if p.PeekIf(k) {
		p.ConsumeNext()
		return true
	}
	return false
}

// ConsumeSoft is Consume for recovery-aware call sites: it reports whether
// the caller can continue (always true while recovering).
func (p *Base) ConsumeSoft(k token.Kind) bool {
	if p.ConsumeIf(k) {
		return true
	}
	p.ErrorExpected(k)
	return p.recovery && !p.inert
}

// AnyOf consumes the next token if it matches any of the kinds.
func (p *Base) AnyOf(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.ConsumeIf(k) {
			return true
		}
	}
	return false
}

// LastConsumed returns the kind of the most recent leaf of the current node.
func (p *Base) LastConsumed() token.Kind {
	node := p.MarkerNode()
	if node.IsEmpty() {
		return token.ILLEGAL
	}
	last := node.Last()
	if !last.IsToken() {
		return token.ILLEGAL
	}
	return last.Token.Kind
}

func (p *Base) String() string {
	var sb strings.Builder
	start := p.position - 7
	if start < 0 {
		start = 0
	}
	end := p.position + 7
	if end > len(p.tokens) {
		end = len(p.tokens)
	}
	for i := start; i < end; i++ {
		if i == p.position {
			sb.WriteString(">>")
		}
		sb.WriteString(p.tokens[i].String())
		sb.WriteByte(' ')
	}
	sb.WriteString("| current node: ")
	sb.WriteString(p.MarkerNode().Type.String())
	return sb.String()
}
