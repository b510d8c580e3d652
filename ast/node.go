package ast

import (
	"strings"

	"github.com/karatelabs/karate-js/token"
)

// NodeType tags every node in the generic syntax tree. Both grammars share
// one enumeration; TOKEN marks leaves and ERROR collects tokens that could
// not be attributed to any production.
type NodeType int

const (
	ERROR NodeType = iota
	TOKEN
	ROOT
	PROGRAM

	// statements
	VAR_STMT
	BLOCK
	IF_STMT
	FOR_STMT
	FOR_IN_STMT
	FOR_OF_STMT
	WHILE_STMT
	DO_WHILE_STMT
	SWITCH_STMT
	CASE_BLOCK
	DEFAULT_BLOCK
	TRY_STMT
	CATCH_BLOCK
	FINALLY_BLOCK
	THROW_STMT
	RETURN_STMT
	BREAK_STMT
	CONTINUE_STMT
	EXPR_STMT
	EMPTY_STMT
	FN_DECL_STMT

	// expressions
	PAREN_EXPR
	ASSIGN_EXPR
	TERNARY_EXPR
	LOGIC_EXPR
	BINARY_EXPR
	UNARY_EXPR
	POST_EXPR
	NEW_EXPR
	DELETE_EXPR
	TYPEOF_EXPR
	INSTANCEOF_EXPR
	FN_CALL_EXPR
	FN_CALL_ARGS
	DOT_EXPR
	BRACKET_EXPR
	REF_EXPR
	SPREAD_EXPR

	// function forms
	FN_EXPR
	FN_ARROW_EXPR
	FN_DECL_ARGS
	FN_DECL_ARG
	FN_BODY

	// literals
	LIT_EXPR
	LIT_ARRAY
	LIT_OBJECT
	LIT_OBJECT_ENTRY
	LIT_TEMPLATE
	PLACEHOLDER
	REGEX_LIT

	// destructuring patterns
	PATTERN_ARRAY
	PATTERN_OBJECT

	// feature-file nodes
	G_FEATURE
	G_TAGS
	G_NAME_DESC
	G_BACKGROUND
	G_SCENARIO
	G_OUTLINE
	G_EXAMPLES
	G_STEP
	G_TABLE
	G_ROW
	G_DOCSTRING
)

var nodeNames = [...]string{
	ERROR:            "ERROR",
	TOKEN:            "TOKEN",
	ROOT:             "ROOT",
	PROGRAM:          "PROGRAM",
	VAR_STMT:         "VAR_STMT",
	BLOCK:            "BLOCK",
	IF_STMT:          "IF_STMT",
	FOR_STMT:         "FOR_STMT",
	FOR_IN_STMT:      "FOR_IN_STMT",
	FOR_OF_STMT:      "FOR_OF_STMT",
	WHILE_STMT:       "WHILE_STMT",
	DO_WHILE_STMT:    "DO_WHILE_STMT",
	SWITCH_STMT:      "SWITCH_STMT",
	CASE_BLOCK:       "CASE_BLOCK",
	DEFAULT_BLOCK:    "DEFAULT_BLOCK",
	TRY_STMT:         "TRY_STMT",
	CATCH_BLOCK:      "CATCH_BLOCK",
	FINALLY_BLOCK:    "FINALLY_BLOCK",
	THROW_STMT:       "THROW_STMT",
	RETURN_STMT:      "RETURN_STMT",
	BREAK_STMT:       "BREAK_STMT",
	CONTINUE_STMT:    "CONTINUE_STMT",
	EXPR_STMT:        "EXPR_STMT",
	EMPTY_STMT:       "EMPTY_STMT",
	FN_DECL_STMT:     "FN_DECL_STMT",
	PAREN_EXPR:       "PAREN_EXPR",
	ASSIGN_EXPR:      "ASSIGN_EXPR",
	TERNARY_EXPR:     "TERNARY_EXPR",
	LOGIC_EXPR:       "LOGIC_EXPR",
	BINARY_EXPR:      "BINARY_EXPR",
	UNARY_EXPR:       "UNARY_EXPR",
	POST_EXPR:        "POST_EXPR",
	NEW_EXPR:         "NEW_EXPR",
	DELETE_EXPR:      "DELETE_EXPR",
	TYPEOF_EXPR:      "TYPEOF_EXPR",
	INSTANCEOF_EXPR:  "INSTANCEOF_EXPR",
	FN_CALL_EXPR:     "FN_CALL_EXPR",
	FN_CALL_ARGS:     "FN_CALL_ARGS",
	DOT_EXPR:         "DOT_EXPR",
	BRACKET_EXPR:     "BRACKET_EXPR",
	REF_EXPR:         "REF_EXPR",
	SPREAD_EXPR:      "SPREAD_EXPR",
	FN_EXPR:          "FN_EXPR",
	FN_ARROW_EXPR:    "FN_ARROW_EXPR",
	FN_DECL_ARGS:     "FN_DECL_ARGS",
	FN_DECL_ARG:      "FN_DECL_ARG",
	FN_BODY:          "FN_BODY",
	LIT_EXPR:         "LIT_EXPR",
	LIT_ARRAY:        "LIT_ARRAY",
	LIT_OBJECT:       "LIT_OBJECT",
	LIT_OBJECT_ENTRY: "LIT_OBJECT_ENTRY",
	LIT_TEMPLATE:     "LIT_TEMPLATE",
	PLACEHOLDER:      "PLACEHOLDER",
	REGEX_LIT:        "REGEX_LIT",
	PATTERN_ARRAY:    "PATTERN_ARRAY",
	PATTERN_OBJECT:   "PATTERN_OBJECT",
	G_FEATURE:        "G_FEATURE",
	G_TAGS:           "G_TAGS",
	G_NAME_DESC:      "G_NAME_DESC",
	G_BACKGROUND:     "G_BACKGROUND",
	G_SCENARIO:       "G_SCENARIO",
	G_OUTLINE:        "G_OUTLINE",
	G_EXAMPLES:       "G_EXAMPLES",
	G_STEP:           "G_STEP",
	G_TABLE:          "G_TABLE",
	G_ROW:            "G_ROW",
	G_DOCSTRING:      "G_DOCSTRING",
}

func (t NodeType) String() string {
	if t < 0 || int(t) >= len(nodeNames) {
		return "NodeType(?)"
	}
	return nodeNames[t]
}

// Node is a mutable tree element spanning a contiguous range of tokens.
// Leaves have type TOKEN and wrap exactly one token; interior nodes own an
// ordered list of children.
type Node struct {
	Type     NodeType
	Token    *token.Token // set for TOKEN leaves only
	children []*Node
	parent   *Node
}

func NewNode(t NodeType) *Node {
	return &Node{Type: t}
}

func NewTokenNode(t *token.Token) *Node {
	return &Node{Type: TOKEN, Token: t}
}

func (n *Node) IsToken() bool {
	return n.Type == TOKEN
}

func (n *Node) IsEOF() bool {
	return n.Type == TOKEN && n.Token.Kind == token.EOF
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Size() int {
	return len(n.children)
}

func (n *Node) IsEmpty() bool {
	return len(n.children) == 0
}

func (n *Node) Get(index int) *Node {
	return n.children[index]
}

func (n *Node) First() *Node {
	return n.children[0]
}

func (n *Node) Last() *Node {
	return n.children[len(n.children)-1]
}

func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) Add(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) AddFirst(child *Node) {
	child.parent = n
	n.children = append([]*Node{child}, n.children...)
}

// RemoveLast detaches and returns the most recently added child.
func (n *Node) RemoveLast() *Node {
	last := n.children[len(n.children)-1]
	n.children = n.children[:len(n.children)-1]
	last.parent = nil
	return last
}

// FirstToken returns the first token covered by this node's span.
func (n *Node) FirstToken() *token.Token {
	if n.IsToken() {
		return n.Token
	}
	for _, child := range n.children {
		if t := child.FirstToken(); t != nil {
			return t
		}
	}
	return nil
}

// LastToken returns the last token covered by this node's span.
func (n *Node) LastToken() *token.Token {
	if n.IsToken() {
		return n.Token
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if t := n.children[i].LastToken(); t != nil {
			return t
		}
	}
	return nil
}

// FindFirst does a depth-first search for the first node of the given type.
func (n *Node) FindFirst(t NodeType) *Node {
	for _, child := range n.children {
		if child.Type == t {
			return child
		}
		if found := child.FindFirst(t); found != nil {
			return found
		}
	}
	return nil
}

// FindAll collects every descendant node of the given type, depth-first.
func (n *Node) FindAll(t NodeType) []*Node {
	var results []*Node
	n.findAll(t, &results)
	return results
}

func (n *Node) findAll(t NodeType, results *[]*Node) {
	for _, child := range n.children {
		if child.Type == t {
			*results = append(*results, child)
		}
		child.findAll(t, results)
	}
}

// FindImmediate returns the direct children of the given type.
func (n *Node) FindImmediate(t NodeType) []*Node {
	var results []*Node
	for _, child := range n.children {
		if child.Type == t {
			results = append(results, child)
		}
	}
	return results
}

// FindFirstToken searches depth-first for the first leaf of the given kind.
func (n *Node) FindFirstToken(k token.Kind) *Node {
	for _, child := range n.children {
		if child.IsToken() {
			if child.Token.Kind == k {
				return child
			}
			continue
		}
		if found := child.FindFirstToken(k); found != nil {
			return found
		}
	}
	return nil
}

// FindTokens collects every leaf of the given kind, depth-first.
func (n *Node) FindTokens(k token.Kind) []*Node {
	var results []*Node
	n.findTokens(k, &results)
	return results
}

func (n *Node) findTokens(k token.Kind, results *[]*Node) {
	for _, child := range n.children {
		if child.IsToken() {
			if child.Token.Kind == k {
				*results = append(*results, child)
			}
		} else {
			child.findTokens(k, results)
		}
	}
}

// FindParent walks up the tree to the nearest ancestor of the given type.
func (n *Node) FindParent(t NodeType) *Node {
	p := n.parent
	for p != nil && p.Type != t {
		p = p.parent
	}
	return p
}

// Text concatenates the texts of the leaf tokens in this node's subtree.
// Trivia never appears as a leaf, so the result contains no whitespace that
// the grammar did not consume.
func (n *Node) Text() string {
	if n.IsToken() {
		return n.Token.Text
	}
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	if n.IsToken() {
		sb.WriteString(n.Token.Text)
		return
	}
	for _, child := range n.children {
		child.writeText(sb)
	}
}

// TextIn returns the exact source slice covered by this node's token span,
// whitespace and comments included.
func (n *Node) TextIn(source string) string {
	first := n.FirstToken()
	last := n.LastToken()
	if first == nil || last == nil {
		return ""
	}
	end := last.End()
	if end > len(source) {
		end = len(source)
	}
	return source[first.Pos:end]
}

func (n *Node) String() string {
	if n.IsToken() {
		return n.Token.Text
	}
	return "[" + n.Type.String() + "] " + n.Text()
}
